// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/invowk/deliver/internal/manifest"
	"github.com/invowk/deliver/pkg/cmdtree"
)

// RenderAssemblyError creates a styled error card listing every conflict
// that kept the command tree from being assembled.
func RenderAssemblyError(err *cmdtree.AssemblyError) string {
	var sb strings.Builder

	sb.WriteString(renderHeaderStyle.Render("✗ Conflicting commands!"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%d command name(s) are claimed by more than one source and no policy resolves them.\n\n", len(err.Complaints))

	for _, c := range err.Complaints {
		sb.WriteString(renderCommandStyle.Render("'" + c.Command() + "'"))
		sb.WriteString("\n")
		sb.WriteString(renderLabelStyle.Render("  Reason: "))
		sb.WriteString(renderValueStyle.Render(strings.Join(c.Reasons, "; ")))
		sb.WriteString("\n")
		if len(c.Descriptions) > 0 {
			sb.WriteString(renderLabelStyle.Render("  Claimed by:"))
			sb.WriteString("\n")
			for _, d := range c.Descriptions {
				sb.WriteString(renderValueStyle.Render("    • " + d))
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString(renderHintStyle.Render("Set conflict = \"drop-with-warning\" or \"prompt-for-choice\" on one of the commands, or remove it from its manifest."))
	sb.WriteString("\n")
	return sb.String()
}

// renderSkillTree draws the optimized command tree below root.
func renderSkillTree(root *cmdtree.Node) string {
	t := tree.Root(TitleStyle.Render(root.Name())).
		Enumerator(tree.RoundedEnumerator)
	for _, child := range root.Children() {
		t.Child(skillBranch(child))
	}
	return t.String()
}

func skillBranch(n *cmdtree.Node) any {
	label := CmdStyle.Render(n.Name())
	if r, ok := n.Runnable(); ok {
		for _, p := range r.Positionals {
			label += " " + VerboseStyle.Render(p.Marker())
		}
	}
	label += "  " + SubtitleStyle.Render(cmdtree.RenderedDescription(n))
	if n.IsMerged() {
		label += " " + WarningStyle.Render("(combined)")
	}

	children := n.Children()
	if len(children) == 0 {
		return label
	}
	t := tree.Root(label)
	for _, child := range children {
		t.Child(skillBranch(child))
	}
	return t
}

// renderDiagnostics formats discovery problems, one per line.
func renderDiagnostics(diags []manifest.Diagnostic) string {
	var sb strings.Builder
	sb.WriteString(SubtitleStyle.Render("Diagnostics:"))
	sb.WriteString("\n")
	for _, d := range diags {
		marker := WarningStyle.Render("!")
		if d.Severity == manifest.SeverityError {
			marker = ErrorStyle.Render("✗")
		}
		fmt.Fprintf(&sb, "  %s %s\n", marker, d.Message)
		if d.Path != "" {
			fmt.Fprintf(&sb, "    %s\n", VerboseStyle.Render(d.Path))
		}
	}
	return sb.String()
}
