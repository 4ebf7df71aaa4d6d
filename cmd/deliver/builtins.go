// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/invowk/deliver/internal/config"
	"github.com/invowk/deliver/internal/issue"
	"github.com/invowk/deliver/internal/manifest"
	"github.com/invowk/deliver/internal/tui"
	"github.com/invowk/deliver/pkg/cmdline"
	"github.com/invowk/deliver/pkg/cmdtree"
)

const optForce = "force"

// builtins holds the state the built-in commands report on. asm is filled
// in after the tree is assembled, before any command can run.
type builtins struct {
	app *App
	asm *Assembly
}

// registerBuiltins adds the commands deliver ships with. They take part in
// conflict resolution like any agent command.
func registerBuiltins(reg *cmdtree.Registry, app *App, asm *Assembly) error {
	b := &builtins{app: app, asm: asm}

	err := reg.AddGroup("show", "Show what deliver knows about", func(c cmdtree.Collector) error {
		if err := c.AddCommand(cmdtree.Descriptor{
			Phrase:      "skills",
			Description: "List every command available to you",
			Handler:     cmdtree.Do(b.showSkills),
		}); err != nil {
			return err
		}
		return c.AddCommand(cmdtree.Descriptor{
			Phrase:      "agents",
			Description: "List the agents whose manifests were loaded",
			Handler:     cmdtree.Do(b.showAgents),
		})
	})
	if err != nil {
		return err
	}

	err = reg.AddGroup("config", "Manage deliver configuration", func(c cmdtree.Collector) error {
		if err := c.AddCommand(cmdtree.Descriptor{
			Phrase:      "show",
			Description: "Show the effective configuration",
			Handler:     cmdtree.Do(b.configShow),
		}); err != nil {
			return err
		}
		return c.AddCommand(cmdtree.Descriptor{
			Phrase:      "init",
			Description: "Create a default configuration file",
			Handler:     cmdtree.Do(b.configInit),
			Options: []cmdtree.Option{
				{Name: optForce, Short: "f", Type: cmdtree.OptionBool, Description: "overwrite an existing configuration file"},
			},
		})
	})
	if err != nil {
		return err
	}

	return reg.AddCommand(cmdtree.Descriptor{
		Phrase:      "validate",
		Description: "Report manifest problems and resolved command conflicts",
		Handler:     cmdtree.Do(b.validate),
	})
}

func (b *builtins) showSkills(_ context.Context, inv cmdtree.Invocation) error {
	fmt.Fprintln(inv.Stdout, renderSkillTree(b.asm.Tree.Root))
	return nil
}

func (b *builtins) showAgents(_ context.Context, inv cmdtree.Invocation) error {
	if len(b.asm.Manifests) == 0 {
		fmt.Fprintln(inv.Stdout, SubtitleStyle.Render("No agents found."))
		fmt.Fprintln(inv.Stdout, SubtitleStyle.Render("Searched: "+strings.Join(b.app.manifestDirs(b.asm.Config), ", ")))
		renderIssue(inv.Stderr, issue.ManifestNotFoundId, b.asm.Config.UI.ColorScheme)
	}
	for _, m := range b.asm.Manifests {
		fmt.Fprintf(inv.Stdout, "%s %s\n", CmdStyle.Render(m.Agent), SubtitleStyle.Render("("+m.Path+")"))
		if m.Description != "" {
			fmt.Fprintf(inv.Stdout, "  %s\n", m.Description)
		}
		fmt.Fprintf(inv.Stdout, "  %s\n", VerboseStyle.Render(fmt.Sprintf("%d command(s), %d intent(s)", len(m.Commands), len(m.Intents))))
	}
	if len(b.asm.Diagnostics) > 0 {
		fmt.Fprintln(inv.Stdout)
		fmt.Fprint(inv.Stdout, renderDiagnostics(b.asm.Diagnostics))
	}
	return nil
}

func (b *builtins) validate(_ context.Context, inv cmdtree.Invocation) error {
	failed := 0
	for _, d := range b.asm.Diagnostics {
		if d.Severity == manifest.SeverityError {
			failed++
		}
	}

	fmt.Fprintln(inv.Stdout, TitleStyle.Render("Validation Summary"))
	fmt.Fprintf(inv.Stdout, "%s %d\n", SubtitleStyle.Render("Agents:"), len(b.asm.Manifests))
	fmt.Fprintf(inv.Stdout, "%s %d\n", SubtitleStyle.Render("Resolved conflicts:"), len(b.asm.Tree.Warnings))
	for _, w := range b.asm.Tree.Warnings {
		fmt.Fprintf(inv.Stdout, "  %s %s\n", WarningStyle.Render("!"), w.String())
	}
	if len(b.asm.Diagnostics) > 0 {
		fmt.Fprint(inv.Stdout, renderDiagnostics(b.asm.Diagnostics))
	}

	if failed > 0 {
		for _, id := range diagnosticIssues(b.asm.Diagnostics) {
			renderIssue(inv.Stderr, id, b.asm.Config.UI.ColorScheme)
		}
		fmt.Fprintln(inv.Stderr, ErrorStyle.Render(fmt.Sprintf("✗ %d manifest(s) failed to load", failed)))
		return &ExitError{Code: 1, Err: fmt.Errorf("%d manifest(s) failed to load", failed)}
	}
	fmt.Fprintln(inv.Stdout, SuccessStyle.Render("✓ All manifests loaded"))
	return nil
}

// diagnosticIssues returns the catalog entries that explain the error
// diagnostics, once each.
func diagnosticIssues(diags []manifest.Diagnostic) []issue.Id {
	var ids []issue.Id
	for _, d := range diags {
		if d.Severity != manifest.SeverityError {
			continue
		}
		id := issue.ManifestParseErrorId
		if errors.Is(d.Cause, cmdline.ErrInvalidPhrase) || errors.Is(d.Cause, cmdline.ErrInvalidAlias) {
			id = issue.InvalidPhraseId
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *builtins) configShow(_ context.Context, inv cmdtree.Invocation) error {
	cfg := b.asm.Config
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(inv.Stdout, "%s %s\n\n", SubtitleStyle.Render("Source:"), CmdStyle.Render(source))
	fmt.Fprint(inv.Stdout, config.GenerateCUE(cfg))
	return nil
}

func (b *builtins) configInit(ctx context.Context, inv cmdtree.Invocation) error {
	force := inv.Option(optForce) == "true"
	if !force {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			overwrite, err := b.app.confirmer(b.asm.Config).Confirm(ctx, tui.ConfirmOptions{
				Title:       "Overwrite " + path + "?",
				Description: "The current configuration will be replaced with the defaults.",
			})
			switch {
			case errors.Is(err, tui.ErrNotInteractive):
				fmt.Fprintf(inv.Stdout, "%s %s\n", WarningStyle.Render("Kept existing"), CmdStyle.Render(path))
				fmt.Fprintln(inv.Stdout, SubtitleStyle.Render("Use --force to overwrite it."))
				return nil
			case err != nil:
				return err
			case !overwrite:
				fmt.Fprintf(inv.Stdout, "%s %s\n", WarningStyle.Render("Kept existing"), CmdStyle.Render(path))
				return nil
			}
			force = true
		}
	}

	path, err := config.CreateDefaultConfig(force)
	if err != nil {
		return err
	}
	fmt.Fprintf(inv.Stdout, "%s %s\n", SuccessStyle.Render("✓ Created"), CmdStyle.Render(path))
	return nil
}
