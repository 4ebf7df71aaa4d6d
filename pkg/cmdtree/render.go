// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// maxRolledUpDescriptions is the largest number of child descriptions a
// container joins before falling back to a count.
const maxRolledUpDescriptions = 3

type (
	// Renderer is the outbound contract: a host command-line framework that
	// receives one registration per tree node.
	Renderer interface {
		// RegisterCommand registers spec below the receiver and returns the
		// renderer for its subcommands.
		RegisterCommand(spec CommandSpec) (Renderer, error)
		// AddEpilogLine appends a line to the root help epilog.
		AddEpilogLine(line string)
	}

	// SharedOptionHost is implemented by renderers that can attach options
	// shared by every command below them. Render uses it for the root's
	// bare options.
	SharedOptionHost interface {
		AddSharedOptions(options []Option) error
	}

	// CommandSpec is everything a render target needs for one command.
	CommandSpec struct {
		Name        string
		Description string
		HelpNotes   []string
		// Options belong to the command itself.
		Options []Option
		// SharedOptions are bare options inherited by subcommands.
		SharedOptions []Option
		Positionals   []Positional
		// RequiresSubcommand means the user must type one more word; Handler
		// is nil in that case.
		RequiresSubcommand bool
		Handler            Handler
	}
)

// Render registers the optimized tree with r, depth-first, and emits every
// warning once as an epilog line.
func Render(opt *Optimized, r Renderer) error {
	if opt == nil || opt.Root == nil {
		return fmt.Errorf("%w: nothing to render", ErrInvalidNode)
	}

	if len(opt.Root.options) > 0 {
		if host, ok := r.(SharedOptionHost); ok {
			if err := host.AddSharedOptions(slices.Clone(opt.Root.options)); err != nil {
				return err
			}
		}
	}
	for _, child := range opt.Root.children {
		if err := renderNode(nil, child, r); err != nil {
			return err
		}
	}
	for _, w := range opt.Warnings {
		r.AddEpilogLine(w.String())
	}
	return nil
}

// Spec returns the CommandSpec Render would register for n.
func Spec(n *Node) CommandSpec {
	spec := CommandSpec{
		Name:               n.name,
		Description:        RenderedDescription(n),
		HelpNotes:          slices.Clone(n.helpNotes),
		SharedOptions:      slices.Clone(n.options),
		RequiresSubcommand: n.RequiresSubcommand(),
	}

	switch {
	case n.IsRunnable():
		spec.Options = slices.Clone(n.runnable.Options)
		spec.Positionals = slices.Clone(n.runnable.Positionals)
		spec.Handler = n.runnable.Handler
	case spec.RequiresSubcommand:
		// The host prints help when the user stops here, so options of a
		// no-op payload only matter to the subcommands.
		if n.runnable != nil {
			spec.SharedOptions = unionOptions(spec.SharedOptions, n.runnable.Options)
		}
	default:
		if n.runnable != nil {
			spec.Options = slices.Clone(n.runnable.Options)
		}
		spec.Handler = Do(deadEnd)
	}
	return spec
}

// RenderedDescription is the help description of n: its own when runnable,
// otherwise rolled up from its children.
func RenderedDescription(n *Node) string {
	if n.IsRunnable() && n.description != PlaceholderDescription {
		return n.description
	}

	var descriptions []string
	for _, c := range n.children {
		d := RenderedDescription(c)
		if d == "" || slices.Contains(descriptions, d) {
			continue
		}
		descriptions = append(descriptions, d)
	}
	switch {
	case len(descriptions) == 0:
		if n.description == PlaceholderDescription {
			return ""
		}
		return n.description
	case len(descriptions) == 1:
		return descriptions[0]
	case len(descriptions) <= maxRolledUpDescriptions:
		return strings.Join(descriptions, " or ")
	default:
		return fmt.Sprintf("%d commands", len(descriptions))
	}
}

func renderNode(path []string, n *Node, r Renderer) error {
	sub, err := r.RegisterCommand(Spec(n))
	if err != nil {
		return fmt.Errorf("register '%s': %w", strings.Join(append(slices.Clone(path), n.name), " "), err)
	}
	childPath := append(slices.Clone(path), n.name)
	for _, c := range n.children {
		if err := renderNode(childPath, c, sub); err != nil {
			return err
		}
	}
	return nil
}

func deadEnd(context.Context, Invocation) error {
	return ErrNoHandler
}
