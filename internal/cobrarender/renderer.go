// SPDX-License-Identifier: MPL-2.0

package cobrarender

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/deliver/pkg/cmdtree"
)

// WarningsHeading introduces conflict warnings in the root help text.
const WarningsHeading = "Unavailable commands:"

var (
	// ErrSubcommandRequired is returned when a container command is invoked
	// without a subcommand.
	ErrSubcommandRequired = errors.New("a subcommand is required")
	// ErrInvalidValue is returned when a flag or argument is outside its
	// declared choices.
	ErrInvalidValue = errors.New("invalid value")
)

type (
	// Options configures a Renderer.
	Options struct {
		// Chooser is handed to prompt-for-choice commands.
		Chooser cmdtree.Chooser
	}

	// Renderer registers commands below one cobra command. It implements
	// cmdtree.Renderer and cmdtree.SharedOptionHost.
	Renderer struct {
		cmd  *cobra.Command
		path []string
		// shared are the bare options inherited from ancestors.
		shared []cmdtree.Option
		root   *rootState
	}

	rootState struct {
		cmd      *cobra.Command
		opts     Options
		baseLong string
		epilog   []string
	}
)

var (
	_ cmdtree.Renderer         = (*Renderer)(nil)
	_ cmdtree.SharedOptionHost = (*Renderer)(nil)
)

// New returns a Renderer that registers commands below root.
func New(root *cobra.Command, opts Options) *Renderer {
	return &Renderer{
		cmd:  root,
		root: &rootState{cmd: root, opts: opts, baseLong: root.Long},
	}
}

// Command returns the cobra command this renderer registers below.
func (r *Renderer) Command() *cobra.Command { return r.cmd }

// RegisterCommand implements cmdtree.Renderer.
func (r *Renderer) RegisterCommand(spec cmdtree.CommandSpec) (cmdtree.Renderer, error) {
	if existing := findSubcommand(r.cmd, spec.Name); existing != nil {
		return nil, fmt.Errorf("command %q is already defined on %q", spec.Name, r.cmd.CommandPath())
	}

	cmd := &cobra.Command{
		Use:   usage(spec),
		Short: spec.Description,
		Long:  long(spec),
		Args:  positionalArgs(spec),
	}
	if len(spec.Positionals) > 0 {
		cmd.ValidArgsFunction = completePositionals(spec.Positionals)
	}

	for _, o := range spec.Options {
		if err := addFlag(cmd, r.cmd, cmd.Flags(), o); err != nil {
			return nil, err
		}
	}
	for _, o := range spec.SharedOptions {
		if err := addFlag(cmd, r.cmd, cmd.PersistentFlags(), o); err != nil {
			return nil, err
		}
	}

	child := &Renderer{
		cmd:    cmd,
		path:   append(slices.Clone(r.path), spec.Name),
		shared: append(slices.Clone(r.shared), spec.SharedOptions...),
		root:   r.root,
	}

	switch {
	case spec.Handler != nil:
		cmd.RunE = child.run(spec)
	case spec.RequiresSubcommand:
		cmd.RunE = requireSubcommand
	}

	r.cmd.AddCommand(cmd)
	return child, nil
}

// AddEpilogLine implements cmdtree.Renderer. Lines are listed under
// WarningsHeading at the end of the root command's long help.
func (r *Renderer) AddEpilogLine(line string) {
	s := r.root
	s.epilog = append(s.epilog, line)

	var b strings.Builder
	b.WriteString(s.baseLong)
	if s.baseLong != "" {
		b.WriteString("\n\n")
	}
	b.WriteString(WarningsHeading)
	for _, l := range s.epilog {
		b.WriteString("\n  ")
		b.WriteString(l)
	}
	s.cmd.Long = b.String()
}

// AddSharedOptions implements cmdtree.SharedOptionHost by adding persistent
// flags to the receiver's command.
func (r *Renderer) AddSharedOptions(options []cmdtree.Option) error {
	for _, o := range options {
		if err := addFlag(r.cmd, r.cmd.Parent(), r.cmd.PersistentFlags(), o); err != nil {
			return err
		}
	}
	r.shared = append(r.shared, options...)
	return nil
}

// Epilog returns the lines added with AddEpilogLine.
func (r *Renderer) Epilog() []string { return slices.Clone(r.root.epilog) }

func (r *Renderer) run(spec cmdtree.CommandSpec) func(*cobra.Command, []string) error {
	options := append(slices.Clone(r.shared), spec.Options...)
	path := r.path
	handler := spec.Handler

	return func(cmd *cobra.Command, args []string) error {
		values, err := optionValues(cmd, options)
		if err != nil {
			return err
		}
		inv := cmdtree.Invocation{
			Path:        slices.Clone(path),
			Options:     values,
			Positionals: bindPositionals(spec.Positionals, args),
			Args:        slices.Clone(args),
			Stdin:       cmd.InOrStdin(),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
			Chooser:     r.root.opts.Chooser,
		}
		return cmdtree.Run(cmd.Context(), handler, inv)
	}
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	if err := cmd.Help(); err != nil {
		return err
	}
	return fmt.Errorf("%w for %q", ErrSubcommandRequired, cmd.CommandPath())
}

func usage(spec cmdtree.CommandSpec) string {
	parts := []string{spec.Name}
	for _, p := range spec.Positionals {
		parts = append(parts, p.Marker())
	}
	return strings.Join(parts, " ")
}

func long(spec cmdtree.CommandSpec) string {
	var b strings.Builder
	b.WriteString(spec.Description)
	if doc := positionalDocs(spec.Positionals); doc != "" {
		b.WriteString("\n\nArguments:\n")
		b.WriteString(doc)
	}
	for _, note := range spec.HelpNotes {
		b.WriteString("\n\n")
		b.WriteString(note)
	}
	return b.String()
}

func findSubcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
