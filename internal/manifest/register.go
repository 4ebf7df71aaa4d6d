// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/invowk/deliver/internal/shell"
	"github.com/invowk/deliver/pkg/cmdtree"
)

const (
	// EnvAgent holds the agent name while its script runs.
	EnvAgent = "DELIVER_AGENT"
	// EnvCommand holds the invoked command path, space-separated.
	EnvCommand = "DELIVER_COMMAND"
	// EnvOptionPrefix prefixes option values, e.g. DELIVER_OPT_DRY_RUN.
	EnvOptionPrefix = "DELIVER_OPT_"
)

// ScriptRunner executes manifest scripts.
type ScriptRunner interface {
	Run(ctx context.Context, s shell.Script, stdio shell.IO) error
}

// Register adds the manifest's commands and intents to c. Either every
// descriptor is added or none is. defaultKind applies when neither the
// command nor the manifest names a conflict policy.
func Register(c cmdtree.Collector, m *Manifest, run ScriptRunner, defaultKind cmdtree.ResolutionKind) error {
	ds, err := Descriptors(m, run, defaultKind)
	if err != nil {
		return err
	}
	for _, d := range ds {
		if _, err := cmdtree.BuildTree(d); err != nil {
			return fmt.Errorf("agent %q command %q: %w", m.Agent, d.Phrase, err)
		}
	}
	for _, d := range ds {
		if err := c.AddCommand(d); err != nil {
			return fmt.Errorf("agent %q command %q: %w", m.Agent, d.Phrase, err)
		}
	}
	return nil
}

// Descriptors turns the manifest into command descriptors. Intents become
// prompt-for-choice commands labelled with the agent name. Every script is
// syntax-checked here so broken manifests fail before any command runs.
func Descriptors(m *Manifest, run ScriptRunner, defaultKind cmdtree.ResolutionKind) ([]cmdtree.Descriptor, error) {
	ds := make([]cmdtree.Descriptor, 0, len(m.Commands)+len(m.Intents))

	for _, c := range m.Commands {
		kind := firstKind(c.Conflict, m.DefaultConflict, defaultKind)
		label := c.ChoiceLabel
		if label == "" {
			label = m.Agent
		}
		res, err := cmdtree.NewResolution(kind, c.Description, label)
		if err != nil {
			return nil, fmt.Errorf("agent %q command %q: %w", m.Agent, c.Phrase, err)
		}
		if err := shell.Check(scriptName(m, c.Phrase), c.Script); err != nil {
			return nil, err
		}

		options := make([]cmdtree.Option, 0, len(c.Options))
		for _, o := range c.Options {
			options = append(options, o.toOption())
		}
		positionals := make([]cmdtree.Positional, 0, len(c.Positionals))
		for _, p := range c.Positionals {
			positionals = append(positionals, p.toPositional())
		}

		ds = append(ds, cmdtree.Descriptor{
			Phrase:      c.Phrase,
			Description: c.Description,
			Handler:     cmdtree.Do(scriptAction(run, m, c.Phrase, c.Script)),
			Options:     options,
			Positionals: positionals,
			Aliases:     c.Aliases,
			Resolution:  res,
		})
	}

	for _, in := range m.Intents {
		source := in.Script
		if in.Command != "" {
			target := m.Command(in.Command)
			if target == nil {
				return nil, fmt.Errorf("agent %q intent %q: %w: command %q is not declared",
					m.Agent, in.Phrase, ErrInvalidManifest, in.Command)
			}
			source = target.Script
		} else if err := shell.Check(scriptName(m, in.Phrase), source); err != nil {
			return nil, err
		}

		description := in.Description
		if description == "" && in.Command != "" {
			description = m.Command(in.Command).Description
		}
		ds = append(ds, cmdtree.Descriptor{
			Phrase:      in.Phrase,
			Description: description,
			Handler:     cmdtree.Do(scriptAction(run, m, in.Phrase, source)),
			Resolution:  cmdtree.PromptForChoice{Description: description, ChoiceLabel: m.Agent},
		})
	}
	return ds, nil
}

func firstKind(kinds ...cmdtree.ResolutionKind) cmdtree.ResolutionKind {
	for _, k := range kinds {
		if k != "" {
			return k
		}
	}
	return cmdtree.KindUniqueOrFail
}

func scriptName(m *Manifest, phrase string) string {
	return m.Agent + ": " + phrase
}

func scriptAction(run ScriptRunner, m *Manifest, phrase, source string) cmdtree.Action {
	return func(ctx context.Context, inv cmdtree.Invocation) error {
		env := map[string]string{
			EnvAgent:   m.Agent,
			EnvCommand: strings.Join(inv.Path, " "),
		}
		for name, value := range inv.Options {
			env[OptionEnvName(name)] = value
		}
		return run.Run(ctx, shell.Script{
			Name:   scriptName(m, phrase),
			Source: source,
			Args:   inv.Args,
			Env:    env,
		}, shell.IO{Stdin: inv.Stdin, Stdout: inv.Stdout, Stderr: inv.Stderr})
	}
}

// OptionEnvName returns the environment variable carrying option name.
func OptionEnvName(name string) string {
	return EnvOptionPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
