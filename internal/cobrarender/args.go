// SPDX-License-Identifier: MPL-2.0

package cobrarender

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/deliver/pkg/cmdtree"
)

// positionalArgs builds the cobra argument validator for spec.
func positionalArgs(spec cmdtree.CommandSpec) cobra.PositionalArgs {
	ps := spec.Positionals
	if len(ps) == 0 {
		if spec.RequiresSubcommand {
			return cobra.ArbitraryArgs
		}
		return cobra.NoArgs
	}
	return func(cmd *cobra.Command, args []string) error {
		return validateArguments(cmd.CommandPath(), args, ps)
	}
}

func validateArguments(command string, args []string, ps []cmdtree.Positional) error {
	minArgs, maxArgs := 0, len(ps)
	for _, p := range ps {
		if p.Required {
			minArgs++
		}
		if p.Variadic {
			maxArgs = -1
		}
	}
	if len(args) < minArgs {
		return fmt.Errorf("%q requires %d argument(s), received %d (usage: %s)", command, minArgs, len(args), markers(ps))
	}
	if maxArgs >= 0 && len(args) > maxArgs {
		return fmt.Errorf("%q accepts at most %d argument(s), received %d (usage: %s)", command, maxArgs, len(args), markers(ps))
	}

	for key, values := range bindPositionals(ps, args) {
		p := positionalByKey(ps, key)
		for _, v := range values {
			if !p.Accepts(v) {
				return fmt.Errorf("%w %q for <%s> (valid: %s)", ErrInvalidValue, v, key, strings.Join(p.Choices, ", "))
			}
		}
	}
	return nil
}

// bindPositionals assigns args to positionals in order; a variadic
// positional takes the rest.
func bindPositionals(ps []cmdtree.Positional, args []string) map[string][]string {
	bound := make(map[string][]string, len(ps))
	i := 0
	for _, p := range ps {
		if i >= len(args) {
			break
		}
		if p.Variadic {
			bound[p.Key] = append([]string(nil), args[i:]...)
			i = len(args)
			break
		}
		bound[p.Key] = []string{args[i]}
		i++
	}
	return bound
}

func positionalByKey(ps []cmdtree.Positional, key string) cmdtree.Positional {
	for _, p := range ps {
		if p.Key == key {
			return p
		}
	}
	return cmdtree.Positional{}
}

func markers(ps []cmdtree.Positional) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.Marker())
	}
	return strings.Join(parts, " ")
}

// positionalDocs lists the positionals for the long help.
func positionalDocs(ps []cmdtree.Positional) string {
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		status := "(optional)"
		if p.Required {
			status = "(required)"
		}
		if p.Variadic {
			status += " (variadic)"
		}
		line := fmt.Sprintf("  %-20s %s", p.Key, status)
		if p.Description != "" {
			line += " - " + p.Description
		}
		if len(p.Choices) > 0 {
			line += " [" + strings.Join(p.Choices, ", ") + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// completePositionals offers the choices of the positional being typed.
func completePositionals(ps []cmdtree.Positional) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		idx := len(args)
		if idx >= len(ps) {
			if len(ps) == 0 || !ps[len(ps)-1].Variadic {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			idx = len(ps) - 1
		}
		var out []string
		for _, c := range ps[idx].Choices {
			if strings.HasPrefix(c, toComplete) {
				out = append(out, c)
			}
		}
		if len(ps[idx].Choices) == 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
