// SPDX-License-Identifier: MPL-2.0

package cobrarender

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/deliver/pkg/cmdtree"
)

// addFlag defines o on fs with its declared type and default. parent is the
// command cmd will be attached to; its persistent flags are inherited by cmd
// and must not clash.
func addFlag(cmd, parent *cobra.Command, fs *pflag.FlagSet, o cmdtree.Option) error {
	if err := o.Validate(); err != nil {
		return err
	}
	sets := []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()}
	for p := parent; p != nil; p = p.Parent() {
		sets = append(sets, p.PersistentFlags())
	}
	for _, set := range sets {
		if set.Lookup(o.Name) != nil {
			return &cmdtree.InvalidOptionError{Name: o.Name, Reason: "flag is already defined on " + cmd.Name()}
		}
		if o.Short != "" && set.ShorthandLookup(o.Short) != nil {
			return &cmdtree.InvalidOptionError{Name: o.Name, Reason: fmt.Sprintf("shorthand -%s is already in use", o.Short)}
		}
	}

	usage := o.Description
	if len(o.Choices) > 0 {
		usage = strings.TrimSpace(usage + " (one of: " + strings.Join(o.Choices, ", ") + ")")
	}

	switch o.GetType() {
	case cmdtree.OptionBool:
		def, err := parseDefault(o, strconv.ParseBool, false)
		if err != nil {
			return err
		}
		fs.BoolP(o.Name, o.Short, def, usage)
	case cmdtree.OptionInt:
		def, err := parseDefault(o, strconv.Atoi, 0)
		if err != nil {
			return err
		}
		fs.IntP(o.Name, o.Short, def, usage)
	case cmdtree.OptionFloat:
		def, err := parseDefault(o, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }, 0)
		if err != nil {
			return err
		}
		fs.Float64P(o.Name, o.Short, def, usage)
	case cmdtree.OptionStrings:
		var def []string
		if o.Default != "" {
			def = strings.Split(o.Default, ",")
		}
		fs.StringSliceP(o.Name, o.Short, def, usage)
	default:
		fs.StringP(o.Name, o.Short, o.Default, usage)
	}

	if o.Required {
		if err := markRequired(cmd, fs, o.Name); err != nil {
			return err
		}
	}
	if len(o.Choices) > 0 {
		choices := slices.Clone(o.Choices)
		if err := cmd.RegisterFlagCompletionFunc(o.Name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return choices, cobra.ShellCompDirectiveNoFileComp
		}); err != nil {
			return fmt.Errorf("register completion for --%s: %w", o.Name, err)
		}
	}
	return nil
}

func markRequired(cmd *cobra.Command, fs *pflag.FlagSet, name string) error {
	if fs == cmd.PersistentFlags() {
		return cmd.MarkPersistentFlagRequired(name)
	}
	return cmd.MarkFlagRequired(name)
}

func parseDefault[T any](o cmdtree.Option, parse func(string) (T, error), zero T) (T, error) {
	if o.Default == "" {
		return zero, nil
	}
	v, err := parse(o.Default)
	if err != nil {
		return zero, &cmdtree.InvalidOptionError{
			Name:   o.Name,
			Reason: fmt.Sprintf("default %q is not a valid %s", o.Default, o.GetType()),
		}
	}
	return v, nil
}

// optionValues reads every option from the parsed flags as a string and
// checks declared choices. Unset options without a default are omitted.
func optionValues(cmd *cobra.Command, options []cmdtree.Option) (map[string]string, error) {
	values := make(map[string]string, len(options))
	fs := cmd.Flags()
	for _, o := range options {
		f := fs.Lookup(o.Name)
		if f == nil {
			continue
		}
		if !f.Changed && o.Default == "" && o.GetType() != cmdtree.OptionBool {
			continue
		}

		var value string
		if o.GetType() == cmdtree.OptionStrings {
			items, err := fs.GetStringSlice(o.Name)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				if !o.Accepts(item) {
					return nil, invalidFlagValue(o, item)
				}
			}
			value = strings.Join(items, ",")
		} else {
			value = f.Value.String()
			if f.Changed && !o.Accepts(value) {
				return nil, invalidFlagValue(o, value)
			}
		}
		values[o.Name] = value
	}
	return values, nil
}

func invalidFlagValue(o cmdtree.Option, value string) error {
	return fmt.Errorf("%w %q for --%s (valid: %s)", ErrInvalidValue, value, o.Name, strings.Join(o.Choices, ", "))
}
