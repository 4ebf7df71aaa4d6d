// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// OptionString is a single string value (the default).
	OptionString OptionType = "string"
	// OptionBool is a boolean switch.
	OptionBool OptionType = "bool"
	// OptionInt is an integer value.
	OptionInt OptionType = "int"
	// OptionFloat is a floating point value.
	OptionFloat OptionType = "float"
	// OptionStrings is a repeatable string value.
	OptionStrings OptionType = "strings"
)

var (
	// ErrInvalidOption is the sentinel error wrapped by InvalidOptionError.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidPositional is the sentinel error wrapped by InvalidPositionalError.
	ErrInvalidPositional = errors.New("invalid positional argument")
)

type (
	// OptionType is the value type of a named option.
	OptionType string

	// Option is a named parameter (a flag, on most render targets).
	Option struct {
		Name        string
		Short       string
		Description string
		Type        OptionType
		Default     string
		Required    bool
		// Choices restricts the accepted values when non-empty.
		Choices []string
	}

	// Positional is a positional parameter of a positional node.
	Positional struct {
		Key         string
		Description string
		Required    bool
		Variadic    bool
		// Choices restricts the accepted values when non-empty.
		Choices []string
	}

	// InvalidOptionError is returned when an Option fails validation.
	InvalidOptionError struct {
		Name   string
		Reason string
	}

	// InvalidPositionalError is returned when a Positional fails validation.
	InvalidPositionalError struct {
		Key    string
		Reason string
	}
)

// GetType returns the option type, defaulting to OptionString.
func (o Option) GetType() OptionType {
	if o.Type == "" {
		return OptionString
	}
	return o.Type
}

// Validate checks the option declaration.
func (o Option) Validate() error {
	switch {
	case o.Name == "" || strings.ContainsAny(o.Name, " \t=") || strings.HasPrefix(o.Name, "-"):
		return &InvalidOptionError{Name: o.Name, Reason: "name must be a non-empty word without leading dashes"}
	case o.Short != "" && !validShorthand(o.Short):
		return &InvalidOptionError{Name: o.Name, Reason: fmt.Sprintf("short name %q must be a single ASCII letter or digit", o.Short)}
	}
	switch o.GetType() {
	case OptionString, OptionBool, OptionInt, OptionFloat, OptionStrings:
	default:
		return &InvalidOptionError{Name: o.Name, Reason: fmt.Sprintf("unknown type %q", o.Type)}
	}
	if o.Default != "" && len(o.Choices) > 0 && !slices.Contains(o.Choices, o.Default) {
		return &InvalidOptionError{Name: o.Name, Reason: fmt.Sprintf("default %q is not one of %v", o.Default, o.Choices)}
	}
	return nil
}

func validShorthand(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Accepts reports whether value satisfies the option's choices.
func (o Option) Accepts(value string) bool {
	return len(o.Choices) == 0 || slices.Contains(o.Choices, value)
}

// Accepts reports whether value satisfies the positional's choices.
func (p Positional) Accepts(value string) bool {
	return len(p.Choices) == 0 || slices.Contains(p.Choices, value)
}

// Marker renders the positional in phrase syntax.
func (p Positional) Marker() string {
	name := p.Key
	if p.Variadic {
		name += ".."
	}
	if p.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// Error implements the error interface.
func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidOption for errors.Is() compatibility.
func (e *InvalidOptionError) Unwrap() error { return ErrInvalidOption }

// Error implements the error interface.
func (e *InvalidPositionalError) Error() string {
	return fmt.Sprintf("invalid positional argument %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrInvalidPositional for errors.Is() compatibility.
func (e *InvalidPositionalError) Unwrap() error { return ErrInvalidPositional }

// unionOptions appends the options of b whose names are not already in a.
func unionOptions(a, b []Option) []Option {
	out := slices.Clone(a)
	for _, o := range b {
		if !slices.ContainsFunc(out, func(x Option) bool { return x.Name == o.Name }) {
			out = append(out, o)
		}
	}
	return out
}
