// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/invowk/deliver/pkg/cmdline"
)

type (
	// ValidationError is one problem found in a manifest.
	ValidationError struct {
		// Field locates the problem, e.g. "commands[1] (deploy <env>)".
		Field   string
		Message string
	}

	// ValidationErrors collects every problem of one manifest. It wraps
	// ErrInvalidManifest.
	ValidationErrors []ValidationError
)

// Validate checks the manifest and returns every problem found. Format-level
// checks also live in the CUE schema; these apply to every format.
func (m *Manifest) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case m.Agent == "":
		add("agent", "must not be empty")
	case strings.IndexFunc(m.Agent, unicode.IsSpace) >= 0:
		add("agent", "%q must be a single word", m.Agent)
	}
	if m.DefaultConflict != "" {
		if ok, kindErrs := m.DefaultConflict.IsValid(); !ok {
			add("default_conflict", "%v", kindErrs[0])
		}
	}
	if len(m.Commands) == 0 && len(m.Intents) == 0 {
		add("", "declares no commands and no intents")
	}

	for i, c := range m.Commands {
		field := fmt.Sprintf("commands[%d] (%s)", i, c.Phrase)
		if _, err := cmdline.Parse(c.Phrase); err != nil {
			add(field, "%v", err)
		}
		if strings.TrimSpace(c.Script) == "" {
			add(field, "script must not be empty")
		}
		if c.Conflict != "" {
			if ok, kindErrs := c.Conflict.IsValid(); !ok {
				add(field, "%v", kindErrs[0])
			}
		}
		for _, o := range c.Options {
			if err := o.toOption().Validate(); err != nil {
				add(field, "%v", err)
			}
		}
		for _, p := range c.Positionals {
			if strings.TrimSpace(p.Key) == "" {
				add(field, "positional key must not be empty")
			}
		}
	}

	for i, in := range m.Intents {
		field := fmt.Sprintf("intents[%d] (%s)", i, in.Phrase)
		p, err := cmdline.Parse(in.Phrase)
		if err != nil {
			add(field, "%v", err)
		} else if p.HasPositionals() {
			add(field, "intent phrases cannot take positional arguments")
		}
		switch {
		case in.Command == "" && strings.TrimSpace(in.Script) == "":
			add(field, "needs either a command or a script")
		case in.Command != "" && in.Script != "":
			add(field, "command and script are mutually exclusive")
		case in.Command != "" && m.Command(in.Command) == nil:
			add(field, "command %q is not declared in this manifest", in.Command)
		}
	}

	return errs
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Error implements the error interface by joining all messages.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return ErrInvalidManifest.Error() + ": " + errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problems:", ErrInvalidManifest, len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (errs ValidationErrors) Unwrap() error { return ErrInvalidManifest }
