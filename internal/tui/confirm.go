// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

type (
	// ConfirmOptions configures a confirmation prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the text for the affirmative option (default: "Yes").
		Affirmative string
		// Negative is the text for the negative option (default: "No").
		Negative string
		// Default is the preselected answer.
		Default bool
	}

	// Confirmer asks yes/no questions with a huh confirm form.
	Confirmer struct {
		cfg         Config
		interactive func() bool
		run         func(ctx context.Context, form *huh.Form) error
	}
)

// NewConfirmer creates a Confirmer.
func NewConfirmer(cfg Config) *Confirmer {
	c := &Confirmer{cfg: cfg}
	c.interactive = func() bool { return c.cfg.Accessible || IsInputTerminal(c.cfg.input()) }
	c.run = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }
	return c
}

// Confirm asks opts.Title and returns the answer.
func (c *Confirmer) Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	if !c.interactive() {
		return false, fmt.Errorf("%w (question: %s)", ErrNotInteractive, opts.Title)
	}

	affirmative := opts.Affirmative
	if affirmative == "" {
		affirmative = "Yes"
	}
	negative := opts.Negative
	if negative == "" {
		negative = "No"
	}

	result := opts.Default
	field := huh.NewConfirm().
		Title(opts.Title).
		Affirmative(affirmative).
		Negative(negative).
		Value(&result)
	if opts.Description != "" {
		field = field.Description(opts.Description)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(getHuhTheme(c.cfg.Theme)).
		WithAccessible(c.cfg.Accessible).
		WithInput(c.cfg.input()).
		WithOutput(c.cfg.output())

	if err := c.run(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrChoiceAborted
		}
		return false, err
	}
	return result, nil
}
