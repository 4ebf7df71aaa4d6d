// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/invowk/deliver/pkg/cmdtree"
)

var (
	// ErrNotInteractive is returned when an answer is needed but nobody is at
	// a terminal to make it.
	ErrNotInteractive = errors.New("cannot prompt: input is not a terminal")
	// ErrChoiceAborted is returned when the user cancels the prompt.
	ErrChoiceAborted = errors.New("choice aborted by user")
	// ErrNoOptions is returned when Choose is called without labels.
	ErrNoOptions = errors.New("nothing to choose from")
)

// Chooser asks the user to pick one label with a huh select form.
type Chooser struct {
	cfg Config
	// interactive reports whether prompting is possible.
	interactive func() bool
	// run executes the form; replaced in tests.
	run func(ctx context.Context, form *huh.Form) error
}

var _ cmdtree.Chooser = (*Chooser)(nil)

// NewChooser creates a Chooser. Accessible mode also works without a
// terminal, so only non-accessible choosers refuse non-terminal input.
func NewChooser(cfg Config) *Chooser {
	c := &Chooser{cfg: cfg}
	c.interactive = func() bool { return c.cfg.Accessible || IsInputTerminal(c.cfg.input()) }
	c.run = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }
	return c
}

// Choose implements cmdtree.Chooser.
func (c *Chooser) Choose(ctx context.Context, title string, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", ErrNoOptions
	}
	if !c.interactive() {
		return "", fmt.Errorf("%w (options: %v)", ErrNotInteractive, labels)
	}

	var result string
	options := make([]huh.Option[string], len(labels))
	for i, l := range labels {
		options[i] = huh.NewOption(l, l)
	}

	sel := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&result)

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(getHuhTheme(c.cfg.Theme)).
		WithAccessible(c.cfg.Accessible).
		WithInput(c.cfg.input()).
		WithOutput(c.cfg.output())

	if err := c.run(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrChoiceAborted
		}
		return "", err
	}
	return result, nil
}
