// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"context"
	"io"
)

type (
	// Action is the side-effecting body of a command. The engine stores it and
	// invokes it on behalf of the render target; it never schedules, retries or
	// times it out.
	Action func(ctx context.Context, inv Invocation) error

	// Handler is a closed variant: NoopHandler or RunnableHandler.
	Handler interface {
		sealedHandler()
	}

	// NoopHandler marks a payload that does nothing when run. Container
	// descriptors without an action carry it.
	NoopHandler struct{}

	// RunnableHandler wraps a real Action.
	RunnableHandler struct {
		Action Action
	}

	// Chooser asks the invoking user to pick one of labels.
	Chooser interface {
		Choose(ctx context.Context, title string, labels []string) (string, error)
	}

	// Invocation carries the parsed arguments of one command execution.
	Invocation struct {
		// Path is the sequence of command names from the first level below
		// the root to the invoked command.
		Path []string
		// Options maps option names to their parsed string values.
		Options map[string]string
		// Positionals maps positional keys to their values. Variadic
		// positionals may hold several values.
		Positionals map[string][]string
		// Args are the raw positional arguments in order.
		Args []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Chooser is used by prompt-for-choice commands. A nil Chooser makes
		// those commands fail with ErrNoChooser.
		Chooser Chooser
	}
)

func (NoopHandler) sealedHandler()      {}
func (*RunnableHandler) sealedHandler() {}

// Run executes an action, or returns nil for a NoopHandler or nil Handler.
func Run(ctx context.Context, h Handler, inv Invocation) error {
	switch h := h.(type) {
	case *RunnableHandler:
		if h == nil || h.Action == nil {
			return nil
		}
		return h.Action(ctx, inv)
	case NoopHandler, nil:
		return nil
	default:
		return nil
	}
}

// Do wraps fn as a RunnableHandler.
func Do(fn Action) Handler {
	return &RunnableHandler{Action: fn}
}

// isRealHandler reports whether h can do something when run.
func isRealHandler(h Handler) bool {
	r, ok := h.(*RunnableHandler)
	return ok && r != nil && r.Action != nil
}

// Option returns the value of an option, or "" when unset.
func (inv Invocation) Option(name string) string {
	return inv.Options[name]
}

// Positional returns the first value of a positional argument, or "".
func (inv Invocation) Positional(key string) string {
	if v := inv.Positionals[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
