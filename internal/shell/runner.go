// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrScriptSyntax is the sentinel error wrapped by SyntaxError.
var ErrScriptSyntax = errors.New("script syntax error")

type (
	// Script is one script execution request.
	Script struct {
		// Name identifies the script in syntax errors.
		Name   string
		Source string
		// Args become the positional parameters $1, $2, ...
		Args []string
		// Env is added to the inherited process environment.
		Env map[string]string
		// Dir is the working directory; empty means the current one.
		Dir string
	}

	// IO holds the standard streams of a script.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes scripts with the virtual shell.
	Runner struct {
		// Environ returns the inherited environment. Defaults to os.Environ.
		Environ func() []string
	}

	// ExitStatusError is returned when a script exits with a non-zero status.
	ExitStatusError struct {
		Code int
	}

	// SyntaxError is returned when a script cannot be parsed.
	SyntaxError struct {
		Name string
		Err  error
	}
)

// NewRunner creates a Runner that inherits the process environment.
func NewRunner() *Runner {
	return &Runner{Environ: os.Environ}
}

// Check parses source without running it.
func Check(name, source string) error {
	_, err := parse(name, source)
	return err
}

// Run executes the script and waits for it to finish.
func (r *Runner) Run(ctx context.Context, s Script, stdio IO) error {
	prog, err := parse(s.Name, s.Source)
	if err != nil {
		return err
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(r.environ(s.Env)...)),
		interp.StdIO(stdio.Stdin, stdio.Stdout, stdio.Stderr),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(s.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, s.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitStatusError{Code: int(exitStatus)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

func (r *Runner) environ(extra map[string]string) []string {
	var env []string
	if r.Environ != nil {
		env = r.Environ()
	}
	// Later entries win in expand.ListEnviron.
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func parse(name, source string) (*syntax.File, error) {
	if name == "" {
		name = "script"
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, &SyntaxError{Name: name, Err: err}
	}
	return prog, nil
}

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("script exited with status %d", e.Code)
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns ErrScriptSyntax for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrScriptSyntax }
