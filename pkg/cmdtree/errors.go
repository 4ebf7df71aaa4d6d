// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAssembly is the sentinel error wrapped by AssemblyError.
	ErrAssembly = errors.New("command tree has unresolved conflicts")
	// ErrAlreadyCombined is the sentinel error wrapped by AlreadyCombinedError.
	ErrAlreadyCombined = errors.New("command was already combined")
	// ErrNoChooser is returned by prompt-for-choice commands invoked without a Chooser.
	ErrNoChooser = errors.New("no interactive chooser available")
	// ErrUnknownChoice is returned when a Chooser answers with a label that was not offered.
	ErrUnknownChoice = errors.New("unknown choice")
	// ErrNoHandler is returned when a command without an action is run.
	ErrNoHandler = errors.New("I don't know how to do this")
)

type (
	// Complaint describes one conflict the combiner could not resolve.
	Complaint struct {
		// Path holds the ancestor command names, root-first, excluding the
		// root itself and the conflicting name.
		Path []string
		// Name is the contested command name.
		Name string
		// Reasons explain why the siblings cannot be combined.
		Reasons []string
		// Descriptions describe every sibling still in conflict.
		Descriptions []string
	}

	// Warning is a note left by a conflict that policy resolved.
	Warning struct {
		Path    []string
		Name    string
		Message string
	}

	// AssemblyError aggregates every unresolved conflict of a tree.
	AssemblyError struct {
		Complaints []Complaint
	}

	// AlreadyCombinedError is returned when a merged node is combined again.
	AlreadyCombinedError struct {
		Path []string
		Name string
	}
)

// Command returns the full command path of the complaint.
func (c Complaint) Command() string {
	return strings.Join(append(append([]string{}, c.Path...), c.Name), " ")
}

// String renders the complaint on one line.
func (c Complaint) String() string {
	return fmt.Sprintf("'%s': %s (%s)", c.Command(), strings.Join(c.Reasons, "; "), strings.Join(c.Descriptions, " | "))
}

// Command returns the full command path the warning applies to.
func (w Warning) Command() string {
	return strings.Join(append(append([]string{}, w.Path...), w.Name), " ")
}

// String renders the warning as an epilog line.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Command(), w.Message)
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d conflicting command(s) could not be resolved:", len(e.Complaints))
	for _, c := range e.Complaints {
		fmt.Fprintf(&sb, "\n  %s: %s", c.Command(), strings.Join(c.Reasons, "; "))
		for _, d := range c.Descriptions {
			fmt.Fprintf(&sb, "\n    - %s", d)
		}
	}
	return sb.String()
}

// Unwrap returns ErrAssembly for errors.Is() compatibility.
func (e *AssemblyError) Unwrap() error { return ErrAssembly }

// Error implements the error interface.
func (e *AlreadyCombinedError) Error() string {
	name := strings.Join(append(append([]string{}, e.Path...), e.Name), " ")
	return fmt.Sprintf("command '%s' was already combined and cannot be combined again", name)
}

// Unwrap returns ErrAlreadyCombined for errors.Is() compatibility.
func (e *AlreadyCombinedError) Unwrap() error { return ErrAlreadyCombined }
