// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// WordNode is a vertex for one literal word. It may be runnable, a
	// container, or both.
	WordNode NodeKind = iota + 1
	// PositionalNode is a runnable leaf that accepts positional arguments.
	PositionalNode
)

// PlaceholderDescription is the description of intermediate nodes created
// for multi-word phrases. It never shows up in rendered help.
const PlaceholderDescription = "…"

// ErrInvalidNode is the sentinel error wrapped by InvalidNodeError.
var ErrInvalidNode = errors.New("invalid command node")

type (
	// NodeKind discriminates the two node shapes.
	NodeKind int

	// Runnable is the payload of a node that can be executed.
	Runnable struct {
		Description string
		Handler     Handler
		Options     []Option
		// Positionals is non-empty only on positional nodes.
		Positionals []Positional
	}

	// NodeSpec carries the inputs of NewNode.
	NodeSpec struct {
		Name        string
		Description string
		Kind        NodeKind
		Runnable    *Runnable
		Children    []*Node
		Resolution  ConflictResolution
		Options     []Option
		HelpNotes   []string
	}

	// Node is one vertex of a command tree. Nodes are immutable once
	// constructed; every transformation returns a new Node.
	Node struct {
		name        string
		description string
		kind        NodeKind
		runnable    *Runnable
		children    []*Node
		resolution  ConflictResolution
		options     []Option
		helpNotes   []string
		merged      bool
	}

	// InvalidNodeError is returned when a NodeSpec violates a structural rule.
	InvalidNodeError struct {
		Name   string
		Reason string
	}
)

// NewNode validates spec and builds a Node. A nil Resolution defaults to
// UniqueOrFail described by the node description.
func NewNode(spec NodeSpec) (*Node, error) {
	if spec.Kind == 0 {
		spec.Kind = WordNode
	}
	if spec.Name == "" || strings.ContainsAny(spec.Name, " \t\n") {
		return nil, &InvalidNodeError{Name: spec.Name, Reason: "name must be a single non-empty word"}
	}

	switch spec.Kind {
	case PositionalNode:
		if spec.Runnable == nil || len(spec.Runnable.Positionals) == 0 {
			return nil, &InvalidNodeError{Name: spec.Name, Reason: "a positional node needs a runnable payload with positional parameters"}
		}
		if len(spec.Children) > 0 {
			return nil, &InvalidNodeError{Name: spec.Name, Reason: "a positional node cannot have subcommands"}
		}
	case WordNode:
		if spec.Runnable != nil && len(spec.Runnable.Positionals) > 0 {
			return nil, &InvalidNodeError{Name: spec.Name, Reason: "a word node cannot take positional parameters"}
		}
	default:
		return nil, &InvalidNodeError{Name: spec.Name, Reason: fmt.Sprintf("unknown node kind %d", spec.Kind)}
	}

	if spec.Runnable != nil {
		for _, o := range spec.Runnable.Options {
			if err := o.Validate(); err != nil {
				return nil, err
			}
		}
	}
	for _, o := range spec.Options {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	if spec.Resolution == nil {
		spec.Resolution = UniqueOrFail{Description: spec.Description}
	}

	return &Node{
		name:        spec.Name,
		description: spec.Description,
		kind:        spec.Kind,
		runnable:    cloneRunnable(spec.Runnable),
		children:    slices.Clone(spec.Children),
		resolution:  spec.Resolution,
		options:     slices.Clone(spec.Options),
		helpNotes:   slices.Clone(spec.HelpNotes),
	}, nil
}

// Name returns the node name, the first word of the phrase it came from.
func (n *Node) Name() string { return n.name }

// Description returns the node's own description.
func (n *Node) Description() string { return n.description }

// Kind returns the node shape.
func (n *Node) Kind() NodeKind { return n.kind }

// Children returns the direct children in insertion order. Before Optimize
// several children may share a name; afterwards names are unique.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Child returns the first direct child named name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Runnable returns a copy of the runnable payload.
func (n *Node) Runnable() (Runnable, bool) {
	if n.runnable == nil {
		return Runnable{}, false
	}
	return *cloneRunnable(n.runnable), true
}

// Resolution returns the node's conflict policy.
func (n *Node) Resolution() ConflictResolution { return n.resolution }

// Options returns the bare options attached to the node.
func (n *Node) Options() []Option { return slices.Clone(n.options) }

// HelpNotes returns the accumulated help notes in the order they were added.
func (n *Node) HelpNotes() []string { return slices.Clone(n.helpNotes) }

// IsRunnable reports whether the node has a payload with a real handler.
func (n *Node) IsRunnable() bool {
	return n.runnable != nil && isRealHandler(n.runnable.Handler)
}

// HasPositionals reports whether the node takes positional parameters.
func (n *Node) HasPositionals() bool {
	return n.runnable != nil && len(n.runnable.Positionals) > 0
}

// RequiresSubcommand reports whether the user must type one more word:
// the node has children but nothing of its own to run.
func (n *Node) RequiresSubcommand() bool {
	return len(n.children) > 0 && !n.IsRunnable()
}

// IsMerged reports whether the node is the product of a combine.
func (n *Node) IsMerged() bool { return n.merged }

// Walk calls fn for n and each descendant, depth-first pre-order, with the
// names of the ancestors below the starting node.
func (n *Node) Walk(fn func(path []string, node *Node)) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func([]string, *Node)) {
	fn(path, n)
	childPath := append(slices.Clone(path), n.name)
	for _, c := range n.children {
		c.walk(childPath, fn)
	}
}

// String returns the node name.
func (n *Node) String() string { return n.name }

// withChildren returns a shallow copy of n with children replaced.
func (n *Node) withChildren(children []*Node) *Node {
	c := *n
	c.children = children
	return &c
}

// withHelpNotes returns a shallow copy of n with notes appended.
func (n *Node) withHelpNotes(notes ...string) *Node {
	if len(notes) == 0 {
		return n
	}
	c := *n
	c.helpNotes = append(slices.Clone(n.helpNotes), notes...)
	return &c
}

// String returns a readable kind name.
func (k NodeKind) String() string {
	switch k {
	case WordNode:
		return "word"
	case PositionalNode:
		return "positional"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidNode for errors.Is() compatibility.
func (e *InvalidNodeError) Unwrap() error { return ErrInvalidNode }

func cloneRunnable(r *Runnable) *Runnable {
	if r == nil {
		return nil
	}
	c := *r
	c.Options = slices.Clone(r.Options)
	c.Positionals = slices.Clone(r.Positionals)
	if c.Handler == nil {
		c.Handler = NoopHandler{}
	}
	return &c
}
