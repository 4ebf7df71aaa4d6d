// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"fmt"
	"slices"

	"github.com/invowk/deliver/pkg/cmdline"
)

type (
	// Descriptor is a flat declaration of one command, as supplied by a
	// built-in, an agent manifest or an intent list.
	Descriptor struct {
		// Phrase is the full command phrase, e.g. "show skills" or "clone <repo>".
		Phrase      string
		Description string
		// Handler defaults to NoopHandler when nil.
		Handler Handler
		Options []Option
		// Positionals refine the phrase's positional markers by key.
		Positionals []Positional
		// Aliases are single words that replace every word of Phrase.
		Aliases []string
		// Resolution defaults to UniqueOrFail when nil.
		Resolution ConflictResolution
		// Nested lets a single-word command declare subcommands.
		Nested func(Collector) error
	}

	// Collector is the inbound contract used by command sources.
	Collector interface {
		// AddCommand registers a command. Phrase and alias errors are
		// returned immediately.
		AddCommand(d Descriptor) error
		// AddOption attaches a bare option to the container.
		AddOption(o Option) error
		// AddGroup nests a non-runnable container named by phrase.
		AddGroup(phrase, description string, nested func(Collector) error) error
	}

	// Registry collects commands into a raw forest below one root.
	Registry struct {
		name        string
		description string
		nodes       []*Node
		options     []Option
	}
)

var _ Collector = (*Registry)(nil)

// NewRegistry creates an empty registry whose root carries name.
func NewRegistry(name, description string) *Registry {
	return &Registry{name: name, description: description}
}

// AddCommand implements Collector.
func (r *Registry) AddCommand(d Descriptor) error {
	nodes, err := BuildTree(d)
	if err != nil {
		return err
	}
	r.nodes = append(r.nodes, nodes...)
	return nil
}

// AddOption implements Collector.
func (r *Registry) AddOption(o Option) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if slices.ContainsFunc(r.options, func(x Option) bool { return x.Name == o.Name }) {
		return &InvalidOptionError{Name: o.Name, Reason: "declared twice on the same command"}
	}
	r.options = append(r.options, o)
	return nil
}

// AddGroup implements Collector.
func (r *Registry) AddGroup(phrase, description string, nested func(Collector) error) error {
	return r.AddCommand(Descriptor{
		Phrase:      phrase,
		Description: description,
		Nested:      nested,
	})
}

// Nodes returns the top-level nodes registered so far.
func (r *Registry) Nodes() []*Node { return slices.Clone(r.nodes) }

// Build returns the raw, possibly conflicting forest under a root node.
func (r *Registry) Build() (*Node, error) {
	return NewNode(NodeSpec{
		Name:        r.name,
		Description: r.description,
		Children:    r.nodes,
		Options:     r.options,
	})
}

// BuildTree turns a descriptor into its top-level nodes: one for the phrase
// and one per alias. Multi-word phrases become chains of single-word nodes
// with the runnable payload on the innermost node only.
func BuildTree(d Descriptor) ([]*Node, error) {
	p, err := cmdline.Parse(d.Phrase)
	if err != nil {
		return nil, err
	}

	d.Resolution = withDescription(d.Resolution, d.Description)
	if label, ok := choiceLabel(d.Resolution); ok && label == "" {
		return nil, fmt.Errorf("%w (command %q)", ErrMissingChoiceLabel, d.Phrase)
	}
	if d.Handler == nil {
		d.Handler = NoopHandler{}
	}

	// Validate every alias before doing any work.
	phrases := []cmdline.Phrase{p}
	for _, alias := range d.Aliases {
		ap, err := p.WithAlias(alias)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, ap)
	}

	var nested subcommands
	if d.Nested != nil {
		if p.HasPositionals() {
			return nil, &InvalidNodeError{Name: d.Phrase, Reason: "a command with positional arguments cannot have subcommands"}
		}
		if !p.IsSingleWord() {
			return nil, &InvalidNodeError{Name: d.Phrase, Reason: "subcommands can only be nested under a single-word command"}
		}
		sub := NewRegistry(p.FirstWord(), d.Description)
		if err := d.Nested(sub); err != nil {
			return nil, fmt.Errorf("configure subcommands of %q: %w", d.Phrase, err)
		}
		nested = subcommands{nodes: sub.nodes, options: sub.options}
	}

	nodes := make([]*Node, 0, len(phrases))
	for _, ph := range phrases {
		n, err := buildPhrase(ph, d, nested)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// subcommands are what a Nested callback registered: child nodes plus the
// bare options attached to the container itself.
type subcommands struct {
	nodes   []*Node
	options []Option
}

func buildPhrase(p cmdline.Phrase, d Descriptor, nested subcommands) (*Node, error) {
	if !p.IsSingleWord() {
		inner, err := p.DropFirstWord()
		if err != nil {
			return nil, err
		}
		child, err := buildPhrase(inner, d, nested)
		if err != nil {
			return nil, err
		}
		return NewNode(NodeSpec{
			Name:        p.FirstWord(),
			Description: PlaceholderDescription,
			Kind:        WordNode,
			Children:    []*Node{child},
			Resolution:  d.Resolution,
		})
	}

	if p.HasPositionals() {
		positionals, err := resolvePositionals(p.Markers(), d.Positionals)
		if err != nil {
			return nil, err
		}
		return NewNode(NodeSpec{
			Name:        p.FirstWord(),
			Description: d.Description,
			Kind:        PositionalNode,
			Runnable: &Runnable{
				Description: d.Description,
				Handler:     d.Handler,
				Options:     d.Options,
				Positionals: positionals,
			},
			Resolution: d.Resolution,
		})
	}

	if len(d.Positionals) > 0 {
		return nil, &InvalidPositionalError{Key: d.Positionals[0].Key, Reason: fmt.Sprintf("phrase %q declares no positional arguments", p)}
	}

	return NewNode(NodeSpec{
		Name:        p.FirstWord(),
		Description: d.Description,
		Kind:        WordNode,
		Runnable: &Runnable{
			Description: d.Description,
			Handler:     d.Handler,
			Options:     d.Options,
		},
		Children:   nested.nodes,
		Options:    nested.options,
		Resolution: d.Resolution,
	})
}

// resolvePositionals builds positional parameters from the phrase markers,
// refined by the declared specs. The markers decide requiredness and
// arity; specs contribute descriptions and choices.
func resolvePositionals(markers []cmdline.Marker, specs []Positional) ([]Positional, error) {
	byKey := make(map[string]Positional, len(specs))
	for _, s := range specs {
		byKey[s.Key] = s
	}

	out := make([]Positional, 0, len(markers))
	seenOptional := false
	for i, m := range markers {
		if _, dup := byKeyIndex(out, m.Name); dup {
			return nil, &InvalidPositionalError{Key: m.Name, Reason: "declared twice"}
		}
		if m.Variadic && i != len(markers)-1 {
			return nil, &InvalidPositionalError{Key: m.Name, Reason: "only the last positional argument can be variadic"}
		}
		if m.Required && seenOptional {
			return nil, &InvalidPositionalError{Key: m.Name, Reason: "a required argument cannot follow an optional one"}
		}
		seenOptional = seenOptional || !m.Required

		spec := byKey[m.Name]
		delete(byKey, m.Name)
		out = append(out, Positional{
			Key:         m.Name,
			Description: spec.Description,
			Required:    m.Required,
			Variadic:    m.Variadic,
			Choices:     slices.Clone(spec.Choices),
		})
	}

	for _, s := range specs {
		if _, unknown := byKey[s.Key]; unknown {
			return nil, &InvalidPositionalError{Key: s.Key, Reason: "not present in the command phrase"}
		}
	}
	return out, nil
}

func byKeyIndex(ps []Positional, key string) (int, bool) {
	i := slices.IndexFunc(ps, func(p Positional) bool { return p.Key == key })
	return i, i >= 0
}

// withDescription fills an empty policy description from the command.
func withDescription(r ConflictResolution, description string) ConflictResolution {
	switch r := r.(type) {
	case nil:
		return UniqueOrFail{Description: description}
	case UniqueOrFail:
		if r.Description == "" {
			r.Description = description
		}
		return r
	case DropWithWarning:
		if r.Description == "" {
			r.Description = description
		}
		return r
	case PromptForChoice:
		if r.Description == "" {
			r.Description = description
		}
		return r
	default:
		return r
	}
}
