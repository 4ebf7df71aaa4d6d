// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

// fakeRenderer records registrations as space-joined command paths.
type fakeRenderer struct {
	path   []string
	shared *[]Option
	specs  map[string]CommandSpec
	order  *[]string
	epilog *[]string
	failOn string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		shared: &[]Option{},
		specs:  map[string]CommandSpec{},
		order:  &[]string{},
		epilog: &[]string{},
	}
}

func (f *fakeRenderer) RegisterCommand(spec CommandSpec) (Renderer, error) {
	path := append(slices.Clone(f.path), spec.Name)
	key := strings.Join(path, " ")
	if key == f.failOn {
		return nil, errors.New("boom")
	}
	f.specs[key] = spec
	*f.order = append(*f.order, key)
	child := *f
	child.path = path
	return &child, nil
}

func (f *fakeRenderer) AddEpilogLine(line string) {
	*f.epilog = append(*f.epilog, line)
}

func (f *fakeRenderer) AddSharedOptions(options []Option) error {
	*f.shared = append(*f.shared, options...)
	return nil
}

func TestRender_RegistersDepthFirst(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("deliver", "")
	if err := reg.AddOption(Option{Name: "dry-run", Type: OptionBool}); err != nil {
		t.Fatalf("AddOption() error = %v", err)
	}
	for _, d := range []Descriptor{
		{Phrase: "show skills", Description: "List skills", Handler: Do(noopAction)},
		{Phrase: "show agents", Description: "List agents", Handler: Do(noopAction)},
		{Phrase: "clone <repo>", Description: "Clone a repository", Handler: Do(noopAction)},
	} {
		if err := reg.AddCommand(d); err != nil {
			t.Fatalf("AddCommand() error = %v", err)
		}
	}
	root, _ := reg.Build()
	opt := mustOptimize(t, root)

	r := newFakeRenderer()
	if err := Render(opt, r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if want := []string{"show", "show skills", "show agents", "clone"}; !slices.Equal(*r.order, want) {
		t.Errorf("registration order = %v, want %v", *r.order, want)
	}
	show := r.specs["show"]
	if !show.RequiresSubcommand || show.Handler != nil {
		t.Errorf("show spec = %+v, want a subcommand-only container", show)
	}
	if show.Description != "List skills or List agents" {
		t.Errorf("show description = %q", show.Description)
	}
	clone := r.specs["clone"]
	if len(clone.Positionals) != 1 || clone.Positionals[0].Key != "repo" {
		t.Errorf("clone positionals = %+v", clone.Positionals)
	}
	if len(*r.shared) != 1 || (*r.shared)[0].Name != "dry-run" {
		t.Errorf("shared options = %+v, want dry-run", *r.shared)
	}
}

func TestRender_GroupOptionsAreShared(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("deliver", "")
	err := reg.AddGroup("show", "Show things", func(c Collector) error {
		if err := c.AddOption(Option{Name: "format", Choices: []string{"text", "json"}}); err != nil {
			return err
		}
		return c.AddCommand(Descriptor{Phrase: "skills", Description: "List skills", Handler: Do(noopAction)})
	})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	root, err := reg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	r := newFakeRenderer()
	if err := Render(mustOptimize(t, root), r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	show := r.specs["show"]
	if len(show.SharedOptions) != 1 || show.SharedOptions[0].Name != "format" {
		t.Errorf("show shared options = %+v, want 'format'", show.SharedOptions)
	}
	if len(show.Options) != 0 {
		t.Errorf("show options = %+v, want none", show.Options)
	}
}

func TestRender_EpilogWarnings(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "status", Description: "Status A", Handler: Do(noopAction)},
		Descriptor{Phrase: "status", Description: "Status B", Handler: Do(noopAction), Resolution: DropWithWarning{}},
	)
	opt := mustOptimize(t, root)

	r := newFakeRenderer()
	if err := Render(opt, r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(*r.epilog) != 1 || !strings.Contains((*r.epilog)[0], "Status B") {
		t.Errorf("epilog = %v, want one line about Status B", *r.epilog)
	}
	if notes := r.specs["status"].HelpNotes; len(notes) != 1 {
		t.Errorf("status help notes = %v, want 1", notes)
	}
}

func TestRender_DeadEnd(t *testing.T) {
	t.Parallel()

	root := buildRoot(t, Descriptor{Phrase: "todo", Description: "Not there yet"})
	opt := mustOptimize(t, root)

	r := newFakeRenderer()
	if err := Render(opt, r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	spec := r.specs["todo"]
	if spec.RequiresSubcommand {
		t.Error("a childless node cannot require a subcommand")
	}
	if err := Run(context.Background(), spec.Handler, Invocation{}); !errors.Is(err, ErrNoHandler) {
		t.Errorf("dead-end handler error = %v, want ErrNoHandler", err)
	}
}

func TestRender_RegistrationError(t *testing.T) {
	t.Parallel()

	root := buildRoot(t, Descriptor{Phrase: "a b", Handler: Do(noopAction)})
	opt := mustOptimize(t, root)

	r := newFakeRenderer()
	r.failOn = "a b"
	err := Render(opt, r)
	if err == nil || !strings.Contains(err.Error(), "'a b'") {
		t.Fatalf("Render() error = %v, want failure naming 'a b'", err)
	}
}

func TestRender_NilTree(t *testing.T) {
	t.Parallel()

	if err := Render(nil, newFakeRenderer()); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Render(nil) error = %v, want ErrInvalidNode", err)
	}
}

func TestRenderedDescription(t *testing.T) {
	t.Parallel()

	leaves := func(descriptions ...string) Descriptor {
		return Descriptor{Phrase: "group", Nested: func(c Collector) error {
			for i, d := range descriptions {
				name := string(rune('a' + i))
				if err := c.AddCommand(Descriptor{Phrase: name, Description: d, Handler: Do(noopAction)}); err != nil {
					return err
				}
			}
			return nil
		}}
	}

	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{name: "runnable uses its own", d: Descriptor{Phrase: "group", Description: "Own", Handler: Do(noopAction)}, want: "Own"},
		{name: "one child", d: leaves("Only"), want: "Only"},
		{name: "duplicate children", d: leaves("Same", "Same"), want: "Same"},
		{name: "three children", d: leaves("A", "B", "C"), want: "A or B or C"},
		{name: "four children", d: leaves("A", "B", "C", "D"), want: "4 commands"},
		{name: "intermediate", d: Descriptor{Phrase: "group x", Description: "Deep", Handler: Do(noopAction)}, want: "Deep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nodes, err := BuildTree(tt.d)
			if err != nil {
				t.Fatalf("BuildTree() error = %v", err)
			}
			if got := RenderedDescription(nodes[0]); got != tt.want {
				t.Errorf("RenderedDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}
