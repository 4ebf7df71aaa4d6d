// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

// recorder collects the names of the actions that ran.
type recorder struct {
	ran []string
}

func (r *recorder) action(name string) Handler {
	return Do(func(context.Context, Invocation) error {
		r.ran = append(r.ran, name)
		return nil
	})
}

type fixedChooser struct {
	answer string
	err    error
	title  string
	labels []string
}

func (c *fixedChooser) Choose(_ context.Context, title string, labels []string) (string, error) {
	c.title = title
	c.labels = labels
	return c.answer, c.err
}

func buildRoot(t *testing.T, descriptors ...Descriptor) *Node {
	t.Helper()

	reg := NewRegistry("deliver", "Deliver things")
	for _, d := range descriptors {
		if err := reg.AddCommand(d); err != nil {
			t.Fatalf("AddCommand(%q) error = %v", d.Phrase, err)
		}
	}
	root, err := reg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return root
}

func mustOptimize(t *testing.T, root *Node) *Optimized {
	t.Helper()

	opt, err := Optimize(root)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	return opt
}

func runNode(t *testing.T, n *Node, inv Invocation) error {
	t.Helper()

	r, ok := n.Runnable()
	if !ok {
		t.Fatalf("node %q has no runnable payload", n.Name())
	}
	return Run(context.Background(), r.Handler, inv)
}

func TestCombine_SingleSiblingUnchanged(t *testing.T) {
	t.Parallel()

	nodes, err := BuildTree(Descriptor{Phrase: "show skills", Description: "List skills", Handler: Do(noopAction)})
	if err != nil {
		t.Fatalf("BuildTree() error = %v", err)
	}

	got, warnings, err := Combine(nodes)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if got != nodes[0] {
		t.Error("Combine() of one sibling should return it unchanged")
	}
	if len(warnings) != 0 {
		t.Errorf("Combine() warnings = %v, want none", warnings)
	}
}

func TestCombine_DifferentNames(t *testing.T) {
	t.Parallel()

	a, _ := BuildTree(Descriptor{Phrase: "a", Handler: Do(noopAction)})
	b, _ := BuildTree(Descriptor{Phrase: "b", Handler: Do(noopAction)})
	if _, _, err := Combine(append(a, b...)); !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("Combine() error = %v, want ErrInvalidNode", err)
	}
}

func TestOptimize_TrivialMerge(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	root := buildRoot(t,
		Descriptor{Phrase: "show skills", Description: "List skills", Handler: rec.action("skills")},
		Descriptor{Phrase: "show agents", Description: "List agents", Handler: rec.action("agents")},
	)
	opt := mustOptimize(t, root)

	children := opt.Root.Children()
	if len(children) != 1 || children[0].Name() != "show" {
		t.Fatalf("root children = %v, want [show]", children)
	}
	show := children[0]
	if !show.IsMerged() {
		t.Error("'show' should be marked merged")
	}
	if show.IsRunnable() || !show.RequiresSubcommand() {
		t.Error("'show' should require a subcommand")
	}
	if names := childNames(show); !slices.Equal(names, []string{"skills", "agents"}) {
		t.Errorf("show children = %v, want [skills agents]", names)
	}
	if len(opt.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", opt.Warnings)
	}
}

func TestOptimize_MergeKeepsSingleRunnable(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	root := buildRoot(t,
		Descriptor{Phrase: "status", Description: "Show status", Handler: rec.action("status")},
		Descriptor{Phrase: "status verbose", Description: "Show detailed status", Handler: rec.action("verbose")},
	)
	opt := mustOptimize(t, root)

	status := opt.Root.Child("status")
	if status == nil || !status.IsRunnable() {
		t.Fatal("'status' should stay runnable")
	}
	if status.Description() != "Show status" {
		t.Errorf("Description() = %q, want %q", status.Description(), "Show status")
	}
	if status.Child("verbose") == nil {
		t.Error("missing 'status verbose'")
	}
	if err := runNode(t, status, Invocation{}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !slices.Equal(rec.ran, []string{"status"}) {
		t.Errorf("ran = %v, want [status]", rec.ran)
	}
}

func TestOptimize_MergeJoinsDescriptions(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "tools", Description: "Tools from A", Nested: func(c Collector) error {
			return c.AddCommand(Descriptor{Phrase: "lint", Handler: Do(noopAction)})
		}},
		Descriptor{Phrase: "tools", Description: "Tools from B", Nested: func(c Collector) error {
			return c.AddCommand(Descriptor{Phrase: "fmt", Handler: Do(noopAction)})
		}},
		Descriptor{Phrase: "tools", Description: "Tools from A", Nested: func(c Collector) error {
			return c.AddCommand(Descriptor{Phrase: "vet", Handler: Do(noopAction)})
		}},
	)
	opt := mustOptimize(t, root)

	tools := opt.Root.Child("tools")
	if got, want := tools.Description(), "Tools from A; or, Tools from B"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
	if names := childNames(tools); !slices.Equal(names, []string{"lint", "fmt", "vet"}) {
		t.Errorf("children = %v", names)
	}
}

func TestOptimize_FailFast(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Description: "Deploy with A", Handler: Do(noopAction)},
		Descriptor{Phrase: "deploy", Description: "Deploy with B", Handler: Do(noopAction)},
	)

	_, err := Optimize(root)
	if !errors.Is(err, ErrAssembly) {
		t.Fatalf("Optimize() error = %v, want ErrAssembly", err)
	}
	var assemblyErr *AssemblyError
	if !errors.As(err, &assemblyErr) {
		t.Fatalf("Optimize() error type = %T, want *AssemblyError", err)
	}
	if len(assemblyErr.Complaints) != 1 {
		t.Fatalf("complaints = %v, want 1", assemblyErr.Complaints)
	}
	c := assemblyErr.Complaints[0]
	if c.Command() != "deploy" {
		t.Errorf("complaint command = %q, want deploy", c.Command())
	}
	if !slices.Contains(c.Reasons, reasonTwoCompletes) {
		t.Errorf("reasons = %v, want %q", c.Reasons, reasonTwoCompletes)
	}
	for _, want := range []string{"Deploy with A", "Deploy with B"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestOptimize_ReportsEveryConflict(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Description: "Deploy A", Handler: Do(noopAction)},
		Descriptor{Phrase: "deploy", Description: "Deploy B", Handler: Do(noopAction)},
		Descriptor{Phrase: "db migrate", Description: "Migrate A", Handler: Do(noopAction)},
		Descriptor{Phrase: "db migrate <version>", Description: "Migrate B", Handler: Do(noopAction)},
	)

	_, err := Optimize(root)
	var assemblyErr *AssemblyError
	if !errors.As(err, &assemblyErr) {
		t.Fatalf("Optimize() error = %v, want *AssemblyError", err)
	}
	var commands []string
	for _, c := range assemblyErr.Complaints {
		commands = append(commands, c.Command())
	}
	if !slices.Equal(commands, []string{"deploy", "db migrate"}) {
		t.Errorf("complaints = %v, want [deploy, db migrate]", commands)
	}

	if got := Validate(root); len(got) != len(assemblyErr.Complaints) {
		t.Errorf("Validate() = %d complaints, Optimize() = %d", len(got), len(assemblyErr.Complaints))
	}
}

func TestOptimize_ReportsConflictsBelowConflicts(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "ops", Description: "Ops A", Handler: Do(noopAction), Nested: func(c Collector) error {
			return c.AddCommand(Descriptor{Phrase: "restart", Description: "Restart A", Handler: Do(noopAction)})
		}},
		Descriptor{Phrase: "ops", Description: "Ops B", Handler: Do(noopAction), Nested: func(c Collector) error {
			return c.AddCommand(Descriptor{Phrase: "restart", Description: "Restart B", Handler: Do(noopAction)})
		}},
	)

	complaints := Validate(root)
	var commands []string
	for _, c := range complaints {
		commands = append(commands, c.Command())
	}
	if !slices.Equal(commands, []string{"ops", "ops restart"}) {
		t.Errorf("complaints = %v, want [ops, ops restart]", commands)
	}
}

func TestOptimize_PoliteDrop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	root := buildRoot(t,
		Descriptor{Phrase: "status", Description: "Status from A", Handler: rec.action("a")},
		Descriptor{Phrase: "status", Description: "Status from B", Handler: rec.action("b"), Resolution: DropWithWarning{}},
	)
	opt := mustOptimize(t, root)

	if len(opt.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", opt.Warnings)
	}
	w := opt.Warnings[0]
	if w.Command() != "status" || !strings.Contains(w.Message, "Status from B") {
		t.Errorf("warning = %q", w.String())
	}
	if !strings.HasPrefix(w.Message, "this command is unavailable due to a conflict: ") {
		t.Errorf("warning message = %q", w.Message)
	}

	status := opt.Root.Child("status")
	if status == nil {
		t.Fatal("'status' should survive")
	}
	if len(opt.Root.Children()) != 1 {
		t.Errorf("root has %d children, want 1", len(opt.Root.Children()))
	}
	if notes := status.HelpNotes(); len(notes) != 1 || notes[0] != w.Message {
		t.Errorf("help notes = %v, want the warning", notes)
	}
	if err := runNode(t, status, Invocation{}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !slices.Equal(rec.ran, []string{"a"}) {
		t.Errorf("ran = %v, want [a]", rec.ran)
	}
}

func TestOptimize_EverySiblingDropped(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "sync", Description: "Sync A", Handler: Do(noopAction), Resolution: DropWithWarning{}},
		Descriptor{Phrase: "sync", Description: "Sync B", Handler: Do(noopAction), Resolution: DropWithWarning{}},
		Descriptor{Phrase: "other", Description: "Other", Handler: Do(noopAction)},
	)
	opt := mustOptimize(t, root)

	if opt.Root.Child("sync") != nil {
		t.Error("'sync' should have vanished")
	}
	if opt.Root.Child("other") == nil {
		t.Error("'other' should be untouched")
	}
	if len(opt.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2", opt.Warnings)
	}
}

func TestOptimize_DroppedSubcommandsSurvive(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "show", Description: "Show A", Handler: Do(noopAction)},
		Descriptor{
			Phrase:      "show",
			Description: "Show B",
			Handler:     Do(noopAction),
			Resolution:  DropWithWarning{},
			Nested: func(c Collector) error {
				return c.AddCommand(Descriptor{Phrase: "skills", Description: "List skills", Handler: Do(noopAction)})
			},
		},
	)
	opt := mustOptimize(t, root)

	show := opt.Root.Child("show")
	if show == nil || !show.IsRunnable() {
		t.Fatal("'show' from A should survive")
	}
	if show.Child("skills") == nil {
		t.Error("'show skills' from B should survive the drop")
	}
	if len(opt.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", opt.Warnings)
	}
}

func TestOptimize_PromptMerge(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Description: "Deploy to staging", Handler: rec.action("staging"),
			Resolution: PromptForChoice{ChoiceLabel: "staging"}},
		Descriptor{Phrase: "deploy", Description: "Deploy to prod", Handler: rec.action("prod"),
			Options:    []Option{{Name: "force", Type: OptionBool}},
			Resolution: PromptForChoice{ChoiceLabel: "prod"}},
	)
	opt := mustOptimize(t, root)

	deploy := opt.Root.Child("deploy")
	if deploy == nil || !deploy.IsRunnable() {
		t.Fatal("'deploy' should be a runnable choice")
	}
	r, _ := deploy.Runnable()
	if len(r.Options) != 1 || r.Options[0].Name != "force" {
		t.Errorf("options = %+v, want union with 'force'", r.Options)
	}

	chooser := &fixedChooser{answer: "prod"}
	if err := runNode(t, deploy, Invocation{Chooser: chooser}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !slices.Equal(rec.ran, []string{"prod"}) {
		t.Errorf("ran = %v, want [prod]", rec.ran)
	}
	if !slices.Equal(chooser.labels, []string{"staging", "prod"}) {
		t.Errorf("offered labels = %v", chooser.labels)
	}
	if !strings.Contains(chooser.title, "deploy") {
		t.Errorf("title = %q, want the command name", chooser.title)
	}
	if len(opt.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", opt.Warnings)
	}
}

func TestOptimize_PromptFailures(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Handler: Do(noopAction), Resolution: PromptForChoice{ChoiceLabel: "a"}},
		Descriptor{Phrase: "deploy", Handler: Do(noopAction), Resolution: PromptForChoice{ChoiceLabel: "b"}},
	)
	deploy := mustOptimize(t, root).Root.Child("deploy")

	errAborted := errors.New("aborted")
	tests := []struct {
		name    string
		chooser Chooser
		wantErr error
	}{
		{name: "no chooser", chooser: nil, wantErr: ErrNoChooser},
		{name: "unknown label", chooser: &fixedChooser{answer: "c"}, wantErr: ErrUnknownChoice},
		{name: "chooser error", chooser: &fixedChooser{err: errAborted}, wantErr: errAborted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runNode(t, deploy, Invocation{Chooser: tt.chooser})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("run error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptimize_DuplicateChoiceLabelsAreDropped(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Description: "Deploy A", Handler: rec.action("a1"), Resolution: PromptForChoice{ChoiceLabel: "a"}},
		Descriptor{Phrase: "deploy", Description: "Deploy A again", Handler: rec.action("a2"), Resolution: PromptForChoice{ChoiceLabel: "a"}},
		Descriptor{Phrase: "deploy", Description: "Deploy B", Handler: rec.action("b"), Resolution: PromptForChoice{ChoiceLabel: "b"}},
	)
	opt := mustOptimize(t, root)

	if len(opt.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", opt.Warnings)
	}
	deploy := opt.Root.Child("deploy")
	if err := runNode(t, deploy, Invocation{}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !slices.Equal(rec.ran, []string{"b"}) {
		t.Errorf("ran = %v, want [b]", rec.ran)
	}
}

func TestOptimize_PromptAgainstUniqueFails(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "deploy", Description: "Deploy A", Handler: Do(noopAction), Resolution: PromptForChoice{ChoiceLabel: "a"}},
		Descriptor{Phrase: "deploy", Description: "Deploy B", Handler: Do(noopAction), Resolution: PromptForChoice{ChoiceLabel: "b"}},
		Descriptor{Phrase: "deploy", Description: "Deploy C", Handler: Do(noopAction)},
	)

	complaints := Validate(root)
	if len(complaints) != 1 {
		t.Fatalf("complaints = %v, want 1", complaints)
	}
	if !slices.Contains(complaints[0].Descriptions, "Deploy C") {
		t.Errorf("descriptions = %v, want 'Deploy C'", complaints[0].Descriptions)
	}
}

func TestOptimize_PositionalExclusivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		other Descriptor
	}{
		{name: "runnable word", other: Descriptor{Phrase: "clone", Description: "Clone default", Handler: Do(noopAction)}},
		{name: "container", other: Descriptor{Phrase: "clone mirror", Description: "Clone a mirror", Handler: Do(noopAction)}},
		{name: "prompt", other: Descriptor{Phrase: "clone", Handler: Do(noopAction), Resolution: PromptForChoice{ChoiceLabel: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := buildRoot(t,
				Descriptor{Phrase: "clone <repo>", Description: "Clone a repository", Handler: Do(noopAction)},
				tt.other,
			)
			_, err := Optimize(root)
			var assemblyErr *AssemblyError
			if !errors.As(err, &assemblyErr) {
				t.Fatalf("Optimize() error = %v, want *AssemblyError", err)
			}
			if !slices.Contains(assemblyErr.Complaints[0].Reasons, reasonPositional) {
				t.Errorf("reasons = %v, want %q", assemblyErr.Complaints[0].Reasons, reasonPositional)
			}
		})
	}
}

func TestOptimize_PositionalWinsOverDroppedSibling(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "clone <repo>", Description: "Clone a repository", Handler: Do(noopAction)},
		Descriptor{Phrase: "clone", Description: "Clone default", Handler: Do(noopAction), Resolution: DropWithWarning{},
			Nested: func(c Collector) error {
				return c.AddCommand(Descriptor{Phrase: "mirror", Handler: Do(noopAction)})
			}},
	)
	opt := mustOptimize(t, root)

	clone := opt.Root.Child("clone")
	if clone == nil || clone.Kind() != PositionalNode {
		t.Fatal("positional 'clone' should win")
	}
	if len(clone.Children()) != 0 {
		t.Error("a positional node cannot keep the dropped sibling's subcommands")
	}

	var commands []string
	for _, w := range opt.Warnings {
		commands = append(commands, w.Command())
	}
	if !slices.Equal(commands, []string{"clone", "clone mirror"}) {
		t.Fatalf("warnings = %v, want one for 'clone' and one for 'clone mirror'", commands)
	}
	if !strings.Contains(opt.Warnings[1].Message, "'clone' takes positional arguments") {
		t.Errorf("lost subcommand warning = %q", opt.Warnings[1].Message)
	}
}

func TestOptimize_AliasConflict(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "clone <args>", Description: "Clone", Handler: Do(noopAction), Aliases: []string{"c"}},
		Descriptor{Phrase: "commit", Description: "Commit", Handler: Do(noopAction), Aliases: []string{"c"}, Resolution: DropWithWarning{}},
	)
	opt := mustOptimize(t, root)

	c := opt.Root.Child("c")
	if c == nil || c.Kind() != PositionalNode {
		t.Fatal("alias 'c' should resolve to clone")
	}
	if names := childNames(opt.Root); !slices.Equal(names, []string{"clone", "c", "commit"}) {
		t.Errorf("root children = %v", names)
	}
}

func TestOptimize_UnchangedTreeIsShared(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "a", Handler: Do(noopAction)},
		Descriptor{Phrase: "b c", Handler: Do(noopAction)},
	)
	opt := mustOptimize(t, root)
	if opt.Root != root {
		t.Error("Optimize() of a conflict-free tree should return the same root")
	}
}

func TestCombine_AlreadyCombined(t *testing.T) {
	t.Parallel()

	a, _ := BuildTree(Descriptor{Phrase: "show skills", Handler: Do(noopAction)})
	b, _ := BuildTree(Descriptor{Phrase: "show agents", Handler: Do(noopAction)})
	merged, _, err := Combine(append(a, b...))
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	c, _ := BuildTree(Descriptor{Phrase: "show hooks", Handler: Do(noopAction)})
	_, _, err = Combine([]*Node{merged, c[0]})
	if !errors.Is(err, ErrAlreadyCombined) {
		t.Fatalf("second Combine() error = %v, want ErrAlreadyCombined", err)
	}
}

func TestOptimize_AlreadyOptimizedFails(t *testing.T) {
	t.Parallel()

	root := buildRoot(t,
		Descriptor{Phrase: "show skills", Description: "List skills", Handler: Do(noopAction)},
		Descriptor{Phrase: "show agents", Description: "List agents", Handler: Do(noopAction)},
	)
	opt := mustOptimize(t, root)
	show := opt.Root.Child("show")
	if show == nil || !show.IsMerged() {
		t.Fatal("'show' should be a merged node")
	}

	tests := []struct {
		name string
		node *Node
	}{
		{name: "optimized root", node: opt.Root},
		{name: "merged node", node: show},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Optimize(tt.node)
			var already *AlreadyCombinedError
			if !errors.As(err, &already) {
				t.Fatalf("Optimize() error = %v, want *AlreadyCombinedError", err)
			}
			if already.Name != "show" {
				t.Errorf("already combined name = %q, want show", already.Name)
			}
		})
	}

	if _, _, err := Combine([]*Node{show}); !errors.Is(err, ErrAlreadyCombined) {
		t.Errorf("Combine(merged) error = %v, want ErrAlreadyCombined", err)
	}
}

func TestValidate_ContinuesPastMergedNodes(t *testing.T) {
	t.Parallel()

	merged := mustOptimize(t, buildRoot(t,
		Descriptor{Phrase: "show skills", Handler: Do(noopAction)},
		Descriptor{Phrase: "show agents", Handler: Do(noopAction)},
	)).Root.Child("show")
	a, _ := BuildTree(Descriptor{Phrase: "status", Description: "Status A", Handler: Do(noopAction)})
	b, _ := BuildTree(Descriptor{Phrase: "status", Description: "Status B", Handler: Do(noopAction)})
	root, err := NewNode(NodeSpec{Name: "deliver", Children: []*Node{merged, a[0], b[0]}})
	if err != nil {
		t.Fatalf("NewNode() error = %v", err)
	}

	var commands []string
	for _, c := range Validate(root) {
		commands = append(commands, c.Command())
	}
	if !slices.Equal(commands, []string{"show", "status"}) {
		t.Errorf("complaints = %v, want [show status]", commands)
	}
}

func TestWhyNotCombine(t *testing.T) {
	t.Parallel()

	word, _ := BuildTree(Descriptor{Phrase: "x", Handler: Do(noopAction)})
	word2, _ := BuildTree(Descriptor{Phrase: "x", Handler: Do(noopAction)})
	group, _ := BuildTree(Descriptor{Phrase: "x y", Handler: Do(noopAction)})
	positional, _ := BuildTree(Descriptor{Phrase: "x <z>", Handler: Do(noopAction)})

	tests := []struct {
		name     string
		siblings []*Node
		want     []string
	}{
		{name: "single", siblings: word, want: nil},
		{name: "runnable and container", siblings: []*Node{word[0], group[0]}, want: nil},
		{name: "two runnables", siblings: []*Node{word[0], word2[0]}, want: []string{reasonTwoCompletes}},
		{name: "positional and container", siblings: []*Node{positional[0], group[0]}, want: []string{reasonPositional}},
		{name: "positional and runnable", siblings: []*Node{positional[0], word[0]}, want: []string{reasonPositional, reasonTwoCompletes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := WhyNotCombine(tt.siblings); !slices.Equal(got, tt.want) {
				t.Errorf("WhyNotCombine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func childNames(n *Node) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name())
	}
	return names
}
