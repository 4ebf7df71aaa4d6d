// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	reasonPositional      = "cannot combine commands with positional arguments"
	reasonTwoCompletes    = "two complete commands"
	reasonAlreadyCombined = "already combined"

	descriptionSeparator = "; or, "
)

type (
	// Optimized is a conflict-free tree plus the warnings left by the
	// conflicts that policy resolved.
	Optimized struct {
		Root     *Node
		Warnings []Warning
	}

	combiner struct {
		warnings   []Warning
		complaints []Complaint
		// lenient treats merged nodes like any other sibling instead of
		// aborting. Validate uses it to keep reporting past them.
		lenient bool
	}
)

// Optimize combines every group of same-named siblings in the tree, top to
// bottom, applying each command's conflict policy. The whole tree is
// examined before failing, so the returned *AssemblyError lists every
// unresolved conflict. A tree that already holds a merged node, such as
// the root of a previous result, fails fast with *AlreadyCombinedError.
func Optimize(root *Node) (*Optimized, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nothing to optimize", ErrInvalidNode)
	}
	if already := alreadyCombined(root); len(already) > 0 {
		return nil, already[0]
	}
	c := &combiner{}
	out, err := c.optimizeRoot(root)
	if err != nil {
		return nil, err
	}
	if len(c.complaints) > 0 {
		return nil, &AssemblyError{Complaints: c.complaints}
	}
	return &Optimized{Root: out, Warnings: c.warnings}, nil
}

// optimizeRoot combines the children of the root, whose own name is not
// part of any command path.
func (c *combiner) optimizeRoot(root *Node) (*Node, error) {
	children, changed, err := c.combineChildren(nil, root.children)
	if err != nil {
		return nil, err
	}
	if !changed {
		return root, nil
	}
	return root.withChildren(children), nil
}

// Combine merges siblings that share one name into a single node. A single
// sibling is returned unchanged. The node is nil when policy dropped every
// sibling.
func Combine(siblings []*Node) (*Node, []Warning, error) {
	if len(siblings) == 0 {
		return nil, nil, nil
	}
	name := siblings[0].name
	for _, s := range siblings {
		if s.name != name {
			return nil, nil, &InvalidNodeError{Name: s.name, Reason: fmt.Sprintf("cannot combine with differently named command %q", name)}
		}
		if s.merged {
			return nil, nil, &AlreadyCombinedError{Name: name}
		}
	}

	c := &combiner{}
	out, err := c.combine(nil, siblings)
	if err != nil {
		return nil, nil, err
	}
	if len(c.complaints) > 0 {
		return nil, c.warnings, &AssemblyError{Complaints: c.complaints}
	}
	return out, c.warnings, nil
}

// WhyNotCombine lists the reasons siblings cannot be merged as they are.
// An empty result means a trivial merge is possible.
func WhyNotCombine(siblings []*Node) []string {
	if len(siblings) < 2 {
		return nil
	}

	var reasons []string
	if slices.ContainsFunc(siblings, (*Node).HasPositionals) {
		reasons = append(reasons, reasonPositional)
	}
	runnable := 0
	for _, s := range siblings {
		if s.IsRunnable() {
			runnable++
		}
	}
	if runnable > 1 {
		reasons = append(reasons, reasonTwoCompletes)
	}
	return reasons
}

// optimizeNode combines the children of n. path names n's ancestors below
// the root.
func (c *combiner) optimizeNode(path []string, n *Node) (*Node, error) {
	if len(n.children) == 0 {
		return n, nil
	}
	children, changed, err := c.combineChildren(appendPath(path, n.name), n.children)
	if err != nil {
		return nil, err
	}
	if !changed {
		return n, nil
	}
	return n.withChildren(children), nil
}

func (c *combiner) combineChildren(path []string, children []*Node) ([]*Node, bool, error) {
	groups := groupByName(children)
	out := make([]*Node, 0, len(groups))
	changed := len(groups) != len(children)

	for _, group := range groups {
		var (
			n   *Node
			err error
		)
		if len(group) == 1 {
			n, err = c.optimizeNode(path, group[0])
		} else {
			n, err = c.combine(path, group)
		}
		if err != nil {
			return nil, false, err
		}
		if n == nil {
			changed = true
			continue
		}
		if len(group) != 1 || n != group[0] {
			changed = true
		}
		out = append(out, n)
	}
	return out, changed, nil
}

// combine resolves one group of same-named siblings found under path.
func (c *combiner) combine(path []string, siblings []*Node) (*Node, error) {
	if len(siblings) == 1 {
		return siblings[0], nil
	}
	name := siblings[0].name
	if !c.lenient {
		for _, s := range siblings {
			if s.merged {
				return nil, &AlreadyCombinedError{Path: slices.Clone(path), Name: name}
			}
		}
	}

	if len(WhyNotCombine(siblings)) == 0 {
		return c.merge(path, siblings, nil)
	}

	// Drop the contenders that agreed to lose a conflict. Plain containers
	// never contend.
	dropped := func(s *Node) bool {
		return s.resolution.Kind() == KindDropWithWarning && (s.IsRunnable() || s.HasPositionals())
	}
	positionalSurvivor := slices.ContainsFunc(siblings, func(s *Node) bool {
		return s.HasPositionals() && !dropped(s)
	})
	var notes []string
	reduced := make([]*Node, 0, len(siblings))
	for _, s := range siblings {
		if !dropped(s) {
			reduced = append(reduced, s)
			continue
		}
		notes = append(notes, c.drop(path, s))
		c.keepSubcommands(path, s, positionalSurvivor, &reduced)
	}

	if len(WhyNotCombine(reduced)) > 0 {
		reduced = c.resolvePrompts(path, reduced, positionalSurvivor, &notes)
	}

	if reasons := WhyNotCombine(reduced); len(reasons) > 0 {
		c.complain(path, name, reasons, reduced)
		// Keep going below the conflict so the report covers the whole tree.
		if _, _, err := c.combineChildren(appendPath(path, name), allChildren(reduced)); err != nil {
			return nil, err
		}
		return nil, nil
	}

	switch len(reduced) {
	case 0:
		return nil, nil
	case 1:
		n, err := c.optimizeNode(path, reduced[0])
		if err != nil {
			return nil, err
		}
		return n.withHelpNotes(notes...), nil
	default:
		return c.merge(path, reduced, notes)
	}
}

// merge builds the single node that replaces compatible siblings.
func (c *combiner) merge(path []string, siblings []*Node, notes []string) (*Node, error) {
	name := siblings[0].name
	children, _, err := c.combineChildren(appendPath(path, name), allChildren(siblings))
	if err != nil {
		return nil, err
	}

	description := joinDescriptions(siblings)

	var runnable *Runnable
	var runnables []*Node
	var options []Option
	var helpNotes []string
	hasPayload := false
	for _, s := range siblings {
		if s.IsRunnable() {
			runnables = append(runnables, s)
		}
		if s.runnable != nil {
			hasPayload = true
		}
		options = unionOptions(options, s.options)
		helpNotes = append(helpNotes, s.helpNotes...)
	}
	switch {
	case len(runnables) == 1:
		runnable = cloneRunnable(runnables[0].runnable)
	case hasPayload:
		var noopOptions []Option
		for _, s := range siblings {
			if s.runnable != nil {
				noopOptions = unionOptions(noopOptions, s.runnable.Options)
			}
		}
		runnable = &Runnable{Description: description, Handler: NoopHandler{}, Options: noopOptions}
	}

	return &Node{
		name:        name,
		description: description,
		kind:        WordNode,
		runnable:    runnable,
		children:    children,
		resolution:  mergedResolution(name),
		options:     options,
		helpNotes:   append(helpNotes, notes...),
		merged:      true,
	}, nil
}

// resolvePrompts collapses the prompt-for-choice siblings of a conflicting
// group into one choice node. Siblings whose choice label is not unique are
// dropped with a warning instead.
func (c *combiner) resolvePrompts(path []string, siblings []*Node, positionalSurvivor bool, notes *[]string) []*Node {
	isPrompter := func(s *Node) bool {
		_, ok := choiceLabel(s.resolution)
		return ok && s.IsRunnable() && !s.HasPositionals()
	}

	labelCount := make(map[string]int)
	for _, s := range siblings {
		if isPrompter(s) {
			label, _ := choiceLabel(s.resolution)
			labelCount[label]++
		}
	}

	var prompters []*Node
	out := make([]*Node, 0, len(siblings))
	insertAt := -1
	for _, s := range siblings {
		if !isPrompter(s) {
			out = append(out, s)
			continue
		}
		label, _ := choiceLabel(s.resolution)
		if labelCount[label] > 1 {
			*notes = append(*notes, c.drop(path, s))
			c.keepSubcommands(path, s, positionalSurvivor, &out)
			continue
		}
		if insertAt < 0 {
			insertAt = len(out)
		}
		prompters = append(prompters, s)
	}

	switch len(prompters) {
	case 0:
		return out
	case 1:
		return slices.Insert(out, insertAt, prompters[0])
	}
	return slices.Insert(out, insertAt, choiceNode(path, prompters))
}

// choiceNode synthesizes a node whose action asks the user which of the
// prompters to run and then dispatches to it. Its children are left
// uncombined for the caller.
func choiceNode(path []string, prompters []*Node) *Node {
	name := prompters[0].name
	command := strings.Join(appendPath(path, name), " ")

	labels := make([]string, 0, len(prompters))
	handlers := make(map[string]Handler, len(prompters))
	var options []Option
	var helpNotes []string
	for _, p := range prompters {
		label, _ := choiceLabel(p.resolution)
		labels = append(labels, label)
		handlers[label] = p.runnable.Handler
		options = unionOptions(options, p.runnable.Options)
		options = unionOptions(options, p.options)
		helpNotes = append(helpNotes, p.helpNotes...)
	}
	helpNotes = append(helpNotes, fmt.Sprintf("you will be asked to choose one of: %s", strings.Join(labels, ", ")))

	title := fmt.Sprintf("Which '%s' do you want to run?", command)
	action := func(ctx context.Context, inv Invocation) error {
		if inv.Chooser == nil {
			return fmt.Errorf("'%s' has %d implementations (%s): %w", command, len(labels), strings.Join(labels, ", "), ErrNoChooser)
		}
		picked, err := inv.Chooser.Choose(ctx, title, slices.Clone(labels))
		if err != nil {
			return fmt.Errorf("choose implementation of '%s': %w", command, err)
		}
		h, ok := handlers[picked]
		if !ok {
			return fmt.Errorf("%w %q for '%s'", ErrUnknownChoice, picked, command)
		}
		return Run(ctx, h, inv)
	}

	description := joinDescriptions(prompters)
	return &Node{
		name:        name,
		description: description,
		kind:        WordNode,
		runnable: &Runnable{
			Description: description,
			Handler:     Do(action),
			Options:     options,
		},
		children:   allChildren(prompters),
		resolution: mergedResolution(name),
		helpNotes:  helpNotes,
		merged:     true,
	}
}

// drop records the warning for a sibling that lost a conflict.
func (c *combiner) drop(path []string, s *Node) string {
	msg := "this command is unavailable due to a conflict: " + describe(s)
	c.warnings = append(c.warnings, Warning{Path: slices.Clone(path), Name: s.name, Message: msg})
	return msg
}

func (c *combiner) complain(path []string, name string, reasons []string, siblings []*Node) {
	descriptions := make([]string, 0, len(siblings))
	for _, s := range siblings {
		if s.IsRunnable() || s.HasPositionals() {
			descriptions = append(descriptions, describe(s))
		}
	}
	c.complaints = append(c.complaints, Complaint{
		Path:         slices.Clone(path),
		Name:         name,
		Reasons:      reasons,
		Descriptions: descriptions,
	})
}

// keepSubcommands appends a stand-in for the subcommands of the dropped
// sibling s. A positional survivor cannot hold subcommands, so they are
// lost instead and every one of them gets its own warning.
func (c *combiner) keepSubcommands(path []string, s *Node, positionalSurvivor bool, out *[]*Node) {
	if len(s.children) == 0 {
		return
	}
	if !positionalSurvivor {
		*out = append(*out, standIn(s))
		return
	}
	owner := appendPath(path, s.name)
	c.loseSubcommands(strings.Join(owner, " "), owner, s.children)
}

// loseSubcommands warns about every descendant of the positional command
// named owner.
func (c *combiner) loseSubcommands(owner string, path []string, children []*Node) {
	for _, child := range children {
		msg := fmt.Sprintf("this command is unavailable because '%s' takes positional arguments: %s", owner, describe(child))
		c.warnings = append(c.warnings, Warning{Path: slices.Clone(path), Name: child.name, Message: msg})
		c.loseSubcommands(owner, appendPath(path, child.name), child.children)
	}
}

// alreadyCombined lists every merged node in the tree rooted at root.
func alreadyCombined(root *Node) []*AlreadyCombinedError {
	var found []*AlreadyCombinedError
	if root.merged {
		found = append(found, &AlreadyCombinedError{Name: root.name})
	}
	var walk func(path []string, n *Node)
	walk = func(path []string, n *Node) {
		if n.merged {
			found = append(found, &AlreadyCombinedError{Path: slices.Clone(path), Name: n.name})
		}
		for _, child := range n.children {
			walk(appendPath(path, n.name), child)
		}
	}
	for _, child := range root.children {
		walk(nil, child)
	}
	return found
}

// standIn keeps the subcommands of a dropped sibling alive under a
// non-runnable container of the same name.
func standIn(s *Node) *Node {
	return &Node{
		name:        s.name,
		description: PlaceholderDescription,
		kind:        WordNode,
		children:    s.children,
		resolution:  UniqueOrFail{Description: describe(s)},
	}
}

func mergedResolution(name string) ConflictResolution {
	return UniqueOrFail{Description: fmt.Sprintf("merged command %q; do not combine again", name)}
}

// describe returns the most specific description of a node: its policy's
// command description, else its own. Merged nodes use their own.
func describe(n *Node) string {
	if n.merged {
		return n.description
	}
	if d := n.resolution.CommandDescription(); d != "" && d != PlaceholderDescription {
		return d
	}
	return n.description
}

// joinDescriptions deduplicates descriptions in order, skipping empty and
// placeholder values.
func joinDescriptions(nodes []*Node) string {
	var seen []string
	for _, n := range nodes {
		d := n.description
		if d == "" || d == PlaceholderDescription || slices.Contains(seen, d) {
			continue
		}
		seen = append(seen, d)
	}
	if len(seen) == 0 {
		return PlaceholderDescription
	}
	return strings.Join(seen, descriptionSeparator)
}

// groupByName groups nodes by name, ordered by first appearance.
func groupByName(nodes []*Node) [][]*Node {
	index := make(map[string]int)
	var groups [][]*Node
	for _, n := range nodes {
		i, ok := index[n.name]
		if !ok {
			i = len(groups)
			index[n.name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], n)
	}
	return groups
}

func allChildren(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		out = append(out, n.children...)
	}
	return out
}

func appendPath(path []string, name string) []string {
	return append(slices.Clone(path), name)
}
