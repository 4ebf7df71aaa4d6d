// SPDX-License-Identifier: MPL-2.0

package cmdtree

// Validate reports every conflict that Optimize would fail on, without
// producing a tree. Merged nodes are reported as already combined and the
// traversal continues past them. An empty result means Optimize succeeds
// on root.
func Validate(root *Node) []Complaint {
	if root == nil {
		return nil
	}
	var complaints []Complaint
	for _, already := range alreadyCombined(root) {
		complaints = append(complaints, Complaint{
			Path:    already.Path,
			Name:    already.Name,
			Reasons: []string{reasonAlreadyCombined},
		})
	}
	c := &combiner{lenient: true}
	// Only merged nodes make the combiner fail, and lenient mode skips them.
	_, _ = c.optimizeRoot(root)
	return append(complaints, c.complaints...)
}

// ValidateErr is Validate folded into an error: nil when the tree is
// consistent, an *AssemblyError otherwise.
func ValidateErr(root *Node) error {
	if complaints := Validate(root); len(complaints) > 0 {
		return &AssemblyError{Complaints: complaints}
	}
	return nil
}
