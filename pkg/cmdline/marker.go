// SPDX-License-Identifier: MPL-2.0

package cmdline

import "strings"

// Marker describes a positional argument placeholder written as `<name>`
// (required) or `[name]` (optional). A trailing ".." or "..." inside the
// brackets marks the argument as variadic.
type Marker struct {
	Name     string
	Required bool
	Variadic bool
}

// ParseMarker reports whether tok is a positional marker and decodes it.
func ParseMarker(tok string) (Marker, bool) {
	if len(tok) < 3 {
		return Marker{}, false
	}

	var m Marker
	switch {
	case tok[0] == '<' && tok[len(tok)-1] == '>':
		m.Required = true
	case tok[0] == '[' && tok[len(tok)-1] == ']':
	default:
		return Marker{}, false
	}

	name := tok[1 : len(tok)-1]
	if trimmed := strings.TrimRight(name, "."); len(name)-len(trimmed) >= 2 {
		m.Variadic = true
		name = trimmed
	}
	if name == "" || strings.ContainsAny(name, "<>[] \t") {
		return Marker{}, false
	}

	m.Name = name
	return m, true
}

// IsMarker reports whether tok is a positional marker.
func IsMarker(tok string) bool {
	_, ok := ParseMarker(tok)
	return ok
}

// String renders the marker back into its bracketed form.
func (m Marker) String() string {
	name := m.Name
	if m.Variadic {
		name += ".."
	}
	if m.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}
