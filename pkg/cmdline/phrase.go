// SPDX-License-Identifier: MPL-2.0

// Package cmdline parses command phrases such as "deliver start now" or
// "clone <repo> [dir]" into literal words and trailing positional markers.
//
// This package is a leaf dependency: it imports only the standard library.
package cmdline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidPhrase is the sentinel error wrapped by InvalidPhraseError.
	ErrInvalidPhrase = errors.New("invalid command phrase")
	// ErrInvalidAlias is the sentinel error wrapped by InvalidAliasError.
	ErrInvalidAlias = errors.New("invalid command alias")
)

type (
	// Phrase is a parsed command phrase. The zero value is not a valid
	// phrase; obtain one through Parse.
	Phrase struct {
		words       []string
		positionals []string
	}

	// InvalidPhraseError is returned when a phrase cannot be parsed.
	InvalidPhraseError struct {
		Value  string
		Reason string
	}

	// InvalidAliasError is returned when an alias is not a single word.
	InvalidAliasError struct {
		Alias  string
		Phrase string
	}
)

// Parse splits s into words and positional markers. Every positional marker
// must come after every literal word, and s must be written with single
// spaces so that Parse(s).String() == s.
func Parse(s string) (Phrase, error) {
	tokens := strings.Fields(s)

	var p Phrase
	for _, tok := range tokens {
		if IsMarker(tok) {
			p.positionals = append(p.positionals, tok)
			continue
		}
		p.words = append(p.words, tok)
	}

	if len(p.words) == 0 {
		return Phrase{}, &InvalidPhraseError{Value: s, Reason: "a command phrase needs at least one word"}
	}
	if p.String() != s {
		return Phrase{}, &InvalidPhraseError{
			Value:  s,
			Reason: "positional arguments must follow every word, separated by single spaces",
		}
	}

	return p, nil
}

// MustParse is like Parse but panics on error. Use it for phrases that are
// compile-time literals.
func MustParse(s string) Phrase {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Words returns a copy of the literal words.
func (p Phrase) Words() []string { return slices.Clone(p.words) }

// PositionalArguments returns a copy of the positional markers.
func (p Phrase) PositionalArguments() []string { return slices.Clone(p.positionals) }

// Markers decodes the positional markers in declaration order.
func (p Phrase) Markers() []Marker {
	markers := make([]Marker, 0, len(p.positionals))
	for _, tok := range p.positionals {
		m, _ := ParseMarker(tok)
		markers = append(markers, m)
	}
	return markers
}

// HasPositionals reports whether the phrase carries positional markers.
func (p Phrase) HasPositionals() bool { return len(p.positionals) > 0 }

// IsSingleWord reports whether the phrase has exactly one literal word.
func (p Phrase) IsSingleWord() bool { return len(p.words) == 1 }

// FirstWord returns the first literal word, or "" for the zero Phrase.
func (p Phrase) FirstWord() string {
	if len(p.words) == 0 {
		return ""
	}
	return p.words[0]
}

// DropFirstWord removes the first literal word. Dropping the only word is an
// error because a phrase cannot be empty.
func (p Phrase) DropFirstWord() (Phrase, error) {
	if len(p.words) < 2 {
		return Phrase{}, &InvalidPhraseError{Value: p.String(), Reason: "cannot drop the only word of a phrase"}
	}
	return Phrase{
		words:       slices.Clone(p.words[1:]),
		positionals: slices.Clone(p.positionals),
	}, nil
}

// WithAlias replaces every word with the single word alias, keeping the
// positional markers.
func (p Phrase) WithAlias(alias string) (Phrase, error) {
	if alias == "" || len(strings.Fields(alias)) != 1 || strings.TrimSpace(alias) != alias || IsMarker(alias) {
		return Phrase{}, &InvalidAliasError{Alias: alias, Phrase: p.String()}
	}
	return Phrase{
		words:       []string{alias},
		positionals: slices.Clone(p.positionals),
	}, nil
}

// String joins the words and then the positional markers with single spaces.
func (p Phrase) String() string {
	return strings.Join(append(slices.Clone(p.words), p.positionals...), " ")
}

// Error implements the error interface.
func (e *InvalidPhraseError) Error() string {
	return fmt.Sprintf("invalid command phrase %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPhrase for errors.Is() compatibility.
func (e *InvalidPhraseError) Unwrap() error { return ErrInvalidPhrase }

// Error implements the error interface.
func (e *InvalidAliasError) Error() string {
	return fmt.Sprintf("invalid alias %q for %q: an alias must be a single word", e.Alias, e.Phrase)
}

// Unwrap returns ErrInvalidAlias for errors.Is() compatibility.
func (e *InvalidAliasError) Unwrap() error { return ErrInvalidAlias }
