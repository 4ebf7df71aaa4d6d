// SPDX-License-Identifier: MPL-2.0

package cmdtree

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindUniqueOrFail aborts assembly when the command collides with another
	// complete command of the same name.
	KindUniqueOrFail ResolutionKind = "unique-or-fail"
	// KindDropWithWarning removes the command on collision and leaves a
	// warning in the help text.
	KindDropWithWarning ResolutionKind = "drop-with-warning"
	// KindPromptForChoice merges colliding commands into one that asks the
	// user which implementation to run.
	KindPromptForChoice ResolutionKind = "prompt-for-choice"
)

var (
	// ErrInvalidResolutionKind is returned when a ResolutionKind value is not recognized.
	ErrInvalidResolutionKind = errors.New("invalid conflict resolution kind")
	// ErrMissingChoiceLabel is returned when a prompt-for-choice policy has no label.
	ErrMissingChoiceLabel = errors.New("prompt-for-choice requires a choice label")
)

type (
	// ResolutionKind is the string form of a ConflictResolution, used by
	// configuration files and agent manifests.
	ResolutionKind string

	// InvalidResolutionKindError is returned when a ResolutionKind value is not recognized.
	// It wraps ErrInvalidResolutionKind for errors.Is() compatibility.
	InvalidResolutionKindError struct {
		Value ResolutionKind
	}

	// ConflictResolution declares what happens when another command claims
	// the same name. The set of implementations is closed: UniqueOrFail,
	// DropWithWarning and PromptForChoice.
	ConflictResolution interface {
		// Kind returns the policy discriminator.
		Kind() ResolutionKind
		// CommandDescription describes the command that carries the policy.
		// It is used in warnings and conflict reports.
		CommandDescription() string

		sealedResolution()
	}

	// UniqueOrFail is the default policy.
	UniqueOrFail struct {
		Description string
	}

	// DropWithWarning makes the command disappear when it loses a conflict.
	DropWithWarning struct {
		Description string
	}

	// PromptForChoice lets colliding commands coexist behind an interactive
	// choice. ChoiceLabel must be unique among the colliding commands.
	PromptForChoice struct {
		Description string
		ChoiceLabel string
	}
)

// Kind implements ConflictResolution.
func (UniqueOrFail) Kind() ResolutionKind { return KindUniqueOrFail }

// CommandDescription implements ConflictResolution.
func (r UniqueOrFail) CommandDescription() string { return r.Description }

func (UniqueOrFail) sealedResolution() {}

// Kind implements ConflictResolution.
func (DropWithWarning) Kind() ResolutionKind { return KindDropWithWarning }

// CommandDescription implements ConflictResolution.
func (r DropWithWarning) CommandDescription() string { return r.Description }

func (DropWithWarning) sealedResolution() {}

// Kind implements ConflictResolution.
func (PromptForChoice) Kind() ResolutionKind { return KindPromptForChoice }

// CommandDescription implements ConflictResolution.
func (r PromptForChoice) CommandDescription() string { return r.Description }

func (PromptForChoice) sealedResolution() {}

// String returns the string representation of the ResolutionKind.
func (k ResolutionKind) String() string { return string(k) }

// IsValid returns whether the ResolutionKind is one of the defined kinds.
// The zero value is not valid; callers default it explicitly.
func (k ResolutionKind) IsValid() (bool, []error) {
	switch k {
	case KindUniqueOrFail, KindDropWithWarning, KindPromptForChoice:
		return true, nil
	default:
		return false, []error{&InvalidResolutionKindError{Value: k}}
	}
}

// ParseResolutionKind converts user input (case-insensitive, "_" accepted
// for "-") into a ResolutionKind.
func ParseResolutionKind(s string) (ResolutionKind, error) {
	k := ResolutionKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if ok, errs := k.IsValid(); !ok {
		return "", errs[0]
	}
	return k, nil
}

// NewResolution builds the variant for kind. The zero kind means UniqueOrFail.
func NewResolution(kind ResolutionKind, description, choiceLabel string) (ConflictResolution, error) {
	switch kind {
	case "", KindUniqueOrFail:
		return UniqueOrFail{Description: description}, nil
	case KindDropWithWarning:
		return DropWithWarning{Description: description}, nil
	case KindPromptForChoice:
		if strings.TrimSpace(choiceLabel) == "" {
			return nil, fmt.Errorf("%w (command %q)", ErrMissingChoiceLabel, description)
		}
		return PromptForChoice{Description: description, ChoiceLabel: choiceLabel}, nil
	default:
		return nil, &InvalidResolutionKindError{Value: kind}
	}
}

// Error implements the error interface.
func (e *InvalidResolutionKindError) Error() string {
	return fmt.Sprintf("invalid conflict resolution %q (valid: %s, %s, %s)",
		e.Value, KindUniqueOrFail, KindDropWithWarning, KindPromptForChoice)
}

// Unwrap returns ErrInvalidResolutionKind for errors.Is() compatibility.
func (e *InvalidResolutionKindError) Unwrap() error { return ErrInvalidResolutionKind }

// choiceLabel returns the label of a PromptForChoice policy.
func choiceLabel(r ConflictResolution) (string, bool) {
	p, ok := r.(PromptForChoice)
	if !ok {
		return "", false
	}
	return p.ChoiceLabel, true
}
