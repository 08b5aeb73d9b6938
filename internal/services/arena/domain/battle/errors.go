package battle

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
)

var (
	// ErrConflict matches every roster conflict returned by Simulate.
	ErrConflict = errors.New("battle: roster conflict")

	// ErrTeamsShareCreature is returned when a name appears on both rosters.
	ErrTeamsShareCreature = apperrors.New(apperrors.CodeBattleTeamsShareCreature, "teams must not share any creature")
	// ErrTeamsUnequalSize is returned when the resolved rosters differ in length.
	ErrTeamsUnequalSize = apperrors.New(apperrors.CodeBattleTeamsUnequalSize, "teams must have an equal number of creatures")

	// ErrMalformedAttribute matches every *AttributeError.
	ErrMalformedAttribute = apperrors.New(apperrors.CodeCreatureAttributeMalformed, "creature attribute is malformed")
)

// ConflictError reports rosters that cannot battle each other. It matches
// ErrConflict and the specific sentinel it wraps.
type ConflictError struct {
	err *apperrors.Error
}

func (e *ConflictError) Error() string { return e.err.Message }

// Unwrap returns the coded domain error.
func (e *ConflictError) Unwrap() error { return e.err }

// Is reports whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func conflict(sentinel *apperrors.Error) error {
	return &ConflictError{err: sentinel}
}

// AttributeError reports a weight or height without a leading number.
type AttributeError struct {
	Creature string
	Field    string
	Value    string

	coded *apperrors.Error
}

func newAttributeError(creature, field, value string) *AttributeError {
	e := &AttributeError{Creature: creature, Field: field, Value: value}
	e.coded = apperrors.WithMetadata(
		apperrors.CodeCreatureAttributeMalformed,
		e.Error(),
		map[string]string{"Name": creature, "Field": field},
	)
	return e
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("creature %q has malformed %s %q", e.Creature, e.Field, e.Value)
}

// Unwrap returns the coded domain error so errors.Is matches
// ErrMalformedAttribute.
func (e *AttributeError) Unwrap() error { return e.coded }
