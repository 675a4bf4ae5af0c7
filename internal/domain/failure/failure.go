// Package failure defines the categorized diagnostics a distribution run can
// end with. Every failure is request-scoped and recoverable.
package failure

import (
	"errors"
	"fmt"
)

// Sentinel kinds. A *Failure unwraps to exactly one of these so callers can
// use errors.Is.
var (
	ErrInsufficientEscorts     = errors.New("insufficient escorts")
	ErrGroupTooSmall           = errors.New("group too small")
	ErrNoOlderEscortAvailable  = errors.New("no older escort available")
	ErrNoSlotForLeftoverEscort = errors.New("no slot for leftover escort")
	ErrInvalidSkillLevel       = errors.New("invalid skill level")
)

// Kind identifies a failure category.
type Kind uint8

// Failure kinds.
const (
	KindInsufficientEscorts Kind = iota + 1
	KindGroupTooSmall
	KindNoOlderEscortAvailable
	KindNoSlotForLeftoverEscort
	KindInvalidSkillLevel
)

// Kinds lists every failure kind in declaration order.
var Kinds = []Kind{
	KindInsufficientEscorts,
	KindGroupTooSmall,
	KindNoOlderEscortAvailable,
	KindNoSlotForLeftoverEscort,
	KindInvalidSkillLevel,
}

// String returns the snake_case label used in metrics and API payloads.
func (k Kind) String() string {
	switch k {
	case KindInsufficientEscorts:
		return "insufficient_escorts"
	case KindGroupTooSmall:
		return "group_too_small"
	case KindNoOlderEscortAvailable:
		return "no_older_escort_available"
	case KindNoSlotForLeftoverEscort:
		return "no_slot_for_leftover_escort"
	case KindInvalidSkillLevel:
		return "invalid_skill_level"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInsufficientEscorts:
		return ErrInsufficientEscorts
	case KindGroupTooSmall:
		return ErrGroupTooSmall
	case KindNoOlderEscortAvailable:
		return ErrNoOlderEscortAvailable
	case KindNoSlotForLeftoverEscort:
		return ErrNoSlotForLeftoverEscort
	case KindInvalidSkillLevel:
		return ErrInvalidSkillLevel
	default:
		return nil
	}
}

// Failure is a categorized diagnostic with at most one contextual value.
// Only the field matching Kind is meaningful: Age for
// NoOlderEscortAvailable, Name for NoSlotForLeftoverEscort and Skill for
// InvalidSkillLevel.
type Failure struct {
	Kind  Kind
	Age   int
	Name  string
	Skill int
}

// InsufficientEscorts reports that wards outnumber twice the escorts.
func InsufficientEscorts() *Failure { return &Failure{Kind: KindInsufficientEscorts} }

// GroupTooSmall reports fewer than three participants.
func GroupTooSmall() *Failure { return &Failure{Kind: KindGroupTooSmall} }

// NoOlderEscortAvailable reports that nobody older than age can take a ward.
func NoOlderEscortAvailable(age int) *Failure {
	return &Failure{Kind: KindNoOlderEscortAvailable, Age: age}
}

// NoSlotForLeftoverEscort reports that the single unpaired escort has
// nowhere to go.
func NoSlotForLeftoverEscort(name string) *Failure {
	return &Failure{Kind: KindNoSlotForLeftoverEscort, Name: name}
}

// InvalidSkillLevel reports a skill outside the recognized levels.
func InvalidSkillLevel(skill int) *Failure {
	return &Failure{Kind: KindInvalidSkillLevel, Skill: skill}
}

// Value returns the contextual value carried by the failure, or nil.
func (f *Failure) Value() any {
	switch f.Kind {
	case KindNoOlderEscortAvailable:
		return f.Age
	case KindNoSlotForLeftoverEscort:
		return f.Name
	case KindInvalidSkillLevel:
		return f.Skill
	default:
		return nil
	}
}

func (f *Failure) Error() string {
	base := f.Kind.String()
	if s := f.Kind.sentinel(); s != nil {
		base = s.Error()
	}
	if v := f.Value(); v != nil {
		return fmt.Sprintf("%s: %v", base, v)
	}
	return base
}

// Unwrap exposes the sentinel for errors.Is.
func (f *Failure) Unwrap() error { return f.Kind.sentinel() }

// As extracts a *Failure from err's chain.
func As(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
