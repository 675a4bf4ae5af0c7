// Package instruction resolves the dive instruction a ward receives from
// their skill level and breath-hold time.
package instruction

import (
	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
)

// Duration thresholds in seconds.
const (
	expertThresholdSec  = 60 // skills 8 and 9
	learnerThresholdSec = 55 // skills 5 to 7
)

// Code identifies an instruction independent of locale.
type Code uint8

// Instruction codes.
const (
	Unsupervised Code = iota + 1
	FullRoundTrip
	SingleDescent
	DepthAndReturn
	ThreePracticeDives
	TwoPracticeDives
)

// Codes lists every instruction code.
var Codes = []Code{Unsupervised, FullRoundTrip, SingleDescent, DepthAndReturn, ThreePracticeDives, TwoPracticeDives}

// Lookup maps (skill, duration) to an instruction code. Skills outside the
// recognized levels fail with InvalidSkillLevel.
func Lookup(skill, duration int) (Code, error) {
	switch skill {
	case 8, 9:
		if duration < expertThresholdSec {
			return Unsupervised, nil
		}
		return FullRoundTrip, nil
	case 7:
		if duration < learnerThresholdSec {
			return SingleDescent, nil
		}
		return FullRoundTrip, nil
	case 6:
		if duration < learnerThresholdSec {
			return DepthAndReturn, nil
		}
		return ThreePracticeDives, nil
	case 5:
		if duration < learnerThresholdSec {
			return ThreePracticeDives, nil
		}
		return TwoPracticeDives, nil
	default:
		return 0, failure.InvalidSkillLevel(skill)
	}
}

// Resolver turns participants into instruction text for one locale.
type Resolver struct {
	catalog Catalog
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCatalog sets the phrase catalog.
func WithCatalog(c Catalog) Option {
	return func(r *Resolver) {
		if c.Instructions != nil {
			r.catalog = c
		}
	}
}

// NewResolver creates a Resolver using the English catalog by default.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{catalog: English()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog in use.
func (r *Resolver) Catalog() Catalog { return r.catalog }

// Resolve returns the instruction text for (skill, duration).
func (r *Resolver) Resolve(skill, duration int) (string, error) {
	code, err := Lookup(skill, duration)
	if err != nil {
		return "", err
	}
	return r.catalog.Instructions[code], nil
}

// ForParticipant resolves the instruction for a ward.
func (r *Resolver) ForParticipant(p model.Participant) (string, error) {
	return r.Resolve(p.Skill, p.Duration)
}
