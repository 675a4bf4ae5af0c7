// Package model contains domain models passed between layers.
package model

// Escort predicate thresholds.
const (
	escortMinSkill       = 7  // skill must be strictly above
	escortMaxDurationSec = 60 // duration must be strictly below
)

// Participant is a single swimmer taking part in a dive session.
// Values are never mutated after ingestion.
type Participant struct {
	Name     string // display name
	Age      int    // age in lunar months
	Skill    int    // skill level, 5..9
	Duration int    // breath-hold time in seconds
}

// IsEscort reports whether the participant may supervise others.
func (p Participant) IsEscort() bool {
	return p.Skill > escortMinSkill && p.Duration < escortMaxDurationSec
}

// Group is one escort together with up to two wards. The first slot is
// always filled before the second.
type Group struct {
	Escort Participant
	First  *Participant
	Second *Participant
}

// Wards returns the filled slots in order.
func (g Group) Wards() []Participant {
	out := make([]Participant, 0, 2)
	if g.First != nil {
		out = append(out, *g.First)
	}
	if g.Second != nil {
		out = append(out, *g.Second)
	}
	return out
}

// HasWard reports whether the first slot is taken.
func (g Group) HasWard() bool { return g.First != nil }

// Assignment is the ordered result of a distribution run.
type Assignment []Group

// Participants returns every participant referenced by the assignment,
// leads and slots alike, in rendering order.
func (a Assignment) Participants() []Participant {
	out := make([]Participant, 0, len(a)*3)
	for _, g := range a {
		out = append(out, g.Escort)
		out = append(out, g.Wards()...)
	}
	return out
}

// Recognized skill levels.
const (
	MinSkill = 5
	MaxSkill = 9
)

// SkillKnown reports whether skill is a recognized level.
func SkillKnown(skill int) bool {
	return skill >= MinSkill && skill <= MaxSkill
}
