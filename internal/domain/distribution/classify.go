package distribution

import (
	"cmp"
	"slices"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
)

// minGroupSize is the smallest session worth organizing.
const minGroupSize = 3

// wardsPerEscort is the number of ward slots each escort has.
const wardsPerEscort = 2

// ValidateSkills fails with InvalidSkillLevel on the first participant whose
// skill is not a recognized level.
func ValidateSkills(participants []model.Participant) error {
	for _, p := range participants {
		if !model.SkillKnown(p.Skill) {
			return failure.InvalidSkillLevel(p.Skill)
		}
	}
	return nil
}

// Classify splits participants into escorts and wards, keeping input order.
func Classify(participants []model.Participant) (escorts, wards []model.Participant) {
	for _, p := range participants {
		if p.IsEscort() {
			escorts = append(escorts, p)
		} else {
			wards = append(wards, p)
		}
	}
	return escorts, wards
}

// CheckFeasibility verifies the group-size rules. Capacity is checked before
// the minimum size, so a lone ward with no escort reports
// InsufficientEscorts.
func CheckFeasibility(escorts, wards int) error {
	if escorts*wardsPerEscort < wards {
		return failure.InsufficientEscorts()
	}
	if escorts+wards < minGroupSize {
		return failure.GroupTooSmall()
	}
	return nil
}

// Order sorts participants in place by (age, skill, duration), highest
// first. Equal keys keep their relative order.
func Order(participants []model.Participant) {
	slices.SortStableFunc(participants, func(a, b model.Participant) int {
		if c := cmp.Compare(b.Age, a.Age); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Skill, a.Skill); c != 0 {
			return c
		}
		return cmp.Compare(b.Duration, a.Duration)
	})
}
