package rostercheck

import (
	"cmp"
	"fmt"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
	"github.com/okian/diveplan/internal/domain/types"
)

func participant(s types.Swimmer) model.Participant {
	return model.Participant{Name: s.Name, Age: s.Age, Skill: s.Skill, Duration: s.Duration}
}

// counts returns escorts and wards after classification, and the first
// unknown skill level if any.
func counts(roster []types.Swimmer) (escorts, wards int, badSkill *int) {
	for _, s := range roster {
		if badSkill == nil && !model.SkillKnown(s.Skill) {
			skill := s.Skill
			badSkill = &skill
		}
		if participant(s).IsEscort() {
			escorts++
		} else {
			wards++
		}
	}
	return escorts, wards, badSkill
}

// seniority orders swimmers by age, then skill, then duration.
func seniority(a, b types.Swimmer) int {
	if c := cmp.Compare(a.Age, b.Age); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Skill, b.Skill); c != 0 {
		return c
	}
	return cmp.Compare(a.Duration, b.Duration)
}

// VerifyPlan checks a success response against the roster it answers and
// returns one message per violation.
func VerifyPlan(roster []types.Swimmer, resp types.DistributionResponse) []string {
	var violations []string
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	escorts, wards, badSkill := counts(roster)
	switch {
	case badSkill != nil:
		report("plan returned for unknown skill %d", *badSkill)
	case escorts*2 < wards:
		report("plan returned with %d escorts for %d wards", escorts, wards)
	case escorts+wards < 3:
		report("plan returned for %d participants", escorts+wards)
	}

	remaining := make(map[types.Swimmer]int, len(roster))
	for _, s := range roster {
		remaining[s]++
	}
	place := func(s types.Swimmer) {
		if remaining[s] == 0 {
			report("%s placed but not expected", s.Name)
			return
		}
		remaining[s]--
	}

	for i, g := range resp.Groups {
		place(g.Escort)
		if i > 0 && seniority(resp.Groups[i-1].Escort, g.Escort) < 0 {
			report("lead %s is senior to the previous lead %s", g.Escort.Name, resp.Groups[i-1].Escort.Name)
		}
		if len(g.Wards) > 2 {
			report("escort %s has %d wards", g.Escort.Name, len(g.Wards))
		}
		for _, w := range g.Wards {
			place(w.Swimmer)
			if w.Instruction == "" {
				report("ward %s has no instruction", w.Name)
			}
			// Escorts folded into another group carry no age constraint.
			if !participant(w.Swimmer).IsEscort() && w.Age >= g.Escort.Age {
				report("ward %s (%d) is not younger than escort %s (%d)", w.Name, w.Age, g.Escort.Name, g.Escort.Age)
			}
		}
	}

	for s, n := range remaining {
		if n > 0 {
			report("%s missing from plan", s.Name)
		}
	}
	return violations
}

// VerifyFailure checks a failure response against the roster it answers.
func VerifyFailure(roster []types.Swimmer, resp types.FailureResponse) []string {
	escorts, wards, badSkill := counts(roster)

	var want failure.Kind
	switch {
	case badSkill != nil:
		if resp.Code != failure.KindInvalidSkillLevel.String() {
			return []string{fmt.Sprintf("expected %s, got %s", failure.KindInvalidSkillLevel, resp.Code)}
		}
		if v, ok := resp.Value.(float64); !ok || int(v) != *badSkill {
			return []string{fmt.Sprintf("invalid skill value %v, want %d", resp.Value, *badSkill)}
		}
		return nil
	case escorts*2 < wards:
		want = failure.KindInsufficientEscorts
	case escorts+wards < 3:
		want = failure.KindGroupTooSmall
	}
	if want != 0 {
		if resp.Code != want.String() {
			return []string{fmt.Sprintf("expected %s, got %s", want, resp.Code)}
		}
		return nil
	}

	switch resp.Code {
	case failure.KindNoOlderEscortAvailable.String():
		age, ok := resp.Value.(float64)
		if !ok {
			return []string{fmt.Sprintf("age value %v is not a number", resp.Value)}
		}
		for _, s := range roster {
			if float64(s.Age) == age {
				return nil
			}
		}
		return []string{fmt.Sprintf("no participant aged %v", age)}
	case failure.KindNoSlotForLeftoverEscort.String():
		name, _ := resp.Value.(string)
		for _, s := range roster {
			if s.Name == name && participant(s).IsEscort() {
				return nil
			}
		}
		return []string{fmt.Sprintf("no escort named %q", name)}
	default:
		return []string{fmt.Sprintf("unexpected failure %s for a feasible roster", resp.Code)}
	}
}
