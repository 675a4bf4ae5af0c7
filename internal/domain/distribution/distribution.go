// Package distribution splits a dive session into escort groups.
//
// A run classifies participants into escorts and wards, checks that the
// session can be organized at all, orders both sides by seniority and then
// seats every ward with a strictly older escort, two wards at most per
// escort. Escorts left without a ward are folded into other groups by a
// rebalancing pass. Runs are pure: no state is shared between calls.
package distribution

import "github.com/okian/diveplan/internal/domain/model"

// Result is the outcome of a successful run.
type Result struct {
	Assignment  model.Assignment
	Escorts     int       // escorts after classification
	Wards       int       // wards after classification
	FreeEscorts int       // escorts left without a ward by the primary pass
	Rebalance   Rebalance // what the rebalancing pass did
}

// Distributor computes escort groups for a list of participants.
type Distributor interface {
	Distribute(participants []model.Participant) (Result, error)
}

// Greedy is the round-robin Distributor with backward retry.
type Greedy struct{}

var _ Distributor = Greedy{}

// Distribute runs the full pipeline. Failures are returned as
// *failure.Failure; ErrBrokenInvariant signals an internal defect.
func (Greedy) Distribute(participants []model.Participant) (Result, error) {
	return Distribute(participants)
}

// Distribute runs the full pipeline on participants. The input slice is not
// modified.
func Distribute(participants []model.Participant) (Result, error) {
	if err := ValidateSkills(participants); err != nil {
		return Result{}, err
	}

	escorts, wards := Classify(participants)
	if err := CheckFeasibility(len(escorts), len(wards)); err != nil {
		return Result{}, err
	}

	Order(escorts)
	Order(wards)

	groups, err := assignPrimary(escorts, wards)
	if err != nil {
		return Result{}, err
	}

	free, err := freeTail(groups)
	if err != nil {
		return Result{}, err
	}

	groups, kind, err := rebalance(groups, free)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Assignment:  model.Assignment(groups),
		Escorts:     len(escorts),
		Wards:       len(wards),
		FreeEscorts: free,
		Rebalance:   kind,
	}, nil
}
