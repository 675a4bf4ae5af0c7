package distribution

import (
	"fmt"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
)

// retainedShare is the divisor for free escorts that keep leading a group;
// the rest become wards.
const retainedShare = 3

// Rebalance identifies what the rebalancing pass did.
type Rebalance uint8

// Rebalancing outcomes.
const (
	RebalanceNone Rebalance = iota
	RebalanceAbsorb
	RebalanceReclassify
)

// String returns the metrics label for r.
func (r Rebalance) String() string {
	switch r {
	case RebalanceAbsorb:
		return "absorb"
	case RebalanceReclassify:
		return "reclassify"
	default:
		return "none"
	}
}

// rebalance removes empty groups left by the primary pass. free is the size
// of the trailing block of escorts without wards.
func rebalance(groups []model.Group, free int) ([]model.Group, Rebalance, error) {
	switch {
	case free == 0:
		return groups, RebalanceNone, nil
	case free == 1:
		out, err := absorbLeftover(groups)
		return out, RebalanceAbsorb, err
	default:
		out, err := reclassify(groups, free)
		return out, RebalanceReclassify, err
	}
}

// absorbLeftover seats the single trailing free escort in the second slot of
// the group before it and drops the now empty trailing group.
func absorbLeftover(groups []model.Group) ([]model.Group, error) {
	n := len(groups)
	if n < 2 {
		return nil, fmt.Errorf("%w: leftover escort without a preceding group", ErrBrokenInvariant)
	}
	leftover := groups[n-1]
	if leftover.HasWard() {
		return nil, fmt.Errorf("%w: trailing group %d is not free", ErrBrokenInvariant, n-1)
	}
	target := &groups[n-2]
	if target.Second != nil {
		return nil, failure.NoSlotForLeftoverEscort(leftover.Escort.Name)
	}
	escort := leftover.Escort
	target.Second = &escort
	return groups[:n-1:n-1], nil
}

// reclassify keeps ceil(free/3) of the free escorts as leads and turns the
// trailing remainder into wards, seating them with the retained free escorts
// only. Groups of the reclassified escorts are dropped.
func reclassify(groups []model.Group, free int) ([]model.Group, error) {
	n := len(groups)
	retained := (free + retainedShare - 1) / retainedShare
	toWards := free - retained
	lo, hi := n-free, n-toWards

	dropped := groups[hi:]
	candidates := make([]model.Participant, len(dropped))
	for i, g := range dropped {
		if g.First != nil || g.Second != nil {
			return nil, fmt.Errorf("%w: reclassified group %d already holds wards", ErrBrokenInvariant, hi+i)
		}
		candidates[i] = g.Escort
	}

	p := pool{groups: groups, lo: lo, hi: hi}
	if err := p.pair(candidates); err != nil {
		return nil, err
	}
	return groups[:hi:hi], nil
}
