package distribution

import (
	"fmt"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
)

// pool is a contiguous range [lo, hi) of groups whose escorts may take wards
// during one pairing pass. Each pass builds its own pool; the cursor never
// outlives it.
type pool struct {
	groups []model.Group
	lo, hi int
}

// accept tries to seat ward with the escort at idx. The escort must be
// strictly older and have a free slot.
func (p pool) accept(idx int, ward model.Participant) bool {
	g := &p.groups[idx]
	if g.Escort.Age <= ward.Age {
		return false
	}
	w := ward
	switch {
	case g.First == nil:
		g.First = &w
	case g.Second == nil:
		g.Second = &w
	default:
		return false
	}
	return true
}

// pair seats every candidate, in order, using a circular cursor that starts
// at lo. A rejected candidate is retried against the previous escort; the
// candidate index only advances after a successful seat. When the cursor is
// already at lo nobody earlier can take the candidate and the pass fails.
func (p pool) pair(candidates []model.Participant) error {
	if p.lo < 0 || p.hi > len(p.groups) || p.lo >= p.hi {
		return fmt.Errorf("%w: empty escort pool [%d, %d)", ErrBrokenInvariant, p.lo, p.hi)
	}
	cursor := p.lo
	for i := 0; i < len(candidates); {
		ward := candidates[i]
		if p.accept(cursor, ward) {
			i++
			cursor++
			if cursor == p.hi {
				cursor = p.lo
			}
			continue
		}
		if cursor == p.lo {
			return failure.NoOlderEscortAvailable(ward.Age)
		}
		cursor--
	}
	return nil
}

// newGroups opens one empty group per escort, in escort order.
func newGroups(escorts []model.Participant) []model.Group {
	groups := make([]model.Group, len(escorts))
	for i, e := range escorts {
		groups[i] = model.Group{Escort: e}
	}
	return groups
}

// assignPrimary pairs sorted wards with sorted escorts over the full pool.
func assignPrimary(escorts, wards []model.Participant) ([]model.Group, error) {
	groups := newGroups(escorts)
	if len(wards) == 0 {
		return groups, nil
	}
	p := pool{groups: groups, lo: 0, hi: len(groups)}
	if err := p.pair(wards); err != nil {
		return nil, err
	}
	return groups, nil
}

// freeTail counts escorts without a ward and verifies they form a trailing
// block. The cursor only moves past an escort by seating a ward with it, so
// a gap followed by a filled group means the pairing logic is wrong.
func freeTail(groups []model.Group) (int, error) {
	free := 0
	for i, g := range groups {
		if g.HasWard() {
			if free > 0 {
				return 0, fmt.Errorf("%w: group %d has a ward after %d free escorts", ErrBrokenInvariant, i, free)
			}
			continue
		}
		free++
	}
	return free, nil
}
