package rostercheck

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/diveplan/internal/domain/model"
	"github.com/okian/diveplan/internal/domain/types"
)

// Generation ranges.
const (
	minAge      = 5
	ageRange    = 150
	minDuration = 10
	durRange    = 110
)

// GenerateRosters builds n rosters of 1 to size participants each. Ages,
// skills and durations come from rng so a seed reproduces the same shapes;
// names carry a UUID so every participant is distinguishable in responses.
func GenerateRosters(rng *rand.Rand, n, size int) [][]types.Swimmer {
	if size < 1 {
		size = 1
	}
	rosters := make([][]types.Swimmer, n)
	for i := range rosters {
		roster := make([]types.Swimmer, 1+rng.Intn(size))
		for j := range roster {
			roster[j] = types.Swimmer{
				Name:     "swimmer-" + uuid.NewString(),
				Age:      minAge + rng.Intn(ageRange),
				Skill:    model.MinSkill + rng.Intn(model.MaxSkill-model.MinSkill+1),
				Duration: minDuration + rng.Intn(durRange),
			}
		}
		rosters[i] = roster
	}
	return rosters
}
