package distribution_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/okian/diveplan/internal/domain/distribution"
	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// escort builds a participant that always classifies as an escort.
func escort(name string, age int) model.Participant {
	return model.Participant{Name: name, Age: age, Skill: 9, Duration: 30}
}

// ward builds a participant that always classifies as a ward.
func ward(name string, age int) model.Participant {
	return model.Participant{Name: name, Age: age, Skill: 6, Duration: 70}
}

// layout renders an assignment as "Lead:W1,W2" entries for compact asserts.
func layout(a model.Assignment) []string {
	out := make([]string, 0, len(a))
	for _, g := range a {
		names := make([]string, 0, 2)
		for _, w := range g.Wards() {
			names = append(names, w.Name)
		}
		out = append(out, g.Escort.Name+":"+strings.Join(names, ","))
	}
	return out
}

func failureOf(err error) *failure.Failure {
	f, ok := failure.As(err)
	if !ok {
		return nil
	}
	return f
}

func TestDistribute_Feasibility(t *testing.T) {
	Convey("Given group-size checks", t, func() {
		Convey("When one escort faces three wards", func() {
			_, err := distribution.Distribute([]model.Participant{
				escort("E", 100), ward("A", 10), ward("B", 11), ward("C", 12),
			})

			Convey("Then it fails with InsufficientEscorts", func() {
				So(errors.Is(err, failure.ErrInsufficientEscorts), ShouldBeTrue)
			})
		})

		Convey("When one escort and one ward come alone", func() {
			_, err := distribution.Distribute([]model.Participant{
				{Name: "A", Age: 120, Skill: 9, Duration: 40},
				{Name: "B", Age: 30, Skill: 5, Duration: 50},
			})

			Convey("Then it fails with GroupTooSmall", func() {
				So(errors.Is(err, failure.ErrGroupTooSmall), ShouldBeTrue)
			})
		})

		Convey("When a single ward has no escort", func() {
			_, err := distribution.Distribute([]model.Participant{ward("A", 10)})

			Convey("Then capacity is reported before size", func() {
				So(errors.Is(err, failure.ErrInsufficientEscorts), ShouldBeTrue)
			})
		})

		Convey("When nobody signed up", func() {
			_, err := distribution.Distribute(nil)

			Convey("Then it fails with GroupTooSmall", func() {
				So(errors.Is(err, failure.ErrGroupTooSmall), ShouldBeTrue)
			})
		})

		Convey("CheckFeasibility matches the two rules exactly", func() {
			for e := 0; e < 6; e++ {
				for w := 0; w < 12; w++ {
					err := distribution.CheckFeasibility(e, w)
					switch {
					case e*2 < w:
						So(errors.Is(err, failure.ErrInsufficientEscorts), ShouldBeTrue)
					case e+w < 3:
						So(errors.Is(err, failure.ErrGroupTooSmall), ShouldBeTrue)
					default:
						So(err, ShouldBeNil)
					}
				}
			}
		})
	})
}

func TestDistribute_PrimaryPass(t *testing.T) {
	Convey("Given the primary pairing pass", t, func() {
		Convey("When one escort takes two younger wards", func() {
			res, err := distribution.Distribute([]model.Participant{
				{Name: "A", Age: 120, Skill: 9, Duration: 40},
				{Name: "B", Age: 30, Skill: 5, Duration: 50},
				{Name: "C", Age: 20, Skill: 6, Duration: 70},
			})

			Convey("Then A leads B then C", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"A:B,C"})
				So(res.Escorts, ShouldEqual, 1)
				So(res.Wards, ShouldEqual, 2)
				So(res.Rebalance, ShouldEqual, distribution.RebalanceNone)
			})
		})

		Convey("When the first escort is not older than the first ward", func() {
			_, err := distribution.Distribute([]model.Participant{
				escort("E1", 90), escort("E2", 85), ward("W", 95),
			})

			Convey("Then it fails with NoOlderEscortAvailable for that age", func() {
				f := failureOf(err)
				So(f, ShouldNotBeNil)
				So(f.Kind, ShouldEqual, failure.KindNoOlderEscortAvailable)
				So(f.Age, ShouldEqual, 95)
			})
		})

		Convey("When a ward is rejected by the cursor escort", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 60), escort("E2", 50), escort("E3", 20),
				ward("W1", 55), ward("W2", 45), ward("W3", 40), ward("W4", 10),
			})

			Convey("Then the same ward is retried with the previous escort", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:W1", "E2:W2,W3", "E3:W4"})
			})
		})

		Convey("When the retry walks back two escorts", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 90), escort("E2", 80), escort("E3", 20), escort("E4", 15),
				ward("W1", 85), ward("W2", 50), ward("W3", 45), ward("W4", 40),
			})

			Convey("Then the ward lands with the first escort and the rest rebalance", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:W1,W4", "E2:W2,W3", "E3:E4"})
				So(res.FreeEscorts, ShouldEqual, 2)
				So(res.Rebalance, ShouldEqual, distribution.RebalanceReclassify)
			})
		})

		Convey("When every earlier escort is full", func() {
			_, err := distribution.Distribute([]model.Participant{
				escort("E1", 90), escort("E2", 30), escort("E3", 20),
				ward("W1", 80), ward("W2", 70), ward("W3", 60),
			})

			Convey("Then the probe stops at the first escort", func() {
				f := failureOf(err)
				So(f, ShouldNotBeNil)
				So(f.Kind, ShouldEqual, failure.KindNoOlderEscortAvailable)
				So(f.Age, ShouldEqual, 60)
			})
		})
	})
}

func TestDistribute_Rebalance(t *testing.T) {
	Convey("Given escorts left without wards", t, func() {
		Convey("When exactly one escort is free and the previous group has room", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 100), escort("E2", 90), ward("W", 95),
			})

			Convey("Then it becomes the second ward of that group", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:W,E2"})
				So(res.Rebalance, ShouldEqual, distribution.RebalanceAbsorb)
			})
		})

		Convey("When exactly one escort is free behind a partially filled group", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 50), escort("E2", 40), escort("E3", 30),
				ward("W1", 45), ward("W2", 35),
			})

			Convey("Then the trailing group is dropped", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:W1", "E2:W2,E3"})
			})
		})

		Convey("When exactly one escort is free and the previous group is full", func() {
			_, err := distribution.Distribute([]model.Participant{
				escort("E1", 50), escort("E2", 40), escort("E3", 30),
				ward("W1", 45),
				{Name: "W2", Age: 35, Skill: 6, Duration: 70},
				{Name: "W3", Age: 35, Skill: 5, Duration: 70},
			})

			Convey("Then it fails with NoSlotForLeftoverEscort naming the escort", func() {
				f := failureOf(err)
				So(f, ShouldNotBeNil)
				So(f.Kind, ShouldEqual, failure.KindNoSlotForLeftoverEscort)
				So(f.Name, ShouldEqual, "E3")
			})
		})

		Convey("When nobody needs supervision", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 50), escort("E2", 40), escort("E3", 30), escort("E4", 20), escort("E5", 10),
			})

			Convey("Then a third of them lead and the cursor wraps inside the retained pool", func() {
				So(err, ShouldBeNil)
				So(res.FreeEscorts, ShouldEqual, 5)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:E3,E5", "E2:E4"})
			})
		})

		Convey("When free escorts trail a filled group", func() {
			res, err := distribution.Distribute([]model.Participant{
				escort("E1", 90), escort("E2", 80), escort("E3", 70), escort("E4", 60),
				ward("W", 85),
			})

			Convey("Then reclassified escorts stay with the retained free escorts", func() {
				So(err, ShouldBeNil)
				So(layout(res.Assignment), ShouldResemble, []string{"E1:W", "E2:E3,E4"})
			})
		})

		Convey("When the free escorts are all the same age", func() {
			_, err := distribution.Distribute([]model.Participant{
				escort("E1", 40), escort("E2", 40), escort("E3", 40),
			})

			Convey("Then reclassification fails with their age", func() {
				f := failureOf(err)
				So(f, ShouldNotBeNil)
				So(f.Kind, ShouldEqual, failure.KindNoOlderEscortAvailable)
				So(f.Age, ShouldEqual, 40)
			})
		})
	})
}

func TestDistribute_Validation(t *testing.T) {
	Convey("Given an unknown skill level", t, func() {
		_, err := distribution.Distribute([]model.Participant{
			escort("E1", 90), escort("E2", 80),
			{Name: "X", Age: 10, Skill: 10, Duration: 30},
		})

		Convey("Then it fails with InvalidSkillLevel before anything else", func() {
			f := failureOf(err)
			So(f, ShouldNotBeNil)
			So(f.Kind, ShouldEqual, failure.KindInvalidSkillLevel)
			So(f.Skill, ShouldEqual, 10)
		})
	})
}

func TestClassifyAndOrder(t *testing.T) {
	Convey("Given mixed participants", t, func() {
		in := []model.Participant{
			{Name: "fast8", Age: 10, Skill: 8, Duration: 59},
			{Name: "slow8", Age: 11, Skill: 8, Duration: 60},
			{Name: "fast7", Age: 12, Skill: 7, Duration: 10},
			{Name: "fast9", Age: 13, Skill: 9, Duration: 0},
		}

		Convey("Classify keeps input order on both sides", func() {
			escorts, wards := distribution.Classify(in)
			So(len(escorts), ShouldEqual, 2)
			So(escorts[0].Name, ShouldEqual, "fast8")
			So(escorts[1].Name, ShouldEqual, "fast9")
			So(len(wards), ShouldEqual, 2)
			So(wards[0].Name, ShouldEqual, "slow8")
			So(wards[1].Name, ShouldEqual, "fast7")
		})

		Convey("Order sorts by age, then skill, then duration, descending and stable", func() {
			ps := []model.Participant{
				{Name: "a", Age: 10, Skill: 5, Duration: 30},
				{Name: "b", Age: 20, Skill: 5, Duration: 30},
				{Name: "c", Age: 20, Skill: 7, Duration: 30},
				{Name: "d", Age: 20, Skill: 7, Duration: 45},
				{Name: "e", Age: 10, Skill: 5, Duration: 30},
			}
			distribution.Order(ps)
			names := make([]string, len(ps))
			for i, p := range ps {
				names[i] = p.Name
			}
			So(names, ShouldResemble, []string{"d", "c", "b", "a", "e"})
		})
	})
}

// randomRoster builds n participants with distinct ages so every ordering
// key is unique.
func randomRoster(rng *rand.Rand, n int) []model.Participant {
	ages := rng.Perm(n * 4)
	out := make([]model.Participant, n)
	for i := range out {
		out[i] = model.Participant{
			Name:     fmt.Sprintf("p%d", i),
			Age:      ages[i],
			Skill:    model.MinSkill + rng.Intn(model.MaxSkill-model.MinSkill+1),
			Duration: 20 + rng.Intn(70),
		}
	}
	return out
}

func TestDistribute_Properties(t *testing.T) {
	Convey("Given many random rosters", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible testing

		for run := 0; run < 500; run++ {
			roster := randomRoster(rng, 3+rng.Intn(14))
			original := append([]model.Participant(nil), roster...)

			res, err := distribution.Distribute(roster)

			So(roster, ShouldResemble, original)
			So(errors.Is(err, distribution.ErrBrokenInvariant), ShouldBeFalse)
			if err != nil {
				_, ok := failure.As(err)
				So(ok, ShouldBeTrue)
				continue
			}

			// Every participant appears exactly once.
			seen := map[string]int{}
			for _, p := range res.Assignment.Participants() {
				seen[p.Name]++
			}
			So(len(seen), ShouldEqual, len(roster))
			for _, c := range seen {
				So(c, ShouldEqual, 1)
			}

			// Leads are older than their wards. The absorbed leftover escort
			// may share its lead's age.
			last := len(res.Assignment) - 1
			for i, g := range res.Assignment {
				So(g.Second == nil || g.First != nil, ShouldBeTrue)
				if g.First != nil {
					So(g.Escort.Age, ShouldBeGreaterThan, g.First.Age)
				}
				if g.Second != nil {
					if res.Rebalance == distribution.RebalanceAbsorb && i == last {
						So(g.Escort.Age, ShouldBeGreaterThanOrEqualTo, g.Second.Age)
					} else {
						So(g.Escort.Age, ShouldBeGreaterThan, g.Second.Age)
					}
				}
			}

			// Shuffled input gives the same assignment.
			shuffled := append([]model.Participant(nil), roster...)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			again, err := distribution.Distribute(shuffled)
			So(err, ShouldBeNil)
			So(layout(again.Assignment), ShouldResemble, layout(res.Assignment))
		}
	})
}
