package squaddomain

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
)

func player(id string, c Category, points float64, joined, assigned *float64) PlayerSnapshot {
	return PlayerSnapshot{
		PlayerID:               id,
		Category:               c,
		Points:                 points,
		PointsAtJoining:        joined,
		PointsWhenRoleAssigned: assigned,
	}
}

// defaultSquad builds a full eleven with a four-player bench:
// positions 0-2 batsmen, 3-5 bowlers, 6 allrounder, 7 wicketkeeper,
// 8 flexible batsman, 9 flexible bowler, 10 flexible allrounder,
// 11-14 bench.
func defaultSquad(t *testing.T) Squad {
	t.Helper()
	layout := []Category{
		CategoryBatsman, CategoryBatsman, CategoryBatsman,
		CategoryBowler, CategoryBowler, CategoryBowler,
		CategoryAllrounder, CategoryWicketkeeper,
		CategoryBatsman, CategoryBowler, CategoryAllrounder,
		CategoryBatsman, CategoryBowler, CategoryAllrounder, CategoryWicketkeeper,
	}
	ranges, err := ComputeSlotRanges(DefaultLeagueRules)
	if err != nil {
		t.Fatalf("ComputeSlotRanges: %v", err)
	}
	squad := NewSquad(ranges)
	for i, c := range layout {
		p := player(fmt.Sprintf("p%02d", i), c, 100, Float(50), nil)
		squad.Slots[i].Occupant = &p
	}
	return squad
}

// randomState fills a default squad with random scores and assigns all three
// roles to distinct starters, each with a valid anchor.
func randomState(t *testing.T, f *gofakeit.Faker) SquadState {
	t.Helper()
	squad := defaultSquad(t)
	for i := range squad.Slots {
		p := squad.Slots[i].Occupant
		joined := f.Float64Range(0, 300)
		p.PointsAtJoining = Float(joined)
		p.Points = joined + f.Float64Range(0, 400)
	}

	perm := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	f.ShuffleInts(perm)
	roles := RoleAssignments{}
	for i, role := range BonusRoles {
		p := squad.Slots[perm[i]].Occupant
		joined := *p.PointsAtJoining
		p.PointsWhenRoleAssigned = Float(f.Float64Range(joined, p.Points))
		roles = roles.With(role, p.PlayerID)
	}

	return SquadState{Squad: squad, Roles: roles, BankedPoints: Float(f.Float64Range(0, 500))}
}

func mustTotal(t *testing.T, s SquadState) float64 {
	t.Helper()
	return s.Total().Total
}

func almostEqual(a, b float64) bool {
	return pointsEqual(a, b)
}
