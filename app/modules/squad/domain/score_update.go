package squaddomain

import "fmt"

// ScoreChange is the effect of a score feed update on one squad.
type ScoreChange struct {
	State          SquadState
	PlayerID       string
	PreviousPoints float64
	NewPoints      float64
	// Decreased flags a correction that lowered the score. The new score is
	// still applied; banked points are never reduced.
	Decreased   bool
	TotalBefore SquadTotal
	TotalAfter  SquadTotal
}

// Delta is the change in grand total caused by the update.
func (c ScoreChange) Delta() float64 {
	return c.TotalAfter.Total - c.TotalBefore.Total
}

// ApplyScoreUpdate sets a player's current score. It is the only engine
// operation allowed to change a squad total.
func ApplyScoreUpdate(state SquadState, playerID string, points float64) (ScoreChange, error) {
	if points < 0 {
		return ScoreChange{}, fmt.Errorf("%w: player %s score %v", ErrNegativePoints, playerID, points)
	}
	pos, ok := state.Squad.Find(playerID)
	if !ok {
		return ScoreChange{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	before := state.Total()
	next := state.Clone()
	p := next.Squad.Slots[pos].Occupant
	previous := p.Points
	p.Points = points

	return ScoreChange{
		State:          next,
		PlayerID:       playerID,
		PreviousPoints: previous,
		NewPoints:      points,
		Decreased:      points < previous,
		TotalBefore:    before,
		TotalAfter:     next.Total(),
	}, nil
}
