package squaddomain

import "math"

// ContributionBreakdown splits a contribution into the segment earned before
// the role was granted and the segment earned while holding it.
type ContributionBreakdown struct {
	PlayerID   string    `json:"player_id"`
	Role       BonusRole `json:"role"`
	Base       float64   `json:"base"`
	Bonus      float64   `json:"bonus"`
	Multiplier float64   `json:"multiplier"`
	Total      float64   `json:"total"`
}

// ComputeContribution returns the points a player contributes to the squad
// total while holding role. The result is never negative and is not rounded.
func ComputeContribution(p PlayerSnapshot, role BonusRole) float64 {
	return ExplainContribution(p, role).Total
}

// ExplainContribution is ComputeContribution with the segments exposed for
// transfer previews.
func ExplainContribution(p PlayerSnapshot, role BonusRole) ContributionBreakdown {
	ref := ResolveReferencePoints(p)
	multiplier := role.Multiplier()

	var base, bonus float64
	if role == RoleRegular || !role.Valid() {
		// Regular players have no role anchor; everything since joining is 1x.
		bonus = math.Max(0, p.Points-ref.Joined)
		multiplier = 1.0
	} else {
		base = math.Max(0, ref.Assigned-ref.Joined)
		bonus = math.Max(0, p.Points-ref.Assigned)
	}

	return ContributionBreakdown{
		PlayerID:   p.PlayerID,
		Role:       role,
		Base:       base,
		Bonus:      bonus,
		Multiplier: multiplier,
		Total:      base + bonus*multiplier,
	}
}

// RoundPoints rounds to two decimal places for display and aggregation output.
func RoundPoints(v float64) float64 {
	return math.Round(v*100) / 100
}

// pointsEqual compares totals with a tolerance for float accumulation order.
func pointsEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
