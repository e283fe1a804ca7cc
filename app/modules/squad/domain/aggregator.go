package squaddomain

// SquadTotal is a squad's grand total and per-role breakdown.
type SquadTotal struct {
	Total             float64 `json:"total"`
	CaptainPoints     float64 `json:"captain_points"`
	ViceCaptainPoints float64 `json:"vice_captain_points"`
	XFactorPoints     float64 `json:"x_factor_points"`
	BankedPoints      float64 `json:"banked_points"`
}

// Rounded returns the two-decimal display form.
func (t SquadTotal) Rounded() SquadTotal {
	return SquadTotal{
		Total:             RoundPoints(t.Total),
		CaptainPoints:     RoundPoints(t.CaptainPoints),
		ViceCaptainPoints: RoundPoints(t.ViceCaptainPoints),
		XFactorPoints:     RoundPoints(t.XFactorPoints),
		BankedPoints:      RoundPoints(t.BankedPoints),
	}
}

// ComputeSquadTotal sums the starting XI contributions plus banked points.
// Callers pass only starting players; bench players never count. A nil
// banked value is treated as zero.
func ComputeSquadTotal(startingXI []PlayerSnapshot, roles RoleAssignments, banked *float64) SquadTotal {
	var total SquadTotal

	for _, p := range startingXI {
		role := roles.RoleOf(p.PlayerID)
		c := ComputeContribution(p, role)

		switch role {
		case RoleCaptain:
			total.CaptainPoints += c
		case RoleViceCaptain:
			total.ViceCaptainPoints += c
		case RoleXFactor:
			total.XFactorPoints += c
		}
		total.Total += c
	}

	if banked != nil {
		total.BankedPoints = *banked
	}
	total.Total += total.BankedPoints

	return total
}
