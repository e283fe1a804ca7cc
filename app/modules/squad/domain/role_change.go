package squaddomain

import (
	"fmt"
	"math"
)

// RoleChangeResult describes a bonus role reassignment.
type RoleChangeResult struct {
	State          SquadState
	Role           BonusRole
	PlayerID       string
	PreviousHolder string
	// BankedDelta is the role bonus locked in for players that lost a role.
	BankedDelta float64
	Changed     bool
	TotalBefore SquadTotal
	TotalAfter  SquadTotal
}

// ReassignRole grants role to playerID. Passing an empty playerID vacates the
// role. Any player losing a role keeps the bonus it already accrued: the
// difference between its contribution under the old role and as a regular
// player is banked. The new holder's role anchor is set to its current score,
// so the grand total is unchanged and only future accrual differs.
func ReassignRole(state SquadState, role BonusRole, playerID string) (RoleChangeResult, error) {
	if role == RoleRegular || !role.Valid() {
		return RoleChangeResult{}, fmt.Errorf("%w: %q cannot be assigned", ErrInvalidRole, role)
	}

	previous := state.Roles.Holder(role)
	before := state.Total()

	if previous == playerID {
		return RoleChangeResult{
			State:          state.Clone(),
			Role:           role,
			PlayerID:       playerID,
			PreviousHolder: previous,
			TotalBefore:    before,
			TotalAfter:     before,
		}, nil
	}

	if playerID != "" && !state.Squad.IsStarting(playerID) {
		return RoleChangeResult{}, fmt.Errorf("%w: %s", ErrPlayerNotInStartingXI, playerID)
	}

	next := state.Clone()
	banked := 0.0

	demote := func(id string, oldRole BonusRole) error {
		pos, ok := next.Squad.Find(id)
		if !ok {
			// Orphaned role: the holder already left the squad.
			next.Roles = next.Roles.Without(id)
			return nil
		}
		p := next.Squad.Slots[pos].Occupant
		if next.Squad.Slots[pos].Zone.Starting() {
			if check := ValidateRoleTimestamp(*p, oldRole); !check.Valid {
				return check.Err(id, oldRole)
			}
			banked += math.Max(0, ComputeContribution(*p, oldRole)-ComputeContribution(*p, RoleRegular))
		}
		p.PointsWhenRoleAssigned = nil
		next.Roles = next.Roles.Without(id)
		return nil
	}

	if previous != "" {
		if err := demote(previous, role); err != nil {
			return RoleChangeResult{}, err
		}
	}

	if playerID != "" {
		if held := next.Roles.RoleOf(playerID); held != RoleRegular {
			if err := demote(playerID, held); err != nil {
				return RoleChangeResult{}, err
			}
		}
		pos, _ := next.Squad.Find(playerID)
		holder := next.Squad.Slots[pos].Occupant
		holder.PointsWhenRoleAssigned = Float(holder.Points)
		next.Roles = next.Roles.With(role, playerID)
	}

	next.bank(banked)

	after := next.Total()
	if err := checkInvariant("role reassignment", before, after); err != nil {
		return RoleChangeResult{}, err
	}

	return RoleChangeResult{
		State:          next,
		Role:           role,
		PlayerID:       playerID,
		PreviousHolder: previous,
		BankedDelta:    banked,
		Changed:        true,
		TotalBefore:    before,
		TotalAfter:     after,
	}, nil
}
