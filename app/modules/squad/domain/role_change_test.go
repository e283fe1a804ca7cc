package squaddomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captainState(t *testing.T) SquadState {
	t.Helper()
	squad := defaultSquad(t)
	c := squad.Slots[0].Occupant
	c.Points, c.PointsAtJoining, c.PointsWhenRoleAssigned = 200, Float(100), Float(150)
	return SquadState{Squad: squad, Roles: RoleAssignments{CaptainID: c.PlayerID}}
}

func TestReassignRole_MovesCaptaincy(t *testing.T) {
	state := captainState(t)
	before := state.Total()

	res, err := ReassignRole(state, RoleCaptain, "p01")
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "p00", res.PreviousHolder)
	assert.InDelta(t, 50, res.BankedDelta, 1e-9)
	assert.InDelta(t, before.Total, res.TotalAfter.Total, 1e-9)
	assert.Equal(t, "p01", res.State.Roles.CaptainID)

	newCap := res.State.Squad.Slots[1].Occupant
	require.NotNil(t, newCap.PointsWhenRoleAssigned)
	assert.Equal(t, newCap.Points, *newCap.PointsWhenRoleAssigned)
	assert.Nil(t, res.State.Squad.Slots[0].Occupant.PointsWhenRoleAssigned)

	// The breakdown moves even though the total does not.
	assert.InDelta(t, 150, before.CaptainPoints, 1e-9)
	assert.InDelta(t, 50, res.TotalAfter.CaptainPoints, 1e-9)
}

func TestReassignRole_FutureAccrualUsesNewMultiplier(t *testing.T) {
	res, err := ReassignRole(captainState(t), RoleCaptain, "p01")
	require.NoError(t, err)

	change, err := ApplyScoreUpdate(res.State, "p01", 130)
	require.NoError(t, err)
	assert.InDelta(t, 60, change.Delta(), 1e-9)

	// The former captain now accrues at 1x.
	change, err = ApplyScoreUpdate(change.State, "p00", 230)
	require.NoError(t, err)
	assert.InDelta(t, 30, change.Delta(), 1e-9)
}

func TestReassignRole_HolderSwitchesRole(t *testing.T) {
	state := captainState(t)
	v := state.Squad.Slots[3].Occupant
	v.PointsWhenRoleAssigned = Float(60)
	state.Roles.ViceCaptainID = v.PlayerID
	before := state.Total()

	// The vice captain becomes captain, giving up the vice captaincy.
	res, err := ReassignRole(state, RoleCaptain, v.PlayerID)
	require.NoError(t, err)

	assert.Equal(t, v.PlayerID, res.State.Roles.CaptainID)
	assert.Empty(t, res.State.Roles.ViceCaptainID)
	assert.InDelta(t, before.Total, res.TotalAfter.Total, 1e-9)
	// Old captain bonus 50 plus old vice bonus (100-60)*0.5 = 20.
	assert.InDelta(t, 70, res.BankedDelta, 1e-9)
	assert.NoError(t, res.State.Roles.Validate())
}

func TestReassignRole_VacateAndNoop(t *testing.T) {
	state := captainState(t)

	res, err := ReassignRole(state, RoleCaptain, "p00")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = ReassignRole(state, RoleCaptain, "")
	require.NoError(t, err)
	assert.Empty(t, res.State.Roles.CaptainID)
	assert.InDelta(t, state.Total().Total, res.TotalAfter.Total, 1e-9)
}

func TestReassignRole_Errors(t *testing.T) {
	state := captainState(t)

	_, err := ReassignRole(state, RoleRegular, "p01")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = ReassignRole(state, RoleXFactor, "p12")
	assert.ErrorIs(t, err, ErrPlayerNotInStartingXI)

	state.Squad.Slots[0].Occupant.PointsWhenRoleAssigned = Float(500)
	_, err = ReassignRole(state, RoleCaptain, "p01")
	assert.ErrorIs(t, err, ErrCorruptRoleTimestamp)
}

func TestReassignRole_InvarianceProperty(t *testing.T) {
	f := gofakeit.New(11)

	for i := 0; i < 200; i++ {
		state := randomState(t, f)
		before := mustTotal(t, state)
		starters := state.Squad.StartingXI()
		target := starters[f.Number(0, len(starters)-1)].PlayerID
		role := BonusRoles[f.Number(0, len(BonusRoles)-1)]

		res, err := ReassignRole(state, role, target)
		require.NoError(t, err)
		assert.InDelta(t, before, mustTotal(t, res.State), 1e-6)
		assert.NoError(t, res.State.Roles.Validate())
	}
}
