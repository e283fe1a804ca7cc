package squaddomain

import "fmt"

// SquadState is everything the engine needs to evaluate or edit a squad.
// Operations take a state by value and return a new one; inputs are never
// modified.
type SquadState struct {
	Squad        Squad
	Roles        RoleAssignments
	BankedPoints *float64
}

// Clone deep-copies the state.
func (s SquadState) Clone() SquadState {
	out := SquadState{Squad: s.Squad.Clone(), Roles: s.Roles}
	if s.BankedPoints != nil {
		out.BankedPoints = Float(*s.BankedPoints)
	}
	return out
}

// Banked returns banked points with absent treated as zero.
func (s SquadState) Banked() float64 {
	if s.BankedPoints == nil {
		return 0
	}
	return *s.BankedPoints
}

// Total computes the squad total for the state.
func (s SquadState) Total() SquadTotal {
	return ComputeSquadTotal(s.Squad.StartingXI(), s.Roles, s.BankedPoints)
}

// bank adds a non-negative amount to the banked carry.
func (s *SquadState) bank(amount float64) {
	if amount <= 0 {
		if s.BankedPoints == nil {
			s.BankedPoints = Float(0)
		}
		return
	}
	s.BankedPoints = Float(s.Banked() + amount)
}

func checkInvariant(op string, before, after SquadTotal) error {
	if !pointsEqual(before.Total, after.Total) {
		return &InvariantError{Operation: op, Before: before.Total, After: after.Total}
	}
	return nil
}

// TransferResult describes a completed substitution.
type TransferResult struct {
	State              SquadState
	Outgoing           PlayerSnapshot
	OutgoingRole       BonusRole
	OutgoingWasStarter bool
	Incoming           PlayerSnapshot
	IncomingPosition   int
	BankedContribution float64
	TotalBefore        SquadTotal
	TotalAfter         SquadTotal
}

// ApplyTransfer replaces outgoingID with incoming. The outgoing player's
// contribution is banked, its role is vacated, and the incoming player joins
// at its current score so it contributes nothing yet. The squad total is
// verified to be unchanged. On error the input state is untouched.
func ApplyTransfer(state SquadState, outgoingID string, incoming PlayerSnapshot) (TransferResult, error) {
	pos, ok := state.Squad.Find(outgoingID)
	if !ok {
		return TransferResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, outgoingID)
	}
	if incoming.Points < 0 {
		return TransferResult{}, fmt.Errorf("%w: incoming player %s has %v", ErrNegativePoints, incoming.PlayerID, incoming.Points)
	}

	outgoing := *state.Squad.Slots[pos].Occupant
	starter := state.Squad.Slots[pos].Zone.Starting()
	role := state.Roles.RoleOf(outgoingID)

	if check := ValidateRoleTimestamp(outgoing, role); !check.Valid {
		return TransferResult{}, check.Err(outgoingID, role)
	}

	before := state.Total()

	banked := 0.0
	if starter {
		banked = ComputeContribution(outgoing, role)
	}

	joined := incoming.JoinAt()
	slotted, err := PerformTransferSlotting(state.Squad, outgoingID, joined)
	if err != nil {
		return TransferResult{}, err
	}

	inPos, _ := slotted.Find(joined.PlayerID)

	next := state.Clone()
	next.Squad = slotted
	next.Roles = next.Roles.Without(outgoingID)
	next.bank(banked)

	after := next.Total()
	if err := checkInvariant("transfer", before, after); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{
		State:              next,
		Outgoing:           outgoing,
		OutgoingRole:       role,
		OutgoingWasStarter: starter,
		Incoming:           joined,
		IncomingPosition:   inPos,
		BankedContribution: banked,
		TotalBefore:        before,
		TotalAfter:         after,
	}, nil
}

// BenchSwapResult describes a completed bench swap.
type BenchSwapResult struct {
	State              SquadState
	Demoted            PlayerSnapshot
	DemotedRole        BonusRole
	Promoted           PlayerSnapshot
	PromotedPosition   int
	BankedContribution float64
	TotalBefore        SquadTotal
	TotalAfter         SquadTotal
}

// SwapWithBench moves startingID to the bench and promotes benchID into the
// starting XI. The demoted player's contribution is banked and its role
// vacated. The promoted player is re-anchored at its current score so points
// earned on the bench are not counted.
//
// The re-anchor is the one place PointsAtJoining changes while a player stays
// in the squad. Without it the promoted player's bench points would enter the
// total at promotion and break the unchanged-total check. The demoted player
// keeps its anchor.
func SwapWithBench(state SquadState, startingID, benchID string) (BenchSwapResult, error) {
	startPos, ok := state.Squad.Find(startingID)
	if !ok {
		return BenchSwapResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, startingID)
	}
	if !state.Squad.Slots[startPos].Zone.Starting() {
		return BenchSwapResult{}, fmt.Errorf("%w: %s", ErrPlayerNotInStartingXI, startingID)
	}
	benchPos, ok := state.Squad.Find(benchID)
	if !ok {
		return BenchSwapResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, benchID)
	}
	if state.Squad.Slots[benchPos].Zone.Starting() {
		return BenchSwapResult{}, fmt.Errorf("%w: %s", ErrPlayerNotOnBench, benchID)
	}

	demoted := *state.Squad.Slots[startPos].Occupant
	promoted := state.Squad.Slots[benchPos].Occupant.JoinAt()
	role := state.Roles.RoleOf(startingID)

	if check := ValidateRoleTimestamp(demoted, role); !check.Valid {
		return BenchSwapResult{}, check.Err(startingID, role)
	}

	before := state.Total()
	banked := ComputeContribution(demoted, role)

	squad, _, _, err := RemovePlayer(state.Squad, benchID)
	if err != nil {
		return BenchSwapResult{}, err
	}
	squad, vacated, _, err := RemovePlayer(squad, startingID)
	if err != nil {
		return BenchSwapResult{}, err
	}
	squad = RebalanceAfterRemoval(squad, vacated)

	inPos, err := BestInsertionPosition(squad, promoted.Category)
	if err != nil {
		return BenchSwapResult{}, err
	}
	if !squad.Slots[inPos].Zone.Starting() {
		return BenchSwapResult{}, fmt.Errorf("%w: %s cannot fill a starting slot vacated by %s",
			ErrNoInsertionSlot, promoted.Category, demoted.Category)
	}
	squad.Slots[inPos].Occupant = &promoted

	benched := demoted.Clone()
	benched.PointsWhenRoleAssigned = nil
	squad.Slots[benchPos].Occupant = &benched

	next := state.Clone()
	next.Squad = squad
	next.Roles = next.Roles.Without(startingID)
	next.bank(banked)

	after := next.Total()
	if err := checkInvariant("bench swap", before, after); err != nil {
		return BenchSwapResult{}, err
	}

	return BenchSwapResult{
		State:              next,
		Demoted:            demoted,
		DemotedRole:        role,
		Promoted:           promoted,
		PromotedPosition:   inPos,
		BankedContribution: banked,
		TotalBefore:        before,
		TotalAfter:         after,
	}, nil
}
