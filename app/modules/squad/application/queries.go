package squadservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// GetSquadTotal computes the squad total from the stored slots. Totals are
// always derived, never stored, so there is nothing to drift.
func (s *SquadService) GetSquadTotal(ctx context.Context, squadID string) (SquadOperationResult, error) {
	return withTelemetry(s, ctx, "GetSquadTotal", squadID, func(ctx context.Context) (SquadOperationResult, error) {
		squad, state, err := s.loadSquad(ctx, nil, squadID)
		if err != nil {
			return failOrError[*SquadSummary](err)
		}
		return results.SuccessResult[*SquadSummary, error](summarize(squad, state)), nil
	})
}

// PreviewContribution explains a player's contribution under its current role.
func (s *SquadService) PreviewContribution(ctx context.Context, squadID, playerID string) (ContributionOperationResult, error) {
	return withTelemetry(s, ctx, "PreviewContribution", squadID, func(ctx context.Context) (ContributionOperationResult, error) {
		_, state, err := s.loadSquad(ctx, nil, squadID)
		if err != nil {
			return failOrError[*ContributionPreview](err)
		}

		pos, ok := state.Squad.Find(playerID)
		if !ok {
			return failOrError[*ContributionPreview](fmt.Errorf("%w: %s", squaddomain.ErrPlayerNotFound, playerID))
		}
		p := *state.Squad.Slots[pos].Occupant
		role := state.Roles.RoleOf(playerID)

		return results.SuccessResult[*ContributionPreview, error](&ContributionPreview{
			SquadID:   squadID,
			Starting:  state.Squad.Slots[pos].Zone.Starting(),
			Breakdown: squaddomain.ExplainContribution(p, role),
			Reference: squaddomain.ResolveReferencePoints(p),
			Timestamp: squaddomain.ValidateRoleTimestamp(p, role),
		}), nil
	})
}

// ValidateFormation checks the starting XI against the league minimums.
func (s *SquadService) ValidateFormation(ctx context.Context, squadID string) (FormationOperationResult, error) {
	return withTelemetry(s, ctx, "ValidateFormation", squadID, func(ctx context.Context) (FormationOperationResult, error) {
		squad, state, err := s.loadSquad(ctx, nil, squadID)
		if err != nil {
			return failOrError[*squaddomain.FormationResult](err)
		}
		league, err := s.repo.GetLeague(ctx, nil, squad.LeagueID)
		if err != nil {
			if errors.Is(err, squaddb.ErrNotFound) {
				return failOrError[*squaddomain.FormationResult](fmt.Errorf("%w: %s", ErrLeagueNotFound, squad.LeagueID))
			}
			return FormationOperationResult{}, err
		}

		res := squaddomain.ValidateFormation(state.Squad.StartingXI(), league.Rules)
		return results.SuccessResult[*squaddomain.FormationResult, error](&res), nil
	})
}

// PreviewTransfer runs the transfer against the current state and discards
// the result.
func (s *SquadService) PreviewTransfer(ctx context.Context, cmd TransferCommand) (TransferOperationResult, error) {
	return withTelemetry(s, ctx, "PreviewTransfer", cmd.SquadID, func(ctx context.Context) (TransferOperationResult, error) {
		if err := cmd.validate(); err != nil {
			return failOrError[*TransferOutcome](err)
		}
		return s.transfer(ctx, nil, cmd, false)
	})
}

func (cmd TransferCommand) validate() error {
	if cmd.SquadID == "" || cmd.OutgoingPlayerID == "" || cmd.Incoming.PlayerID == "" {
		return fmt.Errorf("%w: squad, outgoing and incoming players are required", ErrInvalidCommand)
	}
	if cmd.Incoming.Points < 0 {
		return fmt.Errorf("%w: incoming %s", squaddomain.ErrNegativePoints, cmd.Incoming.PlayerID)
	}
	return nil
}

// transfer applies cmd to the stored squad and, when commit is set, persists
// the result. The caller holds the squad lock when committing.
func (s *SquadService) transfer(ctx context.Context, db bun.IDB, cmd TransferCommand, commit bool) (TransferOperationResult, error) {
	squad, state, err := s.loadSquad(ctx, db, cmd.SquadID)
	if err != nil {
		return failOrError[*TransferOutcome](err)
	}

	resolved, err := s.withFeedScores(ctx, db, []squaddomain.PlayerSnapshot{cmd.Incoming})
	if err != nil {
		return TransferOperationResult{}, err
	}
	incoming := resolved[0]
	if !incoming.Category.Valid() {
		return failOrError[*TransferOutcome](fmt.Errorf("%w: incoming %s has category %q",
			squaddomain.ErrInvalidCategory, incoming.PlayerID, incoming.Category))
	}

	res, err := squaddomain.ApplyTransfer(state, cmd.OutgoingPlayerID, incoming)
	if err != nil {
		return failOrError[*TransferOutcome](err)
	}

	if commit {
		record := &squaddb.TransferRecord{
			Kind:               squaddb.KindTransfer,
			OutgoingPlayerID:   res.Outgoing.PlayerID,
			IncomingPlayerID:   res.Incoming.PlayerID,
			Role:               string(res.OutgoingRole),
			BankedContribution: res.BankedContribution,
			TotalBefore:        res.TotalBefore.Total,
			TotalAfter:         res.TotalAfter.Total,
		}
		if err := s.saveEdit(ctx, db, squad, res.State, record); err != nil {
			return TransferOperationResult{}, err
		}
	}

	return results.SuccessResult[*TransferOutcome, error](&TransferOutcome{
		SquadID:   cmd.SquadID,
		Committed: commit,
		Result:    res,
	}), nil
}
