package squadservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// ApplyPlayerScore stores a score feed update and pushes the new points into
// every squad holding the player. This is the only path that moves a squad
// total; a decrease is applied, flagged and never touches banked points.
func (s *SquadService) ApplyPlayerScore(ctx context.Context, update PlayerScoreUpdate) (ScoreOperationResult, error) {
	return withTelemetry(s, ctx, "ApplyPlayerScore", "", func(ctx context.Context) (ScoreOperationResult, error) {
		if update.PlayerID == "" {
			return failOrError[*ScoreUpdateOutcome](fmt.Errorf("%w: player is required", ErrInvalidCommand))
		}
		if update.Points < 0 {
			return failOrError[*ScoreUpdateOutcome](fmt.Errorf("%w: %s reported %.2f", squaddomain.ErrNegativePoints, update.PlayerID, update.Points))
		}
		if update.Category != "" && !update.Category.Valid() {
			return failOrError[*ScoreUpdateOutcome](fmt.Errorf("%w: %q", squaddomain.ErrInvalidCategory, update.Category))
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ScoreOperationResult, error) {
			return s.applyPlayerScore(ctx, db, update)
		})
	})
}

func (s *SquadService) applyPlayerScore(ctx context.Context, db bun.IDB, update PlayerScoreUpdate) (ScoreOperationResult, error) {
	outcome := &ScoreUpdateOutcome{PlayerID: update.PlayerID, Points: update.Points}

	previous, err := s.repo.GetPlayerScores(ctx, db, []string{update.PlayerID})
	if err != nil {
		return ScoreOperationResult{}, fmt.Errorf("load player score: %w", err)
	}
	if prev, ok := previous[update.PlayerID]; ok && update.Points < prev.Points {
		outcome.Decreased = true
	}

	err = s.repo.UpsertPlayerScore(ctx, db, &squaddb.PlayerScore{
		PlayerID: update.PlayerID,
		Name:     update.Name,
		Category: string(update.Category),
		Points:   update.Points,
	})
	if err != nil {
		return ScoreOperationResult{}, fmt.Errorf("upsert player score: %w", err)
	}

	squads, err := s.lockSquadsHolding(ctx, db, update.PlayerID)
	if err != nil {
		return ScoreOperationResult{}, err
	}

	states := make([]squaddomain.SquadState, 0, len(squads))
	for _, squad := range squads {
		state, err := squad.State()
		if err != nil {
			return ScoreOperationResult{}, fmt.Errorf("decode squad %s: %w", squad.ID, err)
		}
		change, err := squaddomain.ApplyScoreUpdate(state, update.PlayerID, update.Points)
		if err != nil {
			return failOrError[*ScoreUpdateOutcome](err)
		}
		if change.Decreased {
			outcome.Decreased = true
		}
		outcome.Changes = append(outcome.Changes, SquadScoreChange{
			SquadID:     squad.ID,
			TotalBefore: change.TotalBefore.Total,
			TotalAfter:  change.TotalAfter.Total,
		})
		states = append(states, change.State)
	}

	rows, err := s.repo.UpdateSlotPoints(ctx, db, update.PlayerID, update.Points)
	if err != nil {
		return ScoreOperationResult{}, fmt.Errorf("update slot points: %w", err)
	}
	if int(rows) != len(squads) {
		s.logger.WarnContext(ctx, "Slot rows updated differ from squads holding player",
			attr.PlayerID(update.PlayerID),
			attr.Int("squads", len(squads)),
			attr.Int("rows", int(rows)),
			attr.ExtractCorrelationID(ctx),
		)
	}

	for i, squad := range squads {
		if err := s.snapshotTotal(ctx, db, squad.ID, states[i], "score_update"); err != nil {
			return ScoreOperationResult{}, err
		}
	}

	if outcome.Decreased {
		s.metrics.RecordScoreDecrease(ctx)
		s.logger.WarnContext(ctx, "Player score decreased",
			attr.PlayerID(update.PlayerID),
			attr.Float64("points", update.Points),
			attr.ExtractCorrelationID(ctx),
		)
	}

	return results.SuccessResult[*ScoreUpdateOutcome, error](outcome), nil
}

// lockSquadsHolding locks every squad holding the player and returns them
// as read under the locks, sorted by id. Squads that pick the player up while
// the first batch is being locked are locked in a further pass, and the list
// is read again until every squad in it was locked before the read.
func (s *SquadService) lockSquadsHolding(ctx context.Context, db bun.IDB, playerID string) ([]*squaddb.Squad, error) {
	locked := make(map[string]bool)
	for {
		squads, err := s.repo.ListSquadsHoldingPlayer(ctx, db, playerID)
		if err != nil {
			return nil, fmt.Errorf("list squads holding %s: %w", playerID, err)
		}

		var pending []string
		for _, sq := range squads {
			if !locked[sq.ID] {
				pending = append(pending, sq.ID)
			}
		}
		if len(pending) == 0 {
			sort.Slice(squads, func(i, j int) bool { return squads[i].ID < squads[j].ID })
			return squads, nil
		}

		if err := s.lockSquads(ctx, db, pending); err != nil {
			return nil, err
		}
		for _, id := range pending {
			locked[id] = true
		}
	}
}

// lockSquads takes advisory locks in sorted order to avoid deadlocking with
// another multi-squad writer.
func (s *SquadService) lockSquads(ctx context.Context, db bun.IDB, ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if err := s.repo.AcquireSquadLock(ctx, db, id); err != nil {
			return fmt.Errorf("lock squad %s: %w", id, err)
		}
	}
	return nil
}
