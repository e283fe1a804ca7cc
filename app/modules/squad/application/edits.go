package squadservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// PerformTransfer substitutes a player under the squad lock and persists the
// new slots, bank, roles, trail entry and total snapshot together.
func (s *SquadService) PerformTransfer(ctx context.Context, cmd TransferCommand) (TransferOperationResult, error) {
	return withTelemetry(s, ctx, "PerformTransfer", cmd.SquadID, func(ctx context.Context) (TransferOperationResult, error) {
		if err := cmd.validate(); err != nil {
			return failOrError[*TransferOutcome](err)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (TransferOperationResult, error) {
			if err := s.repo.AcquireSquadLock(ctx, db, cmd.SquadID); err != nil {
				return TransferOperationResult{}, fmt.Errorf("lock squad: %w", err)
			}
			return s.transfer(ctx, db, cmd, true)
		})
	})
}

// SwapBench moves a starter to the bench and promotes a bench player.
func (s *SquadService) SwapBench(ctx context.Context, cmd BenchSwapCommand) (BenchSwapOperationResult, error) {
	return withTelemetry(s, ctx, "SwapBench", cmd.SquadID, func(ctx context.Context) (BenchSwapOperationResult, error) {
		if cmd.SquadID == "" || cmd.StartingPlayerID == "" || cmd.BenchPlayerID == "" {
			return failOrError[*BenchSwapOutcome](fmt.Errorf("%w: squad, starting and bench players are required", ErrInvalidCommand))
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (BenchSwapOperationResult, error) {
			if err := s.repo.AcquireSquadLock(ctx, db, cmd.SquadID); err != nil {
				return BenchSwapOperationResult{}, fmt.Errorf("lock squad: %w", err)
			}
			squad, state, err := s.loadSquad(ctx, db, cmd.SquadID)
			if err != nil {
				return failOrError[*BenchSwapOutcome](err)
			}

			res, err := squaddomain.SwapWithBench(state, cmd.StartingPlayerID, cmd.BenchPlayerID)
			if err != nil {
				return failOrError[*BenchSwapOutcome](err)
			}

			record := &squaddb.TransferRecord{
				Kind:               squaddb.KindBenchSwap,
				OutgoingPlayerID:   res.Demoted.PlayerID,
				IncomingPlayerID:   res.Promoted.PlayerID,
				Role:               string(res.DemotedRole),
				BankedContribution: res.BankedContribution,
				TotalBefore:        res.TotalBefore.Total,
				TotalAfter:         res.TotalAfter.Total,
			}
			if err := s.saveEdit(ctx, db, squad, res.State, record); err != nil {
				return BenchSwapOperationResult{}, err
			}
			return results.SuccessResult[*BenchSwapOutcome, error](&BenchSwapOutcome{SquadID: cmd.SquadID, Result: res}), nil
		})
	})
}

// AssignRole grants or vacates a bonus role. A no-op reassignment succeeds
// without writing anything.
func (s *SquadService) AssignRole(ctx context.Context, cmd AssignRoleCommand) (RoleOperationResult, error) {
	return withTelemetry(s, ctx, "AssignRole", cmd.SquadID, func(ctx context.Context) (RoleOperationResult, error) {
		if cmd.SquadID == "" {
			return failOrError[*RoleChangeOutcome](fmt.Errorf("%w: squad is required", ErrInvalidCommand))
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RoleOperationResult, error) {
			if err := s.repo.AcquireSquadLock(ctx, db, cmd.SquadID); err != nil {
				return RoleOperationResult{}, fmt.Errorf("lock squad: %w", err)
			}
			squad, state, err := s.loadSquad(ctx, db, cmd.SquadID)
			if err != nil {
				return failOrError[*RoleChangeOutcome](err)
			}

			res, err := squaddomain.ReassignRole(state, cmd.Role, cmd.PlayerID)
			if err != nil {
				return failOrError[*RoleChangeOutcome](err)
			}

			if res.Changed {
				record := &squaddb.TransferRecord{
					Kind:               squaddb.KindRoleChange,
					OutgoingPlayerID:   res.PreviousHolder,
					IncomingPlayerID:   res.PlayerID,
					Role:               string(res.Role),
					BankedContribution: res.BankedDelta,
					TotalBefore:        res.TotalBefore.Total,
					TotalAfter:         res.TotalAfter.Total,
				}
				if err := s.saveEdit(ctx, db, squad, res.State, record); err != nil {
					return RoleOperationResult{}, err
				}
			}
			return results.SuccessResult[*RoleChangeOutcome, error](&RoleChangeOutcome{SquadID: cmd.SquadID, Result: res}), nil
		})
	})
}
