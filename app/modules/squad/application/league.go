package squadservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// CreateLeague stores a league. Rules the slot allocator cannot lay out are
// rejected here so no squad is ever built against them.
func (s *SquadService) CreateLeague(ctx context.Context, cmd CreateLeagueCommand) (LeagueOperationResult, error) {
	return withTelemetry(s, ctx, "CreateLeague", "", func(ctx context.Context) (LeagueOperationResult, error) {
		if strings.TrimSpace(cmd.Name) == "" {
			return results.FailureResult[*squaddb.League, error](fmt.Errorf("%w: league name is required", ErrInvalidCommand)), nil
		}

		rules := s.defaultRules
		if cmd.Rules != nil {
			rules = *cmd.Rules
		}
		if err := rules.Validate(); err != nil {
			return results.FailureResult[*squaddb.League, error](err), nil
		}

		league := &squaddb.League{
			ID:    uuid.NewString(),
			Name:  cmd.Name,
			Rules: rules,
		}
		if err := s.repo.CreateLeague(ctx, nil, league); err != nil {
			return LeagueOperationResult{}, fmt.Errorf("create league: %w", err)
		}
		return results.SuccessResult[*squaddb.League, error](league), nil
	})
}

// CreateSquad lays out an empty squad for the league's rules and places the
// players in order at their best insertion positions. Every player joins at
// its current score, so a new squad starts at zero.
func (s *SquadService) CreateSquad(ctx context.Context, cmd CreateSquadCommand) (SquadOperationResult, error) {
	return withTelemetry(s, ctx, "CreateSquad", "", func(ctx context.Context) (SquadOperationResult, error) {
		if cmd.LeagueID == "" || cmd.OwnerID == "" {
			return results.FailureResult[*SquadSummary, error](fmt.Errorf("%w: league and owner are required", ErrInvalidCommand)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SquadOperationResult, error) {
			league, err := s.repo.GetLeague(ctx, db, cmd.LeagueID)
			if err != nil {
				if errors.Is(err, squaddb.ErrNotFound) {
					return failOrError[*SquadSummary](fmt.Errorf("%w: %s", ErrLeagueNotFound, cmd.LeagueID))
				}
				return SquadOperationResult{}, err
			}
			if len(cmd.Players) > league.Rules.TotalSlots() {
				return failOrError[*SquadSummary](fmt.Errorf("%w: %d players for %d slots",
					ErrSquadTooLarge, len(cmd.Players), league.Rules.TotalSlots()))
			}

			players, err := s.withFeedScores(ctx, db, cmd.Players)
			if err != nil {
				return SquadOperationResult{}, err
			}
			for _, p := range players {
				if !p.Category.Valid() {
					return failOrError[*SquadSummary](fmt.Errorf("%w: player %s has category %q",
						squaddomain.ErrInvalidCategory, p.PlayerID, p.Category))
				}
			}

			layout, err := squaddomain.BuildSquad(league.Rules, players)
			if err != nil {
				return failOrError[*SquadSummary](err)
			}

			state := squaddomain.SquadState{Squad: layout}
			squad := &squaddb.Squad{
				ID:       uuid.NewString(),
				LeagueID: league.ID,
				OwnerID:  cmd.OwnerID,
				Name:     cmd.Name,
				Version:  1,
			}
			squad.ApplyState(state)

			if err := s.repo.CreateSquad(ctx, db, squad); err != nil {
				return SquadOperationResult{}, fmt.Errorf("create squad: %w", err)
			}
			if err := s.snapshotTotal(ctx, db, squad.ID, state, "created"); err != nil {
				return SquadOperationResult{}, err
			}
			return results.SuccessResult[*SquadSummary, error](summarize(squad, state)), nil
		})
	})
}

// withFeedScores replaces the supplied points with the score feed's latest
// value for every player the feed knows. Name and category are filled in
// from the feed when the caller left them empty.
func (s *SquadService) withFeedScores(ctx context.Context, db bun.IDB, players []squaddomain.PlayerSnapshot) ([]squaddomain.PlayerSnapshot, error) {
	if len(players) == 0 {
		return nil, nil
	}
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.PlayerID
	}
	scores, err := s.repo.GetPlayerScores(ctx, db, ids)
	if err != nil {
		return nil, fmt.Errorf("load player scores: %w", err)
	}

	out := make([]squaddomain.PlayerSnapshot, len(players))
	for i, p := range players {
		out[i] = p.Clone()
		score, ok := scores[p.PlayerID]
		if !ok {
			continue
		}
		out[i].Points = score.Points
		if out[i].Name == "" {
			out[i].Name = score.Name
		}
		if out[i].Category == "" {
			out[i].Category = squaddomain.Category(score.Category)
		}
	}
	return out, nil
}
