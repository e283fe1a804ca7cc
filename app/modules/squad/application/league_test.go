package squadservice

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
)

func TestSquadService_CreateLeague(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateLeagueCommand
		wantErr error
		want    squaddomain.LeagueRules
	}{
		{
			name: "defaults applied when rules omitted",
			cmd:  CreateLeagueCommand{Name: "Sunday League"},
			want: squaddomain.DefaultLeagueRules,
		},
		{
			name: "explicit rules kept",
			cmd: CreateLeagueCommand{Name: "Tight", Rules: &squaddomain.LeagueRules{
				SquadSize: 11, BenchSize: 2, MinBatsmen: 4, MinBowlers: 4, MinAllrounders: 1, MinWicketkeepers: 1,
			}},
			want: squaddomain.LeagueRules{SquadSize: 11, BenchSize: 2, MinBatsmen: 4, MinBowlers: 4, MinAllrounders: 1, MinWicketkeepers: 1},
		},
		{
			name: "minimums exceeding squad size rejected",
			cmd: CreateLeagueCommand{Name: "Broken", Rules: &squaddomain.LeagueRules{
				SquadSize: 5, MinBatsmen: 4, MinBowlers: 4,
			}},
			wantErr: squaddomain.ErrInvalidLeagueConfig,
		},
		{
			name:    "name required",
			cmd:     CreateLeagueCommand{},
			wantErr: ErrInvalidCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeSquadRepository()
			s := newTestService(fake, nil)

			res, err := s.CreateLeague(context.Background(), tt.cmd)
			require.NoError(t, err)

			if tt.wantErr != nil {
				require.NotNil(t, res.Failure)
				assert.ErrorIs(t, *res.Failure, tt.wantErr)
				assert.NotContains(t, fake.Trace(), "CreateLeague")
				return
			}
			require.NotNil(t, res.Success)
			assert.NotEmpty(t, (*res.Success).ID)
			assert.Equal(t, tt.want, (*res.Success).Rules)
		})
	}
}

func TestSquadService_CreateSquad(t *testing.T) {
	league := &squaddb.League{ID: testLeagueID, Name: "L", Rules: squaddomain.DefaultLeagueRules}
	f := gofakeit.New(21)

	categories := []squaddomain.Category{
		squaddomain.CategoryBatsman, squaddomain.CategoryBatsman, squaddomain.CategoryBatsman, squaddomain.CategoryBatsman,
		squaddomain.CategoryBowler, squaddomain.CategoryBowler, squaddomain.CategoryBowler, squaddomain.CategoryBowler,
		squaddomain.CategoryAllrounder, squaddomain.CategoryAllrounder, squaddomain.CategoryWicketkeeper,
		squaddomain.CategoryBowler,
	}
	players := make([]squaddomain.PlayerSnapshot, len(categories))
	for i, c := range categories {
		players[i] = squaddomain.PlayerSnapshot{
			PlayerID: f.UUID(),
			Name:     f.Name(),
			Category: c,
			Points:   f.Float64Range(0, 500),
		}
	}

	t.Run("players join at their feed score and the squad starts at zero", func(t *testing.T) {
		fake := NewFakeSquadRepository()
		fake.GetLeagueFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.League, error) {
			return league, nil
		}
		fake.GetPlayerScoresFunc = func(ctx context.Context, db bun.IDB, ids []string) (map[string]*squaddb.PlayerScore, error) {
			return map[string]*squaddb.PlayerScore{players[0].PlayerID: {PlayerID: players[0].PlayerID, Points: 999}}, nil
		}
		var created *squaddb.Squad
		fake.CreateSquadFunc = func(ctx context.Context, db bun.IDB, squad *squaddb.Squad) error {
			created = squad
			return nil
		}
		s := newTestService(fake, nil)

		res, err := s.CreateSquad(context.Background(), CreateSquadCommand{LeagueID: testLeagueID, OwnerID: "owner-1", Name: "XI", Players: players})
		require.NoError(t, err)
		require.NotNil(t, res.Success)
		assert.Zero(t, res.Success.Total.Total)

		require.NotNil(t, created)
		assert.Len(t, created.Slots, 15)
		state, err := created.State()
		require.NoError(t, err)
		assert.Len(t, state.Squad.StartingXI(), 11)
		assert.Len(t, state.Squad.Bench(), 1)

		pos, ok := state.Squad.Find(players[0].PlayerID)
		require.True(t, ok)
		first := state.Squad.Slots[pos].Occupant
		assert.Equal(t, 999.0, first.Points)
		assert.Equal(t, 999.0, *first.PointsAtJoining)
		assert.Len(t, fake.Snapshots, 1)
	})

	t.Run("unknown league", func(t *testing.T) {
		s := newTestService(NewFakeSquadRepository(), nil)
		res, err := s.CreateSquad(context.Background(), CreateSquadCommand{LeagueID: "nope", OwnerID: "o"})
		require.NoError(t, err)
		require.NotNil(t, res.Failure)
		assert.ErrorIs(t, *res.Failure, ErrLeagueNotFound)
	})

	t.Run("too many players", func(t *testing.T) {
		fake := NewFakeSquadRepository()
		fake.GetLeagueFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.League, error) {
			return league, nil
		}
		s := newTestService(fake, nil)
		many := append(append([]squaddomain.PlayerSnapshot{}, players...), players...)

		res, err := s.CreateSquad(context.Background(), CreateSquadCommand{LeagueID: testLeagueID, OwnerID: "o", Players: many})
		require.NoError(t, err)
		require.NotNil(t, res.Failure)
		assert.ErrorIs(t, *res.Failure, ErrSquadTooLarge)
	})

	t.Run("league lookup error is infrastructure", func(t *testing.T) {
		fake := NewFakeSquadRepository()
		fake.GetLeagueFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.League, error) {
			return nil, errors.New("timeout")
		}
		s := newTestService(fake, nil)
		_, err := s.CreateSquad(context.Background(), CreateSquadCommand{LeagueID: testLeagueID, OwnerID: "o"})
		assert.ErrorContains(t, err, "timeout")
	})
}
