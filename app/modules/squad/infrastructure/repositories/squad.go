package squaddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new squad repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(league).Exec(ctx); err != nil {
		return fmt.Errorf("squaddb.CreateLeague: %w", err)
	}
	return nil
}

func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, leagueID string) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().Model(league).Where("id = ?", leagueID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("squaddb.GetLeague: %w", err)
	}
	return league, nil
}

func (r *Impl) CreateSquad(ctx context.Context, db bun.IDB, squad *Squad) error {
	db = r.resolveDB(db)
	if squad.Version == 0 {
		squad.Version = 1
	}
	if _, err := db.NewInsert().Model(squad).Exec(ctx); err != nil {
		return fmt.Errorf("squaddb.CreateSquad: %w", err)
	}
	if len(squad.Slots) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&squad.Slots).Exec(ctx); err != nil {
		return fmt.Errorf("squaddb.CreateSquad slots: %w", err)
	}
	return nil
}

func (r *Impl) GetSquad(ctx context.Context, db bun.IDB, squadID string) (*Squad, error) {
	db = r.resolveDB(db)
	squad := new(Squad)
	err := db.NewSelect().
		Model(squad).
		Relation("Slots", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sl.position ASC")
		}).
		Where("sq.id = ?", squadID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("squaddb.GetSquad: %w", err)
	}
	return squad, nil
}

func (r *Impl) ListSquads(ctx context.Context, db bun.IDB, leagueID string) ([]*Squad, error) {
	db = r.resolveDB(db)
	var squads []*Squad
	q := db.NewSelect().
		Model(&squads).
		Relation("Slots", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sl.position ASC")
		}).
		Order("sq.created_at ASC")
	if leagueID != "" {
		q = q.Where("sq.league_id = ?", leagueID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("squaddb.ListSquads: %w", err)
	}
	return squads, nil
}

func (r *Impl) ListSquadsHoldingPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*Squad, error) {
	db = r.resolveDB(db)
	var squads []*Squad
	err := db.NewSelect().
		Model(&squads).
		Relation("Slots", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sl.position ASC")
		}).
		Where("sq.id IN (?)", db.NewSelect().
			Model((*SquadSlot)(nil)).
			Column("squad_id").
			Where("player_id = ?", playerID)).
		Order("sq.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("squaddb.ListSquadsHoldingPlayer: %w", err)
	}
	return squads, nil
}

func (r *Impl) SaveSquad(ctx context.Context, db bun.IDB, squad *Squad) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()

	res, err := db.NewUpdate().
		Model((*Squad)(nil)).
		Set("banked_points = ?", squad.BankedPoints).
		Set("captain_id = ?", nullString(squad.CaptainID)).
		Set("vice_captain_id = ?", nullString(squad.ViceCaptainID)).
		Set("x_factor_id = ?", nullString(squad.XFactorID)).
		Set("version = version + 1").
		Set("updated_at = ?", now).
		Where("id = ?", squad.ID).
		Where("version = ?", squad.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("squaddb.SaveSquad: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrVersionConflict
	}
	squad.Version++
	squad.UpdatedAt = now

	if len(squad.Slots) == 0 {
		return nil
	}
	_, err = db.NewInsert().
		Model(&squad.Slots).
		On("CONFLICT (squad_id, position) DO UPDATE").
		Set("zone = EXCLUDED.zone").
		Set("player_id = EXCLUDED.player_id").
		Set("player_name = EXCLUDED.player_name").
		Set("category = EXCLUDED.category").
		Set("points = EXCLUDED.points").
		Set("points_at_joining = EXCLUDED.points_at_joining").
		Set("points_when_role_assigned = EXCLUDED.points_when_role_assigned").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("squaddb.SaveSquad slots: %w", err)
	}
	return nil
}

func (r *Impl) UpsertPlayerScore(ctx context.Context, db bun.IDB, score *PlayerScore) error {
	db = r.resolveDB(db)
	score.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(score).
		On("CONFLICT (player_id) DO UPDATE").
		Set("name = COALESCE(NULLIF(EXCLUDED.name, ''), ps.name)").
		Set("category = COALESCE(NULLIF(EXCLUDED.category, ''), ps.category)").
		Set("points = EXCLUDED.points").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("squaddb.UpsertPlayerScore: %w", err)
	}
	return nil
}

func (r *Impl) GetPlayerScores(ctx context.Context, db bun.IDB, playerIDs []string) (map[string]*PlayerScore, error) {
	out := make(map[string]*PlayerScore, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	db = r.resolveDB(db)
	var scores []*PlayerScore
	err := db.NewSelect().
		Model(&scores).
		Where("player_id IN (?)", bun.In(playerIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("squaddb.GetPlayerScores: %w", err)
	}
	for _, s := range scores {
		out[s.PlayerID] = s
	}
	return out, nil
}

func (r *Impl) UpdateSlotPoints(ctx context.Context, db bun.IDB, playerID string, points float64) (int64, error) {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*SquadSlot)(nil)).
		Set("points = ?", points).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("squaddb.UpdateSlotPoints: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("squaddb.UpdateSlotPoints: %w", err)
	}
	return n, nil
}

func (r *Impl) InsertTransfer(ctx context.Context, db bun.IDB, record *TransferRecord) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("squaddb.InsertTransfer: %w", err)
	}
	return nil
}

func (r *Impl) InsertTotalSnapshot(ctx context.Context, db bun.IDB, snapshot *SquadTotalSnapshot) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(snapshot).Exec(ctx); err != nil {
		return fmt.Errorf("squaddb.InsertTotalSnapshot: %w", err)
	}
	return nil
}

func (r *Impl) ListTotalSnapshots(ctx context.Context, db bun.IDB, squadID string, limit int) ([]SquadTotalSnapshot, error) {
	db = r.resolveDB(db)
	var snapshots []SquadTotalSnapshot
	q := db.NewSelect().
		Model(&snapshots).
		Where("squad_id = ?", squadID).
		Order("recorded_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("squaddb.ListTotalSnapshots: %w", err)
	}
	slices.Reverse(snapshots)
	return snapshots, nil
}

func (r *Impl) AcquireSquadLock(ctx context.Context, db bun.IDB, squadID string) error {
	db = r.resolveDB(db)
	// hashtext() gives a stable int4 for the squad id string
	_, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", squadID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("squaddb.AcquireSquadLock: %w", err)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
