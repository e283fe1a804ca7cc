package squaddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for squad persistence.
// Every method takes a bun.IDB so it can join the caller's transaction; a nil
// db falls back to the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist
//   - ErrVersionConflict: SaveSquad lost an optimistic concurrency race
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// CreateLeague inserts a league.
	CreateLeague(ctx context.Context, db bun.IDB, league *League) error

	// GetLeague retrieves a league by id.
	GetLeague(ctx context.Context, db bun.IDB, leagueID string) (*League, error)

	// CreateSquad inserts a squad together with all of its slot rows.
	CreateSquad(ctx context.Context, db bun.IDB, squad *Squad) error

	// GetSquad retrieves a squad with its slots ordered by position.
	GetSquad(ctx context.Context, db bun.IDB, squadID string) (*Squad, error)

	// ListSquads retrieves every squad of a league with slots loaded.
	// An empty leagueID lists squads of all leagues.
	ListSquads(ctx context.Context, db bun.IDB, leagueID string) ([]*Squad, error)

	// ListSquadsHoldingPlayer retrieves the squads that currently hold a player.
	ListSquadsHoldingPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*Squad, error)

	// SaveSquad writes banked points, roles and slots if the stored version
	// still matches squad.Version, then bumps the version.
	SaveSquad(ctx context.Context, db bun.IDB, squad *Squad) error

	// UpsertPlayerScore records the latest cumulative score for a player.
	UpsertPlayerScore(ctx context.Context, db bun.IDB, score *PlayerScore) error

	// GetPlayerScores returns the known scores for the given players keyed by id.
	GetPlayerScores(ctx context.Context, db bun.IDB, playerIDs []string) (map[string]*PlayerScore, error)

	// UpdateSlotPoints sets the current points of a player on every slot row
	// holding it and returns the number of rows changed.
	UpdateSlotPoints(ctx context.Context, db bun.IDB, playerID string, points float64) (int64, error)

	// InsertTransfer appends to the squad mutation trail.
	InsertTransfer(ctx context.Context, db bun.IDB, record *TransferRecord) error

	// InsertTotalSnapshot appends a point to the squad total history.
	InsertTotalSnapshot(ctx context.Context, db bun.IDB, snapshot *SquadTotalSnapshot) error

	// ListTotalSnapshots returns up to limit most recent snapshots, oldest first.
	ListTotalSnapshots(ctx context.Context, db bun.IDB, squadID string, limit int) ([]SquadTotalSnapshot, error)

	// AcquireSquadLock acquires a pg_advisory_xact_lock for the squad.
	// Must be called within a transaction.
	AcquireSquadLock(ctx context.Context, db bun.IDB, squadID string) error
}
