package squadservice

import (
	"context"

	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Squad Repo
// ------------------------

// FakeSquadRepository provides a programmable stub for the squaddb.Repository interface.
type FakeSquadRepository struct {
	trace []string

	CreateLeagueFunc            func(ctx context.Context, db bun.IDB, league *squaddb.League) error
	GetLeagueFunc               func(ctx context.Context, db bun.IDB, leagueID string) (*squaddb.League, error)
	CreateSquadFunc             func(ctx context.Context, db bun.IDB, squad *squaddb.Squad) error
	GetSquadFunc                func(ctx context.Context, db bun.IDB, squadID string) (*squaddb.Squad, error)
	ListSquadsFunc              func(ctx context.Context, db bun.IDB, leagueID string) ([]*squaddb.Squad, error)
	ListSquadsHoldingPlayerFunc func(ctx context.Context, db bun.IDB, playerID string) ([]*squaddb.Squad, error)
	SaveSquadFunc               func(ctx context.Context, db bun.IDB, squad *squaddb.Squad) error
	UpsertPlayerScoreFunc       func(ctx context.Context, db bun.IDB, score *squaddb.PlayerScore) error
	GetPlayerScoresFunc         func(ctx context.Context, db bun.IDB, playerIDs []string) (map[string]*squaddb.PlayerScore, error)
	UpdateSlotPointsFunc        func(ctx context.Context, db bun.IDB, playerID string, points float64) (int64, error)
	InsertTransferFunc          func(ctx context.Context, db bun.IDB, record *squaddb.TransferRecord) error
	InsertTotalSnapshotFunc     func(ctx context.Context, db bun.IDB, snapshot *squaddb.SquadTotalSnapshot) error
	ListTotalSnapshotsFunc      func(ctx context.Context, db bun.IDB, squadID string, limit int) ([]squaddb.SquadTotalSnapshot, error)
	AcquireSquadLockFunc        func(ctx context.Context, db bun.IDB, squadID string) error

	SavedSquads []*squaddb.Squad
	Transfers   []*squaddb.TransferRecord
	Snapshots   []*squaddb.SquadTotalSnapshot
	Locked      []string
}

// NewFakeSquadRepository initializes a new FakeSquadRepository with an empty trace.
func NewFakeSquadRepository() *FakeSquadRepository {
	return &FakeSquadRepository{
		trace: []string{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeSquadRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSquadRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeSquadRepository) CreateLeague(ctx context.Context, db bun.IDB, league *squaddb.League) error {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, db, league)
	}
	return nil
}

func (f *FakeSquadRepository) GetLeague(ctx context.Context, db bun.IDB, leagueID string) (*squaddb.League, error) {
	f.record("GetLeague")
	if f.GetLeagueFunc != nil {
		return f.GetLeagueFunc(ctx, db, leagueID)
	}
	return nil, squaddb.ErrNotFound
}

func (f *FakeSquadRepository) CreateSquad(ctx context.Context, db bun.IDB, squad *squaddb.Squad) error {
	f.record("CreateSquad")
	if f.CreateSquadFunc != nil {
		return f.CreateSquadFunc(ctx, db, squad)
	}
	return nil
}

func (f *FakeSquadRepository) GetSquad(ctx context.Context, db bun.IDB, squadID string) (*squaddb.Squad, error) {
	f.record("GetSquad")
	if f.GetSquadFunc != nil {
		return f.GetSquadFunc(ctx, db, squadID)
	}
	return nil, squaddb.ErrNotFound
}

func (f *FakeSquadRepository) ListSquads(ctx context.Context, db bun.IDB, leagueID string) ([]*squaddb.Squad, error) {
	f.record("ListSquads")
	if f.ListSquadsFunc != nil {
		return f.ListSquadsFunc(ctx, db, leagueID)
	}
	return nil, nil
}

func (f *FakeSquadRepository) ListSquadsHoldingPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*squaddb.Squad, error) {
	f.record("ListSquadsHoldingPlayer")
	if f.ListSquadsHoldingPlayerFunc != nil {
		return f.ListSquadsHoldingPlayerFunc(ctx, db, playerID)
	}
	return nil, nil
}

func (f *FakeSquadRepository) SaveSquad(ctx context.Context, db bun.IDB, squad *squaddb.Squad) error {
	f.record("SaveSquad")
	f.SavedSquads = append(f.SavedSquads, squad)
	if f.SaveSquadFunc != nil {
		return f.SaveSquadFunc(ctx, db, squad)
	}
	return nil
}

func (f *FakeSquadRepository) UpsertPlayerScore(ctx context.Context, db bun.IDB, score *squaddb.PlayerScore) error {
	f.record("UpsertPlayerScore")
	if f.UpsertPlayerScoreFunc != nil {
		return f.UpsertPlayerScoreFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeSquadRepository) GetPlayerScores(ctx context.Context, db bun.IDB, playerIDs []string) (map[string]*squaddb.PlayerScore, error) {
	f.record("GetPlayerScores")
	if f.GetPlayerScoresFunc != nil {
		return f.GetPlayerScoresFunc(ctx, db, playerIDs)
	}
	return map[string]*squaddb.PlayerScore{}, nil
}

func (f *FakeSquadRepository) UpdateSlotPoints(ctx context.Context, db bun.IDB, playerID string, points float64) (int64, error) {
	f.record("UpdateSlotPoints")
	if f.UpdateSlotPointsFunc != nil {
		return f.UpdateSlotPointsFunc(ctx, db, playerID, points)
	}
	return 0, nil
}

func (f *FakeSquadRepository) InsertTransfer(ctx context.Context, db bun.IDB, record *squaddb.TransferRecord) error {
	f.record("InsertTransfer")
	f.Transfers = append(f.Transfers, record)
	if f.InsertTransferFunc != nil {
		return f.InsertTransferFunc(ctx, db, record)
	}
	return nil
}

func (f *FakeSquadRepository) InsertTotalSnapshot(ctx context.Context, db bun.IDB, snapshot *squaddb.SquadTotalSnapshot) error {
	f.record("InsertTotalSnapshot")
	f.Snapshots = append(f.Snapshots, snapshot)
	if f.InsertTotalSnapshotFunc != nil {
		return f.InsertTotalSnapshotFunc(ctx, db, snapshot)
	}
	return nil
}

func (f *FakeSquadRepository) ListTotalSnapshots(ctx context.Context, db bun.IDB, squadID string, limit int) ([]squaddb.SquadTotalSnapshot, error) {
	f.record("ListTotalSnapshots")
	if f.ListTotalSnapshotsFunc != nil {
		return f.ListTotalSnapshotsFunc(ctx, db, squadID, limit)
	}
	return nil, nil
}

func (f *FakeSquadRepository) AcquireSquadLock(ctx context.Context, db bun.IDB, squadID string) error {
	f.record("AcquireSquadLock")
	f.Locked = append(f.Locked, squadID)
	if f.AcquireSquadLockFunc != nil {
		return f.AcquireSquadLockFunc(ctx, db, squadID)
	}
	return nil
}

// Ensure the fake actually satisfies the interface
var _ squaddb.Repository = (*FakeSquadRepository)(nil)
