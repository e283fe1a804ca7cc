package squadservice

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func fakeWithSquad(t *testing.T, state squaddomain.SquadState) *FakeSquadRepository {
	t.Helper()
	row := squadRow(testSquadID, state)
	fake := NewFakeSquadRepository()
	fake.GetSquadFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.Squad, error) {
		if id != testSquadID {
			return nil, squaddb.ErrNotFound
		}
		return row(), nil
	}
	fake.GetLeagueFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.League, error) {
		return &squaddb.League{ID: id, Rules: squaddomain.DefaultLeagueRules}, nil
	}
	return fake
}

func TestSquadService_GetSquadTotal(t *testing.T) {
	state := testState(t)
	state.BankedPoints = squaddomain.Float(12.5)
	s := newTestService(fakeWithSquad(t, state), nil)

	res, err := s.GetSquadTotal(context.Background(), testSquadID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.Equal(t, 562.5, res.Success.Total.Total)
	assert.Equal(t, 12.5, res.Success.Total.BankedPoints)
	assert.Equal(t, int64(3), res.Success.Version)

	res, err = s.GetSquadTotal(context.Background(), "missing")
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, ErrSquadNotFound)
}

func TestSquadService_GetSquadTotal_PanicRecovered(t *testing.T) {
	fake := NewFakeSquadRepository()
	fake.GetSquadFunc = func(ctx context.Context, db bun.IDB, id string) (*squaddb.Squad, error) {
		panic("boom")
	}
	metrics := newCountingMetrics()
	s := newTestService(fake, metrics)

	res, err := s.GetSquadTotal(context.Background(), testSquadID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in GetSquadTotal")
	assert.Nil(t, res.Success)
	assert.Equal(t, 1, metrics.failures["GetSquadTotal"])
}

func TestSquadService_PreviewContribution(t *testing.T) {
	state := testState(t)
	state.Squad.Slots[0].Occupant.PointsWhenRoleAssigned = squaddomain.Float(80)
	state.Roles.CaptainID = "p00"
	s := newTestService(fakeWithSquad(t, state), nil)

	res, err := s.PreviewContribution(context.Background(), testSquadID, "p00")
	require.NoError(t, err)
	require.NotNil(t, res.Success)

	b := res.Success.Breakdown
	assert.True(t, res.Success.Starting)
	assert.Equal(t, squaddomain.RoleCaptain, b.Role)
	assert.InDelta(t, 30, b.Base, 1e-9)
	assert.InDelta(t, 20, b.Bonus, 1e-9)
	assert.InDelta(t, 70, b.Total, 1e-9)
	assert.True(t, res.Success.Timestamp.Valid)

	res, err = s.PreviewContribution(context.Background(), testSquadID, "p14")
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.False(t, res.Success.Starting)

	res, err = s.PreviewContribution(context.Background(), testSquadID, "ghost")
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, squaddomain.ErrPlayerNotFound)
}

func TestSquadService_ValidateFormation(t *testing.T) {
	state := testState(t)
	s := newTestService(fakeWithSquad(t, state), nil)

	res, err := s.ValidateFormation(context.Background(), testSquadID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.True(t, res.Success.IsValid)
	assert.Equal(t, 4, res.Success.Counts[squaddomain.CategoryBatsman])

	// Losing the only starting keeper breaks the formation.
	state.Squad.Slots[7].Occupant = nil
	s = newTestService(fakeWithSquad(t, state), nil)
	res, err = s.ValidateFormation(context.Background(), testSquadID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.False(t, res.Success.IsValid)
	assert.Len(t, res.Success.Errors, 1)
}

func TestSquadService_AuditRoleTimestamps(t *testing.T) {
	corrupt := testState(t)
	corrupt.Roles.CaptainID = "p00" // anchor missing
	clean := testState(t)

	newFake := func() *FakeSquadRepository {
		dirty := squadRow(testSquadID, corrupt)
		fine := squadRow(otherSquadID, clean)
		fake := NewFakeSquadRepository()
		fake.ListSquadsFunc = func(ctx context.Context, db bun.IDB, leagueID string) ([]*squaddb.Squad, error) {
			return []*squaddb.Squad{dirty(), fine()}, nil
		}
		return fake
	}

	t.Run("report only", func(t *testing.T) {
		fake := newFake()
		metrics := newCountingMetrics()
		s := newTestService(fake, metrics)

		res, err := s.AuditRoleTimestamps(context.Background(), AuditOptions{LeagueID: testLeagueID})
		require.NoError(t, err)
		require.NotNil(t, res.Success)

		report := res.Success.Report
		assert.Equal(t, 2, report.SquadsScanned)
		require.Len(t, report.Findings, 1)
		assert.Equal(t, squaddomain.IssueMissingTimestamp, report.Findings[0].Issue)
		assert.Zero(t, res.Success.SquadsUpdated)
		assert.Empty(t, fake.SavedSquads)
		assert.Empty(t, fake.Locked)
		assert.Equal(t, 1, metrics.findings[string(squaddomain.IssueMissingTimestamp)])
	})

	t.Run("repair persists under locks", func(t *testing.T) {
		fake := newFake()
		s := newTestService(fake, nil)

		res, err := s.AuditRoleTimestamps(context.Background(), AuditOptions{LeagueID: testLeagueID, Repair: true})
		require.NoError(t, err)
		require.NotNil(t, res.Success)

		assert.Equal(t, 1, res.Success.Report.Repaired)
		assert.Equal(t, 1, res.Success.SquadsUpdated)
		assert.ElementsMatch(t, []string{testSquadID, otherSquadID}, fake.Locked)

		require.Len(t, fake.SavedSquads, 1)
		saved := fake.SavedSquads[0]
		require.NotNil(t, saved.Slots[0].PointsWhenRoleAssigned)
		assert.Equal(t, 50.0, *saved.Slots[0].PointsWhenRoleAssigned)

		require.Len(t, fake.Transfers, 1)
		rec := fake.Transfers[0]
		assert.Equal(t, squaddb.KindAuditFix, rec.Kind)
		assert.InDelta(t, rec.TotalBefore, rec.TotalAfter, 1e-9)
	})
}

func TestSquadService_ExportAuditReport(t *testing.T) {
	report := squaddomain.AuditReport{
		SquadsScanned:  3,
		PlayersChecked: 45,
		Repaired:       1,
		NeedsReview:    1,
		Findings: []squaddomain.AuditFinding{
			{SquadID: "s1", PlayerID: "p1", Role: squaddomain.RoleCaptain, Issue: squaddomain.IssueMissingTimestamp, Repaired: true, RepairedTimestamp: squaddomain.Float(50)},
			{SquadID: "s2", PlayerID: "p2", Role: squaddomain.RoleXFactor, Issue: squaddomain.IssueAfterCurrentPoints, NeedsReview: true},
		},
	}
	s := newTestService(NewFakeSquadRepository(), nil)

	data, err := s.ExportAuditReport(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, findingsSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Squads scanned", "3"}, summary[0])

	rows, err := f.GetRows(findingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Squad", rows[0][0])
	assert.Equal(t, "s2", rows[2][0])
	assert.Equal(t, string(squaddomain.IssueAfterCurrentPoints), rows[2][3])
}

func TestSquadService_GetSquadHistoryChart(t *testing.T) {
	fake := fakeWithSquad(t, testState(t))
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	fake.ListTotalSnapshotsFunc = func(ctx context.Context, db bun.IDB, squadID string, limit int) ([]squaddb.SquadTotalSnapshot, error) {
		assert.Equal(t, historyLimit, limit)
		return []squaddb.SquadTotalSnapshot{
			{SquadID: squadID, Total: 100, RecordedAt: start},
			{SquadID: squadID, Total: 140, BankedPoints: 40, RecordedAt: start.Add(24 * time.Hour)},
			{SquadID: squadID, Total: 190, BankedPoints: 40, RecordedAt: start.Add(48 * time.Hour)},
		}, nil
	}
	s := newTestService(fake, nil)

	res, err := s.GetSquadHistoryChart(context.Background(), testSquadID)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.True(t, bytes.HasPrefix(*res.Success, pngMagic))

	res, err = s.GetSquadHistoryChart(context.Background(), "missing")
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, *res.Failure, ErrSquadNotFound)
}

func TestRenderTotalHistoryChart_EdgeCases(t *testing.T) {
	empty, err := RenderTotalHistoryChart(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, pngMagic))

	single, err := RenderTotalHistoryChart([]squaddb.SquadTotalSnapshot{{Total: 10, RecordedAt: time.Now()}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(single, pngMagic))
}
