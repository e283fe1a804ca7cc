package squadservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	squadmetrics "github.com/Black-And-White-Club/fantasy-bot/internal/observability/metrics/squad"
)

const (
	testSquadID  = "5b0c2c64-8a8e-4a53-b0ae-3e2f3a0f6d11"
	testLeagueID = "7f3c9a50-1d2e-4b6f-9c8d-0a1b2c3d4e5f"
)

// countingMetrics records the domain-specific metrics the service emits.
type countingMetrics struct {
	squadmetrics.NoOpMetrics
	decreases int
	findings  map[string]int
	banked    map[string]float64
	failures  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		findings: map[string]int{},
		banked:   map[string]float64{},
		failures: map[string]int{},
	}
}

func (m *countingMetrics) RecordScoreDecrease(context.Context) { m.decreases++ }

func (m *countingMetrics) RecordAuditFinding(_ context.Context, issue string, _ bool) {
	m.findings[issue]++
}

func (m *countingMetrics) RecordBankedPoints(_ context.Context, kind string, points float64) {
	m.banked[kind] += points
}

func (m *countingMetrics) RecordOperationFailure(_ context.Context, operation, _ string) {
	m.failures[operation]++
}

func newTestService(repo squaddb.Repository, metrics squadmetrics.SquadMetrics) *SquadService {
	if metrics == nil {
		metrics = &squadmetrics.NoOpMetrics{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewSquadService(repo, logger, metrics, tracer, nil, squaddomain.DefaultLeagueRules)
}

// testState builds a full default squad: positions 0-2 batsmen, 3-5 bowlers,
// 6 allrounder, 7 wicketkeeper, 8-10 flexible, 11-14 bench. Every player
// joined at 50 and has 100 points, so each starter contributes 50.
func testState(t *testing.T) squaddomain.SquadState {
	t.Helper()
	layout := []squaddomain.Category{
		squaddomain.CategoryBatsman, squaddomain.CategoryBatsman, squaddomain.CategoryBatsman,
		squaddomain.CategoryBowler, squaddomain.CategoryBowler, squaddomain.CategoryBowler,
		squaddomain.CategoryAllrounder, squaddomain.CategoryWicketkeeper,
		squaddomain.CategoryBatsman, squaddomain.CategoryBowler, squaddomain.CategoryAllrounder,
		squaddomain.CategoryBatsman, squaddomain.CategoryBowler, squaddomain.CategoryAllrounder, squaddomain.CategoryWicketkeeper,
	}
	ranges, err := squaddomain.ComputeSlotRanges(squaddomain.DefaultLeagueRules)
	if err != nil {
		t.Fatalf("ComputeSlotRanges: %v", err)
	}
	squad := squaddomain.NewSquad(ranges)
	for i, c := range layout {
		squad.Slots[i].Occupant = &squaddomain.PlayerSnapshot{
			PlayerID:        fmt.Sprintf("p%02d", i),
			Name:            fmt.Sprintf("Player %d", i),
			Category:        c,
			Points:          100,
			PointsAtJoining: squaddomain.Float(50),
		}
	}
	return squaddomain.SquadState{Squad: squad}
}

// squadRow returns a fresh persisted row for state on every call, the way
// the repository would.
func squadRow(id string, state squaddomain.SquadState) func() *squaddb.Squad {
	return func() *squaddb.Squad {
		row := &squaddb.Squad{ID: id, LeagueID: testLeagueID, OwnerID: "owner-1", Name: "Test XI", Version: 3}
		row.ApplyState(state.Clone())
		return row
	}
}
