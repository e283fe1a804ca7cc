package squadservice

import (
	"context"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// Service defines the interface for the SquadService.
// Every method returns a business Failure for outcomes the caller should
// report, and a non-nil error only for infrastructure problems worth retrying.
type Service interface {
	// CreateLeague validates the formation rules and stores a league.
	CreateLeague(ctx context.Context, cmd CreateLeagueCommand) (LeagueOperationResult, error)

	// CreateSquad lays out a squad for its league and places the initial players.
	CreateSquad(ctx context.Context, cmd CreateSquadCommand) (SquadOperationResult, error)

	// GetSquadTotal computes the current squad total and its role breakdown.
	GetSquadTotal(ctx context.Context, squadID string) (SquadOperationResult, error)

	// PreviewContribution explains how much one player currently contributes.
	PreviewContribution(ctx context.Context, squadID, playerID string) (ContributionOperationResult, error)

	// PreviewTransfer runs a transfer without persisting it.
	PreviewTransfer(ctx context.Context, cmd TransferCommand) (TransferOperationResult, error)

	// PerformTransfer replaces a player, banking the outgoing contribution.
	PerformTransfer(ctx context.Context, cmd TransferCommand) (TransferOperationResult, error)

	// SwapBench exchanges a starting player with a bench player.
	SwapBench(ctx context.Context, cmd BenchSwapCommand) (BenchSwapOperationResult, error)

	// AssignRole grants or vacates a bonus role.
	AssignRole(ctx context.Context, cmd AssignRoleCommand) (RoleOperationResult, error)

	// ApplyPlayerScore records a score feed update and recalculates every
	// squad holding the player.
	ApplyPlayerScore(ctx context.Context, update PlayerScoreUpdate) (ScoreOperationResult, error)

	// ValidateFormation checks the starting XI against the league minimums.
	ValidateFormation(ctx context.Context, squadID string) (FormationOperationResult, error)

	// AuditRoleTimestamps sweeps squads for corrupt role anchors and
	// optionally repairs them.
	AuditRoleTimestamps(ctx context.Context, opts AuditOptions) (AuditOperationResult, error)

	// GetSquadHistoryChart renders the squad total history as a PNG.
	GetSquadHistoryChart(ctx context.Context, squadID string) (ChartOperationResult, error)

	// ExportAuditReport renders an audit report as an XLSX workbook.
	ExportAuditReport(report squaddomain.AuditReport) ([]byte, error)
}

// Result aliases.
type (
	LeagueOperationResult       = results.OperationResult[*squaddb.League, error]
	SquadOperationResult        = results.OperationResult[*SquadSummary, error]
	ContributionOperationResult = results.OperationResult[*ContributionPreview, error]
	TransferOperationResult     = results.OperationResult[*TransferOutcome, error]
	BenchSwapOperationResult    = results.OperationResult[*BenchSwapOutcome, error]
	RoleOperationResult         = results.OperationResult[*RoleChangeOutcome, error]
	ScoreOperationResult        = results.OperationResult[*ScoreUpdateOutcome, error]
	FormationOperationResult    = results.OperationResult[*squaddomain.FormationResult, error]
	AuditOperationResult        = results.OperationResult[*AuditOutcome, error]
	ChartOperationResult        = results.OperationResult[[]byte, error]
)

// --- Commands ---

// CreateLeagueCommand creates a league. Nil Rules means the configured defaults.
type CreateLeagueCommand struct {
	Name  string
	Rules *squaddomain.LeagueRules
}

// CreateSquadCommand creates a squad. Players join at their current score,
// taken from the score feed when it knows them.
type CreateSquadCommand struct {
	LeagueID string
	OwnerID  string
	Name     string
	Players  []squaddomain.PlayerSnapshot
}

type TransferCommand struct {
	SquadID          string
	OutgoingPlayerID string
	Incoming         squaddomain.PlayerSnapshot
}

type BenchSwapCommand struct {
	SquadID          string
	StartingPlayerID string
	BenchPlayerID    string
}

// AssignRoleCommand grants Role to PlayerID; an empty PlayerID vacates it.
type AssignRoleCommand struct {
	SquadID  string
	Role     squaddomain.BonusRole
	PlayerID string
}

type PlayerScoreUpdate struct {
	PlayerID string
	Name     string
	Category squaddomain.Category
	Points   float64
}

// AuditOptions scopes a sweep. An empty LeagueID sweeps every league.
type AuditOptions struct {
	LeagueID string
	Repair   bool
}

// --- Outcomes ---

// SquadSummary is a squad with its current total, rounded for display.
type SquadSummary struct {
	SquadID  string                 `json:"squad_id"`
	LeagueID string                 `json:"league_id"`
	OwnerID  string                 `json:"owner_id"`
	Name     string                 `json:"name"`
	Version  int64                  `json:"version"`
	Total    squaddomain.SquadTotal `json:"total"`
}

// ContributionPreview explains one player's contribution. Bench players are
// reported with Starting false; their contribution does not count.
type ContributionPreview struct {
	SquadID   string                            `json:"squad_id"`
	Starting  bool                              `json:"starting"`
	Breakdown squaddomain.ContributionBreakdown `json:"breakdown"`
	Reference squaddomain.ReferencePoints       `json:"reference"`
	Timestamp squaddomain.RoleTimestampCheck    `json:"timestamp"`
}

// TransferOutcome wraps the engine result. Committed is false for previews.
type TransferOutcome struct {
	SquadID   string
	Committed bool
	Result    squaddomain.TransferResult
}

type BenchSwapOutcome struct {
	SquadID string
	Result  squaddomain.BenchSwapResult
}

type RoleChangeOutcome struct {
	SquadID string
	Result  squaddomain.RoleChangeResult
}

// SquadScoreChange is the effect of a score update on one squad.
type SquadScoreChange struct {
	SquadID     string
	TotalBefore float64
	TotalAfter  float64
}

type ScoreUpdateOutcome struct {
	PlayerID string
	Points   float64
	// Decreased flags a correction that lowered the player's score.
	Decreased bool
	Changes   []SquadScoreChange
}

type AuditOutcome struct {
	LeagueID      string
	Repair        bool
	Report        squaddomain.AuditReport
	SquadsUpdated int
}
