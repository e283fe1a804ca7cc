package squadhandlers

import (
	"context"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

// FakeSquadService provides a programmable stub for the squadservice.Service interface.
type FakeSquadService struct {
	trace []string

	CreateLeagueFunc         func(ctx context.Context, cmd squadservice.CreateLeagueCommand) (squadservice.LeagueOperationResult, error)
	CreateSquadFunc          func(ctx context.Context, cmd squadservice.CreateSquadCommand) (squadservice.SquadOperationResult, error)
	GetSquadTotalFunc        func(ctx context.Context, squadID string) (squadservice.SquadOperationResult, error)
	PreviewContributionFunc  func(ctx context.Context, squadID, playerID string) (squadservice.ContributionOperationResult, error)
	PreviewTransferFunc      func(ctx context.Context, cmd squadservice.TransferCommand) (squadservice.TransferOperationResult, error)
	PerformTransferFunc      func(ctx context.Context, cmd squadservice.TransferCommand) (squadservice.TransferOperationResult, error)
	SwapBenchFunc            func(ctx context.Context, cmd squadservice.BenchSwapCommand) (squadservice.BenchSwapOperationResult, error)
	AssignRoleFunc           func(ctx context.Context, cmd squadservice.AssignRoleCommand) (squadservice.RoleOperationResult, error)
	ApplyPlayerScoreFunc     func(ctx context.Context, update squadservice.PlayerScoreUpdate) (squadservice.ScoreOperationResult, error)
	ValidateFormationFunc    func(ctx context.Context, squadID string) (squadservice.FormationOperationResult, error)
	AuditRoleTimestampsFunc  func(ctx context.Context, opts squadservice.AuditOptions) (squadservice.AuditOperationResult, error)
	GetSquadHistoryChartFunc func(ctx context.Context, squadID string) (squadservice.ChartOperationResult, error)
	ExportAuditReportFunc    func(report squaddomain.AuditReport) ([]byte, error)
}

var _ squadservice.Service = (*FakeSquadService)(nil)

func NewFakeSquadService() *FakeSquadService {
	return &FakeSquadService{trace: []string{}}
}

func (f *FakeSquadService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeSquadService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSquadService) CreateLeague(ctx context.Context, cmd squadservice.CreateLeagueCommand) (squadservice.LeagueOperationResult, error) {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, cmd)
	}
	return squadservice.LeagueOperationResult{}, nil
}

func (f *FakeSquadService) CreateSquad(ctx context.Context, cmd squadservice.CreateSquadCommand) (squadservice.SquadOperationResult, error) {
	f.record("CreateSquad")
	if f.CreateSquadFunc != nil {
		return f.CreateSquadFunc(ctx, cmd)
	}
	return squadservice.SquadOperationResult{}, nil
}

func (f *FakeSquadService) GetSquadTotal(ctx context.Context, squadID string) (squadservice.SquadOperationResult, error) {
	f.record("GetSquadTotal")
	if f.GetSquadTotalFunc != nil {
		return f.GetSquadTotalFunc(ctx, squadID)
	}
	return squadservice.SquadOperationResult{}, nil
}

func (f *FakeSquadService) PreviewContribution(ctx context.Context, squadID, playerID string) (squadservice.ContributionOperationResult, error) {
	f.record("PreviewContribution")
	if f.PreviewContributionFunc != nil {
		return f.PreviewContributionFunc(ctx, squadID, playerID)
	}
	return squadservice.ContributionOperationResult{}, nil
}

func (f *FakeSquadService) PreviewTransfer(ctx context.Context, cmd squadservice.TransferCommand) (squadservice.TransferOperationResult, error) {
	f.record("PreviewTransfer")
	if f.PreviewTransferFunc != nil {
		return f.PreviewTransferFunc(ctx, cmd)
	}
	return squadservice.TransferOperationResult{}, nil
}

func (f *FakeSquadService) PerformTransfer(ctx context.Context, cmd squadservice.TransferCommand) (squadservice.TransferOperationResult, error) {
	f.record("PerformTransfer")
	if f.PerformTransferFunc != nil {
		return f.PerformTransferFunc(ctx, cmd)
	}
	return squadservice.TransferOperationResult{}, nil
}

func (f *FakeSquadService) SwapBench(ctx context.Context, cmd squadservice.BenchSwapCommand) (squadservice.BenchSwapOperationResult, error) {
	f.record("SwapBench")
	if f.SwapBenchFunc != nil {
		return f.SwapBenchFunc(ctx, cmd)
	}
	return squadservice.BenchSwapOperationResult{}, nil
}

func (f *FakeSquadService) AssignRole(ctx context.Context, cmd squadservice.AssignRoleCommand) (squadservice.RoleOperationResult, error) {
	f.record("AssignRole")
	if f.AssignRoleFunc != nil {
		return f.AssignRoleFunc(ctx, cmd)
	}
	return squadservice.RoleOperationResult{}, nil
}

func (f *FakeSquadService) ApplyPlayerScore(ctx context.Context, update squadservice.PlayerScoreUpdate) (squadservice.ScoreOperationResult, error) {
	f.record("ApplyPlayerScore")
	if f.ApplyPlayerScoreFunc != nil {
		return f.ApplyPlayerScoreFunc(ctx, update)
	}
	return squadservice.ScoreOperationResult{}, nil
}

func (f *FakeSquadService) ValidateFormation(ctx context.Context, squadID string) (squadservice.FormationOperationResult, error) {
	f.record("ValidateFormation")
	if f.ValidateFormationFunc != nil {
		return f.ValidateFormationFunc(ctx, squadID)
	}
	return squadservice.FormationOperationResult{}, nil
}

func (f *FakeSquadService) AuditRoleTimestamps(ctx context.Context, opts squadservice.AuditOptions) (squadservice.AuditOperationResult, error) {
	f.record("AuditRoleTimestamps")
	if f.AuditRoleTimestampsFunc != nil {
		return f.AuditRoleTimestampsFunc(ctx, opts)
	}
	return squadservice.AuditOperationResult{}, nil
}

func (f *FakeSquadService) GetSquadHistoryChart(ctx context.Context, squadID string) (squadservice.ChartOperationResult, error) {
	f.record("GetSquadHistoryChart")
	if f.GetSquadHistoryChartFunc != nil {
		return f.GetSquadHistoryChartFunc(ctx, squadID)
	}
	return squadservice.ChartOperationResult{}, nil
}

func (f *FakeSquadService) ExportAuditReport(report squaddomain.AuditReport) ([]byte, error) {
	f.record("ExportAuditReport")
	if f.ExportAuditReportFunc != nil {
		return f.ExportAuditReportFunc(report)
	}
	return nil, nil
}
