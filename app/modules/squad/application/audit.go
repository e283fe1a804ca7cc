package squadservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// AuditRoleTimestamps scans role holders for missing or out-of-range role
// anchors. With Repair set, fixes that cannot raise a squad total are
// persisted under the squad locks; everything else is reported for review.
func (s *SquadService) AuditRoleTimestamps(ctx context.Context, opts AuditOptions) (AuditOperationResult, error) {
	return withTelemetry(s, ctx, "AuditRoleTimestamps", "", func(ctx context.Context) (AuditOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (AuditOperationResult, error) {
			squads, err := s.listSquadsForAudit(ctx, db, opts)
			if err != nil {
				return AuditOperationResult{}, err
			}

			audits := make([]squaddomain.SquadAudit, 0, len(squads))
			rows := make(map[string]*squaddb.Squad, len(squads))
			for _, squad := range squads {
				state, err := squad.State()
				if err != nil {
					s.logger.WarnContext(ctx, "Skipping undecodable squad in audit",
						attr.SquadID(squad.ID),
						attr.Error(err),
						attr.ExtractCorrelationID(ctx),
					)
					continue
				}
				audits = append(audits, squaddomain.SquadAudit{SquadID: squad.ID, State: state})
				rows[squad.ID] = squad
			}

			report, out := squaddomain.AuditSquads(audits, opts.Repair)
			for _, f := range report.Findings {
				s.metrics.RecordAuditFinding(ctx, string(f.Issue), f.Repaired)
			}

			outcome := &AuditOutcome{LeagueID: opts.LeagueID, Repair: opts.Repair, Report: report}
			for i, res := range out {
				if !res.Changed {
					continue
				}
				record := &squaddb.TransferRecord{
					Kind:        squaddb.KindAuditFix,
					TotalBefore: audits[i].State.Total().Total,
					TotalAfter:  res.State.Total().Total,
				}
				if err := s.saveEdit(ctx, db, rows[res.SquadID], res.State, record); err != nil {
					return AuditOperationResult{}, err
				}
				outcome.SquadsUpdated++
			}

			if !report.Clean() {
				s.logger.WarnContext(ctx, "Role timestamp audit found issues",
					attr.String("league_id", opts.LeagueID),
					attr.Int("findings", len(report.Findings)),
					attr.Int("repaired", report.Repaired),
					attr.Int("needs_review", report.NeedsReview),
					attr.ExtractCorrelationID(ctx),
				)
			}

			return results.SuccessResult[*AuditOutcome, error](outcome), nil
		})
	})
}

// listSquadsForAudit loads the squads in scope. A repairing sweep locks them
// first and reads them again under the locks.
func (s *SquadService) listSquadsForAudit(ctx context.Context, db bun.IDB, opts AuditOptions) ([]*squaddb.Squad, error) {
	squads, err := s.repo.ListSquads(ctx, db, opts.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	if !opts.Repair || len(squads) == 0 {
		return squads, nil
	}

	ids := make([]string, len(squads))
	for i, sq := range squads {
		ids[i] = sq.ID
	}
	if err := s.lockSquads(ctx, db, ids); err != nil {
		return nil, err
	}

	squads, err = s.repo.ListSquads(ctx, db, opts.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	return squads, nil
}
