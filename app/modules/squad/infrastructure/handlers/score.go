package squadhandlers

import (
	"context"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
)

// HandlePlayerScoreUpdated applies a score feed update and announces the new
// totals of every affected squad.
func (h *SquadHandlers) HandlePlayerScoreUpdated(ctx context.Context, payload *squadevents.PlayerScoreUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	result, err := h.service.ApplyPlayerScore(ctx, squadservice.PlayerScoreUpdate{
		PlayerID: payload.PlayerID,
		Name:     payload.Name,
		Category: squaddomain.Category(payload.Category),
		Points:   payload.Points,
	})
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		return []handlerwrapper.Result{{
			Topic: squadevents.PlayerScoreUpdateRejectedV1,
			Payload: &squadevents.PlayerScoreUpdateRejectedPayloadV1{
				PlayerID: payload.PlayerID,
				Reason:   (*result.Failure).Error(),
			},
		}}, nil
	}

	outcome := *result.Success
	changes := make([]squadevents.SquadTotalChangeV1, len(outcome.Changes))
	for i, c := range outcome.Changes {
		changes[i] = squadevents.SquadTotalChangeV1{
			SquadID:     c.SquadID,
			TotalBefore: squaddomain.RoundPoints(c.TotalBefore),
			TotalAfter:  squaddomain.RoundPoints(c.TotalAfter),
		}
	}

	return []handlerwrapper.Result{{
		Topic: squadevents.SquadTotalsRecalculatedV1,
		Payload: &squadevents.SquadTotalsRecalculatedPayloadV1{
			PlayerID:  outcome.PlayerID,
			Points:    outcome.Points,
			Decreased: outcome.Decreased,
			Squads:    changes,
		},
	}}, nil
}

// HandleSquadTotalRequested answers a total lookup.
func (h *SquadHandlers) HandleSquadTotalRequested(ctx context.Context, payload *squadevents.SquadTotalRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	result, err := h.service.GetSquadTotal(ctx, payload.SquadID)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result, payload.SquadID,
		squadevents.SquadTotalRetrievedV1,
		squadevents.SquadTotalRetrievalFailedV1,
		func(s *squadservice.SquadSummary) any {
			return &squadevents.SquadTotalRetrievedPayloadV1{SquadID: s.SquadID, Total: s.Total}
		},
	), nil
}

// HandleSquadAuditRequested runs a role timestamp sweep and publishes the report.
func (h *SquadHandlers) HandleSquadAuditRequested(ctx context.Context, payload *squadevents.SquadAuditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	result, err := h.service.AuditRoleTimestamps(ctx, squadservice.AuditOptions{
		LeagueID: payload.LeagueID,
		Repair:   payload.Repair,
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		h.logger.WarnContext(ctx, "Audit request rejected",
			attr.String("league_id", payload.LeagueID),
			attr.Error(*result.Failure),
		)
		return nil, nil
	}

	return []handlerwrapper.Result{{
		Topic:   squadevents.SquadAuditCompletedV1,
		Payload: AuditCompletedPayload(*result.Success),
	}}, nil
}

// AuditCompletedPayload converts an audit outcome to its event payload.
func AuditCompletedPayload(o *squadservice.AuditOutcome) *squadevents.SquadAuditCompletedPayloadV1 {
	return &squadevents.SquadAuditCompletedPayloadV1{
		LeagueID:      o.LeagueID,
		Repair:        o.Repair,
		Report:        o.Report,
		SquadsUpdated: o.SquadsUpdated,
	}
}
