package squadhandlers

import (
	"context"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
)

// HandleSquadCreationRequested creates a squad from the offered players.
func (h *SquadHandlers) HandleSquadCreationRequested(ctx context.Context, payload *squadevents.SquadCreationRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	players := make([]squaddomain.PlayerSnapshot, len(payload.Players))
	for i, p := range payload.Players {
		players[i] = toSnapshot(p)
	}

	result, err := h.service.CreateSquad(ctx, squadservice.CreateSquadCommand{
		LeagueID: payload.LeagueID,
		OwnerID:  payload.OwnerID,
		Name:     payload.Name,
		Players:  players,
	})
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result, "",
		squadevents.SquadCreatedV1,
		squadevents.SquadCreationFailedV1,
		func(s *squadservice.SquadSummary) any {
			return &squadevents.SquadCreatedPayloadV1{
				SquadID:  s.SquadID,
				LeagueID: s.LeagueID,
				OwnerID:  s.OwnerID,
				Total:    s.Total,
			}
		},
	), nil
}

// HandleTransferRequested performs a transfer.
func (h *SquadHandlers) HandleTransferRequested(ctx context.Context, payload *squadevents.TransferRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	result, err := h.service.PerformTransfer(ctx, squadservice.TransferCommand{
		SquadID:          payload.SquadID,
		OutgoingPlayerID: payload.OutgoingPlayerID,
		Incoming:         toSnapshot(payload.Incoming),
	})
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result, payload.SquadID,
		squadevents.SquadTransferCompletedV1,
		squadevents.SquadTransferFailedV1,
		func(o *squadservice.TransferOutcome) any {
			return &squadevents.TransferCompletedPayloadV1{
				SquadID:            o.SquadID,
				OutgoingPlayerID:   o.Result.Outgoing.PlayerID,
				OutgoingRole:       string(o.Result.OutgoingRole),
				IncomingPlayerID:   o.Result.Incoming.PlayerID,
				IncomingPosition:   o.Result.IncomingPosition,
				BankedContribution: squaddomain.RoundPoints(o.Result.BankedContribution),
				Total:              o.Result.TotalAfter.Rounded(),
			}
		},
	), nil
}

// HandleBenchSwapRequested swaps a starter with a bench player.
func (h *SquadHandlers) HandleBenchSwapRequested(ctx context.Context, payload *squadevents.BenchSwapRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	result, err := h.service.SwapBench(ctx, squadservice.BenchSwapCommand{
		SquadID:          payload.SquadID,
		StartingPlayerID: payload.StartingPlayerID,
		BenchPlayerID:    payload.BenchPlayerID,
	})
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result, payload.SquadID,
		squadevents.SquadBenchSwapCompletedV1,
		squadevents.SquadBenchSwapFailedV1,
		func(o *squadservice.BenchSwapOutcome) any {
			return &squadevents.BenchSwapCompletedPayloadV1{
				SquadID:            o.SquadID,
				DemotedPlayerID:    o.Result.Demoted.PlayerID,
				PromotedPlayerID:   o.Result.Promoted.PlayerID,
				PromotedPosition:   o.Result.PromotedPosition,
				BankedContribution: squaddomain.RoundPoints(o.Result.BankedContribution),
				Total:              o.Result.TotalAfter.Rounded(),
			}
		},
	), nil
}

// HandleRoleAssignmentRequested grants or vacates a bonus role.
func (h *SquadHandlers) HandleRoleAssignmentRequested(ctx context.Context, payload *squadevents.RoleAssignmentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errNilPayload
	}

	role, err := squaddomain.ParseBonusRole(payload.Role)
	if err != nil {
		return []handlerwrapper.Result{{
			Topic:   squadevents.SquadRoleAssignmentFailedV1,
			Payload: &squadevents.SquadFailedPayloadV1{SquadID: payload.SquadID, Reason: err.Error()},
		}}, nil
	}

	result, err := h.service.AssignRole(ctx, squadservice.AssignRoleCommand{
		SquadID:  payload.SquadID,
		Role:     role,
		PlayerID: payload.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result, payload.SquadID,
		squadevents.SquadRoleAssignedV1,
		squadevents.SquadRoleAssignmentFailedV1,
		func(o *squadservice.RoleChangeOutcome) any {
			return &squadevents.RoleAssignedPayloadV1{
				SquadID:            o.SquadID,
				Role:               string(o.Result.Role),
				PlayerID:           o.Result.PlayerID,
				PreviousHolderID:   o.Result.PreviousHolder,
				BankedContribution: squaddomain.RoundPoints(o.Result.BankedDelta),
				Total:              o.Result.TotalAfter.Rounded(),
			}
		},
	), nil
}
