package squadhandlers

import (
	"context"

	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
)

// Handlers defines the interface for squad event handlers.
type Handlers interface {
	HandleSquadCreationRequested(ctx context.Context, payload *squadevents.SquadCreationRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleTransferRequested(ctx context.Context, payload *squadevents.TransferRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleBenchSwapRequested(ctx context.Context, payload *squadevents.BenchSwapRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoleAssignmentRequested(ctx context.Context, payload *squadevents.RoleAssignmentRequestedPayloadV1) ([]handlerwrapper.Result, error)

	// HandlePlayerScoreUpdated applies a score feed update to every squad holding the player.
	HandlePlayerScoreUpdated(ctx context.Context, payload *squadevents.PlayerScoreUpdatedPayloadV1) ([]handlerwrapper.Result, error)

	HandleSquadTotalRequested(ctx context.Context, payload *squadevents.SquadTotalRequestedPayloadV1) ([]handlerwrapper.Result, error)

	// HandleSquadAuditRequested runs a role timestamp sweep.
	HandleSquadAuditRequested(ctx context.Context, payload *squadevents.SquadAuditRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
