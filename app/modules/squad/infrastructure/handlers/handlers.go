package squadhandlers

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

var errNilPayload = errors.New("payload cannot be nil")

// SquadHandlers implements the Handlers interface.
type SquadHandlers struct {
	service squadservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

var _ Handlers = (*SquadHandlers)(nil)

// NewSquadHandlers creates a new SquadHandlers instance.
func NewSquadHandlers(service squadservice.Service, logger *slog.Logger, tracer trace.Tracer) *SquadHandlers {
	return &SquadHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// mapOperationResult converts a service result into one outgoing event: the
// success payload built by toPayload, or a failure payload carrying the reason.
func mapOperationResult[S any](
	result results.OperationResult[S, error],
	squadID string,
	successTopic, failureTopic string,
	toPayload func(S) any,
) []handlerwrapper.Result {
	if result.IsFailure() {
		reason := "unknown failure"
		if *result.Failure != nil {
			reason = (*result.Failure).Error()
		}
		return []handlerwrapper.Result{{
			Topic:   failureTopic,
			Payload: &squadevents.SquadFailedPayloadV1{SquadID: squadID, Reason: reason},
		}}
	}
	if result.IsSuccess() {
		return []handlerwrapper.Result{{
			Topic:   successTopic,
			Payload: toPayload(*result.Success),
		}}
	}
	return nil
}

func toSnapshot(p squadevents.PlayerV1) squaddomain.PlayerSnapshot {
	return squaddomain.PlayerSnapshot{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		Category: squaddomain.Category(p.Category),
		Points:   p.Points,
	}
}
