package squadhandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
)

// maxBodyBytes caps request bodies on the preview endpoint.
const maxBodyBytes = 1 << 16

// MountHTTP registers the read API under /api/squads.
func (h *SquadHandlers) MountHTTP(r chi.Router, limits RateLimits) {
	readLimiter := NewClientRateLimiter(limits.Read, limits.ReadBurst)
	previewLimiter := NewClientRateLimiter(limits.Preview, limits.PreviewBurst)

	r.Route("/api/squads/{squadID}", func(r chi.Router) {
		r.Use(RateLimitMiddleware(readLimiter, ClientKey))
		r.Get("/total", h.HandleHTTPTotal)
		r.Get("/formation", h.HandleHTTPFormation)
		r.Get("/players/{playerID}/contribution", h.HandleHTTPContribution)
		r.With(RateLimitMiddleware(previewLimiter, SquadClientKey)).
			Post("/transfers/preview", h.HandleHTTPTransferPreview)
		r.Get("/history.png", h.HandleHTTPHistoryChart)
	})
}

func (h *SquadHandlers) HandleHTTPTotal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	squadID := chi.URLParam(r, "squadID")

	result, err := h.service.GetSquadTotal(ctx, squadID)
	if err != nil {
		h.writeInternalError(w, r, "Squad total lookup failed", err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}

	writeJSON(w, http.StatusOK, *result.Success)
}

func (h *SquadHandlers) HandleHTTPFormation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	squadID := chi.URLParam(r, "squadID")

	result, err := h.service.ValidateFormation(ctx, squadID)
	if err != nil {
		h.writeInternalError(w, r, "Formation check failed", err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}

	writeJSON(w, http.StatusOK, *result.Success)
}

func (h *SquadHandlers) HandleHTTPContribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	squadID := chi.URLParam(r, "squadID")
	playerID := chi.URLParam(r, "playerID")

	result, err := h.service.PreviewContribution(ctx, squadID, playerID)
	if err != nil {
		h.writeInternalError(w, r, "Contribution preview failed", err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}

	writeJSON(w, http.StatusOK, *result.Success)
}

type transferPreviewRequest struct {
	OutgoingPlayerID string               `json:"outgoing_player_id"`
	Incoming         squadevents.PlayerV1 `json:"incoming"`
}

type transferPreviewResponse struct {
	SquadID            string                 `json:"squad_id"`
	OutgoingPlayerID   string                 `json:"outgoing_player_id"`
	OutgoingRole       string                 `json:"outgoing_role"`
	IncomingPlayerID   string                 `json:"incoming_player_id"`
	IncomingPosition   int                    `json:"incoming_position"`
	BankedContribution float64                `json:"banked_contribution"`
	TotalBefore        squaddomain.SquadTotal `json:"total_before"`
	TotalAfter         squaddomain.SquadTotal `json:"total_after"`
}

func (h *SquadHandlers) HandleHTTPTransferPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	squadID := chi.URLParam(r, "squadID")

	var req transferPreviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.PreviewTransfer(ctx, squadservice.TransferCommand{
		SquadID:          squadID,
		OutgoingPlayerID: req.OutgoingPlayerID,
		Incoming:         toSnapshot(req.Incoming),
	})
	if err != nil {
		h.writeInternalError(w, r, "Transfer preview failed", err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}

	res := (*result.Success).Result
	writeJSON(w, http.StatusOK, transferPreviewResponse{
		SquadID:            squadID,
		OutgoingPlayerID:   res.Outgoing.PlayerID,
		OutgoingRole:       string(res.OutgoingRole),
		IncomingPlayerID:   res.Incoming.PlayerID,
		IncomingPosition:   res.IncomingPosition,
		BankedContribution: squaddomain.RoundPoints(res.BankedContribution),
		TotalBefore:        res.TotalBefore.Rounded(),
		TotalAfter:         res.TotalAfter.Rounded(),
	})
}

func (h *SquadHandlers) HandleHTTPHistoryChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	squadID := chi.URLParam(r, "squadID")

	result, err := h.service.GetSquadHistoryChart(ctx, squadID)
	if err != nil {
		h.writeInternalError(w, r, "History chart failed", err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(*result.Success)
}

func (h *SquadHandlers) writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		attr.SquadID(chi.URLParam(r, "squadID")),
		attr.Error(err),
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// failureStatus maps a business failure to an HTTP status.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, squadservice.ErrSquadNotFound),
		errors.Is(err, squadservice.ErrLeagueNotFound),
		errors.Is(err, squaddomain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, squadservice.ErrInvalidCommand),
		errors.Is(err, squaddomain.ErrInvalidCategory),
		errors.Is(err, squaddomain.ErrNegativePoints):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, failureStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
