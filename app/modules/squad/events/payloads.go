package squadevents

import (
	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

// PlayerV1 identifies a player and its current cumulative score.
type PlayerV1 struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category"`
	Points   float64 `json:"points"`
}

// SquadFailedPayloadV1 is published on every *.failed.v1 topic.
type SquadFailedPayloadV1 struct {
	SquadID string `json:"squad_id,omitempty"`
	Reason  string `json:"reason"`
}

// --- Transfers ---

type TransferRequestedPayloadV1 struct {
	SquadID          string   `json:"squad_id"`
	OutgoingPlayerID string   `json:"outgoing_player_id"`
	Incoming         PlayerV1 `json:"incoming"`
}

type TransferCompletedPayloadV1 struct {
	SquadID            string                 `json:"squad_id"`
	OutgoingPlayerID   string                 `json:"outgoing_player_id"`
	OutgoingRole       string                 `json:"outgoing_role"`
	IncomingPlayerID   string                 `json:"incoming_player_id"`
	IncomingPosition   int                    `json:"incoming_position"`
	BankedContribution float64                `json:"banked_contribution"`
	Total              squaddomain.SquadTotal `json:"total"`
}

// --- Bench swaps ---

type BenchSwapRequestedPayloadV1 struct {
	SquadID          string `json:"squad_id"`
	StartingPlayerID string `json:"starting_player_id"`
	BenchPlayerID    string `json:"bench_player_id"`
}

type BenchSwapCompletedPayloadV1 struct {
	SquadID            string                 `json:"squad_id"`
	DemotedPlayerID    string                 `json:"demoted_player_id"`
	PromotedPlayerID   string                 `json:"promoted_player_id"`
	PromotedPosition   int                    `json:"promoted_position"`
	BankedContribution float64                `json:"banked_contribution"`
	Total              squaddomain.SquadTotal `json:"total"`
}

// --- Roles ---

// RoleAssignmentRequestedPayloadV1 grants Role to PlayerID. An empty
// PlayerID vacates the role.
type RoleAssignmentRequestedPayloadV1 struct {
	SquadID  string `json:"squad_id"`
	Role     string `json:"role"`
	PlayerID string `json:"player_id"`
}

type RoleAssignedPayloadV1 struct {
	SquadID            string                 `json:"squad_id"`
	Role               string                 `json:"role"`
	PlayerID           string                 `json:"player_id"`
	PreviousHolderID   string                 `json:"previous_holder_id,omitempty"`
	BankedContribution float64                `json:"banked_contribution"`
	Total              squaddomain.SquadTotal `json:"total"`
}

// --- Score feed ---

type PlayerScoreUpdatedPayloadV1 struct {
	PlayerV1
}

// SquadTotalChangeV1 is the effect of one score update on one squad.
type SquadTotalChangeV1 struct {
	SquadID     string  `json:"squad_id"`
	TotalBefore float64 `json:"total_before"`
	TotalAfter  float64 `json:"total_after"`
}

type SquadTotalsRecalculatedPayloadV1 struct {
	PlayerID  string               `json:"player_id"`
	Points    float64              `json:"points"`
	Decreased bool                 `json:"decreased"`
	Squads    []SquadTotalChangeV1 `json:"squads"`
}

type PlayerScoreUpdateRejectedPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}

// --- Totals ---

type SquadTotalRequestedPayloadV1 struct {
	SquadID string `json:"squad_id"`
}

type SquadTotalRetrievedPayloadV1 struct {
	SquadID string                 `json:"squad_id"`
	Total   squaddomain.SquadTotal `json:"total"`
}

// --- Creation ---

type SquadCreationRequestedPayloadV1 struct {
	LeagueID string     `json:"league_id"`
	OwnerID  string     `json:"owner_id"`
	Name     string     `json:"name"`
	Players  []PlayerV1 `json:"players"`
}

type SquadCreatedPayloadV1 struct {
	SquadID  string                 `json:"squad_id"`
	LeagueID string                 `json:"league_id"`
	OwnerID  string                 `json:"owner_id"`
	Total    squaddomain.SquadTotal `json:"total"`
}

// --- Audit ---

// SquadAuditRequestedPayloadV1 starts a role timestamp sweep. An empty
// LeagueID sweeps every league.
type SquadAuditRequestedPayloadV1 struct {
	LeagueID string `json:"league_id,omitempty"`
	Repair   bool   `json:"repair"`
}

type SquadAuditCompletedPayloadV1 struct {
	LeagueID      string                  `json:"league_id,omitempty"`
	Repair        bool                    `json:"repair"`
	Report        squaddomain.AuditReport `json:"report"`
	SquadsUpdated int                     `json:"squads_updated"`
}
