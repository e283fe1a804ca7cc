// Package squadevents defines the topics and payloads exchanged with the
// squad module.
package squadevents

// Transfers.
const (
	SquadTransferRequestedV1 = "squad.transfer.requested.v1"
	SquadTransferCompletedV1 = "squad.transfer.completed.v1"
	SquadTransferFailedV1    = "squad.transfer.failed.v1"
)

// Bench swaps.
const (
	SquadBenchSwapRequestedV1 = "squad.bench.swap.requested.v1"
	SquadBenchSwapCompletedV1 = "squad.bench.swap.completed.v1"
	SquadBenchSwapFailedV1    = "squad.bench.swap.failed.v1"
)

// Bonus role assignment.
const (
	SquadRoleAssignmentRequestedV1 = "squad.role.assignment.requested.v1"
	SquadRoleAssignedV1            = "squad.role.assigned.v1"
	SquadRoleAssignmentFailedV1    = "squad.role.assignment.failed.v1"
)

// Score feed.
const (
	PlayerScoreUpdatedV1        = "player.score.updated.v1"
	SquadTotalsRecalculatedV1   = "squad.totals.recalculated.v1"
	PlayerScoreUpdateRejectedV1 = "player.score.update.rejected.v1"
)

// Total retrieval.
const (
	SquadTotalRequestedV1       = "squad.total.requested.v1"
	SquadTotalRetrievedV1       = "squad.total.retrieved.v1"
	SquadTotalRetrievalFailedV1 = "squad.total.retrieval.failed.v1"
)

// Squad creation.
const (
	SquadCreationRequestedV1 = "squad.creation.requested.v1"
	SquadCreatedV1           = "squad.created.v1"
	SquadCreationFailedV1    = "squad.creation.failed.v1"
)

// Role timestamp audit.
const (
	SquadAuditRequestedV1 = "squad.audit.requested.v1"
	SquadAuditCompletedV1 = "squad.audit.completed.v1"
)
