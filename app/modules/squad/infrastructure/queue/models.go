package squadqueue

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// QueueName is the dedicated River queue for squad maintenance jobs.
const QueueName = "squad"

// AuditSweepArgs requests a role timestamp sweep. An empty LeagueID sweeps
// every league.
type AuditSweepArgs struct {
	LeagueID string `json:"league_id,omitempty"`
	Repair   bool   `json:"repair"`
}

// Kind returns the job type identifier for River
func (AuditSweepArgs) Kind() string { return "squad_audit_sweep" }

// InsertOpts keeps at most one pending sweep per scope.
func (AuditSweepArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue: QueueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRetryable,
				rivertype.JobStateRunning,
				rivertype.JobStateScheduled,
			},
		},
	}
}
