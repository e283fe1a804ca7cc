package squaddb

import (
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

// League stores the formation rules every squad in the league is built against.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:lg"`

	ID        string                  `bun:"id,pk,type:uuid"`
	Name      string                  `bun:"name,notnull"`
	Rules     squaddomain.LeagueRules `bun:"rules,type:jsonb,notnull"`
	CreatedAt time.Time               `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Squad is a fantasy team. Role holders are stored by player id; the anchors
// live on the slot rows.
type Squad struct {
	bun.BaseModel `bun:"table:squads,alias:sq"`

	ID            string   `bun:"id,pk,type:uuid"`
	LeagueID      string   `bun:"league_id,type:uuid,notnull"`
	OwnerID       string   `bun:"owner_id,notnull"`
	Name          string   `bun:"name,notnull"`
	BankedPoints  *float64 `bun:"banked_points"` // NULL until the first transfer banks anything
	CaptainID     string   `bun:"captain_id,nullzero"`
	ViceCaptainID string   `bun:"vice_captain_id,nullzero"`
	XFactorID     string   `bun:"x_factor_id,nullzero"`
	Version       int64    `bun:"version,notnull,default:1"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Slots []*SquadSlot `bun:"rel:has-many,join:id=squad_id"`
}

// SquadSlot is one position of a squad. Empty slots keep their row with a
// NULL player_id so the layout survives round trips.
type SquadSlot struct {
	bun.BaseModel `bun:"table:squad_slots,alias:sl"`

	SquadID                string   `bun:"squad_id,pk,type:uuid"`
	Position               int      `bun:"position,pk"`
	Zone                   string   `bun:"zone,notnull"` // e.g. "required:bowler", "flexible", "bench"
	PlayerID               string   `bun:"player_id,nullzero"`
	PlayerName             string   `bun:"player_name,nullzero"`
	Category               string   `bun:"category,nullzero"`
	Points                 float64  `bun:"points,notnull,default:0"`
	PointsAtJoining        *float64 `bun:"points_at_joining"`
	PointsWhenRoleAssigned *float64 `bun:"points_when_role_assigned"`
}

// PlayerScore is the latest cumulative score received from the score feed.
type PlayerScore struct {
	bun.BaseModel `bun:"table:player_scores,alias:ps"`

	PlayerID  string    `bun:"player_id,pk"`
	Name      string    `bun:"name"`
	Category  string    `bun:"category"`
	Points    float64   `bun:"points,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Transfer kinds recorded in squad_transfers.
const (
	KindTransfer   = "transfer"
	KindBenchSwap  = "bench_swap"
	KindRoleChange = "role_change"
	KindAuditFix   = "audit_repair"
)

// TransferRecord is the audit trail of every squad mutation that banks points.
type TransferRecord struct {
	bun.BaseModel `bun:"table:squad_transfers,alias:tr"`

	ID                 int64   `bun:"id,pk,autoincrement"`
	SquadID            string  `bun:"squad_id,type:uuid,notnull"`
	Kind               string  `bun:"kind,notnull"`
	OutgoingPlayerID   string  `bun:"outgoing_player_id,nullzero"`
	IncomingPlayerID   string  `bun:"incoming_player_id,nullzero"`
	Role               string  `bun:"role,nullzero"`
	BankedContribution float64 `bun:"banked_contribution,notnull,default:0"`
	TotalBefore        float64 `bun:"total_before,notnull"`
	TotalAfter         float64 `bun:"total_after,notnull"`
	CorrelationID      string  `bun:"correlation_id,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SquadTotalSnapshot is one point of a squad's total history, used for charts.
type SquadTotalSnapshot struct {
	bun.BaseModel `bun:"table:squad_total_snapshots,alias:ts"`

	ID           int64     `bun:"id,pk,autoincrement"`
	SquadID      string    `bun:"squad_id,type:uuid,notnull"`
	Total        float64   `bun:"total,notnull"`
	BankedPoints float64   `bun:"banked_points,notnull,default:0"`
	Reason       string    `bun:"reason"`
	RecordedAt   time.Time `bun:"recorded_at,nullzero,notnull,default:current_timestamp"`
}

// State converts the stored squad into the engine's representation.
// Slots must be loaded.
func (s *Squad) State() (squaddomain.SquadState, error) {
	slots := make([]*SquadSlot, len(s.Slots))
	copy(slots, s.Slots)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

	out := make([]squaddomain.Slot, len(slots))
	for i, row := range slots {
		if row.Position != i {
			return squaddomain.SquadState{}, fmt.Errorf("squad %s: slot position %d missing", s.ID, i)
		}
		zone, err := squaddomain.ParseZone(row.Zone)
		if err != nil {
			return squaddomain.SquadState{}, fmt.Errorf("squad %s slot %d: %w", s.ID, row.Position, err)
		}
		out[i] = squaddomain.Slot{Zone: zone}
		if row.PlayerID == "" {
			continue
		}
		category, err := squaddomain.ParseCategory(row.Category)
		if err != nil {
			return squaddomain.SquadState{}, fmt.Errorf("squad %s slot %d: %w", s.ID, row.Position, err)
		}
		out[i].Occupant = &squaddomain.PlayerSnapshot{
			PlayerID:               row.PlayerID,
			Name:                   row.PlayerName,
			Category:               category,
			Points:                 row.Points,
			PointsAtJoining:        copyFloat(row.PointsAtJoining),
			PointsWhenRoleAssigned: copyFloat(row.PointsWhenRoleAssigned),
		}
	}

	squad, err := squaddomain.SquadFromSlots(out)
	if err != nil {
		return squaddomain.SquadState{}, fmt.Errorf("squad %s: %w", s.ID, err)
	}
	return squaddomain.SquadState{
		Squad: squad,
		Roles: squaddomain.RoleAssignments{
			CaptainID:     s.CaptainID,
			ViceCaptainID: s.ViceCaptainID,
			XFactorID:     s.XFactorID,
		},
		BankedPoints: copyFloat(s.BankedPoints),
	}, nil
}

// ApplyState copies an engine state back onto the row, replacing its slots.
func (s *Squad) ApplyState(state squaddomain.SquadState) {
	s.BankedPoints = copyFloat(state.BankedPoints)
	s.CaptainID = state.Roles.CaptainID
	s.ViceCaptainID = state.Roles.ViceCaptainID
	s.XFactorID = state.Roles.XFactorID

	s.Slots = make([]*SquadSlot, len(state.Squad.Slots))
	for i, slot := range state.Squad.Slots {
		row := &SquadSlot{SquadID: s.ID, Position: i, Zone: slot.Zone.String()}
		if p := slot.Occupant; p != nil {
			row.PlayerID = p.PlayerID
			row.PlayerName = p.Name
			row.Category = string(p.Category)
			row.Points = p.Points
			row.PointsAtJoining = copyFloat(p.PointsAtJoining)
			row.PointsWhenRoleAssigned = copyFloat(p.PointsWhenRoleAssigned)
		}
		s.Slots[i] = row
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
