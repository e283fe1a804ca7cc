package squaddomain

import "fmt"

// IssueOrphanedRole is reported when a role names a player who is not in the
// starting XI.
const IssueOrphanedRole RoleTimestampIssue = "orphaned_role"

// AuditFinding is one defect found by the audit sweep.
type AuditFinding struct {
	SquadID    string             `json:"squad_id"`
	PlayerID   string             `json:"player_id"`
	Role       BonusRole          `json:"role"`
	Issue      RoleTimestampIssue `json:"issue"`
	Diagnostic string             `json:"diagnostic"`

	Repaired    bool `json:"repaired"`
	NeedsReview bool `json:"needs_review"`

	ContributionBefore float64  `json:"contribution_before"`
	ContributionAfter  float64  `json:"contribution_after"`
	RepairedTimestamp  *float64 `json:"repaired_timestamp,omitempty"`
}

// SquadAudit is the input and, after a repair sweep, the output of one squad.
type SquadAudit struct {
	SquadID string
	State   SquadState
	// Changed is set when a repair modified State.
	Changed bool
}

// AuditReport is the result of a sweep over many squads. It is returned to
// the caller, which decides whether to log, persist or discard it.
type AuditReport struct {
	SquadsScanned  int            `json:"squads_scanned"`
	PlayersChecked int            `json:"players_checked"`
	Findings       []AuditFinding `json:"findings"`
	Repaired       int            `json:"repaired"`
	NeedsReview    int            `json:"needs_review"`
}

// Clean reports whether the sweep found nothing.
func (r AuditReport) Clean() bool { return len(r.Findings) == 0 }

// RepairRoleTimestamp applies the conservative repair for one role holder.
// A missing anchor is filled with the joining score, which leaves the
// contribution unchanged. An out-of-range anchor is reset to the joining score
// only when that does not raise the contribution; otherwise ok is false and
// the record needs manual review.
func RepairRoleTimestamp(p PlayerSnapshot, role BonusRole) (repaired PlayerSnapshot, ok bool) {
	check := ValidateRoleTimestamp(p, role)
	if check.Valid {
		return p, true
	}

	candidate := p.Clone()
	candidate.PointsWhenRoleAssigned = Float(ResolveReferencePoints(p).Joined)

	if check.Issue == IssueMissingTimestamp {
		return candidate, true
	}

	if ComputeContribution(candidate, role) > ComputeContribution(p, role) {
		return p, false
	}
	return candidate, true
}

// AuditSquad checks every role holder of one squad. When repair is true the
// returned audit carries the repaired state.
func AuditSquad(in SquadAudit, repair bool) (SquadAudit, []AuditFinding) {
	out := SquadAudit{SquadID: in.SquadID, State: in.State.Clone()}
	var findings []AuditFinding

	for _, role := range BonusRoles {
		holder := out.State.Roles.Holder(role)
		if holder == "" {
			continue
		}

		pos, found := out.State.Squad.Find(holder)
		if !found || !out.State.Squad.Slots[pos].Zone.Starting() {
			f := AuditFinding{
				SquadID:    in.SquadID,
				PlayerID:   holder,
				Role:       role,
				Issue:      IssueOrphanedRole,
				Diagnostic: fmt.Sprintf("%s role held by %s who is not in the starting XI", role, holder),
			}
			if repair {
				// Non-starters contribute nothing; vacating leaves the total unchanged.
				out.State.Roles = out.State.Roles.Without(holder)
				if found {
					out.State.Squad.Slots[pos].Occupant.PointsWhenRoleAssigned = nil
				}
				out.Changed = true
				f.Repaired = true
			}
			findings = append(findings, f)
			continue
		}

		p := out.State.Squad.Slots[pos].Occupant
		check := ValidateRoleTimestamp(*p, role)
		if check.Valid {
			continue
		}

		before := ComputeContribution(*p, role)
		f := AuditFinding{
			SquadID:            in.SquadID,
			PlayerID:           holder,
			Role:               role,
			Issue:              check.Issue,
			Diagnostic:         check.Diagnostic,
			ContributionBefore: before,
			ContributionAfter:  before,
		}

		if repair {
			fixed, ok := RepairRoleTimestamp(*p, role)
			if ok {
				*p = fixed
				out.Changed = true
				f.Repaired = true
				f.ContributionAfter = ComputeContribution(fixed, role)
				f.RepairedTimestamp = Float(*fixed.PointsWhenRoleAssigned)
			} else {
				f.NeedsReview = true
			}
		}
		findings = append(findings, f)
	}

	return out, findings
}

// AuditSquads sweeps many squads and aggregates the findings.
func AuditSquads(squads []SquadAudit, repair bool) (AuditReport, []SquadAudit) {
	report := AuditReport{Findings: []AuditFinding{}}
	out := make([]SquadAudit, 0, len(squads))

	for _, sq := range squads {
		audited, findings := AuditSquad(sq, repair)
		report.SquadsScanned++
		report.PlayersChecked += len(sq.State.Squad.Players())
		for _, f := range findings {
			if f.Repaired {
				report.Repaired++
			}
			if f.NeedsReview {
				report.NeedsReview++
			}
		}
		report.Findings = append(report.Findings, findings...)
		out = append(out, audited)
	}

	return report, out
}
