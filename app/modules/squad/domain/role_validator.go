package squaddomain

import "fmt"

// RoleTimestampIssue classifies a role bookkeeping defect. Missing timestamps
// are reported separately from out-of-range ones because they repair differently.
type RoleTimestampIssue string

const (
	IssueNone               RoleTimestampIssue = ""
	IssueMissingTimestamp   RoleTimestampIssue = "missing_role_timestamp"
	IssueBeforeJoining      RoleTimestampIssue = "before_joining"
	IssueAfterCurrentPoints RoleTimestampIssue = "after_current_points"
)

// RoleTimestampCheck is the outcome of ValidateRoleTimestamp.
type RoleTimestampCheck struct {
	Valid      bool               `json:"valid"`
	Issue      RoleTimestampIssue `json:"issue,omitempty"`
	Diagnostic string             `json:"diagnostic,omitempty"`
}

// ValidateRoleTimestamp checks a player's role anchor against its joining
// score and current score. It has no side effects.
func ValidateRoleTimestamp(p PlayerSnapshot, role BonusRole) RoleTimestampCheck {
	if role == RoleRegular {
		return RoleTimestampCheck{Valid: true}
	}

	if p.PointsWhenRoleAssigned == nil {
		return RoleTimestampCheck{
			Issue: IssueMissingTimestamp,
			Diagnostic: fmt.Sprintf("player %s holds %s but pointsWhenRoleAssigned is missing",
				p.PlayerID, role),
		}
	}

	assigned := *p.PointsWhenRoleAssigned
	joined := ResolveReferencePoints(p).Joined

	if assigned < joined {
		return RoleTimestampCheck{
			Issue: IssueBeforeJoining,
			Diagnostic: fmt.Sprintf("data corruption: player %s (%s) pointsWhenRoleAssigned %.2f is less than pointsAtJoining %.2f",
				p.PlayerID, role, assigned, joined),
		}
	}

	if assigned > p.Points {
		return RoleTimestampCheck{
			Issue: IssueAfterCurrentPoints,
			Diagnostic: fmt.Sprintf("data corruption: player %s (%s) pointsWhenRoleAssigned %.2f is greater than current points %.2f",
				p.PlayerID, role, assigned, p.Points),
		}
	}

	return RoleTimestampCheck{Valid: true}
}

// Err converts a failed check into a *RoleTimestampError.
func (c RoleTimestampCheck) Err(playerID string, role BonusRole) error {
	if c.Valid {
		return nil
	}
	return &RoleTimestampError{PlayerID: playerID, Role: role, Issue: c.Issue, Detail: c.Diagnostic}
}
