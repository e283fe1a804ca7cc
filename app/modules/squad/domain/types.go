package squaddomain

import "fmt"

// Category is a squad-composition category. It governs formation minimums and
// is independent of the bonus role a player holds.
type Category string

const (
	CategoryBatsman      Category = "batsman"
	CategoryBowler       Category = "bowler"
	CategoryAllrounder   Category = "allrounder"
	CategoryWicketkeeper Category = "wicketkeeper"
)

// Categories lists every composition category in slot order.
var Categories = []Category{
	CategoryBatsman,
	CategoryBowler,
	CategoryAllrounder,
	CategoryWicketkeeper,
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBatsman, CategoryBowler, CategoryAllrounder, CategoryWicketkeeper:
		return true
	}
	return false
}

// Plural is the label used in formation messages.
func (c Category) Plural() string {
	switch c {
	case CategoryBatsman:
		return "batsmen"
	case CategoryBowler:
		return "bowlers"
	case CategoryAllrounder:
		return "all-rounders"
	case CategoryWicketkeeper:
		return "wicketkeepers"
	}
	return string(c)
}

// ParseCategory converts a stored or user-supplied value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// BonusRole grants a multiplier on points earned after the role was assigned.
type BonusRole string

const (
	RoleRegular     BonusRole = "regular"
	RoleCaptain     BonusRole = "captain"
	RoleViceCaptain BonusRole = "viceCaptain"
	RoleXFactor     BonusRole = "xFactor"
)

// BonusRoles lists the roles that at most one player per squad may hold.
var BonusRoles = []BonusRole{RoleCaptain, RoleViceCaptain, RoleXFactor}

// Multiplier returns the accrual multiplier for the role. Unknown roles accrue
// like regular players.
func (r BonusRole) Multiplier() float64 {
	switch r {
	case RoleCaptain:
		return 2.0
	case RoleViceCaptain:
		return 1.5
	case RoleXFactor:
		return 1.25
	}
	return 1.0
}

func (r BonusRole) Valid() bool {
	switch r {
	case RoleRegular, RoleCaptain, RoleViceCaptain, RoleXFactor:
		return true
	}
	return false
}

// ParseBonusRole converts a stored or user-supplied value into a BonusRole.
func ParseBonusRole(s string) (BonusRole, error) {
	r := BonusRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// PlayerSnapshot is a player's state as seen by one squad.
type PlayerSnapshot struct {
	PlayerID string
	Name     string
	Category Category

	// Points is the player's current cumulative score from the score feed.
	Points float64

	// PointsAtJoining is the score when the player entered this squad.
	// Absent means 0.
	PointsAtJoining *float64

	// PointsWhenRoleAssigned is the score when the current bonus role was
	// granted. Absent means the role has been held since joining.
	PointsWhenRoleAssigned *float64
}

// Clone returns a deep copy so callers can mutate reference points freely.
func (p PlayerSnapshot) Clone() PlayerSnapshot {
	out := p
	if p.PointsAtJoining != nil {
		v := *p.PointsAtJoining
		out.PointsAtJoining = &v
	}
	if p.PointsWhenRoleAssigned != nil {
		v := *p.PointsWhenRoleAssigned
		out.PointsWhenRoleAssigned = &v
	}
	return out
}

// JoinAt returns a copy of p that entered the squad at its current score and
// holds no role timestamp.
func (p PlayerSnapshot) JoinAt() PlayerSnapshot {
	out := p.Clone()
	out.PointsAtJoining = Float(p.Points)
	out.PointsWhenRoleAssigned = nil
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// LeagueRules is the league configuration consumed by the slot allocator and
// formation validator.
type LeagueRules struct {
	SquadSize        int `json:"squad_size" yaml:"squad_size"`
	BenchSize        int `json:"bench_size" yaml:"bench_size"`
	MinBatsmen       int `json:"min_batsmen" yaml:"min_batsmen"`
	MinBowlers       int `json:"min_bowlers" yaml:"min_bowlers"`
	MinAllrounders   int `json:"min_allrounders" yaml:"min_allrounders"`
	MinWicketkeepers int `json:"min_wicketkeepers" yaml:"min_wicketkeepers"`
}

// DefaultLeagueRules is the standard eleven-a-side layout with a four-player bench.
var DefaultLeagueRules = LeagueRules{
	SquadSize:        11,
	BenchSize:        4,
	MinBatsmen:       3,
	MinBowlers:       3,
	MinAllrounders:   1,
	MinWicketkeepers: 1,
}

// Minimum returns the required count for a category.
func (r LeagueRules) Minimum(c Category) int {
	switch c {
	case CategoryBatsman:
		return r.MinBatsmen
	case CategoryBowler:
		return r.MinBowlers
	case CategoryAllrounder:
		return r.MinAllrounders
	case CategoryWicketkeeper:
		return r.MinWicketkeepers
	}
	return 0
}

// TotalSlots is the full squad length including the bench.
func (r LeagueRules) TotalSlots() int {
	return r.SquadSize + r.BenchSize
}

// Validate rejects configurations the slot allocator cannot lay out.
func (r LeagueRules) Validate() error {
	if r.SquadSize < 0 {
		return &ConfigError{Field: "squad_size", Reason: fmt.Sprintf("must be non-negative, got %d", r.SquadSize)}
	}
	if r.BenchSize < 0 {
		return &ConfigError{Field: "bench_size", Reason: fmt.Sprintf("must be non-negative, got %d", r.BenchSize)}
	}
	sum := 0
	for _, c := range Categories {
		m := r.Minimum(c)
		if m < 0 {
			return &ConfigError{Field: "min_" + c.Plural(), Reason: fmt.Sprintf("must be non-negative, got %d", m)}
		}
		sum += m
	}
	if sum > r.SquadSize {
		return &ConfigError{
			Field:  "minimums",
			Reason: fmt.Sprintf("sum of minimums %d exceeds squad size %d", sum, r.SquadSize),
		}
	}
	return nil
}

// RoleAssignments records which player holds each bonus role. Empty means the
// role is vacant.
type RoleAssignments struct {
	CaptainID     string `json:"captain_id,omitempty"`
	ViceCaptainID string `json:"vice_captain_id,omitempty"`
	XFactorID     string `json:"x_factor_id,omitempty"`
}

// RoleOf resolves a player's bonus role by identity match.
func (a RoleAssignments) RoleOf(playerID string) BonusRole {
	if playerID == "" {
		return RoleRegular
	}
	switch playerID {
	case a.CaptainID:
		return RoleCaptain
	case a.ViceCaptainID:
		return RoleViceCaptain
	case a.XFactorID:
		return RoleXFactor
	}
	return RoleRegular
}

// Holder returns the player holding role, or "" when vacant or regular.
func (a RoleAssignments) Holder(role BonusRole) string {
	switch role {
	case RoleCaptain:
		return a.CaptainID
	case RoleViceCaptain:
		return a.ViceCaptainID
	case RoleXFactor:
		return a.XFactorID
	}
	return ""
}

// With returns a copy with role granted to playerID. Any other role the
// player held is vacated so a player never holds two roles.
func (a RoleAssignments) With(role BonusRole, playerID string) RoleAssignments {
	out := a.Without(playerID)
	switch role {
	case RoleCaptain:
		out.CaptainID = playerID
	case RoleViceCaptain:
		out.ViceCaptainID = playerID
	case RoleXFactor:
		out.XFactorID = playerID
	}
	return out
}

// Without returns a copy with every role held by playerID vacated.
func (a RoleAssignments) Without(playerID string) RoleAssignments {
	if playerID == "" {
		return a
	}
	out := a
	if out.CaptainID == playerID {
		out.CaptainID = ""
	}
	if out.ViceCaptainID == playerID {
		out.ViceCaptainID = ""
	}
	if out.XFactorID == playerID {
		out.XFactorID = ""
	}
	return out
}

// Validate checks that no player holds more than one role.
func (a RoleAssignments) Validate() error {
	seen := make(map[string]BonusRole, 3)
	for _, role := range BonusRoles {
		id := a.Holder(role)
		if id == "" {
			continue
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: player %s holds %s and %s", ErrDuplicateRoleHolder, id, prev, role)
		}
		seen[id] = role
	}
	return nil
}
