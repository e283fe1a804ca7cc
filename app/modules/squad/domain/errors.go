package squaddomain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLeagueConfig is wrapped by every ConfigError.
	ErrInvalidLeagueConfig = errors.New("invalid league configuration")

	// ErrPlayerNotFound aborts a transfer whose outgoing player is not in the squad.
	ErrPlayerNotFound = errors.New("player to remove not found")

	// ErrNoInsertionSlot means a correctly sized squad had no room for the
	// incoming player. It indicates a logic error upstream.
	ErrNoInsertionSlot = errors.New("no empty slot available for incoming player")

	ErrDuplicatePlayer       = errors.New("player already in squad")
	ErrInvalidCategory       = errors.New("invalid composition category")
	ErrInvalidRole           = errors.New("invalid bonus role")
	ErrPlayerNotInStartingXI = errors.New("player is not in the starting XI")
	ErrPlayerNotOnBench      = errors.New("player is not on the bench")
	ErrDuplicateRoleHolder   = errors.New("player holds more than one bonus role")
	ErrInvariantViolated     = errors.New("squad total changed during edit")
	ErrCorruptRoleTimestamp  = errors.New("corrupt role timestamp")
	ErrNegativePoints        = errors.New("points must be non-negative")
)

// ConfigError describes a league configuration the slot allocator refuses to lay out.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid league configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidLeagueConfig }

// RoleTimestampError is returned when a transfer is attempted on a player
// whose role bookkeeping fails validation.
type RoleTimestampError struct {
	PlayerID string
	Role     BonusRole
	Issue    RoleTimestampIssue
	Detail   string
}

func (e *RoleTimestampError) Error() string {
	return fmt.Sprintf("corrupt role timestamp for player %s (%s): %s", e.PlayerID, e.Role, e.Detail)
}

func (e *RoleTimestampError) Unwrap() error { return ErrCorruptRoleTimestamp }

// InvariantError reports a squad edit that changed the grand total.
type InvariantError struct {
	Operation string
	Before    float64
	After     float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s changed squad total from %.4f to %.4f", e.Operation, e.Before, e.After)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolated }
