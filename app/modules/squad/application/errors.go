package squadservice

import (
	"errors"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

// Domain errors for the squad service.
// These represent business outcomes that handlers publish as failure events
// and ack, rather than retrying.
var (
	// ErrSquadNotFound indicates the squad id does not exist.
	ErrSquadNotFound = errors.New("squad not found")

	// ErrLeagueNotFound indicates the league id does not exist.
	ErrLeagueNotFound = errors.New("league not found")

	// ErrInvalidCommand indicates a request with missing or malformed fields.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrSquadTooLarge indicates more players were offered than the league has slots.
	ErrSquadTooLarge = errors.New("more players than squad slots")
)

// domainErrors are the engine and service errors that no retry can fix.
var domainErrors = []error{
	ErrSquadNotFound,
	ErrLeagueNotFound,
	ErrInvalidCommand,
	ErrSquadTooLarge,
	squaddomain.ErrInvalidLeagueConfig,
	squaddomain.ErrPlayerNotFound,
	squaddomain.ErrNoInsertionSlot,
	squaddomain.ErrDuplicatePlayer,
	squaddomain.ErrInvalidCategory,
	squaddomain.ErrInvalidRole,
	squaddomain.ErrPlayerNotInStartingXI,
	squaddomain.ErrPlayerNotOnBench,
	squaddomain.ErrDuplicateRoleHolder,
	squaddomain.ErrInvariantViolated,
	squaddomain.ErrCorruptRoleTimestamp,
	squaddomain.ErrNegativePoints,
}

// IsDomainError reports whether err is a business failure rather than an
// infrastructure error.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
