package brackets

import (
	"errors"
	"fmt"

	"github.com/papaya-padel/tournament-system/models"
)

var (
	ErrInsufficientPlayers = errors.New("at least 2 players are required")
	ErrDuplicatePlayer     = errors.New("player listed more than once")
	ErrUnsupportedFormat   = errors.New("no schedule generator for this format")
)

// Team is a doubles pair of player IDs.
type Team [2]int

type ScheduledMatch struct {
	TeamA Team `json:"team_a"`
	TeamB Team `json:"team_b"`
}

// Round holds the matches of one round in generation order; it may be empty.
type Round []ScheduledMatch

type ScheduleGenerator interface {
	// GenerateSchedule builds every round for players given in registration order.
	GenerateSchedule(players []int) ([]Round, error)

	GetName() string
}

// GeneratorFor returns the schedule generator for a tournament format.
func GeneratorFor(format models.TournamentFormat) (ScheduleGenerator, error) {
	switch format {
	case models.FormatAmericano:
		return NewAmericanoGenerator(), nil
	case models.FormatKnockout, models.FormatGroupsKnockout:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// CountMatches sums the matches across all rounds.
func CountMatches(rounds []Round) int {
	total := 0
	for _, r := range rounds {
		total += len(r)
	}
	return total
}
