package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus соответствует колонке status таблицы tournaments.
type TournamentStatus string

const (
	StatusPendingApproval TournamentStatus = "pending_approval"
	StatusPublished       TournamentStatus = "published"
)

type TournamentFormat string

const (
	FormatAmericano      TournamentFormat = "americano"
	FormatKnockout       TournamentFormat = "knockout"
	FormatGroupsKnockout TournamentFormat = "groups_knockout"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatAmericano, FormatKnockout, FormatGroupsKnockout:
		return true
	default:
		return false
	}
}

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	ClubID    *int             `json:"club_id,omitempty" db:"club_id"`
	Format    TournamentFormat `json:"format" db:"format"`
	StartDate time.Time        `json:"start_date" db:"start_date"`
	Capacity  int              `json:"capacity" db:"capacity"`
	Status    TournamentStatus `json:"status" db:"status"`
	Settings  json.RawMessage  `json:"settings,omitempty" db:"settings"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// TournamentDetails is a tournament together with its registrations and schedule.
type TournamentDetails struct {
	Tournament   *Tournament    `json:"tournament"`
	Participants []*Participant `json:"participants"`
	Matches      []*Match       `json:"matches"`
}
