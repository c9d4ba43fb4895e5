package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
)

// Match is one persisted doubles match. TeamA and TeamB hold user IDs.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	TeamA        []int64     `json:"team_a" db:"team_a"`
	TeamB        []int64     `json:"team_b" db:"team_b"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
