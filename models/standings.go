package models

import "time"

// TeamStanding is one row of a computed standings table.
type TeamStanding struct {
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	Points        int     `json:"points"`
	MatchesPlayed int     `json:"matches_played"`
	WinPercentage float64 `json:"win_percentage"`
}

// StandingsSnapshot is the persisted ranked table for a (season, division)
// pair. It is derived data: always recomputable from confirmed matches and
// their submissions, and overwritten in place on every recompute.
type StandingsSnapshot struct {
	ID             int             `json:"id"`
	OrganizationID int             `json:"organization_id"`
	SeasonID       int             `json:"season_id"`
	DivisionID     *int            `json:"division_id,omitempty"`
	Standings      []*TeamStanding `json:"standings_data"`
	ComputedAt     time.Time       `json:"computed_at"`
}
