package models

import "time"

type ParticipantSide string

const (
	SideHome ParticipantSide = "home"
	SideAway ParticipantSide = "away"
)

// MatchParticipant links a match to a team on one side. Exactly one
// participant exists per side per match (enforced by a unique constraint).
type MatchParticipant struct {
	ID             int             `json:"id"`
	OrganizationID int             `json:"organization_id"`
	MatchID        int             `json:"match_id"`
	TeamID         int             `json:"team_id"`
	Side           ParticipantSide `json:"side"`
	Score          int             `json:"score"`
	IsWinner       *bool           `json:"is_winner,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	Team *Team `json:"team,omitempty"`
}
