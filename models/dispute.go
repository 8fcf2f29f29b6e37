package models

import "time"

type DisputeStatus string

const (
	DisputeStatusOpen      DisputeStatus = "open"
	DisputeStatusInReview  DisputeStatus = "in_review"
	DisputeStatusResolved  DisputeStatus = "resolved"
	DisputeStatusDismissed DisputeStatus = "dismissed"
)

type Dispute struct {
	ID             int           `json:"id"`
	OrganizationID int           `json:"organization_id"`
	MatchID        int           `json:"match_id"`
	TeamID         int           `json:"team_id"`
	CreatedBy      int           `json:"created_by"`
	Status         DisputeStatus `json:"status"`
	Reason         string        `json:"reason"`
	Evidence       *string       `json:"evidence,omitempty"`
	ResolvedBy     *int          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type RulingDecision string

const (
	RulingDecisionUphold   RulingDecision = "uphold"
	RulingDecisionOverturn RulingDecision = "overturn"
	RulingDecisionModify   RulingDecision = "modify"
)

// Ruling closes a dispute. AdjustedScores carries corrected per-team game
// wins when the decision is overturn or modify, keyed by team id.
type Ruling struct {
	ID             int            `json:"id"`
	OrganizationID int            `json:"organization_id"`
	DisputeID      int            `json:"dispute_id"`
	MatchID        int            `json:"match_id"`
	RuledBy        int            `json:"ruled_by"`
	Decision       RulingDecision `json:"decision"`
	Reasoning      string         `json:"reasoning"`
	AdjustedScores map[string]int `json:"adjusted_scores,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
