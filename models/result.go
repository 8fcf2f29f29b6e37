package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrScoresEmpty        = errors.New("scores must contain at least one game outcome")
	ErrScoresOutOfRange   = errors.New("each game outcome must be 0 (loss) or 1 (win)")
	ErrScoresNotASequence = errors.New("scores must be a sequence of game outcomes")
)

// GameScores is an ordered sequence of per-game outcomes from the submitting
// team's perspective: 1 for a won game, 0 for a lost one. Stored as a JSON
// array on result_submissions.scores.
type GameScores []int

// Validate rejects malformed payloads at the submission boundary.
func (g GameScores) Validate() error {
	if len(g) == 0 {
		return ErrScoresEmpty
	}
	for _, s := range g {
		if s != 0 && s != 1 {
			return ErrScoresOutOfRange
		}
	}
	return nil
}

// Wins is the number of games the submitting team won.
func (g GameScores) Wins() int {
	total := 0
	for _, s := range g {
		total += s
	}
	return total
}

func (g GameScores) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan accepts a JSON array, or a bare JSON number as a one-element array.
// The scalar form exists in rows written before the array format was
// introduced; new submissions are always arrays.
func (g *GameScores) Scan(src interface{}) error {
	if src == nil {
		*g = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scores: cannot scan type %T", src)
	}

	var scores []int
	if err := json.Unmarshal(data, &scores); err == nil {
		*g = scores
		return nil
	}

	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*g = GameScores{single}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrScoresNotASequence, string(data))
}

// ResultSubmission is one team's reported outcome for a match. A team submits
// at most once per match (unique on match_id, team_id); submissions are never
// updated afterwards.
type ResultSubmission struct {
	ID             int        `json:"id"`
	OrganizationID int        `json:"organization_id"`
	MatchID        int        `json:"match_id"`
	TeamID         int        `json:"team_id"`
	SubmittedBy    int        `json:"submitted_by"`
	Scores         GameScores `json:"scores"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ResultConfirmation records the opposing team's reaction to a submission.
// One per (match, team), referencing the submission it confirms or rejects.
type ResultConfirmation struct {
	ID                 int       `json:"id"`
	OrganizationID     int       `json:"organization_id"`
	MatchID            int       `json:"match_id"`
	ResultSubmissionID int       `json:"result_submission_id"`
	TeamID             int       `json:"team_id"`
	ConfirmedBy        int       `json:"confirmed_by"`
	IsConfirmed        bool      `json:"is_confirmed"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
