package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusDraft            MatchStatus = "draft"
	MatchStatusScheduled        MatchStatus = "scheduled"
	MatchStatusInProgress       MatchStatus = "in_progress"
	MatchStatusAwaitingResults  MatchStatus = "awaiting_results"
	MatchStatusResultsSubmitted MatchStatus = "results_submitted"
	MatchStatusResultsConfirmed MatchStatus = "results_confirmed"
	MatchStatusDisputed         MatchStatus = "disputed"
	MatchStatusResolved         MatchStatus = "resolved"
	MatchStatusCanceled         MatchStatus = "canceled"
)

// MapPool is the list of map names agreed for a match, stored as a JSON array.
type MapPool []string

func (m MapPool) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MapPool) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("map pool: cannot scan type %T", src)
	}
	return json.Unmarshal(data, m)
}

type Match struct {
	ID              int         `json:"id"`
	OrganizationID  int         `json:"organization_id"`
	SeasonID        int         `json:"season_id"`
	DivisionID      *int        `json:"division_id,omitempty"`
	RulesetPresetID *int        `json:"ruleset_preset_id,omitempty"`
	Name            *string     `json:"name,omitempty"`
	Status          MatchStatus `json:"status"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	BestOf          int         `json:"best_of"`
	MapPool         MapPool     `json:"map_pool,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Populated by the service layer, not stored on the matches table.
	Participants []*MatchParticipant `json:"participants,omitempty"`
}
