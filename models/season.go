package models

import "time"

type SeasonStatus string

const (
	SeasonStatusDraft     SeasonStatus = "draft"
	SeasonStatusActive    SeasonStatus = "active"
	SeasonStatusCompleted SeasonStatus = "completed"
	SeasonStatusCancelled SeasonStatus = "cancelled"
)

// Season is a bounded competition period for one game title.
type Season struct {
	ID             int          `json:"id"`
	OrganizationID int          `json:"organization_id"`
	GameTitleID    int          `json:"game_title_id"`
	Name           string       `json:"name"`
	Slug           string       `json:"slug"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	Status         SeasonStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Division is a sub-grouping of teams within a season, used to segment
// scheduling and standings.
type Division struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	SeasonID       int       `json:"season_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
