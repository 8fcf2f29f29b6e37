package models

import "time"

type Team struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	SeasonID       int       `json:"season_id"`
	DivisionID     *int      `json:"division_id,omitempty"`
	ConferenceID   *int      `json:"conference_id,omitempty"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	LogoKey        *string   `json:"-"`
	LogoURL        *string   `json:"logo_url,omitempty"`
	CoachID        *int      `json:"coach_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
