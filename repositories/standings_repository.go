package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var ErrStandingsSnapshotNotFound = errors.New("standings snapshot not found")

type StandingsRepository interface {
	Upsert(ctx context.Context, snapshot *models.StandingsSnapshot) error
	GetLatest(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error)
}

type postgresStandingsRepository struct {
	db *sql.DB
}

func NewPostgresStandingsRepository(db *sql.DB) StandingsRepository {
	return &postgresStandingsRepository{db: db}
}

// Upsert keeps exactly one snapshot per (org, season, division). division_id
// may be NULL for the season-wide table, so the match uses IS NOT DISTINCT
// FROM instead of an ON CONFLICT target.
func (r *postgresStandingsRepository) Upsert(ctx context.Context, snapshot *models.StandingsSnapshot) error {
	data, err := json.Marshal(snapshot.Standings)
	if err != nil {
		return fmt.Errorf("failed to encode standings data: %w", err)
	}

	updateQuery := `
		UPDATE standings_snapshots
		SET standings_data = $1, computed_at = $2, updated_at = NOW()
		WHERE organization_id = $3 AND season_id = $4 AND division_id IS NOT DISTINCT FROM $5
		RETURNING id`

	err = r.db.QueryRowContext(ctx, updateQuery,
		data, snapshot.ComputedAt, snapshot.OrganizationID, snapshot.SeasonID, snapshot.DivisionID,
	).Scan(&snapshot.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	insertQuery := `
		INSERT INTO standings_snapshots (organization_id, season_id, division_id, standings_data, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.db.QueryRowContext(ctx, insertQuery,
		snapshot.OrganizationID, snapshot.SeasonID, snapshot.DivisionID, data, snapshot.ComputedAt,
	).Scan(&snapshot.ID)
}

func (r *postgresStandingsRepository) GetLatest(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error) {
	query := `
		SELECT id, organization_id, season_id, division_id, standings_data, computed_at
		FROM standings_snapshots
		WHERE organization_id = $1 AND season_id = $2 AND division_id IS NOT DISTINCT FROM $3
		ORDER BY computed_at DESC
		LIMIT 1`

	var (
		s    models.StandingsSnapshot
		data []byte
	)
	err := r.db.QueryRowContext(ctx, query, orgID, seasonID, divisionID).Scan(
		&s.ID, &s.OrganizationID, &s.SeasonID, &s.DivisionID, &data, &s.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingsSnapshotNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &s.Standings); err != nil {
		return nil, fmt.Errorf("failed to decode standings data: %w", err)
	}
	return &s, nil
}
