package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSeasonNotFound   = errors.New("season not found")
	ErrDivisionNotFound = errors.New("division not found")
)

type SeasonRepository interface {
	GetByID(ctx context.Context, orgID, id int) (*models.Season, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, orgID, id int) (*models.Season, error) {
	query := `
		SELECT id, organization_id, game_title_id, name, slug, start_date, end_date, status, created_at
		FROM seasons
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`

	var s models.Season
	err := r.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&s.ID, &s.OrganizationID, &s.GameTitleID, &s.Name, &s.Slug,
		&s.StartDate, &s.EndDate, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return &s, nil
}

type DivisionRepository interface {
	GetByID(ctx context.Context, orgID, id int) (*models.Division, error)
	ListBySeason(ctx context.Context, orgID, seasonID int) ([]*models.Division, error)
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

func (r *postgresDivisionRepository) GetByID(ctx context.Context, orgID, id int) (*models.Division, error) {
	query := `
		SELECT id, organization_id, season_id, name, slug, sort_order, created_at
		FROM divisions
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`

	var d models.Division
	err := r.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&d.ID, &d.OrganizationID, &d.SeasonID, &d.Name, &d.Slug, &d.SortOrder, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresDivisionRepository) ListBySeason(ctx context.Context, orgID, seasonID int) ([]*models.Division, error) {
	query := `
		SELECT id, organization_id, season_id, name, slug, sort_order, created_at
		FROM divisions
		WHERE organization_id = $1 AND season_id = $2 AND deleted_at IS NULL
		ORDER BY sort_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, orgID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	divisions := make([]*models.Division, 0)
	for rows.Next() {
		var d models.Division
		if scanErr := rows.Scan(
			&d.ID, &d.OrganizationID, &d.SeasonID, &d.Name, &d.Slug, &d.SortOrder, &d.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		divisions = append(divisions, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return divisions, nil
}
