package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, orgID, id int) (*models.Team, error)
	ListBySeason(ctx context.Context, orgID, seasonID int, divisionID *int) ([]*models.Team, error)
	List(ctx context.Context, orgID int) ([]*models.Team, error)
	UpdateLogoKey(ctx context.Context, orgID, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, organization_id, season_id, division_id, conference_id, name, slug, description, logo_key, coach_id, is_active, created_at, updated_at`

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.OrganizationID, &t.SeasonID, &t.DivisionID, &t.ConferenceID,
		&t.Name, &t.Slug, &t.Description, &t.LogoKey, &t.CoachID, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, orgID, id int) (*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`
	row := r.db.QueryRowContext(ctx, query, orgID, id)
	return r.scanTeam(row)
}

func (r *postgresTeamRepository) ListBySeason(ctx context.Context, orgID, seasonID int, divisionID *int) ([]*models.Team, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + teamColumns + `
		FROM teams
		WHERE organization_id = $1 AND season_id = $2 AND deleted_at IS NULL`)

	args := []interface{}{orgID, seasonID}
	if divisionID != nil {
		queryBuilder.WriteString(" AND division_id = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *divisionID)
	}
	queryBuilder.WriteString(" ORDER BY name ASC")

	return r.queryTeams(ctx, queryBuilder.String(), args...)
}

func (r *postgresTeamRepository) List(ctx context.Context, orgID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC`
	return r.queryTeams(ctx, query, orgID)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, orgID, id int, logoKey *string) error {
	query := `
		UPDATE teams
		SET logo_key = $1, updated_at = NOW()
		WHERE organization_id = $2 AND id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, logoKey, orgID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
