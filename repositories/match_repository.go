package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchReferenceInvalid = errors.New("match references a missing season, division or ruleset")
)

type MatchListFilter struct {
	SeasonID   *int
	DivisionID *int
	Status     *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, orgID, id int) (*models.Match, error)
	List(ctx context.Context, orgID int, filter MatchListFilter) ([]*models.Match, error)
	ListConfirmedBySeason(ctx context.Context, orgID, seasonID int, divisionID *int) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, orgID, id int, status models.MatchStatus) error
	SoftDelete(ctx context.Context, orgID, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, organization_id, season_id, division_id, ruleset_preset_id, name, status, scheduled_at, best_of, map_pool, notes, created_at, updated_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(organization_id, season_id, division_id, ruleset_preset_id, name, status, scheduled_at, best_of, map_pool, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		match.OrganizationID,
		match.SeasonID,
		match.DivisionID,
		match.RulesetPresetID,
		match.Name,
		match.Status,
		match.ScheduledAt,
		match.BestOf,
		match.MapPool,
		match.Notes,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil && isForeignKeyViolation(err) {
		return ErrMatchReferenceInvalid
	}
	return err
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.OrganizationID, &m.SeasonID, &m.DivisionID, &m.RulesetPresetID,
		&m.Name, &m.Status, &m.ScheduledAt, &m.BestOf, &m.MapPool, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, orgID, id int) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`
	row := r.db.QueryRowContext(ctx, query, orgID, id)
	return r.scanMatch(row)
}

func (r *postgresMatchRepository) List(ctx context.Context, orgID int, filter MatchListFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + matchColumns + `
		FROM matches
		WHERE organization_id = $1 AND deleted_at IS NULL`)

	args := []interface{}{orgID}
	placeholderIndex := 2

	if filter.SeasonID != nil {
		queryBuilder.WriteString(" AND season_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.SeasonID)
		placeholderIndex++
	}
	if filter.DivisionID != nil {
		queryBuilder.WriteString(" AND division_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.DivisionID)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListConfirmedBySeason(ctx context.Context, orgID, seasonID int, divisionID *int) ([]*models.Match, error) {
	filter := MatchListFilter{SeasonID: &seasonID, DivisionID: divisionID}
	confirmed := models.MatchStatusResultsConfirmed
	filter.Status = &confirmed
	return r.List(ctx, orgID, filter)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, orgID, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET status = $1, updated_at = NOW()
		WHERE organization_id = $2 AND id = $3 AND deleted_at IS NULL`
	result, err := executor.ExecContext(ctx, query, status, orgID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SoftDelete(ctx context.Context, orgID, id int) error {
	query := `
		UPDATE matches
		SET deleted_at = $1, updated_at = $1
		WHERE organization_id = $2 AND id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now(), orgID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
