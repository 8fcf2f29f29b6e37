package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrDisputeNotFound         = errors.New("dispute not found")
	ErrDisputeReferenceInvalid = errors.New("dispute references a missing match or team")
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	GetByID(ctx context.Context, orgID, id int) (*models.Dispute, error)
	ListByMatch(ctx context.Context, orgID, matchID int) ([]*models.Dispute, error)
	MarkResolved(ctx context.Context, exec SQLExecutor, orgID, id, resolvedBy int, status models.DisputeStatus) error
	CreateRuling(ctx context.Context, exec SQLExecutor, ruling *models.Ruling) error
}

type postgresDisputeRepository struct {
	db *sql.DB
}

func NewPostgresDisputeRepository(db *sql.DB) DisputeRepository {
	return &postgresDisputeRepository{db: db}
}

func (r *postgresDisputeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	query := `
		INSERT INTO disputes (organization_id, match_id, team_id, created_by, status, reason, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		dispute.OrganizationID,
		dispute.MatchID,
		dispute.TeamID,
		dispute.CreatedBy,
		dispute.Status,
		dispute.Reason,
		dispute.Evidence,
	).Scan(&dispute.ID, &dispute.CreatedAt)

	if err != nil && isForeignKeyViolation(err) {
		return ErrDisputeReferenceInvalid
	}
	return err
}

func (r *postgresDisputeRepository) scanDispute(rowScanner interface{ Scan(...interface{}) error }) (*models.Dispute, error) {
	var d models.Dispute
	err := rowScanner.Scan(
		&d.ID, &d.OrganizationID, &d.MatchID, &d.TeamID, &d.CreatedBy,
		&d.Status, &d.Reason, &d.Evidence, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &d, nil
}

const disputeColumns = `id, organization_id, match_id, team_id, created_by, status, reason, evidence, resolved_by, resolved_at, created_at`

func (r *postgresDisputeRepository) GetByID(ctx context.Context, orgID, id int) (*models.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE organization_id = $1 AND id = $2`
	row := r.db.QueryRowContext(ctx, query, orgID, id)
	return r.scanDispute(row)
}

func (r *postgresDisputeRepository) ListByMatch(ctx context.Context, orgID, matchID int) ([]*models.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE organization_id = $1 AND match_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, orgID, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	disputes := make([]*models.Dispute, 0)
	for rows.Next() {
		d, scanErr := r.scanDispute(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		disputes = append(disputes, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *postgresDisputeRepository) MarkResolved(ctx context.Context, exec SQLExecutor, orgID, id, resolvedBy int, status models.DisputeStatus) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE disputes
		SET status = $1, resolved_by = $2, resolved_at = $3
		WHERE organization_id = $4 AND id = $5`
	result, err := executor.ExecContext(ctx, query, status, resolvedBy, time.Now(), orgID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDisputeNotFound)
}

func (r *postgresDisputeRepository) CreateRuling(ctx context.Context, exec SQLExecutor, ruling *models.Ruling) error {
	executor := r.getExecutor(exec)

	var adjusted []byte
	if ruling.AdjustedScores != nil {
		var err error
		adjusted, err = json.Marshal(ruling.AdjustedScores)
		if err != nil {
			return fmt.Errorf("failed to encode adjusted scores: %w", err)
		}
	}

	query := `
		INSERT INTO rulings (organization_id, dispute_id, match_id, ruled_by, decision, reasoning, adjusted_scores)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		ruling.OrganizationID,
		ruling.DisputeID,
		ruling.MatchID,
		ruling.RuledBy,
		ruling.Decision,
		ruling.Reasoning,
		adjusted,
	).Scan(&ruling.ID, &ruling.CreatedAt)

	if err != nil && isForeignKeyViolation(err) {
		return ErrDisputeReferenceInvalid
	}
	return err
}
