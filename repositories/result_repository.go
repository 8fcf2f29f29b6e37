package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSubmissionNotFound     = errors.New("result submission not found")
	ErrSubmissionDuplicate    = errors.New("team already has a submission for this match")
	ErrConfirmationDuplicate  = errors.New("team already has a confirmation for this match")
	ErrResultReferenceInvalid = errors.New("result references a missing match or team")
)

type ResultRepository interface {
	CreateSubmission(ctx context.Context, submission *models.ResultSubmission) error
	ListSubmissionsByMatch(ctx context.Context, orgID, matchID int) ([]*models.ResultSubmission, error)
	CreateConfirmation(ctx context.Context, confirmation *models.ResultConfirmation) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) CreateSubmission(ctx context.Context, submission *models.ResultSubmission) error {
	query := `
		INSERT INTO result_submissions (organization_id, match_id, team_id, submitted_by, scores, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		submission.OrganizationID,
		submission.MatchID,
		submission.TeamID,
		submission.SubmittedBy,
		submission.Scores,
		submission.Notes,
	).Scan(&submission.ID, &submission.CreatedAt)

	if err != nil {
		// The (match_id, team_id) unique constraint is the safety net against
		// two near-simultaneous submissions from the same team.
		if isUniqueViolation(err, "result_submissions_match_id_team_id_key") {
			return ErrSubmissionDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrResultReferenceInvalid
		}
	}
	return err
}

func (r *postgresResultRepository) ListSubmissionsByMatch(ctx context.Context, orgID, matchID int) ([]*models.ResultSubmission, error) {
	query := `
		SELECT id, organization_id, match_id, team_id, submitted_by, scores, notes, created_at
		FROM result_submissions
		WHERE organization_id = $1 AND match_id = $2
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, orgID, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]*models.ResultSubmission, 0)
	for rows.Next() {
		var s models.ResultSubmission
		if scanErr := rows.Scan(
			&s.ID, &s.OrganizationID, &s.MatchID, &s.TeamID,
			&s.SubmittedBy, &s.Scores, &s.Notes, &s.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		submissions = append(submissions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *postgresResultRepository) CreateConfirmation(ctx context.Context, confirmation *models.ResultConfirmation) error {
	query := `
		INSERT INTO result_confirmations
			(organization_id, match_id, result_submission_id, team_id, confirmed_by, is_confirmed, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		confirmation.OrganizationID,
		confirmation.MatchID,
		confirmation.ResultSubmissionID,
		confirmation.TeamID,
		confirmation.ConfirmedBy,
		confirmation.IsConfirmed,
		confirmation.Notes,
	).Scan(&confirmation.ID, &confirmation.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "result_confirmations_match_id_team_id_key") {
			return ErrConfirmationDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrResultReferenceInvalid
		}
	}
	return err
}
