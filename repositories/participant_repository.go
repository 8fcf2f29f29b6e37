package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrParticipantNotFound     = errors.New("match participant not found")
	ErrParticipantSideConflict = errors.New("match already has a participant on this side")
	ErrParticipantTeamInvalid  = errors.New("participant references a missing team")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.MatchParticipant) error
	ListByMatch(ctx context.Context, orgID, matchID int) ([]*models.MatchParticipant, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, orgID, id, score int, isWinner *bool) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, participant *models.MatchParticipant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_participants (organization_id, match_id, team_id, side, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		participant.OrganizationID,
		participant.MatchID,
		participant.TeamID,
		participant.Side,
		participant.Score,
	).Scan(&participant.ID, &participant.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "match_participants_match_id_side_key") {
			return ErrParticipantSideConflict
		}
		if isForeignKeyViolation(err) {
			return ErrParticipantTeamInvalid
		}
	}
	return err
}

func (r *postgresParticipantRepository) ListByMatch(ctx context.Context, orgID, matchID int) ([]*models.MatchParticipant, error) {
	query := `
		SELECT id, organization_id, match_id, team_id, side, score, is_winner, created_at
		FROM match_participants
		WHERE organization_id = $1 AND match_id = $2
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, orgID, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.MatchParticipant, 0)
	for rows.Next() {
		var p models.MatchParticipant
		if scanErr := rows.Scan(
			&p.ID, &p.OrganizationID, &p.MatchID, &p.TeamID,
			&p.Side, &p.Score, &p.IsWinner, &p.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateResult(ctx context.Context, exec SQLExecutor, orgID, id, score int, isWinner *bool) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE match_participants
		SET score = $1, is_winner = $2
		WHERE organization_id = $3 AND id = $4`
	result, err := executor.ExecContext(ctx, query, score, isWinner, orgID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
