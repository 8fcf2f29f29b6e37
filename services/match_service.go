package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type CreateMatchInput struct {
	SeasonID        int        `json:"season_id"`
	DivisionID      *int       `json:"division_id"`
	RulesetPresetID *int       `json:"ruleset_preset_id"`
	Name            *string    `json:"name"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	BestOf          int        `json:"best_of"`
	TeamIDs         []int      `json:"team_ids"`
	MapPool         []string   `json:"map_pool"`
	Notes           *string    `json:"notes"`
}

type SubmitResultInput struct {
	// ActingTeamID must be provided explicitly by the caller; the service
	// never guesses which participant the caller acts for.
	ActingTeamID int               `json:"acting_team_id"`
	SubmittedBy  int               `json:"-"`
	Scores       models.GameScores `json:"scores"`
	Notes        *string           `json:"notes"`
}

type ConfirmResultInput struct {
	ActingTeamID int     `json:"acting_team_id"`
	ConfirmedBy  int     `json:"-"`
	IsConfirmed  bool    `json:"is_confirmed"`
	Notes        *string `json:"notes"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, orgID int, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, orgID, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, orgID int, filter repositories.MatchListFilter) ([]*models.Match, error)
	SubmitResult(ctx context.Context, orgID, matchID int, input SubmitResultInput) (*models.ResultSubmission, error)
	ConfirmResult(ctx context.Context, orgID, matchID int, input ConfirmResultInput) (*models.ResultConfirmation, error)

	// SetMatchStatus applies an administrative status (draft, scheduled,
	// in_progress, canceled). Result-flow statuses cannot be set directly.
	SetMatchStatus(ctx context.Context, orgID, matchID int, status models.MatchStatus) (*models.Match, error)

	// DeleteMatch soft-deletes a match; it disappears from listings and
	// standings input immediately.
	DeleteMatch(ctx context.Context, orgID, matchID int) error
}

type matchService struct {
	db              repositories.TxBeginner
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	resultRepo      repositories.ResultRepository
	teamRepo        repositories.TeamRepository
	seasonRepo      repositories.SeasonRepository
	standings       StandingsService
	hub             *live.Hub
	logger          *slog.Logger
}

func NewMatchService(
	db repositories.TxBeginner,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	resultRepo repositories.ResultRepository,
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	standings StandingsService,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		resultRepo:      resultRepo,
		teamRepo:        teamRepo,
		seasonRepo:      seasonRepo,
		standings:       standings,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, orgID int, input CreateMatchInput) (*models.Match, error) {
	if len(input.TeamIDs) != 2 {
		return nil, ErrMatchTeamCountInvalid
	}
	if input.TeamIDs[0] == input.TeamIDs[1] {
		return nil, ErrMatchTeamsNotDistinct
	}
	if input.BestOf < 1 || input.BestOf > 7 {
		return nil, ErrMatchBestOfInvalid
	}
	if input.ScheduledAt.IsZero() {
		return nil, ErrMatchScheduleRequired
	}

	if _, err := s.seasonRepo.GetByID(ctx, orgID, input.SeasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	for _, teamID := range input.TeamIDs {
		if _, err := s.teamRepo.GetByID(ctx, orgID, teamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, teamID)
			}
			return nil, err
		}
	}

	match := &models.Match{
		OrganizationID:  orgID,
		SeasonID:        input.SeasonID,
		DivisionID:      input.DivisionID,
		RulesetPresetID: input.RulesetPresetID,
		Name:            input.Name,
		Status:          models.MatchStatusScheduled,
		ScheduledAt:     input.ScheduledAt,
		BestOf:          input.BestOf,
		MapPool:         input.MapPool,
		Notes:           input.Notes,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.Create(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	// Side is assigned by input order: first team is home, second away.
	sides := []models.ParticipantSide{models.SideHome, models.SideAway}
	for i, teamID := range input.TeamIDs {
		participant := &models.MatchParticipant{
			OrganizationID: orgID,
			MatchID:        match.ID,
			TeamID:         teamID,
			Side:           sides[i],
		}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			return nil, fmt.Errorf("failed to create participant for team %d: %w", teamID, err)
		}
		match.Participants = append(match.Participants, participant)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match creation: %w", err)
	}

	s.broadcastMatch(orgID, match.ID, match.Status)
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, orgID, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, orgID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	participants, err := s.participantRepo.ListByMatch(ctx, orgID, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for match %d: %w", matchID, err)
	}
	match.Participants = participants
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, orgID int, filter repositories.MatchListFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// resolveActingTeam validates the explicit caller-to-team mapping: the acting
// team must be a participant of the match, and the authenticated user must be
// that team's coach. Anything else fails closed.
func (s *matchService) resolveActingTeam(ctx context.Context, orgID, matchID, actingTeamID, userID int) (*models.MatchParticipant, error) {
	participants, err := s.participantRepo.ListByMatch(ctx, orgID, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for match %d: %w", matchID, err)
	}

	var acting *models.MatchParticipant
	for _, p := range participants {
		if p.TeamID == actingTeamID {
			acting = p
			break
		}
	}
	if acting == nil {
		return nil, ErrTeamNotInMatch
	}

	team, err := s.teamRepo.GetByID(ctx, orgID, actingTeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotInMatch
		}
		return nil, err
	}
	if team.CoachID == nil || *team.CoachID != userID {
		return nil, ErrNotTeamCoach
	}
	return acting, nil
}

func (s *matchService) SubmitResult(ctx context.Context, orgID, matchID int, input SubmitResultInput) (*models.ResultSubmission, error) {
	if err := input.Scores.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScoresInvalid, err)
	}

	match, err := s.matchRepo.GetByID(ctx, orgID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if _, err := s.resolveActingTeam(ctx, orgID, matchID, input.ActingTeamID, input.SubmittedBy); err != nil {
		return nil, err
	}

	submission := &models.ResultSubmission{
		OrganizationID: orgID,
		MatchID:        matchID,
		TeamID:         input.ActingTeamID,
		SubmittedBy:    input.SubmittedBy,
		Scores:         input.Scores,
		Notes:          input.Notes,
	}
	if err := s.resultRepo.CreateSubmission(ctx, submission); err != nil {
		if errors.Is(err, repositories.ErrSubmissionDuplicate) {
			return nil, ErrResultAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to create result submission: %w", err)
	}

	submissions, err := s.resultRepo.ListSubmissionsByMatch(ctx, orgID, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions for match %d: %w", matchID, err)
	}

	nextStatus := models.MatchStatusAwaitingResults
	if len(submissions) >= 2 {
		nextStatus = models.MatchStatusResultsSubmitted
	}
	if err := s.matchRepo.UpdateStatus(ctx, nil, orgID, matchID, nextStatus); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	s.broadcastMatch(orgID, match.ID, nextStatus)
	return submission, nil
}

func (s *matchService) ConfirmResult(ctx context.Context, orgID, matchID int, input ConfirmResultInput) (*models.ResultConfirmation, error) {
	match, err := s.matchRepo.GetByID(ctx, orgID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if _, err := s.resolveActingTeam(ctx, orgID, matchID, input.ActingTeamID, input.ConfirmedBy); err != nil {
		return nil, err
	}

	submissions, err := s.resultRepo.ListSubmissionsByMatch(ctx, orgID, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for match %d: %w", matchID, err)
	}

	var opposing *models.ResultSubmission
	for _, sub := range submissions {
		if sub.TeamID != input.ActingTeamID {
			opposing = sub
			break
		}
	}
	if opposing == nil {
		return nil, ErrOpposingSubmissionMissing
	}

	confirmation := &models.ResultConfirmation{
		OrganizationID:     orgID,
		MatchID:            matchID,
		ResultSubmissionID: opposing.ID,
		TeamID:             input.ActingTeamID,
		ConfirmedBy:        input.ConfirmedBy,
		IsConfirmed:        input.IsConfirmed,
		Notes:              input.Notes,
	}
	if err := s.resultRepo.CreateConfirmation(ctx, confirmation); err != nil {
		if errors.Is(err, repositories.ErrConfirmationDuplicate) {
			return nil, ErrResultAlreadyConfirmed
		}
		return nil, fmt.Errorf("failed to create result confirmation: %w", err)
	}

	if !input.IsConfirmed {
		return confirmation, nil
	}

	if err := s.matchRepo.UpdateStatus(ctx, nil, orgID, matchID, models.MatchStatusResultsConfirmed); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	if err := s.applyParticipantResults(ctx, orgID, matchID, submissions); err != nil {
		// Participant score fields are denormalized convenience data; the
		// confirmed submissions stay the source of truth for standings.
		s.logger.Error("failed to write participant results",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}

	// Standings recompute is best-effort: its failure is logged and
	// suppressed so that the confirmation itself still succeeds.
	if _, err := s.standings.ComputeStandings(ctx, orgID, match.SeasonID, match.DivisionID); err != nil {
		s.logger.Error("failed to recompute standings after confirmation",
			slog.Int("match_id", matchID),
			slog.Int("season_id", match.SeasonID),
			slog.Any("error", err))
	}

	s.broadcastMatch(orgID, matchID, models.MatchStatusResultsConfirmed)
	return confirmation, nil
}

// applyParticipantResults writes each participant's game wins and winner flag
// once a result is confirmed. Skipped when either submission is missing.
func (s *matchService) applyParticipantResults(ctx context.Context, orgID, matchID int, submissions []*models.ResultSubmission) error {
	participants, err := s.participantRepo.ListByMatch(ctx, orgID, matchID)
	if err != nil {
		return err
	}
	if len(participants) != 2 {
		return nil
	}

	winsByTeam := make(map[int]int, len(submissions))
	for _, sub := range submissions {
		winsByTeam[sub.TeamID] = sub.Scores.Wins()
	}
	firstWins, firstOK := winsByTeam[participants[0].TeamID]
	secondWins, secondOK := winsByTeam[participants[1].TeamID]
	if !firstOK || !secondOK {
		return nil
	}

	firstWinner := firstWins > secondWins
	secondWinner := secondWins > firstWins
	if err := s.participantRepo.UpdateResult(ctx, nil, orgID, participants[0].ID, firstWins, &firstWinner); err != nil {
		return err
	}
	return s.participantRepo.UpdateResult(ctx, nil, orgID, participants[1].ID, secondWins, &secondWinner)
}

func (s *matchService) SetMatchStatus(ctx context.Context, orgID, matchID int, status models.MatchStatus) (*models.Match, error) {
	switch status {
	case models.MatchStatusDraft, models.MatchStatusScheduled,
		models.MatchStatusInProgress, models.MatchStatusCanceled:
	default:
		return nil, fmt.Errorf("%w: %s", ErrMatchStatusNotSettable, status)
	}

	match, err := s.matchRepo.GetByID(ctx, orgID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if err := s.matchRepo.UpdateStatus(ctx, nil, orgID, matchID, status); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	match.Status = status

	s.broadcastMatch(orgID, matchID, status)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, orgID, matchID int) error {
	if err := s.matchRepo.SoftDelete(ctx, orgID, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

func (s *matchService) broadcastMatch(orgID, matchID int, status models.MatchStatus) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.RoomForOrg(orgID), live.Event{
		Type: live.EventMatchUpdated,
		Payload: map[string]interface{}{
			"match_id": matchID,
			"status":   status,
		},
	})
}
