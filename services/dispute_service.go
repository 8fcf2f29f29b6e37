package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type OpenDisputeInput struct {
	TeamID    int     `json:"team_id"`
	CreatedBy int     `json:"-"`
	Reason    string  `json:"reason"`
	Evidence  *string `json:"evidence"`
}

type ResolveDisputeInput struct {
	RuledBy        int                   `json:"-"`
	Decision       models.RulingDecision `json:"decision"`
	Reasoning      string                `json:"reasoning"`
	AdjustedScores map[string]int        `json:"adjusted_scores"`
}

type DisputeService interface {
	// OpenDispute records a dispute against a match and forces the match
	// into disputed status, regardless of its prior status.
	OpenDispute(ctx context.Context, orgID, matchID int, input OpenDisputeInput) (*models.Dispute, error)

	// ResolveDispute closes a dispute with a ruling and moves the match to
	// resolved. Standings are recomputed best-effort afterwards.
	ResolveDispute(ctx context.Context, orgID, disputeID int, input ResolveDisputeInput) (*models.Ruling, error)
}

type disputeService struct {
	db              repositories.TxBeginner
	disputeRepo     repositories.DisputeRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	standings       StandingsService
	hub             *live.Hub
	logger          *slog.Logger
}

func NewDisputeService(
	db repositories.TxBeginner,
	disputeRepo repositories.DisputeRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	standings StandingsService,
	hub *live.Hub,
	logger *slog.Logger,
) DisputeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &disputeService{
		db:              db,
		disputeRepo:     disputeRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		standings:       standings,
		hub:             hub,
		logger:          logger,
	}
}

func (s *disputeService) OpenDispute(ctx context.Context, orgID, matchID int, input OpenDisputeInput) (*models.Dispute, error) {
	if input.Reason == "" {
		return nil, ErrDisputeReasonRequired
	}

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
	isParticipant := false
	for _, p := range participants {
		if p.TeamID == input.TeamID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, ErrTeamNotInMatch
	}

	dispute := &models.Dispute{
		OrganizationID: orgID,
		MatchID:        matchID,
		TeamID:         input.TeamID,
		CreatedBy:      input.CreatedBy,
		Status:         models.DisputeStatusOpen,
		Reason:         input.Reason,
		Evidence:       input.Evidence,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, fmt.Errorf("failed to create dispute: %w", err)
	}

	if err := s.matchRepo.UpdateStatus(ctx, nil, orgID, matchID, models.MatchStatusDisputed); err != nil {
		return nil, fmt.Errorf("failed to mark match disputed: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForOrg(orgID), live.Event{
			Type: live.EventDisputeOpened,
			Payload: map[string]interface{}{
				"dispute_id": dispute.ID,
				"match_id":   match.ID,
				"team_id":    dispute.TeamID,
			},
		})
	}

	return dispute, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, orgID, disputeID int, input ResolveDisputeInput) (*models.Ruling, error) {
	switch input.Decision {
	case models.RulingDecisionUphold, models.RulingDecisionOverturn, models.RulingDecisionModify:
	default:
		return nil, ErrRulingDecisionInvalid
	}
	if input.Reasoning == "" {
		return nil, ErrRulingReasoningRequired
	}

	dispute, err := s.disputeRepo.GetByID(ctx, orgID, disputeID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	if dispute.Status == models.DisputeStatusResolved || dispute.Status == models.DisputeStatusDismissed {
		return nil, ErrDisputeAlreadyResolved
	}

	match, err := s.matchRepo.GetByID(ctx, orgID, dispute.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	ruling := &models.Ruling{
		OrganizationID: orgID,
		DisputeID:      dispute.ID,
		MatchID:        dispute.MatchID,
		RuledBy:        input.RuledBy,
		Decision:       input.Decision,
		Reasoning:      input.Reasoning,
		AdjustedScores: input.AdjustedScores,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.disputeRepo.CreateRuling(ctx, tx, ruling); err != nil {
		return nil, fmt.Errorf("failed to create ruling: %w", err)
	}
	if err := s.disputeRepo.MarkResolved(ctx, tx, orgID, dispute.ID, input.RuledBy, models.DisputeStatusResolved); err != nil {
		return nil, fmt.Errorf("failed to resolve dispute: %w", err)
	}
	if err := s.matchRepo.UpdateStatus(ctx, tx, orgID, dispute.MatchID, models.MatchStatusResolved); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ruling: %w", err)
	}

	// Same best-effort decoupling as result confirmation: the ruling stands
	// even when the recompute fails.
	if _, err := s.standings.ComputeStandings(ctx, orgID, match.SeasonID, match.DivisionID); err != nil {
		s.logger.Error("failed to recompute standings after ruling",
			slog.Int("dispute_id", dispute.ID),
			slog.Int("match_id", match.ID),
			slog.Any("error", err))
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForOrg(orgID), live.Event{
			Type: live.EventMatchUpdated,
			Payload: map[string]interface{}{
				"match_id": match.ID,
				"status":   models.MatchStatusResolved,
			},
		})
	}

	return ruling, nil
}
