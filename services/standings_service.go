package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

type StandingsService interface {
	// GetStandings returns the latest snapshot for (season, division),
	// computing one on demand when none exists yet.
	GetStandings(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error)

	// ComputeStandings recomputes the ranked table for (season, division)
	// from all confirmed matches and overwrites the persisted snapshot.
	ComputeStandings(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error)

	// RecomputeSeason recomputes the season-wide table and every division
	// table of the season, returning the season-wide snapshot.
	RecomputeSeason(ctx context.Context, orgID, seasonID int) (*models.StandingsSnapshot, error)
}

type standingsService struct {
	teamRepo        repositories.TeamRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	resultRepo      repositories.ResultRepository
	seasonRepo      repositories.SeasonRepository
	divisionRepo    repositories.DivisionRepository
	standingsRepo   repositories.StandingsRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewStandingsService(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	resultRepo repositories.ResultRepository,
	seasonRepo repositories.SeasonRepository,
	divisionRepo repositories.DivisionRepository,
	standingsRepo repositories.StandingsRepository,
	hub *live.Hub,
	logger *slog.Logger,
) StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsService{
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		resultRepo:      resultRepo,
		seasonRepo:      seasonRepo,
		divisionRepo:    divisionRepo,
		standingsRepo:   standingsRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error) {
	snapshot, err := s.standingsRepo.GetLatest(ctx, orgID, seasonID, divisionID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, repositories.ErrStandingsSnapshotNotFound) {
		return nil, fmt.Errorf("failed to load standings snapshot: %w", err)
	}
	return s.ComputeStandings(ctx, orgID, seasonID, divisionID)
}

func (s *standingsService) ComputeStandings(ctx context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error) {
	if _, err := s.seasonRepo.GetByID(ctx, orgID, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if divisionID != nil {
		if _, err := s.divisionRepo.GetByID(ctx, orgID, *divisionID); err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return nil, ErrDivisionNotFound
			}
			return nil, err
		}
	}

	teams, err := s.teamRepo.ListBySeason(ctx, orgID, seasonID, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for standings: %w", err)
	}

	records := make(map[int]*models.TeamStanding, len(teams))
	for _, team := range teams {
		records[team.ID] = &models.TeamStanding{
			TeamID:   team.ID,
			TeamName: team.Name,
		}
	}

	matches, err := s.matchRepo.ListConfirmedBySeason(ctx, orgID, seasonID, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed matches: %w", err)
	}

	for _, match := range matches {
		if err := s.applyMatch(ctx, orgID, match, records); err != nil {
			return nil, err
		}
	}

	standings := make([]*models.TeamStanding, 0, len(records))
	for _, record := range records {
		if record.MatchesPlayed > 0 {
			record.WinPercentage = roundPct(float64(record.Wins) / float64(record.MatchesPlayed) * 100)
		}
		standings = append(standings, record)
	}

	// Deterministic order before the ranking sort, so ties beyond the three
	// ranking keys come out stable across recomputes.
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].TeamID < standings[j].TeamID
	})
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.WinPercentage > b.WinPercentage
	})

	snapshot := &models.StandingsSnapshot{
		OrganizationID: orgID,
		SeasonID:       seasonID,
		DivisionID:     divisionID,
		Standings:      standings,
		ComputedAt:     time.Now().UTC(),
	}
	if err := s.standingsRepo.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist standings snapshot: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForOrg(orgID), live.Event{
			Type: live.EventStandingsUpdated,
			Payload: map[string]interface{}{
				"season_id":   seasonID,
				"division_id": divisionID,
				"computed_at": snapshot.ComputedAt,
			},
		})
	}

	return snapshot, nil
}

// applyMatch folds one confirmed match into the running records. Matches with
// malformed participant data or without both submissions are skipped, not
// treated as errors.
func (s *standingsService) applyMatch(ctx context.Context, orgID int, match *models.Match, records map[int]*models.TeamStanding) error {
	participants, err := s.participantRepo.ListByMatch(ctx, orgID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list participants for match %d: %w", match.ID, err)
	}
	if len(participants) != 2 {
		return nil
	}

	submissions, err := s.resultRepo.ListSubmissionsByMatch(ctx, orgID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list submissions for match %d: %w", match.ID, err)
	}

	winsByTeam := make(map[int]int, len(submissions))
	for _, sub := range submissions {
		winsByTeam[sub.TeamID] = sub.Scores.Wins()
	}

	first, second := participants[0], participants[1]
	firstWins, firstOK := winsByTeam[first.TeamID]
	secondWins, secondOK := winsByTeam[second.TeamID]
	if !firstOK || !secondOK {
		// Confirmed but missing a submission: incomplete data, not a loss.
		return nil
	}

	applyOutcome(records, first.TeamID, firstWins, secondWins)
	applyOutcome(records, second.TeamID, secondWins, firstWins)
	return nil
}

func applyOutcome(records map[int]*models.TeamStanding, teamID, ownWins, opponentWins int) {
	record, ok := records[teamID]
	if !ok {
		return
	}
	record.MatchesPlayed++
	switch {
	case ownWins > opponentWins:
		record.Wins++
		record.Points += pointsForWin
	case ownWins < opponentWins:
		record.Losses++
	default:
		record.Draws++
		record.Points += pointsForDraw
	}
}

func (s *standingsService) RecomputeSeason(ctx context.Context, orgID, seasonID int) (*models.StandingsSnapshot, error) {
	divisions, err := s.divisionRepo.ListBySeason(ctx, orgID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions for season %d: %w", seasonID, err)
	}

	var overall *models.StandingsSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot, err := s.ComputeStandings(gctx, orgID, seasonID, nil)
		if err != nil {
			return err
		}
		overall = snapshot
		return nil
	})
	for _, division := range divisions {
		divisionID := division.ID
		g.Go(func() error {
			_, err := s.ComputeStandings(gctx, orgID, seasonID, &divisionID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overall, nil
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
