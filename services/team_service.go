package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/google/uuid"
)

var ErrUnsupportedLogoType = errors.New("unsupported logo content type")

type TeamService interface {
	GetTeamByID(ctx context.Context, orgID, teamID int) (*models.Team, error)
	ListTeams(ctx context.Context, orgID int) ([]*models.Team, error)
	UploadLogo(ctx context.Context, orgID, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
	}
}

func (s *teamService) GetTeamByID(ctx context.Context, orgID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, orgID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, orgID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		s.populateLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) UploadLogo(ctx context.Context, orgID, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, orgID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	ext, err := logoExtension(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("orgs/%d/teams/%d/logo-%s%s", orgID, teamID, uuid.NewString(), ext)

	// Capture before UpdateLogoKey: a caching repository may hand back the
	// same struct it later mutates.
	var oldKey string
	if team.LogoKey != nil {
		oldKey = *team.LogoKey
	}

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, orgID, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}

	// Old logo stays in the bucket if deletion fails; harmless garbage.
	if oldKey != "" && oldKey != result.Key {
		_ = s.uploader.Delete(ctx, oldKey)
	}

	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team == nil || s.uploader == nil {
		return
	}
	if team.LogoKey != nil && *team.LogoKey != "" {
		if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
}

func logoExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLogoType, strings.TrimSpace(contentType))
	}
}
