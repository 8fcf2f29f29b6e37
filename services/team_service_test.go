package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/storage"
)

type fakeUploader struct {
	uploaded map[string]string // key -> content type
	deleted  []string
	baseURL  string
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	if f.uploaded == nil {
		f.uploaded = make(map[string]string)
	}
	f.uploaded[key] = contentType
	return &storage.UploadResult{Key: key, Location: f.baseURL + "/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return f.baseURL + "/" + key
}

func TestUploadLogoStoresKeyAndDeletesOld(t *testing.T) {
	oldKey := "orgs/1/teams/100/logo-old.png"
	teams := &fakeTeamRepo{teams: map[int]*models.Team{
		100: {ID: 100, OrganizationID: 1, SeasonID: 10, Name: "Alpha", LogoKey: &oldKey},
	}}
	uploader := &fakeUploader{baseURL: "https://cdn.example.com"}
	svc := NewTeamService(teams, uploader)

	team, err := svc.UploadLogo(context.Background(), 1, 100, "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}

	if team.LogoKey == nil || !strings.HasPrefix(*team.LogoKey, "orgs/1/teams/100/logo-") {
		t.Errorf("logo key = %v, want orgs/1/teams/100/logo-* prefix", team.LogoKey)
	}
	if team.LogoKey != nil && !strings.HasSuffix(*team.LogoKey, ".png") {
		t.Errorf("logo key = %v, want .png suffix", *team.LogoKey)
	}
	if team.LogoURL == nil || !strings.HasPrefix(*team.LogoURL, "https://cdn.example.com/") {
		t.Errorf("logo url = %v, want public base url prefix", team.LogoURL)
	}
	if len(uploader.uploaded) != 1 {
		t.Errorf("uploads = %d, want 1", len(uploader.uploaded))
	}
	if len(uploader.deleted) != 1 || uploader.deleted[0] != oldKey {
		t.Errorf("deleted = %v, want the previous key removed", uploader.deleted)
	}
	if stored := teams.teams[100].LogoKey; stored == nil || *stored != *team.LogoKey {
		t.Errorf("repository key = %v, want %v", stored, team.LogoKey)
	}
}

func TestUploadLogoRejectsUnsupportedContentType(t *testing.T) {
	teams := &fakeTeamRepo{teams: map[int]*models.Team{
		100: {ID: 100, OrganizationID: 1, SeasonID: 10, Name: "Alpha"},
	}}
	uploader := &fakeUploader{}
	svc := NewTeamService(teams, uploader)

	_, err := svc.UploadLogo(context.Background(), 1, 100, "application/pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedLogoType) {
		t.Fatalf("err = %v, want ErrUnsupportedLogoType", err)
	}
	if len(uploader.uploaded) != 0 {
		t.Errorf("nothing should be uploaded for an unsupported type")
	}
}

func TestUploadLogoUnknownTeam(t *testing.T) {
	svc := NewTeamService(&fakeTeamRepo{teams: map[int]*models.Team{}}, &fakeUploader{})

	_, err := svc.UploadLogo(context.Background(), 1, 42, "image/png", strings.NewReader("x"))
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("err = %v, want ErrTeamNotFound", err)
	}
}

func TestListTeamsPopulatesLogoURLs(t *testing.T) {
	key := "orgs/1/teams/100/logo-a.png"
	teams := &fakeTeamRepo{teams: map[int]*models.Team{
		100: {ID: 100, OrganizationID: 1, SeasonID: 10, Name: "Alpha", LogoKey: &key},
		101: {ID: 101, OrganizationID: 1, SeasonID: 10, Name: "Bravo"},
	}}
	svc := NewTeamService(teams, &fakeUploader{baseURL: "https://cdn.example.com"})

	listed, err := svc.ListTeams(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	for _, team := range listed {
		switch team.ID {
		case 100:
			if team.LogoURL == nil || *team.LogoURL != "https://cdn.example.com/"+key {
				t.Errorf("team 100 logo url = %v", team.LogoURL)
			}
		case 101:
			if team.LogoURL != nil {
				t.Errorf("team 101 logo url = %v, want nil", *team.LogoURL)
			}
		}
	}
}
