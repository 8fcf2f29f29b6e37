package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/league-system/models"
)

type standingsFixture struct {
	teams        *fakeTeamRepo
	matches      *fakeMatchRepo
	participants *fakeParticipantRepo
	results      *fakeResultRepo
	seasons      *fakeSeasonRepo
	divisions    *fakeDivisionRepo
	snapshots    *fakeStandingsRepo
	svc          StandingsService
}

func newStandingsFixture() *standingsFixture {
	f := &standingsFixture{
		teams:        &fakeTeamRepo{teams: make(map[int]*models.Team)},
		matches:      &fakeMatchRepo{matches: make(map[int]*models.Match)},
		participants: &fakeParticipantRepo{byMatch: make(map[int][]*models.MatchParticipant)},
		results:      &fakeResultRepo{submissions: make(map[int][]*models.ResultSubmission)},
		seasons:      &fakeSeasonRepo{seasons: make(map[int]*models.Season)},
		divisions:    &fakeDivisionRepo{divisions: make(map[int]*models.Division)},
		snapshots:    &fakeStandingsRepo{},
	}
	f.svc = NewStandingsService(
		f.teams, f.matches, f.participants, f.results,
		f.seasons, f.divisions, f.snapshots,
		nil, slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *standingsFixture) addSeason(orgID, seasonID int) {
	f.seasons.seasons[seasonID] = &models.Season{ID: seasonID, OrganizationID: orgID, Name: "Season"}
}

func (f *standingsFixture) addTeam(orgID, seasonID, teamID int, name string, divisionID *int) {
	f.teams.teams[teamID] = &models.Team{
		ID: teamID, OrganizationID: orgID, SeasonID: seasonID,
		DivisionID: divisionID, Name: name, IsActive: true,
	}
}

// addConfirmedMatch seeds a results_confirmed match between two teams. A nil
// scores slice means that team never submitted.
func (f *standingsFixture) addConfirmedMatch(orgID, seasonID int, divisionID *int, teamA, teamB int, scoresA, scoresB models.GameScores) {
	f.matches.nextID++
	matchID := f.matches.nextID
	f.matches.matches[matchID] = &models.Match{
		ID: matchID, OrganizationID: orgID, SeasonID: seasonID,
		DivisionID: divisionID, Status: models.MatchStatusResultsConfirmed, BestOf: 3,
	}
	f.participants.byMatch[matchID] = []*models.MatchParticipant{
		{ID: matchID*10 + 1, OrganizationID: orgID, MatchID: matchID, TeamID: teamA, Side: models.SideHome},
		{ID: matchID*10 + 2, OrganizationID: orgID, MatchID: matchID, TeamID: teamB, Side: models.SideAway},
	}
	if scoresA != nil {
		f.results.submissions[matchID] = append(f.results.submissions[matchID], &models.ResultSubmission{
			OrganizationID: orgID, MatchID: matchID, TeamID: teamA, Scores: scoresA,
		})
	}
	if scoresB != nil {
		f.results.submissions[matchID] = append(f.results.submissions[matchID], &models.ResultSubmission{
			OrganizationID: orgID, MatchID: matchID, TeamID: teamB, Scores: scoresB,
		})
	}
}

func findStanding(t *testing.T, snapshot *models.StandingsSnapshot, teamID int) *models.TeamStanding {
	t.Helper()
	for _, standing := range snapshot.Standings {
		if standing.TeamID == teamID {
			return standing
		}
	}
	t.Fatalf("team %d missing from standings", teamID)
	return nil
}

func TestComputeStandingsSweep(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)
	f.addConfirmedMatch(1, 10, nil, 100, 101,
		models.GameScores{1, 1}, models.GameScores{0, 0})

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	winner := findStanding(t, snapshot, 100)
	if winner.Points != 3 || winner.Wins != 1 || winner.Losses != 0 || winner.MatchesPlayed != 1 {
		t.Errorf("winner record = %+v, want 3 points, 1 win, 1 played", winner)
	}
	if winner.WinPercentage != 100 {
		t.Errorf("winner win%% = %v, want 100", winner.WinPercentage)
	}

	loser := findStanding(t, snapshot, 101)
	if loser.Points != 0 || loser.Losses != 1 || loser.WinPercentage != 0 {
		t.Errorf("loser record = %+v, want 0 points, 1 loss, 0%%", loser)
	}

	if snapshot.Standings[0].TeamID != 100 {
		t.Errorf("first place = team %d, want 100", snapshot.Standings[0].TeamID)
	}
}

func TestComputeStandingsDraw(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)
	f.addConfirmedMatch(1, 10, nil, 100, 101,
		models.GameScores{1, 0}, models.GameScores{0, 1})

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	for _, teamID := range []int{100, 101} {
		record := findStanding(t, snapshot, teamID)
		if record.Points != 1 || record.Draws != 1 || record.Wins != 0 {
			t.Errorf("team %d record = %+v, want a single draw worth 1 point", teamID, record)
		}
	}
}

func TestComputeStandingsSkipsMatchWithoutBothSubmissions(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)
	f.addConfirmedMatch(1, 10, nil, 100, 101, models.GameScores{1, 1}, nil)

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	for _, teamID := range []int{100, 101} {
		record := findStanding(t, snapshot, teamID)
		if record.MatchesPlayed != 0 || record.Points != 0 {
			t.Errorf("team %d record = %+v, want untouched", teamID, record)
		}
	}
}

func TestComputeStandingsWinPercentageRounding(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)
	// Alpha wins one of three.
	f.addConfirmedMatch(1, 10, nil, 100, 101, models.GameScores{1, 1}, models.GameScores{0, 0})
	f.addConfirmedMatch(1, 10, nil, 100, 101, models.GameScores{0, 0}, models.GameScores{1, 1})
	f.addConfirmedMatch(1, 10, nil, 100, 101, models.GameScores{0}, models.GameScores{1})

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	alpha := findStanding(t, snapshot, 100)
	if alpha.MatchesPlayed != 3 || alpha.Wins != 1 {
		t.Fatalf("alpha record = %+v, want 1 win of 3 played", alpha)
	}
	if alpha.WinPercentage != 33.33 {
		t.Errorf("alpha win%% = %v, want 33.33", alpha.WinPercentage)
	}
}

func TestComputeStandingsOrdering(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)
	f.addTeam(1, 10, 102, "Charlie", nil)
	f.addTeam(1, 10, 103, "Delta", nil)

	// Bravo beats everyone, Alpha beats Charlie, Charlie and Delta draw.
	f.addConfirmedMatch(1, 10, nil, 101, 100, models.GameScores{1, 1}, models.GameScores{0, 0})
	f.addConfirmedMatch(1, 10, nil, 101, 102, models.GameScores{1, 1}, models.GameScores{0, 0})
	f.addConfirmedMatch(1, 10, nil, 100, 102, models.GameScores{1, 1}, models.GameScores{0, 0})
	f.addConfirmedMatch(1, 10, nil, 102, 103, models.GameScores{1, 0}, models.GameScores{0, 1})

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	want := []int{101, 100, 102, 103}
	for i, teamID := range want {
		if snapshot.Standings[i].TeamID != teamID {
			t.Errorf("rank %d = team %d, want %d", i+1, snapshot.Standings[i].TeamID, teamID)
		}
	}
}

func TestComputeStandingsTieBreaksByTeamID(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 103, "Delta", nil)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(1, 10, 101, "Bravo", nil)

	first, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}
	second, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}

	want := []int{100, 101, 103}
	for i, teamID := range want {
		if first.Standings[i].TeamID != teamID {
			t.Errorf("first compute rank %d = team %d, want %d", i+1, first.Standings[i].TeamID, teamID)
		}
		if second.Standings[i].TeamID != teamID {
			t.Errorf("second compute rank %d = team %d, want %d", i+1, second.Standings[i].TeamID, teamID)
		}
	}
	if len(f.snapshots.snapshots) != 1 {
		t.Errorf("snapshot count = %d, want 1 after recompute", len(f.snapshots.snapshots))
	}
}

func TestComputeStandingsSeasonNotFound(t *testing.T) {
	f := newStandingsFixture()

	_, err := f.svc.ComputeStandings(context.Background(), 1, 999, nil)
	if err != ErrSeasonNotFound {
		t.Fatalf("err = %v, want ErrSeasonNotFound", err)
	}
}

func TestComputeStandingsUnknownDivision(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)

	_, err := f.svc.ComputeStandings(context.Background(), 1, 10, intPtr(55))
	if err != ErrDivisionNotFound {
		t.Fatalf("err = %v, want ErrDivisionNotFound", err)
	}
}

func TestGetStandingsComputesOnDemand(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)

	snapshot, err := f.svc.GetStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if len(snapshot.Standings) != 1 {
		t.Fatalf("standings rows = %d, want 1", len(snapshot.Standings))
	}

	again, err := f.svc.GetStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if again != snapshot && len(f.snapshots.snapshots) != 1 {
		t.Errorf("expected the persisted snapshot to be reused")
	}
}

func TestRecomputeSeasonCoversAllDivisions(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.divisions.divisions[20] = &models.Division{ID: 20, OrganizationID: 1, SeasonID: 10, Name: "East"}
	f.divisions.divisions[21] = &models.Division{ID: 21, OrganizationID: 1, SeasonID: 10, Name: "West"}
	f.addTeam(1, 10, 100, "Alpha", intPtr(20))
	f.addTeam(1, 10, 101, "Bravo", intPtr(21))

	overall, err := f.svc.RecomputeSeason(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("RecomputeSeason: %v", err)
	}
	if overall == nil || overall.DivisionID != nil {
		t.Fatalf("RecomputeSeason returned %+v, want the season-wide snapshot", overall)
	}
	if len(f.snapshots.snapshots) != 3 {
		t.Errorf("snapshot count = %d, want season-wide plus two divisions", len(f.snapshots.snapshots))
	}
}

func TestComputeStandingsIgnoresOtherOrganizations(t *testing.T) {
	f := newStandingsFixture()
	f.addSeason(1, 10)
	f.addSeason(2, 10)
	f.addTeam(1, 10, 100, "Alpha", nil)
	f.addTeam(2, 10, 200, "Zulu", nil)

	// The seeded season id collides across orgs on purpose.
	f.seasons.seasons[10] = &models.Season{ID: 10, OrganizationID: 1, Name: "Season"}

	snapshot, err := f.svc.ComputeStandings(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}
	for _, standing := range snapshot.Standings {
		if standing.TeamID == 200 {
			t.Errorf("standings leaked a team from another organization")
		}
	}
}
