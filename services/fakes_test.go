package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Hand-rolled in-memory fakes for the repository interfaces. Maps are seeded
// up front by each test; only snapshot upserts need a mutex because season
// recomputes run division tables concurrently.

// fakeTxBeginner hands out no-op transactions so the services' transactional
// paths run against the in-memory repos, which ignore their executor argument.
type fakeTxBeginner struct {
	commits   int
	rollbacks int
	beginErr  error
}

func (f *fakeTxBeginner) BeginTx(context.Context, *sql.TxOptions) (repositories.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{beginner: f}, nil
}

type fakeTx struct {
	beginner *fakeTxBeginner
	done     bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.done = true
	t.beginner.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.beginner.rollbacks++
	return nil
}

type fakeSeasonRepo struct {
	seasons map[int]*models.Season
}

func (f *fakeSeasonRepo) GetByID(_ context.Context, orgID, id int) (*models.Season, error) {
	season, ok := f.seasons[id]
	if !ok || season.OrganizationID != orgID {
		return nil, repositories.ErrSeasonNotFound
	}
	return season, nil
}

type fakeDivisionRepo struct {
	divisions map[int]*models.Division
}

func (f *fakeDivisionRepo) GetByID(_ context.Context, orgID, id int) (*models.Division, error) {
	division, ok := f.divisions[id]
	if !ok || division.OrganizationID != orgID {
		return nil, repositories.ErrDivisionNotFound
	}
	return division, nil
}

func (f *fakeDivisionRepo) ListBySeason(_ context.Context, orgID, seasonID int) ([]*models.Division, error) {
	var out []*models.Division
	for _, d := range f.divisions {
		if d.OrganizationID == orgID && d.SeasonID == seasonID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func (f *fakeTeamRepo) GetByID(_ context.Context, orgID, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok || team.OrganizationID != orgID {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) ListBySeason(_ context.Context, orgID, seasonID int, divisionID *int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		if t.OrganizationID != orgID || t.SeasonID != seasonID {
			continue
		}
		if divisionID != nil && !intPtrEqual(t.DivisionID, divisionID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeamRepo) List(_ context.Context, orgID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		if t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) UpdateLogoKey(_ context.Context, orgID, id int, logoKey *string) error {
	team, ok := f.teams[id]
	if !ok || team.OrganizationID != orgID {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

type fakeMatchRepo struct {
	matches       map[int]*models.Match
	nextID        int
	statusUpdates []models.MatchStatus
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	f.nextID++
	match.ID = f.nextID
	if f.matches == nil {
		f.matches = make(map[int]*models.Match)
	}
	f.matches[match.ID] = match
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, orgID, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok || match.OrganizationID != orgID {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (f *fakeMatchRepo) List(_ context.Context, orgID int, filter repositories.MatchListFilter) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.OrganizationID != orgID {
			continue
		}
		if filter.SeasonID != nil && m.SeasonID != *filter.SeasonID {
			continue
		}
		if filter.DivisionID != nil && !intPtrEqual(m.DivisionID, filter.DivisionID) {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMatchRepo) ListConfirmedBySeason(ctx context.Context, orgID, seasonID int, divisionID *int) ([]*models.Match, error) {
	confirmed := models.MatchStatusResultsConfirmed
	return f.List(ctx, orgID, repositories.MatchListFilter{
		SeasonID:   &seasonID,
		DivisionID: divisionID,
		Status:     &confirmed,
	})
}

func (f *fakeMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, orgID, id int, status models.MatchStatus) error {
	match, ok := f.matches[id]
	if !ok || match.OrganizationID != orgID {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeMatchRepo) SoftDelete(_ context.Context, orgID, id int) error {
	match, ok := f.matches[id]
	if !ok || match.OrganizationID != orgID {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

type participantResult struct {
	score    int
	isWinner *bool
}

type fakeParticipantRepo struct {
	byMatch map[int][]*models.MatchParticipant
	nextID  int
	results map[int]participantResult
}

func (f *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, participant *models.MatchParticipant) error {
	f.nextID++
	participant.ID = f.nextID
	if f.byMatch == nil {
		f.byMatch = make(map[int][]*models.MatchParticipant)
	}
	f.byMatch[participant.MatchID] = append(f.byMatch[participant.MatchID], participant)
	return nil
}

func (f *fakeParticipantRepo) ListByMatch(_ context.Context, orgID, matchID int) ([]*models.MatchParticipant, error) {
	var out []*models.MatchParticipant
	for _, p := range f.byMatch[matchID] {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, orgID, id, score int, isWinner *bool) error {
	if f.results == nil {
		f.results = make(map[int]participantResult)
	}
	f.results[id] = participantResult{score: score, isWinner: isWinner}
	return nil
}

type fakeResultRepo struct {
	submissions   map[int][]*models.ResultSubmission
	confirmations map[int][]*models.ResultConfirmation
	nextID        int
}

func (f *fakeResultRepo) CreateSubmission(_ context.Context, submission *models.ResultSubmission) error {
	for _, existing := range f.submissions[submission.MatchID] {
		if existing.TeamID == submission.TeamID {
			return repositories.ErrSubmissionDuplicate
		}
	}
	f.nextID++
	submission.ID = f.nextID
	if f.submissions == nil {
		f.submissions = make(map[int][]*models.ResultSubmission)
	}
	f.submissions[submission.MatchID] = append(f.submissions[submission.MatchID], submission)
	return nil
}

func (f *fakeResultRepo) ListSubmissionsByMatch(_ context.Context, orgID, matchID int) ([]*models.ResultSubmission, error) {
	var out []*models.ResultSubmission
	for _, sub := range f.submissions[matchID] {
		if sub.OrganizationID == orgID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CreateConfirmation(_ context.Context, confirmation *models.ResultConfirmation) error {
	for _, existing := range f.confirmations[confirmation.MatchID] {
		if existing.TeamID == confirmation.TeamID {
			return repositories.ErrConfirmationDuplicate
		}
	}
	f.nextID++
	confirmation.ID = f.nextID
	if f.confirmations == nil {
		f.confirmations = make(map[int][]*models.ResultConfirmation)
	}
	f.confirmations[confirmation.MatchID] = append(f.confirmations[confirmation.MatchID], confirmation)
	return nil
}

type fakeStandingsRepo struct {
	mu        sync.Mutex
	snapshots []*models.StandingsSnapshot
	upsertErr error
}

func (f *fakeStandingsRepo) Upsert(_ context.Context, snapshot *models.StandingsSnapshot) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.snapshots {
		if existing.OrganizationID == snapshot.OrganizationID &&
			existing.SeasonID == snapshot.SeasonID &&
			intPtrEqual(existing.DivisionID, snapshot.DivisionID) {
			f.snapshots[i] = snapshot
			return nil
		}
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeStandingsRepo) GetLatest(_ context.Context, orgID, seasonID int, divisionID *int) (*models.StandingsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, snapshot := range f.snapshots {
		if snapshot.OrganizationID == orgID &&
			snapshot.SeasonID == seasonID &&
			intPtrEqual(snapshot.DivisionID, divisionID) {
			return snapshot, nil
		}
	}
	return nil, repositories.ErrStandingsSnapshotNotFound
}

type fakeDisputeRepo struct {
	disputes map[int]*models.Dispute
	nextID   int
	rulings  []*models.Ruling
	resolved map[int]models.DisputeStatus
}

func (f *fakeDisputeRepo) Create(_ context.Context, dispute *models.Dispute) error {
	f.nextID++
	dispute.ID = f.nextID
	if f.disputes == nil {
		f.disputes = make(map[int]*models.Dispute)
	}
	f.disputes[dispute.ID] = dispute
	return nil
}

func (f *fakeDisputeRepo) GetByID(_ context.Context, orgID, id int) (*models.Dispute, error) {
	dispute, ok := f.disputes[id]
	if !ok || dispute.OrganizationID != orgID {
		return nil, repositories.ErrDisputeNotFound
	}
	return dispute, nil
}

func (f *fakeDisputeRepo) ListByMatch(_ context.Context, orgID, matchID int) ([]*models.Dispute, error) {
	var out []*models.Dispute
	for _, d := range f.disputes {
		if d.OrganizationID == orgID && d.MatchID == matchID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputeRepo) MarkResolved(_ context.Context, _ repositories.SQLExecutor, orgID, id, resolvedBy int, status models.DisputeStatus) error {
	dispute, ok := f.disputes[id]
	if !ok || dispute.OrganizationID != orgID {
		return repositories.ErrDisputeNotFound
	}
	dispute.Status = status
	if f.resolved == nil {
		f.resolved = make(map[int]models.DisputeStatus)
	}
	f.resolved[id] = status
	return nil
}

func (f *fakeDisputeRepo) CreateRuling(_ context.Context, _ repositories.SQLExecutor, ruling *models.Ruling) error {
	f.rulings = append(f.rulings, ruling)
	return nil
}

// stubStandingsService lets match and dispute tests observe recompute calls
// and inject failures without a full standings pipeline.
type stubStandingsService struct {
	computeCalls int
	computeErr   error
	snapshot     *models.StandingsSnapshot
}

func (s *stubStandingsService) GetStandings(context.Context, int, int, *int) (*models.StandingsSnapshot, error) {
	return s.snapshot, s.computeErr
}

func (s *stubStandingsService) ComputeStandings(context.Context, int, int, *int) (*models.StandingsSnapshot, error) {
	s.computeCalls++
	if s.computeErr != nil {
		return nil, s.computeErr
	}
	return s.snapshot, nil
}

func (s *stubStandingsService) RecomputeSeason(context.Context, int, int) (*models.StandingsSnapshot, error) {
	s.computeCalls++
	if s.computeErr != nil {
		return nil, s.computeErr
	}
	return s.snapshot, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtr(v int) *int { return &v }
