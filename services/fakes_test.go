package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/papaya-padel/tournament-system/models"
	"github.com/papaya-padel/tournament-system/repositories"
	"github.com/papaya-padel/tournament-system/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory stand-in for the postgres repositories.
type memStore struct {
	mu           sync.Mutex
	nextID       int
	users        map[int]*models.User
	tournaments  map[int]*models.Tournament
	participants []*models.Participant
	matches      map[int][]*models.Match

	replaceErr   error
	replaceCalls int
	listErr      error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int]*models.User),
		tournaments: make(map[int]*models.Tournament),
		matches:     make(map[int][]*models.Match),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) addTournament(format models.TournamentFormat, status models.TournamentStatus) *models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Tournament{
		ID:        s.id(),
		Name:      "Test " + string(format),
		Format:    format,
		StartDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:    status,
	}
	s.tournaments[t.ID] = t
	return t
}

func (s *memStore) addParticipants(tournamentID int, userIDs ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, uid := range userIDs {
		s.participants = append(s.participants, &models.Participant{ID: s.id(), TournamentID: tournamentID, UserID: uid})
	}
}

func (s *memStore) matchesOf(tournamentID int) []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Match(nil), s.matches[tournamentID]...)
}

type memUserRepo struct{ *memStore }

func (r memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.id()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type memTournamentRepo struct{ *memStore }

func (r memTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.id()
	c := *t
	r.tournaments[t.ID] = &c
	return nil
}

func (r memTournamentRepo) CreateMany(ctx context.Context, ts []*models.Tournament) error {
	for _, t := range ts {
		if err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r memTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (r memTournamentRepo) ListByStatus(_ context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.Status == status {
			list = append(list, *t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.Before(list[j].StartDate)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r memTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	t.Status = status
	c := *t
	return &c, nil
}

func (r memTournamentRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tournaments = make(map[int]*models.Tournament)
	r.participants = nil
	r.matches = make(map[int][]*models.Match)
	return nil
}

type memParticipantRepo struct{ *memStore }

func (r memParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[p.TournamentID]; !ok {
		return repositories.ErrParticipantTournamentInvalid
	}
	for _, existing := range r.participants {
		if existing.TournamentID == p.TournamentID && existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.id()
	p.CreatedAt = time.Now()
	c := *p
	r.participants = append(r.participants, &c)
	return nil
}

func (r memParticipantRepo) FindByUserAndTournament(_ context.Context, userID, tournamentID int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r memParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	list := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

type memMatchRepo struct{ *memStore }

func (r memMatchRepo) ReplaceForTournament(_ context.Context, tournamentID int, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	if _, ok := r.tournaments[tournamentID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	stored := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		m.ID = r.id()
		c := *m
		stored = append(stored, &c)
	}
	r.matches[tournamentID] = stored
	return nil
}

func (r memMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Match{}, r.matches[tournamentID]...), nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (n *recordingNotifier) NotifyScheduleGenerated(tournamentID int, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, tournamentID)
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (u *memUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
