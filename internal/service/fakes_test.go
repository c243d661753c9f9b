package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

// fakeProfileStore хранит профили и журнал в памяти и повторяет
// транзакционное поведение ProfileRepository: ошибка fn откатывает изменения.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
	entries  []models.LedgerEntry

	lockErr           error
	updateBalanceErr  error
	updateUsernameErr error
}

func newFakeProfileStore(profiles ...*models.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[uuid.UUID]*models.Profile)}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *fakeProfileStore) WithLockedProfile(ctx context.Context, userID uuid.UUID, fn func(repository.ProfileTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockErr != nil {
		return s.lockErr
	}
	stored, ok := s.profiles[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}

	working := *stored
	tx := &fakeProfileTx{store: s, profile: &working}
	if err := fn(tx); err != nil {
		return err
	}

	*stored = working
	s.entries = append(s.entries, tx.pending...)
	return nil
}

func (s *fakeProfileStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID == userID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *fakeProfileStore) entriesFor(userID uuid.UUID) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

type fakeProfileTx struct {
	store   *fakeProfileStore
	profile *models.Profile
	pending []models.LedgerEntry
}

func (t *fakeProfileTx) Profile() *models.Profile {
	return t.profile
}

func (t *fakeProfileTx) UpdateBalance(ctx context.Context, balance float64) error {
	if t.store.updateBalanceErr != nil {
		return t.store.updateBalanceErr
	}
	t.profile.Balance = balance
	return nil
}

func (t *fakeProfileTx) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	entry.ID = uuid.New()
	entry.UserID = t.profile.UserID
	t.pending = append(t.pending, *entry)
	return nil
}

func (t *fakeProfileTx) LedgerEntryByKey(ctx context.Context, key string) (*models.LedgerEntry, error) {
	for _, e := range t.store.entries {
		if e.UserID == t.profile.UserID && e.IdempotencyKey != nil && *e.IdempotencyKey == key {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (t *fakeProfileTx) UsernameTaken(ctx context.Context, username string) (bool, error) {
	for id, p := range t.store.profiles {
		if id != t.profile.UserID && p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeProfileTx) UpdateUsername(ctx context.Context, username string, changes int) error {
	if t.store.updateUsernameErr != nil {
		return t.store.updateUsernameErr
	}
	t.profile.Username = username
	t.profile.UsernameChanges = changes
	return nil
}

// recordingEvents запоминает опубликованные профили.
type recordingEvents struct {
	mu       sync.Mutex
	profiles []models.Profile
}

func (r *recordingEvents) ProfileUpdated(ctx context.Context, profile *models.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, *profile)
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}
