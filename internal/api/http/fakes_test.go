package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/repository"
)

type leadStore struct {
	mu   sync.Mutex
	rows map[string]domain.Lead
	now  time.Time
}

func newLeadStore() *leadStore {
	return &leadStore{rows: map[string]domain.Lead{}, now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (s *leadStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *leadStore) Create(_ context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead.ID = uuid.NewString()
	lead.CreatedAt = s.tick()
	lead.UpdatedAt = lead.CreatedAt
	s.rows[lead.ID] = *lead
	return nil
}

func (s *leadStore) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &lead, nil
}

func (s *leadStore) List(_ context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Lead{}
	for _, lead := range s.rows {
		if filter.Status != nil && lead.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (lead.AssignedTo == nil || *lead.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.VisibleTo != nil && lead.AssignedTo != nil && *lead.AssignedTo != *filter.VisibleTo {
			continue
		}
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *leadStore) Update(_ context.Context, id string, update domain.LeadUpdate) (*domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if status, ok := update.Status.Get(); ok {
		lead.Status = status
	}
	if assignee, ok := update.AssignedTo.Get(); ok {
		lead.AssignedTo = assignee
	}
	lead.UpdatedAt = s.tick()
	s.rows[id] = lead
	return &lead, nil
}

func (s *leadStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.rows, id)
	return nil
}

func (s *leadStore) put(lead domain.Lead) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead.ID = uuid.NewString()
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}
	lead.CreatedAt = s.tick()
	lead.UpdatedAt = lead.CreatedAt
	s.rows[lead.ID] = lead
	return lead.ID
}

// unassign mirrors the ON DELETE SET NULL foreign key.
func (s *leadStore) unassign(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, lead := range s.rows {
		if lead.AssignedTo != nil && *lead.AssignedTo == userID {
			lead.AssignedTo = nil
			s.rows[id] = lead
		}
	}
}

type userStore struct {
	mu    sync.Mutex
	rows  map[string]domain.User
	leads *leadStore
}

func newUserStore(leads *leadStore) *userStore {
	return &userStore{rows: map[string]domain.User{}, leads: leads}
}

func (s *userStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	s.rows[user.ID] = *user
	return nil
}

func (s *userStore) Update(_ context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if v, ok := update.Email.Get(); ok {
		user.Email = v
	}
	if v, ok := update.Role.Get(); ok {
		user.Role = v
	}
	if v, ok := update.Name.Get(); ok {
		user.Name = v
	}
	if v, ok := update.Phone.Get(); ok {
		user.Phone = v
	}
	if v, ok := update.Password.Get(); ok {
		user.PasswordHash = v
	}
	s.rows[id] = user
	return &user, nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.rows {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *userStore) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, user := range s.rows {
		if role == nil || user.Role == *role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *userStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.rows[id]; !ok {
		s.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(s.rows, id)
	s.mu.Unlock()
	s.leads.unassign(id)
	return nil
}

func (s *userStore) DisplayName(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[id]
	return user.Name, ok, nil
}

type chatStore struct {
	mu   sync.Mutex
	rows []domain.ChatMessage
	now  time.Time
}

func (s *chatStore) Create(_ context.Context, msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Second)
	msg.ID = uuid.NewString()
	msg.CreatedAt = s.now
	s.rows = append(s.rows, *msg)
	return nil
}

func (s *chatStore) ListRecent(_ context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ChatMessage{}
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if s.rows[i].UserID == userID {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}

func (s *chatStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	var n int64
	for _, msg := range s.rows {
		if msg.UserID == userID {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	s.rows = kept
	return n, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
