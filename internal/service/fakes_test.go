package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/repository"
)

// memLeadStore mimics the Postgres repository closely enough for service tests.
type memLeadStore struct {
	mu    sync.Mutex
	rows  map[string]domain.Lead
	clock time.Time
}

func newMemLeadStore() *memLeadStore {
	return &memLeadStore{
		rows:  map[string]domain.Lead{},
		clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memLeadStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memLeadStore) Create(_ context.Context, lead *domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead.ID = uuid.NewString()
	lead.CreatedAt = m.tick()
	lead.UpdatedAt = lead.CreatedAt
	m.rows[lead.ID] = *lead
	return nil
}

func (m *memLeadStore) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &lead, nil
}

func (m *memLeadStore) List(_ context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []domain.Lead{}
	for _, lead := range m.rows {
		if filter.Status != nil && lead.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (lead.AssignedTo == nil || *lead.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.VisibleTo != nil && lead.AssignedTo != nil && *lead.AssignedTo != *filter.VisibleTo {
			continue
		}
		result = append(result, lead)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *memLeadStore) Update(_ context.Context, id string, update domain.LeadUpdate) (*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.IsEmpty() {
		return nil, repository.ErrEmptyUpdate
	}
	if status, ok := update.Status.Get(); ok {
		lead.Status = status
	}
	if assignee, ok := update.AssignedTo.Get(); ok {
		lead.AssignedTo = assignee
	}
	lead.UpdatedAt = m.tick()
	m.rows[id] = lead
	return &lead, nil
}

func (m *memLeadStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

// seed stores a lead directly, bypassing the service.
func (m *memLeadStore) seed(lead domain.Lead) domain.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}
	lead.CreatedAt = m.tick()
	lead.UpdatedAt = lead.CreatedAt
	m.rows[lead.ID] = lead
	return lead
}

func (m *memLeadStore) snapshot(id string) domain.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type mapDirectory map[string]string

func (d mapDirectory) DisplayName(_ context.Context, id string) (string, bool, error) {
	name, ok := d[id]
	return name, ok, nil
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, update domain.LeadUpdate) (*domain.Lead, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
