package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/events"
	"github.com/orta-study/crm-backend/internal/policy"
	"github.com/orta-study/crm-backend/internal/repository"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

// LeadService is the only code path allowed to mutate leads. Every operation
// performs at most one fetch and one mutating statement, and validates fully
// before mutating.
type LeadService struct {
	leads      repository.LeadRepository
	directory  repository.UserDirectory
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Directory  repository.UserDirectory
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// LeadCreateInput describes a public lead submission.
type LeadCreateInput struct {
	Name    string
	Phone   string
	Email   *string
	Message *string
}

// LeadListFilter holds the optional exact-match list filters.
type LeadListFilter struct {
	Status     *domain.LeadStatus
	AssignedTo *string
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		leads:      deps.LeadRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateLead records a new inquiry. Open to anonymous callers.
func (s *LeadService) CreateLead(ctx context.Context, actor *domain.Actor, input LeadCreateInput) (*domain.Lead, error) {
	if err := policy.Authorize(actor, policy.OpCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, apperrors.NewValidationError("name and phone are required", map[string]any{
			"name":  name != "",
			"phone": phone != "",
		})
	}

	lead := &domain.Lead{
		Name:    name,
		Phone:   phone,
		Email:   optionalText(input.Email),
		Message: optionalText(input.Message),
		Status:  domain.LeadStatusNew,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.NewStoreFailure(fmt.Errorf("create lead: %w", err))
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadCreated,
		LeadID:  lead.ID,
		Actor:   eventActor(actor),
		Payload: events.LeadCreatedPayload{Name: lead.Name, Phone: lead.Phone},
	})
	return lead, nil
}

// ListLeads returns the leads visible to actor, newest first.
func (s *LeadService) ListLeads(ctx context.Context, actor *domain.Actor, filter LeadListFilter) ([]domain.Lead, error) {
	if err := policy.AuthorizeList(actor); err != nil {
		return nil, err
	}
	// Exact-match filters that cannot match any stored row yield an empty set.
	if filter.Status != nil && !filter.Status.Valid() {
		return []domain.Lead{}, nil
	}
	if filter.AssignedTo != nil && !isUUID(*filter.AssignedTo) {
		return []domain.Lead{}, nil
	}

	leads, err := s.leads.List(ctx, repository.LeadFilter{
		Status:     filter.Status,
		AssignedTo: filter.AssignedTo,
		VisibleTo:  policy.ListScope(actor),
	})
	if err != nil {
		return nil, apperrors.NewStoreFailure(fmt.Errorf("list leads: %w", err))
	}
	if leads == nil {
		leads = []domain.Lead{}
	}

	names := map[string]*string{}
	for i := range leads {
		s.resolveAssignee(ctx, &leads[i], names)
	}
	return leads, nil
}

// GetLead fetches a single lead the actor may see.
func (s *LeadService) GetLead(ctx context.Context, actor *domain.Actor, id string) (*domain.Lead, error) {
	if err := policy.Authorize(actor, policy.OpGet); err != nil {
		return nil, err
	}
	lead, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeView(actor, lead); err != nil {
		return nil, err
	}
	s.resolveAssignee(ctx, lead, nil)
	return lead, nil
}

// UpdateLead applies a status transition and/or reassignment.
// Any status may follow any other; setting the current status again only
// refreshes updated_at.
func (s *LeadService) UpdateLead(ctx context.Context, actor *domain.Actor, id string, update domain.LeadUpdate) (*domain.Lead, error) {
	if err := policy.Authorize(actor, policy.OpUpdate); err != nil {
		return nil, err
	}
	current, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUpdate(actor, current, update); err != nil {
		return nil, err
	}
	if assignee, ok := update.AssignedTo.Get(); ok && assignee != nil && !isUUID(*assignee) {
		return nil, apperrors.NewValidationError("invalid assigned_to", map[string]any{"assigned_to": *assignee})
	}

	updated, err := s.leads.Update(ctx, current.ID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Deleted between fetch and update.
			return nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": id})
		}
		return nil, apperrors.NewStoreFailure(fmt.Errorf("update lead %s: %w", id, err))
	}

	if status, ok := update.Status.Get(); ok && status != current.Status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventLeadStatusChanged,
			LeadID:  updated.ID,
			Actor:   eventActor(actor),
			Payload: events.LeadStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
		})
	}
	if assignee, ok := update.AssignedTo.Get(); ok && !sameAssignee(current.AssignedTo, assignee) {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventLeadAssigned,
			LeadID:  updated.ID,
			Actor:   eventActor(actor),
			Payload: events.LeadAssignedPayload{PreviousAssignee: current.AssignedTo, Assignee: assignee},
		})
	}

	s.resolveAssignee(ctx, updated, nil)
	return updated, nil
}

// DeleteLead permanently removes a lead. Admin only.
func (s *LeadService) DeleteLead(ctx context.Context, actor *domain.Actor, id string) error {
	if err := policy.AuthorizeDelete(actor); err != nil {
		return err
	}
	if !isUUID(id) {
		return apperrors.NewNotFound("lead", map[string]any{"lead_id": id})
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("lead", map[string]any{"lead_id": id})
		}
		return apperrors.NewStoreFailure(fmt.Errorf("delete lead %s: %w", id, err))
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadDeleted,
		LeadID: id,
		Actor:  eventActor(actor),
	})
	return nil
}

func (s *LeadService) fetch(ctx context.Context, id string) (*domain.Lead, error) {
	if !isUUID(id) {
		return nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": id})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": id})
		}
		return nil, apperrors.NewStoreFailure(fmt.Errorf("get lead %s: %w", id, err))
	}
	return lead, nil
}

// resolveAssignee fills AssignedToName. Lookup failures only cost the name:
// the operation itself has already been decided or committed.
func (s *LeadService) resolveAssignee(ctx context.Context, lead *domain.Lead, memo map[string]*string) {
	lead.AssignedToName = nil
	if lead.AssignedTo == nil || s.directory == nil {
		return
	}
	id := *lead.AssignedTo
	if memo != nil {
		if name, seen := memo[id]; seen {
			lead.AssignedToName = name
			return
		}
	}

	var resolved *string
	name, ok, err := s.directory.DisplayName(ctx, id)
	switch {
	case err != nil:
		s.logger.Warn("resolve assignee name", zap.String("lead_id", lead.ID), zap.String("user_id", id), zap.Error(err))
	case ok:
		resolved = &name
	}
	lead.AssignedToName = resolved
	if memo != nil && err == nil {
		memo[id] = resolved
	}
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("lead event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("lead_id", event.LeadID),
			zap.Error(err))
	}
}

func eventActor(actor *domain.Actor) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	id := actor.ID
	return events.Actor{ID: &id, Role: actor.Role}
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
