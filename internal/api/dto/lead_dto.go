package dto

import (
	"time"

	"github.com/orta-study/crm-backend/internal/domain"
)

// CreateLeadRequest is the public lead submission payload.
type CreateLeadRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   string  `json:"phone"`
	Message *string `json:"message"`
}

// UpdateLeadRequest carries a status change and/or reassignment.
type UpdateLeadRequest struct {
	Status     NullableString `json:"status"`
	AssignedTo NullableString `json:"assigned_to"`
}

// ToDomain converts the request into a partial update. A null status is kept
// as an empty status so that validation rejects it.
func (r UpdateLeadRequest) ToDomain() domain.LeadUpdate {
	var update domain.LeadUpdate
	if r.Status.Present {
		var status domain.LeadStatus
		if r.Status.Value != nil {
			status = domain.LeadStatus(*r.Status.Value)
		}
		update.Status = domain.Some(status)
	}
	if r.AssignedTo.Present {
		update.AssignedTo = domain.Some(r.AssignedTo.Value)
	}
	return update
}

// LeadResponse is the lead representation returned by the API.
type LeadResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          *string           `json:"email"`
	Phone          string            `json:"phone"`
	Message        *string           `json:"message"`
	Status         domain.LeadStatus `json:"status"`
	AssignedTo     *string           `json:"assigned_to"`
	AssignedToName *string           `json:"assigned_to_name"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewLeadResponse maps a domain lead.
func NewLeadResponse(lead *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Message:        lead.Message,
		Status:         lead.Status,
		AssignedTo:     lead.AssignedTo,
		AssignedToName: lead.AssignedToName,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
}
