package domain

import "time"

// LeadStatus enumerates the sales pipeline states of a lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusRejected  LeadStatus = "rejected"
)

// LeadStatuses lists every persisted status value.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusConverted,
	LeadStatusRejected,
}

// Valid reports whether s is one of the enumerated statuses.
func (s LeadStatus) Valid() bool {
	for _, candidate := range LeadStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Lead is a prospective customer's inquiry tracked through the sales pipeline.
type Lead struct {
	ID             string
	Name           string
	Email          *string
	Phone          string
	Message        *string
	Status         LeadStatus
	AssignedTo     *string
	AssignedToName *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAssigned reports whether the lead has an owner.
func (l *Lead) IsAssigned() bool {
	return l.AssignedTo != nil
}

// LeadUpdate is a partial update. AssignedTo holding a nil pointer means
// "unassign"; an absent AssignedTo leaves the owner untouched.
type LeadUpdate struct {
	Status     Optional[LeadStatus]
	AssignedTo Optional[*string]
}

// IsEmpty reports whether no recognized field was supplied.
func (u LeadUpdate) IsEmpty() bool {
	return !u.Status.IsSet() && !u.AssignedTo.IsSet()
}
