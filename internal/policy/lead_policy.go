// Package policy decides which actor may see, change, assign or remove a lead.
// Every function here is pure: no I/O, no clock, no logging.
package policy

import (
	"github.com/orta-study/crm-backend/internal/domain"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

// Operation identifies an action on leads.
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpAssign Operation = "assign"
)

// public operations accept an anonymous caller.
var public = map[Operation]bool{
	OpCreate: true,
}

var roleTable = map[Operation]map[domain.Role]bool{
	OpList:   {domain.RoleAdmin: true, domain.RoleSales: true},
	OpGet:    {domain.RoleAdmin: true, domain.RoleSales: true},
	OpCreate: {domain.RoleAdmin: true, domain.RoleSales: true, domain.RoleStudent: true},
	OpUpdate: {domain.RoleAdmin: true, domain.RoleSales: true},
	OpDelete: {domain.RoleAdmin: true},
	OpAssign: {domain.RoleAdmin: true},
}

// Permits reports whether the role table lets actor perform op, ignoring ownership.
func Permits(actor *domain.Actor, op Operation) bool {
	if actor == nil {
		return public[op]
	}
	if public[op] {
		return true
	}
	return roleTable[op][actor.Role]
}

// Authorize checks the role table for op.
func Authorize(actor *domain.Actor, op Operation) error {
	if Permits(actor, op) {
		return nil
	}
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return apperrors.NewForbidden("operation not permitted for role")
}

// Owns reports whether actor may act on the lead under the ownership rule:
// admins always, sales only on unassigned leads or leads assigned to them.
func Owns(actor *domain.Actor, lead *domain.Lead) bool {
	if actor == nil || lead == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSales:
		return lead.AssignedTo == nil || *lead.AssignedTo == actor.ID
	default:
		return false
	}
}

// ListScope returns the owner id a sales actor's listing is restricted to
// (assigned to that id or unassigned). Nil means unrestricted.
func ListScope(actor *domain.Actor) *string {
	if actor == nil || actor.Role != domain.RoleSales {
		return nil
	}
	id := actor.ID
	return &id
}

// AuthorizeList checks whether actor may list leads.
func AuthorizeList(actor *domain.Actor) error {
	return Authorize(actor, OpList)
}

// AuthorizeView checks whether actor may read the lead.
func AuthorizeView(actor *domain.Actor, lead *domain.Lead) error {
	if err := Authorize(actor, OpGet); err != nil {
		return err
	}
	if !Owns(actor, lead) {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}

// AuthorizeUpdate validates a partial update of lead by actor.
// Checks run in order: role, ownership, status value, assignment authority,
// and finally the presence of at least one field.
func AuthorizeUpdate(actor *domain.Actor, lead *domain.Lead, update domain.LeadUpdate) error {
	if err := Authorize(actor, OpUpdate); err != nil {
		return err
	}
	if !Owns(actor, lead) {
		return apperrors.NewForbidden("access denied")
	}
	if status, ok := update.Status.Get(); ok && !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{
			"status":  string(status),
			"allowed": domain.LeadStatuses,
		})
	}
	if update.AssignedTo.IsSet() && !Permits(actor, OpAssign) {
		return apperrors.NewForbidden("insufficient rights to assign leads")
	}
	if update.IsEmpty() {
		return apperrors.NewValidationError("nothing to update", nil)
	}
	return nil
}

// AuthorizeDelete checks whether actor may remove leads.
func AuthorizeDelete(actor *domain.Actor) error {
	return Authorize(actor, OpDelete)
}
