package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orta-study/crm-backend/internal/domain"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

var (
	admin   = &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	sales1  = &domain.Actor{ID: "sales-1", Role: domain.RoleSales}
	sales2  = &domain.Actor{ID: "sales-2", Role: domain.RoleSales}
	student = &domain.Actor{ID: "student-1", Role: domain.RoleStudent}
)

func strPtr(s string) *string { return &s }

func unassignedLead() *domain.Lead {
	return &domain.Lead{ID: "lead-1", Status: domain.LeadStatusNew}
}

func leadOwnedBy(id string) *domain.Lead {
	return &domain.Lead{ID: "lead-2", Status: domain.LeadStatusContacted, AssignedTo: strPtr(id)}
}

func TestAuthorizeRoleTable(t *testing.T) {
	cases := []struct {
		name  string
		actor *domain.Actor
		op    Operation
		code  string
	}{
		{"anonymous create", nil, OpCreate, ""},
		{"student create", student, OpCreate, ""},
		{"anonymous list", nil, OpList, apperrors.CodeUnauthorized},
		{"student list", student, OpList, apperrors.CodeForbidden},
		{"sales list", sales1, OpList, ""},
		{"admin list", admin, OpList, ""},
		{"student get", student, OpGet, apperrors.CodeForbidden},
		{"sales delete", sales1, OpDelete, apperrors.CodeForbidden},
		{"student delete", student, OpDelete, apperrors.CodeForbidden},
		{"admin delete", admin, OpDelete, ""},
		{"sales assign", sales1, OpAssign, apperrors.CodeForbidden},
		{"admin assign", admin, OpAssign, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.op)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestOwns(t *testing.T) {
	assert.True(t, Owns(admin, leadOwnedBy("sales-2")))
	assert.True(t, Owns(sales1, unassignedLead()))
	assert.True(t, Owns(sales1, leadOwnedBy("sales-1")))
	assert.False(t, Owns(sales1, leadOwnedBy("sales-2")))
	assert.False(t, Owns(student, unassignedLead()))
	assert.False(t, Owns(nil, unassignedLead()))
}

func TestListScope(t *testing.T) {
	assert.Nil(t, ListScope(admin))
	assert.Nil(t, ListScope(nil))
	scope := ListScope(sales1)
	if assert.NotNil(t, scope) {
		assert.Equal(t, "sales-1", *scope)
	}
}

func TestAuthorizeViewForeignLeadForbidden(t *testing.T) {
	err := AuthorizeView(sales1, leadOwnedBy("sales-2"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	assert.NoError(t, AuthorizeView(sales2, leadOwnedBy("sales-2")))
	assert.NoError(t, AuthorizeView(admin, leadOwnedBy("sales-2")))
}

func TestAuthorizeUpdate(t *testing.T) {
	contacted := domain.Some(domain.LeadStatusContacted)
	assignTo := domain.Some(strPtr("sales-1"))

	cases := []struct {
		name   string
		actor  *domain.Actor
		lead   *domain.Lead
		update domain.LeadUpdate
		code   string
	}{
		{"admin status", admin, leadOwnedBy("sales-2"), domain.LeadUpdate{Status: contacted}, ""},
		{"admin assign", admin, unassignedLead(), domain.LeadUpdate{AssignedTo: assignTo}, ""},
		{"admin unassign", admin, leadOwnedBy("sales-1"), domain.LeadUpdate{AssignedTo: domain.Some[*string](nil)}, ""},
		{"sales status on own", sales1, leadOwnedBy("sales-1"), domain.LeadUpdate{Status: contacted}, ""},
		{"sales status on unassigned", sales1, unassignedLead(), domain.LeadUpdate{Status: contacted}, ""},
		{"sales foreign lead", sales1, leadOwnedBy("sales-2"), domain.LeadUpdate{Status: contacted}, apperrors.CodeForbidden},
		{"sales assign own", sales1, leadOwnedBy("sales-1"), domain.LeadUpdate{AssignedTo: assignTo}, apperrors.CodeForbidden},
		{"sales assign with valid status", sales1, unassignedLead(), domain.LeadUpdate{Status: contacted, AssignedTo: assignTo}, apperrors.CodeForbidden},
		{"invalid status", admin, unassignedLead(), domain.LeadUpdate{Status: domain.Some(domain.LeadStatus("won"))}, apperrors.CodeValidation},
		{"empty update", admin, unassignedLead(), domain.LeadUpdate{}, apperrors.CodeValidation},
		{"student", student, unassignedLead(), domain.LeadUpdate{Status: contacted}, apperrors.CodeForbidden},
		{"anonymous", nil, unassignedLead(), domain.LeadUpdate{Status: contacted}, apperrors.CodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeUpdate(tc.actor, tc.lead, tc.update)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestAuthorizeUpdateOwnershipBeforeValidation(t *testing.T) {
	// A foreign lead is forbidden even when the payload is also invalid.
	err := AuthorizeUpdate(sales1, leadOwnedBy("sales-2"), domain.LeadUpdate{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestAuthorizeDelete(t *testing.T) {
	assert.NoError(t, AuthorizeDelete(admin))
	assert.True(t, apperrors.IsCode(AuthorizeDelete(sales1), apperrors.CodeForbidden))
	assert.True(t, apperrors.IsCode(AuthorizeDelete(student), apperrors.CodeForbidden))
	assert.True(t, apperrors.IsCode(AuthorizeDelete(nil), apperrors.CodeUnauthorized))
}
