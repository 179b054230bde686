package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		op       Operation
		want     Decision
	}{
		{"admin lists users", models.RoleAdmin, ResourceUsers, OpList, Allow},
		{"office staff cannot list users", models.RoleOfficeStaff, ResourceUsers, OpList, Deny},
		{"librarian cannot create users", models.RoleLibrarian, ResourceUsers, OpCreate, Deny},
		{"student cannot delete users", models.RoleStudent, ResourceUsers, OpDelete, Deny},

		{"office staff lists students", models.RoleOfficeStaff, ResourceStudents, OpList, Allow},
		{"librarian reads students", models.RoleLibrarian, ResourceStudents, OpRead, Allow},
		{"student cannot list students", models.RoleStudent, ResourceStudents, OpList, Deny},
		{"office staff cannot create students", models.RoleOfficeStaff, ResourceStudents, OpCreate, Deny},
		{"librarian cannot update students", models.RoleLibrarian, ResourceStudents, OpUpdate, Deny},
		{"admin deletes students", models.RoleAdmin, ResourceStudents, OpDelete, Allow},

		{"librarian lists library", models.RoleLibrarian, ResourceLibrary, OpList, Allow},
		{"student lists own library records", models.RoleStudent, ResourceLibrary, OpList, AllowOwn},
		{"student creates own library record", models.RoleStudent, ResourceLibrary, OpCreate, AllowOwn},
		{"office staff cannot create library records", models.RoleOfficeStaff, ResourceLibrary, OpCreate, Deny},
		{"librarian cannot update library records", models.RoleLibrarian, ResourceLibrary, OpUpdate, Deny},
		{"librarian cannot delete library records", models.RoleLibrarian, ResourceLibrary, OpDelete, Deny},
		{"admin updates library records", models.RoleAdmin, ResourceLibrary, OpUpdate, Allow},

		{"office staff lists fees", models.RoleOfficeStaff, ResourceFees, OpList, Allow},
		{"office staff creates fees", models.RoleOfficeStaff, ResourceFees, OpCreate, Allow},
		{"student reads own fees", models.RoleStudent, ResourceFees, OpRead, AllowOwn},
		{"student deletes own fees", models.RoleStudent, ResourceFees, OpDelete, AllowOwn},
		{"librarian cannot list fees", models.RoleLibrarian, ResourceFees, OpList, Deny},
		{"librarian cannot read fees", models.RoleLibrarian, ResourceFees, OpRead, Deny},
		{"librarian cannot create fees", models.RoleLibrarian, ResourceFees, OpCreate, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.role, tt.resource, tt.op))
		})
	}
}

func TestDecideUnknownFallsThroughToDeny(t *testing.T) {
	assert.Equal(t, Deny, Decide(models.Role("principal"), ResourceUsers, OpList))
	assert.Equal(t, Deny, Decide(models.RoleAdmin, Resource("grades"), OpList))
	assert.Equal(t, Deny, Decide(models.RoleAdmin, ResourceUsers, Operation("export")))
}

func TestAuthorizeDenyCarriesReason(t *testing.T) {
	caller := models.Caller{UserID: 7, Role: models.RoleStudent}

	decision, err := Authorize(caller, ResourceUsers, OpCreate)
	assert.Equal(t, Deny, decision)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "only admin can add users", err.Error())
}

func TestAuthorizeAllow(t *testing.T) {
	caller := models.Caller{UserID: 1, Role: models.RoleAdmin}

	decision, err := Authorize(caller, ResourceFees, OpDelete)
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)
}

func TestRequireOwner(t *testing.T) {
	caller := models.Caller{UserID: 42, Role: models.RoleStudent}
	own := int64(42)
	other := int64(99)

	assert.NoError(t, RequireOwner(caller, ResourceLibrary, OpRead, &own))

	err := RequireOwner(caller, ResourceLibrary, OpRead, &other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "You can only view your own library records.", err.Error())

	// Records whose profile has no linked identity belong to nobody.
	err = RequireOwner(caller, ResourceFees, OpDelete, nil)
	require.Error(t, err)
	assert.Equal(t, "You can only delete your own fee records.", err.Error())
}
