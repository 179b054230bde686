package policy

import (
	"fmt"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

// Resource identifies a protected resource type.
type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceStudents Resource = "students"
	ResourceLibrary  Resource = "library"
	ResourceFees     Resource = "fees"
)

// Operation identifies an action against a resource.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	// Deny refuses the operation outright.
	Deny Decision = iota
	// Allow grants the operation over all records.
	Allow
	// AllowOwn grants the operation restricted to records owned by the
	// caller: lists are filtered to owner==caller, single-record
	// operations re-check ownership, and creates force the owner to the
	// caller's own profile.
	AllowOwn
)

// matrix is the authoritative permission table. Every (resource, operation,
// role) cell is listed; anything absent is Deny.
var matrix = map[Resource]map[Operation]map[models.Role]Decision{
	ResourceUsers: {
		OpList:   {models.RoleAdmin: Allow},
		OpRead:   {models.RoleAdmin: Allow},
		OpCreate: {models.RoleAdmin: Allow},
		OpUpdate: {models.RoleAdmin: Allow},
		OpDelete: {models.RoleAdmin: Allow},
	},
	ResourceStudents: {
		OpList:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleLibrarian: Allow},
		OpRead:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleLibrarian: Allow},
		OpCreate: {models.RoleAdmin: Allow},
		OpUpdate: {models.RoleAdmin: Allow},
		OpDelete: {models.RoleAdmin: Allow},
	},
	ResourceLibrary: {
		OpList:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleLibrarian: Allow, models.RoleStudent: AllowOwn},
		OpRead:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleLibrarian: Allow, models.RoleStudent: AllowOwn},
		OpCreate: {models.RoleAdmin: Allow, models.RoleStudent: AllowOwn},
		OpUpdate: {models.RoleAdmin: Allow, models.RoleStudent: AllowOwn},
		OpDelete: {models.RoleAdmin: Allow, models.RoleStudent: AllowOwn},
	},
	ResourceFees: {
		OpList:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleStudent: AllowOwn},
		OpRead:   {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleStudent: AllowOwn},
		OpCreate: {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleStudent: AllowOwn},
		OpUpdate: {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleStudent: AllowOwn},
		OpDelete: {models.RoleAdmin: Allow, models.RoleOfficeStaff: Allow, models.RoleStudent: AllowOwn},
	},
}

// denyReasons carries the human-readable reason surfaced on a 403,
// per resource and operation.
var denyReasons = map[Resource]map[Operation]string{
	ResourceUsers: {
		OpList:   "only admin can get the details of users",
		OpRead:   "only admin can get the details of users",
		OpCreate: "only admin can add users",
		OpUpdate: "only admin can edit users",
		OpDelete: "only admin can delete users",
	},
	ResourceStudents: {
		OpList:   "You do not have permission to view student details.",
		OpRead:   "You do not have permission to view student details.",
		OpCreate: "Only admins can add student details.",
		OpUpdate: "Only admins can update student details.",
		OpDelete: "Only admins can delete student details.",
	},
	ResourceLibrary: {
		OpList:   "You do not have permission to view library records.",
		OpRead:   "You do not have permission to view library records.",
		OpCreate: "You do not have permission to add library records.",
		OpUpdate: "You do not have permission to edit library records.",
		OpDelete: "You do not have permission to delete library records.",
	},
	ResourceFees: {
		OpList:   "You do not have permission to view fee records.",
		OpRead:   "You do not have permission to view fee records.",
		OpCreate: "You do not have permission to add fee records.",
		OpUpdate: "You do not have permission to edit fee records.",
		OpDelete: "You do not have permission to delete fee records.",
	},
}

// ownReasons carries the reason surfaced when an owner-scoped caller
// touches somebody else's record.
var ownReasons = map[Resource]map[Operation]string{
	ResourceLibrary: {
		OpRead:   "You can only view your own library records.",
		OpUpdate: "You can only edit your own library records.",
		OpDelete: "You can only delete your own library records.",
	},
	ResourceFees: {
		OpRead:   "You can only view your own fee records.",
		OpUpdate: "You can only edit your own fee records.",
		OpDelete: "You can only delete your own fee records.",
	},
}

// Decide returns the matrix cell for (role, resource, operation). Unknown
// roles, resources or operations fall through to Deny.
func Decide(role models.Role, resource Resource, op Operation) Decision {
	ops, ok := matrix[resource]
	if !ok {
		return Deny
	}
	roles, ok := ops[op]
	if !ok {
		return Deny
	}
	return roles[role] // zero value is Deny
}

// Authorize evaluates the matrix for the caller and returns the decision.
// On Deny it returns a Forbidden error carrying the reason; callers must
// surface it before touching the store.
func Authorize(caller models.Caller, resource Resource, op Operation) (Decision, error) {
	decision := Decide(caller.Role, resource, op)
	if decision == Deny {
		return Deny, apperrors.NewForbiddenError(denyReason(resource, op))
	}
	return decision, nil
}

// RequireOwner enforces ownership for an AllowOwn decision on a specific
// record. ownerUserID is the record's owning identity (nil when the owning
// profile has no linked identity). An existing record owned by someone
// else is Forbidden, never NotFound.
func RequireOwner(caller models.Caller, resource Resource, op Operation, ownerUserID *int64) error {
	if ownerUserID != nil && *ownerUserID == caller.UserID {
		return nil
	}
	return apperrors.NewForbiddenError(ownReason(resource, op))
}

func denyReason(resource Resource, op Operation) string {
	if ops, ok := denyReasons[resource]; ok {
		if reason, ok := ops[op]; ok {
			return reason
		}
	}
	return fmt.Sprintf("You do not have permission to %s %s.", op, resource)
}

func ownReason(resource Resource, op Operation) string {
	if ops, ok := ownReasons[resource]; ok {
		if reason, ok := ops[op]; ok {
			return reason
		}
	}
	return fmt.Sprintf("You can only %s your own %s records.", op, resource)
}
