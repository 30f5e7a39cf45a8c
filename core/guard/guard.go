// Package guard holds the ownership and role checks shared by every
// mutating library operation.
package guard

import (
	"Tuder/core/apperr"
	"Tuder/model"
)

// Authorize allows the action only when actorID owns the record.
func Authorize(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return apperr.PermissionDenied("you are not the owner of this resource")
	}
	return nil
}

// RequireRole denies users that do not hold role. A nil user is denied.
func RequireRole(user *model.User, role model.Role) error {
	if user == nil || !user.Roles.Has(role) {
		return apperr.PermissionDenied("the %s role is required", role)
	}
	return nil
}
