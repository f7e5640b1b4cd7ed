// Package authz centralizes the role and ownership decisions for
// every protected operation, so handlers never hand-roll permission
// checks.
package authz

import (
	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/model"
)

// Action names a protected operation.
type Action string

const (
	ActionManageJob         Action = "job:manage"
	ActionViewApplications  Action = "application:view"
	ActionDecideApplication Action = "application:decide"
	ActionApply             Action = "application:apply"
	ActionEditProfile       Action = "profile:edit"
	ActionViewResume        Action = "resume:view"
	ActionAdmin             Action = "admin"
)

// actionRoles lists which roles may attempt each action at all.
// Ownership is checked separately by Decide.
var actionRoles = map[Action][]string{
	ActionManageJob:         {model.RoleHR, model.RoleSuperAdmin},
	ActionViewApplications:  {model.RoleHR, model.RoleSuperAdmin},
	ActionDecideApplication: {model.RoleHR, model.RoleSuperAdmin},
	ActionApply:             {model.RoleApplicant},
	ActionEditProfile:       {model.RoleApplicant, model.RoleHR, model.RoleSuperAdmin},
	ActionViewResume:        {model.RoleApplicant, model.RoleHR, model.RoleSuperAdmin},
	ActionAdmin:             {model.RoleSuperAdmin},
}

// Decide reports whether caller may perform action against a resource
// owned by ownerID. Pass ownerID 0 when the action has no owned
// resource. Super admins pass every ownership gate but still fail role
// gates that exclude them (an admin cannot apply to a job).
func Decide(caller model.User, action Action, ownerID uint) error {
	if caller.IsAnonymous() {
		return apperr.Authorization("authentication required")
	}

	roles, known := actionRoles[action]
	if !known {
		return apperr.Internal("unknown action %q", action)
	}

	if !containsRole(roles, caller.Role) {
		return apperr.Authorization("role %s may not perform this operation", caller.Role)
	}

	if ownerID == 0 {
		return nil
	}

	if caller.Role == model.RoleSuperAdmin || caller.ID == ownerID {
		return nil
	}

	return apperr.Authorization("resource belongs to another user")
}

// RequireRole checks only the role gate, for operations that have no
// owned resource.
func RequireRole(caller model.User, roles ...string) error {
	if caller.IsAnonymous() {
		return apperr.Authorization("authentication required")
	}
	if !containsRole(roles, caller.Role) {
		return apperr.Authorization("role %s may not perform this operation", caller.Role)
	}
	return nil
}

func containsRole(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
