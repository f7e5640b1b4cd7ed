package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/model"
)

var (
	applicant = model.User{ID: 1, Role: model.RoleApplicant, IsApproved: true}
	hrOwner   = model.User{ID: 2, Role: model.RoleHR, IsApproved: true}
	hrOther   = model.User{ID: 3, Role: model.RoleHR, IsApproved: true}
	admin     = model.User{ID: 4, Role: model.RoleSuperAdmin, IsApproved: true}
	anonymous = model.User{}
)

func TestDecideRoleGate(t *testing.T) {
	assert.NoError(t, Decide(hrOwner, ActionManageJob, hrOwner.ID))
	assert.NoError(t, Decide(applicant, ActionApply, 0))

	err := Decide(applicant, ActionManageJob, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Admins do not apply to jobs.
	err = Decide(admin, ActionApply, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestDecideOwnership(t *testing.T) {
	err := Decide(hrOther, ActionManageJob, hrOwner.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Super admin passes every ownership gate.
	assert.NoError(t, Decide(admin, ActionManageJob, hrOwner.ID))
	assert.NoError(t, Decide(admin, ActionDecideApplication, hrOwner.ID))
}

func TestDecideAnonymous(t *testing.T) {
	err := Decide(anonymous, ActionViewApplications, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestDecideUnknownAction(t *testing.T) {
	err := Decide(admin, Action("made-up"), 0)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(admin, model.RoleSuperAdmin))
	assert.Error(t, RequireRole(applicant, model.RoleSuperAdmin))
	assert.Error(t, RequireRole(anonymous, model.RoleApplicant))
}
