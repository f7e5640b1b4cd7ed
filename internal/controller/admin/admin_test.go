package admin

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/crypto/bcrypt"

	"TalentBridge-backend/internal/auth"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/middleware"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/storage"
	"TalentBridge-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func newAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	adc := NewAdminController(testDB, &storage.LocalStorageClient{BaseDir: t.TempDir()})
	r.GET("/api/admin/users", middleware.RequireAuth(), adc.ListUsers)
	r.DELETE("/api/admin/users/:id", middleware.RequireAuth(), adc.DeleteUser)
	r.GET("/api/admin/hr/pending", middleware.RequireAuth(), adc.ListPendingHR)
	r.PUT("/api/admin/approve-hr/:id", middleware.RequireAuth(), adc.ApproveHR)
	r.PUT("/api/admin/disable-hr/:id", middleware.RequireAuth(), adc.DisableHR)
	r.GET("/api/admin/applications", middleware.RequireAuth(), adc.ListApplications)
	r.DELETE("/api/admin/applications/:id", middleware.RequireAuth(), adc.DeleteApplication)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestSuperAdmin.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

// seedUser inserts a user row directly, bypassing registration.
func seedUser(t *testing.T, email, role string, approved bool) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(database.TestSeedPassword), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := model.User{
		FullName:   "Seeded " + role,
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		IsApproved: approved,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func TestApproveHR_idempotent(t *testing.T) {
	hr := seedUser(t, "pending-hr@approve.test", model.RoleHR, false)
	r := newAdminRouter(t)
	token := adminToken(t)
	url := fmt.Sprintf("/api/admin/approve-hr/%d", hr.ID)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, url, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_approved"])

	// Approving again changes nothing and still succeeds.
	rec, resp = testutil.MakeJSONRequest(nil, token, r, url, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_approved"])
}

func TestDisableHR_revokesAccess(t *testing.T) {
	hr := seedUser(t, "disable-hr@revoke.test", model.RoleHR, true)
	r := newAdminRouter(t)
	token := adminToken(t)

	// A token issued before the disable call still names an approved
	// account; approval is checked again when the identity is loaded.
	hrToken, err := auth.GetAccessToken(t, testDB, hr.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/disable-hr/%d", hr.ID), http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["is_approved"])

	rec, _ = testutil.MakeJSONRequest(nil, hrToken, r, "/api/admin/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveHR_nonHRTarget(t *testing.T) {
	r := newAdminRouter(t)
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/approve-hr/%d", database.TestApplicant1.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		"/api/admin/approve-hr/99999", http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPendingHR(t *testing.T) {
	r := newAdminRouter(t)
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/api/admin/hr/pending", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), database.TestHRUnapproved.Email)
	assert.NotContains(t, rec.Body.String(), database.TestHR1.Email)
}

func TestAdminEndpoints_forbiddenForNonAdmin(t *testing.T) {
	r := newAdminRouter(t)
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/api/admin/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/approve-hr/%d", database.TestHRUnapproved.ID), http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteUser_applicantCascades(t *testing.T) {
	applicant := seedUser(t, "doomed@delete.test", model.RoleApplicant, true)
	require.NoError(t, testDB.Create(&model.ApplicantDetails{ApplicantID: applicant.ID}).Error)
	require.NoError(t, testDB.Create(&model.ApplicantSkill{ApplicantID: applicant.ID, Skill: "sql"}).Error)

	job := model.JobPosting{
		HRID: database.TestHR1.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:    "Cascade target",
			Status:   model.JobStatusOpen,
			ImageURL: model.DefaultJobImageURL,
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	require.NoError(t, testDB.Create(&model.JobApplication{
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		Status:      model.ApplicationStatusPending,
		ResumeURL:   "resumes/doomed.pdf",
		AppliedAt:   time.Now(),
	}).Error)

	r := newAdminRouter(t)
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/users/%d", applicant.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", applicant.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, testDB.Model(&model.JobApplication{}).Where("applicant_id = ?", applicant.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, testDB.Model(&model.ApplicantSkill{}).Where("applicant_id = ?", applicant.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteUser_rejectsNonApplicant(t *testing.T) {
	r := newAdminRouter(t)
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/users/%d", database.TestHR1.ID), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteApplication(t *testing.T) {
	job := model.JobPosting{
		HRID: database.TestHR2.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:    "Admin delete target",
			Status:   model.JobStatusOpen,
			ImageURL: model.DefaultJobImageURL,
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	app := model.JobApplication{
		ApplicantID: database.TestApplicant1.ID,
		JobID:       job.ID,
		Status:      model.ApplicationStatusPending,
		ResumeURL:   "resumes/admin-delete.pdf",
		AppliedAt:   time.Now(),
	}
	require.NoError(t, testDB.Create(&app).Error)

	r := newAdminRouter(t)
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/applications/%d", app.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/admin/applications/%d", app.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
