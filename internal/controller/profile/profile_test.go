package profile

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/auth"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/middleware"
	"TalentBridge-backend/internal/model"
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

func newProfileRouter() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	pc := NewProfileController(testDB)
	r.GET("/api/profile/applicant", middleware.RequireAuth(), pc.GetApplicantProfile)
	r.POST("/api/profile/applicant", middleware.RequireAuth(), pc.UpdateApplicantProfile)
	r.GET("/api/profile/applicant/skills", middleware.RequireAuth(), pc.ListSkills)
	r.POST("/api/profile/applicant/skills", middleware.RequireAuth(), pc.AddSkill)
	r.DELETE("/api/profile/applicant/skills/:skill", middleware.RequireAuth(), pc.RemoveSkill)
	r.PUT("/api/profile/applicant/primary-skill", middleware.RequireAuth(), pc.SetPrimarySkill)
	r.GET("/api/profile/hr", middleware.RequireAuth(), pc.GetHrProfile)
	r.POST("/api/profile/hr", middleware.RequireAuth(), pc.UpdateHrProfile)
	return r
}

func TestUpdateApplicantProfile_partialPatchBumpsVersion(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	var before model.ApplicantDetails
	require.NoError(t, testDB.Where("applicant_id = ?", database.TestApplicant1.ID).First(&before).Error)

	r := newProfileRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"portfolio": "https://alice.dev"}, token, r,
		"/api/profile/applicant", http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://alice.dev", resp["portfolio"])
	// Omitted fields keep their stored values.
	assert.Equal(t, before.Skill, resp["skill"])
	assert.Equal(t, float64(before.Version+1), resp["version"])
}

func TestUpdateApplicantProfile_asHRForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := newProfileRouter()
	rec, _ := testutil.MakeJSONRequest(gin.H{"portfolio": "x"}, token, r,
		"/api/profile/applicant", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSaveApplicantDetailsVersioned_staleVersionConflicts(t *testing.T) {
	var details model.ApplicantDetails
	require.NoError(t, testDB.Where("applicant_id = ?", database.TestApplicantProf2.ApplicantID).First(&details).Error)
	assert.Equal(t, database.TestApplicantProf2.Skill, details.Skill)

	stale := details
	details.Portfolio = "https://bob.example/first"
	require.NoError(t, testDB.SaveApplicantDetailsVersioned(&details))

	// The second writer still holds the old version.
	stale.Portfolio = "https://bob.example/second"
	err := testDB.SaveApplicantDetailsVersioned(&stale)
	assert.ErrorIs(t, err, database.ErrVersionConflict)
}

func TestUpdateApplicantProfile_recoversFromConcurrentWrite(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	// Advance the version out from under the handler before it runs. The
	// retry loop refetches the fresh row, so the request still succeeds.
	require.NoError(t, testDB.Model(&model.ApplicantDetails{}).
		Where("applicant_id = ?", database.TestApplicant1.ID).
		Update("version", gorm.Expr("version + 1")).Error)

	r := newProfileRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"linkedin": "https://linkedin.com/in/alice"}, token, r,
		"/api/profile/applicant", http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://linkedin.com/in/alice", resp["linkedin"])
}

func TestSkills_addListRemove(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := newProfileRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{"skill": "  Go  "}, token, r,
		"/api/profile/applicant/skills", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "go", resp["skill"])

	// Case-insensitive duplicate.
	rec, _ = testutil.MakeJSONRequest(gin.H{"skill": "GO"}, token, r,
		"/api/profile/applicant/skills", http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		"/api/profile/applicant/skills", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skill":"go"`)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		"/api/profile/applicant/skills/Go", http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		"/api/profile/applicant/skills/go", http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPrimarySkill(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := newProfileRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"skill": "Kubernetes"}, token, r,
		"/api/profile/applicant/primary-skill", http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kubernetes", resp["skill"])

	// Adding the same skill to the list conflicts with the primary skill.
	rec, _ = testutil.MakeJSONRequest(gin.H{"skill": "Kubernetes"}, token, r,
		"/api/profile/applicant/skills", http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHrProfile_seededRow(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := newProfileRouter()
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/api/profile/hr", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestHRDetails1.CompanyName, resp["company_name"])
	assert.Equal(t, database.TestHRDetails1.Designation, resp["designation"])
}

func TestHrProfile_createdOnFirstUpdate(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestHR2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := newProfileRouter()

	// Never filled in: comes back empty, not 404.
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/api/profile/hr", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", resp["company_name"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"company_name": "Globex", "designation": "Recruiter"},
		token, r, "/api/profile/hr", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Globex", resp["company_name"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"designation": "Lead Recruiter"},
		token, r, "/api/profile/hr", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Globex", resp["company_name"])
	assert.Equal(t, "Lead Recruiter", resp["designation"])
}
