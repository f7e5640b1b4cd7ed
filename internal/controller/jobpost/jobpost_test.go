package jobpost

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

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

func newJobController(t *testing.T) *JobController {
	t.Helper()
	return NewJobController(testDB, &storage.LocalStorageClient{BaseDir: t.TempDir()})
}

// seedJob inserts a posting owned by the given HR directly.
func seedJob(t *testing.T, hrID uint, status string) model.JobPosting {
	t.Helper()
	job := model.JobPosting{
		HRID: hrID,
		EditableJobInfo: model.EditableJobInfo{
			Title:    "Seeded " + status + " job",
			Status:   status,
			ImageURL: model.DefaultJobImageURL,
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	return job
}

func TestCreateJob_byHR(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.POST("/api/jobs", middleware.RequireAuth(), jc.CreateJobHandler)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":       "Platform Engineer",
		"description": "Keep the lights on.",
		"location":    "Berlin",
		"category":    "Engineering",
	}, token, r, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.JobStatusOpen, resp["status"])
	assert.Equal(t, model.DefaultJobImageURL, resp["image_url"])
	assert.Equal(t, float64(database.TestHR1.ID), resp["hr_id"])
}

func TestCreateJob_byApplicant_forbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.POST("/api/jobs", middleware.RequireAuth(), jc.CreateJobHandler)

	rec, _ := testutil.MakeJSONRequest(gin.H{"title": "Nope"}, token, r, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateJob_ignoresSuppliedStatus(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.POST("/api/jobs", middleware.RequireAuth(), jc.CreateJobHandler)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":  "Night Auditor",
		"status": model.JobStatusClose,
	}, token, r, "/api/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.JobStatusOpen, resp["status"])

	var saved model.JobPosting
	require.NoError(t, testDB.First(&saved, uint(resp["id"].(float64))).Error)
	assert.Equal(t, model.JobStatusOpen, saved.Status)
}

func TestGetJobByID_requiresAuth(t *testing.T) {
	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.GET("/api/jobs/:id", middleware.RequireAuth(), jc.GetJobByID)

	url := fmt.Sprintf("/api/jobs/%d", database.TestJob1.ID)

	rec, _ := testutil.MakeJSONRequest(nil, "", r, url, http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant1.Email, database.TestSeedPassword)
	require.NoError(t, err)
	rec, _ = testutil.MakeJSONRequest(nil, token, r, url, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetJobByID_canApply(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestApplicant2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.GET("/api/jobs/:id", jc.GetJobByID)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/api/jobs/%d", database.TestJob1.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["can_apply"])

	// Closed posting is never applicable.
	rec, resp = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/api/jobs/%d", database.TestJob2.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["can_apply"])
}

func TestGetJobByID_notFound(t *testing.T) {
	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.GET("/api/jobs/:id", jc.GetJobByID)

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/api/jobs/99999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobs_statusSentinel(t *testing.T) {
	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.GET("/api/jobs", jc.GetJobs)

	req, _ := http.NewRequest(http.MethodGet, "/api/jobs?status=ALL", nil)
	rec := performRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/jobs?status=open", nil)
	rec = performRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/jobs?status=BOGUS", nil)
	rec = performRequest(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggle_isItsOwnInverse(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.PATCH("/api/jobs/:id/toggle", middleware.RequireAuth(), jc.ToggleJobStatus)

	url := fmt.Sprintf("/api/jobs/%d/toggle", job.ID)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, url, http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusClose, resp["status"])

	rec, resp = testutil.MakeJSONRequest(nil, token, r, url, http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusOpen, resp["status"])
}

func TestCloseAndReopen_idempotent(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.PATCH("/api/jobs/:id/close", middleware.RequireAuth(), jc.CloseJob)
	r.PATCH("/api/jobs/:id/reopen", middleware.RequireAuth(), jc.ReopenJob)

	closeURL := fmt.Sprintf("/api/jobs/%d/close", job.ID)
	reopenURL := fmt.Sprintf("/api/jobs/%d/reopen", job.ID)

	for i := 0; i < 2; i++ {
		rec, resp := testutil.MakeJSONRequest(nil, token, r, closeURL, http.MethodPatch)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.JobStatusClose, resp["status"])
	}

	for i := 0; i < 2; i++ {
		rec, resp := testutil.MakeJSONRequest(nil, token, r, reopenURL, http.MethodPatch)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.JobStatusOpen, resp["status"])
	}
}

func TestEditJob_partialUpdate(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.PUT("/api/jobs/:id", middleware.RequireAuth(), jc.EditJob)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"location": "Hamburg",
	}, token, r, fmt.Sprintf("/api/jobs/%d", job.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hamburg", resp["location"])
	// Omitted fields are left unchanged, not cleared.
	assert.Equal(t, job.Title, resp["title"])
}

func TestEditJob_notOwner(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	token, err := auth.GetAccessToken(t, testDB, database.TestHR2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.PUT("/api/jobs/:id", middleware.RequireAuth(), jc.EditJob)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title": "Hijacked",
	}, token, r, fmt.Sprintf("/api/jobs/%d", job.ID), http.MethodPut)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditJob_superAdminBypassesOwnership(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	token, err := auth.GetAccessToken(t, testDB, database.TestSuperAdmin.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.PUT("/api/jobs/:id", middleware.RequireAuth(), jc.EditJob)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "Renamed by admin",
	}, token, r, fmt.Sprintf("/api/jobs/%d", job.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed by admin", resp["title"])
}

func TestDeleteJob_cascadesApplications(t *testing.T) {
	job := seedJob(t, database.TestHR1.ID, model.JobStatusOpen)
	app := model.JobApplication{
		ApplicantID: database.TestApplicant1.ID,
		JobID:       job.ID,
		Status:      model.ApplicationStatusPending,
		ResumeURL:   "resumes/cascade-test.pdf",
		AppliedAt:   time.Now(),
	}
	require.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestHR1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.DELETE("/api/jobs/:id", middleware.RequireAuth(), jc.DeleteJob)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/api/jobs/%d", job.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, testDB.Model(&model.JobApplication{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetJobs_tagFilter(t *testing.T) {
	job := seedJob(t, database.TestHR2.ID, model.JobStatusOpen)
	require.NoError(t, testDB.Model(&job).
		Update("tags", pq.StringArray{"go", "postgres"}).Error)

	r := gin.Default()
	r.Use(middleware.Authenticate(testDB))
	jc := newJobController(t)
	r.GET("/api/jobs", jc.GetJobs)

	req, _ := http.NewRequest(http.MethodGet, "/api/jobs?tag=postgres", nil)
	rec := performRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"id":%d`, job.ID))

	req, _ = http.NewRequest(http.MethodGet, "/api/jobs?tag=cobol", nil)
	rec = performRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), fmt.Sprintf(`"id":%d`, job.ID))
}

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
