// Package application provides HTTP handlers for job application related operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/authz"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/storage"
	"TalentBridge-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(db *database.DBinstanceStruct, store storage.StorageClient) *ApplicationController {
	return &ApplicationController{
		DB:      db,
		Storage: store,
	}
}

// MaxResumeBytes bounds accepted resume uploads.
const MaxResumeBytes = 5 << 20

var strictResumeExtensions = map[string]bool{
	".pdf": true,
}

var lenientResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Apply submits an application with a PDF resume.
// @Summary Apply to an open job with a PDF resume
// @Description Only file that smaller than 5 MB with .pdf extension is permitted
// @Tags Applications
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job to apply to"
// @Param resume formData file true "Upload your resume file"
// @Success 201 {object} model.ApplicationResponse
// @Failure 400 {object} utilities.ErrorResponse "Job not open or resume missing"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 5 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Router /api/applications/apply/{jobId} [post]
func (ac *ApplicationController) Apply(c *gin.Context) {
	ac.apply(c, strictResumeExtensions)
}

// ApplyWithDocument submits an application accepting PDF, DOC, or DOCX resumes.
// @Summary Apply to an open job with a PDF, DOC, or DOCX resume
// @Description Only file that smaller than 5 MB is permitted
// @Tags Applications
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job to apply to"
// @Param resume formData file true "Upload your resume file"
// @Success 201 {object} model.ApplicationResponse
// @Failure 400 {object} utilities.ErrorResponse "Job not open or resume missing"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 5 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Router /api/applications/apply-document/{jobId} [post]
func (ac *ApplicationController) ApplyWithDocument(c *gin.Context) {
	ac.apply(c, lenientResumeExtensions)
}

func (ac *ApplicationController) apply(c *gin.Context, allowedExtensions map[string]bool) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.Decide(caller, authz.ActionApply, 0); err != nil {
		utilities.RespondError(c, err)
		return
	}

	jobID := c.Param("jobId")
	job := model.JobPosting{}
	if err := ac.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("job posting not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve job posting: %v", err))
		return
	}

	if !job.IsOpen() {
		utilities.RespondError(c, apperr.Validation("job is not open for applications"))
		return
	}

	var existing model.JobApplication
	err := ac.DB.Where("applicant_id = ? AND job_id = ?", caller.ID, job.ID).First(&existing).Error
	switch {
	case err == nil:
		utilities.RespondError(c, apperr.Conflict("already applied to this job"))
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing
	default:
		utilities.RespondError(c, apperr.Internal("failed to check existing application: %v", err))
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		utilities.RespondError(c, apperr.Validation("resume file must be provided"))
		return
	}

	if rawFile.Size == 0 {
		utilities.RespondError(c, apperr.Validation("resume file is empty"))
		return
	}
	if rawFile.Size > MaxResumeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: "Resume file is larger than 5 MB",
		})
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		utilities.RespondError(c, apperr.Internal("cannot open file: %v", err))
		return
	}
	defer func() { _ = f.Close() }()

	objectName := storage.ResumeObjectName(rawFile.Filename)
	if err := ac.Storage.UploadFile(objectName, f); err != nil {
		utilities.RespondError(c, apperr.Internal("failed to store resume: %v", err))
		return
	}

	app := model.JobApplication{
		ApplicantID: caller.ID,
		JobID:       job.ID,
		Status:      model.ApplicationStatusPending,
		ResumeURL:   objectName,
		AppliedAt:   time.Now(),
	}
	if err := ac.DB.Create(&app).Error; err != nil {
		_ = ac.Storage.DeleteFile(objectName)
		if database.IsUniqueViolation(err) {
			utilities.RespondError(c, apperr.Conflict("already applied to this job"))
			return
		}
		// The posting was deleted between the status check and the insert.
		if database.IsForeignKeyViolation(err) {
			utilities.RespondError(c, apperr.Validation("job posting no longer exists"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to create application: %v", err))
		return
	}

	app.Applicant = caller
	app.Job = job
	c.JSON(http.StatusCreated, app.ToApplicationResponse())
}

// findGatedApplication loads the application with its job and checks
// the caller may decide on it.
func (ac *ApplicationController) findGatedApplication(caller model.User, id string) (model.JobApplication, error) {
	app := model.JobApplication{}
	if err := ac.DB.Preload("Applicant").Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app, apperr.NotFound("application not found")
		}
		return app, apperr.Internal("failed to retrieve application: %v", err)
	}

	if err := authz.Decide(caller, authz.ActionDecideApplication, app.Job.HRID); err != nil {
		return app, err
	}

	return app, nil
}

type statusUpdateInfo struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus sets an application's status. Any of the four statuses
// may be set at any time; there is no one-way transition guard.
// @Summary Update an application's status
// @Description Only the HR owning the job or a super admin may update it
// @Tags Applications
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Info body statusUpdateInfo true "New status: PENDING, SHORTLISTED, REJECTED, or HIRED"
// @Success 200 {object} model.ApplicationResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/applications/{id}/status [put]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	var info statusUpdateInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.RespondError(c, apperr.Validation("status must be provided"))
		return
	}

	status, err := model.ParseApplicationStatus(info.Status)
	if err != nil {
		utilities.RespondError(c, apperr.Validation("%v", err))
		return
	}

	app, err := ac.findGatedApplication(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	if err := ac.DB.Model(&app).Update("status", status).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to update application: %v", err))
		return
	}
	app.Status = status

	c.JSON(http.StatusOK, app.ToApplicationResponse())
}

// FilterByJob lists the applications for a job the caller owns,
// optionally filtered by exact status.
// @Summary List applications for an owned job
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job"
// @Param status query string false "PENDING, SHORTLISTED, REJECTED, or HIRED"
// @Success 200 {array} model.ApplicationResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/applications/job/{jobId} [get]
func (ac *ApplicationController) FilterByJob(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job := model.JobPosting{}
	if err := ac.DB.Where("id = ?", c.Param("jobId")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("job posting not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve job posting: %v", err))
		return
	}

	if err := authz.Decide(caller, authz.ActionViewApplications, job.HRID); err != nil {
		utilities.RespondError(c, err)
		return
	}

	result := ac.DB.Preload("Applicant").Preload("Job").Where("job_id = ?", job.ID)

	if rawStatus := c.Query("status"); rawStatus != "" {
		status, err := model.ParseApplicationStatus(rawStatus)
		if err != nil {
			utilities.RespondError(c, apperr.Validation("%v", err))
			return
		}
		result = result.Where("status = ?", status)
	}

	var apps []model.JobApplication
	if err := result.Order("applied_at DESC").Find(&apps).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch applications: %v", err))
		return
	}

	responses := []model.ApplicationResponse{}
	for _, app := range apps {
		responses = append(responses, app.ToApplicationResponse())
	}

	c.JSON(http.StatusOK, responses)
}

// Report aggregates application counts by status for an owned job.
// @Summary Hiring report for an owned job
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job"
// @Success 200 {object} model.HiringReport
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/applications/report/{jobId} [get]
func (ac *ApplicationController) Report(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job := model.JobPosting{}
	if err := ac.DB.Where("id = ?", c.Param("jobId")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("job posting not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve job posting: %v", err))
		return
	}

	if err := authz.Decide(caller, authz.ActionViewApplications, job.HRID); err != nil {
		utilities.RespondError(c, err)
		return
	}

	report := model.HiringReport{JobID: job.ID, JobTitle: job.Title}

	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := ac.DB.Model(&model.JobApplication{}).
		Select("status, count(*) as count").
		Where("job_id = ?", job.ID).
		Group("status").
		Scan(&rows).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to aggregate applications: %v", err))
		return
	}

	for _, row := range rows {
		report.Tally(row.Status, row.Count)
	}

	c.JSON(http.StatusOK, report)
}

// MyApplications lists the caller's own applications.
// @Summary List the calling applicant's applications
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/applications/my [get]
func (ac *ApplicationController) MyApplications(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var apps []model.JobApplication
	if err := ac.DB.Preload("Applicant").Preload("Job").
		Where("applicant_id = ?", caller.ID).
		Order("applied_at DESC").Find(&apps).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch applications: %v", err))
		return
	}

	responses := []model.ApplicationResponse{}
	for _, app := range apps {
		responses = append(responses, app.ToApplicationResponse())
	}

	c.JSON(http.StatusOK, responses)
}

// ShortlistedCount returns how many applications are shortlisted
// across all of the calling HR's jobs.
// @Summary Count shortlisted applications across own jobs
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} map[string]int64
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/applications/shortlisted/count [get]
func (ac *ApplicationController) ShortlistedCount(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleHR, model.RoleSuperAdmin); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var count int64
	if err := ac.DB.Model(&model.JobApplication{}).
		Joins("JOIN job_postings ON job_postings.id = job_applications.job_id").
		Where("job_postings.hr_id = ? AND job_applications.status = ?", caller.ID, model.ApplicationStatusShortlisted).
		Count(&count).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to count applications: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"shortlisted": count})
}
