// Package jobpost provides HTTP handlers for job posting related operations.
package jobpost

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/authz"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/storage"
	"TalentBridge-backend/internal/utilities"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct, store storage.StorageClient) *JobController {
	return &JobController{
		DB:      db,
		Storage: store,
	}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// statusFilter normalizes a raw status query value. The sentinel "ALL"
// (any case) means unfiltered.
func statusFilter(raw string) (string, bool, error) {
	if raw == "" || strings.EqualFold(raw, "ALL") {
		return "", false, nil
	}
	switch strings.ToUpper(raw) {
	case model.JobStatusOpen:
		return model.JobStatusOpen, true, nil
	case model.JobStatusClose:
		return model.JobStatusClose, true, nil
	}
	return "", false, apperr.Validation("unknown job status %q", raw)
}

// appliedJobIDs returns the set of job ids the caller has applied to.
// Anonymous and non-applicant callers get an empty set.
func (jc *JobController) appliedJobIDs(caller model.User) (map[uint]bool, error) {
	applied := map[uint]bool{}
	if caller.Role != model.RoleApplicant {
		return applied, nil
	}

	var ids []uint
	if err := jc.DB.Model(&model.JobApplication{}).
		Where("applicant_id = ?", caller.ID).
		Pluck("job_id", &ids).Error; err != nil {
		return nil, apperr.Internal("failed to load caller applications: %v", err)
	}
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}

func (jc *JobController) respondJobs(c *gin.Context, caller model.User, jobs []model.JobPosting) {
	applied, err := jc.appliedJobIDs(caller)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	responses := []model.JobResponse{}
	for _, job := range jobs {
		resp, err := job.ToJobResponse(caller, applied[job.ID])
		if err != nil {
			utilities.RespondError(c, apperr.Internal("failed to process job posting: %v", err))
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

// CreateJobHandler handles the creation of a new job posting by an HR user.
// @Summary Create job posting based on given json structure
// @Description Only approved HR have access to this endpoint
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 201 {object} model.JobPosting "Successfully create job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as approved HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleHR); err != nil {
		utilities.RespondError(c, err)
		return
	}

	job := model.JobPosting{}
	if err := c.ShouldBindJSON(&job.EditableJobInfo); err != nil {
		utilities.RespondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	if job.Title == "" {
		utilities.RespondError(c, apperr.Validation("title must be provided"))
		return
	}

	// New postings always start out open, whatever the body says.
	job.Status = model.JobStatusOpen

	if job.ImageURL == "" {
		job.ImageURL = model.DefaultJobImageURL
	}

	job.HRID = caller.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to create job posting: %v", err))
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobs fetches job postings matching the query filters.
// @Summary Search job postings
// @Description Filters: title (case-insensitive substring), location (exact), category (exact), status (exact, "ALL" means unfiltered)
// @Tags Jobs
// @Produce json
// @Param title query string false "Title substring, case insensitive"
// @Param location query string false "Exact location"
// @Param category query string false "Exact category"
// @Param tag query string false "Exact tag"
// @Param status query string false "OPEN, CLOSE, or ALL"
// @Success 200 {array} model.JobResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	rawTitle := c.Query("title")
	rawLocation := c.Query("location")
	rawCategory := c.Query("category")
	rawTag := c.Query("tag")
	status, filtered, err := statusFilter(c.Query("status"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	result := jc.DB.Model(&model.JobPosting{})

	if rawTitle != "" {
		result = result.Where("title ILIKE ?", "%"+rawTitle+"%")
	}
	if rawLocation != "" {
		result = result.Where("location = ?", rawLocation)
	}
	if rawCategory != "" {
		result = result.Where("category = ?", rawCategory)
	}
	if rawTag != "" {
		result = result.Where("? = ANY(tags)", rawTag)
	}
	if filtered {
		result = result.Where("status = ?", status)
	}

	var jobs []model.JobPosting
	if err := result.Order("created_at DESC").Find(&jobs).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch job postings: %v", err))
		return
	}

	jc.respondJobs(c, caller, jobs)
}

// GetActiveJobs fetches all OPEN job postings.
// @Summary Get all open job postings
// @Tags Jobs
// @Produce json
// @Success 200 {array} model.JobResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/active [get]
func (jc *JobController) GetActiveJobs(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	var jobs []model.JobPosting
	if err := jc.DB.Where("status = ?", model.JobStatusOpen).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch job postings: %v", err))
		return
	}

	jc.respondJobs(c, caller, jobs)
}

// GetMyJobs fetches the job postings owned by the calling HR.
// @Summary Get the caller's own job postings
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "OPEN, CLOSE, or ALL"
// @Success 200 {array} model.JobResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/my [get]
func (jc *JobController) GetMyJobs(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleHR, model.RoleSuperAdmin); err != nil {
		utilities.RespondError(c, err)
		return
	}

	status, filtered, err := statusFilter(c.Query("status"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	result := jc.DB.Where("hr_id = ?", caller.ID)
	if filtered {
		result = result.Where("status = ?", status)
	}

	var jobs []model.JobPosting
	if err := result.Order("created_at DESC").Find(&jobs).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch job postings: %v", err))
		return
	}

	jc.respondJobs(c, caller, jobs)
}

// GetJobByID fetches a job posting by its ID.
// @Summary Get job posting by ID
// @Tags Jobs
// @Produce json
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobResponse
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)
	id := c.Param("id")

	job := model.JobPosting{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("job posting not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve job posting: %v", err))
		return
	}

	applied, err := jc.appliedJobIDs(caller)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	resp, err := job.ToJobResponse(caller, applied[job.ID])
	if err != nil {
		utilities.RespondError(c, apperr.Internal("failed to process job posting: %v", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// findOwnedJob loads the job and checks the caller may manage it.
func (jc *JobController) findOwnedJob(caller model.User, id string) (model.JobPosting, error) {
	job := model.JobPosting{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job, apperr.NotFound("job posting not found")
		}
		return job, apperr.Internal("failed to retrieve job posting: %v", err)
	}

	if err := authz.Decide(caller, authz.ActionManageJob, job.HRID); err != nil {
		return job, err
	}

	return job, nil
}

// EditJob applies a partial update to a job posting the caller owns.
// Omitted or empty fields are left unchanged.
// @Summary Edit job posting based on given json structure
// @Description Only the HR that owns the posting or a super admin may update it
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param Job body model.EditableJobInfo true "Fields to update"
// @Success 200 {object} model.JobPosting "Successfully update job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id} [put]
func (jc *JobController) EditJob(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job, err := jc.findOwnedJob(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	patch := model.EditableJobInfo{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utilities.RespondError(c, apperr.Validation("failed to parse request body: %v", err))
		return
	}

	if patch.Status != "" {
		if _, _, err := statusFilter(patch.Status); err != nil {
			utilities.RespondError(c, err)
			return
		}
		patch.Status = strings.ToUpper(patch.Status)
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &patch)

	if err := jc.DB.Save(&job).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to update job posting: %v", err))
		return
	}

	c.JSON(http.StatusOK, job)
}

// UploadJobImage replaces the posting's image asset. The previous
// asset file is removed unless it was the default placeholder.
// @Summary Upload an image for a job posting
// @Description Only file with .jpg, .jpeg, or .png extension is permitted
// @Tags Jobs
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param image formData file true "Upload your image file"
// @Success 200 {object} model.JobPosting
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Router /api/jobs/{id}/image [post]
func (jc *JobController) UploadJobImage(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job, err := jc.findOwnedJob(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	rawFile, err := c.FormFile("image")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		utilities.RespondError(c, apperr.Validation("failed to retrieve file: %v", err))
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !imageExtensions[extension] {
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

	objectName := storage.UploadObjectName(rawFile.Filename)
	if err := jc.Storage.UploadFile(objectName, f); err != nil {
		utilities.RespondError(c, apperr.Internal("failed to store image: %v", err))
		return
	}

	previous := job.ImageURL
	job.ImageURL = objectName
	if err := jc.DB.Save(&job).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to update job posting: %v", err))
		return
	}

	if previous != "" && previous != model.DefaultJobImageURL {
		_ = jc.Storage.DeleteFile(previous)
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a job posting the caller owns. Applications are
// removed with it and the image asset is cleaned up.
// @Summary Delete given job posting ID
// @Description Only the HR that owns the posting or a super admin may delete it
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job, err := jc.findOwnedJob(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	err = jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.JobApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		utilities.RespondError(c, apperr.Internal("failed to delete job posting: %v", err))
		return
	}

	if job.ImageURL != "" && job.ImageURL != model.DefaultJobImageURL {
		_ = jc.Storage.DeleteFile(job.ImageURL)
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}

// setStatus moves the job to the target status. Already being there
// is a silent no-op.
func (jc *JobController) setStatus(c *gin.Context, target string) {
	caller := utilities.CallerOrAnonymous(c)

	job, err := jc.findOwnedJob(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	if job.Status != target {
		if err := jc.DB.Model(&job).Update("status", target).Error; err != nil {
			utilities.RespondError(c, apperr.Internal("failed to update job status: %v", err))
			return
		}
		job.Status = target
	}

	c.JSON(http.StatusOK, job)
}

// ToggleJobStatus flips the posting between OPEN and CLOSE.
// @Summary Toggle job posting status between OPEN and CLOSE
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPosting
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id}/toggle [patch]
func (jc *JobController) ToggleJobStatus(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	job, err := jc.findOwnedJob(caller, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	target := model.JobStatusClose
	if !job.IsOpen() {
		target = model.JobStatusOpen
	}

	if err := jc.DB.Model(&job).Update("status", target).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to update job status: %v", err))
		return
	}
	job.Status = target

	c.JSON(http.StatusOK, job)
}

// CloseJob closes the posting. Closing an already-CLOSE posting is a no-op.
// @Summary Close a job posting
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPosting
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id}/close [patch]
func (jc *JobController) CloseJob(c *gin.Context) {
	jc.setStatus(c, model.JobStatusClose)
}

// ReopenJob reopens the posting. Reopening an already-OPEN posting is a no-op.
// @Summary Reopen a job posting
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPosting
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/jobs/{id}/reopen [patch]
func (jc *JobController) ReopenJob(c *gin.Context) {
	jc.setStatus(c, model.JobStatusOpen)
}
