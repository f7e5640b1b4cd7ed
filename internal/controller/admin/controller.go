// Package admin provides HTTP handlers for the super admin surface.
package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/authz"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/storage"
	"TalentBridge-backend/internal/utilities"
)

// AdminController handles super admin endpoints
type AdminController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct, store storage.StorageClient) *AdminController {
	return &AdminController{
		DB:      db,
		Storage: store,
	}
}

func (adc *AdminController) requireAdmin(c *gin.Context) (model.User, bool) {
	caller := utilities.CallerOrAnonymous(c)
	if err := authz.RequireRole(caller, model.RoleSuperAdmin); err != nil {
		utilities.RespondError(c, err)
		return caller, false
	}
	return caller, true
}

// ListUsers lists all users, optionally filtered by role.
// @Summary List all users
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param role query string false "APPLICANT, HR, or SUPER_ADMIN"
// @Success 200 {array} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/users [get]
func (adc *AdminController) ListUsers(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	result := adc.DB.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		result = result.Where("role = ?", role)
	}

	var users []model.User
	if err := result.Order("id ASC").Find(&users).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch users: %v", err))
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListPendingHR lists HR accounts awaiting approval.
// @Summary List HR accounts awaiting approval
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/hr/pending [get]
func (adc *AdminController) ListPendingHR(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	var users []model.User
	if err := adc.DB.Where("role = ? AND is_approved = ?", model.RoleHR, false).
		Order("id ASC").Find(&users).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch users: %v", err))
		return
	}

	c.JSON(http.StatusOK, users)
}

func (adc *AdminController) findHR(c *gin.Context) (model.User, bool) {
	var user model.User
	if err := adc.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("user not found"))
			return user, false
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve user: %v", err))
		return user, false
	}
	if user.Role != model.RoleHR {
		utilities.RespondError(c, apperr.Validation("user %d is not an HR account", user.ID))
		return user, false
	}
	return user, true
}

// ApproveHR marks an HR account as approved. Approving an already
// approved account is a no-op.
// @Summary Approve an HR account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the HR user"
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Target is not an HR account"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/approve-hr/{id} [put]
func (adc *AdminController) ApproveHR(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	user, ok := adc.findHR(c)
	if !ok {
		return
	}

	if !user.IsApproved {
		if err := adc.DB.Model(&user).Update("is_approved", true).Error; err != nil {
			utilities.RespondError(c, apperr.Internal("failed to approve user: %v", err))
			return
		}
		user.IsApproved = true
	}

	c.JSON(http.StatusOK, user)
}

// DisableHR revokes an HR account's approval. The account can no
// longer log in or act until approved again.
// @Summary Disable an HR account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the HR user"
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Target is not an HR account"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/disable-hr/{id} [put]
func (adc *AdminController) DisableHR(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	user, ok := adc.findHR(c)
	if !ok {
		return
	}

	if user.IsApproved {
		if err := adc.DB.Model(&user).Update("is_approved", false).Error; err != nil {
			utilities.RespondError(c, apperr.Internal("failed to disable user: %v", err))
			return
		}
		user.IsApproved = false
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an applicant account with its profile, skills,
// applications, and stored resume files. Only applicant accounts can
// be deleted this way.
// @Summary Delete an applicant account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the applicant user"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Target is not an applicant account"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/users/{id} [delete]
func (adc *AdminController) DeleteUser(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	var user model.User
	if err := adc.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("user not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve user: %v", err))
		return
	}

	if user.Role != model.RoleApplicant {
		utilities.RespondError(c, apperr.Validation("only applicant accounts can be deleted"))
		return
	}

	var resumeURLs []string
	if err := adc.DB.Model(&model.JobApplication{}).
		Where("applicant_id = ?", user.ID).
		Pluck("resume_url", &resumeURLs).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to collect resume files: %v", err))
		return
	}

	err := adc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("applicant_id = ?", user.ID).Delete(&model.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("applicant_id = ?", user.ID).Delete(&model.ApplicantSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("applicant_id = ?", user.ID).Delete(&model.ApplicantDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utilities.RespondError(c, apperr.Internal("failed to delete user: %v", err))
		return
	}

	for _, url := range resumeURLs {
		_ = adc.Storage.DeleteFile(url)
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User deleted"})
}

// ListJobs lists every job posting on the platform.
// @Summary List all job postings
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobPosting
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/jobs [get]
func (adc *AdminController) ListJobs(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	var jobs []model.JobPosting
	if err := adc.DB.Preload("HR").Order("created_at DESC").Find(&jobs).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch job postings: %v", err))
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListApplications lists every application on the platform.
// @Summary List all applications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/applications [get]
func (adc *AdminController) ListApplications(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	var apps []model.JobApplication
	if err := adc.DB.Preload("Applicant").Preload("Job").
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

// DeleteApplication removes one application and its stored resume.
// @Summary Delete an application
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as super admin"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/admin/applications/{id} [delete]
func (adc *AdminController) DeleteApplication(c *gin.Context) {
	if _, ok := adc.requireAdmin(c); !ok {
		return
	}

	var app model.JobApplication
	if err := adc.DB.Where("id = ?", c.Param("id")).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("application not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve application: %v", err))
		return
	}

	if err := adc.DB.Delete(&app).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to delete application: %v", err))
		return
	}

	_ = adc.Storage.DeleteFile(app.ResumeURL)

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application deleted"})
}
