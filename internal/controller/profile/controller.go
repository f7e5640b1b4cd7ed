// Package profile provides HTTP handlers for applicant and HR profile operations.
package profile

import (
	"errors"
	"strings"

	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/authz"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

// ProfileController handles profile related endpoints
type ProfileController struct {
	DB *database.DBinstanceStruct
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(db *database.DBinstanceStruct) *ProfileController {
	return &ProfileController{
		DB: db,
	}
}

type applicantPatch struct {
	Skill      *string `json:"skill"`
	Experience *int    `json:"experience"`
	LinkedIn   *string `json:"linkedin"`
	Portfolio  *string `json:"portfolio"`
	Resume     *string `json:"resume"`
}

func (p *applicantPatch) applyTo(details *model.ApplicantDetails) {
	if p.Skill != nil {
		details.Skill = *p.Skill
	}
	if p.Experience != nil {
		details.Experience = p.Experience
	}
	if p.LinkedIn != nil {
		details.LinkedIn = *p.LinkedIn
	}
	if p.Portfolio != nil {
		details.Portfolio = *p.Portfolio
	}
	if p.Resume != nil {
		details.Resume = *p.Resume
	}
}

type hrPatch struct {
	CompanyName *string `json:"company_name"`
	Designation *string `json:"designation"`
}

func (p *hrPatch) applyTo(details *model.HrDetails) {
	if p.CompanyName != nil {
		details.CompanyName = *p.CompanyName
	}
	if p.Designation != nil {
		details.Designation = *p.Designation
	}
}

// GetApplicantProfile returns the caller's applicant profile.
// @Summary Get the calling applicant's profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.ApplicantDetails
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant [get]
func (pc *ProfileController) GetApplicantProfile(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var details model.ApplicantDetails
	if err := pc.DB.Where("applicant_id = ?", caller.ID).First(&details).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RespondError(c, apperr.NotFound("applicant profile not found"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to retrieve profile: %v", err))
		return
	}

	c.JSON(http.StatusOK, details)
}

// UpdateApplicantProfile applies a partial update to the caller's
// applicant profile under the optimistic-lock retry loop. The same
// patch is reapplied to a freshly loaded row on every attempt.
// @Summary Update the calling applicant's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body applicantPatch true "Fields to update; omitted fields are unchanged"
// @Success 200 {object} model.ApplicantDetails
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or concurrent update exhausted retries"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant [post]
func (pc *ProfileController) UpdateApplicantProfile(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var patch applicantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utilities.RespondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	var details model.ApplicantDetails
	err := database.WithVersionRetry(func() error {
		if err := pc.DB.Where("applicant_id = ?", caller.ID).First(&details).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("applicant profile not found")
			}
			return apperr.Internal("failed to retrieve profile: %v", err)
		}
		patch.applyTo(&details)
		return pc.DB.SaveApplicantDetailsVersioned(&details)
	})
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetHrProfile returns the caller's HR profile. A profile that was
// never filled in comes back as an empty record rather than a 404.
// @Summary Get the calling HR's profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.HrDetails
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/hr [get]
func (pc *ProfileController) GetHrProfile(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleHR); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var details model.HrDetails
	err := pc.DB.Where("hr_id = ?", caller.ID).First(&details).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utilities.RespondError(c, apperr.Internal("failed to retrieve profile: %v", err))
		return
	}
	details.HRID = caller.ID

	c.JSON(http.StatusOK, details)
}

// UpdateHrProfile applies a partial update to the caller's HR profile
// under the optimistic-lock retry loop, creating the row on first use.
// @Summary Update the calling HR's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body hrPatch true "Fields to update; omitted fields are unchanged"
// @Success 200 {object} model.HrDetails
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or concurrent update exhausted retries"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/hr [post]
func (pc *ProfileController) UpdateHrProfile(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleHR); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var patch hrPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utilities.RespondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	var details model.HrDetails
	err := database.WithVersionRetry(func() error {
		err := pc.DB.Where("hr_id = ?", caller.ID).First(&details).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			details = model.HrDetails{HRID: caller.ID}
			patch.applyTo(&details)
			return pc.DB.Create(&details).Error
		}
		if err != nil {
			return apperr.Internal("failed to retrieve profile: %v", err)
		}
		patch.applyTo(&details)
		return pc.DB.SaveHrDetailsVersioned(&details)
	})
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

type skillInfo struct {
	Skill string `json:"skill" binding:"required"`
}

// ListSkills returns the caller's skill set.
// @Summary List the calling applicant's skills
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicantSkill
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant/skills [get]
func (pc *ProfileController) ListSkills(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var skills []model.ApplicantSkill
	if err := pc.DB.Where("applicant_id = ?", caller.ID).Order("skill ASC").Find(&skills).Error; err != nil {
		utilities.RespondError(c, apperr.Internal("failed to fetch skills: %v", err))
		return
	}

	c.JSON(http.StatusOK, skills)
}

// AddSkill records a skill for the caller. Skills are stored
// lowercased, and adding the same skill twice is a conflict.
// @Summary Add a skill to the calling applicant's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body skillInfo true "Skill name, case insensitive"
// @Success 201 {object} model.ApplicantSkill
// @Failure 400 {object} utilities.ErrorResponse "Skill not provided"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 409 {object} utilities.ErrorResponse "Skill already added"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant/skills [post]
func (pc *ProfileController) AddSkill(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var info skillInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.RespondError(c, apperr.Validation("skill must be provided"))
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(info.Skill))
	if normalized == "" {
		utilities.RespondError(c, apperr.Validation("skill must not be empty"))
		return
	}

	var details model.ApplicantDetails
	if err := pc.DB.Where("applicant_id = ?", caller.ID).First(&details).Error; err == nil &&
		details.Skill == normalized {
		utilities.RespondError(c, apperr.Conflict("skill already set as primary skill"))
		return
	}

	skill := model.ApplicantSkill{
		ApplicantID: caller.ID,
		Skill:       normalized,
	}
	if err := pc.DB.Create(&skill).Error; err != nil {
		if database.IsUniqueViolation(err) {
			utilities.RespondError(c, apperr.Conflict("skill already added"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to add skill: %v", err))
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// RemoveSkill deletes a skill from the caller's profile.
// @Summary Remove a skill from the calling applicant's profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param skill path string true "Skill name, case insensitive"
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Skill not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant/skills/{skill} [delete]
func (pc *ProfileController) RemoveSkill(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(c.Param("skill")))

	result := pc.DB.Where("applicant_id = ? AND skill = ?", caller.ID, normalized).
		Delete(&model.ApplicantSkill{})
	if result.Error != nil {
		utilities.RespondError(c, apperr.Internal("failed to remove skill: %v", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		utilities.RespondError(c, apperr.NotFound("skill not found"))
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Skill removed"})
}

// SetPrimarySkill stores the skill shown on the profile card. It goes
// through the versioned profile row, so it participates in the same
// conflict detection as any other profile update.
// @Summary Set the calling applicant's primary skill
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body skillInfo true "Skill name"
// @Success 200 {object} model.ApplicantDetails
// @Failure 400 {object} utilities.ErrorResponse "Skill not provided"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/profile/applicant/primary-skill [put]
func (pc *ProfileController) SetPrimarySkill(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.RequireRole(caller, model.RoleApplicant); err != nil {
		utilities.RespondError(c, err)
		return
	}

	var info skillInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.RespondError(c, apperr.Validation("skill must be provided"))
		return
	}

	var details model.ApplicantDetails
	err := database.WithVersionRetry(func() error {
		if err := pc.DB.Where("applicant_id = ?", caller.ID).First(&details).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("applicant profile not found")
			}
			return apperr.Internal("failed to retrieve profile: %v", err)
		}
		details.Skill = strings.ToLower(strings.TrimSpace(info.Skill))
		return pc.DB.SaveApplicantDetailsVersioned(&details)
	})
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}
