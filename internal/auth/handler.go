package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

// Handler holds DB reference for auth handler methods.
type Handler struct {
	DB *database.DBinstanceStruct
}

// NewHandler creates a new instance of Handler with the provided database connection.
func NewHandler(db *database.DBinstanceStruct) *Handler {
	return &Handler{
		DB: db,
	}
}

type registerInfo struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// RegisterApplicantHandler registers a new applicant account. Applicants
// are approved immediately and get an empty profile row so profile reads
// never 404 on a fresh account.
// @Summary Register a new applicant account
// @Description Email must not already be registered and password must be at least 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Applicant registration info"
// @Success 201 {object} authResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register/applicant [post]
func (h *Handler) RegisterApplicantHandler(c *gin.Context) {
	user, ok := h.registerUser(c, model.RoleApplicant, true)
	if !ok {
		return
	}

	details := model.ApplicantDetails{ApplicantID: user.ID}
	if err := h.DB.Create(&details).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create applicant profile: %s", err.Error()),
		})
		return
	}

	accessToken, err := GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.Email, "applicant registered")
	c.JSON(http.StatusCreated, authResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// RegisterHRHandler registers a new HR account. The account stays
// unapproved until a super admin approves it, so no token is issued.
// @Summary Register a new HR account pending admin approval
// @Description Email must not already be registered and password must be at least 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "HR registration info"
// @Success 201 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register/hr [post]
func (h *Handler) RegisterHRHandler(c *gin.Context) {
	user, ok := h.registerUser(c, model.RoleHR, false)
	if !ok {
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.Email, "hr registered, pending approval")
	c.JSON(http.StatusCreated, utilities.MessageResponse{
		Message: "Registration successful, awaiting admin approval",
	})
}

func (h *Handler) registerUser(c *gin.Context, role string, approved bool) (model.User, bool) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Full name, email, and password must be provided",
		})
		return model.User{}, false
	}

	var existing model.User
	err := h.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "Email already registered",
		})
		return model.User{}, false

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return model.User{}, false
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return model.User{}, false
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return model.User{}, false
	}

	user := model.User{
		FullName:   info.FullName,
		Email:      info.Email,
		Password:   hashedPassword,
		Phone:      info.Phone,
		Role:       role,
		IsApproved: approved,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "Email already registered",
			})
			return model.User{}, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return model.User{}, false
	}

	return user, true
}

// LoginHandler authenticates a user by email and password. An HR
// account that has not been approved yet is rejected with 403 even
// when the credentials are correct.
// @Summary Log in with email and password
// @Description Email must exist and password match; unapproved HR accounts are rejected
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} authResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 403 {object} utilities.ErrorResponse "HR account not approved"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("warning", "Local", "Fail", info.Email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("warning", "Local", "Fail", info.Email, "bad password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	if user.Role == model.RoleHR && !user.IsApproved {
		LogAuthAttempt("warning", "Local", "Fail", info.Email, "hr not approved")
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "HR account not approved",
		})
		return
	}

	accessToken, err := GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.Email, "")
	c.JSON(http.StatusOK, authResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// MeHandler returns the authenticated user's own record.
// @Summary Get the authenticated user's record
// @Tags Auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (h *Handler) MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
