package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

const resetTokenTTL = time.Hour

type forgotInfo struct {
	Email string `json:"email" binding:"required,email"`
}

type resetInfo struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ForgotPasswordHandler issues a one-hour reset token for the account
// behind the given email. The response is the same whether or not the
// email exists, so the endpoint cannot be used to probe accounts.
// @Summary Request a password reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body forgotInfo true "Account email"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Email not provided"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPasswordHandler(c *gin.Context) {
	var info forgotInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email must be provided",
		})
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Fall through to the generic response below.

	case err == nil:
		token := model.PasswordResetToken{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(resetTokenTTL),
		}
		if err := h.DB.Create(&token).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create reset token: %s", err.Error()),
			})
			return
		}
		LogAuthAttempt("info", "Reset", "Success", user.Email, "reset token issued")

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "If the email is registered, a reset token has been issued",
	})
}

// ResetPasswordHandler consumes a reset token and sets a new password.
// Used and expired tokens are rejected the same way.
// @Summary Reset password with a previously issued token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body resetInfo true "Reset token and new password"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Token invalid, expired, or password too short"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/reset-password [post]
func (h *Handler) ResetPasswordHandler(c *gin.Context) {
	var info resetInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Token and new password must be provided",
		})
		return
	}

	if len(info.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	var token model.PasswordResetToken
	err := h.DB.Where("token = ?", info.Token).First(&token).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid or expired reset token",
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

	if token.Expired() {
		_ = h.DB.Delete(&token).Error
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid or expired reset token",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	if err := h.DB.Model(&model.User{}).Where("id = ?", token.UserID).
		Update("password", hashedPassword).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update password: %s", err.Error()),
		})
		return
	}

	if err := h.DB.Delete(&token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to consume reset token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Password reset successful",
	})
}
