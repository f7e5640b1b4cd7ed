// Package subscription provides the newsletter subscription endpoint.
package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

// SubscriptionController handles subscription endpoints
type SubscriptionController struct {
	DB *database.DBinstanceStruct
}

// NewSubscriptionController creates a new instance of SubscriptionController
func NewSubscriptionController(db *database.DBinstanceStruct) *SubscriptionController {
	return &SubscriptionController{
		DB: db,
	}
}

type subscribeInfo struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe records an email for job alerts. Subscribing twice with
// the same email is a conflict.
// @Summary Subscribe an email to job alerts
// @Tags Subscription
// @Accept json
// @Produce json
// @Param Info body subscribeInfo true "Email to subscribe"
// @Success 201 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Email not provided or malformed"
// @Failure 409 {object} utilities.ErrorResponse "Email already subscribed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /api/subscribe [post]
func (sc *SubscriptionController) Subscribe(c *gin.Context) {
	var info subscribeInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.RespondError(c, apperr.Validation("a valid email must be provided"))
		return
	}

	subscriber := model.Subscriber{Email: info.Email}
	if err := sc.DB.Create(&subscriber).Error; err != nil {
		if database.IsUniqueViolation(err) {
			utilities.RespondError(c, apperr.Conflict("email already subscribed"))
			return
		}
		utilities.RespondError(c, apperr.Internal("failed to subscribe: %v", err))
		return
	}

	c.JSON(http.StatusCreated, utilities.MessageResponse{Message: "Subscribed"})
}
