package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TalentBridge-backend/internal/utilities"
)

// RequireAuth rejects callers that Authenticate left anonymous. It
// must run after Authenticate on the same route group.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil || user.IsAnonymous() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Authentication required",
			})
			return
		}

		ctx.Next()
	}
}
