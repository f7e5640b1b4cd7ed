// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentBridge-backend/internal/auth"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

// Authenticate resolves the caller's identity from the Authorization
// header, best effort. A missing, malformed, or expired token leaves
// the caller anonymous rather than failing the request; endpoints that
// need a real identity stack RequireAuth behind this. An HR account
// whose approval has been revoked since the token was issued is cut
// off here with 403.
func Authenticate(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.Set("user", model.User{})
			ctx.Next()
			return
		}

		token, err := auth.ValidatedToken(tokenString)
		if err != nil || !token.Valid {
			ctx.Set("user", model.User{})
			ctx.Next()
			return
		}

		claims, ok := token.Claims.(*auth.Claims)
		if !ok || claims.Issuer != auth.JwtIssuer {
			ctx.Set("user", model.User{})
			ctx.Next()
			return
		}

		var foundUser model.User
		if err := db.Where("email = ?", claims.Subject).First(&foundUser).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.Set("user", model.User{})
				ctx.Next()
				return
			}

			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}

		if foundUser.Role == model.RoleHR && !foundUser.IsApproved {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "HR account not approved",
			})
			return
		}

		ctx.Set("claims", claims)
		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
