// Package utilities contain utility code that use across the package
package utilities

import (
	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/model"
	"errors"
	"log"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// CallerOrAnonymous returns the authenticated user from the context, or the
// zero User when the request carries no valid identity. Read-only job queries
// use it to annotate results without requiring authentication.
func CallerOrAnonymous(c *gin.Context) model.User {
	user, err := ExtractUser(c)
	if err != nil {
		return model.User{}
	}
	return user
}

// RespondError translates a domain error to its HTTP status and a structured
// error body. Internal errors are logged with full detail and returned to the
// caller as a generic message.
func RespondError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		if e.Kind == apperr.KindInternal {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: e.Message})
			return
		}
		c.JSON(e.StatusCode(), ErrorResponse{Error: e.Message})
		return
	}

	log.Printf("unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Unexpected server error"})
}

// HashPassword hashes a plain password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plain password matches the bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateSuperAdmin creates a super-admin user with the given credentials in the provided database.
func CreateSuperAdmin(password string, email string, db *gorm.DB) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.User{
		FullName:   "Super Admin",
		Email:      email,
		Password:   hashedPassword,
		Role:       model.RoleSuperAdmin,
		IsApproved: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create super admin: ", err)
	}
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
