// Package file provides HTTP handlers for file retrieval.
package file

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/authz"
	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/storage"
	"TalentBridge-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, store storage.StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: store,
	}
}

// GetResume streams a stored resume. Applicants may only fetch files
// attached to their own applications or profile; HR and super admins
// may fetch any resume.
// @Summary Retrieve a resume as a downloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param filename path string true "Stored resume filename"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Resume belongs to another applicant"
// @Failure 404 {object} utilities.ErrorResponse "Resume not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /resumes/{filename} [get]
func (fc *FileController) GetResume(c *gin.Context) {
	caller := utilities.CallerOrAnonymous(c)

	if err := authz.Decide(caller, authz.ActionViewResume, 0); err != nil {
		utilities.RespondError(c, err)
		return
	}

	filename := path.Base(c.Param("filename"))
	objectName := "resumes/" + filename

	if caller.Role == model.RoleApplicant {
		var count int64
		if err := fc.DB.Model(&model.JobApplication{}).
			Where("applicant_id = ? AND resume_url = ?", caller.ID, objectName).
			Count(&count).Error; err != nil {
			utilities.RespondError(c, apperr.Internal("failed to check resume ownership: %v", err))
			return
		}
		if count == 0 {
			var profileCount int64
			if err := fc.DB.Model(&model.ApplicantDetails{}).
				Where("applicant_id = ? AND resume = ?", caller.ID, objectName).
				Count(&profileCount).Error; err != nil {
				utilities.RespondError(c, apperr.Internal("failed to check resume ownership: %v", err))
				return
			}
			if profileCount == 0 {
				utilities.RespondError(c, apperr.Authorization("resume belongs to another applicant"))
				return
			}
		}
	}

	reader, size, err := fc.Storage.DownloadFile(objectName)
	if err != nil {
		utilities.RespondError(c, apperr.NotFound("resume not found"))
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close storage reader: %v", err)
		}
	}()

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+filename)
	c.Writer.Header().Set("Content-Type", contentType)
	if size > 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to send file content",
			})
		} else {
			c.Abort()
		}
	}
}
