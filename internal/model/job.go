package model

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Job status constants
var (
	// JobStatusOpen indicates the posting accepts new applications
	JobStatusOpen = "OPEN"
	// JobStatusClose indicates the posting is closed to new applications
	JobStatusClose = "CLOSE"
)

// DefaultJobImageURL is the sentinel placeholder used when no image was uploaded.
// Asset cleanup on update/delete skips this URL.
const DefaultJobImageURL = "https://via.placeholder.com/300x200?text=Default+Job+Image"

// EditableJobInfo is part of job posting that can be edited by its owner
type EditableJobInfo struct {
	Title        string `gorm:"type:text" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"`
	Salary       string `gorm:"type:text" json:"salary"`
	Location     string `gorm:"type:text" json:"location"`
	Category     string `gorm:"type:text" json:"category"`
	Status       string `gorm:"type:text;default:'OPEN'" json:"status"`
	ImageURL     string `gorm:"type:text" json:"image_url"`

	Tags pq.StringArray `gorm:"type:text[]" json:"tags"`
}

// JobPosting is gorm model for store job posting data in DB
type JobPosting struct {
	ID   uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	HRID uint `gorm:"not null;index;<-:create" json:"hr_id"`
	HR   User `gorm:"foreignKey:HRID;references:ID" json:"-"`
	EditableJobInfo
	CreatedAt    time.Time        `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsOpen reports whether the posting currently accepts applications.
func (j *JobPosting) IsOpen() bool {
	return j.Status == JobStatusOpen
}

// JobResponse is the response struct for a job posting with per-caller apply eligibility
type JobResponse struct {
	ID     uint   `json:"id"`
	HRID   uint   `json:"hr_id"`
	HRName string `json:"hr_name,omitempty"`
	EditableJobInfo
	CreatedAt time.Time `json:"created_at"`
	CanApply  bool      `json:"can_apply"`
}

// ToJobResponse converts JobPosting to JobResponse for the given caller.
// CanApply is true only for an authenticated applicant who has not applied
// to this posting while it is OPEN.
func (j *JobPosting) ToJobResponse(caller User, applied bool) (JobResponse, error) {

	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}

	err = json.Unmarshal(b, &resp)
	if err != nil {
		return resp, err
	}

	resp.HRName = j.HR.FullName
	resp.CanApply = caller.Role == RoleApplicant && j.IsOpen() && !applied

	return resp, nil
}
