package model

import (
	"fmt"
	"strings"
	"time"
)

// Application status constants
var (
	// ApplicationStatusPending indicates that the application is awaiting review
	ApplicationStatusPending = "PENDING"
	// ApplicationStatusShortlisted indicates that the applicant was shortlisted
	ApplicationStatusShortlisted = "SHORTLISTED"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected = "REJECTED"
	// ApplicationStatusHired indicates that the applicant was hired
	ApplicationStatusHired = "HIRED"
)

// ParseApplicationStatus normalizes a caller-supplied status string against the
// fixed enum, case insensitive. Any status remains reachable from any other;
// HIRED and REJECTED are not treated as terminal.
func ParseApplicationStatus(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case ApplicationStatusPending, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusHired:
		return s, nil
	}
	return "", fmt.Errorf("invalid status value: %s", raw)
}

// JobApplication represents a job application record.
// At most one application may exist per (applicant, job) pair; the store
// enforces this with a unique index and races surface as integrity violations.
type JobApplication struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppliedAt time.Time `gorm:"type:timestamp" json:"applied_at"`
	Status    string    `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	ResumeURL string    `gorm:"type:text;not null" json:"resume_url"`

	ApplicantID uint `gorm:"not null;uniqueIndex:idx_applicant_job" json:"applicant_id"`
	Applicant   User `gorm:"foreignKey:ApplicantID;references:ID" json:"-"`

	JobID uint       `gorm:"not null;uniqueIndex:idx_applicant_job;index" json:"job_id"`
	Job   JobPosting `gorm:"foreignKey:JobID;references:ID" json:"-"`
}

// ApplicationResponse is the response struct for an application with
// denormalized applicant and job fields.
type ApplicationResponse struct {
	ID            uint      `json:"id"`
	AppliedAt     time.Time `json:"applied_at"`
	Status        string    `json:"status"`
	ApplicantID   uint      `json:"applicant_id"`
	ApplicantName string    `json:"applicant_name"`
	JobID         uint      `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	ResumeURL     string    `json:"resume_url"`
}

// ToApplicationResponse converts JobApplication to ApplicationResponse.
// Applicant and Job associations must be loaded.
func (a *JobApplication) ToApplicationResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		AppliedAt:     a.AppliedAt,
		Status:        a.Status,
		ApplicantID:   a.ApplicantID,
		ApplicantName: a.Applicant.FullName,
		JobID:         a.JobID,
		JobTitle:      a.Job.Title,
		ResumeURL:     a.ResumeURL,
	}
}

// HiringReport aggregates application counts by status for a single job posting
type HiringReport struct {
	JobID             uint   `json:"job_id"`
	JobTitle          string `json:"job_title"`
	TotalApplications int    `json:"total_applications"`
	Pending           int    `json:"pending"`
	Shortlisted       int    `json:"shortlisted"`
	Rejected          int    `json:"rejected"`
	Hired             int    `json:"hired"`
}

// Tally counts applications into the report bucket matching their status.
func (r *HiringReport) Tally(status string, count int64) {
	r.TotalApplications += int(count)
	switch status {
	case ApplicationStatusPending:
		r.Pending += int(count)
	case ApplicationStatusShortlisted:
		r.Shortlisted += int(count)
	case ApplicationStatusRejected:
		r.Rejected += int(count)
	case ApplicationStatusHired:
		r.Hired += int(count)
	}
}
