package database

import (
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"

	"TalentBridge-backend/internal/apperr"
	"TalentBridge-backend/internal/model"
)

// ErrVersionConflict is returned by version-checked saves when the row was
// modified since it was read.
var ErrVersionConflict = errors.New("optimistic version conflict")

const (
	versionRetryAttempts = 3
	versionRetryBase     = 100 * time.Millisecond
)

// WithVersionRetry runs op under the bounded optimistic-lock retry policy:
// up to 3 attempts, exponential backoff starting at 100ms and doubling between
// attempts. Only ErrVersionConflict is retried; any other failure aborts
// immediately. op must refetch the record and reapply the same caller-supplied
// patch on every attempt, never reuse a stale copy.
// After exhausting retries the caller gets a Concurrency error distinguishable
// from validation failures.
func WithVersionRetry(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = versionRetryBase
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithMaxRetries(bo, versionRetryAttempts-1))

	if errors.Is(err, ErrVersionConflict) {
		return apperr.Concurrency("Another update occurred concurrently, please try again")
	}
	return err
}

// SaveApplicantDetailsVersioned persists the profile only if its version still
// matches the one it was read at, incrementing the counter on success.
// A concurrent writer that advanced the version first makes this return
// ErrVersionConflict.
func (d *DBinstanceStruct) SaveApplicantDetailsVersioned(details *model.ApplicantDetails) error {
	readVersion := details.Version
	res := d.Model(&model.ApplicantDetails{}).
		Where("applicant_id = ? AND version = ?", details.ApplicantID, readVersion).
		Updates(map[string]interface{}{
			"skill":      details.Skill,
			"experience": details.Experience,
			"linked_in":  details.LinkedIn,
			"portfolio":  details.Portfolio,
			"resume":     details.Resume,
			"version":    readVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	details.Version = readVersion + 1
	return nil
}

// SaveHrDetailsVersioned is the HR-profile counterpart of
// SaveApplicantDetailsVersioned.
func (d *DBinstanceStruct) SaveHrDetailsVersioned(details *model.HrDetails) error {
	readVersion := details.Version
	res := d.Model(&model.HrDetails{}).
		Where("hr_id = ? AND version = ?", details.HRID, readVersion).
		Updates(map[string]interface{}{
			"company_name": details.CompanyName,
			"designation":  details.Designation,
			"version":      readVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	details.Version = readVersion + 1
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Duplicate-insert races on (applicant_id, job_id) and on skills
// surface here and are remapped to Conflict instead of leaking as a 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign-key
// violation, meaning a referenced record does not exist.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
