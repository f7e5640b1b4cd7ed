package model

// ApplicantDetails is the 1:1 profile record for an applicant user.
// Version is an optimistic-lock counter: every successful save must match the
// version it read and increments it by one. Writes based on a stale read are
// rejected by the store layer and retried by the caller.
type ApplicantDetails struct {
	ApplicantID uint   `gorm:"primaryKey" json:"applicant_id"`
	User        User   `gorm:"foreignKey:ApplicantID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Skill       string `gorm:"type:text" json:"skill"`
	Experience  *int   `json:"experience"`
	LinkedIn    string `gorm:"type:text" json:"linkedin"`
	Portfolio   string `gorm:"type:text" json:"portfolio"`
	Resume      string `gorm:"type:text" json:"resume"`
	Version     int64  `gorm:"not null;default:0" json:"version"`
}

// HrDetails is the 1:1 company profile record for an HR user,
// optimistic-locked the same way as ApplicantDetails.
type HrDetails struct {
	HRID        uint   `gorm:"primaryKey" json:"hr_id"`
	User        User   `gorm:"foreignKey:HRID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CompanyName string `gorm:"type:text" json:"company_name"`
	Designation string `gorm:"type:text" json:"designation"`
	Version     int64  `gorm:"not null;default:0" json:"version"`
}

// ApplicantSkill is one secondary skill of an applicant, independent from the
// single primary skill on ApplicantDetails. Skills are stored lowercased and
// uniqueness per applicant is enforced case-insensitively by the store.
type ApplicantSkill struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicantID uint             `gorm:"not null;uniqueIndex:idx_applicant_skill" json:"applicant_id"`
	Applicant   ApplicantDetails `gorm:"foreignKey:ApplicantID;references:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`
	Skill       string           `gorm:"type:text;not null;uniqueIndex:idx_applicant_skill" json:"skill"`
}
