package model

import (
	"time"

	"github.com/google/uuid"
)

// PrincipalRemarks statuses: draft -> completed.
const (
	PrincipalStatusDraft     = "draft"
	PrincipalStatusCompleted = "completed"
)

type PrincipalSignature struct {
	Signed        bool       `json:"signed"`
	PrincipalName string     `json:"principalName"`
	SignatureDate *time.Time `json:"signatureDate"`
}

// PrincipalRemarks closes out one appraisal cycle. It references the
// SelfAppraisal and HodAppraisal by id only; completing it cascades both to
// completed. Exactly one exists per (faculty, academic year).
type PrincipalRemarks struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FacultyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_principal_faculty_year" json:"facultyId"`
	FacultyName     string    `gorm:"type:varchar(255);not null" json:"facultyName"`
	DepartmentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"departmentId"`
	DepartmentName  string    `gorm:"type:varchar(255);not null" json:"departmentName"`
	AcademicYear    string    `gorm:"type:varchar(9);not null;uniqueIndex:idx_principal_faculty_year;index" json:"academicYear"`
	SelfAppraisalID uuid.UUID `gorm:"type:uuid;not null" json:"selfAppraisalId"`
	HodAppraisalID  uuid.UUID `gorm:"type:uuid;not null" json:"hodAppraisalId"`

	Observations       string             `gorm:"type:text" json:"observations"`
	Recommendations    string             `gorm:"type:text" json:"recommendations"`
	PrincipalSignature PrincipalSignature `gorm:"type:jsonb;serializer:json" json:"principalSignature"`

	Status         string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CompletionDate *time.Time `json:"completionDate"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *PrincipalRemarks) Editable() bool {
	return r.Status == PrincipalStatusDraft
}
