package model

import (
	"time"

	"github.com/google/uuid"
)

// HodAppraisal statuses: draft -> submitted_to_principal -> completed.
const (
	HodStatusDraft                = "draft"
	HodStatusSubmittedToPrincipal = "submitted_to_principal"
	HodStatusCompleted            = "completed"
)

// CriterionMax is the ceiling for each of the ten HOD assessment criteria.
const CriterionMax = 25

// HodAssessment holds the HOD's ten criteria, each scored 0-25.
type HodAssessment struct {
	InitiativeAndDrive                float64 `json:"initiativeAndDrive"`
	AvailingOfLeavePermissions        float64 `json:"availingOfLeavePermissions"`
	DomainKnowledge                   float64 `json:"domainKnowledge"`
	EfficacyOfStudentMentoring        float64 `json:"efficacyOfStudentMentoring"`
	AdministrativeEfficiency          float64 `json:"administrativeEfficiency"`
	ComplianceOfInstitutionalPolicies float64 `json:"complianceOfInstitutionalPolicies"`
	CollegialityAndTeamwork           float64 `json:"collegialityAndTeamwork"`
	ClassControlAndInnovation         float64 `json:"classControlAndInnovation"`
	TimelyCompletionOfTasks           float64 `json:"timelyCompletionOfTasks"`
	AttireAppearanceAndPunctuality    float64 `json:"attireAppearanceAndPunctuality"`
	ShowCauseNotices                  string  `json:"showCauseNotices"`
}

// Criteria returns the ten numeric criterion values in declaration order.
func (a HodAssessment) Criteria() []float64 {
	return []float64{
		a.InitiativeAndDrive,
		a.AvailingOfLeavePermissions,
		a.DomainKnowledge,
		a.EfficacyOfStudentMentoring,
		a.AdministrativeEfficiency,
		a.ComplianceOfInstitutionalPolicies,
		a.CollegialityAndTeamwork,
		a.ClassControlAndInnovation,
		a.TimelyCompletionOfTasks,
		a.AttireAppearanceAndPunctuality,
	}
}

// Weightage stores the rank-specific relative weights of the four appraisal
// parts. These are recorded on the appraisal but the composite score uses the
// fixed 75/25 self/HOD split; see internal/scoring.
type Weightage struct {
	TeachingWeight                float64 `json:"teachingWeight"`
	ResearchWeight                float64 `json:"researchWeight"`
	ProfessionalDevelopmentWeight float64 `json:"professionalDevelopmentWeight"`
	AdministrationWeight          float64 `json:"administrationWeight"`
}

// PerformanceScore is the externally visible scoring contract consumed by
// reporting collaborators: a 0-100 weighted score with 2 decimals and its band.
type PerformanceScore struct {
	WeightedScore float64 `json:"weightedScore"`
	Category      string  `json:"category"`
}

type HodSignature struct {
	Signed        bool       `json:"signed"`
	HodName       string     `json:"hodName"`
	SignatureDate *time.Time `json:"signatureDate"`
}

// HodAppraisal is the department head's review of one SelfAppraisal.
// Exactly one exists per (faculty, academic year).
type HodAppraisal struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FacultyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hod_faculty_year" json:"facultyId"`
	FacultyName     string    `gorm:"type:varchar(255);not null" json:"facultyName"`
	DepartmentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"departmentId"`
	DepartmentName  string    `gorm:"type:varchar(255);not null" json:"departmentName"`
	AcademicYear    string    `gorm:"type:varchar(9);not null;uniqueIndex:idx_hod_faculty_year;index" json:"academicYear"`
	SelfAppraisalID uuid.UUID `gorm:"type:uuid;not null" json:"selfAppraisalId"`

	Assessment                HodAssessment    `gorm:"type:jsonb;serializer:json" json:"assessment"`
	Weightage                 Weightage        `gorm:"type:jsonb;serializer:json" json:"weightage"`
	PerformanceScore          PerformanceScore `gorm:"type:jsonb;serializer:json" json:"performanceScore"`
	HodRemarks                string           `gorm:"type:text" json:"hodRemarks"`
	SuggestionsForImprovement string           `gorm:"type:text" json:"suggestionsForImprovement"`
	HodSignature              HodSignature     `gorm:"type:jsonb;serializer:json" json:"hodSignature"`

	Status         string     `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	SubmissionDate *time.Time `json:"submissionDate"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (a *HodAppraisal) Editable() bool {
	return a.Status == HodStatusDraft
}
