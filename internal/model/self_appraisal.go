package model

import (
	"time"

	"github.com/google/uuid"
)

// SelfAppraisal statuses. Transitions are one-directional:
// draft -> submitted -> reviewed_by_hod -> completed.
const (
	SelfStatusDraft         = "draft"
	SelfStatusSubmitted     = "submitted"
	SelfStatusReviewedByHod = "reviewed_by_hod"
	SelfStatusCompleted     = "completed"
)

// SelfAssessmentMax is the raw self-assessment score ceiling (Parts A-D combined).
const SelfAssessmentMax = 375

// CourseHandled is one course taught during the appraisal year.
type CourseHandled struct {
	CourseCode    string `json:"courseCode"`
	CourseName    string `json:"courseName"`
	Semester      string `json:"semester"`
	Section       string `json:"section"`
	StudentsCount int    `json:"studentsCount"`
	HoursPerWeek  int    `json:"hoursPerWeek"`
}

// TeachingSection is Part A of the self-appraisal.
type TeachingSection struct {
	CoursesHandled                  []CourseHandled `json:"coursesHandled"`
	TeachingInnovations             string          `json:"teachingInnovations"`
	StudentFeedbackScore            float64         `json:"studentFeedbackScore"`
	AdditionalTeachingContributions string          `json:"additionalTeachingContributions"`
}

type Publication struct {
	Title             string `json:"title"`
	Authors           string `json:"authors"`
	JournalConference string `json:"journalConference"`
	Volume            string `json:"volume"`
	Pages             string `json:"pages"`
	Year              string `json:"year"`
	Indexing          string `json:"indexing"`
	ImpactFactor      string `json:"impactFactor"`
	Citations         int    `json:"citations"`
}

type ResearchProject struct {
	Title         string  `json:"title"`
	FundingAgency string  `json:"fundingAgency"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Duration      string  `json:"duration"`
}

type Patent struct {
	Title             string `json:"title"`
	ApplicationNumber string `json:"applicationNumber"`
	Status            string `json:"status"`
	Year              string `json:"year"`
}

type Consultancy struct {
	ClientName   string  `json:"clientName"`
	ProjectTitle string  `json:"projectTitle"`
	Amount       float64 `json:"amount"`
	Duration     string  `json:"duration"`
	Status       string  `json:"status"`
}

// ResearchSection is Part B: research, IPR and consultancy.
type ResearchSection struct {
	Publications     []Publication     `json:"publications"`
	ResearchProjects []ResearchProject `json:"researchProjects"`
	Patents          []Patent          `json:"patents"`
	Consultancy      []Consultancy     `json:"consultancy"`
}

type ConferenceAttended struct {
	Name         string     `json:"name"`
	Organizer    string     `json:"organizer"`
	Date         *time.Time `json:"date"`
	Contribution string     `json:"contribution"`
}

type FdpAttended struct {
	Name      string     `json:"name"`
	Organizer string     `json:"organizer"`
	Duration  string     `json:"duration"`
	Date      *time.Time `json:"date"`
}

type CertificationCourse struct {
	Name           string     `json:"name"`
	Provider       string     `json:"provider"`
	Duration       string     `json:"duration"`
	CompletionDate *time.Time `json:"completionDate"`
	Score          string     `json:"score"`
}

// ProfessionalDevelopmentSection is Part C.
type ProfessionalDevelopmentSection struct {
	ConferencesAttended            []ConferenceAttended  `json:"conferencesAttended"`
	FdpsAttended                   []FdpAttended         `json:"fdpsAttended"`
	CertificationCourses           []CertificationCourse `json:"certificationCourses"`
	MembershipInProfessionalBodies string                `json:"membershipInProfessionalBodies"`
}

type AdministrativeRole struct {
	Role             string `json:"role"`
	Responsibilities string `json:"responsibilities"`
	Duration         string `json:"duration"`
}

type CommitteeParticipation struct {
	CommitteeName string `json:"committeeName"`
	Role          string `json:"role"`
	Contributions string `json:"contributions"`
}

// AdministrationSection is Part D.
type AdministrationSection struct {
	AdministrativeRoles                   []AdministrativeRole     `json:"administrativeRoles"`
	CommitteeParticipation                []CommitteeParticipation `json:"committeeParticipation"`
	InstitutionalDevelopmentContributions string                   `json:"institutionalDevelopmentContributions"`
}

// SelfAssessment carries the faculty member's own raw score (out of 375)
// and narrative fields.
type SelfAssessment struct {
	Score               float64 `json:"score"`
	Strengths           string  `json:"strengths"`
	AreasForImprovement string  `json:"areasForImprovement"`
	GoalsForNextYear    string  `json:"goalsForNextYear"`
}

// Attachment is metadata only; file bytes are handled by the upload service.
type Attachment struct {
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FilePath   string    `json:"filePath"`
	UploadDate time.Time `json:"uploadDate"`
	Section    string    `json:"section"`
}

type DigitalSignature struct {
	Signed        bool       `json:"signed"`
	SignatureDate *time.Time `json:"signatureDate"`
}

// SelfAppraisal is the faculty member's annual self-appraisal. Exactly one
// exists per (faculty, academic year); it is writable only while in draft.
type SelfAppraisal struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FacultyID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_self_faculty_year" json:"facultyId"`
	FacultyName    string    `gorm:"type:varchar(255);not null" json:"facultyName"`
	DepartmentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"departmentId"`
	DepartmentName string    `gorm:"type:varchar(255);not null" json:"departmentName"`
	AcademicYear   string    `gorm:"type:varchar(9);not null;uniqueIndex:idx_self_faculty_year;index" json:"academicYear"`

	Teaching                TeachingSection                `gorm:"type:jsonb;serializer:json" json:"teaching"`
	Research                ResearchSection                `gorm:"type:jsonb;serializer:json" json:"research"`
	ProfessionalDevelopment ProfessionalDevelopmentSection `gorm:"type:jsonb;serializer:json" json:"professionalDevelopment"`
	Administration          AdministrationSection          `gorm:"type:jsonb;serializer:json" json:"administration"`
	SelfAssessment          SelfAssessment                 `gorm:"type:jsonb;serializer:json" json:"selfAssessment"`
	Attachments             []Attachment                   `gorm:"type:jsonb;serializer:json" json:"attachments"`
	DigitalSignature        DigitalSignature               `gorm:"type:jsonb;serializer:json" json:"digitalSignature"`

	Status         string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	SubmissionDate *time.Time `json:"submissionDate"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Editable reports whether the record can still be modified by its owner.
func (a *SelfAppraisal) Editable() bool {
	return a.Status == SelfStatusDraft
}
