package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"appraisal/internal/auth"
	"appraisal/internal/model"
	"appraisal/internal/repository"
	"appraisal/internal/scoring"
	ws "appraisal/internal/websocket"
	"appraisal/pkg/apperror"
)

// --- DTOs ---

// SelfAppraisalPayload is the faculty member's create/update request. Faculty
// identity and department are taken from the actor, never from the payload.
type SelfAppraisalPayload struct {
	AcademicYear            string                               `json:"academicYear" binding:"required"`
	Teaching                model.TeachingSection                `json:"teaching"`
	Research                model.ResearchSection                `json:"research"`
	ProfessionalDevelopment model.ProfessionalDevelopmentSection `json:"professionalDevelopment"`
	Administration          model.AdministrationSection          `json:"administration"`
	SelfAssessment          model.SelfAssessment                 `json:"selfAssessment"`
	Attachments             []model.Attachment                   `json:"attachments"`
	DigitalSignature        model.DigitalSignature               `json:"digitalSignature"`
	Status                  string                               `json:"status"`
}

// HodAppraisalPayload is the HOD's review request. Assessment and Weightage
// are pointers so a draft save without scores is distinguishable from a
// zero-scored one.
type HodAppraisalPayload struct {
	FacultyID                 uuid.UUID            `json:"facultyId" binding:"required"`
	AcademicYear              string               `json:"academicYear" binding:"required"`
	SelfAppraisalID           uuid.UUID            `json:"selfAppraisalId" binding:"required"`
	Assessment                *model.HodAssessment `json:"assessment"`
	Weightage                 *model.Weightage     `json:"weightage"`
	HodRemarks                string               `json:"hodRemarks"`
	SuggestionsForImprovement string               `json:"suggestionsForImprovement"`
	HodSignature              model.HodSignature   `json:"hodSignature"`
	Status                    string               `json:"status"`
}

// PrincipalRemarksPayload is the Principal's closing request.
type PrincipalRemarksPayload struct {
	FacultyID          uuid.UUID                `json:"facultyId" binding:"required"`
	AcademicYear       string                   `json:"academicYear" binding:"required"`
	SelfAppraisalID    uuid.UUID                `json:"selfAppraisalId" binding:"required"`
	HodAppraisalID     uuid.UUID                `json:"hodAppraisalId" binding:"required"`
	Observations       string                   `json:"observations"`
	Recommendations    string                   `json:"recommendations"`
	PrincipalSignature model.PrincipalSignature `json:"principalSignature"`
	Status             string                   `json:"status"`
}

// ListFilter carries the optional query filters of the list endpoints.
type ListFilter struct {
	AcademicYear string
	FacultyID    *uuid.UUID
	DepartmentID *uuid.UUID
}

// --- Interface ---

// AppraisalService is the appraisal workflow engine: it enforces who may act
// at each stage, validates cross-record references, computes the performance
// score and applies status cascades atomically.
type AppraisalService interface {
	SubmitSelfAppraisal(ctx context.Context, actor *auth.Actor, payload SelfAppraisalPayload) (*model.SelfAppraisal, error)
	SubmitHodAppraisal(ctx context.Context, actor *auth.Actor, payload HodAppraisalPayload) (*model.HodAppraisal, error)
	SubmitPrincipalRemarks(ctx context.Context, actor *auth.Actor, payload PrincipalRemarksPayload) (*model.PrincipalRemarks, error)

	ListSelfAppraisals(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.SelfAppraisal, error)
	ListHodAppraisals(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.HodAppraisal, error)
	ListPrincipalRemarks(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.PrincipalRemarks, error)
	AcademicYears(ctx context.Context, actor *auth.Actor) ([]string, error)
}

type appraisalService struct {
	selfRepo      repository.SelfAppraisalRepository
	hodRepo       repository.HodAppraisalRepository
	principalRepo repository.PrincipalRemarksRepository
	userRepo      repository.UserRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub // optional, nil disables event broadcasting
}

func NewAppraisalService(
	selfRepo repository.SelfAppraisalRepository,
	hodRepo repository.HodAppraisalRepository,
	principalRepo repository.PrincipalRemarksRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) AppraisalService {
	return &appraisalService{
		selfRepo:      selfRepo,
		hodRepo:       hodRepo,
		principalRepo: principalRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Self-appraisal (Faculty) ---

func (s *appraisalService) SubmitSelfAppraisal(ctx context.Context, actor *auth.Actor, payload SelfAppraisalPayload) (*model.SelfAppraisal, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RoleFaculty {
		return nil, apperror.New(apperror.Forbidden, "only Faculty can submit self-appraisals")
	}
	if payload.AcademicYear == "" {
		return nil, apperror.New(apperror.InvalidInput, "academic year is required")
	}
	if err := validateSelfStatus(payload.Status); err != nil {
		return nil, err
	}
	score := payload.SelfAssessment.Score
	if _, err := scoring.NormalizeSelfScore(score); err != nil {
		return nil, err
	}

	// Denormalized identity comes from the user record, not the payload.
	faculty, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "faculty not found")
		}
		return nil, storeFailure("load faculty", err)
	}
	if faculty.DepartmentID == nil {
		return nil, apperror.New(apperror.InvalidInput, "faculty has no department assigned")
	}

	existing, err := s.selfRepo.FindByFacultyYear(ctx, actor.UserID, payload.AcademicYear)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeFailure("find self-appraisal", err)
	}

	if existing != nil {
		if !existing.Editable() {
			return nil, apperror.New(apperror.InvalidState, "cannot update submitted appraisal")
		}
		applySelfPayload(existing, payload)
		if err := s.selfRepo.Update(ctx, existing); err != nil {
			return nil, storeFailure("update self-appraisal", err)
		}
		s.broadcast("appraisal.submitted", existing.FacultyID, existing.AcademicYear, existing.Status)
		return existing, nil
	}

	appraisal := &model.SelfAppraisal{
		FacultyID:      faculty.ID,
		FacultyName:    faculty.Name,
		DepartmentID:   *faculty.DepartmentID,
		DepartmentName: faculty.DepartmentName,
		AcademicYear:   payload.AcademicYear,
		Status:         model.SelfStatusDraft,
	}
	applySelfPayload(appraisal, payload)

	if err := s.selfRepo.Create(ctx, appraisal); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(apperror.Conflict, "self-appraisal already exists for this academic year")
		}
		return nil, storeFailure("create self-appraisal", err)
	}
	s.broadcast("appraisal.submitted", appraisal.FacultyID, appraisal.AcademicYear, appraisal.Status)
	return appraisal, nil
}

func applySelfPayload(appraisal *model.SelfAppraisal, payload SelfAppraisalPayload) {
	appraisal.Teaching = payload.Teaching
	appraisal.Research = payload.Research
	appraisal.ProfessionalDevelopment = payload.ProfessionalDevelopment
	appraisal.Administration = payload.Administration
	appraisal.SelfAssessment = payload.SelfAssessment
	appraisal.Attachments = payload.Attachments
	appraisal.DigitalSignature = payload.DigitalSignature
	if payload.Status != "" {
		if payload.Status == model.SelfStatusSubmitted && appraisal.Status != model.SelfStatusSubmitted {
			now := time.Now()
			appraisal.SubmissionDate = &now
		}
		appraisal.Status = payload.Status
	}
}

func validateSelfStatus(status string) error {
	switch status {
	case "", model.SelfStatusDraft, model.SelfStatusSubmitted:
		return nil
	default:
		return apperror.Newf(apperror.InvalidInput, "invalid status %q for a self-appraisal submission", status)
	}
}

// --- HOD appraisal ---

func (s *appraisalService) SubmitHodAppraisal(ctx context.Context, actor *auth.Actor, payload HodAppraisalPayload) (*model.HodAppraisal, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RoleHOD {
		return nil, apperror.New(apperror.Forbidden, "only HOD can submit faculty appraisals")
	}
	if actor.DepartmentID == nil {
		return nil, apperror.New(apperror.Forbidden, "HOD has no department assigned")
	}
	if payload.FacultyID == uuid.Nil || payload.AcademicYear == "" || payload.SelfAppraisalID == uuid.Nil {
		return nil, apperror.New(apperror.InvalidInput, "faculty ID, academic year, and self-appraisal ID are required")
	}
	if err := validateHodStatus(payload.Status); err != nil {
		return nil, err
	}

	faculty, err := s.userRepo.GetByID(ctx, payload.FacultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "faculty not found")
		}
		return nil, storeFailure("load faculty", err)
	}
	if faculty.DepartmentID == nil || *faculty.DepartmentID != *actor.DepartmentID {
		return nil, apperror.New(apperror.Forbidden, "faculty is not in your department")
	}

	selfAppraisal, err := s.selfRepo.FindByID(ctx, payload.SelfAppraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "self-appraisal not found")
		}
		return nil, storeFailure("load self-appraisal", err)
	}
	if selfAppraisal.Status == model.SelfStatusDraft {
		return nil, apperror.New(apperror.InvalidState, "cannot review a draft self-appraisal")
	}
	if selfAppraisal.FacultyID != payload.FacultyID || selfAppraisal.AcademicYear != payload.AcademicYear {
		return nil, apperror.New(apperror.InvalidInput, "self-appraisal does not belong to the given faculty and academic year")
	}

	var performance model.PerformanceScore
	if payload.Assessment != nil && payload.Weightage != nil {
		if err := validateWeightage(*payload.Weightage); err != nil {
			return nil, err
		}
		performance, err = computePerformance(*payload.Assessment, selfAppraisal.SelfAssessment.Score)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.hodRepo.FindByFacultyYear(ctx, payload.FacultyID, payload.AcademicYear)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeFailure("find HOD appraisal", err)
	}
	if existing != nil && !existing.Editable() {
		return nil, apperror.New(apperror.InvalidState, "cannot update submitted appraisal")
	}

	appraisal := existing
	if appraisal == nil {
		appraisal = &model.HodAppraisal{
			FacultyID:    faculty.ID,
			AcademicYear: payload.AcademicYear,
			Status:       model.HodStatusDraft,
		}
	}
	appraisal.FacultyName = faculty.Name
	appraisal.DepartmentID = *actor.DepartmentID
	appraisal.DepartmentName = faculty.DepartmentName
	appraisal.SelfAppraisalID = selfAppraisal.ID
	if payload.Assessment != nil {
		appraisal.Assessment = *payload.Assessment
	}
	if payload.Weightage != nil {
		appraisal.Weightage = *payload.Weightage
	}
	if payload.Assessment != nil && payload.Weightage != nil {
		appraisal.PerformanceScore = performance
	}
	appraisal.HodRemarks = payload.HodRemarks
	appraisal.SuggestionsForImprovement = payload.SuggestionsForImprovement
	appraisal.HodSignature = payload.HodSignature

	submitting := payload.Status == model.HodStatusSubmittedToPrincipal
	if payload.Status != "" {
		if submitting && appraisal.Status != model.HodStatusSubmittedToPrincipal {
			now := time.Now()
			appraisal.SubmissionDate = &now
		}
		appraisal.Status = payload.Status
	}

	// Submission advances the reviewed self-appraisal in the same
	// transaction; a plain draft save needs no cascade.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if existing != nil {
			if err := s.hodRepo.Update(txCtx, appraisal); err != nil {
				return storeFailure("update HOD appraisal", err)
			}
		} else if err := s.hodRepo.Create(txCtx, appraisal); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.New(apperror.Conflict, "HOD appraisal already exists for this faculty and academic year")
			}
			return storeFailure("create HOD appraisal", err)
		}
		if submitting {
			if err := s.selfRepo.UpdateStatus(txCtx, selfAppraisal.ID, model.SelfStatusReviewedByHod); err != nil {
				return storeFailure("advance self-appraisal", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if submitting {
		s.broadcast("appraisal.reviewed", appraisal.FacultyID, appraisal.AcademicYear, appraisal.Status)
	}
	return appraisal, nil
}

func validateHodStatus(status string) error {
	switch status {
	case "", model.HodStatusDraft, model.HodStatusSubmittedToPrincipal:
		return nil
	default:
		return apperror.Newf(apperror.InvalidInput, "invalid status %q for an HOD appraisal submission", status)
	}
}

func validateWeightage(w model.Weightage) error {
	for _, weight := range []float64{w.TeachingWeight, w.ResearchWeight, w.ProfessionalDevelopmentWeight, w.AdministrationWeight} {
		if weight < 0 || weight > 1 {
			return apperror.Newf(apperror.InvalidInput, "weightage value %v out of range 0-1", weight)
		}
	}
	return nil
}

// computePerformance derives the stored performance score: the ten-criterion
// average blended with the normalized self score under the fixed 75/25 split.
func computePerformance(assessment model.HodAssessment, rawSelfScore float64) (model.PerformanceScore, error) {
	average, err := scoring.AverageCriteria(assessment.Criteria())
	if err != nil {
		return model.PerformanceScore{}, err
	}
	normalized, err := scoring.NormalizeSelfScore(rawSelfScore)
	if err != nil {
		return model.PerformanceScore{}, err
	}
	composite, err := scoring.WeightedComposite(normalized, average)
	if err != nil {
		return model.PerformanceScore{}, err
	}
	return model.PerformanceScore{
		WeightedScore: composite,
		Category:      scoring.Categorize(composite),
	}, nil
}

// --- Principal remarks ---

func (s *appraisalService) SubmitPrincipalRemarks(ctx context.Context, actor *auth.Actor, payload PrincipalRemarksPayload) (*model.PrincipalRemarks, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RolePrincipal {
		return nil, apperror.New(apperror.Forbidden, "only Principal can submit remarks")
	}
	if payload.FacultyID == uuid.Nil || payload.AcademicYear == "" ||
		payload.SelfAppraisalID == uuid.Nil || payload.HodAppraisalID == uuid.Nil {
		return nil, apperror.New(apperror.InvalidInput, "faculty ID, academic year, self-appraisal ID, and HOD appraisal ID are required")
	}
	if err := validatePrincipalStatus(payload.Status); err != nil {
		return nil, err
	}

	hodAppraisal, err := s.hodRepo.FindByID(ctx, payload.HodAppraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "HOD appraisal not found")
		}
		return nil, storeFailure("load HOD appraisal", err)
	}
	if hodAppraisal.Status != model.HodStatusSubmittedToPrincipal {
		return nil, apperror.New(apperror.InvalidState, "HOD appraisal has not been submitted to Principal")
	}
	if hodAppraisal.FacultyID != payload.FacultyID || hodAppraisal.AcademicYear != payload.AcademicYear {
		return nil, apperror.New(apperror.InvalidInput, "HOD appraisal does not belong to the given faculty and academic year")
	}
	if hodAppraisal.SelfAppraisalID != payload.SelfAppraisalID {
		return nil, apperror.New(apperror.InvalidInput, "self-appraisal ID does not match the HOD appraisal reference")
	}

	existing, err := s.principalRepo.FindByFacultyYear(ctx, payload.FacultyID, payload.AcademicYear)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeFailure("find Principal remarks", err)
	}
	if existing != nil && !existing.Editable() {
		return nil, apperror.New(apperror.InvalidState, "cannot update completed remarks")
	}

	remarks := existing
	if remarks == nil {
		remarks = &model.PrincipalRemarks{
			FacultyID:    payload.FacultyID,
			AcademicYear: payload.AcademicYear,
			Status:       model.PrincipalStatusDraft,
		}
	}
	// Identity fields are denormalized from the HOD appraisal, not trusted
	// from the caller.
	remarks.FacultyName = hodAppraisal.FacultyName
	remarks.DepartmentID = hodAppraisal.DepartmentID
	remarks.DepartmentName = hodAppraisal.DepartmentName
	remarks.SelfAppraisalID = payload.SelfAppraisalID
	remarks.HodAppraisalID = hodAppraisal.ID
	remarks.Observations = payload.Observations
	remarks.Recommendations = payload.Recommendations
	remarks.PrincipalSignature = payload.PrincipalSignature

	completing := payload.Status == model.PrincipalStatusCompleted
	if payload.Status != "" {
		if completing && remarks.Status != model.PrincipalStatusCompleted {
			now := time.Now()
			remarks.CompletionDate = &now
		}
		remarks.Status = payload.Status
	}

	// Completion closes out all three records atomically.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if existing != nil {
			if err := s.principalRepo.Update(txCtx, remarks); err != nil {
				return storeFailure("update Principal remarks", err)
			}
		} else if err := s.principalRepo.Create(txCtx, remarks); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.New(apperror.Conflict, "Principal remarks already exist for this faculty and academic year")
			}
			return storeFailure("create Principal remarks", err)
		}
		if completing {
			if err := s.hodRepo.UpdateStatus(txCtx, hodAppraisal.ID, model.HodStatusCompleted); err != nil {
				return storeFailure("complete HOD appraisal", err)
			}
			if err := s.selfRepo.UpdateStatus(txCtx, payload.SelfAppraisalID, model.SelfStatusCompleted); err != nil {
				return storeFailure("complete self-appraisal", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completing {
		s.broadcast("appraisal.completed", remarks.FacultyID, remarks.AcademicYear, remarks.Status)
	}
	return remarks, nil
}

func validatePrincipalStatus(status string) error {
	switch status {
	case "", model.PrincipalStatusDraft, model.PrincipalStatusCompleted:
		return nil
	default:
		return apperror.Newf(apperror.InvalidInput, "invalid status %q for Principal remarks", status)
	}
}

// --- Listings ---

// scopeFilter applies role-based visibility: Faculty see their own records,
// HODs see their department, the Principal sees everything.
func scopeFilter(actor *auth.Actor, filter ListFilter) (repository.AppraisalFilter, error) {
	scoped := repository.AppraisalFilter{
		AcademicYear: filter.AcademicYear,
		FacultyID:    filter.FacultyID,
		DepartmentID: filter.DepartmentID,
	}
	switch actor.Role {
	case model.RoleFaculty:
		id := actor.UserID
		scoped.FacultyID = &id
		scoped.DepartmentID = nil
	case model.RoleHOD:
		scoped.DepartmentID = actor.DepartmentID
	case model.RolePrincipal:
		// no restriction beyond the caller's filters
	default:
		return repository.AppraisalFilter{}, apperror.New(apperror.Forbidden, "unknown role")
	}
	return scoped, nil
}

func (s *appraisalService) ListSelfAppraisals(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.SelfAppraisal, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	// An HOD asking for a specific faculty member must stay inside their
	// department.
	if actor.Role == model.RoleHOD && filter.FacultyID != nil {
		faculty, err := s.userRepo.GetByID(ctx, *filter.FacultyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.New(apperror.NotFound, "faculty not found")
			}
			return nil, storeFailure("load faculty", err)
		}
		if actor.DepartmentID == nil || faculty.DepartmentID == nil || *faculty.DepartmentID != *actor.DepartmentID {
			return nil, apperror.New(apperror.Forbidden, "access denied")
		}
	}
	scoped, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	appraisals, err := s.selfRepo.List(ctx, scoped)
	if err != nil {
		return nil, storeFailure("list self-appraisals", err)
	}
	return appraisals, nil
}

func (s *appraisalService) ListHodAppraisals(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.HodAppraisal, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	scoped, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	appraisals, err := s.hodRepo.List(ctx, scoped)
	if err != nil {
		return nil, storeFailure("list HOD appraisals", err)
	}
	return appraisals, nil
}

func (s *appraisalService) ListPrincipalRemarks(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]model.PrincipalRemarks, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	scoped, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	remarks, err := s.principalRepo.List(ctx, scoped)
	if err != nil {
		return nil, storeFailure("list Principal remarks", err)
	}
	return remarks, nil
}

func (s *appraisalService) AcademicYears(ctx context.Context, actor *auth.Actor) ([]string, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	years, err := s.selfRepo.DistinctAcademicYears(ctx)
	if err != nil {
		return nil, storeFailure("list academic years", err)
	}
	return years, nil
}

// --- Helpers ---

type workflowEvent struct {
	Event        string `json:"event"`
	FacultyID    string `json:"facultyId"`
	AcademicYear string `json:"academicYear"`
	Status       string `json:"status"`
}

// broadcast publishes a workflow transition to connected dashboard clients.
// Dropped silently when no hub is attached or the hub is saturated.
func (s *appraisalService) broadcast(event string, facultyID uuid.UUID, academicYear, status string) {
	if s.hub == nil {
		return
	}
	message, err := json.Marshal(workflowEvent{
		Event:        event,
		FacultyID:    facultyID.String(),
		AcademicYear: academicYear,
		Status:       status,
	})
	if err != nil {
		return
	}
	select {
	case s.hub.Broadcast <- message:
	default:
	}
}

func storeFailure(op string, err error) error {
	log.Printf("store failure (%s): %v", op, err)
	return apperror.Wrap(apperror.Store, "storage failure", err)
}
