package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"appraisal/internal/auth"
	"appraisal/internal/model"
	"appraisal/internal/repository"
	"appraisal/internal/scoring"
	"appraisal/pkg/apperror"
)

// --- DTOs ---

type DepartmentBreakdown struct {
	DepartmentID    uuid.UUID      `json:"departmentId"`
	DepartmentName  string         `json:"departmentName"`
	TotalAppraisals int            `json:"totalAppraisals"`
	AverageScore    float64        `json:"averageScore"`
	Categories      map[string]int `json:"performanceCategories"`
}

// AnalyticsSummary aggregates scored HOD appraisals for dashboards.
type AnalyticsSummary struct {
	TotalAppraisals     int                   `json:"totalAppraisals"`
	AverageScore        float64               `json:"averageScore"`
	Categories          map[string]int        `json:"performanceCategories"`
	DepartmentBreakdown []DepartmentBreakdown `json:"departmentBreakdown"`
}

type AnalyticsFilter struct {
	AcademicYear string
	DepartmentID *uuid.UUID
}

// --- Interface ---

// AnalyticsService reports on appraisal progress. HODs see their own
// department, the Principal the whole institute; Faculty have no access.
type AnalyticsService interface {
	Summary(ctx context.Context, actor *auth.Actor, filter AnalyticsFilter) (*AnalyticsSummary, error)
	PendingCount(ctx context.Context, actor *auth.Actor) (int64, error)
	CompletedCount(ctx context.Context, actor *auth.Actor) (int64, error)
}

type analyticsService struct {
	hodRepo       repository.HodAppraisalRepository
	selfRepo      repository.SelfAppraisalRepository
	principalRepo repository.PrincipalRemarksRepository
	deptRepo      repository.DepartmentRepository
}

func NewAnalyticsService(
	hodRepo repository.HodAppraisalRepository,
	selfRepo repository.SelfAppraisalRepository,
	principalRepo repository.PrincipalRemarksRepository,
	deptRepo repository.DepartmentRepository,
) AnalyticsService {
	return &analyticsService{
		hodRepo:       hodRepo,
		selfRepo:      selfRepo,
		principalRepo: principalRepo,
		deptRepo:      deptRepo,
	}
}

// --- Implementation ---

func emptyCategories() map[string]int {
	return map[string]int{
		scoring.CategoryBelowAverage: 0,
		scoring.CategoryAverage:      0,
		scoring.CategoryGood:         0,
		scoring.CategoryVeryGood:     0,
		scoring.CategoryExcellent:    0,
	}
}

func roundScore(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	avg, _ := total.Div(decimal.NewFromInt(int64(count))).Round(2).Float64()
	return avg
}

func (s *analyticsService) Summary(ctx context.Context, actor *auth.Actor, filter AnalyticsFilter) (*AnalyticsSummary, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RolePrincipal && actor.Role != model.RoleHOD {
		return nil, apperror.New(apperror.Forbidden, "access denied")
	}

	repoFilter := repository.AppraisalFilter{
		AcademicYear: filter.AcademicYear,
		DepartmentID: filter.DepartmentID,
	}
	if actor.Role == model.RoleHOD {
		repoFilter.DepartmentID = actor.DepartmentID
	}

	appraisals, err := s.hodRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, storeFailure("list HOD appraisals", err)
	}

	var departments []model.Department
	if actor.Role == model.RolePrincipal {
		departments, err = s.deptRepo.List(ctx)
		if err != nil {
			return nil, storeFailure("list departments", err)
		}
	} else if actor.DepartmentID != nil {
		dept, err := s.deptRepo.GetByID(ctx, *actor.DepartmentID)
		if err != nil {
			return nil, storeFailure("load department", err)
		}
		departments = []model.Department{*dept}
	}

	summary := &AnalyticsSummary{
		TotalAppraisals: len(appraisals),
		Categories:      emptyCategories(),
	}

	total := decimal.Zero
	scored := 0
	perDept := make(map[uuid.UUID][]model.HodAppraisal)
	for _, a := range appraisals {
		perDept[a.DepartmentID] = append(perDept[a.DepartmentID], a)
		if a.PerformanceScore.Category != "" {
			summary.Categories[a.PerformanceScore.Category]++
			total = total.Add(decimal.NewFromFloat(a.PerformanceScore.WeightedScore))
			scored++
		}
	}
	summary.AverageScore = roundScore(total, scored)

	for _, dept := range departments {
		deptAppraisals := perDept[dept.ID]
		deptTotal := decimal.Zero
		deptScored := 0
		categories := emptyCategories()
		for _, a := range deptAppraisals {
			if a.PerformanceScore.Category != "" {
				categories[a.PerformanceScore.Category]++
				deptTotal = deptTotal.Add(decimal.NewFromFloat(a.PerformanceScore.WeightedScore))
				deptScored++
			}
		}
		summary.DepartmentBreakdown = append(summary.DepartmentBreakdown, DepartmentBreakdown{
			DepartmentID:    dept.ID,
			DepartmentName:  dept.Name,
			TotalAppraisals: len(deptAppraisals),
			AverageScore:    roundScore(deptTotal, deptScored),
			Categories:      categories,
		})
	}

	return summary, nil
}

// PendingCount reports work waiting on the actor: submitted self-appraisals
// for an HOD, HOD appraisals awaiting review for the Principal.
func (s *analyticsService) PendingCount(ctx context.Context, actor *auth.Actor) (int64, error) {
	if actor == nil {
		return 0, apperror.New(apperror.Unauthorized, "authentication required")
	}
	switch actor.Role {
	case model.RoleHOD:
		count, err := s.selfRepo.CountByStatus(ctx, []string{model.SelfStatusSubmitted}, actor.DepartmentID)
		if err != nil {
			return 0, storeFailure("count pending self-appraisals", err)
		}
		return count, nil
	case model.RolePrincipal:
		count, err := s.hodRepo.CountByStatus(ctx, []string{model.HodStatusSubmittedToPrincipal}, nil)
		if err != nil {
			return 0, storeFailure("count pending HOD appraisals", err)
		}
		return count, nil
	default:
		return 0, apperror.New(apperror.Forbidden, "access denied")
	}
}

// CompletedCount reports finished work: appraisals the HOD has pushed onward
// or closed, completed remark sets for the Principal.
func (s *analyticsService) CompletedCount(ctx context.Context, actor *auth.Actor) (int64, error) {
	if actor == nil {
		return 0, apperror.New(apperror.Unauthorized, "authentication required")
	}
	switch actor.Role {
	case model.RoleHOD:
		count, err := s.hodRepo.CountByStatus(ctx,
			[]string{model.HodStatusSubmittedToPrincipal, model.HodStatusCompleted}, actor.DepartmentID)
		if err != nil {
			return 0, storeFailure("count completed HOD appraisals", err)
		}
		return count, nil
	case model.RolePrincipal:
		count, err := s.principalRepo.CountByStatus(ctx, []string{model.PrincipalStatusCompleted}, nil)
		if err != nil {
			return 0, storeFailure("count completed Principal remarks", err)
		}
		return count, nil
	default:
		return 0, apperror.New(apperror.Forbidden, "access denied")
	}
}
