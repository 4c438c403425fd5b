package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"appraisal/internal/auth"
	"appraisal/internal/model"
	"appraisal/internal/repository"
	"appraisal/pkg/apperror"
)

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

type DepartmentService interface {
	CreateDepartment(ctx context.Context, actor *auth.Actor, req CreateDepartmentRequest) (*model.Department, error)
	ListDepartments(ctx context.Context, actor *auth.Actor) ([]model.Department, error)
}

type departmentService struct {
	repo repository.DepartmentRepository
}

func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) CreateDepartment(ctx context.Context, actor *auth.Actor, req CreateDepartmentRequest) (*model.Department, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RolePrincipal {
		return nil, apperror.New(apperror.Forbidden, "only Principal can create departments")
	}

	dept := &model.Department{
		Name: strings.TrimSpace(req.Name),
		Code: strings.ToUpper(strings.TrimSpace(req.Code)),
	}
	if dept.Name == "" || dept.Code == "" {
		return nil, apperror.New(apperror.InvalidInput, "department name and code are required")
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(apperror.Conflict, "department name or code already exists")
		}
		return nil, storeFailure("create department", err)
	}
	return dept, nil
}

func (s *departmentService) ListDepartments(ctx context.Context, actor *auth.Actor) ([]model.Department, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeFailure("list departments", err)
	}
	return departments, nil
}
