package repository

import (
	"context"

	"appraisal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrincipalRemarksRepository is the store for the Principal's closing
// remarks, keyed by (facultyId, academicYear).
type PrincipalRemarksRepository interface {
	Create(ctx context.Context, remarks *model.PrincipalRemarks) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PrincipalRemarks, error)
	FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.PrincipalRemarks, error)
	Update(ctx context.Context, remarks *model.PrincipalRemarks) error
	List(ctx context.Context, filter AppraisalFilter) ([]model.PrincipalRemarks, error)
	CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error)
}

type principalRemarksRepository struct {
	db *gorm.DB
}

func NewPrincipalRemarksRepository(db *gorm.DB) PrincipalRemarksRepository {
	return &principalRemarksRepository{db: db}
}

func (r *principalRemarksRepository) Create(ctx context.Context, remarks *model.PrincipalRemarks) error {
	return GetDB(ctx, r.db).Create(remarks).Error
}

func (r *principalRemarksRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PrincipalRemarks, error) {
	var remarks model.PrincipalRemarks
	if err := GetDB(ctx, r.db).First(&remarks, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &remarks, nil
}

func (r *principalRemarksRepository) FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.PrincipalRemarks, error) {
	var remarks model.PrincipalRemarks
	err := GetDB(ctx, r.db).
		First(&remarks, "faculty_id = ? AND academic_year = ?", facultyID, academicYear).Error
	if err != nil {
		return nil, err
	}
	return &remarks, nil
}

func (r *principalRemarksRepository) Update(ctx context.Context, remarks *model.PrincipalRemarks) error {
	return GetDB(ctx, r.db).Save(remarks).Error
}

func (r *principalRemarksRepository) List(ctx context.Context, filter AppraisalFilter) ([]model.PrincipalRemarks, error) {
	var remarks []model.PrincipalRemarks
	query := applyAppraisalFilter(GetDB(ctx, r.db).Model(&model.PrincipalRemarks{}), filter)
	if err := query.Order("academic_year DESC, faculty_name ASC").Find(&remarks).Error; err != nil {
		return nil, err
	}
	return remarks, nil
}

func (r *principalRemarksRepository) CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.PrincipalRemarks{}).Where("status IN ?", statuses)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
