package repository

import (
	"context"

	"appraisal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HodAppraisalRepository is the store for HOD reviews, keyed by
// (facultyId, academicYear) under a composite unique index.
type HodAppraisalRepository interface {
	Create(ctx context.Context, appraisal *model.HodAppraisal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HodAppraisal, error)
	FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.HodAppraisal, error)
	Update(ctx context.Context, appraisal *model.HodAppraisal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter AppraisalFilter) ([]model.HodAppraisal, error)
	CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error)
}

type hodAppraisalRepository struct {
	db *gorm.DB
}

func NewHodAppraisalRepository(db *gorm.DB) HodAppraisalRepository {
	return &hodAppraisalRepository{db: db}
}

func (r *hodAppraisalRepository) Create(ctx context.Context, appraisal *model.HodAppraisal) error {
	return GetDB(ctx, r.db).Create(appraisal).Error
}

func (r *hodAppraisalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.HodAppraisal, error) {
	var appraisal model.HodAppraisal
	if err := GetDB(ctx, r.db).First(&appraisal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *hodAppraisalRepository) FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.HodAppraisal, error) {
	var appraisal model.HodAppraisal
	err := GetDB(ctx, r.db).
		First(&appraisal, "faculty_id = ? AND academic_year = ?", facultyID, academicYear).Error
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *hodAppraisalRepository) Update(ctx context.Context, appraisal *model.HodAppraisal) error {
	return GetDB(ctx, r.db).Save(appraisal).Error
}

func (r *hodAppraisalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.HodAppraisal{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *hodAppraisalRepository) List(ctx context.Context, filter AppraisalFilter) ([]model.HodAppraisal, error) {
	var appraisals []model.HodAppraisal
	query := applyAppraisalFilter(GetDB(ctx, r.db).Model(&model.HodAppraisal{}), filter)
	if err := query.Order("academic_year DESC, faculty_name ASC").Find(&appraisals).Error; err != nil {
		return nil, err
	}
	return appraisals, nil
}

func (r *hodAppraisalRepository) CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.HodAppraisal{}).Where("status IN ?", statuses)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
