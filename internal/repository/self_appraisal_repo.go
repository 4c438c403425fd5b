package repository

import (
	"context"

	"appraisal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppraisalFilter narrows appraisal listings. Nil pointers mean no
// restriction on that axis.
type AppraisalFilter struct {
	AcademicYear string
	FacultyID    *uuid.UUID
	DepartmentID *uuid.UUID
	Status       string
}

func applyAppraisalFilter(query *gorm.DB, filter AppraisalFilter) *gorm.DB {
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.FacultyID != nil {
		query = query.Where("faculty_id = ?", *filter.FacultyID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// SelfAppraisalRepository is the store for faculty self-appraisals, keyed by
// (facultyId, academicYear). The composite unique index makes a duplicate
// create fail with gorm.ErrDuplicatedKey instead of silently forking state.
type SelfAppraisalRepository interface {
	Create(ctx context.Context, appraisal *model.SelfAppraisal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SelfAppraisal, error)
	FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.SelfAppraisal, error)
	Update(ctx context.Context, appraisal *model.SelfAppraisal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter AppraisalFilter) ([]model.SelfAppraisal, error)
	CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error)
	DistinctAcademicYears(ctx context.Context) ([]string, error)
}

type selfAppraisalRepository struct {
	db *gorm.DB
}

func NewSelfAppraisalRepository(db *gorm.DB) SelfAppraisalRepository {
	return &selfAppraisalRepository{db: db}
}

func (r *selfAppraisalRepository) Create(ctx context.Context, appraisal *model.SelfAppraisal) error {
	return GetDB(ctx, r.db).Create(appraisal).Error
}

func (r *selfAppraisalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SelfAppraisal, error) {
	var appraisal model.SelfAppraisal
	if err := GetDB(ctx, r.db).First(&appraisal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *selfAppraisalRepository) FindByFacultyYear(ctx context.Context, facultyID uuid.UUID, academicYear string) (*model.SelfAppraisal, error) {
	var appraisal model.SelfAppraisal
	err := GetDB(ctx, r.db).
		First(&appraisal, "faculty_id = ? AND academic_year = ?", facultyID, academicYear).Error
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *selfAppraisalRepository) Update(ctx context.Context, appraisal *model.SelfAppraisal) error {
	return GetDB(ctx, r.db).Save(appraisal).Error
}

func (r *selfAppraisalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.SelfAppraisal{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *selfAppraisalRepository) List(ctx context.Context, filter AppraisalFilter) ([]model.SelfAppraisal, error) {
	var appraisals []model.SelfAppraisal
	query := applyAppraisalFilter(GetDB(ctx, r.db).Model(&model.SelfAppraisal{}), filter)
	if err := query.Order("academic_year DESC, faculty_name ASC").Find(&appraisals).Error; err != nil {
		return nil, err
	}
	return appraisals, nil
}

func (r *selfAppraisalRepository) CountByStatus(ctx context.Context, statuses []string, departmentID *uuid.UUID) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.SelfAppraisal{}).Where("status IN ?", statuses)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *selfAppraisalRepository) DistinctAcademicYears(ctx context.Context) ([]string, error) {
	var years []string
	err := GetDB(ctx, r.db).Model(&model.SelfAppraisal{}).
		Distinct("academic_year").
		Order("academic_year DESC").
		Pluck("academic_year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}
