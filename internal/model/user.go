package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appraisal chain roles. Fixed three-stage hierarchy; there is no
// configurable role table.
const (
	RolePrincipal = "Principal"
	RoleHOD       = "HOD"
	RoleFaculty   = "Faculty"
)

// ValidRole reports whether role is one of the three appraisal roles.
func ValidRole(role string) bool {
	return role == RolePrincipal || role == RoleHOD || role == RoleFaculty
}

// User is an institute account. HOD and Faculty always belong to a
// department; the Principal does not.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"type:varchar(255);not null" json:"-"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Role           string         `gorm:"type:varchar(20);not null;index" json:"role"`
	DepartmentID   *uuid.UUID     `gorm:"type:uuid;index" json:"departmentId"`
	DepartmentName string         `gorm:"type:varchar(255)" json:"departmentName"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
