package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"appraisal/internal/auth"
	"appraisal/internal/model"
	"appraisal/internal/repository"
	"appraisal/pkg/apperror"
	"appraisal/pkg/pagination"
)

// Only institute addresses may hold accounts.
const emailDomain = "@lords.ac.in"

// --- DTOs ---

type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Name         string `json:"name" binding:"required"`
	Role         string `json:"role" binding:"required"`
	DepartmentID string `json:"departmentId"`
}

// UpdateUserRequest carries the mutable account fields. Empty fields are
// left unchanged.
type UpdateUserRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	DepartmentID   *uuid.UUID `json:"departmentId"`
	DepartmentName string     `json:"departmentName"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserFilter narrows ListUsers before role scoping is applied.
type UserFilter struct {
	Role         string
	DepartmentID *uuid.UUID
}

// --- Interface ---

type UserService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CreateUser(ctx context.Context, actor *auth.Actor, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, actor *auth.Actor, filter UserFilter, page pagination.Params) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor *auth.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
}

func NewUserService(userRepo repository.UserRepository, deptRepo repository.DepartmentRepository) UserService {
	return &userService{userRepo: userRepo, deptRepo: deptRepo}
}

// --- Implementation ---

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		DepartmentID:   user.DepartmentID,
		DepartmentName: user.DepartmentName,
	}
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, emailDomain) {
		return nil, apperror.New(apperror.InvalidInput, "only institute email addresses are allowed")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.Unauthorized, "invalid email or password")
		}
		return nil, storeFailure("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid email or password")
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperror.Wrap(apperror.Store, "failed to generate token", err)
	}

	return &LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

// CreateUser enforces the chain of command: the Principal creates HODs and
// Faculty anywhere, an HOD creates Faculty inside their own department.
func (s *userService) CreateUser(ctx context.Context, actor *auth.Actor, req CreateUserRequest) (*UserResponse, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if !model.ValidRole(req.Role) {
		return nil, apperror.Newf(apperror.InvalidInput, "invalid role %q", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, emailDomain) {
		return nil, apperror.New(apperror.InvalidInput, "only institute email addresses are allowed")
	}

	var departmentID *uuid.UUID
	switch actor.Role {
	case model.RolePrincipal:
		if req.Role == model.RolePrincipal {
			return nil, apperror.New(apperror.Forbidden, "cannot create another Principal account")
		}
		if req.DepartmentID != "" {
			parsed, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				return nil, apperror.New(apperror.InvalidInput, "invalid department ID")
			}
			departmentID = &parsed
		}
	case model.RoleHOD:
		if req.Role != model.RoleFaculty {
			return nil, apperror.New(apperror.Forbidden, "HOD can only create Faculty accounts")
		}
		departmentID = actor.DepartmentID
	default:
		return nil, apperror.New(apperror.Forbidden, "access denied")
	}

	// HOD and Faculty must belong to a department.
	if req.Role != model.RolePrincipal && departmentID == nil {
		return nil, apperror.New(apperror.InvalidInput, "department is required for HOD and Faculty accounts")
	}

	var departmentName string
	if departmentID != nil {
		dept, err := s.deptRepo.GetByID(ctx, *departmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.New(apperror.NotFound, "department not found")
			}
			return nil, storeFailure("load department", err)
		}
		departmentName = dept.Name
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.Store, "failed to hash password", err)
	}

	user := &model.User{
		Email:          email,
		Password:       string(hashed),
		Name:           req.Name,
		Role:           req.Role,
		DepartmentID:   departmentID,
		DepartmentName: departmentName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(apperror.Conflict, "email already registered")
		}
		return nil, storeFailure("create user", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*UserResponse, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, storeFailure("load user", err)
	}

	// Faculty may only read themselves; HODs their own department.
	switch actor.Role {
	case model.RoleFaculty:
		if user.ID != actor.UserID {
			return nil, apperror.New(apperror.Forbidden, "access denied")
		}
	case model.RoleHOD:
		if user.ID != actor.UserID &&
			(actor.DepartmentID == nil || user.DepartmentID == nil || *user.DepartmentID != *actor.DepartmentID) {
			return nil, apperror.New(apperror.Forbidden, "access denied")
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *auth.Actor, filter UserFilter, page pagination.Params) ([]UserResponse, int64, error) {
	if actor == nil {
		return nil, 0, apperror.New(apperror.Unauthorized, "authentication required")
	}

	repoFilter := repository.UserFilter{Role: filter.Role, DepartmentID: filter.DepartmentID}
	switch actor.Role {
	case model.RoleFaculty:
		return nil, 0, apperror.New(apperror.Forbidden, "access denied")
	case model.RoleHOD:
		repoFilter.DepartmentID = actor.DepartmentID
	}

	users, total, err := s.userRepo.List(ctx, repoFilter, page)
	if err != nil {
		return nil, 0, storeFailure("list users", err)
	}

	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *auth.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if actor == nil {
		return nil, apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RolePrincipal {
		return nil, apperror.New(apperror.Forbidden, "only Principal can update accounts")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, storeFailure("load user", err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, apperror.Newf(apperror.InvalidInput, "invalid role %q", req.Role)
		}
		if req.Role == model.RolePrincipal && user.ID != actor.UserID {
			return nil, apperror.New(apperror.Forbidden, "cannot promote another account to Principal")
		}
		user.Role = req.Role
	}
	if req.DepartmentID != "" {
		parsed, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return nil, apperror.New(apperror.InvalidInput, "invalid department ID")
		}
		dept, err := s.deptRepo.GetByID(ctx, parsed)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.New(apperror.NotFound, "department not found")
			}
			return nil, storeFailure("load department", err)
		}
		user.DepartmentID = &parsed
		user.DepartmentName = dept.Name
	}
	if user.Role != model.RolePrincipal && user.DepartmentID == nil {
		return nil, apperror.New(apperror.InvalidInput, "department is required for HOD and Faculty accounts")
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeFailure("update user", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	if actor == nil {
		return apperror.New(apperror.Unauthorized, "authentication required")
	}
	if actor.Role != model.RolePrincipal {
		return apperror.New(apperror.Forbidden, "only Principal can remove accounts")
	}
	if id == actor.UserID {
		return apperror.New(apperror.InvalidInput, "cannot delete your own account")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.NotFound, "user not found")
		}
		return storeFailure("load user", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return storeFailure("delete user", err)
	}
	return nil
}
