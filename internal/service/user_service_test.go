package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"appraisal/internal/model"
	"appraisal/pkg/apperror"
)

type fakeDeptRepo struct {
	depts map[uuid.UUID]*model.Department
}

func newFakeDeptRepo(depts ...*model.Department) *fakeDeptRepo {
	r := &fakeDeptRepo{depts: make(map[uuid.UUID]*model.Department)}
	for _, d := range depts {
		r.depts[d.ID] = d
	}
	return r
}

func (r *fakeDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range r.depts {
		if d.Name == dept.Name || d.Code == dept.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	r.depts[dept.ID] = dept
	return nil
}

func (r *fakeDeptRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Department, error) {
	dept, ok := r.depts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dept, nil
}

func (r *fakeDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var out []model.Department
	for _, d := range r.depts {
		out = append(out, *d)
	}
	return out, nil
}

type userFixture struct {
	service   UserService
	userRepo  *fakeUserRepo
	deptRepo  *fakeDeptRepo
	dept      *model.Department
	principal *model.User
	hod       *model.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	dept := &model.Department{ID: uuid.New(), Name: "Computer Science", Code: "CSE"}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	principal := &model.User{
		ID: uuid.New(), Email: "principal@lords.ac.in", Password: string(hashed),
		Name: "Dr. Meena Iyer", Role: model.RolePrincipal,
	}
	hod := &model.User{
		ID: uuid.New(), Email: "hod@lords.ac.in", Password: string(hashed),
		Name: "Dr. Vikram Shah", Role: model.RoleHOD,
		DepartmentID: &dept.ID, DepartmentName: dept.Name,
	}

	f := &userFixture{
		userRepo: newFakeUserRepo(principal, hod),
		deptRepo: newFakeDeptRepo(dept),
		dept:     dept, principal: principal, hod: hod,
	}
	f.service = NewUserService(f.userRepo, f.deptRepo)
	return f
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)

	result, err := f.service.Login(context.Background(), LoginRequest{
		Email: "principal@lords.ac.in", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("login should issue a token")
	}
	if result.User.Role != model.RolePrincipal {
		t.Errorf("role = %q, want %q", result.User.Role, model.RolePrincipal)
	}

	_, err = f.service.Login(context.Background(), LoginRequest{
		Email: "principal@lords.ac.in", Password: "wrong",
	})
	wantKind(t, err, apperror.Unauthorized)

	_, err = f.service.Login(context.Background(), LoginRequest{
		Email: "nobody@lords.ac.in", Password: "secret123",
	})
	wantKind(t, err, apperror.Unauthorized)

	_, err = f.service.Login(context.Background(), LoginRequest{
		Email: "someone@gmail.com", Password: "secret123",
	})
	wantKind(t, err, apperror.InvalidInput)
}

func TestCreateUserChainOfCommand(t *testing.T) {
	f := newUserFixture(t)

	created, err := f.service.CreateUser(context.Background(), actorFor(f.principal), CreateUserRequest{
		Email: "new.hod@lords.ac.in", Password: "secret123", Name: "Dr. New HOD",
		Role: model.RoleHOD, DepartmentID: f.dept.ID.String(),
	})
	if err != nil {
		t.Fatalf("principal creates HOD: %v", err)
	}
	if created.DepartmentName != f.dept.Name {
		t.Errorf("departmentName = %q, want %q", created.DepartmentName, f.dept.Name)
	}

	created, err = f.service.CreateUser(context.Background(), actorFor(f.hod), CreateUserRequest{
		Email: "new.faculty@lords.ac.in", Password: "secret123", Name: "Dr. New Faculty",
		Role: model.RoleFaculty,
	})
	if err != nil {
		t.Fatalf("hod creates faculty: %v", err)
	}
	if created.DepartmentID == nil || *created.DepartmentID != f.dept.ID {
		t.Error("hod-created faculty should land in the hod's department")
	}

	tests := []struct {
		name  string
		actor *model.User
		req   CreateUserRequest
		kind  apperror.Kind
	}{
		{
			name:  "hod cannot create hod",
			actor: f.hod,
			req: CreateUserRequest{
				Email: "x@lords.ac.in", Password: "secret123", Name: "X", Role: model.RoleHOD,
			},
			kind: apperror.Forbidden,
		},
		{
			name:  "no second principal",
			actor: f.principal,
			req: CreateUserRequest{
				Email: "x@lords.ac.in", Password: "secret123", Name: "X", Role: model.RolePrincipal,
			},
			kind: apperror.Forbidden,
		},
		{
			name:  "outside email domain",
			actor: f.principal,
			req: CreateUserRequest{
				Email: "x@gmail.com", Password: "secret123", Name: "X",
				Role: model.RoleFaculty, DepartmentID: f.dept.ID.String(),
			},
			kind: apperror.InvalidInput,
		},
		{
			name:  "faculty needs department",
			actor: f.principal,
			req: CreateUserRequest{
				Email: "x@lords.ac.in", Password: "secret123", Name: "X", Role: model.RoleFaculty,
			},
			kind: apperror.InvalidInput,
		},
		{
			name:  "duplicate email",
			actor: f.principal,
			req: CreateUserRequest{
				Email: "hod@lords.ac.in", Password: "secret123", Name: "X",
				Role: model.RoleFaculty, DepartmentID: f.dept.ID.String(),
			},
			kind: apperror.Conflict,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateUser(context.Background(), actorFor(tc.actor), tc.req)
			wantKind(t, err, tc.kind)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture(t)
	other := &model.Department{ID: uuid.New(), Name: "Electronics", Code: "ECE"}
	f.deptRepo.depts[other.ID] = other

	updated, err := f.service.UpdateUser(context.Background(), actorFor(f.principal), f.hod.ID, UpdateUserRequest{
		Name: "Dr. V. Shah", DepartmentID: other.ID.String(),
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Dr. V. Shah" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.DepartmentName != other.Name {
		t.Errorf("departmentName = %q, want %q", updated.DepartmentName, other.Name)
	}

	_, err = f.service.UpdateUser(context.Background(), actorFor(f.hod), f.hod.ID, UpdateUserRequest{Name: "X"})
	wantKind(t, err, apperror.Forbidden)

	_, err = f.service.UpdateUser(context.Background(), actorFor(f.principal), f.hod.ID, UpdateUserRequest{
		Role: model.RolePrincipal,
	})
	wantKind(t, err, apperror.Forbidden)

	_, err = f.service.UpdateUser(context.Background(), actorFor(f.principal), uuid.New(), UpdateUserRequest{Name: "X"})
	wantKind(t, err, apperror.NotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture(t)

	if err := f.service.DeleteUser(context.Background(), actorFor(f.principal), f.hod.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := f.userRepo.GetByID(context.Background(), f.hod.ID); err == nil {
		t.Error("deleted user should be gone")
	}

	err := f.service.DeleteUser(context.Background(), actorFor(f.principal), f.principal.ID)
	wantKind(t, err, apperror.InvalidInput)

	err = f.service.DeleteUser(context.Background(), actorFor(f.principal), uuid.New())
	wantKind(t, err, apperror.NotFound)
}
