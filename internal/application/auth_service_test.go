package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetyodwi/user-auth-service/internal/domain/entity"
	repo "github.com/prasetyodwi/user-auth-service/internal/domain/repository"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
)

// memRepo is an in-memory UserRepository for exercising the service
// without a database.
type memRepo struct {
	nextID int64
	users  map[int64]*entity.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[int64]*entity.User{}}
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	cp.Password = "" // by-id lookups never expose the hash
	return &cp, nil
}

func (m *memRepo) Create(_ context.Context, name, email, password string, dateOfBirth time.Time, phone string) (int64, error) {
	for _, u := range m.users {
		if u.Email == email {
			return 0, repo.ErrDuplicateEmail
		}
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return 0, err
	}
	m.nextID++
	now := time.Now()
	m.users[m.nextID] = &entity.User{
		ID:          m.nextID,
		Name:        name,
		Email:       email,
		Password:    hash,
		Role:        entity.RoleUser,
		DateOfBirth: dateOfBirth,
		Phone:       phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return m.nextID, nil
}

func (m *memRepo) UpdateProfile(_ context.Context, id int64, name string, dateOfBirth time.Time, phone string) (bool, error) {
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.Name = name
	u.DateOfBirth = dateOfBirth
	u.Phone = phone
	u.UpdatedAt = time.Now()
	return true, nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	return nil
}

var _ repo.UserRepository = (*memRepo)(nil)

func newTestService(r repo.UserRepository) *Service {
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour)
	return NewService(r, jwt, nil, nil, "")
}

func mustDOB(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse dob: %v", err)
	}
	return d
}

func register(t *testing.T, s *Service, email string) int64 {
	t.Helper()
	id, err := s.Register(context.Background(), RegisterInput{
		Name:        "Ana",
		Email:       email,
		Password:    "secret123",
		DateOfBirth: mustDOB(t, "1990-01-01"),
		Phone:       "08123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

func TestRegisterThenLogin(t *testing.T) {
	s := newTestService(newMemRepo())

	id := register(t, s, "ana@x.com")
	if id == 0 {
		t.Fatal("expected a non-zero user id")
	}

	res, err := s.Login(context.Background(), "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a token")
	}
	if res.User.Role != entity.RoleUser {
		t.Fatalf("expected role %q, got %q", entity.RoleUser, res.User.Role)
	}
	if res.User.ID != id {
		t.Fatalf("expected user id %d, got %d", id, res.User.ID)
	}
}

func TestLoginTokenClaims(t *testing.T) {
	s := newTestService(newMemRepo())
	id := register(t, s, "ana@x.com")

	res, err := s.Login(context.Background(), "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := s.JWT.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	uid, err := claims.UserID()
	if err != nil {
		t.Fatalf("claims user id: %v", err)
	}
	if uid != id {
		t.Fatalf("expected uid %d in claims, got %d", id, uid)
	}
	if claims.Email != "ana@x.com" || claims.Role != entity.RoleUser {
		t.Fatalf("unexpected claims: email=%q role=%q", claims.Email, claims.Role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	s := newTestService(newMemRepo())
	register(t, s, "ana@x.com")

	s.JWT = helpers.NewJWTManager("test-secret", -time.Minute)
	res, err := s.Login(context.Background(), "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := s.JWT.ParseToken(res.Token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(newMemRepo())
	register(t, s, "ana@x.com")

	_, err := s.Register(context.Background(), RegisterInput{
		Name:        "Other Name",
		Email:       "ana@x.com",
		Password:    "differentpw",
		DateOfBirth: mustDOB(t, "1985-06-15"),
		Phone:       "08999",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// blindRepo simulates the registration race: the advisory pre-check
// sees no user, but the insert loses to a concurrent writer and hits
// the unique constraint.
type blindRepo struct {
	*memRepo
}

func (b *blindRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (b *blindRepo) Create(context.Context, string, string, string, time.Time, string) (int64, error) {
	return 0, repo.ErrDuplicateEmail
}

func TestRegisterRaceSurfacesConflict(t *testing.T) {
	s := newTestService(&blindRepo{newMemRepo()})

	_, err := s.Register(context.Background(), RegisterInput{
		Name:        "Ana",
		Email:       "ana@x.com",
		Password:    "secret123",
		DateOfBirth: mustDOB(t, "1990-01-01"),
		Phone:       "08123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected constraint violation to surface as ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestService(newMemRepo())
	register(t, s, "ana@x.com")

	_, wrongPw := s.Login(context.Background(), "ana@x.com", "wrong")
	_, noUser := s.Login(context.Background(), "nobody@x.com", "secret123")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPw, noUser)
	}
}

func TestGetProfile(t *testing.T) {
	s := newTestService(newMemRepo())
	id := register(t, s, "ana@x.com")

	u, err := s.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if u.Password != "" {
		t.Fatal("profile must never carry the password hash")
	}
	if u.Email != "ana@x.com" || u.Name != "Ana" || u.Phone != "08123" {
		t.Fatalf("unexpected profile: %+v", u)
	}

	if _, err := s.GetProfile(context.Background(), id+100); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	mem := newMemRepo()
	s := newTestService(mem)
	id := register(t, s, "ana@x.com")

	before := *mem.users[id]

	err := s.UpdateProfile(context.Background(), id, UpdateProfileInput{
		Name:        "Ana Maria",
		DateOfBirth: mustDOB(t, "1991-02-02"),
		Phone:       "08456",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	after := mem.users[id]
	if after.Name != "Ana Maria" || after.Phone != "08456" {
		t.Fatalf("mutable fields not updated: %+v", after)
	}
	if !after.DateOfBirth.Equal(mustDOB(t, "1991-02-02")) {
		t.Fatalf("date of birth not updated: %v", after.DateOfBirth)
	}
	if after.Email != before.Email || after.Role != before.Role || after.Password != before.Password {
		t.Fatal("update must not touch email, role or the password hash")
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatal("created_at must be immutable")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatal("updated_at must be refreshed")
	}

	err = s.UpdateProfile(context.Background(), id+100, UpdateProfileInput{
		Name:        "X",
		DateOfBirth: mustDOB(t, "1991-02-02"),
		Phone:       "1",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
