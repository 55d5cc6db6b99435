package service

import (
	"context"
	"io"
	"testing"
	"time"

	userserrors "gojo/internal/users/errors"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"
	"gojo/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

const userID = "64a1f0c2e1b2c3d4e5f60718"

type mockUserRepository struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)

	created  []*model.User
	updated  []*model.User
	suspends []bool
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.created = append(m.created, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = userID
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	m.suspends = append(m.suspends, suspended)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:       logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Output: io.Discard}),
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}
}

func signupRequest() *SignupRequest {
	return &SignupRequest{
		Email:    " Meron@Example.COM ",
		Password: "correct-horse-battery",
		Name:     "  Meron   Tadesse ",
		Phone:    "0911234567",
		City:     "Addis Ababa",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, appErr)
	}
}

func TestSignupNormalizesAndIssuesToken(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	result, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := result.User
	if user.Email != "meron@example.com" {
		t.Errorf("email not normalized, got %q", user.Email)
	}
	if user.Name != "Meron Tadesse" {
		t.Errorf("name not normalized, got %q", user.Name)
	}
	if user.Phone != "+251911234567" {
		t.Errorf("expected E.164 Ethiopian number, got %q", user.Phone)
	}
	if user.Country != "ET" {
		t.Errorf("country should be inferred from phone, got %q", user.Country)
	}
	if user.Timezone != "Africa/Addis_Ababa" {
		t.Errorf("timezone should be inferred from phone, got %q", user.Timezone)
	}
	if user.Role != model.RoleGuest {
		t.Errorf("default role should be guest, got %q", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse-battery" {
		t.Error("password must be stored hashed")
	}

	claims, err := middleware.ParseToken("test-secret", result.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("token carries wrong user id: %q", claims.UserID)
	}
}

func TestSignupDerivesCountryFromTimezone(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	req := signupRequest()
	req.Phone = ""
	req.Timezone = "America/New_York"

	result, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Country != "US" {
		t.Errorf("country should follow the timezone, got %q", result.User.Country)
	}
	if result.User.Timezone != "America/New_York" {
		t.Errorf("supplied timezone must be kept, got %q", result.User.Timezone)
	}
}

func TestSignupKeepsExplicitCountryOverInference(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	req := signupRequest()
	req.Country = "us"
	req.Timezone = "Africa/Addis_Ababa"

	result, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Country != "US" {
		t.Errorf("explicit country must win over inference, got %q", result.User.Country)
	}
}

func TestSignupWithoutLocaleHintsLeavesThemEmpty(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	req := signupRequest()
	req.Phone = ""

	result, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Country != "" {
		t.Errorf("country should stay empty without a phone or timezone, got %q", result.User.Country)
	}
	if result.User.Timezone != "" {
		t.Errorf("timezone should stay empty without a phone, got %q", result.User.Timezone)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrEmailTaken
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.Signup(context.Background(), signupRequest())
	assertCode(t, err, apperrors.CodeConflict)
}

func TestSignupRejectsWeakInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
	}{
		{"short password", func(r *SignupRequest) { r.Password = "short" }},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }},
		{"missing name", func(r *SignupRequest) { r.Name = "" }},
		{"admin role not self-assignable", func(r *SignupRequest) { r.Role = model.RoleAdmin }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{}
			svc := NewUserService(repo, testConfig())

			req := signupRequest()
			tt.mutate(req)

			_, err := svc.Signup(context.Background(), req)
			assertCode(t, err, apperrors.CodeValidation)
			if len(repo.created) != 0 {
				t.Error("invalid signup must not reach the repository")
			}
		})
	}
}

func storedUser(password string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &model.User{
		ID:           userID,
		Email:        "meron@example.com",
		PasswordHash: string(hash),
		Name:         "Meron Tadesse",
		Role:         model.RoleHost,
	}
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return storedUser("correct-horse-battery"), nil
		},
	}
	svc := NewUserService(repo, testConfig())

	result, err := svc.Login(context.Background(), &model.Credentials{
		Email:    "MERON@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
}

func TestLoginRejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "meron@example.com" {
				return storedUser("correct-horse-battery"), nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc := NewUserService(repo, testConfig())

	_, wrongPass := svc.Login(context.Background(), &model.Credentials{
		Email:    "meron@example.com",
		Password: "wrong-password",
	})
	_, unknown := svc.Login(context.Background(), &model.Credentials{
		Email:    "nobody@example.com",
		Password: "wrong-password",
	})

	assertCode(t, wrongPass, apperrors.CodeUnauthorized)
	assertCode(t, unknown, apperrors.CodeUnauthorized)
	if apperrors.AsAppError(wrongPass).Message != apperrors.AsAppError(unknown).Message {
		t.Error("login failures must not reveal whether the email exists")
	}
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			user := storedUser("correct-horse-battery")
			user.Suspended = true
			return user, nil
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.Login(context.Background(), &model.Credentials{
		Email:    "meron@example.com",
		Password: "correct-horse-battery",
	})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateProfileNormalizesPhone(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return storedUser("correct-horse-battery"), nil
		},
	}
	svc := NewUserService(repo, testConfig())

	user, err := svc.UpdateProfile(context.Background(), userID, &model.UserUpdate{Phone: "0911234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Phone != "+251911234567" {
		t.Errorf("expected normalized phone, got %q", user.Phone)
	}

	_, err = svc.UpdateProfile(context.Background(), userID, &model.UserUpdate{Phone: "12345"})
	assertCode(t, err, apperrors.CodeValidation)
}
