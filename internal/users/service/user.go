package service

import (
	"context"
	"errors"
	"time"

	userserrors "gojo/internal/users/errors"
	"gojo/internal/users/repository"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/locale"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"
	"gojo/pkg/model"
	"gojo/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty"`
	City     string `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Country  string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=guest host"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UserService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, creds *model.Credentials) (*AuthResult, error)
	GetProfile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error)
	Suspend(ctx context.Context, id string, suspended bool) error
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	cfg      *config.Config
	log      *logger.Logger
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfg:      cfg,
		log:      cfg.Log,
	}
}

func (s *userService) Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Phone = sanitizer.NormalizePhone(req.Phone)
	req.City = sanitizer.NormalizeCity(req.City)
	req.Country = sanitizer.NormalizeCountry(req.Country)
	if req.Country == "" && req.Phone != "" {
		if c := locale.InferCountryFromPhone(req.Phone); c != nil {
			req.Country = c.Code
		}
	}
	if req.Country == "" && req.Timezone != "" {
		req.Country = locale.DetectRegion(req.Timezone)
	}
	if req.Timezone == "" && req.Phone != "" {
		req.Timezone = locale.InferTimezoneFromPhone(req.Phone)
	}
	if req.Role == "" {
		req.Role = model.RoleGuest
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Signup details are invalid", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		City:         req.City,
		Country:      req.Country,
		Timezone:     req.Timezone,
		Role:         req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	token, err := middleware.IssueToken(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.log.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, creds *model.Credentials) (*AuthResult, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)
	if err := s.validate.Struct(creds); err != nil {
		return nil, apperrors.Validation("Credentials are invalid", nil)
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same response as a bad password so the endpoint does not
			// leak which emails exist.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if user.Suspended {
		return nil, apperrors.Forbidden("Account is suspended")
	}

	token, err := middleware.IssueToken(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Profile update is invalid", nil)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if update.Name != "" {
		user.Name = sanitizer.NormalizeName(update.Name)
	}
	if update.Phone != "" {
		phone := sanitizer.NormalizePhone(update.Phone)
		if phone == "" {
			return nil, apperrors.Validation("Phone number is not valid for a supported region", nil)
		}
		user.Phone = phone
	}
	if update.City != "" {
		user.City = sanitizer.NormalizeCity(update.City)
	}
	if update.Country != "" {
		user.Country = sanitizer.NormalizeCountry(update.Country)
	}
	if update.Timezone != "" {
		user.Timezone = update.Timezone
	}
	if update.AvatarURL != "" {
		user.AvatarURL = sanitizer.NormalizeURL(update.AvatarURL)
	}

	if err := s.validate.Struct(user); err != nil {
		return nil, apperrors.Validation("Profile update is invalid", nil)
	}

	if err := s.repo.Update(ctx, id, user); err != nil {
		return nil, mapRepoError(err, id)
	}

	user.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return user, nil
}

func (s *userService) Suspend(ctx context.Context, id string, suspended bool) error {
	if err := s.repo.SetSuspended(ctx, id, suspended); err != nil {
		return mapRepoError(err, id)
	}
	s.log.Info("user suspension changed", "user_id", id, "suspended", suspended)
	return nil
}

func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user id")
	default:
		return apperrors.Internal("User storage operation failed", err)
	}
}
