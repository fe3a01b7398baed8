package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	issuer    *auth.TokenIssuer
	external  auth.ExternalVerifier
	publisher events.EventPublisher
}

// NewAuthService wires account registration, login and token resolution.
// external may be nil.
func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, issuer *auth.TokenIssuer, external auth.ExternalVerifier, publisher events.EventPublisher) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		issuer:    issuer,
		external:  external,
		publisher: publisher,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		role = parsed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
	}

	if err := createAccount(ctx, s.repo, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role, "student_id", user.Code())

	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.UserRegistered, events.UserRegisteredData{
		UserID:    user.ID,
		Role:      string(user.Role),
		StudentID: user.Code(),
	}))

	return &RegisterResponse{
		Message:   "Registration successful",
		ID:        user.ID,
		StudentID: user.Code(),
	}, nil
}

// createAccount checks the email, assigns the next student code when the
// account is a student without one, and inserts the row in one transaction.
func createAccount(ctx context.Context, repo repositories.Repository, user *models.User) error {
	return repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.User().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email %s: %w", user.Email, ErrConflict)
		}

		if user.Role == models.RoleStudent && user.StudentCode == nil {
			count, err := tx.User().CountByRole(ctx, models.RoleStudent)
			if err != nil {
				return err
			}
			code := models.FormatStudentCode(count + 1)
			user.StudentCode = &code
		}

		if err := tx.User().Create(ctx, user); err != nil {
			return mapRepoError(err, "user")
		}
		return nil
	})
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("Failed login", "user_id", user.ID)
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		UserView:  models.NewUserView(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*models.UserView, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	view := models.NewUserView(user)
	return &view, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Parse(token)
	if err == nil {
		userID, err := claims.UserID()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
		}
		return s.loadAccount(ctx, func() (*models.User, error) {
			return s.repo.User().GetByID(ctx, userID)
		})
	}

	if s.external == nil {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	identity, extErr := s.external.Verify(token)
	if extErr != nil {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	return s.loadAccount(ctx, func() (*models.User, error) {
		return s.repo.User().GetByEmail(ctx, identity.Email)
	})
}

// loadAccount treats a deleted or unknown account as an authentication failure.
func (s *authService) loadAccount(ctx context.Context, load func() (*models.User, error)) (*models.User, error) {
	user, err := load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account not found: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}
