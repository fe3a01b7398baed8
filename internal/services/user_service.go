package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

const (
	defaultUserPageSize = 50
	maxUserPageSize     = 200
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context, filters UserListFilters) (*UserListResponse, error) {
	repoFilters := repositories.UserFilters{
		Query:  strings.TrimSpace(filters.Query),
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	if repoFilters.Limit <= 0 {
		repoFilters.Limit = defaultUserPageSize
	}
	if repoFilters.Limit > maxUserPageSize {
		repoFilters.Limit = maxUserPageSize
	}
	if repoFilters.Offset < 0 {
		repoFilters.Offset = 0
	}
	if filters.Role != "" {
		role, err := models.ParseRole(filters.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		repoFilters.Role = &role
	}

	users, total, err := s.repo.User().List(ctx, repoFilters)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, models.NewUserView(&users[i]))
	}
	return &UserListResponse{Users: views, Total: total}, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*models.UserView, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("user %d", id))
	}
	view := models.NewUserView(user)
	return &view, nil
}

func (s *userService) Create(ctx context.Context, req *UserCreateRequest) (*models.UserView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
	}
	if code := strings.TrimSpace(req.StudentCode); code != "" && role == models.RoleStudent {
		user.StudentCode = &code
	}

	if err := createAccount(ctx, s.repo, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created by admin", "user_id", user.ID, "role", user.Role)

	view := models.NewUserView(user)
	return &view, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UserUpdateRequest) (*models.UserView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = tx.User().GetByID(ctx, id)
		if err != nil {
			return mapRepoError(err, fmt.Sprintf("user %d", id))
		}

		patch := struct {
			Name       string
			Email      string
			Department string
		}{
			Name:       strings.TrimSpace(req.Name),
			Email:      normalizeEmail(req.Email),
			Department: strings.TrimSpace(req.Department),
		}
		if err := copier.CopyWithOption(user, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return fmt.Errorf("failed to apply user update: %w", err)
		}

		if req.Role != "" {
			role, err := models.ParseRole(req.Role)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrValidationFailed, err)
			}
			user.Role = role
		}
		if user.Role == models.RoleStudent && user.StudentCode == nil {
			count, err := tx.User().CountByRole(ctx, models.RoleStudent)
			if err != nil {
				return err
			}
			code := models.FormatStudentCode(count + 1)
			user.StudentCode = &code
		}

		if req.Password != "" {
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.User().Update(ctx, user); err != nil {
			return mapRepoError(err, "user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := models.NewUserView(user)
	return &view, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.User().Delete(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("user %d", id))
	}
	s.logger.Info("User deleted", "user_id", id)
	return nil
}
