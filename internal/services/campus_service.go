package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

type campusService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	cache      *cache.CacheManager
	university config.UniversityConfig
}

func NewCampusService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, university config.UniversityConfig) CampusService {
	return &campusService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		cache:      cm,
		university: university,
	}
}

func (s *campusService) UniversityInfo(ctx context.Context) (*models.UniversityProfile, error) {
	var profile models.UniversityProfile
	err := s.cache.Campus.CacheOrExecute(ctx, cache.CampusUniversityInfo, &profile, cache.CampusCacheConfig.TTL, func() (interface{}, error) {
		students, err := s.countUsers(ctx, models.RoleStudent)
		if err != nil {
			return nil, err
		}
		faculty, err := s.countUsers(ctx, models.RoleFaculty)
		if err != nil {
			return nil, err
		}
		courses, err := s.repo.Course().Count(ctx)
		if err != nil {
			return nil, err
		}

		return models.UniversityProfile{
			Name:        s.university.Name,
			Established: s.university.Established,
			Location:    s.university.Location,
			Description: s.university.Description,
			Stats: map[string]int{
				"students": int(students),
				"faculty":  int(faculty),
				"courses":  int(courses),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// countUsers counts live accounts of one role.
func (s *campusService) countUsers(ctx context.Context, role models.UserRole) (int64, error) {
	_, total, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role, Limit: 1})
	return total, err
}

func (s *campusService) Feed(ctx context.Context, category string) (*models.CampusFeed, error) {
	category = strings.TrimSpace(category)

	var feed models.CampusFeed
	err := s.cache.Campus.CacheOrExecute(ctx, cache.CampusEventsKey+strings.ToLower(category), &feed, cache.CampusCacheConfig.TTL, func() (interface{}, error) {
		eventList, err := s.repo.Campus().ListEvents(ctx, category)
		if err != nil {
			return nil, err
		}
		news, err := s.repo.Campus().ListNews(ctx)
		if err != nil {
			return nil, err
		}
		return models.CampusFeed{Events: eventList, News: news}, nil
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (s *campusService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Campus().GetEvent(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("event %d", id))
	}
	return event, nil
}

// ===== ADMIN: EVENTS =====

func (s *campusService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.repo.Campus().ListEvents(ctx, "")
}

func (s *campusService) CreateEvent(ctx context.Context, req *EventRequest) (*models.Event, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	event := &models.Event{}
	if err := copier.Copy(event, req); err != nil {
		return nil, fmt.Errorf("failed to build event: %w", err)
	}
	if err := s.repo.Campus().CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Event created", "event_id", event.ID)
	cache.InvalidateCampus(ctx, s.cache)
	return event, nil
}

func (s *campusService) UpdateEvent(ctx context.Context, id uint, req *EventUpdateRequest) (*models.Event, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(event, req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply event update: %w", err)
	}
	if err := s.repo.Campus().UpdateEvent(ctx, event); err != nil {
		return nil, err
	}

	cache.InvalidateCampus(ctx, s.cache)
	return event, nil
}

func (s *campusService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Campus().DeleteEvent(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("event %d", id))
	}
	s.logger.Info("Event deleted", "event_id", id)
	cache.InvalidateCampus(ctx, s.cache)
	return nil
}

// ===== ADMIN: NEWS =====

func (s *campusService) ListNews(ctx context.Context) ([]models.News, error) {
	return s.repo.Campus().ListNews(ctx)
}

func (s *campusService) CreateNews(ctx context.Context, req *NewsRequest) (*models.News, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	news := &models.News{}
	if err := copier.Copy(news, req); err != nil {
		return nil, fmt.Errorf("failed to build news: %w", err)
	}
	if err := s.repo.Campus().CreateNews(ctx, news); err != nil {
		return nil, err
	}

	s.logger.Info("News created", "news_id", news.ID)
	cache.InvalidateCampus(ctx, s.cache)
	return news, nil
}

func (s *campusService) UpdateNews(ctx context.Context, id uint, req *NewsUpdateRequest) (*models.News, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	news, err := s.repo.Campus().GetNews(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("news %d", id))
	}
	if err := copier.CopyWithOption(news, req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply news update: %w", err)
	}
	if err := s.repo.Campus().UpdateNews(ctx, news); err != nil {
		return nil, err
	}

	cache.InvalidateCampus(ctx, s.cache)
	return news, nil
}

func (s *campusService) DeleteNews(ctx context.Context, id uint) error {
	if err := s.repo.Campus().DeleteNews(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("news %d", id))
	}
	s.logger.Info("News deleted", "news_id", id)
	cache.InvalidateCampus(ctx, s.cache)
	return nil
}
