package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

type campusPostgreSQL struct {
	db *gorm.DB
}

func NewCampusPostgreSQL(db *gorm.DB) repositories.CampusRepository {
	return &campusPostgreSQL{db: db}
}

// ===== EVENTS =====

func (r *campusPostgreSQL) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *campusPostgreSQL) UpdateEvent(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *campusPostgreSQL) DeleteEvent(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *campusPostgreSQL) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &event, nil
}

func (r *campusPostgreSQL) ListEvents(ctx context.Context, category string) ([]models.Event, error) {
	events := []models.Event{}
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	if err := query.Order("date DESC, id DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ===== NEWS =====

func (r *campusPostgreSQL) CreateNews(ctx context.Context, news *models.News) error {
	if err := r.db.WithContext(ctx).Create(news).Error; err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

func (r *campusPostgreSQL) UpdateNews(ctx context.Context, news *models.News) error {
	if err := r.db.WithContext(ctx).Save(news).Error; err != nil {
		return fmt.Errorf("failed to update news: %w", err)
	}
	return nil
}

func (r *campusPostgreSQL) DeleteNews(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.News{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete news: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("news %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *campusPostgreSQL) GetNews(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get news %d: %w", id, err)
	}
	return &news, nil
}

func (r *campusPostgreSQL) ListNews(ctx context.Context) ([]models.News, error) {
	news := []models.News{}
	if err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&news).Error; err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return news, nil
}
