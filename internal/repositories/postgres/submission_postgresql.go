package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

type submissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionPostgreSQL{db: db}
}

func (r *submissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionPostgreSQL) Update(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error; err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

func (r *submissionPostgreSQL) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Student").Preload("Course")
}

func (r *submissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := r.withRelations(ctx).First(&submission, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get submission %d: %w", id, err)
	}
	return &submission, nil
}

func (r *submissionPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	submissions := []models.Submission{}
	if err := r.withRelations(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC, id DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions for student %d: %w", studentID, err)
	}
	return submissions, nil
}

func (r *submissionPostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]models.Submission, error) {
	submissions := []models.Submission{}
	if err := r.withRelations(ctx).
		Where("course_id = ?", courseID).
		Order("submitted_at DESC, id DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions for course %d: %w", courseID, err)
	}
	return submissions, nil
}

type feedbackPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &feedbackPostgreSQL{db: db}
}

func (r *feedbackPostgreSQL) GetBySubmission(ctx context.Context, submissionID uint) (*models.AIFeedback, error) {
	var feedback models.AIFeedback
	if err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to get feedback for submission %d: %w", submissionID, err)
	}
	return &feedback, nil
}

var feedbackColumns = []string{
	"grammar_score", "relevance_score", "originality_score", "overall_score",
	"summary", "suggestions", "updated_at",
}

func (r *feedbackPostgreSQL) Upsert(ctx context.Context, feedback *models.AIFeedback) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			DoUpdates: clause.AssignmentColumns(feedbackColumns),
		}).
		Create(feedback).Error
	if err != nil {
		return fmt.Errorf("failed to save feedback for submission %d: %w", feedback.SubmissionID, err)
	}
	return nil
}
