package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/campus-portal/portal-service/internal/analytics"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/llm"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

type feedbackService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	generator llm.FeedbackGenerator
	publisher events.EventPublisher
}

// NewFeedbackService accepts a nil generator; Generate then reports ErrUnavailable.
func NewFeedbackService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, generator llm.FeedbackGenerator, publisher events.EventPublisher) FeedbackService {
	return &feedbackService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		generator: generator,
		publisher: publisher,
	}
}

func (s *feedbackService) Get(ctx context.Context, submissionID uint) (*models.AIFeedback, error) {
	feedback, err := s.repo.Feedback().GetBySubmission(ctx, submissionID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("feedback for submission %d", submissionID))
	}
	return feedback, nil
}

func (s *feedbackService) Save(ctx context.Context, submissionID uint, req *FeedbackSaveRequest) (*models.AIFeedback, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Submission().GetByID(ctx, submissionID); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("submission %d", submissionID))
	}

	return s.store(ctx, &models.AIFeedback{
		SubmissionID:     submissionID,
		GrammarScore:     req.GrammarScore,
		RelevanceScore:   req.RelevanceScore,
		OriginalityScore: req.OriginalityScore,
		OverallScore:     req.OverallScore,
		Summary:          req.Summary,
		Suggestions:      suggestions(req.Suggestions),
	}, false)
}

func (s *feedbackService) Generate(ctx context.Context, submissionID uint, req *FeedbackGenerateRequest) (*models.AIFeedback, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("AI feedback is not configured: %w", ErrUnavailable)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("submission %d", submissionID))
	}

	input := llm.FeedbackInput{
		AssignmentTitle: analytics.PlaceholderTitle(submission.AssignmentID),
		FileName:        submission.FileName,
		Text:            req.Text,
	}
	if submission.Course != nil {
		input.CourseName = submission.Course.Name
	}
	if assignment, err := s.repo.Assignment().GetByID(ctx, submission.AssignmentID); err == nil {
		input.AssignmentTitle = assignment.Title
		input.AssignmentDescription = assignment.Description
	}

	result, err := s.generator.GenerateFeedback(ctx, input)
	if err != nil {
		s.logger.Error("AI feedback generation failed", "error", err, "submission_id", submissionID)
		return nil, fmt.Errorf("AI feedback generation failed: %w", ErrUnavailable)
	}

	return s.store(ctx, &models.AIFeedback{
		SubmissionID:     submissionID,
		GrammarScore:     result.GrammarScore,
		RelevanceScore:   result.RelevanceScore,
		OriginalityScore: result.OriginalityScore,
		OverallScore:     result.OverallScore,
		Summary:          result.Summary,
		Suggestions:      suggestions(result.Suggestions),
	}, true)
}

func (s *feedbackService) store(ctx context.Context, feedback *models.AIFeedback, generated bool) (*models.AIFeedback, error) {
	if err := s.repo.Feedback().Upsert(ctx, feedback); err != nil {
		return nil, err
	}

	saved, err := s.Get(ctx, feedback.SubmissionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Feedback saved", "submission_id", saved.SubmissionID, "generated", generated)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.FeedbackSaved, events.FeedbackSavedData{
		SubmissionID: saved.SubmissionID,
		OverallScore: saved.OverallScore,
		Generated:    generated,
	}))

	return saved, nil
}

func suggestions(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
