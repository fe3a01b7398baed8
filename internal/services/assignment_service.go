package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/campus-portal/portal-service/internal/analytics"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/storage"
	"github.com/campus-portal/portal-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	store     storage.FileStore
	cache     *cache.CacheManager
	publisher events.EventPublisher
	now       func() time.Time
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, store storage.FileStore, cm *cache.CacheManager, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		store:     store,
		cache:     cm,
		publisher: publisher,
		now:       time.Now,
	}
}

func toAssignmentView(a *models.Assignment, courseCode string) models.AssignmentView {
	return models.AssignmentView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CourseID:    courseCode,
		DueDate:     a.DueDate,
	}
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseCode string) ([]models.AssignmentView, error) {
	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	assignments, err := s.repo.Assignment().ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.AssignmentView, 0, len(assignments))
	for i := range assignments {
		views = append(views, toAssignmentView(&assignments[i], course.Code))
	}
	return views, nil
}

func (s *assignmentService) Create(ctx context.Context, req *AssignmentCreateRequest) (*models.AssignmentView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByCode(ctx, req.CourseID)
	if err != nil {
		return nil, mapRepoError(err, "course "+req.CourseID)
	}

	assignment := &models.Assignment{
		CourseID:    course.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("Assignment created", "assignment_id", assignment.ID, "course_id", course.Code)

	view := toAssignmentView(assignment, course.Code)
	return &view, nil
}

func (s *assignmentService) Upload(ctx context.Context, actor Actor, in UploadInput) (*UploadResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, "submission", "upload", "only students upload submissions")
	}
	fileName := filepath.Base(strings.TrimSpace(in.FileName))
	if in.Content == nil || fileName == "" || fileName == "." {
		return nil, fmt.Errorf("%w: file is required", ErrValidationFailed)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, in.AssignmentID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("assignment %d", in.AssignmentID))
	}

	enrolled, err := s.repo.Course().IsEnrolled(ctx, assignment.CourseID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, NewPermissionError(actor.UserID, "submission", "upload", "not enrolled in the course")
	}

	key := storage.SubmissionKey(actor.StudentCode, assignment.ID, fileName)
	url, err := s.store.Save(ctx, key, in.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    actor.UserID,
		CourseID:     assignment.CourseID,
		FileURL:      url,
		FileName:     fileName,
		Status:       models.SubmissionSubmitted,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("Failed to remove orphaned upload", "error", delErr, "key", key)
		}
		return nil, err
	}

	s.logger.Info("Submission uploaded",
		"submission_id", submission.ID,
		"assignment_id", assignment.ID,
		"student_id", actor.StudentCode)

	cache.InvalidateStudentDashboards(ctx, s.cache, actor.StudentCode)

	courseCode := ""
	if assignment.Course != nil {
		courseCode = assignment.Course.Code
	}
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.SubmissionUploaded, events.SubmissionData{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		StudentID:    actor.StudentCode,
		CourseID:     courseCode,
	}))

	return &UploadResponse{
		Message:      "Assignment uploaded successfully",
		SubmissionID: submission.ID,
		FileName:     fileName,
		FileURL:      url,
	}, nil
}

func (s *assignmentService) StudentSubmissions(ctx context.Context, actor Actor, studentCode string) ([]models.SubmissionView, error) {
	if err := actor.checkStudentAccess(studentCode, "submissions"); err != nil {
		return nil, err
	}

	student, err := s.repo.User().GetByStudentCode(ctx, studentCode)
	if err != nil {
		return nil, mapRepoError(err, "student "+studentCode)
	}

	subs, err := s.repo.Submission().ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, subs)
}

func (s *assignmentService) CourseSubmissions(ctx context.Context, courseCode string) ([]models.SubmissionView, error) {
	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	subs, err := s.repo.Submission().ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, subs)
}

func (s *assignmentService) enrich(ctx context.Context, subs []models.Submission) ([]models.SubmissionView, error) {
	assignments, err := s.repo.Assignment().GetByIDs(ctx, analytics.AssignmentIDs(subs))
	if err != nil {
		return nil, err
	}
	return analytics.EnrichSubmissions(subs, assignments), nil
}

func (s *assignmentService) Evaluate(ctx context.Context, submissionID uint, req *EvaluateRequest) (*models.SubmissionView, error) {
	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("submission %d", submissionID))
	}

	if errs := s.validator.GetBusinessValidator().ValidateEvaluation(req, submission.Status); len(errs) > 0 {
		return nil, errs
	}

	submission.Score = req.Score
	submission.Status = models.SubmissionEvaluated
	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, err
	}

	studentCode := submission.Student.Code()
	s.logger.Info("Submission evaluated", "submission_id", submission.ID, "score", *req.Score)

	cache.InvalidateStudentDashboards(ctx, s.cache, studentCode)

	courseCode := ""
	if submission.Course != nil {
		courseCode = submission.Course.Code
	}
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.SubmissionEvaluated, events.SubmissionData{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    studentCode,
		CourseID:     courseCode,
		Score:        submission.Score,
	}))

	views, err := s.enrich(ctx, []models.Submission{*submission})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
