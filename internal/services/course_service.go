package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cm,
		publisher: publisher,
	}
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	return s.repo.Course().List(ctx)
}

func (s *courseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("course %d", id))
	}
	return course, nil
}

func (s *courseService) Students(ctx context.Context, courseCode string) ([]models.EnrolledStudent, error) {
	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	students, err := s.repo.Course().ListStudents(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return toEnrolledStudents(students), nil
}

func toEnrolledStudents(users []models.User) []models.EnrolledStudent {
	out := make([]models.EnrolledStudent, 0, len(users))
	for i := range users {
		u := &users[i]
		id := u.Code()
		if id == "" {
			id = models.FormatStudentCode(int64(u.ID))
		}
		out = append(out, models.EnrolledStudent{
			ID:         id,
			StudentID:  u.Code(),
			Name:       u.Name,
			Email:      u.Email,
			Department: u.Department,
		})
	}
	return out
}

func (s *courseService) Enroll(ctx context.Context, courseCode string, req *EnrollRequest) ([]models.EnrolledStudent, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	codes := lo.Uniq(lo.Map(req.StudentCodes, func(c string, _ int) string {
		return strings.TrimSpace(c)
	}))

	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	students, err := s.repo.User().GetByStudentCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	if errs := unknownStudents(codes, students, "studentCodes"); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Course().AddStudents(ctx, course, students); err != nil {
		return nil, err
	}

	s.logger.Info("Students enrolled", "course_id", course.Code, "count", len(students))

	cache.InvalidateFacultyDashboards(ctx, s.cache)
	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.StudentsEnrolled, events.StudentsEnrolledData{
		CourseID:   course.Code,
		StudentIDs: codes,
	}))

	return s.Students(ctx, courseCode)
}

// unknownStudents reports every requested code with no matching student.
func unknownStudents(codes []string, found []models.User, field string) validator.ValidationErrors {
	known := lo.SliceToMap(found, func(u models.User) (string, bool) {
		return u.Code(), true
	})

	var errs validator.ValidationErrors
	for _, code := range codes {
		if !known[code] {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "unknown student",
				Value:   code,
				Rule:    "unknown_student",
			})
		}
	}
	return errs
}

func (s *courseService) Create(ctx context.Context, req *CourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkFaculty(ctx, req.FacultyID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Department:  req.Department,
		Duration:    req.Duration,
		Degree:      req.Degree,
		Description: req.Description,
		FacultyID:   req.FacultyID,
	}
	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, mapRepoError(err, "course "+course.Code)
	}

	s.logger.Info("Course created", "course_id", course.Code)
	s.invalidate(ctx)

	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkFaculty(ctx, req.FacultyID); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("course %d", id))
	}

	patch := struct {
		Name        string
		Department  string
		Duration    string
		Degree      string
		Description string
	}{req.Name, req.Department, req.Duration, req.Degree, req.Description}
	if err := copier.CopyWithOption(course, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to apply course update: %w", err)
	}
	if req.FacultyID != nil {
		course.FacultyID = req.FacultyID
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, mapRepoError(err, "course "+course.Code)
	}
	s.invalidate(ctx)

	return s.Get(ctx, id)
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Course().Delete(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("course %d", id))
	}
	s.logger.Info("Course deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

// checkFaculty accepts a nil id or the id of a faculty account.
func (s *courseService) checkFaculty(ctx context.Context, facultyID *uint) error {
	if facultyID == nil {
		return nil
	}
	user, err := s.repo.User().GetByID(ctx, *facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: faculty %d does not exist", ErrValidationFailed, *facultyID)
		}
		return err
	}
	if user.Role != models.RoleFaculty {
		return fmt.Errorf("%w: user %d is not faculty", ErrValidationFailed, *facultyID)
	}
	return nil
}

func (s *courseService) invalidate(ctx context.Context) {
	cache.InvalidateFacultyDashboards(ctx, s.cache)
	cache.InvalidateCampus(ctx, s.cache)
}
