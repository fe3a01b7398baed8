package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/campus-portal/portal-service/internal/analytics"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cm,
		publisher: publisher,
	}
}

// Mark records one day of attendance. Re-marking the same student on the
// same date updates the stored status.
func (s *attendanceService) Mark(ctx context.Context, actor Actor, req *AttendanceMarkRequest) (*AttendanceMarkResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateAttendanceMark(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByCode(ctx, req.CourseID)
	if err != nil {
		return nil, mapRepoError(err, "course "+req.CourseID)
	}

	codes := lo.Map(req.Records, func(r validator.AttendanceRecordInput, _ int) string {
		return strings.TrimSpace(r.StudentID)
	})
	students, err := s.repo.User().GetByStudentCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	if errs := unknownStudents(codes, students, "records"); len(errs) > 0 {
		return nil, errs
	}
	byCode := lo.KeyBy(students, func(u models.User) string {
		return u.Code()
	})

	facultyID := markingFaculty(actor, req.FacultyID)

	records := make([]models.Attendance, 0, len(req.Records))
	for i, r := range req.Records {
		student := byCode[codes[i]]
		records = append(records, models.Attendance{
			CourseID:  course.ID,
			StudentID: student.ID,
			FacultyID: facultyID,
			Date:      req.Date,
			Status:    models.NormalizeStatus(r.Status),
		})
	}

	if err := s.repo.Attendance().Upsert(ctx, records); err != nil {
		return nil, err
	}

	present := analytics.CountPresent(records)
	s.logger.Info("Attendance marked",
		"course_id", course.Code,
		"date", req.Date,
		"present", present,
		"total", len(records))

	cache.InvalidateStudentDashboards(ctx, s.cache, codes...)
	cache.InvalidateFacultyDashboards(ctx, s.cache)

	events.SafePublish(ctx, s.publisher, s.logger, events.NewEvent(events.AttendanceMarked, events.AttendanceMarkedData{
		CourseID:   course.Code,
		Date:       req.Date,
		StudentIDs: codes,
		Present:    present,
		Total:      int64(len(records)),
	}))

	return &AttendanceMarkResponse{
		Message: "Attendance saved successfully",
		Count:   len(records),
	}, nil
}

// markingFaculty prefers the authenticated faculty member over the id in the body.
func markingFaculty(actor Actor, requested string) *uint {
	if actor.Role == models.RoleFaculty {
		id := actor.UserID
		return &id
	}
	if id, err := strconv.ParseUint(strings.TrimSpace(requested), 10, 64); err == nil && id > 0 {
		u := uint(id)
		return &u
	}
	return nil
}

func (s *attendanceService) ByDate(ctx context.Context, courseCode, date string) (*models.DayAttendance, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidationFailed)
	}

	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	records, err := s.repo.Attendance().ListByCourseAndDate(ctx, course.ID, date)
	if err != nil {
		return nil, err
	}

	day := analytics.DayReport(course.Code, date, records)
	return &day, nil
}

func (s *attendanceService) Report(ctx context.Context, courseCode, from, to string) ([]models.DayAttendance, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByCode(ctx, courseCode)
	if err != nil {
		return nil, mapRepoError(err, "course "+courseCode)
	}

	records, err := s.repo.Attendance().ListByCourse(ctx, course.ID, from, to)
	if err != nil {
		return nil, err
	}

	return analytics.GroupAttendanceByDate(course.Code, records), nil
}

// checkRange validates optional ISO bounds and their order.
func checkRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDate(d); err != nil {
			return fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrValidationFailed, d)
		}
	}
	if from != "" && to != "" && from > to {
		return fmt.Errorf("%w: from is after to", ErrValidationFailed)
	}
	return nil
}

func (s *attendanceService) StudentStats(ctx context.Context, actor Actor, studentCode string) (*models.AttendanceStats, error) {
	if err := actor.checkStudentAccess(studentCode, "attendance"); err != nil {
		return nil, err
	}

	student, err := s.repo.User().GetByStudentCode(ctx, studentCode)
	if err != nil {
		return nil, mapRepoError(err, "student "+studentCode)
	}

	records, err := s.repo.Attendance().ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	stats := analytics.ComputeAttendanceStats(studentCode, records)
	return &stats, nil
}

func (s *attendanceService) Export(ctx context.Context, courseCode, from, to string, w io.Writer) error {
	groups, err := s.Report(ctx, courseCode, from, to)
	if err != nil {
		return err
	}
	return writeAttendanceWorkbook(groups, w)
}
