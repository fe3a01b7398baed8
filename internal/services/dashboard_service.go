package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/campus-portal/portal-service/internal/analytics"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

// allCoursesKey names the faculty dashboard built over every course.
const allCoursesKey = "all"

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheManager
	clock  Clock
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, cm *cache.CacheManager, clock Clock) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		cache:  cm,
		clock:  clock,
	}
}

func (s *dashboardService) Student(ctx context.Context, actor Actor, studentCode string) (*models.StudentDashboard, error) {
	if err := actor.checkStudentAccess(studentCode, "dashboard"); err != nil {
		return nil, err
	}

	var result models.StudentDashboard
	err := s.cache.Dashboard.CacheOrExecute(ctx, cache.StudentDashboardKey+studentCode, &result, cache.DashboardCacheConfig.TTL, func() (interface{}, error) {
		student, err := s.repo.User().GetByStudentCode(ctx, studentCode)
		if err != nil {
			return nil, mapRepoError(err, "student "+studentCode)
		}

		submissions, err := s.repo.Submission().ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		attendance, err := s.repo.Attendance().ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		return analytics.ComposeStudentDashboard(submissions, attendance), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *dashboardService) Faculty(ctx context.Context, actor Actor, facultyID string) (*models.FacultyDashboard, error) {
	today := s.clock.Today()

	if actor.Role == models.RoleFaculty {
		facultyID = strconv.FormatUint(uint64(actor.UserID), 10)
	}

	owner := allCoursesKey
	id, parseErr := strconv.ParseUint(strings.TrimSpace(facultyID), 10, 64)
	if parseErr == nil {
		owner = strconv.FormatUint(id, 10)
	} else {
		s.logger.Debug("Faculty id is not numeric, using all courses", "faculty_id", facultyID)
	}

	var result models.FacultyDashboard
	key := cache.FacultyDashboardKey + owner + ":" + today
	err := s.cache.Dashboard.CacheOrExecute(ctx, key, &result, cache.DashboardCacheConfig.TTL, func() (interface{}, error) {
		var (
			courses []models.Course
			err     error
		)
		if parseErr == nil {
			courses, err = s.repo.Course().ListByFaculty(ctx, uint(id))
		} else {
			courses, err = s.repo.Course().List(ctx)
		}
		if err != nil {
			return nil, err
		}

		inputs := make([]analytics.CourseAttendance, 0, len(courses))
		for _, c := range courses {
			count, err := s.repo.Course().CountStudents(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			records, err := s.repo.Attendance().ListByCourse(ctx, c.ID, "", "")
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, analytics.CourseAttendance{Course: c, StudentCount: count, Records: records})
		}

		return analytics.ComposeFacultyDashboard(inputs, today), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
