package repositories

import (
	"context"

	"github.com/campus-portal/portal-service/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	ListByFaculty(ctx context.Context, facultyID uint) ([]models.Course, error)
	Count(ctx context.Context) (int64, error)

	// Enrollment
	AddStudents(ctx context.Context, course *models.Course, students []models.User) error
	ListStudents(ctx context.Context, courseID uint) ([]models.User, error)
	CountStudents(ctx context.Context, courseID uint) (int64, error)
	IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Assignment, error)
	GetByCourseAndTitle(ctx context.Context, courseID uint, title string) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error)
}

// SubmissionRepository preloads Student and Course on every read.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Submission, error)
}

// AttendanceRepository preloads Student and Course on every read.
type AttendanceRepository interface {
	// Upsert inserts or updates on the (course, student, date) key.
	Upsert(ctx context.Context, records []models.Attendance) error

	ListByStudent(ctx context.Context, studentID uint) ([]models.Attendance, error)
	// ListByCourse returns records in [from, to]; an empty bound is open.
	ListByCourse(ctx context.Context, courseID uint, from, to string) ([]models.Attendance, error)
	ListByCourseAndDate(ctx context.Context, courseID uint, date string) ([]models.Attendance, error)
	Count(ctx context.Context) (int64, error)
}

type FeedbackRepository interface {
	GetBySubmission(ctx context.Context, submissionID uint) (*models.AIFeedback, error)
	// Upsert keeps at most one row per submission.
	Upsert(ctx context.Context, feedback *models.AIFeedback) error
}

// CampusRepository covers the public events and news feeds.
type CampusRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id uint) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context, category string) ([]models.Event, error)

	CreateNews(ctx context.Context, news *models.News) error
	UpdateNews(ctx context.Context, news *models.News) error
	DeleteNews(ctx context.Context, id uint) error
	GetNews(ctx context.Context, id uint) (*models.News, error)
	ListNews(ctx context.Context) ([]models.News, error)
}
