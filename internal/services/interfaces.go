package services

import (
	"context"
	"io"
	"time"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/validator"
)

// ===== REQUEST DTOs =====

type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type AttendanceMarkRequest = validator.AttendanceMarkRequest
type AssignmentCreateRequest = validator.AssignmentCreateRequest
type EvaluateRequest = validator.EvaluateRequest
type FeedbackSaveRequest = validator.FeedbackSaveRequest
type FeedbackGenerateRequest = validator.FeedbackGenerateRequest
type EnrollRequest = validator.EnrollRequest
type EventRequest = validator.EventRequest
type EventUpdateRequest = validator.EventUpdateRequest
type NewsRequest = validator.NewsRequest
type NewsUpdateRequest = validator.NewsUpdateRequest
type UserCreateRequest = validator.UserCreateRequest
type UserUpdateRequest = validator.UserUpdateRequest
type CourseRequest = validator.CourseRequest
type CourseUpdateRequest = validator.CourseUpdateRequest

// Actor is the authenticated caller a service acts for.
type Actor struct {
	UserID      uint
	Role        models.UserRole
	StudentCode string
}

// NewActor builds an Actor from a loaded account.
func NewActor(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, StudentCode: u.Code()}
}

// CanReadStudent reports whether the actor may see data of the given student.
// Students only see themselves; faculty and admins see everyone.
func (a Actor) CanReadStudent(studentCode string) bool {
	return a.Role != models.RoleStudent || a.StudentCode == studentCode
}

func (a Actor) checkStudentAccess(studentCode, resource string) error {
	if a.CanReadStudent(studentCode) {
		return nil
	}
	return NewPermissionError(a.UserID, resource, "read", "students can only read their own data")
}

// ===== RESPONSE DTOs =====

type RegisterResponse struct {
	Message   string `json:"message"`
	ID        uint   `json:"id"`
	StudentID string `json:"studentId,omitempty"`
}

type AttendanceMarkResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type UploadInput struct {
	AssignmentID uint
	FileName     string
	Content      io.Reader
}

type UploadResponse struct {
	Message      string `json:"message"`
	SubmissionID uint   `json:"submissionId"`
	FileName     string `json:"fileName"`
	FileURL      string `json:"fileUrl"`
}

type UserListFilters struct {
	Role   string
	Query  string
	Limit  int
	Offset int
}

type UserListResponse struct {
	Users []models.UserView `json:"users"`
	Total int64             `json:"total"`
}

type SeedReport struct {
	Users       int `json:"users"`
	Courses     int `json:"courses"`
	Assignments int `json:"assignments"`
	Enrollments int `json:"enrollments"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, userID uint) (*models.UserView, error)

	// Authenticate resolves a bearer token to an account. Portal tokens are
	// tried first, then the external verifier when one is configured.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	List(ctx context.Context, filters UserListFilters) (*UserListResponse, error)
	Get(ctx context.Context, id uint) (*models.UserView, error)
	Create(ctx context.Context, req *UserCreateRequest) (*models.UserView, error)
	Update(ctx context.Context, id uint, req *UserUpdateRequest) (*models.UserView, error)
	Delete(ctx context.Context, id uint) error
}

type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id uint) (*models.Course, error)
	Students(ctx context.Context, courseCode string) ([]models.EnrolledStudent, error)
	Enroll(ctx context.Context, courseCode string, req *EnrollRequest) ([]models.EnrolledStudent, error)

	Create(ctx context.Context, req *CourseRequest) (*models.Course, error)
	Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error)
	Delete(ctx context.Context, id uint) error
}

type AssignmentService interface {
	ListByCourse(ctx context.Context, courseCode string) ([]models.AssignmentView, error)
	Create(ctx context.Context, req *AssignmentCreateRequest) (*models.AssignmentView, error)

	Upload(ctx context.Context, actor Actor, in UploadInput) (*UploadResponse, error)
	StudentSubmissions(ctx context.Context, actor Actor, studentCode string) ([]models.SubmissionView, error)
	CourseSubmissions(ctx context.Context, courseCode string) ([]models.SubmissionView, error)
	Evaluate(ctx context.Context, submissionID uint, req *EvaluateRequest) (*models.SubmissionView, error)
}

type AttendanceService interface {
	Mark(ctx context.Context, actor Actor, req *AttendanceMarkRequest) (*AttendanceMarkResponse, error)
	ByDate(ctx context.Context, courseCode, date string) (*models.DayAttendance, error)
	Report(ctx context.Context, courseCode, from, to string) ([]models.DayAttendance, error)
	StudentStats(ctx context.Context, actor Actor, studentCode string) (*models.AttendanceStats, error)

	// Export writes the course report as an xlsx workbook.
	Export(ctx context.Context, courseCode, from, to string, w io.Writer) error
}

type DashboardService interface {
	Student(ctx context.Context, actor Actor, studentCode string) (*models.StudentDashboard, error)
	// Faculty falls back to every course when facultyID is not a user id.
	// A FACULTY actor always gets their own courses.
	Faculty(ctx context.Context, actor Actor, facultyID string) (*models.FacultyDashboard, error)
}

type FeedbackService interface {
	Get(ctx context.Context, submissionID uint) (*models.AIFeedback, error)
	Save(ctx context.Context, submissionID uint, req *FeedbackSaveRequest) (*models.AIFeedback, error)
	Generate(ctx context.Context, submissionID uint, req *FeedbackGenerateRequest) (*models.AIFeedback, error)
}

type CampusService interface {
	UniversityInfo(ctx context.Context) (*models.UniversityProfile, error)
	Feed(ctx context.Context, category string) (*models.CampusFeed, error)
	GetEvent(ctx context.Context, id uint) (*models.Event, error)

	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, req *EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uint, req *EventUpdateRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint) error

	ListNews(ctx context.Context) ([]models.News, error)
	CreateNews(ctx context.Context, req *NewsRequest) (*models.News, error)
	UpdateNews(ctx context.Context, id uint, req *NewsUpdateRequest) (*models.News, error)
	DeleteNews(ctx context.Context, id uint) error
}

type SeedService interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

// ServiceManager owns every service and their shared collaborators.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Assignment() AssignmentService
	Attendance() AttendanceService
	Dashboard() DashboardService
	Feedback() FeedbackService
	Campus() CampusService
	Seed() SeedService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Clock is the source of "today" for dashboards.
type Clock func() time.Time

// Today formats the clock's current date in the ISO layout.
func (c Clock) Today() string {
	if c == nil {
		return time.Now().Format(models.DateLayout)
	}
	return c().Format(models.DateLayout)
}
