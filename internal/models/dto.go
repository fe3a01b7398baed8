package models

import "time"

// ===== ATTENDANCE VIEWS =====

type AttendanceRecordView struct {
	CourseID string `json:"courseId"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// AttendanceStats is the per-student attendance summary.
type AttendanceStats struct {
	StudentID    string                 `json:"studentId"`
	TotalClasses int64                  `json:"totalClasses"`
	Present      int64                  `json:"present"`
	Absent       int64                  `json:"absent"`
	Percentage   int64                  `json:"percentage"`
	Records      []AttendanceRecordView `json:"records"`
}

type StudentStatus struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// DayAttendance is one date group of a course attendance report.
type DayAttendance struct {
	CourseID string          `json:"courseId"`
	Date     string          `json:"date"`
	Present  int64           `json:"present"`
	Total    int64           `json:"total"`
	Students []StudentStatus `json:"students"`
}

// ===== DASHBOARDS =====

type StudentDashboard struct {
	TotalAssignments  int64 `json:"totalAssignments"`
	Evaluated         int64 `json:"evaluated"`
	Pending           int64 `json:"pending"`
	AvgScore          int64 `json:"avgScore"`
	AttendancePercent int64 `json:"attendancePercent"`
	TotalClasses      int64 `json:"totalClasses"`
	PresentClasses    int64 `json:"presentClasses"`
}

type CourseSummary struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
	Students   int64  `json:"students"`

	// TodayAttendance is nil when attendance has not been taken today.
	TodayAttendance *int64 `json:"todayAttendance"`
}

type RecentAttendance struct {
	Date    string `json:"date"`
	Course  string `json:"course"`
	Present int64  `json:"present"`
	Total   int64  `json:"total"`
}

type FacultyDashboard struct {
	Courses          []CourseSummary    `json:"courses"`
	RecentAttendance []RecentAttendance `json:"recentAttendance"`
}

// ===== SUBMISSIONS =====

type SubmissionView struct {
	ID              uint             `json:"id"`
	AssignmentID    uint             `json:"assignmentId"`
	AssignmentTitle string           `json:"assignmentTitle"`
	StudentID       string           `json:"studentId"`
	CourseID        string           `json:"courseId"`
	FileName        string           `json:"fileName"`
	Status          SubmissionStatus `json:"status"`
	Score           *int             `json:"score"`
	SubmittedAt     time.Time        `json:"submittedAt"`
}

type AssignmentView struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CourseID    string  `json:"courseId"`
	DueDate     *string `json:"dueDate"`
}

// ===== USERS =====

type UserView struct {
	ID         uint     `json:"id"`
	StudentID  string   `json:"studentId"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	Department string   `json:"department"`
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:         u.ID,
		StudentID:  u.Code(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

type LoginResponse struct {
	UserView
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type EnrolledStudent struct {
	ID         string `json:"id"`
	StudentID  string `json:"studentId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type CampusFeed struct {
	Events []Event `json:"events"`
	News   []News  `json:"news"`
}
