package validator

// Auth

type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Role       string `json:"role" validate:"omitempty,register_role"`
	Department string `json:"department" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Attendance

type AttendanceRecordInput struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

type AttendanceMarkRequest struct {
	CourseID  string                  `json:"courseId" validate:"required,course_code"`
	Date      string                  `json:"date" validate:"required,iso_date"`
	FacultyID string                  `json:"facultyId"`
	Records   []AttendanceRecordInput `json:"records" validate:"required,min=1,max=500,dive"`
}

// Assignments and submissions

type AssignmentCreateRequest struct {
	CourseID    string  `json:"courseId" validate:"required,course_code"`
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitempty,iso_date"`
}

type EvaluateRequest struct {
	Score *int `json:"score" validate:"required,score_range"`
}

type FeedbackSaveRequest struct {
	GrammarScore     int      `json:"grammarScore" validate:"score_range"`
	RelevanceScore   int      `json:"relevanceScore" validate:"score_range"`
	OriginalityScore int      `json:"originalityScore" validate:"score_range"`
	OverallScore     int      `json:"overallScore" validate:"score_range"`
	Summary          string   `json:"summary" validate:"max=2000"`
	Suggestions      []string `json:"suggestions" validate:"max=20,dive,max=500"`
}

// FeedbackGenerateRequest optionally carries the submission text for the model.
type FeedbackGenerateRequest struct {
	Text string `json:"text" validate:"max=50000"`
}

// Courses

type EnrollRequest struct {
	StudentCodes []string `json:"studentCodes" validate:"required,min=1,max=200,dive,required"`
}

// Admin. Update requests copy only non-empty fields onto the stored row.

type EventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"required,iso_date"`
	Category    string `json:"category" validate:"max=50"`
	Tag         string `json:"tag" validate:"max=50"`
	Location    string `json:"location" validate:"max=200"`
}

type EventUpdateRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"omitempty,iso_date"`
	Category    string `json:"category" validate:"max=50"`
	Tag         string `json:"tag" validate:"max=50"`
	Location    string `json:"location" validate:"max=200"`
}

type NewsRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Date        string `json:"date" validate:"required,iso_date"`
	Content     string `json:"content"`
}

type NewsUpdateRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=1000"`
	Date        string `json:"date" validate:"omitempty,iso_date"`
	Content     string `json:"content"`
}

type UserCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"required,user_role"`
	Department  string `json:"department" validate:"max=100"`
	StudentCode string `json:"studentId" validate:"max=32"`
}

type UserUpdateRequest struct {
	Name       string `json:"name" validate:"omitempty,min=2,max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Password   string `json:"password" validate:"omitempty,min=6,max=72"`
	Role       string `json:"role" validate:"omitempty,user_role"`
	Department string `json:"department" validate:"max=100"`
}

type CourseRequest struct {
	Code        string `json:"courseId" validate:"required,course_code"`
	Name        string `json:"name" validate:"required,max=200"`
	Department  string `json:"department" validate:"max=100"`
	Duration    string `json:"duration" validate:"max=50"`
	Degree      string `json:"degree" validate:"max=50"`
	Description string `json:"description" validate:"max=1000"`
	FacultyID   *uint  `json:"facultyId"`
}

type CourseUpdateRequest struct {
	Name        string `json:"name" validate:"max=200"`
	Department  string `json:"department" validate:"max=100"`
	Duration    string `json:"duration" validate:"max=50"`
	Degree      string `json:"degree" validate:"max=50"`
	Description string `json:"description" validate:"max=1000"`
	FacultyID   *uint  `json:"facultyId"`
}
