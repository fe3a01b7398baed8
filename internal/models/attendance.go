package models

import (
	"strings"
	"time"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	// DateLayout is the ISO calendar date format used for attendance and due dates.
	DateLayout = "2006-01-02"
)

// Attendance is one mark for a student in a course on a given day.
// (course_id, student_id, date) is unique; re-marking updates the status.
type Attendance struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	CourseID  uint    `json:"-" gorm:"not null;uniqueIndex:idx_attendance_course_student_date,priority:1"`
	Course    *Course `json:"-" gorm:"foreignKey:CourseID"`
	StudentID uint    `json:"-" gorm:"not null;uniqueIndex:idx_attendance_course_student_date,priority:2;index"`
	Student   *User   `json:"-" gorm:"foreignKey:StudentID"`
	FacultyID *uint   `json:"-"`
	Date      string  `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_course_student_date,priority:3"`
	Status    string  `json:"status" gorm:"size:16;not null"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// IsPresent compares the status case-insensitively.
func (a Attendance) IsPresent() bool {
	return strings.EqualFold(strings.TrimSpace(a.Status), StatusPresent)
}

// NormalizeStatus capitalises a status the way it is stored: "present" -> "Present".
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ParseDate validates an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
