package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleFaculty UserRole = "FACULTY"
	RoleAdmin   UserRole = "ADMIN"
)

// AllRoles lists every role the portal knows about. The set is closed.
var AllRoles = []UserRole{RoleStudent, RoleFaculty, RoleAdmin}

// ParseRole converts user input into a UserRole, ignoring case.
func ParseRole(s string) (UserRole, error) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleFaculty:
		return RoleFaculty, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"type:varchar(16);not null;index"`
	Department   string   `json:"department" gorm:"size:100"`

	// StudentCode is only set for students, e.g. STU001.
	StudentCode *string `json:"studentId,omitempty" gorm:"uniqueIndex;size:32"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Code returns the student code, or an empty string for non-students.
func (u *User) Code() string {
	if u == nil || u.StudentCode == nil {
		return ""
	}
	return *u.StudentCode
}

// FormatStudentCode builds the human-readable code for the n-th student.
func FormatStudentCode(n int64) string {
	return fmt.Sprintf("STU%03d", n)
}
