package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"courseId" gorm:"uniqueIndex;not null;size:32"`
	Name        string `json:"name" gorm:"not null;size:200"`
	Department  string `json:"department" gorm:"size:100"`
	Duration    string `json:"duration" gorm:"size:50"`
	Degree      string `json:"degree" gorm:"size:50"`
	Description string `json:"description" gorm:"size:1000"`

	FacultyID *uint `json:"facultyId,omitempty" gorm:"index"`
	Faculty   *User `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`

	Students []User `json:"-" gorm:"many2many:course_students;"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

type Assignment struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CourseID    uint    `json:"-" gorm:"not null;index"`
	Course      *Course `json:"-" gorm:"foreignKey:CourseID"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description string  `json:"description" gorm:"size:1000"`

	// DueDate is an ISO calendar date (YYYY-MM-DD).
	DueDate *string `json:"dueDate" gorm:"size:10"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Assignment) TableName() string {
	return "assignments"
}
