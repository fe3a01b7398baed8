package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a campus event shown on the public portal.
type Event struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"size:2000"`
	Date        string `json:"date" gorm:"size:10;index"`
	Category    string `json:"category" gorm:"size:50;index"`
	Tag         string `json:"tag" gorm:"size:50"`
	Location    string `json:"location" gorm:"size:200"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}

type News struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"size:1000"`
	Date        string `json:"date" gorm:"size:10;index"`
	Content     string `json:"content" gorm:"type:text"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (News) TableName() string {
	return "news"
}

// UniversityProfile is the static institution summary served by /university/info.
type UniversityProfile struct {
	Name        string         `json:"name"`
	Established int            `json:"established"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Stats       map[string]int `json:"stats"`
}

// AllModels is the migration set, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Assignment{},
		&Submission{},
		&AIFeedback{},
		&Attendance{},
		&Event{},
		&News{},
	}
}
