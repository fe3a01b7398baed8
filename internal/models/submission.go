package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "PENDING"
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionEvaluated SubmissionStatus = "EVALUATED"
)

// IsOpen reports whether the submission still waits for evaluation.
func (s SubmissionStatus) IsOpen() bool {
	return s == SubmissionPending || s == SubmissionSubmitted
}

// CanTransitionTo enforces the forward-only lifecycle. EVALUATED may be
// re-entered so a re-evaluation can update the score.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case SubmissionPending:
		return next == SubmissionSubmitted || next == SubmissionEvaluated
	case SubmissionSubmitted:
		return next == SubmissionEvaluated
	case SubmissionEvaluated:
		return next == SubmissionEvaluated
	}
	return false
}

type Submission struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AssignmentID uint             `json:"assignmentId" gorm:"not null;index"`
	StudentID    uint             `json:"-" gorm:"not null;index"`
	Student      *User            `json:"-" gorm:"foreignKey:StudentID"`
	CourseID     uint             `json:"-" gorm:"not null;index"`
	Course       *Course          `json:"-" gorm:"foreignKey:CourseID"`
	FileURL      string           `json:"fileUrl" gorm:"size:500"`
	FileName     string           `json:"fileName" gorm:"size:255"`
	Status       SubmissionStatus `json:"status" gorm:"type:varchar(16);not null;default:'SUBMITTED'"`
	Score        *int             `json:"score"`
	SubmittedAt  time.Time        `json:"submittedAt"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// AIFeedback is the optional score breakdown attached to one submission.
type AIFeedback struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	SubmissionID     uint                        `json:"submissionId" gorm:"uniqueIndex;not null"`
	GrammarScore     int                         `json:"grammarScore"`
	RelevanceScore   int                         `json:"relevanceScore"`
	OriginalityScore int                         `json:"originalityScore"`
	OverallScore     int                         `json:"overallScore"`
	Summary          string                      `json:"summary" gorm:"size:2000"`
	Suggestions      datatypes.JSONSlice[string] `json:"suggestions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AIFeedback) TableName() string {
	return "ai_feedback"
}
