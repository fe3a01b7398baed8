// Package events publishes domain events about portal activity.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	Source  = "portal-service"
	Version = "1.0"
)

type EventType string

const (
	UserRegistered      EventType = "user.registered"
	StudentsEnrolled    EventType = "course.students_enrolled"
	AttendanceMarked    EventType = "attendance.marked"
	SubmissionUploaded  EventType = "submission.uploaded"
	SubmissionEvaluated EventType = "submission.evaluated"
	FeedbackSaved       EventType = "feedback.saved"
)

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events to whatever transport is configured.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// SafePublish publishes and logs failures. Events never fail the request that raised them.
func SafePublish(ctx context.Context, publisher EventPublisher, logger *slog.Logger, event *Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
	}
}

// Payloads

type UserRegisteredData struct {
	UserID    uint   `json:"userId"`
	Role      string `json:"role"`
	StudentID string `json:"studentId,omitempty"`
}

type StudentsEnrolledData struct {
	CourseID   string   `json:"courseId"`
	StudentIDs []string `json:"studentIds"`
}

type AttendanceMarkedData struct {
	CourseID   string   `json:"courseId"`
	Date       string   `json:"date"`
	StudentIDs []string `json:"studentIds"`
	Present    int64    `json:"present"`
	Total      int64    `json:"total"`
}

type SubmissionData struct {
	SubmissionID uint   `json:"submissionId"`
	AssignmentID uint   `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	CourseID     string `json:"courseId"`
	Score        *int   `json:"score,omitempty"`
}

type FeedbackSavedData struct {
	SubmissionID uint `json:"submissionId"`
	OverallScore int  `json:"overallScore"`
	Generated    bool `json:"generated"`
}
