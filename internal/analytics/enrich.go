package analytics

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/campus-portal/portal-service/internal/models"
)

// PlaceholderTitle is shown when a submission points at a missing assignment.
func PlaceholderTitle(assignmentID uint) string {
	return fmt.Sprintf("Assignment #%d", assignmentID)
}

// AssignmentIDs returns the distinct assignment ids referenced by subs.
func AssignmentIDs(subs []models.Submission) []uint {
	return lo.Uniq(lo.Map(subs, func(s models.Submission, _ int) uint {
		return s.AssignmentID
	}))
}

// EnrichSubmissions attaches assignment titles. Missing assignments never fail
// the listing; they get a placeholder title.
func EnrichSubmissions(subs []models.Submission, assignments []models.Assignment) []models.SubmissionView {
	byID := lo.KeyBy(assignments, func(a models.Assignment) uint {
		return a.ID
	})

	views := make([]models.SubmissionView, 0, len(subs))
	for _, s := range subs {
		title := PlaceholderTitle(s.AssignmentID)
		if a, ok := byID[s.AssignmentID]; ok {
			title = a.Title
		}

		view := models.SubmissionView{
			ID:              s.ID,
			AssignmentID:    s.AssignmentID,
			AssignmentTitle: title,
			FileName:        s.FileName,
			Status:          s.Status,
			Score:           s.Score,
			SubmittedAt:     s.SubmittedAt,
		}
		if s.Student != nil {
			view.StudentID = s.Student.Code()
		}
		if s.Course != nil {
			view.CourseID = s.Course.Code
		}
		views = append(views, view)
	}

	return views
}
