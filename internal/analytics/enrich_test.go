package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/models"
)

func TestEnrichSubmissions(t *testing.T) {
	course := &models.Course{Code: "CS201"}
	s := student("STU003", "Rahul Verma")

	subs := []models.Submission{
		{ID: 1, AssignmentID: 10, Student: s, Course: course, Status: models.SubmissionSubmitted, FileName: "lab1.pdf"},
		{ID: 2, AssignmentID: 999, Student: s, Course: course, Status: models.SubmissionEvaluated, Score: intPtr(75)},
	}
	assignments := []models.Assignment{{ID: 10, Title: "Lab 1 - Linked Lists"}}

	views := EnrichSubmissions(subs, assignments)

	require.Len(t, views, 2)
	assert.Equal(t, "Lab 1 - Linked Lists", views[0].AssignmentTitle)
	assert.Equal(t, "STU003", views[0].StudentID)
	assert.Equal(t, "CS201", views[0].CourseID)
	assert.Equal(t, "lab1.pdf", views[0].FileName)
	assert.Equal(t, "Assignment #999", views[1].AssignmentTitle)
	assert.Equal(t, 75, *views[1].Score)
}

func TestEnrichSubmissions_Empty(t *testing.T) {
	views := EnrichSubmissions(nil, nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestAssignmentIDs(t *testing.T) {
	subs := []models.Submission{{AssignmentID: 3}, {AssignmentID: 1}, {AssignmentID: 3}}
	assert.Equal(t, []uint{3, 1}, AssignmentIDs(subs))
}
