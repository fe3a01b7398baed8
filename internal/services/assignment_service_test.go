package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/testutil"
	"github.com/campus-portal/portal-service/internal/validator"
)

func (f *fixture) assignmentService() AssignmentService {
	svc := NewAssignmentService(f.repo, f.logger, f.validator, f.store, f.cache, f.publisher).(*assignmentService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

type assignmentFixture struct {
	*fixture
	enrolled *models.User
	outsider *models.User
	faculty  *models.User
	svc      AssignmentService
	labID    uint
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	f := newFixture(t)
	faculty := testutil.CreateFaculty(t, f.db, "ramesh@campus.edu", "Dr. Ramesh Kumar")
	enrolled := testutil.CreateStudent(t, f.db, "STU001", "Arjun Sharma")
	outsider := testutil.CreateStudent(t, f.db, "STU002", "Priya Patel")
	testutil.CreateCourse(t, f.db, "CS201", "Data Structures", faculty, enrolled)

	svc := f.assignmentService()
	due := "2026-02-28"
	lab, err := svc.Create(context.Background(), &AssignmentCreateRequest{
		CourseID:    "CS201",
		Title:       "Lab 1 - Linked Lists",
		Description: "Implement singly and doubly linked lists.",
		DueDate:     &due,
	})
	require.NoError(t, err)

	return &assignmentFixture{fixture: f, enrolled: enrolled, outsider: outsider, faculty: faculty, svc: svc, labID: lab.ID}
}

func TestAssignmentService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newAssignmentFixture(t)

	_, err := f.svc.Create(ctx, &AssignmentCreateRequest{CourseID: "CS201", Title: "Lab 2 - Binary Trees"})
	require.NoError(t, err)

	views, err := f.svc.ListByCourse(ctx, "CS201")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Lab 1 - Linked Lists", views[0].Title)
	assert.Equal(t, "CS201", views[0].CourseID)
	require.NotNil(t, views[0].DueDate)
	assert.Equal(t, "2026-02-28", *views[0].DueDate)
	assert.Nil(t, views[1].DueDate)

	_, err = f.svc.Create(ctx, &AssignmentCreateRequest{CourseID: "XX999", Title: "Orphan"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ListByCourse(ctx, "XX999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignmentService_Upload(t *testing.T) {
	ctx := context.Background()
	f := newAssignmentFixture(t)

	t.Run("enrolled student", func(t *testing.T) {
		resp, err := f.svc.Upload(ctx, studentActor(f.enrolled), UploadInput{
			AssignmentID: f.labID,
			FileName:     "../../etc/lists.pdf",
			Content:      strings.NewReader("linked lists"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Assignment uploaded successfully", resp.Message)
		assert.Equal(t, "lists.pdf", resp.FileName)
		assert.True(t, strings.HasPrefix(resp.FileURL, "/uploads/submissions/STU001/"))

		stored := filepath.Join(f.store.Root(), filepath.FromSlash(strings.TrimPrefix(resp.FileURL, "/uploads/")))
		data, err := os.ReadFile(stored)
		require.NoError(t, err)
		assert.Equal(t, "linked lists", string(data))

		var sub models.Submission
		require.NoError(t, f.db.First(&sub, resp.SubmissionID).Error)
		assert.Equal(t, models.SubmissionSubmitted, sub.Status)
		assert.True(t, sub.SubmittedAt.Equal(fixedNow))

		require.Len(t, f.publisher.EventsOfType(events.SubmissionUploaded), 1)
	})

	tests := []struct {
		name    string
		actor   Actor
		in      UploadInput
		wantErr error
	}{
		{
			name:    "not enrolled",
			actor:   studentActor(f.outsider),
			in:      UploadInput{AssignmentID: f.labID, FileName: "a.pdf", Content: strings.NewReader("x")},
			wantErr: ErrForbidden,
		},
		{
			name:    "faculty cannot upload",
			actor:   facultyActor(f.faculty),
			in:      UploadInput{AssignmentID: f.labID, FileName: "a.pdf", Content: strings.NewReader("x")},
			wantErr: ErrForbidden,
		},
		{
			name:    "missing file",
			actor:   studentActor(f.enrolled),
			in:      UploadInput{AssignmentID: f.labID, FileName: ""},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "unknown assignment",
			actor:   studentActor(f.enrolled),
			in:      UploadInput{AssignmentID: 404, FileName: "a.pdf", Content: strings.NewReader("x")},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignmentService_SubmissionsAndEvaluate(t *testing.T) {
	ctx := context.Background()
	f := newAssignmentFixture(t)

	up, err := f.svc.Upload(ctx, studentActor(f.enrolled), UploadInput{
		AssignmentID: f.labID,
		FileName:     "lists.pdf",
		Content:      strings.NewReader("linked lists"),
	})
	require.NoError(t, err)

	t.Run("student sees own submissions", func(t *testing.T) {
		subs, err := f.svc.StudentSubmissions(ctx, studentActor(f.enrolled), "STU001")
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "Lab 1 - Linked Lists", subs[0].AssignmentTitle)
		assert.Equal(t, "CS201", subs[0].CourseID)
		assert.Equal(t, "STU001", subs[0].StudentID)
	})

	t.Run("student cannot see others", func(t *testing.T) {
		_, err := f.svc.StudentSubmissions(ctx, studentActor(f.outsider), "STU001")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("score out of range", func(t *testing.T) {
		_, err := f.svc.Evaluate(ctx, up.SubmissionID, &EvaluateRequest{Score: intPtr(101)})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "score_range", verrs[0].Rule)
	})

	t.Run("evaluate and re-evaluate", func(t *testing.T) {
		view, err := f.svc.Evaluate(ctx, up.SubmissionID, &EvaluateRequest{Score: intPtr(85)})
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionEvaluated, view.Status)
		require.NotNil(t, view.Score)
		assert.Equal(t, 85, *view.Score)

		view, err = f.svc.Evaluate(ctx, up.SubmissionID, &EvaluateRequest{Score: intPtr(90)})
		require.NoError(t, err)
		assert.Equal(t, 90, *view.Score)

		subs, err := f.svc.CourseSubmissions(ctx, "CS201")
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, 90, *subs[0].Score)

		evaluated := f.publisher.EventsOfType(events.SubmissionEvaluated)
		require.Len(t, evaluated, 2)
	})

	t.Run("unknown submission", func(t *testing.T) {
		_, err := f.svc.Evaluate(ctx, 404, &EvaluateRequest{Score: intPtr(50)})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
