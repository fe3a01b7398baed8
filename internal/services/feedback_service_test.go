package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/llm"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/testutil"
)

type fakeGenerator struct {
	result *llm.FeedbackResult
	err    error
	got    llm.FeedbackInput
}

func (g *fakeGenerator) GenerateFeedback(_ context.Context, in llm.FeedbackInput) (*llm.FeedbackResult, error) {
	g.got = in
	return g.result, g.err
}

func (f *fixture) feedbackService(gen llm.FeedbackGenerator) FeedbackService {
	return NewFeedbackService(f.repo, f.logger, f.validator, gen, f.publisher)
}

// seedSubmission creates one course, assignment and submission.
func seedSubmission(t *testing.T, f *fixture) *models.Submission {
	t.Helper()
	student := testutil.CreateStudent(t, f.db, "STU001", "Arjun Sharma")
	course := testutil.CreateCourse(t, f.db, "CS301", "Machine Learning", nil, student)
	assignment := &models.Assignment{CourseID: course.ID, Title: "Literature Review", Description: "Review 5 research papers."}
	require.NoError(t, f.db.Omit("Course").Create(assignment).Error)
	sub := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		CourseID:     course.ID,
		FileName:     "review.pdf",
		Status:       models.SubmissionSubmitted,
		SubmittedAt:  fixedNow,
	}
	require.NoError(t, f.db.Omit("Student", "Course").Create(sub).Error)
	return sub
}

func TestFeedbackService_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sub := seedSubmission(t, f)
	svc := f.feedbackService(nil)

	_, err := svc.Get(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := svc.Save(ctx, sub.ID, &FeedbackSaveRequest{GrammarScore: 70, OverallScore: 72, Summary: "Solid draft."})
	require.NoError(t, err)
	assert.Equal(t, 72, saved.OverallScore)
	assert.NotNil(t, saved.Suggestions)
	assert.Empty(t, saved.Suggestions)

	_, err = svc.Save(ctx, sub.ID, &FeedbackSaveRequest{OverallScore: 88, Suggestions: []string{"Cite sources"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 88, got.OverallScore)
	assert.Equal(t, []string{"Cite sources"}, []string(got.Suggestions))
	assert.Equal(t, saved.ID, got.ID)

	var rows int64
	f.db.Model(&models.AIFeedback{}).Count(&rows)
	assert.Equal(t, int64(1), rows)

	_, err = svc.Save(ctx, 404, &FeedbackSaveRequest{OverallScore: 10})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Save(ctx, sub.ID, &FeedbackSaveRequest{OverallScore: 120})
	assert.Error(t, err)

	assert.Len(t, f.publisher.EventsOfType(events.FeedbackSaved), 2)
}

func TestFeedbackService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t)
		sub := seedSubmission(t, f)
		_, err := f.feedbackService(nil).Generate(ctx, sub.ID, &FeedbackGenerateRequest{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("model failure", func(t *testing.T) {
		f := newFixture(t)
		sub := seedSubmission(t, f)
		gen := &fakeGenerator{err: errors.New("rate limited")}
		_, err := f.feedbackService(gen).Generate(ctx, sub.ID, &FeedbackGenerateRequest{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("stores the generated scores", func(t *testing.T) {
		f := newFixture(t)
		sub := seedSubmission(t, f)
		gen := &fakeGenerator{result: &llm.FeedbackResult{
			GrammarScore:     80,
			RelevanceScore:   75,
			OriginalityScore: 60,
			OverallScore:     72,
			Summary:          "Covers the papers but lacks synthesis.",
			Suggestions:      []string{"Compare the methods"},
		}}

		fb, err := f.feedbackService(gen).Generate(ctx, sub.ID, &FeedbackGenerateRequest{Text: "Paper one shows..."})
		require.NoError(t, err)
		assert.Equal(t, 72, fb.OverallScore)
		assert.Equal(t, []string{"Compare the methods"}, []string(fb.Suggestions))

		assert.Equal(t, "Machine Learning", gen.got.CourseName)
		assert.Equal(t, "Literature Review", gen.got.AssignmentTitle)
		assert.Equal(t, "review.pdf", gen.got.FileName)
		assert.Equal(t, "Paper one shows...", gen.got.Text)

		saved := f.publisher.EventsOfType(events.FeedbackSaved)
		require.Len(t, saved, 1)
		assert.True(t, saved[0].Data.(events.FeedbackSavedData).Generated)
	})
}
