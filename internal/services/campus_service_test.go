package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/testutil"
)

func (f *fixture) campusService() CampusService {
	return NewCampusService(f.repo, f.logger, f.validator, f.cache, config.UniversityConfig{
		Name:        "Campus University",
		Established: 2005,
		Location:    "Bengaluru",
	})
}

func TestCampusService_Events(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.campusService()

	techfest, err := svc.CreateEvent(ctx, &EventRequest{Title: "TechFest", Date: "2026-04-10", Category: "Technical", Location: "Main Hall"})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, &EventRequest{Title: "Cultural Night", Date: "2026-05-01", Category: "Cultural"})
	require.NoError(t, err)
	_, err = svc.CreateNews(ctx, &NewsRequest{Title: "Admissions open", Date: "2026-03-01"})
	require.NoError(t, err)

	t.Run("invalid date", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, &EventRequest{Title: "Bad", Date: "tomorrow"})
		assert.Error(t, err)
	})

	t.Run("feed is newest first", func(t *testing.T) {
		feed, err := svc.Feed(ctx, "")
		require.NoError(t, err)
		require.Len(t, feed.Events, 2)
		assert.Equal(t, "Cultural Night", feed.Events[0].Title)
		require.Len(t, feed.News, 1)
	})

	t.Run("category filter ignores case", func(t *testing.T) {
		feed, err := svc.Feed(ctx, "technical")
		require.NoError(t, err)
		require.Len(t, feed.Events, 1)
		assert.Equal(t, "TechFest", feed.Events[0].Title)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := svc.UpdateEvent(ctx, techfest.ID, &EventUpdateRequest{Location: "Auditorium"})
		require.NoError(t, err)
		assert.Equal(t, "Auditorium", updated.Location)
		assert.Equal(t, "TechFest", updated.Title)
		assert.Equal(t, "2026-04-10", updated.Date)

		got, err := svc.GetEvent(ctx, techfest.ID)
		require.NoError(t, err)
		assert.Equal(t, "Auditorium", got.Location)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteEvent(ctx, techfest.ID))
		_, err := svc.GetEvent(ctx, techfest.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.DeleteEvent(ctx, techfest.ID), ErrNotFound)
	})
}

func TestCampusService_NewsCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.campusService()

	news, err := svc.CreateNews(ctx, &NewsRequest{Title: "Library hours", Date: "2026-03-01", Content: "Open till 10pm."})
	require.NoError(t, err)

	updated, err := svc.UpdateNews(ctx, news.ID, &NewsUpdateRequest{Title: "Extended library hours"})
	require.NoError(t, err)
	assert.Equal(t, "Extended library hours", updated.Title)
	assert.Equal(t, "Open till 10pm.", updated.Content)

	list, err := svc.ListNews(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteNews(ctx, news.ID))
	_, err = svc.UpdateNews(ctx, news.ID, &NewsUpdateRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampusService_UniversityInfo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withRedis(t)
	svc := f.campusService()

	faculty := testutil.CreateFaculty(t, f.db, "ramesh@campus.edu", "Dr. Ramesh Kumar")
	s1 := testutil.CreateStudent(t, f.db, "STU001", "Arjun Sharma")
	testutil.CreateStudent(t, f.db, "STU002", "Priya Patel")
	testutil.CreateCourse(t, f.db, "CS201", "Data Structures", faculty, s1)

	info, err := svc.UniversityInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Campus University", info.Name)
	assert.Equal(t, 2005, info.Established)
	assert.Equal(t, map[string]int{"students": 2, "faculty": 1, "courses": 1}, info.Stats)

	require.Eventually(t, func() bool {
		ok, _ := f.cache.Campus.Exists(ctx, "university")
		return ok
	}, time.Second, 10*time.Millisecond)

	// Admin writes drop the cached summary.
	_, err = f.courseService().Create(ctx, &CourseRequest{Code: "CS202", Name: "Database Management"})
	require.NoError(t, err)

	info, err = svc.UniversityInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Stats["courses"])
}
