package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/models"
)

func intPtr(v int) *int { return &v }

func TestComposeStudentDashboard(t *testing.T) {
	cs := &models.Course{Code: "CS201"}
	s := student("STU001", "Arjun Sharma")

	submissions := []models.Submission{
		{ID: 1, Status: models.SubmissionEvaluated, Score: intPtr(80)},
		{ID: 2, Status: models.SubmissionEvaluated, Score: intPtr(91)},
		{ID: 3, Status: models.SubmissionSubmitted},
		{ID: 4, Status: models.SubmissionPending},
	}
	attendance := []models.Attendance{
		mark(cs, s, "2026-02-01", "Present"),
		mark(cs, s, "2026-02-02", "Absent"),
		mark(cs, s, "2026-02-03", "Present"),
	}

	got := ComposeStudentDashboard(submissions, attendance)

	assert.Equal(t, models.StudentDashboard{
		TotalAssignments:  4,
		Evaluated:         2,
		Pending:           2,
		AvgScore:          86,
		AttendancePercent: 67,
		TotalClasses:      3,
		PresentClasses:    2,
	}, got)

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, got, ComposeStudentDashboard(submissions, attendance))
	})

	t.Run("no data", func(t *testing.T) {
		assert.Equal(t, models.StudentDashboard{}, ComposeStudentDashboard(nil, nil))
	})
}

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name string
		subs []models.Submission
		want int64
	}{
		{"no submissions", nil, 0},
		{"none scored", []models.Submission{{Status: models.SubmissionSubmitted}}, 0},
		{"ignores unscored", []models.Submission{{Score: intPtr(70)}, {}}, 70},
		{"rounds half up", []models.Submission{{Score: intPtr(70)}, {Score: intPtr(71)}}, 71},
		{"zero score counts", []models.Submission{{Score: intPtr(0)}, {Score: intPtr(100)}}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageScore(tt.subs))
		})
	}
}

func TestComposeFacultyDashboard(t *testing.T) {
	today := "2026-03-10"
	a := student("STU001", "Arjun Sharma")
	b := student("STU002", "Priya Patel")
	cs201 := models.Course{Code: "CS201", Name: "Data Structures"}
	cs202 := models.Course{Code: "CS202", Name: "Database Management"}

	courses := []CourseAttendance{
		{
			Course:       cs201,
			StudentCount: 8,
			Records: []models.Attendance{
				mark(&cs201, a, today, "Absent"),
				mark(&cs201, b, today, "Absent"),
				mark(&cs201, a, "2026-03-09", "Present"),
				mark(&cs201, a, "2026-03-05", "Present"),
				mark(&cs201, a, "2026-03-01", "Present"),
			},
		},
		{
			Course:       cs202,
			StudentCount: 4,
			Records: []models.Attendance{
				mark(&cs202, a, "2026-03-08", "Present"),
				mark(&cs202, b, "2026-03-08", "present"),
			},
		},
	}

	got := ComposeFacultyDashboard(courses, today)

	require.Len(t, got.Courses, 2)
	assert.Equal(t, "CS201", got.Courses[0].CourseID)
	assert.Equal(t, "Data Structures", got.Courses[0].CourseName)
	assert.Equal(t, int64(8), got.Courses[0].Students)
	require.NotNil(t, got.Courses[0].TodayAttendance, "attendance taken today with nobody present is zero, not missing")
	assert.Equal(t, int64(0), *got.Courses[0].TodayAttendance)
	assert.Nil(t, got.Courses[1].TodayAttendance)

	assert.Equal(t, []models.RecentAttendance{
		{Date: today, Course: "CS201", Present: 0, Total: 2},
		{Date: "2026-03-09", Course: "CS201", Present: 1, Total: 1},
		{Date: "2026-03-08", Course: "CS202", Present: 2, Total: 2},
		{Date: "2026-03-05", Course: "CS201", Present: 1, Total: 1},
	}, got.RecentAttendance, "each course contributes at most three groups")

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, got, ComposeFacultyDashboard(courses, today))
	})

	t.Run("no courses", func(t *testing.T) {
		empty := ComposeFacultyDashboard(nil, today)
		assert.NotNil(t, empty.Courses)
		assert.NotNil(t, empty.RecentAttendance)
		assert.Empty(t, empty.RecentAttendance)
	})
}

func TestComposeFacultyDashboard_RecentFeedIsCapped(t *testing.T) {
	s := student("STU001", "Arjun Sharma")
	var courses []CourseAttendance
	for c := 0; c < 6; c++ {
		course := models.Course{Code: fmt.Sprintf("CS3%02d", c)}
		var records []models.Attendance
		for d := 1; d <= 5; d++ {
			records = append(records, mark(&course, s, fmt.Sprintf("2026-04-%02d", d+c), "Present"))
		}
		courses = append(courses, CourseAttendance{Course: course, Records: records})
	}

	got := ComposeFacultyDashboard(courses, "2026-05-01")

	require.Len(t, got.RecentAttendance, RecentAttendanceLimit)
	for i := 1; i < len(got.RecentAttendance); i++ {
		assert.GreaterOrEqual(t, got.RecentAttendance[i-1].Date, got.RecentAttendance[i].Date)
	}
	assert.Equal(t, "2026-04-10", got.RecentAttendance[0].Date)
}

func TestLatestAttendance(t *testing.T) {
	entries := []models.RecentAttendance{
		{Date: "2026-01-01", Course: "A"},
		{Date: "2026-01-03", Course: "B"},
		{Date: "2026-01-03", Course: "C"},
		{Date: "2026-01-02", Course: "D"},
	}

	got := LatestAttendance(entries, 3)

	assert.Equal(t, []string{"B", "C", "D"}, []string{got[0].Course, got[1].Course, got[2].Course})
	assert.Equal(t, "A", entries[0].Course, "input is not reordered")
}
