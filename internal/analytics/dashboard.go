package analytics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/campus-portal/portal-service/internal/models"
)

const (
	// RecentGroupsPerCourse is how many day groups each course contributes to the feed.
	RecentGroupsPerCourse = 3
	// RecentAttendanceLimit caps the merged feed.
	RecentAttendanceLimit = 10
)

// ComposeStudentDashboard combines submission counts with attendance stats.
// Empty inputs produce a zero-valued dashboard.
func ComposeStudentDashboard(submissions []models.Submission, attendance []models.Attendance) models.StudentDashboard {
	evaluated := lo.CountBy(submissions, func(s models.Submission) bool {
		return s.Status == models.SubmissionEvaluated
	})
	pending := lo.CountBy(submissions, func(s models.Submission) bool {
		return s.Status.IsOpen()
	})

	stats := ComputeAttendanceStats("", attendance)

	return models.StudentDashboard{
		TotalAssignments:  int64(len(submissions)),
		Evaluated:         int64(evaluated),
		Pending:           int64(pending),
		AvgScore:          AverageScore(submissions),
		AttendancePercent: stats.Percentage,
		TotalClasses:      stats.TotalClasses,
		PresentClasses:    stats.Present,
	}
}

// AverageScore is the rounded mean over scored submissions, 0 if none are scored.
func AverageScore(submissions []models.Submission) int64 {
	scores := lo.FilterMap(submissions, func(s models.Submission, _ int) (int, bool) {
		if s.Score == nil {
			return 0, false
		}
		return *s.Score, true
	})
	if len(scores) == 0 {
		return 0
	}
	return int64(math.Round(float64(lo.Sum(scores)) / float64(len(scores))))
}

// CourseAttendance is everything the faculty dashboard needs for one course.
type CourseAttendance struct {
	Course       models.Course
	StudentCount int64
	Records      []models.Attendance
}

// ComposeFacultyDashboard summarises each course and builds the recent
// attendance feed. today is an ISO date.
func ComposeFacultyDashboard(courses []CourseAttendance, today string) models.FacultyDashboard {
	summaries := make([]models.CourseSummary, 0, len(courses))
	recent := make([]models.RecentAttendance, 0)

	for _, c := range courses {
		summary := models.CourseSummary{
			CourseID:   c.Course.Code,
			CourseName: c.Course.Name,
			Students:   c.StudentCount,
		}

		todays := lo.Filter(c.Records, func(a models.Attendance, _ int) bool {
			return a.Date == today
		})
		if len(todays) > 0 {
			present := CountPresent(todays)
			summary.TodayAttendance = &present
		}
		summaries = append(summaries, summary)

		groups := GroupAttendanceByDate(c.Course.Code, c.Records)
		for _, g := range lo.Subset(groups, 0, RecentGroupsPerCourse) {
			recent = append(recent, models.RecentAttendance{
				Date:    g.Date,
				Course:  c.Course.Code,
				Present: g.Present,
				Total:   g.Total,
			})
		}
	}

	return models.FacultyDashboard{
		Courses:          summaries,
		RecentAttendance: LatestAttendance(recent, RecentAttendanceLimit),
	}
}

// LatestAttendance sorts entries by ISO date, newest first, and keeps at most
// limit of them. Entries on the same date keep their relative order.
func LatestAttendance(entries []models.RecentAttendance, limit int) []models.RecentAttendance {
	sorted := make([]models.RecentAttendance, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
