// Package analytics derives attendance percentages, day reports and dashboard
// summaries from raw attendance and submission rows. Nothing here touches the
// database; callers pass in what the repositories returned.
package analytics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/campus-portal/portal-service/internal/models"
)

// DateRange is an inclusive range of ISO dates. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Percentage returns round(part/total*100), or 0 when total is 0.
func Percentage(part, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Round(float64(part) / float64(total) * 100))
}

// CountPresent counts records whose status is "present", ignoring case.
func CountPresent(records []models.Attendance) int64 {
	return int64(lo.CountBy(records, func(a models.Attendance) bool {
		return a.IsPresent()
	}))
}

// FilterByDate keeps the records that fall inside r.
func FilterByDate(records []models.Attendance, r DateRange) []models.Attendance {
	if r.IsZero() {
		return records
	}
	return lo.Filter(records, func(a models.Attendance, _ int) bool {
		return r.Contains(a.Date)
	})
}

// ComputeAttendanceStats summarises one student's attendance. The raw records
// are kept in input order for display.
func ComputeAttendanceStats(studentCode string, records []models.Attendance) models.AttendanceStats {
	total := int64(len(records))
	present := CountPresent(records)

	views := make([]models.AttendanceRecordView, 0, len(records))
	for _, a := range records {
		views = append(views, models.AttendanceRecordView{
			CourseID: courseCode(a),
			Date:     a.Date,
			Status:   a.Status,
		})
	}

	return models.AttendanceStats{
		StudentID:    studentCode,
		TotalClasses: total,
		Present:      present,
		Absent:       total - present,
		Percentage:   Percentage(present, total),
		Records:      views,
	}
}

// GroupAttendanceByDate builds the day-by-day report for one course, most
// recent day first. An empty input gives an empty, non-nil slice.
func GroupAttendanceByDate(code string, records []models.Attendance) []models.DayAttendance {
	byDate := lo.GroupBy(records, func(a models.Attendance) string {
		return a.Date
	})

	dates := lo.Keys(byDate)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	groups := make([]models.DayAttendance, 0, len(dates))
	for _, date := range dates {
		day := byDate[date]
		groups = append(groups, models.DayAttendance{
			CourseID: code,
			Date:     date,
			Present:  CountPresent(day),
			Total:    int64(len(day)),
			Students: lo.Map(day, func(a models.Attendance, _ int) models.StudentStatus {
				return studentStatus(a)
			}),
		})
	}

	return groups
}

// DayReport is the single-date view of a course. No records gives an empty
// student list.
func DayReport(code, date string, records []models.Attendance) models.DayAttendance {
	day := lo.Filter(records, func(a models.Attendance, _ int) bool {
		return a.Date == date
	})
	return models.DayAttendance{
		CourseID: code,
		Date:     date,
		Present:  CountPresent(day),
		Total:    int64(len(day)),
		Students: lo.Map(day, func(a models.Attendance, _ int) models.StudentStatus {
			return studentStatus(a)
		}),
	}
}

func studentStatus(a models.Attendance) models.StudentStatus {
	s := models.StudentStatus{Status: a.Status}
	if a.Student != nil {
		s.StudentID = a.Student.Code()
		s.Name = a.Student.Name
	}
	return s
}

func courseCode(a models.Attendance) string {
	if a.Course == nil {
		return ""
	}
	return a.Course.Code
}
