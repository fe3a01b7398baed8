package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

type attendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &attendancePostgreSQL{db: db}
}

// Upsert writes every record in one statement. A repeated (course, student, date)
// keeps its row and takes the new status.
func (r *attendancePostgreSQL) Upsert(ctx context.Context, records []models.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "faculty_id", "updated_at"}),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}

func (r *attendancePostgreSQL) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Course").Preload("Student")
}

func (r *attendancePostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]models.Attendance, error) {
	records := []models.Attendance{}
	if err := r.withRelations(ctx).
		Where("student_id = ?", studentID).
		Order("date ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance for student %d: %w", studentID, err)
	}
	return records, nil
}

func (r *attendancePostgreSQL) ListByCourse(ctx context.Context, courseID uint, from, to string) ([]models.Attendance, error) {
	records := []models.Attendance{}
	query := ApplyDateRange(r.withRelations(ctx).Where("course_id = ?", courseID), "date", from, to)
	if err := query.Order("date DESC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance for course %d: %w", courseID, err)
	}
	return records, nil
}

func (r *attendancePostgreSQL) ListByCourseAndDate(ctx context.Context, courseID uint, date string) ([]models.Attendance, error) {
	records := []models.Attendance{}
	if err := r.withRelations(ctx).
		Where("course_id = ? AND date = ?", courseID, date).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance for course %d on %s: %w", courseID, date, err)
	}
	return records, nil
}

func (r *attendancePostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Attendance{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}
