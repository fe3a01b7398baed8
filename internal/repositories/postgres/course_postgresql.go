package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

type coursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &coursePostgreSQL{db: db}
}

func (r *coursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit("Students", "Faculty").Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *coursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit("Students", "Faculty").Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *coursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("course %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *coursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Faculty").First(&course, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}
	return &course, nil
}

func (r *coursePostgreSQL) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Faculty").Where("code = ?", code).First(&course).Error; err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", code, err)
	}
	return &course, nil
}

func (r *coursePostgreSQL) List(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.WithContext(ctx).Preload("Faculty").Order("code ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (r *coursePostgreSQL) ListByFaculty(ctx context.Context, facultyID uint) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("code ASC").
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses for faculty %d: %w", facultyID, err)
	}
	return courses, nil
}

func (r *coursePostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

// AddStudents appends to the join table; existing enrollments are left as they are.
func (r *coursePostgreSQL) AddStudents(ctx context.Context, course *models.Course, students []models.User) error {
	if len(students) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(course).Association("Students").Append(students); err != nil {
		return fmt.Errorf("failed to enroll students in %s: %w", course.Code, err)
	}
	return nil
}

func (r *coursePostgreSQL) enrolled(ctx context.Context, courseID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN course_students ON course_students.user_id = users.id").
		Where("course_students.course_id = ?", courseID)
}

func (r *coursePostgreSQL) ListStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	students := []models.User{}
	if err := r.enrolled(ctx, courseID).Order("users.student_code ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students for course %d: %w", courseID, err)
	}
	return students, nil
}

func (r *coursePostgreSQL) CountStudents(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.enrolled(ctx, courseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students for course %d: %w", courseID, err)
	}
	return count, nil
}

func (r *coursePostgreSQL) IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("course_students").
		Where("course_id = ? AND user_id = ?", courseID, studentID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

type assignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &assignmentPostgreSQL{db: db}
}

func (r *assignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := r.db.WithContext(ctx).Omit("Course").Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Course").First(&assignment, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get assignment %d: %w", id, err)
	}
	return &assignment, nil
}

// GetByIDs silently skips ids that no longer exist.
func (r *assignmentPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	if len(ids) == 0 {
		return assignments, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	return assignments, nil
}

func (r *assignmentPostgreSQL) GetByCourseAndTitle(ctx context.Context, courseID uint, title string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND title = ?", courseID, title).
		First(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to get assignment %q: %w", title, err)
	}
	return &assignment, nil
}

func (r *assignmentPostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments for course %d: %w", courseID, err)
	}
	return assignments, nil
}
