// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campus-portal/portal-service/internal/models"
)

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

// CreateStudent inserts a student with the given code.
func CreateStudent(t testing.TB, db *gorm.DB, code, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        code + "@students.example.edu",
		PasswordHash: "x",
		Role:         models.RoleStudent,
		StudentCode:  strPtr(code),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create student %s: %v", code, err)
	}
	return u
}

// CreateFaculty inserts a faculty member.
func CreateFaculty(t testing.TB, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, PasswordHash: "x", Role: models.RoleFaculty}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create faculty %s: %v", email, err)
	}
	return u
}

// CreateCourse inserts a course and enrolls the given students.
func CreateCourse(t testing.TB, db *gorm.DB, code, name string, faculty *models.User, students ...*models.User) *models.Course {
	t.Helper()
	c := &models.Course{Code: code, Name: name}
	if faculty != nil {
		c.FacultyID = &faculty.ID
	}
	if err := db.Omit("Students", "Faculty").Create(c).Error; err != nil {
		t.Fatalf("create course %s: %v", code, err)
	}
	if len(students) > 0 {
		users := make([]models.User, 0, len(students))
		for _, s := range students {
			users = append(users, *s)
		}
		if err := db.Model(c).Association("Students").Append(users); err != nil {
			t.Fatalf("enroll in %s: %v", code, err)
		}
	}
	return c
}
