package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/models"
)

func TestSeedService_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSeedService(f.repo, f.logger, f.cache)

	first, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Users: 11, Courses: 5, Assignments: 15, Enrollments: 24}, first)

	second, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{}, second)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(11), count(&models.User{}))
	assert.Equal(t, int64(5), count(&models.Course{}))
	assert.Equal(t, int64(15), count(&models.Assignment{}))

	ml, err := f.repo.Course().GetByCode(ctx, "CS301")
	require.NoError(t, err)
	assert.Equal(t, "M.Tech", ml.Degree)
	require.NotNil(t, ml.Faculty)
	assert.Equal(t, "Dr. Lakshmi Iyer", ml.Faculty.Name)

	students, err := f.repo.Course().ListStudents(ctx, ml.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(students))
	for _, s := range students {
		codes = append(codes, s.Code())
	}
	assert.Equal(t, []string{"STU002", "STU003", "STU005", "STU007"}, codes)
}

func TestSeedService_AccountsCanLogIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := NewSeedService(f.repo, f.logger, f.cache).Seed(ctx)
	require.NoError(t, err)

	svc := f.authService(nil)
	tests := []struct {
		email, password string
		role            models.UserRole
	}{
		{"arjun@campus.edu", "student123", models.RoleStudent},
		{"lakshmi@campus.edu", "faculty123", models.RoleFaculty},
		{"admin@campus.edu", "admin123", models.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			resp, err := svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			require.NoError(t, err)
			assert.Equal(t, tt.role, resp.Role)
		})
	}

	// The next self-registered student continues the seeded numbering.
	reg, err := svc.Register(ctx, &RegisterRequest{Name: "New Student", Email: "new@campus.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "STU009", reg.StudentID)
}
