package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories/postgres"
	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/storage"
	"github.com/campus-portal/portal-service/internal/testutil"
	"github.com/campus-portal/portal-service/internal/utils"
	"github.com/campus-portal/portal-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
	issuer *auth.TokenIssuer

	faculty  *models.User
	student1 *models.User
	student2 *models.User
	admin    *models.User
	course   *models.Course
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issuer, err := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "handler-test-secret-handler-test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "campus-portal-test",
	})
	require.NoError(t, err)

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStorage(uploadDir, "/uploads")
	require.NoError(t, err)

	sm := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		Logger:    slogger,
		Validator: validator.New(),
		Cache:     cache.NewCacheManager(nil),
		Publisher: events.NewMockEventPublisher(slogger),
		Store:     store,
		Issuer:    issuer,
		University: config.UniversityConfig{
			Name:        "Test University",
			Established: 2005,
		},
		Clock: func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, sm.Initialize(context.Background()))

	router := gin.New()
	logger := utils.NewSlogLogger(slogger)
	SetupMiddleware(router, logger, nil)
	NewHandlerManager(sm, logger, uploadDir).SetupRoutes(router)

	f := &apiFixture{router: router, db: db, issuer: issuer}
	f.faculty = testutil.CreateFaculty(t, db, "ramesh@campus.edu", "Dr. Ramesh")
	f.student1 = testutil.CreateStudent(t, db, "STU001", "Arjun")
	f.student2 = testutil.CreateStudent(t, db, "STU002", "Priya")
	f.admin = &models.User{Name: "Admin", Email: "admin@campus.edu", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(f.admin).Error)
	f.course = testutil.CreateCourse(t, db, "CS201", "Data Structures", f.faculty, f.student1, f.student2)

	return f
}

func (f *apiFixture) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := f.issuer.Issue(u)
	require.NoError(t, err)
	return token
}

// do sends a JSON request; body may be nil.
func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}
