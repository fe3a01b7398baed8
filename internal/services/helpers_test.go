package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/repositories/postgres"
	"github.com/campus-portal/portal-service/internal/storage"
	"github.com/campus-portal/portal-service/internal/testutil"
	"github.com/campus-portal/portal-service/internal/validator"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher *events.MockEventPublisher
	issuer    *auth.TokenIssuer
	store     *storage.LocalStorage
	clock     Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issuer, err := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "test-secret-test-secret-test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "campus-portal-test",
	})
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	return &fixture{
		db:        db,
		repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		logger:    logger,
		validator: validator.New(),
		cache:     cache.NewCacheManager(nil),
		publisher: events.NewMockEventPublisher(logger),
		issuer:    issuer,
		store:     store,
		clock:     func() time.Time { return fixedNow },
	}
}

// withRedis swaps the no-op cache for one backed by miniredis.
func (f *fixture) withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.cache = cache.NewCacheManager(client)
	return mr
}

func studentActor(u *models.User) Actor {
	return NewActor(u)
}

func facultyActor(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: models.RoleFaculty}
}

func adminActor() Actor {
	return Actor{UserID: 999, Role: models.RoleAdmin}
}

func intPtr(i int) *int { return &i }
