package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/llm"
	"github.com/campus-portal/portal-service/internal/repositories"
	"github.com/campus-portal/portal-service/internal/storage"
	"github.com/campus-portal/portal-service/internal/validator"
)

// Dependencies are the collaborators shared by every service. External and
// LLM are optional; nil disables Casdoor tokens and feedback generation.
type Dependencies struct {
	Repo       repositories.Repository
	Logger     *slog.Logger
	Validator  *validator.Validator
	Cache      *cache.CacheManager
	Publisher  events.EventPublisher
	Store      storage.FileStore
	Issuer     *auth.TokenIssuer
	External   auth.ExternalVerifier
	LLM        llm.FeedbackGenerator
	University config.UniversityConfig
	Clock      Clock
}

func (d Dependencies) validate() error {
	var missing []string
	if d.Repo == nil {
		missing = append(missing, "repository")
	}
	if d.Logger == nil {
		missing = append(missing, "logger")
	}
	if d.Validator == nil {
		missing = append(missing, "validator")
	}
	if d.Cache == nil {
		missing = append(missing, "cache")
	}
	if d.Store == nil {
		missing = append(missing, "file store")
	}
	if d.Issuer == nil {
		missing = append(missing, "token issuer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing dependencies: %v", missing)
	}
	return nil
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps Dependencies

	authService       AuthService
	userService       UserService
	courseService     CourseService
	assignmentService AssignmentService
	attendanceService AttendanceService
	dashboardService  DashboardService
	feedbackService   FeedbackService
	campusService     CampusService
	seedService       SeedService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := sm.deps.validate(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	d := sm.deps
	d.Logger.Info("Initializing service manager")

	sm.authService = NewAuthService(d.Repo, d.Logger, d.Validator, d.Issuer, d.External, d.Publisher)
	sm.userService = NewUserService(d.Repo, d.Logger, d.Validator)
	sm.courseService = NewCourseService(d.Repo, d.Logger, d.Validator, d.Cache, d.Publisher)
	sm.assignmentService = NewAssignmentService(d.Repo, d.Logger, d.Validator, d.Store, d.Cache, d.Publisher)
	sm.attendanceService = NewAttendanceService(d.Repo, d.Logger, d.Validator, d.Cache, d.Publisher)
	sm.dashboardService = NewDashboardService(d.Repo, d.Logger, d.Cache, d.Clock)
	sm.feedbackService = NewFeedbackService(d.Repo, d.Logger, d.Validator, d.LLM, d.Publisher)
	sm.campusService = NewCampusService(d.Repo, d.Logger, d.Validator, d.Cache, d.University)
	sm.seedService = NewSeedService(d.Repo, d.Logger, d.Cache)

	if d.LLM == nil {
		d.Logger.Warn("Feedback generation disabled, no LLM configured")
	}
	if d.External == nil {
		d.Logger.Info("External identity provider disabled")
	}

	sm.initialized = true
	d.Logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) ready() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.courseService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.assignmentService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.attendanceService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.dashboardService
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.feedbackService
}

func (sm *serviceManager) Campus() CampusService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.campusService
}

func (sm *serviceManager) Seed() SeedService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ready()
	return sm.seedService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	var errs []error
	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
			errs = append(errs, err)
		}
	}
	if err := sm.deps.Repo.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close repository", "error", err)
		errs = append(errs, err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return errors.Join(errs...)
}
