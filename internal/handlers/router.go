package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

type HandlerManager struct {
	serviceManager services.ServiceManager

	authHandler       *AuthHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	assignmentHandler *AssignmentHandler
	attendanceHandler *AttendanceHandler
	dashboardHandler  *DashboardHandler
	feedbackHandler   *FeedbackHandler
	campusHandler     *CampusHandler
	authMiddleware    *AuthMiddleware

	// uploadDir is served under /uploads when submissions are stored locally.
	uploadDir string
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger, uploadDir string) *HandlerManager {
	return &HandlerManager{
		serviceManager:    serviceManager,
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		feedbackHandler:   NewFeedbackHandler(serviceManager.Feedback(), logger),
		campusHandler:     NewCampusHandler(serviceManager.Campus(), logger),
		authMiddleware:    NewAuthMiddleware(serviceManager.Auth(), logger),
		uploadDir:         uploadDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	requireAuth := hm.authMiddleware.RequireAuth()
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin)
	students := hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent)
	admins := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.GET("/me", requireAuth, hm.authHandler.Me)
	}

	university := v1.Group("/university")
	{
		university.GET("/info", hm.campusHandler.GetUniversityInfo)
		university.GET("/events", hm.campusHandler.GetFeed)
		university.GET("/events/:id", hm.campusHandler.GetEvent)
	}

	// Everything below needs a token
	api := v1.Group("")
	api.Use(requireAuth)
	{
		courses := api.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:courseCode/students", hm.courseHandler.GetCourseStudents)
			courses.POST("/:courseCode/students", staff, hm.courseHandler.EnrollStudents)
		}

		assignments := api.Group("/assignments")
		{
			assignments.GET("/course/:courseCode", hm.assignmentHandler.ListCourseAssignments)
			assignments.GET("/course/:courseCode/submissions", staff, hm.assignmentHandler.GetCourseSubmissions)
			assignments.POST("", staff, hm.assignmentHandler.CreateAssignment)
			assignments.POST("/upload", students, hm.assignmentHandler.UploadSubmission)

			// Ownership is checked by the service
			assignments.GET("/student/:studentCode", hm.assignmentHandler.GetStudentSubmissions)
		}

		api.POST("/submissions/:id/evaluate", staff, hm.assignmentHandler.EvaluateSubmission)

		attendance := api.Group("/attendance")
		{
			attendance.POST("", staff, hm.attendanceHandler.MarkAttendance)
			attendance.GET("/course/:courseCode", staff, hm.attendanceHandler.GetAttendanceReport)
			attendance.GET("/course/:courseCode/date/:date", staff, hm.attendanceHandler.GetAttendanceByDate)
			attendance.GET("/course/:courseCode/export", staff, hm.attendanceHandler.ExportAttendance)
			attendance.GET("/student/:studentCode", hm.attendanceHandler.GetStudentAttendance)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/student/:studentCode", hm.dashboardHandler.GetStudentDashboard)
			dashboard.GET("/faculty/:facultyId", staff, hm.dashboardHandler.GetFacultyDashboard)
		}

		feedback := api.Group("/ai-feedback/submission/:id")
		{
			feedback.GET("", hm.feedbackHandler.GetFeedback)
			feedback.POST("", staff, hm.feedbackHandler.SaveFeedback)
			feedback.POST("/generate", staff, hm.feedbackHandler.GenerateFeedback)
		}

		admin := api.Group("/admin")
		admin.Use(admins)
		{
			admin.GET("/events", hm.campusHandler.ListEvents)
			admin.POST("/events", hm.campusHandler.CreateEvent)
			admin.PUT("/events/:id", hm.campusHandler.UpdateEvent)
			admin.DELETE("/events/:id", hm.campusHandler.DeleteEvent)

			admin.GET("/news", hm.campusHandler.ListNews)
			admin.POST("/news", hm.campusHandler.CreateNews)
			admin.PUT("/news/:id", hm.campusHandler.UpdateNews)
			admin.DELETE("/news/:id", hm.campusHandler.DeleteNews)

			admin.GET("/users", hm.userHandler.ListUsers)
			admin.POST("/users", hm.userHandler.CreateUser)
			admin.GET("/users/:id", hm.userHandler.GetUser)
			admin.PUT("/users/:id", hm.userHandler.UpdateUser)
			admin.DELETE("/users/:id", hm.userHandler.DeleteUser)

			admin.GET("/courses", hm.courseHandler.ListCourses)
			admin.POST("/courses", hm.courseHandler.CreateCourse)
			admin.GET("/courses/:id", hm.courseHandler.GetCourse)
			admin.PUT("/courses/:id", hm.courseHandler.UpdateCourse)
			admin.DELETE("/courses/:id", hm.courseHandler.DeleteCourse)
		}
	}

	if hm.uploadDir != "" {
		router.Static("/uploads", hm.uploadDir)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "portal-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "portal-service",
	})
}
