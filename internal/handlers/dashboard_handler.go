package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetStudentDashboard gets a student's submission and attendance summary
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Param studentCode path string true "Student code"
// @Success 200 {object} models.StudentDashboard
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /dashboard/student/{studentCode} [get]
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Student(c.Request.Context(), actor, c.Param("studentCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetFacultyDashboard gets the course overview for a faculty member
// @Summary Faculty dashboard
// @Description A faculty id that is not a number shows every course. Faculty callers always see their own courses.
// @Tags dashboard
// @Produce json
// @Param facultyId path string true "Faculty user ID"
// @Success 200 {object} models.FacultyDashboard
// @Router /dashboard/faculty/{facultyId} [get]
func (h *DashboardHandler) GetFacultyDashboard(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Faculty(c.Request.Context(), actor, c.Param("facultyId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
