package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// MarkAttendance records one day of attendance for a course
// @Summary Mark attendance
// @Description Re-marking a student on the same date replaces the earlier status.
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body services.AttendanceMarkRequest true "Attendance sheet"
// @Success 200 {object} services.AttendanceMarkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attendance [post]
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.AttendanceMarkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Marking attendance",
		"course", req.CourseID,
		"date", req.Date,
		"records", len(req.Records))

	resp, err := h.attendanceService.Mark(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAttendanceByDate returns the sheet of one course on one date
// @Summary Attendance by date
// @Tags attendance
// @Produce json
// @Param courseCode path string true "Course code"
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} models.DayAttendance
// @Router /attendance/course/{courseCode}/date/{date} [get]
func (h *AttendanceHandler) GetAttendanceByDate(c *gin.Context) {
	day, err := h.attendanceService.ByDate(c.Request.Context(), c.Param("courseCode"), c.Param("date"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// GetAttendanceReport groups a course's records by date, newest first
// @Summary Attendance report
// @Tags attendance
// @Produce json
// @Param courseCode path string true "Course code"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {array} models.DayAttendance
// @Router /attendance/course/{courseCode} [get]
func (h *AttendanceHandler) GetAttendanceReport(c *gin.Context) {
	report, err := h.attendanceService.Report(c.Request.Context(), c.Param("courseCode"), c.Query("from"), c.Query("to"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AttendanceHandler) GetStudentAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	stats, err := h.attendanceService.StudentStats(c.Request.Context(), actor, c.Param("studentCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportAttendance downloads the course report as a spreadsheet
// @Summary Export attendance
// @Tags attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param courseCode path string true "Course code"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Router /attendance/course/{courseCode}/export [get]
func (h *AttendanceHandler) ExportAttendance(c *gin.Context) {
	courseCode := c.Param("courseCode")

	// Buffered so a failure still gets a JSON error instead of a truncated file.
	var buf bytes.Buffer
	if err := h.attendanceService.Export(c.Request.Context(), courseCode, c.Query("from"), c.Query("to"), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, courseCode))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
