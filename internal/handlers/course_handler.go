package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// ListCourses lists every course with its faculty
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourseStudents lists the students enrolled in a course
// @Summary Enrolled students
// @Tags courses
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {array} models.EnrolledStudent
// @Failure 404 {object} ErrorResponse
// @Router /courses/{courseCode}/students [get]
func (h *CourseHandler) GetCourseStudents(c *gin.Context) {
	students, err := h.courseService.Students(c.Request.Context(), c.Param("courseCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// EnrollStudents adds students to a course by student code
// @Summary Enroll students
// @Tags courses
// @Accept json
// @Produce json
// @Param courseCode path string true "Course code"
// @Param body body services.EnrollRequest true "Student codes"
// @Success 200 {array} models.EnrolledStudent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{courseCode}/students [post]
func (h *CourseHandler) EnrollStudents(c *gin.Context) {
	var req services.EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	courseCode := c.Param("courseCode")
	h.LogRequest(c, "Enrolling students", "course", courseCode, "count", len(req.StudentCodes))

	students, err := h.courseService.Enroll(c.Request.Context(), courseCode, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating course", "course", req.Code)

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CourseUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted successfully"})
}
