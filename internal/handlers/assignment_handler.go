package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

// maxUploadBytes bounds a single submission file.
const maxUploadBytes = 20 << 20

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// ListCourseAssignments lists the assignments of a course
// @Summary Course assignments
// @Tags assignments
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {array} models.AssignmentView
// @Failure 404 {object} ErrorResponse
// @Router /assignments/course/{courseCode} [get]
func (h *AssignmentHandler) ListCourseAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.ListByCourse(c.Request.Context(), c.Param("courseCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// CreateAssignment creates an assignment in a course
// @Summary Create assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body services.AssignmentCreateRequest true "Assignment data"
// @Success 201 {object} models.AssignmentView
// @Failure 400 {object} ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req services.AssignmentCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating assignment", "course", req.CourseID, "title", req.Title)

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// UploadSubmission stores a student's file for an assignment
// @Summary Upload submission
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Param assignmentId formData int true "Assignment ID"
// @Param file formData file true "Submission file"
// @Success 201 {object} services.UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /assignments/upload [post]
func (h *AssignmentHandler) UploadSubmission(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	assignmentID, err := strconv.ParseUint(c.PostForm("assignmentId"), 10, 32)
	if err != nil || assignmentID == 0 {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid assignmentId", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable upload", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Uploading submission",
		"assignment_id", assignmentID,
		"student_id", actor.StudentCode,
		"size", fileHeader.Size)

	resp, err := h.assignmentService.Upload(c.Request.Context(), actor, services.UploadInput{
		AssignmentID: uint(assignmentID),
		FileName:     fileHeader.Filename,
		Content:      file,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetStudentSubmissions lists a student's submissions, newest first
// @Summary Student submissions
// @Tags assignments
// @Produce json
// @Param studentCode path string true "Student code"
// @Success 200 {array} models.SubmissionView
// @Failure 403 {object} ErrorResponse
// @Router /assignments/student/{studentCode} [get]
func (h *AssignmentHandler) GetStudentSubmissions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	submissions, err := h.assignmentService.StudentSubmissions(c.Request.Context(), actor, c.Param("studentCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *AssignmentHandler) GetCourseSubmissions(c *gin.Context) {
	submissions, err := h.assignmentService.CourseSubmissions(c.Request.Context(), c.Param("courseCode"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// EvaluateSubmission records a score and marks the submission evaluated
// @Summary Evaluate submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body services.EvaluateRequest true "Score 0-100"
// @Success 200 {object} models.SubmissionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{id}/evaluate [post]
func (h *AssignmentHandler) EvaluateSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.EvaluateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Evaluating submission", "submission_id", id)

	submission, err := h.assignmentService.Evaluate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
