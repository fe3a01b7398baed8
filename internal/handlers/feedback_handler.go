package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService, logger utils.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
	}
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	feedback, err := h.feedbackService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// SaveFeedback stores reviewer scores for a submission, replacing earlier ones
// @Summary Save feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body services.FeedbackSaveRequest true "Scores and comments"
// @Success 200 {object} models.AIFeedback
// @Router /ai-feedback/submission/{id} [post]
func (h *FeedbackHandler) SaveFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.FeedbackSaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.Save(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// GenerateFeedback asks the language model to score a submission
// @Summary Generate feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body services.FeedbackGenerateRequest false "Submission text"
// @Success 200 {object} models.AIFeedback
// @Failure 503 {object} ErrorResponse
// @Router /ai-feedback/submission/{id}/generate [post]
func (h *FeedbackHandler) GenerateFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.FeedbackGenerateRequest
	// The body is optional.
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}

	h.LogRequest(c, "Generating feedback", "submission_id", id)

	feedback, err := h.feedbackService.Generate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}
