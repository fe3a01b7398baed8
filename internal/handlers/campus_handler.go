package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/utils"
)

// CampusHandler serves the public university pages and their admin editors.
type CampusHandler struct {
	BaseHandler
	campusService services.CampusService
}

func NewCampusHandler(campusService services.CampusService, logger utils.Logger) *CampusHandler {
	return &CampusHandler{
		BaseHandler:   NewBaseHandler(logger),
		campusService: campusService,
	}
}

// GetUniversityInfo returns the university profile with live counts
// @Summary University info
// @Tags university
// @Produce json
// @Success 200 {object} models.UniversityProfile
// @Router /university/info [get]
func (h *CampusHandler) GetUniversityInfo(c *gin.Context) {
	info, err := h.campusService.UniversityInfo(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetFeed returns events and news, newest first
// @Summary Events and news
// @Tags university
// @Produce json
// @Param category query string false "Event category, case-insensitive"
// @Success 200 {object} models.CampusFeed
// @Router /university/events [get]
func (h *CampusHandler) GetFeed(c *gin.Context) {
	feed, err := h.campusService.Feed(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *CampusHandler) GetEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.campusService.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ===== ADMIN: EVENTS =====

func (h *CampusHandler) ListEvents(c *gin.Context) {
	events, err := h.campusService.ListEvents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *CampusHandler) CreateEvent(c *gin.Context) {
	var req services.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating event", "title", req.Title, "date", req.Date)

	event, err := h.campusService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *CampusHandler) UpdateEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.EventUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	event, err := h.campusService.UpdateEvent(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *CampusHandler) DeleteEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.campusService.DeleteEvent(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Event deleted successfully"})
}

// ===== ADMIN: NEWS =====

func (h *CampusHandler) ListNews(c *gin.Context) {
	news, err := h.campusService.ListNews(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, news)
}

func (h *CampusHandler) CreateNews(c *gin.Context) {
	var req services.NewsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating news", "title", req.Title, "date", req.Date)

	news, err := h.campusService.CreateNews(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, news)
}

func (h *CampusHandler) UpdateNews(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.NewsUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	news, err := h.campusService.UpdateNews(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, news)
}

func (h *CampusHandler) DeleteNews(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.campusService.DeleteNews(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "News deleted successfully"})
}
