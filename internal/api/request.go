package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/middleware"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

// RequestHandler serves the support-ticket endpoints.
type RequestHandler struct {
	requests *service.RequestService
	logger   *zap.Logger
}

func NewRequestHandler(requests *service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

type createRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type createRequestResponse struct {
	RequestID int64 `json:"requestId"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	id, err := h.requests.Create(c.Request.Context(), middleware.GetUser(c), req.Title, req.Description, req.Priority)
	if err != nil {
		respondError(c, h.logger, err, "failed to create request")
		return
	}

	c.JSON(http.StatusCreated, createRequestResponse{RequestID: id})
}

// List handles GET /api/requests
//
// The queue is shared: every authenticated user sees every ticket.
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.requests.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListMine handles GET /api/my-requests
func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requests.ListOwned(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Delete handles DELETE /api/requests/:id
//
// Only the owner can delete. Anyone else gets the same 404 as for an id
// that does not exist.
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := h.requests.Delete(c.Request.Context(), middleware.GetUser(c), id); err != nil {
		respondError(c, h.logger, err, "failed to delete request")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// UpdateStatus handles PATCH /api/requests/:id/status
//
// Any authenticated user may change any ticket's status; there is no
// role model to narrow this to staff.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	if err := h.requests.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, err, "failed to update request")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// parseRequestID only rejects ids that are not integers. Zero or negative
// ids are well-formed; no ticket has one, so the store reports not found.
func parseRequestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return id, true
}
