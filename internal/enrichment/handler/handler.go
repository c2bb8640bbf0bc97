package handler

import (
	"net/http"

	"leadflow_backend/internal/enrichment/service"
	"leadflow_backend/internal/enrichment/transport"
	"leadflow_backend/internal/scheduler"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc  *service.Service
	jobs *scheduler.Client
	val  *validator.Validator
}

// New creates the handler. jobs may be nil when no job queue is
// configured; the async routes then respond 503.
func New(svc *service.Service, jobs *scheduler.Client, val *validator.Validator) *Handler {
	return &Handler{svc: svc, jobs: jobs, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search", h.Search)
	rg.POST("/search/async", h.SearchAsync)
	rg.POST("/leads/:id/email", h.EnrichEmail)
	rg.POST("/leads/:id/email/async", h.EnrichEmailAsync)
	rg.POST("/profile", h.FetchProfile)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.BulkImport(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

// EnrichEmail blocks while the discovery provider is polled, up to the
// configured attempt budget.
func (h *Handler) EnrichEmail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.EnrichEmail(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) FetchProfile(c *gin.Context) {
	var req transport.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.FetchProfile(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

// SearchAsync enqueues a multi-page import run instead of blocking on it.
func (h *Handler) SearchAsync(c *gin.Context) {
	if h.jobs == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "job queue not configured", nil)
		return
	}

	var req transport.AsyncSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	taskID, err := h.jobs.EnqueueBulkImport(c.Request.Context(), scheduler.BulkImportPayload{
		Filter:   req.SearchRequest,
		MaxPages: req.MaxPages,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, transport.AsyncJobResponse{TaskID: taskID})
}

// EnrichEmailAsync enqueues email discovery so the polling loop runs in
// the worker instead of holding this request open.
func (h *Handler) EnrichEmailAsync(c *gin.Context) {
	if h.jobs == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "job queue not configured", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	taskID, err := h.jobs.EnqueueLeadEmail(c.Request.Context(), scheduler.LeadEmailPayload{LeadID: id.String()})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, transport.AsyncJobResponse{TaskID: taskID})
}
