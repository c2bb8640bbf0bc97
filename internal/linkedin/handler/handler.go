package handler

import (
	"net/http"

	"leadflow_backend/internal/linkedin/session"
	"leadflow_backend/internal/linkedin/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	manager *session.Manager
	val     *validator.Validator
}

func New(manager *session.Manager, val *validator.Validator) *Handler {
	return &Handler{manager: manager, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/connect", h.Connect)
	rg.GET("/status", h.Status)
	rg.POST("/logout", h.Logout)
}

// Connect blocks while the interactive login runs, up to the configured
// wait budget. Clients should use a generous request timeout.
func (h *Handler) Connect(c *gin.Context) {
	var req transport.ConnectRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}
	key := sessionKeyOrDefault(req.SessionKey)

	record, err := h.manager.Acquire(c.Request.Context(), key)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ConnectResponse{
		SessionKey: key,
		Connected:  true,
		ExpiresAt:  record.ExpiresAt,
	})
}

func (h *Handler) Status(c *gin.Context) {
	key := sessionKeyOrDefault(c.Query("sessionKey"))

	status, err := h.manager.Status(c.Request.Context(), key)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.StatusResponse{
		SessionKey: key,
		Connected:  status.Connected,
		State:      string(h.manager.StateOf(key)),
		ExpiresAt:  status.ExpiresAt,
		LastUsedAt: status.LastUsedAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	key := sessionKeyOrDefault(c.Query("sessionKey"))

	if err := h.manager.Invalidate(c.Request.Context(), key); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.NoContent(c)
}

func sessionKeyOrDefault(key string) string {
	if key == "" {
		return session.DefaultKey
	}
	return key
}
