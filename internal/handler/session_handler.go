// internal/handler/session_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-printer-service/internal/server"
	"escpos-printer-service/internal/utils"
)

// SessionHandler exposes the printer listener's connected sessions to the
// admin API. Grounded on the teacher's device_handler.go route/response
// shape, generalized from a device-registry CRUD surface to a read-mostly
// view over live TCP sessions (there is nothing to register or configure —
// a session exists exactly as long as its connection is open).
type SessionHandler struct {
	listener *server.Listener
	logger   *utils.ServiceLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(listener *server.Listener, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		listener: listener,
		logger:   utils.NewServiceLogger(logger, "session-handler"),
	}
}

// RegisterRoutes registers session-related routes
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.DELETE("/:id", h.CloseSession)
	}
}

// ListSessions lists currently connected printer sessions
// @Summary List printer sessions
// @Description Get all currently connected ESC/POS TCP sessions and their byte/element counters
// @Tags Sessions
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]server.SessionInfo} "Sessions retrieved successfully"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions := h.listener.Sessions()
	utils.SuccessResponse(c, http.StatusOK, "Sessions retrieved successfully", gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// CloseSession force-closes a connected printer session
// @Summary Force-close a printer session
// @Description Terminate a connected printer session's TCP connection by session ID
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse "Session closed"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Session ID is required", nil)
		return
	}

	if !h.listener.CloseSession(sessionID) {
		utils.ErrorResponse(c, http.StatusNotFound, "Session not found", nil)
		return
	}

	h.logger.Info("Session force-closed", zap.String("session_id", sessionID))
	utils.SuccessResponse(c, http.StatusOK, "Session closed", gin.H{"session_id": sessionID})
}
