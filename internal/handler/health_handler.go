// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-printer-service/internal/config"
	"escpos-printer-service/internal/database"
	"escpos-printer-service/internal/server"
	"escpos-printer-service/internal/utils"
)

// HealthHandler handles health check requests for the printer service. The
// audit database is optional (SPEC_FULL.md §10b) so db may be nil.
type HealthHandler struct {
	db        *database.DB
	listener  *server.Listener
	startedAt time.Time
	config    *config.Config
	logger    *utils.ServiceLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, listener *server.Listener, cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		listener:  listener,
		startedAt: time.Now(),
		config:    cfg,
		logger:    utils.NewServiceLogger(logger, "health-handler"),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/health/db", h.DatabaseHealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck performs general health check
// @Summary Health check
// @Description Get overall service health status including the printer listener and optional audit database
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} HealthResponse "Service is unhealthy"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).String(),
		Checks:    make(map[string]CheckResult),
	}

	health.Checks["printer_listener"] = CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"active_sessions": len(h.listener.Sessions()),
		},
	}

	if h.db == nil {
		health.Checks["audit_database"] = CheckResult{
			Status:  "disabled",
			Message: "audit sink is not enabled",
		}
	} else if err := h.db.HealthCheck(); err != nil {
		health.Status = "unhealthy"
		health.Checks["audit_database"] = CheckResult{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	} else {
		health.Checks["audit_database"] = CheckResult{Status: "healthy"}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// DatabaseHealthCheck checks audit database connectivity
// @Summary Audit database health check
// @Description Check audit database connectivity and pool stats, when the audit sink is enabled
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse "Database is healthy"
// @Failure 503 {object} utils.APIResponse "Database is unhealthy"
// @Router /health/db [get]
func (h *HealthHandler) DatabaseHealthCheck(c *gin.Context) {
	if h.db == nil {
		utils.SuccessResponse(c, http.StatusOK, "Audit database is disabled", gin.H{"enabled": false})
		return
	}

	startTime := time.Now()
	if err := h.db.HealthCheck(); err != nil {
		h.logger.Error("Audit database health check failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Audit database unhealthy", err)
		return
	}

	stats := h.db.GetStats()
	response := gin.H{
		"status":           "healthy",
		"response_time_ms": time.Since(startTime).Milliseconds(),
		"stats": gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	}

	utils.SuccessResponse(c, http.StatusOK, "Audit database is healthy", response)
}

// ReadinessCheck for Kubernetes readiness probe
// @Summary Readiness check
// @Description Check if service is ready to accept printer connections
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "audit database not available",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessCheck for Kubernetes liveness probe
// @Summary Liveness check
// @Description Check if service is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
