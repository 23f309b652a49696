// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"escpos-printer-service/internal/config"
	"escpos-printer-service/internal/database"
	"escpos-printer-service/internal/handler"
	"escpos-printer-service/internal/hub"
	"escpos-printer-service/internal/middleware"
	"escpos-printer-service/internal/server"
	"escpos-printer-service/internal/utils"
)

// Router holds all dependencies for routing the admin HTTP API. The
// printer protocol itself never touches gin — it is served entirely by
// internal/server.Listener over raw TCP.
type Router struct {
	config   *config.Config
	logger   *zap.Logger
	db       *database.DB
	listener *server.Listener
	hub      *hub.Hub
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *database.DB,
	listener *server.Listener,
	elementHub *hub.Hub,
) *Router {
	return &Router{
		config:   cfg,
		logger:   logger,
		db:       db,
		listener: listener,
		hub:      elementHub,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(nil))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.listener, r.config, r.logger)
	sessionHandler := handler.NewSessionHandler(r.listener, r.logger)

	r.addHealthRoutes(router, healthHandler)

	apiV1 := router.Group("/api/v1")
	sessionHandler.RegisterRoutes(apiV1)

	r.addRenderRoutes(router)
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, h *handler.HealthHandler) {
	health := router.Group("")
	{
		health.GET("/health", h.HealthCheck)
		health.GET("/health/db", h.DatabaseHealthCheck)
		health.GET("/ready", h.ReadinessCheck)
		health.GET("/live", h.LivenessCheck)
	}
}

// addRenderRoutes wires the renderer's WebSocket element feed.
func (r *Router) addRenderRoutes(router *gin.Engine) {
	router.GET("/ws/render", func(c *gin.Context) {
		r.hub.ServeHTTP(c.Writer, c.Request)
	})
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
