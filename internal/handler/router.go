package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-api/internal/middleware"
	"github.com/noah-isme/attendance-api/internal/service"
	"github.com/noah-isme/attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-api/pkg/middleware/requestid"
)

const welcomeMessage = "Welcome to the Automated Student Attendance System"

// RouterConfig carries the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	AllowedOrigins []string
	EnableDocs     bool
}

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Students      *StudentHandler
	Attendance    *AttendanceHandler
	Admins        *AdminHandler
	Observability *MetricsHandler
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
	})

	if h.Observability != nil {
		r.GET("/health", h.Observability.Health)
		r.GET("/ready", h.Observability.Ready)
		r.GET("/metrics", h.Observability.Prometheus)
	}

	if h.Students != nil {
		r.POST("/students", h.Students.Create)
		r.GET("/students", h.Students.List)
	}

	if h.Attendance != nil {
		attendance := r.Group("/attendance")
		attendance.POST("", h.Attendance.Mark)
		attendance.GET("/daily", h.Attendance.Daily)
		attendance.GET("/report/:roll_no", h.Attendance.Report)
		attendance.GET("/report/:roll_no/export", h.Attendance.Export)
	}

	if h.Admins != nil {
		admins := r.Group("/api/admins")
		admins.POST("", h.Admins.Create)
		admins.GET("", h.Admins.List)
	}

	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
