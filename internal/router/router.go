package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/handler"
	"github.com/sgp/sgp-backend/internal/middleware"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/sgp/sgp-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Events   *handler.EventsHandler
}

// eventsSSEPath streams events; it must bypass response compression.
const eventsSSEPath = "/api/v1/admin/exam-events"

// SetupRouter configures all Gin route groups with appropriate middlewares.
// The returned limiter must be stopped on shutdown.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) (*gin.Engine, *middleware.RateLimiter) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	router.Use(middleware.Brotli(middleware.BrotliConfig{
		MinLength: cfg.BrotliMinBytes,
		Skip:      []string{eventsSSEPath},
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1/admin")
	ws.Use(middleware.RequireAdminJWT(authService))
	{
		ws.GET("/exams/events",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Events.ExamEventsSocket,
		)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Exams
		adminAPI.GET("/exams",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.ListExams,
		)
		adminAPI.GET("/exams/:id",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.GetExam,
		)
		adminAPI.GET("/exams/:id/export",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.ExportExam,
		)
		adminAPI.POST("/exams",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.CreateExam,
		)
		adminAPI.PUT("/exams/:id",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.UpdateExam,
		)
		adminAPI.GET("/exam-events",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Events.ExamEventsSSE,
		)

		// Questions
		adminAPI.GET("/questions/dropdown",
			middleware.RequirePermission(model.PermissionQuestionsRead),
			handlers.Question.ListDropdown,
		)
		adminAPI.POST("/questions",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.CreateQuestion,
		)
	}

	return router, authLimiter
}
