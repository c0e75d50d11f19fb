package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/session"
	"github.com/practicelearn/course-portal/internal/transport/http/handler"
	"github.com/practicelearn/course-portal/internal/transport/http/middleware"
	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	sessions session.Manager,
	adminKey []byte,
	authHandler *handler.AuthHandler,
	contentHandler *handler.ContentHandler,
	quizHandler *handler.QuizHandler,
	webhookHandler *handler.WebhookHandler,
	adminHandler *handler.AdminHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	// The verify URL carries a bearer token in its query string; keep it
	// out of the access log.
	r.Use(sloggin.NewWithFilters(logger, sloggin.IgnorePath("/auth/verify")))
	r.Use(middleware.Security())
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	{
		auth.POST("/magic-link", authHandler.RequestMagicLink)
		auth.GET("/verify", authHandler.Verify)
		auth.POST("/logout", authHandler.Logout)
	}

	content := r.Group("/content", middleware.Auth(sessions))
	{
		content.GET("/modules", contentHandler.ListModules)
		content.GET("/modules/:id", contentHandler.GetModule)
		content.GET("/download", contentHandler.Download)
	}

	quiz := r.Group("/quiz", middleware.Auth(sessions))
	{
		quiz.GET("/:moduleID/start", quizHandler.Start)
		quiz.POST("/:moduleID/submit", quizHandler.Submit)
	}

	admin := r.Group("/admin", middleware.AdminKey(adminKey))
	{
		admin.GET("/accounts", adminHandler.ListAccounts)
		admin.PUT("/accounts/:id/tier", adminHandler.SetTier)
		admin.POST("/accounts/:id/magic-link", adminHandler.ResendMagicLink)
	}

	r.POST("/webhooks/:provider", webhookHandler.Handle)

	return r
}
