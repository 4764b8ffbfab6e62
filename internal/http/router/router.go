package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdog.app/bot/internal/http/handler/webhook"
	"taskdog.app/bot/internal/service"
)

// SetupRoutes registers all HTTP routes on the gin engine.
func SetupRoutes(engine *gin.Engine, bot *service.Router) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	telegramHandler := webhook.NewTelegramWebhookHandler(bot)
	engine.POST("/webhook/telegram", telegramHandler.HandleUpdate)
}
