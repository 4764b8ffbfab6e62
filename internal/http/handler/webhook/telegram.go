package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskdog.app/bot/common/logger"
	"taskdog.app/bot/internal/service"
	"taskdog.app/bot/internal/telegram"
)

// TelegramWebhookHandler receives Bot API update envelopes. It always answers
// 200: handler failures become chat replies and log lines, never non-success
// responses, so the transport has nothing to retry on.
type TelegramWebhookHandler struct {
	router *service.Router
}

func NewTelegramWebhookHandler(router *service.Router) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{router: router}
}

func (h *TelegramWebhookHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.WarnContext(ctx, "failed to read webhook body", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		slog.WarnContext(ctx, "invalid webhook payload", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		slog.DebugContext(ctx, "update without message text, ignoring", "update_id", update.UpdateID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	msg := telegram.ToIncomingMessage(update.Message)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UpdateID: logger.Ptr(update.UpdateID),
		ChatID:   logger.Ptr(msg.Chat.ID),
	})

	slog.InfoContext(ctx, "telegram update received",
		"chat_kind", msg.Chat.Kind,
		"text", logger.Truncate(msg.Text, 100))

	h.router.Handle(ctx, msg)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
