package service

import (
	"context"
	"log/slog"

	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/store"
	"taskdog.app/bot/internal/telegram"
)

// ListingHandler renders all pending tasks for the sender as one reply.
type ListingHandler struct {
	tasks  store.TaskStore
	sender telegram.Sender
}

func NewListingHandler(tasks store.TaskStore, sender telegram.Sender) *ListingHandler {
	return &ListingHandler{tasks: tasks, sender: sender}
}

func (h *ListingHandler) Handle(ctx context.Context, msg model.IncomingMessage) {
	tasks, err := h.tasks.ListByOwner(ctx, model.CollectionTasks, ownerID(msg))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tasks", "error", err)
		reply(ctx, h.sender, msg.Chat.ID, replyListFailure)
		return
	}

	if len(tasks) == 0 {
		reply(ctx, h.sender, msg.Chat.ID, replyNothingPending)
		return
	}

	slog.DebugContext(ctx, "listing pending tasks", "count", len(tasks))
	reply(ctx, h.sender, msg.Chat.ID, renderTaskList(tasks))
}
