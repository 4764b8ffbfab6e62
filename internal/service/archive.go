package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"taskdog.app/bot/common/logger"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/store"
	"taskdog.app/bot/internal/telegram"
)

// ArchiveHandler implements the only status transition: a pending task moves
// into the archive collection as done or cancelled. The owner-scoped lookup
// runs first, so a second invocation for the same id lands on the not-found
// path.
type ArchiveHandler struct {
	tasks  store.TaskStore
	sender telegram.Sender
}

func NewArchiveHandler(tasks store.TaskStore, sender telegram.Sender) *ArchiveHandler {
	return &ArchiveHandler{tasks: tasks, sender: sender}
}

func (h *ArchiveHandler) Handle(ctx context.Context, msg model.IncomingMessage, target model.TaskStatus, args []string) {
	taskID, ok := parseTaskID(args)
	if !ok {
		reply(ctx, h.sender, msg.Chat.ID, replyArchiveUsage)
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TaskID: logger.Ptr(taskID)})

	task, err := h.tasks.GetByID(ctx, model.CollectionTasks, taskID, ownerID(msg))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			reply(ctx, h.sender, msg.Chat.ID, replyTaskNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to look up task", "error", err)
		reply(ctx, h.sender, msg.Chat.ID, replyStoreFailure)
		return
	}

	task.Status = target
	if err := h.tasks.Archive(ctx, *task); err != nil {
		slog.ErrorContext(ctx, "failed to archive task", "error", err, "target_status", target)
		reply(ctx, h.sender, msg.Chat.ID, replyStoreFailure)
		return
	}

	slog.InfoContext(ctx, "task archived", "status", target)
	reply(ctx, h.sender, msg.Chat.ID, archivedReply(taskID, target))
}

// parseTaskID requires exactly one extra token that parses as a positive
// integer; anything else is a usage error and no store call is made.
func parseTaskID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
