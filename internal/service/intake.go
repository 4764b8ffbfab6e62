package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"taskdog.app/bot/common/logger"
	"taskdog.app/bot/internal/extract"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/resolver"
	"taskdog.app/bot/internal/store"
	"taskdog.app/bot/internal/telegram"
)

// IntakeHandler turns a free-text message into a pending task: resolve the
// author and participants, extract the task fields, persist. Nothing survives
// between the stages; the request lifetime is the only state.
type IntakeHandler struct {
	extractor extract.Extractor
	tasks     store.TaskStore
	sender    telegram.Sender
}

func NewIntakeHandler(extractor extract.Extractor, tasks store.TaskStore, sender telegram.Sender) *IntakeHandler {
	return &IntakeHandler{
		extractor: extractor,
		tasks:     tasks,
		sender:    sender,
	}
}

func (h *IntakeHandler) Handle(ctx context.Context, msg model.IncomingMessage) {
	author, participants := resolver.Resolve(msg)

	reply(ctx, h.sender, msg.Chat.ID, replyThinking)

	extraction, err := h.extractor.Extract(ctx, msg.Text, participants)
	if err != nil {
		// Every extraction sub-cause collapses into one clarification ask.
		reply(ctx, h.sender, msg.Chat.ID, replyClarify)
		return
	}

	merged := mergeParticipants(participants, extraction.NewParticipants)

	task := model.Task{
		TaskDescription: extraction.TaskDescription,
		Deadline:        extraction.Deadline,
		OwnerID:         ownerID(msg),
		Status:          model.TaskStatusPending,
	}
	if author != "" {
		task.Author = &author
	}
	if len(merged) > 0 {
		joined := strings.Join(merged, ", ")
		task.Participants = &joined
	}

	created, err := h.tasks.Insert(ctx, model.CollectionTasks, task)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save task", "error", err)
		reply(ctx, h.sender, msg.Chat.ID, replyStoreFailure)
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TaskID: logger.Ptr(created.ID)})
	slog.InfoContext(ctx, "task recorded",
		"description", logger.Truncate(created.TaskDescription, 100),
		"participants", len(merged))

	reply(ctx, h.sender, msg.Chat.ID, confirmationReply(created))
}

// mergeParticipants unions the resolver set with the extraction's newcomers.
// De-duplication is case-sensitive; resolver order comes first.
func mergeParticipants(base, extra []string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, name := range base {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	for _, name := range extra {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	return merged
}

// ownerID is the sender's user id, not the chat id: a task created in a group
// still belongs to the person who sent the message.
func ownerID(msg model.IncomingMessage) string {
	return strconv.FormatInt(msg.Sender.ID, 10)
}

func reply(ctx context.Context, sender telegram.Sender, chatID int64, text string) {
	if err := sender.Send(ctx, chatID, text); err != nil {
		slog.WarnContext(ctx, "failed to send reply", "error", err)
	}
}
