package service

import (
	"context"
	"log/slog"
	"strings"

	"taskdog.app/bot/common/logger"
	"taskdog.app/bot/internal/extract"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/store"
	"taskdog.app/bot/internal/telegram"
)

type commandKind int

const (
	commandIgnore commandKind = iota
	commandIntake
	commandList
	commandArchive
)

type classification struct {
	kind   commandKind
	status model.TaskStatus // archive target, set for commandArchive
	args   []string
	name   string
}

// classify inspects the leading token of the message text. Unrecognized
// slash-commands are silently ignored rather than treated as task text.
func classify(text string) classification {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return classification{kind: commandIgnore}
	}

	switch lead := fields[0]; {
	case lead == "/list":
		return classification{kind: commandList, args: fields[1:], name: "list"}
	case lead == "/done":
		return classification{kind: commandArchive, status: model.TaskStatusDone, args: fields[1:], name: "done"}
	case lead == "/cancel":
		return classification{kind: commandArchive, status: model.TaskStatusCancelled, args: fields[1:], name: "cancel"}
	case strings.HasPrefix(lead, "/"):
		return classification{kind: commandIgnore}
	}
	return classification{kind: commandIntake, name: "intake"}
}

// Router classifies incoming messages and dispatches to the handlers. Every
// failure below this point becomes a chat reply; nothing propagates back to
// the transport.
type Router struct {
	intake  *IntakeHandler
	listing *ListingHandler
	archive *ArchiveHandler
}

type Config struct {
	Tasks     store.TaskStore
	Extractor extract.Extractor
	Sender    telegram.Sender
}

func NewRouter(cfg Config) *Router {
	return &Router{
		intake:  NewIntakeHandler(cfg.Extractor, cfg.Tasks, cfg.Sender),
		listing: NewListingHandler(cfg.Tasks, cfg.Sender),
		archive: NewArchiveHandler(cfg.Tasks, cfg.Sender),
	}
}

func (r *Router) Handle(ctx context.Context, msg model.IncomingMessage) {
	cls := classify(msg.Text)
	if cls.kind == commandIgnore {
		slog.DebugContext(ctx, "message ignored")
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Command: logger.Ptr(cls.name),
		UserID:  logger.Ptr(ownerID(msg)),
	})

	switch cls.kind {
	case commandIntake:
		r.intake.Handle(ctx, msg)
	case commandList:
		r.listing.Handle(ctx, msg)
	case commandArchive:
		r.archive.Handle(ctx, msg, cls.status, cls.args)
	}
}
