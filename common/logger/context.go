package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Handlers enrich the request context once and every log statement
// below them carries the chat/update identity for free.
type LogFields struct {
	UpdateID  *int64  // Telegram update ID
	ChatID    *int64  // Chat the message arrived in
	UserID    *string // Task owner (Telegram user id as stored)
	TaskID    *int64  // Task being created or archived
	Command   *string // Classified command ("list", "done", "cancel", "intake")
	Component string  // Component name (e.g. "bot.service.intake")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, update LogFields) LogFields {
	result := existing

	if update.UpdateID != nil {
		result.UpdateID = update.UpdateID
	}
	if update.ChatID != nil {
		result.ChatID = update.ChatID
	}
	if update.UserID != nil {
		result.UserID = update.UserID
	}
	if update.TaskID != nil {
		result.TaskID = update.TaskID
	}
	if update.Command != nil {
		result.Command = update.Command
	}
	if update.Component != "" {
		result.Component = update.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{TaskID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long message text.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
