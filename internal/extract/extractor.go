package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskdog.app/bot/common/llm"
	"taskdog.app/bot/internal/model"
)

// ErrUnusable means the extraction service could not produce a usable result:
// transport failure, timeout, malformed response, or a missing task
// description. Callers must treat every sub-cause the same way.
var ErrUnusable = errors.New("extraction result unusable")

type Extractor interface {
	Extract(ctx context.Context, text string, participants []string) (*model.Extraction, error)
}

type extractor struct {
	llm     llm.Client
	timeout time.Duration
	now     func() time.Time
}

const defaultTimeout = 20 * time.Second

func New(client llm.Client, timeout time.Duration) Extractor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &extractor{
		llm:     client,
		timeout: timeout,
		now:     time.Now,
	}
}

var extractionSchema = llm.GenerateSchema[model.Extraction]()

// Extract makes one synchronous call to the extraction service. No retry is
// attempted here; retrying is the caller's decision.
func (e *extractor) Extract(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var result model.Extraction
	resp, err := e.llm.Chat(ctx, llm.Request{
		SystemPrompt: e.systemPrompt(participants),
		UserPrompt:   text,
		SchemaName:   "task_extraction",
		Schema:       extractionSchema,
		Temperature:  llm.Temp(0.2),
	}, &result)
	if err != nil {
		slog.WarnContext(ctx, "task extraction failed", "error", err)
		return nil, fmt.Errorf("%w: %s", ErrUnusable, err)
	}

	if strings.TrimSpace(result.TaskDescription) == "" {
		slog.WarnContext(ctx, "task extraction returned no task description")
		return nil, fmt.Errorf("%w: empty task_description", ErrUnusable)
	}

	slog.DebugContext(ctx, "task extracted",
		"model", e.llm.Model(),
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens,
		"has_deadline", result.Deadline != nil,
		"new_participants", len(result.NewParticipants))

	return &result, nil
}

func (e *extractor) systemPrompt(participants []string) string {
	var b strings.Builder
	b.WriteString("你是一个任务分析助手。请从用户发送的文本中提取'task_description'（核心任务内容）和'deadline'（截止日期和时间）。")
	b.WriteString("如果没有明确日期，deadline设为null。")
	fmt.Fprintf(&b, "请将今天的日期作为参考：%s。", e.now().Format("2006-01-02"))
	if len(participants) > 0 {
		fmt.Fprintf(&b, "已知的参与人：%s。", strings.Join(participants, "、"))
		b.WriteString("如果文本中出现了不在此列表中的新参与人，请将他们的名字放入'new_participants'数组。")
	} else {
		b.WriteString("如果文本中提到了参与人，请将他们的名字放入'new_participants'数组。")
	}
	b.WriteString("必须只返回一个符合要求的JSON对象，不要输出任何其他文字。")
	return b.String()
}
