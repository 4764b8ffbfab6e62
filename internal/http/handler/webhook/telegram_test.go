package webhook_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"taskdog.app/bot/internal/http/handler/webhook"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/service"
)

type recordingStore struct {
	inserted []model.Task
}

func (r *recordingStore) Insert(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
	task.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, task)
	return task, nil
}

func (r *recordingStore) GetByID(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
	return nil, nil
}

func (r *recordingStore) DeleteByID(ctx context.Context, col model.Collection, id int64) error {
	return nil
}

func (r *recordingStore) ListByOwner(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
	return nil, nil
}

func (r *recordingStore) Archive(ctx context.Context, task model.Task) error {
	return nil
}

type fakeExtractor struct{}

func (f *fakeExtractor) Extract(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
	return &model.Extraction{TaskDescription: text}, nil
}

type recordingSender struct {
	texts []string
}

func (r *recordingSender) Send(ctx context.Context, chatID int64, text string) error {
	r.texts = append(r.texts, text)
	return nil
}

var _ = Describe("TelegramWebhookHandler", func() {
	var (
		router *gin.Engine
		tasks  *recordingStore
		sender *recordingSender
	)

	post := func(payload any) *httptest.ResponseRecorder {
		var body []byte
		switch p := payload.(type) {
		case string:
			body = []byte(p)
		default:
			body, _ = json.Marshal(p)
		}
		req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()

		tasks = &recordingStore{}
		sender = &recordingSender{}

		bot := service.NewRouter(service.Config{
			Tasks:     tasks,
			Extractor: &fakeExtractor{},
			Sender:    sender,
		})
		h := webhook.NewTelegramWebhookHandler(bot)
		router.POST("/webhook/telegram", h.HandleUpdate)
	})

	It("processes a text message and records a task", func() {
		w := post(map[string]any{
			"update_id": 12345,
			"message": map[string]any{
				"message_id": 1,
				"from":       map[string]any{"id": 42, "username": "alice"},
				"chat":       map[string]any{"id": 7, "type": "private"},
				"text":       "买牛奶",
			},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(tasks.inserted).To(HaveLen(1))
		Expect(tasks.inserted[0].OwnerID).To(Equal("42"))
		Expect(sender.texts).ToNot(BeEmpty())
	})

	It("answers 200 for an update without a message", func() {
		w := post(map[string]any{"update_id": 12345})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(tasks.inserted).To(BeEmpty())
		Expect(sender.texts).To(BeEmpty())
	})

	It("answers 200 for a message without text", func() {
		w := post(map[string]any{
			"update_id": 12345,
			"message": map[string]any{
				"message_id": 1,
				"chat":       map[string]any{"id": 7, "type": "private"},
			},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(tasks.inserted).To(BeEmpty())
	})

	It("answers 200 for a malformed payload", func() {
		w := post("{not json")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(tasks.inserted).To(BeEmpty())
	})

	It("answers 200 for an unrecognized slash command without replying", func() {
		w := post(map[string]any{
			"update_id": 12345,
			"message": map[string]any{
				"message_id": 1,
				"from":       map[string]any{"id": 42, "username": "alice"},
				"chat":       map[string]any{"id": 7, "type": "private"},
				"text":       "/start",
			},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(sender.texts).To(BeEmpty())
	})
})
