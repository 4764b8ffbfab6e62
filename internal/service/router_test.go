package service_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"taskdog.app/bot/internal/extract"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/service"
	"taskdog.app/bot/internal/store"
)

func privateMessage(userID, chatID int64, text string) model.IncomingMessage {
	return model.IncomingMessage{
		Chat:   model.Chat{ID: chatID, Kind: model.ChatKindPrivate},
		Sender: model.User{ID: userID, Username: fmt.Sprintf("user%d", userID)},
		Text:   text,
	}
}

func strPtr(s string) *string { return &s }

var _ = Describe("Router", func() {
	var (
		ctx       context.Context
		tasks     *mockTaskStore
		extractor *mockExtractor
		sender    *mockSender
		router    *service.Router
	)

	BeforeEach(func() {
		ctx = context.Background()
		tasks = &mockTaskStore{}
		extractor = &mockExtractor{}
		sender = &mockSender{}
		router = service.NewRouter(service.Config{
			Tasks:     tasks,
			Extractor: extractor,
			Sender:    sender,
		})
	})

	Describe("task intake", func() {
		It("records an extracted task and confirms with description and deadline", func() {
			extractor.extractFn = func(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
				Expect(text).To(Equal("和张三开会，明天下午3点"))
				return &model.Extraction{
					TaskDescription: "和张三开会",
					Deadline:        strPtr("明天下午3点"),
					NewParticipants: []string{"张三"},
				}, nil
			}

			var inserted model.Task
			tasks.insertFn = func(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
				Expect(col).To(Equal(model.CollectionTasks))
				inserted = task
				task.ID = 1001
				return task, nil
			}

			router.Handle(ctx, privateMessage(42, 7, "和张三开会，明天下午3点"))

			Expect(inserted.OwnerID).To(Equal("42"))
			Expect(inserted.Status).To(Equal(model.TaskStatusPending))
			Expect(inserted.Author).To(HaveValue(Equal("user42")))
			Expect(inserted.Participants).To(HaveValue(Equal("张三")))

			texts := sender.texts()
			Expect(texts).To(HaveLen(2))
			Expect(texts[0]).To(ContainSubstring("TDog正在思考中"))
			Expect(texts[1]).To(ContainSubstring("和张三开会"))
			Expect(texts[1]).To(ContainSubstring("明天下午3点"))
		})

		It("confirms with the unspecified-time placeholder when no deadline was extracted", func() {
			extractor.extractFn = func(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
				return &model.Extraction{TaskDescription: "买牛奶"}, nil
			}

			router.Handle(ctx, privateMessage(42, 7, "买牛奶"))

			texts := sender.texts()
			Expect(texts).To(HaveLen(2))
			Expect(texts[1]).To(ContainSubstring("未指定时间"))
		})

		It("asks for clarification and touches no storage when extraction fails", func() {
			extractor.extractFn = func(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
				return nil, fmt.Errorf("%w: empty description", extract.ErrUnusable)
			}

			inserts := 0
			tasks.insertFn = func(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
				inserts++
				return task, nil
			}

			router.Handle(ctx, privateMessage(42, 7, "嗯嗯嗯"))

			Expect(inserts).To(BeZero())
			texts := sender.texts()
			Expect(texts).To(HaveLen(2))
			Expect(texts[1]).To(ContainSubstring("没太明白"))
		})

		It("reports a storage problem when the insert fails", func() {
			tasks.insertFn = func(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
				return model.Task{}, errors.New("connection refused")
			}

			router.Handle(ctx, privateMessage(42, 7, "买牛奶"))

			texts := sender.texts()
			Expect(texts).To(HaveLen(2))
			Expect(texts[1]).To(ContainSubstring("记事本好像出了点问题"))
		})

		It("unions resolver participants with extracted newcomers, resolver first", func() {
			extractor.extractFn = func(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
				return &model.Extraction{
					TaskDescription: "准备评审",
					NewParticipants: []string{"李四", "bob"},
				}, nil
			}

			var inserted model.Task
			tasks.insertFn = func(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
				inserted = task
				return task, nil
			}

			msg := model.IncomingMessage{
				Chat:   model.Chat{ID: 7, Kind: model.ChatKindGroup, Title: "工作群"},
				Sender: model.User{ID: 42, Username: "alice"},
				Text:   "@bob 准备评审",
				Mentions: []model.Mention{
					{Offset: 0, Length: 4},
				},
			}
			router.Handle(ctx, msg)

			Expect(inserted.Participants).To(HaveValue(Equal("@bob, 李四, bob")))
		})
	})

	Describe("listing", func() {
		It("renders pending tasks as id-tagged blocks", func() {
			tasks.listByOwnerFn = func(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
				Expect(col).To(Equal(model.CollectionTasks))
				Expect(ownerID).To(Equal("42"))
				return []model.Task{
					{ID: 1, TaskDescription: "买牛奶", Deadline: strPtr("周五"), Author: strPtr("alice")},
					{ID: 2, TaskDescription: "写周报"},
				}, nil
			}

			router.Handle(ctx, privateMessage(42, 7, "/list"))

			texts := sender.texts()
			Expect(texts).To(HaveLen(1))
			Expect(texts[0]).To(ContainSubstring("#1"))
			Expect(texts[0]).To(ContainSubstring("买牛奶"))
			Expect(texts[0]).To(ContainSubstring("周五"))
			Expect(texts[0]).To(ContainSubstring("#2"))
			Expect(texts[0]).To(ContainSubstring("写周报"))
		})

		It("replies with the rest message when nothing is pending", func() {
			tasks.listByOwnerFn = func(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
				return nil, nil
			}

			router.Handle(ctx, privateMessage(42, 7, "/list"))

			Expect(sender.texts()).To(ConsistOf(ContainSubstring("目前没有待办任务")))
		})

		It("reports a storage problem when listing fails", func() {
			tasks.listByOwnerFn = func(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
				return nil, errors.New("timeout")
			}

			router.Handle(ctx, privateMessage(42, 7, "/list"))

			Expect(sender.texts()).To(ConsistOf(ContainSubstring("记事本翻不开了")))
		})
	})

	Describe("archiving", func() {
		It("moves the task and confirms completion", func() {
			tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
				Expect(id).To(Equal(int64(17)))
				Expect(ownerID).To(Equal("42"))
				return &model.Task{ID: 17, TaskDescription: "买牛奶", OwnerID: "42", Status: model.TaskStatusPending}, nil
			}

			var archived model.Task
			tasks.archiveFn = func(ctx context.Context, task model.Task) error {
				archived = task
				return nil
			}

			router.Handle(ctx, privateMessage(42, 7, "/done 17"))

			Expect(archived.ID).To(Equal(int64(17)))
			Expect(archived.Status).To(Equal(model.TaskStatusDone))
			Expect(sender.texts()).To(ConsistOf(ContainSubstring("任务 #17 已完成")))
		})

		It("marks the task cancelled for /cancel", func() {
			tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
				return &model.Task{ID: 17, OwnerID: "42", Status: model.TaskStatusPending}, nil
			}

			var archived model.Task
			tasks.archiveFn = func(ctx context.Context, task model.Task) error {
				archived = task
				return nil
			}

			router.Handle(ctx, privateMessage(42, 7, "/cancel 17"))

			Expect(archived.Status).To(Equal(model.TaskStatusCancelled))
			Expect(sender.texts()).To(ConsistOf(ContainSubstring("已取消")))
		})

		It("replies not-found when the task belongs to another owner", func() {
			tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
				return nil, store.ErrNotFound
			}

			archives := 0
			tasks.archiveFn = func(ctx context.Context, task model.Task) error {
				archives++
				return nil
			}

			router.Handle(ctx, privateMessage(99, 7, "/done 17"))

			Expect(archives).To(BeZero())
			Expect(sender.texts()).To(ConsistOf(ContainSubstring("没有找到这个任务")))
		})

		It("lands on the not-found path when archiving the same id twice", func() {
			pending := map[int64]*model.Task{
				17: {ID: 17, OwnerID: "42", Status: model.TaskStatusPending},
			}
			tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
				if task, ok := pending[id]; ok {
					return task, nil
				}
				return nil, store.ErrNotFound
			}
			tasks.archiveFn = func(ctx context.Context, task model.Task) error {
				delete(pending, task.ID)
				return nil
			}

			router.Handle(ctx, privateMessage(42, 7, "/done 17"))
			router.Handle(ctx, privateMessage(42, 7, "/done 17"))

			texts := sender.texts()
			Expect(texts).To(HaveLen(2))
			Expect(texts[0]).To(ContainSubstring("已完成"))
			Expect(texts[1]).To(ContainSubstring("没有找到这个任务"))
		})

		DescribeTable("malformed arguments get the usage reply without a store call",
			func(text string) {
				lookups := 0
				tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
					lookups++
					return nil, store.ErrNotFound
				}

				router.Handle(ctx, privateMessage(42, 7, text))

				Expect(lookups).To(BeZero())
				Expect(sender.texts()).To(ConsistOf(ContainSubstring("用法")))
			},
			Entry("missing id", "/done"),
			Entry("non-numeric id", "/done abc"),
			Entry("negative id", "/cancel -3"),
			Entry("extra tokens", "/done 17 18"),
		)

		It("reports a storage problem when the archive move fails", func() {
			tasks.getByIDFn = func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
				return &model.Task{ID: 17, OwnerID: "42", Status: model.TaskStatusPending}, nil
			}
			tasks.archiveFn = func(ctx context.Context, task model.Task) error {
				return errors.New("deadlock")
			}

			router.Handle(ctx, privateMessage(42, 7, "/done 17"))

			Expect(sender.texts()).To(ConsistOf(ContainSubstring("记事本好像出了点问题")))
		})
	})

	Describe("dispatch", func() {
		It("ignores unrecognized slash commands", func() {
			router.Handle(ctx, privateMessage(42, 7, "/start"))
			Expect(sender.sent).To(BeEmpty())
		})

		It("ignores whitespace-only messages", func() {
			router.Handle(ctx, privateMessage(42, 7, "   \n  "))
			Expect(sender.sent).To(BeEmpty())
		})
	})
})
