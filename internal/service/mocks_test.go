package service_test

import (
	"context"

	"taskdog.app/bot/internal/model"
)

type mockTaskStore struct {
	insertFn      func(ctx context.Context, col model.Collection, task model.Task) (model.Task, error)
	getByIDFn     func(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error)
	deleteByIDFn  func(ctx context.Context, col model.Collection, id int64) error
	listByOwnerFn func(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error)
	archiveFn     func(ctx context.Context, task model.Task) error
}

func (m *mockTaskStore) Insert(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, col, task)
	}
	return task, nil
}

func (m *mockTaskStore) GetByID(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, col, id, ownerID)
	}
	return nil, nil
}

func (m *mockTaskStore) DeleteByID(ctx context.Context, col model.Collection, id int64) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, col, id)
	}
	return nil
}

func (m *mockTaskStore) ListByOwner(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, col, ownerID)
	}
	return nil, nil
}

func (m *mockTaskStore) Archive(ctx context.Context, task model.Task) error {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, task)
	}
	return nil
}

type mockExtractor struct {
	extractFn func(ctx context.Context, text string, participants []string) (*model.Extraction, error)
}

func (m *mockExtractor) Extract(ctx context.Context, text string, participants []string) (*model.Extraction, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, text, participants)
	}
	return &model.Extraction{TaskDescription: text}, nil
}

type mockSender struct {
	sendFn func(ctx context.Context, chatID int64, text string) error
	sent   []sentMessage
}

type sentMessage struct {
	chatID int64
	text   string
}

func (m *mockSender) Send(ctx context.Context, chatID int64, text string) error {
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	if m.sendFn != nil {
		return m.sendFn(ctx, chatID, text)
	}
	return nil
}

func (m *mockSender) texts() []string {
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.text
	}
	return out
}
