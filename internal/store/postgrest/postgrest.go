package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdog.app/bot/core/config"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/store"
)

const ownerColumn = "telegram_user_id"

// Store talks to a Supabase PostgREST endpoint. Every operation is one HTTP
// round-trip; the store assigns record ids on insert.
type Store struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func New(cfg config.StoreConfig) *Store {
	return &Store{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Store) Insert(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
	var rows []model.Task
	err := s.call(ctx, callParams{
		method:     http.MethodPost,
		collection: col,
		body:       task,
		prefer:     "return=representation",
	}, &rows)
	if err != nil {
		return model.Task{}, fmt.Errorf("inserting into %s: %w", col, err)
	}
	if len(rows) == 0 {
		return model.Task{}, fmt.Errorf("inserting into %s: empty representation", col)
	}
	return rows[0], nil
}

func (s *Store) GetByID(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error) {
	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", id))
	query.Set(ownerColumn, "eq."+ownerID)
	query.Set("limit", "1")

	var rows []model.Task
	err := s.call(ctx, callParams{
		method:     http.MethodGet,
		collection: col,
		query:      query,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", col, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) DeleteByID(ctx context.Context, col model.Collection, id int64) error {
	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", id))

	if err := s.call(ctx, callParams{
		method:     http.MethodDelete,
		collection: col,
		query:      query,
	}, nil); err != nil {
		return fmt.Errorf("deleting from %s: %w", col, err)
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
	query := url.Values{}
	query.Set(ownerColumn, "eq."+ownerID)

	var rows []model.Task
	err := s.call(ctx, callParams{
		method:     http.MethodGet,
		collection: col,
		query:      query,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", col, err)
	}
	return rows, nil
}

// Archive moves a task into the archive collection. The insert is conditional
// on the id (ignore-duplicates), so re-executing a half-finished move never
// produces a second archive copy.
func (s *Store) Archive(ctx context.Context, task model.Task) error {
	query := url.Values{}
	query.Set("on_conflict", "id")

	if err := s.call(ctx, callParams{
		method:     http.MethodPost,
		collection: model.CollectionArchived,
		query:      query,
		body:       task,
		prefer:     "resolution=ignore-duplicates,return=minimal",
	}, nil); err != nil {
		return fmt.Errorf("inserting into %s: %w", model.CollectionArchived, err)
	}

	return s.DeleteByID(ctx, model.CollectionTasks, task.ID)
}

type callParams struct {
	method     string
	collection model.Collection
	query      url.Values
	body       any
	prefer     string
}

func (s *Store) call(ctx context.Context, params callParams, out any) error {
	endpoint := s.baseURL + "/rest/v1/" + string(params.collection)
	if len(params.query) > 0 {
		endpoint += "?" + params.query.Encode()
	}

	var reqBody io.Reader
	if params.body != nil {
		data, err := json.Marshal(params.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, params.method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if params.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if params.prefer != "" {
		req.Header.Set("Prefer", params.prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("postgrest status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
