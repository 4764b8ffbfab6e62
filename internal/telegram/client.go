package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskdog.app/bot/core/config"
)

// Sender delivers a text reply to a chat. Delivery is fire-and-forget from
// the handlers' perspective: a send failure never aborts the request.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Client struct {
	apiRoot string
	token   string
	client  *http.Client
}

func NewClient(cfg config.TelegramConfig) *Client {
	apiRoot := strings.TrimRight(cfg.APIRoot, "/")
	if apiRoot == "" {
		apiRoot = "https://api.telegram.org"
	}
	return &Client{
		apiRoot: apiRoot,
		token:   cfg.BotToken,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	return c.call(ctx, "sendMessage", payload)
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	endpoint := c.apiRoot + "/bot" + c.token + "/" + method

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var base apiResponse
	if err := json.Unmarshal(respBody, &base); err != nil {
		return err
	}
	if !base.OK {
		return fmt.Errorf("telegram api error: %s", base.Description)
	}
	return nil
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}
