package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tgd/internal/telegram"
)

const (
	defaultTimeout  = 30 * time.Second
	transferTimeout = 10 * time.Minute
)

// APIError is an ok=false envelope returned by the daemon. The message
// is the daemon's failure description verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to a running daemon over the local control channel.
// File transfers get a much longer timeout than plain calls.
type Client struct {
	baseURL  string
	http     *http.Client
	transfer *http.Client
}

// NewClient creates a client for the daemon at baseURL
// (e.g. "http://127.0.0.1:19876").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: defaultTimeout},
		transfer: &http.Client{Timeout: transferTimeout},
	}
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// call posts body to path and decodes the response envelope. An
// ok=false envelope becomes an *APIError; out, when non-nil, receives
// the result fields of a successful envelope.
func (c *Client) call(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("malformed daemon response: %w", err)
	}
	if !env.OK {
		return &APIError{Message: env.Error}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// Health probes the daemon and returns the signed-in account profile.
func (c *Client) Health(ctx context.Context) (telegram.Profile, error) {
	var out struct {
		User telegram.Profile `json:"user"`
	}
	if err := c.call(ctx, c.http, http.MethodGet, "/health", nil, &out); err != nil {
		return telegram.Profile{}, err
	}
	return out.User, nil
}

func (c *Client) SendMessage(ctx context.Context, entity, message string, replyTo int) (telegram.SendResult, error) {
	body := map[string]any{"entity": entity, "message": message}
	if replyTo != 0 {
		body["reply_to"] = replyTo
	}
	var out struct {
		MessageID int   `json:"message_id"`
		ChatID    int64 `json:"chat_id"`
	}
	if err := c.call(ctx, c.http, http.MethodPost, "/send_message", body, &out); err != nil {
		return telegram.SendResult{}, err
	}
	return telegram.SendResult{MessageID: out.MessageID, ChatID: out.ChatID}, nil
}

func (c *Client) SendFile(ctx context.Context, entity, filePath, caption string, voice bool) (telegram.SendResult, error) {
	body := map[string]any{
		"entity":    entity,
		"file_path": filePath,
		"caption":   caption,
		"voice":     voice,
	}
	var out struct {
		MessageID int   `json:"message_id"`
		ChatID    int64 `json:"chat_id"`
	}
	if err := c.call(ctx, c.transfer, http.MethodPost, "/send_file", body, &out); err != nil {
		return telegram.SendResult{}, err
	}
	return telegram.SendResult{MessageID: out.MessageID, ChatID: out.ChatID}, nil
}

func (c *Client) GetMessages(ctx context.Context, entity string, limit int) ([]telegram.Message, error) {
	body := map[string]any{"entity": entity}
	if limit > 0 {
		body["limit"] = limit
	}
	var out struct {
		Messages []telegram.Message `json:"messages"`
	}
	if err := c.call(ctx, c.http, http.MethodPost, "/get_messages", body, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SearchDialogs(ctx context.Context, query string, limit int) ([]telegram.Dialog, error) {
	body := map[string]any{"query": query}
	if limit > 0 {
		body["limit"] = limit
	}
	var out struct {
		Dialogs []telegram.Dialog `json:"dialogs"`
	}
	if err := c.call(ctx, c.http, http.MethodPost, "/search_dialogs", body, &out); err != nil {
		return nil, err
	}
	return out.Dialogs, nil
}

func (c *Client) DownloadMedia(ctx context.Context, entity string, messageID int, savePath string) (string, error) {
	body := map[string]any{
		"entity":     entity,
		"message_id": messageID,
		"save_path":  savePath,
	}
	var out struct {
		Path string `json:"path"`
	}
	if err := c.call(ctx, c.transfer, http.MethodPost, "/download_media", body, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

func (c *Client) EditMessage(ctx context.Context, entity string, messageID int, text string) (int, error) {
	body := map[string]any{
		"entity":     entity,
		"message_id": messageID,
		"text":       text,
	}
	var out struct {
		MessageID int `json:"message_id"`
	}
	if err := c.call(ctx, c.http, http.MethodPost, "/edit_message", body, &out); err != nil {
		return 0, err
	}
	return out.MessageID, nil
}

func (c *Client) DeleteMessages(ctx context.Context, entity string, messageIDs []int) (int, error) {
	body := map[string]any{
		"entity":      entity,
		"message_ids": messageIDs,
	}
	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := c.call(ctx, c.http, http.MethodPost, "/delete_messages", body, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
