// Package botapi is a thin Bot API client. It authenticates with a
// bearer token per request, holds no session state and never touches
// the daemon or its session file.
package botapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrNoToken = errors.New("bot token not configured: set bot.token in the config file")

// Client wraps a single bot identity.
type Client struct {
	bot         *tgbotapi.BotAPI
	defaultChat int64
}

// Message is a message delivered to the bot, flattened from the Bot
// API's update envelope.
type Message struct {
	UpdateID    int    `json:"update_id"`
	MessageID   int    `json:"message_id"`
	Date        string `json:"date"`
	ChatID      int64  `json:"chat_id"`
	From        string `json:"from,omitempty"`
	Text        string `json:"text,omitempty"`
	HasPhoto    bool   `json:"has_photo,omitempty"`
	HasDocument bool   `json:"has_document,omitempty"`
	HasVoice    bool   `json:"has_voice,omitempty"`
}

// New validates the token against the Bot API and returns a client.
// defaultChat is used when a send call passes an empty chat ref.
func New(token string, defaultChat int64) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot authentication failed: %w", err)
	}
	return &Client{bot: bot, defaultChat: defaultChat}, nil
}

// chatTarget resolves a chat ref into the Bot API's addressing scheme:
// a numeric chat id or an @channelusername, falling back to the
// configured default chat.
func chatTarget(ref string, defaultChat int64) (int64, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if defaultChat == 0 {
			return 0, "", errors.New("no chat given and no default chat_id configured")
		}
		return defaultChat, "", nil
	}
	if strings.HasPrefix(ref, "@") {
		return 0, ref, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("bot chats must be a numeric id or @username, got %q", ref)
	}
	return id, "", nil
}

func (c *Client) SendMessage(ref, text string) (int, error) {
	chatID, username, err := chatTarget(ref, c.defaultChat)
	if err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ChannelUsername = username
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// SendFile uploads a local file as a document, or as a voice note when
// asVoice is set.
func (c *Client) SendFile(ref, path, caption string, asVoice bool) (int, error) {
	if asVoice {
		return c.SendVoice(ref, path, caption)
	}
	chatID, username, err := uploadTarget(ref, c.defaultChat, path)
	if err != nil {
		return 0, err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.ChannelUsername = username
	doc.Caption = caption
	return c.send(doc, "send file")
}

// SendPhoto uploads a local image as a photo, so clients render it
// inline instead of as an attachment.
func (c *Client) SendPhoto(ref, path, caption string) (int, error) {
	chatID, username, err := uploadTarget(ref, c.defaultChat, path)
	if err != nil {
		return 0, err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.ChannelUsername = username
	photo.Caption = caption
	return c.send(photo, "send photo")
}

// SendVoice uploads a local audio file as a voice message. OGG/OPUS
// input is required for the voice-note rendering.
func (c *Client) SendVoice(ref, path, caption string) (int, error) {
	chatID, username, err := uploadTarget(ref, c.defaultChat, path)
	if err != nil {
		return 0, err
	}
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FilePath(path))
	voice.ChannelUsername = username
	voice.Caption = caption
	return c.send(voice, "send voice")
}

// uploadTarget is chatTarget plus an upfront existence check, so a bad
// path fails before the request is built.
func uploadTarget(ref string, defaultChat int64, path string) (int64, string, error) {
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return 0, "", fmt.Errorf("file not found: %s", path)
	}
	return chatTarget(ref, defaultChat)
}

func (c *Client) send(msg tgbotapi.Chattable, op string) (int, error) {
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sent.MessageID, nil
}

// GetMessages reads messages recently delivered to the bot from its
// update queue. Updates without a message payload are skipped.
func (c *Client) GetMessages(limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}
	updates, err := c.bot.GetUpdates(tgbotapi.UpdateConfig{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return messagesFromUpdates(updates), nil
}

func messagesFromUpdates(updates []tgbotapi.Update) []Message {
	msgs := make([]Message, 0, len(updates))
	for _, u := range updates {
		m := u.Message
		if m == nil {
			continue
		}
		out := Message{
			UpdateID:    u.UpdateID,
			MessageID:   m.MessageID,
			Date:        time.Unix(int64(m.Date), 0).UTC().Format(time.RFC3339),
			Text:        m.Text,
			HasPhoto:    len(m.Photo) > 0,
			HasDocument: m.Document != nil,
			HasVoice:    m.Voice != nil,
		}
		if m.Chat != nil {
			out.ChatID = m.Chat.ID
		}
		if m.From != nil {
			out.From = m.From.FirstName
		}
		msgs = append(msgs, out)
	}
	return msgs
}

// DownloadFile fetches a file sent to the bot by its file_id and
// writes it to savePath. The resolved path is returned.
func (c *Client) DownloadFile(fileID, savePath string) (string, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}

	resp, err := http.Get(file.Link(c.bot.Token)) //nolint:gosec // URL built from the Bot API response
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o700); err != nil {
		return "", err
	}
	out, err := os.Create(savePath) //nolint:gosec // savePath is caller-chosen
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}

	abs, err := filepath.Abs(savePath)
	if err != nil {
		return savePath, nil
	}
	return abs, nil
}

// Info returns the bot's own account details.
func (c *Client) Info() (tgbotapi.User, error) {
	return c.bot.GetMe()
}
