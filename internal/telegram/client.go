// Package telegram wraps the MTProto client behind a small backend
// interface so the daemon and its tests never touch wire types directly.
package telegram

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tg "github.com/amarnathcjd/gogram/telegram"

	"tgd/internal/config"
)

// Backend is the set of messaging operations the daemon exposes. All
// methods require an authorized session; implementations return
// ErrNotAuthorized otherwise.
type Backend interface {
	GetMe(ctx context.Context) (Profile, error)
	SendMessage(ctx context.Context, ref, text string, replyTo int) (SendResult, error)
	SendFile(ctx context.Context, ref, path, caption string, asVoice bool) (SendResult, error)
	GetMessages(ctx context.Context, ref string, limit int) ([]Message, error)
	SearchDialogs(ctx context.Context, query string, limit int) ([]Dialog, error)
	DownloadMedia(ctx context.Context, ref string, messageID int, savePath string) (string, error)
	EditMessage(ctx context.Context, ref string, messageID int, text string) (int, error)
	DeleteMessages(ctx context.Context, ref string, ids []int) (int, error)
}

// Client is the gogram-backed Backend. It is not safe for concurrent
// construction but its operations may be called from multiple
// goroutines; the MTProto transport serializes requests internally.
type Client struct {
	tg *tg.Client
}

// NewClient builds a client bound to the session file at sessionPath.
// It does not connect; call connect before issuing operations.
func NewClient(cfg *config.Config, sessionPath string) (*Client, error) {
	appID, err := strconv.Atoi(cfg.User.APIID)
	if err != nil {
		return nil, fmt.Errorf("invalid api_id %q: %w", cfg.User.APIID, err)
	}
	client, err := tg.NewClient(tg.ClientConfig{
		AppID:   int32(appID),
		AppHash: cfg.User.APIHash,
		Session: sessionPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create mtproto client: %w", err)
	}
	return &Client{tg: client}, nil
}

func (c *Client) connect() error {
	if c.tg.IsConnected() {
		return nil
	}
	return c.tg.Connect()
}

func (c *Client) authorized() (bool, error) {
	return c.tg.IsAuthorized()
}

// Close tears down the MTProto connection. Safe to call when not
// connected.
func (c *Client) Close() error {
	if !c.tg.IsConnected() {
		return nil
	}
	return c.tg.Disconnect()
}

func (c *Client) GetMe(ctx context.Context) (Profile, error) {
	me, err := c.tg.GetMe()
	if err != nil {
		return Profile{}, fmt.Errorf("get me: %w", err)
	}
	return Profile{
		ID:        me.ID,
		FirstName: me.FirstName,
		LastName:  me.LastName,
		Username:  me.Username,
		Phone:     me.Phone,
	}, nil
}

func (c *Client) SendMessage(ctx context.Context, ref, text string, replyTo int) (SendResult, error) {
	opts := &tg.SendOptions{}
	if replyTo != 0 {
		opts.ReplyID = int32(replyTo)
	}
	m, err := c.tg.SendMessage(resolveRef(ref), text, opts)
	if err != nil {
		return SendResult{}, fmt.Errorf("send message: %w", err)
	}
	return SendResult{MessageID: int(m.ID), ChatID: m.ChatID()}, nil
}

func (c *Client) SendFile(ctx context.Context, ref, path, caption string, asVoice bool) (SendResult, error) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return SendResult{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	opts := &tg.MediaOptions{Caption: caption}
	if asVoice {
		opts.Attributes = []tg.DocumentAttribute{
			&tg.DocumentAttributeAudio{Voice: true},
		}
	}
	m, err := c.tg.SendMedia(resolveRef(ref), path, opts)
	if err != nil {
		return SendResult{}, fmt.Errorf("send file: %w", err)
	}
	return SendResult{MessageID: int(m.ID), ChatID: m.ChatID()}, nil
}

func (c *Client) GetMessages(ctx context.Context, ref string, limit int) ([]Message, error) {
	peer, err := c.tg.ResolvePeer(resolveRef(ref))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	res, err := c.tg.MessagesGetHistory(&tg.MessagesGetHistoryParams{
		Peer:  peer,
		Limit: int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	var raw []tg.Message
	switch h := res.(type) {
	case *tg.MessagesMessagesObj:
		raw = h.Messages
	case *tg.MessagesMessagesSlice:
		raw = h.Messages
	case *tg.MessagesChannelMessages:
		raw = h.Messages
	}

	return messagesFromRaw(raw), nil
}

func (c *Client) SearchDialogs(ctx context.Context, query string, limit int) ([]Dialog, error) {
	res, err := c.tg.MessagesGetDialogs(&tg.MessagesGetDialogsParams{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("get dialogs: %w", err)
	}

	var all []Dialog
	switch d := res.(type) {
	case *tg.MessagesDialogsObj:
		all = dialogsFromRaw(d.Dialogs, d.Users, d.Chats)
	case *tg.MessagesDialogsSlice:
		all = dialogsFromRaw(d.Dialogs, d.Users, d.Chats)
	}
	return matchDialogs(all, query, limit), nil
}

func (c *Client) DownloadMedia(ctx context.Context, ref string, messageID int, savePath string) (string, error) {
	msgs, err := c.tg.GetMessages(resolveRef(ref), &tg.SearchOption{
		IDs: []int32{int32(messageID)},
	})
	if err != nil {
		return "", fmt.Errorf("fetch message %d: %w", messageID, err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("%w: message %d", ErrNotFound, messageID)
	}
	m := msgs[0]
	if !m.IsMedia() {
		return "", fmt.Errorf("%w: message %d has no media", ErrNotFound, messageID)
	}
	path, err := c.tg.DownloadMedia(&m, &tg.DownloadOptions{FileName: savePath})
	if err != nil {
		return "", fmt.Errorf("download media: %w", err)
	}
	return path, nil
}

func (c *Client) EditMessage(ctx context.Context, ref string, messageID int, text string) (int, error) {
	if _, err := c.tg.EditMessage(resolveRef(ref), int32(messageID), text); err != nil {
		return 0, fmt.Errorf("edit message %d: %w", messageID, err)
	}
	return messageID, nil
}

func (c *Client) DeleteMessages(ctx context.Context, ref string, ids []int) (int, error) {
	ids32 := make([]int32, len(ids))
	for i, id := range ids {
		ids32[i] = int32(id)
	}
	if _, err := c.tg.DeleteMessages(resolveRef(ref), ids32); err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	// The backend silently skips ids it cannot delete; report what was
	// requested rather than guessing at the affected count.
	return len(ids), nil
}
