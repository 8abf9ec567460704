package mcp

import (
	"context"
	"strings"
	"testing"

	"tgd/internal/config"
	"tgd/internal/daemon"
)

func newTestMCPServer(daemonURL string) *Server {
	cfg := &config.Config{}
	s := NewServer(cfg)
	s.client = daemon.NewClient(daemonURL)
	return s
}

func TestToolInputValidation(t *testing.T) {
	// Point at a dead port: validation must reject before any call
	// goes out, so these never touch the network.
	s := newTestMCPServer("http://127.0.0.1:1")
	ctx := context.Background()

	t.Run("send_message without entity", func(t *testing.T) {
		_, _, err := s.handleSendMessage(ctx, nil, SendMessageInput{Message: "hi"})
		if err == nil || !strings.Contains(err.Error(), "entity") {
			t.Errorf("err = %v, want entity required", err)
		}
	})

	t.Run("send_message without message", func(t *testing.T) {
		_, _, err := s.handleSendMessage(ctx, nil, SendMessageInput{Entity: "@a"})
		if err == nil || !strings.Contains(err.Error(), "message") {
			t.Errorf("err = %v, want message required", err)
		}
	})

	t.Run("send_file without file_path", func(t *testing.T) {
		_, _, err := s.handleSendFile(ctx, nil, SendFileInput{Entity: "@a"})
		if err == nil || !strings.Contains(err.Error(), "file_path") {
			t.Errorf("err = %v, want file_path required", err)
		}
	})

	t.Run("get_messages without entity", func(t *testing.T) {
		_, _, err := s.handleGetMessages(ctx, nil, GetMessagesInput{})
		if err == nil || !strings.Contains(err.Error(), "entity") {
			t.Errorf("err = %v, want entity required", err)
		}
	})

	t.Run("download_media without save_path", func(t *testing.T) {
		_, _, err := s.handleDownloadMedia(ctx, nil, DownloadMediaInput{Entity: "@a", MessageID: 1})
		if err == nil || !strings.Contains(err.Error(), "save_path") {
			t.Errorf("err = %v, want save_path required", err)
		}
	})

	t.Run("edit_message without text", func(t *testing.T) {
		_, _, err := s.handleEditMessage(ctx, nil, EditMessageInput{Entity: "@a", MessageID: 1})
		if err == nil || !strings.Contains(err.Error(), "text") {
			t.Errorf("err = %v, want text required", err)
		}
	})

	t.Run("delete_messages without ids", func(t *testing.T) {
		_, _, err := s.handleDeleteMessages(ctx, nil, DeleteMessagesInput{Entity: "@a"})
		if err == nil || !strings.Contains(err.Error(), "message_ids") {
			t.Errorf("err = %v, want message_ids required", err)
		}
	})

	t.Run("bot_send_message without message", func(t *testing.T) {
		_, _, err := s.handleBotSendMessage(ctx, nil, BotSendMessageInput{})
		if err == nil || !strings.Contains(err.Error(), "message") {
			t.Errorf("err = %v, want message required", err)
		}
	})

	t.Run("bot_send_photo without file_path", func(t *testing.T) {
		_, _, err := s.handleBotSendPhoto(ctx, nil, BotSendPhotoInput{})
		if err == nil || !strings.Contains(err.Error(), "file_path") {
			t.Errorf("err = %v, want file_path required", err)
		}
	})

	t.Run("bot_send_voice without file_path", func(t *testing.T) {
		_, _, err := s.handleBotSendVoice(ctx, nil, BotSendVoiceInput{})
		if err == nil || !strings.Contains(err.Error(), "file_path") {
			t.Errorf("err = %v, want file_path required", err)
		}
	})

	t.Run("bot_download_file without file_id", func(t *testing.T) {
		_, _, err := s.handleBotDownloadFile(ctx, nil, BotDownloadFileInput{SavePath: "/tmp/x"})
		if err == nil || !strings.Contains(err.Error(), "file_id") {
			t.Errorf("err = %v, want file_id required", err)
		}
	})

	t.Run("bot_download_file without save_path", func(t *testing.T) {
		_, _, err := s.handleBotDownloadFile(ctx, nil, BotDownloadFileInput{FileID: "abc"})
		if err == nil || !strings.Contains(err.Error(), "save_path") {
			t.Errorf("err = %v, want save_path required", err)
		}
	})
}

func TestCheckDaemonDownIsNotAnError(t *testing.T) {
	s := newTestMCPServer("http://127.0.0.1:1")

	_, out, err := s.handleCheckDaemon(context.Background(), nil, CheckDaemonInput{})
	if err != nil {
		t.Fatalf("check_daemon must not error when the daemon is down: %v", err)
	}
	if out.Running {
		t.Error("Running = true with no daemon")
	}
	if out.Error == "" {
		t.Error("expected failure description")
	}
}

func TestBotToolsRequireToken(t *testing.T) {
	s := newTestMCPServer("http://127.0.0.1:1")

	_, _, err := s.handleBotSendMessage(context.Background(), nil, BotSendMessageInput{Message: "hi"})
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Errorf("err = %v, want token error", err)
	}

	_, _, err = s.handleBotGetMessages(context.Background(), nil, BotGetMessagesInput{})
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Errorf("bot_get_messages err = %v, want token error", err)
	}
}
