package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// handleSendMessage sends a message through the daemon.
func (s *Server) handleSendMessage(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input SendMessageInput,
) (*gomcp.CallToolResult, SendMessageOutput, error) {
	if input.Entity == "" {
		return nil, SendMessageOutput{}, fmt.Errorf("'entity' is required")
	}
	if input.Message == "" {
		return nil, SendMessageOutput{}, fmt.Errorf("'message' is required")
	}

	res, err := s.client.SendMessage(ctx, input.Entity, input.Message, input.ReplyTo)
	if err != nil {
		return nil, SendMessageOutput{}, fmt.Errorf("send message: %w", err)
	}
	return nil, SendMessageOutput{MessageID: res.MessageID, ChatID: res.ChatID}, nil
}

// handleSendFile uploads a local file through the daemon.
func (s *Server) handleSendFile(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input SendFileInput,
) (*gomcp.CallToolResult, SendMessageOutput, error) {
	if input.Entity == "" {
		return nil, SendMessageOutput{}, fmt.Errorf("'entity' is required")
	}
	if input.FilePath == "" {
		return nil, SendMessageOutput{}, fmt.Errorf("'file_path' is required")
	}

	res, err := s.client.SendFile(ctx, input.Entity, input.FilePath, input.Caption, input.Voice)
	if err != nil {
		return nil, SendMessageOutput{}, fmt.Errorf("send file: %w", err)
	}
	return nil, SendMessageOutput{MessageID: res.MessageID, ChatID: res.ChatID}, nil
}

// handleGetMessages fetches recent history for a conversation.
func (s *Server) handleGetMessages(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input GetMessagesInput,
) (*gomcp.CallToolResult, GetMessagesOutput, error) {
	if input.Entity == "" {
		return nil, GetMessagesOutput{}, fmt.Errorf("'entity' is required")
	}

	msgs, err := s.client.GetMessages(ctx, input.Entity, input.Limit)
	if err != nil {
		return nil, GetMessagesOutput{}, fmt.Errorf("get messages: %w", err)
	}
	return nil, GetMessagesOutput{Messages: msgs, Count: len(msgs)}, nil
}

// handleSearchDialogs searches the account's dialog list.
func (s *Server) handleSearchDialogs(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input SearchDialogsInput,
) (*gomcp.CallToolResult, SearchDialogsOutput, error) {
	dialogs, err := s.client.SearchDialogs(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchDialogsOutput{}, fmt.Errorf("search dialogs: %w", err)
	}
	return nil, SearchDialogsOutput{Dialogs: dialogs, Count: len(dialogs)}, nil
}

// handleDownloadMedia downloads message media to a local path.
func (s *Server) handleDownloadMedia(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input DownloadMediaInput,
) (*gomcp.CallToolResult, DownloadMediaOutput, error) {
	if input.Entity == "" {
		return nil, DownloadMediaOutput{}, fmt.Errorf("'entity' is required")
	}
	if input.MessageID == 0 {
		return nil, DownloadMediaOutput{}, fmt.Errorf("'message_id' is required")
	}
	if input.SavePath == "" {
		return nil, DownloadMediaOutput{}, fmt.Errorf("'save_path' is required")
	}

	path, err := s.client.DownloadMedia(ctx, input.Entity, input.MessageID, input.SavePath)
	if err != nil {
		return nil, DownloadMediaOutput{}, fmt.Errorf("download media: %w", err)
	}
	return nil, DownloadMediaOutput{Path: path}, nil
}

// handleEditMessage edits a previously sent message.
func (s *Server) handleEditMessage(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input EditMessageInput,
) (*gomcp.CallToolResult, EditMessageOutput, error) {
	if input.Entity == "" {
		return nil, EditMessageOutput{}, fmt.Errorf("'entity' is required")
	}
	if input.MessageID == 0 {
		return nil, EditMessageOutput{}, fmt.Errorf("'message_id' is required")
	}
	if input.Text == "" {
		return nil, EditMessageOutput{}, fmt.Errorf("'text' is required")
	}

	id, err := s.client.EditMessage(ctx, input.Entity, input.MessageID, input.Text)
	if err != nil {
		return nil, EditMessageOutput{}, fmt.Errorf("edit message: %w", err)
	}
	return nil, EditMessageOutput{MessageID: id}, nil
}

// handleDeleteMessages deletes messages by id.
func (s *Server) handleDeleteMessages(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input DeleteMessagesInput,
) (*gomcp.CallToolResult, DeleteMessagesOutput, error) {
	if input.Entity == "" {
		return nil, DeleteMessagesOutput{}, fmt.Errorf("'entity' is required")
	}
	if len(input.MessageIDs) == 0 {
		return nil, DeleteMessagesOutput{}, fmt.Errorf("'message_ids' is required")
	}

	deleted, err := s.client.DeleteMessages(ctx, input.Entity, input.MessageIDs)
	if err != nil {
		return nil, DeleteMessagesOutput{}, fmt.Errorf("delete messages: %w", err)
	}
	return nil, DeleteMessagesOutput{Deleted: deleted}, nil
}

// handleCheckDaemon probes the daemon health endpoint. Unlike the
// other user tools it never returns an error for an unhealthy daemon;
// the status rides in the output.
func (s *Server) handleCheckDaemon(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input CheckDaemonInput,
) (*gomcp.CallToolResult, CheckDaemonOutput, error) {
	user, err := s.client.Health(ctx)
	if err != nil {
		return nil, CheckDaemonOutput{Running: false, Error: err.Error()}, nil
	}
	return nil, CheckDaemonOutput{Running: true, User: &user}, nil
}

// handleBotSendMessage sends a message via the Bot API.
func (s *Server) handleBotSendMessage(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotSendMessageInput,
) (*gomcp.CallToolResult, BotSendMessageOutput, error) {
	if input.Message == "" {
		return nil, BotSendMessageOutput{}, fmt.Errorf("'message' is required")
	}

	bot, err := s.botClient()
	if err != nil {
		return nil, BotSendMessageOutput{}, err
	}
	id, err := bot.SendMessage(input.Chat, input.Message)
	if err != nil {
		return nil, BotSendMessageOutput{}, fmt.Errorf("bot send message: %w", err)
	}
	return nil, BotSendMessageOutput{MessageID: id}, nil
}

// handleBotSendFile uploads a file via the Bot API.
func (s *Server) handleBotSendFile(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotSendFileInput,
) (*gomcp.CallToolResult, BotSendFileOutput, error) {
	if input.FilePath == "" {
		return nil, BotSendFileOutput{}, fmt.Errorf("'file_path' is required")
	}

	bot, err := s.botClient()
	if err != nil {
		return nil, BotSendFileOutput{}, err
	}
	id, err := bot.SendFile(input.Chat, input.FilePath, input.Caption, input.Voice)
	if err != nil {
		return nil, BotSendFileOutput{}, fmt.Errorf("bot send file: %w", err)
	}
	return nil, BotSendFileOutput{MessageID: id}, nil
}

// handleBotSendPhoto uploads an image via the Bot API.
func (s *Server) handleBotSendPhoto(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotSendPhotoInput,
) (*gomcp.CallToolResult, BotSendFileOutput, error) {
	if input.FilePath == "" {
		return nil, BotSendFileOutput{}, fmt.Errorf("'file_path' is required")
	}

	bot, err := s.botClient()
	if err != nil {
		return nil, BotSendFileOutput{}, err
	}
	id, err := bot.SendPhoto(input.Chat, input.FilePath, input.Caption)
	if err != nil {
		return nil, BotSendFileOutput{}, fmt.Errorf("bot send photo: %w", err)
	}
	return nil, BotSendFileOutput{MessageID: id}, nil
}

// handleBotSendVoice uploads a voice message via the Bot API.
func (s *Server) handleBotSendVoice(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotSendVoiceInput,
) (*gomcp.CallToolResult, BotSendFileOutput, error) {
	if input.FilePath == "" {
		return nil, BotSendFileOutput{}, fmt.Errorf("'file_path' is required")
	}

	bot, err := s.botClient()
	if err != nil {
		return nil, BotSendFileOutput{}, err
	}
	id, err := bot.SendVoice(input.Chat, input.FilePath, input.Caption)
	if err != nil {
		return nil, BotSendFileOutput{}, fmt.Errorf("bot send voice: %w", err)
	}
	return nil, BotSendFileOutput{MessageID: id}, nil
}

// handleBotGetMessages reads messages delivered to the bot.
func (s *Server) handleBotGetMessages(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotGetMessagesInput,
) (*gomcp.CallToolResult, BotGetMessagesOutput, error) {
	bot, err := s.botClient()
	if err != nil {
		return nil, BotGetMessagesOutput{}, err
	}
	msgs, err := bot.GetMessages(input.Limit)
	if err != nil {
		return nil, BotGetMessagesOutput{}, fmt.Errorf("bot get messages: %w", err)
	}
	return nil, BotGetMessagesOutput{Messages: msgs, Count: len(msgs)}, nil
}

// handleBotDownloadFile downloads a file sent to the bot by file_id.
func (s *Server) handleBotDownloadFile(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input BotDownloadFileInput,
) (*gomcp.CallToolResult, BotDownloadFileOutput, error) {
	if input.FileID == "" {
		return nil, BotDownloadFileOutput{}, fmt.Errorf("'file_id' is required")
	}
	if input.SavePath == "" {
		return nil, BotDownloadFileOutput{}, fmt.Errorf("'save_path' is required")
	}

	bot, err := s.botClient()
	if err != nil {
		return nil, BotDownloadFileOutput{}, err
	}
	path, err := bot.DownloadFile(input.FileID, input.SavePath)
	if err != nil {
		return nil, BotDownloadFileOutput{}, fmt.Errorf("bot download file: %w", err)
	}
	return nil, BotDownloadFileOutput{Path: path}, nil
}
