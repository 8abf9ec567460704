package mcp

import (
	"tgd/internal/botapi"
	"tgd/internal/telegram"
)

// SendMessageInput is the input for the user_send_message MCP tool.
type SendMessageInput struct {
	Entity  string `json:"entity" jsonschema:"Recipient: @username, phone number, numeric id, or 'me' for Saved Messages"`
	Message string `json:"message" jsonschema:"Message text"`
	ReplyTo int    `json:"reply_to,omitempty" jsonschema:"Message id to reply to"`
}

// SendMessageOutput is the output for the user_send_message MCP tool.
type SendMessageOutput struct {
	MessageID int   `json:"message_id" jsonschema:"ID of the sent message"`
	ChatID    int64 `json:"chat_id" jsonschema:"ID of the chat the message landed in"`
}

// SendFileInput is the input for the user_send_file MCP tool.
type SendFileInput struct {
	Entity   string `json:"entity" jsonschema:"Recipient: @username, phone number, numeric id, or 'me'"`
	FilePath string `json:"file_path" jsonschema:"Absolute path of the local file to upload"`
	Caption  string `json:"caption,omitempty" jsonschema:"Optional caption"`
	Voice    bool   `json:"voice,omitempty" jsonschema:"Send as a voice note instead of a document"`
}

// GetMessagesInput is the input for the user_get_messages MCP tool.
type GetMessagesInput struct {
	Entity string `json:"entity" jsonschema:"Conversation: @username, phone number, numeric id, or 'me'"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max messages to return, newest first. Default 20"`
}

// GetMessagesOutput is the output for the user_get_messages MCP tool.
type GetMessagesOutput struct {
	Messages []telegram.Message `json:"messages" jsonschema:"Messages, newest first"`
	Count    int                `json:"count"`
}

// SearchDialogsInput is the input for the user_search_dialogs MCP tool.
type SearchDialogsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive substring of the dialog name. Empty lists most recent dialogs"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max dialogs to return. Default 20"`
}

// SearchDialogsOutput is the output for the user_search_dialogs MCP tool.
type SearchDialogsOutput struct {
	Dialogs []telegram.Dialog `json:"dialogs"`
	Count   int               `json:"count"`
}

// DownloadMediaInput is the input for the user_download_media MCP tool.
type DownloadMediaInput struct {
	Entity    string `json:"entity" jsonschema:"Conversation the message lives in"`
	MessageID int    `json:"message_id" jsonschema:"ID of the message carrying the media"`
	SavePath  string `json:"save_path" jsonschema:"Local path to write the file to"`
}

// DownloadMediaOutput is the output for the user_download_media MCP tool.
type DownloadMediaOutput struct {
	Path string `json:"path" jsonschema:"Path the media was saved to"`
}

// EditMessageInput is the input for the user_edit_message MCP tool.
type EditMessageInput struct {
	Entity    string `json:"entity" jsonschema:"Conversation the message lives in"`
	MessageID int    `json:"message_id" jsonschema:"ID of the message to edit"`
	Text      string `json:"text" jsonschema:"Replacement text"`
}

// EditMessageOutput is the output for the user_edit_message MCP tool.
type EditMessageOutput struct {
	MessageID int `json:"message_id"`
}

// DeleteMessagesInput is the input for the user_delete_messages MCP tool.
type DeleteMessagesInput struct {
	Entity     string `json:"entity" jsonschema:"Conversation the messages live in"`
	MessageIDs []int  `json:"message_ids" jsonschema:"IDs of the messages to delete"`
}

// DeleteMessagesOutput is the output for the user_delete_messages MCP tool.
type DeleteMessagesOutput struct {
	Deleted int `json:"deleted" jsonschema:"Best-effort count of deleted messages"`
}

// CheckDaemonInput is the input for the user_check_daemon MCP tool.
// No fields — the daemon address comes from the config loaded at startup.
type CheckDaemonInput struct{}

// CheckDaemonOutput is the output for the user_check_daemon MCP tool.
type CheckDaemonOutput struct {
	Running bool              `json:"running" jsonschema:"Whether the daemon answered the health probe"`
	User    *telegram.Profile `json:"user,omitempty" jsonschema:"Signed-in account when healthy"`
	Error   string            `json:"error,omitempty" jsonschema:"Failure description when unhealthy"`
}

// BotSendMessageInput is the input for the bot_send_message MCP tool.
type BotSendMessageInput struct {
	Chat    string `json:"chat,omitempty" jsonschema:"Numeric chat id or @channelusername. Empty uses the configured default chat"`
	Message string `json:"message" jsonschema:"Message text"`
}

// BotSendMessageOutput is the output for the bot_send_message MCP tool.
type BotSendMessageOutput struct {
	MessageID int `json:"message_id"`
}

// BotSendFileInput is the input for the bot_send_file MCP tool.
type BotSendFileInput struct {
	Chat     string `json:"chat,omitempty" jsonschema:"Numeric chat id or @channelusername. Empty uses the configured default chat"`
	FilePath string `json:"file_path" jsonschema:"Absolute path of the local file to upload"`
	Caption  string `json:"caption,omitempty" jsonschema:"Optional caption"`
	Voice    bool   `json:"voice,omitempty" jsonschema:"Send as a voice note instead of a document"`
}

// BotSendFileOutput is the output for the bot_send_file MCP tool.
type BotSendFileOutput struct {
	MessageID int `json:"message_id"`
}

// BotSendPhotoInput is the input for the bot_send_photo MCP tool.
type BotSendPhotoInput struct {
	Chat     string `json:"chat,omitempty" jsonschema:"Numeric chat id or @channelusername. Empty uses the configured default chat"`
	FilePath string `json:"file_path" jsonschema:"Absolute path of the local image to upload"`
	Caption  string `json:"caption,omitempty" jsonschema:"Optional caption"`
}

// BotSendVoiceInput is the input for the bot_send_voice MCP tool.
type BotSendVoiceInput struct {
	Chat     string `json:"chat,omitempty" jsonschema:"Numeric chat id or @channelusername. Empty uses the configured default chat"`
	FilePath string `json:"file_path" jsonschema:"Absolute path of the audio file (.ogg with OPUS preferred)"`
	Caption  string `json:"caption,omitempty" jsonschema:"Optional caption"`
}

// BotGetMessagesInput is the input for the bot_get_messages MCP tool.
type BotGetMessagesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max messages to return. Default 10"`
}

// BotGetMessagesOutput is the output for the bot_get_messages MCP tool.
type BotGetMessagesOutput struct {
	Messages []botapi.Message `json:"messages" jsonschema:"Messages delivered to the bot"`
	Count    int              `json:"count"`
}

// BotDownloadFileInput is the input for the bot_download_file MCP tool.
type BotDownloadFileInput struct {
	FileID   string `json:"file_id" jsonschema:"Telegram file_id from a message delivered to the bot"`
	SavePath string `json:"save_path" jsonschema:"Local path to write the file to"`
}

// BotDownloadFileOutput is the output for the bot_download_file MCP tool.
type BotDownloadFileOutput struct {
	Path string `json:"path" jsonschema:"Path the file was saved to"`
}
