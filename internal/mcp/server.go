// Package mcp exposes the daemon's operations as MCP tools over stdio.
// The server is a thin shim: user tools call the daemon's control
// channel, bot tools hit the Bot API directly. It never opens the
// MTProto session itself.
package mcp

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"tgd/internal/botapi"
	"tgd/internal/config"
	"tgd/internal/daemon"
)

// Server is the tgd MCP server.
type Server struct {
	cfg     *config.Config
	client  *daemon.Client
	version string
	server  *gomcp.Server

	botOnce sync.Once
	bot     *botapi.Client
	botErr  error
}

// Option configures the MCP server.
type Option func(*Server)

// WithVersion sets the server version string.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates the MCP server. The daemon does not need to be
// running yet; user tools report a clear error until it is.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		client:  daemon.NewClient(cfg.Daemon.URL()),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "tgd",
			Version: s.version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdin/stdout. It blocks until the
// client disconnects or the context is canceled. A daemon health probe
// runs first so a missing daemon is visible immediately rather than on
// the first tool call.
func (s *Server) Run(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if _, err := s.client.Health(probeCtx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: daemon not healthy, user tools will fail: %v\n", err)
	}
	cancel()

	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// botClient builds the Bot API client on first use. Construction
// validates the token against the network, so it is deferred until a
// bot tool actually runs.
func (s *Server) botClient() (*botapi.Client, error) {
	s.botOnce.Do(func() {
		defaultChat, _ := strconv.ParseInt(s.cfg.Bot.ChatID, 10, 64)
		s.bot, s.botErr = botapi.New(s.cfg.Bot.Token, defaultChat)
	})
	return s.bot, s.botErr
}

// registerTools registers all MCP tool handlers with the server.
func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_send_message",
		Description: "Send a message from the signed-in account. Entity accepts @username, phone number, numeric id, or 'me' for Saved Messages",
	}, s.handleSendMessage)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_send_file",
		Description: "Upload a local file to a conversation, optionally as a voice note",
	}, s.handleSendFile)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_get_messages",
		Description: "Fetch recent messages from a conversation, newest first",
	}, s.handleGetMessages)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_search_dialogs",
		Description: "Search the account's dialogs by name substring, or list the most recent ones",
	}, s.handleSearchDialogs)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_download_media",
		Description: "Download the media attached to a message to a local path",
	}, s.handleDownloadMedia)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_edit_message",
		Description: "Edit the text of a previously sent message",
	}, s.handleEditMessage)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_delete_messages",
		Description: "Delete messages from a conversation by id",
	}, s.handleDeleteMessages)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "user_check_daemon",
		Description: "Check whether the tgd daemon is running and signed in",
	}, s.handleCheckDaemon)

	// Bot API tools - stateless, work without the daemon
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_send_message",
		Description: "Send a message as the configured bot (Bot API, no daemon needed)",
	}, s.handleBotSendMessage)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_send_file",
		Description: "Upload a file as the configured bot, optionally as a voice note (Bot API, no daemon needed)",
	}, s.handleBotSendFile)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_send_photo",
		Description: "Upload an image as the configured bot so it renders inline (Bot API, no daemon needed)",
	}, s.handleBotSendPhoto)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_send_voice",
		Description: "Send a voice message as the configured bot; .ogg with OPUS preferred (Bot API, no daemon needed)",
	}, s.handleBotSendVoice)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_get_messages",
		Description: "Read messages recently sent to the configured bot (Bot API, no daemon needed)",
	}, s.handleBotGetMessages)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bot_download_file",
		Description: "Download a file sent to the configured bot by file_id (Bot API, no daemon needed)",
	}, s.handleBotDownloadFile)
}
