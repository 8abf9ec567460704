package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"tgd/internal/telegram"
)

// ConnectionSource hands out the shared backend connection. The server
// never caches the result; every request goes back through the source
// so authorization is re-checked after session loss.
type ConnectionSource interface {
	Conn(ctx context.Context) (telegram.Backend, error)
}

// Server is the local HTTP control channel. One route per operation,
// every response a JSON envelope with at least an "ok" boolean.
// Handlers run concurrently; serialization of backend traffic is the
// MTProto transport's job, not ours.
type Server struct {
	source ConnectionSource
	logger *slog.Logger
	engine *gin.Engine
}

func NewServer(source ConnectionSource, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	s := &Server{source: source, logger: logger, engine: engine}
	engine.Use(gin.Recovery(), s.requestLog())
	s.routes()
	return s
}

// Handler exposes the router for net/http and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/send_message", s.handleSendMessage)
	s.engine.POST("/send_file", s.handleSendFile)
	s.engine.POST("/get_messages", s.handleGetMessages)
	s.engine.POST("/search_dialogs", s.handleSearchDialogs)
	s.engine.POST("/download_media", s.handleDownloadMedia)
	s.engine.POST("/edit_message", s.handleEditMessage)
	s.engine.POST("/delete_messages", s.handleDeleteMessages)
}

func (s *Server) requestLog() gin.HandlerFunc {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // request ids, not secrets
	return func(c *gin.Context) {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
}

func respondOK(c *gin.Context, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondErr(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func missingField(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": field + " is required"})
}

// backend resolves the shared connection, writing the failure envelope
// itself. Callers bail out on nil.
func (s *Server) backend(c *gin.Context) telegram.Backend {
	conn, err := s.source.Conn(c.Request.Context())
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return nil
	}
	return conn
}

// handleHealth reports daemon liveness plus the signed-in account. It
// answers 200 in every case; failures ride in the envelope.
func (s *Server) handleHealth(c *gin.Context) {
	conn, err := s.source.Conn(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	me, err := conn.GetMe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondOK(c, gin.H{"user": me})
}

type sendMessageRequest struct {
	Entity  string `json:"entity"`
	Message string `json:"message"`
	ReplyTo int    `json:"reply_to"`
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if req.Message == "" {
		missingField(c, "message")
		return
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	res, err := conn.SendMessage(c.Request.Context(), req.Entity, req.Message, req.ReplyTo)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"message_id": res.MessageID, "chat_id": res.ChatID})
}

type sendFileRequest struct {
	Entity   string `json:"entity"`
	FilePath string `json:"file_path"`
	Caption  string `json:"caption"`
	Voice    bool   `json:"voice"`
}

func (s *Server) handleSendFile(c *gin.Context) {
	var req sendFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if req.FilePath == "" {
		missingField(c, "file_path")
		return
	}
	// Fail fast on a bad local path before touching the backend.
	if fi, err := os.Stat(req.FilePath); err != nil || fi.IsDir() {
		respondErr(c, http.StatusBadRequest,
			fmt.Errorf("%w: %s", telegram.ErrFileNotFound, req.FilePath))
		return
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	res, err := conn.SendFile(c.Request.Context(), req.Entity, req.FilePath, req.Caption, req.Voice)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"message_id": res.MessageID, "chat_id": res.ChatID})
}

type getMessagesRequest struct {
	Entity string `json:"entity"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleGetMessages(c *gin.Context) {
	var req getMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	msgs, err := conn.GetMessages(c.Request.Context(), req.Entity, req.Limit)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"messages": msgs, "count": len(msgs)})
}

type searchDialogsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearchDialogs(c *gin.Context) {
	var req searchDialogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	dialogs, err := conn.SearchDialogs(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"dialogs": dialogs, "count": len(dialogs)})
}

type downloadMediaRequest struct {
	Entity    string `json:"entity"`
	MessageID int    `json:"message_id"`
	SavePath  string `json:"save_path"`
}

func (s *Server) handleDownloadMedia(c *gin.Context) {
	var req downloadMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if req.MessageID == 0 {
		missingField(c, "message_id")
		return
	}
	if req.SavePath == "" {
		missingField(c, "save_path")
		return
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	path, err := conn.DownloadMedia(c.Request.Context(), req.Entity, req.MessageID, req.SavePath)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"path": path})
}

type editMessageRequest struct {
	Entity    string `json:"entity"`
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
}

func (s *Server) handleEditMessage(c *gin.Context) {
	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if req.MessageID == 0 {
		missingField(c, "message_id")
		return
	}
	if req.Text == "" {
		missingField(c, "text")
		return
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	id, err := conn.EditMessage(c.Request.Context(), req.Entity, req.MessageID, req.Text)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"message_id": id})
}

type deleteMessagesRequest struct {
	Entity     string `json:"entity"`
	MessageIDs []int  `json:"message_ids"`
}

func (s *Server) handleDeleteMessages(c *gin.Context) {
	var req deleteMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	if req.Entity == "" {
		missingField(c, "entity")
		return
	}
	if len(req.MessageIDs) == 0 {
		missingField(c, "message_ids")
		return
	}

	conn := s.backend(c)
	if conn == nil {
		return
	}
	deleted, err := conn.DeleteMessages(c.Request.Context(), req.Entity, req.MessageIDs)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"deleted": deleted})
}
