package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/metrics"
	"chatrelay/internal/relay"
	"chatrelay/internal/web"
)

const audioField = "audio"

// ChatRelay answers one chat message.
type ChatRelay interface {
	Reply(ctx context.Context, message, language string) (string, error)
}

// TranscribeRelay turns one audio clip into text.
type TranscribeRelay interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Handler wires HTTP routes to the chat and transcription relays.
type Handler struct {
	chat           ChatRelay
	transcribe     TranscribeRelay
	maxUploadBytes int64
}

// NewHandler constructs a Handler instance.
func NewHandler(chat ChatRelay, transcribe TranscribeRelay, maxUploadBytes int64) *Handler {
	return &Handler{
		chat:           chat,
		transcribe:     transcribe,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(RequestID())
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.POST("/chat", h.handleChat)
	api.POST("/transcribe", h.handleTranscribe)

	web.Register(router)
}

// Message pointers distinguish a missing field from an empty one.
type chatRequest struct {
	Message  *string `json:"message"`
	Language *string `json:"language"`
}

func (h *Handler) handleChat(c *gin.Context) {
	start := time.Now()
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "chat", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "invalid request body"})
		return
	}
	if req.Message == nil {
		h.fail(c, "chat", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "message is required"})
		return
	}
	language := ""
	if req.Language != nil {
		language = *req.Language
	}

	reply, err := h.chat.Reply(c.Request.Context(), *req.Message, language)
	if err != nil {
		h.fail(c, "chat", start, err)
		return
	}
	metrics.Observe("chat", "ok", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) handleTranscribe(c *gin.Context) {
	start := time.Now()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.fail(c, "transcribe", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "invalid multipart form"})
		return
	}
	file, err := c.FormFile(audioField)
	if err != nil {
		h.fail(c, "transcribe", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "audio file is required"})
		return
	}
	if file.Size == 0 {
		h.fail(c, "transcribe", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "audio file is empty"})
		return
	}
	if file.Size > h.maxUploadBytes {
		h.fail(c, "transcribe", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "audio file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.fail(c, "transcribe", start, &relay.Error{Kind: relay.KindBadRequest, Detail: "open audio failed"})
		return
	}
	defer f.Close()

	text, err := h.transcribe.Transcribe(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "transcribe", start, err)
		return
	}
	metrics.Observe("transcribe", "ok", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// fail renders err as {error, detail?} with the status of its kind.
func (h *Handler) fail(c *gin.Context, relayName string, start time.Time, err error) {
	relayErr := relay.AsError(err)
	metrics.Observe(relayName, relayErr.Kind.String(), time.Since(start))
	log.Printf("%s relay [%s]: %v", relayName, RequestIDFromContext(c), err)

	body := gin.H{"error": relayErr.Kind.String()}
	if relayErr.Detail != "" {
		body["detail"] = relayErr.Detail
	}
	c.JSON(relayErr.Kind.Status(), body)
}
