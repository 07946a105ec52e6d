package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/infrastructure/metrics"
	"chat-relay/internal/interfaces/httpserver/middlewares"
	"chat-relay/internal/interfaces/httpserver/requests"
	"chat-relay/internal/interfaces/httpserver/responses"
	"chat-relay/internal/utils/platformerrors"
)

const (
	eventBuffer       = 64
	heartbeatInterval = 15 * time.Second
)

// ConversationHandler exposes server-hosted conversations.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("component", "conversation-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create a conversation
// @Tags         conversations
// @Produce      json
// @Success      201  {object}  responses.ConversationResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	sess, err := h.service.Create(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to create conversation", h.log)
		return
	}
	c.JSON(http.StatusCreated, responses.BuildConversationResponse(sess))
}

// List godoc
// @Summary      List conversations
// @Tags         conversations
// @Produce      json
// @Success      200  {object}  responses.ConversationListResponse
// @Router       /api/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to list conversations", h.log)
		return
	}
	c.JSON(http.StatusOK, responses.BuildConversationListResponse(sessions))
}

// Get godoc
// @Summary      Get a conversation
// @Description  Returns the conversation log in sequence order and the pending flag.
// @Tags         conversations
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  responses.ConversationResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to get conversation", h.log)
		return
	}
	c.JSON(http.StatusOK, responses.BuildConversationResponse(sess))
}

// Delete godoc
// @Summary      Delete a conversation
// @Tags         conversations
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  responses.DeletedResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "Failed to delete conversation", h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DeletedResponse{ID: id, Object: "conversation.deleted", Deleted: true})
}

// Submit godoc
// @Summary      Send a message
// @Description  Uploads the optional file, appends the user message, queries the agent and appends its reply. An unavailable agent yields a fallback reply with degraded=true.
// @Tags         conversations
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path      string                         true   "Conversation ID"
// @Param        request  body      requests.SubmitMessageRequest  false  "Message (JSON)"
// @Param        text     formData  string                         false  "Message text (multipart)"
// @Param        file     formData  file                           false  "Attachment (multipart)"
// @Success      200      {object}  responses.SubmitResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Router       /api/conversations/{id}/messages [post]
func (h *ConversationHandler) Submit(c *gin.Context) {
	sub, err := h.bindSubmission(c)
	if err != nil {
		metrics.RecordSubmission(metrics.OutcomeRejected)
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	res, err := h.service.Submit(c.Request.Context(), c.Param("id"), sub)
	if err != nil {
		var uploadErr *conversation.UploadError
		switch {
		case errors.As(err, &uploadErr):
			metrics.RecordSubmission(metrics.OutcomeUploadFailed)
		case errors.Is(err, conversation.ErrEmptySubmission), errors.Is(err, conversation.ErrSubmissionPending):
			metrics.RecordSubmission(metrics.OutcomeRejected)
		}
		responses.HandleError(c, err, "Failed to submit message", h.log)
		return
	}

	if res.Degraded {
		metrics.RecordSubmission(metrics.OutcomeFallback)
	} else {
		metrics.RecordSubmission(metrics.OutcomeAnswered)
	}
	c.JSON(http.StatusOK, responses.BuildSubmitResponse(res))
}

// Events godoc
// @Summary      Stream conversation events
// @Description  Server-Sent Events stream. The first event is a snapshot of the conversation, followed by message_appended, message_replaced, pending_changed and notice events.
// @Tags         conversations
// @Produce      text/event-stream
// @Param        id   path  string  true  "Conversation ID"
// @Success      200  "event stream"
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id}/events [get]
func (h *ConversationHandler) Events(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to get conversation", h.log)
		return
	}

	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		platformerrors.WriteInternalError(c, "streaming unsupported")
		return
	}

	events := make(chan conversation.Event, eventBuffer)
	unsubscribe := sess.Subscribe(func(ev conversation.Event) {
		select {
		case events <- ev:
		default:
			h.log.Warn().Str("conversation_id", sess.ID()).Str("event", string(ev.Type)).Msg("event stream lagging, dropping event")
		}
	})
	defer unsubscribe()

	c.Status(http.StatusOK)
	h.writeEvent(c.Writer, "snapshot", responses.BuildConversationResponse(sess))
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			h.writeEvent(c.Writer, string(ev.Type), responses.BuildEventResponse(ev))
			flusher.Flush()
		case <-heartbeat.C:
			_, _ = io.WriteString(c.Writer, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (h *ConversationHandler) bindSubmission(c *gin.Context) (conversation.Submission, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		sub := conversation.Submission{Text: c.PostForm("text")}

		header, err := c.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return sub, nil
		}
		if err != nil {
			return sub, fmt.Errorf("invalid multipart body: %w", err)
		}

		file, err := header.Open()
		if err != nil {
			return sub, fmt.Errorf("open file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return sub, fmt.Errorf("read file: %w", err)
		}
		sub.File = &conversation.File{
			Name:      header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Data:      data,
		}
		return sub, nil
	}

	var req requests.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return conversation.Submission{}, errors.New("invalid request body")
	}
	return conversation.Submission{Text: req.Text}, nil
}

func (h *ConversationHandler) writeEvent(w io.Writer, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}
	fmt.Fprintf(w, "event: %s\n", name)
	fmt.Fprintf(w, "data: %s\n\n", data)
}
