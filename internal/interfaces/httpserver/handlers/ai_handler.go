package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/metrics"
	"chat-relay/internal/infrastructure/storage"
	"chat-relay/internal/interfaces/httpserver/requests"
	"chat-relay/internal/interfaces/httpserver/responses"
	"chat-relay/internal/utils/platformerrors"
)

// AIHandler exposes the gateway endpoints in front of the agent.
type AIHandler struct {
	service relay.Service
	log     zerolog.Logger
}

func NewAIHandler(service relay.Service, log zerolog.Logger) *AIHandler {
	return &AIHandler{
		service: service,
		log:     log.With().Str("component", "ai-handler").Logger(),
	}
}

// Query godoc
// @Summary      Query the agent
// @Description  Forwards the query to the agent and relays its JSON reply unchanged. A file reference without text is sent to the agent's file processor.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      requests.QueryRequest  true  "Query"
// @Success      200      {object}  responses.AgentResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/ai/query [post]
func (h *AIHandler) Query(c *gin.Context) {
	var req requests.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "query is required")
		return
	}

	raw, err := h.service.Query(c.Request.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, relay.ErrQueryRequired) {
			platformerrors.WriteValidationError(c, "query is required")
			return
		}
		h.log.Error().Err(err).Msg("agent query failed")
		_ = c.Error(err)
		platformerrors.WriteInternalError(c, "Failed to process query")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// Upload godoc
// @Summary      Upload a file
// @Description  Stores a multipart file and returns the URL the agent and clients can reference.
// @Tags         ai
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200   {object}  responses.UploadResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      413   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /api/ai/upload [post]
func (h *AIHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		platformerrors.WriteValidationError(c, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open multipart file")
		platformerrors.WriteInternalError(c, "Failed to upload file")
		return
	}
	defer file.Close()

	stored, err := h.service.Upload(c.Request.Context(), relay.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		metrics.RecordUpload(header.Header.Get("Content-Type"), "error", header.Size)
		if errors.Is(err, relay.ErrFileTooLarge) {
			responses.HandleError(c, err, "Failed to upload file", h.log)
			return
		}
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		_ = c.Error(err)
		platformerrors.WriteInternalError(c, "Failed to upload file")
		return
	}

	metrics.RecordUpload(stored.MediaType, "success", stored.Size)
	c.JSON(http.StatusOK, responses.BuildUploadResponse(stored))
}

// ServeFile godoc
// @Summary      Download an uploaded file
// @Description  Streams a previously uploaded file.
// @Tags         ai
// @Produce      octet-stream
// @Param        name  path  string  true  "Stored file key"
// @Success      200   "binary data"
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /uploads/{name} [get]
func (h *AIHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("name"), "/")

	reader, contentType, err := h.service.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, relay.ErrFileNotFound) || errors.Is(err, storage.ErrObjectNotFound) {
			platformerrors.WriteNotFound(c, "file not found")
			return
		}
		responses.HandleError(c, err, "Failed to read file", h.log)
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("stream interrupted")
	}
}
