package responses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/store"
	"chat-relay/internal/utils/platformerrors"
)

// ErrorResponse documents the error body in swagger.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError maps domain errors to HTTP responses. Unknown errors become a
// 500 carrying message rather than the internal error text.
func HandleError(c *gin.Context, err error, message string, log zerolog.Logger) {
	_ = c.Error(err)

	var uploadErr *conversation.UploadError
	switch {
	case errors.Is(err, store.ErrConversationNotFound):
		platformerrors.WriteNotFound(c, "conversation not found")
	case errors.Is(err, relay.ErrFileNotFound):
		platformerrors.WriteNotFound(c, "file not found")
	case errors.Is(err, conversation.ErrSubmissionPending):
		platformerrors.WriteConflict(c, err.Error())
	case errors.Is(err, conversation.ErrEmptySubmission), errors.Is(err, relay.ErrQueryRequired):
		platformerrors.WriteValidationError(c, err.Error())
	case errors.As(err, &uploadErr):
		platformerrors.WriteBadGateway(c, "Failed to upload file")
	case errors.Is(err, relay.ErrFileTooLarge):
		platformerrors.WriteHTTPError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeTooLarge, err.Error(), err), log)
	default:
		if platformErr := platformerrors.GetPlatformError(err); platformErr != nil {
			platformerrors.WriteHTTPError(c, platformErr, log)
			return
		}
		log.Error().Err(err).Str("request_id", platformerrors.RequestIDFromContext(c.Request.Context())).Msg(message)
		platformerrors.WriteInternalError(c, message)
	}
}
