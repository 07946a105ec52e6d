package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteHTTPError writes a PlatformError as an HTTP response.
func WriteHTTPError(c *gin.Context, err *PlatformError, log zerolog.Logger) {
	if err == nil {
		writeDetail(c, http.StatusInternalServerError, "unknown error", ErrorTypeInternal)
		return
	}

	LogError(log, err)

	c.JSON(ErrorTypeToHTTPStatus(err.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   err.Message,
			Type:      ErrorTypeString(err.Type),
			Code:      err.UUID,
			RequestID: err.RequestID,
		},
	})
}

// WriteError writes a generic error as an HTTP response.
// Errors that are not PlatformErrors are treated as internal.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		writeDetail(c, http.StatusInternalServerError, "unknown error", ErrorTypeInternal)
		return
	}

	if platformErr := GetPlatformError(err); platformErr != nil {
		WriteHTTPError(c, platformErr, log)
		return
	}

	log.Error().Err(err).Msg("unhandled error")
	writeDetail(c, http.StatusInternalServerError, err.Error(), ErrorTypeInternal)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(c *gin.Context, message string) {
	writeDetail(c, http.StatusNotFound, message, ErrorTypeNotFound)
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	writeDetail(c, http.StatusBadRequest, message, ErrorTypeValidation)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(c *gin.Context, message string) {
	writeDetail(c, http.StatusConflict, message, ErrorTypeConflict)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(c *gin.Context, message string) {
	writeDetail(c, http.StatusInternalServerError, message, ErrorTypeInternal)
}

// WriteBadGateway writes a 502 Bad Gateway response.
func WriteBadGateway(c *gin.Context, message string) {
	writeDetail(c, http.StatusBadGateway, message, ErrorTypeExternal)
}

func writeDetail(c *gin.Context, status int, message string, errorType ErrorType) {
	detail := &HTTPErrorDetail{
		Message: message,
		Type:    ErrorTypeString(errorType),
	}
	if c.Request != nil {
		detail.RequestID = RequestIDFromContext(c.Request.Context())
	}
	c.JSON(status, HTTPErrorResponse{Error: detail})
}

// ErrorTypeString converts an ErrorType to a snake_case string for API responses.
func ErrorTypeString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeTooLarge:
		return "too_large_error"
	case ErrorTypeNotImplemented:
		return "not_implemented_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeInternal:
		fallthrough
	default:
		return "internal_error"
	}
}
