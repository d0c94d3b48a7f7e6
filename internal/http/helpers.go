package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/giftags/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// Error codes for failures the bot can act on.
const (
	CodeNotFound         = "not_found"
	CodeInvalidGifIDType = "invalid_gif_id_type"
	CodeInvalidGifID     = "invalid_gif_id"
	CodeInvalidTag       = "invalid_tag"
)

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// SuccessfulResponse is what the bot expects back from mutating calls.
type SuccessfulResponse struct {
	Successful bool `json:"successful"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("request_id", requestID(c)).Str("context", context).Msg("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code and error code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps a service error to a response: absent results
// become 404, malformed identifiers or tags 400, everything else 500.
func respondServiceError(c *gin.Context, err error, resource, context string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, resource+" not found")
	case errors.Is(err, services.ErrInvalidGifIDType):
		respondError(c, http.StatusBadRequest, CodeInvalidGifIDType, err.Error())
	case errors.Is(err, services.ErrInvalidGifID):
		respondError(c, http.StatusBadRequest, CodeInvalidGifID, err.Error())
	case errors.Is(err, services.ErrInvalidTag):
		respondError(c, http.StatusBadRequest, CodeInvalidTag, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccessful sends the {"successful": true} body.
func respondSuccessful(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessfulResponse{Successful: true})
}

// respondSuccessWithData sends a 200 OK response with a message and data.
func respondSuccessWithData(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseTgUserIDParam extracts a Telegram user id from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseTgUserIDParam(c *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// parseTgUserIDQuery extracts a required Telegram user id from query parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseTgUserIDQuery(c *gin.Context, paramName string) (int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		respondBadRequest(c, paramName+" is required")
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}
