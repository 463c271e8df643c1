package handlers

import (
	"net/http"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string `json:"error"`
	Kind          string `json:"kind,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// statusForKind maps error kinds to HTTP status codes
var statusForKind = map[apperror.Kind]int{
	apperror.KindInvalidInput:        http.StatusBadRequest,
	apperror.KindResourceNotFound:    http.StatusNotFound,
	apperror.KindLimitExceeded:       http.StatusRequestEntityTooLarge,
	apperror.KindResourceUnavailable: http.StatusServiceUnavailable,
	apperror.KindChainDisconnected:   http.StatusConflict,
	apperror.KindParseError:          http.StatusBadGateway,
	apperror.KindInternal:            http.StatusInternalServerError,
}

// StatusForError returns the HTTP status of a service error
func StatusForError(err error) int {
	if status, ok := statusForKind[apperror.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// sendError logs the failure with the request's correlation ID and writes an error body
func sendError(c *gin.Context, statusCode int, message string, err error) {
	correlationID := middleware.GetCorrelationID(c)
	log := middleware.LogWithCorrelationID(c.Request.Context())

	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}

	c.JSON(statusCode, ErrorResponse{
		Error:         message,
		Kind:          string(apperror.KindOf(err)),
		CorrelationID: correlationID,
	})
}

// handleServiceError maps a classified error to its status. Client errors carry the
// error text; server errors only the generic message.
func handleServiceError(c *gin.Context, err error, message string) {
	status := StatusForError(err)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	sendError(c, status, message, err)
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage is a helper function that sends a success message
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}

// sendList is a helper function that sends a list response
func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}
