package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"property-desk/internal/middleware"
	"property-desk/internal/services"
)

// ErrorResponse sends a standardized error response.
// The error is attached to the context for the request logger and only
// echoed to the client in debug mode.
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}

	response := gin.H{
		"success":    false,
		"message":    message,
		"request_id": c.GetString(middleware.RequestIDKey),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if gin.Mode() == gin.DebugMode && err != nil {
		response["error_details"] = err.Error()
	}

	c.JSON(statusCode, response)
}

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := gin.H{
		"success":    true,
		"message":    message,
		"request_id": c.GetString(middleware.RequestIDKey),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if data != nil {
		response["data"] = data
	}

	c.JSON(statusCode, response)
}

// ValidationErrorResponse sends a validation error response
func ValidationErrorResponse(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"message":    "Validation failed",
		"errors":     errors,
		"request_id": c.GetString(middleware.RequestIDKey),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleServiceError maps a service error kind onto its HTTP status
func HandleServiceError(c *gin.Context, err error) {
	if validationErr, ok := services.IsValidationError(err); ok {
		ValidationErrorResponse(c, map[string]string{validationErr.Field: validationErr.Message})
		return
	}
	if notFoundErr, ok := services.IsNotFoundError(err); ok {
		ErrorResponse(c, http.StatusNotFound, notFoundErr.Error(), nil)
		return
	}
	if stateErr, ok := services.IsInvalidStateError(err); ok {
		ErrorResponse(c, http.StatusConflict, stateErr.Error(), nil)
		return
	}
	if storageErr, ok := services.IsStorageError(err); ok {
		ErrorResponse(c, http.StatusBadGateway, "Photo could not be stored", storageErr)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ValidationErrorResponse(c, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
