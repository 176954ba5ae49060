package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Response represents a standardized API response envelope
type Response struct {
	Success   bool          `json:"success"`
	Data      interface{}   `json:"data,omitempty"`
	Meta      interface{}   `json:"meta,omitempty"`
	Error     *apperr.Error `json:"error,omitempty"`
	Timestamp string        `json:"timestamp"`
}

func envelope(data interface{}, errObj *apperr.Error) Response {
	return Response{
		Success:   errObj == nil,
		Data:      data,
		Error:     errObj,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Handle processes the error and returns the appropriate response
func Handle(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		c.JSON(appErr.Status, envelope(nil, appErr))
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "Resource not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "Resource already exists")
	default:
		InternalError(c, "An unexpected error occurred")
	}
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	status := http.StatusOK
	if c.Request.Method == http.MethodPost {
		status = http.StatusCreated
	}

	c.JSON(status, envelope(data, nil))
}

// Paginated sends a successful response with pagination metadata
func Paginated(c *gin.Context, data interface{}, meta interface{}) {
	resp := envelope(data, nil)
	resp.Meta = meta
	c.JSON(http.StatusOK, resp)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope(nil, &apperr.Error{
		Code:    apperr.CodeNotFound,
		Message: message,
	}))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope(nil, &apperr.Error{
		Code:    apperr.CodeValidationFailed,
		Message: message,
	}))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, envelope(nil, &apperr.Error{
		Code:    apperr.CodeUnauthorized,
		Message: message,
	}))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, envelope(nil, &apperr.Error{
		Code:    apperr.CodeInsufficientPermissions,
		Message: message,
	}))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, envelope(nil, &apperr.Error{
		Code:    apperr.CodeInternalError,
		Message: message,
	}))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, envelope(nil, &apperr.Error{
		Code:    apperr.CodeDuplicateResource,
		Message: message,
	}))
}
