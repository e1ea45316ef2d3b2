package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// Client errors keep their status code and message. Any 5xx, whether a plain error
// or an AppError carrying one, is answered with a generic message and attached to
// the context so the request logger records the cause.
func Error(c *gin.Context, err error) {
	code := apperror.CodeOf(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(code, ErrorResponse{Error: "internal server error"})
		return
	}

	var appErr *apperror.AppError
	errors.As(err, &appErr)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Error: appErr.Message})
}

// BadRequest responds 400 for payloads or parameters that failed binding.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
