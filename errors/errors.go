package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an HTTP-aware error. Message is what the client sees; Err stays in
// the logs.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a copy of a template error such as ErrNotFound.
func Wrap(template *Error, err error) *Error {
	return New(template.Code, template.Message, err)
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Payment errors carry the message shown to shoppers.
var (
	ErrPaymentUnavailable = New(http.StatusBadRequest, "Sorry, your payment cannot be processed right now. Please try again later.", nil)
	ErrEmptyCart          = New(http.StatusBadRequest, "There's nothing in your cart at the moment", nil)
)

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *Error
		if !stderrors.As(err, &appErr) {
			appErr = Wrap(ErrInternalServer, err)
		}
		c.AbortWithStatusJSON(appErr.Code, appErr)
	}
}
