package middleware

import (
	"net/http"
	"runtime/debug"

	domainerr "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind to its HTTP status
func StatusFor(err error) int {
	switch domainerr.KindOf(err) {
	case domainerr.KindValidation:
		return http.StatusBadRequest
	case domainerr.KindNotFound:
		return http.StatusNotFound
	case domainerr.KindConflict:
		return http.StatusConflict
	case domainerr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the error envelope. Unexpected errors get a
// generic message; their detail only goes to the log.
func NewErrorResponse(err error) dto.ErrorResponse {
	if domainerr.KindOf(err) == domainerr.KindUnexpected {
		return dto.ErrorResponse{Error: dto.ErrorBody{
			Code:    domainerr.CodeInternalServer,
			Message: "Internal server error",
		}}
	}
	return dto.ErrorResponse{Error: dto.ErrorBody{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
		Details: domainerr.DetailsOf(err),
	}}
}

// ErrorHandler recovers from panics and renders the last error a handler
// attached with c.Error
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      rec,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": coreport.RequestIDFrom(c.Request.Context()),
					"stack":      string(debug.Stack()),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, NewErrorResponse(domainerr.ErrInternalServer))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)

		fields := domainerr.LogFieldsOf(err)
		fields["path"] = c.Request.URL.Path
		fields["method"] = c.Request.Method
		fields["request_id"] = coreport.RequestIDFrom(c.Request.Context())
		if status >= http.StatusInternalServerError {
			fields["error"] = err.Error()
			logger.Error("Request failed", fields)
		} else {
			logger.Debug("Request rejected", fields)
		}

		c.JSON(status, NewErrorResponse(err))
	}
}
