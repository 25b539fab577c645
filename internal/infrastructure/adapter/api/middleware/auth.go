package middleware

import (
	"crypto/subtle"
	"strings"

	domainerr "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// AdminKeyHeader carries the static back-office key
const AdminKeyHeader = "X-Admin-Key"

// Auth requires a bearer access token and stores the user id on the context
func Auth(auth usecase.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, domainerr.ErrUnauthorized)
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// AdminKey guards back-office routes with a static key. An empty configured
// key disables those routes.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			abort(c, domainerr.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user. It panics when Auth did not run,
// which is a routing bug.
func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), NewErrorResponse(err))
}
