package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerr "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(logger coreport.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger))
	return r
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(domainerr.ErrInsufficientFunds))
	assert.Equal(t, http.StatusBadRequest, StatusFor(domainerr.NewValidationError("x", "bad")))
	assert.Equal(t, http.StatusNotFound, StatusFor(domainerr.ErrCardNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(domainerr.ErrDisputeExists))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(domainerr.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestErrorHandler(t *testing.T) {
	t.Run("unexpected errors are masked", func(t *testing.T) {
		logger := &mockcore.RecordingLogger{}
		r := newRouter(logger)
		r.GET("/x", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

		rec := serve(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Equal(t, []string{"Request failed"}, logger.Messages(coreport.LogLevelError))
	})

	t.Run("domain errors carry details", func(t *testing.T) {
		r := newRouter(&mockcore.RecordingLogger{})
		r.GET("/x", func(c *gin.Context) {
			_ = c.Error(domainerr.NewInsufficientFundsError("acc-1", "10.00000000", "1.00000000"))
		})

		rec := serve(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"INSUFFICIENT_FUNDS"`)
		assert.Contains(t, rec.Body.String(), "acc-1")
	})

	t.Run("panics become 500", func(t *testing.T) {
		logger := &mockcore.RecordingLogger{}
		r := newRouter(logger)
		r.GET("/x", func(c *gin.Context) { panic("nil map") })

		rec := serve(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logger.Messages(coreport.LogLevelError), "Panic recovered in API request")
	})

	t.Run("written responses are left alone", func(t *testing.T) {
		r := newRouter(&mockcore.RecordingLogger{})
		r.GET("/x", func(c *gin.Context) {
			c.JSON(http.StatusAccepted, gin.H{"ok": true})
			_ = c.Error(errors.New("late"))
		})

		rec := serve(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestAdminKey(t *testing.T) {
	r := newRouter(&mockcore.RecordingLogger{})
	r.GET("/open", AdminKey(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/guarded", AdminKey("secret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/open", map[string]string{AdminKeyHeader: ""}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/guarded", map[string]string{AdminKeyHeader: "secre"}).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/guarded", map[string]string{AdminKeyHeader: "secret"}).Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := newRouter(&mockcore.RecordingLogger{})
	var hasDeadline bool
	r.GET("/x", Timeout(time.Second), func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		assert.NotEmpty(t, coreport.RequestIDFrom(c.Request.Context()))
	})

	serve(r, http.MethodGet, "/x", nil)
	assert.True(t, hasDeadline)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(&mockcore.RecordingLogger{})
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/x", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), AdminKeyHeader)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Success", statusText(201))
	assert.Equal(t, "Client Error", statusText(404))
	assert.Equal(t, "Server Error", statusText(503))
}
