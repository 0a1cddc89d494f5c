package logger_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID_ReusesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(logger.RequestID())

	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFrom(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRequestID_Generated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(logger.RequestID())
	r.GET("/", func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestContextHelpers(t *testing.T) {
	ctx := logger.WithUserID(logger.WithRequestID(context.Background(), "r1"), "u1")

	assert.Equal(t, "r1", logger.RequestIDFrom(ctx))
	assert.Equal(t, "u1", logger.UserIDFrom(ctx))
	assert.Equal(t, "unknown", logger.RequestIDFrom(context.Background()))
}

func TestInitializeWithWriter_TeesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter("production", &buf)
	defer func() { logger.Log = zap.NewNop() }()

	logger.Info(logger.WithRequestID(context.Background(), "r9"), "hello", zap.String("k", "v"))
	_ = logger.Log.Sync()

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"request_id":"r9"`)
}
