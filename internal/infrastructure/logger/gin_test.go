package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func findRequestLog(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e
		}
	}
	t.Fatal("HTTP Request log entry not found")
	return nil
}

func TestGinMiddleware_LogLevelFollowsStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success is info", http.StatusOK, zapcore.InfoLevel},
		{"client error is warn", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"server error is error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)

			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/api/v1/documents", func(c *gin.Context) {
				c.JSON(tc.status, gin.H{})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/v1/documents", nil)
			router.ServeHTTP(w, req)

			entry := findRequestLog(t, recorded)
			assert.Equal(t, tc.level, entry.Level)
		})
	}
}

func TestGinMiddleware_PropagatesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	var ctxRequestID string
	var ctxLogger *zap.Logger

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7b3e")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/documents", func(c *gin.Context) {
		// Application services read both from the request context
		ctxRequestID = GetRequestID(c.Request.Context())
		ctxLogger = FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/documents", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-7b3e", ctxRequestID)
	require.NotNil(t, ctxLogger)

	entry := findRequestLog(t, recorded)
	assert.Equal(t, "req-7b3e", entry.ContextMap()["request_id"])
}

func TestGinMiddleware_LogsRequestFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/documents?status=issued&page=2", nil)
	req.Header.Set("User-Agent", "invoicemonk-cli/1.0")
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	fields := entry.ContextMap()

	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/documents", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Contains(t, fields["query"], "status=issued")
	assert.Equal(t, "invoicemonk-cli/1.0", fields["user_agent"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/documents/:id/issue", func(c *gin.Context) {
		panic("sequence table missing")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/documents/abc/issue", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
	assert.Contains(t, logs[0].ContextMap(), "stacktrace")
}

func TestGetGinLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	var got *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/documents", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/documents", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, got)
}

func TestGetGinLogger_NotSet(t *testing.T) {
	var got *zap.Logger
	router := gin.New()
	router.GET("/api/v1/documents", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/documents", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.NotPanics(t, func() {
		got.Info("still usable")
	})
}
