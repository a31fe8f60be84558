package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Reused(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestAccessLog_WritesLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "log-1")
	newRouter(slog.New(slog.NewTextHandler(&buf, nil))).ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, "request_id=log-1")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "path=/ping")
}
