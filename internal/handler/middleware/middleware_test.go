//go:build unit

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"arc-storefront/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	cfg := config.NewTestConfig()
	m := NewSessionMiddleware(cfg)

	var seen string
	router := gin.New()
	router.GET("/", m.RequireSession(), func(c *gin.Context) {
		seen, _ = GetSessionID(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("issues a session id when no cookie is sent", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.Session.CookieName, cookies[0].Name)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("keeps a valid session id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: id})
		serve(router, req)
		assert.Equal(t, id, seen)
	})

	t.Run("replaces a malformed session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: "../../etc"})
		serve(router, req)
		assert.NotEqual(t, "../../etc", seen)
	})
}

func TestGetSessionID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetSessionID(c)
	assert.False(t, ok)

	c.Set(ctxSessionIDKey, "")
	_, ok = GetSessionID(c)
	assert.False(t, ok)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewTestConfig().Log
	cfg.Level = "info"
	l := newLogger(cfg, &buf)

	router := gin.New()
	router.Use(l.LoggingMiddleware())
	router.GET("/cart", func(c *gin.Context) {
		c.Set(ctxSessionIDKey, "sess-1")
		c.Status(http.StatusTeapot)
	})

	t.Run("propagates the caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := serve(router, req)

		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		out := buf.String()
		assert.Contains(t, out, "request_id=req-42")
		assert.Contains(t, out, "session_id=sess-1")
		assert.Contains(t, out, "status_code=418")
		assert.Contains(t, out, "level=WARN")
	})

	t.Run("generates a request id when none is sent", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/cart", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name        string
		origins     []string
		origin      string
		allowOrigin string
	}{
		{name: "listed origin", origins: []string{"http://localhost:3000"}, origin: "http://localhost:3000", allowOrigin: "http://localhost:3000"},
		{name: "unlisted origin", origins: []string{"http://localhost:3000"}, origin: "http://evil.test", allowOrigin: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "http://anywhere.test", allowOrigin: "*"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.CORSConfig{
				AllowOrigins:     tc.origins,
				AllowMethods:     []string{http.MethodGet},
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: true,
			}
			router := gin.New()
			router.Use(NewCORSMiddleware(cfg, logger))
			router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tc.origin)
			w := serve(router, req)

			assert.Equal(t, tc.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCustomRecovery(t *testing.T) {
	router := gin.New()
	router.Use(CustomRecovery(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"Internal server error"}}`, w.Body.String())
}
