package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/service"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*service.Claims, error) {
	if token != "good" {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: "u1", TenantID: "t1", Email: "u1@acme.test", Role: "developer"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubValidator{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":   GetUserID(c),
			"tenant": GetTenantID(c),
			"role":   GetRole(c),
		})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"user":"u1","tenant":"t1","role":"developer"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(stubValidator{}), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDPropagatesAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger.Init("info", true)
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Init("info", true) })

	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", AuthMiddleware(stubValidator{}), func(c *gin.Context) {
		assert.Equal(t, "abc123", logger.GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc123")
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", w.Header().Get(HeaderRequestID))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc123"`)
	assert.Contains(t, out, `"tenant_id":"t1"`)
	assert.Contains(t, out, "Request completed")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 8, "generated ids are short")
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(60, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst exhausted")
	assert.True(t, l.Allow("b"), "limits are per client")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"), "one token refills per second at 60/min")

	now = now.Add(limiterIdleTTL + time.Minute)
	l.Allow("c")
	l.mu.Lock()
	_, kept := l.clients["b"]
	l.mu.Unlock()
	assert.False(t, kept, "idle clients are swept")
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(1, 1)
	r := gin.New()
	r.POST("/calc", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/calc", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
