package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowPerKey(t *testing.T) {
	l := New(1, 2)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))

	now = now.Add(time.Second)
	require.True(t, l.Allow("a"))
}

func TestLimiter_EvictsIdleVisitors(t *testing.T) {
	l := New(1, 1)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("stale")
	now = now.Add(idleEviction + sweepInterval)
	l.Allow("fresh")

	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotContains(t, l.visitors, "stale")
	require.Contains(t, l.visitors, "fresh")
}

func TestMiddleware_RespondsTooManyRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New(0.001, 1).Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.NotEmpty(t, body["msg"])
}
