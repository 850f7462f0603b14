package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", "").Code)
	w := perform(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	r := gin.New()
	r.Use(d.Handler())
	r.POST("/items", func(c *gin.Context) {
		var body map[string]string
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusCreated, body)
	})
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := perform(r, http.MethodPost, "/items", `{"name":"milk"}`)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.JSONEq(t, `{"name":"milk"}`, first.Body.String())

	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/items", `{"name":"milk"}`).Code)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/items", `{"name":"eggs"}`).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/items", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/items", "").Code)

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/items", `{"name":"milk"}`).Code)
}

func TestDeduplicationAllowsRetryAfterFailure(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	attempts := 0

	r := gin.New()
	r.Use(d.Handler())
	r.POST("/recipes/generate", func(c *gin.Context) {
		attempts++
		if attempts == 1 {
			c.JSON(http.StatusBadGateway, gin.H{"code": "AI_SERVICE_ERROR"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": []string{}})
	})

	assert.Equal(t, http.StatusBadGateway, perform(r, http.MethodPost, "/recipes/generate", `{}`).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/recipes/generate", `{}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/recipes/generate", `{}`).Code)
	assert.Equal(t, 2, attempts)
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/upload", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/upload", "small").Code)

	w := perform(r, http.MethodPost, "/upload", "this body is too large")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/fast", "").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
