package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCounter struct {
	counts map[uint]int64
	err    error
}

func (f *fakeCounter) IncrDaily(_ context.Context, keyID uint, _ time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[keyID]++
	return f.counts[keyID], nil
}

func newRouter(key *database.APIKey, counter DailyCounter) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.Use(func(c *gin.Context) {
		if key != nil {
			c.Set(APIKeyContextKey, key)
		}
		c.Next()
	})
	r.Use(RateLimit(counter, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newRouter(nil, nil)

	w := get(r, map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	w = get(r, map[string]string{"X-Request-ID": strings.Repeat("x", 65)})
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	w = get(r, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	counter := &fakeCounter{counts: map[uint]int64{}}
	r := newRouter(&database.APIKey{ID: 3, RateLimit: 2}, counter)

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)
}

func TestRateLimit_PassesThrough(t *testing.T) {
	// no key in context
	r := newRouter(nil, &fakeCounter{counts: map[uint]int64{}})
	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	// counter unavailable
	r = newRouter(&database.APIKey{ID: 1, RateLimit: 1}, &fakeCounter{err: errors.New("redis down")})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, nil).Code)
	}

	// no counter configured
	r = newRouter(&database.APIKey{ID: 1, RateLimit: 1}, nil)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
}
