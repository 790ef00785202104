package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwhitmore/portfolio-backend/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.IsTest = true
}

func setupLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/api/contact", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_SixthRequestRejected(t *testing.T) {
	rl := NewRateLimiter(5, 15*time.Minute)
	r := setupLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(r, "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := hit(r, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error": "Too many requests. Please try again later."}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 15*time.Minute)
	rl.now = func() time.Time { return now }
	r := setupLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		hit(r, "203.0.113.7")
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "203.0.113.7").Code)

	// Advance past the window; the counter restarts.
	now = now.Add(15*time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
}

func TestRateLimiter_AddressesIndependent(t *testing.T) {
	rl := NewRateLimiter(5, 15*time.Minute)
	r := setupLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		hit(r, "203.0.113.7")
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "203.0.113.7").Code)

	// A different source address has its own counter.
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.2").Code)
}

func TestRateLimiter_ConcurrentBurstNoUndercount(t *testing.T) {
	rl := NewRateLimiter(5, 15*time.Minute)

	const burst = 50
	var wg sync.WaitGroup
	allowed := make(chan struct{}, burst)

	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.allow("203.0.113.7"); ok {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	assert.Equal(t, 5, len(allowed))
}
