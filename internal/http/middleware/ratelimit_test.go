package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const clientAddr = "203.0.113.9:40112"

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(IdempotencyValidator(IdempotencyOptions{}, func(_ context.Context, _, key string, _ time.Time) (string, bool, error) {
		return testMedID, key == "retry-1", nil
	}))
	r.Use(rl.Handler())

	r.GET("/api/v1/schedule/today", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"items": []string{}}) })
	r.POST("/api/v1/doses", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	r.POST("/api/v1/medications", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"id": ReplayResourceID(c)}) })
	return r
}

func hit(r *gin.Engine, method, path, idemKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.RemoteAddr = clientAddr
	req.Header.Set(requestIDHeader, "rid-rl")
	if idemKey != "" {
		req.Header.Set(HeaderIdempotencyKey, idemKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestKeyFuncFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/doses", nil)
	c.Request.RemoteAddr = clientAddr

	cases := []struct {
		name, want string
		wantErr    bool
	}{
		{"", "ip:203.0.113.9", false},
		{RateKeyIP, "ip:203.0.113.9", false},
		{RateKeyIPMethod, "ip:203.0.113.9|POST", false},
		{"user", "", true},
	}
	for _, tc := range cases {
		fn, err := KeyFuncFor(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("KeyFuncFor(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("KeyFuncFor(%q): %v", tc.name, err)
		}
		if got := fn(c); got != tc.want {
			t.Fatalf("KeyFuncFor(%q) key = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestRateLimiter_ExhaustedBucketUsesErrorEnvelope(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(0.5, 1, KeyByClientIP()))

	if w := hit(r, http.MethodGet, "/api/v1/schedule/today", ""); w.Code != http.StatusOK {
		t.Fatalf("first request -> %d", w.Code)
	}
	w := hit(r, http.MethodPost, "/api/v1/doses", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request -> %d; want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q; want 2 at 0.5 rps", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["code"] != CodeTooManyRequests || body["request_id"] != "rid-rl" || body["message"] != "rate limit exceeded" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRateLimiter_IPMethodKeepsReadsAndWritesApart(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(1, 1, KeyByClientIPAndMethod()))

	if w := hit(r, http.MethodPost, "/api/v1/doses", ""); w.Code != http.StatusCreated {
		t.Fatalf("POST dose -> %d", w.Code)
	}
	if w := hit(r, http.MethodPost, "/api/v1/doses", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST dose -> %d; want 429", w.Code)
	}
	if w := hit(r, http.MethodGet, "/api/v1/schedule/today", ""); w.Code != http.StatusOK {
		t.Fatalf("GET schedule after POST burst -> %d; want its own bucket", w.Code)
	}
}

func TestRateLimiter_ReplayedCreateSkipsBucket(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(1, 1, KeyByClientIP()))

	if w := hit(r, http.MethodPost, "/api/v1/medications", "first-try"); w.Code != http.StatusCreated {
		t.Fatalf("create -> %d", w.Code)
	}
	w := hit(r, http.MethodPost, "/api/v1/medications", "retry-1")
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), testMedID) {
		t.Fatalf("replay -> %d %s; want 201 with original id", w.Code, w.Body.String())
	}
	if w := hit(r, http.MethodPost, "/api/v1/medications", "second-try"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("fresh create after burst -> %d; want 429", w.Code)
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByClientIP())
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	first := rl.limiterFor("ip:198.51.100.1")
	if rl.limiterFor("ip:198.51.100.1") != first {
		t.Fatalf("expected bucket reuse")
	}

	now = now.Add(rl.idleTTL + time.Second)
	_ = rl.limiterFor("ip:198.51.100.2")

	rl.mu.Lock()
	_, stale := rl.buckets["ip:198.51.100.1"]
	n := len(rl.buckets)
	rl.mu.Unlock()
	if stale || n != 1 {
		t.Fatalf("idle bucket survived sweep (buckets=%d)", n)
	}
}

func TestRateLimiter_ZeroRateOmitsRetryAfter(t *testing.T) {
	rl := NewRateLimiter(0, 0, KeyByClientIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d; want coerced to 1", rl.burst)
	}
	r := newLimitedRouter(rl)
	hit(r, http.MethodGet, "/api/v1/schedule/today", "")

	w := hit(r, http.MethodGet, "/api/v1/schedule/today", "")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "" {
		t.Fatalf("got %d Retry-After=%q; want 429 without Retry-After", w.Code, w.Header().Get("Retry-After"))
	}
}
