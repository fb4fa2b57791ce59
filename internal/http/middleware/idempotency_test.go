package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// idemState is what a handler behind IdempotencyValidator observed.
type idemState struct {
	key      string
	hasKey   bool
	replay   bool
	bypass   bool
	resource string
	scope    string
}

func observe(c *gin.Context) idemState {
	k, ok := GetIdempotencyKey(c)
	return idemState{
		key: k, hasKey: ok,
		replay: IsReplay(c), bypass: IsRateBypass(c),
		resource: ReplayResourceID(c), scope: IdempotencyScope(c),
	}
}

func TestIdempotencyValidator_CreateMedication(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stored := map[string]string{"POST /api/v1/medications|create-aspirin": testMedID}
	var lookups []string
	lookup := func(_ context.Context, scope, key string, now time.Time) (string, bool, error) {
		if now.IsZero() || now.Location() != time.UTC {
			t.Errorf("lookup time = %v; want UTC now", now)
		}
		lookups = append(lookups, scope+"|"+key)
		if key == "db-down" {
			return "", false, errors.New("sqlite: database is locked")
		}
		id, ok := stored[scope+"|"+key]
		return id, ok, nil
	}

	cases := []struct {
		name   string
		method string
		path   string
		key    string
		want   idemState
		lookup string
	}{
		{"no header", http.MethodPost, "/api/v1/medications", "",
			idemState{scope: "POST /api/v1/medications"}, ""},
		{"first attempt", http.MethodPost, "/api/v1/medications", "create-metformin",
			idemState{key: "create-metformin", hasKey: true, scope: "POST /api/v1/medications"},
			"POST /api/v1/medications|create-metformin"},
		{"retry replays", http.MethodPost, "/api/v1/medications", "create-aspirin",
			idemState{key: "create-aspirin", hasKey: true, replay: true, bypass: true, resource: testMedID, scope: "POST /api/v1/medications"},
			"POST /api/v1/medications|create-aspirin"},
		{"same key other route", http.MethodPost, "/api/v1/doses", "create-aspirin",
			idemState{key: "create-aspirin", hasKey: true, scope: "POST /api/v1/doses"},
			"POST /api/v1/doses|create-aspirin"},
		{"lookup failure proceeds", http.MethodPost, "/api/v1/medications", "db-down",
			idemState{key: "db-down", hasKey: true, scope: "POST /api/v1/medications"},
			"POST /api/v1/medications|db-down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookups = nil
			var got idemState
			r := gin.New()
			r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
			h := func(c *gin.Context) { got = observe(c); c.Status(http.StatusCreated) }
			r.POST("/api/v1/medications", h)
			r.POST("/api/v1/doses", h)

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			if tc.key != "" {
				req.Header.Set(HeaderIdempotencyKey, tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusCreated {
				t.Fatalf("status = %d", w.Code)
			}
			if got != tc.want {
				t.Fatalf("handler saw %+v; want %+v", got, tc.want)
			}
			if tc.lookup == "" && len(lookups) != 0 || tc.lookup != "" && (len(lookups) != 1 || lookups[0] != tc.lookup) {
				t.Fatalf("lookups = %v; want %q", lookups, tc.lookup)
			}
		})
	}
}

func TestIdempotencyValidator_RejectsMalformedKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		opts IdempotencyOptions
		key  string
	}{
		{"too long", IdempotencyOptions{MaxLen: 8}, "create-aspirin"},
		{"default length", IdempotencyOptions{}, strings.Repeat("k", 201)},
		{"space", IdempotencyOptions{}, "create aspirin"},
		{"custom pattern", IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9a-f-]{36}$`)}, "create-aspirin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.Use(RequestID(), IdempotencyValidator(tc.opts, func(context.Context, string, string, time.Time) (string, bool, error) {
				t.Fatalf("lookup must not run for a malformed key")
				return "", false, nil
			}))
			r.POST("/api/v1/medications", func(c *gin.Context) { reached = true })

			req := httptest.NewRequest(http.MethodPost, "/api/v1/medications", strings.NewReader("{}"))
			req.Header.Set(HeaderIdempotencyKey, tc.key)
			req.Header.Set(requestIDHeader, "rid-idem")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest || reached {
				t.Fatalf("status = %d reached=%v; want 400 before the handler", w.Code, reached)
			}
			body := w.Body.String()
			if !strings.Contains(body, `"code":"`+CodeBadIdempotencyKey+`"`) || !strings.Contains(body, `"request_id":"rid-idem"`) {
				t.Fatalf("unexpected body: %s", body)
			}
		})
	}
}

func TestIdempotencyValidator_UUIDKeyWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got idemState
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, nil))
	r.POST("/api/v1/medications", func(c *gin.Context) { got = observe(c) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medications", nil)
	req.Header.Set(HeaderIdempotencyKey, testMedID)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !got.hasKey || got.key != testMedID || got.replay || got.bypass {
		t.Fatalf("handler saw %+v", got)
	}
}

func TestIdempotencyAccessors_IgnoreForeignValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/medications/unrouted", nil)

	c.Set(ctxKeyIdemKey, 42)
	c.Set(ctxKeyIdemReplay, "true")
	c.Set(ctxKeyIdemResource, 7)
	c.Set(ctxKeyRateBypass, 1)

	if k, ok := GetIdempotencyKey(c); ok || k != "" {
		t.Fatalf("GetIdempotencyKey = %q %v", k, ok)
	}
	if IsReplay(c) || IsRateBypass(c) || ReplayResourceID(c) != "" {
		t.Fatalf("non-typed context values must read as unset")
	}
	if got := IdempotencyScope(c); got != "POST /api/v1/medications/unrouted" {
		t.Fatalf("scope for unmatched route = %q", got)
	}
}
