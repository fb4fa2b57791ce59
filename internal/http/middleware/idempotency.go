package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry POST /medications without
// creating the medication twice.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey      = "idem.key"
	ctxKeyIdemReplay   = "idem.replay"
	ctxKeyIdemResource = "idem.resource"
	ctxKeyRateBypass   = "rate.bypass"
)

// defaultKeyPattern accepts RFC 7230 token-ish keys such as UUIDs.
var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s, _ := c.Value(ctxKeyIdemKey).(string)
	return s, s != ""
}

// IsReplay reports whether a stored result exists for this scope and key.
func IsReplay(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyIdemReplay).(bool)
	return b
}

// ReplayResourceID is the id of the medication the first request created.
func ReplayResourceID(c *gin.Context) string {
	s, _ := c.Value(ctxKeyIdemResource).(string)
	return s
}

// IdempotencyScope is the method plus matched route pattern, e.g.
// "POST /api/v1/medications", so one key never collides across routes.
// Unmatched requests fall back to the raw path.
func IdempotencyScope(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// IdempotencyOptions bounds accepted keys. Expiry is the lookup's concern.
type IdempotencyOptions struct {
	MaxLen  int            // <= 0 means 200
	Pattern *regexp.Regexp // nil means defaultKeyPattern
}

// IdempotencyLookup reports whether an unexpired record exists for
// (scope, key) at now. Errors are logged and treated as a miss.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (resourceID string, exists bool, err error)

// IdempotencyValidator rejects malformed Idempotency-Key headers with 400 and
// otherwise stashes the key. On a lookup hit it marks the request as a replay
// carrying the original resource id, and exempts it from rate limiting.
// Requests without the header pass through untouched. Serving the replay is
// left to the handler.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abort(c, http.StatusBadRequest, CodeBadIdempotencyKey, "invalid Idempotency-Key")
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			id, exists, err := lookup(c.Request.Context(), IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyIdemResource, id)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
