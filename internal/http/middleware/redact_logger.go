// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the default access logger (LOG_REDACT).
// It never logs bodies, so mood, side effects and instructions stay out of
// logs; query strings and header values are scrubbed of emails, phone numbers
// and UUIDs, and secret headers are masked outright. The request-scoped
// logger it attaches omits medication_id.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Redaction patterns. UUIDs go first so the phone pattern cannot match their
// digit groups; the phone pattern is digits-only for the same reason.
var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// alwaysMasked headers are replaced with "[REDACTED]" regardless of options.
var alwaysMasked = []string{"authorization", "cookie", "set-cookie"}

// RedactOptions configures RedactingLogger. MaskHeaders adds header names
// (case-insensitive) whose values are fully masked, e.g. X-Twilio-Signature.
type RedactOptions struct {
	MaskHeaders []string
}

// redact scrubs identifiers from a free-form value.
func redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactingLogger returns a Gin middleware that attaches the request-scoped
// logger and writes one scrubbed access log line per request. Levels and the
// replayed/persisted fields match Logger.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := make(map[string]struct{}, len(alwaysMasked)+len(opts.MaskHeaders))
	for _, h := range append(alwaysMasked, opts.MaskHeaders...) {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		l := scopedLogger(c, false)
		c.Set(loggerKey, &l)

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := masked[strings.ToLower(k)]; ok {
				headers[k] = "[REDACTED]"
				continue
			}
			headers[k] = redact(strings.Join(vv, ", "))
		}
		query := truncate(redact(c.Request.URL.RawQuery), maxQueryLogLength)

		c.Next()

		completion(&l, c).
			Str("query", query).
			Interface("headers", headers).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	}
}
