// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request ID injector, the plain access logger, panic
// recovery and the request-scoped logger accessor.
//
// Every request carries a zerolog.Logger under the "logger" context key with
// request_id, method and route, plus medication_id on /medications/:id
// routes. Handlers enrich it through LoggerFrom. The access log line adds the
// outcome: status, latency, bytes, and two tracker signals:
//
//   - replayed=true when POST /medications was answered from an
//     Idempotency-Key recorded earlier
//   - persisted=false when the handler applied a change in memory but the
//     store write failed (the response carries a Warning header)
//
// Order: RequestID, then Logger or RedactingLogger, then Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// loggerKey holds the request-scoped *zerolog.Logger.
	loggerKey = "logger"
	// maxQueryLogLength caps the logged query (?medicationId=, ?days=).
	maxQueryLogLength = 256
	// warningHeader is set by handlers when a change was not persisted.
	warningHeader = "Warning"
)

// RequestID reuses X-Request-ID when the client sent one and generates a
// UUIDv4 otherwise. The ID is echoed on the response and stored in the
// context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger attaches the request-scoped logger and writes one access log line
// per request, including the raw path, client address, user agent and query.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := scopedLogger(c, true)
		c.Set(loggerKey, &l)

		c.Next()

		completion(&l, c).
			Str("path", c.Request.URL.Path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// scopedLogger derives the per-request logger. withIDs adds medication_id
// when the matched route has an :id parameter. Without RequestID in the
// chain, the X-Request-ID header (response first, then request) is used.
func scopedLogger(c *gin.Context, withIDs bool) zerolog.Logger {
	v, _ := c.Get(requestIDKey)
	rid := asString(v)
	if rid == "" {
		rid = c.Writer.Header().Get(requestIDHeader)
	}
	if rid == "" {
		rid = c.GetHeader(requestIDHeader)
	}
	lc := log.With().
		Str("request_id", rid).
		Str("method", c.Request.Method).
		Str("route", routeLabel(c))
	if id := c.Param("id"); withIDs && id != "" {
		lc = lc.Str("medication_id", id)
	}
	return lc.Logger()
}

// completion starts the access log event at a level chosen by outcome:
// error for 5xx or recorded Gin errors, warn for 4xx or an unpersisted
// change, info otherwise.
func completion(l *zerolog.Logger, c *gin.Context) *zerolog.Event {
	status := c.Writer.Status()
	unpersisted := c.Writer.Header().Get(warningHeader) != ""

	var ev *zerolog.Event
	switch {
	case len(c.Errors) > 0:
		ev = l.Error().Str("errors", c.Errors.String())
	case status >= 500:
		ev = l.Error()
	case status >= 400, unpersisted:
		ev = l.Warn()
	default:
		ev = l.Info()
	}

	ev = ev.Int("status", status).Int("bytes_out", c.Writer.Size())
	if IsReplay(c) {
		ev = ev.Bool("replayed", true)
	}
	if unpersisted {
		ev = ev.Bool("persisted", false)
	}
	return ev
}

// Recovery turns a panic into the standard JSON 500 error body and logs the
// stack through the request-scoped logger. If the handler had already
// written a response, only the status is set.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, asString(rid))
			abort(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// neither Logger nor RedactingLogger ran.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate cuts s to max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
