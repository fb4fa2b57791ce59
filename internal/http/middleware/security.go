// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders. The tracker serves two kinds of
// responses: JSON carrying personal health data (medications, dose logs,
// mood and side effects), and the HTML Swagger UI. JSON responses get a
// deny-all Content-Security-Policy and, when NoStore is set, are kept out of
// shared and browser caches. Responses under DocsPrefix get a CSP that lets
// the Swagger UI load its own scripts and styles.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// apiCSP forbids every fetch and framing; JSON needs neither.
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// docsCSP admits the Swagger UI bundle, its inline bootstrap script and
	// the data: images it embeds.
	docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"
	// permissionsPolicy disables browser features the API never needs.
	permissionsPolicy = "geolocation=(), microphone=(), camera=(), payment=()"

	defaultHSTSMaxAge = 180 * 24 * time.Hour
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS bool          // set only when traffic is HTTPS end-to-end
	HSTSMaxAge time.Duration // defaults to 180 days
	NoStore    bool          // Cache-Control: no-store outside DocsPrefix
	DocsPrefix string        // e.g. "/swagger"; empty disables the docs CSP
}

// SecurityHeaders returns a Gin middleware that sets the hardening headers.
//
// Always: X-Content-Type-Options, X-Frame-Options, Referrer-Policy,
// Permissions-Policy and a Content-Security-Policy chosen by path.
// HSTS is sent only for HTTPS requests (TLS or X-Forwarded-Proto: https).
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains"
	docs := strings.TrimSuffix(opt.DocsPrefix, "/")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", permissionsPolicy)

		if isDocsPath(c.Request.URL.Path, docs) {
			h.Set("Content-Security-Policy", docsCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
			if opt.NoStore {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
			}
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

// isDocsPath reports whether path is prefix itself or lies below it.
func isDocsPath(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// isHTTPS reports whether the request used HTTPS directly or through a
// proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
