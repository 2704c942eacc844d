package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests. Only set
	// it when traffic is HTTPS end to end.
	EnableHSTS bool
	// HSTSMaxAge defaults to 180 days.
	HSTSMaxAge time.Duration
	// EnablePolicy adds Permissions-Policy and
	// X-Permitted-Cross-Domain-Policies.
	EnablePolicy bool
	// PublicMaxAge, when > 0, marks successful GET responses outside
	// PrivatePrefixes as cacheable for that long. Legislative data changes
	// at most a few times a day.
	PublicMaxAge time.Duration
	// PrivatePrefixes are path prefixes (after the base path) whose
	// responses are never stored, e.g. "/conversations".
	PrivatePrefixes []string
}

// exposedHeaders are readable by browser clients under CORS.
var exposedHeaders = []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"}

// SecurityHeaders adds baseline hardening headers and cache policy.
// Conversation data is no-store; public congressional data may be cached.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"
	publicCache := ""
	if s := int(opt.PublicMaxAge.Seconds()); s > 0 {
		publicCache = "public, max-age=" + strconv.Itoa(s)
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		switch {
		case hasAnyPrefix(c.Request.URL.Path, opt.PrivatePrefixes):
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
		case publicCache != "" && c.Request.Method == http.MethodGet:
			h.Set("Cache-Control", publicCache)
		default:
			h.Set("Cache-Control", "no-cache")
		}

		mergeExposed(h)
		c.Next()
	}
}

func mergeExposed(h http.Header) {
	const hdr = "Access-Control-Expose-Headers"
	cur := h.Get(hdr)
	for _, name := range exposedHeaders {
		if strings.Contains(strings.ToLower(cur), strings.ToLower(name)) {
			continue
		}
		if cur == "" {
			cur = name
		} else {
			cur += ", " + name
		}
	}
	h.Set(hdr, cur)
}

// hasAnyPrefix matches prefixes anywhere a base path may precede them.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports TLS on the connection or X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
