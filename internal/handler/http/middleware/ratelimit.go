package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"newshub/internal/handler/http/respond"
	"newshub/pkg/config"
	"newshub/pkg/ratelimit"
)

type RateLimitConfig struct {
	Enabled bool
	Limiter ratelimit.Config
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
	// ExemptPrefixes are never limited.
	ExemptPrefixes []string
}

// LoadRateLimitConfig reads RATE_LIMIT_ENABLED, RATE_LIMIT_RPS,
// RATE_LIMIT_BURST and TRUST_PROXY_HEADERS.
func LoadRateLimitConfig() RateLimitConfig {
	def := ratelimit.DefaultConfig()
	lim := def
	lim.RequestsPerSecond = config.GetEnvFloat("RATE_LIMIT_RPS", def.RequestsPerSecond)
	lim.Burst = config.GetEnvInt("RATE_LIMIT_BURST", def.Burst)
	return RateLimitConfig{
		Enabled:        config.GetEnvBool("RATE_LIMIT_ENABLED", true),
		Limiter:        lim,
		TrustProxy:     config.GetEnvBool("TRUST_PROXY_HEADERS", false),
		ExemptPrefixes: []string{"/health", "/ready", "/live", "/metrics"},
	}
}

// RateLimit answers 429 with Retry-After once a client exhausts its bucket.
// Every limited response carries X-RateLimit-Limit and X-RateLimit-Remaining.
func RateLimit(limiter *ratelimit.Limiter, cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range cfg.ExemptPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ip := ClientIP(r, cfg.TrustProxy)
			d := limiter.Allow(ip)
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(math.Ceil(d.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			logger.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		})
	}
}

// ClientIP returns the address requests are limited by. Proxy headers are
// read only when trustProxy is set and must contain a valid IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
