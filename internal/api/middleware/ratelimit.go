// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ManuGH/lensd/internal/api/problem"
	"github.com/ManuGH/lensd/internal/httperr"
)

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	// RequestLimit is the maximum number of requests allowed in the window.
	RequestLimit int
	// WindowSize is the sliding window length.
	WindowSize time.Duration
	// KeyFunc extracts the rate limit key; nil limits per client IP.
	KeyFunc func(r *http.Request) (string, error)
}

// RateLimit limits requests with the httprate sliding window counter.
// Rejections are answered with a 429 problem and reported as client errors.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	window := cfg.WindowSize
	if window <= 0 {
		window = time.Second
	}
	retryAfter := strconv.Itoa(max(1, int(window.Seconds())))

	return httprate.Limit(
		cfg.RequestLimit,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			err := httperr.TooManyRequests("too many requests, retry later")
			ReportError(r.Context(), err)
			w.Header().Set("Retry-After", retryAfter)
			problem.Error(w, r, err)
		}),
	)
}

// APIRateLimit limits each client to rps requests per second.
func APIRateLimit(rps int) func(http.Handler) http.Handler {
	return RateLimit(RateLimitConfig{
		RequestLimit: rps,
		WindowSize:   time.Second,
	})
}
