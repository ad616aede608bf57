package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// RateLimiter throttles outgoing requests. It combines an optional token
// bucket with the server's Retry-After hint on 429 and 503 responses.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter // nil when unlimited
	retryAfter time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond requests.
// Zero or negative means no proactive throttling.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	r := &RateLimiter{now: time.Now}
	if requestsPerSecond > 0 {
		r.bucket = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return r
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket != nil {
		if err := r.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	until := r.retryAfter
	r.mu.Unlock()

	wait := until.Sub(r.now())
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Update records a Retry-After hint from the response, if any.
func (r *RateLimiter) Update(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}
	seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter))
	if err != nil || seconds <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAfter = r.now().Add(time.Duration(seconds) * time.Second)
}
