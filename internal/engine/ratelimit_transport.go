package engine

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport paces outgoing requests with a shared token bucket.
// One limiter is shared across every provider client in a run so local
// concurrency never translates into provider-side throttling.
type RateLimitTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
