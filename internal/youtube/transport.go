package youtube

import (
	"net/http"

	"golang.org/x/time/rate"
)

// limitedTransport spaces out API requests so a burst of retries cannot eat
// the daily quota.
type limitedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func newLimitedTransport(base http.RoundTripper, rps float64, burst int) *limitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 1
	}
	return &limitedTransport{limiter: rate.NewLimiter(rate.Limit(rps), burst), base: base}
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
