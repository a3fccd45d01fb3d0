package httpadapter

import (
	"net/http"
	"time"

	"github.com/dbu-intelligence/navigator/internal/observability"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// withLogging wraps a transport and logs every request.
func withLogging(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(r)

		log := observability.LoggerFromContext(r.Context()).With(
			"method", r.Method,
			"url", r.URL.Redacted(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if err != nil {
			log.Warn("request failed", "error", err)
			return nil, err
		}
		log.Info("request done", "status", resp.StatusCode)
		return resp, nil
	})
}

// withUserAgent sets a User-Agent header when the caller did not.
func withUserAgent(ua string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("User-Agent") == "" {
				r = r.Clone(r.Context())
				r.Header.Set("User-Agent", ua)
			}
			return next.RoundTrip(r)
		})
	}
}

// chainTransports applies multiple middlewares in order. A nil base means
// http.DefaultTransport.
func chainTransports(base http.RoundTripper, middlewares ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	h := base
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
