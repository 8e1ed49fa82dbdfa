package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sony/gobreaker"

	"visionatrix-exapp/pkg/log"
	"visionatrix-exapp/pkg/metrics"
)

const breakerComponent = "backend"

// errClientGone marks a backend round trip aborted because the client
// cancelled its request. It says nothing about backend health.
var errClientGone = errors.New("client closed request")

// statusClientClosedRequest is recorded for requests the client abandoned.
const statusClientClosedRequest = 499

// backendProxy forwards /api requests to the Visionatrix backend. Transport
// failures trip a circuit breaker so a dead backend fails fast.
type backendProxy struct {
	target  *url.URL
	breaker *gobreaker.CircuitBreaker
	proxy   *httputil.ReverseProxy
	client  *http.Client
}

func newBackendProxy(rawURL string, transport http.RoundTripper) (*backendProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid BACKEND_URL %q", rawURL)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	p := &backendProxy{target: target, breaker: newBreaker()}
	guarded := &breakerTransport{breaker: p.breaker, next: transport}
	// readiness probes bypass the breaker so a slow start cannot open it
	p.client = &http.Client{Transport: transport, Timeout: 5 * time.Second}
	p.proxy = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		Transport:      guarded,
		ModifyResponse: modifyResponse,
		ErrorHandler:   proxyErrorHandler,
	}
	return p, nil
}

func newBreaker() *gobreaker.CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(breakerComponent).Set(0)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerComponent,
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerStateChanges.WithLabelValues(name, to.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// rewrite points the request at the backend. Host and Cookie are not copied
// verbatim, cookies are re-encoded from the parsed request cookies.
func (p *backendProxy) rewrite(r *httputil.ProxyRequest) {
	r.SetURL(p.target)
	r.Out.Header.Del("Cookie")
	for _, cookie := range r.In.Cookies() {
		r.Out.AddCookie(cookie)
	}
}

func modifyResponse(resp *http.Response) error {
	resp.Header.Del("Transfer-Encoding")
	return nil
}

func proxyErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	msg := "backend request failed"
	switch {
	case errors.Is(err, errClientGone):
		log.GetLog().DebugContext(r.Context(), "Client closed proxied request", "path", r.URL.Path)
		w.WriteHeader(statusClientClosedRequest)
		return
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		msg = "backend unavailable"
	}
	log.GetLog().ErrorContext(r.Context(), "Backend proxy error", "path", r.URL.Path, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ping reports whether the backend answers HTTP at all.
func (p *backendProxy) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target.String(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend answered %d", resp.StatusCode)
	}
	return nil
}

type breakerTransport struct {
	breaker *gobreaker.CircuitBreaker
	next    http.RoundTripper
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.breaker.Execute(func() (any, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil && req.Context().Err() != nil {
			return nil, fmt.Errorf("%w: %w", errClientGone, err)
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return res.(*http.Response), nil
}

func (s *Server) handleAPI(c echo.Context) error {
	start := time.Now()
	method := c.Request().Method

	s.backend.proxy.ServeHTTP(c.Response(), c.Request())

	metrics.ProxyRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	metrics.ProxyRequestsTotal.WithLabelValues(method, strconv.Itoa(c.Response().Status)).Inc()
	return nil
}
