// Package httpclient provides the shared HTTP clients used by
// collectors and the LLM processor.
//
// Callers must close response bodies, including on non-2xx status:
//
//	resp, err := httpclient.Default().Get(url)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
// All clients share one pooled transport so connections are reused
// across collectors instead of each source dialing fresh.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	sharedTransport *http.Transport
	transportOnce   sync.Once

	defaultClient     *http.Client
	longTimeoutClient *http.Client
	clientOnce        sync.Once
)

func getSharedTransport() *http.Transport {
	transportOnce.Do(func() {
		sharedTransport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		}
	})
	return sharedTransport
}

func initClients() {
	clientOnce.Do(func() {
		transport := getSharedTransport()

		// Most source APIs and feeds answer well within 30s.
		defaultClient = &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		}

		// LLM completions with reasoning models can run for minutes.
		longTimeoutClient = &http.Client{
			Transport: transport,
			Timeout:   5 * time.Minute,
		}
	})
}

// Default returns the shared client with a 30-second timeout.
func Default() *http.Client {
	initClients()
	return defaultClient
}

// LongTimeout returns the shared client with a 5-minute timeout,
// suitable for LLM API calls.
func LongTimeout() *http.Client {
	initClients()
	return longTimeoutClient
}

// Polite wraps an http.Client with a per-host rate limiter so that
// concurrent collectors hitting the same host stay under its tolerance.
type Polite struct {
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
	burst    int
}

// NewPolite returns a Polite client that allows one request per host
// every interval, with the given burst.
func NewPolite(client *http.Client, interval time.Duration, burst int) *Polite {
	if burst < 1 {
		burst = 1
	}
	return &Polite{
		client:   client,
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

func (p *Polite) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(p.interval), p.burst)
		p.limiters[host] = limiter
	}
	return limiter
}

// Do waits for the host's rate limiter, then performs the request with
// the wrapped client. The request context controls both the wait and
// the request itself.
func (p *Polite) Do(req *http.Request) (*http.Response, error) {
	if err := p.limiterFor(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	return p.client.Do(req)
}

// Get issues a rate-limited GET with the given context.
func (p *Polite) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return p.Do(req)
}
