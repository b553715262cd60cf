// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package pagescan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
)

// ErrFetch is returned when a page could not be retrieved.
var ErrFetch = errors.New("page fetch failed")

// ErrHostNotAllowed is returned for URLs outside the portal.
var ErrHostNotAllowed = errors.New("host not allowed")

// Fetcher downloads portal pages and scans them. Requests are rate limited
// and guarded by a circuit breaker; scan results are cached per URL.
type Fetcher struct {
	client     *http.Client
	scanner    *Scanner
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]Article]
	cache      *expirable.LRU[string, []Article]
	hostDomain string
	userAgent  string
	maxBody    int64
	logger     zerolog.Logger
}

// NewFetcher creates a Fetcher. Only URLs on hostDomain (or its subdomains)
// are fetched.
func NewFetcher(cfg config.FetchConfig, hostDomain string, scanner *Scanner) *Fetcher {
	if scanner == nil {
		scanner = NewScanner(nil)
	}
	if hostDomain == "" {
		hostDomain = DefaultHostDomain
	}
	logger := logging.WithComponent("fetcher")

	settings := gobreaker.Settings{
		Name:        "page-fetch",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	hosts := NewResolver(hostDomain, nil)
	return &Fetcher{
		client: &http.Client{
			Timeout:       cfg.Timeout,
			CheckRedirect: hostRedirectPolicy(hosts),
		},
		scanner:    scanner,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker:    gobreaker.NewCircuitBreaker[[]Article](settings),
		cache:      expirable.NewLRU[string, []Article](cfg.CacheSize, nil, cfg.CacheTTL),
		hostDomain: hostDomain,
		userAgent:  cfg.UserAgent,
		maxBody:    cfg.MaxBodyBytes,
		logger:     logger,
	}
}

// hostRedirectPolicy refuses redirects that leave the portal.
func hostRedirectPolicy(hosts *Resolver) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		if !hosts.IsHostSite(req.URL.Hostname()) {
			return fmt.Errorf("%w: redirect to %s", ErrHostNotAllowed, req.URL.Hostname())
		}
		return nil
	}
}

// Fetch returns the articles on the page at pageURL.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]Article, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &ParseError{Field: "page_url", Value: pageURL, Err: errors.New("not an http(s) url")}
	}
	if !NewResolver(f.hostDomain, nil).IsHostSite(u.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	if articles, ok := f.cache.Get(pageURL); ok {
		metrics.RecordPageFetch("cache_hit", 0)
		return articles, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrFetch, err)
	}

	start := time.Now()
	articles, err := f.breaker.Execute(func() ([]Article, error) {
		return f.fetch(ctx, pageURL)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "circuit_open"
		}
		metrics.RecordPageFetch(result, time.Since(start))
		f.logger.Warn().Err(err).Str("url", pageURL).Msg("Page fetch failed")
		if errors.Is(err, ErrFetch) || errors.Is(err, ErrHostNotAllowed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	metrics.RecordPageFetch("success", time.Since(start))
	f.cache.Add(pageURL, articles)
	return articles, nil
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrHostNotAllowed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxBody > 0 {
		body = io.LimitReader(body, f.maxBody)
	}
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: decode charset: %v", ErrFetch, err)
	}

	return f.scanner.Scan(decoded, pageURL)
}

// BreakerState returns the circuit breaker state name.
func (f *Fetcher) BreakerState() string {
	return f.breaker.State().String()
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
