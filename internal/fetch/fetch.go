// Package fetch implements resilient acquisition of raw project payloads from
// the platform-integrations layer. The integration surface is unreliable and
// loosely specified, so resilience comes from route diversity: an ordered
// cascade of candidate endpoints is tried until one yields usable data, with
// no retries on any individual route.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/briefdeck/briefdeck/internal/adapter/otel"
	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/payload"
	"github.com/briefdeck/briefdeck/internal/resilience"
)

// ErrExhausted is returned when every candidate route failed. The caller is
// responsible for substituting fallback data; this error never propagates to
// report consumers.
var ErrExhausted = errors.New("all acquisition routes exhausted")

// Outcome classifies a single route attempt.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeHTTPError    Outcome = "http_error"
	OutcomeEmptyBody    Outcome = "empty_body"
	OutcomeBadPayload   Outcome = "bad_payload"
	OutcomeCircuitOpen  Outcome = "circuit_open"
)

// Attempt is the request-scoped record of one route attempt, returned
// alongside the result for logging and diagnostics. Attempts are never
// accumulated process-wide.
type Attempt struct {
	Route      string        `json:"route"`
	Outcome    Outcome       `json:"outcome"`
	StatusCode int           `json:"statusCode,omitempty"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latencyMs"`
}

// Source is a direct platform data source consulted after the HTTP cascade,
// e.g. the Monday GraphQL client. Sources return payloads in their platform
// adapter's native shape.
type Source interface {
	Name() string
	Platform() project.Platform
	Fetch(ctx context.Context, connectionID, projectID string) ([]byte, error)
}

// Config holds fetcher construction parameters.
type Config struct {
	// BaseURL of the platform-integrations layer.
	BaseURL string
	// RouteTimeout bounds each individual route attempt. Defaults to 30s.
	RouteTimeout time.Duration
	// Race attempts all routes concurrently with first-success-wins
	// semantics instead of the default sequential cascade.
	Race bool
	// Breaker guards the upstream boundary. Optional.
	Breaker *resilience.Breaker
	// Client is the HTTP client to use. Defaults to http.DefaultClient.
	Client *http.Client
	// Sources are direct platform sources appended after the HTTP cascade.
	Sources []Source
}

const defaultRouteTimeout = 30 * time.Second

// Fetcher executes the route cascade. Safe for concurrent use.
type Fetcher struct {
	cfg Config
}

// New creates a Fetcher, applying defaults for unset optional fields.
func New(cfg Config) *Fetcher {
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = defaultRouteTimeout
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Fetcher{cfg: cfg}
}

type route struct {
	name string
	url  string
}

// routes builds the ordered candidate list, most specific first.
func (f *Fetcher) routes(platform project.Platform, connectionID, projectID string) []route {
	base := f.cfg.BaseURL
	conn := url.PathEscape(connectionID)
	pid := url.QueryEscape(projectID)

	return []route{
		{
			name: "connection-projects-by-id",
			url:  fmt.Sprintf("%s/api/connections/%s/projects?projectId=%s", base, conn, pid),
		},
		{
			name: "platform-connection-projects",
			url:  fmt.Sprintf("%s/api/integrations/%s/connections/%s/projects?projectId=%s", base, platform, conn, pid),
		},
		{
			name: "connection-projects",
			url:  fmt.Sprintf("%s/api/connections/%s/projects", base, conn),
		},
		{
			name: "legacy-projects",
			url:  fmt.Sprintf("%s/api/%s/%s/projects", base, platform, conn),
		},
	}
}

// Fetch runs the cascade and returns the first usable raw payload together
// with the per-route attempt records. On exhaustion the payload is nil and
// the error wraps ErrExhausted; Fetch never panics and never returns an
// error for anything the caller can recover from differently.
func (f *Fetcher) Fetch(ctx context.Context, platform project.Platform, connectionID, projectID string) ([]byte, []Attempt, error) {
	routes := f.routes(platform, connectionID, projectID)

	var (
		body     []byte
		attempts []Attempt
	)
	if f.cfg.Race {
		body, attempts = f.fetchRacing(ctx, routes)
	} else {
		body, attempts = f.fetchSequential(ctx, routes)
	}
	if body != nil {
		return body, attempts, nil
	}

	// Last resort before synthesis: direct platform sources.
	for _, src := range f.cfg.Sources {
		if src.Platform() != platform {
			continue
		}
		att, data := f.attemptSource(ctx, src, connectionID, projectID)
		attempts = append(attempts, att)
		if data != nil {
			return data, attempts, nil
		}
	}

	return nil, attempts, fmt.Errorf("%w (last: %s)", ErrExhausted, lastFailure(attempts))
}

func (f *Fetcher) fetchSequential(ctx context.Context, routes []route) ([]byte, []Attempt) {
	attempts := make([]Attempt, 0, len(routes))
	for _, rt := range routes {
		body, att := f.attemptRoute(ctx, rt)
		attempts = append(attempts, att)
		if body != nil {
			return body, attempts
		}
	}
	return nil, attempts
}

// fetchRacing tries all routes concurrently; the first success cancels the
// losers. Attempt records arrive in completion order.
func (f *Fetcher) fetchRacing(ctx context.Context, routes []route) ([]byte, []Attempt) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type raceResult struct {
		body    []byte
		attempt Attempt
	}
	results := make(chan raceResult, len(routes))

	var g errgroup.Group
	for _, rt := range routes {
		g.Go(func() error {
			body, att := f.attemptRoute(raceCtx, rt)
			results <- raceResult{body: body, attempt: att}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	var (
		winner   []byte
		attempts []Attempt
	)
	for res := range results {
		attempts = append(attempts, res.attempt)
		if res.body != nil && winner == nil {
			winner = res.body
			cancel()
		}
	}
	return winner, attempts
}

// attemptRoute issues exactly one bounded request against a route. A route
// succeeds only on a 2xx response whose body contains at least one non-empty
// project record.
func (f *Fetcher) attemptRoute(ctx context.Context, rt route) ([]byte, Attempt) {
	att := Attempt{Route: rt.name}
	ctx, span := otel.StartRouteSpan(ctx, rt.name)
	defer span.End()
	start := time.Now()

	var body []byte
	run := func() error {
		var err error
		body, err = f.do(ctx, rt.url, &att)
		return err
	}

	var err error
	if f.cfg.Breaker != nil {
		err = f.cfg.Breaker.Execute(run)
	} else {
		err = run()
	}

	att.Latency = time.Since(start)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		att.Outcome = OutcomeCircuitOpen
		att.Error = err.Error()
	} else if err != nil {
		att.Error = err.Error()
	}

	otel.RecordRouteOutcome(span, string(att.Outcome), att.StatusCode)
	f.logAttempt(att)
	if att.Outcome == OutcomeSuccess {
		return body, att
	}
	return nil, att
}

// do performs the request and classifies the outcome into att.
func (f *Fetcher) do(ctx context.Context, rawURL string, att *Attempt) ([]byte, error) {
	rctx, cancel := context.WithTimeout(ctx, f.cfg.RouteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, rawURL, nil)
	if err != nil {
		att.Outcome = OutcomeNetworkError
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.cfg.Client.Do(req)
	if err != nil {
		att.Outcome = OutcomeNetworkError
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	att.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		att.Outcome = OutcomeNetworkError
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		att.Outcome = OutcomeHTTPError
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if len(body) == 0 {
		att.Outcome = OutcomeEmptyBody
		return nil, errors.New("empty response body")
	}
	if !payload.HasProjectRecord(body) {
		att.Outcome = OutcomeBadPayload
		return nil, errors.New("no project record in response")
	}

	att.Outcome = OutcomeSuccess
	return body, nil
}

func (f *Fetcher) attemptSource(ctx context.Context, src Source, connectionID, projectID string) (Attempt, []byte) {
	att := Attempt{Route: "source:" + src.Name()}
	ctx, span := otel.StartRouteSpan(ctx, att.Route)
	defer span.End()
	start := time.Now()

	sctx, cancel := context.WithTimeout(ctx, f.cfg.RouteTimeout)
	defer cancel()

	body, err := src.Fetch(sctx, connectionID, projectID)
	att.Latency = time.Since(start)

	switch {
	case err != nil:
		att.Outcome = OutcomeNetworkError
		att.Error = err.Error()
		body = nil
	case !payload.HasProjectRecord(body):
		att.Outcome = OutcomeBadPayload
		body = nil
	default:
		att.Outcome = OutcomeSuccess
	}

	otel.RecordRouteOutcome(span, string(att.Outcome), att.StatusCode)
	f.logAttempt(att)
	return att, body
}

func (f *Fetcher) logAttempt(att Attempt) {
	slog.Info("route attempt",
		"route", att.Route,
		"outcome", att.Outcome,
		"status", att.StatusCode,
		"latency_ms", att.Latency.Milliseconds(),
	)
}

func lastFailure(attempts []Attempt) string {
	if len(attempts) == 0 {
		return "no routes configured"
	}
	last := attempts[len(attempts)-1]
	if last.Error != "" {
		return last.Error
	}
	return string(last.Outcome)
}
