// Package service contains application services.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/briefdeck/briefdeck/internal/adapter/otel"
	"github.com/briefdeck/briefdeck/internal/adapter/ws"
	"github.com/briefdeck/briefdeck/internal/domain/analytics"
	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/fetch"
	"github.com/briefdeck/briefdeck/internal/logger"
	"github.com/briefdeck/briefdeck/internal/port/audit"
	"github.com/briefdeck/briefdeck/internal/port/broadcast"
	"github.com/briefdeck/briefdeck/internal/port/cache"
	"github.com/briefdeck/briefdeck/internal/port/events"
	"github.com/briefdeck/briefdeck/internal/port/platform"
	"github.com/briefdeck/briefdeck/internal/synth"
)

// Fetcher is the slice of the route cascade the service depends on.
type Fetcher interface {
	Fetch(ctx context.Context, p project.Platform, connectionID, projectID string) ([]byte, []fetch.Attempt, error)
}

// Result is the complete acquisition deliverable: one project snapshot plus
// its derived analytics. Source and Project.FallbackData always agree.
type Result struct {
	AcquisitionID string              `json:"acquisitionId"`
	Project       project.ProjectData `json:"project"`
	Analytics     analytics.Metrics   `json:"analytics"`
	Source        audit.Source        `json:"source"`
	Attempts      []fetch.Attempt     `json:"attempts"`
	DurationMS    int64               `json:"durationMs"`
}

// AcquisitionService orchestrates fetch, normalization, fallback synthesis
// and analytics, and emits the observability side effects.
type AcquisitionService struct {
	fetcher   Fetcher
	cache     cache.Cache // nil disables result caching
	resultTTL time.Duration
	audit     audit.Store // nil disables auditing
	events    events.Publisher
	progress  broadcast.Broadcaster
	metrics   *otel.Metrics // nil disables metric emission

	now   func() time.Time
	newID func() string
}

// Option configures an AcquisitionService.
type Option func(*AcquisitionService)

// WithResultCache caches complete results for ttl, keyed by the full
// acquisition identity.
func WithResultCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *AcquisitionService) {
		s.cache = c
		s.resultTTL = ttl
	}
}

// WithAuditStore records every acquisition outcome.
func WithAuditStore(store audit.Store) Option {
	return func(s *AcquisitionService) { s.audit = store }
}

// WithEventPublisher publishes completion events for downstream consumers.
func WithEventPublisher(pub events.Publisher) Option {
	return func(s *AcquisitionService) { s.events = pub }
}

// WithProgressBroadcaster streams per-route progress to connected clients.
func WithProgressBroadcaster(b broadcast.Broadcaster) Option {
	return func(s *AcquisitionService) { s.progress = b }
}

// WithMetrics emits acquisition counters and histograms.
func WithMetrics(m *otel.Metrics) Option {
	return func(s *AcquisitionService) { s.metrics = m }
}

// NewAcquisitionService creates the service around the given fetcher.
func NewAcquisitionService(fetcher Fetcher, opts ...Option) *AcquisitionService {
	s := &AcquisitionService{
		fetcher:  fetcher,
		events:   events.Noop{},
		progress: broadcast.Noop{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Platforms returns the platforms with a registered adapter.
func (s *AcquisitionService) Platforms() []project.Platform {
	return platform.Available()
}

// Acquire runs one acquisition. It fails only on an invalid request; any
// upstream failure degrades to synthesized fallback data so the caller
// always receives a renderable deliverable.
func (s *AcquisitionService) Acquire(ctx context.Context, req project.AcquisitionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("acquisition request: %w", err)
	}

	id := s.newID()
	ctx = logger.WithAcquisitionID(ctx, id)
	ctx, span := otel.StartAcquisitionSpan(ctx, id, string(req.Platform), req.ProjectID)
	defer span.End()

	if s.metrics != nil {
		s.metrics.AcquisitionsStarted.Add(ctx, 1)
	}
	s.progress.BroadcastEvent(ctx, ws.EventAcquisitionStarted, ws.AcquisitionStartedEvent{
		AcquisitionID: id,
		Platform:      string(req.Platform),
		ProjectID:     req.ProjectID,
	})

	if res, ok := s.cachedResult(ctx, req); ok {
		slog.Info("acquisition served from cache",
			"acquisition_id", id,
			"platform", req.Platform,
			"project_id", req.ProjectID,
		)
		res.AcquisitionID = id
		return res, nil
	}

	start := s.now()
	p, attempts, source := s.acquireProject(ctx, req)
	metrics := analytics.Analyze(p)
	duration := s.now().Sub(start)

	res := &Result{
		AcquisitionID: id,
		Project:       p,
		Analytics:     metrics,
		Source:        source,
		Attempts:      attempts,
		DurationMS:    duration.Milliseconds(),
	}

	slog.Info("acquisition completed",
		"acquisition_id", id,
		"platform", req.Platform,
		"project_id", req.ProjectID,
		"source", source,
		"attempts", len(attempts),
		"risk", metrics.RiskLevel,
		"duration_ms", res.DurationMS,
	)

	s.emit(ctx, req, res)
	s.cacheResult(ctx, req, res)
	return res, nil
}

// acquireProject fetches and normalizes live data, degrading to synthesis on
// any failure. The returned snapshot is always usable.
func (s *AcquisitionService) acquireProject(ctx context.Context, req project.AcquisitionRequest) (project.ProjectData, []fetch.Attempt, audit.Source) {
	body, attempts, err := s.fetcher.Fetch(ctx, req.Platform, req.ConnectionID, req.ProjectID)
	s.broadcastAttempts(ctx, attempts)
	if err != nil {
		slog.Warn("all routes failed, synthesizing fallback",
			"platform", req.Platform,
			"project_id", req.ProjectID,
			"error", err,
		)
		return s.fallback(req), attempts, audit.SourceFallback
	}

	adapter, err := platform.For(req.Platform)
	if err != nil {
		slog.Warn("no adapter for platform, synthesizing fallback", "platform", req.Platform)
		return s.fallback(req), attempts, audit.SourceFallback
	}

	candidates := adapter.Normalize(body)
	if len(candidates) == 0 {
		slog.Warn("payload yielded no records, synthesizing fallback",
			"platform", req.Platform,
			"project_id", req.ProjectID,
		)
		return s.fallback(req), attempts, audit.SourceFallback
	}

	return pickRecord(candidates, req.ProjectID), attempts, audit.SourceLive
}

func (s *AcquisitionService) fallback(req project.AcquisitionRequest) project.ProjectData {
	return synth.Synthesize(req.Platform, req.ProjectID)
}

// pickRecord prefers the record matching the requested project, falling back
// to the first one when the upstream returned an unfiltered list.
func pickRecord(candidates []project.ProjectData, projectID string) project.ProjectData {
	for _, c := range candidates {
		if c.ID == projectID || c.Name == projectID {
			return c
		}
	}
	return candidates[0]
}

func (s *AcquisitionService) broadcastAttempts(ctx context.Context, attempts []fetch.Attempt) {
	for _, att := range attempts {
		if s.metrics != nil {
			s.metrics.RouteAttempts.Add(ctx, 1)
			s.metrics.RouteLatency.Record(ctx, att.Latency.Seconds())
		}
		s.progress.BroadcastEvent(ctx, ws.EventAcquisitionRoute, ws.RouteEvent{
			AcquisitionID: logger.AcquisitionID(ctx),
			Route:         att.Route,
			Outcome:       string(att.Outcome),
			StatusCode:    att.StatusCode,
		})
	}
}

// emit fans the completed result out to audit, events, progress and metrics.
// All emissions are best-effort; failures are logged and swallowed.
func (s *AcquisitionService) emit(ctx context.Context, req project.AcquisitionRequest, res *Result) {
	if s.metrics != nil {
		s.metrics.AcquisitionsCompleted.Add(ctx, 1)
		s.metrics.AcquisitionDuration.Record(ctx, float64(res.DurationMS)/1000)
		if res.Source == audit.SourceFallback {
			s.metrics.FallbacksServed.Add(ctx, 1)
		}
	}

	if s.audit != nil {
		rec := &audit.Record{
			AcquisitionID:  res.AcquisitionID,
			Platform:       string(req.Platform),
			ConnectionID:   req.ConnectionID,
			ProjectID:      req.ProjectID,
			Source:         res.Source,
			Route:          winningRoute(res.Attempts),
			Attempts:       len(res.Attempts),
			DurationMS:     res.DurationMS,
			RiskLevel:      string(res.Analytics.RiskLevel),
			CompletionRate: float64(res.Analytics.CompletionRate),
		}
		if err := s.audit.RecordAcquisition(ctx, rec); err != nil {
			slog.Warn("audit record failed", "acquisition_id", res.AcquisitionID, "error", err)
		}
	}

	subject := events.SubjectCompleted
	if res.Source == audit.SourceFallback {
		subject = events.SubjectFallback
	}
	ev := events.AcquisitionEvent{
		AcquisitionID: res.AcquisitionID,
		Platform:      string(req.Platform),
		ConnectionID:  req.ConnectionID,
		ProjectID:     req.ProjectID,
		Source:        string(res.Source),
		RiskLevel:     string(res.Analytics.RiskLevel),
		DurationMS:    res.DurationMS,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, subject, ev); err != nil {
		slog.Warn("event publish failed", "subject", subject, "error", err)
	}

	s.progress.BroadcastEvent(ctx, ws.EventAcquisitionCompleted, ws.AcquisitionCompletedEvent{
		AcquisitionID: res.AcquisitionID,
		Platform:      string(req.Platform),
		ProjectID:     req.ProjectID,
		Source:        string(res.Source),
		RiskLevel:     string(res.Analytics.RiskLevel),
		DurationMS:    res.DurationMS,
	})
}

func winningRoute(attempts []fetch.Attempt) string {
	for _, att := range attempts {
		if att.Outcome == fetch.OutcomeSuccess {
			return att.Route
		}
	}
	return ""
}

func (s *AcquisitionService) cachedResult(ctx context.Context, req project.AcquisitionRequest) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	key := cache.ResultKey(string(req.Platform), req.ConnectionID, req.ProjectID)
	data, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Warn("corrupt cached result", "key", key)
		return nil, false
	}
	return &res, true
}

func (s *AcquisitionService) cacheResult(ctx context.Context, req project.AcquisitionRequest, res *Result) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	key := cache.ResultKey(string(req.Platform), req.ConnectionID, req.ProjectID)
	if err := s.cache.Set(ctx, key, data, s.resultTTL); err != nil {
		slog.Warn("result cache write failed", "key", key, "error", err)
	}
}
