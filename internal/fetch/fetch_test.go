package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/resilience"
)

const validBody = `{"projects":[{"id":"77","name":"Apollo","issues":[{"key":"AP-1"}]}]}`

func TestFetchCascadeStopsAtFirstUsableRoute(t *testing.T) {
	// Only the third route template (connection-projects, no projectId
	// filter) answers with usable data.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/connections/conn-1/projects") && r.URL.RawQuery == "" {
			_, _ = w.Write([]byte(validBody))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{BaseURL: srv.URL})
	body, attempts, err := f.Fetch(context.Background(), project.PlatformJira, "conn-1", "77")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != validBody {
		t.Errorf("body = %s", body)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3 (stop at first success)", len(attempts))
	}
	if attempts[0].Outcome != OutcomeHTTPError || attempts[1].Outcome != OutcomeHTTPError {
		t.Errorf("leading outcomes = %s, %s, want http_error", attempts[0].Outcome, attempts[1].Outcome)
	}
	if attempts[2].Outcome != OutcomeSuccess {
		t.Errorf("final outcome = %s, want success", attempts[2].Outcome)
	}
	if attempts[2].Route != "connection-projects" {
		t.Errorf("winning route = %s", attempts[2].Route)
	}
}

func TestFetchExhaustionWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{BaseURL: srv.URL})
	body, attempts, err := f.Fetch(context.Background(), project.PlatformMonday, "conn-9", "board-3")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}
	if body != nil {
		t.Errorf("body = %s, want nil", body)
	}
	if len(attempts) != 4 {
		t.Errorf("attempts = %d, want 4", len(attempts))
	}
	for _, att := range attempts {
		if att.StatusCode != http.StatusNotFound {
			t.Errorf("route %s status = %d", att.Route, att.StatusCode)
		}
	}
}

func TestFetchRejectsRecordlessSuccess(t *testing.T) {
	// A 2xx response without a recognizable project record must not count
	// as a usable route.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	f := New(Config{BaseURL: srv.URL})
	_, attempts, err := f.Fetch(context.Background(), project.PlatformTrofos, "c", "p")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}
	for _, att := range attempts {
		if att.Outcome != OutcomeBadPayload {
			t.Errorf("route %s outcome = %s, want bad_payload", att.Route, att.Outcome)
		}
	}
}

func TestFetchNetworkErrorOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	f := New(Config{BaseURL: srv.URL})
	_, attempts, err := f.Fetch(context.Background(), project.PlatformJira, "c", "p")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}
	if attempts[0].Outcome != OutcomeNetworkError {
		t.Errorf("outcome = %s, want network_error", attempts[0].Outcome)
	}
}

func TestFetchRacingReturnsWinner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/api/integrations/") {
			_, _ = w.Write([]byte(validBody))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := New(Config{BaseURL: srv.URL, Race: true})
	body, attempts, err := f.Fetch(context.Background(), project.PlatformJira, "conn-1", "77")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != validBody {
		t.Errorf("body = %s", body)
	}
	var wins int
	for _, att := range attempts {
		if att.Outcome == OutcomeSuccess {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("successful attempts = %d, want 1", wins)
	}
}

func TestFetchCircuitOpenOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	br := resilience.NewBreaker(2, time.Minute)
	f := New(Config{BaseURL: srv.URL, Breaker: br})
	_, attempts, err := f.Fetch(context.Background(), project.PlatformJira, "c", "p")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}
	// Two real failures trip the breaker; the remaining routes are refused
	// without touching the upstream.
	if attempts[2].Outcome != OutcomeCircuitOpen || attempts[3].Outcome != OutcomeCircuitOpen {
		t.Errorf("trailing outcomes = %s, %s, want circuit_open", attempts[2].Outcome, attempts[3].Outcome)
	}
}

type fakeSource struct {
	platform project.Platform
	body     []byte
	err      error
}

func (s *fakeSource) Name() string               { return "fake" }
func (s *fakeSource) Platform() project.Platform { return s.platform }
func (s *fakeSource) Fetch(ctx context.Context, connectionID, projectID string) ([]byte, error) {
	return s.body, s.err
}

func TestFetchFallsThroughToDirectSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	direct := []byte(`{"boards":[{"id":"9","name":"Roadmap","items":[{"id":"1"}]}]}`)
	f := New(Config{
		BaseURL: srv.URL,
		Sources: []Source{&fakeSource{platform: project.PlatformMonday, body: direct}},
	})

	body, attempts, err := f.Fetch(context.Background(), project.PlatformMonday, "c", "9")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != string(direct) {
		t.Errorf("body = %s", body)
	}
	last := attempts[len(attempts)-1]
	if last.Route != "source:fake" || last.Outcome != OutcomeSuccess {
		t.Errorf("source attempt = %+v", last)
	}

	// Sources bound to other platforms are skipped.
	jira := New(Config{
		BaseURL: srv.URL,
		Sources: []Source{&fakeSource{platform: project.PlatformMonday, body: direct}},
	})
	_, attempts, err = jira.Fetch(context.Background(), project.PlatformJira, "c", "9")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}
	if len(attempts) != 4 {
		t.Errorf("attempts = %d, want 4 (no source attempt)", len(attempts))
	}
}

func TestFetchRecordsRouteSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otelglobal.GetTracerProvider()
	otelglobal.SetTracerProvider(tp)
	t.Cleanup(func() { otelglobal.SetTracerProvider(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{BaseURL: srv.URL})
	_, _, err := f.Fetch(context.Background(), project.PlatformJira, "conn-1", "77")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Fetch() error = %v, want ErrExhausted", err)
	}

	spans := recorder.Ended()
	if len(spans) != 4 {
		t.Fatalf("route spans = %d, want 4", len(spans))
	}
	for _, span := range spans {
		if span.Name() != "route" {
			t.Errorf("span name = %q, want route", span.Name())
		}
		attrs := make(map[attribute.Key]attribute.Value)
		for _, kv := range span.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		if _, ok := attrs["route.name"]; !ok {
			t.Error("span missing route.name attribute")
		}
		if got := attrs["route.outcome"].AsString(); got != string(OutcomeHTTPError) {
			t.Errorf("route.outcome = %q, want %q", got, OutcomeHTTPError)
		}
		if got := attrs["route.status_code"].AsInt64(); got != http.StatusNotFound {
			t.Errorf("route.status_code = %d, want 404", got)
		}
	}
}
