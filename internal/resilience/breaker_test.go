package resilience

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream down")

func failing() error { return errUpstream }
func succeeding() error { return nil }

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Execute(failing); !errors.Is(err, errUpstream) {
			t.Fatalf("attempt %d: err = %v, want upstream error", i, err)
		}
	}

	if err := b.Execute(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen after threshold", err)
	}
	if b.State() != StateOpen {
		t.Errorf("state = %q, want open", b.State())
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	clock := time.Now()
	b.now = func() time.Time { return clock }

	_ = b.Execute(failing)
	if b.State() != StateOpen {
		t.Fatalf("state = %q, want open", b.State())
	}

	clock = clock.Add(2 * time.Minute)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %q, want half-open after cooldown", b.State())
	}

	// Failed probe re-opens immediately.
	_ = b.Execute(failing)
	if err := b.Execute(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen after failed probe", err)
	}

	// Successful probe closes.
	clock = clock.Add(2 * time.Minute)
	if err := b.Execute(succeeding); err != nil {
		t.Fatalf("probe err = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %q, want closed after successful probe", b.State())
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(2, time.Minute)

	_ = b.Execute(failing)
	_ = b.Execute(succeeding)
	_ = b.Execute(failing)

	if b.State() != StateClosed {
		t.Errorf("state = %q, want closed: success should reset the count", b.State())
	}
}
