package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockChecker struct {
	name string
	err  error
	wait bool
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) HealthCheck(ctx context.Context) error {
	if m.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{name: "a"}, &mockChecker{name: "b"})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["a"] != CheckOK || r.Checks["b"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_PartialFailure(t *testing.T) {
	svc := New(&mockChecker{name: "a"}, &mockChecker{name: "b", err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["a"] != CheckOK {
		t.Errorf("expected a %q, got %q", CheckOK, r.Checks["a"])
	}
	if r.Checks["b"] != CheckError {
		t.Errorf("expected b %q, got %q", CheckError, r.Checks["b"])
	}
}

func TestCheck_AllFailing(t *testing.T) {
	svc := New(&mockChecker{name: "a", err: errors.New("x")}, &mockChecker{name: "b", err: errors.New("y")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(&mockChecker{name: "slow", wait: true}).WithTimeout(10 * time.Millisecond)
	r := svc.Check(context.Background())

	if r.Checks["slow"] != CheckError {
		t.Errorf("expected slow check to fail, got %q", r.Checks["slow"])
	}
}

func TestCheck_NoCheckers(t *testing.T) {
	r := New().Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("expected no checks, got %v", r.Checks)
	}
}
