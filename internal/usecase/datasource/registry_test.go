package datasource

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/gqlframes/internal/domain"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(
		New("zeta", &mockTransport{}, nil, nil),
		New("alpha", &mockTransport{}, nil, nil),
	)

	if r.Len() != 2 {
		t.Errorf("expected 2 datasources, got %d", r.Len())
	}
	if got := strings.Join(r.Names(), ","); got != "alpha,zeta" {
		t.Errorf("names = %q", got)
	}

	s, err := r.Get("alpha")
	if err != nil || s.Name() != "alpha" {
		t.Fatalf("Get(alpha) = %v, %v", s, err)
	}

	_, err = r.Get("missing")
	if !errors.Is(err, domain.ErrDatasourceNotFound) {
		t.Errorf("expected ErrDatasourceNotFound, got %v", err)
	}
}
