package datasource

import (
	"context"

	"github.com/valyala/fastjson"

	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

// Transport sends a GraphQL payload upstream and returns the decoded body.
// Failures are reported as *domain.TransportError.
type Transport interface {
	Execute(ctx context.Context, payload string) (*fastjson.Value, error)
}

// Interpolator expands host template variables.
type Interpolator interface {
	Replace(template string, vars query.ScopedVars) string
}
