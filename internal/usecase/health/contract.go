package health

import "context"

// Checker probes one upstream datasource.
type Checker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}
