package datasource

// State is the outcome of a datasource test.
type State string

const (
	// StateSuccess means the upstream answered the probe.
	StateSuccess State = "success"
	// StateError means the probe failed.
	StateError State = "error"
)

// Status is the result of TestDatasource.
type Status struct {
	State   State
	Message string
}
