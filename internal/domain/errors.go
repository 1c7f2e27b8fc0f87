package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals a network or HTTP failure talking to the upstream.
	ErrTransport = errors.New("upstream transport error")
	// ErrGraphQL signals a structured GraphQL error returned by the upstream.
	ErrGraphQL = errors.New("graphql error")
	// ErrPathNotFound signals that the configured data path does not resolve.
	ErrPathNotFound = errors.New("data path not found")
	// ErrEmptyResponse signals a response without a body.
	ErrEmptyResponse = errors.New("empty response")
	// ErrInvalidDocument signals a payload element that is not a JSON object.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrTooDeep signals nesting beyond the flattener's depth limit.
	ErrTooDeep = errors.New("document nesting too deep")
	// ErrInvalidQuery signals a GraphQL payload that fails to parse.
	ErrInvalidQuery = errors.New("invalid graphql query")
	// ErrDatasourceNotFound signals an unknown datasource name.
	ErrDatasourceNotFound = errors.New("datasource not found")
)

// TransportError carries the HTTP status of a failed upstream call.
// Status is 0 when no response was received.
type TransportError struct {
	Status     int
	StatusText string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrTransport.Error(), e.Err)
		}
		return ErrTransport.Error()
	}
	return fmt.Sprintf("%s: HTTP %d %s", ErrTransport.Error(), e.Status, e.StatusText)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// GraphQLError is a structured error reported by the upstream GraphQL server.
// Payload holds the raw JSON of the error object.
type GraphQLError struct {
	Message string
	Payload []byte
}

func (e *GraphQLError) Error() string { return e.Message }

func (e *GraphQLError) Unwrap() error { return ErrGraphQL }

// PathNotFoundError reports the first data path segment that did not resolve.
type PathNotFoundError struct {
	Path    string
	Segment string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (segment %q did not exist and no errors were given)",
		ErrPathNotFound.Error(), e.Path, e.Segment)
}

func (e *PathNotFoundError) Unwrap() error { return ErrPathNotFound }
