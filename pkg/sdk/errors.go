package gqlframes

import "github.com/kailas-cloud/gqlframes/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTransport       = domain.ErrTransport
	ErrGraphQL         = domain.ErrGraphQL
	ErrPathNotFound    = domain.ErrPathNotFound
	ErrEmptyResponse   = domain.ErrEmptyResponse
	ErrInvalidDocument = domain.ErrInvalidDocument
	ErrTooDeep         = domain.ErrTooDeep
	ErrInvalidQuery    = domain.ErrInvalidQuery
)

// Typed errors re-exported from the domain layer. Use errors.As() to inspect.
type (
	// TransportError carries the HTTP status of a failed upstream call.
	TransportError = domain.TransportError
	// GraphQLError is a structured error reported by the upstream.
	GraphQLError = domain.GraphQLError
	// PathNotFoundError reports the data path segment that did not resolve.
	PathNotFoundError = domain.PathNotFoundError
)
