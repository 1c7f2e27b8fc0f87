package datasource

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/gqlframes/internal/domain"
)

// Registry holds the configured datasources by name.
type Registry struct {
	services map[string]*Service
}

// NewRegistry creates a Registry from services keyed by their Name.
func NewRegistry(services ...*Service) *Registry {
	r := &Registry{services: make(map[string]*Service, len(services))}
	for _, s := range services {
		r.services[s.Name()] = s
	}
	return r
}

// Get returns the named datasource.
func (r *Registry) Get(name string) (*Service, error) {
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDatasourceNotFound, name)
	}
	return s, nil
}

// Names returns datasource names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered datasources.
func (r *Registry) Len() int { return len(r.services) }
