package gqlframes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	name            string
	basicAuth       string
	withCredentials bool
	httpClient      *http.Client
	timeout         time.Duration
	validate        bool

	variables map[string]string
	defaults  Query

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithName sets the datasource name used in metrics and logs.
// Default: "default".
func WithName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.name = name
	})
}

// WithBasicAuth sets a credential string sent verbatim as the Authorization header.
// It also enables credentialed requests.
func WithBasicAuth(credentials string) Option {
	return optionFunc(func(c *clientConfig) {
		c.basicAuth = credentials
	})
}

// WithCredentials marks requests as credentialed.
func WithCredentials() Option {
	return optionFunc(func(c *clientConfig) {
		c.withCredentials = true
	})
}

// WithHTTPClient sets the HTTP client used for upstream calls.
// WithTimeout is ignored when a client is given.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the upstream request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithVariables sets template variables available to every query as
// $name, ${name} or [[name]]. Scoped variables of a request take precedence.
func WithVariables(vars map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.variables = vars
	})
}

// WithQueryDefaults sets values used for empty query fields.
// DataPath falls back to "data" when left empty here too.
func WithQueryDefaults(q Query) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = q
	})
}

// WithValidation parses every query before sending it and fails with
// ErrInvalidQuery on syntax errors.
func WithValidation() Option {
	return optionFunc(func(c *clientConfig) {
		c.validate = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
