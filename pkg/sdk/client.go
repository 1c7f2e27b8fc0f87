package gqlframes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kailas-cloud/gqlframes/internal/domain/annotation"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/interp"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	"github.com/kailas-cloud/gqlframes/internal/transport/graphql"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
	healthuc "github.com/kailas-cloud/gqlframes/internal/usecase/health"
)

const (
	defaultName    = "default"
	defaultTimeout = 30 * time.Second
)

// Internal interfaces, swapped out in tests.
type datasourceUseCase interface {
	Query(ctx context.Context, req query.Request) ([]*frame.Frame, error)
	AnnotationQuery(ctx context.Context, req query.AnnotationRequest) ([]annotation.Event, error)
	TestDatasource(ctx context.Context) dsuc.Status
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the gqlframes SDK entry point. It is safe for concurrent use.
type Client struct {
	svc       datasourceUseCase
	healthSvc healthUseCase
	transport *graphql.Client
	obs       *observer
}

// New creates a Client for the GraphQL endpoint at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{name: defaultName, timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.New("gqlframes: endpoint must be an absolute http(s) URL")
	}

	obs, err := newObserver(cfg.name, cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	transport := graphql.NewClient(&graphql.Config{
		Name:            cfg.name,
		URL:             endpoint,
		BasicAuth:       cfg.basicAuth,
		WithCredentials: cfg.withCredentials,
		Timeout:         cfg.timeout,
		ValidateQuery:   cfg.validate,
		HTTPClient:      cfg.httpClient,
	})

	svc := dsuc.New(cfg.name, transport, interp.New(cfg.variables), nil).
		WithDefaults(toDomainQuery(cfg.defaults).WithDefaults(query.Default()))

	return &Client{
		svc:       svc,
		healthSvc: healthuc.New(svc),
		transport: transport,
		obs:       obs,
	}, nil
}

// IncludeCredentials reports whether requests are marked as credentialed.
func (c *Client) IncludeCredentials() bool {
	return c.transport != nil && c.transport.IncludeCredentials()
}

// Query runs every target concurrently and returns one frame per series,
// in target order. Any failing target fails the whole call.
func (c *Client) Query(ctx context.Context, req QueryRequest) (_ []Frame, err error) {
	start := time.Now()
	var frames []*frame.Frame
	defer func() { c.obs.observe("query", start, err, "targets", len(req.Targets), "frames", len(frames)) }()

	frames, err = c.svc.Query(ctx, toDomainRequest(req))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return framesFromDomain(frames), nil
}

// Annotations runs an annotation query and returns one event per document.
func (c *Client) Annotations(ctx context.Context, req AnnotationRequest) (_ []Annotation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("annotations", start, err) }()

	events, err := c.svc.AnnotationQuery(ctx, query.AnnotationRequest{
		Annotation: toDomainQuery(req.Annotation),
		Range:      toDomainRange(req.Range),
	})
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}
	return annotationsFromDomain(events), nil
}

// Test probes the endpoint with an introspection query. It never returns
// an error; failures are described by the Status.
func (c *Client) Test(ctx context.Context) Status {
	start := time.Now()
	st := statusFromDomain(c.svc.TestDatasource(ctx))

	var err error
	if st.State != StatusSuccess {
		err = errors.New(st.Message)
	}
	c.obs.observe("test", start, err)
	return st
}

// Health reports the endpoint health in the server's report format.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
