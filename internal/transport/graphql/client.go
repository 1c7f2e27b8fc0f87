package graphql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fastjson"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gqlframes/internal/domain"
	"github.com/kailas-cloud/gqlframes/internal/metrics"
)

const (
	maxBodyBytes = 32 << 20
	unknownOp    = "unknown"
)

// Client posts GraphQL payloads to a single upstream endpoint.
type Client struct {
	name               string
	url                string
	authorization      string
	includeCredentials bool
	validate           bool
	http               *http.Client
	logger             *zap.Logger
}

// Config holds the upstream endpoint settings.
type Config struct {
	Name            string
	URL             string
	BasicAuth       string // sent verbatim as Authorization
	WithCredentials bool
	Timeout         time.Duration
	ValidateQuery   bool
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

// NewClient creates a GraphQL client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		name:               cfg.Name,
		url:                cfg.URL,
		authorization:      cfg.BasicAuth,
		includeCredentials: cfg.BasicAuth != "" || cfg.WithCredentials,
		validate:           cfg.ValidateQuery,
		http:               httpClient,
		logger:             logger,
	}
}

// IncludeCredentials reports whether the datasource asked for credentialed requests.
func (c *Client) IncludeCredentials() bool { return c.includeCredentials }

// Execute sends {"query": payload} and returns the decoded response body.
func (c *Client) Execute(ctx context.Context, payload string) (*fastjson.Value, error) {
	kind, name, err := c.inspect(payload)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.post(ctx, payload)
	duration := time.Since(start)

	metrics.UpstreamRequestDuration.WithLabelValues(c.name, kind).Observe(duration.Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.name, kind, "error").Inc()
		c.logger.Warn("upstream request failed",
			zap.String("datasource", c.name),
			zap.String("operation", name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(c.name, kind, "ok").Inc()

	c.logger.Debug("upstream request",
		zap.String("datasource", c.name),
		zap.String("operation", name),
		zap.Bool("credentials", c.includeCredentials),
		zap.Duration("duration", duration),
	)
	return body, nil
}

// inspect parses the payload and returns the operation kind and name.
// A parse failure is only fatal when validation is enabled.
// The kind is one of query, mutation, subscription or unknown and is safe
// as a metric label. The name comes from the caller and is only logged.
func (c *Client) inspect(payload string) (kind, name string, err error) {
	doc, perr := parser.ParseQuery(&ast.Source{Input: payload})
	if perr != nil {
		if c.validate {
			return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidQuery, perr)
		}
		return unknownOp, unknownOp, nil
	}
	kind, name = operationLabels(doc)
	return kind, name, nil
}

func operationLabels(doc *ast.QueryDocument) (kind, name string) {
	if len(doc.Operations) == 0 {
		return unknownOp, unknownOp
	}
	op := doc.Operations[0]
	switch op.Operation {
	case ast.Query, ast.Mutation, ast.Subscription:
		kind = string(op.Operation)
	default:
		kind = unknownOp
	}
	if op.Name != "" {
		return kind, op.Name
	}
	return kind, kind
}

func (c *Client) post(ctx context.Context, payload string) (*fastjson.Value, error) {
	var arena fastjson.Arena
	reqBody := arena.NewObject()
	reqBody.Set("query", arena.NewString(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody.MarshalTo(nil)))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("read body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.TransportError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       raw,
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, &domain.TransportError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       raw,
			Err:        fmt.Errorf("decode body: %w", err),
		}
	}
	return v, nil
}
