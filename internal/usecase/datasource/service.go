package datasource

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gqlframes/internal/domain"
	"github.com/kailas-cloud/gqlframes/internal/domain/annotation"
	"github.com/kailas-cloud/gqlframes/internal/domain/document"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	logpkg "github.com/kailas-cloud/gqlframes/internal/logger"
	"github.com/kailas-cloud/gqlframes/internal/metrics"
)

// testQuery is the introspection query used to probe a datasource.
const testQuery = `{
  __schema {
    queryType { name }
  }
}`

// Service runs target queries against one upstream and reshapes the
// responses into frames and annotation events.
type Service struct {
	name     string
	exec     *Executor
	interp   Interpolator
	defaults query.Query
	logger   *zap.Logger
}

// New creates a datasource service.
func New(name string, transport Transport, interp Interpolator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		name:     name,
		exec:     NewExecutor(transport, interp),
		interp:   interp,
		defaults: query.Default(),
		logger:   logger.With(zap.String("datasource", name)),
	}
}

// WithDefaults overrides the query defaults merged into every target.
func (s *Service) WithDefaults(d query.Query) *Service {
	s.defaults = d
	return s
}

// Name returns the datasource name.
func (s *Service) Name() string { return s.name }

// Query runs every target concurrently and reshapes the results into frames.
// A single failing target fails the whole batch; no partial result is
// returned. Frames keep target order, then series order.
func (s *Service) Query(ctx context.Context, req query.Request) ([]*frame.Frame, error) {
	targets := make([]query.Query, len(req.Targets))
	for i, t := range req.Targets {
		targets[i] = t.WithDefaults(s.defaults)
	}

	results := make([]Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			res, err := s.exec.Execute(gctx, t, req.Range, req.ScopedVars)
			if err != nil {
				return fmt.Errorf("target %s: %w", refLabel(t, i), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	interpolate := func(t string) string {
		if s.interp == nil {
			return t
		}
		return s.interp.Replace(t, req.ScopedVars)
	}

	var frames []*frame.Frame
	docCount := 0
	for i, res := range results {
		docs, err := document.Extract(res.Body, res.Query.DataPath)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", refLabel(res.Query, i), err)
		}
		docCount += len(docs)

		frames = append(frames, frame.Build(docs, frame.Options{
			RefID:       res.Query.RefID,
			GroupBy:     res.Query.GroupByFields(),
			AliasBy:     res.Query.AliasBy,
			Interpolate: interpolate,
		})...)
	}

	metrics.DocumentsTotal.WithLabelValues(s.name).Add(float64(docCount))
	metrics.FramesTotal.WithLabelValues(s.name).Add(float64(len(frames)))
	logpkg.FromContextOr(ctx, s.logger).Debug("query reshaped",
		zap.String("datasource", s.name),
		zap.Int("targets", len(targets)),
		zap.Int("documents", docCount),
		zap.Int("frames", len(frames)),
	)
	return frames, nil
}

// AnnotationQuery runs one annotation query and emits one event per document.
// Scoped variables are not applied.
func (s *Service) AnnotationQuery(ctx context.Context, req query.AnnotationRequest) ([]annotation.Event, error) {
	q := req.Annotation.WithDefaults(s.defaults)

	res, err := s.exec.Execute(ctx, q, req.Range, nil)
	if err != nil {
		return nil, err
	}

	docs, err := document.Extract(res.Body, q.DataPath)
	if err != nil {
		return nil, err
	}

	events := annotation.FromDocuments(docs, q)
	metrics.DocumentsTotal.WithLabelValues(s.name).Add(float64(len(docs)))
	logpkg.FromContextOr(ctx, s.logger).Debug("annotations built",
		zap.String("datasource", s.name),
		zap.Int("events", len(events)),
	)
	return events, nil
}

// TestDatasource probes the upstream with an introspection query.
// It never fails; problems are reported through the returned Status.
func (s *Service) TestDatasource(ctx context.Context) Status {
	res, err := s.exec.Post(ctx, s.defaults, testQuery)
	if err != nil {
		st := statusFromError(err)
		logpkg.FromContextOr(ctx, s.logger).Warn("datasource test failed",
			zap.String("datasource", s.name),
			zap.Error(err),
		)
		return st
	}

	if embedded := document.EmbeddedError(res.Body); embedded != nil {
		return Status{State: StateError, Message: "GraphQL Error: " + embedded.Error()}
	}
	return Status{State: StateSuccess, Message: "Success"}
}

// HealthCheck reports a failing TestDatasource as an error.
func (s *Service) HealthCheck(ctx context.Context) error {
	st := s.TestDatasource(ctx)
	if st.State != StateSuccess {
		return errors.New(st.Message)
	}
	return nil
}

func statusFromError(err error) Status {
	var gqlErr *domain.GraphQLError
	if errors.As(err, &gqlErr) {
		return Status{State: StateError, Message: gqlErr.Message}
	}
	var te *domain.TransportError
	if errors.As(err, &te) && te.Status != 0 {
		return Status{
			State:   StateError,
			Message: fmt.Sprintf("HTTP Response %d: %s", te.Status, te.StatusText),
		}
	}
	return Status{State: StateError, Message: err.Error()}
}

func refLabel(q query.Query, i int) string {
	if q.RefID != "" {
		return q.RefID
	}
	return fmt.Sprintf("#%d", i)
}
