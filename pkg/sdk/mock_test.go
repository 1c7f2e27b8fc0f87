package gqlframes

import (
	"context"

	"github.com/kailas-cloud/gqlframes/internal/domain/annotation"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
)

// --- datasourceUseCase mock ---

type mockDatasourceUC struct {
	queryFn       func(ctx context.Context, req query.Request) ([]*frame.Frame, error)
	annotationsFn func(ctx context.Context, req query.AnnotationRequest) ([]annotation.Event, error)
	testFn        func(ctx context.Context) dsuc.Status
}

func (m *mockDatasourceUC) Query(ctx context.Context, req query.Request) ([]*frame.Frame, error) {
	return m.queryFn(ctx, req)
}

func (m *mockDatasourceUC) AnnotationQuery(
	ctx context.Context, req query.AnnotationRequest,
) ([]annotation.Event, error) {
	return m.annotationsFn(ctx, req)
}

func (m *mockDatasourceUC) TestDatasource(ctx context.Context) dsuc.Status {
	return m.testFn(ctx)
}
