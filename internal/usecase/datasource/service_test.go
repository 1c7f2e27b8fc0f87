package datasource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/valyala/fastjson"

	"github.com/kailas-cloud/gqlframes/internal/domain"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/interp"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

func valuesOf(t *testing.T, fr *frame.Frame, name string) []string {
	t.Helper()
	f, ok := fr.Field(name)
	if !ok {
		t.Fatalf("frame %q has no field %q", fr.Key(), name)
	}
	out := make([]string, 0, len(f.Values()))
	for _, v := range f.Values() {
		out = append(out, v.String())
	}
	return out
}

func TestQuery_GroupedFrames(t *testing.T) {
	tr := &mockTransport{body: `{"data":{"metrics":[
		{"Time":1000,"region":"eu","value":1},
		{"Time":2000,"region":"us","value":2},
		{"Time":3000,"region":"eu","value":3}
	]}}`}
	svc := New("main", tr, interp.New(nil), nil)

	frames, err := svc.Query(context.Background(), query.Request{
		Targets: []query.Query{{RefID: "A", QueryText: "{}", DataPath: "data.metrics", GroupBy: "region"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Key() != "eu" || frames[1].Key() != "us" {
		t.Errorf("keys = %q, %q", frames[0].Key(), frames[1].Key())
	}
	if frames[0].RefID() != "A" {
		t.Errorf("refId = %q", frames[0].RefID())
	}
	if got := valuesOf(t, frames[0], "value"); strings.Join(got, ",") != "1,3" {
		t.Errorf("eu values = %v", got)
	}
	tf, _ := frames[0].Field("Time")
	if tf.Type() != frame.TypeTime {
		t.Errorf("Time type = %s", tf.Type())
	}
	vf, _ := frames[0].Field("value")
	if vf.Title() != "eu_value" {
		t.Errorf("value title = %q", vf.Title())
	}
}

func TestQuery_AppliesDefaults(t *testing.T) {
	tr := &mockTransport{body: `{"data":[{"a":1}]}`}
	svc := New("main", tr, nil, nil).WithDefaults(query.Query{DataPath: "data", QueryText: "{ default }"})

	frames, err := svc.Query(context.Background(), query.Request{Targets: []query.Query{{RefID: "A"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.payloads) != 1 || tr.payloads[0] != "{ default }" {
		t.Errorf("payloads = %v", tr.payloads)
	}
	if len(frames) != 1 || frames[0].Len() != 1 {
		t.Fatalf("unexpected frames: %d", len(frames))
	}
}

func TestQuery_TargetOrderPreserved(t *testing.T) {
	tr := &mockTransport{responses: map[string]string{
		"qa": `{"data":[{"v":1}]}`,
		"qb": `{"data":[{"v":2}]}`,
		"qc": `{"data":[{"v":3}]}`,
	}}
	svc := New("main", tr, nil, nil)

	frames, err := svc.Query(context.Background(), query.Request{Targets: []query.Query{
		{RefID: "A", QueryText: "qa"},
		{RefID: "B", QueryText: "qb"},
		{RefID: "C", QueryText: "qc"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var refs []string
	for _, f := range frames {
		refs = append(refs, f.RefID())
	}
	if strings.Join(refs, "") != "ABC" {
		t.Errorf("frame order = %v", refs)
	}
}

func TestQuery_FailFast(t *testing.T) {
	tr := &mockTransport{execFn: func(ctx context.Context, payload string) (*fastjson.Value, error) {
		if payload == "bad" {
			return nil, &domain.TransportError{Status: 500, StatusText: "Internal Server Error"}
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	svc := New("main", tr, nil, nil)

	frames, err := svc.Query(context.Background(), query.Request{Targets: []query.Query{
		{RefID: "A", QueryText: "slow"},
		{RefID: "B", QueryText: "bad"},
	}})
	if err == nil {
		t.Fatal("expected error")
	}
	if frames != nil {
		t.Errorf("expected no partial frames, got %d", len(frames))
	}
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestQuery_PathErrorsSurface(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"embedded graphql error", `{"errors":[{"message":"Cannot query field"}]}`, domain.ErrGraphQL},
		{"missing path", `{"data":{"other":[]}}`, domain.ErrPathNotFound},
		{"scalar element", `{"data":{"items":[1,2]}}`, domain.ErrInvalidDocument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New("main", &mockTransport{body: tc.body}, nil, nil)
			_, err := svc.Query(context.Background(), query.Request{
				Targets: []query.Query{{RefID: "A", QueryText: "{}", DataPath: "data.items"}},
			})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuery_AliasUsesScopedVars(t *testing.T) {
	tr := &mockTransport{body: `{"data":[{"host":"a","cpu":1}]}`}
	svc := New("main", tr, interp.New(nil), nil)

	frames, err := svc.Query(context.Background(), query.Request{
		Targets: []query.Query{{
			RefID: "A", QueryText: "{}", GroupBy: "host", AliasBy: "$env $field_host $fieldName",
		}},
		ScopedVars: query.ScopedVars{"env": {Value: "prod"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, _ := frames[0].Field("cpu")
	if f.Title() != "prod a cpu" {
		t.Errorf("title = %q", f.Title())
	}
}

func TestQuery_NoTargets(t *testing.T) {
	svc := New("main", &mockTransport{}, nil, nil)

	frames, err := svc.Query(context.Background(), query.Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("expected no frames, got %d", len(frames))
	}
}

func TestAnnotationQuery(t *testing.T) {
	tr := &mockTransport{body: `{"data":{"deploys":[
		{"Time":1000,"TimeEnd":2000,"svc":"api","ver":"1.2","team":"core"},
		{"Time":3000,"svc":"web","ver":"2.0","team":"ui"}
	]}}`}
	svc := New("main", tr, interp.New(nil), nil)

	rng := query.RangeFromMillis(0, 5000)
	events, err := svc.AnnotationQuery(context.Background(), query.AnnotationRequest{
		Annotation: query.Query{
			QueryText:       `{ deploys(from: $timeFrom) }`,
			DataPath:        "data.deploys",
			AnnotationTitle: "$field_svc",
			AnnotationText:  "version $field_ver",
			AnnotationTags:  "deploy, $field_team",
		},
		Range: &rng,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.payloads[0] != `{ deploys(from: 0) }` {
		t.Errorf("payload = %q", tr.payloads[0])
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].IsRegion || *events[0].TimeEnd != 2000 {
		t.Errorf("first event should be a region: %+v", events[0])
	}
	if events[1].IsRegion || *events[1].Time != 3000 {
		t.Errorf("second event: %+v", events[1])
	}
	if events[0].Title != "api" || events[0].Text != "version 1.2" {
		t.Errorf("title/text = %q/%q", events[0].Title, events[0].Text)
	}
	if strings.Join(events[1].Tags, "|") != "deploy|ui" {
		t.Errorf("tags = %v", events[1].Tags)
	}
}

func TestAnnotationQuery_DoesNotApplyScopedVars(t *testing.T) {
	rec := &recordingInterp{}
	svc := New("main", &mockTransport{body: `{"data":[]}`}, rec, nil)

	if _, err := svc.AnnotationQuery(context.Background(), query.AnnotationRequest{
		Annotation: query.Query{QueryText: "$x"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("interpolator ran %d times", rec.calls)
	}
}

func TestTestDatasource(t *testing.T) {
	tests := []struct {
		name    string
		tr      *mockTransport
		state   State
		message string
	}{
		{
			name:    "success",
			tr:      &mockTransport{body: `{"data":{"__schema":{"queryType":{"name":"Query"}}}}`},
			state:   StateSuccess,
			message: "Success",
		},
		{
			name:    "errors in body",
			tr:      &mockTransport{body: `{"errors":[{"message":"introspection disabled"}]}`},
			state:   StateError,
			message: "GraphQL Error: introspection disabled",
		},
		{
			name: "mapped error reason",
			tr: &mockTransport{err: &domain.TransportError{
				Status: 400, StatusText: "Bad Request", Body: []byte(`{"error":{"reason":"denied"}}`),
			}},
			state:   StateError,
			message: "GraphQL error: denied",
		},
		{
			name:    "http failure",
			tr:      &mockTransport{err: &domain.TransportError{Status: 503, StatusText: "Service Unavailable"}},
			state:   StateError,
			message: "HTTP Response 503: Service Unavailable",
		},
		{
			name:    "other failure",
			tr:      &mockTransport{err: errors.New("dial tcp: refused")},
			state:   StateError,
			message: "dial tcp: refused",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New("main", tc.tr, nil, nil)
			st := svc.TestDatasource(context.Background())
			if st.State != tc.state || st.Message != tc.message {
				t.Errorf("got %+v, want {%s %q}", st, tc.state, tc.message)
			}
		})
	}
}

func TestTestDatasource_SendsIntrospection(t *testing.T) {
	tr := &mockTransport{body: `{"data":{}}`}
	svc := New("main", tr, nil, nil)

	svc.TestDatasource(context.Background())
	if len(tr.payloads) != 1 || !strings.Contains(tr.payloads[0], "__schema") {
		t.Errorf("payloads = %v", tr.payloads)
	}
}

func TestHealthCheck(t *testing.T) {
	ok := New("ok", &mockTransport{body: `{"data":{}}`}, nil, nil)
	if err := ok.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := New("bad", &mockTransport{err: &domain.TransportError{Status: 500, StatusText: "Internal Server Error"}}, nil, nil)
	err := bad.HealthCheck(context.Background())
	if err == nil || err.Error() != "HTTP Response 500: Internal Server Error" {
		t.Errorf("unexpected error: %v", err)
	}
}
