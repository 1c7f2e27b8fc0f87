package datasource

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/kailas-cloud/gqlframes/internal/domain"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

// errorBodyParsers parses transport error bodies; parsed values never
// escape a single mapTransportError call.
var errorBodyParsers fastjson.ParserPool

// Result pairs a target query with its decoded response body.
type Result struct {
	Query query.Query
	Body  *fastjson.Value
}

// Executor substitutes range and scoped variables into a query template
// and sends it through the transport.
type Executor struct {
	transport Transport
	interp    Interpolator
}

// NewExecutor creates an Executor.
func NewExecutor(transport Transport, interp Interpolator) *Executor {
	return &Executor{transport: transport, interp: interp}
}

// Execute renders q.QueryText and issues it. rng and vars are optional:
// without a range $timeFrom/$timeTo stay literal, without scoped variables
// the host templating pass is skipped.
func (e *Executor) Execute(
	ctx context.Context, q query.Query, rng *query.TimeRange, vars query.ScopedVars,
) (Result, error) {
	return e.Post(ctx, q, e.Render(q.QueryText, rng, vars))
}

// Render applies the range and scoped-variable substitutions to a template.
func (e *Executor) Render(template string, rng *query.TimeRange, vars query.ScopedVars) string {
	payload := template
	if rng != nil {
		payload = strings.ReplaceAll(payload, "$timeFrom", strconv.FormatInt(rng.FromMillis(), 10))
		payload = strings.ReplaceAll(payload, "$timeTo", strconv.FormatInt(rng.ToMillis(), 10))
	}
	if vars != nil && e.interp != nil {
		payload = e.interp.Replace(payload, vars)
	}
	return payload
}

// Post sends an already rendered payload.
func (e *Executor) Post(ctx context.Context, q query.Query, payload string) (Result, error) {
	body, err := e.transport.Execute(ctx, payload)
	if err != nil {
		return Result{}, mapTransportError(err)
	}
	return Result{Query: q, Body: body}, nil
}

// mapTransportError turns an error body of the form {"error":{"reason":...}}
// into a *domain.GraphQLError. Anything else propagates unchanged.
func mapTransportError(err error) error {
	var te *domain.TransportError
	if !errors.As(err, &te) || len(te.Body) == 0 {
		return err
	}

	p := errorBodyParsers.Get()
	defer errorBodyParsers.Put(p)

	v, perr := p.ParseBytes(te.Body)
	if perr != nil {
		return err
	}
	errObj := v.Get("error")
	if errObj == nil || errObj.Type() == fastjson.TypeNull {
		return err
	}

	reason := "undefined"
	if r := errObj.Get("reason"); r != nil {
		if r.Type() == fastjson.TypeString {
			reason = string(r.GetStringBytes())
		} else {
			reason = r.String()
		}
	}
	return &domain.GraphQLError{
		Message: "GraphQL error: " + reason,
		Payload: errObj.MarshalTo(nil),
	}
}
