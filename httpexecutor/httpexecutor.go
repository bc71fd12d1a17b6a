// Package httpexecutor implements executor.Executor over plain HTTP
// POST requests carrying {query, operationName, variables}, the
// conventional GraphQL-over-HTTP transport. The gateway's core treats
// transport as an external collaborator (spec section 1); this package is
// one concrete binding of it, grounded on the teacher repository's own
// choice to keep transport as a thin adapter around the core engine.
package httpexecutor

import (
	"bytes"
	"context"
	"net/http"

	"github.com/federatedgraph/gateway/executor"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/requestctx"
)

// Executor is an upstream GraphQL service reachable over HTTP.
type Executor struct {
	name       string
	endpoint   string
	httpClient *http.Client
}

// New returns an Executor named name that POSTs queries to endpoint.
// client defaults to http.DefaultClient if nil.
func New(name, endpoint string, client *http.Client) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{name: name, endpoint: endpoint, httpClient: client}
}

func (e *Executor) Name() string { return e.name }

type requestBody struct {
	Query         string           `json:"query"`
	OperationName string           `json:"operationName,omitempty"`
	Variables     *jsonvalue.Object `json:"variables,omitempty"`
}

// Run posts the query to the executor's endpoint and returns the decoded
// JSON response body.
func (e *Executor) Run(ctx context.Context, querySource, operationName string, variables *jsonvalue.Object) (jsonvalue.Value, error) {
	body := requestBody{Query: querySource, OperationName: operationName, Variables: variables}
	raw, err := jsonvalue.Marshal(body)
	if err != nil {
		return nil, &gqlerrors.JsonError{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, gqlerrors.Wrapf(err, "building request to executor %q", e.name)
	}
	req.Header.Set("Content-Type", "application/json")
	if id, ok := requestctx.IDFromContext(ctx); ok {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, gqlerrors.Wrapf(err, "calling executor %q", e.name)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, gqlerrors.Wrapf(err, "reading response from executor %q", e.name)
	}

	val, err := jsonvalue.Unmarshal(buf.Bytes())
	if err != nil {
		return nil, &gqlerrors.JsonError{Cause: err}
	}
	return val, nil
}

// Introspect runs the standard IntrospectionQuery against the executor.
func (e *Executor) Introspect(ctx context.Context) (*introspection.Schema, error) {
	return executor.DefaultIntrospect(ctx, e)
}

var _ executor.Executor = (*Executor)(nil)
