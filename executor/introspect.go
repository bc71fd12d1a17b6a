package executor

import (
	"context"

	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
)

// DefaultIntrospect runs the standard IntrospectionQuery against e via its
// own Run method and decodes data.__schema. Concrete Executor
// implementations that have no cheaper way to obtain their schema can
// implement Introspect by simply calling this, the same way the default
// trait method did in the implementation this gateway is modeled on.
func DefaultIntrospect(ctx context.Context, e Executor) (*introspection.Schema, error) {
	res, err := e.Run(ctx, introspection.Query, introspection.OperationName, nil)
	if err != nil {
		return nil, gqlerrors.Wrapf(err, "introspecting executor %q", e.Name())
	}

	obj, ok := jsonvalue.AsObject(res)
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: e.Name(), Reason: "response is not a JSON object"}
	}

	dataVal, ok := obj.Get("data")
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: e.Name(), Reason: "response has no data"}
	}
	dataObj, ok := jsonvalue.AsObject(dataVal)
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: e.Name(), Reason: "data is not a JSON object"}
	}
	schemaVal, ok := dataObj.Get("__schema")
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: e.Name(), Reason: "data.__schema does not exist"}
	}

	raw, err := jsonvalue.Marshal(schemaVal)
	if err != nil {
		return nil, &gqlerrors.JsonError{Cause: err}
	}

	var schema introspection.Schema
	if err := unmarshalSchema(raw, &schema); err != nil {
		return nil, &gqlerrors.JsonError{Cause: err}
	}
	return &schema, nil
}
