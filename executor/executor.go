// Package executor defines the Executor capability the gateway federates
// over: an opaque, async upstream GraphQL service reachable only by name,
// a query-running operation, and introspection (spec section 1's external
// collaborator (b), and section 6's "Executor contract").
package executor

import (
	"context"

	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
)

// Executor is one upstream GraphQL service. Implementations must tolerate
// concurrent Run calls (spec section 5, "Shared resources": "Executors
// must tolerate concurrent run invocations").
type Executor interface {
	// Name returns the executor's stable identifier, used as the
	// ownerExecutor annotation and in node-fetch bookkeeping.
	Name() string

	// Run executes querySource against the upstream service and returns
	// its raw JSON response (including a top-level {"data": ...} and/or
	// {"errors": ...}) as a jsonvalue.Value. requestContext is the
	// gateway's opaque per-request context bag, threaded through as a Go
	// context.Context value bag rather than a separate parameter (spec
	// section 6 design note).
	Run(ctx context.Context, querySource string, operationName string, variables *jsonvalue.Object) (jsonvalue.Value, error)

	// Introspect runs the standard IntrospectionQuery document and
	// returns the executor's __schema.
	Introspect(ctx context.Context) (*introspection.Schema, error)
}
