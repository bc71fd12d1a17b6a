// Package requestctx carries a per-request trace id through a
// context.Context, from the HTTP front door (gatewayhttp) down to whatever
// transport an executor uses (httpexecutor) to reach an upstream service.
// Grounded on the teacher repository's own satori/go.uuid dependency (used
// there for sqlgen primary keys), since the teacher never forwards a
// per-request id to its federated services itself.
package requestctx

import (
	"context"

	uuid "github.com/satori/go.uuid"
)

type key struct{}

// WithNewID stamps ctx with a freshly generated request id.
func WithNewID(ctx context.Context) (context.Context, string) {
	id, _ := uuid.NewV4()
	s := id.String()
	return context.WithValue(ctx, key{}, s), s
}

// IDFromContext returns the request id stamped by WithNewID, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
