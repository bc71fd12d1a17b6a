// Package gatewayhttp exposes a gateway.Gateway as an HTTP handler
// speaking the conventional GraphQL-over-HTTP protocol: POST a JSON body
// of {query, operationName, variables}, get back {data} or {errors}.
// Grounded on the teacher repository's graphql.HTTPHandler, simplified
// since this gateway has no subscriptions or live-query rerunning to
// drive (spec section 1 Non-goals).
package gatewayhttp

import (
	"encoding/json"
	"net/http"

	"github.com/federatedgraph/gateway/gateway"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/requestctx"
)

type requestBody struct {
	Query         string           `json:"query"`
	OperationName string           `json:"operationName"`
	Variables     *jsonvalue.Object `json:"variables"`
}

// Handler serves client GraphQL requests against a Gateway.
type Handler struct {
	Gateway *gateway.Gateway
}

// NewHandler returns an http.Handler backed by g.
func NewHandler(g *gateway.Gateway) *Handler {
	return &Handler{Gateway: g}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "request must be a POST", http.StatusMethodNotAllowed)
		return
	}
	if r.Body == nil {
		http.Error(w, "request must include a query", http.StatusBadRequest)
		return
	}

	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, requestID := requestctx.WithNewID(r.Context())
	w.Header().Set("X-Request-Id", requestID)

	response := h.Gateway.Execute(ctx, gateway.Request{
		Query:         body.Query,
		OperationName: body.OperationName,
		Variables:     body.Variables,
	})

	raw, err := jsonvalue.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Write(raw)
}
