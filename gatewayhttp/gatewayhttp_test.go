package gatewayhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federatedgraph/gateway/gateway"
)

func TestServeHTTPRejectsNonPost(t *testing.T) {
	h := NewHandler(gateway.New())
	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeHTTPRejectsMalformedBody(t *testing.T) {
	h := NewHandler(gateway.New())
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeHTTPStampsRequestIDHeader(t *testing.T) {
	h := NewHandler(gateway.New())
	body := `{"query": "{ __typename }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	_, hasErrors := payload["errors"]
	assert.True(t, hasErrors, "gateway has no built schema yet, so execution must fail")
}
