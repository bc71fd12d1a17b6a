package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/executor"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/planner"
)

func userObj(id, name string) *jsonvalue.Object {
	o := jsonvalue.NewObject()
	o.Set("id", id)
	o.Set("name", name)
	return o
}

func TestNodeFetchJoinsArrayElementsByID(t *testing.T) {
	s := buildSchema(t)

	reviewsExec := &fakeExecutor{name: "reviews", handler: func(query, op string, vars *jsonvalue.Object) (jsonvalue.Value, error) {
		ids, _ := vars.Get(nodeFetchIdsVariable)
		idList, _ := jsonvalue.AsArray(ids)
		require.Len(t, idList, 2)

		nodeA := jsonvalue.NewObject()
		nodeA.Set("id", "U1")
		nodeA.Set("reviewCount", 1.0)
		nodeB := jsonvalue.NewObject()
		nodeB.Set("id", "U2")
		nodeB.Set("reviewCount", 2.0)

		data := jsonvalue.NewObject()
		data.Set("nodes", []jsonvalue.Value{nodeA, nodeB})
		return dataResponse(t, data), nil
	}}

	r := New(s, map[string]executor.Executor{"reviews": reviewsExec})
	req := &request{plan: newTestPlan(), vars: jsonvalue.NewObject()}

	selections := mustSelections(t, `{ reviewCount }`)
	arr := []jsonvalue.Value{userObj("U2", "Bob"), userObj("U1", "Alice")}

	out, err := r.nodeFetch(context.Background(), req, "User", selections, arr)
	require.NoError(t, err)

	joined, ok := jsonvalue.AsArray(out)
	require.True(t, ok)
	require.Len(t, joined, 2)

	bobObj, _ := jsonvalue.AsObject(joined[0])
	reviewCount, _ := bobObj.Get("reviewCount")
	assert.Equal(t, 2.0, reviewCount)

	aliceObj, _ := jsonvalue.AsObject(joined[1])
	reviewCount, _ = aliceObj.Get("reviewCount")
	assert.Equal(t, 1.0, reviewCount)
}

func TestNodeFetchUnmatchedArrayElementBecomesNull(t *testing.T) {
	s := buildSchema(t)

	reviewsExec := &fakeExecutor{name: "reviews", handler: func(query, op string, vars *jsonvalue.Object) (jsonvalue.Value, error) {
		nodeA := jsonvalue.NewObject()
		nodeA.Set("id", "U1")
		nodeA.Set("reviewCount", 1.0)
		data := jsonvalue.NewObject()
		data.Set("nodes", []jsonvalue.Value{nodeA})
		return dataResponse(t, data), nil
	}}

	r := New(s, map[string]executor.Executor{"reviews": reviewsExec})
	req := &request{plan: newTestPlan(), vars: jsonvalue.NewObject()}

	selections := mustSelections(t, `{ reviewCount }`)
	arr := []jsonvalue.Value{userObj("U1", "Alice"), userObj("U2", "Bob")}

	out, err := r.nodeFetch(context.Background(), req, "User", selections, arr)
	require.NoError(t, err)

	joined, ok := jsonvalue.AsArray(out)
	require.True(t, ok)
	require.Len(t, joined, 2)
	assert.NotNil(t, joined[0])
	assert.Nil(t, joined[1])
}

func TestNodeFetchMissingIDFails(t *testing.T) {
	s := buildSchema(t)
	r := New(s, map[string]executor.Executor{"reviews": &fakeExecutor{name: "reviews"}})
	req := &request{plan: newTestPlan(), vars: jsonvalue.NewObject()}

	selections := mustSelections(t, `{ reviewCount }`)
	noID := jsonvalue.NewObject()
	noID.Set("name", "Alice")
	arr := []jsonvalue.Value{noID}

	_, err := r.nodeFetch(context.Background(), req, "User", selections, arr)
	require.Error(t, err)
	_, ok := err.(*gqlerrors.MissingFieldId)
	assert.True(t, ok)
}

func mustSelections(t *testing.T, query string) []*ast.Selection {
	t.Helper()
	doc, err := ast.Parse(query, "")
	require.NoError(t, err)
	return doc.SelectionSet.Selections
}

func newTestPlan() *planner.Request {
	return &planner.Request{Fragments: map[string]*ast.FragmentDefinition{}}
}
