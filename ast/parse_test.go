package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federatedgraph/gateway/jsonvalue"
)

func TestParseSimpleQuery(t *testing.T) {
	doc, err := Parse(`query Foo($id: ID!) { user(id: $id) { name alias: email } }`, "")
	require.NoError(t, err)

	assert.Equal(t, Query, doc.Kind)
	assert.Equal(t, "Foo", doc.OperationName)
	require.Len(t, doc.VariableDefinitions, 1)
	assert.Equal(t, "id", doc.VariableDefinitions[0].Name)
	assert.Equal(t, "ID!", doc.VariableDefinitions[0].TypeString)

	require.Len(t, doc.SelectionSet.Selections, 1)
	userSel := doc.SelectionSet.Selections[0]
	assert.Equal(t, FieldSelection, userSel.Kind)
	assert.Equal(t, "user", userSel.Name)
	require.Len(t, userSel.Arguments, 1)
	assert.True(t, userSel.Arguments[0].Value.IsVariable)
	assert.Equal(t, "id", userSel.Arguments[0].Value.VariableName)

	require.Len(t, userSel.SelectionSet.Selections, 2)
	emailSel := userSel.SelectionSet.Selections[1]
	assert.Equal(t, "email", emailSel.Name)
	assert.Equal(t, "alias", emailSel.Alias)
	assert.Equal(t, "alias", emailSel.ResponseKey())

	nameSel := userSel.SelectionSet.Selections[0]
	assert.Equal(t, "name", nameSel.ResponseKey())
}

func TestParseFragments(t *testing.T) {
	doc, err := Parse(`
		query {
			user { ...UserFields ... on Admin { permissions } }
		}
		fragment UserFields on User {
			name
		}
	`, "")
	require.NoError(t, err)

	require.Len(t, doc.Fragments, 1)
	frag, ok := doc.Fragments["UserFields"]
	require.True(t, ok)
	assert.Equal(t, "User", frag.TypeCondition)

	userSel := doc.SelectionSet.Selections[0]
	require.Len(t, userSel.SelectionSet.Selections, 2)
	assert.Equal(t, FragmentSpreadSelection, userSel.SelectionSet.Selections[0].Kind)
	assert.Equal(t, "UserFields", userSel.SelectionSet.Selections[0].Name)

	inline := userSel.SelectionSet.Selections[1]
	assert.Equal(t, InlineFragmentSelection, inline.Kind)
	assert.Equal(t, "Admin", inline.TypeCondition)
}

func TestParseSelectsNamedOperation(t *testing.T) {
	doc, err := Parse(`
		query First { a }
		query Second { b }
	`, "Second")
	require.NoError(t, err)
	require.Len(t, doc.SelectionSet.Selections, 1)
	assert.Equal(t, "b", doc.SelectionSet.Selections[0].Name)
}

func TestParseAmbiguousOperationWithoutNameErrors(t *testing.T) {
	_, err := Parse(`query First { a } query Second { b }`, "")
	assert.Error(t, err)
}

func TestParseMutation(t *testing.T) {
	doc, err := Parse(`mutation { createUser(name: "bob") { id } }`, "")
	require.NoError(t, err)
	assert.Equal(t, Mutation, doc.Kind)
}

func TestParseSubscriptionNotSupported(t *testing.T) {
	_, err := Parse(`subscription { onEvent }`, "")
	assert.Error(t, err)
}

func TestParseCapturesDirectives(t *testing.T) {
	doc, err := Parse(`query Foo($skip: Boolean!) {
		user {
			name @skip(if: $skip)
			email @include(if: true)
			... on Admin @include(if: false) { permissions }
		}
	}`, "")
	require.NoError(t, err)

	userSel := doc.SelectionSet.Selections[0]
	nameSel := userSel.SelectionSet.Selections[0]
	require.Len(t, nameSel.Directives, 1)
	assert.Equal(t, "skip", nameSel.Directives[0].Name)
	require.Len(t, nameSel.Directives[0].Arguments, 1)
	assert.True(t, nameSel.Directives[0].Arguments[0].Value.IsVariable)
	assert.Equal(t, "skip", nameSel.Directives[0].Arguments[0].Value.VariableName)

	emailSel := userSel.SelectionSet.Selections[1]
	require.Len(t, emailSel.Directives, 1)
	assert.Equal(t, "include", emailSel.Directives[0].Name)
	assert.Equal(t, "true", emailSel.Directives[0].Arguments[0].Value.Literal)

	inline := userSel.SelectionSet.Selections[2]
	require.Len(t, inline.Directives, 1)
	assert.Equal(t, "include", inline.Directives[0].Name)
	assert.Equal(t, "false", inline.Directives[0].Arguments[0].Value.Literal)
}

func TestRenderPreservesDirectives(t *testing.T) {
	doc, err := Parse(`query Foo($skip: Boolean!) { user { name @skip(if: $skip) } }`, "")
	require.NoError(t, err)

	rendered := Render(doc)
	doc2, err := Parse(rendered, "")
	require.NoError(t, err)

	nameSel := doc2.SelectionSet.Selections[0].SelectionSet.Selections[0]
	require.Len(t, nameSel.Directives, 1)
	assert.Equal(t, "skip", nameSel.Directives[0].Name)
	assert.True(t, nameSel.Directives[0].Arguments[0].Value.IsVariable)
	assert.Equal(t, "skip", nameSel.Directives[0].Arguments[0].Value.VariableName)
}

func TestShouldIncludeEvaluatesSkipAndInclude(t *testing.T) {
	vars := jsonvalue.NewObject()
	vars.Set("skipIt", true)
	vars.Set("includeIt", false)

	doc, err := Parse(`query Q($skipIt: Boolean!, $includeIt: Boolean!) {
		a @skip(if: $skipIt)
		b @include(if: $includeIt)
		c @skip(if: false)
		d @include(if: true)
	}`, "")
	require.NoError(t, err)

	sels := doc.SelectionSet.Selections
	got := make(map[string]bool, len(sels))
	for _, sel := range sels {
		ok, err := ShouldInclude(sel.Directives, vars)
		require.NoError(t, err)
		got[sel.Name] = ok
	}

	assert.Equal(t, map[string]bool{"a": false, "b": false, "c": true, "d": true}, got)
}

func TestShouldIncludeSkipWinsOverInclude(t *testing.T) {
	doc, err := Parse(`{ a @skip(if: true) @include(if: true) }`, "")
	require.NoError(t, err)

	ok, err := ShouldInclude(doc.SelectionSet.Selections[0].Directives, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRenderRoundTripsQuery(t *testing.T) {
	doc, err := Parse(`query Foo($id: ID!) { user(id: $id) { name } }`, "")
	require.NoError(t, err)

	rendered := Render(doc)
	doc2, err := Parse(rendered, "")
	require.NoError(t, err)
	assert.Equal(t, doc.OperationName, doc2.OperationName)
	assert.Equal(t, doc.SelectionSet.Selections[0].Name, doc2.SelectionSet.Selections[0].Name)
}
