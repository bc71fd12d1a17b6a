package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
)

func idType() *introspection.TypeRef {
	return &introspection.TypeRef{Kind: introspection.NonNull, OfType: &introspection.TypeRef{Kind: introspection.Scalar, Name: "ID"}}
}

func namedType(kind introspection.Kind, name string) *introspection.TypeRef {
	return &introspection.TypeRef{Kind: kind, Name: name}
}

func nodeInterfaceRef() *introspection.TypeRef {
	return &introspection.TypeRef{Kind: introspection.Interface, Name: "Node"}
}

func TestMergeUnionOfDisjointFields(t *testing.T) {
	account := &introspection.Schema{
		QueryType: namedType(introspection.Object, "Query"),
		Types: []*introspection.Type{
			{Kind: introspection.Object, Name: "Query", Fields: []*introspection.Field{
				{Name: "me", Type: namedType(introspection.Object, "User")},
			}},
			{Kind: introspection.Object, Name: "User", Interfaces: []*introspection.TypeRef{nodeInterfaceRef()}, Fields: []*introspection.Field{
				{Name: "id", Type: idType()},
				{Name: "name", Type: namedType(introspection.Scalar, "String")},
			}},
		},
	}
	reviews := &introspection.Schema{
		Types: []*introspection.Type{
			{Kind: introspection.Object, Name: "User", Interfaces: []*introspection.TypeRef{nodeInterfaceRef()}, Fields: []*introspection.Field{
				{Name: "id", Type: idType()},
				{Name: "reviewCount", Type: namedType(introspection.Scalar, "Int")},
			}},
		},
	}

	merged, err := Merge([]ExecutorSchema{{Name: "account", Schema: account}, {Name: "reviews", Schema: reviews}})
	require.NoError(t, err)

	owner, field, ok := merged.Field(introspection.Object, "User", "name")
	require.True(t, ok)
	assert.Equal(t, "account", owner)
	assert.Equal(t, "name", field.Name)

	owner, field, ok = merged.Field(introspection.Object, "User", "reviewCount")
	require.True(t, ok)
	assert.Equal(t, "reviews", owner)

	assert.True(t, merged.ImplementsNode("User"))
}

func TestMergeDuplicateFieldFails(t *testing.T) {
	a := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "User", Fields: []*introspection.Field{
			{Name: "name", Type: namedType(introspection.Scalar, "String")},
		}},
	}}
	b := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "User", Fields: []*introspection.Field{
			{Name: "name", Type: namedType(introspection.Scalar, "String")},
		}},
	}}

	_, err := Merge([]ExecutorSchema{{Name: "a", Schema: a}, {Name: "b", Schema: b}})
	require.Error(t, err)
	dupErr, ok := err.(*gqlerrors.DuplicateObjectFields)
	require.True(t, ok)
	require.Len(t, dupErr.Conflicts, 1)
	assert.Equal(t, "name", dupErr.Conflicts[0].FieldName)
}

func TestMergeWhitelistsIDTypedFieldRepeats(t *testing.T) {
	a := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "User", Fields: []*introspection.Field{
			{Name: "id", Type: idType()},
		}},
	}}
	b := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "User", Fields: []*introspection.Field{
			{Name: "id", Type: idType()},
		}},
	}}

	merged, err := Merge([]ExecutorSchema{{Name: "a", Schema: a}, {Name: "b", Schema: b}})
	require.NoError(t, err)
	assert.Empty(t, merged.DuplicateFields)
}

func TestMergeWhitelistsInterfaceTypedFieldRepeats(t *testing.T) {
	a := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "Query", Fields: []*introspection.Field{
			{Name: "node", Type: namedType(introspection.Interface, "Node")},
		}},
	}}
	b := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Object, Name: "Query", Fields: []*introspection.Field{
			{Name: "node", Type: namedType(introspection.Interface, "Node")},
		}},
	}}

	merged, err := Merge([]ExecutorSchema{{Name: "a", Schema: a}, {Name: "b", Schema: b}})
	require.NoError(t, err)
	assert.Empty(t, merged.DuplicateFields)
}

func TestMergeDeduplicatesPossibleTypes(t *testing.T) {
	a := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Interface, Name: "Node", PossibleTypes: []*introspection.TypeRef{
			namedType(introspection.Object, "User"),
		}},
	}}
	b := &introspection.Schema{Types: []*introspection.Type{
		{Kind: introspection.Interface, Name: "Node", PossibleTypes: []*introspection.TypeRef{
			namedType(introspection.Object, "User"),
			namedType(introspection.Object, "Product"),
		}},
	}}

	merged, err := Merge([]ExecutorSchema{{Name: "a", Schema: a}, {Name: "b", Schema: b}})
	require.NoError(t, err)
	node := merged.Interface("Node")
	require.NotNil(t, node)
	require.Len(t, node.PossibleTypes, 2)
}
