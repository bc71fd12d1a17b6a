// Package introspection models the standard GraphQL __schema introspection
// shape (spec section 3) that every executor must answer with, and carries
// the IntrospectionQuery document the gateway sends to obtain it.
package introspection

// Kind enumerates the introspection type kinds.
type Kind string

const (
	Scalar      Kind = "SCALAR"
	Object      Kind = "OBJECT"
	Interface   Kind = "INTERFACE"
	Union       Kind = "UNION"
	Enum        Kind = "ENUM"
	InputObject Kind = "INPUT_OBJECT"
	List        Kind = "LIST"
	NonNull     Kind = "NON_NULL"
)

// TypeRef is a recursive type reference: a named type, or a List/NonNull
// wrapper around another TypeRef.
type TypeRef struct {
	Kind   Kind     `json:"kind"`
	Name   string   `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// NamedType peels List/NonNull wrappers and returns the final named type
// reference (spec section 3: "the final named type is obtained by peeling
// wrappers").
func (t *TypeRef) NamedType() *TypeRef {
	for t != nil && t.OfType != nil {
		t = t.OfType
	}
	return t
}

// InputValue is an argument or input-object field definition.
type InputValue struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         *TypeRef `json:"type"`
	DefaultValue *string  `json:"defaultValue,omitempty"`
}

// EnumValue is one member of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Field is a field on an object or interface type.
type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Args              []InputValue `json:"args"`
	Type              *TypeRef     `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason string       `json:"deprecationReason,omitempty"`

	// OwnerExecutor is the non-standard annotation added during merging
	// (spec section 3); it is never present on a raw per-executor
	// introspection response, only on a merged Schema's fields.
	OwnerExecutor string `json:"-"`
}

// Type is one entry of __schema.types.
type Type struct {
	Kind          Kind         `json:"kind"`
	Name          string       `json:"name,omitempty"`
	Description   string       `json:"description,omitempty"`
	Fields        []*Field     `json:"fields,omitempty"`
	Interfaces    []*TypeRef   `json:"interfaces,omitempty"`
	PossibleTypes []*TypeRef   `json:"possibleTypes,omitempty"`
	EnumValues    []*EnumValue `json:"enumValues,omitempty"`
	InputFields   []InputValue `json:"inputFields,omitempty"`
	OfType        *TypeRef     `json:"ofType,omitempty"`
}

// Schema is the __schema object of an IntrospectionQuery response.
type Schema struct {
	QueryType        *TypeRef `json:"queryType"`
	MutationType     *TypeRef `json:"mutationType,omitempty"`
	SubscriptionType *TypeRef `json:"subscriptionType,omitempty"`
	Types            []*Type  `json:"types"`
}

// QueryResult is the top-level shape of an IntrospectionQuery response:
// {"data": {"__schema": {...}}}.
type QueryResult struct {
	Data struct {
		Schema *Schema `json:"__schema"`
	} `json:"data"`
}
