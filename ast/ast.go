// Package ast is the gateway's own typed query representation: a Document
// of one operation plus its referenced fragments, selections, arguments,
// and variable definitions. It plays the role spec section 1 assigns to
// "a typed AST of selections, fragments, variables, and type references" -
// the rest of the gateway (schema, planner, resolver) only ever sees these
// types, never the underlying parser's AST, the same separation the
// teacher repository draws between federation.Selection/SelectionSet and
// whatever produced them.
package ast

import "github.com/federatedgraph/gateway/gqlerrors"

// OperationKind distinguishes query and mutation documents. Subscriptions
// are rejected by Parse itself with NotSupported (spec section 1,
// Non-goals).
type OperationKind string

const (
	Query    OperationKind = "query"
	Mutation OperationKind = "mutation"
)

// Document is a single client request: one operation plus every fragment
// definition available to it.
type Document struct {
	OperationName string
	Kind          OperationKind
	VariableDefinitions []*VariableDefinition
	SelectionSet        *SelectionSet
	Fragments           map[string]*FragmentDefinition
}

// VariableDefinition is `$name: Type` (possibly with a default value,
// which the gateway passes through untouched since it never evaluates
// defaults itself - the upstream executor owns that semantics).
type VariableDefinition struct {
	Name       string
	TypeString string
	HasDefault bool
	DefaultRaw string
}

// FragmentDefinition is `fragment Name on Type { ... }`.
type FragmentDefinition struct {
	Name          string
	TypeCondition string
	SelectionSet  *SelectionSet
}

// SelectionSet is an ordered list of selections, in document order.
type SelectionSet struct {
	Selections []*Selection
}

// SelectionKind distinguishes the three selection forms GraphQL allows.
type SelectionKind int

const (
	FieldSelection SelectionKind = iota
	FragmentSpreadSelection
	InlineFragmentSelection
)

// Selection is a field, a named fragment spread, or an inline fragment.
// Which fields are meaningful depends on Kind:
//
//   - FieldSelection: Alias, Name, Arguments, SelectionSet
//   - FragmentSpreadSelection: Name (the fragment name)
//   - InlineFragmentSelection: TypeCondition, SelectionSet
//
// Directives holds any @skip/@include (or other) directives attached to
// the selection in source order; all three kinds may carry them.
type Selection struct {
	Kind          SelectionKind
	Alias         string
	Name          string
	Arguments     []*Argument
	Directives    []*Directive
	TypeCondition string
	SelectionSet  *SelectionSet
	Pos           gqlerrors.Position
}

// ResponseKey is the key this selection contributes to the response
// object: the alias if the client gave one, else the field name.
func (s *Selection) ResponseKey() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Argument is `name: value`.
type Argument struct {
	Name  string
	Value Value
}

// Directive is `@name(arg: value, ...)`. The planner evaluates @skip and
// @include against Arguments to decide whether the selection they're
// attached to contributes to a sub-query; it never forwards the
// directive itself to an executor once it has done so.
type Directive struct {
	Name      string
	Arguments []*Argument
}

// Value is either a variable reference or a literal whose GraphQL source
// text was captured verbatim at parse time (the gateway never needs to
// interpret literal values - it only ever forwards them to an executor or
// inspects whether an argument references a variable).
type Value struct {
	IsVariable   bool
	VariableName string
	Literal      string
}
