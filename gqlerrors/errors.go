// Package gqlerrors implements the gateway's closed error taxonomy and
// the GraphQL-shaped response serialization described in spec section 7.
// The typed error kinds are returned unwrapped so callers can type-assert
// them; Wrapf and Errorf (github.com/samsarahq/go/oops) annotate other
// failures, matching the error-handling idiom used throughout the teacher
// repository's federation package.
package gqlerrors

import (
	"fmt"

	"github.com/samsarahq/go/oops"
)

// Position is a source location, used when an error can be attributed to
// a specific point in the client query. The zero value {0, 0} means "no
// position available".
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionedError pairs an error with the source location it originated
// from, for inclusion in a QueryError's error list.
type PositionedError struct {
	Pos Position
	Err error
}

func (e *PositionedError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *PositionedError) Unwrap() error { return e.Err }

// At wraps err with a source position.
func At(pos Position, err error) *PositionedError {
	return &PositionedError{Pos: pos, Err: err}
}

// FieldNotFound is a planning error: the selection names a field the
// merged schema has no record of on the given type.
type FieldNotFound struct {
	Type string
	Name string
}

func (e *FieldNotFound) Error() string {
	return fmt.Sprintf("cannot query field %q on type %q", e.Name, e.Type)
}

// UnknownFragment is a planning error: a fragment spread names a fragment
// absent from the document.
type UnknownFragment struct {
	Name string
}

func (e *UnknownFragment) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Name)
}

// MissingTypeConditionInlineFragment is a planning error: an inline
// fragment carries no type condition.
type MissingTypeConditionInlineFragment struct{}

func (e *MissingTypeConditionInlineFragment) Error() string {
	return "missing type condition on inline fragment"
}

// TypeConditionUnknown is a planning error: a fragment's type condition
// does not resolve to any merged object type.
type TypeConditionUnknown struct {
	Name string
}

func (e *TypeConditionUnknown) Error() string {
	return fmt.Sprintf("unknown type condition %q", e.Name)
}

// NotConfiguredQueries is a planning error: the merged schema has no
// Query root type, but the client sent a query operation.
type NotConfiguredQueries struct{}

func (e *NotConfiguredQueries) Error() string { return "schema is not configured for queries" }

// NotConfiguredMutations is a planning error: the merged schema has no
// Mutation root type, but the client sent a mutation operation.
type NotConfiguredMutations struct{}

func (e *NotConfiguredMutations) Error() string {
	return "schema is not configured for mutations"
}

// NotSupported is a planning error for operation kinds the gateway never
// handles, namely subscriptions.
type NotSupported struct {
	Kind string
}

func (e *NotSupported) Error() string { return fmt.Sprintf("operation kind %q not supported", e.Kind) }

// UnknownExecutor is an execution error: the plan names an executor the
// gateway has no registration for.
type UnknownExecutor struct {
	Name string
}

func (e *UnknownExecutor) Error() string { return fmt.Sprintf("unknown executor %q", e.Name) }

// InvalidExecutorResponse is an execution error: an executor's JSON
// response does not have the shape the gateway requires (missing `data`,
// wrong type, missing `nodes`, ...).
type InvalidExecutorResponse struct {
	Executor string
	Reason   string
}

func (e *InvalidExecutorResponse) Error() string {
	return fmt.Sprintf("invalid response from executor %q: %s", e.Executor, e.Reason)
}

// MissingFieldId is an execution error: a node-fetch needed `id` on an
// object that did not have one.
type MissingFieldId struct {
	Type string
}

func (e *MissingFieldId) Error() string {
	return fmt.Sprintf("missing field \"id\" on type %q", e.Type)
}

// ExecutorError wraps an upstream executor's raw error envelope
// (its `{"data": ..., "errors": [...]}` response), surfaced verbatim to
// the client per spec section 6.
type ExecutorError struct {
	Executor string
	Raw      interface{}
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("executor %q returned an error response", e.Executor)
}

// DuplicateField records one field-ownership conflict found during
// schema merging.
type DuplicateField struct {
	FirstExecutor  string
	SecondExecutor string
	TypeName       string
	FieldName      string
}

// DuplicateObjectFields is a merger error: at least one Object.Type.Field
// was declared by two executors and none of the section 4.1 whitelist
// conditions excused it.
type DuplicateObjectFields struct {
	Conflicts []DuplicateField
}

func (e *DuplicateObjectFields) Error() string {
	return fmt.Sprintf("%d duplicate object field(s) across executors", len(e.Conflicts))
}

// JsonError wraps a JSON encoding/decoding failure.
type JsonError struct {
	Cause error
}

func (e *JsonError) Error() string { return fmt.Sprintf("json error: %v", e.Cause) }
func (e *JsonError) Unwrap() error { return e.Cause }

// CustomError is an escape hatch for gateway-internal invariant
// violations that don't merit their own type.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string { return e.Message }

// QueryError aggregates every positioned planning/resolve error produced
// during a single pass; one bad selection never aborts the rest of the
// pass (spec section 7, "Propagation policy").
type QueryError struct {
	Errors []*PositionedError
}

func (e *QueryError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d query errors, first: %v", len(e.Errors), e.Errors[0])
}

// NewQueryError builds a QueryError from a non-empty slice, or returns nil
// if errs is empty - callers can unconditionally do
// `if err := NewQueryError(errs); err != nil { return err }`.
func NewQueryError(errs []*PositionedError) error {
	if len(errs) == 0 {
		return nil
	}
	return &QueryError{Errors: errs}
}

// Wrapf annotates err with a formatted message using oops, matching the
// teacher's error-wrapping idiom (oops.Wrapf) across the whole gateway.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return oops.Wrapf(err, format, args...)
}

// Errorf builds a new oops-annotated error, matching the teacher's
// oops.Errorf idiom.
func Errorf(format string, args ...interface{}) error {
	return oops.Errorf(format, args...)
}
