// Package schema implements the merged Schema data model and the merger
// that folds N per-executor introspection schemas into one, per spec
// sections 3 and 4.1.
package schema

import (
	"fmt"

	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
)

// FieldRef locates a merged field: which executor owns it, and its index
// within the owning Type's Fields slice.
type FieldRef struct {
	OwnerExecutor string
	FieldIndex    int
}

// Schema is the merged, annotated schema described in spec section 3.
type Schema struct {
	// Types holds merged type records in stable (first-seen) order.
	Types []*introspection.Type

	// TypeIndex maps "<Kind>.<Name>" to an index into Types.
	TypeIndex map[string]int

	// FieldIndex maps "<Kind>.<TypeName>.<FieldName>" to its owner and
	// position within the owning type's Fields slice.
	FieldIndex map[string]FieldRef

	QueryType    *introspection.Type
	MutationType *introspection.Type

	// DuplicateFields lists every field-ownership conflict found while
	// merging; Merge fills it in even when it also returns an error for
	// those conflicts.
	DuplicateFields []gqlerrors.DuplicateField
}

// TypeKey formats the "<Kind>.<Name>" index key.
func TypeKey(kind introspection.Kind, name string) string {
	return fmt.Sprintf("%s.%s", kind, name)
}

// FieldKey formats the "<Kind>.<TypeName>.<FieldName>" index key.
func FieldKey(kind introspection.Kind, typeName, fieldName string) string {
	return fmt.Sprintf("%s.%s.%s", kind, typeName, fieldName)
}

// Type returns the merged type record for "<Kind>.<Name>", or nil.
func (s *Schema) Type(kind introspection.Kind, name string) *introspection.Type {
	idx, ok := s.TypeIndex[TypeKey(kind, name)]
	if !ok {
		return nil
	}
	return s.Types[idx]
}

// Object returns the merged Object type record named name, or nil if
// there is no such type or it is not an Object.
func (s *Schema) Object(name string) *introspection.Type {
	t := s.Type(introspection.Object, name)
	if t == nil || t.Kind != introspection.Object {
		return nil
	}
	return t
}

// Interface returns the merged Interface type record named name, or nil.
func (s *Schema) Interface(name string) *introspection.Type {
	t := s.Type(introspection.Interface, name)
	if t == nil || t.Kind != introspection.Interface {
		return nil
	}
	return t
}

// Field resolves (ownerExecutor, field) for fieldName on the object or
// interface type typeName. kind must be introspection.Object or
// introspection.Interface - whichever the type actually is.
func (s *Schema) Field(kind introspection.Kind, typeName, fieldName string) (string, *introspection.Field, bool) {
	ref, ok := s.FieldIndex[FieldKey(kind, typeName, fieldName)]
	if !ok {
		return "", nil, false
	}
	t := s.Type(kind, typeName)
	if t == nil || ref.FieldIndex >= len(t.Fields) {
		return "", nil, false
	}
	return ref.OwnerExecutor, t.Fields[ref.FieldIndex], true
}

// FieldOnObjectOrInterface looks a field up without the caller needing to
// know in advance whether typeName is an Object or an Interface - the
// planner frequently only has a type name in hand (e.g. from a type
// condition) and needs to resolve whichever kind it turns out to be.
func (s *Schema) FieldOnObjectOrInterface(typeName, fieldName string) (string, *introspection.Field, bool) {
	if owner, f, ok := s.Field(introspection.Object, typeName, fieldName); ok {
		return owner, f, true
	}
	return s.Field(introspection.Interface, typeName, fieldName)
}

// ImplementsNode reports whether the object type named typeName declares
// `implements Node` with a non-null ID-typed `id` field, the definition of
// Node-addressability from spec section 3.
func (s *Schema) ImplementsNode(typeName string) bool {
	obj := s.Object(typeName)
	if obj == nil {
		return false
	}
	for _, iface := range obj.Interfaces {
		if iface.NamedType() == nil || iface.NamedType().Name != "Node" {
			continue
		}
		if _, idField, ok := s.Field(introspection.Object, typeName, "id"); ok {
			named := idField.Type.NamedType()
			if idField.Type.Kind == introspection.NonNull && named != nil && named.Name == "ID" {
				return true
			}
		}
	}
	return false
}
