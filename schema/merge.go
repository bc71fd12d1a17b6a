package schema

import (
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
)

// ExecutorSchema pairs an executor's name with its introspected schema.
// Merge takes a slice rather than a map so callers control
// iteration order deterministically (spec section 4.1: "iterating
// executors in a deterministic order").
type ExecutorSchema struct {
	Name   string
	Schema *introspection.Schema
}

// Merge folds every (executorName, IntrospectionSchema) pair into one
// merged Schema, following the algorithm in spec section 4.1. It returns
// *gqlerrors.DuplicateObjectFields if any field conflict survived the
// whitelist; the partially built Schema (with DuplicateFields populated)
// is still returned alongside the error. The error itself carries the same
// conflict list, which is what gateway.Validate reports.
func Merge(executors []ExecutorSchema) (*Schema, error) {
	s := &Schema{
		TypeIndex:  make(map[string]int),
		FieldIndex: make(map[string]FieldRef),
	}

	var duplicates []gqlerrors.DuplicateField
	// possibleTypeSeen tracks, per interface/union type key, which final
	// type names have already been accepted, so later executors' repeats
	// are silently ignored (first executor wins, per spec section 4.1 step 2).
	possibleTypeSeen := make(map[string]map[string]bool)

	for _, exec := range executors {
		if exec.Schema == nil {
			continue
		}
		for _, t := range exec.Schema.Types {
			key := TypeKey(t.Kind, t.Name)

			idx, seen := s.TypeIndex[key]
			var merged *introspection.Type
			if !seen {
				merged = &introspection.Type{
					Kind:        t.Kind,
					Name:        t.Name,
					Description: t.Description,
					Interfaces:  t.Interfaces,
					EnumValues:  t.EnumValues,
					InputFields: t.InputFields,
					OfType:      t.OfType,
				}
				s.Types = append(s.Types, merged)
				idx = len(s.Types) - 1
				s.TypeIndex[key] = idx
			} else {
				merged = s.Types[idx]
			}

			mergePossibleTypes(merged, t, key, possibleTypeSeen)

			for _, f := range t.Fields {
				fieldKey := FieldKey(t.Kind, t.Name, f.Name)
				if ref, dup := s.FieldIndex[fieldKey]; dup {
					if !fieldConflictWhitelisted(merged, f) {
						duplicates = append(duplicates, gqlerrors.DuplicateField{
							FirstExecutor:  ref.OwnerExecutor,
							SecondExecutor: exec.Name,
							TypeName:       t.Name,
							FieldName:      f.Name,
						})
					}
					continue
				}

				fieldCopy := *f
				fieldCopy.OwnerExecutor = exec.Name
				merged.Fields = append(merged.Fields, &fieldCopy)
				s.FieldIndex[fieldKey] = FieldRef{
					OwnerExecutor: exec.Name,
					FieldIndex:    len(merged.Fields) - 1,
				}
			}
		}
	}

	s.DuplicateFields = duplicates

	if qt := s.Object("Query"); qt != nil {
		s.QueryType = qt
	}
	if mt := s.Object("Mutation"); mt != nil {
		s.MutationType = mt
	}

	if len(duplicates) > 0 {
		return s, &gqlerrors.DuplicateObjectFields{Conflicts: duplicates}
	}
	return s, nil
}

// mergePossibleTypes merges t.PossibleTypes into merged.PossibleTypes as a
// set keyed by final type name, keeping whichever element was accepted
// first (spec section 4.1 step 2, and invariant 3: de-duplicated union).
func mergePossibleTypes(merged, t *introspection.Type, key string, seen map[string]map[string]bool) {
	if len(t.PossibleTypes) == 0 {
		return
	}
	if seen[key] == nil {
		seen[key] = make(map[string]bool)
	}
	for _, pt := range t.PossibleTypes {
		named := pt.NamedType()
		if named == nil {
			continue
		}
		if seen[key][named.Name] {
			continue
		}
		seen[key][named.Name] = true
		merged.PossibleTypes = append(merged.PossibleTypes, pt)
	}
}

// fieldConflictWhitelisted implements the four whitelist conditions of
// spec section 4.1 step 3 under which a repeated field declaration is
// accepted silently rather than reported as a conflict.
func fieldConflictWhitelisted(owningType *introspection.Type, f *introspection.Field) bool {
	if named := f.Type.NamedType(); named != nil && named.Name == "ID" {
		return true // (a)
	}
	if owningType.Kind != introspection.Object {
		return true // (b)
	}
	if named := f.Type.NamedType(); named != nil && named.Kind == introspection.Interface {
		return true // (c)
	}
	if len(owningType.Name) >= 2 && owningType.Name[:2] == "__" {
		return true // (d)
	}
	return false
}
