// Package planner implements query decomposition: given a parent type and
// a selection set, determine which executors must be contacted (spec
// section 4.2.1) and rewrite the selection set into the subtree a single
// executor can satisfy (spec section 4.2.2).
package planner

import (
	"strings"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/schema"
)

// Planner plans against one merged Schema.
type Planner struct {
	Schema *schema.Schema
}

// New builds a Planner over a merged Schema.
func New(s *schema.Schema) *Planner {
	return &Planner{Schema: s}
}

// Request carries the parts of a client document the planner needs
// repeatedly while recursing: its fragments and variable definitions,
// keyed for lookup (spec section 3, "a Context is constructed per client
// request... immutable after construction except for the accumulator
// maps the Planner builds while recursing").
type Request struct {
	Fragments           map[string]*ast.FragmentDefinition
	VariableDefinitions map[string]*ast.VariableDefinition
	// OrderedVariableNames preserves the client's own variable-definition
	// order, so re-emitted variable definitions are deterministic.
	OrderedVariableNames []string
	// Vars holds the request's actual variable values, consulted when a
	// selection's @skip/@include directive references a variable rather
	// than a literal.
	Vars *jsonvalue.Object
}

// NewRequest builds a Request from a parsed Document.
func NewRequest(doc *ast.Document) *Request {
	req := &Request{
		Fragments:           doc.Fragments,
		VariableDefinitions: make(map[string]*ast.VariableDefinition, len(doc.VariableDefinitions)),
	}
	for _, vd := range doc.VariableDefinitions {
		req.VariableDefinitions[vd.Name] = vd
		req.OrderedVariableNames = append(req.OrderedVariableNames, vd.Name)
	}
	return req
}

// ResolveInfo is the rewritten subtree a single executor can satisfy: its
// selections, every fragment those selections (transitively) reference,
// and every variable definition their arguments (transitively) reference.
type ResolveInfo struct {
	Selections          []*ast.Selection
	Fragments           map[string]*ast.FragmentDefinition
	VariableDefinitions []*ast.VariableDefinition
}

func isMeta(name string) bool { return strings.HasPrefix(name, "__") }

// ResolveExecutors returns the ordered, de-duplicated set of executors
// that must be contacted to satisfy selections under parent type
// parentType, given that partialData is already in hand (spec section
// 4.2.1).
func (p *Planner) ResolveExecutors(req *Request, parentType string, selections []*ast.Selection, partialData jsonvalue.Value) ([]string, error) {
	var order []string
	seen := make(map[string]bool)
	var errs []*gqlerrors.PositionedError

	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				order = append(order, n)
			}
		}
	}

	for _, sel := range selections {
		if len(sel.Directives) > 0 {
			ok, err := ast.ShouldInclude(sel.Directives, req.Vars)
			if err != nil {
				errs = append(errs, gqlerrors.At(sel.Pos, err))
				continue
			}
			if !ok {
				continue
			}
		}

		switch sel.Kind {
		case ast.FieldSelection:
			if isMeta(sel.Name) {
				continue
			}
			owner, fieldDef, ok := p.Schema.FieldOnObjectOrInterface(parentType, sel.Name)
			if !ok {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.FieldNotFound{Type: parentType, Name: sel.Name}))
				continue
			}

			final := fieldDef.Type.NamedType()
			if final != nil && final.Kind == introspection.Interface {
				var childData jsonvalue.Value
				if obj, ok := jsonvalue.AsObject(partialData); ok {
					childData, _ = obj.Get(sel.ResponseKey())
				}
				childSelections := selectionsOf(sel.SelectionSet)
				sub, err := p.ResolveExecutors(req, final.Name, childSelections, childData)
				if err != nil {
					errs = append(errs, flattenQueryError(err)...)
				}
				add(sub)
				continue
			}

			present := false
			if obj, ok := jsonvalue.AsObject(partialData); ok {
				_, present = obj.Get(sel.ResponseKey())
			}
			if !present {
				add([]string{owner})
			}

		case ast.FragmentSpreadSelection:
			frag, ok := req.Fragments[sel.Name]
			if !ok {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.UnknownFragment{Name: sel.Name}))
				continue
			}
			objType := p.Schema.Object(frag.TypeCondition)
			if objType == nil {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.TypeConditionUnknown{Name: frag.TypeCondition}))
				continue
			}
			sub, err := p.ResolveExecutors(req, objType.Name, selectionsOf(frag.SelectionSet), partialData)
			if err != nil {
				errs = append(errs, flattenQueryError(err)...)
			}
			add(sub)

		case ast.InlineFragmentSelection:
			if sel.TypeCondition == "" {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.MissingTypeConditionInlineFragment{}))
				continue
			}
			sub, err := p.ResolveExecutors(req, sel.TypeCondition, selectionsOf(sel.SelectionSet), partialData)
			if err != nil {
				errs = append(errs, flattenQueryError(err)...)
			}
			add(sub)
		}
	}

	return order, gqlerrors.NewQueryError(errs)
}

func selectionsOf(ss *ast.SelectionSet) []*ast.Selection {
	if ss == nil {
		return nil
	}
	return ss.Selections
}

func flattenQueryError(err error) []*gqlerrors.PositionedError {
	if qe, ok := err.(*gqlerrors.QueryError); ok {
		return qe.Errors
	}
	return []*gqlerrors.PositionedError{{Err: err}}
}
