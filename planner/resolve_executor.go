package planner

import (
	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
)

// ResolveExecutor rewrites selections (under parent type parentType) into
// the subtree executorName alone can satisfy (spec section 4.2.2). If
// parentType implements Node and the client didn't already ask for id, a
// synthetic id field is prepended so node-fetch joins have a key to join
// on; the client's own id selection (including its alias) is kept as-is
// if present.
func (p *Planner) ResolveExecutor(req *Request, parentType string, selections []*ast.Selection, executorName string) (*ResolveInfo, error) {
	info := &ResolveInfo{Fragments: make(map[string]*ast.FragmentDefinition)}
	varNames := make(map[string]bool)

	seenKeys := make(map[string]bool)
	var out []*ast.Selection

	if p.Schema.ImplementsNode(parentType) && !hasClientID(selections) {
		out = append(out, &ast.Selection{Kind: ast.FieldSelection, Name: "id"})
		seenKeys["id"] = true
	}

	var errs []*gqlerrors.PositionedError

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
			key := sel.ResponseKey()
			if seenKeys[key] {
				// Drop the synthetic id - it is added exactly once.
				continue
			}
			if isMeta(sel.Name) {
				// __typename and friends are answered locally by the
				// resolver, not forwarded to any one executor.
				continue
			}

			owner, fieldDef, ok := p.Schema.FieldOnObjectOrInterface(parentType, sel.Name)
			if !ok {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.FieldNotFound{Type: parentType, Name: sel.Name}))
				continue
			}

			final := fieldDef.Type.NamedType()
			effectiveOwner := owner
			if final != nil && final.Kind == introspection.Interface {
				// Interface-typed fields belong to whichever executor is
				// currently resolving the parent (spec section 4.2.2).
				effectiveOwner = executorName
			}
			// An explicit client id selection on a Node type is forwarded
			// to every executor regardless of which one the merger recorded
			// as its owner: node-fetch joins by id against whatever each
			// executor's own sub-query returns, so every participating
			// executor needs id in its own response.
			isClientNodeID := sel.Name == "id" && p.Schema.ImplementsNode(parentType)
			if effectiveOwner != executorName && !isClientNodeID {
				continue
			}

			newSel := &ast.Selection{
				Kind:      ast.FieldSelection,
				Alias:     sel.Alias,
				Name:      sel.Name,
				Arguments: sel.Arguments,
				Pos:       sel.Pos,
			}
			collectArgumentVariables(sel.Arguments, varNames)

			if sel.SelectionSet != nil && len(sel.SelectionSet.Selections) > 0 {
				childParent := parentType
				if final != nil {
					childParent = final.Name
				}
				child, err := p.ResolveExecutor(req, childParent, sel.SelectionSet.Selections, executorName)
				if err != nil {
					errs = append(errs, flattenQueryError(err)...)
					continue
				}
				if child == nil || len(child.Selections) == 0 {
					// Nothing this executor can contribute under f; drop f.
					continue
				}
				newSel.SelectionSet = &ast.SelectionSet{Selections: child.Selections}
				mergeChild(info, varNames, child)
			}

			out = append(out, newSel)
			seenKeys[key] = true

		case ast.FragmentSpreadSelection:
			frag, ok := req.Fragments[sel.Name]
			if !ok {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.UnknownFragment{Name: sel.Name}))
				continue
			}
			child, err := p.ResolveExecutor(req, frag.TypeCondition, selectionsOf(frag.SelectionSet), executorName)
			if err != nil {
				errs = append(errs, flattenQueryError(err)...)
				continue
			}
			if child == nil || len(child.Selections) <= 1 {
				// Only the synthetic id (or nothing) survived - this
				// executor has nothing of its own to say here.
				continue
			}
			mergeChild(info, varNames, child)
			if _, already := info.Fragments[sel.Name]; !already {
				info.Fragments[sel.Name] = &ast.FragmentDefinition{
					Name:          sel.Name,
					TypeCondition: frag.TypeCondition,
					SelectionSet:  &ast.SelectionSet{Selections: child.Selections},
				}
			}
			out = append(out, &ast.Selection{Kind: ast.FragmentSpreadSelection, Name: sel.Name, Pos: sel.Pos})

		case ast.InlineFragmentSelection:
			if sel.TypeCondition == "" {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.MissingTypeConditionInlineFragment{}))
				continue
			}
			child, err := p.ResolveExecutor(req, sel.TypeCondition, selectionsOf(sel.SelectionSet), executorName)
			if err != nil {
				errs = append(errs, flattenQueryError(err)...)
				continue
			}
			if child == nil || len(child.Selections) <= 1 {
				continue
			}
			mergeChild(info, varNames, child)
			out = append(out, &ast.Selection{
				Kind:          ast.InlineFragmentSelection,
				TypeCondition: sel.TypeCondition,
				SelectionSet:  &ast.SelectionSet{Selections: child.Selections},
				Pos:           sel.Pos,
			})
		}
	}

	if len(errs) > 0 {
		return nil, gqlerrors.NewQueryError(errs)
	}

	info.Selections = out
	for _, name := range req.OrderedVariableNames {
		if varNames[name] {
			info.VariableDefinitions = append(info.VariableDefinitions, req.VariableDefinitions[name])
		}
	}
	return info, nil
}

func hasClientID(selections []*ast.Selection) bool {
	for _, sel := range selections {
		if sel.Kind == ast.FieldSelection && sel.Name == "id" {
			return true
		}
	}
	return false
}

func collectArgumentVariables(args []*ast.Argument, into map[string]bool) {
	for _, a := range args {
		if a.Value.IsVariable {
			into[a.Value.VariableName] = true
		}
	}
}

// mergeChild folds a child ResolveInfo's fragments and referenced
// variable names into the parent accumulator. Fragment definitions are
// keyed by name, so the same fragment referenced from two branches is
// only recorded once - under whichever branch's rewrite reached it first,
// which is fine because a fragment's type condition fixes its rewrite
// regardless of call site.
func mergeChild(info *ResolveInfo, varNames map[string]bool, child *ResolveInfo) {
	for name, frag := range child.Fragments {
		if _, ok := info.Fragments[name]; !ok {
			info.Fragments[name] = frag
		}
	}
	for _, vd := range child.VariableDefinitions {
		varNames[vd.Name] = true
	}
}
