package resolver

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/concurrencylimiter"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/introspection"
	"github.com/federatedgraph/gateway/jsonvalue"
)

// maxArrayFanout bounds how many elements of a single array resolve
// concurrently, so a large nodes() result doesn't spin up one goroutine
// per element.
const maxArrayFanout = 32

// resolve implements section 4.3.3: it shapes data (already-fetched,
// possibly partial) into exactly the object the client's selections
// describe, enriching Node-typed objects via node-fetch along the way.
func (r *Resolver) resolve(ctx context.Context, req *request, parentType string, selections []*ast.Selection, data jsonvalue.Value, depth int) (jsonvalue.Value, error) {
	if jsonvalue.IsNull(data) || len(selections) == 0 {
		return data, nil
	}
	if depth > maxDepth {
		return nil, &gqlerrors.CustomError{Message: "selection set nesting exceeds the supported depth"}
	}

	if arr, ok := jsonvalue.AsArray(data); ok {
		if len(arr) == 0 {
			return []jsonvalue.Value{}, nil
		}
		return r.resolveArray(ctx, req, parentType, selections, arr, depth)
	}

	if r.Schema.ImplementsNode(parentType) {
		enriched, err := r.nodeFetch(ctx, req, parentType, selections, data)
		if err != nil {
			return nil, err
		}
		data = enriched
	}

	dataObj, ok := jsonvalue.AsObject(data)
	if !ok {
		// Scalar data reaching a non-empty selection set is not a shape
		// the planner ever produces; return it verbatim rather than fail.
		return data, nil
	}

	result := jsonvalue.NewObject()
	var errs []*gqlerrors.PositionedError

	for _, sel := range selections {
		if len(sel.Directives) > 0 {
			ok, err := ast.ShouldInclude(sel.Directives, req.vars)
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
			if err := r.resolveField(ctx, req, parentType, sel, dataObj, result, depth); err != nil {
				if isExecutionError(err) {
					return nil, err
				}
				errs = append(errs, flattenToPositioned(sel, err)...)
			}

		case ast.FragmentSpreadSelection:
			frag, ok := req.plan.Fragments[sel.Name]
			if !ok {
				errs = append(errs, gqlerrors.At(sel.Pos, &gqlerrors.UnknownFragment{Name: sel.Name}))
				continue
			}
			spreadType := parentType
			if t := r.Schema.Object(frag.TypeCondition); t != nil {
				spreadType = t.Name
			}
			spread, err := r.resolve(ctx, req, spreadType, selectionsOf(frag.SelectionSet), dataObj, depth+1)
			if err != nil {
				if isExecutionError(err) {
					return nil, err
				}
				errs = append(errs, flattenToPositioned(sel, err)...)
				continue
			}
			flattenInto(result, spread)

		case ast.InlineFragmentSelection:
			spreadType := parentType
			if t := r.Schema.Object(sel.TypeCondition); t != nil {
				spreadType = t.Name
			}
			spread, err := r.resolve(ctx, req, spreadType, selectionsOf(sel.SelectionSet), dataObj, depth+1)
			if err != nil {
				if isExecutionError(err) {
					return nil, err
				}
				errs = append(errs, flattenToPositioned(sel, err)...)
				continue
			}
			flattenInto(result, spread)
		}
	}

	if len(errs) > 0 {
		return nil, gqlerrors.NewQueryError(errs)
	}
	return result, nil
}

func (r *Resolver) resolveArray(ctx context.Context, req *request, parentType string, selections []*ast.Selection, arr []jsonvalue.Value, depth int) (jsonvalue.Value, error) {
	out := make([]jsonvalue.Value, len(arr))
	gctx := concurrencylimiter.With(ctx, maxArrayFanout)
	g, gctx := errgroup.WithContext(gctx)
	for i := range arr {
		i := i
		g.Go(func() error {
			release := concurrencylimiter.Acquire(gctx)
			defer release()
			v, err := r.resolve(gctx, req, parentType, selections, arr[i], depth+1)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolveField(ctx context.Context, req *request, parentType string, sel *ast.Selection, dataObj *jsonvalue.Object, result *jsonvalue.Object, depth int) error {
	key := sel.ResponseKey()

	if sel.Name == "__schema" {
		view := r.Schema.IntrospectionView()
		raw, err := jsonvalue.Marshal(view)
		if err != nil {
			return &gqlerrors.JsonError{Cause: err}
		}
		val, err := jsonvalue.Unmarshal(raw)
		if err != nil {
			return &gqlerrors.JsonError{Cause: err}
		}
		result.Set(key, val)
		return nil
	}
	if isMeta(sel.Name) {
		// __typename and other meta fields are answered locally; they are
		// never forwarded to an executor (spec section 4.2.1).
		result.Set(key, parentType)
		return nil
	}

	_, fieldDef, ok := r.Schema.FieldOnObjectOrInterface(parentType, sel.Name)
	if !ok {
		return &gqlerrors.FieldNotFound{Type: parentType, Name: sel.Name}
	}

	val, _ := dataObj.Get(key)
	final := fieldDef.Type.NamedType()
	isComposite := final != nil && (final.Kind == introspection.Object || final.Kind == introspection.Interface)

	if !isComposite || sel.SelectionSet == nil || len(sel.SelectionSet.Selections) == 0 {
		result.Set(key, val)
		return nil
	}

	if jsonvalue.IsNull(val) {
		// Object/interface-typed null: omit the key entirely.
		return nil
	}

	child, err := r.resolve(ctx, req, final.Name, sel.SelectionSet.Selections, val, depth+1)
	if err != nil {
		return err
	}
	result.Set(key, child)
	return nil
}

func isMeta(name string) bool { return strings.HasPrefix(name, "__") }

// isExecutionError reports whether err is one of the execution-error
// kinds that must short-circuit the enclosing fan-out rather than
// accumulate alongside planning errors (spec section 7: "Execution
// errors short-circuit the enclosing fan-out").
func isExecutionError(err error) bool {
	switch err.(type) {
	case *gqlerrors.UnknownExecutor, *gqlerrors.InvalidExecutorResponse,
		*gqlerrors.ExecutorError, *gqlerrors.MissingFieldId,
		*gqlerrors.JsonError, *gqlerrors.CustomError:
		return true
	default:
		return false
	}
}

// flattenInto copies every key of spread (if it is an object) into dst,
// implementing fragment-spread flattening.
func flattenInto(dst *jsonvalue.Object, spread jsonvalue.Value) {
	obj, ok := jsonvalue.AsObject(spread)
	if !ok {
		return
	}
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		dst.Set(k, v)
	}
}

func flattenToPositioned(sel *ast.Selection, err error) []*gqlerrors.PositionedError {
	if qe, ok := err.(*gqlerrors.QueryError); ok {
		return qe.Errors
	}
	return []*gqlerrors.PositionedError{gqlerrors.At(sel.Pos, err)}
}
