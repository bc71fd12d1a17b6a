// Package resolver drives query execution against a merged Schema: root
// dispatch across executors, node-fetch enrichment of Node-typed objects,
// and the recursive JSON shaping described in spec section 4.3.
package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/executor"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/jsonvalue"
	"github.com/federatedgraph/gateway/planner"
	"github.com/federatedgraph/gateway/schema"
)

// maxDepth bounds resolve recursion (spec section 9, "avoid unbounded
// stack depth via work-queue or chunked recursion when nesting exceeds a
// soft limit").
const maxDepth = 64

// Resolver executes a parsed Document against a merged Schema and a fixed
// set of executors.
type Resolver struct {
	Schema    *schema.Schema
	Executors map[string]executor.Executor
	planner   *planner.Planner
}

// New builds a Resolver over s, dispatching to execs by name.
func New(s *schema.Schema, execs map[string]executor.Executor) *Resolver {
	return &Resolver{Schema: s, Executors: execs, planner: planner.New(s)}
}

// request bundles the per-call state threaded through planning and
// resolving: the client's fragments/variable definitions and the actual
// variable values supplied with the request.
type request struct {
	plan *planner.Request
	vars *jsonvalue.Object
}

// Execute runs doc (already parsed) against the gateway's merged schema
// and returns the response data (not yet wrapped in {"data": ...} - the
// caller, typically the Gateway, does that via gqlerrors.Success).
func (r *Resolver) Execute(ctx context.Context, doc *ast.Document, variables *jsonvalue.Object) (jsonvalue.Value, error) {
	var rootType string
	switch doc.Kind {
	case ast.Query:
		if r.Schema.QueryType == nil {
			return nil, &gqlerrors.NotConfiguredQueries{}
		}
		rootType = r.Schema.QueryType.Name
	case ast.Mutation:
		if r.Schema.MutationType == nil {
			return nil, &gqlerrors.NotConfiguredMutations{}
		}
		rootType = r.Schema.MutationType.Name
	default:
		return nil, &gqlerrors.NotSupported{Kind: string(doc.Kind)}
	}

	if variables == nil {
		variables = jsonvalue.NewObject()
	}
	plan := planner.NewRequest(doc)
	plan.Vars = variables
	req := &request{plan: plan, vars: variables}

	selections := selectionsOf(doc.SelectionSet)

	executors, err := r.planner.ResolveExecutors(req.plan, rootType, selections, nil)
	if err != nil {
		return nil, err
	}

	root, err := r.dispatchRoot(ctx, req, doc, rootType, selections, executors)
	if err != nil {
		return nil, err
	}

	return r.resolve(ctx, req, rootType, selections, root, 0)
}

// dispatchRoot runs one sub-query per executor in executors and merges
// their "data" objects into one (spec section 4.3.1).
func (r *Resolver) dispatchRoot(ctx context.Context, req *request, doc *ast.Document, rootType string, selections []*ast.Selection, executors []string) (jsonvalue.Value, error) {
	if len(executors) == 0 {
		return jsonvalue.NewObject(), nil
	}

	responses := make([]*jsonvalue.Object, len(executors))

	run := func(ctx context.Context, i int) error {
		name := executors[i]
		exec, ok := r.Executors[name]
		if !ok {
			return &gqlerrors.UnknownExecutor{Name: name}
		}

		info, err := r.planner.ResolveExecutor(req.plan, rootType, selections, name)
		if err != nil {
			return err
		}

		subDoc := &ast.Document{
			OperationName: doc.OperationName,
			Kind:          doc.Kind,
			VariableDefinitions: info.VariableDefinitions,
			SelectionSet:        &ast.SelectionSet{Selections: info.Selections},
			Fragments:           info.Fragments,
		}

		vars := variablesFor(info.VariableDefinitions, req.vars)
		raw, err := exec.Run(ctx, ast.Render(subDoc), doc.OperationName, vars)
		if err != nil {
			return gqlerrors.Wrapf(err, "running sub-query against executor %q", name)
		}

		obj, err := decodeExecutorResponse(name, raw)
		if err != nil {
			return err
		}
		responses[i] = obj
		return nil
	}

	if doc.Kind == ast.Mutation {
		for i := range executors {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i := range executors {
			i := i
			g.Go(func() error { return run(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	merged := jsonvalue.NewObject()
	for _, obj := range responses {
		if obj == nil {
			continue
		}
		dataVal, _ := obj.Get("data")
		dataObj, ok := jsonvalue.AsObject(dataVal)
		if !ok {
			continue
		}
		merged = jsonvalue.MergeObjects(merged, dataObj)
	}
	return merged, nil
}

// decodeExecutorResponse validates an executor's raw JSON response and
// surfaces an upstream error envelope verbatim as *gqlerrors.ExecutorError
// (spec section 6).
func decodeExecutorResponse(name string, raw jsonvalue.Value) (*jsonvalue.Object, error) {
	obj, ok := jsonvalue.AsObject(raw)
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: name, Reason: "response is not a JSON object"}
	}
	if errsVal, ok := obj.Get("errors"); ok {
		if arr, ok := jsonvalue.AsArray(errsVal); ok && len(arr) > 0 {
			return nil, &gqlerrors.ExecutorError{Executor: name, Raw: obj}
		}
	}
	return obj, nil
}

// variablesFor projects requestVars down to only the names referenced by
// varDefs, so each sub-query only carries the variables it declared.
func variablesFor(varDefs []*ast.VariableDefinition, requestVars *jsonvalue.Object) *jsonvalue.Object {
	out := jsonvalue.NewObject()
	for _, vd := range varDefs {
		if v, ok := requestVars.Get(vd.Name); ok {
			out.Set(vd.Name, v)
		}
	}
	return out
}

func selectionsOf(ss *ast.SelectionSet) []*ast.Selection {
	if ss == nil {
		return nil
	}
	return ss.Selections
}
