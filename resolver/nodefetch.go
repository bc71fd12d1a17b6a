package resolver

import (
	"context"

	"github.com/federatedgraph/gateway/ast"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/jsonvalue"
)

const (
	nodeFetchIdsVariable = "__gql_gateway_ids"
	nodeQueryOperation   = "NodeQuery"
)

// nodeFetch enriches data - a single object or an array of objects of
// type T, which implements Node - with the fields owned by any executor
// that hasn't already contributed to it (spec section 4.3.2).
func (r *Resolver) nodeFetch(ctx context.Context, req *request, T string, selections []*ast.Selection, data jsonvalue.Value) (jsonvalue.Value, error) {
	firstValue := data
	isArray := false
	var arr []jsonvalue.Value
	if a, ok := jsonvalue.AsArray(data); ok {
		isArray = true
		arr = a
		firstValue = firstNonNull(a)
	}

	missing, err := r.planner.ResolveExecutors(req.plan, T, selections, firstValue)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return data, nil
	}

	idAlias := idAliasOf(selections)

	for _, execName := range missing {
		info, err := r.planner.ResolveExecutor(req.plan, T, selections, execName)
		if err != nil {
			return nil, err
		}
		if len(info.Selections) == 0 {
			continue
		}

		exec, ok := r.Executors[execName]
		if !ok {
			return nil, &gqlerrors.UnknownExecutor{Name: execName}
		}

		var ids []jsonvalue.Value
		if isArray {
			for _, elem := range arr {
				if jsonvalue.IsNull(elem) {
					continue
				}
				id, ok := idOf(elem, idAlias)
				if !ok {
					return nil, &gqlerrors.MissingFieldId{Type: T}
				}
				ids = append(ids, id)
			}
		} else {
			id, ok := idOf(data, idAlias)
			if !ok {
				return nil, &gqlerrors.MissingFieldId{Type: T}
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}

		varDefs := append(append([]*ast.VariableDefinition{}, info.VariableDefinitions...), &ast.VariableDefinition{
			Name:       nodeFetchIdsVariable,
			TypeString: "[ID!]!",
		})

		doc := &ast.Document{
			OperationName:       nodeQueryOperation,
			Kind:                ast.Query,
			VariableDefinitions: varDefs,
			Fragments:           info.Fragments,
			SelectionSet: &ast.SelectionSet{Selections: []*ast.Selection{{
				Kind: ast.FieldSelection,
				Name: "nodes",
				Arguments: []*ast.Argument{{
					Name:  "ids",
					Value: ast.Value{IsVariable: true, VariableName: nodeFetchIdsVariable},
				}},
				SelectionSet: &ast.SelectionSet{Selections: []*ast.Selection{{
					Kind:          ast.InlineFragmentSelection,
					TypeCondition: T,
					SelectionSet:  &ast.SelectionSet{Selections: info.Selections},
				}}},
			}}},
		}

		vars := variablesFor(info.VariableDefinitions, req.vars)
		vars.Set(nodeFetchIdsVariable, ids)

		raw, err := exec.Run(ctx, ast.Render(doc), nodeQueryOperation, vars)
		if err != nil {
			return nil, gqlerrors.Wrapf(err, "node-fetching against executor %q", execName)
		}
		obj, err := decodeExecutorResponse(execName, raw)
		if err != nil {
			return nil, err
		}

		nodesVal, err := extractNodes(execName, obj)
		if err != nil {
			return nil, err
		}

		if isArray {
			arr = joinByID(arr, nodesVal, idAlias)
			data = arr
		} else {
			data = mergeSingleton(data, nodesVal)
		}
	}

	return data, nil
}

func firstNonNull(arr []jsonvalue.Value) jsonvalue.Value {
	for _, v := range arr {
		if !jsonvalue.IsNull(v) {
			return v
		}
	}
	return nil
}

func idAliasOf(selections []*ast.Selection) string {
	for _, sel := range selections {
		if sel.Kind == ast.FieldSelection && sel.Name == "id" {
			return sel.ResponseKey()
		}
	}
	return "id"
}

func idOf(v jsonvalue.Value, idAlias string) (jsonvalue.Value, bool) {
	obj, ok := jsonvalue.AsObject(v)
	if !ok {
		return nil, false
	}
	id, ok := obj.Get(idAlias)
	if !ok || jsonvalue.IsNull(id) {
		return nil, false
	}
	return id, true
}

func extractNodes(execName string, obj *jsonvalue.Object) ([]jsonvalue.Value, error) {
	dataVal, ok := obj.Get("data")
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: execName, Reason: "response has no data"}
	}
	dataObj, ok := jsonvalue.AsObject(dataVal)
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: execName, Reason: "data is not a JSON object"}
	}
	nodesVal, ok := dataObj.Get("nodes")
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: execName, Reason: "data.nodes does not exist"}
	}
	nodes, ok := jsonvalue.AsArray(nodesVal)
	if !ok {
		return nil, &gqlerrors.InvalidExecutorResponse{Executor: execName, Reason: "data.nodes is not an array"}
	}
	return nodes, nil
}

// mergeSingleton merges nodes[0], if present, over the parent object
// (spec section 4.3.2 step 5: "for a singleton parent, take
// data.nodes[0] and merge over the parent object").
func mergeSingleton(parent jsonvalue.Value, nodes []jsonvalue.Value) jsonvalue.Value {
	if len(nodes) == 0 || jsonvalue.IsNull(nodes[0]) {
		return parent
	}
	parentObj, ok := jsonvalue.AsObject(parent)
	if !ok {
		return parent
	}
	nodeObj, ok := jsonvalue.AsObject(nodes[0])
	if !ok {
		return parent
	}
	return jsonvalue.MergeObjects(parentObj, nodeObj)
}

// joinByID merges nodes into arr element-wise by matching idAlias
// (spec section 4.3.2 step 5 and section 9's "join by id" decision):
// array elements whose id is not returned become null.
func joinByID(arr []jsonvalue.Value, nodes []jsonvalue.Value, idAlias string) []jsonvalue.Value {
	byID := make(map[string]*jsonvalue.Object, len(nodes))
	for _, n := range nodes {
		obj, ok := jsonvalue.AsObject(n)
		if !ok {
			continue
		}
		id, ok := obj.Get(idAlias)
		if !ok {
			continue
		}
		if key, ok := id.(string); ok {
			byID[key] = obj
		}
	}

	out := make([]jsonvalue.Value, len(arr))
	for i, elem := range arr {
		if jsonvalue.IsNull(elem) {
			out[i] = elem
			continue
		}
		id, ok := idOf(elem, idAlias)
		if !ok {
			out[i] = nil
			continue
		}
		key, ok := id.(string)
		if !ok {
			out[i] = nil
			continue
		}
		nodeObj, ok := byID[key]
		if !ok {
			out[i] = nil
			continue
		}
		elemObj, ok := jsonvalue.AsObject(elem)
		if !ok {
			out[i] = elem
			continue
		}
		out[i] = jsonvalue.MergeObjects(elemObj, nodeObj)
	}
	return out
}
