package gqlerrors

import "github.com/federatedgraph/gateway/jsonvalue"

// singleErrorEntry renders one {message, locations} entry of an
// "other failures" response, per spec section 6.
func singleErrorEntry(message string, pos Position) *jsonvalue.Object {
	entry := jsonvalue.NewObject()
	entry.Set("message", message)
	loc := jsonvalue.NewObject()
	loc.Set("line", pos.Line)
	loc.Set("column", pos.Column)
	entry.Set("locations", []jsonvalue.Value{loc})
	return entry
}

// ToResponse renders err into the client-facing response envelope.
//
//   - *ExecutorError passes the upstream envelope through verbatim.
//   - *QueryError becomes one {message, locations} entry per error.
//   - anything else becomes a single entry with position {0, 0}.
func ToResponse(err error) *jsonvalue.Object {
	resp := jsonvalue.NewObject()

	if execErr, ok := err.(*ExecutorError); ok {
		if obj, ok := jsonvalue.AsObject(execErr.Raw); ok {
			return obj
		}
		resp.Set("errors", []jsonvalue.Value{singleErrorEntry(execErr.Error(), Position{})})
		return resp
	}

	if qErr, ok := err.(*QueryError); ok {
		entries := make([]jsonvalue.Value, 0, len(qErr.Errors))
		for _, e := range qErr.Errors {
			entries = append(entries, singleErrorEntry(e.Err.Error(), e.Pos))
		}
		resp.Set("errors", entries)
		return resp
	}

	resp.Set("errors", []jsonvalue.Value{singleErrorEntry(err.Error(), Position{})})
	return resp
}

// Success wraps merged data in the {"data": ...} success envelope.
func Success(data jsonvalue.Value) *jsonvalue.Object {
	resp := jsonvalue.NewObject()
	resp.Set("data", data)
	return resp
}
