package schema

import "github.com/federatedgraph/gateway/introspection"

// IntrospectionView renders the merged Schema back into the standard
// __schema shape, for the resolver to serve locally when a client selects
// __schema (spec section 9, "Introspection injection").
func (s *Schema) IntrospectionView() *introspection.Schema {
	view := &introspection.Schema{Types: s.Types}
	if s.QueryType != nil {
		view.QueryType = &introspection.TypeRef{Kind: introspection.Object, Name: s.QueryType.Name}
	}
	if s.MutationType != nil {
		view.MutationType = &introspection.TypeRef{Kind: introspection.Object, Name: s.MutationType.Name}
	}
	return view
}
