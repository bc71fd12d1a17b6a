package ast

import (
	"strings"

	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/printer"
	"github.com/graphql-go/graphql/language/source"

	"github.com/federatedgraph/gateway/gqlerrors"
)

// Parse turns GraphQL query source into a Document, selecting the
// operation named operationName (or the document's sole operation, if it
// defines exactly one and operationName is empty). This is the gateway's
// only dependency on an external parser, per spec section 1: everything
// downstream of Parse works with this package's own types.
func Parse(querySource string, operationName string) (*Document, error) {
	src := source.NewSource(&source.Source{Body: []byte(querySource), Name: "query"})

	parsed, err := parser.Parse(parser.ParseParams{Source: src})
	if err != nil {
		return nil, gqlerrors.Errorf("parsing query: %v", err)
	}

	doc := &Document{
		Fragments: make(map[string]*FragmentDefinition),
	}

	var operations []*gqlast.OperationDefinition

	for _, def := range parsed.Definitions {
		switch d := def.(type) {
		case *gqlast.OperationDefinition:
			operations = append(operations, d)
		case *gqlast.FragmentDefinition:
			frag := convertFragment(d, src)
			doc.Fragments[frag.Name] = frag
		default:
			return nil, gqlerrors.Errorf("unsupported definition kind %T", def)
		}
	}

	op, err := selectOperation(operations, operationName)
	if err != nil {
		return nil, err
	}

	switch op.Operation {
	case "query":
		doc.Kind = Query
	case "mutation":
		doc.Kind = Mutation
	default:
		return nil, &gqlerrors.NotSupported{Kind: op.Operation}
	}

	if op.Name != nil {
		doc.OperationName = op.Name.Value
	}

	for _, vd := range op.VariableDefinitions {
		doc.VariableDefinitions = append(doc.VariableDefinitions, convertVariableDefinition(vd, src))
	}

	doc.SelectionSet = convertSelectionSet(op.SelectionSet, src)

	return doc, nil
}

func selectOperation(ops []*gqlast.OperationDefinition, operationName string) (*gqlast.OperationDefinition, error) {
	if len(ops) == 0 {
		return nil, gqlerrors.Errorf("document has no operations")
	}
	if operationName == "" {
		if len(ops) > 1 {
			return nil, gqlerrors.Errorf("document defines multiple operations; operationName is required")
		}
		return ops[0], nil
	}
	for _, op := range ops {
		if op.Name != nil && op.Name.Value == operationName {
			return op, nil
		}
	}
	return nil, gqlerrors.Errorf("operation %q not found in document", operationName)
}

func convertFragment(d *gqlast.FragmentDefinition, src *source.Source) *FragmentDefinition {
	return &FragmentDefinition{
		Name:          d.Name.Value,
		TypeCondition: d.TypeCondition.Name.Value,
		SelectionSet:  convertSelectionSet(d.SelectionSet, src),
	}
}

func convertVariableDefinition(vd *gqlast.VariableDefinition, src *source.Source) *VariableDefinition {
	out := &VariableDefinition{
		Name:       vd.Variable.Name.Value,
		TypeString: printer.Print(vd.Type).(string),
	}
	if vd.DefaultValue != nil {
		out.HasDefault = true
		out.DefaultRaw = printer.Print(vd.DefaultValue).(string)
	}
	return out
}

func convertSelectionSet(ss *gqlast.SelectionSet, src *source.Source) *SelectionSet {
	if ss == nil {
		return &SelectionSet{}
	}
	out := &SelectionSet{Selections: make([]*Selection, 0, len(ss.Selections))}
	for _, sel := range ss.Selections {
		out.Selections = append(out.Selections, convertSelection(sel, src))
	}
	return out
}

func convertSelection(sel gqlast.Selection, src *source.Source) *Selection {
	switch s := sel.(type) {
	case *gqlast.Field:
		alias := ""
		if s.Alias != nil {
			alias = s.Alias.Value
		}
		args := make([]*Argument, 0, len(s.Arguments))
		for _, a := range s.Arguments {
			args = append(args, convertArgument(a))
		}
		return &Selection{
			Kind:         FieldSelection,
			Alias:        alias,
			Name:         s.Name.Value,
			Arguments:    args,
			Directives:   convertDirectives(s.Directives),
			SelectionSet: convertSelectionSet(s.SelectionSet, src),
			Pos:          positionOf(s.Loc, src),
		}
	case *gqlast.FragmentSpread:
		return &Selection{
			Kind:       FragmentSpreadSelection,
			Name:       s.Name.Value,
			Directives: convertDirectives(s.Directives),
			Pos:        positionOf(s.Loc, src),
		}
	case *gqlast.InlineFragment:
		typeCondition := ""
		if s.TypeCondition != nil {
			typeCondition = s.TypeCondition.Name.Value
		}
		return &Selection{
			Kind:          InlineFragmentSelection,
			TypeCondition: typeCondition,
			Directives:    convertDirectives(s.Directives),
			SelectionSet:  convertSelectionSet(s.SelectionSet, src),
			Pos:           positionOf(s.Loc, src),
		}
	default:
		return &Selection{Kind: FieldSelection}
	}
}

func convertDirectives(dirs []*gqlast.Directive) []*Directive {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]*Directive, 0, len(dirs))
	for _, d := range dirs {
		args := make([]*Argument, 0, len(d.Arguments))
		for _, a := range d.Arguments {
			args = append(args, convertArgument(a))
		}
		out = append(out, &Directive{Name: d.Name.Value, Arguments: args})
	}
	return out
}

func convertArgument(a *gqlast.Argument) *Argument {
	arg := &Argument{Name: a.Name.Value}
	if v, ok := a.Value.(*gqlast.Variable); ok {
		arg.Value = Value{IsVariable: true, VariableName: v.Name.Value}
		return arg
	}
	arg.Value = Value{Literal: printer.Print(a.Value).(string)}
	return arg
}

// positionOf computes a 1-indexed line/column from a parser location's
// byte offset into the original source. graphql-go's own location helper
// lives in an internal-ish package not meant for reuse outside the
// executor it ships with, so the gateway computes it directly from the
// source body - a few lines cheaper than vendoring that helper.
func positionOf(loc *gqlast.Location, src *source.Source) gqlerrors.Position {
	if loc == nil || src == nil {
		return gqlerrors.Position{}
	}
	body := string(src.Body)
	if loc.Start > len(body) {
		return gqlerrors.Position{}
	}
	prefix := body[:loc.Start]
	line := strings.Count(prefix, "\n") + 1
	col := loc.Start - strings.LastIndex(prefix, "\n")
	return gqlerrors.Position{Line: line, Column: col}
}
