package ast

import (
	"fmt"
	"strings"
)

// Render prints doc back to GraphQL source text, in the fixed shape the
// planner always produces: fragment definitions first (in map iteration
// order is not guaranteed, so callers that care about determinism should
// pass fragments already deduplicated; order among fragments has no
// semantic effect), then the operation. This is a hand-rolled printer
// rather than a reuse of graphql-go's printer.Print: that printer walks
// graphql-go's own ast.Document, and the planner only ever produces this
// package's rewritten Document, not a re-parsed one.
func Render(doc *Document) string {
	var b strings.Builder

	fragmentNames := make([]string, 0, len(doc.Fragments))
	for name := range doc.Fragments {
		fragmentNames = append(fragmentNames, name)
	}
	for _, name := range fragmentNames {
		frag := doc.Fragments[name]
		fmt.Fprintf(&b, "fragment %s on %s ", frag.Name, frag.TypeCondition)
		renderSelectionSet(&b, frag.SelectionSet)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "%s %s", doc.Kind, doc.OperationName)
	if len(doc.VariableDefinitions) > 0 {
		b.WriteByte('(')
		for i, vd := range doc.VariableDefinitions {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%s: %s", vd.Name, vd.TypeString)
			if vd.HasDefault {
				fmt.Fprintf(&b, " = %s", vd.DefaultRaw)
			}
		}
		b.WriteByte(')')
	}
	b.WriteByte(' ')
	renderSelectionSet(&b, doc.SelectionSet)

	return b.String()
}

func renderSelectionSet(b *strings.Builder, ss *SelectionSet) {
	b.WriteByte('{')
	for _, sel := range ss.Selections {
		b.WriteByte(' ')
		renderSelection(b, sel)
	}
	b.WriteString(" }")
}

func renderSelection(b *strings.Builder, sel *Selection) {
	switch sel.Kind {
	case FieldSelection:
		if sel.Alias != "" && sel.Alias != sel.Name {
			fmt.Fprintf(b, "%s: ", sel.Alias)
		}
		b.WriteString(sel.Name)
		renderArguments(b, sel.Arguments)
		renderDirectives(b, sel.Directives)
		if sel.SelectionSet != nil && len(sel.SelectionSet.Selections) > 0 {
			b.WriteByte(' ')
			renderSelectionSet(b, sel.SelectionSet)
		}
	case FragmentSpreadSelection:
		fmt.Fprintf(b, "...%s", sel.Name)
		renderDirectives(b, sel.Directives)
	case InlineFragmentSelection:
		fmt.Fprintf(b, "... on %s", sel.TypeCondition)
		renderDirectives(b, sel.Directives)
		b.WriteByte(' ')
		renderSelectionSet(b, sel.SelectionSet)
	}
}

func renderDirectives(b *strings.Builder, dirs []*Directive) {
	for _, d := range dirs {
		fmt.Fprintf(b, " @%s", d.Name)
		renderArguments(b, d.Arguments)
	}
}

func renderArguments(b *strings.Builder, args []*Argument) {
	if len(args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %s", arg.Name, renderValue(arg.Value))
	}
	b.WriteByte(')')
}

func renderValue(v Value) string {
	if v.IsVariable {
		return "$" + v.VariableName
	}
	return v.Literal
}
