package ast

import "github.com/federatedgraph/gateway/jsonvalue"

// ShouldInclude evaluates a selection's @skip/@include directives against
// vars, the way the teacher's graphql.ShouldIncludeNode does for its own
// planner. A selection with no directives is always included. Per the
// GraphQL spec, @skip takes precedence over @include when both appear on
// the same selection.
func ShouldInclude(directives []*Directive, vars *jsonvalue.Object) (bool, error) {
	include := true
	for _, d := range directives {
		switch d.Name {
		case "skip":
			ifTrue, err := directiveIfArg(d, vars)
			if err != nil {
				return false, err
			}
			if ifTrue {
				include = false
			}
		case "include":
			ifTrue, err := directiveIfArg(d, vars)
			if err != nil {
				return false, err
			}
			if !ifTrue {
				include = false
			}
		}
	}
	return include, nil
}

func directiveIfArg(d *Directive, vars *jsonvalue.Object) (bool, error) {
	for _, a := range d.Arguments {
		if a.Name != "if" {
			continue
		}
		if !a.Value.IsVariable {
			return a.Value.Literal == "true", nil
		}
		if vars != nil {
			if val, ok := vars.Get(a.Value.VariableName); ok {
				b, ok := val.(bool)
				if !ok {
					return false, &directiveError{d.Name, a.Value.VariableName, "is not a boolean"}
				}
				return b, nil
			}
		}
		return false, &directiveError{d.Name, a.Value.VariableName, "was not provided"}
	}
	return false, &directiveError{name: d.Name, reason: `requires an "if" argument`}
}

// directiveError reports a malformed @skip/@include evaluation without
// pulling gqlerrors into this package's import graph just for one message
// type; callers that need a typed error wrap it themselves.
type directiveError struct {
	name     string
	variable string
	reason   string
}

func (e *directiveError) Error() string {
	if e.variable == "" {
		return "directive @" + e.name + " " + e.reason
	}
	return "directive @" + e.name + ": variable $" + e.variable + " " + e.reason
}
