package rules

import "fmt"

/*
 * Variable registry.
 *
 * The original contract is a "named, late-bound accessor": a rule references
 * a variable by name and the engine resolves it against a caller-supplied
 * provider at evaluation time. Here that contract is an explicit registry
 * built once at construction time: name -> descriptor with the handler
 * closure and its metadata. No reflection, no global state; two unrelated
 * registries never share anything.
 *
 * A handler returns an explicit VariableResult: the raw value plus optional
 * override params. Overrides ride alongside the boolean result of the
 * condition tree and are merged into action params when the rule triggers;
 * they never influence which branch the boolean logic takes.
 */

// VariableResult is what a variable handler returns: the raw value to be
// coerced into the variable's declared kind, and optional override params
// to thread into action dispatch.
type VariableResult struct {
	Value     any
	Overrides Params
}

// Value wraps a raw value with no overrides.
func Value(v any) VariableResult {
	return VariableResult{Value: v}
}

// ValueWith wraps a raw value together with override params.
func ValueWith(v any, overrides Params) VariableResult {
	return VariableResult{Value: v, Overrides: overrides}
}

// VariableFunc computes a variable's value from the condition's params.
type VariableFunc func(params Params) (VariableResult, error)

// ParamDef declares one named parameter of a variable or action.
type ParamDef struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	FieldType FieldType `json:"fieldType"`
}

// Variable describes one registered variable. Label defaults to the
// title-cased name; Options feed schema export for select kinds; Tooltip is
// free-form help text for rule authors.
type Variable struct {
	Name    string
	Label   string
	Kind    Kind
	Options []string
	Params  []ParamDef
	Tooltip string
	Func    VariableFunc
}

// Variables is a registry of named variables. The registry name appears in
// error messages the way a provider class name would, so misconfigurations
// name both the variable and where it was expected.
type Variables struct {
	name   string
	byName map[string]Variable
}

// NewVariables creates an empty variable registry with the given name.
func NewVariables(name string) *Variables {
	return &Variables{name: name, byName: make(map[string]Variable)}
}

// Name returns the registry name used in error messages and diagnostics.
func (vs *Variables) Name() string {
	return vs.name
}

// Register adds a variable to the registry, defaulting its label and param
// labels from the identifiers. Registration fails on missing name, handler,
// or kind, on duplicate names, and on unknown param field types.
func (vs *Variables) Register(v Variable) error {
	if v.Name == "" {
		return fmt.Errorf("variable registered in %s has no name", vs.name)
	}
	if v.Func == nil {
		return fmt.Errorf("variable %q has no handler", v.Name)
	}
	if _, ok := kindNames[v.Kind]; !ok {
		return fmt.Errorf("variable %q has invalid kind %v", v.Name, v.Kind)
	}
	if _, exists := vs.byName[v.Name]; exists {
		return fmt.Errorf("variable %q is already defined in %s", v.Name, vs.name)
	}
	if v.Label == "" {
		v.Label = prettyLabel(v.Name)
	}
	params, err := normalizeParamDefs(v.Params, "variable", v.Name)
	if err != nil {
		return err
	}
	v.Params = params
	vs.byName[v.Name] = v
	return nil
}

// MustRegister is Register for static registration tables; it panics on the
// errors Register reports.
func (vs *Variables) MustRegister(v Variable) *Variables {
	if err := vs.Register(v); err != nil {
		panic(err)
	}
	return vs
}

// resolve looks name up, checks declared params are present, invokes the
// handler, and coerces its result into the declared kind. The returned
// override map is never nil.
func (vs *Variables) resolve(name string, params Params) (TypedValue, Params, error) {
	if vs == nil {
		return TypedValue{}, nil, fmt.Errorf("%w: %q (no variables defined)", ErrUndefinedVariable, name)
	}
	v, ok := vs.byName[name]
	if !ok {
		return TypedValue{}, nil, fmt.Errorf("%w: %q is not defined in %s", ErrUndefinedVariable, name, vs.name)
	}
	if params == nil {
		params = Params{}
	}
	for _, p := range v.Params {
		if _, present := params[p.Name]; !present {
			return TypedValue{}, nil, fmt.Errorf("%w: variable %q requires param %q", ErrMissingParam, name, p.Name)
		}
	}
	result, err := v.Func(params)
	if err != nil {
		return TypedValue{}, nil, fmt.Errorf("variable %q: %w", name, err)
	}
	value, err := NewTypedValue(v.Kind, result.Value)
	if err != nil {
		return TypedValue{}, nil, fmt.Errorf("variable %q: %w", name, err)
	}
	overrides := result.Overrides
	if overrides == nil {
		overrides = Params{}
	}
	return value, overrides, nil
}

// normalizeParamDefs defaults param labels and validates field types.
func normalizeParamDefs(params []ParamDef, element, name string) ([]ParamDef, error) {
	normalized := make([]ParamDef, len(params))
	for i, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("%s %q declares a param with no name", element, name)
		}
		if !validFieldType(p.FieldType) {
			return nil, fmt.Errorf("unknown field type %q for %s %q param %q", p.FieldType, element, name, p.Name)
		}
		if p.Label == "" {
			p.Label = prettyLabel(p.Name)
		}
		normalized[i] = p
	}
	return normalized, nil
}
