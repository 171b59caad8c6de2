package rules

import "fmt"

/*
 * Action registry and dispatch.
 *
 * Actions are the side-effecting half of a rule: once the condition tree
 * holds, each named action is invoked in order. The effective params of an
 * invocation are built from three layers, later layers winning on key
 * collision:
 *
 *   1. the action call's own declared params,
 *   2. override params collected during condition evaluation,
 *   3. the previous action's return value, when that value is a mapping.
 *
 * Layer 3 is the value-chaining protocol between successive actions; a
 * non-mapping return value is discarded. Dispatch aborts on the first
 * error and has no return value of its own - its effect is the sequence of
 * handler invocations.
 */

// ActionFunc performs an action with the effective params of its call.
// The return value is passed to the next action when it is a mapping.
type ActionFunc func(params Params) (any, error)

// Action describes one registered action.
type Action struct {
	Name    string
	Label   string
	Params  []ParamDef
	Tooltip string
	Func    ActionFunc
}

// Actions is a registry of named actions, symmetric to Variables.
type Actions struct {
	name   string
	byName map[string]Action
}

// NewActions creates an empty action registry with the given name.
func NewActions(name string) *Actions {
	return &Actions{name: name, byName: make(map[string]Action)}
}

// Name returns the registry name used in error messages and diagnostics.
func (as *Actions) Name() string {
	return as.name
}

// Register adds an action to the registry, defaulting its label and param
// labels from the identifiers.
func (as *Actions) Register(a Action) error {
	if a.Name == "" {
		return fmt.Errorf("action registered in %s has no name", as.name)
	}
	if a.Func == nil {
		return fmt.Errorf("action %q has no handler", a.Name)
	}
	if _, exists := as.byName[a.Name]; exists {
		return fmt.Errorf("action %q is already defined in %s", a.Name, as.name)
	}
	if a.Label == "" {
		a.Label = prettyLabel(a.Name)
	}
	params, err := normalizeParamDefs(a.Params, "action", a.Name)
	if err != nil {
		return err
	}
	a.Params = params
	as.byName[a.Name] = a
	return nil
}

// MustRegister is Register for static registration tables; it panics on the
// errors Register reports.
func (as *Actions) MustRegister(a Action) *Actions {
	if err := as.Register(a); err != nil {
		panic(err)
	}
	return as
}

// dispatch invokes each action call in order with its effective params.
func (as *Actions) dispatch(calls []ActionCall, overrides Params) error {
	var carried any
	for _, call := range calls {
		if as == nil {
			return fmt.Errorf("%w: %q (no actions defined)", ErrUndefinedAction, call.Name)
		}
		a, ok := as.byName[call.Name]
		if !ok {
			return fmt.Errorf("%w: %q is not defined in %s", ErrUndefinedAction, call.Name, as.name)
		}
		effective := mergeParams(call.Params, overrides)
		if chained, isMapping := asParams(carried); isMapping {
			effective = mergeParams(effective, chained)
		}
		for _, p := range a.Params {
			if _, present := effective[p.Name]; !present {
				return fmt.Errorf("%w: action %q requires param %q", ErrMissingParam, call.Name, p.Name)
			}
		}
		result, err := a.Func(effective)
		if err != nil {
			return fmt.Errorf("action %q: %w", call.Name, err)
		}
		carried = result
	}
	return nil
}

// asParams reports whether a carried action result is a mapping eligible
// for value-chaining.
func asParams(v any) (Params, bool) {
	switch m := v.(type) {
	case Params:
		return m, m != nil
	case map[string]any:
		return Params(m), m != nil
	default:
		return nil, false
	}
}
