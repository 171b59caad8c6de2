package rules

import (
	"encoding/json"
	"fmt"
)

/*
 * Rule model and wire codec.
 *
 * A Rule is a boolean condition tree plus an ordered action list. Rules are
 * immutable inputs to evaluation: the engine never mutates them and holds no
 * reference once an evaluation returns.
 *
 * ConditionNode is a tagged union. A nil All/Any slice means the key was
 * absent; a non-nil empty slice means the key was present with no children,
 * which the evaluator rejects as malformed. The JSON codec preserves that
 * distinction so structural validation behaves the same for decoded and
 * hand-built trees.
 */

// Params is the mapping passed to variable and action handlers as named
// arguments.
type Params map[string]any

// Rule pairs a condition tree with the actions to dispatch when it holds.
type Rule struct {
	Conditions ConditionNode `json:"conditions"`
	Actions    []ActionCall  `json:"actions"`
}

// ConditionNode is either a combinator (exactly one of All or Any set, each
// requiring at least one child) or a leaf condition checking one variable
// against a comparison value.
type ConditionNode struct {
	All []ConditionNode
	Any []ConditionNode

	// Leaf fields. Name and Operator are required for a leaf; Value is the
	// comparison literal (absent for no-input operators) and Params are the
	// named arguments for the variable handler.
	Name     string
	Operator string
	Value    any
	Params   Params
}

// ActionCall names a registered action and its declared parameters.
type ActionCall struct {
	Name   string `json:"name"`
	Params Params `json:"params,omitempty"`
}

// AllOf builds a combinator node that holds when every child holds.
func AllOf(children ...ConditionNode) ConditionNode {
	return ConditionNode{All: children}
}

// AnyOf builds a combinator node that holds when at least one child holds.
func AnyOf(children ...ConditionNode) ConditionNode {
	return ConditionNode{Any: children}
}

// Condition builds a leaf condition node.
func Condition(name, operator string, value any) ConditionNode {
	return ConditionNode{Name: name, Operator: operator, Value: value}
}

// conditionWire is the JSON shape of a condition node. Params stays raw so a
// non-object params value maps to ErrInvalidParams instead of a bare decode
// error.
type conditionWire struct {
	All      []ConditionNode `json:"all,omitempty"`
	Any      []ConditionNode `json:"any,omitempty"`
	Name     string          `json:"name,omitempty"`
	Operator string          `json:"operator,omitempty"`
	Value    any             `json:"value,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// UnmarshalJSON decodes the original wire shape: {"all": [...]},
// {"any": [...]}, or {"name", "operator", "value", "params"}.
func (n *ConditionNode) UnmarshalJSON(data []byte) error {
	var wire conditionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*n = ConditionNode{
		All:      wire.All,
		Any:      wire.Any,
		Name:     wire.Name,
		Operator: wire.Operator,
		Value:    wire.Value,
	}
	params, err := decodeParams(wire.Params, "condition", wire.Name)
	if err != nil {
		return err
	}
	n.Params = params
	return nil
}

// MarshalJSON emits the combinator key when one is set, the leaf shape
// otherwise.
func (n ConditionNode) MarshalJSON() ([]byte, error) {
	if n.All != nil {
		return json.Marshal(map[string]any{"all": n.All})
	}
	if n.Any != nil {
		return json.Marshal(map[string]any{"any": n.Any})
	}
	leaf := map[string]any{"name": n.Name, "operator": n.Operator, "value": n.Value}
	if len(n.Params) > 0 {
		leaf["params"] = n.Params
	}
	return json.Marshal(leaf)
}

// UnmarshalJSON decodes an action call, rejecting non-mapping params.
func (a *ActionCall) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name   string          `json:"name"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	a.Name = wire.Name
	params, err := decodeParams(wire.Params, "action", wire.Name)
	if err != nil {
		return err
	}
	a.Params = params
	return nil
}

// decodeParams unmarshals a raw params value into a Params mapping.
// Absent and null both mean no params.
func decodeParams(raw json.RawMessage, element, name string) (Params, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var params Params
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("%w: %s %q params is not an object", ErrInvalidParams, element, name)
	}
	return params, nil
}
