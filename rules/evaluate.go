package rules

import "fmt"

/*
 * Condition tree evaluation and rule running.
 *
 * The evaluator is a pure function of (tree, variable registry): it holds
 * no state between calls, performs no I/O of its own, and is safe to run
 * concurrently against registries that are not mutated during evaluation.
 *
 * Two things travel up the tree together: the boolean result and the
 * override params accumulated so far. Combinators fold their children
 * left-to-right, threading the accumulated overrides into each child and
 * merging the child's contribution back (right-biased: a later leaf's keys
 * win). Short-circuiting follows standard boolean semantics - ALL stops at
 * the first false child, ANY at the first true child - and the overrides
 * accumulated up to that point are returned as-is. Overrides merged from a
 * child are kept regardless of the child's boolean result, matching the
 * original engine's accumulation discipline.
 *
 * Structural validation is fail-fast: a node with both combinator keys, a
 * combinator mixed with leaf fields, an empty child list, or missing leaf
 * fields aborts before any variable for that node is resolved.
 */

// Run evaluates one rule: the condition tree first, then the actions when
// it holds, with the collected override params threaded into dispatch.
// Returns whether the rule triggered.
func Run(rule Rule, variables *Variables, actions *Actions) (bool, error) {
	triggered, overrides, err := EvaluateConditions(rule.Conditions, variables)
	if err != nil {
		return false, err
	}
	if !triggered {
		return false, nil
	}
	if err := actions.dispatch(rule.Actions, overrides); err != nil {
		return false, err
	}
	return true, nil
}

// RunAll evaluates rules in order and reports whether any triggered. With
// stopOnFirstTrigger, evaluation stops at the first triggering rule. A
// single malformed rule or misconfigured registry aborts the whole batch;
// callers needing isolation wrap individual Run calls themselves.
func RunAll(ruleList []Rule, variables *Variables, actions *Actions, stopOnFirstTrigger bool) (bool, error) {
	anyTriggered := false
	for i, rule := range ruleList {
		triggered, err := Run(rule, variables, actions)
		if err != nil {
			return false, fmt.Errorf("rule %d: %w", i, err)
		}
		if triggered {
			if stopOnFirstTrigger {
				return true, nil
			}
			anyTriggered = true
		}
	}
	return anyTriggered, nil
}

// EvaluateConditions evaluates a condition tree against the variable
// registry, returning the boolean result and the override params collected
// bottom-up during evaluation.
func EvaluateConditions(node ConditionNode, variables *Variables) (bool, Params, error) {
	return evaluateNode(node, variables, Params{})
}

// evaluateNode dispatches on the node's shape. incoming is the override
// accumulator from earlier siblings; the returned map extends it.
func evaluateNode(node ConditionNode, variables *Variables, incoming Params) (bool, Params, error) {
	isAll := node.All != nil
	isAny := node.Any != nil
	switch {
	case isAll && isAny:
		return false, nil, fmt.Errorf("%w: node declares both %q and %q", ErrMalformedCondition, "all", "any")
	case (isAll || isAny) && (node.Name != "" || node.Operator != ""):
		return false, nil, fmt.Errorf("%w: combinator node also carries condition fields", ErrMalformedCondition)
	case isAll:
		return evaluateCombinator(node.All, "all", variables, incoming)
	case isAny:
		return evaluateCombinator(node.Any, "any", variables, incoming)
	}
	if node.Name == "" || node.Operator == "" {
		return false, nil, fmt.Errorf("%w: node is neither a combinator nor a complete condition", ErrMalformedCondition)
	}
	return evaluateLeaf(node, variables, incoming)
}

// evaluateCombinator folds children left-to-right with short-circuiting.
// Both kinds share one loop: ALL stops on the first result that breaks the
// combinator (false), ANY on the first that decides it (true).
func evaluateCombinator(children []ConditionNode, kind string, variables *Variables, incoming Params) (bool, Params, error) {
	if len(children) == 0 {
		return false, nil, fmt.Errorf("%w: %q has no conditions", ErrMalformedCondition, kind)
	}
	wantAll := kind == "all"
	overrides := incoming
	for _, child := range children {
		met, merged, err := evaluateNode(child, variables, overrides)
		if err != nil {
			return false, nil, err
		}
		overrides = merged
		if met != wantAll {
			// First false child under ALL, first true child under ANY.
			return met, overrides, nil
		}
	}
	return wantAll, overrides, nil
}

// evaluateLeaf resolves the variable with the leaf's params, merges the
// variable's overrides into the accumulator, and applies the operator.
func evaluateLeaf(node ConditionNode, variables *Variables, incoming Params) (bool, Params, error) {
	value, varOverrides, err := variables.resolve(node.Name, node.Params)
	if err != nil {
		return false, nil, err
	}
	merged := mergeParams(incoming, varOverrides)
	met, err := Compare(value, node.Operator, node.Value)
	if err != nil {
		return false, nil, err
	}
	return met, merged, nil
}

// mergeParams returns a fresh shallow merge with overlay keys winning.
// Always allocating keeps sibling subtrees from aliasing one accumulator.
func mergeParams(base, overlay Params) Params {
	merged := make(Params, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
