package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zipari/business-rules/internal/types"
	"github.com/zipari/business-rules/rules"
)

/*
 * Fact bindings for evaluation requests.
 *
 * A fact binds a variable name to a value for the lifetime of one
 * request. The value is either an inline literal or a dotted path
 * resolved against the request's data document. Resolved facts are
 * registered into a per-request variable registry so the engine sees
 * them exactly like statically registered variables.
 *
 * Path semantics: dot-separated segments, numeric segments index into
 * arrays, depth capped at MaxFactPathDepth. No wildcards; a fact names
 * one value.
 */

// Fact binds a variable name to a literal value or a path into the
// request data document.
type Fact struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
	Path  string `json:"path,omitempty"`
	Label string `json:"label,omitempty"`
}

// factRegistryName is the registry name reported in undefined-variable errors.
const factRegistryName = "RequestFacts"

// buildVariables resolves all facts and registers them as variables.
// Fact values are fixed at registration; handlers close over the
// resolved value so evaluation never re-reads the data document.
func buildVariables(facts []Fact, data map[string]any) (*rules.Variables, error) {
	if len(facts) > types.MaxFactsPerRequest {
		return nil, types.ErrTooManyFacts
	}

	vars := rules.NewVariables(factRegistryName)
	for _, f := range facts {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: fact has no name", types.ErrInvalidFact)
		}
		kind, err := rules.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w: %s", f.Name, types.ErrUnknownKind, f.Kind)
		}

		value := f.Value
		if f.Path != "" {
			if f.Value != nil {
				return nil, fmt.Errorf("%w: fact %q has both value and path", types.ErrInvalidFact, f.Name)
			}
			value, err = resolveFactPath(f.Path, data)
			if err != nil {
				return nil, fmt.Errorf("fact %q: %w", f.Name, err)
			}
		}

		v := value
		err = vars.Register(rules.Variable{
			Name:  f.Name,
			Label: f.Label,
			Kind:  kind,
			Func: func(rules.Params) (rules.VariableResult, error) {
				return rules.Value(v), nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", f.Name, err)
		}
	}

	return vars, nil
}

// splitFactPath validates and splits a dotted path into segments.
func splitFactPath(path string) ([]string, error) {
	segments := strings.Split(path, ".")
	if len(segments) > types.MaxFactPathDepth {
		return nil, fmt.Errorf("%w: path %q exceeds maximum depth %d", types.ErrInvalidFact, path, types.MaxFactPathDepth)
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: path %q has an empty segment", types.ErrInvalidFact, path)
		}
	}
	return segments, nil
}

// resolveFactPath walks the data document following dotted segments.
// Numeric segments index into arrays; object keys are matched exactly.
func resolveFactPath(path string, data map[string]any) (any, error) {
	segments, err := splitFactPath(path)
	if err != nil {
		return nil, err
	}

	var current any = data
	for _, seg := range segments {
		switch v := current.(type) {
		case map[string]any:
			val, ok := v[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %q (missing key %q)", types.ErrFactPathNotFound, path, seg)
			}
			current = val

		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("%w: %q (segment %q is not an array index)", types.ErrFactPathNotFound, path, seg)
			}
			if idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("%w: %q (index %d out of range)", types.ErrFactPathNotFound, path, idx)
			}
			current = v[idx]

		default:
			// Scalar or null at an intermediate position
			return nil, fmt.Errorf("%w: %q (segment %q has no children)", types.ErrFactPathNotFound, path, seg)
		}
	}

	return current, nil
}

// actionNames collects the distinct action names across a rule set in
// sorted order.
func actionNames(ruleList []rules.Rule) []string {
	seen := make(map[string]bool)
	for _, r := range ruleList {
		for _, a := range r.Actions {
			seen[a.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
