// Package api provides HTTP handlers for the rule evaluation service.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/zipari/business-rules/internal/core/config"
	"github.com/zipari/business-rules/internal/core/db"
	"github.com/zipari/business-rules/internal/types"
	"github.com/zipari/business-rules/rules"
)

// EvalService evaluates rule sets submitted over HTTP.
// Thin orchestration layer delegating to the rules engine and the
// audit store.
type EvalService struct {
	queries *db.Queries
	cfg     *config.EvalAPIConfig
}

// NewEvalService creates a service instance with dependencies.
// queries may be nil; evaluation then runs without audit records.
func NewEvalService(queries *db.Queries, cfg *config.EvalAPIConfig) (*EvalService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	return &EvalService{queries: queries, cfg: cfg}, nil
}

// EvaluateRequest carries one evaluation call: the rules to run, the
// fact bindings that define the variables, and an optional data
// document that path-bound facts resolve against.
type EvaluateRequest struct {
	Rules       []rules.Rule   `json:"rules"`
	Facts       []Fact         `json:"facts"`
	Data        map[string]any `json:"data,omitempty"`
	StopOnFirst bool           `json:"stop_on_first,omitempty"`
}

// RuleResult reports the outcome of a single rule.
type RuleResult struct {
	Triggered bool `json:"triggered"`
}

// FiredAction records one action dispatched by a triggered rule.
type FiredAction struct {
	Rule   int          `json:"rule"`
	Name   string       `json:"name"`
	Params rules.Params `json:"params,omitempty"`
}

// EvaluateResponse reports per-rule outcomes and every action fired.
type EvaluateResponse struct {
	EvaluationID types.EvaluationID `json:"evaluation_id"`
	Triggered    bool               `json:"triggered"`
	Results      []RuleResult       `json:"results"`
	Actions      []FiredAction      `json:"actions"`
}

// Evaluate runs the submitted rules against the submitted facts.
// Rules run in order; stop_on_first ends the batch after the first
// triggered rule. Actions do not execute anything server-side, they
// are recorded and returned to the caller.
func (s *EvalService) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	if len(req.Rules) > types.MaxRulesPerRequest {
		return nil, types.ErrTooManyRules
	}

	vars, err := buildVariables(req.Facts, req.Data)
	if err != nil {
		return nil, err
	}

	resp := &EvaluateResponse{
		EvaluationID: types.NewEvaluationID(),
		Results:      make([]RuleResult, 0, len(req.Rules)),
		Actions:      []FiredAction{},
	}

	// Recorder registry: every action named by the rule set gets a
	// handler that appends to the response instead of side-effecting.
	ruleIndex := 0
	actions := rules.NewActions("RequestActions")
	for _, name := range actionNames(req.Rules) {
		name := name
		err := actions.Register(rules.Action{
			Name: name,
			Func: func(params rules.Params) (any, error) {
				resp.Actions = append(resp.Actions, FiredAction{
					Rule:   ruleIndex,
					Name:   name,
					Params: params,
				})
				return nil, nil
			},
		})
		if err != nil {
			return nil, err
		}
	}

	triggeredCount := 0
	for i, rule := range req.Rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ruleIndex = i
		triggered, err := rules.Run(rule, vars, actions)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		resp.Results = append(resp.Results, RuleResult{Triggered: triggered})
		if triggered {
			triggeredCount++
			resp.Triggered = true
			if req.StopOnFirst {
				break
			}
		}
	}

	s.recordEvaluation(resp, len(req.Rules), triggeredCount, req.StopOnFirst)

	return resp, nil
}

// recordEvaluation inserts an audit row for a completed evaluation.
// Best-effort: the audit log is a debugging aid, an insert failure
// never fails the evaluation.
func (s *EvalService) recordEvaluation(resp *EvaluateResponse, ruleCount, triggeredCount int, stopOnFirst bool) {
	if s.queries == nil {
		return
	}
	_, _ = s.queries.Exec("insert-evaluation",
		string(resp.EvaluationID),
		time.Now().UTC().Format(time.RFC3339),
		ruleCount,
		triggeredCount,
		len(resp.Actions),
		stopOnFirst,
	)
}
