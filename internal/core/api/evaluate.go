package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zipari/business-rules/internal/types"
	"github.com/zipari/business-rules/rules"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// HandleEvaluate serves POST /v1/evaluate.
// Decodes the request, runs the rule set, and returns per-rule
// outcomes plus every recorded action.
func (s *EvalService) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxPayloadBytes))

	var req EvaluateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, fmt.Errorf("%w: limit is %d bytes", types.ErrPayloadTooLarge, s.cfg.MaxPayloadBytes))
			return
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.Evaluate(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// HandleSchema serves GET /v1/schema.
// Returns the operator tables grouped by variable type. No variables
// or actions are registered server-side; facts define them per request.
func (s *EvalService) HandleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rules.ExportRuleData(nil, nil))
}

// HandleHealth serves GET /v1/healthz.
func (s *EvalService) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondError writes an evaluation error with its mapped status code.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
