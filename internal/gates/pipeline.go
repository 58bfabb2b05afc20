// Package gates implements the feasibility gate pipeline: independent pure
// checks over a validated task spec, run in a fixed order with
// short-circuit on the first failure, assembled into an evidence record.
package gates

import (
	"time"

	"github.com/metalagman/axiom/internal/model"
)

// Gate is a pure feasibility check. It never performs I/O and returns a
// complete result on every call; fixes are non-empty only on failure and
// only for adjustments the spec permits.
type Gate func(model.TaskSpec) (model.GateResult, []model.CounterfactualFix)

// Pipeline returns the fixed gate order: reachability, payload, keepout.
func Pipeline() []Gate {
	return []Gate{CheckReachability, CheckPayload, CheckKeepout}
}

// Evaluate runs the gate pipeline over the spec, stopping at the first
// failing gate. Gates past the failure are neither run nor recorded.
func Evaluate(spec model.TaskSpec) model.EvidenceRecord {
	record := model.EvidenceRecord{
		TaskID:              spec.TaskID,
		Verdict:             model.VerdictCan,
		Checks:              []model.GateResult{},
		CounterfactualFixes: []model.CounterfactualFix{},
		CreatedAt:           time.Now().UTC().Format(time.RFC3339),
		Version:             model.Version,
	}

	for _, gate := range Pipeline() {
		result, fixes := gate(spec)
		record.Checks = append(record.Checks, result)
		if result.Status == model.StatusFail {
			record.Verdict = model.VerdictHardCant
			record.FailedGate = result.GateName
			record.CounterfactualFixes = append(record.CounterfactualFixes, fixes...)
			break
		}
	}

	return record
}
