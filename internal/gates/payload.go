package gates

import (
	"fmt"
	"math"

	"github.com/metalagman/axiom/internal/model"
)

// GatePayload is the name of the payload gate.
const GatePayload = "payload"

// CheckPayload verifies that the substrate mass is within the constructor's
// payload limit. The boundary is inclusive.
func CheckPayload(spec model.TaskSpec) (model.GateResult, []model.CounterfactualFix) {
	mass := spec.Substrate.MassKg
	maxPayload := spec.Constructor.MaxPayloadKg

	measured := map[string]any{
		"mass_kg":        mass,
		"max_payload_kg": maxPayload,
	}

	if mass <= maxPayload {
		return model.GateResult{
			GateName:       GatePayload,
			Status:         model.StatusPass,
			MeasuredValues: measured,
		}, nil
	}

	excess := mass - maxPayload
	adj := spec.AllowedAdjustments

	fixes := collectFixes([]fixCandidate{
		{allowed: adj.CanSplitPayload, build: func() model.CounterfactualFix {
			splitCount := int(math.Ceil(mass / maxPayload))
			return model.CounterfactualFix{
				Type:        model.FixSplitPayload,
				Delta:       floatPtr(excess),
				Instruction: fmt.Sprintf("Split payload into %d trips of <= %g kg each.", splitCount, maxPayload),
				ProposedPatch: map[string]any{
					"suggested_payload_split_count": splitCount,
				},
			}
		}},
		{allowed: adj.CanChangeConstructor, build: func() model.CounterfactualFix {
			return model.CounterfactualFix{
				Type:        model.FixChangeConstructor,
				Delta:       floatPtr(excess),
				Instruction: fmt.Sprintf("Replace constructor with one whose max_payload_kg >= %g kg.", mass),
			}
		}},
	})

	return model.GateResult{
		GateName:       GatePayload,
		Status:         model.StatusFail,
		MeasuredValues: measured,
		ReasonCode:     model.ReasonOverPayload,
	}, fixes
}
