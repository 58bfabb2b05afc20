package gates

import (
	"fmt"

	"github.com/metalagman/axiom/internal/model"
)

// GateReachability is the name of the reachability gate.
const GateReachability = "reachability"

// CheckReachability verifies that the target pose lies within the
// constructor's reach sphere. The boundary is inclusive: a target exactly
// max_reach_m away passes.
func CheckReachability(spec model.TaskSpec) (model.GateResult, []model.CounterfactualFix) {
	base := spec.Constructor.BasePose.XYZ
	target := spec.Transformation.TargetPose.XYZ
	maxReach := spec.Constructor.MaxReachM

	d := distance(base, target)
	measured := map[string]any{
		"distance_m":  d,
		"max_reach_m": maxReach,
	}

	if d <= maxReach {
		return model.GateResult{
			GateName:       GateReachability,
			Status:         model.StatusPass,
			MeasuredValues: measured,
		}, nil
	}

	overshoot := d - maxReach
	adj := spec.AllowedAdjustments

	fixes := collectFixes([]fixCandidate{
		{allowed: adj.CanMoveTarget, build: func() model.CounterfactualFix {
			projected := projectOntoSphere(base, target, maxReach)
			return model.CounterfactualFix{
				Type:        model.FixMoveTarget,
				Delta:       floatPtr(overshoot),
				Instruction: fmt.Sprintf("Move target %.4f m closer to base (projected onto reach sphere).", overshoot),
				ProposedPatch: map[string]any{
					"projected_target_xyz": projected,
				},
			}
		}},
		{allowed: adj.CanMoveBase, build: func() model.CounterfactualFix {
			newBase := pointToward(base, target, overshoot)
			return model.CounterfactualFix{
				Type:        model.FixMoveBase,
				Delta:       floatPtr(overshoot),
				Instruction: fmt.Sprintf("Move constructor base %.4f m toward target.", overshoot),
				ProposedPatch: map[string]any{
					"suggested_base_xyz": newBase,
				},
			}
		}},
		{allowed: adj.CanChangeConstructor, build: func() model.CounterfactualFix {
			return model.CounterfactualFix{
				Type:        model.FixChangeConstructor,
				Delta:       floatPtr(overshoot),
				Instruction: fmt.Sprintf("Replace constructor with one whose max_reach_m >= %.4f m.", d),
			}
		}},
	})

	return model.GateResult{
		GateName:       GateReachability,
		Status:         model.StatusFail,
		MeasuredValues: measured,
		ReasonCode:     model.ReasonOutOfReach,
	}, fixes
}
