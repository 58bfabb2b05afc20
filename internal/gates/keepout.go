package gates

import (
	"fmt"

	"github.com/metalagman/axiom/internal/model"
)

// GateKeepout is the name of the keepout gate.
const GateKeepout = "keepout"

// inExpandedAABB reports whether the point lies inside the zone's box after
// expanding every face by the buffer. Containment is closed on both ends.
func inExpandedAABB(point model.Vec3, zone model.KeepoutZone, buffer float64) bool {
	for i := 0; i < 3; i++ {
		if point[i] < zone.MinXYZ[i]-buffer {
			return false
		}
		if point[i] > zone.MaxXYZ[i]+buffer {
			return false
		}
	}
	return true
}

// minimalEscape finds the smallest single-axis translation that moves the
// point onto a face of the expanded box. Candidate faces are scanned in
// axis order x, y, z with the low face before the high face; ties keep the
// earlier candidate.
func minimalEscape(point model.Vec3, zone model.KeepoutZone, buffer float64) (model.Vec3, float64) {
	bestDist := -1.0
	bestPoint := point

	for i := 0; i < 3; i++ {
		lo := zone.MinXYZ[i] - buffer
		hi := zone.MaxXYZ[i] + buffer

		if dLo := point[i] - lo; dLo >= 0 && (bestDist < 0 || dLo < bestDist) {
			candidate := point
			candidate[i] = lo
			bestDist = dLo
			bestPoint = candidate
		}
		if dHi := hi - point[i]; dHi >= 0 && (bestDist < 0 || dHi < bestDist) {
			candidate := point
			candidate[i] = hi
			bestDist = dHi
			bestPoint = candidate
		}
	}

	return bestPoint, bestDist
}

// CheckKeepout verifies that the target pose avoids every keepout zone.
// Zones are tested in input order and the first violation short-circuits
// evaluation; later zones are not checked.
func CheckKeepout(spec model.TaskSpec) (model.GateResult, []model.CounterfactualFix) {
	target := spec.Transformation.TargetPose.XYZ
	env := spec.Environment
	buffer := env.SafetyBuffer

	if len(env.KeepoutZones) == 0 {
		return model.GateResult{
			GateName:       GateKeepout,
			Status:         model.StatusPass,
			MeasuredValues: map[string]any{"keepout_zones_checked": 0},
		}, nil
	}

	for _, zone := range env.KeepoutZones {
		if !inExpandedAABB(target, zone, buffer) {
			continue
		}

		escaped, escapeDist := minimalEscape(target, zone, buffer)
		measured := map[string]any{
			"violating_zone_id": zone.ID,
			"target_xyz":        target,
			"zone_min_xyz":      zone.MinXYZ,
			"zone_max_xyz":      zone.MaxXYZ,
			"safety_buffer_m":   buffer,
			"escape_delta_m":    escapeDist,
		}

		fixes := collectFixes([]fixCandidate{
			{allowed: spec.AllowedAdjustments.CanMoveTarget, build: func() model.CounterfactualFix {
				delta := distance(target, escaped)
				return model.CounterfactualFix{
					Type:  model.FixMoveTarget,
					Delta: floatPtr(delta),
					Instruction: fmt.Sprintf("Move target %.4f m to exit keepout zone %q (including %g m safety buffer).",
						delta, zone.ID, buffer),
					ProposedPatch: map[string]any{
						"projected_target_xyz": escaped,
					},
				}
			}},
		})

		return model.GateResult{
			GateName:       GateKeepout,
			Status:         model.StatusFail,
			MeasuredValues: measured,
			ReasonCode:     model.ReasonInKeepOutZone,
		}, fixes
	}

	return model.GateResult{
		GateName:       GateKeepout,
		Status:         model.StatusPass,
		MeasuredValues: map[string]any{"keepout_zones_checked": len(env.KeepoutZones)},
	}, nil
}
