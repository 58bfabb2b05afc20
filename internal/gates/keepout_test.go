package gates

import (
	"math"
	"testing"

	"github.com/metalagman/axiom/internal/model"
)

func keepoutSpec(target model.Vec3, zones []model.KeepoutZone, buffer float64, adj model.AllowedAdjustments) model.TaskSpec {
	return model.TaskSpec{
		TaskID:    "test-keepout",
		Meta:      model.Meta{Template: "pick_and_place"},
		Substrate: model.Substrate{ID: "obj", MassKg: 1.0},
		Transformation: model.Transformation{
			TargetPose: model.Pose{XYZ: target},
			ToleranceM: 0.01,
		},
		Constructor: model.Constructor{
			ID:           "arm",
			MaxReachM:    10.0,
			MaxPayloadKg: 10.0,
		},
		AllowedAdjustments: adj,
		Environment: model.Environment{
			KeepoutZones: zones,
			SafetyBuffer: buffer,
		},
	}
}

func unitZone(id string) model.KeepoutZone {
	return model.KeepoutZone{
		ID:     id,
		MinXYZ: model.Vec3{1, 1, 1},
		MaxXYZ: model.Vec3{3, 3, 3},
	}
}

func TestNoZonesPasses(t *testing.T) {
	t.Parallel()

	result, fixes := CheckKeepout(keepoutSpec(model.Vec3{2, 2, 2}, nil, 0.05, model.AllowedAdjustments{}))
	if result.Status != model.StatusPass {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusPass)
	}
	if checked := result.MeasuredValues["keepout_zones_checked"].(int); checked != 0 {
		t.Fatalf("keepout_zones_checked = %d, want 0", checked)
	}
	if len(fixes) != 0 {
		t.Fatalf("fixes = %d, want 0", len(fixes))
	}
}

func TestTargetOutsideZonePasses(t *testing.T) {
	t.Parallel()

	zones := []model.KeepoutZone{unitZone("z1")}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{5, 5, 5}, zones, 0.05, model.AllowedAdjustments{}))
	if result.Status != model.StatusPass {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusPass)
	}
	if checked := result.MeasuredValues["keepout_zones_checked"].(int); checked != 1 {
		t.Fatalf("keepout_zones_checked = %d, want 1", checked)
	}
}

func TestTargetInsideZoneFails(t *testing.T) {
	t.Parallel()

	zones := []model.KeepoutZone{unitZone("z1")}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{2.9, 2, 2}, zones, 0.05, model.AllowedAdjustments{}))
	if result.Status != model.StatusFail {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusFail)
	}
	if result.ReasonCode != model.ReasonInKeepOutZone {
		t.Fatalf("reason_code = %q, want %q", result.ReasonCode, model.ReasonInKeepOutZone)
	}
	if id := result.MeasuredValues["violating_zone_id"].(string); id != "z1" {
		t.Fatalf("violating_zone_id = %q, want z1", id)
	}
}

func TestOnExpandedBoundaryFails(t *testing.T) {
	t.Parallel()

	// With buffer 0.05 the expanded high x face sits at 3.05; containment
	// is closed, so a target exactly on the face still violates.
	zones := []model.KeepoutZone{unitZone("z1")}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{3.05, 2, 2}, zones, 0.05, model.AllowedAdjustments{}))
	if result.Status != model.StatusFail {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusFail)
	}
}

func TestJustPastExpandedBoundaryPasses(t *testing.T) {
	t.Parallel()

	zones := []model.KeepoutZone{unitZone("z1")}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{3.051, 2, 2}, zones, 0.05, model.AllowedAdjustments{}))
	if result.Status != model.StatusPass {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusPass)
	}
}

func TestEscapeUsesNearestFace(t *testing.T) {
	t.Parallel()

	// Target 2.9 along x sits 0.15 from the expanded high x face at 3.05,
	// the cheapest of the six exits.
	zones := []model.KeepoutZone{unitZone("z1")}
	result, fixes := CheckKeepout(keepoutSpec(model.Vec3{2.9, 2, 2}, zones, 0.05,
		model.AllowedAdjustments{CanMoveTarget: true}))

	if d := result.MeasuredValues["escape_delta_m"].(float64); math.Abs(d-0.15) > 1e-9 {
		t.Fatalf("escape_delta_m = %v, want 0.15", d)
	}

	if len(fixes) != 1 {
		t.Fatalf("fixes = %d, want 1", len(fixes))
	}
	fix := fixes[0]
	if fix.Type != model.FixMoveTarget {
		t.Fatalf("fix type = %q, want %q", fix.Type, model.FixMoveTarget)
	}
	escaped := fix.ProposedPatch["projected_target_xyz"].(model.Vec3)
	want := model.Vec3{3.05, 2, 2}
	for i := 0; i < 3; i++ {
		if math.Abs(escaped[i]-want[i]) > 1e-9 {
			t.Fatalf("projected_target_xyz = %v, want %v", escaped, want)
		}
	}
	if fix.Delta == nil || math.Abs(*fix.Delta-0.15) > 1e-9 {
		t.Fatalf("delta = %v, want 0.15", fix.Delta)
	}
}

func TestEscapeTieBreaksLowXFace(t *testing.T) {
	t.Parallel()

	// Dead center of the cube: all six faces are equidistant. The scan
	// order x, y, z with low before high keeps the low x face.
	zones := []model.KeepoutZone{unitZone("z1")}
	_, fixes := CheckKeepout(keepoutSpec(model.Vec3{2, 2, 2}, zones, 0.0,
		model.AllowedAdjustments{CanMoveTarget: true}))
	if len(fixes) != 1 {
		t.Fatalf("fixes = %d, want 1", len(fixes))
	}
	escaped := fixes[0].ProposedPatch["projected_target_xyz"].(model.Vec3)
	want := model.Vec3{1, 2, 2}
	if escaped != want {
		t.Fatalf("projected_target_xyz = %v, want %v", escaped, want)
	}
}

func TestFirstViolatingZoneShortCircuits(t *testing.T) {
	t.Parallel()

	overlapping := model.KeepoutZone{
		ID:     "z2",
		MinXYZ: model.Vec3{1.5, 1.5, 1.5},
		MaxXYZ: model.Vec3{2.5, 2.5, 2.5},
	}
	zones := []model.KeepoutZone{unitZone("z1"), overlapping}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{2, 2, 2}, zones, 0.0, model.AllowedAdjustments{}))
	if result.Status != model.StatusFail {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusFail)
	}
	if id := result.MeasuredValues["violating_zone_id"].(string); id != "z1" {
		t.Fatalf("violating_zone_id = %q, want first zone z1", id)
	}
}

func TestNonViolatingZoneIsSkipped(t *testing.T) {
	t.Parallel()

	far := model.KeepoutZone{
		ID:     "far",
		MinXYZ: model.Vec3{10, 10, 10},
		MaxXYZ: model.Vec3{11, 11, 11},
	}
	zones := []model.KeepoutZone{far, unitZone("z1")}
	result, _ := CheckKeepout(keepoutSpec(model.Vec3{2, 2, 2}, zones, 0.0, model.AllowedAdjustments{}))
	if id := result.MeasuredValues["violating_zone_id"].(string); id != "z1" {
		t.Fatalf("violating_zone_id = %q, want z1", id)
	}
}

func TestNoFixWhenTargetMoveDisallowed(t *testing.T) {
	t.Parallel()

	zones := []model.KeepoutZone{unitZone("z1")}
	_, fixes := CheckKeepout(keepoutSpec(model.Vec3{2, 2, 2}, zones, 0.0, model.AllowedAdjustments{}))
	if len(fixes) != 0 {
		t.Fatalf("fixes = %d, want 0", len(fixes))
	}
}
