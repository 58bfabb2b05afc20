package gates

import (
	"math"
	"testing"

	"github.com/metalagman/axiom/internal/model"
)

func reachSpec(base, target model.Vec3, maxReach float64, adj model.AllowedAdjustments) model.TaskSpec {
	return model.TaskSpec{
		TaskID:    "test-reach",
		Meta:      model.Meta{Template: "pick_and_place"},
		Substrate: model.Substrate{ID: "obj", MassKg: 1.0, InitialPose: model.Pose{}},
		Transformation: model.Transformation{
			TargetPose: model.Pose{XYZ: target},
			ToleranceM: 0.01,
		},
		Constructor: model.Constructor{
			ID:           "arm",
			BasePose:     model.Pose{XYZ: base},
			MaxReachM:    maxReach,
			MaxPayloadKg: 10.0,
		},
		AllowedAdjustments: adj,
	}
}

func TestReachablePasses(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{0.5, 0.5, 0}, 1.0, model.AllowedAdjustments{})
	result, fixes := CheckReachability(spec)
	if result.Status != model.StatusPass {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusPass)
	}
	if len(fixes) != 0 {
		t.Fatalf("fixes = %d, want 0", len(fixes))
	}
}

func TestExactlyAtBoundaryPasses(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{1.0, 0, 0}, 1.0, model.AllowedAdjustments{})
	result, _ := CheckReachability(spec)
	if result.Status != model.StatusPass {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusPass)
	}
}

func TestUnreachableFails(t *testing.T) {
	t.Parallel()

	// Classic 3-4-5 triangle: distance 5.0, reach 1.0, overshoot 4.0.
	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{3, 4, 0}, 1.0, model.AllowedAdjustments{})
	result, fixes := CheckReachability(spec)
	if result.Status != model.StatusFail {
		t.Fatalf("status = %q, want %q", result.Status, model.StatusFail)
	}
	if result.ReasonCode != model.ReasonOutOfReach {
		t.Fatalf("reason_code = %q, want %q", result.ReasonCode, model.ReasonOutOfReach)
	}
	if d := result.MeasuredValues["distance_m"].(float64); math.Abs(d-5.0) > 1e-9 {
		t.Fatalf("distance_m = %v, want 5.0", d)
	}
	if len(fixes) != 0 {
		t.Fatalf("fixes = %d, want 0 when no adjustments allowed", len(fixes))
	}
}

func TestMoveTargetFixLandsOnReachSphere(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{3, 4, 0}, 1.0,
		model.AllowedAdjustments{CanMoveTarget: true})
	_, fixes := CheckReachability(spec)
	if len(fixes) != 1 {
		t.Fatalf("fixes = %d, want 1", len(fixes))
	}
	fix := fixes[0]
	if fix.Type != model.FixMoveTarget {
		t.Fatalf("fix type = %q, want %q", fix.Type, model.FixMoveTarget)
	}
	if fix.Delta == nil || math.Abs(*fix.Delta-4.0) > 1e-9 {
		t.Fatalf("delta = %v, want 4.0", fix.Delta)
	}

	projected := fix.ProposedPatch["projected_target_xyz"].(model.Vec3)
	d := distance(spec.Constructor.BasePose.XYZ, projected)
	if math.Abs(d-1.0) > 1e-9 {
		t.Fatalf("distance to projected target = %v, want max reach 1.0", d)
	}
}

func TestMoveBaseFixClosesOvershoot(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{3, 4, 0}, 1.0,
		model.AllowedAdjustments{CanMoveBase: true})
	_, fixes := CheckReachability(spec)
	if len(fixes) != 1 {
		t.Fatalf("fixes = %d, want 1", len(fixes))
	}
	fix := fixes[0]
	if fix.Type != model.FixMoveBase {
		t.Fatalf("fix type = %q, want %q", fix.Type, model.FixMoveBase)
	}

	newBase := fix.ProposedPatch["suggested_base_xyz"].(model.Vec3)
	d := distance(newBase, spec.Transformation.TargetPose.XYZ)
	if math.Abs(d-1.0) > 1e-9 {
		t.Fatalf("distance from moved base = %v, want max reach 1.0", d)
	}
}

func TestFixOrderTargetBaseConstructor(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{3, 4, 0}, 1.0, model.AllowedAdjustments{
		CanMoveTarget:        true,
		CanMoveBase:          true,
		CanChangeConstructor: true,
	})
	_, fixes := CheckReachability(spec)
	want := []model.FixType{model.FixMoveTarget, model.FixMoveBase, model.FixChangeConstructor}
	if len(fixes) != len(want) {
		t.Fatalf("fixes = %d, want %d", len(fixes), len(want))
	}
	for i, fixType := range want {
		if fixes[i].Type != fixType {
			t.Fatalf("fixes[%d].Type = %q, want %q", i, fixes[i].Type, fixType)
		}
	}
	if fixes[2].ProposedPatch != nil {
		t.Fatalf("constructor-change fix should carry no patch")
	}
}

func TestDisallowedFixesAreSkippedInOrder(t *testing.T) {
	t.Parallel()

	spec := reachSpec(model.Vec3{0, 0, 0}, model.Vec3{3, 4, 0}, 1.0, model.AllowedAdjustments{
		CanMoveBase: true,
	})
	_, fixes := CheckReachability(spec)
	if len(fixes) != 1 || fixes[0].Type != model.FixMoveBase {
		t.Fatalf("fixes = %+v, want only MOVE_BASE", fixes)
	}
}
