package gates

import (
	"testing"

	"github.com/metalagman/axiom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feasibleSpec() model.TaskSpec {
	return model.TaskSpec{
		TaskID:    "test-pipeline",
		Meta:      model.Meta{Template: "pick_and_place"},
		Substrate: model.Substrate{ID: "obj", MassKg: 1.0},
		Transformation: model.Transformation{
			TargetPose: model.Pose{XYZ: model.Vec3{0.5, 0.5, 0}},
			ToleranceM: 0.01,
		},
		Constructor: model.Constructor{
			ID:           "arm",
			MaxReachM:    2.0,
			MaxPayloadKg: 5.0,
		},
		Environment: model.Environment{SafetyBuffer: 0.02},
	}
}

func TestEvaluateAllGatesPass(t *testing.T) {
	t.Parallel()

	record := Evaluate(feasibleSpec())
	require.Equal(t, model.VerdictCan, record.Verdict)
	assert.Empty(t, record.FailedGate)
	assert.Empty(t, record.CounterfactualFixes)
	require.Len(t, record.Checks, 3)
	assert.Equal(t, GateReachability, record.Checks[0].GateName)
	assert.Equal(t, GatePayload, record.Checks[1].GateName)
	assert.Equal(t, GateKeepout, record.Checks[2].GateName)
	assert.Equal(t, "test-pipeline", record.TaskID)
	assert.Equal(t, model.Version, record.Version)
	assert.NotEmpty(t, record.CreatedAt)
}

func TestEvaluateShortCircuitsOnFirstFailure(t *testing.T) {
	t.Parallel()

	spec := feasibleSpec()
	spec.Transformation.TargetPose.XYZ = model.Vec3{3, 4, 0}
	spec.Substrate.MassKg = 100.0 // would also fail payload, but is never checked

	record := Evaluate(spec)
	require.Equal(t, model.VerdictHardCant, record.Verdict)
	assert.Equal(t, GateReachability, record.FailedGate)
	require.Len(t, record.Checks, 1)
	assert.Equal(t, model.ReasonOutOfReach, record.Checks[0].ReasonCode)
}

func TestEvaluatePayloadFailureAfterReachPass(t *testing.T) {
	t.Parallel()

	spec := feasibleSpec()
	spec.Substrate.MassKg = 12.0
	spec.AllowedAdjustments.CanSplitPayload = true

	record := Evaluate(spec)
	require.Equal(t, model.VerdictHardCant, record.Verdict)
	assert.Equal(t, GatePayload, record.FailedGate)
	require.Len(t, record.Checks, 2)
	assert.Equal(t, model.StatusPass, record.Checks[0].Status)
	assert.Equal(t, model.StatusFail, record.Checks[1].Status)
	require.Len(t, record.CounterfactualFixes, 1)
	assert.Equal(t, model.FixSplitPayload, record.CounterfactualFixes[0].Type)
}

func TestEvaluateKeepoutFailureRecordsAllChecks(t *testing.T) {
	t.Parallel()

	spec := feasibleSpec()
	spec.Environment.KeepoutZones = []model.KeepoutZone{{
		ID:     "bench",
		MinXYZ: model.Vec3{0, 0, -1},
		MaxXYZ: model.Vec3{1, 1, 1},
	}}

	record := Evaluate(spec)
	require.Equal(t, model.VerdictHardCant, record.Verdict)
	assert.Equal(t, GateKeepout, record.FailedGate)
	require.Len(t, record.Checks, 3)
}

func TestEvaluateDoesNotMutateSpec(t *testing.T) {
	t.Parallel()

	spec := feasibleSpec()
	spec.Transformation.TargetPose.XYZ = model.Vec3{3, 4, 0}
	spec.AllowedAdjustments.CanMoveTarget = true
	before := spec.Clone()

	Evaluate(spec)
	assert.Equal(t, before, spec)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	t.Parallel()

	spec := feasibleSpec()
	spec.Substrate.MassKg = 12.0
	spec.AllowedAdjustments.CanSplitPayload = true
	spec.AllowedAdjustments.CanChangeConstructor = true

	a := Evaluate(spec)
	b := Evaluate(spec)
	a.CreatedAt, b.CreatedAt = "", ""
	assert.Equal(t, a, b)
}
