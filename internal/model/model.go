// Package model defines the task specification and the evidence contracts
// produced by the gate pipeline. The JSON shape of these types is the wire
// contract consumed by the CLI, the HTTP API, and run storage; field names
// must stay stable.
package model

// Version is stamped into every evidence record.
const Version = "0.1.0"

// Verdict is the overall feasibility outcome of a pipeline run.
type Verdict string

const (
	// VerdictCan means every executed gate passed.
	VerdictCan Verdict = "CAN"
	// VerdictHardCant means a gate failed and the task is infeasible as specified.
	VerdictHardCant Verdict = "HARD_CANT"
)

// GateStatus is the outcome of a single gate.
type GateStatus string

const (
	StatusPass GateStatus = "PASS"
	StatusFail GateStatus = "FAIL"
)

// FixType identifies the kind of counterfactual adjustment a gate proposes.
type FixType string

const (
	FixMoveTarget        FixType = "MOVE_TARGET"
	FixMoveBase          FixType = "MOVE_BASE"
	FixChangeConstructor FixType = "CHANGE_CONSTRUCTOR"
	FixSplitPayload      FixType = "SPLIT_PAYLOAD"
)

// Reason codes attached to failing gate results.
const (
	ReasonOutOfReach    = "OUT_OF_REACH"
	ReasonOverPayload   = "OVER_PAYLOAD"
	ReasonInKeepOutZone = "IN_KEEP_OUT_ZONE"
)

// Vec3 is a cartesian position in metres. It marshals as a 3-element array.
type Vec3 [3]float64

// Pose wraps a coordinate to preserve the {"xyz": [...]} wire shape.
type Pose struct {
	XYZ Vec3 `json:"xyz"`
}

// Substrate is the object being picked and placed.
type Substrate struct {
	ID          string  `json:"id"`
	MassKg      float64 `json:"mass_kg"`
	InitialPose Pose    `json:"initial_pose"`
}

// Transformation is the requested placement of the substrate.
type Transformation struct {
	TargetPose Pose    `json:"target_pose"`
	ToleranceM float64 `json:"tolerance_m"`
}

// Constructor is the robot performing the task.
type Constructor struct {
	ID           string  `json:"id"`
	BasePose     Pose    `json:"base_pose"`
	MaxReachM    float64 `json:"max_reach_m"`
	MaxPayloadKg float64 `json:"max_payload_kg"`
}

// AllowedAdjustments lists which counterfactual fixes the caller permits.
// All default to false.
type AllowedAdjustments struct {
	CanMoveTarget        bool `json:"can_move_target"`
	CanMoveBase          bool `json:"can_move_base"`
	CanChangeConstructor bool `json:"can_change_constructor"`
	CanSplitPayload      bool `json:"can_split_payload"`
}

// KeepoutZone is an axis-aligned forbidden volume.
type KeepoutZone struct {
	ID     string `json:"id"`
	MinXYZ Vec3   `json:"min_xyz"`
	MaxXYZ Vec3   `json:"max_xyz"`
}

// Environment holds the workspace constraints around the task.
type Environment struct {
	SafetyBuffer float64       `json:"safety_buffer"`
	KeepoutZones []KeepoutZone `json:"keepout_zones"`
}

// Meta carries descriptive information about a task spec.
type Meta struct {
	Template string `json:"template"`
}

// TaskSpec is the validated, immutable description of a pick-and-place task.
// Instances reach this package only after schema validation; the core
// computes over fields without re-checking their invariants.
type TaskSpec struct {
	TaskID             string             `json:"task_id"`
	Meta               Meta               `json:"meta"`
	Substrate          Substrate          `json:"substrate"`
	Transformation     Transformation     `json:"transformation"`
	Constructor        Constructor        `json:"constructor"`
	AllowedAdjustments AllowedAdjustments `json:"allowed_adjustments"`
	Environment        Environment        `json:"environment"`
}

// Clone returns a deep copy of the spec. The keepout zone list is the only
// reference-typed field.
func (s TaskSpec) Clone() TaskSpec {
	out := s
	if len(s.Environment.KeepoutZones) > 0 {
		out.Environment.KeepoutZones = make([]KeepoutZone, len(s.Environment.KeepoutZones))
		copy(out.Environment.KeepoutZones, s.Environment.KeepoutZones)
	}
	return out
}

// GateResult is the structured outcome of one gate evaluation. Measured
// values carry full-precision numbers; rounding is a presentation concern.
type GateResult struct {
	GateName       string         `json:"gate_name"`
	Status         GateStatus     `json:"status"`
	MeasuredValues map[string]any `json:"measured_values"`
	ReasonCode     string         `json:"reason_code,omitempty"`
}

// CounterfactualFix is a minimal proposed edit that would make a failing
// gate pass.
type CounterfactualFix struct {
	Type          FixType        `json:"type"`
	Delta         *float64       `json:"delta,omitempty"`
	Instruction   string         `json:"instruction"`
	ProposedPatch map[string]any `json:"proposed_patch,omitempty"`
}

// EvidenceRecord is the full, ordered, auditable output of a pipeline run.
// Checks contains one entry per executed gate; counterfactual fixes belong
// to the failing gate only.
type EvidenceRecord struct {
	TaskID              string              `json:"task_id"`
	Verdict             Verdict             `json:"verdict"`
	FailedGate          string              `json:"failed_gate,omitempty"`
	Checks              []GateResult        `json:"checks"`
	CounterfactualFixes []CounterfactualFix `json:"counterfactual_fixes"`
	CreatedAt           string              `json:"created_at"`
	Version             string              `json:"version"`
}
