// Package sweep explores a task's parameter space: it derives seeded
// deterministic variants of a base spec, runs each through the gate
// pipeline, and aggregates the outcomes into a feasibility summary.
package sweep

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/metalagman/axiom/internal/gates"
	"github.com/metalagman/axiom/internal/model"
	"github.com/metalagman/axiom/internal/spec"
)

// Range is a closed uniform sampling interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AxisRanges optionally varies each target coordinate.
type AxisRanges struct {
	X *Range `json:"x,omitempty"`
	Y *Range `json:"y,omitempty"`
	Z *Range `json:"z,omitempty"`
}

// Variation describes which task dimensions a sweep perturbs. Nil fields
// are left at the base spec's values and consume no random draws.
type Variation struct {
	MassKg    *Range      `json:"mass_kg,omitempty"`
	TargetXYZ *AxisRanges `json:"target_xyz,omitempty"`
}

// Request is a full sweep invocation.
type Request struct {
	Base      model.TaskSpec
	Variation Variation
	N         int
	Seed      int64
}

// ReasonCount pairs a gate reason code with its occurrence count.
type ReasonCount struct {
	ReasonCode string `json:"reason_code"`
	Count      int    `json:"count"`
}

// Summary aggregates verdicts across a sweep.
type Summary struct {
	Can          int            `json:"CAN"`
	HardCant     int            `json:"HARD_CANT"`
	ByFailedGate map[string]int `json:"by_failed_gate"`
	TopReasons   []ReasonCount  `json:"top_reasons"`
}

func uniform(rng *rand.Rand, r Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Generate derives req.N validated variants from the base spec. The rng
// must be owned exclusively by this call. Draws happen in a fixed order
// per variant: mass, then target x, y, z; an unconfigured dimension
// consumes no draw, so the sequence depends only on which dimensions are
// configured. Every variant is re-validated through the schema validator;
// an invalid variant aborts the sweep.
func Generate(req Request, rng *rand.Rand) ([]model.TaskSpec, error) {
	variants := make([]model.TaskSpec, 0, req.N)

	for i := 0; i < req.N; i++ {
		v := req.Base.Clone()
		v.TaskID = fmt.Sprintf("%s-sweep-%04d", req.Base.TaskID, i)

		if r := req.Variation.MassKg; r != nil {
			v.Substrate.MassKg = uniform(rng, *r)
		}
		if axes := req.Variation.TargetXYZ; axes != nil {
			xyz := v.Transformation.TargetPose.XYZ
			if axes.X != nil {
				xyz[0] = uniform(rng, *axes.X)
			}
			if axes.Y != nil {
				xyz[1] = uniform(rng, *axes.Y)
			}
			if axes.Z != nil {
				xyz[2] = uniform(rng, *axes.Z)
			}
			v.Transformation.TargetPose.XYZ = xyz
		}

		if err := spec.Revalidate(v); err != nil {
			return nil, fmt.Errorf("generated variant %s is invalid: %w", v.TaskID, err)
		}
		variants = append(variants, v)
	}

	return variants, nil
}

// Run evaluates every variant through the gate pipeline. Gates are pure
// and share no state, so evaluation is concurrent; the returned records
// are ordered by variant index.
func Run(variants []model.TaskSpec) []model.EvidenceRecord {
	records := make([]model.EvidenceRecord, len(variants))
	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(i int, v model.TaskSpec) {
			defer wg.Done()
			records[i] = gates.Evaluate(v)
		}(i, v)
	}
	wg.Wait()
	return records
}

// Summarize aggregates evidence records into a feasibility summary. Reason
// codes are sorted by descending count, ties by ascending code, so the
// summary is reproducible.
func Summarize(records []model.EvidenceRecord) Summary {
	s := Summary{
		ByFailedGate: map[string]int{},
		TopReasons:   []ReasonCount{},
	}
	reasons := map[string]int{}

	for _, rec := range records {
		if rec.Verdict == model.VerdictCan {
			s.Can++
		} else {
			s.HardCant++
		}
		if rec.FailedGate != "" {
			s.ByFailedGate[rec.FailedGate]++
		}
		for _, check := range rec.Checks {
			if check.Status == model.StatusFail && check.ReasonCode != "" {
				reasons[check.ReasonCode]++
			}
		}
	}

	for code, count := range reasons {
		s.TopReasons = append(s.TopReasons, ReasonCount{ReasonCode: code, Count: count})
	}
	sort.Slice(s.TopReasons, func(i, j int) bool {
		if s.TopReasons[i].Count != s.TopReasons[j].Count {
			return s.TopReasons[i].Count > s.TopReasons[j].Count
		}
		return s.TopReasons[i].ReasonCode < s.TopReasons[j].ReasonCode
	})

	return s
}

// Sweep generates variants from the request, evaluates them, and returns
// the variants, their evidence records, and the aggregate summary.
// Identical requests always produce identical results.
func Sweep(req Request) ([]model.TaskSpec, []model.EvidenceRecord, Summary, error) {
	rng := rand.New(rand.NewSource(req.Seed))
	variants, err := Generate(req, rng)
	if err != nil {
		return nil, nil, Summary{}, err
	}
	records := Run(variants)
	return variants, records, Summarize(records), nil
}
