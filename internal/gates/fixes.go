package gates

import "github.com/metalagman/axiom/internal/model"

// fixCandidate pairs a permission bit with a fix constructor. Each gate
// declares its candidates as an ordered list; the first-declared applicable
// fix appears first in the output, and that order is part of the contract.
type fixCandidate struct {
	allowed bool
	build   func() model.CounterfactualFix
}

func collectFixes(candidates []fixCandidate) []model.CounterfactualFix {
	var fixes []model.CounterfactualFix
	for _, c := range candidates {
		if c.allowed {
			fixes = append(fixes, c.build())
		}
	}
	return fixes
}

func floatPtr(v float64) *float64 { return &v }
