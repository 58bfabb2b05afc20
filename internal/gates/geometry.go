package gates

import (
	"math"

	"github.com/metalagman/axiom/internal/model"
)

// distance returns the Euclidean distance between two points.
func distance(a, b model.Vec3) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// projectOntoSphere returns the point on the sphere of the given radius
// centred at center, along the center->target ray. A zero-length ray is
// returned unchanged; the caller gets the original target back.
func projectOntoSphere(center, target model.Vec3, radius float64) model.Vec3 {
	d := distance(center, target)
	if d == 0 {
		return target
	}
	scale := radius / d
	var out model.Vec3
	for i := range out {
		out[i] = center[i] + (target[i]-center[i])*scale
	}
	return out
}

// pointToward moves source the given number of metres toward destination.
// A zero-length ray is returned unchanged.
func pointToward(source, destination model.Vec3, step float64) model.Vec3 {
	d := distance(source, destination)
	if d == 0 {
		return source
	}
	scale := step / d
	var out model.Vec3
	for i := range out {
		out[i] = source[i] + (destination[i]-source[i])*scale
	}
	return out
}
