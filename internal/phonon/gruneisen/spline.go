package gruneisen

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
)

// splineIntegral integrates an interpolating (zero-smoothing) natural cubic
// spline through (xs, ys) over [xs[0], xs[len-1]]. Each knot interval is
// integrated with a 2-point Gauss-Legendre rule, which is exact for cubics,
// so the result is the exact integral of the fitted spline.
func splineIntegral(xs, ys []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("spline integral needs at least 2 points, got %d", len(xs))
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("spline fit failed: %w", err)
	}

	var total float64
	for i := 0; i < len(xs)-1; i++ {
		total += quad.Fixed(spline.Predict, xs[i], xs[i+1], 2, quad.Legendre{}, 0)
	}
	return total, nil
}
