package dos

import (
	"fmt"
	"math"
)

// DebyeFrequency implements Service. The Debye model density a*f^2 is fitted
// by linear least squares through the origin (a = sum f^2 d / sum f^4) over
// the mesh points below the cutoff, and the Debye frequency follows from the
// normalisation of the model to 3*numAtoms modes:
//
//	integral 0..fD of a*f^2 df = 3*numAtoms  =>  fD = (9*numAtoms/a)^(1/3)
func (s *SmearingService) DebyeFrequency(td TotalDOS, numAtoms int, freqMaxFit float64) (float64, error) {
	if numAtoms <= 0 {
		return 0, fmt.Errorf("numAtoms must be positive, got %d", numAtoms)
	}
	if len(td.FrequencyPoints) != len(td.Densities) {
		return 0, fmt.Errorf("mesh/density length mismatch: %d vs %d", len(td.FrequencyPoints), len(td.Densities))
	}

	n := 0
	if freqMaxFit > 0 {
		for _, f := range td.FrequencyPoints {
			if f < freqMaxFit {
				n++
			}
		}
	} else {
		n = len(td.FrequencyPoints) / 4
	}
	if n < 2 {
		return 0, fmt.Errorf("too few mesh points below fit cutoff: %d", n)
	}

	var num, den float64
	for i := 0; i < n; i++ {
		f := td.FrequencyPoints[i]
		f2 := f * f
		num += f2 * td.Densities[i]
		den += f2 * f2
	}
	if den == 0 || num <= 0 {
		return 0, fmt.Errorf("degenerate Debye fit over %d points", n)
	}
	a := num / den

	return math.Cbrt(9 * float64(numAtoms) / a), nil
}
