package dos

import (
	"fmt"
	"math"
)

// TotalDOS is a sampled total density of states: a frequency mesh in THz and
// the density at each mesh point. Densities are normalised so the curve
// integrates to the number of modes per primitive cell.
type TotalDOS struct {
	FrequencyPoints []float64
	Densities       []float64
}

// Service constructs total DOS curves and fits Debye frequencies. The
// frequency input is oriented (qpoints, modes) with one weight per q-point.
type Service interface {
	// TotalDOS builds the weighted total DOS from per-q-point mode
	// frequencies (THz) and grid multiplicities.
	TotalDOS(frequencies [][]float64, weights []float64) (TotalDOS, error)

	// DebyeFrequency fits a Debye model a*f^2 to the low-frequency part of
	// td and returns the Debye frequency in THz. Mesh points below
	// freqMaxFit participate in the fit; freqMaxFit <= 0 selects the first
	// quartile of the mesh.
	DebyeFrequency(td TotalDOS, numAtoms int, freqMaxFit float64) (float64, error)
}

// SmearingService is the reference Service: Gaussian smearing of every mode
// onto a uniform mesh spanning the observed frequency range.
type SmearingService struct {
	// Sigma is the smearing width in THz. Zero selects 1/100 of the
	// observed frequency span.
	Sigma float64
	// NumPoints is the mesh size. Zero selects 201.
	NumPoints int
}

// DefaultService returns a SmearingService with default mesh and smearing.
func DefaultService() *SmearingService {
	return &SmearingService{}
}

// TotalDOS implements Service.
func (s *SmearingService) TotalDOS(frequencies [][]float64, weights []float64) (TotalDOS, error) {
	if len(frequencies) == 0 || len(frequencies[0]) == 0 {
		return TotalDOS{}, fmt.Errorf("no frequencies supplied")
	}
	if len(weights) != len(frequencies) {
		return TotalDOS{}, fmt.Errorf("got %d weights for %d q-points", len(weights), len(frequencies))
	}

	fMin, fMax := frequencies[0][0], frequencies[0][0]
	for _, row := range frequencies {
		for _, f := range row {
			fMin = math.Min(fMin, f)
			fMax = math.Max(fMax, f)
		}
	}

	sigma := s.Sigma
	if sigma <= 0 {
		sigma = (fMax - fMin) / 100
		if sigma <= 0 {
			sigma = 0.1
		}
	}
	numPoints := s.NumPoints
	if numPoints < 2 {
		numPoints = 201
	}

	mesh := make([]float64, numPoints)
	step := (fMax - fMin) / float64(numPoints-1)
	for i := range mesh {
		mesh[i] = fMin + float64(i)*step
	}
	mesh[numPoints-1] = fMax // guard against accumulated rounding

	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight <= 0 {
		return TotalDOS{}, fmt.Errorf("total q-point weight must be positive, got %v", totalWeight)
	}

	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	densities := make([]float64, numPoints)
	for i, f := range mesh {
		var d float64
		for q, row := range frequencies {
			for _, fm := range row {
				x := (f - fm) / sigma
				d += weights[q] * norm * math.Exp(-0.5*x*x)
			}
		}
		densities[i] = d / totalWeight
	}

	return TotalDOS{FrequencyPoints: mesh, Densities: densities}, nil
}
