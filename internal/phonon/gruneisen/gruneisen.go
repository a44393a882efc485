package gruneisen

import (
	"fmt"
	"math"

	"github.com/lattice-data/thermal.report/internal/phonon"
	"github.com/lattice-data/thermal.report/internal/phonon/dos"
)

// Parameter holds per-q-point, per-mode frequencies and Grueneisen values on
// a regular grid, plus the grid multiplicities and optional crystal context.
// Instances are immutable after construction; every method is a pure
// function of the stored arrays.
type Parameter struct {
	// QPoints are fractional coordinates, one length-3 point per grid
	// sample. Order matches the columns of Frequencies and Gruneisen.
	QPoints [][]float64
	// Gruneisen has shape (modes, qpoints), dimensionless.
	Gruneisen [][]float64
	// Frequencies has the same shape, in THz. Negative entries mark
	// numerically unstable modes and are excluded from every average.
	Frequencies [][]float64
	// Multiplicities are the symmetry weights, one per q-point. Optional at
	// construction; required for any averaging operation.
	Multiplicities []float64
	// Structure is required for mass- and volume-dependent properties.
	Structure *phonon.Structure
	// Lattice is the reciprocal lattice, metadata only.
	Lattice *phonon.Lattice

	svc dos.Service
}

// ParameterOption configures optional Parameter fields at construction.
type ParameterOption func(*Parameter)

// WithMultiplicities attaches the grid multiplicities.
func WithMultiplicities(m []float64) ParameterOption {
	return func(p *Parameter) { p.Multiplicities = m }
}

// WithStructure attaches the crystal structure.
func WithStructure(s *phonon.Structure) ParameterOption {
	return func(p *Parameter) { p.Structure = s }
}

// WithLattice attaches the reciprocal lattice.
func WithLattice(l *phonon.Lattice) ParameterOption {
	return func(p *Parameter) { p.Lattice = l }
}

// WithDOSService injects a DOS-construction service, replacing the default
// smearing implementation. Intended for tests and alternative backends.
func WithDOSService(svc dos.Service) ParameterOption {
	return func(p *Parameter) { p.svc = svc }
}

// NewParameter validates the shape invariants and returns the analyzer.
// Gruneisen and frequencies must share the shape (modes, qpoints); the
// column count must match len(qpoints) and, when given, len(multiplicities).
func NewParameter(qpoints, gruneisenVals, frequencies [][]float64, opts ...ParameterOption) (*Parameter, error) {
	if len(gruneisenVals) != len(frequencies) {
		return nil, fmt.Errorf("gruneisen has %d mode rows, frequencies has %d", len(gruneisenVals), len(frequencies))
	}
	for m := range frequencies {
		if len(frequencies[m]) != len(qpoints) {
			return nil, fmt.Errorf("frequencies row %d has %d columns for %d q-points", m, len(frequencies[m]), len(qpoints))
		}
		if len(gruneisenVals[m]) != len(qpoints) {
			return nil, fmt.Errorf("gruneisen row %d has %d columns for %d q-points", m, len(gruneisenVals[m]), len(qpoints))
		}
	}

	p := &Parameter{
		QPoints:     qpoints,
		Gruneisen:   gruneisenVals,
		Frequencies: frequencies,
		svc:         dos.DefaultService(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Multiplicities != nil && len(p.Multiplicities) != len(qpoints) {
		return nil, fmt.Errorf("got %d multiplicities for %d q-points", len(p.Multiplicities), len(qpoints))
	}
	return p, nil
}

// Average returns the phonon-heat-capacity-weighted average of the
// Grueneisen parameter over the grid. Modes with negative frequency are
// excluded. With WithSquared(true) (the default) the average runs on the
// squared values and the result is square-rooted, which weights
// large-magnitude outliers more heavily than the plain average.
//
// When no temperature is given the acoustic Debye temperature is used, which
// in turn requires the structure to be set.
func (p *Parameter) Average(opts ...Option) (float64, error) {
	prm := defaultParams()
	for _, opt := range opts {
		opt(&prm)
	}
	return p.average(prm)
}

func (p *Parameter) average(prm averageParams) (float64, error) {
	if p.Multiplicities == nil {
		return 0, fmt.Errorf("%w: multiplicities are not defined", ErrMissingData)
	}

	t := prm.temperature
	if math.IsNaN(t) {
		adt, err := p.AcousticDebyeTemp()
		if err != nil {
			return 0, err
		}
		t = adt
	}

	var debyeFreq float64
	switch prm.limit {
	case LimitNone, LimitAcoustic:
	case LimitDebye:
		adt, err := p.AcousticDebyeTemp()
		if err != nil {
			return 0, err
		}
		debyeFreq = adt * boltzmannHzPerK / tera
	default:
		return 0, fmt.Errorf("%w: %q is not an accepted value for the frequency limit", ErrInvalidArgument, string(prm.limit))
	}

	var num, den float64
	selected := false
	for m, row := range p.Frequencies {
		if prm.limit == LimitAcoustic && m >= 3 {
			break
		}
		for q, w := range row {
			if w < 0 {
				continue
			}
			if prm.limit == LimitDebye && w > debyeFreq {
				continue
			}
			selected = true

			// Einstein-style mode heat capacity in eV. Entries at exactly
			// zero frequency contribute nothing, keeping shapes aligned
			// without filtering.
			var cv float64
			if w > 0 {
				x := w * tera / (boltzmannHzPerK * t)
				ex := math.Exp(x)
				cv = boltzmannEVPerK * x * x * ex / ((ex - 1) * (ex - 1))
			}

			gamma := p.Gruneisen[m][q]
			if prm.squared {
				gamma *= gamma
			}
			num += p.Multiplicities[q] * cv * gamma
			den += p.Multiplicities[q] * cv
		}
	}

	if !selected || den == 0 {
		return 0, fmt.Errorf("%w: no modes selected for averaging", ErrInvalidArgument)
	}

	g := num / den
	if prm.squared {
		g = math.Sqrt(g)
	}
	return g, nil
}

// SlackThermalConductivity estimates the lattice thermal conductivity in
// W/(m·K) with the Slack formula at the Debye temperature, using the
// heat-capacity-weighted average Grueneisen parameter. If a temperature is
// supplied the Debye-point value is rescaled by theta_d/T rather than
// re-evaluated.
func (p *Parameter) SlackThermalConductivity(opts ...Option) (float64, error) {
	prm := defaultParams()
	for _, opt := range opts {
		opt(&prm)
	}

	if p.Structure == nil {
		return 0, fmt.Errorf("%w: structure is not defined", ErrMissingData)
	}
	averageMass := p.Structure.MeanAtomicMassAMU() * amuToKg

	thetaD := prm.thetaD
	if math.IsNaN(thetaD) {
		adt, err := p.AcousticDebyeTemp()
		if err != nil {
			return 0, err
		}
		thetaD = adt
	}

	avg := prm
	avg.temperature = thetaD
	meanG, err := p.average(avg)
	if err != nil {
		return 0, err
	}

	f1 := 0.849 * 3 * math.Cbrt(4) / (20 * math.Pow(math.Pi, 3) * (1 - 0.514/meanG + 0.228/(meanG*meanG)))
	f2 := math.Pow(boltzmannJPerK*thetaD/hbarJs, 2)
	f3 := boltzmannJPerK * averageMass * math.Cbrt(p.Structure.Volume()) * 1e-10 / (hbarJs * meanG * meanG)
	cond := f1 * f2 * f3

	if !math.IsNaN(prm.temperature) {
		cond *= thetaD / prm.temperature
	}
	return cond, nil
}

// TDOS reconstructs the total DOS from the transposed frequency grid and the
// multiplicities. Recomputed on every call.
func (p *Parameter) TDOS() (dos.TotalDOS, error) {
	if p.Multiplicities == nil {
		return dos.TotalDOS{}, fmt.Errorf("%w: multiplicities are not defined", ErrMissingData)
	}
	return p.svc.TotalDOS(transpose(p.Frequencies), p.Multiplicities)
}

// PhDOS repackages the reconstructed total DOS into the results container.
func (p *Parameter) PhDOS() (*dos.PhononDos, error) {
	td, err := p.TDOS()
	if err != nil {
		return nil, err
	}
	return dos.NewPhononDos(td), nil
}

// DebyeTempLimit returns the spectral second-moment Debye temperature
// estimate in K: sqrt(5/3 * int(DOS f^2 df) / int(DOS df)) / k_B, with both
// integrals taken over the full DOS mesh (in Hz) through an interpolating
// cubic spline.
func (p *Parameter) DebyeTempLimit() (float64, error) {
	td, err := p.TDOS()
	if err != nil {
		return 0, err
	}

	fMesh := make([]float64, len(td.FrequencyPoints))
	weighted := make([]float64, len(td.FrequencyPoints))
	for i, f := range td.FrequencyPoints {
		fMesh[i] = f * tera
		weighted[i] = td.Densities[i] * fMesh[i] * fMesh[i]
	}

	iA, err := splineIntegral(fMesh, weighted)
	if err != nil {
		return 0, err
	}
	iB, err := splineIntegral(fMesh, td.Densities)
	if err != nil {
		return 0, err
	}

	return math.Sqrt(5.0/3.0*iA/iB) / boltzmannHzPerK, nil
}

// AcousticDebyeTemp returns the Debye temperature divided by the cube root
// of the atom count, in K.
func (p *Parameter) AcousticDebyeTemp() (float64, error) {
	if p.Structure == nil {
		return 0, fmt.Errorf("%w: structure is not defined", ErrMissingData)
	}
	dtl, err := p.DebyeTempLimit()
	if err != nil {
		return 0, err
	}
	return dtl / math.Cbrt(float64(p.Structure.NumSites())), nil
}

// DebyeTempFit returns the Debye temperature in K from the DOS service's
// Debye-frequency fit. freqMaxFit caps the mesh points used by the fit, in
// THz; zero or negative selects the service default (first quartile of the
// mesh). The THz-to-K conversion uses the non-reduced Planck constant,
// unlike the Slack formula which uses hbar.
func (p *Parameter) DebyeTempFit(freqMaxFit float64) (float64, error) {
	if p.Structure == nil {
		return 0, fmt.Errorf("%w: structure is not defined", ErrMissingData)
	}
	td, err := p.TDOS()
	if err != nil {
		return 0, err
	}
	fD, err := p.svc.DebyeFrequency(td, p.Structure.NumSites(), freqMaxFit)
	if err != nil {
		return 0, err
	}
	return planckJs * fD * tera / boltzmannJPerK, nil
}

// transpose flips a (modes, qpoints) grid into (qpoints, modes) for the DOS
// service.
func transpose(a [][]float64) [][]float64 {
	if len(a) == 0 {
		return nil
	}
	out := make([][]float64, len(a[0]))
	for q := range out {
		out[q] = make([]float64, len(a))
		for m := range a {
			out[q][m] = a[m][q]
		}
	}
	return out
}
