package gruneisen

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-data/thermal.report/internal/phonon"
	"github.com/lattice-data/thermal.report/internal/phonon/dos"
)

// fakeDOSService returns a canned DOS and Debye frequency so the analyzer
// tests do not depend on the smearing implementation's numerics.
type fakeDOSService struct {
	td     dos.TotalDOS
	fDebye float64
	calls  int
}

func (f *fakeDOSService) TotalDOS(frequencies [][]float64, weights []float64) (dos.TotalDOS, error) {
	f.calls++
	return f.td, nil
}

func (f *fakeDOSService) DebyeFrequency(td dos.TotalDOS, numAtoms int, freqMaxFit float64) (float64, error) {
	return f.fDebye, nil
}

// debyeDOSService builds a pure Debye spectrum a*f^2 on [0, fDebye] THz, for
// which the spectral second-moment estimator returns exactly fDebye (in Hz)
// divided by k_B.
func debyeDOSService(fDebye float64, points int) *fakeDOSService {
	mesh := make([]float64, points)
	dens := make([]float64, points)
	step := fDebye / float64(points-1)
	for i := range mesh {
		mesh[i] = float64(i) * step
		dens[i] = 0.35 * mesh[i] * mesh[i] // prefactor cancels in the moment ratio
	}
	return &fakeDOSService{td: dos.TotalDOS{FrequencyPoints: mesh, Densities: dens}, fDebye: fDebye}
}

func cubicStructure(a float64, masses ...float64) *phonon.Structure {
	lattice := phonon.Lattice{Matrix: [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}}
	sites := make([]phonon.Site, len(masses))
	for i, m := range masses {
		sites[i] = phonon.Site{Species: "X", MassAMU: m}
	}
	return phonon.NewStructure(lattice, sites)
}

func qgrid(n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		pts[i] = []float64{float64(i) / float64(n), 0, 0}
	}
	return pts
}

func TestNewParameterShapeValidation(t *testing.T) {
	t.Parallel()

	qpts := qgrid(2)

	_, err := NewParameter(qpts, [][]float64{{1, 2}}, [][]float64{{1, 2}, {3, 4}})
	assert.Error(t, err, "mode row count mismatch")

	_, err = NewParameter(qpts, [][]float64{{1, 2}, {3, 4}}, [][]float64{{1, 2}, {3, 4, 5}})
	assert.Error(t, err, "column count mismatch")

	_, err = NewParameter(qpts, [][]float64{{1, 2}, {3, 4}}, [][]float64{{1, 2}, {3, 4}},
		WithMultiplicities([]float64{1, 2, 3}))
	assert.Error(t, err, "multiplicity length mismatch")

	_, err = NewParameter(qpts, [][]float64{{1, 2}, {3, 4}}, [][]float64{{1, 2}, {3, 4}},
		WithMultiplicities([]float64{1, 3}))
	assert.NoError(t, err)
}

func TestAverageMatchesHandComputed(t *testing.T) {
	t.Parallel()

	freqs := [][]float64{{2, 4}, {3, 6}}
	gammas := [][]float64{{1.5, 2.0}, {0.5, 1.0}}
	weights := []float64{1, 3}
	const temp = 300.0

	p, err := NewParameter(qgrid(2), gammas, freqs, WithMultiplicities(weights))
	require.NoError(t, err)

	got, err := p.Average(WithTemperature(temp), WithSquared(false))
	require.NoError(t, err)

	// Independent accumulation, per q-point first.
	cv := func(w float64) float64 {
		x := w * tera / (boltzmannHzPerK * temp)
		ex := math.Exp(x)
		return boltzmannEVPerK * x * x * ex / ((ex - 1) * (ex - 1))
	}
	var num, den float64
	for q := 0; q < 2; q++ {
		var numQ, denQ float64
		for m := 0; m < 2; m++ {
			numQ += cv(freqs[m][q]) * gammas[m][q]
			denQ += cv(freqs[m][q])
		}
		num += weights[q] * numQ
		den += weights[q] * denQ
	}
	assert.InEpsilon(t, num/den, got, 1e-12)
}

func TestAverageSquaredIsRootOfSquaredAverage(t *testing.T) {
	t.Parallel()

	freqs := [][]float64{{2, 4}, {3, 6}}
	gammas := [][]float64{{1.5, -2.0}, {0.5, 1.0}}
	weights := []float64{1, 3}

	p, err := NewParameter(qgrid(2), gammas, freqs, WithMultiplicities(weights))
	require.NoError(t, err)

	squared, err := p.Average(WithTemperature(300)) // squared is the default
	require.NoError(t, err)

	// The same average computed on pre-squared values, without the final
	// root, must agree after taking sqrt ourselves.
	preSquared := [][]float64{
		{gammas[0][0] * gammas[0][0], gammas[0][1] * gammas[0][1]},
		{gammas[1][0] * gammas[1][0], gammas[1][1] * gammas[1][1]},
	}
	p2, err := NewParameter(qgrid(2), preSquared, freqs, WithMultiplicities(weights))
	require.NoError(t, err)
	plain, err := p2.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)

	assert.InEpsilon(t, math.Sqrt(plain), squared, 1e-12)

	// And it is NOT the plain average of the unsquared values.
	unsquared, err := p.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)
	assert.NotEqual(t, unsquared, squared)
}

func TestAverageNegativeFrequenciesExcluded(t *testing.T) {
	t.Parallel()

	// Mode 1 has a negative (unstable) frequency at q-point 0; it must not
	// contribute even though its Grueneisen value is extreme.
	freqs := [][]float64{{2, 4}, {-3, 6}}
	gammas := [][]float64{{1.0, 1.0}, {1e6, 1.0}}
	p, err := NewParameter(qgrid(2), gammas, freqs, WithMultiplicities([]float64{1, 1}))
	require.NoError(t, err)

	got, err := p.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func sixModeGrid(t *testing.T, svc dos.Service) *Parameter {
	t.Helper()

	// Monotone spectrum: acoustic modes low, optical modes high, with
	// Grueneisen magnitude growing with frequency.
	freqs := [][]float64{
		{1.0, 1.1}, {2.0, 2.1}, {3.0, 3.1},
		{6.0, 6.1}, {7.4, 7.5}, {12.0, 12.1},
	}
	gammas := [][]float64{
		{1.0, 1.0}, {1.2, 1.2}, {1.4, 1.4},
		{2.0, 2.0}, {2.5, 2.5}, {5.0, 5.0},
	}
	opts := []ParameterOption{
		WithMultiplicities([]float64{1, 3}),
		WithStructure(cubicStructure(5.0, 28.0855, 28.0855)),
	}
	if svc != nil {
		opts = append(opts, WithDOSService(svc))
	}
	p, err := NewParameter(qgrid(2), gammas, freqs, opts...)
	require.NoError(t, err)
	return p
}

func TestAcousticLimitRestrictsToFirstThreeModes(t *testing.T) {
	t.Parallel()

	p := sixModeGrid(t, nil)
	acoustic, err := p.Average(WithTemperature(300), WithSquared(false), WithFrequencyLimit(LimitAcoustic))
	require.NoError(t, err)

	// The same three acoustic rows as their own grid give the same result;
	// the optical rows cannot influence it no matter how extreme.
	p3, err := NewParameter(qgrid(2),
		[][]float64{{1.0, 1.0}, {1.2, 1.2}, {1.4, 1.4}},
		[][]float64{{1.0, 1.1}, {2.0, 2.1}, {3.0, 3.1}},
		WithMultiplicities([]float64{1, 3}))
	require.NoError(t, err)
	want, err := p3.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)
	assert.InEpsilon(t, want, acoustic, 1e-12)

	all, err := p.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)
	assert.Greater(t, all, acoustic, "optical modes must move the unrestricted average")
}

func TestDebyeLimitLiesBetweenAcousticAndUnrestricted(t *testing.T) {
	t.Parallel()

	// Fake Debye spectrum with f_D = 10 THz: acoustic Debye temperature
	// ~ 480/2^(1/3) K, i.e. a cutoff near 7.9 THz. That keeps modes 0-4 and
	// drops the 12 THz optical branch.
	svc := debyeDOSService(10.0, 101)
	p := sixModeGrid(t, svc)

	acoustic, err := p.Average(WithTemperature(300), WithSquared(false), WithFrequencyLimit(LimitAcoustic))
	require.NoError(t, err)
	debye, err := p.Average(WithTemperature(300), WithSquared(false), WithFrequencyLimit(LimitDebye))
	require.NoError(t, err)
	all, err := p.Average(WithTemperature(300), WithSquared(false))
	require.NoError(t, err)

	assert.Greater(t, debye, acoustic)
	assert.Less(t, debye, all)
}

func TestAverageInvalidLimitNamesValue(t *testing.T) {
	t.Parallel()

	p := sixModeGrid(t, nil)
	_, err := p.Average(WithTemperature(300), WithFrequencyLimit("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, strings.Contains(err.Error(), "bogus"), "error must name the rejected value: %v", err)
}

func TestAverageMissingMultiplicities(t *testing.T) {
	t.Parallel()

	p, err := NewParameter(qgrid(2), [][]float64{{1, 1}}, [][]float64{{2, 3}})
	require.NoError(t, err)
	_, err = p.Average(WithTemperature(300))
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestAverageDefaultTemperatureRequiresStructure(t *testing.T) {
	t.Parallel()

	// No explicit temperature: the default is the acoustic Debye
	// temperature, which needs the structure. The missing-data error must
	// surface through the default path.
	p, err := NewParameter(qgrid(2), [][]float64{{1, 1}}, [][]float64{{2, 3}},
		WithMultiplicities([]float64{1, 1}))
	require.NoError(t, err)
	_, err = p.Average()
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestAverageDefaultsToAcousticDebyeTemperature(t *testing.T) {
	t.Parallel()

	p := sixModeGrid(t, debyeDOSService(10.0, 101))
	adt, err := p.AcousticDebyeTemp()
	require.NoError(t, err)

	def, err := p.Average()
	require.NoError(t, err)
	explicit, err := p.Average(WithTemperature(adt))
	require.NoError(t, err)
	assert.Equal(t, explicit, def)
}

func TestAverageEmptySelectionFails(t *testing.T) {
	t.Parallel()

	p, err := NewParameter(qgrid(2), [][]float64{{1, 1}}, [][]float64{{-2, -3}},
		WithMultiplicities([]float64{1, 1}))
	require.NoError(t, err)
	_, err = p.Average(WithTemperature(300))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSlackMissingStructure(t *testing.T) {
	t.Parallel()

	p, err := NewParameter(qgrid(2), [][]float64{{1, 1}}, [][]float64{{2, 3}},
		WithMultiplicities([]float64{1, 1}))
	require.NoError(t, err)
	_, err = p.SlackThermalConductivity()
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestSlackMatchesHandComputed(t *testing.T) {
	t.Parallel()

	p := sixModeGrid(t, nil)
	const thetaD = 400.0

	cond, err := p.SlackThermalConductivity(WithDebyeTemperature(thetaD), WithSquared(false))
	require.NoError(t, err)

	meanG, err := p.Average(WithTemperature(thetaD), WithSquared(false))
	require.NoError(t, err)

	averageMass := 28.0855 * amuToKg
	volume := 125.0 // (5 angstrom)^3
	f1 := 0.849 * 3 * math.Cbrt(4) / (20 * math.Pow(math.Pi, 3) * (1 - 0.514/meanG + 0.228/(meanG*meanG)))
	f2 := math.Pow(boltzmannJPerK*thetaD/hbarJs, 2)
	f3 := boltzmannJPerK * averageMass * math.Cbrt(volume) * 1e-10 / (hbarJs * meanG * meanG)
	assert.InEpsilon(t, f1*f2*f3, cond, 1e-12)
}

func TestSlackTemperatureRescaling(t *testing.T) {
	t.Parallel()

	p := sixModeGrid(t, nil)
	const thetaD = 400.0

	atTheta, err := p.SlackThermalConductivity(WithDebyeTemperature(thetaD), WithTemperature(thetaD))
	require.NoError(t, err)
	atDouble, err := p.SlackThermalConductivity(WithDebyeTemperature(thetaD), WithTemperature(2*thetaD))
	require.NoError(t, err)

	assert.Equal(t, atTheta/2, atDouble, "rescaling is a direct division")
}

func TestDebyeTempLimitOnPureDebyeSpectrum(t *testing.T) {
	t.Parallel()

	// For DOS = a*f^2 on [0, f_D] the estimator returns exactly
	// f_D (Hz) / k_B[Hz/K].
	const fDebye = 10.0
	p := sixModeGrid(t, debyeDOSService(fDebye, 201))

	got, err := p.DebyeTempLimit()
	require.NoError(t, err)
	want := fDebye * tera / boltzmannHzPerK
	assert.InEpsilon(t, want, got, 1e-3)

	adt, err := p.AcousticDebyeTemp()
	require.NoError(t, err)
	assert.InEpsilon(t, got/math.Cbrt(2), adt, 1e-12)
}

func TestDebyeTempFitUsesPlanckNotHbar(t *testing.T) {
	t.Parallel()

	svc := debyeDOSService(10.0, 101)
	svc.fDebye = 8.5
	p := sixModeGrid(t, svc)

	got, err := p.DebyeTempFit(0)
	require.NoError(t, err)
	assert.InEpsilon(t, planckJs*8.5*tera/boltzmannJPerK, got, 1e-12)
}

func TestTDOSRequiresMultiplicitiesAndIsNotMemoized(t *testing.T) {
	t.Parallel()

	p, err := NewParameter(qgrid(2), [][]float64{{1, 1}}, [][]float64{{2, 3}})
	require.NoError(t, err)
	_, err = p.TDOS()
	assert.ErrorIs(t, err, ErrMissingData)

	svc := debyeDOSService(10.0, 11)
	p = sixModeGrid(t, svc)
	_, err = p.TDOS()
	require.NoError(t, err)
	_, err = p.TDOS()
	require.NoError(t, err)
	assert.Equal(t, 2, svc.calls)
}

func TestPhDOSRepackagesTotalDOS(t *testing.T) {
	t.Parallel()

	svc := debyeDOSService(10.0, 11)
	p := sixModeGrid(t, svc)

	phdos, err := p.PhDOS()
	require.NoError(t, err)
	assert.Equal(t, svc.td.FrequencyPoints, phdos.Frequencies)
	assert.Equal(t, svc.td.Densities, phdos.Densities)
}
