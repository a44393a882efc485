package gruneisen

import "math"

// CODATA 2018 values, matching the constants used by the upstream phonon
// toolchain so derived quantities agree digit-for-digit.
const (
	tera = 1e12

	boltzmannHzPerK = 2.083661912e10  // k_B in Hz/K
	boltzmannEVPerK = 8.617333262e-5  // k_B in eV/K
	boltzmannJPerK  = 1.380649e-23    // k_B in J/K
	planckJs        = 6.62607015e-34  // h in J·s
	hbarJs          = planckJs / (2 * math.Pi)
	amuToKg         = 1.66053906660e-27
)
