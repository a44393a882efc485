// Package dos builds total phonon densities of states from mode frequencies
// sampled on a reciprocal-space grid.
//
// The package exposes the construction as a Service interface so the
// analysis engine carries no hard dependency on a particular implementation;
// SmearingService is the reference Gaussian-smearing implementation.
package dos
