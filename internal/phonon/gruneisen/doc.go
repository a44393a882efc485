// Package gruneisen computes Grueneisen-parameter-derived thermal properties
// from phonon mode data sampled on a regular reciprocal-space grid:
// heat-capacity-weighted average Grueneisen parameter, Slack-formula lattice
// thermal conductivity, acoustic Debye temperature, and a reconstructed
// phonon DOS.
//
// Key types: Parameter (the grid analyzer), BandStructure and
// SymmLineBandStructure (annotated band-structure containers with exact
// round-trip document forms).
//
// DOS construction is injected through the dos.Service interface; the
// analyzer defaults to the reference smearing implementation.
package gruneisen
