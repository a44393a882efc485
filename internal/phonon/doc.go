// Package phonon holds the shared crystal-context types consumed by the
// analysis packages: a 3x3 lattice, atomic sites with masses, and their
// exact-round-trip document forms.
//
// These are deliberately narrow contract types. Anything a full
// crystallography library would add (symmetry, species parsing, coordinate
// algebra beyond fractional/Cartesian conversion) is out of scope here.
package phonon
