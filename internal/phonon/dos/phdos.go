package dos

// PhononDos is the plain results container for a reconstructed phonon DOS:
// frequencies in THz and the matching density values.
type PhononDos struct {
	Frequencies []float64
	Densities   []float64
}

// NewPhononDos repackages a total DOS into the results container. The slices
// are copied so the container stays valid if the source is reused.
func NewPhononDos(td TotalDOS) *PhononDos {
	freqs := make([]float64, len(td.FrequencyPoints))
	copy(freqs, td.FrequencyPoints)
	dens := make([]float64, len(td.Densities))
	copy(dens, td.Densities)
	return &PhononDos{Frequencies: freqs, Densities: dens}
}
