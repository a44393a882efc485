package phonon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lattice is a 3x3 matrix of row vectors in angstrom (or 1/angstrom for a
// reciprocal lattice). A point with fractional coordinates f has Cartesian
// coordinates f · Matrix.
type Lattice struct {
	Matrix [3][3]float64
}

// NewLattice returns a lattice with the given row-vector matrix.
func NewLattice(matrix [3][3]float64) *Lattice {
	return &Lattice{Matrix: matrix}
}

// Volume returns the (unsigned) cell volume, i.e. |det(Matrix)|.
func (l *Lattice) Volume() float64 {
	return math.Abs(mat.Det(l.dense()))
}

// FractionalCoords converts a Cartesian point to fractional coordinates by
// solving f · Matrix = cart.
func (l *Lattice) FractionalCoords(cart []float64) ([]float64, error) {
	if len(cart) != 3 {
		return nil, fmt.Errorf("cartesian point must have 3 coordinates, got %d", len(cart))
	}
	var inv mat.Dense
	if err := inv.Inverse(l.dense()); err != nil {
		return nil, fmt.Errorf("lattice matrix is singular: %w", err)
	}
	frac := make([]float64, 3)
	for j := 0; j < 3; j++ {
		var sum float64
		for k := 0; k < 3; k++ {
			sum += cart[k] * inv.At(k, j)
		}
		frac[j] = sum
	}
	return frac, nil
}

func (l *Lattice) dense() *mat.Dense {
	flat := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		flat = append(flat, l.Matrix[i][0], l.Matrix[i][1], l.Matrix[i][2])
	}
	return mat.NewDense(3, 3, flat)
}

// LatticeDoc is the persisted form of a Lattice: plain nested number arrays
// so the payload survives text encoding exactly.
type LatticeDoc struct {
	Matrix [][]float64 `json:"matrix"`
}

// Doc returns the document form of the lattice.
func (l *Lattice) Doc() LatticeDoc {
	rows := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		rows[i] = []float64{l.Matrix[i][0], l.Matrix[i][1], l.Matrix[i][2]}
	}
	return LatticeDoc{Matrix: rows}
}

// LatticeFromDoc reconstructs a Lattice from its document form.
func LatticeFromDoc(d LatticeDoc) (*Lattice, error) {
	if len(d.Matrix) != 3 {
		return nil, fmt.Errorf("lattice matrix must have 3 rows, got %d", len(d.Matrix))
	}
	var m [3][3]float64
	for i, row := range d.Matrix {
		if len(row) != 3 {
			return nil, fmt.Errorf("lattice matrix row %d must have 3 entries, got %d", i, len(row))
		}
		copy(m[i][:], row)
	}
	return &Lattice{Matrix: m}, nil
}
