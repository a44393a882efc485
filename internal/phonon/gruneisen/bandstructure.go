package gruneisen

import (
	"fmt"

	"github.com/lattice-data/thermal.report/internal/phonon"
)

// Eigendisplacements are the complex phonon eigendisplacements in Cartesian
// coordinates, indexed (mode, qpoint, atom, xyz).
type Eigendisplacements [][][][]complex128

// BandStructure is a phonon band structure on a generic q-point grid with a
// Grueneisen parameter attached to every (mode, qpoint) entry. Constructed
// once from upstream data and immutable thereafter.
type BandStructure struct {
	QPoints            [][]float64 // fractional coordinates
	LatticeRec         *phonon.Lattice
	Bands              [][]float64 // (modes, qpoints), THz
	Gruneisen          [][]float64 // same shape as Bands
	Eigendisplacements Eigendisplacements
	LabelsDict         map[string][]float64 // symmetry label -> fractional coords
	Structure          *phonon.Structure
}

// BandStructureConfig carries the constructor arguments for a BandStructure.
// When CoordsAreCartesian is set, QPoints and LabelsDict coordinates are
// converted to fractional using LatticeRec.
type BandStructureConfig struct {
	QPoints            [][]float64
	Frequencies        [][]float64
	Gruneisen          [][]float64
	LatticeRec         *phonon.Lattice
	Eigendisplacements Eigendisplacements
	LabelsDict         map[string][]float64
	CoordsAreCartesian bool
	Structure          *phonon.Structure
}

// NewBandStructure builds the annotated container. The Grueneisen array is
// stored verbatim alongside the band data.
func NewBandStructure(cfg BandStructureConfig) (*BandStructure, error) {
	if cfg.LatticeRec == nil {
		return nil, fmt.Errorf("reciprocal lattice is required")
	}
	if len(cfg.Gruneisen) != len(cfg.Frequencies) {
		return nil, fmt.Errorf("gruneisen has %d mode rows, frequencies has %d", len(cfg.Gruneisen), len(cfg.Frequencies))
	}

	qpoints := cfg.QPoints
	labels := cfg.LabelsDict
	if cfg.CoordsAreCartesian {
		var err error
		if qpoints, err = toFractional(cfg.LatticeRec, cfg.QPoints); err != nil {
			return nil, fmt.Errorf("qpoints: %w", err)
		}
		if labels != nil {
			converted := make(map[string][]float64, len(labels))
			for name, coords := range labels {
				frac, err := cfg.LatticeRec.FractionalCoords(coords)
				if err != nil {
					return nil, fmt.Errorf("label %q: %w", name, err)
				}
				converted[name] = frac
			}
			labels = converted
		}
	}

	return &BandStructure{
		QPoints:            qpoints,
		LatticeRec:         cfg.LatticeRec,
		Bands:              cfg.Frequencies,
		Gruneisen:          cfg.Gruneisen,
		Eigendisplacements: cfg.Eigendisplacements,
		LabelsDict:         labels,
		Structure:          cfg.Structure,
	}, nil
}

func toFractional(lattice *phonon.Lattice, cart [][]float64) ([][]float64, error) {
	frac := make([][]float64, len(cart))
	for i, pt := range cart {
		f, err := lattice.FractionalCoords(pt)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		frac[i] = f
	}
	return frac, nil
}

// EigendisplacementsDoc splits the complex eigendisplacements into real and
// imaginary parts so the payload stays plain nested numbers.
type EigendisplacementsDoc struct {
	Real [][][][]float64 `json:"real"`
	Imag [][][][]float64 `json:"imag"`
}

// BandStructureDoc is the persisted document form of a BandStructure. All
// numeric payloads are nested plain-number arrays, so JSON round trips are
// exact.
type BandStructureDoc struct {
	LatticeRec         phonon.LatticeDoc     `json:"lattice_rec"`
	QPoints            [][]float64           `json:"qpoints"`
	Bands              [][]float64           `json:"bands"`
	LabelsDict         map[string][]float64  `json:"labels_dict"`
	Eigendisplacements EigendisplacementsDoc `json:"eigendisplacements"`
	Gruneisen          [][]float64           `json:"gruneisen"`
	Structure          *phonon.StructureDoc  `json:"structure,omitempty"`
}

// Doc returns the document form. All arrays are deep-copied.
func (bs *BandStructure) Doc() BandStructureDoc {
	doc := BandStructureDoc{
		LatticeRec:         bs.LatticeRec.Doc(),
		QPoints:            copyMatrix(bs.QPoints),
		Bands:              copyMatrix(bs.Bands),
		Gruneisen:          copyMatrix(bs.Gruneisen),
		Eigendisplacements: splitEigendisplacements(bs.Eigendisplacements),
	}
	if bs.LabelsDict != nil {
		doc.LabelsDict = make(map[string][]float64, len(bs.LabelsDict))
		for name, coords := range bs.LabelsDict {
			doc.LabelsDict[name] = append([]float64(nil), coords...)
		}
	}
	if bs.Structure != nil {
		sd := bs.Structure.Doc()
		doc.Structure = &sd
	}
	return doc
}

// BandStructureFromDoc is the exact inverse of Doc.
func BandStructureFromDoc(doc BandStructureDoc) (*BandStructure, error) {
	lattice, err := phonon.LatticeFromDoc(doc.LatticeRec)
	if err != nil {
		return nil, err
	}
	var structure *phonon.Structure
	if doc.Structure != nil {
		if structure, err = phonon.StructureFromDoc(*doc.Structure); err != nil {
			return nil, err
		}
	}
	eig, err := joinEigendisplacements(doc.Eigendisplacements)
	if err != nil {
		return nil, err
	}
	return NewBandStructure(BandStructureConfig{
		QPoints:            doc.QPoints,
		Frequencies:        doc.Bands,
		Gruneisen:          doc.Gruneisen,
		LatticeRec:         lattice,
		Eigendisplacements: eig,
		LabelsDict:         doc.LabelsDict,
		Structure:          structure,
	})
}

func copyMatrix(a [][]float64) [][]float64 {
	if a == nil {
		return nil
	}
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func splitEigendisplacements(e Eigendisplacements) EigendisplacementsDoc {
	var doc EigendisplacementsDoc
	if e == nil {
		return doc
	}
	doc.Real = make([][][][]float64, len(e))
	doc.Imag = make([][][][]float64, len(e))
	for m := range e {
		doc.Real[m] = make([][][]float64, len(e[m]))
		doc.Imag[m] = make([][][]float64, len(e[m]))
		for q := range e[m] {
			doc.Real[m][q] = make([][]float64, len(e[m][q]))
			doc.Imag[m][q] = make([][]float64, len(e[m][q]))
			for a := range e[m][q] {
				re := make([]float64, len(e[m][q][a]))
				im := make([]float64, len(e[m][q][a]))
				for x, c := range e[m][q][a] {
					re[x] = real(c)
					im[x] = imag(c)
				}
				doc.Real[m][q][a] = re
				doc.Imag[m][q][a] = im
			}
		}
	}
	return doc
}

func joinEigendisplacements(doc EigendisplacementsDoc) (Eigendisplacements, error) {
	if doc.Real == nil && doc.Imag == nil {
		return nil, nil
	}
	if len(doc.Real) != len(doc.Imag) {
		return nil, fmt.Errorf("eigendisplacements real/imag mode counts differ: %d vs %d", len(doc.Real), len(doc.Imag))
	}
	e := make(Eigendisplacements, len(doc.Real))
	for m := range doc.Real {
		if len(doc.Real[m]) != len(doc.Imag[m]) {
			return nil, fmt.Errorf("eigendisplacements real/imag q-point counts differ at mode %d", m)
		}
		e[m] = make([][][]complex128, len(doc.Real[m]))
		for q := range doc.Real[m] {
			if len(doc.Real[m][q]) != len(doc.Imag[m][q]) {
				return nil, fmt.Errorf("eigendisplacements real/imag atom counts differ at mode %d, q-point %d", m, q)
			}
			e[m][q] = make([][]complex128, len(doc.Real[m][q]))
			for a := range doc.Real[m][q] {
				re, im := doc.Real[m][q][a], doc.Imag[m][q][a]
				if len(re) != len(im) {
					return nil, fmt.Errorf("eigendisplacements real/imag lengths differ at mode %d, q-point %d, atom %d", m, q, a)
				}
				row := make([]complex128, len(re))
				for x := range re {
					row[x] = complex(re[x], im[x])
				}
				e[m][q][a] = row
			}
		}
	}
	return e, nil
}
