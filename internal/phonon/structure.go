package phonon

import "fmt"

// Site is one atom in the unit cell: a species label, its atomic mass in
// atomic mass units, and fractional coordinates in the cell.
type Site struct {
	Species string
	MassAMU float64
	Coords  [3]float64
}

// Structure is a crystal structure reduced to what the thermal-property
// estimators need: a real-space lattice (for the cell volume) and the sites
// with their masses.
type Structure struct {
	Lattice Lattice
	Sites   []Site
}

// NewStructure returns a structure over the given lattice and sites.
func NewStructure(lattice Lattice, sites []Site) *Structure {
	return &Structure{Lattice: lattice, Sites: sites}
}

// NumSites returns the number of atoms in the unit cell.
func (s *Structure) NumSites() int { return len(s.Sites) }

// Volume returns the unit-cell volume in cubic angstrom.
func (s *Structure) Volume() float64 { return s.Lattice.Volume() }

// MeanAtomicMassAMU returns the mean atomic mass over all sites, in amu.
func (s *Structure) MeanAtomicMassAMU() float64 {
	if len(s.Sites) == 0 {
		return 0
	}
	var sum float64
	for _, site := range s.Sites {
		sum += site.MassAMU
	}
	return sum / float64(len(s.Sites))
}

// SiteDoc is the persisted form of a Site.
type SiteDoc struct {
	Species string    `json:"species"`
	MassAMU float64   `json:"mass_amu"`
	Abc     []float64 `json:"abc"`
}

// StructureDoc is the persisted form of a Structure.
type StructureDoc struct {
	Lattice LatticeDoc `json:"lattice"`
	Sites   []SiteDoc  `json:"sites"`
}

// Doc returns the document form of the structure.
func (s *Structure) Doc() StructureDoc {
	sites := make([]SiteDoc, len(s.Sites))
	for i, site := range s.Sites {
		sites[i] = SiteDoc{
			Species: site.Species,
			MassAMU: site.MassAMU,
			Abc:     []float64{site.Coords[0], site.Coords[1], site.Coords[2]},
		}
	}
	return StructureDoc{Lattice: s.Lattice.Doc(), Sites: sites}
}

// StructureFromDoc reconstructs a Structure from its document form.
func StructureFromDoc(d StructureDoc) (*Structure, error) {
	lattice, err := LatticeFromDoc(d.Lattice)
	if err != nil {
		return nil, err
	}
	sites := make([]Site, len(d.Sites))
	for i, sd := range d.Sites {
		if len(sd.Abc) != 3 {
			return nil, fmt.Errorf("site %d: abc must have 3 coordinates, got %d", i, len(sd.Abc))
		}
		sites[i] = Site{
			Species: sd.Species,
			MassAMU: sd.MassAMU,
			Coords:  [3]float64{sd.Abc[0], sd.Abc[1], sd.Abc[2]},
		}
	}
	return &Structure{Lattice: *lattice, Sites: sites}, nil
}
