package gruneisen

import "math"

// defaultLabelTol is the per-coordinate tolerance for matching a q-point
// against a labels_dict entry.
const defaultLabelTol = 1e-5

// Branch is a contiguous run of q-point indices between two labeled
// high-symmetry points, inclusive on both ends.
type Branch struct {
	StartIndex int
	EndIndex   int
	Name       string // "startlabel-endlabel"
}

// SymmLineBandStructure is a BandStructure along high-symmetry paths,
// partitioned into branches between labeled q-points. The partition is a
// composition over the grid container rather than a separate hierarchy.
type SymmLineBandStructure struct {
	*BandStructure
	Branches []Branch
}

// NewSymmLineBandStructure builds the container and partitions its q-points
// into branches using LabelsDict.
func NewSymmLineBandStructure(cfg BandStructureConfig) (*SymmLineBandStructure, error) {
	base, err := NewBandStructure(cfg)
	if err != nil {
		return nil, err
	}
	return &SymmLineBandStructure{
		BandStructure: base,
		Branches:      PartitionBranches(base, defaultLabelTol),
	}, nil
}

// SymmLineFromDoc reconstructs a SymmLineBandStructure from the shared
// document schema, recomputing the branch partition.
func SymmLineFromDoc(doc BandStructureDoc) (*SymmLineBandStructure, error) {
	base, err := BandStructureFromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &SymmLineBandStructure{
		BandStructure: base,
		Branches:      PartitionBranches(base, defaultLabelTol),
	}, nil
}

// PartitionBranches splits the q-point sequence into contiguous branches
// delimited by labeled points. Two adjacent labeled points mark a path
// discontinuity: no branch spans the gap between them. Unlabeled leading or
// trailing runs attach to the nearest labeled boundary with an empty label
// on that side. A band structure with no labeled points is one unnamed
// branch.
func PartitionBranches(bs *BandStructure, tol float64) []Branch {
	n := len(bs.QPoints)
	if n == 0 {
		return nil
	}
	if tol <= 0 {
		tol = defaultLabelTol
	}

	labels := make([]string, n)
	var boundaries []int
	for i, q := range bs.QPoints {
		if name, ok := labelFor(bs.LabelsDict, q, tol); ok {
			labels[i] = name
			boundaries = append(boundaries, i)
		}
	}
	if len(boundaries) == 0 {
		return []Branch{{StartIndex: 0, EndIndex: n - 1}}
	}
	if boundaries[0] != 0 {
		boundaries = append([]int{0}, boundaries...)
	}
	if boundaries[len(boundaries)-1] != n-1 {
		boundaries = append(boundaries, n-1)
	}

	var branches []Branch
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		// Adjacent labeled points are a jump between path segments.
		if end == start+1 && labels[start] != "" && labels[end] != "" {
			continue
		}
		branches = append(branches, Branch{
			StartIndex: start,
			EndIndex:   end,
			Name:       labels[start] + "-" + labels[end],
		})
	}
	return branches
}

func labelFor(labelsDict map[string][]float64, q []float64, tol float64) (string, bool) {
	for name, coords := range labelsDict {
		if len(coords) != len(q) {
			continue
		}
		match := true
		for i := range q {
			if math.Abs(q[i]-coords[i]) > tol {
				match = false
				break
			}
		}
		if match {
			return name, true
		}
	}
	return "", false
}
