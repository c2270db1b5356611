/*
Package align computes global, gap-permitting alignments between a reference
protein sequence and the residue sequence observed in a structural chain.

The scoring model is deliberately simple: +1 for an identical pair, -1 for a
mismatch and -1 per gap position. The unknown residue 'X' is a wildcard that
scores 0 against everything, so unresolved residues can be threaded through
an alignment without rewarding or blocking it.

The output is a correspondence between 1-based reference positions and
structural residues, not a pair of gapped strings; downstream annotation
only ever needs to know which residue a reference position landed on.
*/
package align

import (
	"fmt"

	"github.com/TuftsBCB/seq"

	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// ErrEmptySequence is returned when either alignment input has no residues.
var ErrEmptySequence = fmt.Errorf("align: empty sequence")

const (
	match    = 1
	mismatch = -1
	gap      = -1
)

// A Pair is one column of an alignment. RefPos is a 1-based position in the
// reference sequence, or 0 when the reference side is gapped. Residue is
// the structural residue, or nil when the structural side is gapped. At
// least one side is always present.
type Pair struct {
	RefPos  int
	Residue *pdb.Residue
}

// Global aligns a reference sequence against a chain's residue sequence
// end to end and returns the resulting correspondence. Reference positions
// and structural residues each appear at most once, in their original
// order.
//
// Low identity is not an error: two sequences sharing nothing still produce
// a (degenerate) alignment, which the coverage report flags downstream.
func Global(ref []seq.Residue, residues []*pdb.Residue) ([]Pair, error) {
	if len(ref) == 0 || len(residues) == 0 {
		return nil, fmt.Errorf("%w (reference %d, chain %d)",
			ErrEmptySequence, len(ref), len(residues))
	}

	obs := pdb.Symbols(residues)
	r, c := len(ref)+1, len(obs)+1

	// Flat dynamic programming table, row-major over reference positions.
	table := make([]int, r*c)
	for i := 1; i < r; i++ {
		table[i*c] = i * gap
	}
	for j := 1; j < c; j++ {
		table[j] = j * gap
	}
	for i := 1; i < r; i++ {
		i2, i3 := (i-1)*c, i*c
		for j := 1; j < c; j++ {
			sdiag := table[i2+j-1] + score(ref[i-1], obs[j-1])
			sup := table[i2+j] + gap
			sleft := table[i3+j-1] + gap
			switch {
			case sdiag >= sup && sdiag >= sleft:
				table[i3+j] = sdiag
			case sup >= sleft:
				table[i3+j] = sup
			default:
				table[i3+j] = sleft
			}
		}
	}

	// Traceback. Ties prefer a match, then a gap in the chain, then a gap
	// in the reference: ambiguity reads as missing density, not as an
	// insertion in the protein. The fixed preference order also makes the
	// output bit-identical across runs.
	pairs := make([]Pair, 0, max(r, c))
	i, j := r-1, c-1
	for i > 0 && j > 0 {
		here := table[i*c+j]
		switch {
		case here == table[(i-1)*c+j-1]+score(ref[i-1], obs[j-1]):
			i--
			j--
			pairs = append(pairs, Pair{RefPos: i + 1, Residue: residues[j]})
		case here == table[(i-1)*c+j]+gap:
			i--
			pairs = append(pairs, Pair{RefPos: i + 1})
		default:
			j--
			pairs = append(pairs, Pair{Residue: residues[j]})
		}
	}
	for ; i > 0; i-- {
		pairs = append(pairs, Pair{RefPos: i})
	}
	for ; j > 0; j-- {
		pairs = append(pairs, Pair{Residue: residues[j-1]})
	}

	// The traceback built the correspondence back to front.
	for i, j := 0, len(pairs)-1; i < j; i, j = i+1, j-1 {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	}
	return pairs, nil
}

func score(a, b seq.Residue) int {
	if a == 'X' || b == 'X' {
		return 0
	}
	if a == b {
		return match
	}
	return mismatch
}
