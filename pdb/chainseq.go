package pdb

import (
	"fmt"

	"github.com/TuftsBCB/seq"
)

// ChainSequence returns the ordered residue sequence observed for the chain
// with the given identifier: modeled residues merged with unmodeled
// placeholders in ascending author numbering order. ErrChainNotFound is
// returned when no such chain exists.
func (e *Entry) ChainSequence(ident string) ([]*Residue, error) {
	chain := e.Chain(ident)
	if chain == nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrChainNotFound, ident, e.Path)
	}
	return chain.ResidueSequence(), nil
}

// ResidueSequence returns the chain's residues in author numbering order,
// one entry per residue, including unmodeled residues.
//
// When the file carries a REMARK 465 block, the missing residues it lists
// are merged with the modeled ones and trusted outright. Without the block
// the only signal left is the author numbering itself, so a jump ahead in
// the numbering is filled with unknown-type placeholders.
func (c *Chain) ResidueSequence() []*Residue {
	if len(c.Missing) > 0 {
		return mergeByNumber(c.Residues, c.Missing)
	}
	return fillNumberGaps(c.Residues)
}

// Symbols flattens a residue sequence into its single letter symbols for
// alignment.
func Symbols(residues []*Residue) []seq.Residue {
	symbols := make([]seq.Residue, len(residues))
	for i, r := range residues {
		symbols[i] = r.Name
	}
	return symbols
}

// mergeByNumber interleaves modeled and missing residues by ascending
// (sequence number, insertion code). Both inputs are already in file order,
// which the PDB promises is ascending; the merge preserves that order even
// when the promise is broken, by never looking back.
func mergeByNumber(modeled, missing []*Residue) []*Residue {
	merged := make([]*Residue, 0, len(modeled)+len(missing))
	i, j := 0, 0
	for i < len(modeled) && j < len(missing) {
		if missing[j].less(modeled[i]) {
			merged = append(merged, missing[j])
			j++
		} else {
			merged = append(merged, modeled[i])
			i++
		}
	}
	merged = append(merged, modeled[i:]...)
	merged = append(merged, missing[j:]...)
	return merged
}

// fillNumberGaps inserts an unmodeled placeholder of unknown type for every
// position skipped by the author numbering. Insertion-coded residues share
// a sequence number, so they never produce placeholders. Numbering that
// moves backwards is left alone; there is no way to tell what it means.
func fillNumberGaps(modeled []*Residue) []*Residue {
	filled := make([]*Residue, 0, len(modeled))
	for i, r := range modeled {
		if i > 0 {
			prev := modeled[i-1]
			for num := prev.SeqNum + 1; num < r.SeqNum; num++ {
				filled = append(filled, &Residue{
					Name:    'X',
					SeqNum:  num,
					AltLoc:  'A',
					Modeled: false,
				})
			}
		}
		filled = append(filled, r)
	}
	return filled
}
