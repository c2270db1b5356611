package pdb

import (
	"github.com/TuftsBCB/seq"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',

	// Selenomethionine shows up as a HETATM but is a real residue.
	"MSE": 'M',

	// Everything below has observed coordinates but no usable identity.
	"UNK": 'X', "ASX": 'X', "GLX": 'X',
	"SEC": 'X', "PYL": 'X',
	"ACE": 'X', "NH2": 'X',
}

const canonical = "ACDEFGHIKLMNPQRSTVWY"

// IsCanonical reports whether r is one of the 20 canonical amino acid
// symbols. The wildcard 'X' is not canonical.
func IsCanonical(r seq.Residue) bool {
	for i := 0; i < len(canonical); i++ {
		if seq.Residue(canonical[i]) == r {
			return true
		}
	}
	return false
}

// fromThreeLetter translates a three letter residue name to its single
// letter symbol. Names that aren't amino acids at all report false.
func fromThreeLetter(name string) (seq.Residue, bool) {
	r, ok := AminoThreeToOne[name]
	return r, ok
}
