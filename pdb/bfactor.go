package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ChainScores maps chain identifiers to per-residue score assignments.
type ChainScores map[string]map[ResidueKey]float64

// RewriteBFactors copies a PDB file from r to w, overwriting the B-factor
// column (columns 61-66) of ATOM and HETATM records in the chains present
// in scores. Residues with an assigned score receive it; every other
// residue in an annotated chain receives fill.
//
// Only the representative conformation of each residue is rewritten; atoms
// of other alternate locations keep their original values, as do all
// records of chains absent from scores.
func RewriteBFactors(r io.Reader, w io.Writer, scores ChainScores, fill float64) error {
	reps := make(map[ResidueKey]byte)
	out := bufio.NewWriter(w)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		rewritten := rewriteLine(line, scores, fill, reps)
		if _, err := out.WriteString(rewritten); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return out.Flush()
}

func rewriteLine(line string, scores ChainScores, fill float64,
	reps map[ResidueKey]byte) string {

	if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
		return line
	}
	padded := string(pad([]byte(line)))

	ident := string(padded[21])
	if ident == " " {
		ident = "_"
	}
	assigned, ok := scores[ident]
	if !ok {
		return line
	}

	seqNum, err := strconv.Atoi(strings.TrimSpace(padded[22:26]))
	if err != nil {
		return line
	}
	insCode := padded[26]
	if insCode == ' ' {
		insCode = 0
	}
	key := ResidueKey{Chain: ident, SeqNum: seqNum, InsCode: insCode}

	// The first alternate location seen for a residue is its representative.
	// Blank-altloc atoms are shared between conformations and always belong
	// to the representative.
	if altLoc := padded[16]; altLoc != ' ' {
		rep, seen := reps[key]
		if !seen {
			reps[key] = altLoc
		} else if altLoc != rep {
			return line
		}
	}

	score, ok := assigned[key]
	if !ok {
		score = fill
	}
	return padded[:60] + fmt.Sprintf("%6.2f", score) + padded[66:]
}
