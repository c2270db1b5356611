/*
Package annotate assigns per-position pathogenicity scores to the residues
of an aligned structural chain, and reports how well each chain was covered.

Every residue that cannot safely carry a score receives the fixed sentinel
-1.00 instead: unmodeled residues, residues of unknown type, and reference
positions without a defined aggregate. The sentinel is outside both the
[0,1] score range and typical B-factor ranges, so unmapped residues stay
visible downstream. Scores are never silently zeroed.
*/
package annotate

import (
	"github.com/paulynamagana/pdb-alphamissense-annotator/align"
	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// Sentinel marks "no valid score assigned".
const Sentinel = -1.00

// An Annotation maps structural keys to their assigned score, or Sentinel.
// It is created fresh per (chain, accession) run and not mutated after.
type Annotation map[pdb.ResidueKey]float64

// Annotate walks an alignment correspondence for the chain with identifier
// ident and assigns a score to every structural residue in it.
//
// A residue receives the reference position's aggregate score only when it
// is modeled, its type is one of the 20 canonical amino acids, it aligned
// to a reference position, and the table defines an aggregate there. In
// every other case it receives Sentinel. Columns without a structural side
// have nothing to annotate and are skipped.
func Annotate(ident string, pairs []align.Pair, table *am.ScoreTable) Annotation {
	ann := make(Annotation, len(pairs))
	for _, p := range pairs {
		if p.Residue == nil {
			continue
		}
		key := p.Residue.Key(ident)
		ann[key] = Sentinel
		if p.RefPos == 0 || !p.Residue.Modeled || !pdb.IsCanonical(p.Residue.Name) {
			continue
		}
		if score, ok := table.Aggregate(p.RefPos); ok {
			ann[key] = score
		}
	}
	return ann
}
