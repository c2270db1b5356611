package annotate

import (
	"github.com/TuftsBCB/seq"

	"github.com/paulynamagana/pdb-alphamissense-annotator/align"
	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// A Result is the outcome of annotating one chain against one accession.
// When Err is set (chain absent, empty sequence) the other fields are zero;
// a failed chain never aborts the rest of a batch.
type Result struct {
	Chain      string
	Pairs      []align.Pair
	Annotation Annotation
	Coverage   Coverage
	Err        error
}

// Batch aligns and annotates each requested chain of an entry independently
// against the same reference sequence and score table. Chains are parallel
// copies as far as this function is concerned: no cross-chain consistency
// is enforced, and divergent outcomes across copies are expected.
func Batch(entry *pdb.Entry, chains []string, ref []seq.Residue,
	table *am.ScoreTable) []Result {

	results := make([]Result, len(chains))
	for i, ident := range chains {
		results[i] = one(entry, ident, ref, table)
	}
	return results
}

func one(entry *pdb.Entry, ident string, ref []seq.Residue,
	table *am.ScoreTable) Result {

	res := Result{Chain: ident}
	residues, err := entry.ChainSequence(ident)
	if err != nil {
		res.Err = err
		return res
	}
	res.Pairs, err = align.Global(ref, residues)
	if err != nil {
		res.Err = err
		return res
	}
	res.Annotation = Annotate(ident, res.Pairs, table)
	res.Coverage = Report(ident, ref, res.Pairs, res.Annotation)
	return res
}

// ChainScores collects the annotations of successful results into the form
// the B-factor writer consumes.
func ChainScores(results []Result) pdb.ChainScores {
	scores := make(pdb.ChainScores, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		scores[res.Chain] = map[pdb.ResidueKey]float64(res.Annotation)
	}
	return scores
}
