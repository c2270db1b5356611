package annotate

import (
	"github.com/TuftsBCB/seq"

	"github.com/paulynamagana/pdb-alphamissense-annotator/align"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// A Coverage summarises one chain's annotation run: how many structural
// residues were considered, how many aligned to a reference position, how
// many received a real score versus the sentinel, and the sequence identity
// over the aligned region.
type Coverage struct {
	Chain    string
	Total    int
	Aligned  int
	Scored   int
	Sentinel int

	identity    float64
	hasIdentity bool
}

// Identity returns the fractional sequence identity over aligned canonical
// pairs. The second return value is false when the chain had no such pairs;
// an undefined identity is distinct from 0% identity.
func (c Coverage) Identity() (float64, bool) {
	return c.identity, c.hasIdentity
}

// Report computes the coverage of one annotated chain. Identity counts only
// columns where both sides are present and both types are canonical; with
// ten such columns of which seven agree, identity is exactly 0.70.
func Report(ident string, ref []seq.Residue, pairs []align.Pair, ann Annotation) Coverage {
	cov := Coverage{Chain: ident}
	identical, canonical := 0, 0
	for _, p := range pairs {
		if p.Residue == nil {
			continue
		}
		cov.Total++
		if p.RefPos == 0 {
			continue
		}
		cov.Aligned++
		if pdb.IsCanonical(p.Residue.Name) && pdb.IsCanonical(ref[p.RefPos-1]) {
			canonical++
			if p.Residue.Name == ref[p.RefPos-1] {
				identical++
			}
		}
	}
	for _, score := range ann {
		if score == Sentinel {
			cov.Sentinel++
		} else {
			cov.Scored++
		}
	}
	if canonical > 0 {
		cov.identity = float64(identical) / float64(canonical)
		cov.hasIdentity = true
	}
	return cov
}
