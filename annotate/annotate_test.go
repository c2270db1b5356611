package annotate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/TuftsBCB/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulynamagana/pdb-alphamissense-annotator/align"
	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

func atomLine(serial int, resName string, chain byte, seqNum int) string {
	return fmt.Sprintf("ATOM  %5d  CA %c%3s %c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f",
		serial, ' ', resName, chain, seqNum, ' ', 1.0, 2.0, 3.0, 1.0, 25.0)
}

// table builds a score table over refLen positions with the aggregate at
// every listed position fixed to the given score.
func table(t *testing.T, refLen int, scores map[int]float64) *am.ScoreTable {
	var variants []am.Variant
	for pos, score := range scores {
		variants = append(variants, am.Variant{
			Position: pos, Ref: 'A', Alt: 'V', Score: score,
		})
	}
	tab, err := am.NewScoreTable(refLen, variants)
	require.NoError(t, err)
	return tab
}

func modeled(name byte, seqNum int) *pdb.Residue {
	return &pdb.Residue{
		Name: seq.Residue(name), SeqNum: seqNum, AltLoc: 'A', Modeled: true,
	}
}

func TestAnnotateAssignsAggregate(t *testing.T) {
	tab := table(t, 3, map[int]float64{1: 0.12, 2: 0.5, 3: 0.99})
	pairs := []align.Pair{
		{RefPos: 1, Residue: modeled('M', 10)},
		{RefPos: 2, Residue: modeled('K', 11)},
		{RefPos: 3, Residue: modeled('W', 12)},
	}
	ann := Annotate("A", pairs, tab)

	require.Len(t, ann, 3)
	assert.Equal(t, 0.12, ann[pdb.ResidueKey{Chain: "A", SeqNum: 10}])
	assert.Equal(t, 0.5, ann[pdb.ResidueKey{Chain: "A", SeqNum: 11}])
	assert.Equal(t, 0.99, ann[pdb.ResidueKey{Chain: "A", SeqNum: 12}])
}

func TestAnnotateSentinelCases(t *testing.T) {
	tab := table(t, 4, map[int]float64{1: 0.3, 2: 0.3, 4: 0.3})

	unmodeled := modeled('K', 11)
	unmodeled.Modeled = false
	pairs := []align.Pair{
		// Unmodeled.
		{RefPos: 2, Residue: unmodeled},
		// Unknown residue type.
		{RefPos: 1, Residue: modeled('X', 10)},
		// No aggregate at position 3.
		{RefPos: 3, Residue: modeled('S', 12)},
		// Insertion relative to the reference.
		{RefPos: 0, Residue: modeled('G', 13)},
		// No structural side: nothing to annotate.
		{RefPos: 4, Residue: nil},
	}
	ann := Annotate("A", pairs, tab)

	require.Len(t, ann, 4)
	for key, score := range ann {
		assert.Equal(t, float64(Sentinel), score, "key %+v", key)
	}
}

func TestIdentityExact(t *testing.T) {
	// Ten aligned canonical columns, seven identical.
	ref := []seq.Residue("MKAGSTWYLV")
	obs := "MKAGSTAAAV"
	pairs := make([]align.Pair, len(obs))
	for i := range obs {
		pairs[i] = align.Pair{RefPos: i + 1, Residue: modeled(obs[i], i+1)}
	}
	tab := table(t, len(ref), nil)

	cov := Report("A", ref, pairs, Annotate("A", pairs, tab))
	id, ok := cov.Identity()
	require.True(t, ok)
	assert.Equal(t, 0.70, id)
	assert.Equal(t, 10, cov.Total)
	assert.Equal(t, 10, cov.Aligned)
}

func TestIdentityUndefined(t *testing.T) {
	// Every aligned column has an unknown type on the structural side, so
	// identity has no defined value.
	ref := []seq.Residue("MK")
	pairs := []align.Pair{
		{RefPos: 1, Residue: modeled('X', 1)},
		{RefPos: 2, Residue: modeled('X', 2)},
	}
	cov := Report("A", ref, pairs, nil)
	_, ok := cov.Identity()
	assert.False(t, ok)
	assert.Equal(t, 2, cov.Aligned)
}

func TestBatchIndependentChains(t *testing.T) {
	// Chain A is complete; chain B skips residue 2 with no missing-residue
	// records, so an unknown placeholder is synthesised there.
	lines := []string{
		atomLine(1, "MET", 'A', 1),
		atomLine(2, "LYS", 'A', 2),
		atomLine(3, "SER", 'A', 3),
		atomLine(4, "TRP", 'A', 4),
		atomLine(5, "MET", 'B', 1),
		atomLine(6, "SER", 'B', 3),
		atomLine(7, "TRP", 'B', 4),
	}
	entry, err := pdb.Read(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	ref := []seq.Residue("MKSW")
	tab := table(t, 4, map[int]float64{1: 0.1, 2: 0.2, 3: 0.3, 4: 0.4})
	results := Batch(entry, []string{"A", "B"}, ref, tab)
	require.Len(t, results, 2)

	a, b := results[0], results[1]
	require.NoError(t, a.Err)
	require.NoError(t, b.Err)

	assert.Equal(t, 4, a.Coverage.Scored)
	assert.Equal(t, 0, a.Coverage.Sentinel)

	// Chain B's placeholder at position 2 carries the sentinel; the other
	// copies of the shared positions score independently of chain A.
	assert.Equal(t, 3, b.Coverage.Scored)
	assert.Equal(t, 1, b.Coverage.Sentinel)
	assert.Equal(t, float64(Sentinel),
		b.Annotation[pdb.ResidueKey{Chain: "B", SeqNum: 2}])
	assert.Equal(t, 0.3,
		b.Annotation[pdb.ResidueKey{Chain: "B", SeqNum: 3}])
}

func TestBatchMissingChain(t *testing.T) {
	entry, err := pdb.Read(strings.NewReader(atomLine(1, "MET", 'A', 1)))
	require.NoError(t, err)

	results := Batch(entry, []string{"A", "Z"}, []seq.Residue("M"),
		table(t, 1, nil))
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestChainScoresSkipsFailures(t *testing.T) {
	results := []Result{
		{Chain: "A", Annotation: Annotation{
			pdb.ResidueKey{Chain: "A", SeqNum: 1}: 0.5,
		}},
		{Chain: "Z", Err: fmt.Errorf("no such chain")},
	}
	scores := ChainScores(results)
	require.Len(t, scores, 1)
	assert.Contains(t, scores, "A")
}

func TestWriteReport(t *testing.T) {
	ref := []seq.Residue("MKSW")
	pairs := []align.Pair{
		{RefPos: 1, Residue: modeled('M', 1)},
		{RefPos: 2, Residue: nil},
		{RefPos: 3, Residue: modeled('S', 3)},
		{RefPos: 4, Residue: modeled('W', 4)},
	}
	tab := table(t, 4, map[int]float64{1: 0.1})
	ann := Annotate("A", pairs, tab)
	results := []Result{
		{Chain: "A", Pairs: pairs, Annotation: ann,
			Coverage: Report("A", ref, pairs, ann)},
		{Chain: "Z", Err: fmt.Errorf("no such chain")},
	}

	var out strings.Builder
	require.NoError(t, WriteReport(&out, ref, results))
	report := out.String()

	assert.Contains(t, report, "=== Chain A ===")
	assert.Contains(t, report, "ref   MKSW")
	assert.Contains(t, report, "chain M-SW")
	assert.Contains(t, report, "=== Chain Z ===")
	assert.Contains(t, report, "skipped: no such chain")
}
