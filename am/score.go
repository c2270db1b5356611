/*
Package am holds AlphaMissense substitution scores and turns them into the
per-position aggregates that get painted onto structures.

A ScoreTable is immutable once built, so a single table can be shared across
any number of concurrent chain annotations without locking.
*/
package am

import (
	"fmt"

	"github.com/TuftsBCB/seq"
)

// ErrMalformedScore is returned when a variant record references a position
// outside the reference sequence or carries a score outside [0,1]. A
// malformed record aborts table construction; the table is shared by every
// chain, so there is no safe partial result.
var ErrMalformedScore = fmt.Errorf("am: malformed score record")

// A Variant is one substitution record: at reference position Position, the
// wild-type residue Ref substituted by Alt scores Score.
type Variant struct {
	Position int
	Ref, Alt seq.Residue
	Score    float64
}

// A ScoreTable maps reference positions to substitution scores and their
// per-position aggregate (the mean over all substitutions at the position,
// excluding the wild-type self-substitution).
type ScoreTable struct {
	refLen    int
	subs      map[int]map[seq.Residue]float64
	aggregate map[int]float64
}

// NewScoreTable builds a score table over a reference sequence of refLen
// positions from an unordered collection of variant records.
func NewScoreTable(refLen int, variants []Variant) (*ScoreTable, error) {
	t := &ScoreTable{
		refLen:    refLen,
		subs:      make(map[int]map[seq.Residue]float64, refLen),
		aggregate: make(map[int]float64, refLen),
	}
	for _, v := range variants {
		if v.Position < 1 || v.Position > refLen {
			return nil, fmt.Errorf("%w: position %d outside reference 1..%d",
				ErrMalformedScore, v.Position, refLen)
		}
		// Negated so that NaN, which fails every comparison, is rejected.
		if !(v.Score >= 0 && v.Score <= 1) {
			return nil, fmt.Errorf("%w: score %g at position %d outside [0,1]",
				ErrMalformedScore, v.Score, v.Position)
		}
		subs := t.subs[v.Position]
		if subs == nil {
			subs = make(map[seq.Residue]float64, 19)
			t.subs[v.Position] = subs
		}
		subs[v.Alt] = v.Score
	}
	for _, v := range variants {
		if _, done := t.aggregate[v.Position]; done {
			continue
		}
		// Summed in alphabet order, not map order, so the aggregate is
		// bit-identical across runs.
		sum, n := 0.0, 0
		for alt := seq.Residue('A'); alt <= 'Z'; alt++ {
			score, ok := t.subs[v.Position][alt]
			if !ok || alt == v.Ref {
				continue
			}
			sum += score
			n++
		}
		if n > 0 {
			t.aggregate[v.Position] = sum / float64(n)
		}
	}
	return t, nil
}

// RefLen returns the length of the reference sequence the table was built
// over.
func (t *ScoreTable) RefLen() int {
	return t.refLen
}

// Aggregate returns the mean substitution score at the given reference
// position. The second return value is false when no substitution records
// exist for the position; an undefined aggregate is never 0, it becomes the
// sentinel downstream.
func (t *ScoreTable) Aggregate(pos int) (float64, bool) {
	score, ok := t.aggregate[pos]
	return score, ok
}

// Substitution returns the score of substituting alt at the given reference
// position, if such a record exists.
func (t *ScoreTable) Substitution(pos int, alt seq.Residue) (float64, bool) {
	subs, ok := t.subs[pos]
	if !ok {
		return 0, false
	}
	score, ok := subs[alt]
	return score, ok
}
