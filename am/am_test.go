package am

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateExcludesWildType(t *testing.T) {
	variants := []Variant{
		{Position: 1, Ref: 'A', Alt: 'V', Score: 0.2},
		{Position: 1, Ref: 'A', Alt: 'L', Score: 0.4},
		{Position: 1, Ref: 'A', Alt: 'A', Score: 0.9},
	}
	table, err := NewScoreTable(5, variants)
	require.NoError(t, err)

	agg, ok := table.Aggregate(1)
	require.True(t, ok)
	assert.InDelta(t, 0.3, agg, 1e-12)
}

func TestAggregateUndefined(t *testing.T) {
	table, err := NewScoreTable(5, []Variant{
		{Position: 2, Ref: 'K', Alt: 'R', Score: 0.1},
	})
	require.NoError(t, err)

	_, ok := table.Aggregate(1)
	assert.False(t, ok)
	_, ok = table.Aggregate(3)
	assert.False(t, ok)
}

func TestSubstitutionLookup(t *testing.T) {
	table, err := NewScoreTable(5, []Variant{
		{Position: 2, Ref: 'K', Alt: 'R', Score: 0.1},
		{Position: 2, Ref: 'K', Alt: 'E', Score: 0.8},
	})
	require.NoError(t, err)

	score, ok := table.Substitution(2, 'E')
	require.True(t, ok)
	assert.Equal(t, 0.8, score)
	_, ok = table.Substitution(2, 'W')
	assert.False(t, ok)
	_, ok = table.Substitution(4, 'R')
	assert.False(t, ok)
}

func TestMalformedRecords(t *testing.T) {
	_, err := NewScoreTable(5, []Variant{
		{Position: 6, Ref: 'A', Alt: 'V', Score: 0.5},
	})
	assert.True(t, errors.Is(err, ErrMalformedScore))

	_, err = NewScoreTable(5, []Variant{
		{Position: 0, Ref: 'A', Alt: 'V', Score: 0.5},
	})
	assert.True(t, errors.Is(err, ErrMalformedScore))

	_, err = NewScoreTable(5, []Variant{
		{Position: 1, Ref: 'A', Alt: 'V', Score: 1.2},
	})
	assert.True(t, errors.Is(err, ErrMalformedScore))

	// NaN is outside [0,1] too; it must never reach the aggregates.
	_, err = NewScoreTable(5, []Variant{
		{Position: 1, Ref: 'A', Alt: 'V', Score: math.NaN()},
	})
	assert.True(t, errors.Is(err, ErrMalformedScore))
}

func TestAggregateBitIdentical(t *testing.T) {
	// Scores chosen so that summation order changes the last bits of a
	// naive mean.
	variants := []Variant{
		{Position: 1, Ref: 'M', Alt: 'A', Score: 0.1},
		{Position: 1, Ref: 'M', Alt: 'C', Score: 0.3},
		{Position: 1, Ref: 'M', Alt: 'D', Score: 0.7},
		{Position: 1, Ref: 'M', Alt: 'E', Score: 0.2},
		{Position: 1, Ref: 'M', Alt: 'F', Score: 0.9},
	}
	first, err := NewScoreTable(3, variants)
	require.NoError(t, err)
	want, ok := first.Aggregate(1)
	require.True(t, ok)

	for i := 0; i < 20; i++ {
		table, err := NewScoreTable(3, variants)
		require.NoError(t, err)
		got, ok := table.Aggregate(1)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestReadVariants(t *testing.T) {
	csv := `protein_variant,am_pathogenicity,am_class
M1A,0.345,benign
M1C,0.912,pathogenic
K2R,0.08,benign
`
	variants, err := ReadVariants(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, variants, 3)

	assert.Equal(t, Variant{Position: 1, Ref: 'M', Alt: 'A', Score: 0.345},
		variants[0])
	assert.Equal(t, Variant{Position: 2, Ref: 'K', Alt: 'R', Score: 0.08},
		variants[2])
}

func TestReadVariantsColumnOrder(t *testing.T) {
	csv := `am_class,am_pathogenicity,protein_variant
benign,0.2,W10Y
`
	variants, err := ReadVariants(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 10, variants[0].Position)
	assert.Equal(t, 0.2, variants[0].Score)
}

func TestReadVariantsErrors(t *testing.T) {
	_, err := ReadVariants(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadVariants(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)

	_, err = ReadVariants(strings.NewReader(
		"protein_variant,am_pathogenicity\nM1,0.5\n"))
	assert.Error(t, err)

	_, err = ReadVariants(strings.NewReader(
		"protein_variant,am_pathogenicity\nM1A,high\n"))
	assert.Error(t, err)
}
