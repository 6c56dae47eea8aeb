package grouper

import (
	"testing"

	"github.com/grailbio/eagle/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupDistlimZeroIsAllSingletons(t *testing.T) {
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"},
		{Chr: "chr1", Pos: 101, Ref: "A", Alt: "G"},
	}
	sets := Group(vs, 0)
	require.Len(t, sets, 2)
	for _, s := range sets {
		assert.Len(t, s, 1)
	}
}

func TestGroupProximity(t *testing.T) {
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "T"},
		{Chr: "chr1", Pos: 105, Ref: "C", Alt: "G"},
		{Chr: "chr1", Pos: 200, Ref: "A", Alt: "T"},
	}
	sets := Group(vs, 10)
	require.Len(t, sets, 2)
	assert.Len(t, sets[0], 2)
	assert.Len(t, sets[1], 1)
}

func TestGroupChromosomeBoundary(t *testing.T) {
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "T"},
		{Chr: "chr2", Pos: 101, Ref: "A", Alt: "T"},
	}
	sets := Group(vs, 10)
	require.Len(t, sets, 2)
}

func TestGroupSamePositionSplit(t *testing.T) {
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "T"},
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"},
	}
	sets := Group(vs, 10)
	require.Len(t, sets, 2)
	for _, s := range sets {
		assert.Len(t, s, 1)
	}
	var alts []string
	for _, s := range sets {
		alts = append(alts, s[0].Alt)
	}
	assert.Contains(t, alts, "T")
	assert.Contains(t, alts, "G")
}

func TestGroupNoSetHasSamePositionPair(t *testing.T) {
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "T"},
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"},
		{Chr: "chr1", Pos: 105, Ref: "C", Alt: "G"},
	}
	sets := Group(vs, 10)
	for _, s := range sets {
		assert.Equal(t, -1, samePositionIndex(s))
	}
}
