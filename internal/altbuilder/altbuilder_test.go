package altbuilder

import (
	"strings"
	"testing"

	"github.com/grailbio/eagle/internal/variant"
	"github.com/stretchr/testify/assert"
)

func TestBuildEmptyVariantsReturnsRefCopy(t *testing.T) {
	ref := []byte("AAAAAAAAAA")
	got := Build(ref, nil)
	assert.Equal(t, string(ref), string(got))
}

func TestBuildSNPOnlyDiffersAtPosition(t *testing.T) {
	ref := []byte(strings.Repeat("A", 200))
	vs := []variant.Variant{{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"}}
	got := Build(ref, vs)
	assert.Equal(t, len(ref), len(got))
	for i := range ref {
		if i == 99 {
			assert.Equal(t, byte('G'), got[i])
		} else {
			assert.Equal(t, ref[i], got[i])
		}
	}
}

func TestBuildInsertion(t *testing.T) {
	ref := []byte(strings.Repeat("A", 200))
	vs := []variant.Variant{{Chr: "chr1", Pos: 100, Ref: "-", Alt: "ACG"}}
	got := Build(ref, vs)
	assert.Equal(t, len(ref)+3, len(got))
	assert.Equal(t, string(ref[:100]), string(got[:100]))
	assert.Equal(t, "ACG", string(got[100:103]))
	assert.Equal(t, string(ref[100:]), string(got[103:]))
}

func TestBuildDeletion(t *testing.T) {
	ref := []byte(strings.Repeat("A", 200))
	vs := []variant.Variant{{Chr: "chr1", Pos: 100, Ref: "AAA", Alt: "-"}}
	got := Build(ref, vs)
	assert.Equal(t, len(ref)-3, len(got))
}

func TestBuildMultipleVariantsOffsetAccumulates(t *testing.T) {
	ref := []byte(strings.Repeat("A", 200))
	vs := []variant.Variant{
		{Chr: "chr1", Pos: 50, Ref: "-", Alt: "TT"}, // +2
		{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"}, // SNP after insertion, offset shifts by 2
	}
	got := Build(ref, vs)
	assert.Equal(t, len(ref)+2, len(got))
	// The SNP should land at 1-based 100 + offset(2) - 1 = index 101.
	assert.Equal(t, byte('G'), got[101])
}
