package vcfio

import (
	"strings"
	"testing"

	"github.com/grailbio/eagle/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSkipsCommentsAndBlankLines(t *testing.T) {
	input := "##header\n\n#CHROM\tPOS\tID\tREF\tALT\nchr1\t100\t.\tA\tG\n"
	vs, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, variant.Variant{Chr: "chr1", Pos: 100, Ref: "A", Alt: "G"}, vs[0])
}

func TestReadExpandsCartesianProduct(t *testing.T) {
	input := "chr1\t100\t.\tA,T\tG,C\n"
	vs, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, vs, 4)
}

func TestReadHandlesIndelDash(t *testing.T) {
	input := "chr1\t100\t.\t-\tACG\n"
	vs, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "-", vs[0].Ref)
	assert.Equal(t, "ACG", vs[0].Alt)
}

func TestReadSortsNaturally(t *testing.T) {
	input := "chr2\t50\t.\tA\tG\nchr10\t1\t.\tA\tG\nchr1\t200\t.\tA\tG\n"
	vs, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, vs, 3)
	assert.Equal(t, "chr1", vs[0].Chr)
	assert.Equal(t, "chr2", vs[1].Chr)
	assert.Equal(t, "chr10", vs[2].Chr)
}

func TestReadRejectsTooFewFields(t *testing.T) {
	_, err := Read(strings.NewReader("chr1\t100\t.\tA\n"))
	assert.Error(t, err)
}
