package variant

import (
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessNaturalChromosomeOrder(t *testing.T) {
	vs := []Variant{
		{Chr: "chr10", Pos: 1},
		{Chr: "chr2", Pos: 1},
		{Chr: "chr1", Pos: 5},
		{Chr: "chr1", Pos: 2},
	}
	sort.Slice(vs, func(i, j int) bool { return Less(vs[i], vs[j]) })
	want := []string{"chr1:2", "chr1:5", "chr2:1", "chr10:1"}
	var got []string
	for _, v := range vs {
		got = append(got, v.Chr+":"+strconv.Itoa(v.Pos))
	}
	assert.Equal(t, want, got)
}

func TestEqual(t *testing.T) {
	a := Variant{"chr1", 100, "A", "G"}
	b := Variant{"chr1", 100, "A", "G"}
	c := Variant{"chr1", 100, "A", "T"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSetDescriptor(t *testing.T) {
	s1 := Set{{"chr1", 100, "A", "G"}}
	assert.Equal(t, "[]", s1.Descriptor())

	s2 := Set{{"chr1", 100, "A", "T"}, {"chr1", 105, "C", "G"}}
	assert.Equal(t, "[100,A,T;105,C,G]", s2.Descriptor())
}
