package fasta_test

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/grailbio/eagle/encoding/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastaData string
var fastaIndex string

func init() {
	fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"
	fastaIndex = "seq1\t12\t6\t5\t6\n" + "seq2\t8\t44\t4\t5\n"
}

func TestGet(t *testing.T) {
	tests := []struct {
		seq     string
		start   uint64
		end     uint64
		want    string
		wantErr bool
	}{
		{"seq1", 1, 2, "C", false},
		{"seq1", 1, 6, "CGTAC", false},
		{"seq1", 0, 12, "ACGTACGTACGT", false},
		{"seq1", 10, 12, "GT", false},
		{"seq2", 0, 8, "ACGTACGT", false},
		{"seq2", 2, 5, "GTA", false},
		{"seq0", 0, 1, "", true},
		{"seq1", 10, 13, "", true},
		{"seq1", 4, 3, "", true},
	}
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := indexed.Get(tt.seq, tt.start, tt.end)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		seq     string
		want    uint64
		wantErr bool
	}{
		{"seq1", 12, false},
		{"seq2", 8, false},
		{"seq0", 0, true},
	}
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := indexed.Len(tt.seq)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSeqNames(t *testing.T) {
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)
	want := sort.StringSlice([]string{"seq1", "seq2"})
	want.Sort()
	got := sort.StringSlice(indexed.SeqNames())
	got.Sort()
	assert.True(t, reflect.DeepEqual([]string(got), []string(want)))
}

func TestMalformedIndexIsRejected(t *testing.T) {
	_, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader("seq1\tnotanumber\t6\t5\t6\n"))
	assert.Error(t, err)
}

func TestEmptyIndexIsRejected(t *testing.T) {
	_, err := fasta.NewIndexed(strings.NewReader(""), strings.NewReader(""))
	assert.Error(t, err)
}
