package readmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q30(n int) []float64 {
	qs := make([]float64, n)
	for i := range qs {
		qs[i] = -3.0 // phred 30 as phred/-10
	}
	return qs
}

func TestReverseComplementIsInvolution(t *testing.T) {
	qseq := []byte("ACGTTN")
	qual := q30(len(qseq))
	m, isMatch, noMatch := Build(qseq, qual)

	rQseq, rIsMatch, rNoMatch := ReverseComplement(qseq, isMatch, noMatch)
	rrQseq, rrIsMatch, rrNoMatch := ReverseComplement(rQseq, rIsMatch, rNoMatch)

	require.Equal(t, string(qseq), string(rrQseq))
	assert.Equal(t, isMatch, rrIsMatch)
	assert.Equal(t, noMatch, rrNoMatch)

	rrM := BuildFromComponents(rrQseq, rrIsMatch, rrNoMatch)
	assert.Equal(t, m, rrM)
}

func TestCalcProbDistribPerfectMatchHigherThanMismatch(t *testing.T) {
	qseq := []byte(strings.Repeat("A", 10))
	qual := q30(10)
	m, _, _ := Build(qseq, qual)

	refMatch := []byte(strings.Repeat("A", 200))
	refMismatch := append([]byte(strings.Repeat("A", 95)), []byte("GAAAAAAAAA")...)
	refMismatch = append(refMismatch, []byte(strings.Repeat("A", 95))...)

	pMatch := CalcProbDistrib(m, refMatch, 95)
	pMismatch := CalcProbDistrib(m, refMismatch, 95)
	assert.Greater(t, pMatch, pMismatch)
}

func TestElsewherePerfectReadHigherThanClipped(t *testing.T) {
	qseq := []byte(strings.Repeat("A", 10))
	qual := q30(10)
	_, isMatch, noMatch := Build(qseq, qual)

	full := Elsewhere(isMatch, noMatch, 10, 10)
	clipped := Elsewhere(isMatch, noMatch, 20, 10)
	assert.Greater(t, full, clipped)
}
