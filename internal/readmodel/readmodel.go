// Copyright 2026 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package readmodel builds per-base probability matrices from read quality
// scores and evaluates the log-probability of a read against a candidate
// sequence at a given alignment shift, including a windowed (log-sum-exp)
// variant used to marginalize over nearby shifts and an "elsewhere"
// paralogous-source model.
package readmodel

import (
	"math"

	"github.com/grailbio/eagle/internal/logmath"
)

// earlyExitMargin is the number of natural-log units calc_prob tolerates
// before truncating a running sum: a contribution more than this far below
// baseline is less than 1% of baseline mass (spec.md §4.4).
const earlyExitMargin = 10

// seqntMap maps an uppercase base letter to its column in Matrix; anything
// that isn't A/T/G/C maps to the N sentinel column 4.
var seqntMap [256]byte

func init() {
	for i := range seqntMap {
		seqntMap[i] = 4
	}
	seqntMap['A'] = 0
	seqntMap['T'] = 1
	seqntMap['G'] = 2
	seqntMap['C'] = 3
	seqntMap['N'] = 4
}

// complMap maps a base to its Watson-Crick complement; N maps to N.
var complMap [256]byte

func init() {
	for i := range complMap {
		complMap[i] = byte(i)
	}
	complMap['A'] = 'T'
	complMap['T'] = 'A'
	complMap['G'] = 'C'
	complMap['C'] = 'G'
	complMap['N'] = 'N'
}

// numBases is the alphabet size of Matrix's columns: A, T, G, C, N.
const numBases = 5

// Matrix is a per-read, per-base log-probability table: M[i][c] is the
// log-probability of observing base column c at read offset i.
type Matrix [][numBases]float64

// Build constructs a read's probability Matrix from its uppercase ACGTN
// sequence and Phred/-10 quality scores (spec.md §4.4). It also returns the
// per-base isMatch/noMatch log-probabilities the matrix was built from,
// since the evaluator needs both independently (e.g. for the elsewhere
// model).
func Build(qseq []byte, qual []float64) (m Matrix, isMatch, noMatch []float64) {
	n := len(qseq)
	isMatch = make([]float64, n)
	noMatch = make([]float64, n)
	m = make(Matrix, n)
	for i := 0; i < n; i++ {
		q := qual[i]
		if q == 0 {
			q = -0.01
		}
		qLn := q * logmath.Ln10
		isMatch[i] = math.Log1p(-math.Exp(qLn))
		noMatch[i] = qLn - logmath.Ln3
		for c := 0; c < numBases; c++ {
			m[i][c] = noMatch[i]
		}
		m[i][seqntMap[qseq[i]]] = isMatch[i]
	}
	return m, isMatch, noMatch
}

// ReverseComplement reverse-complements qseq and reverses the matching
// isMatch/noMatch vectors, used when folding in an XA alignment on the
// opposite strand (spec.md §4.5).
func ReverseComplement(qseq []byte, isMatch, noMatch []float64) (rQseq []byte, rIsMatch, rNoMatch []float64) {
	n := len(qseq)
	rQseq = make([]byte, n)
	rIsMatch = make([]float64, n)
	rNoMatch = make([]float64, n)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		rQseq[i] = complMap[qseq[j]]
		rIsMatch[i] = isMatch[j]
		rNoMatch[i] = noMatch[j]
	}
	return
}

// BuildFromComponents rebuilds a Matrix from already-reversed
// isMatch/noMatch/qseq vectors, used after ReverseComplement.
func BuildFromComponents(qseq []byte, isMatch, noMatch []float64) Matrix {
	n := len(qseq)
	m := make(Matrix, n)
	for i := 0; i < n; i++ {
		for c := 0; c < numBases; c++ {
			m[i][c] = noMatch[i]
		}
		m[i][seqntMap[qseq[i]]] = isMatch[i]
	}
	return m
}

// CalcProb sums M[b-pos][map(seq[b])] for b in [pos, pos+L) intersected with
// [0, len(seq)), truncating early once the running sum falls more than
// earlyExitMargin below baseline (spec.md §4.4).
func CalcProb(m Matrix, seq []byte, pos int, baseline float64) float64 {
	l := len(m)
	sum := 0.0
	for b := pos; b < pos+l; b++ {
		if b < 0 || b >= len(seq) {
			continue
		}
		sum += m[b-pos][seqntMap[seq[b]]]
		if sum < baseline-earlyExitMargin {
			return sum
		}
	}
	return sum
}

// CalcProbDistrib evaluates CalcProb at shift pos to seed a baseline, then
// log-sum-exps every shift in [pos-L, pos+L) clamped to [0, len(seq)) into a
// single windowed log-probability (spec.md §4.4).
func CalcProbDistrib(m Matrix, seq []byte, pos int) float64 {
	l := len(m)
	baseline := CalcProb(m, seq, pos, logmath.NegInf)
	total := logmath.NegInf
	lo := pos - l
	hi := pos + l
	if lo < 0 {
		lo = 0
	}
	if hi > len(seq) {
		hi = len(seq)
	}
	for s := lo; s < hi; s++ {
		p := CalcProb(m, seq, s, baseline)
		total = logmath.LogAddExp(total, p)
		if p > baseline {
			baseline = p
		}
	}
	return total
}

// Elsewhere computes the approximate log-probability that a read originated
// from an unobserved paralogous locus (spec.md §4.4): perfect match plus any
// single-mismatch shell, scaled down for reads whose declared length exceeds
// what the CIGAR implies.
func Elsewhere(isMatch, noMatch []float64, readLen, inferredLen int) float64 {
	perfect := 0.0
	delta := make([]float64, len(isMatch))
	for i := range isMatch {
		perfect += isMatch[i]
		delta[i] = noMatch[i] - isMatch[i]
	}
	shell := logmath.LogSumExp(delta)
	elsewhere := logmath.LogAddExp(perfect, perfect+shell)
	return elsewhere - logmath.LnAlpha*float64(readLen-inferredLen)
}
