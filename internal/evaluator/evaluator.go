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

// Package evaluator implements eagle's core statistical comparison: for
// one hypothesis set, it enumerates variant combinations, scores every
// read against the reference and each combination's alternative
// sequence, mixes in heterozygous and "elsewhere" (paralogous source)
// models, and marginalizes back to one probability/odds row per variant.
package evaluator

import (
	"bytes"
	"fmt"
	"math"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/eagle/internal/altbuilder"
	"github.com/grailbio/eagle/internal/bamio"
	"github.com/grailbio/eagle/internal/logmath"
	"github.com/grailbio/eagle/internal/readmodel"
	"github.com/grailbio/eagle/internal/variant"
)

// countThreshold is the ln-odds margin (≈ ln 2) past which a read is
// counted as supporting one hypothesis over the other (spec.md §4.5
// "Counting & accumulation").
const countThreshold = 0.69

// Opts bundles the evaluator's tunable parameters, sourced from CLI flags
// (spec.md §6).
type Opts struct {
	Mvh     bool    // treat the set as a single multi-variant hypothesis
	Pao     bool    // primary alignments only: ignore secondary/supplementary reads and XA
	HetBias float64 // prior weight on heterozygosity, in [0,1]
	Maxh    int     // cap on combinations considered beyond singletons and the full set
}

// ContigFetcher resolves a contig's uppercased sequence by name; it is
// how the evaluator follows an XA multi-map entry onto a chromosome other
// than the hypothesis set's own.
type ContigFetcher func(name string) ([]byte, error)

// SpanningRegion returns the half-open region a hypothesis set's reads
// must be fetched from: the 0-based closed region spec.md §4.5 Step 1
// defines, [pos1-1, posn-1], expressed as the equivalent half-open
// [pos1-1, posn) for bamio.Fetcher.Fetch.
func SpanningRegion(set []variant.Variant) (chr string, start, end int) {
	chr = set[0].Chr
	start = set[0].Pos - 1
	end = set[len(set)-1].Pos
	return
}

// EvaluateSet scores reads against set and returns the TSV block (one
// line per variant in set, no header) described in spec.md §4.5. It
// returns "" if reads is empty.
func EvaluateSet(set []variant.Variant, reads []bamio.Read, refSeq []byte, fetchContig ContigFetcher, opts Opts) (string, error) {
	if len(reads) == 0 {
		return "", nil
	}
	n := len(set)
	setChr := set[0].Chr
	firstPos := set[0].Pos

	states := make([]*readState, 0, len(reads))
	for i := range reads {
		r := &reads[i]
		if r.Unmapped {
			continue
		}
		if opts.Pao && (r.Secondary || r.Supplementary) {
			continue
		}
		states = append(states, newReadState(r, setChr, firstPos, refSeq, fetchContig, opts.Pao))
	}
	if len(states) == 0 {
		return "", nil
	}

	ref := 0.0
	for _, st := range states {
		ref += st.prgu + logmath.RefPrior
	}

	combos := combinations(n, opts.Maxh)
	ncombos := len(combos)
	altPrior, hetPrior := priors(n, ncombos, opts.Mvh, opts.HetBias)

	alt := make([]float64, ncombos)
	het := make([]float64, ncombos)
	refCount := make([]int, ncombos)
	altCount := make([]int, ncombos)
	total := logmath.NegInf

	for ci, combo := range combos {
		vs := make([]variant.Variant, len(combo))
		for i, idx := range combo {
			vs[i] = set[idx]
		}
		altseq := altbuilder.Build(refSeq, vs)

		for _, st := range states {
			prgv := readmodel.CalcProbDistrib(st.matrix, altseq, st.read.Pos)
			for _, fold := range st.xaFolds {
				readprob := fold.refProb
				if fold.nearSet {
					readprob = readmodel.CalcProbDistrib(fold.matrix, altseq, fold.pos)
				}
				prgv = logmath.LogAddExp(prgv, readprob)
			}
			prgv = logmath.LogAddExp(logmath.LnOmega+st.pout, prgv)

			phet := math.Max(
				logmath.LogAddExp(logmath.LnHalf+prgv, logmath.LnHalf+st.prgu),
				math.Max(
					logmath.LogAddExp(logmath.Ln01+prgv, logmath.Ln09+st.prgu),
					logmath.LogAddExp(logmath.Ln09+prgv, logmath.Ln01+st.prgu),
				),
			)

			if prgv-st.prgu > countThreshold {
				altCount[ci]++
			} else if st.prgu-prgv > countThreshold {
				refCount[ci]++
			}
			alt[ci] += prgv + altPrior
			het[ci] += phet + hetPrior
		}

		total = logmath.LogAddExp(ref, logmath.LogAddExp(alt[ci], het[ci]))
	}

	readCount := maxInt(refCount) + maxInt(altCount)

	var buf bytes.Buffer
	w := tsv.NewWriter(&buf)
	for vi, v := range set {
		var hasAlt, notAlt float64 = logmath.NegInf, ref
		hasAltCount := 0
		for ci, combo := range combos {
			mix := logmath.LogAddExp(alt[ci], het[ci])
			if containsIndex(combo, vi) {
				hasAlt = logmath.LogAddExp(hasAlt, mix)
				if altCount[ci] > hasAltCount {
					hasAltCount = altCount[ci]
				}
			} else {
				notAlt = logmath.LogAddExp(notAlt, mix)
			}
		}
		prob := (hasAlt - total) * logmath.InvLn10
		odds := (hasAlt - notAlt) * logmath.InvLn10

		w.WriteString(v.Chr)
		w.WriteUint32(uint32(v.Pos))
		w.WriteString(v.Ref)
		w.WriteString(v.Alt)
		w.WriteUint32(uint32(readCount))
		w.WriteUint32(uint32(hasAltCount))
		w.WriteString(fmt.Sprintf("%e", prob))
		w.WriteString(fmt.Sprintf("%f", odds))
		w.WriteString(variant.Set(set).Descriptor())
		if err := w.EndLine(); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// readState is the per-read, per-combination-invariant cache the
// evaluator builds once (spec.md §4.5 Step 4 "on the first combination
// only"): the probability matrix, the ref/elsewhere likelihoods already
// mixed with every XA multi-map entry, and the XA folds themselves
// (re-evaluated against each combination's altseq only when they land
// near the hypothesis set).
type readState struct {
	read    *bamio.Read
	matrix  readmodel.Matrix
	prgu    float64
	pout    float64
	xaFolds []xaFold
}

type xaFold struct {
	pos     int
	matrix  readmodel.Matrix
	refProb float64
	nearSet bool
}

func newReadState(r *bamio.Read, setChr string, firstPos int, refSeq []byte, fetchContig ContigFetcher, pao bool) *readState {
	qual := convertQual(r.Qual)
	matrix, isMatch, noMatch := readmodel.Build(r.Qseq, qual)
	elsewhere := readmodel.Elsewhere(isMatch, noMatch, len(r.Qseq), r.InferredLength)

	var folds []xaFold
	if !pao && r.Multimap != "" && fetchContig != nil {
		for _, e := range bamio.ParseXA(r.Multimap) {
			xaSeq, err := fetchContig(e.Chr)
			if err != nil {
				continue // unresolvable XA entry: ignore per spec.md §7
			}
			mQseq, mIsMatch, mNoMatch := r.Qseq, isMatch, noMatch
			xaReverse := e.Pos < 0
			if xaReverse != r.Reverse {
				mQseq, mIsMatch, mNoMatch = readmodel.ReverseComplement(r.Qseq, isMatch, noMatch)
			}
			xaMatrix := readmodel.BuildFromComponents(mQseq, mIsMatch, mNoMatch)
			pos := absInt(e.Pos) - 1
			refProb := readmodel.CalcProbDistrib(xaMatrix, xaSeq, pos)
			folds = append(folds, xaFold{
				pos:     pos,
				matrix:  xaMatrix,
				refProb: refProb,
				nearSet: e.Chr == setChr && absInt(pos-firstPos) < 50,
			})
		}
	}

	pout := elsewhere
	prgu := readmodel.CalcProbDistrib(matrix, refSeq, r.Pos)
	for _, fold := range folds {
		pout = logmath.LogAddExp(pout, elsewhere)
		prgu = logmath.LogAddExp(prgu, fold.refProb)
	}
	prgu = logmath.LogAddExp(logmath.LnOmega+pout, prgu)

	return &readState{read: r, matrix: matrix, prgu: prgu, pout: pout, xaFolds: folds}
}

// convertQual turns raw Phred quality bytes into eagle's Phred/-10
// convention (spec.md §3, §4.4).
func convertQual(qual []byte) []float64 {
	out := make([]float64, len(qual))
	for i, q := range qual {
		out[i] = -float64(q) / 10
	}
	return out
}

// combination is an ordered, ascending list of indices into a hypothesis
// set, naming one enumerated subset.
type combination = []int

// combinations enumerates subsets of {0,...,n-1} in the order spec.md
// §4.5 Step 2 requires: all singletons, then the full set, then
// ascending sizes 2..n-1 in lexicographic order, stopping once
// len(out)-n-1 reaches maxh. mvh changes only how priors() weighs these
// combinations (spec.md §4.5 Step 3, eagle.c's powerset enumeration
// itself is not conditioned on mvh), so it has no effect here.
func combinations(n, maxh int) []combination {
	if n == 1 {
		return []combination{{0}}
	}
	out := make([]combination, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, combination{i})
	}
	full := make(combination, n)
	for i := range full {
		full[i] = i
	}
	out = append(out, full)
	for size := 2; size < n; size++ {
		for _, c := range combosOfSize(n, size) {
			if len(out)-n-1 >= maxh {
				return out
			}
			out = append(out, c)
		}
	}
	return out
}

// combosOfSize returns every size-length subset of {0,...,n-1} in
// ascending lexicographic order.
func combosOfSize(n, size int) []combination {
	var out []combination
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		c := make(combination, size)
		copy(c, idx)
		out = append(out, c)

		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// priors computes alt_prior and het_prior (spec.md §4.5 Step 3).
func priors(n, ncombos int, mvh bool, hetBias float64) (altPrior, hetPrior float64) {
	if n == 1 || mvh {
		return math.Log(0.5 * (1 - hetBias)), math.Log(0.5 * hetBias)
	}
	return math.Log(0.5 * (1 - hetBias) / float64(ncombos)), math.Log(0.5 * hetBias / float64(ncombos))
}

func containsIndex(combo combination, vi int) bool {
	for _, i := range combo {
		if i == vi {
			return true
		}
	}
	return false
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
