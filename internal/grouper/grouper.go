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

// Package grouper forms hypothesis sets from a sorted variant list: nearby
// variants on the same chromosome are grouped so the evaluator can consider
// their combinations jointly, and any set containing two variants at the
// same position is split so that each emitted set is a single consistent
// haplotype pattern.
package grouper

import "github.com/grailbio/eagle/internal/variant"

// Group walks variants (already sorted by chr, then pos) and returns
// hypothesis sets: a new set starts whenever the chromosome changes or the
// gap to the previous variant exceeds distlim. distlim == 0 makes every set
// a singleton.
func Group(variants []variant.Variant, distlim int) []variant.Set {
	if len(variants) == 0 {
		return nil
	}
	var sets []variant.Set
	cur := variant.Set{variants[0]}
	for i := 1; i < len(variants); i++ {
		v := variants[i]
		prev := variants[i-1]
		if distlim > 0 && v.Chr == prev.Chr && v.Pos-prev.Pos <= distlim {
			cur = append(cur, v)
			continue
		}
		sets = append(sets, cur)
		cur = variant.Set{v}
	}
	sets = append(sets, cur)
	return splitSamePosition(sets)
}

// splitSamePosition repeatedly splits any set containing two consecutive
// variants at an identical position into two independent sets, one per
// alternative, until no set has same-position duplicates (spec.md §4.6).
// The worklist is processed FIFO in discovery order; per spec.md §9 this
// makes the exact partition for 3+-way same-position ties
// implementation-defined but deterministic.
func splitSamePosition(sets []variant.Set) []variant.Set {
	var out []variant.Set
	pending := append([]variant.Set(nil), sets...)
	for len(pending) > 0 {
		s := pending[0]
		pending = pending[1:]

		idx := samePositionIndex(s)
		if idx < 0 {
			out = append(out, s)
			continue
		}
		without := make(variant.Set, 0, len(s)-1)
		without = append(without, s[:idx]...)
		without = append(without, s[idx+1:]...)

		dup := make(variant.Set, 0, len(s)-1)
		dup = append(dup, s[:idx+1]...)
		dup = append(dup, s[idx+2:]...)

		pending = append(pending, without, dup)
	}
	return out
}

// samePositionIndex returns the index of the first of a pair of
// consecutive same-position variants in s, or -1 if none exist.
func samePositionIndex(s variant.Set) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i].Pos == s[i+1].Pos {
			return i
		}
	}
	return -1
}
