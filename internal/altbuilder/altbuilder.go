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

// Package altbuilder constructs an alternative reference sequence by
// applying an ordered list of variants to a reference slice.
package altbuilder

import "github.com/grailbio/eagle/internal/variant"

// Build applies variants, which must be sorted by ascending Pos, to ref and
// returns the resulting alternative sequence. ref is never mutated; Build
// always returns a new slice (even for an empty variant list, to keep
// callers from aliasing the cache's reference bytes).
func Build(ref []byte, variants []variant.Variant) []byte {
	alt := append([]byte(nil), ref...)
	offset := 0
	for _, v := range variants {
		refEff, altEff := v.Ref, v.Alt
		p := v.Pos - 1 + offset
		if refEff == "-" {
			p++
			refEff = ""
		}
		if altEff == "-" {
			altEff = ""
		}
		delta := len(altEff) - len(refEff)
		offset += delta

		if delta == 0 {
			copy(alt[p:p+len(altEff)], altEff)
			continue
		}

		end := p + len(refEff)
		spliced := make([]byte, 0, len(alt)+delta)
		spliced = append(spliced, alt[:p]...)
		spliced = append(spliced, altEff...)
		spliced = append(spliced, alt[end:]...)
		alt = spliced
	}
	return alt
}
