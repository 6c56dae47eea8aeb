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

// Package vcfio reads a (reduced, tab-separated) VCF file into eagle's
// sorted candidate-variant list.
package vcfio

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/eagle/internal/variant"
)

// Read parses r as VCF input and returns every candidate variant, sorted
// naturally by chromosome then position (spec.md §6). Comma-separated REF
// and ALT fields expand into the Cartesian product of single-allele
// variants; "-" denotes the empty allele of an indel.
func Read(r io.Reader) ([]variant.Variant, error) {
	var variants []variant.Variant
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, errors.Errorf("vcfio: line %d: expected at least 5 tab-separated fields, got %d", lineNo, len(fields))
		}
		chr := fields[0]
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Errorf("vcfio: line %d: malformed position %q", lineNo, fields[1])
		}
		refs := strings.Split(fields[3], ",")
		alts := strings.Split(fields[4], ",")
		for _, ref := range refs {
			for _, alt := range alts {
				variants = append(variants, variant.Variant{Chr: chr, Pos: pos, Ref: ref, Alt: alt})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "vcfio: reading VCF")
	}
	sort.Slice(variants, func(i, j int) bool { return variant.Less(variants[i], variants[j]) })
	return variants, nil
}
