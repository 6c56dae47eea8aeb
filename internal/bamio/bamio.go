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

// Package bamio fetches aligned reads from a BAM file by region, adapting
// biogo/hts sam.Record values into eagle's Read model.
package bamio

import (
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/errors"
)

// Read is eagle's read-model view of one BAM record (spec.md §3).
type Read struct {
	Name           string
	Chr            string
	Tid            int
	Pos            int // 0-based leftmost mapped position
	Qseq           []byte
	Qual           []byte // Phred scores, one per base of Qseq
	Unmapped       bool
	Reverse        bool
	Secondary      bool
	Supplementary  bool
	Cigar          sam.Cigar
	InferredLength int
	Multimap       string // raw XA tag value, "" if absent
}

// Fetcher opens a BAM file and its .bai index once and serves region
// queries against it. It is not safe for concurrent use by multiple
// goroutines; callers that want region fetches in parallel open one
// Fetcher per worker (spec.md §5, "one BAM file handle per worker").
type Fetcher struct {
	reader *bam.Reader
	index  *bam.Index
	file   *os.File
}

// Open opens bamPath and its companion index (bamPath+".bai" unless
// baiPath is given explicitly).
func Open(bamPath, baiPath string) (*Fetcher, error) {
	if baiPath == "" {
		baiPath = bamPath + ".bai"
	}
	f, err := os.Open(bamPath)
	if err != nil {
		return nil, errors.Wrap(err, "bamio: opening BAM file")
	}
	reader, err := bam.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "bamio: reading BAM header")
	}
	idxFile, err := os.Open(baiPath)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "bamio: opening BAM index")
	}
	defer idxFile.Close()
	idx, err := bam.ReadIndex(idxFile)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "bamio: reading BAM index")
	}
	return &Fetcher{reader: reader, index: idx, file: f}, nil
}

// Close releases the underlying file handle.
func (fr *Fetcher) Close() error {
	return fr.file.Close()
}

// Fetch returns every read overlapping the half-open region
// [start, end) on chr. Reads whose mapping coordinate lies outside the
// region, once the index seek lands before it, are filtered out; there
// is no guarantee about ordering beyond file order.
func (fr *Fetcher) Fetch(chr string, start, end int) ([]Read, error) {
	ref, ok := findRef(fr.reader.Header(), chr)
	if !ok {
		return nil, errors.Errorf("bamio: reference %q not present in BAM header", chr)
	}

	chunks, err := fr.index.Chunks(ref, start, end)
	if err == index.ErrInvalid || len(chunks) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "bamio: locating index chunks")
	}
	if err := fr.reader.Seek(chunks[0].Begin); err != nil {
		return nil, errors.Wrap(err, "bamio: seeking to region")
	}

	var reads []Read
	for {
		rec, err := fr.reader.Read()
		if err != nil {
			break // EOF or end of available chunks; either way, we're done.
		}
		if rec.Ref == nil || rec.Ref.ID() != ref.ID() {
			if reads != nil || rec.Pos >= end {
				break
			}
			continue
		}
		if rec.Pos >= end {
			break
		}
		if rec.Pos+refSpan(rec.Cigar) <= start {
			continue
		}
		reads = append(reads, toRead(rec))
	}
	return reads, nil
}

func findRef(h *sam.Header, chr string) (*sam.Reference, bool) {
	for _, r := range h.Refs() {
		if r.Name() == chr {
			return r, true
		}
	}
	return nil, false
}

func toRead(rec *sam.Record) Read {
	r := Read{
		Name:           rec.Name,
		Pos:            rec.Pos,
		Qual:           append([]byte(nil), rec.Qual...),
		Unmapped:       rec.Flags&sam.Unmapped != 0,
		Reverse:        rec.Flags&sam.Reverse != 0,
		Secondary:      rec.Flags&sam.Secondary != 0,
		Supplementary:  rec.Flags&sam.Supplementary != 0,
		Cigar:          rec.Cigar,
		InferredLength: inferredLength(rec.Cigar, len(rec.Seq.Expand())),
	}
	if rec.Ref != nil {
		r.Chr = rec.Ref.Name()
		r.Tid = rec.Ref.ID()
	}
	r.Qseq = upperBases(rec.Seq.Expand())
	if aux := rec.AuxFields.Get(sam.NewTag("XA")); aux != nil {
		if s, ok := aux.Value().(string); ok {
			r.Multimap = s
		}
	}
	return r
}

// inferredLength returns the query length implied by the CIGAR string:
// the sum of M/I/S/=/X op lengths, which may differ from len(seq) only
// when the record is itself malformed.
func inferredLength(cigar sam.Cigar, seqLen int) int {
	n := 0
	consumesQuery := false
	for _, op := range cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarEqual, sam.CigarMismatch:
			n += op.Len()
			consumesQuery = true
		}
	}
	if !consumesQuery {
		return seqLen
	}
	return n
}

// refSpan returns the number of reference bases the CIGAR consumes
// (M/D/N/=/X ops), used to test whether a record overlaps a region.
func refSpan(cigar sam.Cigar) int {
	n := 0
	for _, op := range cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarDeletion, sam.CigarSkipped, sam.CigarEqual, sam.CigarMismatch:
			n += op.Len()
		}
	}
	return n
}

func upperBases(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out[i] = b
	}
	return out
}

// XAEntry is one parsed alignment from a BWA XA tag.
type XAEntry struct {
	Chr     string
	Pos     int // signed: negative means the alignment is on the reverse strand
	Cigar   string
	NM      int
}

// ParseXA parses a raw XA tag value ("chr,pos,cigar,NM;chr,pos,cigar,NM;...",
// optionally prefixed with a "Z" type byte, which ParseXA strips itself)
// into its semicolon-separated entries. Malformed entries are skipped
// rather than failing the whole parse, per spec.md §7's "ignore
// unparseable auxiliary data" policy.
func ParseXA(raw string) []XAEntry {
	raw = strings.TrimPrefix(raw, "Z")
	var entries []XAEntry
	for _, tok := range strings.Split(raw, ";") {
		if tok == "" {
			continue
		}
		fields := strings.Split(tok, ",")
		if len(fields) != 4 {
			continue
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		nm, err := strconv.Atoi(fields[3])
		if err != nil {
			continue
		}
		entries = append(entries, XAEntry{Chr: fields[0], Pos: pos, Cigar: fields[2], NM: nm})
	}
	return entries
}
