package fasta

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// indexEntry is one parsed line of a samtools-style .fai index:
// http://www.htslib.org/doc/faidx.html.
type indexEntry struct {
	name      string
	length    uint64
	offset    uint64
	lineBase  uint64 // bases per line
	lineWidth uint64 // bytes per line, including the line terminator
}

// parseIndex reads a .fai index (five tab-separated fields per line: NAME,
// LENGTH, OFFSET, LINEBASES, LINEWIDTH) and returns one indexEntry per
// sequence, in file order.
func parseIndex(r io.Reader) ([]indexEntry, error) {
	var entries []indexEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, errors.Errorf("fasta: malformed .fai line: %q", line)
		}
		length, err1 := strconv.ParseUint(fields[1], 10, 64)
		offset, err2 := strconv.ParseUint(fields[2], 10, 64)
		lineBase, err3 := strconv.ParseUint(fields[3], 10, 64)
		lineWidth, err4 := strconv.ParseUint(fields[4], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, errors.Errorf("fasta: malformed .fai line: %q", line)
		}
		entries = append(entries, indexEntry{
			name:      fields[0],
			length:    length,
			offset:    offset,
			lineBase:  lineBase,
			lineWidth: lineWidth,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: reading .fai index")
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("fasta: empty .fai index")
	}
	return entries, nil
}
