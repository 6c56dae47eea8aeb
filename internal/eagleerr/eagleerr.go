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

// Package eagleerr enumerates eagle's fatal error kinds (spec.md §7).
// Every kind is process-fatal: there is no local recovery path, so the
// CLI wraps these with context and exits nonzero.
package eagleerr

import "github.com/grailbio/base/errors"

// Kind classifies a fatal error for the CLI's exit-code and diagnostic
// handling.
type Kind int

const (
	// BadOption is an unknown or out-of-range CLI flag.
	BadOption Kind = iota
	// MissingInput is a required file that could not be opened.
	MissingInput
	// MalformedVCF is a VCF line with too few fields.
	MalformedVCF
	// MalformedFaidx is a .fai index line with too few fields.
	MalformedFaidx
	// ContigNotPresent is a FASTA index lacking a requested contig.
	ContigNotPresent
	// BamOpen is a failure to open a BAM file.
	BamOpen
	// BamIndex is a failure to open or parse a BAM index.
	BamIndex
)

func (k Kind) String() string {
	switch k {
	case BadOption:
		return "bad option"
	case MissingInput:
		return "missing input"
	case MalformedVCF:
		return "malformed VCF"
	case MalformedFaidx:
		return "malformed FASTA index"
	case ContigNotPresent:
		return "contig not present"
	case BamOpen:
		return "BAM open failure"
	case BamIndex:
		return "BAM index failure"
	default:
		return "unknown error"
	}
}

// Error is a fatal eagle error: a Kind plus the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err as a fatal error of the given kind. If err is nil, New
// returns nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Newf builds a fatal error of the given kind from a format string,
// matching github.com/grailbio/base/errors.Errorf's call convention.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}
