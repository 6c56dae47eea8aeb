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

// Package workerpool distributes hypothesis-set evaluation jobs across a
// fixed number of goroutines and gathers their text results in natural
// sort order, replacing the reference implementation's queue-and-mutex
// design with Go channels (spec.md §4.7, §5).
package workerpool

import (
	"sort"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/eagle/internal/variant"
)

// Job is one hypothesis set awaiting evaluation.
type Job struct {
	Set variant.Set
}

// EvalFunc evaluates one hypothesis set, returning its TSV text block (or
// "" if the set produced no reads to evaluate).
type EvalFunc func(set variant.Set) (string, error)

// block pairs an evaluated job's text with the key Run uses to place it
// in the final natural-sorted stream.
type block struct {
	key  variant.Variant
	text string
}

// Run evaluates every job, using numproc worker goroutines pulling from a
// shared job channel until it drains (the "pop returns empty → exit"
// termination rule of spec.md §4.7). It blocks until all jobs are
// evaluated and returns the non-empty text blocks ordered by natural sort
// on each set's first variant — the same comparator §3 defines for
// Variant ordering.
//
// Workers do not locally recover from an evaluation error (spec.md §7):
// the first one reported is returned to the caller, which is expected to
// abort the process.
func Run(jobs []Job, numproc int, eval EvalFunc) ([]string, error) {
	if numproc < 1 {
		numproc = 1
	}
	log.Debug.Printf("workerpool: dispatching %d jobs across %d workers", len(jobs), numproc)

	jobCh := make(chan Job, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	resultCh := make(chan block, len(jobs))
	errCh := make(chan error, numproc)

	var wg sync.WaitGroup
	wg.Add(numproc)
	for i := 0; i < numproc; i++ {
		go func() {
			defer wg.Done()
			for j := range jobCh {
				text, err := eval(j.Set)
				if err != nil {
					errCh <- err
					return
				}
				if text != "" {
					resultCh <- block{key: j.Set[0], text: text}
				}
			}
		}()
	}
	wg.Wait()
	close(resultCh)
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	var blocks []block
	for b := range resultCh {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return variant.Less(blocks[i].key, blocks[j].key) })

	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.text
	}
	return out, nil
}

// Header is the fixed output header line (spec.md §6), written once by
// the caller before the sorted result blocks.
const Header = "#SEQ\tPOS\tREF\tALT\tReads\tAltReads\tProb\tOdds\tSet\n"
