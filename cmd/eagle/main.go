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
package main

/*
eagle evaluates candidate genomic variants by comparing a reference
hypothesis against alternative hypotheses derived from aligned short-read
sequencing data, reporting per-variant probability and log-odds.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/eagle/internal/bamio"
	"github.com/grailbio/eagle/internal/eagleerr"
	"github.com/grailbio/eagle/internal/evaluator"
	"github.com/grailbio/eagle/internal/grouper"
	"github.com/grailbio/eagle/internal/refcache"
	"github.com/grailbio/eagle/internal/vcfio"
	"github.com/grailbio/eagle/internal/variant"
	"github.com/grailbio/eagle/internal/workerpool"
)

var (
	vcfPath  string
	bamPath  string
	refPath  string
	outPath  string
	numproc  int
	distlim  int
	maxh     int
	mvh      bool
	hetbias  float64
	pao      bool
	debug    bool
)

func init() {
	flag.StringVar(&vcfPath, "v", "", "VCF input file (required)")
	flag.StringVar(&vcfPath, "vcf", "", "VCF input file (required)")
	flag.StringVar(&bamPath, "a", "", "coordinate-sorted, indexed BAM input file (required)")
	flag.StringVar(&bamPath, "bam", "", "coordinate-sorted, indexed BAM input file (required)")
	flag.StringVar(&refPath, "r", "", "FASTA reference with companion .fai index (required)")
	flag.StringVar(&refPath, "ref", "", "FASTA reference with companion .fai index (required)")
	flag.StringVar(&outPath, "o", "", "output file (default: standard output)")
	flag.StringVar(&outPath, "out", "", "output file (default: standard output)")
	flag.IntVar(&numproc, "t", 1, "number of worker goroutines")
	flag.IntVar(&numproc, "numproc", 1, "number of worker goroutines")
	flag.IntVar(&distlim, "n", 10, "max distance (bases) between grouped variants; 0 disables grouping")
	flag.IntVar(&distlim, "distlim", 10, "max distance (bases) between grouped variants; 0 disables grouping")
	flag.IntVar(&maxh, "m", 1024, "cap on combinations considered beyond singletons and the full set")
	flag.IntVar(&maxh, "maxh", 1024, "cap on combinations considered beyond singletons and the full set")
	flag.BoolVar(&mvh, "mvh", false, "treat each hypothesis set as a single multi-variant hypothesis")
	flag.Float64Var(&hetbias, "b", 0.5, "prior weight on heterozygosity, in [0,1]")
	flag.Float64Var(&hetbias, "hetbias", 0.5, "prior weight on heterozygosity, in [0,1]")
	flag.BoolVar(&pao, "pao", false, "primary alignments only: ignore secondary/supplementary reads and XA")
	flag.BoolVar(&debug, "debug", false, "verbose per-read diagnostics to the error stream")
}

func eagleUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] -v <vcf> -a <bam> -r <fasta>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = eagleUsage
	shutdown := grail.Init()
	defer shutdown()

	if err := validateOpts(); err != nil {
		eagleUsage()
		log.Fatalf("%v", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("%v", eagleerr.New(eagleerr.MissingInput, err))
		}
		defer f.Close()
		out = f
	}

	if err := run(out); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}

func validateOpts() error {
	if vcfPath == "" || bamPath == "" || refPath == "" {
		return eagleerr.Newf(eagleerr.BadOption, "eagle: -v/--vcf, -a/--bam, and -r/--ref are all required")
	}
	if hetbias < 0 || hetbias > 1 {
		return eagleerr.Newf(eagleerr.BadOption, "eagle: -b/--hetbias must be in [0,1], got %v", hetbias)
	}
	if numproc < 1 {
		return eagleerr.Newf(eagleerr.BadOption, "eagle: -t/--numproc must be >= 1, got %v", numproc)
	}
	return nil
}

func run(out *os.File) error {
	vcfFile, err := os.Open(vcfPath)
	if err != nil {
		return eagleerr.New(eagleerr.MissingInput, err)
	}
	defer vcfFile.Close()
	variants, err := vcfio.Read(vcfFile)
	if err != nil {
		return eagleerr.New(eagleerr.MalformedVCF, err)
	}
	log.Printf("eagle: loaded %d variants from %s", len(variants), vcfPath)

	// Fail fast on a BAM/index we can't open at all, rather than only
	// discovering it inside the first worker job.
	probe, err := bamio.Open(bamPath, "")
	if err != nil {
		return eagleerr.New(eagleerr.BamOpen, err)
	}
	probe.Close()

	sets := grouper.Group(variants, distlim)
	log.Printf("eagle: formed %d hypothesis sets", len(sets))

	cache := refcache.New()
	opts := evaluator.Opts{Mvh: mvh, Pao: pao, HetBias: hetbias, Maxh: maxh}

	jobs := make([]workerpool.Job, len(sets))
	for i, s := range sets {
		jobs[i] = workerpool.Job{Set: s}
	}

	eval := func(set variant.Set) (string, error) {
		chr, start, end := evaluator.SpanningRegion(set)

		fetcher, err := bamio.Open(bamPath, "")
		if err != nil {
			return "", eagleerr.New(eagleerr.BamOpen, err)
		}
		defer fetcher.Close()
		reads, err := fetcher.Fetch(chr, start, end)
		if err != nil {
			return "", eagleerr.New(eagleerr.BamOpen, err)
		}

		contig, err := cache.Fetch(chr, refPath)
		if err != nil {
			return "", eagleerr.New(eagleerr.ContigNotPresent, err)
		}

		fetchContig := func(name string) ([]byte, error) {
			c, err := cache.Fetch(name, refPath)
			if err != nil {
				return nil, err
			}
			return c.Seq, nil
		}

		if debug {
			log.Debug.Printf("eagle: evaluating set %v (%d reads)", set, len(reads))
		}
		return evaluator.EvaluateSet(set, reads, contig.Seq, fetchContig, opts)
	}

	blocks, err := workerpool.Run(jobs, numproc, eval)
	if err != nil {
		return err
	}

	if _, err := out.WriteString(workerpool.Header); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := out.WriteString(b); err != nil {
			return err
		}
	}
	return nil
}
