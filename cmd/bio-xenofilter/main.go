// Copyright 2020 Grail Inc.
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
bio-xenofilter isolates graft-origin reads from a xenograft BAM in which
the sample (e.g. human) was aligned against the host reference (e.g.
mouse). Pairs aligning cleanly to the host are dropped; unmapped and
ambiguously mapped pairs are re-emitted as paired FASTQ, either to
<prefix>_1.fq.gz / <prefix>_2.fq.gz or to stdout/stderr for piping.

The input BAM must be unsorted (name-grouped, as produced by the
aligner) so that mates are adjacent. Accepts a file or BAM piped from
samtools on stdin.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/xenofilter"
)

var (
	bamPath     = flag.String("b", "-", "Input BAM (unsorted); '-' reads from stdin")
	output      = flag.String("o", "", "Output prefix, e.g. Human -> Human_1.fq.gz and Human_2.fq.gz. If empty, mate-1 records go to stdout and mate-2 records to stderr")
	compression = flag.Int("c", 4, "Gzip compression level for -o outputs")
	sample      = flag.String("s", "xenofilter", "Sample prefix for the run summary log")
	mismatches  = flag.Int("n", -1, "Number of allowed mismatches per read (required, >= 0)")
	sampleType  = flag.String("t", "", "Sample type, DNA or RNA (required)")
)

func bioXenofilterUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioXenofilterUsage
	shutdown := grail.Init()
	defer shutdown()

	if len(os.Args) == 1 {
		flag.Usage()
		os.Exit(1)
	}
	if *mismatches < 0 {
		log.Fatalf("-n is required and must be >= 0")
	}
	stype, err := xenofilter.ParseSampleType(*sampleType)
	if err != nil {
		log.Fatalf("-t: %v", err)
	}
	ctx := vcontext.Background()

	logPath := *sample + ".runlog.txt"
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("open %s: %v", logPath, err)
	}
	runlog := xenofilter.NewRunLog(logFile)

	var in io.Reader = os.Stdin
	if *bamPath != "-" {
		f, err := file.Open(ctx, *bamPath)
		if err != nil {
			log.Fatalf("open %s: %v", *bamPath, err)
		}
		defer f.Close(ctx)
		in = f.Reader(ctx)
	}
	src, err := xenofilter.NewBAMIterator(in)
	if err != nil {
		log.Fatalf("read %s: %v", *bamPath, err)
	}

	var (
		out     xenofilter.PairWriter
		fileOut *xenofilter.FilePairWriter
	)
	if *output != "" {
		if fileOut, err = xenofilter.NewFilePairWriter(ctx, *output, *compression); err != nil {
			log.Fatalf("create %s outputs: %v", *output, err)
		}
		out = fileOut
	} else {
		out = xenofilter.NewStreamPairWriter(os.Stdout, os.Stderr)
	}

	start := time.Now()
	if err := runlog.Start(start); err != nil {
		log.Fatalf("write %s: %v", logPath, err)
	}
	filter := &xenofilter.Filter{
		Src: src,
		Out: out,
		Opts: xenofilter.Opts{
			MaxEditDistance: *mismatches,
			SampleType:      stype,
		},
	}
	counters, runErr := filter.Run()
	if runErr != nil {
		if e, ok := runErr.(*xenofilter.PairMismatchError); ok {
			_ = runlog.Mismatch(e)
		}
		log.Fatalf("filter: %v", runErr)
	}
	if err := src.Close(); err != nil {
		log.Fatalf("close input: %v", err)
	}
	if fileOut != nil {
		if err := fileOut.Close(ctx); err != nil {
			log.Fatalf("close outputs: %v", err)
		}
	}
	end := time.Now()
	if err := runlog.Finish(counters, start, end); err != nil {
		log.Fatalf("write %s: %v", logPath, err)
	}
	if err := logFile.Close(); err != nil {
		log.Fatalf("close %s: %v", logPath, err)
	}
	log.Printf("kept %d of %d pairs (%d unmapped, %d ambiguous) from %d records in %s",
		counters.KeptUnmapped+counters.KeptAmbiguous, counters.Pairs,
		counters.KeptUnmapped, counters.KeptAmbiguous, counters.Records, end.Sub(start))
}
