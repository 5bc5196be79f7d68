// Package xenofilter classifies paired alignments from a xenograft
// sample that was aligned to the host-organism reference. Pairs that
// align cleanly to the host are dropped; everything else, including
// fully unmapped pairs, is presumed to originate from the graft and is
// re-emitted as paired FASTQ for downstream realignment.
//
// The package consumes sam.Records through a RecordIterator in stream
// order, assembles consecutive primary records into mate pairs,
// classifies each pair, and writes the kept pairs through a PairWriter
// (two gzip files, or stdout/stderr for shell piping). Processing is
// strictly sequential: the two output files are defined by positional
// line-pairing, so pair order must match input order.
package xenofilter
