package xenofilter

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/xenofilter/encoding/fastq"
	"github.com/klauspost/compress/gzip"
)

// PairWriter emits one FASTQ record per mate of a kept pair. Mate-1
// records always go to the first destination and mate-2 records to the
// second; no record is ever split across destinations.
type PairWriter interface {
	WritePair(r1, r2 *sam.Record) error
}

// StreamPairWriter writes mate-1 records to one stream and mate-2
// records to another, typically os.Stdout and os.Stderr so the two can
// be separated with shell redirection.
type StreamPairWriter struct {
	w1, w2 *fastq.Writer
}

// NewStreamPairWriter returns a StreamPairWriter over w1 and w2.
func NewStreamPairWriter(w1, w2 io.Writer) *StreamPairWriter {
	return &StreamPairWriter{w1: fastq.NewWriter(w1), w2: fastq.NewWriter(w2)}
}

// WritePair implements PairWriter.
func (w *StreamPairWriter) WritePair(r1, r2 *sam.Record) error {
	if err := writeRead(w.w1, r1); err != nil {
		return err
	}
	return writeRead(w.w2, r2)
}

// FilePairWriter writes the kept pairs to <prefix>_1.fq.gz and
// <prefix>_2.fq.gz.
type FilePairWriter struct {
	w1, w2   *fastq.Writer
	gz1, gz2 *gzip.Writer
	f1, f2   file.File
}

// NewFilePairWriter creates the two gzip-compressed FASTQ outputs for
// prefix at the given compression level. Close must be called exactly
// once at normal completion so the gzip trailers are written.
func NewFilePairWriter(ctx context.Context, prefix string, level int) (*FilePairWriter, error) {
	w := &FilePairWriter{}
	var err error
	if w.f1, err = file.Create(ctx, prefix+"_1.fq.gz"); err != nil {
		return nil, err
	}
	if w.f2, err = file.Create(ctx, prefix+"_2.fq.gz"); err != nil {
		_ = w.f1.Close(ctx)
		return nil, err
	}
	if w.gz1, err = gzip.NewWriterLevel(w.f1.Writer(ctx), level); err != nil {
		return nil, errors.E(err, "gzip level", level)
	}
	if w.gz2, err = gzip.NewWriterLevel(w.f2.Writer(ctx), level); err != nil {
		return nil, errors.E(err, "gzip level", level)
	}
	w.w1 = fastq.NewWriter(w.gz1)
	w.w2 = fastq.NewWriter(w.gz2)
	return w, nil
}

// WritePair implements PairWriter.
func (w *FilePairWriter) WritePair(r1, r2 *sam.Record) error {
	if err := writeRead(w.w1, r1); err != nil {
		return err
	}
	return writeRead(w.w2, r2)
}

// Close flushes and closes both outputs.
func (w *FilePairWriter) Close(ctx context.Context) error {
	err := errors.Once{}
	err.Set(w.gz1.Close())
	err.Set(w.gz2.Close())
	err.Set(w.f1.Close(ctx))
	err.Set(w.f2.Close(ctx))
	return err.Err()
}

// writeRead emits one record in read-as-sequenced orientation. Records
// mapped to the reverse strand are stored reverse-complemented, so they
// are flipped back here.
func writeRead(w *fastq.Writer, r *sam.Record) error {
	seq := r.Seq.Expand()
	qual := asciiQual(r.Qual)
	if isReverse(r) {
		var err error
		if seq, qual, err = ReverseComplement(seq, qual); err != nil {
			return errors.E(err, "read", r.Name)
		}
	}
	return w.Write(r.Name, seq, qual)
}

// asciiQual converts raw phred scores to FASTQ (phred+33) encoding.
func asciiQual(qual []byte) []byte {
	out := make([]byte, len(qual))
	for i, q := range qual {
		out[i] = q + 33
	}
	return out
}
