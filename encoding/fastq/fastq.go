// Package fastq reads and writes 4-line FASTQ records.
package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ stream is encountered.
	ErrShort = errors.New("short FASTQ stream")
	// ErrInvalid is returned when an invalid FASTQ stream is encountered.
	ErrInvalid = errors.New("invalid FASTQ stream")
	// ErrDiscordant is returned when two underlying FASTQ streams have
	// different numbers of reads.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// A Read is one FASTQ record: an ID line (including the leading "@"),
// the sequence, line 3 ("unknown"), and the quality string.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Name returns the read ID with the leading "@" stripped.
func (r *Read) Name() string {
	if len(r.ID) > 0 && r.ID[0] == '@' {
		return r.ID[1:]
	}
	return r.ID
}

var (
	atSign   = []byte{'@'}
	plusLine = []byte{'+', '\n'}
	newline  = []byte{'\n'}
	errEOF   = errors.New("eof")
)

// Writer emits FASTQ records. Errors are sticky: after the first write
// failure all subsequent Writes are no-ops returning the same error, so
// callers may check the error once per record.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a Writer that emits records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits one 4-line record for the read with the given name (without
// the leading "@"), sequence and quality. Seq and qual must already be in
// read-as-sequenced orientation and FASTQ (phred+33) quality encoding.
func (w *Writer) Write(name string, seq, qual []byte) error {
	w.write(atSign)
	w.writeString(name)
	w.write(newline)
	w.write(seq)
	w.write(newline)
	w.write(plusLine)
	w.write(qual)
	w.write(newline)
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Err returns the first error encountered by the writer, if any.
func (w *Writer) Err() error { return w.err }

// Scanner reads FASTQ records sequentially. The Scan method fills the
// next read, returning a boolean indicating whether the read succeeded.
// Scanners are not threadsafe.
//
// Scanner validates only the line structure: ID lines must begin with
// "@" and line 3 with "+". It does not check that seq and qual have
// equal length or contain in-range data.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a Scanner reading raw FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan reads the next record into read. Once Scan returns false, it
// never returns true again; the caller should then check Err to
// distinguish end of stream from a real error.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	read.ID = string(id)
	if !s.scan() {
		return false
	}
	read.Seq = s.b.Text()
	if !s.scan() {
		return false
	}
	unk := s.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	read.Unk = string(unk)
	if !s.scan() {
		return false
	}
	read.Qual = s.b.Text()
	return true
}

func (s *Scanner) scan() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner composes two Scanners over parallel mate-1 and mate-2
// streams. Paired FASTQ files are defined by positional line-pairing, so
// the two streams must contain the same number of reads.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a PairScanner from the R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next read pair into r1, r2. Once Scan returns false it
// never returns true again; check Err afterwards.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked after
// Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
