package xenofilter

import (
	"fmt"
	"io"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// RecordIterator yields alignment records in stream order until
// exhaustion. It is the forward-only subset of the usual provider
// iterator contract: Scan advances and reports whether a record is
// available, Record returns it, Err reports any decode error with
// io.EOF translated to nil, and Close must be called exactly once.
type RecordIterator interface {
	Scan() bool
	Record() *sam.Record
	Err() error
	Close() error
}

type bamIterator struct {
	reader *bam.Reader
	rec    *sam.Record
	err    error
}

// NewBAMIterator returns a RecordIterator over the BAM stream in r,
// yielding records in on-disk order. r may be a file or a pipe; no
// index is required.
func NewBAMIterator(r io.Reader) (RecordIterator, error) {
	reader, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, err
	}
	return &bamIterator{reader: reader}, nil
}

func (i *bamIterator) Scan() bool {
	if i.err != nil {
		return false
	}
	i.rec, i.err = i.reader.Read()
	return i.err == nil
}

func (i *bamIterator) Record() *sam.Record { return i.rec }

func (i *bamIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

func (i *bamIterator) Close() error {
	err := i.Err()
	if cerr := i.reader.Close(); err == nil {
		err = cerr
	}
	return err
}

// PairMismatchError reports two consecutive primary records whose query
// names disagree. The input is not name-grouped as required, so the run
// aborts rather than emitting mispaired output.
type PairMismatchError struct {
	Name1, Name2 string
}

func (e *PairMismatchError) Error() string {
	return fmt.Sprintf("read 1 query not equal to read 2 query: %q vs %q", e.Name1, e.Name2)
}

// TruncatedPairError reports a stream that ended after a mate-1
// candidate but before its mate arrived. This is an unexpected
// termination, distinct from a clean end of stream.
type TruncatedPairError struct {
	Name string
}

func (e *TruncatedPairError) Error() string {
	return fmt.Sprintf("alignment stream ended before the mate of %q", e.Name)
}

// Pair is a validated mate pair: two primary records with equal query
// names, in stream order.
type Pair struct {
	R1, R2 *sam.Record
}

// PairIterator assembles consecutive records from a RecordIterator into
// mate pairs. It is lazy, forward-only and not restartable. Secondary
// and supplementary records are skipped per the rules below; a pair is
// only ever formed from adjacent surviving records.
type PairIterator struct {
	src   RecordIterator
	pair  Pair
	nrecs int64
	err   error
	done  bool
	first bool
}

// NewPairIterator returns a PairIterator reading from src. The caller
// remains responsible for closing src.
func NewPairIterator(src RecordIterator) *PairIterator {
	return &PairIterator{src: src, first: true}
}

// next pulls one record, counting every record consumed, including the
// skipped ones.
func (it *PairIterator) next() (*sam.Record, bool) {
	if !it.src.Scan() {
		it.err = it.src.Err()
		return nil, false
	}
	it.nrecs++
	return it.src.Record(), true
}

// Scan advances to the next mate pair. It returns false at the end of
// the stream or on error; check Err afterwards. End of stream while
// looking for a mate-1 candidate is a clean end; end of stream between
// a mate-1 candidate and its mate is a TruncatedPairError.
func (it *PairIterator) Scan() bool {
	if it.err != nil || it.done {
		return false
	}
	r1, ok := it.next()
	if !it.first {
		// Move past any purely secondary records trailing the
		// previous pair.
		for ok && isSecondary(r1) {
			r1, ok = it.next()
		}
	}
	it.first = false
	for ok && ((isSecondary(r1) && !isRead1(r1)) || isSupplementary(r1)) {
		r1, ok = it.next()
	}
	if !ok {
		it.done = true
		return false
	}
	r2, ok := it.next()
	for ok && ((isSecondary(r2) && !isRead2(r2)) || isSupplementary(r2)) {
		r2, ok = it.next()
	}
	if !ok {
		if it.err == nil {
			it.err = &TruncatedPairError{Name: r1.Name}
		}
		it.done = true
		return false
	}
	if r1.Name != r2.Name {
		it.err = &PairMismatchError{Name1: r1.Name, Name2: r2.Name}
		return false
	}
	it.pair = Pair{R1: r1, R2: r2}
	return true
}

// Pair returns the pair found by the last successful Scan.
func (it *PairIterator) Pair() Pair { return it.pair }

// NumRecords returns the number of records consumed so far, including
// skipped secondary and supplementary records.
func (it *PairIterator) NumRecords() int64 { return it.nrecs }

// Err returns the error that terminated iteration, or nil after a clean
// end of stream.
func (it *PairIterator) Err() error { return it.err }

func isSecondary(r *sam.Record) bool     { return r.Flags&sam.Secondary != 0 }
func isSupplementary(r *sam.Record) bool { return r.Flags&sam.Supplementary != 0 }
func isRead1(r *sam.Record) bool         { return r.Flags&sam.Read1 != 0 }
func isRead2(r *sam.Record) bool         { return r.Flags&sam.Read2 != 0 }
func isUnmapped(r *sam.Record) bool      { return r.Flags&sam.Unmapped != 0 }
func isReverse(r *sam.Record) bool       { return r.Flags&sam.Reverse != 0 }
