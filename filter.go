package xenofilter

// Counters accumulates the accounting for one filtering pass. A fresh
// value is produced per run and handed to the run reporter; there is no
// process-wide mutable state.
type Counters struct {
	// Records is the number of alignment records consumed, including
	// skipped secondary and supplementary records.
	Records int64
	// Pairs is the number of mate pairs evaluated.
	Pairs int64
	// KeptUnmapped counts pairs kept because both mates were unmapped.
	KeptUnmapped int64
	// KeptAmbiguous counts pairs kept because they were mapped but not
	// cleanly aligned.
	KeptAmbiguous int64
}

// Filter is one filtering pass over an alignment stream: assemble mate
// pairs, classify each, and emit the kept pairs through Out. Pairs are
// processed one at a time in stream order, so the emitted files pair up
// line-positionally.
type Filter struct {
	Src  RecordIterator
	Out  PairWriter
	Opts Opts
}

// Run consumes the whole stream and returns the final counters. The
// counters reflect the work done up to the point of any error. Fatal
// conditions (pair mismatch, truncated stream, write failure) abort the
// pass; already-written output is not rolled back.
func (f *Filter) Run() (Counters, error) {
	var c Counters
	it := NewPairIterator(f.Src)
	for it.Scan() {
		p := it.Pair()
		c.Pairs++
		switch Classify(p.R1, p.R2, f.Opts) {
		case Discard:
			// Clean, well-placed host alignment. Not of interest.
		case KeepUnmapped:
			if err := f.Out.WritePair(p.R1, p.R2); err != nil {
				c.Records = it.NumRecords()
				return c, err
			}
			c.KeptUnmapped++
		case KeepAmbiguous:
			if err := f.Out.WritePair(p.R1, p.R2); err != nil {
				c.Records = it.NumRecords()
				return c, err
			}
			c.KeptAmbiguous++
		}
	}
	c.Records = it.NumRecords()
	return c, it.Err()
}
