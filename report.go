package xenofilter

import (
	"fmt"
	"io"
	"time"
)

// timeLayout matches the runlog's historical timestamp format.
const timeLayout = "2006-01-02 15:04:05.000000"

// RunLog appends run summaries to the per-sample log artifact. Each run
// contributes a divider and start line up front and the counter summary
// at completion, so an aborted run still leaves its start marker.
type RunLog struct {
	w io.Writer
}

// NewRunLog returns a RunLog writing to w.
func NewRunLog(w io.Writer) *RunLog {
	return &RunLog{w: w}
}

// Start records the beginning of a run.
func (l *RunLog) Start(t time.Time) error {
	_, err := fmt.Fprintf(l.w, "----------\nStart time: %s\n", t.Format(timeLayout))
	return err
}

// Mismatch records the query names of a fatal pair mismatch before the
// run aborts.
func (l *RunLog) Mismatch(e *PairMismatchError) error {
	_, err := fmt.Fprintf(l.w, "Read 1 query not equal to read 2 query\n%s\n%s\n", e.Name1, e.Name2)
	return err
}

// Finish records the end-of-run summary: total records consumed, kept
// pair counts with percentages, and the wall-clock delta.
func (l *RunLog) Finish(c Counters, start, end time.Time) error {
	_, err := fmt.Fprintf(l.w,
		"End time:   %s\n"+
			"%d total reads\n"+
			"kept %d alignment pairs out of %d  %.4f%%\n"+
			"kept %d ambiguous alignment pairs out of %d  %.4f%%\n"+
			"time delta: %s\n",
		end.Format(timeLayout),
		c.Records,
		c.KeptUnmapped, c.Pairs, pct(c.KeptUnmapped, c.Pairs),
		c.KeptAmbiguous, c.Pairs, pct(c.KeptAmbiguous, c.Pairs),
		end.Sub(start))
	return err
}

func pct(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
