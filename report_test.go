package xenofilter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLog(t *testing.T) {
	b := &bytes.Buffer{}
	l := NewRunLog(b)
	start := time.Date(2020, 3, 5, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	require.NoError(t, l.Start(start))
	c := Counters{Records: 10, Pairs: 4, KeptUnmapped: 1, KeptAmbiguous: 2}
	require.NoError(t, l.Finish(c, start, end))

	out := b.String()
	assert.Contains(t, out, "----------\nStart time: 2020-03-05 10:00:00.000000\n")
	assert.Contains(t, out, "End time:   2020-03-05 10:01:30.000000\n")
	assert.Contains(t, out, "10 total reads\n")
	assert.Contains(t, out, "kept 1 alignment pairs out of 4  25.0000%\n")
	assert.Contains(t, out, "kept 2 ambiguous alignment pairs out of 4  50.0000%\n")
	assert.Contains(t, out, "time delta: 1m30s\n")
}

func TestRunLogZeroPairs(t *testing.T) {
	b := &bytes.Buffer{}
	l := NewRunLog(b)
	now := time.Now()
	require.NoError(t, l.Finish(Counters{}, now, now))
	assert.Contains(t, b.String(), "kept 0 alignment pairs out of 0  0.0000%\n")
}

func TestRunLogMismatch(t *testing.T) {
	b := &bytes.Buffer{}
	l := NewRunLog(b)
	require.NoError(t, l.Mismatch(&PairMismatchError{Name1: "a", Name2: "b"}))
	assert.Equal(t, "Read 1 query not equal to read 2 query\na\nb\n", b.String())
}
