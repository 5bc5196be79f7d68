package xenofilter

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// NewRecordSeq constructs a record for tests. qual is given in FASTQ
// ASCII (phred+33) form and stored as raw phred, the way the decoder
// delivers it.
func NewRecordSeq(name string, ref *sam.Reference, flags sam.Flags, tempLen int,
	cigar sam.Cigar, seq, qual string) *sam.Record {
	if len(seq) != len(qual) {
		panic("seq and qual must be equal length")
	}
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Flags = flags
	r.TempLen = tempLen
	r.Cigar = cigar
	r.Seq = sam.NewSeq([]byte(seq))
	r.Qual = make([]byte, len(qual))
	for i := 0; i < len(qual); i++ {
		r.Qual[i] = qual[i] - 33
	}
	return r
}

// NewAux creates an aux field, panicking on error.
func NewAux(name string, val interface{}) sam.Aux {
	aux, err := sam.NewAux(sam.NewTag(name), val)
	if err != nil {
		panic(fmt.Sprintf("error creating %s %v tag: %v", name, val, err))
	}
	return aux
}

// fakeIterator yields canned records, for unittests.
type fakeIterator struct {
	recs []*sam.Record
	rec  *sam.Record
}

// NewFakeIterator returns a RecordIterator yielding recs in order.
func NewFakeIterator(recs []*sam.Record) RecordIterator {
	return &fakeIterator{recs: recs}
}

func (i *fakeIterator) Scan() bool {
	if len(i.recs) == 0 {
		return false
	}
	i.rec = i.recs[0]
	i.recs = i.recs[1:]
	return true
}

func (i *fakeIterator) Record() *sam.Record { return i.rec }
func (i *fakeIterator) Err() error          { return nil }
func (i *fakeIterator) Close() error        { return nil }
