package xenofilter

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
)

var (
	chr1, _ = sam.NewReference("chr1", "", "", 100000, nil, nil)
	chr2, _ = sam.NewReference("chr2", "", "", 100000, nil, nil)
	// Registering the references in a header assigns their IDs.
	header, _ = sam.NewHeader(nil, []*sam.Reference{chr1, chr2})

	r1F  = sam.Paired | sam.Read1
	r2F  = sam.Paired | sam.Read2
	up1  = sam.Paired | sam.Read1 | sam.Unmapped | sam.MateUnmapped
	up2  = sam.Paired | sam.Read2 | sam.Unmapped | sam.MateUnmapped
	h1   = sam.Paired | sam.Read1 | sam.Unmapped
	sec1 = sam.Paired | sam.Read1 | sam.Secondary
	sec2 = sam.Paired | sam.Read2 | sam.Secondary
	sup1 = sam.Paired | sam.Read1 | sam.Supplementary

	cigar4M = sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 4)}
	cigar1S3M = sam.Cigar{
		sam.NewCigarOp(sam.CigarSoftClipped, 1),
		sam.NewCigarOp(sam.CigarMatch, 3),
	}
)

// cleanPair builds a same-reference, full-length-match pair with the
// given edit-distance tag on both mates.
func cleanPair(tag string, editDistance, tempLen int) (*sam.Record, *sam.Record) {
	r1 := NewRecordSeq("pair1", chr1, r1F, tempLen, cigar4M, "AACG", "EEEE")
	r2 := NewRecordSeq("pair1", chr1, r2F, -tempLen, cigar4M, "CGTT", "EEEE")
	if tag != "" {
		r1.AuxFields = append(r1.AuxFields, NewAux(tag, editDistance))
		r2.AuxFields = append(r2.AuxFields, NewAux(tag, editDistance))
	}
	return r1, r2
}

var dnaOpts = Opts{MaxEditDistance: 2, SampleType: DNA}

func TestClassifyBothUnmapped(t *testing.T) {
	// Both-unmapped pairs are kept regardless of any other field.
	r1 := NewRecordSeq("pair1", nil, up1, 0, nil, "AACG", "EEEE")
	r2 := NewRecordSeq("pair1", nil, up2, 0, nil, "CGTT", "EEEE")
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepUnmapped)

	// Even with clean-looking cigars and tags.
	r1.Cigar = cigar4M
	r2.Cigar = cigar4M
	r1.AuxFields = append(r1.AuxFields, NewAux("NM", 0))
	r2.AuxFields = append(r2.AuxFields, NewAux("NM", 0))
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepUnmapped)
}

func TestClassifyHalfMapped(t *testing.T) {
	// A half-mapped pair is never discarded, however clean the mapped
	// mate looks.
	r1 := NewRecordSeq("pair1", nil, h1, 0, nil, "AACG", "EEEE")
	r2 := NewRecordSeq("pair1", chr1, r2F, 100, cigar4M, "CGTT", "EEEE")
	r2.AuxFields = append(r2.AuxFields, NewAux("NM", 0))
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)
	expect.EQ(t, Classify(r2, r1, dnaOpts), KeepAmbiguous)
}

func TestClassifyCleanPair(t *testing.T) {
	r1, r2 := cleanPair("NM", 0, 300)
	expect.EQ(t, Classify(r1, r2, dnaOpts), Discard)
}

func TestClassifyInsertWindow(t *testing.T) {
	for _, test := range []struct {
		tempLen int
		want    Outcome
	}{
		{499, Discard},
		{-499, Discard},
		{500, KeepAmbiguous},
		{-500, KeepAmbiguous},
		{501, KeepAmbiguous},
	} {
		r1, r2 := cleanPair("NM", 0, test.tempLen)
		expect.EQ(t, Classify(r1, r2, dnaOpts), test.want, "tempLen", test.tempLen)
	}
}

func TestClassifySampleType(t *testing.T) {
	// RNA fragment sizes are not constrained, so the insert window only
	// applies to DNA preps.
	r1, r2 := cleanPair("NM", 0, 20000)
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)
	expect.EQ(t, Classify(r1, r2, Opts{MaxEditDistance: 2, SampleType: RNA}), Discard)
}

func TestClassifyDifferentReferences(t *testing.T) {
	r1, r2 := cleanPair("NM", 0, 300)
	r2.Ref = chr2
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)
	expect.EQ(t, Classify(r1, r2, Opts{MaxEditDistance: 2, SampleType: RNA}), KeepAmbiguous)
}

func TestClassifyEditDistance(t *testing.T) {
	// The threshold is inclusive.
	r1, r2 := cleanPair("NM", 2, 300)
	expect.EQ(t, Classify(r1, r2, dnaOpts), Discard)
	r1, r2 = cleanPair("NM", 3, 300)
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)

	// STAR-style nM works the same way.
	r1, r2 = cleanPair("nM", 2, 300)
	expect.EQ(t, Classify(r1, r2, dnaOpts), Discard)

	// A pair carrying neither conventional tag is retained, even with a
	// clean full-length match.
	r1, r2 = cleanPair("", 0, 300)
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)

	// One tagged mate is not enough.
	r1, r2 = cleanPair("", 0, 300)
	r1.AuxFields = append(r1.AuxFields, NewAux("NM", 0))
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)
}

func TestClassifyCigar(t *testing.T) {
	// Soft clipping breaks the full-length-match requirement.
	r1, r2 := cleanPair("NM", 0, 300)
	r1.Cigar = cigar1S3M
	expect.EQ(t, Classify(r1, r2, dnaOpts), KeepAmbiguous)
}

func TestParseSampleType(t *testing.T) {
	got, err := ParseSampleType("DNA")
	expect.NoError(t, err)
	expect.EQ(t, got, DNA)
	got, err = ParseSampleType("RNA")
	expect.NoError(t, err)
	expect.EQ(t, got, RNA)
	_, err = ParseSampleType("rna")
	expect.True(t, err != nil)
}
