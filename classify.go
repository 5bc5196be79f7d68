package xenofilter

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// Outcome is the classification of one mate pair. Outcomes are computed
// per pair and consumed immediately; they are never persisted.
type Outcome int

const (
	// Discard marks a pair that aligned cleanly and confidently to the
	// host reference. It is dropped from the output.
	Discard Outcome = iota
	// KeepUnmapped marks a pair with both mates unmapped, presumed to
	// originate entirely from the graft.
	KeepUnmapped
	// KeepAmbiguous marks a pair that is mapped but not cleanly so.
	// It is retained for downstream reanalysis.
	KeepAmbiguous
)

func (o Outcome) String() string {
	switch o {
	case Discard:
		return "discard"
	case KeepUnmapped:
		return "keep-unmapped"
	case KeepAmbiguous:
		return "keep-ambiguous"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// SampleType selects the pairing criteria for the sequencing prep.
type SampleType int

const (
	// DNA preps constrain the template length of a well-mated pair.
	DNA SampleType = iota
	// RNA preps skip the template-length check, since spliced fragment
	// sizes are not genomically constrained the same way.
	RNA
)

// ParseSampleType parses "DNA" or "RNA".
func ParseSampleType(s string) (SampleType, error) {
	switch s {
	case "DNA":
		return DNA, nil
	case "RNA":
		return RNA, nil
	}
	return DNA, fmt.Errorf("unknown sample type %q, want DNA or RNA", s)
}

// Opts configures pair classification.
type Opts struct {
	// MaxEditDistance is the largest per-read edit distance (inclusive)
	// at which an alignment still counts as clean.
	MaxEditDistance int
	// SampleType is the sequencing prep of the input, DNA or RNA.
	SampleType SampleType
}

// insertWindow bounds abs(template length) for a DNA pair to count as
// well mated. Template lengths at or above the window are treated as
// discordant placements.
const insertWindow = 500

// editDistanceTags are the conventional aux tags carrying edit
// distance, tried in order: NM (bwa family, per read) then nM (STAR
// family, per pair). Only an upper bound matters here, so the two are
// treated as equivalent.
var editDistanceTags = []sam.Tag{{'N', 'M'}, {'n', 'M'}}

// Classify decides the outcome for one mate pair.
//
// A pair with both mates unmapped is always kept. A pair is discarded
// only when it is not fully unmapped, both mates are placed together on
// one reference, and both alignments are perfect full-length matches
// within the edit-distance budget. Everything else is kept as
// ambiguous; in particular a half-mapped pair can never be discarded.
func Classify(r1, r2 *sam.Record, opts Opts) Outcome {
	if isUnmapped(r1) && isUnmapped(r2) {
		return KeepUnmapped
	}
	if bothMapped(r1, r2) && mated(r1, r2, opts.SampleType) && perfectAlignment(r1, r2, opts.MaxEditDistance) {
		return Discard
	}
	return KeepAmbiguous
}

// bothMapped is really "not both unmapped": a half-mapped pair
// satisfies it and falls through to the ambiguous branch. Kept with the
// historical name so the discard condition reads as in the original
// policy.
func bothMapped(r1, r2 *sam.Record) bool {
	return !(isUnmapped(r1) && isUnmapped(r2))
}

// mated reports whether the two mates are placed together: same
// reference always, and for DNA preps a template length within the
// insert window (strictly below 500).
func mated(r1, r2 *sam.Record, stype SampleType) bool {
	if r1.Ref.ID() != r2.Ref.ID() {
		return false
	}
	if stype == DNA {
		return abs(r1.TempLen) < insertWindow
	}
	return true
}

// perfectAlignment reports whether both mates are single full-length
// matches with edit distance within max. A record carrying neither
// conventional edit tag fails the predicate, which biases the pair
// toward retention rather than discard.
func perfectAlignment(r1, r2 *sam.Record, max int) bool {
	return fullLengthMatch(r1) && fullLengthMatch(r2) &&
		withinEditDistance(r1, max) && withinEditDistance(r2, max)
}

func fullLengthMatch(r *sam.Record) bool {
	return len(r.Cigar) == 1 && r.Cigar[0].Type() == sam.CigarMatch
}

func withinEditDistance(r *sam.Record, max int) bool {
	nm, ok := editDistance(r)
	return ok && nm <= max
}

// editDistance returns the record's edit distance from the first
// conventional tag present, or false if the record carries neither.
func editDistance(r *sam.Record) (int, bool) {
	for _, tag := range editDistanceTags {
		if aux := r.AuxFields.Get(tag); aux != nil {
			return auxInt(aux)
		}
	}
	return 0, false
}

// auxInt widens any of the SAM integer aux value types.
func auxInt(aux sam.Aux) (int, bool) {
	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
