package xenofilter

import (
	"fmt"
)

// complement maps each base to its complement, uppercasing as it goes.
// Bytes outside {A,C,G,T,N,a,c,g,t,n} map to zero so that malformed
// sequences are detected instead of silently rewritten.
var complement [256]byte

func init() {
	for _, bc := range []struct{ base, comp byte }{
		{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}, {'N', 'N'},
		{'a', 'T'}, {'c', 'G'}, {'g', 'C'}, {'t', 'A'}, {'n', 'N'},
	} {
		complement[bc.base] = bc.comp
	}
}

// ReverseComplement returns the reverse complement of seq and the
// reversal of the parallel quality string. Aligners store mapped reads
// in reference orientation; reads mapped to the reverse strand must be
// flipped back before FASTQ emission. Quality values are reversed only,
// never transformed.
//
// It returns an error if seq contains a base outside ACGTN.
func ReverseComplement(seq, qual []byte) ([]byte, []byte, error) {
	n := len(seq)
	rcSeq := make([]byte, n)
	for i, b := range seq {
		c := complement[b]
		if c == 0 {
			return nil, nil, fmt.Errorf("unexpected base %q in sequence %q", b, seq)
		}
		rcSeq[n-1-i] = c
	}
	rQual := make([]byte, len(qual))
	for i, q := range qual {
		rQual[len(qual)-1-i] = q
	}
	return rcSeq, rQual, nil
}
