// Package delta holds the gapped alignment records produced by aligning
// reads against a reference and the aligners that produce them.
package delta

import (
	"strconv"

	"github.com/mudesheng/gasm/seqs"
)

const (
	Forward = "FORWARD"
	Reverse = "REVERSE"
	Gap     = '-'
)

// DeltaAlignment is one gapped alignment of a query region to a reference
// region. Coordinates are zero-based and closed. The query coordinates
// refer to QuerySequence, which is the reverse complement of the read when
// QueryDirection is Reverse.
type DeltaAlignment struct {
	ReferenceSequence   *seqs.Sequence
	QuerySequence       *seqs.Sequence
	ReferenceSequenceID string
	QuerySequenceID     string
	QueryDirection      string
	FirstSequenceStart  int
	FirstSequenceEnd    int
	SecondSequenceStart int
	SecondSequenceEnd   int
	Errors              int
	SimilarityErrors    int
	NonAlphas           int
	// positive: insertion in the reference, negative: insertion in the
	// query; each value is the distance from the previous delta
	Deltas []int
}

// NewDeltaAlignment create an alignment of query[qs:qs+length] to
// ref[rs:rs+length]
func NewDeltaAlignment(ref, query *seqs.Sequence, direction string, rs, qs, length int) *DeltaAlignment {
	return &DeltaAlignment{
		ReferenceSequence:   ref,
		QuerySequence:       query,
		ReferenceSequenceID: ref.ID,
		QuerySequenceID:     query.ID,
		QueryDirection:      direction,
		FirstSequenceStart:  rs,
		FirstSequenceEnd:    rs + length - 1,
		SecondSequenceStart: qs,
		SecondSequenceEnd:   qs + length - 1,
	}
}

// IsFullQuery report whether the alignment reaches the last query base
func (da *DeltaAlignment) IsFullQuery() bool {
	return da.SecondSequenceEnd == da.QuerySequence.Len()-1
}

// ConvertDeltaToSequences render the aligned reference and query regions
// with Gap inserted at the delta positions
func (da *DeltaAlignment) ConvertDeltaToSequences() (ref, query []byte) {
	ref = append(ref, da.ReferenceSequence.Seq[da.FirstSequenceStart:da.FirstSequenceEnd+1]...)
	query = append(query, da.QuerySequence.Seq[da.SecondSequenceStart:da.SecondSequenceEnd+1]...)
	gap := 0
	for _, d := range da.Deltas {
		if d < 0 {
			gap -= d
			ref = insertGap(ref, gap-1)
		} else {
			gap += d
			query = insertGap(query, gap-1)
		}
	}
	return ref, query
}

func insertGap(s []byte, pos int) []byte {
	if pos > len(s) {
		pos = len(s)
	}
	s = append(s, 0)
	copy(s[pos+1:], s[pos:])
	s[pos] = Gap
	return s
}

func (da *DeltaAlignment) String() string {
	return da.ReferenceSequenceID + ":" + strconv.Itoa(da.FirstSequenceStart) + "-" + strconv.Itoa(da.FirstSequenceEnd) +
		" " + da.QuerySequenceID + ":" + strconv.Itoa(da.SecondSequenceStart) + "-" + strconv.Itoa(da.SecondSequenceEnd) +
		" " + da.QueryDirection
}

// Flatten join alignment groups in order
func Flatten(groups [][]*DeltaAlignment) []*DeltaAlignment {
	var arr []*DeltaAlignment
	for _, g := range groups {
		arr = append(arr, g...)
	}
	return arr
}
