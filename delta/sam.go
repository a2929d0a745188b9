package delta

import (
	"io"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/seqs"
)

// Cigar describe the alignment as match, insertion and deletion runs
func (da *DeltaAlignment) Cigar() []sam.CigarOp {
	ref, query := da.ConvertDeltaToSequences()
	var co []sam.CigarOp
	add := func(t sam.CigarOpType) {
		if n := len(co); n > 0 && co[n-1].Type() == t {
			co[n-1] = sam.NewCigarOp(t, co[n-1].Len()+1)
			return
		}
		co = append(co, sam.NewCigarOp(t, 1))
	}
	if da.SecondSequenceStart > 0 {
		co = append(co, sam.NewCigarOp(sam.CigarSoftClipped, da.SecondSequenceStart))
	}
	for i := range ref {
		switch {
		case ref[i] == Gap:
			add(sam.CigarInsertion)
		case query[i] == Gap:
			add(sam.CigarDeletion)
		default:
			add(sam.CigarMatch)
		}
	}
	if tail := da.QuerySequence.Len() - 1 - da.SecondSequenceEnd; tail > 0 {
		co = append(co, sam.NewCigarOp(sam.CigarSoftClipped, tail))
	}
	return co
}

// WriteSAM write the alignments as SAM records against refs, the query
// bases are written in reference orientation
func WriteSAM(w io.Writer, refs []*seqs.Sequence, das []*DeltaAlignment) error {
	samRefs := make([]*sam.Reference, len(refs))
	byID := make(map[string]*sam.Reference, len(refs))
	for i, r := range refs {
		ref, err := sam.NewReference(r.ID, "", "", r.Len(), nil, nil)
		if err != nil {
			return errors.Wrapf(err, "[WriteSAM] reference: %v", r.ID)
		}
		samRefs[i] = ref
		byID[r.ID] = ref
	}
	h, err := sam.NewHeader(nil, samRefs)
	if err != nil {
		return errors.Wrap(err, "[WriteSAM] header")
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return errors.Wrap(err, "[WriteSAM] writer")
	}
	for _, da := range das {
		ref, ok := byID[da.ReferenceSequenceID]
		if !ok {
			return errors.Errorf("[WriteSAM] alignment of %v on unknown reference: %v", da.QuerySequenceID, da.ReferenceSequenceID)
		}
		nm, err := sam.NewAux(sam.NewTag("NM"), da.Errors)
		if err != nil {
			return errors.Wrap(err, "[WriteSAM] NM tag")
		}
		rec, err := sam.NewRecord(da.QuerySequenceID, ref, nil, da.FirstSequenceStart, -1, 0, 255, da.Cigar(), da.QuerySequence.Seq, nil, []sam.Aux{nm})
		if err != nil {
			return errors.Wrapf(err, "[WriteSAM] record: %v", da.QuerySequenceID)
		}
		if da.QueryDirection == Reverse {
			rec.Flags |= sam.Reverse
		}
		if err := sw.Write(rec); err != nil {
			return errors.Wrapf(err, "[WriteSAM] write record: %v", da.QuerySequenceID)
		}
	}
	return nil
}
