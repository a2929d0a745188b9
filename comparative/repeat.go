// Package comparative assembles reads against a reference: reads are
// aligned, repeats resolved with mate pairs, the layout refined and a
// consensus called over the covered regions.
package comparative

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/delta"
	"github.com/mudesheng/gasm/matepair"
)

var ErrNilAlignments = errors.New("alignments must not be nil")

func nilAlignments(param string) error {
	return errors.Wrapf(ErrNilAlignments, "parameter: %s", param)
}

func allFull(group []*delta.DeltaAlignment) bool {
	for _, da := range group {
		if !da.IsFullQuery() {
			return false
		}
	}
	return true
}

// RepeatResolver pick one placement for reads aligned at several places,
// using the alignments of their mates
type RepeatResolver struct {
	Libraries config.CloneLibraries
}

func NewRepeatResolver(libs config.CloneLibraries) *RepeatResolver {
	return &RepeatResolver{Libraries: libs}
}

// ResolveAmbiguity take alignments grouped per read and return the kept
// alignments. Groups with one alignment or with a partial alignment are
// kept whole, as are groups whose read carries no mate metadata or whose
// mate cannot decide. A resolved pair emits the two matching alignments and
// consumes the mate's group.
func (rr *RepeatResolver) ResolveAmbiguity(groups [][]*delta.DeltaAlignment) ([]*delta.DeltaAlignment, error) {
	if groups == nil {
		return nil, nilAlignments("groups")
	}
	work := make([][]*delta.DeltaAlignment, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			work = append(work, g)
		}
	}
	var result []*delta.DeltaAlignment
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		if len(cur) == 1 || !allFull(cur) {
			result = append(result, cur...)
			continue
		}
		mi, ok := matepair.ParseID(cur[0].QuerySequenceID)
		if !ok {
			result = append(result, cur...)
			continue
		}
		mateIdx := -1
		for i, g := range work {
			if other, ok := matepair.ParseID(g[0].QuerySequenceID); ok && mi.IsMate(other) {
				mateIdx = i
				break
			}
		}
		if mateIdx < 0 {
			result = append(result, cur...)
			continue
		}
		pair := rr.resolve(cur, work[mateIdx], mi.Library)
		if pair == nil {
			result = append(result, cur...)
			continue
		}
		work = append(work[:mateIdx:mateIdx], work[mateIdx+1:]...)
		result = append(result, pair...)
	}
	return result, nil
}

// resolve return the first alignment pair whose distance lies within one
// standard deviation of the library mean
func (rr *RepeatResolver) resolve(cur, mate []*delta.DeltaAlignment, library string) []*delta.DeltaAlignment {
	if !allFull(mate) {
		return nil
	}
	lib, ok := rr.Libraries.Lookup(library)
	if !ok {
		return nil
	}
	for _, a := range cur {
		for _, b := range mate {
			dist := math.Abs(float64(a.FirstSequenceStart - b.FirstSequenceEnd))
			if math.Abs(dist-lib.InsertSize) <= lib.InsertSD {
				return []*delta.DeltaAlignment{a, b}
			}
		}
	}
	return nil
}
