package comparative

import (
	"github.com/mudesheng/gasm/delta"
)

// LayoutRefiner close small gaps and adjacencies between alignments sorted
// by reference start. Reference coordinates are changed in place, the order
// of the list never changes.
type LayoutRefiner struct{}

// RefineLayout walk das keeping the group of alignments overlapping the
// farthest reaching one. An adjacent alignment triggers extension of both
// sides into the unaligned read ends, a gapped one is pulled left when the
// two sides mostly share reads.
func (LayoutRefiner) RefineLayout(das []*delta.DeltaAlignment) error {
	if das == nil {
		return nilAlignments("das")
	}
	if len(das) == 0 {
		return nil
	}
	overlapping := []*delta.DeltaAlignment{das[0]}
	farthest := das[0]
	processed := 0
	for i := 0; i < len(das)-1; i++ {
		next := das[i+1]
		start := next.FirstSequenceStart
		next.FirstSequenceStart += processed
		next.FirstSequenceEnd += processed
		if next.FirstSequenceStart <= farthest.FirstSequenceEnd {
			overlapping = append(overlapping, next)
			if next.FirstSequenceEnd > farthest.FirstSequenceEnd {
				farthest = next
			}
			continue
		}
		// alignments after next are shifted when they are reached
		left := endingAt(overlapping, farthest.FirstSequenceEnd)
		right := append([]*delta.DeltaAlignment{next}, startingAt(das[i+2:], start)...)
		var offset int
		if next.FirstSequenceStart-1 == farthest.FirstSequenceEnd {
			offset = extendDeltas(left, right)
		} else if sharedReadScore(left, right) > 0 {
			offset = farthest.FirstSequenceEnd + 1 - next.FirstSequenceStart
		}
		next.FirstSequenceStart += offset
		next.FirstSequenceEnd += offset
		processed += offset
		farthest = next
		overlapping = append(overlapping[:0:0], next)
	}
	return nil
}

func endingAt(das []*delta.DeltaAlignment, end int) []*delta.DeltaAlignment {
	var arr []*delta.DeltaAlignment
	for _, da := range das {
		if da.FirstSequenceEnd >= end {
			arr = append(arr, da)
		}
	}
	return arr
}

func startingAt(das []*delta.DeltaAlignment, start int) []*delta.DeltaAlignment {
	var arr []*delta.DeltaAlignment
	for _, da := range das {
		if da.FirstSequenceStart != start {
			break
		}
		arr = append(arr, da)
	}
	return arr
}

// sharedReadScore count, for every left alignment, +1 when some right
// alignment holds the same read object and -1 for every right alignment
// seen before it
func sharedReadScore(left, right []*delta.DeltaAlignment) (score int) {
	for _, l := range left {
		for _, r := range right {
			if l.QuerySequence == r.QuerySequence {
				score++
				break
			}
			score--
		}
	}
	return score
}

var voteBases = [...]byte{'A', 'C', 'G', 'T'}

// vote return the most frequent base of syms and whether it wins clearly:
// the runner-up must not exceed half of its count
func vote(syms []byte) (base byte, ok bool) {
	var counts [len(voteBases)]int
	total := 0
	for _, c := range syms {
		for i, b := range voteBases {
			if c == b || c == b+'a'-'A' {
				counts[i]++
				total++
				break
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	first, second := -1, -1
	for i, n := range counts {
		if first < 0 || n > counts[first] {
			first, second = i, first
		} else if second < 0 || n > counts[second] {
			second = i
		}
	}
	if counts[second] > counts[first]/2 {
		return 0, false
	}
	return voteBases[first], true
}

// extendDeltas grow left alignments over the read tails and right
// alignments over the read heads. When the two extensions overlap, the
// right alignments are moved to meet the left ones and the shift is
// returned.
func extendDeltas(left, right []*delta.DeltaAlignment) int {
	var leftExt, rightExt []byte
	syms := make([]byte, 0, len(left)+len(right))
	for idx := 1; ; idx++ {
		syms = syms[:0]
		for _, da := range left {
			if p := da.SecondSequenceEnd + idx; p < da.QuerySequence.Len() {
				syms = append(syms, da.QuerySequence.Seq[p])
			}
		}
		if len(syms) == 0 {
			break
		}
		b, ok := vote(syms)
		if !ok {
			return 0
		}
		leftExt = append(leftExt, b)
	}
	for idx := 1; ; idx++ {
		syms = syms[:0]
		for _, da := range right {
			if p := da.SecondSequenceStart - idx; p >= 0 {
				syms = append(syms, da.QuerySequence.Seq[p])
			}
		}
		if len(syms) == 0 {
			break
		}
		b, ok := vote(syms)
		if !ok {
			return 0
		}
		rightExt = append(rightExt, b)
	}
	if len(leftExt) == 0 || len(rightExt) == 0 {
		return 0
	}
	// right extension was collected walking left
	for i, j := 0, len(rightExt)-1; i < j; i, j = i+1, j-1 {
		rightExt[i], rightExt[j] = rightExt[j], rightExt[i]
	}
	overlapStart := findMaxOverlap(leftExt, rightExt)
	if overlapStart < 0 {
		return 0
	}
	for _, da := range left {
		last := da.QuerySequence.Len() - 1
		da.FirstSequenceEnd += last - da.SecondSequenceEnd
		da.SecondSequenceEnd = last
	}
	offset := len(rightExt) + overlapStart
	for _, da := range right {
		da.FirstSequenceStart -= da.SecondSequenceStart
		da.SecondSequenceStart = 0
	}
	return offset
}

// findMaxOverlap return the first position of leftExt whose suffix is a
// prefix of rightExt, or -1
func findMaxOverlap(leftExt, rightExt []byte) int {
	for l := range leftExt {
		n := len(leftExt) - l
		if n > len(rightExt) {
			continue
		}
		if string(leftExt[l:]) == string(rightExt[:n]) {
			return l
		}
	}
	return -1
}
