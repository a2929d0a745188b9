package delta

import (
	"sort"

	"github.com/exascience/pargo/parallel"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/seqs"
	"github.com/mudesheng/gasm/utils"
)

// Parameters of a maximal-match aligner
type Parameters struct {
	LengthOfMUM       int     // shortest exact match used as anchor
	BreakLength       int     // longest unmatched run bridged inside one alignment
	MaximumSeparation int     // longest run that may hold an indel
	SeparationFactor  float64 // indel length allowed per bridged base
	MinimumScore      int     // least number of matched bases of an alignment
	FixedSeparation   int     // indel length always allowed
}

func DefaultParameters() Parameters {
	return Parameters{LengthOfMUM: 20, BreakLength: 1, MinimumScore: 1}
}

// Aligner align queries to one reference and return the alignments of
// every query that aligned, grouped per query in query order
type Aligner interface {
	GetDeltaAlignments(ref *seqs.Sequence, queries []*seqs.Sequence) [][]*DeltaAlignment
}

// ExactMatchAligner anchor alignments on maximal exact matches of at least
// LengthOfMUM bases on both strands and chain the anchors of one query
// into gapped alignments
type ExactMatchAligner struct {
	Parameters
	NumCPU int
}

func NewExactMatchAligner(p Parameters, numCPU int) *ExactMatchAligner {
	return &ExactMatchAligner{Parameters: p, NumCPU: numCPU}
}

type match struct {
	r, q, length int
}

func (m match) rEnd() int { return m.r + m.length - 1 }
func (m match) qEnd() int { return m.q + m.length - 1 }

type seedIndex map[string][]int

func buildIndex(ref []byte, seedLen int) seedIndex {
	index := make(seedIndex)
	for i := 0; i+seedLen <= len(ref); i++ {
		key := string(ref[i : i+seedLen])
		index[key] = append(index[key], i)
	}
	return index
}

// findMatches return the left and right maximal exact matches of query in
// ref at least seedLen long, ordered by query then reference position
func findMatches(ref, query []byte, index seedIndex, seedLen int) []match {
	var arr []match
	for q := 0; q+seedLen <= len(query); q++ {
		for _, r := range index[string(query[q:q+seedLen])] {
			if q > 0 && r > 0 && query[q-1] == ref[r-1] {
				continue
			}
			n := seedLen
			for q+n < len(query) && r+n < len(ref) && query[q+n] == ref[r+n] {
				n++
			}
			arr = append(arr, match{r: r, q: q, length: n})
		}
	}
	return arr
}

type cluster struct {
	matches []match
	score   int
}

// accept report whether m can follow the last match of c, m is trimmed
// when it overlaps that match
func (p *Parameters) accept(c *cluster, m match) (match, bool) {
	last := c.matches[len(c.matches)-1]
	qGap, rGap := m.q-last.qEnd()-1, m.r-last.rEnd()-1
	if ov := -utils.MinInt(qGap, rGap); ov > 0 {
		if ov >= m.length {
			return m, false
		}
		m = match{r: m.r + ov, q: m.q + ov, length: m.length - ov}
		qGap, rGap = qGap+ov, rGap+ov
	}
	if qGap == rGap {
		return m, qGap <= p.BreakLength
	}
	minGap, maxGap := utils.MinInt(qGap, rGap), utils.MaxInt(qGap, rGap)
	if minGap > p.BreakLength || maxGap > p.MaximumSeparation {
		return m, false
	}
	return m, maxGap-minGap <= p.FixedSeparation+int(p.SeparationFactor*float64(maxGap))
}

func (p *Parameters) clusters(matches []match) []*cluster {
	var cs []*cluster
	for _, m := range matches {
		var found *cluster
		for _, c := range cs {
			if tm, ok := p.accept(c, m); ok {
				found, m = c, tm
				break
			}
		}
		if found == nil {
			found = &cluster{}
			cs = append(cs, found)
		}
		found.matches = append(found.matches, m)
		found.score += m.length
	}
	return cs
}

func isBase(c byte) bool {
	return bnt.Base2Bnt[c] < bnt.BaseTypeNum
}

// newAlignment turn a chain of matches into one DeltaAlignment, bridged
// runs of equal length are substitutions, the extra bases of the longer run
// become deltas placed before them
func newAlignment(ref, query *seqs.Sequence, direction string, c *cluster) *DeltaAlignment {
	first, last := c.matches[0], c.matches[len(c.matches)-1]
	da := NewDeltaAlignment(ref, query, direction, first.r, first.q, 1)
	da.FirstSequenceEnd = last.rEnd()
	da.SecondSequenceEnd = last.qEnd()
	col, prevDelta := first.length, 0
	for i := 1; i < len(c.matches); i++ {
		prev, m := c.matches[i-1], c.matches[i]
		qGap, rGap := m.q-prev.qEnd()-1, m.r-prev.rEnd()-1
		for j := 0; j < rGap-qGap; j++ {
			da.Deltas = append(da.Deltas, col+1-prevDelta)
			prevDelta = col + 1
			col++
		}
		for j := 0; j < qGap-rGap; j++ {
			da.Deltas = append(da.Deltas, -(col + 1 - prevDelta))
			prevDelta = col + 1
			col++
		}
		subs := utils.MinInt(qGap, rGap)
		da.SimilarityErrors += subs
		da.Errors += subs + utils.AbsInt(rGap-qGap)
		for j := 0; j < qGap; j++ {
			if !isBase(query.Seq[prev.qEnd()+1+j]) {
				da.NonAlphas++
			}
		}
		col += subs + m.length
	}
	return da
}

// GetDeltaAlignments implement Aligner
func (a *ExactMatchAligner) GetDeltaAlignments(ref *seqs.Sequence, queries []*seqs.Sequence) [][]*DeltaAlignment {
	if a.LengthOfMUM <= 0 {
		return nil
	}
	index := buildIndex(ref.Seq, a.LengthOfMUM)
	groups := make([][]*DeltaAlignment, len(queries))
	parallel.Range(0, len(queries), a.NumCPU, func(low, high int) {
		for i := low; i < high; i++ {
			groups[i] = a.alignQuery(ref, queries[i], index)
		}
	})
	var out [][]*DeltaAlignment
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func (a *ExactMatchAligner) alignQuery(ref, query *seqs.Sequence, index seedIndex) []*DeltaAlignment {
	var arr []*DeltaAlignment
	rc := query.ReverseComplement()
	for _, direction := range []string{Forward, Reverse} {
		q := query
		if direction == Reverse {
			if string(rc.Seq) == string(query.Seq) {
				break
			}
			q = rc
		}
		for _, c := range a.clusters(findMatches(ref.Seq, q.Seq, index, a.LengthOfMUM)) {
			if c.score >= a.MinimumScore {
				arr = append(arr, newAlignment(ref, q, direction, c))
			}
		}
	}
	sort.SliceStable(arr, func(i, j int) bool { return arr[i].FirstSequenceStart < arr[j].FirstSequenceStart })
	return arr
}
