package scaffold

import (
	"math"
	"sort"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/matepair"
	"github.com/mudesheng/gasm/seqs"
)

// Link is the oriented contig pair A -> B suggested by mate pairs
type Link struct {
	A, B OrientedContig
}

// normalize return the same link read from the contig with smaller ID
func (l Link) normalize() Link {
	if l.A.ID > l.B.ID {
		return Link{A: l.B.Flip(), B: l.A.Flip()}
	}
	return l
}

// ValidMatePair is one mate pair supporting a link, Gap is the estimated
// number of bases between the end of A and the start of B
type ValidMatePair struct {
	Info matepair.MateInfo
	Gap  float64
	SD   float64
}

// ContigMatePairs group the supporting mate pairs by link
type ContigMatePairs map[Link][]ValidMatePair

// Links return the links ordered by contig IDs
func (cmp ContigMatePairs) Links() []Link {
	arr := make([]Link, 0, len(cmp))
	for l := range cmp {
		arr = append(arr, l)
	}
	sort.Slice(arr, func(i, j int) bool {
		a, b := arr[i], arr[j]
		if a.A != b.A {
			return lessOC(a.A, b.A)
		}
		return lessOC(a.B, b.B)
	})
	return arr
}

func lessOC(a, b OrientedContig) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Forward && !b.Forward
}

// Distance return the mean gap and standard deviation of the supporting
// pairs of l
func (cmp ContigMatePairs) Distance(l Link) (gap, sd float64) {
	pairs := cmp[l]
	if len(pairs) == 0 {
		return 0, 0
	}
	for _, p := range pairs {
		gap += p.Gap
		sd += p.SD
	}
	return gap / float64(len(pairs)), sd / float64(len(pairs))
}

// FilterByRedundancy drop links supported by fewer than redundancy pairs
func (cmp ContigMatePairs) FilterByRedundancy(redundancy int) ContigMatePairs {
	kept := make(ContigMatePairs)
	for l, pairs := range cmp {
		if len(pairs) >= redundancy {
			kept[l] = pairs
		}
	}
	return kept
}

// toHits convert read placements to mate-pair hits
func toHits(maps [][]ReadMap) [][]matepair.Hit {
	hits := make([][]matepair.Hit, len(maps))
	for i, arr := range maps {
		for _, m := range arr {
			hits[i] = append(hits[i], matepair.Hit{Target: m.Contig, Start: m.Start, End: m.Start + m.Length - 1, Forward: m.Forward})
		}
	}
	return hits
}

// CalculateMatePairs classify every pair and collect the pairs that place
// their reads uniquely on two different contigs. The F read fixes the
// orientation of its contig, the R read is expected on the opposite strand.
// Pairs of libraries not found in libs are skipped.
func CalculateMatePairs(contigs, reads []*seqs.Sequence, maps [][]ReadMap, libs config.CloneLibraries) (ContigMatePairs, map[matepair.PairedReadType]int) {
	ids := make([]string, len(reads))
	for i, r := range reads {
		ids[i] = r.ID
	}
	cmp := make(ContigMatePairs)
	stats := make(map[matepair.PairedReadType]int)
	for _, p := range matepair.CollectPairs(ids, toHits(maps)) {
		t := matepair.Classify(p, libs)
		stats[t]++
		if t != matepair.Chimera {
			continue
		}
		lib, ok := libs.Lookup(p.Info.Library)
		if !ok {
			continue
		}
		h1, h2 := p.Hits1[0], p.Hits2[0]
		lenA, lenB := contigs[h1.Target].Len(), contigs[h2.Target].Len()
		oa, ob := h1.Forward, !h2.Forward
		startA := h1.Start
		if !oa {
			startA = lenA - 1 - h1.End
		}
		endB := h2.End
		if !ob {
			endB = lenB - 1 - h2.Start
		}
		gap := lib.InsertSize - float64(lenA-startA) - float64(endB+1)
		l := Link{A: OrientedContig{ID: h1.Target, Forward: oa}, B: OrientedContig{ID: h2.Target, Forward: ob}}.normalize()
		cmp[l] = append(cmp[l], ValidMatePair{Info: p.Info, Gap: gap, SD: lib.InsertSD})
	}
	return cmp, stats
}

// pathGap return the number of bases between the end of the first contig
// and the start of the last one when the path is laid out with k-1 overlaps
func pathGap(g *ContigGraph, path ScaffoldPath) float64 {
	gap := 0
	for _, oc := range path[1 : len(path)-1] {
		gap += g.Contigs[oc.ID].Len()
	}
	gap -= (len(path) - 1) * (g.Kmerlen - 1)
	return float64(gap)
}

func absFloat(x float64) float64 {
	return math.Abs(x)
}
