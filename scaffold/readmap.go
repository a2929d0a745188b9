package scaffold

import (
	"bytes"

	"github.com/exascience/pargo/parallel"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/seqs"
)

// ReadMap is one full-length placement of a read on a contig, Start is the
// zero-based position on the forward contig
type ReadMap struct {
	Contig  int
	Start   int
	Length  int
	Forward bool // read on the same strand as the contig
}

type seedPos struct {
	contig, pos int
}

// MapReads place every read that is fully contained in some contig, either
// strand. seedLen is the length of the exact seed used to find candidates;
// reads shorter than it stay unmapped.
func MapReads(contigs, reads []*seqs.Sequence, seedLen, numCPU int) [][]ReadMap {
	index := make(map[string][]seedPos)
	for i, c := range contigs {
		for j := 0; j+seedLen <= c.Len(); j++ {
			key := string(c.Seq[j : j+seedLen])
			index[key] = append(index[key], seedPos{contig: i, pos: j})
		}
	}
	maps := make([][]ReadMap, len(reads))
	parallel.Range(0, len(reads), numCPU, func(low, high int) {
		for i := low; i < high; i++ {
			r := reads[i]
			if seedLen <= 0 || r.Len() < seedLen {
				continue
			}
			rc := bnt.GetReverseCompByteArr(r.Seq)
			for _, fw := range []bool{true, false} {
				s := r.Seq
				if !fw {
					s = rc
					// palindromic read, its placements are already found
					if bytes.Equal(s, r.Seq) {
						break
					}
				}
				for _, sp := range index[string(s[:seedLen])] {
					c := contigs[sp.contig].Seq
					if sp.pos+len(s) <= len(c) && bytes.Equal(c[sp.pos:sp.pos+len(s)], s) {
						maps[i] = append(maps[i], ReadMap{Contig: sp.contig, Start: sp.pos, Length: len(s), Forward: fw})
					}
				}
			}
		}
	})
	return maps
}
