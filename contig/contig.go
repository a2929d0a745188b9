// Package contig turns a cleaned de Bruijn graph into contigs, the maximal
// non-branching paths of the graph.
package contig

import (
	"strconv"

	"github.com/mudesheng/gasm/dbg"
	"github.com/mudesheng/gasm/seqs"
)

// Builder build contig sequences from a graph
type Builder interface {
	Build(g *dbg.Graph) []*seqs.Sequence
}

// LowCoverageContigPurger remove contigs whose mean k-mer count is below
// threshold, return the number of nodes removed
type LowCoverageContigPurger interface {
	RemoveLowCoverageContigs(g *dbg.Graph, threshold float64) int
}

// extend walk right from s while the path stays simple
func extend(g *dbg.Graph, s dbg.Step) (path dbg.Path) {
	cur := s
	for {
		next, _ := cur.Next()
		if len(next) != 1 {
			break
		}
		nx := next[0]
		if nx.Node.InDegree(nx.Forward) != 1 || g.IsMarked(nx.Node) {
			break
		}
		g.Mark(nx.Node)
		path = append(path, nx)
		cur = nx
	}
	return path
}

// SimplePaths return every maximal simple path of the graph, each node
// belongs to exactly one path. Paths are ordered by their smallest node ID.
func SimplePaths(g *dbg.Graph) dbg.PathList {
	var pl dbg.PathList
	g.ResetMarks()
	for _, n := range g.Nodes {
		if n.GetDeleteFlag() > 0 || g.IsMarked(n) {
			continue
		}
		g.Mark(n)
		start := dbg.Step{Node: n, Forward: true}
		right := extend(g, start)
		left := extend(g, start.Reverse())
		path := make(dbg.Path, 0, len(left)+1+len(right))
		for i := len(left) - 1; i >= 0; i-- {
			path = append(path, left[i].Reverse())
		}
		path = append(path, start)
		path = append(path, right...)
		pl = append(pl, path)
	}
	g.ResetMarks()
	return pl
}

// SimplePathContigBuilder emit one contig per simple path
type SimplePathContigBuilder struct {
	// contig ID prefix, default "Contig"
	Prefix string
}

func (b *SimplePathContigBuilder) Build(g *dbg.Graph) []*seqs.Sequence {
	prefix := b.Prefix
	if prefix == "" {
		prefix = "Contig"
	}
	pl := SimplePaths(g)
	contigs := make([]*seqs.Sequence, len(pl))
	for i, p := range pl {
		contigs[i] = &seqs.Sequence{ID: prefix + "_" + strconv.Itoa(i), Seq: p.Seq(g.Kmerlen)}
	}
	return contigs
}

// SimplePathLowCoveragePurger remove simple paths of low mean count
type SimplePathLowCoveragePurger struct{}

func (SimplePathLowCoveragePurger) RemoveLowCoverageContigs(g *dbg.Graph, threshold float64) int {
	var low dbg.PathList
	for _, p := range SimplePaths(g) {
		if p.AvgCount() < threshold {
			low = append(low, p)
		}
	}
	return g.RemoveNodes(low.Nodes())
}
