package purge

import (
	"sort"

	"github.com/mudesheng/gasm/dbg"
)

// DanglingLinksPurger remove short paths ending in a dead end, usually
// caused by sequencing errors near read ends
type DanglingLinksPurger struct {
	lengthThreshold int
	NumCPU          int
}

func NewDanglingLinksPurger(length, numCPU int) *DanglingLinksPurger {
	return &DanglingLinksPurger{lengthThreshold: length, NumCPU: numCPU}
}

func (p *DanglingLinksPurger) Name() string { return "Dangling Links Purger" }

func (p *DanglingLinksPurger) Description() string {
	return "Remove short dead-end paths starting from graph leaves"
}

func (p *DanglingLinksPurger) LengthThreshold() int { return p.lengthThreshold }

func (p *DanglingLinksPurger) SetLengthThreshold(length int) { p.lengthThreshold = length }

// traceDangle walk right from a node without left extension. It return the
// nodes before the first junction, or the whole path if it reaches another
// dead end; nil if the path is too long or itself branches.
func traceDangle(start dbg.Step, maxLen int) dbg.Path {
	path := dbg.Path{start}
	cur := start
	for len(path) <= maxLen {
		next, _ := cur.Next()
		switch len(next) {
		case 0:
			return path
		case 1:
		default:
			return nil
		}
		nx := next[0]
		if nx.Node.InDegree(nx.Forward) > 1 {
			return path
		}
		for _, s := range path {
			if s.Node == nx.Node {
				return nil
			}
		}
		path = append(path, nx)
		cur = nx
	}
	return nil
}

func (p *DanglingLinksPurger) detect(g *dbg.Graph, maxLen int) dbg.PathList {
	if maxLen <= 0 {
		return nil
	}
	pl := detectParallel(g, p.NumCPU, func(n *dbg.Node) dbg.PathList {
		var arr dbg.PathList
		for _, fw := range []bool{true, false} {
			if n.InDegree(fw) > 0 {
				continue
			}
			if path := traceDangle(dbg.Step{Node: n, Forward: fw}, maxLen); path != nil {
				arr = append(arr, path)
			}
		}
		return arr
	})
	return dedupPaths(pl)
}

// DetectErroneousNodes return the dangling paths no longer than the length
// threshold, the graph is not modified
func (p *DanglingLinksPurger) DetectErroneousNodes(g *dbg.Graph) dbg.PathList {
	return p.detect(g, p.lengthThreshold)
}

func (p *DanglingLinksPurger) RemoveErroneousNodes(g *dbg.Graph, pl dbg.PathList) int {
	return removePaths(g, pl)
}

// ErodeGraphEnds implement EndsEroder
func (p *DanglingLinksPurger) ErodeGraphEnds(g *dbg.Graph, erosionThreshold int) []int {
	for {
		pl := detectParallel(g, p.NumCPU, func(n *dbg.Node) dbg.PathList {
			if n.IsLeaf() && int(n.Count) < erosionThreshold {
				return dbg.PathList{{dbg.Step{Node: n, Forward: true}}}
			}
			return nil
		})
		if len(pl) == 0 {
			break
		}
		removePaths(g, pl)
	}

	lens := make(map[int]bool)
	for _, path := range p.detect(g, p.lengthThreshold) {
		lens[len(path)] = true
	}
	arr := make([]int, 0, len(lens))
	for l := range lens {
		arr = append(arr, l)
	}
	sort.Ints(arr)
	return arr
}
