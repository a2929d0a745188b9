// Package purge detects and removes erroneous structures of the de Bruijn
// graph. Every purger runs in two phases: a read-only detection that may run
// in parallel, then a short serial removal.
package purge

import (
	"github.com/exascience/pargo/parallel"

	"github.com/mudesheng/gasm/dbg"
)

// ErrorPurger detect and remove one class of graph errors
type ErrorPurger interface {
	Name() string
	Description() string
	// paths longer than LengthThreshold nodes are not reported
	LengthThreshold() int
	SetLengthThreshold(length int)
	DetectErroneousNodes(g *dbg.Graph) dbg.PathList
	RemoveErroneousNodes(g *dbg.Graph, pl dbg.PathList) int
}

// EndsEroder is implemented by purgers that can erode low coverage graph ends
type EndsEroder interface {
	// ErodeGraphEnds remove leaf nodes with count below erosionThreshold
	// until none is left, then return the distinct lengths of dangling
	// paths still present, ascending
	ErodeGraphEnds(g *dbg.Graph, erosionThreshold int) []int
}

// detectParallel run f on every alive node in numCPU batches and join the
// paths in node order
func detectParallel(g *dbg.Graph, numCPU int, f func(n *dbg.Node) dbg.PathList) dbg.PathList {
	return parallel.RangeReduce(0, len(g.Nodes), numCPU, func(low, high int) interface{} {
		var pl dbg.PathList
		for _, n := range g.Nodes[low:high] {
			if n.GetDeleteFlag() > 0 {
				continue
			}
			pl = append(pl, f(n)...)
		}
		return pl
	}, func(x, y interface{}) interface{} {
		return append(x.(dbg.PathList), y.(dbg.PathList)...)
	}).(dbg.PathList)
}

// dedupPaths drop every path sharing a node with an earlier path
func dedupPaths(pl dbg.PathList) dbg.PathList {
	claimed := make(map[*dbg.Node]bool)
	var arr dbg.PathList
	for _, p := range pl {
		dup := false
		for _, s := range p {
			if claimed[s.Node] {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		for _, s := range p {
			claimed[s.Node] = true
		}
		arr = append(arr, p)
	}
	return arr
}

// removePaths delete all nodes of pl
func removePaths(g *dbg.Graph, pl dbg.PathList) int {
	return g.RemoveNodes(pl.Nodes())
}
