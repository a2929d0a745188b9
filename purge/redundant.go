package purge

import (
	"math"

	"github.com/exascience/pargo/parallel"

	"github.com/mudesheng/gasm/dbg"
)

// RedundantPathsPurger remove bubbles: alternative paths between the same
// pair of branch nodes, keeping the best covered one
type RedundantPathsPurger struct {
	lengthThreshold int
	NumCPU          int
}

func NewRedundantPathsPurger(length, numCPU int) *RedundantPathsPurger {
	return &RedundantPathsPurger{lengthThreshold: length, NumCPU: numCPU}
}

func (p *RedundantPathsPurger) Name() string { return "Redundant Paths Purger" }

func (p *RedundantPathsPurger) Description() string {
	return "Remove alternative paths between two branch nodes, keep the highest coverage one"
}

func (p *RedundantPathsPurger) LengthThreshold() int { return p.lengthThreshold }

func (p *RedundantPathsPurger) SetLengthThreshold(length int) { p.lengthThreshold = length }

// bubble is a group of paths leaving the same branch and meeting again at
// end. Paths hold only the nodes strictly between branch and end.
type bubble struct {
	end   dbg.Step
	paths dbg.PathList
	best  int
}

// folded report whether n links to itself or reads the same on both
// strands. A walk through such a node enters and leaves on the same side, so
// its extra left extension belongs to the walk.
func folded(n *dbg.Node) bool {
	if n.GetPalindromeFlag() > 0 {
		return true
	}
	for i := range n.Left {
		if n.Left[i].To == n || n.Right[i].To == n {
			return true
		}
	}
	return false
}

func onPath(p dbg.Path, n *dbg.Node) bool {
	for _, s := range p {
		if s.Node == n {
			return true
		}
	}
	return false
}

// traceBranch follow a branch until a node with several left extensions, it
// return false if the path branches, dead ends, loops or is too long. A
// folded node is walked through: the step turning back on itself is taken
// once and the steps leading back into the path are ignored.
func traceBranch(branch, first dbg.Step, maxLen int) (internal dbg.Path, end dbg.Step, ok bool) {
	cur, prev := first, branch
	for len(internal) <= maxLen {
		if cur.Node == branch.Node {
			return nil, end, false
		}
		fold := folded(cur.Node)
		if cur.Node.InDegree(cur.Forward) > 1 && !fold {
			return internal, cur, true
		}
		if onPath(internal, cur.Node) {
			if prev.Node != cur.Node || internal[len(internal)-1].Node != cur.Node {
				return nil, end, false
			}
		} else {
			internal = append(internal, cur)
		}
		next, _ := cur.Next()
		if fold {
			j := 0
			for _, s := range next {
				turn := s.Node == cur.Node && prev.Node != cur.Node
				if s.Node != branch.Node && (turn || !onPath(internal, s.Node)) {
					next[j] = s
					j++
				}
			}
			next = next[:j]
		}
		if len(next) != 1 {
			return nil, end, false
		}
		prev, cur = cur, next[0]
	}
	return nil, end, false
}

func bubblesFrom(branch dbg.Step, maxLen int) (arr []bubble) {
	next, _ := branch.Next()
	for _, first := range next {
		internal, end, ok := traceBranch(branch, first, maxLen)
		if !ok {
			continue
		}
		found := false
		for i := range arr {
			if arr[i].end == end {
				arr[i].paths = append(arr[i].paths, internal)
				found = true
				break
			}
		}
		if !found {
			arr = append(arr, bubble{end: end, paths: dbg.PathList{internal}})
		}
	}
	j := 0
	for _, b := range arr {
		if len(b.paths) > 1 {
			b.best = bestPath(b.paths)
			arr[j] = b
			j++
		}
	}
	return arr[:j]
}

func minNodeID(p dbg.Path) int {
	id := math.MaxInt32
	for _, s := range p {
		if s.Node.ID < id {
			id = s.Node.ID
		}
	}
	return id
}

// bestPath choose the path with the highest mean count, ties go to the path
// holding the smallest node ID so both walking directions agree
func bestPath(pl dbg.PathList) int {
	best := 0
	for i := 1; i < len(pl); i++ {
		a, b := pl[i].AvgCount(), pl[best].AvgCount()
		if a > b || (a == b && minNodeID(pl[i]) < minNodeID(pl[best])) {
			best = i
		}
	}
	return best
}

// DetectErroneousNodes return the redundant paths of all bubbles. Nodes of
// any kept path are never reported.
func (p *RedundantPathsPurger) DetectErroneousNodes(g *dbg.Graph) dbg.PathList {
	maxLen := p.lengthThreshold
	bubbles := parallel.RangeReduce(0, len(g.Nodes), p.NumCPU, func(low, high int) interface{} {
		var arr []bubble
		for _, n := range g.Nodes[low:high] {
			if n.GetDeleteFlag() > 0 {
				continue
			}
			for _, fw := range []bool{true, false} {
				if n.OutDegree(fw) < 2 {
					continue
				}
				arr = append(arr, bubblesFrom(dbg.Step{Node: n, Forward: fw}, maxLen)...)
			}
		}
		return arr
	}, func(x, y interface{}) interface{} {
		return append(x.([]bubble), y.([]bubble)...)
	}).([]bubble)

	protected := make(map[*dbg.Node]bool)
	for _, b := range bubbles {
		for _, s := range b.paths[b.best] {
			protected[s.Node] = true
		}
	}
	var pl dbg.PathList
	for _, b := range bubbles {
		for i, path := range b.paths {
			if i == b.best {
				continue
			}
			var rest dbg.Path
			for _, s := range path {
				if !protected[s.Node] {
					rest = append(rest, s)
				}
			}
			if len(rest) > 0 {
				pl = append(pl, rest)
			}
		}
	}
	return dedupPaths(pl)
}

func (p *RedundantPathsPurger) RemoveErroneousNodes(g *dbg.Graph, pl dbg.PathList) int {
	return removePaths(g, pl)
}
