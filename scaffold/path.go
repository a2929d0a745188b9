package scaffold

import (
	"sort"
	"strconv"

	"github.com/mudesheng/gasm/seqs"
)

// ScaffoldPath is a walk of oriented contigs in the overlap graph
type ScaffoldPath []OrientedContig

// Reverse return the path read from the other end
func (p ScaffoldPath) Reverse() ScaffoldPath {
	rp := make(ScaffoldPath, len(p))
	for i, oc := range p {
		rp[len(p)-1-i] = oc.Flip()
	}
	return rp
}

// BuildSequenceFromPath concatenate the contigs of the path, adjacent
// contigs overlap by k-1 bases
func (p ScaffoldPath) BuildSequenceFromPath(g *ContigGraph) []byte {
	if len(p) == 0 {
		return nil
	}
	ov := g.Kmerlen - 1
	if ov < 0 {
		ov = 0
	}
	seq := append([]byte(nil), g.Seq(p[0])...)
	for _, oc := range p[1:] {
		seq = append(seq, g.Seq(oc)[ov:]...)
	}
	return seq
}

type tracedPath struct {
	path    ScaffoldPath
	diff    float64
	support int
}

// findPaths search the overlap graph for every link, at most depth edges
// deep, and keep the path whose length agrees best with the mate-pair
// distance within 3 standard deviations
func findPaths(g *ContigGraph, cmp ContigMatePairs, depth int) []tracedPath {
	var found []tracedPath
	for _, l := range cmp.Links() {
		gap, sd := cmp.Distance(l)
		var best *tracedPath
		visited := map[int]bool{l.A.ID: true}
		path := ScaffoldPath{l.A}
		var dfs func(cur OrientedContig)
		dfs = func(cur OrientedContig) {
			if len(path)-1 >= depth {
				return
			}
			for _, nx := range g.Next(cur) {
				if nx == l.B {
					path = append(path, nx)
					diff := absFloat(gap - pathGap(g, path))
					if diff <= 3*sd && (best == nil || diff < best.diff || (diff == best.diff && len(path) < len(best.path))) {
						best = &tracedPath{path: append(ScaffoldPath(nil), path...), diff: diff, support: len(cmp[l])}
					}
					path = path[:len(path)-1]
					continue
				}
				if visited[nx.ID] || nx.ID == l.B.ID {
					continue
				}
				visited[nx.ID] = true
				path = append(path, nx)
				dfs(nx)
				path = path[:len(path)-1]
				visited[nx.ID] = false
			}
		}
		dfs(l.A)
		if best != nil {
			found = append(found, *best)
		}
	}
	return found
}

// chains keep the accepted paths as successor/predecessor links of their
// end contigs, in both reading directions
type chains struct {
	succ     map[OrientedContig]ScaffoldPath
	pred     map[OrientedContig]ScaffoldPath
	internal map[int]ScaffoldPath
	endpoint map[int]bool
}

func (c *chains) accept(p ScaffoldPath) bool {
	first, last := p[0], p[len(p)-1]
	if _, ok := c.succ[first]; ok {
		return false
	}
	if _, ok := c.pred[last]; ok {
		return false
	}
	if _, ok := c.internal[first.ID]; ok {
		return false
	}
	if _, ok := c.internal[last.ID]; ok {
		return false
	}
	for _, oc := range p[1 : len(p)-1] {
		if _, ok := c.internal[oc.ID]; ok || c.endpoint[oc.ID] {
			return false
		}
	}
	rp := p.Reverse()
	c.succ[first], c.pred[last] = p, p
	c.succ[rp[0]], c.pred[rp[len(rp)-1]] = rp, rp
	c.endpoint[first.ID], c.endpoint[last.ID] = true, true
	for _, oc := range p[1 : len(p)-1] {
		c.internal[oc.ID] = p
	}
	return true
}

// purgePaths accept paths by decreasing support then length, a path is
// dropped when it conflicts with an accepted one
func purgePaths(paths []tracedPath) (*chains, int) {
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].support != paths[j].support {
			return paths[i].support > paths[j].support
		}
		return len(paths[i].path) > len(paths[j].path)
	})
	c := &chains{
		succ:     make(map[OrientedContig]ScaffoldPath),
		pred:     make(map[OrientedContig]ScaffoldPath),
		internal: make(map[int]ScaffoldPath),
		endpoint: make(map[int]bool),
	}
	num := 0
	for _, tp := range paths {
		if c.accept(tp.path) {
			num++
		}
	}
	return c, num
}

// assemble join the accepted paths into scaffolds named Scaffold_i,
// contigs not in any path are returned alone. Output follows the smallest
// contig ID of each scaffold.
func (c *chains) assemble(g *ContigGraph) []*seqs.Sequence {
	emitted := make([]bool, len(g.Contigs))
	var scaffolds []*seqs.Sequence
	for i := range g.Contigs {
		if emitted[i] {
			continue
		}
		start := OrientedContig{ID: i, Forward: true}
		if p, ok := c.internal[i]; ok && !emitted[p[0].ID] {
			start = p[0]
		}
		seen := map[OrientedContig]bool{start: true}
		for {
			p, ok := c.pred[start]
			if !ok || seen[p[0]] || emitted[p[0].ID] {
				break
			}
			start = p[0]
			seen[start] = true
		}
		full := ScaffoldPath{start}
		cur := start
		emitted[start.ID] = true
		for {
			p, ok := c.succ[cur]
			if !ok || !c.free(p, emitted) {
				break
			}
			for _, oc := range p[1:] {
				emitted[oc.ID] = true
			}
			full = append(full, p[1:]...)
			cur = p[len(p)-1]
		}
		scaffolds = append(scaffolds, &seqs.Sequence{ID: "Scaffold_" + strconv.Itoa(len(scaffolds)), Seq: full.BuildSequenceFromPath(g)})
		if !emitted[i] {
			// i sits inside a path whose chain was cut by a cycle
			emitted[i] = true
			scaffolds = append(scaffolds, &seqs.Sequence{ID: "Scaffold_" + strconv.Itoa(len(scaffolds)), Seq: g.Contigs[i].Seq})
		}
	}
	return scaffolds
}

func (c *chains) free(p ScaffoldPath, emitted []bool) bool {
	for _, oc := range p[1:] {
		if emitted[oc.ID] {
			return false
		}
	}
	return true
}
