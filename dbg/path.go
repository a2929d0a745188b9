package dbg

import (
	"github.com/mudesheng/gasm/bnt"
)

// Path is a walk through the graph, consecutive steps overlap by k-1 bases
type Path []Step

// PathList is the result of a purger detection pass
type PathList []Path

// Codes return the 2-bit codes spelled by the path
func (p Path) Codes(klen int) []byte {
	if len(p) == 0 {
		return nil
	}
	bs := make([]byte, 0, klen+len(p)-1)
	bs = append(bs, p[0].Codes(klen)...)
	for _, s := range p[1:] {
		k := s.Node.Key
		if s.Forward {
			bs = append(bs, k.Base(klen-1))
		} else {
			bs = append(bs, bnt.BntRev[k.Base(0)])
		}
	}
	return bs
}

// Seq return the upper case sequence spelled by the path
func (p Path) Seq(klen int) []byte {
	return bnt.Transform2Char(p.Codes(klen))
}

// AvgCount return the mean occurrence count of the path nodes
func (p Path) AvgCount() float64 {
	if len(p) == 0 {
		return 0
	}
	var sum uint64
	for _, s := range p {
		sum += uint64(s.Node.Count)
	}
	return float64(sum) / float64(len(p))
}

// Reverse return the path walked from the other end
func (p Path) Reverse() Path {
	rp := make(Path, len(p))
	for i, s := range p {
		rp[len(p)-1-i] = s.Reverse()
	}
	return rp
}

// Nodes return the distinct nodes of all paths in order of appearance
func (pl PathList) Nodes() []*Node {
	seen := make(map[*Node]bool)
	var arr []*Node
	for _, p := range pl {
		for _, s := range p {
			if !seen[s.Node] {
				seen[s.Node] = true
				arr = append(arr, s.Node)
			}
		}
	}
	return arr
}
