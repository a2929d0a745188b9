package dbg

import (
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/bnt"
)

// GraphvizDBG write the alive nodes and their extensions in DOT format,
// every edge is written once from the node with the smaller ID
func (g *Graph) GraphvizDBG(w io.Writer) error {
	gv := gographviz.NewGraph()
	gv.SetName("G")
	gv.SetDir(true)
	gv.SetStrict(false)
	for _, n := range g.Nodes {
		if n.GetDeleteFlag() > 0 {
			continue
		}
		attr := make(map[string]string)
		attr["color"] = "Green"
		attr["shape"] = "record"
		attr["label"] = "\"" + string(n.Key.Seq(g.Kmerlen)) + "|" + strconv.Itoa(int(n.Count)) + "\""
		gv.AddNode("G", strconv.Itoa(n.ID), attr)
	}
	for _, n := range g.Nodes {
		if n.GetDeleteFlag() > 0 {
			continue
		}
		for side, es := range []*[bnt.BaseTypeNum]Edge{&n.Left, &n.Right} {
			for b, e := range es {
				if e.To == nil || e.To.ID < n.ID {
					continue
				}
				attr := make(map[string]string)
				attr["color"] = "Blue"
				label := "L"
				if side == 1 {
					label = "R"
				}
				label += string(bnt.BitNtCharUp[b])
				if !e.Same {
					label += "~"
				}
				attr["label"] = "\"" + label + " " + strconv.Itoa(int(e.Count)) + "\""
				gv.AddEdge(strconv.Itoa(n.ID), strconv.Itoa(e.To.ID), true, attr)
			}
		}
	}
	_, err := io.WriteString(w, gv.String())
	return errors.Wrap(err, "[GraphvizDBG]")
}
