// Package scaffold orders and orients contigs into scaffolds using the
// contig overlap graph and mate-pair distances.
package scaffold

import (
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/seqs"
)

// OrientedContig is a contig read forward or reverse complemented
type OrientedContig struct {
	ID      int
	Forward bool
}

func (oc OrientedContig) Flip() OrientedContig {
	return OrientedContig{ID: oc.ID, Forward: !oc.Forward}
}

func (oc OrientedContig) String() string {
	if oc.Forward {
		return strconv.Itoa(oc.ID) + "+"
	}
	return strconv.Itoa(oc.ID) + "-"
}

// ContigGraph link oriented contigs whose last k-1 bases equal the first
// k-1 bases of the next one
type ContigGraph struct {
	Kmerlen int
	Contigs []*seqs.Sequence
	rcSeqs  [][]byte
	out     map[OrientedContig][]OrientedContig
}

// Seq return the letters of oc in its orientation
func (g *ContigGraph) Seq(oc OrientedContig) []byte {
	if oc.Forward {
		return g.Contigs[oc.ID].Seq
	}
	return g.rcSeqs[oc.ID]
}

// Next return the oriented contigs following oc, ordered by ID
func (g *ContigGraph) Next(oc OrientedContig) []OrientedContig {
	return g.out[oc]
}

// EdgeCount return the number of oriented edges
func (g *ContigGraph) EdgeCount() (num int) {
	for _, arr := range g.out {
		num += len(arr)
	}
	return num
}

// BuildContigGraph connect contigs overlapping by kmerLength-1 bases, a
// contig never links to itself
func BuildContigGraph(contigs []*seqs.Sequence, kmerLength int) *ContigGraph {
	g := &ContigGraph{Kmerlen: kmerLength, Contigs: contigs, out: make(map[OrientedContig][]OrientedContig)}
	g.rcSeqs = make([][]byte, len(contigs))
	for i, c := range contigs {
		g.rcSeqs[i] = bnt.GetReverseCompByteArr(c.Seq)
	}
	ov := kmerLength - 1
	if ov <= 0 {
		return g
	}
	prefix := make(map[string][]OrientedContig)
	for i, c := range contigs {
		if c.Len() < ov {
			continue
		}
		for _, fw := range []bool{true, false} {
			oc := OrientedContig{ID: i, Forward: fw}
			key := string(g.Seq(oc)[:ov])
			prefix[key] = append(prefix[key], oc)
		}
	}
	for i, c := range contigs {
		if c.Len() < ov {
			continue
		}
		for _, fw := range []bool{true, false} {
			oc := OrientedContig{ID: i, Forward: fw}
			s := g.Seq(oc)
			for _, nx := range prefix[string(s[len(s)-ov:])] {
				if nx.ID != i {
					g.out[oc] = append(g.out[oc], nx)
				}
			}
		}
	}
	return g
}

// GraphvizContigGraph write the overlap graph in DOT format
func (g *ContigGraph) GraphvizContigGraph(w io.Writer) error {
	gv := gographviz.NewGraph()
	gv.SetName("G")
	gv.SetDir(true)
	gv.SetStrict(false)
	for i, c := range g.Contigs {
		for _, fw := range []bool{true, false} {
			oc := OrientedContig{ID: i, Forward: fw}
			attr := make(map[string]string)
			attr["label"] = "\"" + c.ID + " " + oc.String() + " len:" + strconv.Itoa(c.Len()) + "\""
			gv.AddNode("G", "\""+oc.String()+"\"", attr)
		}
	}
	for i := range g.Contigs {
		for _, fw := range []bool{true, false} {
			oc := OrientedContig{ID: i, Forward: fw}
			for _, nx := range g.out[oc] {
				gv.AddEdge("\""+oc.String()+"\"", "\""+nx.String()+"\"", true, nil)
			}
		}
	}
	_, err := io.WriteString(w, gv.String())
	return errors.Wrap(err, "[GraphvizContigGraph]")
}
