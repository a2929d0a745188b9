// Package dbg holds the de Bruijn graph: one node per canonical k-mer with
// base-indexed left and right extensions.
package dbg

import (
	"fmt"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/kmer"
)

// Edge is one extension of a node. Same is true when the neighbour is read
// in its canonical orientation while this node is read in its own.
type Edge struct {
	To    *Node
	Same  bool
	Count uint32
}

type Node struct {
	ID    int
	Key   kmer.Kmer
	Count uint32 // occurrences in all reads
	// Left[b] extends the canonical k-mer by prepending base b, Right[b]
	// by appending base b
	Left  [bnt.BaseTypeNum]Edge
	Right [bnt.BaseTypeNum]Edge
	Flag  uint8 // from low~high, 1:Delete, 2:Palindrome
}

func (n *Node) String() string {
	return fmt.Sprintf("ID:%d Count:%d Left:%v Right:%v", n.ID, n.Count, n.edgeIDs(&n.Left), n.edgeIDs(&n.Right))
}

func (n *Node) edgeIDs(es *[bnt.BaseTypeNum]Edge) (ids [bnt.BaseTypeNum]int) {
	for i, e := range es {
		ids[i] = -1
		if e.To != nil {
			ids[i] = e.To.ID
		}
	}
	return ids
}

func (n *Node) GetDeleteFlag() uint8 {
	return n.Flag & 0x1
}

func (n *Node) SetDeleteFlag() {
	n.Flag |= 0x1
}

// GetPalindromeFlag is set when the k-mer equals its reverse complement,
// such a node reads the same in both orientations
func (n *Node) GetPalindromeFlag() uint8 {
	return n.Flag & 0x2
}

func (n *Node) SetPalindromeFlag() {
	n.Flag |= 0x2
}

// RightEdges return the extensions that continue the k-mer to the right when
// it is read forward (fw) or reverse complemented
func (n *Node) RightEdges(fw bool) *[bnt.BaseTypeNum]Edge {
	if fw {
		return &n.Right
	}
	return &n.Left
}

// LeftEdges is the mirror of RightEdges
func (n *Node) LeftEdges(fw bool) *[bnt.BaseTypeNum]Edge {
	if fw {
		return &n.Left
	}
	return &n.Right
}

func degree(es *[bnt.BaseTypeNum]Edge) (d int) {
	for i := range es {
		if es[i].To != nil {
			d++
		}
	}
	return d
}

// OutDegree return the number of right extensions in orientation fw
func (n *Node) OutDegree(fw bool) int {
	return degree(n.RightEdges(fw))
}

// InDegree return the number of left extensions in orientation fw
func (n *Node) InDegree(fw bool) int {
	return degree(n.LeftEdges(fw))
}

// IsLeaf report whether the node has no extension on at least one side
func (n *Node) IsLeaf() bool {
	return degree(&n.Left) == 0 || degree(&n.Right) == 0
}

// Step is a node read in one orientation
type Step struct {
	Node    *Node
	Forward bool
}

// Follow return the oriented neighbour reached through e from orientation fw
func Follow(e Edge, fw bool) Step {
	return Step{Node: e.To, Forward: fw == e.Same}
}

// Next return the oriented right neighbours of s and the base each one
// appends in the orientation of s
func (s Step) Next() (steps []Step, bases []byte) {
	es := s.Node.RightEdges(s.Forward)
	for b, e := range es {
		if e.To == nil {
			continue
		}
		steps = append(steps, Follow(e, s.Forward))
		if s.Forward {
			bases = append(bases, byte(b))
		} else {
			bases = append(bases, bnt.BntRev[b])
		}
	}
	return steps, bases
}

// Reverse return the same node read in the opposite orientation
func (s Step) Reverse() Step {
	return Step{Node: s.Node, Forward: !s.Forward}
}

// Codes return the 2-bit codes of the k-mer read in the orientation of s
func (s Step) Codes(klen int) []byte {
	bs := s.Node.Key.Unpack(klen)
	if !s.Forward {
		bs = bnt.GetReverseCompBnt(bs, nil)
	}
	return bs
}
