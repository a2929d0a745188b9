package dbg

import (
	"context"
	"sort"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash"
	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/kmer"
	"github.com/mudesheng/gasm/seqs"
)

var ErrNotDNA = errors.New("sequence alphabet is not DNA")

// number of lock shards used while building
const shardNum = 256

type shard struct {
	sync.Mutex
	nodes map[kmer.Kmer]*Node
}

type Graph struct {
	Kmerlen int
	Nodes   []*Node // ordered by Key, Nodes[i].ID == i
	nodeNum int
	marks   *bitset.BitSet
}

// NodeCount return the number of nodes not deleted
func (g *Graph) NodeCount() int {
	return g.nodeNum
}

// ToCodes convert all reads to 2-bit codes, it fails on the first read that
// is not DNA
func ToCodes(reads []*seqs.Sequence) ([][]byte, error) {
	codes := make([][]byte, len(reads))
	for i, r := range reads {
		bs, ok := bnt.Transform2Bnt(r.Seq, nil)
		if !ok {
			return nil, errors.Wrapf(ErrNotDNA, "[ToCodes] read: %v", r.ID)
		}
		codes[i] = bs
	}
	return codes, nil
}

type builder struct {
	kmerlen int
	shards  [shardNum]shard
}

func (b *builder) shardOf(key kmer.Kmer) *shard {
	return &b.shards[xxhash.Sum64([]byte(key))%shardNum]
}

func (b *builder) upsert(key kmer.Kmer) *Node {
	sh := b.shardOf(key)
	sh.Lock()
	n, ok := sh.nodes[key]
	if !ok {
		n = &Node{Key: key}
		if key == key.ReverseComplement(b.kmerlen) {
			n.SetPalindromeFlag()
		}
		sh.nodes[key] = n
	}
	n.Count++
	sh.Unlock()
	return n
}

// setEdge record an extension of n. Edges to a palindrome are always Same,
// and a palindrome stores every extension on both sides since reading it
// reverse complemented gives the same k-mer.
func setEdge(n *Node, right bool, base byte, to *Node, same bool) {
	if to.GetPalindromeFlag() > 0 {
		same = true
	}
	slot := &n.Left[base]
	if right {
		slot = &n.Right[base]
	}
	slot.To, slot.Same = to, same
	slot.Count++
	if n.GetPalindromeFlag() > 0 {
		mirror := &n.Right[bnt.BntRev[base]]
		if right {
			mirror = &n.Left[bnt.BntRev[base]]
		}
		mirror.To, mirror.Same = to, !same || to.GetPalindromeFlag() > 0
		if mirror != slot {
			mirror.Count++
		}
	}
}

// addEdge link two consecutive windows of a read. a is the read base before
// the second k-mer, z the read base after the first one.
func (b *builder) addEdge(na *Node, fwA bool, nb *Node, fwB bool, a, z byte) {
	same := fwA == fwB
	sh := b.shardOf(na.Key)
	sh.Lock()
	if fwA {
		setEdge(na, true, z, nb, same)
	} else {
		setEdge(na, false, bnt.BntRev[z], nb, same)
	}
	sh.Unlock()

	sh = b.shardOf(nb.Key)
	sh.Lock()
	if fwB {
		setEdge(nb, false, a, na, same)
	} else {
		setEdge(nb, true, bnt.BntRev[a], na, same)
	}
	sh.Unlock()
}

func (b *builder) addRead(codes []byte) {
	ws := kmer.Windows(codes, b.kmerlen)
	var prev *Node
	for j, w := range ws {
		n := b.upsert(w.Key)
		if j > 0 {
			b.addEdge(prev, ws[j-1].Forward, n, w.Forward, codes[j-1], codes[j-1+b.kmerlen])
		}
		prev = n
	}
}

// Build construct the graph of reads, reads are processed in numCPU
// batches in parallel. All reads are checked to be DNA before any node is
// created.
func Build(ctx context.Context, reads []*seqs.Sequence, kmerlen, numCPU int) (*Graph, error) {
	if kmerlen <= 0 {
		return nil, errors.Errorf("[Build] kmer length: %d must be positive", kmerlen)
	}
	codes, err := ToCodes(reads)
	if err != nil {
		return nil, err
	}
	b := &builder{kmerlen: kmerlen}
	for i := range b.shards {
		b.shards[i].nodes = make(map[kmer.Kmer]*Node)
	}
	parallel.Range(0, len(codes), numCPU, func(low, high int) {
		if ctx.Err() != nil {
			return
		}
		for i := low; i < high; i++ {
			b.addRead(codes[i])
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[Build]")
	}

	g := &Graph{Kmerlen: kmerlen}
	for i := range b.shards {
		for _, n := range b.shards[i].nodes {
			g.Nodes = append(g.Nodes, n)
		}
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].Key < g.Nodes[j].Key })
	for i, n := range g.Nodes {
		n.ID = i
	}
	g.nodeNum = len(g.Nodes)
	g.marks = bitset.New(uint(len(g.Nodes)))
	return g, nil
}

// Lookup return the node of canonical key
func (g *Graph) Lookup(key kmer.Kmer) *Node {
	i := sort.Search(len(g.Nodes), func(i int) bool { return g.Nodes[i].Key >= key })
	if i < len(g.Nodes) && g.Nodes[i].Key == key && g.Nodes[i].GetDeleteFlag() == 0 {
		return g.Nodes[i]
	}
	return nil
}

// Alive return the nodes not deleted, ordered by ID
func (g *Graph) Alive() []*Node {
	arr := make([]*Node, 0, g.nodeNum)
	for _, n := range g.Nodes {
		if n.GetDeleteFlag() == 0 {
			arr = append(arr, n)
		}
	}
	return arr
}

func unlink(from, to *Node) {
	for _, es := range []*[bnt.BaseTypeNum]Edge{&from.Left, &from.Right} {
		for i := range es {
			if es[i].To == to {
				es[i] = Edge{}
			}
		}
	}
}

// RemoveNodes delete nodes and every edge pointing to them, return the
// number of nodes actually deleted
func (g *Graph) RemoveNodes(nodes []*Node) (num int) {
	for _, n := range nodes {
		if n.GetDeleteFlag() > 0 {
			continue
		}
		for _, es := range []*[bnt.BaseTypeNum]Edge{&n.Left, &n.Right} {
			for _, e := range es {
				if e.To != nil && e.To != n {
					unlink(e.To, n)
				}
			}
		}
		n.Left = [bnt.BaseTypeNum]Edge{}
		n.Right = [bnt.BaseTypeNum]Edge{}
		n.SetDeleteFlag()
		g.nodeNum--
		num++
	}
	return num
}

// ResetMarks clear the visited marks, must be called before each pass that
// uses Mark. Marks are not safe for concurrent writers.
func (g *Graph) ResetMarks() {
	g.marks.ClearAll()
}

func (g *Graph) Mark(n *Node) {
	g.marks.Set(uint(n.ID))
}

func (g *Graph) IsMarked(n *Node) bool {
	return g.marks.Test(uint(n.ID))
}

// backEdge return the extension of e.To that should lead back to the node
// with first base first and last base last, for an edge found on its right
// (right) or left side
func backEdge(e Edge, right bool, first, last byte) Edge {
	if right {
		if e.Same {
			return e.To.Left[first]
		}
		return e.To.Right[bnt.BntRev[first]]
	}
	if e.Same {
		return e.To.Right[last]
	}
	return e.To.Left[bnt.BntRev[last]]
}

// CheckSymmetry verify that every edge has its counterpart on the
// neighbour, return the first violation found. Orientation is not compared
// when either side is a palindrome.
func (g *Graph) CheckSymmetry() error {
	k := g.Kmerlen
	for _, n := range g.Nodes {
		if n.GetDeleteFlag() > 0 {
			continue
		}
		first, last := n.Key.Base(0), n.Key.Base(k-1)
		for side, es := range []*[bnt.BaseTypeNum]Edge{&n.Left, &n.Right} {
			right := side == 1
			for b, e := range es {
				if e.To == nil {
					continue
				}
				if e.To.GetDeleteFlag() > 0 {
					return errors.Errorf("[CheckSymmetry] node %d edge %c -> deleted node %d", n.ID, bnt.BitNtCharUp[b], e.To.ID)
				}
				back := backEdge(e, right, first, last)
				if back.To == n && back.Same == e.Same {
					continue
				}
				if n.GetPalindromeFlag() > 0 || e.To.GetPalindromeFlag() > 0 {
					flip := e
					flip.Same = !e.Same
					if back.To == n || backEdge(flip, right, first, last).To == n {
						continue
					}
				}
				return errors.Errorf("[CheckSymmetry] node %d edge %c (right: %v) -> %d has no counterpart", n.ID, bnt.BitNtCharUp[b], right, e.To.ID)
			}
		}
	}
	return nil
}
