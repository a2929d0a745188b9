package dbg

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/bnt"
	"github.com/mudesheng/gasm/kmer"
	"github.com/mudesheng/gasm/seqs"
)

func readsOf(arr ...string) []*seqs.Sequence {
	ss := make([]*seqs.Sequence, len(arr))
	for i, s := range arr {
		ss[i] = seqs.New("r"+string(rune('a'+i)), s)
	}
	return ss
}

func stepOf(t *testing.T, g *Graph, s string) Step {
	codes, _ := bnt.Transform2Bnt([]byte(s), nil)
	key, fw := kmer.Canonical(codes, bnt.GetReverseCompBnt(codes, nil))
	n := g.Lookup(key)
	if n == nil {
		t.Fatalf("kmer %s not found", s)
	}
	return Step{Node: n, Forward: fw}
}

func build(t *testing.T, k int, reads ...string) *Graph {
	g, err := Build(context.Background(), readsOf(reads...), k, 2)
	if err != nil {
		t.Fatalf("Build err: %v", err)
	}
	return g
}

func TestBuildCounts(t *testing.T) {
	g := build(t, 3, "AACCG", "AACCG", "CGGTT")
	// CGGTT is the reverse complement of AACCG
	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}
	for _, n := range g.Nodes {
		if n.Count != 3 {
			t.Errorf("node %s count = %d, want 3", n.Key.Seq(3), n.Count)
		}
	}
	if s := stepOf(t, g, "ACC"); s.Node.OutDegree(s.Forward) != 1 || s.Node.InDegree(s.Forward) != 1 {
		t.Errorf("ACC degree = %d/%d", s.Node.InDegree(s.Forward), s.Node.OutDegree(s.Forward))
	}
	if err := g.CheckSymmetry(); err != nil {
		t.Error(err)
	}
}

func TestBuildSymmetry(t *testing.T) {
	reads := []string{"ACGTA", "TACGT", "GGACGTCC", "ATGCAGTACCGGTTAACG", "CGTTAACCGGTACTGCAT", "AAAAAAAACCCCC"}
	for k := 3; k <= 6; k++ {
		g := build(t, k, reads...)
		if err := g.CheckSymmetry(); err != nil {
			t.Errorf("k=%d: %v", k, err)
		}
	}
}

func TestBuildNotDNA(t *testing.T) {
	_, err := Build(context.Background(), readsOf("ACGT", "ACNGT"), 3, 1)
	if errors.Cause(err) != ErrNotDNA {
		t.Errorf("Build err = %v, want ErrNotDNA", err)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, readsOf("ACGTACGT"), 3, 1); errors.Cause(err) != context.Canceled {
		t.Errorf("Build err = %v, want context.Canceled", err)
	}
}

func TestWalkSpellsRead(t *testing.T) {
	read := "ACCTGAG"
	g := build(t, 3, read)
	s := stepOf(t, g, "ACC")
	p := Path{s}
	for {
		next, _ := s.Next()
		if len(next) != 1 {
			break
		}
		s = next[0]
		p = append(p, s)
	}
	if got := string(p.Seq(3)); got != read {
		t.Errorf("walk spells %s, want %s", got, read)
	}
	if got := string(p.Reverse().Seq(3)); got != string(bnt.GetReverseCompByteArr([]byte(read))) {
		t.Errorf("reverse walk spells %s", got)
	}
}

func TestRemoveNodes(t *testing.T) {
	g := build(t, 3, "AACCGTA")
	mid := stepOf(t, g, "CCG")
	if num := g.RemoveNodes([]*Node{mid.Node, mid.Node}); num != 1 {
		t.Errorf("RemoveNodes = %d, want 1", num)
	}
	if g.NodeCount() != 4 || g.Lookup(mid.Node.Key) != nil {
		t.Errorf("NodeCount = %d after remove", g.NodeCount())
	}
	if err := g.CheckSymmetry(); err != nil {
		t.Error(err)
	}
	left := stepOf(t, g, "ACC")
	if left.Node.OutDegree(left.Forward) != 0 {
		t.Errorf("ACC still extends right")
	}
	if len(g.Alive()) != 4 {
		t.Errorf("len(Alive) = %d", len(g.Alive()))
	}
}

func TestMarks(t *testing.T) {
	g := build(t, 3, "AACCG")
	n := g.Nodes[1]
	g.Mark(n)
	if !g.IsMarked(n) || g.IsMarked(g.Nodes[0]) {
		t.Errorf("Mark error")
	}
	g.ResetMarks()
	if g.IsMarked(n) {
		t.Errorf("ResetMarks error")
	}
}

func TestGraphvizDBG(t *testing.T) {
	g := build(t, 3, "AACCG")
	var buf bytes.Buffer
	if err := g.GraphvizDBG(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "AAC|1") {
		t.Errorf("dot output: %s", out)
	}
}

func Benchmark_Build(b *testing.B) {
	var reads []*seqs.Sequence
	base := "ATGCAGTACCGGTTAACGTTAGCATGCCAGTAGCTAGCTAGGATCCA"
	for i := 0; i < 200; i++ {
		reads = append(reads, seqs.New("r", base[i%10:]))
	}
	for i := 0; i < b.N; i++ {
		Build(context.Background(), reads, 21, 4)
	}
}
