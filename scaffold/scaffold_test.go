package scaffold

import (
	"context"
	"os"
	"testing"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/matepair"
	"github.com/mudesheng/gasm/seqs"
)

const (
	contigA = "GCTAAAGACAATTACATAAC"
	contigX = "TAACATACACGT"
	contigB = "ACGTCAGCACGAAACTTGTTGGCC"
	joined  = "GCTAAAGACAATTACATAACATACACGTCAGCACGAAACTTGTTGGCC"
)

func testContigs() []*seqs.Sequence {
	return []*seqs.Sequence{seqs.New("Contig_0", contigA), seqs.New("Contig_1", contigX), seqs.New("Contig_2", contigB)}
}

func testReads(pairs int) []*seqs.Sequence {
	all := []*seqs.Sequence{
		seqs.New("p1.F:lib1", "TAAAGACA"),
		seqs.New("p1.R:lib1", "GCCAACAA"),
		seqs.New("p2.F:lib1", "AAGACAAT"),
		seqs.New("p2.R:lib1", "CAACAAGT"),
	}
	return all[:2*pairs]
}

func testLibs() config.CloneLibraries {
	libs := make(config.CloneLibraries)
	libs.Add("lib1", 43, 2)
	return libs
}

func TestBuildContigGraph(t *testing.T) {
	g := BuildContigGraph(testContigs(), 5)
	if g.EdgeCount() != 4 {
		t.Fatalf("edge count: %d, want 4", g.EdgeCount())
	}
	next := g.Next(OrientedContig{ID: 0, Forward: true})
	if len(next) != 1 || next[0] != (OrientedContig{ID: 1, Forward: true}) {
		t.Errorf("next of 0+: %v", next)
	}
	next = g.Next(OrientedContig{ID: 2, Forward: false})
	if len(next) != 1 || next[0] != (OrientedContig{ID: 1, Forward: false}) {
		t.Errorf("next of 2-: %v", next)
	}
	if n := len(g.Next(OrientedContig{ID: 0, Forward: false})); n != 0 {
		t.Errorf("0- has %d successors", n)
	}
}

func TestMapReads(t *testing.T) {
	maps := MapReads(testContigs(), testReads(2), 5, 2)
	want := []ReadMap{
		{Contig: 0, Start: 2, Length: 8, Forward: true},
		{Contig: 2, Start: 15, Length: 8, Forward: false},
		{Contig: 0, Start: 4, Length: 8, Forward: true},
		{Contig: 2, Start: 13, Length: 8, Forward: false},
	}
	for i, w := range want {
		if len(maps[i]) != 1 || maps[i][0] != w {
			t.Errorf("read %d: %v, want %v", i, maps[i], w)
		}
	}
}

func TestCalculateMatePairs(t *testing.T) {
	contigs, reads := testContigs(), testReads(2)
	cmp, stats := CalculateMatePairs(contigs, reads, MapReads(contigs, reads, 5, 1), testLibs())
	if stats[matepair.Chimera] != 2 {
		t.Fatalf("chimera pairs: %v", stats)
	}
	l := Link{A: OrientedContig{ID: 0, Forward: true}, B: OrientedContig{ID: 2, Forward: true}}
	gap, sd := cmp.Distance(l)
	if len(cmp[l]) != 2 || gap != 4 || sd != 2 {
		t.Errorf("link %v: %d pairs, gap %v, sd %v", l, len(cmp[l]), gap, sd)
	}
	if kept := cmp.FilterByRedundancy(3); len(kept) != 0 {
		t.Errorf("redundancy 3 kept %d links", len(kept))
	}
}

func TestBuildScaffoldRedundancy(t *testing.T) {
	b, err := NewGraphScaffoldBuilder(testLibs(), 2)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	ctx := context.Background()
	scaffolds, err := b.BuildScaffold(ctx, testReads(1), testContigs(), 5, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scaffolds) != 3 || b.Stats.Paths != 0 {
		t.Errorf("one pair joined contigs: %d scaffolds", len(scaffolds))
	}
	scaffolds, err = b.BuildScaffold(ctx, testReads(2), testContigs(), 5, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scaffolds) != 1 || scaffolds[0].String() != joined || scaffolds[0].ID != "Scaffold_0" {
		t.Errorf("scaffolds: %v", seqs.SortedStrings(scaffolds))
	}
	if _, err := os.Stat(b.GraphFile()); err != nil {
		t.Errorf("graph dump: %v", err)
	}
}

func TestBuildScaffoldDepth(t *testing.T) {
	b, err := NewGraphScaffoldBuilder(testLibs(), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	scaffolds, err := b.BuildScaffold(context.Background(), testReads(2), testContigs(), 5, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scaffolds) != 3 {
		t.Errorf("depth 1 joined contigs: %d scaffolds", len(scaffolds))
	}
}

func TestBuilderClose(t *testing.T) {
	b, err := NewGraphScaffoldBuilder(nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	dir := b.WorkDir()
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("work dir still exists: %v", err)
	}
	if _, err := b.BuildScaffold(context.Background(), nil, testContigs(), 5, 10, 2); err != ErrBuilderClosed {
		t.Errorf("BuildScaffold after Close: %v", err)
	}
}

func TestScaffoldPathReverse(t *testing.T) {
	p := ScaffoldPath{{ID: 0, Forward: true}, {ID: 1, Forward: false}}
	rp := p.Reverse()
	if rp[0] != (OrientedContig{ID: 1, Forward: true}) || rp[1] != (OrientedContig{ID: 0, Forward: false}) {
		t.Errorf("reverse: %v", rp)
	}
	g := BuildContigGraph(testContigs(), 5)
	s := ScaffoldPath{{ID: 0, Forward: true}, {ID: 1, Forward: true}, {ID: 2, Forward: true}}
	if got := string(s.BuildSequenceFromPath(g)); got != joined {
		t.Errorf("sequence: %s", got)
	}
}
