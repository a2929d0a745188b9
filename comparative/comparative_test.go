package comparative

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/delta"
	"github.com/mudesheng/gasm/seqs"
)

var testRef = seqs.New("ref", strings.Repeat("ACGT", 50))

// newDelta align the whole query of length qlen at reference start rs
func newDelta(id string, qlen, rs int) *delta.DeltaAlignment {
	q := seqs.New(id, strings.Repeat("A", qlen))
	return delta.NewDeltaAlignment(testRef, q, delta.Forward, rs, 0, qlen)
}

func testLibs() config.CloneLibraries {
	libs := make(config.CloneLibraries)
	libs.Add("lib", 50, 5)
	return libs
}

func TestResolveAmbiguity(t *testing.T) {
	rr := NewRepeatResolver(testLibs())
	if _, err := rr.ResolveAmbiguity(nil); errors.Cause(err) != ErrNilAlignments {
		t.Fatalf("nil groups: %v", err)
	}

	single := []*delta.DeltaAlignment{newDelta("s.F:lib", 10, 0)}
	partial := []*delta.DeltaAlignment{newDelta("x.F:lib", 10, 0), newDelta("x.F:lib", 10, 40)}
	partial[1].SecondSequenceEnd = 8
	noMeta := []*delta.DeltaAlignment{newDelta("plain", 10, 0), newDelta("plain", 10, 40)}
	out, err := rr.ResolveAmbiguity([][]*delta.DeltaAlignment{single, partial, noMeta})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Errorf("accept as is: %d alignments, want 5", len(out))
	}

	read := []*delta.DeltaAlignment{newDelta("p1.F:lib", 10, 100), newDelta("p1.F:lib", 10, 10)}
	mate := []*delta.DeltaAlignment{newDelta("p1.R:lib", 10, 51), newDelta("p1.R:lib", 10, 150)}
	out, err = rr.ResolveAmbiguity([][]*delta.DeltaAlignment{read, mate})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != read[1] || out[1] != mate[0] {
		t.Errorf("resolved: %v", out)
	}

	other := NewRepeatResolver(make(config.CloneLibraries))
	out, _ = other.ResolveAmbiguity([][]*delta.DeltaAlignment{read, mate})
	if len(out) != 4 {
		t.Errorf("unknown library: %d alignments, want 4", len(out))
	}
	far := []*delta.DeltaAlignment{newDelta("p1.R:lib", 10, 180)}
	out, _ = rr.ResolveAmbiguity([][]*delta.DeltaAlignment{read, far})
	if len(out) != 3 {
		t.Errorf("no matching distance: %d alignments, want 3", len(out))
	}
}

// the mate is searched among the groups after the read only, and the
// distance runs from the read start to the mate end
func TestResolveAmbiguityOrder(t *testing.T) {
	rr := NewRepeatResolver(testLibs())
	read := []*delta.DeltaAlignment{newDelta("p2.F:lib", 10, 100), newDelta("p2.F:lib", 10, 10)}
	single := []*delta.DeltaAlignment{newDelta("p2.R:lib", 10, 51)}
	mate := []*delta.DeltaAlignment{newDelta("p2.R:lib", 10, 51), newDelta("p2.R:lib", 10, 150)}
	tests := []struct {
		name   string
		groups [][]*delta.DeltaAlignment
		want   []*delta.DeltaAlignment
	}{
		{"read then single mate", [][]*delta.DeltaAlignment{read, single}, []*delta.DeltaAlignment{read[1], single[0]}},
		{"single mate then read", [][]*delta.DeltaAlignment{single, read}, []*delta.DeltaAlignment{single[0], read[0], read[1]}},
		{"read then mate", [][]*delta.DeltaAlignment{read, mate}, []*delta.DeltaAlignment{read[1], mate[0]}},
		{"mate then read", [][]*delta.DeltaAlignment{mate, read}, []*delta.DeltaAlignment{mate[0], mate[1], read[0], read[1]}},
	}
	for _, tt := range tests {
		out, err := rr.ResolveAmbiguity(tt.groups)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != len(tt.want) {
			t.Errorf("%s: %d alignments, want %d", tt.name, len(out), len(tt.want))
			continue
		}
		for i := range out {
			if out[i] != tt.want[i] {
				t.Errorf("%s: alignment %d is %v, want %v", tt.name, i, out[i], tt.want[i])
			}
		}
	}
}

func TestRefineLayoutGap(t *testing.T) {
	q := seqs.New("q", "ACGTACGTAC")
	left := delta.NewDeltaAlignment(testRef, q, delta.Forward, 0, 0, 5)
	right := delta.NewDeltaAlignment(testRef, q, delta.Forward, 10, 5, 5)
	other := newDelta("o", 5, 20)
	das := []*delta.DeltaAlignment{left, right, other}
	if err := (LayoutRefiner{}).RefineLayout(das); err != nil {
		t.Fatal(err)
	}
	if right.FirstSequenceStart != 5 || right.FirstSequenceEnd != 9 {
		t.Errorf("shared read gap not closed: %v", right)
	}
	if other.FirstSequenceStart != 15 || other.FirstSequenceEnd != 19 {
		t.Errorf("following alignment not shifted: %v", other)
	}
	if das[0] != left || das[1] != right || das[2] != other {
		t.Error("alignments reordered")
	}
	if err := (LayoutRefiner{}).RefineLayout(nil); errors.Cause(err) != ErrNilAlignments {
		t.Errorf("nil alignments: %v", err)
	}
}

func TestRefineLayoutAdjacent(t *testing.T) {
	left := delta.NewDeltaAlignment(testRef, seqs.New("l", "AAAACCGT"), delta.Forward, 0, 0, 4)
	right := delta.NewDeltaAlignment(testRef, seqs.New("r", "CGTTGGGG"), delta.Forward, 4, 3, 5)
	if err := (LayoutRefiner{}).RefineLayout([]*delta.DeltaAlignment{left, right}); err != nil {
		t.Fatal(err)
	}
	if left.FirstSequenceEnd != 7 || left.SecondSequenceEnd != 7 {
		t.Errorf("left not extended: %v", left)
	}
	if right.FirstSequenceStart != 5 || right.FirstSequenceEnd != 12 || right.SecondSequenceStart != 0 {
		t.Errorf("right not moved: %v", right)
	}

	l1 := delta.NewDeltaAlignment(testRef, seqs.New("l1", "AAAAC"), delta.Forward, 0, 0, 4)
	l2 := delta.NewDeltaAlignment(testRef, seqs.New("l2", "AAAAG"), delta.Forward, 0, 0, 4)
	r := delta.NewDeltaAlignment(testRef, seqs.New("r", "CAAAA"), delta.Forward, 4, 1, 4)
	if err := (LayoutRefiner{}).RefineLayout([]*delta.DeltaAlignment{l1, l2, r}); err != nil {
		t.Fatal(err)
	}
	if l1.FirstSequenceEnd != 3 || r.FirstSequenceStart != 4 {
		t.Errorf("ambiguous extension applied: %v %v", l1, r)
	}
}

func TestFindMaxOverlap(t *testing.T) {
	tests := []struct {
		left, right string
		want        int
	}{
		{"CCGT", "CGT", 1},
		{"CGT", "CGTAA", 0},
		{"AAAA", "CG", -1},
		{"ACGTAC", "AC", 4},
	}
	for _, tt := range tests {
		if got := findMaxOverlap([]byte(tt.left), []byte(tt.right)); got != tt.want {
			t.Errorf("findMaxOverlap(%s, %s) = %d, want %d", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestGetConsensus(t *testing.T) {
	cr := NewConsensusResolver()
	tests := []struct {
		syms string
		want byte
	}{
		{"AAG", 'A'},
		{"AG", 'R'},
		{"ACGT", 'N'},
		{"ct", 'Y'},
		{"T", 'T'},
		{"AXXX", 'A'},
		{"xu*", 'N'},
		{"--a", '-'},
	}
	for _, tt := range tests {
		if got := cr.GetConsensus([]byte(tt.syms)); got != tt.want {
			t.Errorf("GetConsensus(%s) = %c, want %c", tt.syms, got, tt.want)
		}
	}
}

func TestGenerateConsensus(t *testing.T) {
	cg := NewConsensusGenerator()
	if _, err := cg.GenerateConsensus(nil); errors.Cause(err) != ErrNilAlignments {
		t.Fatalf("nil alignments: %v", err)
	}
	q := seqs.New("q", "ATGCAGTA")
	contigs, err := cg.GenerateConsensus([]*delta.DeltaAlignment{delta.NewDeltaAlignment(testRef, q, delta.Forward, 3, 0, 8)})
	if err != nil {
		t.Fatal(err)
	}
	if len(contigs) != 1 || contigs[0].String() != "ATGCAGTA" {
		t.Errorf("round trip: %v", seqs.SortedStrings(contigs))
	}

	das := []*delta.DeltaAlignment{
		delta.NewDeltaAlignment(testRef, seqs.New("a", "ACGA"), delta.Forward, 0, 0, 4),
		delta.NewDeltaAlignment(testRef, seqs.New("b", "GGTT"), delta.Forward, 3, 0, 4),
		delta.NewDeltaAlignment(testRef, seqs.New("c", "CCC"), delta.Forward, 20, 0, 3),
	}
	contigs, err = cg.GenerateConsensus(das)
	if err != nil {
		t.Fatal(err)
	}
	if len(contigs) != 2 || contigs[0].String() != "ACGRGTT" || contigs[1].String() != "CCC" {
		t.Errorf("regions: %v", seqs.SortedStrings(contigs))
	}
}

func TestAssemble(t *testing.T) {
	refs := []*seqs.Sequence{seqs.New("ref", "ATGCAGTA")}
	reads := []*seqs.Sequence{seqs.New("r1", "ATGC"), seqs.New("r2", "AGTA"), seqs.New("short", "AT")}
	for _, scaf := range []bool{false, true} {
		a := NewAssembler()
		a.LengthOfMum = 4
		a.KmerLength = 4
		a.ScaffoldingEnabled = scaf
		out, err := a.Assemble(context.Background(), refs, reads)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Join(seqs.SortedStrings(out), ""); got != "ATGCAGTA" {
			t.Errorf("scaffolding %v: %s", scaf, got)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewAssembler()
	if _, err := a.Assemble(ctx, refs, reads); errors.Cause(err) != context.Canceled {
		t.Errorf("canceled: %v", err)
	}
}
