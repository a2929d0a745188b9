package matepair

import (
	"testing"

	"github.com/mudesheng/gasm/config"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		id   string
		ok   bool
		want MateInfo
	}{
		{"read1.F:lib1", true, MateInfo{"read1", "F", "lib1"}},
		{"read1.R:lib1", true, MateInfo{"read1", "R", "lib1"}},
		{"read1.X:lib1", false, MateInfo{}},
		{"read1:lib1", false, MateInfo{}},
		{"read.1.F:lib1", false, MateInfo{}},
		{"read1..F:lib1", false, MateInfo{}},
		{"", false, MateInfo{}},
	}
	for _, c := range cases {
		mi, ok := ParseID(c.id)
		if ok != c.ok || (ok && mi != c.want) {
			t.Errorf("ParseID(%q) = %+v, %v", c.id, mi, ok)
		}
	}
	mi, _ := ParseID("r7.F:L2")
	mate, _ := ParseID(mi.MateID())
	if !mi.IsMate(mate) || mi.IsMate(mi) || mate.String() != "r7.R:L2" {
		t.Errorf("mate of %v = %v", mi, mate)
	}
}

func TestClassify(t *testing.T) {
	libs := config.CloneLibraries{}
	libs.Add("lib", 100, 10)
	info := MateInfo{"r", "F", "lib"}
	h := func(target, start, end int) Hit { return Hit{Target: target, Start: start, End: end} }
	cases := []struct {
		p    Pair
		want PairedReadType
	}{
		{Pair{info, nil, []Hit{h(0, 0, 9)}}, Orphan},
		{Pair{info, []Hit{h(0, 0, 9), h(1, 0, 9)}, []Hit{h(0, 80, 99)}}, MultipleHits},
		{Pair{info, []Hit{h(0, 0, 9)}, []Hit{h(1, 80, 99)}}, Chimera},
		{Pair{info, []Hit{h(0, 0, 9)}, []Hit{h(0, 80, 99)}}, Normal},
		{Pair{info, []Hit{h(0, 0, 9)}, []Hit{h(0, 180, 199)}}, LengthAnomaly},
	}
	for i, c := range cases {
		if got := Classify(c.p, libs); got != c.want {
			t.Errorf("case %d Classify = %v, want %v", i, got, c.want)
		}
	}
}

func TestCollectPairs(t *testing.T) {
	ids := []string{"a.F:l", "noinfo", "a.R:l", "b.R:l"}
	hits := [][]Hit{{{Target: 1}}, {{Target: 2}}, {{Target: 3}}, nil}
	pairs := CollectPairs(ids, hits)
	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d", len(pairs))
	}
	if pairs[0].Info.Name != "a" || len(pairs[0].Hits1) != 1 || pairs[0].Hits2[0].Target != 3 {
		t.Errorf("pair a = %+v", pairs[0])
	}
	if Classify(pairs[1], nil) != Orphan {
		t.Errorf("pair b expect Orphan")
	}
}
