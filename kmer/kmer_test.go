package kmer

import (
	"testing"

	"github.com/mudesheng/gasm/bnt"
)

func codes(t *testing.T, s string) []byte {
	bs, ok := bnt.Transform2Bnt([]byte(s), nil)
	if !ok {
		t.Fatalf("invalid test sequence %q", s)
	}
	return bs
}

func TestPackRoundTrip(t *testing.T) {
	for _, s := range []string{"A", "ACGT", "ACGTA", "TTTTTTTTTGCA"} {
		k := Pack(codes(t, s), nil)
		if got := string(k.Seq(len(s))); got != s {
			t.Errorf("Pack/Seq(%s) = %s", s, got)
		}
		if len(k) != PackedLen(len(s)) {
			t.Errorf("len(Pack(%s)) = %d", s, len(k))
		}
	}
}

func TestPackedOrder(t *testing.T) {
	a := Pack(codes(t, "ACGTT"), nil)
	b := Pack(codes(t, "ACGTG"), nil)
	if !(b < a) {
		t.Errorf("packed order not lexicographic: ACGTG >= ACGTT")
	}
}

func TestCanonical(t *testing.T) {
	fw := codes(t, "TTGC")
	rc := bnt.GetReverseCompBnt(fw, nil)
	key, forward := Canonical(fw, rc)
	if forward {
		t.Errorf("TTGC should not be canonical")
	}
	if got := string(key.Seq(4)); got != "GCAA" {
		t.Errorf("canonical key = %s, want GCAA", got)
	}
	if got := string(key.ReverseComplement(4).Seq(4)); got != "TTGC" {
		t.Errorf("ReverseComplement = %s", got)
	}
}

func TestWindows(t *testing.T) {
	ws := Windows(codes(t, "ACGTT"), 3)
	want := []struct {
		seq string
		fw  bool
	}{{"ACG", true}, {"ACG", false}, {"AAC", false}}
	if len(ws) != len(want) {
		t.Fatalf("len(Windows) = %d", len(ws))
	}
	for i, w := range want {
		if got := string(ws[i].Key.Seq(3)); got != w.seq || ws[i].Forward != w.fw {
			t.Errorf("window %d = %s/%v, want %s/%v", i, got, ws[i].Forward, w.seq, w.fw)
		}
	}
	if Windows(codes(t, "AC"), 3) != nil {
		t.Errorf("short read should have no windows")
	}
}
