package readio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/seqs"
)

func TestGetReadsFileFormat(t *testing.T) {
	cases := []struct {
		fn, format, compress string
	}{
		{"reads.fa", FormatFasta, CompressNone},
		{"reads.fasta.zst", FormatFasta, CompressZstd},
		{"a.b.fq.br", FormatFastq, CompressBr},
		{"reads.fastq.gz", FormatFastq, CompressGz},
	}
	for _, c := range cases {
		format, compress, err := GetReadsFileFormat(c.fn)
		if err != nil || format != c.format || compress != c.compress {
			t.Errorf("GetReadsFileFormat(%q) = %q, %q, %v", c.fn, format, compress, err)
		}
	}
	for _, fn := range []string{"reads", "reads.zst", "reads.txt"} {
		if _, _, err := GetReadsFileFormat(fn); errors.Cause(err) != ErrUnknownFormat {
			t.Errorf("GetReadsFileFormat(%q) err = %v", fn, err)
		}
	}
}

func TestReadSeqs(t *testing.T) {
	fa := ">r1.F:lib desc\nACGT\nAC\n>r2\nGGTT\n"
	ss, err := ReadSeqs(strings.NewReader(fa), FormatFasta)
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 2 || ss[0].ID != "r1.F:lib" || string(ss[0].Seq) != "ACGTAC" || string(ss[1].Seq) != "GGTT" {
		t.Errorf("fasta records = %v", ss)
	}
	fq := "@q1\nACGTT\n+\nIIIII\n"
	ss, err = ReadSeqs(strings.NewReader(fq), FormatFastq)
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 1 || ss[0].ID != "q1" || string(ss[0].Seq) != "ACGTT" {
		t.Errorf("fastq records = %v", ss)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := []*seqs.Sequence{seqs.New("c1", "ATGCAGTA"), seqs.New("c2", strings.Repeat("ACGT", 40))}
	for _, name := range []string{"out.fa", "out.fa.zst", "out.fa.br", "out.fa.gz"} {
		fn := filepath.Join(dir, name)
		if err := WriteFastaFile(fn, in); err != nil {
			t.Fatalf("WriteFastaFile(%v): %v", name, err)
		}
		out, err := LoadSeqs(fn)
		if err != nil {
			t.Fatalf("LoadSeqs(%v): %v", name, err)
		}
		if len(out) != 2 || out[0].ID != "c1" || !bytes.Equal(out[1].Seq, in[1].Seq) {
			t.Errorf("%v round trip = %v", name, out)
		}
	}
}
