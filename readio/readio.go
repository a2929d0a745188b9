// Package readio loads reads and reference sequences from FASTA/FASTQ files
// and writes assembled sequences, compressed transparently by file suffix.
package readio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/seqs"
)

var ErrUnknownFormat = errors.New("unknown sequence file format")

const (
	FormatFasta = "fa"
	FormatFastq = "fq"
)

const (
	CompressNone = ""
	CompressZstd = "zst"
	CompressBr   = "br"
	CompressGz   = "gz"
)

// FastaLineWidth is the letters per line of written FASTA records
const FastaLineWidth = 60

// GetReadsFileFormat return the record format and compression of file fn,
// e.g. 'reads.fq.zst' -> ("fq", "zst"), 'ref.fasta' -> ("fa", "")
func GetReadsFileFormat(fn string) (format, compress string, err error) {
	sfn := strings.Split(fn, ".")
	if len(sfn) < 2 {
		return "", "", errors.Wrapf(ErrUnknownFormat, "[GetReadsFileFormat] file: %v need suffix '*.fa|*.fasta|*.fq|*.fastq[.zst|.br|.gz]'", fn)
	}
	tmp := sfn[len(sfn)-1]
	switch tmp {
	case CompressZstd, CompressBr, CompressGz:
		compress = tmp
		if len(sfn) < 3 {
			return "", "", errors.Wrapf(ErrUnknownFormat, "[GetReadsFileFormat] file: %v", fn)
		}
		tmp = sfn[len(sfn)-2]
	}
	switch tmp {
	case "fa", "fasta", "fna":
		format = FormatFasta
	case "fq", "fastq":
		format = FormatFastq
	default:
		return "", "", errors.Wrapf(ErrUnknownFormat, "[GetReadsFileFormat] file: %v", fn)
	}
	return format, compress, nil
}

// NewDecompressReader wrap fp with the decoder of compress
func NewDecompressReader(fp io.Reader, compress string) (io.ReadCloser, error) {
	switch compress {
	case CompressNone:
		return io.NopCloser(fp), nil
	case CompressZstd:
		zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrap(err, "[NewDecompressReader] zstd")
		}
		return zr.IOReadCloser(), nil
	case CompressBr:
		return cbrotli.NewReader(fp), nil
	case CompressGz:
		gr, err := gzip.NewReader(fp)
		if err != nil {
			return nil, errors.Wrap(err, "[NewDecompressReader] gzip")
		}
		return gr, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "[NewDecompressReader] compress: %v", compress)
}

// ReadSeqs parse all records of r in format
func ReadSeqs(r io.Reader, format string) ([]*seqs.Sequence, error) {
	var sr seqio.Reader
	switch format {
	case FormatFasta:
		sr = fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	case FormatFastq:
		sr = fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "[ReadSeqs] format: %v", format)
	}
	var ss []*seqs.Sequence
	sc := seqio.NewScanner(sr)
	for sc.Next() {
		switch s := sc.Seq().(type) {
		case *linear.Seq:
			bs := make([]byte, len(s.Seq))
			for i, l := range s.Seq {
				bs[i] = byte(l)
			}
			ss = append(ss, &seqs.Sequence{ID: s.ID, Seq: bs})
		case *linear.QSeq:
			bs := make([]byte, len(s.Seq))
			for i, ql := range s.Seq {
				bs[i] = byte(ql.L)
			}
			ss = append(ss, &seqs.Sequence{ID: s.ID, Seq: bs})
		}
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrap(err, "[ReadSeqs]")
	}
	return ss, nil
}

// LoadSeqs read all records of file fn
func LoadSeqs(fn string) ([]*seqs.Sequence, error) {
	format, compress, err := GetReadsFileFormat(fn)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadSeqs] open file: %v", fn)
	}
	defer fp.Close()
	dr, err := NewDecompressReader(bufio.NewReaderSize(fp, 1<<20), compress)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadSeqs] file: %v", fn)
	}
	defer dr.Close()
	ss, err := ReadSeqs(dr, format)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadSeqs] file: %v", fn)
	}
	return ss, nil
}

// LoadSeqsFiles read and concatenate records of all files
func LoadSeqsFiles(fns []string) ([]*seqs.Sequence, error) {
	var ss []*seqs.Sequence
	for _, fn := range fns {
		arr, err := LoadSeqs(fn)
		if err != nil {
			return nil, err
		}
		ss = append(ss, arr...)
	}
	return ss, nil
}

// WriteFasta write ss as FASTA records to w
func WriteFasta(w io.Writer, ss []*seqs.Sequence) error {
	fw := fasta.NewWriter(w, FastaLineWidth)
	for _, s := range ss {
		ls := make([]alphabet.Letter, len(s.Seq))
		for i, c := range s.Seq {
			ls[i] = alphabet.Letter(c)
		}
		if _, err := fw.Write(linear.NewSeq(s.ID, ls, alphabet.DNAredundant)); err != nil {
			return errors.Wrapf(err, "[WriteFasta] seq: %v", s.ID)
		}
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// CreateWriter open fn for writing, compressed by its suffix; an empty name
// or '-' means stdout. Close must be called to flush the encoder.
func CreateWriter(fn string) (io.WriteCloser, error) {
	if fn == "" || fn == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	outfp, err := os.Create(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "[CreateWriter] create file: %v", fn)
	}
	var compress string
	if i := strings.LastIndexByte(fn, '.'); i >= 0 {
		compress = fn[i+1:]
	}
	mc := &multiWriteCloser{closers: []io.Closer{outfp}}
	switch compress {
	case CompressZstd:
		zw, err := zstd.NewWriter(outfp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
		if err != nil {
			outfp.Close()
			return nil, errors.Wrapf(err, "[CreateWriter] zstd file: %v", fn)
		}
		mc.Writer = zw
		mc.closers = append(mc.closers, zw)
	case CompressBr:
		brfp := cbrotli.NewWriter(outfp, cbrotli.WriterOptions{Quality: 1})
		mc.Writer = brfp
		mc.closers = append(mc.closers, brfp)
	case CompressGz:
		gw := gzip.NewWriter(outfp)
		mc.Writer = gw
		mc.closers = append(mc.closers, gw)
	default:
		mc.Writer = outfp
	}
	return mc, nil
}

type multiWriteCloser struct {
	io.Writer
	closers []io.Closer
}

// Close close the encoder first, then the file
func (m *multiWriteCloser) Close() error {
	var err error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if e := m.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// WriteFastaFile write ss to file fn, see CreateWriter
func WriteFastaFile(fn string, ss []*seqs.Sequence) error {
	w, err := CreateWriter(fn)
	if err != nil {
		return err
	}
	if err = WriteFasta(w, ss); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
