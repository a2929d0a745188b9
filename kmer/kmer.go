// Package kmer packs DNA k-mers into 2-bit strings and selects the canonical
// form of a k-mer and its reverse complement.
package kmer

import (
	"bytes"

	"github.com/mudesheng/gasm/bnt"
)

// Kmer is a 2-bit packed k-mer, 4 bases per byte, first base in the highest
// bits. Unused low bits of the last byte are zero, so comparing two Kmer of
// the same length equals comparing their base sequences.
type Kmer string

// PackedLen return the number of bytes needed by a kmer of length klen
func PackedLen(klen int) int {
	return (klen + bnt.NumBaseInByte - 1) / bnt.NumBaseInByte
}

// Pack convert 2-bit codes to Kmer, buf is used as scratch space
func Pack(bs []byte, buf []byte) Kmer {
	n := PackedLen(len(bs))
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}
	for i, b := range bs {
		shift := uint(bnt.NumBaseInByte-1-i%bnt.NumBaseInByte) * bnt.NumBitsInBase
		buf[i/bnt.NumBaseInByte] |= b << shift
	}
	return Kmer(buf)
}

// Base return the 2-bit code at position i
func (k Kmer) Base(i int) byte {
	shift := uint(bnt.NumBaseInByte-1-i%bnt.NumBaseInByte) * bnt.NumBitsInBase
	return (k[i/bnt.NumBaseInByte] >> shift) & bnt.BaseMask
}

// Unpack return the 2-bit codes of the kmer
func (k Kmer) Unpack(klen int) []byte {
	bs := make([]byte, klen)
	for i := range bs {
		bs[i] = k.Base(i)
	}
	return bs
}

// Seq return the upper case ASCII sequence of the kmer
func (k Kmer) Seq(klen int) []byte {
	return bnt.Transform2Char(k.Unpack(klen))
}

// ReverseComplement return the packed reverse complement of the kmer
func (k Kmer) ReverseComplement(klen int) Kmer {
	return Pack(bnt.GetReverseCompBnt(k.Unpack(klen), nil), nil)
}

// Canonical choose the smaller one of fw and its reverse complement rc (both
// 2-bit codes). forward is true when fw itself is canonical; palindromes are
// forward.
func Canonical(fw, rc []byte) (key Kmer, forward bool) {
	if bytes.Compare(fw, rc) <= 0 {
		return Pack(fw, nil), true
	}
	return Pack(rc, nil), false
}

// Window describe one k-mer occurrence in a read
type Window struct {
	Pos     int
	Key     Kmer
	Forward bool
}

// Windows extract all canonical k-mers of read (2-bit codes) in read order
func Windows(codes []byte, klen int) []Window {
	if klen <= 0 || len(codes) < klen {
		return nil
	}
	rc := bnt.GetReverseCompBnt(codes, nil)
	n := len(codes)
	ws := make([]Window, 0, n-klen+1)
	for i := 0; i+klen <= n; i++ {
		key, fw := Canonical(codes[i:i+klen], rc[n-i-klen:n-i])
		ws = append(ws, Window{Pos: i, Key: key, Forward: fw})
	}
	return ws
}
