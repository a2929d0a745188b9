// Package seqs holds the plain sequence record shared by the assemblers.
package seqs

import (
	"sort"

	"github.com/mudesheng/gasm/bnt"
)

// Sequence is one named sequence of ASCII letters
type Sequence struct {
	ID  string
	Seq []byte
}

// New create a Sequence from a string
func New(id, s string) *Sequence {
	return &Sequence{ID: id, Seq: []byte(s)}
}

// Len return the number of letters
func (s *Sequence) Len() int {
	return len(s.Seq)
}

func (s *Sequence) String() string {
	return string(s.Seq)
}

// ReverseComplement return a new Sequence holding the reverse complement
func (s *Sequence) ReverseComplement() *Sequence {
	return &Sequence{ID: s.ID, Seq: bnt.GetReverseCompByteArr(s.Seq)}
}

// SubSequence return letters [start, start+length)
func (s *Sequence) SubSequence(start, length int) []byte {
	return s.Seq[start : start+length]
}

// IsDNA report whether all letters are ACGT
func (s *Sequence) IsDNA() bool {
	return bnt.IsDNA(s.Seq)
}

// SortedStrings return the letters of each sequence sorted, used for
// comparing results where order is not guaranteed
func SortedStrings(ss []*Sequence) []string {
	arr := make([]string, len(ss))
	for i, s := range ss {
		arr[i] = string(s.Seq)
	}
	sort.Strings(arr)
	return arr
}
