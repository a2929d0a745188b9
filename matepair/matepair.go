// Package matepair parses mate-pair metadata carried in read IDs and
// classifies how the two reads of a pair were placed.
package matepair

import (
	"strings"

	"github.com/mudesheng/gasm/config"
)

const (
	Forward = "F"
	Reverse = "R"
)

// MateInfo is the metadata of read ID 'name.F:library' or 'name.R:library'
type MateInfo struct {
	Name    string
	Tag     string
	Library string
}

// ParseID split id on '.' and ':', it must give exactly three parts and the
// middle one must be F or R
func ParseID(id string) (mi MateInfo, ok bool) {
	fields := strings.FieldsFunc(id, func(r rune) bool { return r == '.' || r == ':' })
	if len(fields) != 3 || strings.Count(id, ".")+strings.Count(id, ":") != 2 {
		return mi, false
	}
	if fields[1] != Forward && fields[1] != Reverse {
		return mi, false
	}
	return MateInfo{Name: fields[0], Tag: fields[1], Library: fields[2]}, true
}

// IsMate report whether o is the other read of the same pair
func (mi MateInfo) IsMate(o MateInfo) bool {
	return mi.Name == o.Name && mi.Library == o.Library && mi.Tag != o.Tag
}

// MateID return the read ID of the other read of the pair
func (mi MateInfo) MateID() string {
	tag := Forward
	if mi.Tag == Forward {
		tag = Reverse
	}
	return mi.Name + "." + tag + ":" + mi.Library
}

func (mi MateInfo) String() string {
	return mi.Name + "." + mi.Tag + ":" + mi.Library
}

type PairedReadType uint8

const (
	Normal PairedReadType = iota
	// insert length out of mean +- 3*SD
	LengthAnomaly
	// only one read placed
	Orphan
	// at least one read placed more than once
	MultipleHits
	// reads placed on different sequences
	Chimera
)

var pairedReadTypeName = [...]string{"Normal", "LengthAnomaly", "Orphan", "MultipleHits", "Chimera"}

func (t PairedReadType) String() string {
	if int(t) < len(pairedReadTypeName) {
		return pairedReadTypeName[t]
	}
	return "Unknown"
}

// Hit is one placement of a read on a target sequence, Start and End are
// zero-based inclusive target coordinates
type Hit struct {
	Target  int
	Start   int
	End     int
	Forward bool
}

// Pair group the placements of both reads of a pair
type Pair struct {
	Info  MateInfo
	Hits1 []Hit // placements of the F read
	Hits2 []Hit // placements of the R read
}

// InsertLength return the outer distance of two placements on one target
func InsertLength(h1, h2 Hit) int {
	start, end := h1.Start, h1.End
	if h2.Start < start {
		start = h2.Start
	}
	if h2.End > end {
		end = h2.End
	}
	return end - start + 1
}

// Classify decide the PairedReadType of p using its library statistics, a
// pair of a library not in libs can only be Orphan, MultipleHits or Chimera
func Classify(p Pair, libs config.CloneLibraries) PairedReadType {
	switch {
	case len(p.Hits1) == 0 || len(p.Hits2) == 0:
		return Orphan
	case len(p.Hits1) > 1 || len(p.Hits2) > 1:
		return MultipleHits
	case p.Hits1[0].Target != p.Hits2[0].Target:
		return Chimera
	}
	lib, ok := libs.Lookup(p.Info.Library)
	if !ok {
		return Normal
	}
	il := float64(InsertLength(p.Hits1[0], p.Hits2[0]))
	if il > lib.InsertSize+3*lib.InsertSD || il < lib.InsertSize-3*lib.InsertSD {
		return LengthAnomaly
	}
	return Normal
}

// CollectPairs group read placements by pair. hits is indexed like ids,
// reads without mate metadata are skipped. Pairs are returned in order of
// first appearance.
func CollectPairs(ids []string, hits [][]Hit) []Pair {
	idx := make(map[string]int)
	var pairs []Pair
	for i, id := range ids {
		mi, ok := ParseID(id)
		if !ok {
			continue
		}
		key := mi.Name + ":" + mi.Library
		j, ok := idx[key]
		if !ok {
			j = len(pairs)
			idx[key] = j
			pairs = append(pairs, Pair{Info: MateInfo{Name: mi.Name, Tag: Forward, Library: mi.Library}})
		}
		if mi.Tag == Forward {
			pairs[j].Hits1 = append(pairs[j].Hits1, hits[i]...)
		} else {
			pairs[j].Hits2 = append(pairs[j].Hits2, hits[i]...)
		}
	}
	return pairs
}
