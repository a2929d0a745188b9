package comparative

import (
	"sort"
	"strconv"

	"github.com/biogo/biogo/alphabet"

	"github.com/mudesheng/gasm/delta"
	"github.com/mudesheng/gasm/seqs"
)

// iupac map a set of bases (bit 0 A, 1 C, 2 G, 3 T) to its ambiguity code
var iupac = [16]byte{
	0: 'N', 1: 'A', 2: 'C', 3: 'M', 4: 'G', 5: 'R', 6: 'S', 7: 'V',
	8: 'T', 9: 'W', 10: 'Y', 11: 'H', 12: 'K', 13: 'D', 14: 'B', 15: 'N',
}

var baseSet [256]uint8

func init() {
	for set, c := range iupac {
		if set > 0 {
			baseSet[c] = uint8(set)
			baseSet[c+'a'-'A'] = uint8(set)
		}
	}
}

// ConsensusResolver return the majority symbol of the symbols at one
// position, ties between bases give their ambiguity code. Symbols outside
// Alphabet are not counted.
type ConsensusResolver struct {
	Alphabet alphabet.Alphabet
	counts   [256]int
}

func NewConsensusResolver() *ConsensusResolver {
	return &ConsensusResolver{Alphabet: alphabet.DNAredundant}
}

func (cr *ConsensusResolver) GetConsensus(syms []byte) byte {
	if len(syms) == 0 {
		return delta.Gap
	}
	for i := range cr.counts {
		cr.counts[i] = 0
	}
	best := 0
	for _, c := range syms {
		if !cr.Alphabet.IsValid(alphabet.Letter(c)) {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		cr.counts[c]++
		if cr.counts[c] > best {
			best = cr.counts[c]
		}
	}
	if best == 0 {
		return 'N'
	}
	var set uint8
	var winner byte
	winners := 0
	for c, n := range cr.counts {
		if n == best {
			winner = byte(c)
			set |= baseSet[c]
			winners++
		}
	}
	if winners == 1 {
		return winner
	}
	if set == 0 {
		// tie of gaps or N
		return 'N'
	}
	return iupac[set]
}

type inPlay struct {
	da    *delta.DeltaAlignment
	query []byte
}

// ConsensusGenerator call one contig per contiguous covered region of the
// reference from alignments sorted by reference start
type ConsensusGenerator struct {
	Resolver *ConsensusResolver
}

func NewConsensusGenerator() *ConsensusGenerator {
	return &ConsensusGenerator{Resolver: NewConsensusResolver()}
}

// GenerateConsensus walk the reference positions covered by das. An
// alignment contributes its aligned query bases from its start on; a region
// ends when no alignment is in play and none starts at the next position.
// Contigs are returned ordered by start offset.
func (cg *ConsensusGenerator) GenerateConsensus(das []*delta.DeltaAlignment) ([]*seqs.Sequence, error) {
	if das == nil {
		return nil, nilAlignments("das")
	}
	if !sort.SliceIsSorted(das, func(i, j int) bool { return das[i].FirstSequenceStart < das[j].FirstSequenceStart }) {
		sorted := append([]*delta.DeltaAlignment(nil), das...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FirstSequenceStart < sorted[j].FirstSequenceStart })
		das = sorted
	}
	var contigs []*seqs.Sequence
	var play []inPlay
	syms := make([]byte, 0, 16)
	next := 0
	for next < len(das) {
		regionStart := das[next].FirstSequenceStart
		var contig []byte
		for pos := regionStart; ; pos++ {
			for next < len(das) && das[next].FirstSequenceStart <= pos {
				da := das[next]
				next++
				q := da.QuerySequence.Seq[da.SecondSequenceStart : da.SecondSequenceEnd+1]
				if pos-da.FirstSequenceStart < len(q) {
					play = append(play, inPlay{da: da, query: q})
				}
			}
			if len(play) == 0 {
				break
			}
			syms = syms[:0]
			kept := play[:0]
			for _, p := range play {
				idx := pos - p.da.FirstSequenceStart
				syms = append(syms, p.query[idx])
				if idx < len(p.query)-1 {
					kept = append(kept, p)
				}
			}
			play = kept
			contig = append(contig, cg.Resolver.GetConsensus(syms))
		}
		if len(contig) > 0 {
			contigs = append(contigs, &seqs.Sequence{ID: "Contig_" + strconv.Itoa(regionStart), Seq: contig})
		}
	}
	return contigs, nil
}
