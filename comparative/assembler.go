package comparative

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/delta"
	"github.com/mudesheng/gasm/scaffold"
	"github.com/mudesheng/gasm/seqs"
)

// Assembler run alignment, repeat resolution, layout refinement and
// consensus, optionally followed by scaffolding of the consensus contigs
type Assembler struct {
	KmerLength         int
	LengthOfMum        int
	BreakLength        int
	ScaffoldRedundancy int
	Depth              int
	ScaffoldingEnabled bool
	NumCPU             int
	Verbose            bool
	Libraries          config.CloneLibraries
	// nil means an ExactMatchAligner built from LengthOfMum and BreakLength
	Aligner delta.Aligner
}

func NewAssembler() *Assembler {
	return &Assembler{
		KmerLength:         10,
		LengthOfMum:        20,
		BreakLength:        1,
		ScaffoldRedundancy: 2,
		Depth:              10,
		NumCPU:             1,
	}
}

func (a *Assembler) aligner() delta.Aligner {
	if a.Aligner != nil {
		return a.Aligner
	}
	p := delta.Parameters{
		LengthOfMUM:       a.LengthOfMum,
		BreakLength:       a.BreakLength,
		MaximumSeparation: 0,
		SeparationFactor:  0,
		MinimumScore:      1,
		FixedSeparation:   0,
	}
	return delta.NewExactMatchAligner(p, 1)
}

// ReadAlignment align the reads to every reference in parallel and return
// the alignment groups, references in input order
func (a *Assembler) ReadAlignment(ctx context.Context, refs, reads []*seqs.Sequence) ([][]*delta.DeltaAlignment, error) {
	var filtered []*seqs.Sequence
	for _, r := range reads {
		if r.Len() >= a.LengthOfMum {
			filtered = append(filtered, r)
		}
	}
	aligner := a.aligner()
	perRef := make([][][]*delta.DeltaAlignment, len(refs))
	parallel.Range(0, len(refs), a.NumCPU, func(low, high int) {
		for i := low; i < high; i++ {
			if ctx.Err() != nil {
				return
			}
			perRef[i] = aligner.GetDeltaAlignments(refs[i], filtered)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[ReadAlignment]")
	}
	groups := make([][]*delta.DeltaAlignment, 0)
	for _, g := range perRef {
		groups = append(groups, g...)
	}
	return groups, nil
}

// Resolve run alignment, repeat resolution and layout refinement, the
// returned alignments are sorted by reference start
func (a *Assembler) Resolve(ctx context.Context, refs, reads []*seqs.Sequence) ([]*delta.DeltaAlignment, error) {
	t0 := time.Now()
	groups, err := a.ReadAlignment(ctx, refs, reads)
	if err != nil {
		return nil, err
	}
	if a.Verbose {
		log.Printf("[ReadAlignment] aligned reads: %d, used : %v\n", len(groups), time.Now().Sub(t0))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[RepeatResolution]")
	}
	resolved, err := NewRepeatResolver(a.Libraries).ResolveAmbiguity(groups)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(resolved, func(i, j int) bool { return resolved[i].FirstSequenceStart < resolved[j].FirstSequenceStart })
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[LayoutRefinement]")
	}
	if resolved == nil {
		resolved = []*delta.DeltaAlignment{}
	}
	if err := (LayoutRefiner{}).RefineLayout(resolved); err != nil {
		return nil, err
	}
	if a.Verbose {
		log.Printf("[Resolve] alignments: %d, used : %v\n", len(resolved), time.Now().Sub(t0))
	}
	return resolved, nil
}

// Assemble return the consensus contigs, or the scaffolds built from them
// when ScaffoldingEnabled is set
func (a *Assembler) Assemble(ctx context.Context, refs, reads []*seqs.Sequence) ([]*seqs.Sequence, error) {
	das, err := a.Resolve(ctx, refs, reads)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[ConsensusGeneration]")
	}
	contigs, err := NewConsensusGenerator().GenerateConsensus(das)
	if err != nil {
		return nil, err
	}
	if !a.ScaffoldingEnabled {
		return contigs, nil
	}
	b, err := scaffold.NewGraphScaffoldBuilder(a.Libraries, a.NumCPU)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	b.Verbose = a.Verbose
	return b.BuildScaffold(ctx, reads, contigs, a.KmerLength, a.Depth, a.ScaffoldRedundancy)
}
