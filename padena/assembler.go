// Package padena is the parallel de novo assembler: it builds a de Bruijn
// graph from reads, purges its errors, then walks contigs and optionally
// joins them into scaffolds.
package padena

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/contig"
	"github.com/mudesheng/gasm/dbg"
	"github.com/mudesheng/gasm/purge"
	"github.com/mudesheng/gasm/scaffold"
	"github.com/mudesheng/gasm/seqs"
	"github.com/mudesheng/gasm/utils"
)

var (
	ErrNotDNA                  = dbg.ErrNotDNA
	ErrInappropriateKmerLength = errors.New("inappropriate k-mer length")
	ErrKmerLength              = errors.New("k-mer length must be positive")
	ErrNoReads                 = errors.New("no input reads")
	ErrNilContigBuilder        = errors.New("contig builder is not set")
)

// State is the last finished stage of an Assembler
type State uint8

const (
	Uninitialized State = iota
	Initialized
	GraphBuilt
	DanglingPurged
	RedundancyPurged
	DanglingPurged2
	ContigsBuilt
	ScaffoldsBuilt
	Done
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case GraphBuilt:
		return "GraphBuilt"
	case DanglingPurged:
		return "DanglingPurged"
	case RedundancyPurged:
		return "RedundancyPurged"
	case DanglingPurged2:
		return "DanglingPurged2"
	case ContigsBuilt:
		return "ContigsBuilt"
	case ScaffoldsBuilt:
		return "ScaffoldsBuilt"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// Assembly is the result of one run
type Assembly struct {
	Contigs   []*seqs.Sequence
	Scaffolds []*seqs.Sequence
}

// Thresholds are the values one run actually used
type Thresholds struct {
	KmerLength          int
	DanglingLinks       int
	RedundantPathLength int
	Erosion             int
	ContigCoverage      float64
}

// Assembler hold the options and purgers of the pipeline. Thresholds of -1
// are derived from the k-mer length or estimated from the graph on every
// run, the option fields are never overwritten.
type Assembler struct {
	KmerLength                    int
	AllowKmerLengthEstimation     bool
	DanglingLinksThreshold        int
	AllowErosion                  bool
	ErosionThreshold              int
	RedundantPathLengthThreshold  int
	AllowLowCoverageContigRemoval bool
	ContigCoverageThreshold       float64
	ScaffoldRedundancy            int
	Depth                         int
	NumCPU                        int
	Verbose                       bool

	DanglingLinksPurger  purge.ErrorPurger
	RedundantPathsPurger purge.ErrorPurger
	LowCoveragePurger    contig.LowCoverageContigPurger
	ContigBuilder        contig.Builder
	ScaffoldBuilder      scaffold.Builder
	Libraries            config.CloneLibraries
	ownScaffoldBuilder   bool
	reads                []*seqs.Sequence
	graph                *dbg.Graph
	resolved             Thresholds
	state                State
	eroded               bool
}

// NewAssembler return an Assembler with the default purgers and builders
func NewAssembler() *Assembler {
	return &Assembler{
		AllowKmerLengthEstimation:    true,
		DanglingLinksThreshold:       -1,
		ErosionThreshold:             -1,
		RedundantPathLengthThreshold: -1,
		ContigCoverageThreshold:      -1,
		ScaffoldRedundancy:           2,
		Depth:                        10,
		NumCPU:                       1,
		DanglingLinksPurger:          purge.NewDanglingLinksPurger(0, 1),
		RedundantPathsPurger:         purge.NewRedundantPathsPurger(0, 1),
		LowCoveragePurger:            contig.SimplePathLowCoveragePurger{},
		ContigBuilder:                &contig.SimplePathContigBuilder{Prefix: "Contig"},
	}
}

// SetKmerLength fix the k-mer length and turn estimation off
func (a *Assembler) SetKmerLength(k int) {
	a.KmerLength = k
	a.AllowKmerLengthEstimation = false
}

// Graph return the graph of the last run
func (a *Assembler) Graph() *dbg.Graph {
	return a.graph
}

// Thresholds return the thresholds resolved by the last run
func (a *Assembler) Thresholds() Thresholds {
	return a.resolved
}

// State return the last finished stage
func (a *Assembler) State() State {
	return a.state
}

// EstimateKmerLength choose a k-mer length from the read lengths: the
// middle of [maxReadLen/2, minReadLen], rounded up, or minReadLen when the
// range is empty. Reads of a single length L give about 3L/4, not L
// (length 8 gives 6).
func EstimateKmerLength(reads []*seqs.Sequence) (int, error) {
	if len(reads) == 0 {
		return 0, ErrNoReads
	}
	minLen, maxLen := math.MaxInt32, 0
	for _, r := range reads {
		minLen = utils.MinInt(minLen, r.Len())
		maxLen = utils.MaxInt(maxLen, r.Len())
	}
	maxK := float64(minLen)
	minK := float64(maxLen / 2)
	var k int
	if minK < maxK {
		k = int(math.Ceil((minK + maxK) / 2))
	} else {
		k = int(math.Floor(maxK))
	}
	if k > int(maxK) {
		return 0, errors.Wrapf(ErrInappropriateKmerLength, "[EstimateKmerLength] k: %d, shortest read: %d", k, minLen)
	}
	if k <= 0 {
		return 0, errors.Wrapf(ErrKmerLength, "[EstimateKmerLength] k: %d", k)
	}
	return k, nil
}

// initialize validate the reads and resolve the k-mer length and the
// length thresholds
func (a *Assembler) initialize(reads []*seqs.Sequence) error {
	if len(reads) == 0 {
		return ErrNoReads
	}
	for _, r := range reads {
		if !r.IsDNA() {
			return errors.Wrapf(ErrNotDNA, "[initialize] read: %v", r.ID)
		}
	}
	t := Thresholds{
		KmerLength:          a.KmerLength,
		DanglingLinks:       a.DanglingLinksThreshold,
		RedundantPathLength: a.RedundantPathLengthThreshold,
		Erosion:             a.ErosionThreshold,
		ContigCoverage:      a.ContigCoverageThreshold,
	}
	if a.AllowKmerLengthEstimation {
		k, err := EstimateKmerLength(reads)
		if err != nil {
			return err
		}
		t.KmerLength = k
	} else if t.KmerLength <= 0 {
		return errors.Wrapf(ErrKmerLength, "[initialize] k: %d", t.KmerLength)
	}
	if a.NumCPU <= 0 {
		a.NumCPU = 1
	}
	if t.DanglingLinks == -1 {
		t.DanglingLinks = t.KmerLength + 1
	}
	if t.RedundantPathLength == -1 {
		t.RedundantPathLength = 3 * (t.KmerLength + 1)
	}
	if a.RedundantPathsPurger != nil {
		a.RedundantPathsPurger.SetLengthThreshold(t.RedundantPathLength)
	}
	a.resolved = t
	a.setNumCPU()
	a.reads = reads
	a.state = Initialized
	return nil
}

func (a *Assembler) setNumCPU() {
	if p, ok := a.DanglingLinksPurger.(*purge.DanglingLinksPurger); ok {
		p.NumCPU = a.NumCPU
	}
	if p, ok := a.RedundantPathsPurger.(*purge.RedundantPathsPurger); ok {
		p.NumCPU = a.NumCPU
	}
}

// estimateDefaultThresholds set the erosion and coverage thresholds left
// at -1 to the square root of the median count of nodes seen more than
// twice, or 2 when there are none
func (a *Assembler) estimateDefaultThresholds() {
	if !a.AllowErosion && !a.AllowLowCoverageContigRemoval {
		return
	}
	nodes := a.graph.Nodes
	counts := parallel.RangeReduce(0, len(nodes), a.NumCPU, func(low, high int) interface{} {
		var arr []int
		for _, n := range nodes[low:high] {
			if n.GetDeleteFlag() == 0 && n.Count > 2 {
				arr = append(arr, int(n.Count))
			}
		}
		return arr
	}, func(x, y interface{}) interface{} {
		return append(x.([]int), y.([]int)...)
	}).([]int)
	threshold := 2.0
	if len(counts) > 0 {
		threshold = math.Sqrt(utils.MedianInt(counts))
	}
	if a.AllowLowCoverageContigRemoval && a.resolved.ContigCoverage == -1 {
		a.resolved.ContigCoverage = threshold
	}
	if a.AllowErosion && a.resolved.Erosion == -1 {
		a.resolved.Erosion = utils.RoundInt(threshold)
	}
	if a.Verbose {
		log.Printf("[estimateDefaultThresholds] erosion: %d, coverage: %v\n", a.resolved.Erosion, a.resolved.ContigCoverage)
	}
}

// unDangleGraph remove dangling links at every length below the threshold,
// then at the threshold until nothing changes. Erosion runs on the first
// call only.
func (a *Assembler) unDangleGraph() {
	p := a.DanglingLinksPurger
	if p == nil || a.resolved.DanglingLinks <= 0 {
		return
	}
	p.SetLengthThreshold(a.resolved.DanglingLinks - 1)
	var lengths []int
	if eroder, ok := p.(purge.EndsEroder); ok && a.AllowErosion && !a.eroded {
		lengths = eroder.ErodeGraphEnds(a.graph, a.resolved.Erosion)
	} else {
		for l := 1; l < a.resolved.DanglingLinks; l++ {
			lengths = append(lengths, l)
		}
	}
	a.eroded = true

	for _, l := range lengths {
		if a.graph.NodeCount() >= l {
			p.SetLengthThreshold(l)
			p.RemoveErroneousNodes(a.graph, p.DetectErroneousNodes(a.graph))
		}
	}
	for a.graph.NodeCount() >= a.resolved.DanglingLinks {
		p.SetLengthThreshold(a.resolved.DanglingLinks)
		pl := p.DetectErroneousNodes(a.graph)
		p.RemoveErroneousNodes(a.graph, pl)
		if len(pl) == 0 {
			break
		}
	}
}

// removeRedundancy purge bubbles until none is found
func (a *Assembler) removeRedundancy() {
	p := a.RedundantPathsPurger
	if p == nil {
		return
	}
	for {
		pl := p.DetectErroneousNodes(a.graph)
		p.RemoveErroneousNodes(a.graph, pl)
		if len(pl) == 0 {
			break
		}
	}
}

func (a *Assembler) buildContigs() ([]*seqs.Sequence, error) {
	if a.ContigBuilder == nil {
		return nil, ErrNilContigBuilder
	}
	if a.AllowLowCoverageContigRemoval && a.resolved.ContigCoverage > 0 && a.LowCoveragePurger != nil {
		num := a.LowCoveragePurger.RemoveLowCoverageContigs(a.graph, a.resolved.ContigCoverage)
		if a.Verbose {
			log.Printf("[buildContigs] low coverage nodes removed: %d\n", num)
		}
	}
	return a.ContigBuilder.Build(a.graph), nil
}

func (a *Assembler) buildScaffolds(ctx context.Context, contigs []*seqs.Sequence) ([]*seqs.Sequence, error) {
	if a.ScaffoldBuilder == nil {
		b, err := scaffoldBuilder(a.Libraries, a.NumCPU, a.Verbose)
		if err != nil {
			return nil, err
		}
		a.ScaffoldBuilder = b
		a.ownScaffoldBuilder = true
	}
	return a.ScaffoldBuilder.BuildScaffold(ctx, a.reads, contigs, a.resolved.KmerLength, a.Depth, a.ScaffoldRedundancy)
}

// stage run f and log its time when verbose, it stops early when ctx is
// done
func (a *Assembler) stage(ctx context.Context, name string, next State, f func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "[%s]", name)
	}
	t0 := time.Now()
	if err := f(); err != nil {
		return err
	}
	a.state = next
	if a.Verbose {
		log.Printf("[%s] nodes: %d, used : %v\n", name, a.nodeCount(), time.Now().Sub(t0))
	}
	return nil
}

func (a *Assembler) nodeCount() int {
	if a.graph == nil {
		return 0
	}
	return a.graph.NodeCount()
}

// Assemble run the pipeline up to contig building
func (a *Assembler) Assemble(ctx context.Context, reads []*seqs.Sequence) (*Assembly, error) {
	a.state = Uninitialized
	a.graph = nil
	a.eroded = false
	a.resolved = Thresholds{}
	if err := a.stage(ctx, "Initialize", Initialized, func() error { return a.initialize(reads) }); err != nil {
		return nil, err
	}
	if a.Verbose {
		log.Printf("[Assemble] reads: %d, k: %d, dangle: %d, redundant: %d\n", len(reads), a.resolved.KmerLength, a.resolved.DanglingLinks, a.resolved.RedundantPathLength)
	}
	err := a.stage(ctx, "CreateGraph", GraphBuilt, func() (err error) {
		a.graph, err = dbg.Build(ctx, reads, a.resolved.KmerLength, a.NumCPU)
		if err == nil {
			a.estimateDefaultThresholds()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	steps := []struct {
		name  string
		state State
		f     func()
	}{
		{"UnDangleGraph", DanglingPurged, a.unDangleGraph},
		{"RemoveRedundancy", RedundancyPurged, a.removeRedundancy},
		{"UnDangleGraph", DanglingPurged2, a.unDangleGraph},
	}
	for _, s := range steps {
		f := s.f
		if err := a.stage(ctx, s.name, s.state, func() error { f(); return nil }); err != nil {
			return nil, err
		}
	}
	asm := &Assembly{}
	err = a.stage(ctx, "BuildContigs", ContigsBuilt, func() (err error) {
		asm.Contigs, err = a.buildContigs()
		return err
	})
	if err != nil {
		return nil, err
	}
	return asm, nil
}

// AssembleWithScaffolds run Assemble then build scaffolds from the contigs
// when includeScaffolds is set
func (a *Assembler) AssembleWithScaffolds(ctx context.Context, reads []*seqs.Sequence, includeScaffolds bool) (*Assembly, error) {
	asm, err := a.Assemble(ctx, reads)
	if err != nil {
		return nil, err
	}
	if includeScaffolds {
		err = a.stage(ctx, "BuildScaffolds", ScaffoldsBuilt, func() (err error) {
			asm.Scaffolds, err = a.buildScaffolds(ctx, asm.Contigs)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	a.state = Done
	return asm, nil
}

// Close release the scaffold builder created by the assembler
func (a *Assembler) Close() error {
	var err error
	if a.ownScaffoldBuilder && a.ScaffoldBuilder != nil {
		err = a.ScaffoldBuilder.Close()
		a.ScaffoldBuilder = nil
		a.ownScaffoldBuilder = false
	}
	a.graph = nil
	a.reads = nil
	return err
}

func scaffoldBuilder(libs config.CloneLibraries, numCPU int, verbose bool) (*scaffold.GraphScaffoldBuilder, error) {
	b, err := scaffold.NewGraphScaffoldBuilder(libs, numCPU)
	if err != nil {
		return nil, err
	}
	b.Verbose = verbose
	return b, nil
}
