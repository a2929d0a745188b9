package scaffold

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/matepair"
	"github.com/mudesheng/gasm/readio"
	"github.com/mudesheng/gasm/seqs"
)

var ErrBuilderClosed = errors.New("scaffold builder is closed")

// Builder turn contigs into scaffolds using mate-pair reads
type Builder interface {
	BuildScaffold(ctx context.Context, reads, contigs []*seqs.Sequence, kmerLength, depth, redundancy int) ([]*seqs.Sequence, error)
	Close() error
}

// Stats summarize the last BuildScaffold call
type Stats struct {
	Pairs map[matepair.PairedReadType]int
	Links int // links left after the redundancy filter
	Paths int // accepted scaffold paths
}

// GraphScaffoldBuilder walk the contig overlap graph between contigs joined
// by mate pairs. Every builder own a work directory holding the DOT dump of
// its overlap graph, removed by Close.
type GraphScaffoldBuilder struct {
	Libraries config.CloneLibraries
	NumCPU    int
	Verbose   bool
	Stats     Stats

	mu      sync.Mutex
	workDir string
	closed  bool
}

func NewGraphScaffoldBuilder(libs config.CloneLibraries, numCPU int) (*GraphScaffoldBuilder, error) {
	dir := filepath.Join(os.TempDir(), "gasm-scaffold-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "[NewGraphScaffoldBuilder] create work dir: %v", dir)
	}
	if libs == nil {
		libs = make(config.CloneLibraries)
	}
	return &GraphScaffoldBuilder{Libraries: libs, NumCPU: numCPU, workDir: dir}, nil
}

// WorkDir return the directory of intermediate files
func (b *GraphScaffoldBuilder) WorkDir() string {
	return b.workDir
}

// GraphFile return the path of the overlap graph dump
func (b *GraphScaffoldBuilder) GraphFile() string {
	return filepath.Join(b.workDir, "contig_graph.dot.zst")
}

func (b *GraphScaffoldBuilder) dumpGraph(g *ContigGraph) error {
	fp, err := readio.CreateWriter(b.GraphFile())
	if err != nil {
		return err
	}
	if err := g.GraphvizContigGraph(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// BuildScaffold map reads to contigs, derive links between contigs from
// mate pairs seen at least redundancy times, search the overlap graph at
// most depth edges deep for a path matching each link distance, and join
// the accepted paths
func (b *GraphScaffoldBuilder) BuildScaffold(ctx context.Context, reads, contigs []*seqs.Sequence, kmerLength, depth, redundancy int) ([]*seqs.Sequence, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBuilderClosed
	}
	t0 := time.Now()
	g := BuildContigGraph(contigs, kmerLength)
	if err := b.dumpGraph(g); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[BuildScaffold]")
	}
	maps := MapReads(contigs, reads, kmerLength, b.NumCPU)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[BuildScaffold]")
	}
	cmp, pairStats := CalculateMatePairs(contigs, reads, maps, b.Libraries)
	cmp = cmp.FilterByRedundancy(redundancy)
	paths := findPaths(g, cmp, depth)
	c, num := purgePaths(paths)
	scaffolds := c.assemble(g)
	b.Stats = Stats{Pairs: pairStats, Links: len(cmp), Paths: num}
	if b.Verbose {
		log.Printf("[BuildScaffold] contigs: %d, overlap edges: %d, links: %d, paths: %d, scaffolds: %d\n", len(contigs), g.EdgeCount(), len(cmp), num, len(scaffolds))
		log.Printf("[BuildScaffold] used : %v\n", time.Now().Sub(t0))
	}
	return scaffolds, nil
}

// Close remove the work directory, later calls of BuildScaffold return
// ErrBuilderClosed
func (b *GraphScaffoldBuilder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return errors.Wrap(os.RemoveAll(b.workDir), "[Close]")
}
