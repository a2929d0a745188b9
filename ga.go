package main

import (
	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/gasm/comparative"
	"github.com/mudesheng/gasm/padena"
)

var app = cli.New("1.0.0", "Genome assembler: parallel de Bruijn graph and comparative assembly", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("C", "", "library configure file")
	app.DefineIntFlag("K", 0, "kmer length, default[0] estimated from reads")
	app.DefineStringFlag("p", "./gasm", "prefix of the output file")
	app.DefineIntFlag("t", 1, "number of CPU used")
	app.DefineBoolFlag("v", false, "verbose")

	asm := app.DefineSubCommand("assemble", "assemble reads to contigs with the de Bruijn graph", padena.Assemble)
	{
		asm.DefineStringFlag("reads", "", "input reads file[fa|fq][.zst|.br|.gz]")
		asm.DefineStringFlag("o", "", "output file, default stdout[.zst|.br]")
		asm.DefineIntFlag("d", -1, "dangling links length threshold, default[-1] K+1")
		asm.DefineIntFlag("r", -1, "redundant path length threshold, default[-1] 3*(K+1)")
		asm.DefineIntFlag("e", -1, "erosion threshold, default[-1] estimated")
		asm.DefineBoolFlag("i", false, "allow erosion of low coverage graph ends")
		asm.DefineFloat64Flag("c", -1, "contig coverage threshold, default[-1] estimated")
		asm.DefineBoolFlag("l", false, "allow low coverage contig removal")
		asm.DefineBoolFlag("Graph", false, "output dot graph file of the purged graph")
	}

	scaf := app.DefineSubCommand("scaffold", "join contigs to scaffolds using mate pair reads", padena.Scaffold)
	{
		scaf.DefineStringFlag("reads", "", "mate pair reads file, IDs 'name.F:library' and 'name.R:library'")
		scaf.DefineStringFlag("contigs", "", "contigs file")
		scaf.DefineStringFlag("o", "", "output file, default stdout[.zst|.br]")
		scaf.DefineIntFlag("r", 2, "minimum number of mate pairs supporting a join")
		scaf.DefineIntFlag("d", 10, "maximum depth of the contig graph walk")
	}

	asmscaf := app.DefineSubCommand("asmscaf", "assemble reads then build scaffolds", padena.AssembleWithScaffolds)
	{
		asmscaf.DefineStringFlag("reads", "", "input reads file[fa|fq][.zst|.br|.gz]")
		asmscaf.DefineStringFlag("o", "", "output file, default stdout[.zst|.br]")
		asmscaf.DefineIntFlag("d", -1, "dangling links length threshold, default[-1] K+1")
		asmscaf.DefineIntFlag("r", -1, "redundant path length threshold, default[-1] 3*(K+1)")
		asmscaf.DefineIntFlag("e", -1, "erosion threshold, default[-1] estimated")
		asmscaf.DefineBoolFlag("i", false, "allow erosion of low coverage graph ends")
		asmscaf.DefineFloat64Flag("c", -1, "contig coverage threshold, default[-1] estimated")
		asmscaf.DefineBoolFlag("l", false, "allow low coverage contig removal")
		asmscaf.DefineBoolFlag("Graph", false, "output dot graph file of the purged graph")
		asmscaf.DefineIntFlag("redundancy", 2, "minimum number of mate pairs supporting a join")
		asmscaf.DefineIntFlag("depth", 10, "maximum depth of the contig graph walk")
	}

	compasm := app.DefineSubCommand("compasm", "comparative assembly of reads against a reference", comparative.CompAsm)
	{
		compasm.DefineStringFlag("ref", "", "reference sequences file")
		compasm.DefineStringFlag("reads", "", "input reads file")
		compasm.DefineIntFlag("m", 20, "minimum length of maximal matches")
		compasm.DefineBoolFlag("s", false, "build scaffolds from the consensus contigs")
		compasm.DefineStringFlag("o", "", "output file, default stdout[.zst|.br]")
	}

	repres := app.DefineSubCommand("repres", "align reads, resolve repeats and refine the layout, output SAM", comparative.RepRes)
	{
		repres.DefineStringFlag("ref", "", "reference sequences file")
		repres.DefineStringFlag("reads", "", "input reads file")
		repres.DefineIntFlag("m", 20, "minimum length of maximal matches")
		repres.DefineStringFlag("o", "", "output SAM file, default stdout")
	}
}

func main() {
	app.Start()
}
