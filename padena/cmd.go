package padena

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/jwaldrip/odin/cli"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/readio"
	"github.com/mudesheng/gasm/utils"
)

type optionsAsm struct {
	utils.ArgsOpt
	ReadsFn            string
	OutFn              string
	Dangle             int
	Redundant          int
	Erosion            int
	AllowErosion       bool
	Coverage           float64
	LowCoverageRemoval bool
	Graph              bool
	ScaffoldRedundancy int
	Depth              int
}

type optionsScaf struct {
	utils.ArgsOpt
	ReadsFn    string
	ContigsFn  string
	OutFn      string
	Redundancy int
	Depth      int
}

func checkArgsAsm(c cli.Command) (opt optionsAsm, succ bool) {
	gOpt, succ := utils.CheckGlobalArgs(c.Parent())
	if !succ {
		return opt, false
	}
	opt.ArgsOpt = gOpt
	opt.ReadsFn = c.Flag("reads").String()
	if opt.ReadsFn == "" {
		log.Printf("[checkArgsAsm] argument 'reads' not set\n")
		return opt, false
	}
	opt.OutFn = c.Flag("o").String()
	var ok bool
	opt.Dangle, ok = c.Flag("d").Get().(int)
	if !ok || opt.Dangle < -1 {
		log.Printf("[checkArgsAsm] argument 'd': %v set error\n", c.Flag("d").String())
		return opt, false
	}
	opt.Redundant, ok = c.Flag("r").Get().(int)
	if !ok || opt.Redundant < -1 {
		log.Printf("[checkArgsAsm] argument 'r': %v set error\n", c.Flag("r").String())
		return opt, false
	}
	opt.Erosion, ok = c.Flag("e").Get().(int)
	if !ok || opt.Erosion < -1 {
		log.Printf("[checkArgsAsm] argument 'e': %v set error\n", c.Flag("e").String())
		return opt, false
	}
	opt.AllowErosion, ok = c.Flag("i").Get().(bool)
	if !ok {
		log.Printf("[checkArgsAsm] argument 'i': %v set error\n", c.Flag("i").String())
		return opt, false
	}
	opt.Coverage, ok = c.Flag("c").Get().(float64)
	if !ok || (opt.Coverage < 0 && opt.Coverage != -1) {
		log.Printf("[checkArgsAsm] argument 'c': %v set error\n", c.Flag("c").String())
		return opt, false
	}
	opt.LowCoverageRemoval, ok = c.Flag("l").Get().(bool)
	if !ok {
		log.Printf("[checkArgsAsm] argument 'l': %v set error\n", c.Flag("l").String())
		return opt, false
	}
	opt.Graph, ok = c.Flag("Graph").Get().(bool)
	if !ok {
		log.Printf("[checkArgsAsm] argument 'Graph': %v set error\n", c.Flag("Graph").String())
		return opt, false
	}
	return opt, true
}

func checkScafArgs(c cli.Command, redundancyFlag, depthFlag string) (redundancy, depth int, succ bool) {
	var ok bool
	redundancy, ok = c.Flag(redundancyFlag).Get().(int)
	if !ok || redundancy < 0 {
		log.Printf("[checkScafArgs] argument '%s': %v set error\n", redundancyFlag, c.Flag(redundancyFlag).String())
		return 0, 0, false
	}
	depth, ok = c.Flag(depthFlag).Get().(int)
	if !ok || depth <= 0 {
		log.Printf("[checkScafArgs] argument '%s': %v set error\n", depthFlag, c.Flag(depthFlag).String())
		return 0, 0, false
	}
	return redundancy, depth, true
}

func loadLibraries(cfgFn string) (config.CloneLibraries, error) {
	if cfgFn == "" {
		return make(config.CloneLibraries), nil
	}
	cfg, err := config.ParseCfg(cfgFn)
	if err != nil {
		return nil, err
	}
	return cfg.Libraries(), nil
}

func (opt optionsAsm) newAssembler(libs config.CloneLibraries) *Assembler {
	a := NewAssembler()
	if opt.Kmer > 0 {
		a.SetKmerLength(opt.Kmer)
	}
	a.DanglingLinksThreshold = opt.Dangle
	a.RedundantPathLengthThreshold = opt.Redundant
	a.AllowErosion = opt.AllowErosion
	a.ErosionThreshold = opt.Erosion
	a.AllowLowCoverageContigRemoval = opt.LowCoverageRemoval
	a.ContigCoverageThreshold = opt.Coverage
	a.NumCPU = opt.NumCPU
	a.Verbose = opt.Verbose
	a.Libraries = libs
	if opt.ScaffoldRedundancy > 0 {
		a.ScaffoldRedundancy = opt.ScaffoldRedundancy
	}
	if opt.Depth > 0 {
		a.Depth = opt.Depth
	}
	return a
}

func runAssemble(opt optionsAsm, includeScaffolds bool) error {
	runtime.GOMAXPROCS(opt.NumCPU)
	t0 := time.Now()
	reads, err := readio.LoadSeqs(opt.ReadsFn)
	if err != nil {
		return err
	}
	libs, err := loadLibraries(opt.CfgFn)
	if err != nil {
		return err
	}
	a := opt.newAssembler(libs)
	defer a.Close()
	asm, err := a.AssembleWithScaffolds(context.Background(), reads, includeScaffolds)
	if err != nil {
		return err
	}
	if opt.Graph {
		fp, err := readio.CreateWriter(opt.Prefix + ".dot")
		if err != nil {
			return err
		}
		if err := a.Graph().GraphvizDBG(fp); err != nil {
			fp.Close()
			return err
		}
		if err := fp.Close(); err != nil {
			return err
		}
	}
	out := asm.Contigs
	if includeScaffolds {
		out = asm.Scaffolds
	}
	if err := readio.WriteFastaFile(opt.OutFn, out); err != nil {
		return err
	}
	if opt.Verbose {
		log.Printf("[runAssemble] contigs: %d, scaffolds: %d, used : %v\n", len(asm.Contigs), len(asm.Scaffolds), time.Now().Sub(t0))
	}
	return nil
}

// Assemble is the handler of the 'assemble' subcommand
func Assemble(c cli.Command) {
	opt, succ := checkArgsAsm(c)
	if !succ {
		utils.ArgsFatalf(c, "[Assemble] check arguments error, opt: %v\n", opt)
	}
	if err := runAssemble(opt, false); err != nil {
		log.Fatalf("[Assemble] %v\n", errors.Cause(err))
	}
}

// AssembleWithScaffolds is the handler of the 'asmscaf' subcommand
func AssembleWithScaffolds(c cli.Command) {
	opt, succ := checkArgsAsm(c)
	if !succ {
		utils.ArgsFatalf(c, "[AssembleWithScaffolds] check arguments error, opt: %v\n", opt)
	}
	opt.ScaffoldRedundancy, opt.Depth, succ = checkScafArgs(c, "redundancy", "depth")
	if !succ {
		utils.ArgsFatalf(c, "[AssembleWithScaffolds] check arguments error, opt: %v\n", opt)
	}
	if err := runAssemble(opt, true); err != nil {
		log.Fatalf("[AssembleWithScaffolds] %v\n", errors.Cause(err))
	}
}

func checkArgsScaf(c cli.Command) (opt optionsScaf, succ bool) {
	gOpt, succ := utils.CheckGlobalArgs(c.Parent())
	if !succ {
		return opt, false
	}
	opt.ArgsOpt = gOpt
	opt.ReadsFn = c.Flag("reads").String()
	opt.ContigsFn = c.Flag("contigs").String()
	if opt.ReadsFn == "" || opt.ContigsFn == "" {
		log.Printf("[checkArgsScaf] arguments 'reads' and 'contigs' must be set\n")
		return opt, false
	}
	if opt.Kmer <= 0 {
		log.Printf("[checkArgsScaf] argument 'K' must be set for scaffolding\n")
		return opt, false
	}
	opt.OutFn = c.Flag("o").String()
	opt.Redundancy, opt.Depth, succ = checkScafArgs(c, "r", "d")
	return opt, succ
}

func runScaffold(opt optionsScaf) error {
	runtime.GOMAXPROCS(opt.NumCPU)
	reads, err := readio.LoadSeqs(opt.ReadsFn)
	if err != nil {
		return err
	}
	contigs, err := readio.LoadSeqs(opt.ContigsFn)
	if err != nil {
		return err
	}
	libs, err := loadLibraries(opt.CfgFn)
	if err != nil {
		return err
	}
	b, err := scaffoldBuilder(libs, opt.NumCPU, opt.Verbose)
	if err != nil {
		return err
	}
	defer b.Close()
	scaffolds, err := b.BuildScaffold(context.Background(), reads, contigs, opt.Kmer, opt.Depth, opt.Redundancy)
	if err != nil {
		return err
	}
	return readio.WriteFastaFile(opt.OutFn, scaffolds)
}

// Scaffold is the handler of the 'scaffold' subcommand
func Scaffold(c cli.Command) {
	opt, succ := checkArgsScaf(c)
	if !succ {
		utils.ArgsFatalf(c, "[Scaffold] check arguments error, opt: %v\n", opt)
	}
	if err := runScaffold(opt); err != nil {
		log.Fatalf("[Scaffold] %v\n", errors.Cause(err))
	}
}
