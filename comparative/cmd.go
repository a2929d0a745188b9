package comparative

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/jwaldrip/odin/cli"
	"github.com/pkg/errors"

	"github.com/mudesheng/gasm/config"
	"github.com/mudesheng/gasm/delta"
	"github.com/mudesheng/gasm/readio"
	"github.com/mudesheng/gasm/utils"
)

type optionsCA struct {
	utils.ArgsOpt
	RefFn     string
	ReadsFn   string
	OutFn     string
	MumLength int
	Scaffold  bool
}

func checkArgsCA(c cli.Command, withScaffold bool) (opt optionsCA, succ bool) {
	gOpt, succ := utils.CheckGlobalArgs(c.Parent())
	if !succ {
		return opt, false
	}
	opt.ArgsOpt = gOpt
	opt.RefFn = c.Flag("ref").String()
	opt.ReadsFn = c.Flag("reads").String()
	if opt.RefFn == "" || opt.ReadsFn == "" {
		log.Printf("[checkArgsCA] arguments 'ref' and 'reads' must be set\n")
		return opt, false
	}
	opt.OutFn = c.Flag("o").String()
	var ok bool
	opt.MumLength, ok = c.Flag("m").Get().(int)
	if !ok || opt.MumLength <= 0 {
		log.Printf("[checkArgsCA] argument 'm': %v set error\n", c.Flag("m").String())
		return opt, false
	}
	if withScaffold {
		opt.Scaffold, ok = c.Flag("s").Get().(bool)
		if !ok {
			log.Printf("[checkArgsCA] argument 's': %v set error\n", c.Flag("s").String())
			return opt, false
		}
	}
	return opt, true
}

func (opt optionsCA) newAssembler() (*Assembler, error) {
	a := NewAssembler()
	a.LengthOfMum = opt.MumLength
	if opt.Kmer > 0 {
		a.KmerLength = opt.Kmer
	}
	a.ScaffoldingEnabled = opt.Scaffold
	a.NumCPU = opt.NumCPU
	a.Verbose = opt.Verbose
	a.Libraries = make(config.CloneLibraries)
	if opt.CfgFn != "" {
		cfg, err := config.ParseCfg(opt.CfgFn)
		if err != nil {
			return nil, err
		}
		a.Libraries = cfg.Libraries()
	}
	return a, nil
}

func runCompAsm(opt optionsCA) error {
	runtime.GOMAXPROCS(opt.NumCPU)
	t0 := time.Now()
	refs, err := readio.LoadSeqs(opt.RefFn)
	if err != nil {
		return err
	}
	reads, err := readio.LoadSeqs(opt.ReadsFn)
	if err != nil {
		return err
	}
	a, err := opt.newAssembler()
	if err != nil {
		return err
	}
	out, err := a.Assemble(context.Background(), refs, reads)
	if err != nil {
		return err
	}
	if err := readio.WriteFastaFile(opt.OutFn, out); err != nil {
		return err
	}
	if opt.Verbose {
		log.Printf("[runCompAsm] sequences: %d, used : %v\n", len(out), time.Now().Sub(t0))
	}
	return nil
}

// CompAsm is the handler of the 'compasm' subcommand
func CompAsm(c cli.Command) {
	opt, succ := checkArgsCA(c, true)
	if !succ {
		utils.ArgsFatalf(c, "[CompAsm] check arguments error, opt: %v\n", opt)
	}
	if err := runCompAsm(opt); err != nil {
		log.Fatalf("[CompAsm] %v\n", errors.Cause(err))
	}
}

func runRepRes(opt optionsCA) error {
	runtime.GOMAXPROCS(opt.NumCPU)
	refs, err := readio.LoadSeqs(opt.RefFn)
	if err != nil {
		return err
	}
	reads, err := readio.LoadSeqs(opt.ReadsFn)
	if err != nil {
		return err
	}
	a, err := opt.newAssembler()
	if err != nil {
		return err
	}
	das, err := a.Resolve(context.Background(), refs, reads)
	if err != nil {
		return err
	}
	fp, err := readio.CreateWriter(opt.OutFn)
	if err != nil {
		return err
	}
	if err := delta.WriteSAM(fp, refs, das); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// RepRes is the handler of the 'repres' subcommand
func RepRes(c cli.Command) {
	opt, succ := checkArgsCA(c, false)
	if !succ {
		utils.ArgsFatalf(c, "[RepRes] check arguments error, opt: %v\n", opt)
	}
	if err := runRepRes(opt); err != nil {
		log.Fatalf("[RepRes] %v\n", errors.Cause(err))
	}
}
