package utils

import (
	"log"
	"math"
	"sort"

	"github.com/jwaldrip/odin/cli"
)

type ArgsOpt struct {
	Prefix  string
	Kmer    int
	NumCPU  int
	CfgFn   string
	Verbose bool
}

// return global arguments and check if successed
func CheckGlobalArgs(c cli.Command) (opt ArgsOpt, succ bool) {
	opt.Prefix = c.Flag("p").String()
	if opt.Prefix == "" {
		log.Printf("[CheckGlobalArgs] args 'p' not set\n")
		return opt, false
	}
	opt.CfgFn = c.Flag("C").String()

	var ok bool
	opt.Kmer, ok = c.Flag("K").Get().(int)
	if !ok || opt.Kmer < 0 {
		log.Printf("[CheckGlobalArgs] args 'K' : %v set error\n", c.Flag("K").String())
		return opt, false
	}
	opt.NumCPU, ok = c.Flag("t").Get().(int)
	if !ok || opt.NumCPU <= 0 {
		log.Printf("[CheckGlobalArgs] args 't': %v set error\n", c.Flag("t").String())
		return opt, false
	}
	opt.Verbose, ok = c.Flag("v").Get().(bool)
	if !ok {
		log.Printf("[CheckGlobalArgs] args 'v': %v set error\n", c.Flag("v").String())
		return opt, false
	}
	return opt, true
}

var fatalf = log.Fatalf

// ArgsFatalf print the usage of c then exit with the message, for arguments
// that fail the check
func ArgsFatalf(c cli.Command, format string, v ...interface{}) {
	c.Usage()
	fatalf(format, v...)
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	} else {
		return b
	}
}

func MinInt(a, b int) int {
	if a > b {
		return b
	} else {
		return a
	}
}

// MedianInt sort arr in place and return its median, the mean of the two
// middle values when len(arr) is even
func MedianInt(arr []int) float64 {
	if len(arr) == 0 {
		return 0
	}
	sort.Ints(arr)
	mid := len(arr) / 2
	if len(arr)%2 == 1 {
		return float64(arr[mid])
	}
	return float64(arr[mid-1]+arr[mid]) / 2
}

// RoundInt round x to the nearest integer, halves away from zero
func RoundInt(x float64) int {
	return int(math.Round(x))
}
