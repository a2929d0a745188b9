// Package config parses the library configure file and holds the clone
// library table used for mate-pair distance checks.
package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type LibInfo struct {
	Name       string  // name of library
	InsertSize float64 // paired read mean insert size
	InsertSD   float64 // Standard Deviation
	ReadLen    int
	FnName     []string // the files name slice
}

type CfgInfo struct {
	MaxRdLen int // maximum read length
	MinRdLen int // minimum read length
	Libs     []LibInfo
}

// ParseCfg read the configure file fn
func ParseCfg(fn string) (cfgInfo CfgInfo, err error) {
	inFile, err := os.Open(fn)
	if err != nil {
		return cfgInfo, errors.Wrapf(err, "[ParseCfg] open file: %s", fn)
	}
	defer inFile.Close()
	return ReadCfg(inFile)
}

// ReadCfg parse configure text, format:
//
//	[global_setting]
//	max_rd_len = 250
//	[LIB]
//	name = lib1
//	avg_insert_len = 500
//	insert_SD = 50
//	f1 = lib1_1.fa
//
// lines start with '#' or ';' are comments.
func ReadCfg(r io.Reader) (cfgInfo CfgInfo, err error) {
	var libInfo LibInfo
	reader := bufio.NewReader(r)
	eof := false
	lineNum := 0
	for !eof {
		var line string
		line, err = reader.ReadString('\n')
		if err == io.EOF {
			err = nil
			eof = true
		} else if err != nil {
			return cfgInfo, errors.Wrap(err, "[ReadCfg]")
		}
		lineNum++
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0][0] == '#' || fields[0][0] == ';' {
			continue
		}
		if fields[0] != "[global_setting]" && fields[0] != "[LIB]" && (len(fields) < 3 || fields[1] != "=") {
			return cfgInfo, errors.Errorf("[ReadCfg] line %d: %q must be 'key = value'", lineNum, strings.TrimSpace(line))
		}
		switch fields[0] {
		case "[global_setting]":
		case "[LIB]":
			if libInfo.Name != "" {
				cfgInfo.Libs = append(cfgInfo.Libs, libInfo)
				libInfo = LibInfo{}
			}
		case "max_rd_len":
			cfgInfo.MaxRdLen, err = strconv.Atoi(fields[2])
		case "min_rd_len":
			cfgInfo.MinRdLen, err = strconv.Atoi(fields[2])
		case "name":
			libInfo.Name = fields[2]
		case "avg_insert_len":
			libInfo.InsertSize, err = strconv.ParseFloat(fields[2], 64)
		case "insert_SD":
			libInfo.InsertSD, err = strconv.ParseFloat(fields[2], 64)
		case "rd_len":
			libInfo.ReadLen, err = strconv.Atoi(fields[2])
		case "f1", "f2", "f":
			libInfo.FnName = append(libInfo.FnName, fields[2])
		default:
			return cfgInfo, errors.Errorf("[ReadCfg] line %d: unknown key %q", lineNum, fields[0])
		}
		if err != nil {
			return cfgInfo, errors.Wrapf(err, "[ReadCfg] line %d", lineNum)
		}
	}
	if libInfo.Name != "" {
		cfgInfo.Libs = append(cfgInfo.Libs, libInfo)
	}
	return cfgInfo, nil
}

// CloneLibraries map library name to its insert size statistics. It is
// filled before an assembly run and only read during it.
type CloneLibraries map[string]LibInfo

// Libraries return the clone library table of the configure
func (cfg CfgInfo) Libraries() CloneLibraries {
	libs := make(CloneLibraries, len(cfg.Libs))
	for _, l := range cfg.Libs {
		libs[l.Name] = l
	}
	return libs
}

// Add register a library, replacing one with the same name
func (libs CloneLibraries) Add(name string, mean, sd float64) {
	libs[name] = LibInfo{Name: name, InsertSize: mean, InsertSD: sd}
}

// Lookup return the library named name
func (libs CloneLibraries) Lookup(name string) (LibInfo, bool) {
	if libs == nil {
		return LibInfo{}, false
	}
	l, ok := libs[name]
	return l, ok
}
