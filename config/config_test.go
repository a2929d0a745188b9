package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cfgText = `[global_setting]
max_rd_len = 250
min_rd_len = 100
# two paired libraries
[LIB]
name = lib1
avg_insert_len = 500
insert_SD = 50
f1 = lib1_1.fa.zst
f2 = lib1_2.fa.zst
[LIB]
name = lib2
avg_insert_len = 3000.5
insert_SD = 300
f = lib2.fq.br
`

func TestReadCfg(t *testing.T) {
	cfg, err := ReadCfg(strings.NewReader(cfgText))
	if err != nil {
		t.Fatalf("ReadCfg err: %v", err)
	}
	if cfg.MaxRdLen != 250 || cfg.MinRdLen != 100 {
		t.Errorf("global setting = %d/%d", cfg.MaxRdLen, cfg.MinRdLen)
	}
	if len(cfg.Libs) != 2 {
		t.Fatalf("len(Libs) = %d, want 2", len(cfg.Libs))
	}
	libs := cfg.Libraries()
	l, ok := libs.Lookup("lib2")
	if !ok || l.InsertSize != 3000.5 || l.InsertSD != 300 || len(l.FnName) != 1 {
		t.Errorf("lib2 = %+v, %v", l, ok)
	}
	if l, _ := libs.Lookup("lib1"); len(l.FnName) != 2 {
		t.Errorf("lib1 files = %v", l.FnName)
	}
	if _, ok := libs.Lookup("missing"); ok {
		t.Errorf("Lookup(missing) found")
	}
}

func TestReadCfgErrors(t *testing.T) {
	for _, text := range []string{
		"[LIB]\nname lib1\n",
		"[LIB]\nunknown = 1\n",
		"[LIB]\navg_insert_len = abc\n",
	} {
		if _, err := ReadCfg(strings.NewReader(text)); err == nil {
			t.Errorf("ReadCfg(%q) expect error", text)
		}
	}
}

func TestParseCfgFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "ga.cfg")
	if err := os.WriteFile(fn, []byte(cfgText), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := ParseCfg(fn)
	if err != nil || len(cfg.Libs) != 2 {
		t.Fatalf("ParseCfg = %v, %v", cfg, err)
	}
	if _, err := ParseCfg(fn + ".none"); err == nil {
		t.Errorf("ParseCfg on missing file expect error")
	}
}

func TestNilLibraries(t *testing.T) {
	var libs CloneLibraries
	if _, ok := libs.Lookup("x"); ok {
		t.Errorf("nil table lookup found")
	}
	libs = CloneLibraries{}
	libs.Add("x", 100, 10)
	if l, ok := libs.Lookup("x"); !ok || l.InsertSize != 100 {
		t.Errorf("Add/Lookup = %+v", l)
	}
}
