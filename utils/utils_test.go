package utils

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/jwaldrip/odin/cli"
)

func TestMedianInt(t *testing.T) {
	cases := []struct {
		arr  []int
		want float64
	}{
		{nil, 0},
		{[]int{7}, 7},
		{[]int{9, 3, 5}, 5},
		{[]int{4, 10, 3, 8}, 6},
	}
	for _, c := range cases {
		if got := MedianInt(c.arr); got != c.want {
			t.Errorf("MedianInt(%v) = %v, want %v", c.arr, got, c.want)
		}
	}
}

func TestIntHelper(t *testing.T) {
	if AbsInt(-3) != 3 || AbsInt(3) != 3 {
		t.Errorf("AbsInt error")
	}
	if MaxInt(2, 5) != 5 || MinInt(2, 5) != 2 {
		t.Errorf("MaxInt/MinInt error")
	}
	if RoundInt(2.5) != 3 || RoundInt(2.49) != 2 {
		t.Errorf("RoundInt error")
	}
}

func TestArgsFatalf(t *testing.T) {
	var msg string
	fatalf = func(format string, v ...interface{}) { msg = fmt.Sprintf(format, v...) }
	defer func() { fatalf = log.Fatalf }()

	var out bytes.Buffer
	app := cli.New("", "test app", func(c cli.Command) {})
	app.DefineStringFlag("p", "./gasm", "prefix")
	sub := app.DefineSubCommand("run", "run the test", func(c cli.Command) {
		if m := c.Flag("m").Get().(int); m <= 0 {
			ArgsFatalf(c, "[run] argument 'm': %v set error\n", m)
		}
	})
	sub.DefineIntFlag("m", 20, "minimum length")
	sub.SetStdOut(&out)
	app.Start("gasm", "run", "--m=0")

	if msg != "[run] argument 'm': 0 set error\n" {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(out.String(), "--m=20") {
		t.Errorf("usage not printed: %q", out.String())
	}
}

func Benchmark_MedianInt(b *testing.B) {
	arr := make([]int, 1<<12)
	for i := 0; i < b.N; i++ {
		for j := range arr {
			arr[j] = (j * 7919) % 1031
		}
		MedianInt(arr)
	}
}
