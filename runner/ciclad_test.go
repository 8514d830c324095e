package runner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fim-bench/base/config"
	"fim-bench/utils"
)

const cicladLogSample = `reading transactions from file
minsup_counts: 5, 10, 20
dumped frequent closed itemsets: 51640
dumped frequent closed itemsets: 30211
dumped frequent closed itemsets: 12002
processed transactions in 96543.2660 ms
`

func TestParseCicladLog(t *testing.T) {
	Convey("解析CICLAD诊断日志", t, func() {
		Convey("阈值与dumped行按位置配对", func() {
			parsed, err := ParseCicladLog(strings.NewReader(cicladLogSample))
			So(err, ShouldBeNil)
			So(parsed.MinsupCounts, ShouldResemble, []int{5, 10, 20})
			So(parsed.DumpedByMinsup[5], ShouldEqual, 51640)
			So(parsed.DumpedByMinsup[10], ShouldEqual, 30211)
			So(parsed.DumpedByMinsup[20], ShouldEqual, 12002)
			So(parsed.RawTimesMs, ShouldResemble, []float64{96543.2660})
		})

		Convey("缺失minsup_counts行时退化为序号索引", func() {
			log := "dumped frequent closed itemsets: 7\ndumped frequent closed itemsets: 3\n"
			parsed, err := ParseCicladLog(strings.NewReader(log))
			So(err, ShouldBeNil)
			So(parsed.MinsupCounts, ShouldBeEmpty)
			So(parsed.DumpedByMinsup[0], ShouldEqual, 7)
			So(parsed.DumpedByMinsup[1], ShouldEqual, 3)
		})

		Convey("dumped行少于阈值数时只配对已有部分", func() {
			log := "minsup_counts: 5,10\ndumped frequent closed itemsets: 42\n"
			parsed, err := ParseCicladLog(strings.NewReader(log))
			So(err, ShouldBeNil)
			So(parsed.DumpedByMinsup[5], ShouldEqual, 42)
			_, ok := parsed.DumpedByMinsup[10]
			So(ok, ShouldBeFalse)
		})

		Convey("畸形计数被跳过不中断解析", func() {
			log := "minsup_counts: 5, oops, 10\ndumped frequent closed itemsets: 1\ndumped frequent closed itemsets: 2\n"
			parsed, err := ParseCicladLog(strings.NewReader(log))
			So(err, ShouldBeNil)
			So(parsed.MinsupCounts, ShouldResemble, []int{5, 10})
		})
	})
}

// 假CICLAD: stdout吐项集，stderr按真实格式吐诊断日志
const fakeCicladScript = `#!/bin/sh
echo "1 2"
echo "1 3"
shift 3
echo "minsup_counts: $(echo $* | tr ' ' ',')" >&2
for c in "$@"; do
  echo "dumped frequent closed itemsets: $((c * 10))" >&2
done
echo "processed transactions in 12.5 ms" >&2
`

func TestRunCicladMulti(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.dat")
	if err := os.WriteFile(input, []byte("1 2\n1 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(dir, "ciclad")
	if err := os.WriteFile(bin, []byte(fakeCicladScript), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.AllConfig{}
	cfg.Tools.CicladBin = bin

	fciOut := filepath.Join(dir, "out.fci")
	logPath := filepath.Join(dir, "ciclad.log")

	res, err := RunCicladMulti(cfg, input, fciOut, logPath, 4, 2, []int{3, 7}, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.DumpedByMinsup[3] != 30 || res.DumpedByMinsup[7] != 70 {
		t.Fatalf("DumpedByMinsup = %v", res.DumpedByMinsup)
	}
	if len(res.RawTimesMs) != 1 || res.RawTimesMs[0] != 12.5 {
		t.Fatalf("RawTimesMs = %v", res.RawTimesMs)
	}
	if got, _ := os.ReadFile(fciOut); string(got) != "1 2\n1 3\n" {
		t.Fatalf("fci output = %q", string(got))
	}
	if res.Cmd == "" || res.RuntimeSecWall < 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunCicladMultiErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.AllConfig{}

	Convey("CICLAD调用失败路径", t, func() {
		Convey("二进制缺失", func() {
			cfg.Tools.CicladBin = filepath.Join(dir, "nope")
			_, err := RunCicladMulti(cfg, "in", "out", filepath.Join(dir, "l1.log"), 4, 2, []int{3}, false)
			So(errors.Is(err, utils.ErrToolNotFound), ShouldBeTrue)
		})

		Convey("非零退出时部分fci输出被清理", func() {
			bin := filepath.Join(dir, "bad")
			So(os.WriteFile(bin, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0o755), ShouldBeNil)
			cfg.Tools.CicladBin = bin
			fci := filepath.Join(dir, "out.fci")
			_, err := RunCicladMulti(cfg, "in", fci, filepath.Join(dir, "l2.log"), 4, 2, []int{3}, false)
			So(errors.Is(err, utils.ErrToolExecution), ShouldBeTrue)
			exists, _ := utils.IsExists(fci)
			So(exists, ShouldBeFalse)
		})
	})
}
