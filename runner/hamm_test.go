package runner

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"fim-bench/base/config"
	"fim-bench/utils"
)

// 假Hamm: <rate> <input> <output>，stdout报自测时间
const fakeHammScript = `#!/bin/sh
printf '1 2 #SUP: 4\n3 #SUP: 6\n' > "$3"
echo "rate=$1"
echo "Time Elapsed: 1500 ms"
`

func newHammTestConfig(t *testing.T) *config.AllConfig {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "hamm")
	if err := os.WriteFile(bin, []byte(fakeHammScript), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.AllConfig{}
	cfg.Tools.HammBin = bin
	cfg.Runner.HammTimeoutSec = 60
	return cfg
}

func TestRunHamm(t *testing.T) {
	cfg := newHammTestConfig(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "hamm.out")

	res, err := RunHamm(cfg, filepath.Join(dir, "in.dat"), out, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.PatternCount != 2 || res.MaxItemsetLen != 2 {
		t.Fatalf("result = %+v, want Count=2 MaxLen=2", res)
	}
	// 工具自报时间优先于墙钟
	if math.Abs(res.RuntimeSec-1.5) > 1e-9 {
		t.Fatalf("RuntimeSec = %v, want 1.5", res.RuntimeSec)
	}
	// 默认不保留输出文件
	if ok, _ := utils.IsExists(out); ok {
		t.Fatal("output file should be deleted when keepPatternFiles=false")
	}
}

func TestRunHammKeepOutput(t *testing.T) {
	cfg := newHammTestConfig(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "hamm.out")

	if _, err := RunHamm(cfg, filepath.Join(dir, "in.dat"), out, 5, true); err != nil {
		t.Fatal(err)
	}
	if ok, _ := utils.IsExists(out); !ok {
		t.Fatal("output file should survive with keepPatternFiles=true")
	}
}

func TestRunHammErrors(t *testing.T) {
	cfg := newHammTestConfig(t)

	cfg2 := &config.AllConfig{}
	cfg2.Tools.HammBin = filepath.Join(t.TempDir(), "nope")
	cfg2.Runner.HammTimeoutSec = 60
	if _, err := RunHamm(cfg2, "in", "out", 5, false); !errors.Is(err, utils.ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}

	bad := filepath.Join(t.TempDir(), "hamm")
	if err := os.WriteFile(bad, []byte("#!/bin/sh\nexit 2\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.Tools.HammBin = bad
	if _, err := RunHamm(cfg, "in", "out", 5, false); !errors.Is(err, utils.ErrToolExecution) {
		t.Fatalf("err = %v, want ErrToolExecution", err)
	}
}
