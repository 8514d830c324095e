package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/utils"
)

// RunHamm 调一次Hamm: <binary> <rate 0..1> <input> <output>。
// 该工具偶发卡死，包一个有限超时。stdout里出现"Time Elapsed: <ms>"时优先用它作运行时间。
// 输出文件扫完即删，除非keepPatternFiles。
func RunHamm(cfg *config.AllConfig, inputPath, outputPath string, minsupPercent float64,
	keepPatternFiles bool) (*ToolResult, error) {
	info, err := os.Stat(cfg.Tools.HammBin)
	if err != nil || info.Mode()&0o111 == 0 {
		return nil, fmt.Errorf("%w: Hamm binary not found/executable at %s", utils.ErrToolNotFound, cfg.Tools.HammBin)
	}

	rate := minsupPercent / 100.0
	args := []string{strconv.FormatFloat(rate, 'f', -1, 64), inputPath, outputPath}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Runner.HammTimeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Tools.HammBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t0 := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(t0).Seconds()

	if runErr != nil {
		return nil, fmt.Errorf("%w: Hamm failed (%v): %s", utils.ErrToolExecution, runErr, stderr.String())
	}

	runtimeSec := elapsed
	for _, line := range strings.Split(stdout.String(), "\n") {
		if !strings.Contains(line, "Time Elapsed:") {
			continue
		}
		rest := line[strings.Index(line, ":")+1:]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			logger.Warnf("hamm: unparsable timing line %q", line)
			continue
		}
		if ms, err := strconv.ParseFloat(fields[0], 64); err == nil {
			runtimeSec = ms / 1000.0
		}
	}

	stats, err := scanPatternFile(outputPath, 0)
	if err != nil {
		return nil, err
	}
	if !keepPatternFiles {
		utils.SafeUnlink(outputPath)
	}

	return &ToolResult{
		RuntimeSec:    runtimeSec,
		PatternCount:  stats.Count,
		MaxItemsetLen: stats.MaxLen,
		Cmd:           cmdString(cfg.Tools.HammBin, args),
	}, nil
}
