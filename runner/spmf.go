package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/utils"
)

// ToolResult 一次工具调用归一化后的指标
type ToolResult struct {
	RuntimeSec    float64
	PatternCount  int
	MaxItemsetLen int
	Cmd           string
}

// RunSPMF 以百分比阈值调一次SPMF算法。
//
// keepPatternFiles=true: 模式写常规文件并保留，退出后扫一遍文件得到统计。
// keepPatternFiles=false(默认): 输出走命名管道流式统计，完整模式输出不落盘。
//
// minsupCountFilter>0时按绝对支持度做事后过滤，用于tx-ratio扫描的count模式:
// 阈值计数由全量规模算出，SPMF只认百分比，等效百分比跑完后再按固定计数收紧。
func RunSPMF(cfg *config.AllConfig, algorithm, inputPath, outputPath string, minsupPercent float64,
	keepPatternFiles bool, minsupCountFilter int) (*ToolResult, error) {
	if ok, _ := utils.IsExists(cfg.Tools.SpmfJar); !ok {
		return nil, fmt.Errorf("%w: spmf.jar not found at %s", utils.ErrToolNotFound, cfg.Tools.SpmfJar)
	}

	minsupArg := fmt.Sprintf("%v%%", minsupPercent)
	javaFields := strings.Fields(cfg.Tools.JavaCmd)

	if keepPatternFiles {
		args := append(javaFields[1:], "-Djava.awt.headless=true", "-jar", cfg.Tools.SpmfJar,
			"run", algorithm, inputPath, outputPath, minsupArg)
		cmd := exec.Command(javaFields[0], args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		t0 := time.Now()
		runErr := cmd.Run()
		elapsed := time.Since(t0).Seconds()

		if runErr != nil {
			return nil, fmt.Errorf("%w: SPMF %s failed (java_cmd=%s): %s",
				utils.ErrToolExecution, algorithm, cfg.Tools.JavaCmd, stderr.String())
		}

		stats, err := scanPatternFile(outputPath, minsupCountFilter)
		if err != nil {
			return nil, err
		}
		return &ToolResult{
			RuntimeSec:    elapsed,
			PatternCount:  stats.Count,
			MaxItemsetLen: stats.MaxLen,
			Cmd:           cmdString(javaFields[0], args),
		}, nil
	}

	// 默认流式: 工具写管道，消费者边读边归约
	fifoPath, err := MkFifoPattern(cfg.Paths.FifoDir, fmt.Sprintf("spmf_%s_", algorithm))
	if err != nil {
		return nil, err
	}
	defer utils.SafeUnlink(fifoPath)

	consumer := startFifoConsumer(fifoPath, minsupCountFilter)

	args := append(javaFields[1:], "-Djava.awt.headless=true", "-jar", cfg.Tools.SpmfJar,
		"run", algorithm, inputPath, fifoPath, minsupArg)
	cmd := exec.Command(javaFields[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t0 := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(t0).Seconds()

	// 写端若从未打开,读端还卡在open上,补一次写端open/close让它拿到EOF
	consumer.unblock()
	joinErr := consumer.join(time.Duration(cfg.Runner.StreamJoinTimeoutSec) * time.Second)

	if runErr != nil {
		return nil, fmt.Errorf("%w: SPMF %s failed (java_cmd=%s): %s",
			utils.ErrToolExecution, algorithm, cfg.Tools.JavaCmd, stderr.String())
	}
	if joinErr != nil {
		return nil, joinErr
	}

	return &ToolResult{
		RuntimeSec:    elapsed,
		PatternCount:  consumer.stats.Count,
		MaxItemsetLen: consumer.stats.MaxLen,
		Cmd:           cmdString(javaFields[0], args),
	}, nil
}

// scanPatternFile 保留模式下扫一遍输出文件
func scanPatternFile(path string, floor int) (PatternStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 工具成功退出但没产出文件，按零模式处理
			logger.Warnf("pattern output %s missing after successful run", path)
			return PatternStats{}, nil
		}
		return PatternStats{}, err
	}
	defer f.Close()
	return DrainPatterns(f, floor)
}

func cmdString(bin string, args []string) string {
	return bin + " " + strings.Join(args, " ")
}
