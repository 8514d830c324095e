package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/utils"
)

// CicladParsed CICLAD诊断日志的解析结果
type CicladParsed struct {
	MinsupCounts   []int
	DumpedByMinsup map[int]int
	RawTimesMs     []float64
	RawDumped      []int
}

// CicladResult 一次CICLAD批量调用的结果
type CicladResult struct {
	CicladParsed
	RuntimeSecWall float64
	Cmd            string
}

var (
	reMinsupCounts = regexp.MustCompile(`^minsup_counts:\s*(.+)$`)
	reProcessedMs  = regexp.MustCompile(`processed transactions in\s*([0-9.]+)\s*ms`)
	reDumped       = regexp.MustCompile(`dumped frequent closed itemsets:\s*(\d+)`)
)

// ParseCicladLog 解析CICLAD的stderr日志。
//
// 预期行:
//   minsup_counts: 82,102,152,...
//   dumped frequent closed itemsets: 51640
//   processed transactions in 96543.2660 ms
//
// dumped行与阈值按位置配对，日志里没有显式的阈值->计数对。
// 若工具乱序输出，归属会错，这是已记录的尽力而为假设，不是保证。
func ParseCicladLog(r io.Reader) (*CicladParsed, error) {
	parsed := &CicladParsed{DumpedByMinsup: map[int]int{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := reMinsupCounts.FindStringSubmatch(line); m != nil {
			for _, x := range strings.Split(m[1], ",") {
				x = strings.TrimSpace(x)
				if x == "" {
					continue
				}
				v, err := strconv.Atoi(x)
				if err != nil {
					logger.Warnf("ciclad log: bad minsup count %q in line %q", x, line)
					continue
				}
				parsed.MinsupCounts = append(parsed.MinsupCounts, v)
			}
			continue
		}

		if m := reProcessedMs.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				parsed.RawTimesMs = append(parsed.RawTimesMs, v)
			}
			continue
		}

		if m := reDumped.FindStringSubmatch(line); m != nil {
			v, _ := strconv.Atoi(m[1])
			parsed.RawDumped = append(parsed.RawDumped, v)
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(parsed.MinsupCounts) > 0 {
		if len(parsed.RawDumped) < len(parsed.MinsupCounts) {
			logger.Warnf("ciclad log: %d thresholds but only %d dumped lines",
				len(parsed.MinsupCounts), len(parsed.RawDumped))
		}
		for i, ms := range parsed.MinsupCounts {
			if i < len(parsed.RawDumped) {
				parsed.DumpedByMinsup[ms] = parsed.RawDumped[i]
			}
		}
	} else {
		// 没有minsup_counts行时退化为按序号索引
		for i, d := range parsed.RawDumped {
			parsed.DumpedByMinsup[i] = d
		}
	}
	return parsed, nil
}

// ParseCicladLogFile 从日志文件解析
func ParseCicladLogFile(logPath string) (*CicladParsed, error) {
	f, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCicladLog(f)
}

// RunCicladMulti 一次调用CICLAD跑多个minsup计数。
// 主输出流(stdout)是全部频繁闭项集，默认丢弃避免磁盘爆掉，计数只从stderr日志拿；
// keepPatternFiles=true时stdout写fciOutPath并保留。stderr始终写logPath再解析。
func RunCicladMulti(cfg *config.AllConfig, inputDat, fciOutPath, logPath string,
	nbrItems, windowSize int, minsupCounts []int, keepPatternFiles bool) (*CicladResult, error) {
	info, err := os.Stat(cfg.Tools.CicladBin)
	if err != nil || info.Mode()&0o111 == 0 {
		return nil, fmt.Errorf("%w: CICLAD binary not found/executable at %s", utils.ErrToolNotFound, cfg.Tools.CicladBin)
	}

	args := []string{inputDat, strconv.Itoa(nbrItems), strconv.Itoa(windowSize)}
	for _, c := range minsupCounts {
		args = append(args, strconv.Itoa(c))
	}
	cmd := exec.Command(cfg.Tools.CicladBin, args...)

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, err
	}
	defer logFile.Close()
	cmd.Stderr = logFile

	if keepPatternFiles {
		fciFile, err := os.Create(fciOutPath)
		if err != nil {
			return nil, err
		}
		defer fciFile.Close()
		cmd.Stdout = fciFile
	} else {
		cmd.Stdout = io.Discard
	}

	t0 := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(t0).Seconds()

	if runErr != nil {
		if !keepPatternFiles {
			utils.SafeUnlink(fciOutPath)
		}
		return nil, fmt.Errorf("%w: CICLAD failed (%v), cmd: %s",
			utils.ErrToolExecution, runErr, cmdString(cfg.Tools.CicladBin, args))
	}

	parsed, err := ParseCicladLogFile(logPath)
	if err != nil {
		return nil, err
	}
	return &CicladResult{
		CicladParsed:   *parsed,
		RuntimeSecWall: elapsed,
		Cmd:            cmdString(cfg.Tools.CicladBin, args),
	}, nil
}
