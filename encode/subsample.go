package encode

import (
	"bufio"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/LinkinStars/golang-util/gu"
	"github.com/yourbasic/bit"
)

// SubsampleLines 无放回地抽取ratioPercent比例的交易行，按原文件顺序写出，返回写出行数。
// 种子由(全局种子+ratio)唯一决定，同一(数据集,ratio)的抽样可复现；
// 不同ratio之间相互独立，互不要求嵌套。
func SubsampleLines(inputPath, outputPath string, ratioPercent float64, seed int64) (int, error) {
	lines, err := readNonBlankLines(inputPath)
	if err != nil {
		return 0, err
	}

	n := len(lines)
	// 半数时向偶数取整，保持与既有结果文件里的样本量一致
	k := int(math.RoundToEven(float64(n) * ratioPercent / 100.0))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(seed + int64(ratioPercent)))
	perm := rng.Perm(n)

	// bit集合记录被选中的行号，顺序遍历即按原序输出
	selected := bit.New()
	for _, idx := range perm[:k] {
		selected.Add(idx)
	}

	if err := gu.CreateDirIfNotExist(filepath.Dir(outputPath)); err != nil {
		return 0, err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, line := range lines {
		if !selected.Contains(i) {
			continue
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return k, nil
}

// RecoverSubsampleCount 子采样文件已存在时重扫恢复行数，避免重抽使下游缓存失效
func RecoverSubsampleCount(path string) (int, error) {
	n, _, err := ScanMaxID(path)
	return n, err
}

func readNonBlankLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
