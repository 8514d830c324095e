package runner

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/LinkinStars/golang-util/gu"

	"fim-bench/utils"
)

// PatternStats 流式提取出的模式统计: 条数与最大项集长度
type PatternStats struct {
	Count  int
	MaxLen int
}

const supMarker = "#SUP:"

// parseItemCount 解析形如 "1 2 3 #SUP: 10" 的行，返回#SUP:前的item个数
func parseItemCount(line string) int {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0
	}
	left := line
	if idx := strings.Index(line, supMarker); idx >= 0 {
		left = line[:idx]
	}
	left = strings.TrimSpace(left)
	if left == "" {
		return 0
	}
	return len(strings.Fields(left))
}

// parseSupport 解析行中#SUP:后面的支持度计数，解析失败第二个返回值为false
func parseSupport(line string) (int, bool) {
	idx := strings.Index(line, supMarker)
	if idx < 0 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(line[idx+len(supMarker):]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// DrainPatterns 逐行消费模式流并归约成统计量，整个输出永不落盘。
// floor>0时启用支持度下限过滤: 一次按名义阈值跑出的输出可以事后模拟更严的固定计数阈值；
// 解析不出支持度的行在过滤启用时按被滤除处理，未启用时仍计入条数统计。空行忽略。
// 读中途出错(I/O失败、单行超出缓冲上限)必须上抛，否则截断的统计会被当成干净的EOF。
func DrainPatterns(r io.Reader, floor int) (PatternStats, error) {
	var stats PatternStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if floor > 0 {
			sup, ok := parseSupport(line)
			if !ok || sup < floor {
				continue
			}
		}
		stats.Count++
		if l := parseItemCount(line); l > stats.MaxLen {
			stats.MaxLen = l
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("pattern stream read failed: %w", err)
	}
	return stats, nil
}

// MkFifoPattern 在fifoDir下创建唯一命名管道并返回路径。
// 管道本身不占磁盘，创建失败通常是文件系统不支持mkfifo，提示换目录。
func MkFifoPattern(fifoDir, prefix string) (string, error) {
	if err := gu.CreateDirIfNotExist(fifoDir); err != nil {
		return "", fmt.Errorf("%w: cannot create fifo dir %s, try setting PATTERN_FIFO_DIR to a writable filesystem: %v",
			utils.ErrChannelUnavailable, fifoDir, err)
	}
	name := fmt.Sprintf("%s%d_%d_%08x.fifo", prefix, os.Getpid(), time.Now().UnixNano(), rand.Uint32())
	path := filepath.Join(fifoDir, name)
	if err := syscall.Mkfifo(path, 0o600); err != nil {
		return "", fmt.Errorf("%w: mkfifo %s failed, try setting PATTERN_FIFO_DIR to a writable filesystem: %v",
			utils.ErrChannelUnavailable, path, err)
	}
	return path, nil
}

// fifoConsumer 流式模式下的专职消费者，生产者(外部进程)写管道，它边读边归约
type fifoConsumer struct {
	path  string
	stats PatternStats
	err   error
	done  chan struct{}
}

// startFifoConsumer 启动消费者协程。打开管道读端会阻塞到写端出现。
func startFifoConsumer(path string, floor int) *fifoConsumer {
	c := &fifoConsumer{path: path, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		f, err := os.Open(path)
		if err != nil {
			c.err = err
			return
		}
		defer f.Close()
		c.stats, c.err = DrainPatterns(f, floor)
	}()
	return c
}

// unblock 工具退出后打开一次写端立即关闭，让可能还卡在open上的读端拿到EOF。
// 没有读端在等时open会得到ENXIO，忽略即可。
func (c *fifoConsumer) unblock() {
	fd, err := syscall.Open(c.path, syscall.O_WRONLY|syscall.O_NONBLOCK, 0)
	if err == nil {
		_ = syscall.Close(fd)
	}
}

// join 有限等待消费者清空管道，超时说明生产者残留积压或管道目录异常
func (c *fifoConsumer) join(timeout time.Duration) error {
	select {
	case <-c.done:
		return c.err
	case <-time.After(timeout):
		return fmt.Errorf("%w: fifo %s not drained within %v", utils.ErrExtractionTimeout, c.path, timeout)
	}
}
