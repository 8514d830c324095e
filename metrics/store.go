package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LinkinStars/golang-util/gu"

	"fim-bench/base/logger"
)

// Store 单个数据集的指标存储，续跑的持久化状态。
// 两个集合内不会出现在容错匹配下相等的两条记录，去重靠追加前查询而非键唯一约束。
type Store struct {
	Dataset   string          `json:"dataset"`
	ByTxRatio []*MetricRecord `json:"by_txratio"`
	ByMinsup  []*MetricRecord `json:"by_minsup"`
}

// StorePath 数据集的metrics文件路径: <dsDir>/metrics_<ds>.json
func StorePath(dsDir, ds string) string {
	return filepath.Join(dsDir, fmt.Sprintf("metrics_%s.json", ds))
}

// LoadStore 读取已有指标，缺失或损坏时返回空store(与历史行为一致，不视为错误)
func LoadStore(dsDir, ds string) *Store {
	s := &Store{Dataset: ds, ByTxRatio: []*MetricRecord{}, ByMinsup: []*MetricRecord{}}
	raw, err := os.ReadFile(StorePath(dsDir, ds))
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, s); err != nil {
		logger.Warnf("metrics file for %s is corrupt, starting fresh: %v", ds, err)
		return &Store{Dataset: ds, ByTxRatio: []*MetricRecord{}, ByMinsup: []*MetricRecord{}}
	}
	if s.Dataset == "" {
		s.Dataset = ds
	}
	return s
}

// Save 全量重写metrics文件，每批任务完成后调用，进程中断时已完成的记录不丢
func (s *Store) Save(dsDir string) error {
	if err := gu.CreateDirIfNotExist(dsDir); err != nil {
		return err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(StorePath(dsDir, s.Dataset), out, 0o644)
}
