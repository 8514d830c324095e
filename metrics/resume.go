package metrics

import (
	"fmt"
	"math"

	cmap "github.com/orcaman/concurrent-map"

	"fim-bench/bench_config"
)

// SweepKey 扫描点的归一化键。历史上记录的形态经过两代演化:
//   v2: (alg, tx_ratio, minsup_percent)，没有mode和阈值字段
//   v3: (alg, tx_ratio, mode, minsup_percent, minsup_count_threshold)
// 旧记录在载入时一次性归一化到当前形态，查询时不再到处做鸭子类型回退。
type SweepKey struct {
	Algorithm     string
	TxRatio       float64
	Mode          string
	MinsupPercent float64
	// Threshold 解析出的绝对支持度计数，0表示未知
	Threshold int
}

func (k SweepKey) exactKey() string {
	return fmt.Sprintf("tx|%s|%v|%s|%v|%d", k.Algorithm, k.TxRatio, k.Mode, k.MinsupPercent, k.Threshold)
}

// legacyKey v2形态的键。percent模式下阈值是(percent,样本量)的确定函数，
// 不进键也不影响等价性，所以旧记录按此键仍然可命中。
func (k SweepKey) legacyKey() string {
	return fmt.Sprintf("txv2|%s|%v|%v", k.Algorithm, k.TxRatio, k.MinsupPercent)
}

func minsupKey(alg string, minsupPercent float64, count int) string {
	return fmt.Sprintf("ms|%s|%v|%d", alg, minsupPercent, count)
}

// NormalizeTxKey 把任意一代的tx记录归一化成当前键。
// 阈值字段缺失时依次尝试: 被取代的旧字段minsup_count；由已记录的样本量重新推导。
func NormalizeTxKey(rec *MetricRecord) SweepKey {
	mode := rec.TxSweepMinsupMode
	if mode == "" {
		mode = bench_config.MinsupModePercent
	}

	threshold := 0
	switch {
	case rec.MinsupCountThreshold != nil:
		threshold = *rec.MinsupCountThreshold
	case rec.MinsupCount != nil:
		threshold = *rec.MinsupCount
	case rec.NTransactionsSub != nil:
		threshold = int(math.Ceil(rec.MinsupPercent / 100.0 * float64(*rec.NTransactionsSub)))
	}

	return SweepKey{
		Algorithm:     rec.Algorithm,
		TxRatio:       rec.TransactionRatioPercent,
		Mode:          mode,
		MinsupPercent: rec.MinsupPercent,
		Threshold:     threshold,
	}
}

// NormalizeMinsupKey minsup扫描记录的键，阈值缺失记0
func NormalizeMinsupKey(rec *MetricRecord) string {
	count := 0
	if rec.MinsupCount != nil {
		count = *rec.MinsupCount
	}
	return minsupKey(rec.Algorithm, rec.MinsupPercent, count)
}

// ResumeCache 已完成记录的内存索引，调度器据此跳过重复执行。
// worker只做只读查询，写入由协调者串行进行，底层用分段并发map。
type ResumeCache struct {
	m cmap.ConcurrentMap
}

func NewResumeCache() *ResumeCache {
	return &ResumeCache{m: cmap.New()}
}

// SeedStore 启动时把持久化记录全部归一化后建索引
func (c *ResumeCache) SeedStore(s *Store) {
	for _, rec := range s.ByTxRatio {
		c.PutTx(rec)
	}
	for _, rec := range s.ByMinsup {
		c.PutMinsup(rec)
	}
}

// PutTx 注册一条tx记录: 当前键一份，v2旧键一份，旧结果文件因此保持可用
func (c *ResumeCache) PutTx(rec *MetricRecord) {
	key := NormalizeTxKey(rec)
	c.m.Set(key.exactKey(), rec)
	c.m.Set(key.legacyKey(), rec)
}

func (c *ResumeCache) PutMinsup(rec *MetricRecord) {
	c.m.Set(NormalizeMinsupKey(rec), rec)
}

// LookupTx 三段回退: 精确键(含阈值) -> 阈值未知键 -> percent模式下的v2旧键
func (c *ResumeCache) LookupTx(key SweepKey) *MetricRecord {
	if v, ok := c.m.Get(key.exactKey()); ok {
		return v.(*MetricRecord)
	}
	relaxed := key
	relaxed.Threshold = 0
	if v, ok := c.m.Get(relaxed.exactKey()); ok {
		return v.(*MetricRecord)
	}
	if key.Mode == bench_config.MinsupModePercent {
		if v, ok := c.m.Get(key.legacyKey()); ok {
			return v.(*MetricRecord)
		}
	}
	return nil
}

func (c *ResumeCache) LookupMinsup(alg string, minsupPercent float64, count int) *MetricRecord {
	if v, ok := c.m.Get(minsupKey(alg, minsupPercent, count)); ok {
		return v.(*MetricRecord)
	}
	return nil
}

// MatchTxRecord 按记录自身的归一化键做容错匹配，用于追加前查重
func (c *ResumeCache) MatchTxRecord(rec *MetricRecord) *MetricRecord {
	return c.LookupTx(NormalizeTxKey(rec))
}

// MergeTx 仅当容错匹配不到已有记录时才追加进store并建索引，返回是否追加。
// 键形态跨代演化过，简单的键唯一约束做不了这件事。
func (s *Store) MergeTx(rec *MetricRecord, cache *ResumeCache) bool {
	if cache.MatchTxRecord(rec) != nil {
		return false
	}
	s.ByTxRatio = append(s.ByTxRatio, rec)
	cache.PutTx(rec)
	return true
}

// MergeMinsup 同MergeTx，作用于minsup集合
func (s *Store) MergeMinsup(rec *MetricRecord, cache *ResumeCache) bool {
	count := 0
	if rec.MinsupCount != nil {
		count = *rec.MinsupCount
	}
	if cache.LookupMinsup(rec.Algorithm, rec.MinsupPercent, count) != nil {
		return false
	}
	s.ByMinsup = append(s.ByMinsup, rec)
	cache.PutMinsup(rec)
	return true
}
