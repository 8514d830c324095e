package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fim-bench/bench_config"
)

func txRecord(alg string, ratio, msp float64) *MetricRecord {
	return &MetricRecord{
		Algorithm:               alg,
		TransactionRatioPercent: ratio,
		MinsupPercent:           msp,
		RuntimeSec:              1.0,
		PatternCount:            10,
	}
}

func TestNormalizeTxKey(t *testing.T) {
	Convey("跨代记录归一化", t, func() {
		Convey("当前形态直接取阈值字段", func() {
			rec := txRecord("Eclat", 50, 5)
			rec.TxSweepMinsupMode = bench_config.MinsupModePercent
			rec.MinsupCountThreshold = IntPtr(3)
			key := NormalizeTxKey(rec)
			So(key.Mode, ShouldEqual, bench_config.MinsupModePercent)
			So(key.Threshold, ShouldEqual, 3)
		})

		Convey("被取代的minsup_count字段可作为阈值来源", func() {
			rec := txRecord("Eclat", 50, 5)
			rec.MinsupCount = IntPtr(7)
			So(NormalizeTxKey(rec).Threshold, ShouldEqual, 7)
		})

		Convey("阈值字段全缺时由样本量重新推导", func() {
			rec := txRecord("Eclat", 50, 5)
			rec.NTransactionsSub = IntPtr(50)
			// ceil(5/100*50)=3
			So(NormalizeTxKey(rec).Threshold, ShouldEqual, 3)
		})

		Convey("mode缺失按percent处理", func() {
			rec := txRecord("Eclat", 50, 5)
			So(NormalizeTxKey(rec).Mode, ShouldEqual, bench_config.MinsupModePercent)
		})
	})
}

func TestLookupTxFallback(t *testing.T) {
	Convey("三段回退查询", t, func() {
		cache := NewResumeCache()

		// v2旧记录: 没有mode和阈值字段，样本量推导出的阈值(2)与新键的阈值(6)不同
		old := txRecord("FPGrowth_itemsets", 30, 2)
		old.NTransactionsSub = IntPtr(60)
		cache.PutTx(old)

		Convey("阈值不一致的新键经由v2旧键命中", func() {
			key := SweepKey{
				Algorithm:     "FPGrowth_itemsets",
				TxRatio:       30,
				Mode:          bench_config.MinsupModePercent,
				MinsupPercent: 2,
				Threshold:     6,
			}
			So(cache.LookupTx(key), ShouldEqual, old)
		})

		Convey("阈值一致时精确键直接命中", func() {
			key := SweepKey{
				Algorithm:     "FPGrowth_itemsets",
				TxRatio:       30,
				Mode:          bench_config.MinsupModePercent,
				MinsupPercent: 2,
				Threshold:     2,
			}
			So(cache.LookupTx(key), ShouldEqual, old)
		})

		Convey("count模式不回退到v2旧键", func() {
			key := SweepKey{
				Algorithm:     "FPGrowth_itemsets",
				TxRatio:       30,
				Mode:          bench_config.MinsupModeCount,
				MinsupPercent: 2,
				Threshold:     6,
			}
			So(cache.LookupTx(key), ShouldBeNil)
		})

		Convey("算法或比例不同不命中", func() {
			key := SweepKey{Algorithm: "Eclat", TxRatio: 30, Mode: bench_config.MinsupModePercent, MinsupPercent: 2}
			So(cache.LookupTx(key), ShouldBeNil)
			key = SweepKey{Algorithm: "FPGrowth_itemsets", TxRatio: 70, Mode: bench_config.MinsupModePercent, MinsupPercent: 2}
			So(cache.LookupTx(key), ShouldBeNil)
		})
	})
}

func TestMergeTxDeduplicates(t *testing.T) {
	Convey("容错匹配下的追加去重", t, func() {
		store := &Store{Dataset: "toy"}
		cache := NewResumeCache()

		Convey("同形态重复不追加", func() {
			a := txRecord("Eclat", 50, 5)
			a.TxSweepMinsupMode = bench_config.MinsupModePercent
			a.MinsupCountThreshold = IntPtr(3)
			So(store.MergeTx(a, cache), ShouldBeTrue)

			b := txRecord("Eclat", 50, 5)
			b.TxSweepMinsupMode = bench_config.MinsupModePercent
			b.MinsupCountThreshold = IntPtr(3)
			So(store.MergeTx(b, cache), ShouldBeFalse)
			So(len(store.ByTxRatio), ShouldEqual, 1)
		})

		Convey("v2旧记录挡住等价的新记录", func() {
			old := txRecord("Eclat", 50, 5)
			old.NTransactionsSub = IntPtr(50)
			So(store.MergeTx(old, cache), ShouldBeTrue)

			newer := txRecord("Eclat", 50, 5)
			newer.TxSweepMinsupMode = bench_config.MinsupModePercent
			newer.MinsupCountThreshold = IntPtr(3)
			newer.NTransactionsSub = IntPtr(50)
			So(store.MergeTx(newer, cache), ShouldBeFalse)
			So(len(store.ByTxRatio), ShouldEqual, 1)
		})

		Convey("不同扫描点各自追加", func() {
			a := txRecord("Eclat", 10, 5)
			b := txRecord("Eclat", 20, 5)
			So(store.MergeTx(a, cache), ShouldBeTrue)
			So(store.MergeTx(b, cache), ShouldBeTrue)
			So(len(store.ByTxRatio), ShouldEqual, 2)
		})
	})
}

func TestMergeMinsup(t *testing.T) {
	Convey("minsup集合的追加去重", t, func() {
		store := &Store{Dataset: "toy"}
		cache := NewResumeCache()

		rec := txRecord("CICLAD", 100, 1)
		rec.MinsupCount = IntPtr(12)
		So(store.MergeMinsup(rec, cache), ShouldBeTrue)

		dup := txRecord("CICLAD", 100, 1)
		dup.MinsupCount = IntPtr(12)
		So(store.MergeMinsup(dup, cache), ShouldBeFalse)

		other := txRecord("CICLAD", 100, 1)
		other.MinsupCount = IntPtr(24)
		So(store.MergeMinsup(other, cache), ShouldBeTrue)
		So(len(store.ByMinsup), ShouldEqual, 2)
	})
}

func TestSeedStore(t *testing.T) {
	store := &Store{
		Dataset:   "toy",
		ByTxRatio: []*MetricRecord{txRecord("Eclat", 50, 5)},
		ByMinsup:  []*MetricRecord{func() *MetricRecord { r := txRecord("Eclat", 100, 1); r.MinsupCount = IntPtr(4); return r }()},
	}
	cache := NewResumeCache()
	cache.SeedStore(store)

	key := SweepKey{Algorithm: "Eclat", TxRatio: 50, Mode: bench_config.MinsupModePercent, MinsupPercent: 5}
	if cache.LookupTx(key) == nil {
		t.Fatal("seeded tx record not found")
	}
	if cache.LookupMinsup("Eclat", 1, 4) == nil {
		t.Fatal("seeded minsup record not found")
	}
}
