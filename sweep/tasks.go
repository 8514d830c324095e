package sweep

import (
	"fmt"
	"math"
	"path/filepath"

	"golang.org/x/exp/slices"

	"fim-bench/base/logger"
	"fim-bench/bench_config"
	"fim-bench/encode"
	"fim-bench/metrics"
	"fim-bench/runner"
	"fim-bench/utils"
)

// spmfFamily 百分比阈值单输出的工具族(含Hamm)，CICLAD单独处理
var spmfFamily = []string{bench_config.AlgFPGrowth, bench_config.AlgEclat, bench_config.AlgHamm}

// runTxRatioPoint 跑一个(数据集, tx_ratio)点上的全部选中基线。
//
// percent模式: minsup比例固定，阈值计数随样本量缩放。
// count模式: 阈值计数由全量规模一次算出(所有ratio点相同)，对只认百分比的SPMF
// 传等效百分比并按固定计数做事后过滤，不同ratio下的模式数才有可比性。
func (s *Scheduler) runTxRatioPoint(ds string, prep *Prep, r float64) ([]*metrics.MetricRecord, error) {
	cache := s.caches[ds]
	msDefault := s.plan.MinsupFor(ds)
	mode := s.plan.TxSweepMinsupMode
	keep := s.plan.KeepPatternFiles || s.cfg.Runner.KeepPatternFiles

	subPath := filepath.Join(prep.Dir, fmt.Sprintf("sub_%d.spmf", int(r)))
	var nSub int
	if ok, _ := utils.IsExists(subPath); ok {
		// 子采样已存在则只恢复行数，重抽会让下游按样本量缓存的结果失效
		n, err := encode.RecoverSubsampleCount(subPath)
		if err != nil {
			return nil, err
		}
		nSub = n
	} else {
		n, err := encode.SubsampleLines(prep.SpmfPath, subPath, r, s.cfg.Runner.RandomSeed)
		if err != nil {
			return nil, err
		}
		nSub = n
	}

	var (
		threshold       int
		effectivePct    float64
		spmfFilterCount int
		fixedCount      int
	)
	if mode == bench_config.MinsupModeCount {
		base := prep.NTx
		if base < 1 {
			base = 1
		}
		fixedCount = int(math.Ceil(msDefault / 100.0 * float64(base)))
		threshold = fixedCount
		rawEff := 100.0 * float64(fixedCount) / math.Max(1, float64(nSub))
		effectivePct = math.Min(rawEff, 100.0)
		spmfFilterCount = fixedCount
	} else {
		threshold = int(math.Ceil(msDefault / 100.0 * float64(nSub)))
		effectivePct = msDefault
	}

	lookup := func(alg string) *metrics.MetricRecord {
		if !s.plan.Resume {
			return nil
		}
		return cache.LookupTx(metrics.SweepKey{
			Algorithm:     alg,
			TxRatio:       r,
			Mode:          mode,
			MinsupPercent: msDefault,
			Threshold:     threshold,
		})
	}

	var recs []*metrics.MetricRecord

	for _, alg := range s.plan.Baselines {
		if !slices.Contains(spmfFamily, alg) {
			continue
		}
		if cached := lookup(alg); cached != nil {
			logger.Infof("[resume] %s tx=%v %s cached, skip", ds, r, alg)
			recs = append(recs, cached)
			continue
		}

		outFile := filepath.Join(prep.Dir, fmt.Sprintf("%s_tx%d.txt", alg, int(r)))
		var (
			m   *runner.ToolResult
			err error
		)
		if alg == bench_config.AlgHamm {
			m, err = runner.RunHamm(s.cfg, subPath, outFile, effectivePct, keep)
		} else {
			m, err = runner.RunSPMF(s.cfg, alg, subPath, outFile, effectivePct, keep, spmfFilterCount)
		}
		if err != nil {
			return nil, err
		}

		rec := &metrics.MetricRecord{
			Algorithm:               alg,
			TransactionRatioPercent: r,
			NTransactionsSub:        metrics.IntPtr(nSub),
			MinsupPercent:           msDefault,
			TxSweepMinsupMode:       mode,
			EffectiveMinsupPercent:  metrics.FloatPtr(effectivePct),
			MinsupCountThreshold:    metrics.IntPtr(threshold),
			RuntimeSec:              m.RuntimeSec,
			PatternCount:            m.PatternCount,
			DepthProxy:              m.MaxItemsetLen,
			Cmd:                     m.Cmd,
			PatternFilesDeleted:     !keep,
		}
		if mode == bench_config.MinsupModeCount {
			rec.FixedMinsupCount = metrics.IntPtr(fixedCount)
			rec.BaseNTxForFixedMinsup = metrics.IntPtr(prep.NTx)
		}
		recs = append(recs, rec)
	}

	if slices.Contains(s.plan.Baselines, bench_config.AlgCiclad) {
		if cached := lookup(bench_config.AlgCiclad); cached != nil {
			logger.Infof("[resume] %s tx=%v CICLAD cached, skip", ds, r)
			recs = append(recs, cached)
		} else {
			fciFile := filepath.Join(prep.Dir, fmt.Sprintf("CICLAD_tx%d_fci.txt", int(r)))
			logFile := filepath.Join(prep.Dir, fmt.Sprintf("CICLAD_tx%d.log", int(r)))

			m, err := runner.RunCicladMulti(s.cfg, subPath, fciFile, logFile,
				prep.NbrItems, nSub, []int{threshold}, keep)
			if err != nil {
				return nil, err
			}

			rec := &metrics.MetricRecord{
				Algorithm:               bench_config.AlgCiclad,
				TransactionRatioPercent: r,
				NTransactionsSub:        metrics.IntPtr(nSub),
				MinsupPercent:           msDefault,
				TxSweepMinsupMode:       mode,
				EffectiveMinsupPercent:  metrics.FloatPtr(effectivePct),
				MinsupCountThreshold:    metrics.IntPtr(threshold),
				MinsupCount:             metrics.IntPtr(threshold),
				RuntimeSec:              m.RuntimeSecWall,
				PatternCount:            m.DumpedByMinsup[threshold],
				DepthProxy:              0,
				CicladLogPath:           filepath.Base(logFile),
				Cmd:                     m.Cmd,
				PatternFilesDeleted:     !keep,
			}
			if mode == bench_config.MinsupModeCount {
				rec.FixedMinsupCount = metrics.IntPtr(fixedCount)
				rec.BaseNTxForFixedMinsup = metrics.IntPtr(prep.NTx)
			}
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

// runMinsupSweep 跑一个数据集的minsup扫描(全量样本)。
// SPMF族每个minsup调一次；CICLAD一次调用带上全部阈值计数。
func (s *Scheduler) runMinsupSweep(ds string, prep *Prep) ([]*metrics.MetricRecord, error) {
	cache := s.caches[ds]
	keep := s.plan.KeepPatternFiles || s.cfg.Runner.KeepPatternFiles

	var recs []*metrics.MetricRecord

	for _, ms := range s.plan.MinsupRatios {
		for _, alg := range s.plan.Baselines {
			if !slices.Contains(spmfFamily, alg) {
				continue
			}
			if s.plan.Resume {
				if cached := cache.LookupMinsup(alg, ms, 0); cached != nil {
					recs = append(recs, cached)
					continue
				}
			}

			outFile := filepath.Join(prep.Dir, fmt.Sprintf("%s_ms%v.txt", alg, ms))
			var (
				m   *runner.ToolResult
				err error
			)
			if alg == bench_config.AlgHamm {
				m, err = runner.RunHamm(s.cfg, prep.SpmfPath, outFile, ms, keep)
			} else {
				m, err = runner.RunSPMF(s.cfg, alg, prep.SpmfPath, outFile, ms, keep, 0)
			}
			if err != nil {
				return nil, err
			}

			recs = append(recs, &metrics.MetricRecord{
				Algorithm:               alg,
				TransactionRatioPercent: 100.0,
				MinsupPercent:           ms,
				RuntimeSec:              m.RuntimeSec,
				PatternCount:            m.PatternCount,
				DepthProxy:              m.MaxItemsetLen,
				Cmd:                     m.Cmd,
				PatternFilesDeleted:     !keep,
			})
		}
	}

	if slices.Contains(s.plan.Baselines, bench_config.AlgCiclad) {
		counts := make([]int, 0, len(s.plan.MinsupRatios))
		for _, ms := range s.plan.MinsupRatios {
			counts = append(counts, int(math.Ceil(ms/100.0*float64(prep.NTx))))
		}
		fciFile := filepath.Join(prep.Dir, "CICLAD_minsupSweep_fci.txt")
		logFile := filepath.Join(prep.Dir, "CICLAD_minsupSweep.log")

		need := true
		if s.plan.Resume {
			ok := true
			for i, ms := range s.plan.MinsupRatios {
				if cache.LookupMinsup(bench_config.AlgCiclad, ms, counts[i]) == nil {
					ok = false
					break
				}
			}
			if logOk, _ := utils.IsExists(logFile); ok && logOk {
				need = false
			}
		}

		var (
			dumpedBy map[int]int
			wall     float64
			cmd      string
		)
		if need {
			m, err := runner.RunCicladMulti(s.cfg, prep.DatPath, fciFile, logFile,
				prep.NbrItems, prep.NTx, counts, keep)
			if err != nil {
				return nil, err
			}
			dumpedBy = m.DumpedByMinsup
			wall = m.RuntimeSecWall
			cmd = m.Cmd
		} else {
			parsed, err := runner.ParseCicladLogFile(logFile)
			if err != nil {
				return nil, err
			}
			dumpedBy = parsed.DumpedByMinsup
			wall = 0.0
			cmd = fmt.Sprintf("(skipped; see %s)", filepath.Base(logFile))
		}

		for i, ms := range s.plan.MinsupRatios {
			recs = append(recs, &metrics.MetricRecord{
				Algorithm:               bench_config.AlgCiclad,
				TransactionRatioPercent: 100.0,
				MinsupPercent:           ms,
				MinsupCount:             metrics.IntPtr(counts[i]),
				RuntimeSec:              wall,
				PatternCount:            dumpedBy[counts[i]],
				DepthProxy:              0,
				CicladLogPath:           filepath.Base(logFile),
				Cmd:                     cmd,
				PatternFilesDeleted:     !keep,
			})
		}
	}

	return recs, nil
}
