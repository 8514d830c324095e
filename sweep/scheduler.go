package sweep

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/LinkinStars/golang-util/gu"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/bench_config"
	"fim-bench/dataset"
	"fim-bench/encode"
	"fim-bench/metrics"
	"fim-bench/utils"
)

// Prep 一个数据集预处理后的执行上下文
type Prep struct {
	SpmfPath string
	DatPath  string
	Dir      string
	NTx      int
	NbrItems int
}

// Scheduler 展开(数据集×扫描点)任务并有限并发执行。
// worker不直接碰store，完成结果统一回传给串行的协调者合并落盘。
type Scheduler struct {
	cfg  *config.AllConfig
	plan *Plan

	stores map[string]*metrics.Store
	caches map[string]*metrics.ResumeCache
}

func NewScheduler(cfg *config.AllConfig, plan *Plan) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		plan:   plan,
		stores: map[string]*metrics.Store{},
		caches: map[string]*metrics.ResumeCache{},
	}
}

// Stores 跑批后各数据集的指标存储(供汇总展示)
func (s *Scheduler) Stores() map[string]*metrics.Store {
	return s.stores
}

// Run 全流程: 预处理 -> tx-ratio批 -> minsup批。
// tx-ratio批整体先于minsup批，minsup批复用全量规范文件，与子采样状态无关。
func (s *Scheduler) Run() error {
	preps := s.Preprocess()
	if len(preps) == 0 {
		logger.Warn("no dataset prepared, nothing to run")
		return nil
	}
	return s.RunSweeps(preps)
}

// Preprocess 逐数据集编码。原始文件缺失只停掉该数据集，其余继续。
func (s *Scheduler) Preprocess() map[string]*Prep {
	preps := map[string]*Prep{}
	for _, ds := range s.plan.Datasets {
		ds := ds
		logger.Infof("[preprocess] %s", ds)
		arts, err := encode.Preprocess(ds, s.cfg.Paths.ResultsDir, s.plan.ForcePreprocess, func() ([][]string, error) {
			return dataset.Load(ds, s.cfg.Paths.DataDir)
		})
		if err != nil {
			if errors.Is(err, utils.ErrDatasetNotFound) {
				logger.Errorf("dataset %s 原始文件缺失,跳过: %v", ds, err)
				continue
			}
			logger.Errorf("dataset %s 预处理失败,跳过: %v", ds, err)
			continue
		}
		preps[ds] = &Prep{
			SpmfPath: arts.SpmfPath,
			DatPath:  arts.DatPath,
			Dir:      filepath.Join(s.cfg.Paths.ResultsDir, ds),
			NTx:      arts.NTx,
			NbrItems: arts.NbrItems,
		}
	}
	return preps
}

// RunSweeps 在已预处理的数据集上执行两批扫描
func (s *Scheduler) RunSweeps(preps map[string]*Prep) error {
	for ds, prep := range preps {
		if err := gu.CreateDirIfNotExist(prep.Dir); err != nil {
			return err
		}
		store := metrics.LoadStore(prep.Dir, ds)
		cache := metrics.NewResumeCache()
		cache.SeedStore(store)
		s.stores[ds] = store
		s.caches[ds] = cache
	}

	// A) tx-ratio扫描: (数据集, ratio)各一个任务
	var txTasks []task
	for ds, prep := range preps {
		ds, prep := ds, prep
		for _, r := range s.plan.TxRatios {
			r := r
			txTasks = append(txTasks, task{ds: ds, run: func() ([]*metrics.MetricRecord, error) {
				return s.runTxRatioPoint(ds, prep, r)
			}})
		}
	}
	if err := s.runBatch(txTasks, false); err != nil {
		return err
	}

	// B) minsup扫描: 数据集各一个任务
	var msTasks []task
	for ds, prep := range preps {
		ds, prep := ds, prep
		msTasks = append(msTasks, task{ds: ds, run: func() ([]*metrics.MetricRecord, error) {
			return s.runMinsupSweep(ds, prep)
		}})
	}
	return s.runBatch(msTasks, true)
}

type task struct {
	ds  string
	run func() ([]*metrics.MetricRecord, error)
}

type completion struct {
	ds   string
	recs []*metrics.MetricRecord
	err  error
}

// runBatch 有限并发执行一批任务。
// 完成事件由单个协调者串行消费: 合并进store、每次完成后重写持久化文件，
// 避免对store文件做细粒度加锁。任务失败不重试，记录首个错误并停发新任务，
// 已落盘的记录保持有效。
func (s *Scheduler) runBatch(tasks []task, minsupBatch bool) error {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	compCh := make(chan completion, bench_config.ChanSize)
	coordDone := make(chan struct{})
	var firstErr error

	go func() {
		defer close(coordDone)
		for comp := range compCh {
			if comp.err != nil {
				if firstErr == nil {
					firstErr = comp.err
				}
				logger.Errorf("task on %s failed, aborting batch: %v", comp.ds, comp.err)
				cancel()
				continue
			}
			store := s.stores[comp.ds]
			cache := s.caches[comp.ds]
			added := 0
			for _, rec := range comp.recs {
				if minsupBatch {
					if store.MergeMinsup(rec, cache) {
						added++
					}
				} else {
					if store.MergeTx(rec, cache) {
						added++
					}
				}
			}
			if err := store.Save(filepath.Join(s.cfg.Paths.ResultsDir, comp.ds)); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				cancel()
				continue
			}
			logger.Infof("dataset %s: %d/%d record(s) merged, metrics persisted", comp.ds, added, len(comp.recs))
		}
	}()

	jobs := s.plan.Jobs
	if jobs <= 0 {
		jobs = s.cfg.Runner.Jobs
	}
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for _, t := range tasks {
		t := t
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				recs, err := t.run()
				compCh <- completion{ds: t.ds, recs: recs, err: err}
			}()
		}
		if ctx.Err() != nil {
			break
		}
	}

	wg.Wait()
	close(compCh)
	<-coordDone
	return firstErr
}
