package main

import (
	"fim-bench/sweep"
)

// BenchRequest HTTP触发跑批的请求体，字段与CLI参数一一对应
type BenchRequest struct {
	Datasets              []string           `json:"datasets"`
	TxRatios              []float64          `json:"txRatios"`
	MinsupRatios          []float64          `json:"minsupRatios"`
	Baselines             []string           `json:"baselines"`
	TxSweepMinsupMode     string             `json:"txSweepMinsupMode"`
	OverrideDefaultMinsup map[string]float64 `json:"overrideDefaultMinsup"`
	Resume                bool               `json:"resume"`
	ForcePreprocess       bool               `json:"forcePreprocess"`
	Jobs                  int                `json:"jobs"`
	KeepPatternFiles      bool               `json:"keepPatternFiles"`
}

// ToPlan 请求展开成扫描计划，未传的轴沿用默认
func (r *BenchRequest) ToPlan() (*sweep.Plan, error) {
	plan := sweep.DefaultPlan()
	if len(r.Datasets) > 0 {
		plan.Datasets = r.Datasets
	}
	if len(r.TxRatios) > 0 {
		plan.TxRatios = r.TxRatios
	}
	if len(r.MinsupRatios) > 0 {
		plan.MinsupRatios = r.MinsupRatios
	}
	if len(r.Baselines) > 0 {
		plan.Baselines = r.Baselines
	}
	if r.TxSweepMinsupMode != "" {
		plan.TxSweepMinsupMode = r.TxSweepMinsupMode
	}
	for ds, v := range r.OverrideDefaultMinsup {
		plan.DefaultMinsup[ds] = v
	}
	plan.Resume = r.Resume
	plan.ForcePreprocess = r.ForcePreprocess
	plan.Jobs = r.Jobs
	plan.KeepPatternFiles = r.KeepPatternFiles

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
