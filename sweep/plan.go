package sweep

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"fim-bench/bench_config"
)

// Plan 一次跑批的扫描轴配置，由CLI参数或HTTP请求展开而来
type Plan struct {
	Datasets          []string
	TxRatios          []float64
	MinsupRatios      []float64
	DefaultMinsup     map[string]float64
	TxSweepMinsupMode string
	Baselines         []string
	Resume            bool
	ForcePreprocess   bool
	KeepPatternFiles  bool
	Jobs              int
}

// DefaultPlan 与原实验设置一致的默认扫描计划
func DefaultPlan() *Plan {
	ms := make(map[string]float64, len(bench_config.DefaultMinsup))
	for k, v := range bench_config.DefaultMinsup {
		ms[k] = v
	}
	return &Plan{
		Datasets:          append([]string{}, bench_config.DatasetsAll...),
		TxRatios:          append([]float64{}, bench_config.DefaultTxRatios...),
		MinsupRatios:      append([]float64{}, bench_config.DefaultMinsupSweep...),
		DefaultMinsup:     ms,
		TxSweepMinsupMode: bench_config.MinsupModePercent,
		Baselines:         append([]string{}, bench_config.DefaultBaselines...),
	}
}

// Validate 校验基线名与minsup模式
func (p *Plan) Validate() error {
	allowed := mapset.NewSet()
	for _, a := range bench_config.AlgorithmsAll {
		allowed.Add(a)
	}
	if len(p.Baselines) == 0 {
		return fmt.Errorf("empty baselines, choose from: %s", strings.Join(bench_config.AlgorithmsAll, ","))
	}
	for _, b := range p.Baselines {
		if !allowed.Contains(b) {
			return fmt.Errorf("unknown baseline: %s, allowed: %s", b, strings.Join(bench_config.AlgorithmsAll, ","))
		}
	}

	mode := strings.ToLower(strings.TrimSpace(p.TxSweepMinsupMode))
	if mode != bench_config.MinsupModePercent && mode != bench_config.MinsupModeCount {
		mode = bench_config.MinsupModePercent
	}
	p.TxSweepMinsupMode = mode
	return nil
}

// MinsupFor 数据集的固定minsup(%)，未配置时取1.0
func (p *Plan) MinsupFor(ds string) float64 {
	if v, ok := p.DefaultMinsup[ds]; ok {
		return v
	}
	return 1.0
}
