package sweep

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"fim-bench/metrics"
)

// RenderSummary 把收集到的指标渲染成控制台表格，绘图由外部工具基于metrics文件完成
func RenderSummary(stores map[string]*metrics.Store) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"dataset", "sweep", "algorithm", "tx_ratio(%)", "minsup(%)", "runtime(s)", "patterns", "depth"})

	datasets := maps.Keys(stores)
	slices.Sort(datasets)

	for _, ds := range datasets {
		store := stores[ds]
		for _, rec := range store.ByTxRatio {
			t.AppendRow(table.Row{
				ds, "tx-ratio", rec.Algorithm,
				rec.TransactionRatioPercent, rec.MinsupPercent,
				fmt.Sprintf("%.3f", rec.RuntimeSec), rec.PatternCount, rec.DepthProxy,
			})
		}
		for _, rec := range store.ByMinsup {
			t.AppendRow(table.Row{
				ds, "minsup", rec.Algorithm,
				rec.TransactionRatioPercent, rec.MinsupPercent,
				fmt.Sprintf("%.3f", rec.RuntimeSec), rec.PatternCount, rec.DepthProxy,
			})
		}
		t.AppendSeparator()
	}
	return t.Render()
}
