package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/bench_config"
	"fim-bench/sweep"
)

var (
	flagDatasets        string
	flagTxRatios        string
	flagMinsupRatios    string
	flagOverrideMinsup  string
	flagMinsupMode      string
	flagBaselines       string
	flagResume          bool
	flagForcePreprocess bool
	flagJobs            int
	flagKeepPatterns    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("fim-bench failed: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// newRootCmd 组装CLI命令树
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fim-bench",
		Short: "频繁项集挖掘基线跑批工具 (SPMF FP-Growth/Eclat, CICLAD, Hamm)",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "执行tx-ratio与minsup两轮扫描",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initAll()
			if err != nil {
				return err
			}
			plan, err := buildPlan()
			if err != nil {
				return err
			}
			plan.Jobs = pickJobs(plan.Jobs, cfg)

			sch := sweep.NewScheduler(cfg, plan)
			if err := sch.Run(); err != nil {
				return err
			}
			fmt.Println(sweep.RenderSummary(sch.Stores()))
			logger.Sync()
			return nil
		},
	}
	runCmd.Flags().StringVar(&flagDatasets, "datasets", strings.Join(bench_config.DatasetsAll, ","), "逗号分隔的数据集列表")
	runCmd.Flags().StringVar(&flagTxRatios, "tx-ratios", joinFloats(bench_config.DefaultTxRatios), "交易比例扫描点,如 '10,20,30,50,70,100'")
	runCmd.Flags().StringVar(&flagMinsupRatios, "minsup-ratios", joinFloats(bench_config.DefaultMinsupSweep), "minsup扫描点,如 '0.5,1,2,5,10'")
	runCmd.Flags().StringVar(&flagOverrideMinsup, "override-default-minsup", "", "覆盖各数据集固定minsup,如 'mushroom=1,car=5'")
	runCmd.Flags().StringVar(&flagMinsupMode, "tx-sweep-minsup-mode", bench_config.MinsupModePercent, "percent=固定比例(默认); count=按全量规模固定计数")
	runCmd.Flags().StringVar(&flagBaselines, "baselines", strings.Join(bench_config.DefaultBaselines, ","), "要跑的基线,逗号分隔")
	runCmd.Flags().BoolVar(&flagResume, "resume", false, "跳过metrics文件里已有的扫描点")
	runCmd.Flags().BoolVar(&flagForcePreprocess, "force-preprocess", false, "即使产物存在也重建规范文件")
	runCmd.Flags().IntVar(&flagJobs, "jobs", 0, "并发worker数(默认CPU核数的一半)")
	runCmd.Flags().BoolVar(&flagKeepPatterns, "keep-pattern-files", false, "保留模式输出文件(默认解析后即弃)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "以HTTP服务方式运行,POST /bench触发跑批",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initAll()
			if err != nil {
				return err
			}
			return StartServer(cfg)
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config",
		Short: "生成默认config.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.DefaultPath, "config.yml")
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("default config written to %s\n", path)
			return nil
		},
	}

	root.AddCommand(runCmd, serveCmd, initConfigCmd)
	return root
}

// initAll 一些初始化配置
func initAll() (*config.AllConfig, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, err
	}
	l := cfg.Logger
	logger.InitLogger(l.Level, "fim-bench", l.Path, l.MaxAge, l.RotationTime, l.RotationSize, cfg.Server.SentryDsn)
	return cfg, nil
}

// buildPlan 把CLI参数展开成扫描计划
func buildPlan() (*sweep.Plan, error) {
	plan := sweep.DefaultPlan()

	if ds := splitList(flagDatasets); len(ds) > 0 {
		plan.Datasets = ds
	}
	txRatios, err := parseFloats(flagTxRatios)
	if err != nil {
		return nil, fmt.Errorf("bad --tx-ratios: %v", err)
	}
	if len(txRatios) > 0 {
		plan.TxRatios = txRatios
	}
	msRatios, err := parseFloats(flagMinsupRatios)
	if err != nil {
		return nil, fmt.Errorf("bad --minsup-ratios: %v", err)
	}
	if len(msRatios) > 0 {
		plan.MinsupRatios = msRatios
	}
	if bs := splitList(flagBaselines); len(bs) > 0 {
		plan.Baselines = bs
	}
	if err := parseOverrides(flagOverrideMinsup, plan.DefaultMinsup); err != nil {
		return nil, err
	}

	plan.TxSweepMinsupMode = flagMinsupMode
	plan.Resume = flagResume
	plan.ForcePreprocess = flagForcePreprocess
	plan.Jobs = flagJobs
	plan.KeepPatternFiles = flagKeepPatterns

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func pickJobs(jobs int, cfg *config.AllConfig) int {
	if jobs > 0 {
		return jobs
	}
	return cfg.Runner.Jobs
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, p := range splitList(s) {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseOverrides 解析 'ds=val,ds=val' 形式的覆盖项
func parseOverrides(s string, into map[string]float64) error {
	for _, kv := range splitList(s) {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad --override-default-minsup item: %s", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return fmt.Errorf("bad --override-default-minsup value: %s", kv)
		}
		into[strings.TrimSpace(parts[0])] = v
	}
	return nil
}

func joinFloats(vals []float64) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}
