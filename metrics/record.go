package metrics

// MetricRecord 一次(算法,扫描点)完成后的指标记录，持久化后不再修改。
// json字段名与历史metrics_<ds>.json保持一致，旧结果文件可以继续用于断点续跑。
type MetricRecord struct {
	Algorithm               string   `json:"algorithm"`
	TransactionRatioPercent float64  `json:"transaction_ratio_percent"`
	NTransactionsSub        *int     `json:"n_transactions_sub,omitempty"`
	MinsupPercent           float64  `json:"minsup_percent"`
	TxSweepMinsupMode       string   `json:"tx_sweep_minsup_mode,omitempty"`
	EffectiveMinsupPercent  *float64 `json:"effective_minsup_percent,omitempty"`
	MinsupCountThreshold    *int     `json:"minsup_count_threshold,omitempty"`
	FixedMinsupCount        *int     `json:"fixed_minsup_count,omitempty"`
	BaseNTxForFixedMinsup   *int     `json:"base_n_tx_for_fixed_minsup,omitempty"`
	// MinsupCount 旧版CICLAD记录的阈值字段，新记录里由MinsupCountThreshold取代
	MinsupCount         *int    `json:"minsup_count,omitempty"`
	RuntimeSec          float64 `json:"runtime_sec"`
	PatternCount        int     `json:"pattern_count"`
	DepthProxy          int     `json:"depth_proxy"`
	CicladLogPath       string  `json:"ciclad_log_path,omitempty"`
	Cmd                 string  `json:"cmd"`
	PatternFilesDeleted bool    `json:"pattern_files_deleted"`
}

func IntPtr(v int) *int {
	return &v
}

func FloatPtr(v float64) *float64 {
	return &v
}
