package bench_config

// 支持的基线算法名称
const (
	AlgFPGrowth = "FPGrowth_itemsets"
	AlgEclat    = "Eclat"
	AlgCiclad   = "CICLAD"
	AlgHamm     = "Hamm"
)

// tx-ratio扫描时minsup的解析模式
const (
	// MinsupModePercent 固定minsup比例，阈值计数随子采样规模变化
	MinsupModePercent = "percent"
	// MinsupModeCount 固定minsup计数，由全量数据规模算出，所有ratio点共用
	MinsupModeCount = "count"
)

const GinPort = "19321"

// ChanSize 任务完成队列的缓冲大小
const ChanSize = 8

// FifoJoinTimeoutSec 流式消费者在工具退出后允许的清空时间(秒)
const FifoJoinTimeoutSec = 120

// HammTimeoutSec Hamm工具的最长执行时间(秒)，该工具偶发卡死
const HammTimeoutSec = 600

// DefaultRandomSeed 子采样的全局随机种子
const DefaultRandomSeed = 42

// 预处理产物的文件名后缀
const (
	SuffixSpmf    = "_transactions.spmf"
	SuffixDat     = "_transactions.dat"
	SuffixItem2ID = "_item2id.json"
	SuffixMeta    = "_meta.json"
)

// DatasetsAll 全部内置数据集
var DatasetsAll = []string{"mushroom", "connect4", "kr-vs-kp", "tic-tac-toe", "car"}

// AlgorithmsAll 全部可选基线
var AlgorithmsAll = []string{AlgFPGrowth, AlgEclat, AlgCiclad, AlgHamm}

// DefaultBaselines 默认运行的基线
var DefaultBaselines = []string{AlgFPGrowth, AlgEclat, AlgCiclad}

// DefaultTxRatios 默认的交易比例扫描点(%)
var DefaultTxRatios = []float64{10, 20, 30, 50, 70, 100}

// DefaultMinsupSweep 默认的minsup扫描点(%)
var DefaultMinsupSweep = []float64{0.5, 1, 2, 5, 10}

// DefaultMinsup tx-ratio扫描时各数据集的固定minsup(%)
var DefaultMinsup = map[string]float64{
	"mushroom":    1.0,
	"connect4":    1.0,
	"kr-vs-kp":    1.0,
	"tic-tac-toe": 2.0,
	"car":         5.0,
}
