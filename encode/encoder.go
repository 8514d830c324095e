package encode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/LinkinStars/golang-util/gu"

	"fim-bench/base/logger"
	"fim-bench/bench_config"
	"fim-bench/utils"
)

// Meta 编码元信息，供需要item规模的工具(CICLAD)免重扫使用
type Meta struct {
	Dataset       string `json:"dataset"`
	NTransactions int    `json:"n_transactions"`
	MaxItemID     int    `json:"max_item_id"`
	NbrItems      int    `json:"nbr_items_for_ciclad"`
	Format        string `json:"format"`
	IDAssignment  string `json:"id_assignment"`
	LabelIncluded bool   `json:"label_included"`
}

// Artifacts 一个数据集的全部预处理产物
type Artifacts struct {
	SpmfPath    string
	DatPath     string
	Item2IDPath string
	MetaPath    string
	NTx         int
	NbrItems    int
}

// BuildItem2ID 按确定性扫描序构建token->ID映射。
// 扫描序: 交易自上而下，交易内token自左向右；token首次出现时分配ID，从1开始，之后不再变。
func BuildItem2ID(transactions [][]string) map[string]int {
	item2id := make(map[string]int)
	nextID := 1
	for _, tx := range transactions {
		for _, tok := range tx {
			if _, ok := item2id[tok]; !ok {
				item2id[tok] = nextID
				nextID++
			}
		}
	}
	return item2id
}

// WriteTransactions 每条交易写成升序去重的整数ID行。
// 排序只为规范形式，编号本身由扫描序决定。token全部被过滤的交易写空行，保证行数等于交易数。
func WriteTransactions(transactions [][]string, outPath string, item2id map[string]int) error {
	if err := gu.CreateDirIfNotExist(filepath.Dir(outPath)); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, tx := range transactions {
		set := mapset.NewSet()
		for _, tok := range tx {
			set.Add(item2id[tok])
		}
		ids := set.ToSlice()
		sort.Slice(ids, func(i, j int) bool {
			return ids[i].(int) < ids[j].(int)
		})
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			parts = append(parts, strconv.Itoa(id.(int)))
		}
		if _, err := w.WriteString(strings.Join(parts, " ") + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ScanMaxID 扫描规范文件，返回非空行数和最大item ID
func ScanMaxID(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	n, maxID := 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n++
		for _, tok := range strings.Fields(line) {
			if v, err := strconv.Atoi(tok); err == nil && v > maxID {
				maxID = v
			}
		}
	}
	return n, maxID, scanner.Err()
}

// Preprocess 生成一个数据集的四个产物: .spmf/.dat规范文件、item2id.json、meta.json。
// 四个产物齐全且未强制时直接重扫恢复规模，不触发load。
func Preprocess(ds, resultsDir string, force bool, load func() ([][]string, error)) (*Artifacts, error) {
	arts := &Artifacts{
		SpmfPath:    filepath.Join(resultsDir, ds+bench_config.SuffixSpmf),
		DatPath:     filepath.Join(resultsDir, ds+bench_config.SuffixDat),
		Item2IDPath: filepath.Join(resultsDir, ds+bench_config.SuffixItem2ID),
		MetaPath:    filepath.Join(resultsDir, ds+bench_config.SuffixMeta),
	}
	if err := gu.CreateDirIfNotExist(resultsDir); err != nil {
		return nil, err
	}

	if !force && allExist(arts.SpmfPath, arts.DatPath, arts.Item2IDPath, arts.MetaPath) {
		n, maxID, err := ScanMaxID(arts.SpmfPath)
		if err != nil {
			return nil, err
		}
		arts.NTx = n
		arts.NbrItems = maxID + 1
		logger.Infof("dataset %s 预处理产物已存在, n_tx=%d, nbr_items=%d", ds, n, arts.NbrItems)
		return arts, nil
	}

	txs, err := load()
	if err != nil {
		return nil, err
	}

	item2id := BuildItem2ID(txs)
	if err := WriteTransactions(txs, arts.SpmfPath, item2id); err != nil {
		return nil, err
	}
	// CICLAD输入与SPMF完全一致，复制一份
	if err := utils.CopyFile(arts.SpmfPath, arts.DatPath); err != nil {
		return nil, err
	}

	maxID := 0
	for _, id := range item2id {
		if id > maxID {
			maxID = id
		}
	}

	if err := writeJSON(arts.Item2IDPath, item2id); err != nil {
		return nil, err
	}
	meta := Meta{
		Dataset:       ds,
		NTransactions: len(txs),
		MaxItemID:     maxID,
		NbrItems:      maxID + 1,
		Format:        "one transaction per line; space-separated positive ints; 1-based ids",
		IDAssignment:  "first-seen scan order over rows then columns (token=col=value)",
		LabelIncluded: true,
	}
	if err := writeJSON(arts.MetaPath, meta); err != nil {
		return nil, err
	}

	arts.NTx = len(txs)
	arts.NbrItems = maxID + 1
	logger.Infof("dataset %s 编码完成, n_tx=%d, vocab=%d", ds, arts.NTx, len(item2id))
	return arts, nil
}

func allExist(paths ...string) bool {
	for _, p := range paths {
		if ok, _ := utils.IsExists(p); !ok {
			return false
		}
	}
	return true
}

func writeJSON(path string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrEncoding, err)
	}
	return os.WriteFile(path, out, 0o644)
}
