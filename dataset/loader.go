package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fim-bench/utils"
)

// Loader 把一个数据集的原始文件读成交易列表，每条交易是一组token
type Loader func(dataDir string) ([][]string, error)

// Loaders 内置数据集注册表
var Loaders = map[string]Loader{
	"mushroom":    loadMushroom,
	"connect4":    loadConnect4,
	"tic-tac-toe": loadTicTacToe,
	"car":         loadCar,
	"kr-vs-kp":    loadKrVsKp,
}

// Load 读取一个数据集，原始文件缺失返回ErrDatasetNotFound
func Load(name, dataDir string) ([][]string, error) {
	loader, ok := Loaders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown dataset %s", utils.ErrDatasetNotFound, name)
	}
	return loader(dataDir)
}

// oneHotRow 把一行记录转成 "列名=值" 的token列表。
// '?' 是合法的类别取值不丢弃；空串/nan/None丢弃。
func oneHotRow(headers []string, record []string) []string {
	items := make([]string, 0, len(record))
	for i, val := range record {
		if i >= len(headers) {
			break
		}
		v := strings.TrimSpace(val)
		if v == "" || v == "nan" || v == "None" {
			continue
		}
		items = append(items, headers[i]+"="+v)
	}
	return items
}

// readCSV 读取整个csv，容忍行宽不一致
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrDatasetNotFound, path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// tokenizeRows 对无表头数据按列下标命名列
func tokenizeRows(records [][]string, headers []string) [][]string {
	txs := make([][]string, 0, len(records))
	for _, rec := range records {
		hs := headers
		if hs == nil {
			hs = indexHeaders(len(rec))
		}
		txs = append(txs, oneHotRow(hs, rec))
	}
	return txs
}

func indexHeaders(n int) []string {
	hs := make([]string, n)
	for i := 0; i < n; i++ {
		hs[i] = strconv.Itoa(i)
	}
	return hs
}

// firstExisting 返回首个存在的候选路径
func firstExisting(paths ...string) string {
	for _, p := range paths {
		if ok, _ := utils.IsExists(p); ok {
			return p
		}
	}
	return ""
}

// loadMushroom 优先带表头的mushroom.csv，退回UCI的agaricus-lepiota.data(无表头)。
// 标签列一并保留。
func loadMushroom(dataDir string) ([][]string, error) {
	pCsv := filepath.Join(dataDir, "mushroom.csv")
	if ok, _ := utils.IsExists(pCsv); ok {
		records, err := readCSV(pCsv)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: empty file %s", utils.ErrEncoding, pCsv)
		}
		return tokenizeRows(records[1:], records[0]), nil
	}
	return loadHeaderless(filepath.Join(dataDir, "agaricus-lepiota.data"))
}

func loadConnect4(dataDir string) ([][]string, error) {
	return loadHeaderless(filepath.Join(dataDir, "connect-4.data"))
}

func loadTicTacToe(dataDir string) ([][]string, error) {
	return loadHeaderless(filepath.Join(dataDir, "tic-tac-toe.data"))
}

func loadKrVsKp(dataDir string) ([][]string, error) {
	return loadHeaderless(filepath.Join(dataDir, "kr-vs-kp.data"))
}

func loadCar(dataDir string) ([][]string, error) {
	p := firstExisting(
		filepath.Join(dataDir, "car.data"),
		filepath.Join(dataDir, "car.data.csv"),
		filepath.Join(dataDir, "car-evaluation.data"),
		filepath.Join(dataDir, "car_evaluation.data"),
	)
	if p == "" {
		return nil, fmt.Errorf("%w: car dataset not found under %s", utils.ErrDatasetNotFound, dataDir)
	}
	return loadHeaderless(p)
}

func loadHeaderless(path string) ([][]string, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return tokenizeRows(records, nil), nil
}
