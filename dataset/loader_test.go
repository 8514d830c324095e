package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"fim-bench/utils"
)

func TestLoadCarHeaderless(t *testing.T) {
	dir := t.TempDir()
	raw := "vhigh,vhigh,2,2,small,low,unacc\nhigh,med,3,4,big,high,acc\n"
	if err := os.WriteFile(filepath.Join(dir, "car.data"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	txs, err := Load("car", dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("len(txs) = %d, want 2", len(txs))
	}
	want := []string{"0=vhigh", "1=vhigh", "2=2", "3=2", "4=small", "5=low", "6=unacc"}
	if !reflect.DeepEqual(txs[0], want) {
		t.Fatalf("txs[0] = %v, want %v", txs[0], want)
	}
}

func TestLoadMushroomWithHeader(t *testing.T) {
	dir := t.TempDir()
	raw := "class,cap-shape,odor\np,x,?\ne,b,n\n"
	if err := os.WriteFile(filepath.Join(dir, "mushroom.csv"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	txs, err := Load("mushroom", dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("len(txs) = %d, want 2", len(txs))
	}
	// '?'是合法类别取值，不丢弃；标签列保留
	want := []string{"class=p", "cap-shape=x", "odor=?"}
	if !reflect.DeepEqual(txs[0], want) {
		t.Fatalf("txs[0] = %v, want %v", txs[0], want)
	}
}

func TestOneHotRowDropsMissing(t *testing.T) {
	headers := []string{"a", "b", "c", "d"}
	got := oneHotRow(headers, []string{"x", "", "nan", "None"})
	want := []string{"a=x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load("no-such-dataset", dir); !errors.Is(err, utils.ErrDatasetNotFound) {
		t.Fatalf("err = %v, want ErrDatasetNotFound", err)
	}
	if _, err := Load("car", dir); !errors.Is(err, utils.ErrDatasetNotFound) {
		t.Fatalf("err = %v, want ErrDatasetNotFound", err)
	}
}
