package main

import (
	"reflect"
	"testing"

	"fim-bench/bench_config"
)

func TestBenchRequestToPlanDefaults(t *testing.T) {
	req := &BenchRequest{}
	plan, err := req.ToPlan()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(plan.Datasets, bench_config.DatasetsAll) {
		t.Fatalf("Datasets = %v, want defaults", plan.Datasets)
	}
	if !reflect.DeepEqual(plan.Baselines, bench_config.DefaultBaselines) {
		t.Fatalf("Baselines = %v, want defaults", plan.Baselines)
	}
	if plan.TxSweepMinsupMode != bench_config.MinsupModePercent {
		t.Fatalf("mode = %q, want percent", plan.TxSweepMinsupMode)
	}
}

func TestBenchRequestToPlanOverrides(t *testing.T) {
	req := &BenchRequest{
		Datasets:              []string{"car"},
		TxRatios:              []float64{10, 100},
		Baselines:             []string{bench_config.AlgEclat},
		TxSweepMinsupMode:     "count",
		OverrideDefaultMinsup: map[string]float64{"car": 7.5},
		Resume:                true,
		Jobs:                  3,
	}
	plan, err := req.ToPlan()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(plan.Datasets, []string{"car"}) {
		t.Fatalf("Datasets = %v", plan.Datasets)
	}
	if plan.TxSweepMinsupMode != bench_config.MinsupModeCount {
		t.Fatalf("mode = %q, want count", plan.TxSweepMinsupMode)
	}
	if plan.MinsupFor("car") != 7.5 {
		t.Fatalf("MinsupFor(car) = %v, want 7.5", plan.MinsupFor("car"))
	}
	if !plan.Resume || plan.Jobs != 3 {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestBenchRequestToPlanRejectsBadBaseline(t *testing.T) {
	req := &BenchRequest{Baselines: []string{"Apriori"}}
	if _, err := req.ToPlan(); err == nil {
		t.Fatal("unknown baseline should be rejected")
	}
}
