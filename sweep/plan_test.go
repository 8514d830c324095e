package sweep

import (
	"testing"

	"fim-bench/bench_config"
)

func TestPlanValidate(t *testing.T) {
	p := DefaultPlan()
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}

	p.Baselines = []string{"NotAnAlgorithm"}
	if err := p.Validate(); err == nil {
		t.Fatal("unknown baseline should be rejected")
	}

	p.Baselines = nil
	if err := p.Validate(); err == nil {
		t.Fatal("empty baselines should be rejected")
	}
}

func TestPlanModeNormalization(t *testing.T) {
	p := DefaultPlan()
	p.TxSweepMinsupMode = " Count "
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.TxSweepMinsupMode != bench_config.MinsupModeCount {
		t.Fatalf("mode = %q, want %q", p.TxSweepMinsupMode, bench_config.MinsupModeCount)
	}

	p.TxSweepMinsupMode = "whatever"
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.TxSweepMinsupMode != bench_config.MinsupModePercent {
		t.Fatalf("bad mode should fall back to percent, got %q", p.TxSweepMinsupMode)
	}
}

func TestMinsupFor(t *testing.T) {
	p := DefaultPlan()
	p.DefaultMinsup = map[string]float64{"mushroom": 5}
	if got := p.MinsupFor("mushroom"); got != 5 {
		t.Fatalf("MinsupFor(mushroom) = %v, want 5", got)
	}
	if got := p.MinsupFor("unlisted"); got != 1.0 {
		t.Fatalf("MinsupFor(unlisted) = %v, want 1.0", got)
	}
}
