package metrics

import (
	"errors"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTransitionCountsByOutcome(t *testing.T) {
	m := New(prom.NewRegistry())

	m.Transition("lock", nil)
	m.Transition("lock", nil)
	m.Transition("lock", errors.New("boom"))

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("lock", "ok")); got != 2 {
		t.Errorf("ok transitions: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("lock", "error")); got != 1 {
		t.Errorf("error transitions: got %v, want 1", got)
	}
}

func TestLotteryCounts(t *testing.T) {
	reg := prom.NewRegistry()
	m := New(reg)

	m.Lottery(12, nil)
	m.Lottery(0, errors.New("already assigned"))

	if got := testutil.ToFloat64(m.lotteryRuns.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.lotteryRuns.WithLabelValues("error")); got != 1 {
		t.Errorf("failed runs: got %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.lotteryEntrants); n != 1 {
		t.Errorf("entrant histograms: got %d, want 1", n)
	}
}
