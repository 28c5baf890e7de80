// internal/platform/ui/presenter_test.go
package ui

import (
	"testing"
	"time"

	"applyswarm/internal/testutil"
)

func TestForMode(t *testing.T) {
	if _, ok := ForMode("quiet").(*NoopPresenter); !ok {
		t.Errorf("quiet mode should yield the noop presenter")
	}
	if _, ok := ForMode("compact").(*PTermPresenter); !ok {
		t.Errorf("compact mode should yield the pterm presenter")
	}
	if _, ok := ForMode("").(*PTermPresenter); !ok {
		t.Errorf("unknown mode falls back to the visual presenter")
	}
}

func TestNoopPresenter_FullLifecycle(t *testing.T) {
	var p Presenter = NewNoopPresenter()

	// El ciclo completo no debe producir pánico ni efectos.
	p.Start(RunInfo{RunID: "run-1", Targets: 10, BatchSize: 3})
	p.StartAttempt(1, 15, 10)
	p.StartTarget("Curtin Maritime")
	p.FinishTarget("Curtin Maritime", "COMPLETE", time.Second)
	p.FinishAttempt(1, true, nil)
	p.Info("info")
	p.Warning("warning")
	p.Error("error")
	p.Finish(RunStats{Accepted: true, Attempts: 1})

	testutil.AssertNoError(t, p.Close(), "close")
}
