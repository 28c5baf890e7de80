// internal/adapters/worker/cli_worker_test.go
package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/logx"
	"applyswarm/internal/testutil"
)

// writeScript deja un binario de worker falso en disco.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-worker")
	script := "#!/bin/sh\n" + body + "\n"
	testutil.AssertNoError(t, os.WriteFile(path, []byte(script), 0o755), "write fake worker")
	return path
}

func newTestWorker(t *testing.T, scriptBody string) *CLIWorker {
	t.Helper()
	w, err := NewCLIWorker(logx.NewSilent(), Options{
		Command:  writeScript(t, scriptBody),
		ProofDir: "proof",
	})
	testutil.AssertNoError(t, err, "build worker")
	return w
}

func request(company string) ports.WorkRequest {
	return ports.WorkRequest{
		Target:    *domain.NewTarget(company, "https://careers.example.com/apply"),
		Attempt:   1,
		BatchSize: 3,
	}
}

func TestNewCLIWorker_UnresolvableBinary(t *testing.T) {
	_, err := NewCLIWorker(logx.NewSilent(), Options{Command: "no-such-worker-binary"})
	testutil.AssertError(t, err, "unresolvable binary fails at construction")
}

func TestCLIWorker_Run_CompleteResult(t *testing.T) {
	w := newTestWorker(t, `
echo "navigating..."
echo "clicked apply button"
echo '`+testutil.FixtureWorkerJSON+`'`)

	target, err := w.Run(context.Background(), request("Maersk"))

	testutil.AssertNoError(t, err, "run succeeds")
	testutil.AssertEqual(t, target.Status, domain.StatusComplete, "status from worker")
	testutil.AssertEqual(t, target.LastError, "", "no diagnostic on success")
	testutil.AssertEqual(t, target.AttemptCount, 1, "attempt stamped")
	testutil.AssertTrue(t, target.Proof.URLMatch, "url match forwarded")
	testutil.AssertEqual(t, target.Proof.Screenshot, "maersk_success.png", "screenshot forwarded")
	testutil.AssertEqual(t, target.Proof.FilledCount, 12, "diagnostics forwarded")

	// Los text hits llegan normalizados (lower + trim).
	testutil.AssertLen(t, target.Proof.TextHits, 1, "one hit")
	testutil.AssertEqual(t, target.Proof.TextHits[0], "thank you", "hit normalized")
}

func TestCLIWorker_Run_LastJSONLineWins(t *testing.T) {
	w := newTestWorker(t, `
echo '{"status":"FAILED","detail":"first pass","text_hits":[],"url_match":false,"screenshot":""}'
echo '{"status":"COMPLETE","detail":"","text_hits":["confirmation"],"url_match":false,"screenshot":""}'`)

	target, err := w.Run(context.Background(), request("MSC"))

	testutil.AssertNoError(t, err, "run succeeds")
	testutil.AssertEqual(t, target.Status, domain.StatusComplete, "last result object wins")
}

func TestCLIWorker_Run_FailedResult(t *testing.T) {
	w := newTestWorker(t, `
echo '{"status":"FAILED","detail":"submit selector not found","text_hits":[],"url_match":false,"screenshot":""}'`)

	target, err := w.Run(context.Background(), request("ZIM"))

	testutil.AssertNoError(t, err, "a failed target is still a usable result")
	testutil.AssertEqual(t, target.Status, domain.StatusFailed, "status")
	testutil.AssertEqual(t, target.LastError, "submit selector not found", "diagnostic preserved")
}

func TestCLIWorker_Run_InvalidStatusDegradesToFailed(t *testing.T) {
	w := newTestWorker(t, `
echo '{"status":"IN_PROGRESS","detail":"stuck","text_hits":[],"url_match":false,"screenshot":""}'`)

	target, err := w.Run(context.Background(), request("HMM"))

	testutil.AssertNoError(t, err, "result still usable")
	testutil.AssertEqual(t, target.Status, domain.StatusFailed, "non-settled status degrades to FAILED")
	testutil.AssertEqual(t, target.LastError, "stuck", "detail preserved")
}

func TestCLIWorker_Run_NoResultOnStdout(t *testing.T) {
	w := newTestWorker(t, `
echo "worker chatter only" >&2
exit 3`)

	_, err := w.Run(context.Background(), request("ONE"))

	testutil.AssertErrorIs(t, err, domain.ErrWorkerFailed, "no result is a worker failure")
	testutil.AssertContains(t, err.Error(), "exit status 3", "exit code surfaced")
}

func TestCLIWorker_Run_ContextCancellationKillsProcess(t *testing.T) {
	w := newTestWorker(t, `exec sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := w.Run(ctx, request("Evergreen"))
	elapsed := time.Since(start)

	testutil.AssertErrorIs(t, err, context.DeadlineExceeded, "hard cancel surfaces the context error")
	testutil.AssertTrue(t, elapsed < 5*time.Second, "process killed, not awaited")
}

func TestCLIWorker_BuildArgs(t *testing.T) {
	w := &CLIWorker{
		baseArgs:    []string{"--headless"},
		profilePath: "profile.json",
		resumePath:  "resume.pdf",
		proofDir:    "proof",
	}

	req := ports.WorkRequest{
		Target:    *domain.NewTarget("Great Lakes Dredge & Dock", "https://gldd.com/careers/"),
		Attempt:   4,
		BatchSize: 3,
		SelfHeal:  true,
		Hint: domain.HotfixHint{
			Action: domain.HintAlternateSelectors,
			Kind:   domain.FailureSelectorMissing,
		},
	}

	args := strings.Join(w.buildArgs(req), " ")

	testutil.AssertContains(t, args, "--headless", "base args first")
	testutil.AssertContains(t, args, "--company Great Lakes Dredge & Dock", "company")
	testutil.AssertContains(t, args, "--slug great-lakes-dredge-dock", "slug")
	testutil.AssertContains(t, args, "--attempt 4", "attempt")
	testutil.AssertContains(t, args, "--batch-size 3", "batch width")
	testutil.AssertContains(t, args, "--proof-dir proof", "proof dir")
	testutil.AssertContains(t, args, "--profile profile.json", "profile")
	testutil.AssertContains(t, args, "--resume resume.pdf", "resume")
	testutil.AssertContains(t, args, "--self-heal", "self-heal flag on retry passes")
	testutil.AssertContains(t, args, "--hints-json", "structured hint forwarded")
	testutil.AssertContains(t, args, `"action":"alternate_selectors"`, "hint payload")
}

func TestCLIWorker_BuildArgs_NoHintNoSelfHeal(t *testing.T) {
	w := &CLIWorker{proofDir: "proof"}

	args := strings.Join(w.buildArgs(request("COSCO Shipping")), " ")

	testutil.AssertFalse(t, strings.Contains(args, "--self-heal"), "first attempt is not self-heal")
	testutil.AssertFalse(t, strings.Contains(args, "--hints-json"), "no hint, no flag")
	testutil.AssertFalse(t, strings.Contains(args, "--profile"), "no profile configured")
}
