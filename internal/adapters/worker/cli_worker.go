// internal/adapters/worker/cli_worker.go

// Package worker adapts the external browser-automation binary to the
// core Worker port. The binary is a black box: it navigates, fills and
// submits one application, then prints a single JSON result object on
// stdout. Form-filling, asset blocking and ATS navigation live entirely
// on the other side of this boundary.
package worker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/logx"
)

// CLIWorker implements ports.Worker by spawning a subprocess per
// dispatch unit. Context cancellation (TTL expiry) kills the process
// via exec.CommandContext, so a cancelled unit releases its process
// before the pool slot is reused.
type CLIWorker struct {
	logger      logx.Logger
	execPath    string
	baseArgs    []string
	profilePath string
	resumePath  string
	proofDir    string
}

// Options configures the CLI worker adapter.
type Options struct {
	Command     string   // binary name or path, resolved via LookPath
	Args        []string // fixed arguments prepended to per-unit ones
	ProfilePath string
	ResumePath  string
	ProofDir    string
}

// NewCLIWorker resolves the worker binary and builds the adapter.
func NewCLIWorker(logger logx.Logger, opts Options) (*CLIWorker, error) {
	path, err := exec.LookPath(opts.Command)
	if err != nil {
		return nil, fmt.Errorf("resolve worker binary %q: %w", opts.Command, err)
	}

	return &CLIWorker{
		logger:      logger.With("worker", "cli"),
		execPath:    path,
		baseArgs:    opts.Args,
		profilePath: opts.ProfilePath,
		resumePath:  opts.ResumePath,
		proofDir:    opts.ProofDir,
	}, nil
}

// Name returns the adapter name.
func (w *CLIWorker) Name() string {
	return "cli"
}

// workerResult is the stdout contract of the automation binary.
type workerResult struct {
	Status        string   `json:"status"`
	Detail        string   `json:"detail,omitempty"`
	TextHits      []string `json:"text_hits"`
	URLMatch      bool     `json:"url_match"`
	Screenshot    string   `json:"screenshot"`
	FinalURL      string   `json:"final_url,omitempty"`
	FilledCount   int      `json:"filled_count,omitempty"`
	EEOActions    int      `json:"eeo_actions,omitempty"`
	ResumeUploads int      `json:"resume_uploads,omitempty"`
}

// Run executes one attempt for one target. The returned target carries
// the resolved status and proof; a non-nil error means the unit failed
// before producing a usable result.
func (w *CLIWorker) Run(ctx context.Context, req ports.WorkRequest) (*domain.Target, error) {
	args := w.buildArgs(req)

	w.logger.Info("invoking worker",
		"company", req.Target.Company,
		"attempt", req.Attempt,
		"self_heal", req.SelfHeal,
	)

	cmd := exec.CommandContext(ctx, w.execPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker process: %w", err)
	}

	w.logger.Debug("worker process started",
		"pid", cmd.Process.Pid,
		"company", req.Target.Company,
	)

	// Drain stderr in the background so the subprocess never blocks on a
	// full pipe; keep it for diagnostics.
	var stderrBuf bytes.Buffer
	var stderrWg sync.WaitGroup
	stderrWg.Add(1)
	go func() {
		defer stderrWg.Done()
		_, _ = io.Copy(&stderrBuf, stderr)
	}()

	// The result is the last well-formed JSON object line on stdout;
	// anything else is worker chatter and is logged at debug.
	var lastResult *workerResult
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			if len(line) > 0 {
				w.logger.Debug("worker output", "line", string(line))
			}
			continue
		}
		var res workerResult
		if err := json.Unmarshal(line, &res); err != nil {
			w.logger.Debug("unparseable worker line", "error", err.Error())
			continue
		}
		lastResult = &res
	}
	if err := scanner.Err(); err != nil {
		w.logger.Warn("scanner error", "error", err.Error())
	}

	waitErr := cmd.Wait()
	stderrWg.Wait()

	if ctx.Err() != nil {
		// Hard cancellation: the process has been killed and reaped.
		return nil, ctx.Err()
	}

	if lastResult == nil {
		if waitErr != nil {
			return nil, fmt.Errorf("%w: %v: %s",
				domain.ErrWorkerFailed, waitErr, firstLine(stderrBuf.String()))
		}
		return nil, fmt.Errorf("%w: no result on stdout", domain.ErrWorkerFailed)
	}

	return w.toTarget(req, lastResult), nil
}

// Close releases adapter resources. The per-unit subprocesses are owned
// by their contexts, so there is nothing long-lived to tear down.
func (w *CLIWorker) Close() error {
	return nil
}

// buildArgs assembles the per-unit invocation.
func (w *CLIWorker) buildArgs(req ports.WorkRequest) []string {
	args := append([]string{}, w.baseArgs...)
	args = append(args,
		"--company", req.Target.Company,
		"--url", req.Target.URL,
		"--slug", req.Target.Slug(),
		"--attempt", strconv.Itoa(req.Attempt),
		"--batch-size", strconv.Itoa(req.BatchSize),
		"--proof-dir", w.proofDir,
	)
	if w.profilePath != "" {
		args = append(args, "--profile", w.profilePath)
	}
	if w.resumePath != "" {
		args = append(args, "--resume", w.resumePath)
	}
	if req.SelfHeal {
		args = append(args, "--self-heal")
	}
	if req.Hint.Action != "" && req.Hint.Action != domain.HintNone {
		hint, err := json.Marshal(req.Hint)
		if err == nil {
			args = append(args, "--hints-json", string(hint))
		}
	}
	return args
}

// toTarget maps the worker's result onto the dispatched target.
func (w *CLIWorker) toTarget(req ports.WorkRequest, res *workerResult) *domain.Target {
	t := req.Target
	t.AttemptCount = req.Attempt
	t.Proof = domain.Proof{
		TextHits:      normalizeHits(res.TextHits),
		URLMatch:      res.URLMatch,
		Screenshot:    res.Screenshot,
		FinalURL:      res.FinalURL,
		FilledCount:   res.FilledCount,
		EEOActions:    res.EEOActions,
		ResumeUploads: res.ResumeUploads,
	}

	status := domain.Status(res.Status)
	if !status.IsValid() || status == domain.StatusPending || status == domain.StatusInProgress {
		status = domain.StatusFailed
	}
	t.Status = status

	switch status {
	case domain.StatusComplete:
		t.LastError = ""
	default:
		t.LastError = res.Detail
	}
	return &t
}

func normalizeHits(hits []string) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if n := domain.NormalizeHit(h); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := bytes.IndexByte([]byte(s), '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
