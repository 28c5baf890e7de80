// cmd/applyswarm/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"applyswarm/internal/adapters/audit"
	"applyswarm/internal/adapters/publish"
	"applyswarm/internal/adapters/store"
	"applyswarm/internal/adapters/worker"
	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/core/usecases"
	"applyswarm/internal/platform/config"
	"applyswarm/internal/platform/errors"
	"applyswarm/internal/platform/logx"
	"applyswarm/internal/platform/ui"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Load centralized config (defaults <- yaml <- flags <- env)
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return 2
	}

	if cfg.PrintVersion {
		fmt.Printf("applyswarm %s (%s, %s)\n", version, commit, date)
		return 0
	}

	// 2. Shared logger, mirrored into the run's log directory
	logger := buildLogger(cfg.LogDir)

	logger.Info("applyswarm starting",
		"version", version,
		"targets", len(cfg.Targets),
		"batch_size", cfg.BatchSize,
		"ttl_s", cfg.TTLSeconds,
		"max_attempts", cfg.MaxAttempts,
		"backup_dir", cfg.BackupDir,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. State: load the persisted run or seed a fresh one
	stateStore := store.NewJSONStore(cfg.StatePath, logger)
	rs, err := loadOrSeed(ctx, stateStore, cfg, logger)
	if err != nil {
		logger.Err(err, "phase", "state-load")
		return 1
	}

	// 5. Worker adapter (the browser automation black box)
	cliWorker, err := worker.NewCLIWorker(logger, worker.Options{
		Command:     cfg.Worker.Command,
		Args:        cfg.Worker.Args,
		ProfilePath: cfg.Worker.ProfilePath,
		ResumePath:  cfg.Worker.ResumePath,
		ProofDir:    cfg.ProofDir,
	})
	if err != nil {
		logger.Err(err, "phase", "worker-build")
		return 2
	}
	defer func() {
		if err := cliWorker.Close(); err != nil {
			logger.Warn("failed to close worker", "error", err.Error())
		}
	}()

	// 6. Presenter, audit trail, publish gate
	presenter := ui.ForMode(cfg.UIMode)
	defer presenter.Close()

	auditLog := audit.NewFileLog(cfg.LogDir, logger)

	var publisher ports.Publisher
	if cfg.Publish.Enabled {
		publisher = publish.NewGitPublisher(logger, publish.Options{
			RepoDir: cfg.Publish.RepoDir,
			Branch:  cfg.Publish.Branch,
			Remote:  cfg.Publish.Remote,
			NoPush:  cfg.Publish.NoPush,
		})
	}

	// 7. Orchestration core
	dispatcher := usecases.NewDispatcher(usecases.DispatcherOptions{
		Worker:    cliWorker,
		Store:     stateStore,
		Audit:     auditLog,
		Presenter: presenter,
		Logger:    logger,
		BatchSize: cfg.BatchSize,
		TTL:       cfg.TTL(),
	})

	healer := usecases.NewHealer(usecases.HealerOptions{
		Dispatcher:  dispatcher,
		Verifier:    usecases.NewVerifier(),
		Classifier:  usecases.NewClassifier(logger),
		Store:       stateStore,
		Audit:       auditLog,
		Publisher:   publisher,
		Presenter:   presenter,
		Logger:      logger,
		MaxAttempts: cfg.MaxAttempts,
		RunKind:     cfg.Publish.RunKind,
	})

	presenter.Start(ui.RunInfo{
		RunID:       rs.RunID,
		Targets:     len(rs.Results),
		BatchSize:   cfg.BatchSize,
		TTLSeconds:  cfg.TTLSeconds,
		MaxAttempts: cfg.MaxAttempts,
		WorkerName:  cliWorker.Name(),
		UIMode:      ui.UIMode(cfg.UIMode),
	})

	// 8. Drive the run to a terminal state
	started := time.Now()
	outcome, runErr := healer.Run(ctx, rs)

	if outcome.State != nil {
		rs = outcome.State
	}
	presenter.Finish(ui.RunStats{
		Accepted:   outcome.Phase == usecases.PhaseAccepted,
		Attempts:   outcome.Attempts,
		Complete:   rs.Summary.Complete,
		Blocked:    rs.Summary.Blocked,
		Incomplete: rs.Summary.Incomplete,

		TotalDuration: time.Since(started),
	})

	return finish(outcome, runErr, cfg.MaxAttempts, logger)
}

// finish maps the terminal outcome to the sentinel contract: COMPLETE
// with exit 0 on acceptance, FAILED_AFTER_<n>_RETRIES with exit 1 on
// exhaustion, exit 1 on any other run-fatal condition.
func finish(outcome usecases.Outcome, runErr error, maxAttempts int, logger logx.Logger) int {
	switch {
	case outcome.Phase == usecases.PhaseAccepted && runErr == nil:
		fmt.Println("COMPLETE")
		return 0

	case outcome.Phase == usecases.PhaseAccepted:
		// Accepted but the publish gate failed: trunk did not move on
		// green. Loud, distinct, non-silent.
		logger.Err(runErr, "phase", "publish")
		if errors.Is(runErr, errors.ErrPublish) || errors.Is(runErr, domain.ErrPushFailed) {
			fmt.Fprintln(os.Stderr, "PUBLISH_FAILED: accepted run could not move trunk")
		}
		fmt.Println("COMPLETE")
		return 1

	case errors.Is(runErr, errors.ErrExhausted):
		fmt.Printf("FAILED_AFTER_%d_RETRIES\n", maxAttempts)
		return 1

	default:
		logger.Err(runErr, "phase", "run")
		return 1
	}
}

// loadOrSeed loads the persisted state or seeds a fresh PENDING run.
// A malformed document at boot is replaced by a fresh seed: the run
// self-heals instead of demanding operator intervention.
func loadOrSeed(ctx context.Context, s *store.JSONStore, cfg config.Config, logger logx.Logger) (*domain.RunState, error) {
	rs, err := s.Load(ctx)
	switch {
	case err == nil:
		logger.Info("run state loaded",
			"attempt", rs.Attempt,
			"complete", rs.Summary.Complete,
			"blocked", rs.Summary.Blocked,
		)
		rs.BatchSize = cfg.BatchSize
		rs.TTLSeconds = cfg.TTLSeconds
		rs.MaxAttempts = cfg.MaxAttempts
		return rs, nil

	case errors.Is(err, domain.ErrStateNotFound):
		logger.Info("no run state found, seeding fresh run")

	case errors.Is(err, domain.ErrStateMalformed):
		logger.Warn("run state malformed, reseeding", "error", err.Error())

	default:
		return nil, err
	}

	rs = domain.NewRunState(uuid.NewString(), cfg.SeedTargets())
	rs.BatchSize = cfg.BatchSize
	rs.TTLSeconds = cfg.TTLSeconds
	rs.MaxAttempts = cfg.MaxAttempts
	if err := s.Save(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// buildLogger mirrors stderr logging into <logdir>/run.log so the
// diagnostic trail survives unattended runs.
func buildLogger(logDir string) logx.Logger {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return logx.New()
	}
	f, err := os.OpenFile(filepath.Join(logDir, "run.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return logx.New()
	}
	return logx.NewWithWriter(f, logx.LevelInfo)
}
