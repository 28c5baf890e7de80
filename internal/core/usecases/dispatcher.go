// internal/core/usecases/dispatcher.go
package usecases

import (
	"context"
	"time"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/logx"
	"applyswarm/internal/platform/ui"
	"applyswarm/internal/platform/workerpool"
)

// Dispatcher ejecuta un batch: particiona los targets no terminales en
// dispatch units, las corre con concurrencia acotada y TTL duro por
// unidad, y persiste el run state mergeado en UNA escritura atómica al
// asentarse el batch completo. Es el único escritor del run state.
type Dispatcher struct {
	worker    ports.Worker
	store     ports.StateStore
	audit     ports.AuditLog
	presenter ui.Presenter
	logger    logx.Logger

	batchSize int
	ttl       time.Duration
}

// DispatcherOptions configura el dispatcher.
type DispatcherOptions struct {
	Worker    ports.Worker
	Store     ports.StateStore
	Audit     ports.AuditLog
	Presenter ui.Presenter
	Logger    logx.Logger
	BatchSize int
	TTL       time.Duration
}

// NewDispatcher crea un dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 3
	}
	if opts.Presenter == nil {
		opts.Presenter = ui.NewNoopPresenter()
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	return &Dispatcher{
		worker:    opts.Worker,
		store:     opts.Store,
		audit:     opts.Audit,
		presenter: opts.Presenter,
		logger:    opts.Logger.With("component", "dispatcher"),
		batchSize: opts.BatchSize,
		ttl:       opts.TTL,
	}
}

// RunBatch ejecuta el intento attempt sobre rs y retorna el número de
// unidades despachadas. Los fallos de target quedan contenidos aquí:
// se degradan a FAILED/BLOCKED y nunca abortan el batch.
func (d *Dispatcher) RunBatch(ctx context.Context, rs *domain.RunState, attempt int, hints domain.HintSet) (int, error) {
	units := rs.Dispatchable()

	d.logger.Info("batch starting",
		"attempt", attempt,
		"units", len(units),
		"batch_size", d.batchSize,
		"ttl", d.ttl.String(),
	)

	rs.Attempt = attempt

	if len(units) == 0 {
		// Todo terminal: persistimos los metadatos del intento y el
		// verifier decide.
		return 0, d.store.Save(ctx, rs)
	}

	tasks := make([]workerpool.Task, 0, len(units))
	for _, t := range units {
		t.Status = domain.StatusInProgress
		hint, _ := hints.For(t.Company)
		tasks = append(tasks, newDispatchTask(d.worker, d.presenter, ports.WorkRequest{
			Target:    *t,
			Attempt:   attempt,
			BatchSize: d.batchSize,
			SelfHeal:  attempt > 1,
			Hint:      hint,
		}))
	}

	pool := workerpool.New(workerpool.Config{
		Workers: d.batchSize,
		TaskTTL: d.ttl,
		Logger:  d.logger,
	})
	pool.Start()
	results := pool.Submit(tasks)
	pool.Stop()

	for _, res := range results {
		task, ok := res.Task.(*dispatchTask)
		if !ok {
			continue
		}
		resolved := d.resolve(task, res)

		if err := rs.Merge(resolved); err != nil {
			d.logger.Warn("result merge rejected",
				"company", resolved.Company,
				"error", err.Error(),
			)
			continue
		}

		d.presenter.FinishTarget(resolved.Company, resolved.Status.String(), res.Duration)

		if d.audit != nil {
			rec := ports.AuditRecord{
				RunID:    rs.RunID,
				Attempt:  attempt,
				Company:  resolved.Company,
				Status:   resolved.Status,
				Error:    resolved.LastError,
				Duration: res.Duration,
				At:       time.Now().UTC(),
			}
			if err := d.audit.Append(rec); err != nil {
				d.logger.Warn("audit append failed", "error", err.Error())
			}
		}
	}

	// Escritura atómica a nivel de batch, nunca por target.
	if err := d.store.Save(ctx, rs); err != nil {
		return len(units), err
	}

	d.logger.Info("batch settled",
		"attempt", attempt,
		"complete", rs.Summary.Complete,
		"blocked", rs.Summary.Blocked,
		"incomplete", rs.Summary.Incomplete,
	)
	return len(units), nil
}

// resolve reduce un TaskResult a un target resuelto. La expiración del
// TTL es una cancelación dura: el worker ya liberó su proceso cuando el
// resultado llega aquí.
func (d *Dispatcher) resolve(task *dispatchTask, res workerpool.TaskResult) *domain.Target {
	resolved, err := task.Result()

	switch {
	case res.TimedOut:
		t := task.req.Target
		t.Status = domain.StatusFailed
		t.AttemptCount = task.req.Attempt
		t.LastError = domain.ErrWorkerTimeout.Error()
		return &t

	case err != nil || resolved == nil:
		t := task.req.Target
		t.Status = domain.StatusFailed
		t.AttemptCount = task.req.Attempt
		if err != nil {
			t.LastError = err.Error()
		} else {
			t.LastError = domain.ErrWorkerFailed.Error()
		}
		return &t

	default:
		return resolved
	}
}
