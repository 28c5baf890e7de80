// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"applyswarm/internal/platform/logx"
)

// Task representa una unidad de dispatch a ejecutar en el worker pool.
type Task interface {
	// Execute ejecuta la tarea. Debe retornar en cuanto ctx se cancele.
	Execute(ctx context.Context) error

	// Name retorna el nombre de la tarea
	Name() string

	// Host retorna el dominio registrado que toca la tarea ("" si n/a).
	// El scheduler lo usa para espaciar unidades sobre el mismo host.
	Host() string
}

// Scheduler define la estrategia de ordenación de tareas.
type Scheduler interface {
	// Schedule ordena las tareas según la estrategia
	Schedule(tasks []Task) []Task

	// Name retorna el nombre del scheduler
	Name() string
}

// TaskResult representa el resultado de una tarea.
type TaskResult struct {
	Task     Task
	Err      error
	TimedOut bool
	Duration time.Duration
}

// WorkerPool ejecuta tareas con concurrencia acotada y TTL duro por
// tarea: al expirar el TTL el contexto de la tarea se cancela (no se
// abandona) y el slot queda libre para la siguiente unidad.
type WorkerPool struct {
	workers   int
	taskTTL   time.Duration
	scheduler Scheduler
	logger    logx.Logger

	taskQueue chan Task
	results   chan TaskResult

	wg        sync.WaitGroup
	producers sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// Config configura el worker pool.
type Config struct {
	// Workers tope de tareas concurrentes en vuelo
	Workers int

	// TaskTTL tiempo máximo por tarea (0 = sin TTL)
	TaskTTL time.Duration

	Scheduler Scheduler
	Logger    logx.Logger
}

// New crea un nuevo worker pool.
func New(cfg Config) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewHostSpreadScheduler()
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:   cfg.Workers,
		taskTTL:   cfg.TaskTTL,
		scheduler: cfg.Scheduler,
		logger:    cfg.Logger.With("component", "worker-pool"),
		taskQueue: make(chan Task, cfg.Workers*2),
		results:   make(chan TaskResult, cfg.Workers*2),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start inicia los workers del pool.
func (wp *WorkerPool) Start() {
	wp.logger.Info("starting worker pool",
		"workers", wp.workers,
		"task_ttl", wp.taskTTL.String(),
		"scheduler", wp.scheduler.Name(),
	)

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker es el goroutine que procesa tareas.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker stopped", "worker_id", id)
			return

		case task, ok := <-wp.taskQueue:
			if !ok {
				return
			}
			wp.executeTask(id, task)
		}
	}
}

// executeTask ejecuta una tarea bajo el TTL del pool.
func (wp *WorkerPool) executeTask(workerID int, task Task) {
	start := time.Now()

	ctx := wp.ctx
	cancel := func() {}
	if wp.taskTTL > 0 {
		ctx, cancel = context.WithTimeout(wp.ctx, wp.taskTTL)
	}

	wp.logger.Debug("executing task",
		"worker_id", workerID,
		"task", task.Name(),
		"host", task.Host(),
	)

	err := task.Execute(ctx)
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	cancel()
	duration := time.Since(start)

	wp.logger.Debug("task resolved",
		"worker_id", workerID,
		"task", task.Name(),
		"duration_ms", duration.Milliseconds(),
		"timed_out", timedOut,
		"error", err != nil,
	)

	select {
	case wp.results <- TaskResult{
		Task:     task,
		Err:      err,
		TimedOut: timedOut,
		Duration: duration,
	}:
	case <-wp.ctx.Done():
		// Pool stopped, discard result
	}
}

// Submit envía un batch de tareas y bloquea hasta que todas las
// unidades resuelvan (éxito, fallo o TTL).
func (wp *WorkerPool) Submit(tasks []Task) []TaskResult {
	if len(tasks) == 0 {
		return []TaskResult{}
	}

	scheduled := wp.scheduler.Schedule(tasks)

	wp.logger.Info("submitting batch",
		"total", len(scheduled),
		"scheduler", wp.scheduler.Name(),
	)

	wp.producers.Add(1)
	go func() {
		defer wp.producers.Done()
		for _, task := range scheduled {
			select {
			case wp.taskQueue <- task:
			case <-wp.ctx.Done():
				return
			}
		}
	}()

	results := make([]TaskResult, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		select {
		case result := <-wp.results:
			results = append(results, result)
		case <-wp.ctx.Done():
			wp.logger.Warn("pool stopped while waiting for results")
			return results
		}
	}

	return results
}

// Stop detiene el worker pool. La cola solo se cierra cuando todos los
// productores de Submit han salido; cerrarla antes permitiría un send
// sobre canal cerrado si Stop llega con un batch aún alimentándose.
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.producers.Wait()
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.results)
	wp.logger.Debug("worker pool stopped")
}
