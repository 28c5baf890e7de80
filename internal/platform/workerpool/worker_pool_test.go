// internal/platform/workerpool/worker_pool_test.go
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"applyswarm/internal/platform/logx"
	"applyswarm/internal/testutil"
)

// fakeTask es una tarea de prueba con duración y error configurables.
type fakeTask struct {
	name string
	host string
	dur  time.Duration
	err  error

	executed atomic.Bool
}

func (f *fakeTask) Execute(ctx context.Context) error {
	f.executed.Store(true)
	if f.dur > 0 {
		select {
		case <-time.After(f.dur):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeTask) Name() string { return f.name }
func (f *fakeTask) Host() string { return f.host }

func newPool(workers int, ttl time.Duration) *WorkerPool {
	return New(Config{
		Workers:   workers,
		TaskTTL:   ttl,
		Scheduler: NewFIFOScheduler(),
		Logger:    logx.NewSilent(),
	})
}

func TestWorkerPool_Submit_AllTasksResolve(t *testing.T) {
	pool := newPool(3, 0)
	pool.Start()
	defer pool.Stop()

	tasks := []Task{
		&fakeTask{name: "a"},
		&fakeTask{name: "b"},
		&fakeTask{name: "c"},
		&fakeTask{name: "d"},
		&fakeTask{name: "e"},
	}

	results := pool.Submit(tasks)

	testutil.AssertEqual(t, len(results), len(tasks), "one result per task")
	for _, res := range results {
		testutil.AssertNoError(t, res.Err, res.Task.Name())
		testutil.AssertFalse(t, res.TimedOut, "no TTL configured")
	}
	for _, task := range tasks {
		testutil.AssertTrue(t, task.(*fakeTask).executed.Load(), task.Name())
	}
}

func TestWorkerPool_Submit_EmptyBatch(t *testing.T) {
	pool := newPool(3, 0)
	pool.Start()
	defer pool.Stop()

	results := pool.Submit(nil)
	testutil.AssertEqual(t, len(results), 0, "empty batch resolves immediately")
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	const workers = 3

	var mu sync.Mutex
	var inFlight, peak int

	track := func(ctx context.Context) error {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}

	tasks := make([]Task, 0, 10)
	for i := 0; i < 10; i++ {
		tasks = append(tasks, &trackedTask{fn: track})
	}

	pool := newPool(workers, 0)
	pool.Start()
	defer pool.Stop()

	results := pool.Submit(tasks)

	testutil.AssertEqual(t, len(results), 10, "all tasks resolved")
	mu.Lock()
	defer mu.Unlock()
	testutil.AssertTrue(t, peak <= workers, "in-flight tasks never exceed the worker cap")
	testutil.AssertTrue(t, peak > 1, "tasks actually ran concurrently")
}

// trackedTask delega Execute en una función.
type trackedTask struct {
	fn func(ctx context.Context) error
}

func (tt *trackedTask) Execute(ctx context.Context) error { return tt.fn(ctx) }
func (tt *trackedTask) Name() string                      { return "tracked" }
func (tt *trackedTask) Host() string                      { return "" }

func TestWorkerPool_TTLExpiryFreesTheSlot(t *testing.T) {
	// La primera tanda se cuelga más allá del TTL; las siguientes deben
	// ejecutarse igualmente porque el slot se libera al expirar.
	hung := []Task{
		&fakeTask{name: "hung-1", dur: time.Second},
		&fakeTask{name: "hung-2", dur: time.Second},
		&fakeTask{name: "fast", dur: time.Millisecond},
		&fakeTask{name: "after-1", dur: time.Millisecond},
		&fakeTask{name: "after-2", dur: time.Millisecond},
	}

	pool := newPool(2, 50*time.Millisecond)
	pool.Start()
	defer pool.Stop()

	start := time.Now()
	results := pool.Submit(hung)
	elapsed := time.Since(start)

	testutil.AssertEqual(t, len(results), len(hung), "every unit resolves, hung or not")
	testutil.AssertTrue(t, elapsed < time.Second, "hung tasks are cancelled, not awaited")

	byName := make(map[string]TaskResult, len(results))
	for _, res := range results {
		byName[res.Task.Name()] = res
	}

	testutil.AssertTrue(t, byName["hung-1"].TimedOut, "hung task timed out")
	testutil.AssertTrue(t, byName["hung-2"].TimedOut, "hung task timed out")
	testutil.AssertFalse(t, byName["fast"].TimedOut, "fast task unaffected")
	testutil.AssertFalse(t, byName["after-1"].TimedOut, "slot reused after expiry")
	testutil.AssertNoError(t, byName["after-1"].Err, "reused slot runs cleanly")
}

func TestWorkerPool_TaskErrorsAreReported(t *testing.T) {
	boom := &fakeTask{name: "boom", err: context.Canceled}
	ok := &fakeTask{name: "ok"}

	pool := newPool(2, 0)
	pool.Start()
	defer pool.Stop()

	results := pool.Submit([]Task{boom, ok})

	var failed, succeeded int
	for _, res := range results {
		if res.Err != nil {
			failed++
			testutil.AssertFalse(t, res.TimedOut, "an error is not a timeout")
		} else {
			succeeded++
		}
	}
	testutil.AssertEqual(t, failed, 1, "one failure")
	testutil.AssertEqual(t, succeeded, 1, "one success")
}

func TestWorkerPool_DurationIsMeasured(t *testing.T) {
	pool := newPool(1, 0)
	pool.Start()
	defer pool.Stop()

	results := pool.Submit([]Task{&fakeTask{name: "timed", dur: 30 * time.Millisecond}})

	testutil.AssertEqual(t, len(results), 1, "one result")
	testutil.AssertTrue(t, results[0].Duration >= 30*time.Millisecond, "duration covers execution")
}

func TestWorkerPool_StopWhileSubmitting(t *testing.T) {
	pool := newPool(1, 0)
	pool.Start()

	// Más tareas lentas que capacidad de cola: el productor de Submit
	// sigue alimentando cuando llega el Stop.
	tasks := make([]Task, 0, 16)
	for i := 0; i < 16; i++ {
		tasks = append(tasks, &fakeTask{name: "slow", dur: time.Second})
	}

	done := make(chan []TaskResult, 1)
	go func() { done <- pool.Submit(tasks) }()

	testutil.Sleep(20)
	pool.Stop()

	select {
	case results := <-done:
		testutil.AssertTrue(t, len(results) < len(tasks), "stop interrupts the batch")
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not return after stop")
	}
}

func TestNew_Defaults(t *testing.T) {
	pool := New(Config{Logger: logx.NewSilent()})

	testutil.AssertEqual(t, pool.workers, 3, "default worker cap")
	testutil.AssertNotNil(t, pool.scheduler, "default scheduler")
	testutil.AssertEqual(t, pool.scheduler.Name(), "host-spread", "host-spread by default")
}
