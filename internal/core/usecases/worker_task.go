// internal/core/usecases/worker_task.go
package usecases

import (
	"context"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/ui"
)

// dispatchTask adapta una dispatch unit (un target, un intento) a
// workerpool.Task.
type dispatchTask struct {
	worker    ports.Worker
	presenter ui.Presenter
	req       ports.WorkRequest

	// Result storage
	result *domain.Target
	err    error
}

func newDispatchTask(worker ports.Worker, presenter ui.Presenter, req ports.WorkRequest) *dispatchTask {
	return &dispatchTask{
		worker:    worker,
		presenter: presenter,
		req:       req,
	}
}

// Execute invoca el worker. Se ejecuta cuando el pool asigna un slot,
// así que aquí es donde el target pasa a estar "en vuelo".
func (t *dispatchTask) Execute(ctx context.Context) error {
	t.presenter.StartTarget(t.req.Target.Company)
	t.result, t.err = t.worker.Run(ctx, t.req)
	return t.err
}

// Name retorna la company de la unidad.
func (t *dispatchTask) Name() string {
	return t.req.Target.Company
}

// Host retorna el dominio registrado del target para el scheduler.
func (t *dispatchTask) Host() string {
	return t.req.Target.RegisteredDomain()
}

// Result retorna el target resuelto y el error de ejecución.
func (t *dispatchTask) Result() (*domain.Target, error) {
	return t.result, t.err
}
