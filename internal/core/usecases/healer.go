// internal/core/usecases/healer.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/errors"
	"applyswarm/internal/platform/logx"
	"applyswarm/internal/platform/ui"
)

// Phase es el estado del retry controller.
type Phase string

const (
	// PhaseRunning intento en curso
	PhaseRunning Phase = "RUNNING"

	// PhaseAccepted el verifier aceptó; terminal
	PhaseAccepted Phase = "ACCEPTED"

	// PhaseExhausted presupuesto de intentos consumido; terminal
	PhaseExhausted Phase = "EXHAUSTED"
)

// Outcome es el resultado terminal del run.
type Outcome struct {
	Phase    Phase
	Attempts int
	Verdict  Verdict

	// State el run state observado por la última verificación
	State *domain.RunState
}

// Healer es el self-heal retry controller: una máquina de estados
// secuencial sobre los intentos 1..max. Por intento: dispatch, verify;
// en rechazo clasifica los fallos y deriva hints para el siguiente
// intento; en aceptación entrega al publish gate y termina. Ningún
// intento n+1 arranca antes de que el batch y la verificación de n
// hayan resuelto por completo.
type Healer struct {
	dispatcher *Dispatcher
	verifier   *Verifier
	classifier *Classifier
	store      ports.StateStore
	audit      ports.AuditLog
	publisher  ports.Publisher
	presenter  ui.Presenter
	logger     logx.Logger

	maxAttempts int
	runKind     string
}

// HealerOptions configura el healer.
type HealerOptions struct {
	Dispatcher  *Dispatcher
	Verifier    *Verifier
	Classifier  *Classifier
	Store       ports.StateStore
	Audit       ports.AuditLog
	Publisher   ports.Publisher
	Presenter   ui.Presenter
	Logger      logx.Logger
	MaxAttempts int
	RunKind     string
}

// NewHealer crea un healer.
func NewHealer(opts HealerOptions) *Healer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 15
	}
	if opts.RunKind == "" {
		opts.RunKind = "job-swarm"
	}
	if opts.Presenter == nil {
		opts.Presenter = ui.NewNoopPresenter()
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	return &Healer{
		dispatcher:  opts.Dispatcher,
		verifier:    opts.Verifier,
		classifier:  opts.Classifier,
		store:       opts.Store,
		audit:       opts.Audit,
		publisher:   opts.Publisher,
		presenter:   opts.Presenter,
		logger:      opts.Logger.With("component", "healer"),
		maxAttempts: opts.MaxAttempts,
		runKind:     opts.RunKind,
	}
}

// Run ejecuta el run completo desde rs hasta un estado terminal.
// Retorna error solo en condiciones run-fatales (cancelación, fallo de
// persistencia irrecuperable, fallo de push); el agotamiento se reporta
// vía Outcome con un error ErrExhausted envuelto.
func (h *Healer) Run(ctx context.Context, rs *domain.RunState) (Outcome, error) {
	var lastVerdict Verdict
	hints := domain.HintSet{}

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{Phase: PhaseRunning, Attempts: attempt - 1, State: rs}, err
		}

		h.presenter.StartAttempt(attempt, h.maxAttempts, len(rs.Dispatchable()))
		h.logger.Info("attempt starting", "attempt", attempt, "max", h.maxAttempts)

		if _, err := h.dispatcher.RunBatch(ctx, rs, attempt, hints); err != nil {
			return Outcome{Phase: PhaseRunning, Attempts: attempt, State: rs},
				errors.Wrapf(err, "attempt %d batch", attempt)
		}

		// Re-leer desde el store: la verificación observa lo persistido,
		// nunca un estado intermedio. Un fallo estructural rechaza el
		// intento, no mata el run.
		fresh, err := h.store.Load(ctx)
		switch {
		case err == nil:
			rs = fresh
			lastVerdict = h.verifier.Verify(rs)
		default:
			h.logger.Warn("structural state failure on verification",
				"attempt", attempt,
				"error", err.Error(),
			)
			lastVerdict = Verdict{Accept: false, Reason: ReasonCardinality}
		}

		h.presenter.FinishAttempt(attempt, lastVerdict.Accept, lastVerdict.Incomplete)

		if lastVerdict.Accept {
			h.logger.Info("run accepted", "attempt", attempt)
			if err := h.publish(ctx, rs); err != nil {
				return Outcome{Phase: PhaseAccepted, Attempts: attempt, Verdict: lastVerdict, State: rs}, err
			}
			return Outcome{Phase: PhaseAccepted, Attempts: attempt, Verdict: lastVerdict, State: rs}, nil
		}

		h.logger.Warn("attempt rejected",
			"attempt", attempt,
			"reason", lastVerdict.Reason,
			"incomplete", len(lastVerdict.Incomplete),
		)

		if attempt == h.maxAttempts {
			break
		}

		hints = h.nextHints(attempt, lastVerdict)
	}

	return Outcome{Phase: PhaseExhausted, Attempts: h.maxAttempts, Verdict: lastVerdict, State: rs},
		errors.Wrapf(errors.ErrExhausted, "%d attempts", h.maxAttempts)
}

// nextHints deriva los hints del intento siguiente desde el audit trail
// del intento rechazado.
func (h *Healer) nextHints(attempt int, verdict Verdict) domain.HintSet {
	var records []ports.AuditRecord
	if h.audit != nil {
		recs, err := h.audit.Records(attempt)
		if err != nil {
			h.logger.Warn("audit trail unreadable, hints degrade to global",
				"attempt", attempt,
				"error", err.Error(),
			)
		} else {
			records = recs
		}
	}
	return h.classifier.Hints(attempt, records, verdict.Incomplete)
}

// publish es el gate "trunk only moves on green": re-afirma el estado
// final, crea el checkpoint etiquetado con el timestamp UTC del run y
// hace push si hay remote. El fallo de push se propaga, nunca se traga.
func (h *Healer) publish(ctx context.Context, rs *domain.RunState) error {
	if err := h.store.Save(ctx, rs); err != nil {
		return errors.Wrap(err, "persist accepted state")
	}

	if h.publisher == nil {
		return nil
	}

	label := fmt.Sprintf("green: autonomous %s %s",
		h.runKind, time.Now().UTC().Format(time.RFC3339))

	if err := h.publisher.Checkpoint(ctx, label); err != nil {
		return errors.Wrap(err, "checkpoint")
	}
	if err := h.publisher.Push(ctx); err != nil {
		return errors.Wrap(errors.ErrPublish, err.Error())
	}
	return nil
}
