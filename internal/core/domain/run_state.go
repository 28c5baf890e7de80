// internal/core/domain/run_state.go
package domain

import (
	"fmt"
	"time"
)

// Cardinality es el número exacto de targets por run. Esta cardinalidad
// es load-bearing: se comprueba antes de cada decisión de aceptación.
const Cardinality = 10

// RunState es la secuencia ordenada de targets más los metadatos del run.
// Es el único recurso mutable compartido: single-writer por batch
// (el Dispatcher) y multi-reader solo con el batch completamente asentado.
type RunState struct {
	// RunID identificador del run (también etiqueta el audit trail)
	RunID string `json:"run_id,omitempty"`

	// GeneratedAt timestamp UTC de la última escritura
	GeneratedAt time.Time `json:"generated_at"`

	// Attempt intento global 1..MaxAttempts que produjo este estado
	Attempt int `json:"attempt"`

	// BatchSize tope de workers concurrentes usado
	BatchSize int `json:"batch_size"`

	// TTLSeconds TTL por target usado
	TTLSeconds int `json:"ttl_seconds"`

	// MaxAttempts presupuesto de self-heal del run
	MaxAttempts int `json:"max_attempts"`

	// Results los targets, en orden estable de configuración
	Results []*Target `json:"results"`

	// Summary contadores derivados (se recalcula en cada Save)
	Summary Summary `json:"summary"`
}

// Summary agrega contadores derivados de Results.
type Summary struct {
	Total      int `json:"total"`
	Complete   int `json:"complete"`
	Blocked    int `json:"blocked"`
	Incomplete int `json:"incomplete"`
}

// NewRunState crea un run state con todos los targets en PENDING.
func NewRunState(runID string, targets []*Target) *RunState {
	rs := &RunState{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Attempt:     0,
		Results:     targets,
	}
	rs.Refresh()
	return rs
}

// Validate verifica la estructura del run state. Una cardinalidad
// incorrecta es un fallo estructural, no un crash.
func (rs *RunState) Validate() error {
	if len(rs.Results) != Cardinality {
		return fmt.Errorf("%w: got %d targets, want %d",
			ErrCardinalityMismatch, len(rs.Results), Cardinality)
	}
	seen := make(map[string]struct{}, len(rs.Results))
	for _, t := range rs.Results {
		if t == nil {
			return ErrNilTarget
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.Company]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCompany, t.Company)
		}
		seen[t.Company] = struct{}{}
	}
	return nil
}

// Find retorna el target de una company, o nil si no existe.
func (rs *RunState) Find(company string) *Target {
	for _, t := range rs.Results {
		if t.Company == company {
			return t
		}
	}
	return nil
}

// Dispatchable retorna los targets que siguen elegibles para dispatch:
// todo lo que no sea COMPLETE ni BLOCKED. El orden de configuración se
// conserva.
func (rs *RunState) Dispatchable() []*Target {
	out := make([]*Target, 0, len(rs.Results))
	for _, t := range rs.Results {
		if !t.Status.Terminal() {
			out = append(out, t)
		}
	}
	return out
}

// Merge aplica el resultado de un dispatch unit sobre el target
// correspondiente. Guardia monótona: nunca resucita un BLOCKED ni
// regresa un COMPLETE a un estado reintentable.
func (rs *RunState) Merge(res *Target) error {
	if res == nil {
		return ErrNilTarget
	}
	cur := rs.Find(res.Company)
	if cur == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCompany, res.Company)
	}
	if cur.Status.Terminal() {
		return nil
	}
	cur.Status = res.Status
	cur.Proof = res.Proof
	cur.AttemptCount = res.AttemptCount
	cur.LastError = res.LastError
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

// Refresh recalcula Summary y GeneratedAt. Se llama antes de cada Save.
func (rs *RunState) Refresh() {
	s := Summary{Total: len(rs.Results)}
	for _, t := range rs.Results {
		switch t.Status {
		case StatusComplete:
			s.Complete++
		case StatusBlocked:
			s.Blocked++
		default:
			s.Incomplete++
		}
	}
	rs.Summary = s
	rs.GeneratedAt = time.Now().UTC()
}
