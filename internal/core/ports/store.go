// internal/core/ports/store.go
package ports

import (
	"context"

	"applyswarm/internal/core/domain"
)

// StateStore es el port de persistencia del run state. La implementación
// debe garantizar escrituras atómicas a nivel de batch: un lector nunca
// observa un estado parcialmente escrito.
type StateStore interface {
	// Load carga el run state. Retorna domain.ErrStateNotFound si no
	// existe y domain.ErrStateMalformed ante un fallo estructural
	// (documento inválido o cardinalidad incorrecta).
	Load(ctx context.Context) (*domain.RunState, error)

	// Save sobreescribe el run state de forma atómica.
	Save(ctx context.Context, rs *domain.RunState) error
}
