// internal/core/ports/publisher.go
package ports

import "context"

// Publisher es el port del publish gate: crea el checkpoint "green" en
// control de versiones y avanza trunk, solo tras la aceptación.
type Publisher interface {
	// Checkpoint crea un commit etiquetado con el timestamp UTC del run
	// sobre la rama trunk. Un checkpoint sin cambios no es un error.
	Checkpoint(ctx context.Context, label string) error

	// Push publica trunk al remote configurado, si existe. Un fallo de
	// push debe propagarse: rompe la garantía "trunk only moves on green".
	Push(ctx context.Context) error
}
