// internal/core/ports/worker.go
package ports

import (
	"context"

	"applyswarm/internal/core/domain"
)

// Worker es el port primario hacia la automatización de navegador que
// rellena y envía una aplicación. Para el core es una caja negra: recibe
// un target con hints y devuelve el target resuelto con status y proof.
type Worker interface {
	// Name retorna el nombre del worker (ej: "cli", "sim")
	Name() string

	// Run ejecuta un intento sobre un target. Debe respetar la
	// cancelación del contexto: al expirar el TTL el proceso subyacente
	// se mata y sus recursos se liberan antes de reutilizar el slot.
	Run(ctx context.Context, req WorkRequest) (*domain.Target, error)

	// Close libera recursos del worker.
	Close() error
}

// WorkRequest parametriza una invocación del worker.
type WorkRequest struct {
	// Target copia del target a procesar
	Target domain.Target

	// Attempt número de intento global 1..max
	Attempt int

	// BatchSize ancho de concurrencia del batch que contiene esta unidad
	BatchSize int

	// SelfHeal true en los passes de retry (attempt > 1)
	SelfHeal bool

	// Hint ajuste estructurado derivado del intento anterior
	Hint domain.HotfixHint
}
