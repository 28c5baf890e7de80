// internal/core/ports/audit.go
package ports

import (
	"time"

	"applyswarm/internal/core/domain"
)

// AuditRecord es una entrada del artefacto append-only de un intento:
// una resolución de worker por línea.
type AuditRecord struct {
	RunID    string        `json:"run_id"`
	Attempt  int           `json:"attempt"`
	Company  string        `json:"company"`
	Status   domain.Status `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ms"`
	At       time.Time     `json:"at"`
}

// AuditLog es el port del audit trail, desacoplado del estado vivo.
// Un artefacto por intento, nombrado determinísticamente por número de
// intento; el clasificador de hotfix lo consume entre intentos.
type AuditLog interface {
	// Append añade un registro al artefacto del intento.
	Append(rec AuditRecord) error

	// Records retorna los registros de un intento en orden de escritura.
	Records(attempt int) ([]AuditRecord, error)
}
