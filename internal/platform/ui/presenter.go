// internal/platform/ui/presenter.go
package ui

import (
	"time"
)

// UIMode define el modo de visualización
type UIMode string

const (
	UIModeCompact UIMode = "compact" // spinners y contadores (default)
	UIModeQuiet   UIMode = "quiet"   // sin UI visual (CI / unattended)
)

// Presenter define la interfaz para presentar el progreso del run de
// aplicaciones: intentos, batches y resoluciones por target.
type Presenter interface {
	// Start inicia la presentación con información del run
	Start(info RunInfo)

	// StartAttempt notifica el inicio de un intento de self-heal
	StartAttempt(attempt, maxAttempts, dispatchCount int)

	// StartTarget notifica que un worker tomó un target
	StartTarget(company string)

	// FinishTarget notifica la resolución de un target
	FinishTarget(company, status string, duration time.Duration)

	// FinishAttempt notifica el veredicto del intento
	FinishAttempt(attempt int, accepted bool, incomplete []string)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con el resultado del run
	Finish(stats RunStats)

	// Close limpia recursos del presenter
	Close() error
}

// RunInfo contiene información inicial del run.
type RunInfo struct {
	RunID       string
	Targets     int
	BatchSize   int
	TTLSeconds  int
	MaxAttempts int
	WorkerName  string
	UIMode      UIMode
}

// RunStats contiene el resultado final del run.
type RunStats struct {
	Accepted      bool
	Attempts      int
	Complete      int
	Blocked       int
	Incomplete    int
	TotalDuration time.Duration
}

// ForMode retorna el presenter adecuado al modo configurado.
func ForMode(mode string) Presenter {
	if UIMode(mode) == UIModeQuiet {
		return NewNoopPresenter()
	}
	return NewPTermPresenter()
}
