// internal/core/domain/enums.go
package domain

// Status define el estado de un target dentro del run.
type Status string

const (
	// StatusPending target aún no despachado en este run
	StatusPending Status = "PENDING"

	// StatusInProgress target con un worker en vuelo
	StatusInProgress Status = "IN_PROGRESS"

	// StatusComplete el worker reportó una submission confirmada
	StatusComplete Status = "COMPLETE"

	// StatusBlocked bloqueo externo terminal (captcha, SMS, dominio muerto)
	StatusBlocked Status = "BLOCKED"

	// StatusFailed el intento falló; elegible para retry
	StatusFailed Status = "FAILED"
)

// IsValid verifica si el status es válido.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusComplete, StatusBlocked, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status never re-enters the dispatch set.
// BLOCKED is terminal-acceptable; COMPLETE is terminal once its proof holds.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusBlocked
}

// String retorna la representación string del status.
func (s Status) String() string {
	return string(s)
}

// FailureKind clasifica un fallo de target en una taxonomía cerrada.
// El Healer la mapea a hotfix hints mediante una tabla de políticas explícita.
type FailureKind string

const (
	FailureRateLimited     FailureKind = "rate_limited"
	FailureSelectorMissing FailureKind = "selector_not_found"
	FailureCaptchaBlocked  FailureKind = "captcha_blocked"
	FailureNavTimeout      FailureKind = "navigation_timeout"
	FailureDeadDomain      FailureKind = "dead_domain"
	FailureSMSVerification FailureKind = "sms_verification"
	FailureUnknown         FailureKind = "unknown"
)

// IsValid verifica si el kind pertenece a la taxonomía.
func (k FailureKind) IsValid() bool {
	switch k {
	case FailureRateLimited, FailureSelectorMissing, FailureCaptchaBlocked,
		FailureNavTimeout, FailureDeadDomain, FailureSMSVerification, FailureUnknown:
		return true
	default:
		return false
	}
}

// String retorna la representación string del kind.
func (k FailureKind) String() string {
	return string(k)
}

// HintAction es el ajuste sugerido que el Worker consume de forma opaca
// en el siguiente intento.
type HintAction string

const (
	// HintNone sin ajuste
	HintNone HintAction = "none"

	// HintSlowDown reducir el ritmo de interacción (rate limits)
	HintSlowDown HintAction = "slow_down"

	// HintAlternateSelectors usar la estrategia alternativa de selectores
	HintAlternateSelectors HintAction = "alternate_selectors"

	// HintExtendMarkers ampliar los pools de apply/submit/success markers
	HintExtendMarkers HintAction = "extend_markers"

	// HintMarkBlocked abandonar el target y marcarlo BLOCKED
	HintMarkBlocked HintAction = "mark_blocked"
)

// String retorna la representación string de la acción.
func (a HintAction) String() string {
	return string(a)
}
