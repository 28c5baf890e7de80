// internal/core/usecases/classifier.go
package usecases

import (
	"strings"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/logx"
)

// Classifier convierte el audit trail de un intento rechazado en hotfix
// hints estructurados: primero clasifica cada fallo en la taxonomía
// cerrada de FailureKind, luego la mapea a acciones mediante la tabla
// de políticas explícita. Sustituye al grep de texto libre sobre logs.
type Classifier struct {
	logger logx.Logger
}

// NewClassifier crea un classifier.
func NewClassifier(logger logx.Logger) *Classifier {
	return &Classifier{logger: logger.With("component", "classifier")}
}

// hintPolicy es la tabla FailureKind -> HintAction.
var hintPolicy = map[domain.FailureKind]domain.HintAction{
	domain.FailureRateLimited:     domain.HintSlowDown,
	domain.FailureNavTimeout:      domain.HintSlowDown,
	domain.FailureSelectorMissing: domain.HintAlternateSelectors,
	domain.FailureCaptchaBlocked:  domain.HintMarkBlocked,
	domain.FailureSMSVerification: domain.HintMarkBlocked,
	domain.FailureDeadDomain:      domain.HintMarkBlocked,
	domain.FailureUnknown:         domain.HintExtendMarkers,
}

// kindMarkers son los indicios textuales que mapean un diagnóstico de
// worker a su FailureKind. Membresía por substring sobre el diagnóstico
// normalizado; el primer kind que matchea gana.
var kindMarkers = []struct {
	kind    domain.FailureKind
	markers []string
}{
	{domain.FailureRateLimited, []string{"rate limit", "too many requests", "429"}},
	{domain.FailureCaptchaBlocked, []string{"captcha", "recaptcha", "hcaptcha"}},
	{domain.FailureSMSVerification, []string{"sms", "verification code", "verify phone"}},
	{domain.FailureDeadDomain, []string{"dead_domain", "domain for sale", "dns", "no such host"}},
	{domain.FailureNavTimeout, []string{"timeout", "deadline exceeded", "navigation"}},
	{domain.FailureSelectorMissing, []string{"selector", "no such element", "not found", "no_strict"}},
}

// ClassifyFailure clasifica un diagnóstico de fallo de target.
func ClassifyFailure(detail string) domain.FailureKind {
	d := strings.ToLower(strings.TrimSpace(detail))
	if d == "" {
		return domain.FailureUnknown
	}
	for _, entry := range kindMarkers {
		for _, m := range entry.markers {
			if strings.Contains(d, m) {
				return entry.kind
			}
		}
	}
	return domain.FailureUnknown
}

// Hints construye el HintSet para el intento attempt+1 a partir del
// audit trail del intento rechazado y su lista de incomplete. En cada
// intento fallido se libera un marker más de cada pool, como escalado
// progresivo global.
func (c *Classifier) Hints(attempt int, records []ports.AuditRecord, incomplete []string) domain.HintSet {
	hints := make(domain.HintSet, len(incomplete)+1)

	// Último diagnóstico por company en este intento.
	lastError := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.Status == domain.StatusComplete || rec.Status == domain.StatusBlocked {
			continue
		}
		lastError[rec.Company] = rec.Error
	}

	for _, company := range incomplete {
		kind := ClassifyFailure(lastError[company])
		action := hintPolicy[kind]

		hint := domain.HotfixHint{
			Action: action,
			Kind:   kind,
		}
		if action == domain.HintAlternateSelectors || action == domain.HintExtendMarkers {
			hint.ExtraApplyMarkers = domain.PoolSlice(domain.ApplyMarkerPool, attempt)
			hint.ExtraSubmitMarkers = domain.PoolSlice(domain.SubmitMarkerPool, attempt)
		}
		hints[company] = hint

		c.logger.Debug("failure classified",
			"company", company,
			"kind", kind.String(),
			"action", action.String(),
		)
	}

	// Hint global: amplía los markers de confirmación que el worker
	// reconoce, un marker más por intento consumido.
	hints[domain.GlobalHintKey] = domain.HotfixHint{
		Action:              domain.HintExtendMarkers,
		Kind:                domain.FailureUnknown,
		ExtraSuccessMarkers: domain.PoolSlice(domain.SuccessMarkerPool, attempt),
	}

	return hints
}
