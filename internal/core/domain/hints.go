// internal/core/domain/hints.go
package domain

// HotfixHint es un ajuste estructurado que el Worker consume de forma
// opaca en el siguiente intento. Los markers extienden los pools que el
// worker usa para encontrar botones de apply/submit y confirmaciones.
type HotfixHint struct {
	// Action ajuste principal sugerido
	Action HintAction `json:"action"`

	// Kind el fallo clasificado que originó el hint
	Kind FailureKind `json:"kind"`

	// ExtraApplyMarkers markers adicionales de botones de apply
	ExtraApplyMarkers []string `json:"extra_apply_markers,omitempty"`

	// ExtraSubmitMarkers markers adicionales de botones de submit
	ExtraSubmitMarkers []string `json:"extra_submit_markers,omitempty"`

	// ExtraSuccessMarkers markers adicionales de texto de confirmación
	ExtraSuccessMarkers []string `json:"extra_success_markers,omitempty"`
}

// GlobalHintKey es la clave del hint aplicable a todos los targets.
const GlobalHintKey = "*"

// HintSet mapea company (o GlobalHintKey) a su hint para el próximo intento.
type HintSet map[string]HotfixHint

// For retorna el hint de una company, cayendo al hint global si no hay
// uno específico.
func (h HintSet) For(company string) (HotfixHint, bool) {
	if hint, ok := h[company]; ok {
		return hint, true
	}
	hint, ok := h[GlobalHintKey]
	return hint, ok
}

// Pools de markers de escalado progresivo: en cada intento fallido se
// libera un marker más de cada pool hacia los hints.
var (
	ApplyMarkerPool = []string{
		"continue", "next", "proceed", "begin application",
		"start", "quick apply", "view details",
	}

	SubmitMarkerPool = []string{
		"confirm", "complete", "final submit", "send", "review", "done",
	}

	SuccessMarkerPool = []string{
		"thanks for applying",
		"application has been submitted",
		"we received your application",
		"your application has been received",
	}
)

// PoolSlice retorna los primeros n elementos de un pool sin pasarse.
func PoolSlice(pool []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, n)
	copy(out, pool[:n])
	return out
}
