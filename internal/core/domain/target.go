// internal/core/domain/target.go
package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Target representa un destino de aplicación de empleo con su resultado.
type Target struct {
	// Company identificador único dentro del run
	Company string `json:"company"`

	// URL página de entrada de la aplicación
	URL string `json:"url"`

	// Status estado actual del target
	Status Status `json:"status"`

	// Proof evidencia de submission recogida por el worker
	Proof Proof `json:"proof"`

	// AttemptCount último intento que tocó este target
	AttemptCount int `json:"attempt_count,omitempty"`

	// LastError diagnóstico del último fallo (vacío si no hay)
	LastError string `json:"last_error,omitempty"`

	// UpdatedAt timestamp UTC de la última mutación
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Proof es el bundle de evidencia usado para certificar una submission.
// Ninguno de los tres checks tiene prioridad sobre los otros.
type Proof struct {
	// TextHits strings normalizados observados en el contenido de la página
	TextHits []string `json:"text_hits"`

	// URLMatch la URL final coincidió con un patrón de éxito conocido
	URLMatch bool `json:"url_match"`

	// Screenshot path del screenshot de confirmación (sufijo _success.png)
	Screenshot string `json:"screenshot"`

	// Diagnósticos opacos del worker (no participan en la verificación)
	FinalURL      string `json:"final_url,omitempty"`
	FilledCount   int    `json:"filled_count,omitempty"`
	EEOActions    int    `json:"eeo_actions,omitempty"`
	ResumeUploads int    `json:"resume_uploads,omitempty"`
}

// NewTarget crea un target PENDING.
func NewTarget(company, rawURL string) *Target {
	return &Target{
		Company: strings.TrimSpace(company),
		URL:     strings.TrimSpace(rawURL),
		Status:  StatusPending,
		Proof:   Proof{TextHits: []string{}},
	}
}

// Validate verifica que el target sea válido.
func (t *Target) Validate() error {
	if t.Company == "" {
		return ErrEmptyCompany
	}
	if t.URL == "" {
		return fmt.Errorf("%w: %s", ErrEmptyTargetURL, t.Company)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q on %s", ErrInvalidStatus, t.Status, t.Company)
	}
	return nil
}

// Slug retorna un identificador apto para nombres de fichero.
// Ejemplo: "Great Lakes Dredge & Dock" -> "great-lakes-dredge-dock".
func (t *Target) Slug() string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(t.Company) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "target"
	}
	return slug
}

// RegisteredDomain retorna el eTLD+1 de la URL del target.
// El dispatcher lo usa para no concentrar workers sobre el mismo ATS host.
func (t *Target) RegisteredDomain() string {
	u, err := url.Parse(t.URL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld
}

// NormalizeHit aplica la normalización canónica a un text hit:
// lower-case + trim. La misma normalización se aplica en el Verifier.
func NormalizeHit(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ConfirmationSet es el conjunto cerrado de markers de confirmación
// aceptados. Membresía exacta tras normalización, nunca substring.
var ConfirmationSet = map[string]struct{}{
	"thank you":             {},
	"application submitted": {},
	"confirmation":          {},
	"application received":  {},
}

// SuccessShotSuffix es el sufijo literal exigido al screenshot de prueba.
const SuccessShotSuffix = "_success.png"
