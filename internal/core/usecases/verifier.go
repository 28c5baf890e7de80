// internal/core/usecases/verifier.go
package usecases

import (
	"os"
	"strings"

	"applyswarm/internal/core/domain"
)

// ReasonCardinality es la razón de rechazo global por cardinalidad.
const ReasonCardinality = "cardinality mismatch"

// Verdict es el resultado de la verificación de aceptación.
type Verdict struct {
	// Accept true si todos los targets están satisfechos
	Accept bool

	// Incomplete companies no satisfechas, en su orden original
	Incomplete []string

	// Reason motivo de un rechazo global ("" si no aplica)
	Reason string
}

// Verifier evalúa proof-vs-policy por target y en agregado. Es un
// evaluador puro: idempotente y sin efectos; la única lectura externa
// es el stat del screenshot, inyectable para tests.
type Verifier struct {
	statFn func(string) (os.FileInfo, error)
}

// NewVerifier crea un verifier con os.Stat como comprobador de ficheros.
func NewVerifier() *Verifier {
	return &Verifier{statFn: os.Stat}
}

// NewVerifierWithStat crea un verifier con un stat inyectado.
func NewVerifierWithStat(statFn func(string) (os.FileInfo, error)) *Verifier {
	return &Verifier{statFn: statFn}
}

// Verify aplica el contrato de aceptación de tres vías sobre rs.
//
// Un target está satisfecho si es BLOCKED (terminal-aceptable) o si es
// COMPLETE y al menos uno de los tres checks independientes se cumple.
// Ningún check tiene prioridad sobre los otros.
func (v *Verifier) Verify(rs *domain.RunState) Verdict {
	if rs == nil || len(rs.Results) != domain.Cardinality {
		return Verdict{Accept: false, Reason: ReasonCardinality}
	}

	var incomplete []string
	for _, t := range rs.Results {
		if v.satisfied(t) {
			continue
		}
		incomplete = append(incomplete, t.Company)
	}

	return Verdict{
		Accept:     len(incomplete) == 0,
		Incomplete: incomplete,
	}
}

// satisfied evalúa un target individual.
func (v *Verifier) satisfied(t *domain.Target) bool {
	if t.Status == domain.StatusBlocked {
		return true
	}
	if t.Status != domain.StatusComplete {
		return false
	}
	return v.textOK(t.Proof) || t.Proof.URLMatch || v.shotOK(t.Proof)
}

// textOK: algún text hit normalizado es miembro EXACTO del conjunto de
// confirmación permitido. Nunca substring.
func (v *Verifier) textOK(p domain.Proof) bool {
	for _, hit := range p.TextHits {
		if _, ok := domain.ConfirmationSet[domain.NormalizeHit(hit)]; ok {
			return true
		}
	}
	return false
}

// shotOK: path no vacío, sufijo literal _success.png y fichero presente
// en disco en el momento de la verificación.
func (v *Verifier) shotOK(p domain.Proof) bool {
	if p.Screenshot == "" {
		return false
	}
	if !strings.HasSuffix(p.Screenshot, domain.SuccessShotSuffix) {
		return false
	}
	info, err := v.statFn(p.Screenshot)
	return err == nil && !info.IsDir()
}
