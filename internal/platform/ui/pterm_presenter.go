// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar spinners, colores y símbolos en la terminal.
type PTermPresenter struct {
	mu sync.Mutex

	runInfo   RunInfo
	startTime time.Time

	// Spinners activos por company
	spinners map[string]*pterm.SpinnerPrinter
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{
		spinners: make(map[string]*pterm.SpinnerPrinter),
	}
}

// Start inicia la presentación mostrando el header del run.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runInfo = info
	p.startTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("applyswarm - Application Swarm Orchestrator")

	pterm.Println()

	panel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	text := fmt.Sprintf("Run: %s\n", pterm.Cyan(info.RunID))
	text += fmt.Sprintf("Targets: %d\n", info.Targets)
	text += fmt.Sprintf("Batch size: %d\n", info.BatchSize)
	text += fmt.Sprintf("TTL: %ds\n", info.TTLSeconds)
	text += fmt.Sprintf("Self-heal budget: %d attempts\n", info.MaxAttempts)
	text += fmt.Sprintf("Worker: %s", pterm.Yellow(info.WorkerName))

	panel.Println(text)
	pterm.Println()
}

// StartAttempt muestra el inicio de un intento.
func (p *PTermPresenter) StartAttempt(attempt, maxAttempts, dispatchCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.DefaultSection.Printfln("Attempt %d/%d - dispatching %d target(s)",
		attempt, maxAttempts, dispatchCount)
}

// StartTarget abre un spinner para el target.
func (p *PTermPresenter) StartTarget(company string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	spinner, err := pterm.DefaultSpinner.Start(company)
	if err != nil {
		return
	}
	p.spinners[company] = spinner
}

// FinishTarget cierra el spinner del target según su resolución.
func (p *PTermPresenter) FinishTarget(company, status string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("%s - %s (%.1fs)", company, status, duration.Seconds())
	spinner, ok := p.spinners[company]
	if !ok {
		pterm.Info.Println(line)
		return
	}
	delete(p.spinners, company)

	switch status {
	case "COMPLETE":
		spinner.Success(line)
	case "BLOCKED":
		spinner.Warning(line)
	default:
		spinner.Fail(line)
	}
}

// FinishAttempt muestra el veredicto del intento.
func (p *PTermPresenter) FinishAttempt(attempt int, accepted bool, incomplete []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if accepted {
		pterm.Success.Printfln("Attempt %d accepted", attempt)
		return
	}
	pterm.Warning.Printfln("Attempt %d rejected - incomplete: %s",
		attempt, strings.Join(incomplete, ", "))
}

// Info muestra un mensaje informativo.
func (p *PTermPresenter) Info(msg string) {
	pterm.Info.Println(msg)
}

// Warning muestra una advertencia.
func (p *PTermPresenter) Warning(msg string) {
	pterm.Warning.Println(msg)
}

// Error muestra un error.
func (p *PTermPresenter) Error(msg string) {
	pterm.Error.Println(msg)
}

// Finish muestra el resultado final del run.
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println()

	rows := pterm.TableData{
		{"Outcome", "Attempts", "Complete", "Blocked", "Incomplete", "Duration"},
		{
			outcomeLabel(stats.Accepted),
			fmt.Sprintf("%d", stats.Attempts),
			fmt.Sprintf("%d", stats.Complete),
			fmt.Sprintf("%d", stats.Blocked),
			fmt.Sprintf("%d", stats.Incomplete),
			stats.TotalDuration.Round(time.Second).String(),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Close limpia spinners pendientes.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for company, spinner := range p.spinners {
		_ = spinner.Stop()
		delete(p.spinners, company)
	}
	return nil
}

func outcomeLabel(accepted bool) string {
	if accepted {
		return pterm.Green("ACCEPTED")
	}
	return pterm.Red("EXHAUSTED")
}
