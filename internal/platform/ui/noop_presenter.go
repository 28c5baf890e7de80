// internal/platform/ui/noop_presenter.go
package ui

import "time"

// NoopPresenter es un Presenter sin salida visual, para modo quiet,
// ejecuciones desatendidas y tests.
type NoopPresenter struct{}

// NewNoopPresenter crea un presenter silencioso.
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

func (n *NoopPresenter) Start(RunInfo)                             {}
func (n *NoopPresenter) StartAttempt(int, int, int)                {}
func (n *NoopPresenter) StartTarget(string)                        {}
func (n *NoopPresenter) FinishTarget(string, string, time.Duration) {}
func (n *NoopPresenter) FinishAttempt(int, bool, []string)         {}
func (n *NoopPresenter) Info(string)                               {}
func (n *NoopPresenter) Warning(string)                            {}
func (n *NoopPresenter) Error(string)                              {}
func (n *NoopPresenter) Finish(RunStats)                           {}
func (n *NoopPresenter) Close() error                              { return nil }
