// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"fmt"
	"sync"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/core/ports"
)

// mockWorker es un mock de ports.Worker para tests del dispatcher/healer.
type mockWorker struct {
	mu           sync.Mutex
	runFunc      func(ctx context.Context, req ports.WorkRequest) (*domain.Target, error)
	runCallCount int
	requests     []ports.WorkRequest
}

func newMockWorker() *mockWorker {
	return &mockWorker{}
}

func (m *mockWorker) Name() string {
	return "mock"
}

func (m *mockWorker) Run(ctx context.Context, req ports.WorkRequest) (*domain.Target, error) {
	m.mu.Lock()
	m.runCallCount++
	m.requests = append(m.requests, req)
	fn := m.runFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	// Default behavior: confirmed submission with url proof
	t := req.Target
	t.Status = domain.StatusComplete
	t.AttemptCount = req.Attempt
	t.Proof = domain.Proof{TextHits: []string{"thank you"}, URLMatch: true}
	return &t, nil
}

func (m *mockWorker) Close() error {
	return nil
}

func (m *mockWorker) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCallCount
}

func (m *mockWorker) lastRequests() []ports.WorkRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.WorkRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// mockWorkerCompleting crea un worker que confirma solo las companies dadas
// y falla el resto con el diagnóstico detail.
func mockWorkerCompleting(detail string, companies ...string) *mockWorker {
	accept := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		accept[c] = struct{}{}
	}
	w := newMockWorker()
	w.runFunc = func(ctx context.Context, req ports.WorkRequest) (*domain.Target, error) {
		t := req.Target
		t.AttemptCount = req.Attempt
		if _, ok := accept[t.Company]; ok {
			t.Status = domain.StatusComplete
			t.Proof = domain.Proof{URLMatch: true}
			return &t, nil
		}
		t.Status = domain.StatusFailed
		t.LastError = detail
		return &t, nil
	}
	return w
}

// mockStore es un mock en memoria de ports.StateStore.
type mockStore struct {
	mu        sync.Mutex
	state     *domain.RunState
	saveCount int
	loadCount int

	loadErr error
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) Load(ctx context.Context) (*domain.RunState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCount++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return nil, domain.ErrStateNotFound
	}
	return m.state, nil
}

func (m *mockStore) Save(ctx context.Context, rs *domain.RunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCount++
	if m.saveErr != nil {
		return m.saveErr
	}
	rs.Refresh()
	m.state = rs
	return nil
}

func (m *mockStore) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

// mockAudit es un mock en memoria de ports.AuditLog.
type mockAudit struct {
	mu      sync.Mutex
	records map[int][]ports.AuditRecord
}

func newMockAudit() *mockAudit {
	return &mockAudit{records: make(map[int][]ports.AuditRecord)}
}

func (m *mockAudit) Append(rec ports.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Attempt] = append(m.records[rec.Attempt], rec)
	return nil
}

func (m *mockAudit) Records(attempt int) ([]ports.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.AuditRecord, len(m.records[attempt]))
	copy(out, m.records[attempt])
	return out, nil
}

// mockPublisher es un mock de ports.Publisher.
type mockPublisher struct {
	mu          sync.Mutex
	checkpoints []string
	pushCount   int

	checkpointErr error
	pushErr       error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{}
}

func (m *mockPublisher) Checkpoint(ctx context.Context, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkpointErr != nil {
		return m.checkpointErr
	}
	m.checkpoints = append(m.checkpoints, label)
	return nil
}

func (m *mockPublisher) Push(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushCount++
	return nil
}

func (m *mockPublisher) labels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.checkpoints))
	copy(out, m.checkpoints)
	return out
}

// testRunState construye un run state válido de prueba.
func testRunState(runID string) *domain.RunState {
	targets := make([]*domain.Target, 0, domain.Cardinality)
	for i := 0; i < domain.Cardinality; i++ {
		targets = append(targets, domain.NewTarget(
			fmt.Sprintf("Company %d", i),
			fmt.Sprintf("https://company-%d.example.com/careers", i),
		))
	}
	return domain.NewRunState(runID, targets)
}
