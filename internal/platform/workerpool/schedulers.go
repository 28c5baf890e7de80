// internal/platform/workerpool/schedulers.go
package workerpool

// FIFOScheduler conserva el orden de entrada del batch.
type FIFOScheduler struct{}

// NewFIFOScheduler crea un scheduler FIFO.
func NewFIFOScheduler() *FIFOScheduler {
	return &FIFOScheduler{}
}

// Schedule retorna las tareas en su orden original.
func (s *FIFOScheduler) Schedule(tasks []Task) []Task {
	scheduled := make([]Task, len(tasks))
	copy(scheduled, tasks)
	return scheduled
}

// Name retorna el nombre del scheduler.
func (s *FIFOScheduler) Name() string {
	return "fifo"
}

// HostSpreadScheduler intercala tareas de hosts distintos para que las
// unidades en vuelo simultáneo no concentren peticiones sobre el mismo
// dominio registrado (mismo ATS detrás de varias companies).
type HostSpreadScheduler struct{}

// NewHostSpreadScheduler crea un scheduler de dispersión por host.
func NewHostSpreadScheduler() *HostSpreadScheduler {
	return &HostSpreadScheduler{}
}

// Schedule agrupa por host y emite en round-robin entre grupos,
// conservando el orden relativo dentro de cada host.
func (s *HostSpreadScheduler) Schedule(tasks []Task) []Task {
	if len(tasks) <= 1 {
		scheduled := make([]Task, len(tasks))
		copy(scheduled, tasks)
		return scheduled
	}

	var order []string
	groups := make(map[string][]Task)
	for _, t := range tasks {
		host := t.Host()
		if _, seen := groups[host]; !seen {
			order = append(order, host)
		}
		groups[host] = append(groups[host], t)
	}

	scheduled := make([]Task, 0, len(tasks))
	for len(scheduled) < len(tasks) {
		for _, host := range order {
			if len(groups[host]) == 0 {
				continue
			}
			scheduled = append(scheduled, groups[host][0])
			groups[host] = groups[host][1:]
		}
	}
	return scheduled
}

// Name retorna el nombre del scheduler.
func (s *HostSpreadScheduler) Name() string {
	return "host-spread"
}
