package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/forumcore/internal/data/aggregates"
	"github.com/yungbote/forumcore/internal/data/cascade"
)

// HooksRecorder captures aggregate hook signals in tests. It is safe for
// concurrent aggregate calls.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
	Deleted    map[string]int64
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *HooksRecorder) ObserveCascade(_ string, rep *cascade.Report) {
	if rep == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Deleted == nil {
		h.Deleted = map[string]int64{}
	}
	for table, n := range rep.Deleted {
		h.Deleted[table] += n
	}
}

// Statuses returns the recorded statuses of operation name, in call order.
func (h *HooksRecorder) Statuses(name string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, op := range h.Operations {
		if op.Name == name {
			out = append(out, op.Status)
		}
	}
	return out
}
