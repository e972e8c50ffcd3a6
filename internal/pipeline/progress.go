package pipeline

import "sync"

type State string

const (
	StateIdle            State = "idle"
	StateFetchingCatalog State = "fetching_catalog"
	StateResumeMatching  State = "resume_matching"
	StateBatching        State = "batching"
	StateFinalizing      State = "finalizing"
	StateDone            State = "done"
)

// ProgressFunc is the stateless reporting contract the driver invokes
// at coarse milestones. Percent is 0..100.
type ProgressFunc func(percent int, message string)

type Progress struct {
	State     State  `json:"state"`
	Percent   int    `json:"percent"`
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
}

type progressTracker struct {
	mu  sync.RWMutex
	cur Progress
}

func newProgressTracker() *progressTracker {
	return &progressTracker{cur: Progress{State: StateIdle}}
}

func (p *progressTracker) set(state State, percent int, message string, processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur = Progress{
		State:     state,
		Percent:   percent,
		Message:   message,
		Processed: processed,
		Total:     total,
	}
}

func (p *progressTracker) get() Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur
}
