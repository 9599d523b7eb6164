package catalogsync

import (
	"sync"

	"github.com/maryline/catalogsync/pkg/reconcile"
)

// Hook function types for run events
type (
	// RunStartedHook is called before a run lists the source catalog
	RunStartedHook func(runID string, scope reconcile.Scope)

	// RunFinishedHook is called after a run, with its error if it aborted
	RunFinishedHook func(runID string, summary *reconcile.Summary, err error)
)

// hooks manages run callbacks
type hooks struct {
	mu         sync.RWMutex
	onStarted  []RunStartedHook
	onFinished []RunFinishedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRunStarted registers a callback for run start
func (h *hooks) OnRunStarted(fn RunStartedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStarted = append(h.onStarted, fn)
}

// OnRunFinished registers a callback for run completion
func (h *hooks) OnRunFinished(fn RunFinishedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFinished = append(h.onFinished, fn)
}

func (h *hooks) started(runID string, scope reconcile.Scope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onStarted {
		fn(runID, scope)
	}
}

func (h *hooks) finished(runID string, summary *reconcile.Summary, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onFinished {
		fn(runID, summary, err)
	}
}
