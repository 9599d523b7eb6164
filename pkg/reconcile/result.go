package reconcile

import (
	"fmt"
	"sync"
	"time"

	"github.com/maryline/catalogsync/pkg/catalog"
)

// Counts are the per-kind outcome counters of a run.
type Counts struct {
	Created int `json:"created" yaml:"created"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Add returns the sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{Created: c.Created + o.Created, Skipped: c.Skipped + o.Skipped, Failed: c.Failed + o.Failed}
}

// Row is one line of a summary report.
type Row struct {
	Kind catalog.Kind `json:"kind" yaml:"kind"`
	Counts
}

// Summary is the structured report of a run.
type Summary struct {
	Scope      Scope                   `json:"scope" yaml:"scope"`
	StartedAt  time.Time               `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time               `json:"finished_at" yaml:"finished_at"`
	Counts     map[catalog.Kind]Counts `json:"counts" yaml:"counts"`

	mu sync.Mutex
}

// NewSummary creates an empty summary for scope.
func NewSummary(scope Scope) *Summary {
	return &Summary{
		Scope:  scope,
		Counts: make(map[catalog.Kind]Counts),
	}
}

func (s *Summary) update(kind catalog.Kind, f func(*Counts)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.Counts[kind]
	f(&c)
	s.Counts[kind] = c
}

func (s *Summary) created(kind catalog.Kind) { s.update(kind, func(c *Counts) { c.Created++ }) }
func (s *Summary) skipped(kind catalog.Kind) { s.update(kind, func(c *Counts) { c.Skipped++ }) }
func (s *Summary) failed(kind catalog.Kind)  { s.update(kind, func(c *Counts) { c.Failed++ }) }

// Get returns the counters of kind.
func (s *Summary) Get(kind catalog.Kind) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Counts[kind]
}

// Rows returns the counters of every kind in reporting order.
func (s *Summary) Rows() []Row {
	rows := make([]Row, 0, len(catalog.Kinds))
	for _, kind := range catalog.Kinds {
		rows = append(rows, Row{Kind: kind, Counts: s.Get(kind)})
	}
	return rows
}

// Totals returns the counters summed over all kinds.
func (s *Summary) Totals() Counts {
	var total Counts
	for _, r := range s.Rows() {
		total = total.Add(r.Counts)
	}
	return total
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// HasFailures reports whether any unit of work failed.
func (s *Summary) HasFailures() bool {
	return s.Totals().Failed > 0
}

// String returns a human-readable one-line summary.
func (s *Summary) String() string {
	t := s.Totals()
	return fmt.Sprintf("%d created, %d skipped, %d failed", t.Created, t.Skipped, t.Failed)
}
