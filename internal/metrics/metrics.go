// Package metrics collects in-process pipeline counters: per-stage
// timings, retries and outcomes. Counters are read back through the
// status surface rather than exported to an external system.
package metrics

import (
	"sync"
	"time"

	"github.com/tailorflow/tailorflow/internal/models"
)

// StageStats aggregates observations for one stage.
type StageStats struct {
	Runs      int           `json:"runs"`
	Failures  int           `json:"failures"`
	Retries   int           `json:"retries"`
	TotalTime time.Duration `json:"total_time"`
}

// Collector accumulates pipeline metrics. Safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	stages   map[models.Stage]*StageStats
	tickets  int
	done     int
	review   int
	failed   int
	rejected int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{stages: map[models.Stage]*StageStats{}}
}

// ObserveStage records one stage attempt.
func (c *Collector) ObserveStage(stage models.Stage, d time.Duration, retried, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stages[stage]
	if st == nil {
		st = &StageStats{}
		c.stages[stage] = st
	}
	st.Runs++
	st.TotalTime += d
	if retried {
		st.Retries++
	}
	if failed {
		st.Failures++
	}
}

// TicketSubmitted counts an accepted submission.
func (c *Collector) TicketSubmitted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets++
}

// TicketRejected counts a submission refused at capacity.
func (c *Collector) TicketRejected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected++
}

// TicketFinished counts a terminal transition.
func (c *Collector) TicketFinished(stage models.Stage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch stage {
	case models.StageDone:
		c.done++
	case models.StageNeedsReview:
		c.review++
	case models.StageFailed:
		c.failed++
	}
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Submitted int                         `json:"submitted"`
	Rejected  int                         `json:"rejected"`
	Done      int                         `json:"done"`
	Review    int                         `json:"needs_review"`
	Failed    int                         `json:"failed"`
	Stages    map[models.Stage]StageStats `json:"stages"`
}

// Read returns a snapshot of the collector.
func (c *Collector) Read() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Submitted: c.tickets,
		Rejected:  c.rejected,
		Done:      c.done,
		Review:    c.review,
		Failed:    c.failed,
		Stages:    make(map[models.Stage]StageStats, len(c.stages)),
	}
	for stage, st := range c.stages {
		snap.Stages[stage] = *st
	}
	return snap
}
