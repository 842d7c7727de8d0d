package websocket

import (
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
)

// Optimizer event types.
const (
	EventOptimizationChange    = "optimization.change"
	EventOptimizationCompleted = "optimization.completed"
)

// ChangeEvent is the payload of an optimization.change event.
type ChangeEvent struct {
	RunID  string            `json:"runId"`
	Index  int               `json:"index"`
	Change budget.DeckChange `json:"change"`
}

// CompletedEvent is the payload of an optimization.completed event.
type CompletedEvent struct {
	RunID          string  `json:"runId"`
	Changes        int     `json:"changes"`
	OriginalCost   float64 `json:"originalCost"`
	TotalCost      float64 `json:"totalCost"`
	Recommendation string  `json:"recommendation"`
	SnapshotID     string  `json:"snapshotId,omitempty"`
}

// OptimizationPublisher forwards the progress of one optimizer run to
// websocket clients.
type OptimizationPublisher struct {
	hub   *Hub
	runID string
	count int
}

// NewOptimizationPublisher creates a publisher for the run identified by runID.
func NewOptimizationPublisher(hub *Hub, runID string) *OptimizationPublisher {
	return &OptimizationPublisher{hub: hub, runID: runID}
}

// OnChange broadcasts one applied change. The optimizer calls it
// sequentially, in application order.
func (p *OptimizationPublisher) OnChange(change budget.DeckChange) {
	p.count++
	if !p.listening() {
		return
	}
	p.hub.PublishRun(p.runID, Event{
		Type: EventOptimizationChange,
		Data: ChangeEvent{RunID: p.runID, Index: p.count, Change: change},
	})
}

// Completed broadcasts the end of the run.
func (p *OptimizationPublisher) Completed(report *budget.Report, snapshotID string) {
	if report == nil || !p.listening() {
		return
	}
	p.hub.PublishRun(p.runID, Event{
		Type: EventOptimizationCompleted,
		Data: CompletedEvent{
			RunID:          p.runID,
			Changes:        len(report.Changes),
			OriginalCost:   report.OriginalCost,
			TotalCost:      report.TotalCost,
			Recommendation: report.Recommendation,
			SnapshotID:     snapshotID,
		},
	})
}

// listening reports whether any client follows this run. Events are only
// sent while it holds.
func (p *OptimizationPublisher) listening() bool {
	return p.hub != nil && p.hub.Subscribers(p.runID) > 0
}
