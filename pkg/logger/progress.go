package logger

import (
	"fmt"
	"time"
)

// ProgressTracker reports progress of long-running batch operations, such as
// scanning a large statement against the ledger.
type ProgressTracker struct {
	operation string
	total     int64
	current   int64
	started   time.Time
	lastLog   time.Time
	interval  time.Duration
	logger    Logger
}

// NewProgressTracker creates a tracker that logs progress at most once per
// interval. A zero interval defaults to five seconds.
func NewProgressTracker(operation string, total int64, interval time.Duration, log Logger) *ProgressTracker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if log == nil {
		log = GetGlobalLogger()
	}
	return &ProgressTracker{
		operation: operation,
		total:     total,
		started:   time.Now(),
		interval:  interval,
		logger:    log.WithComponent("progress"),
	}
}

// Increment advances progress by one item.
func (p *ProgressTracker) Increment() {
	p.Update(p.current + 1)
}

// Update sets the current progress and logs if the interval elapsed.
func (p *ProgressTracker) Update(current int64) {
	p.current = current
	now := time.Now()
	if now.Sub(p.lastLog) < p.interval && current < p.total {
		return
	}
	p.lastLog = now
	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": p.current,
		"total":     p.total,
		"elapsed":   now.Sub(p.started).Round(time.Millisecond).String(),
	}).Info(p.describe())
}

// Complete logs the final state of the operation.
func (p *ProgressTracker) Complete() {
	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": p.current,
		"elapsed":   time.Since(p.started).Round(time.Millisecond).String(),
	}).Infof("%s completed", p.operation)
}

func (p *ProgressTracker) describe() string {
	if p.total <= 0 {
		return fmt.Sprintf("%s: %d processed", p.operation, p.current)
	}
	pct := float64(p.current) / float64(p.total) * 100
	return fmt.Sprintf("%s: %d/%d (%.1f%%)", p.operation, p.current, p.total, pct)
}
