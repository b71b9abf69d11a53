package jobs

import (
	"sync"
	"time"
)

// MetricsData is a point-in-time copy of the job counters
type MetricsData struct {
	JobsCreated          int64         `json:"jobs_created"`
	JobsCompleted        int64         `json:"jobs_completed"`
	JobsFailed           int64         `json:"jobs_failed"`
	AverageExecutionTime time.Duration `json:"average_execution_time_ns"`
	SuccessRate          float64       `json:"success_rate"`
}

// Metrics tracks job outcomes
type Metrics struct {
	mu                 sync.Mutex
	created            int64
	completed          int64
	failed             int64
	totalExecutionTime time.Duration
}

// NewMetrics creates an empty metrics collector
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordCreated counts a new job
func (m *Metrics) RecordCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

// RecordCompleted counts a successful job and its run time
func (m *Metrics) RecordCompleted(executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed++
	m.totalExecutionTime += executionTime
}

// RecordFailed counts a failed job
func (m *Metrics) RecordFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsData {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := MetricsData{
		JobsCreated:   m.created,
		JobsCompleted: m.completed,
		JobsFailed:    m.failed,
	}
	if m.completed > 0 {
		data.AverageExecutionTime = m.totalExecutionTime / time.Duration(m.completed)
	}
	if finished := m.completed + m.failed; finished > 0 {
		data.SuccessRate = float64(m.completed) / float64(finished)
	}
	return data
}
