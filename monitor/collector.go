// Package monitor provides lightweight in-process metrics for the ingest
// and search pipelines.
package monitor

import (
	"sync"
	"time"
)

type Collector interface {
	Record(metrics OpMetrics)
	Flush() Summary
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	ops       []OpMetrics
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{startTime: time.Now()}
}

func (c *InMemoryCollector) Record(metrics OpMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, metrics)
}

func (c *InMemoryCollector) Flush() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{
		OpsByName: make(map[string]int),
		StartTime: c.startTime,
		EndTime:   time.Now(),
	}
	for _, op := range c.ops {
		s.TotalOps++
		if !op.Success {
			s.TotalErrors++
		}
		s.TotalChunks += op.Chunks
		s.TotalResults += op.Results
		s.TotalDuration += op.Duration
		s.OpsByName[op.Op]++
	}
	return s
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics OpMetrics) {}

func (c *NoOpCollector) Flush() Summary {
	return Summary{OpsByName: map[string]int{}}
}
