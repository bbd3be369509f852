package monitor

import "time"

// OpMetrics captures one ingest or search operation.
type OpMetrics struct {
	Op       string        `json:"op"`
	Chunks   int           `json:"chunks,omitempty"`
	Results  int           `json:"results,omitempty"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// Summary aggregates recorded operations since startup (or the last reset).
type Summary struct {
	TotalOps      int            `json:"total_ops"`
	TotalErrors   int            `json:"total_errors"`
	TotalChunks   int            `json:"total_chunks"`
	TotalResults  int            `json:"total_results"`
	TotalDuration time.Duration  `json:"total_duration"`
	OpsByName     map[string]int `json:"ops_by_name"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
}
