package report

import "time"

// Report is the terminal output of one triage run.
type Report struct {
	Target        string        `json:"target"`
	TargetKind    string        `json:"target_kind"`
	SessionID     string        `json:"session_id,omitempty"`
	SessionStatus string        `json:"session_status"`
	Polls         int           `json:"polls"`
	RecordCount   int           `json:"record_count"`
	Summary       Summary       `json:"summary"`
	Findings      []Finding     `json:"findings"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Requests      int64         `json:"requests"`
	RequestTime   time.Duration `json:"-"`
}
