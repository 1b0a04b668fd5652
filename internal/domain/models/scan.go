package models

import "time"

type ResultStatus string

const (
	StatusMeasured ResultStatus = "measured"
	StatusFailed   ResultStatus = "failed"
)

// ScanResult is the outcome for one instrument of a pass.
type ScanResult struct {
	InstID  string       `json:"inst_id"`
	Status  ResultStatus `json:"status"`
	Change  float64      `json:"change"`
	Impulse bool         `json:"impulse,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type ImpulseRecord struct {
	InstID string  `json:"inst_id"`
	Change float64 `json:"change"`
}

type ScanSummary struct {
	PassID    string        `json:"pass_id"`
	StartedAt time.Time     `json:"started_at"`
	Attempted int           `json:"attempted"`
	Impulses  int           `json:"impulses"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// ElapsedSeconds is the wall-clock duration truncated to whole seconds.
func (s ScanSummary) ElapsedSeconds() int64 {
	return int64(s.Duration / time.Second)
}

// PassReport is everything a pass produced. Results are in scan order,
// Impulses in encounter order.
type PassReport struct {
	Summary     ScanSummary     `json:"summary"`
	Impulses    []ImpulseRecord `json:"impulses"`
	Results     []ScanResult    `json:"results"`
	Notified    bool            `json:"notified"`
	NotifyError string          `json:"notify_error,omitempty"`
}

// Filter returns up to limit results with the given status. "all" matches
// everything and "impulse" matches measured results over the threshold.
func (r *PassReport) Filter(status string, limit int) []ScanResult {
	out := make([]ScanResult, 0)
	for _, res := range r.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		switch status {
		case "", "all":
		case "impulse":
			if !res.Impulse {
				continue
			}
		default:
			if string(res.Status) != status {
				continue
			}
		}
		out = append(out, res)
	}
	return out
}

// ResultsRequest is the query of GET /api/scan/results.
type ResultsRequest struct {
	Status string `query:"status" default:"all" validate:"oneof=all measured failed impulse"`
	Limit  int    `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}
