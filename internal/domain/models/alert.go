package models

import (
	"fmt"
	"strings"
	"time"
)

// Alert is the single aggregated notification of a pass.
type Alert struct {
	PassID      string          `json:"pass_id"`
	Title       string          `json:"title"`
	Headline    string          `json:"headline"`
	Impulses    []ImpulseRecord `json:"impulses"`
	Summary     ScanSummary     `json:"summary"`
	SummaryText string          `json:"summary_text"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FormatImpulseLine renders "INST: +X.XX%".
func FormatImpulseLine(r ImpulseRecord) string {
	return fmt.Sprintf("%s: %+.2f%%", r.InstID, r.Change)
}

// Body is the plain-text message: headline, one line per impulse, then the summary.
func (a *Alert) Body() string {
	var b strings.Builder
	b.WriteString(a.Headline)
	b.WriteString("\n\n")
	for _, r := range a.Impulses {
		b.WriteString(FormatImpulseLine(r))
		b.WriteByte('\n')
	}
	b.WriteString("\nSUMMARY\n")
	b.WriteString(a.SummaryText)
	return b.String()
}
