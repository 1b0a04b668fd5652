package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ImpulseScan/internal/domain/models"
	"ImpulseScan/pkg/util"

	"github.com/shopspring/decimal"
)

const summaryTimeLayout = "2006-01-02 15:04:05"

// IsImpulse reports |change| >= threshold. The bound is inclusive and both
// directions count.
func IsImpulse(change, threshold float64) bool {
	if math.IsNaN(change) {
		return false
	}
	return decimal.NewFromFloat(change).Abs().GreaterThanOrEqual(decimal.NewFromFloat(threshold))
}

// BuildSummaryText renders the pass summary block used in logs and alerts.
func BuildSummaryText(s models.ScanSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scan Time (UTC): %s\n", s.StartedAt.UTC().Format(summaryTimeLayout))
	fmt.Fprintf(&b, "Symbols Scanned: %d\n", s.Attempted)
	fmt.Fprintf(&b, "Impulse Alerts: %d\n", s.Impulses)
	fmt.Fprintf(&b, "Errors: %d\n", s.Errors)
	fmt.Fprintf(&b, "Runtime: %d seconds\n", s.ElapsedSeconds())
	return b.String()
}

// BuildAlert assembles the single aggregated alert of a pass.
func BuildAlert(cfg ScanConfig, s models.ScanSummary, impulses []models.ImpulseRecord, now time.Time) *models.Alert {
	bar := util.BarLabel(cfg.Bar)
	th := strconv.FormatFloat(cfg.Threshold, 'f', -1, 64)

	recs := make([]models.ImpulseRecord, len(impulses))
	copy(recs, impulses)

	return &models.Alert{
		PassID:      s.PassID,
		Title:       fmt.Sprintf("Crypto %s Impulse Alerts (≥ %s%%)", bar, th),
		Headline:    fmt.Sprintf("IMPULSE BREAKOUTS (Single %s ≥ %s%%)", bar, th),
		Impulses:    recs,
		Summary:     s,
		SummaryText: BuildSummaryText(s),
		CreatedAt:   now.UTC(),
	}
}
