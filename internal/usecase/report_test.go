package usecase

import (
	"testing"
	"time"

	"ImpulseScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestIsImpulseBoundary(t *testing.T) {
	cases := []struct {
		change float64
		want   bool
	}{
		{6.0, true},
		{-6.0, true},
		{5.999999, false},
		{-5.99, false},
		{12.3, true},
		{0, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsImpulse(tc.change, 6.0), "change %v", tc.change)
	}
}

func TestBuildSummaryText(t *testing.T) {
	s := models.ScanSummary{
		StartedAt: time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC),
		Attempted: 310,
		Impulses:  2,
		Errors:    1,
		Duration:  75*time.Second + 900*time.Millisecond,
	}
	want := "Scan Time (UTC): 2024-03-09 07:05:00\n" +
		"Symbols Scanned: 310\n" +
		"Impulse Alerts: 2\n" +
		"Errors: 1\n" +
		"Runtime: 75 seconds\n"
	assert.Equal(t, want, BuildSummaryText(s))
}

func TestBuildAlert(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Bar = "1Dutc"
	cfg.Threshold = 4.5
	impulses := []models.ImpulseRecord{{InstID: "A-USDT-SWAP", Change: 5}}

	a := BuildAlert(cfg, models.ScanSummary{PassID: "p1"}, impulses, time.Unix(0, 0))
	assert.Equal(t, "p1", a.PassID)
	assert.Equal(t, "Crypto 1D Impulse Alerts (≥ 4.5%)", a.Title)
	assert.Contains(t, a.Body(), "A-USDT-SWAP: +5.00%")
	assert.Contains(t, a.Body(), "Symbols Scanned: 0")

	impulses[0].InstID = "changed"
	assert.Equal(t, "A-USDT-SWAP", a.Impulses[0].InstID, "alert owns its records")
}
