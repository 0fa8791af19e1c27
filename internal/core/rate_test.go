package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveRate(t *testing.T) {
	settings := DefaultJobSettings()
	berlin := time.FixedZone("CET", 3600)

	tests := []struct {
		name     string
		ts       time.Time
		settings JobSettings
		want     string
	}{
		{"day before switch", time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), settings, "16"},
		{"switch day is inclusive", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), settings, "17"},
		{"after switch", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), settings, "17"},
		{"local day decides", time.Date(2026, 2, 1, 0, 30, 0, 0, berlin), settings, "17"},
		{
			"no scheduled change",
			time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			JobSettings{BaseRate: decimal.NewFromInt(16), FutureRate: decimal.NewFromInt(99)},
			"16",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRate(tt.ts, tt.settings)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ResolveRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEarnings(t *testing.T) {
	got := Earnings(decimal.RequireFromString("7.5"), decimal.RequireFromString("16.333"))
	if !got.Equal(decimal.RequireFromString("122.50")) {
		t.Errorf("Earnings() = %v, want 122.50", got)
	}
}
