package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestRecommendedShipment(t *testing.T) {
	tests := []struct {
		name string
		in   ReplenishmentInput
		want float64
	}{
		{
			name: "last week exceeds reported inbound",
			in:   ReplenishmentInput{Forecast: 50, Inbound: 10, OnHand: 5, LastWeekShipped: floatPtr(15)},
			want: 20, // effective inbound 25
		},
		{
			name: "last week already covered by inbound report",
			in:   ReplenishmentInput{Forecast: 50, Inbound: 10, OnHand: 5, LastWeekShipped: floatPtr(8)},
			want: 35,
		},
		{
			name: "unknown last week excluded",
			in:   ReplenishmentInput{Forecast: 50, Inbound: 10, OnHand: 5},
			want: 35,
		},
		{
			name: "well stocked clamps to zero",
			in:   ReplenishmentInput{Forecast: 10, Inbound: 20, OnHand: 30},
			want: 0,
		},
		{
			name: "zero forecast",
			in:   ReplenishmentInput{Forecast: 0, Inbound: 0, OnHand: 0},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendedShipment(tt.in))
		})
	}
}

func TestRecommendedShipmentNeverNegative(t *testing.T) {
	inputs := []ReplenishmentInput{
		{Forecast: 0, Inbound: 100, OnHand: 100, LastWeekShipped: floatPtr(500)},
		{Forecast: 1, Inbound: 0, OnHand: 1000},
		{Forecast: 100, Inbound: 99, OnHand: 1, LastWeekShipped: floatPtr(100)},
	}
	for _, in := range inputs {
		assert.GreaterOrEqual(t, RecommendedShipment(in), 0.0, "%+v", in)
	}
}
