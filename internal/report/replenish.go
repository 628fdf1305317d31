package report

import "math"

// ReplenishmentInput carries the per-row signals the shipment formula needs.
// LastWeekShipped is nil when the most recent weekly export did not cover the
// SKU yet; "unknown" is not the same as zero and is excluded from the
// calculation.
type ReplenishmentInput struct {
	Forecast        float64
	Inbound         float64
	OnHand          float64
	LastWeekShipped *float64
}

// RecommendedShipment computes how many units to send in.
//
// The inbound-quantity report lags: units shipped in the most recent week may
// not be counted yet. When last week's shipment exceeds the reported inbound
// figure it is assumed to be additional in-transit stock and added on top;
// otherwise the report already covers it.
func RecommendedShipment(in ReplenishmentInput) float64 {
	effectiveInbound := in.Inbound
	if in.LastWeekShipped != nil && *in.LastWeekShipped > in.Inbound {
		effectiveInbound = in.Inbound + *in.LastWeekShipped
	}
	return math.Max(0, in.Forecast-(effectiveInbound+in.OnHand))
}
