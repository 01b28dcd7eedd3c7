package models

// EventImpact stores the deterministic analyzer's output for one event.
// Pointer fields distinguish "not computed" (nil) from a measured zero,
// since a domain's metrics may be entirely absent for an event window.
type EventImpact struct {
	ID        int64  `json:"id" db:"id"`
	EventID   int64  `json:"event_id" db:"event_id"`
	EventName string `json:"event_name,omitempty" db:"event_name"`

	// Tourism impact
	BaselineDailyVisitors    *int64   `json:"baseline_daily_visitors,omitempty" db:"baseline_daily_visitors"`
	EventPeriodDailyVisitors *int64   `json:"event_period_daily_visitors,omitempty" db:"event_period_daily_visitors"`
	VisitorIncreasePct       *float64 `json:"visitor_increase_pct,omitempty" db:"visitor_increase_pct"`
	AdditionalVisitors       *int64   `json:"additional_visitors,omitempty" db:"additional_visitors"`

	// Hotel impact
	BaselineOccupancyPct  *float64 `json:"baseline_occupancy_pct,omitempty" db:"baseline_occupancy_pct"`
	EventOccupancyPct     *float64 `json:"event_occupancy_pct,omitempty" db:"event_occupancy_pct"`
	OccupancyIncreasePct  *float64 `json:"occupancy_increase_pct,omitempty" db:"occupancy_increase_pct"`
	BaselineAvgPriceUSD   *float64 `json:"baseline_avg_price_usd,omitempty" db:"baseline_avg_price_usd"`
	EventAvgPriceUSD      *float64 `json:"event_avg_price_usd,omitempty" db:"event_avg_price_usd"`
	PriceIncreasePct      *float64 `json:"price_increase_pct,omitempty" db:"price_increase_pct"`

	// Economic impact
	TotalEconomicImpactUSD *float64 `json:"total_economic_impact_usd,omitempty" db:"total_economic_impact_usd"`
	DirectSpendingUSD      *float64 `json:"direct_spending_usd,omitempty" db:"direct_spending_usd"`
	IndirectSpendingUSD    *float64 `json:"indirect_spending_usd,omitempty" db:"indirect_spending_usd"`
	InducedSpendingUSD     *float64 `json:"induced_spending_usd,omitempty" db:"induced_spending_usd"`
	JobsCreated            *int64   `json:"jobs_created,omitempty" db:"jobs_created"`
	TaxRevenueUSD          *float64 `json:"tax_revenue_usd,omitempty" db:"tax_revenue_usd"`

	// ROI metrics
	EventCostUSD *float64 `json:"event_cost_usd,omitempty" db:"event_cost_usd"`
	ROIRatio     *float64 `json:"roi_ratio,omitempty" db:"roi_ratio"`

	// Mobility impact
	AirportArrivalsIncreasePct  *float64 `json:"airport_arrivals_increase_pct,omitempty" db:"airport_arrivals_increase_pct"`
	PublicTransportIncreasePct  *float64 `json:"public_transport_increase_pct,omitempty" db:"public_transport_increase_pct"`
	TrafficCongestionIncreasePct *float64 `json:"traffic_congestion_increase_pct,omitempty" db:"traffic_congestion_increase_pct"`

	// Analysis windows used
	DaysBeforeAnalyzed int `json:"days_before_analyzed" db:"days_before_analyzed"`
	DaysAfterAnalyzed  int `json:"days_after_analyzed" db:"days_after_analyzed"`

	CalculatedAt string `json:"calculated_at,omitempty" db:"calculated_at"`
}

// Float64Ptr returns a pointer to v. Convenience for building impact rows.
func Float64Ptr(v float64) *float64 { return &v }

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 { return &v }
