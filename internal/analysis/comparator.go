package analysis

import (
	"fmt"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/stats"
)

// MetricSource provides daily metric rows for a city and date range.
// Implemented by repository.MetricRepository; tests use in-memory fakes.
type MetricSource interface {
	TourismBetween(city, from, to string) ([]models.TourismMetric, error)
	HotelBetween(city, from, to string) ([]models.HotelMetric, error)
	EconomicBetween(city, from, to string) ([]models.EconomicMetric, error)
	MobilityBetween(city, from, to string) ([]models.MobilityMetric, error)
}

// MetricComparison holds the baseline and event-period means of one metric.
// ChangePct is relative (percent of baseline) for most metrics; for metrics
// already expressed in percentage points (occupancy rate) it is the point
// difference instead.
type MetricComparison struct {
	Baseline    float64 `json:"baseline"`
	EventPeriod float64 `json:"event_period"`
	ChangePct   float64 `json:"change_pct"`
}

// DomainComparison maps metric names to their comparisons within one domain
type DomainComparison map[string]MetricComparison

// ComparisonResult is the full baseline-vs-event comparison for one event.
// Domains missing rows in the baseline window or the event window are
// omitted from the map rather than compared against fabricated zeros.
type ComparisonResult struct {
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
	City      string `json:"city"`

	BaselineStart string `json:"baseline_start"`
	BaselineEnd   string `json:"baseline_end"`
	EventStart    string `json:"event_start"`
	EventEnd      string `json:"event_end"`

	Domains map[models.MetricDomain]DomainComparison `json:"domains"`
}

// Comparator compares metric windows before and during an event
type Comparator struct {
	source     MetricSource
	beforeDays int
	gapDays    int
}

// NewComparator creates a comparator. beforeDays is the baseline window
// length; gapDays separates the baseline window from the event start.
func NewComparator(source MetricSource, beforeDays, gapDays int) *Comparator {
	return &Comparator{source: source, beforeDays: beforeDays, gapDays: gapDays}
}

// RelativeChange returns the percent change from baseline to event value.
// A non-positive baseline yields 0 rather than a division blowup.
func RelativeChange(baseline, event float64) float64 {
	if baseline > 0 {
		return (event - baseline) / baseline * 100
	}
	return 0
}

// Compare computes per-metric baseline and event-period means for every
// domain that has data. Baseline window is [start-gap-before, start-gap-1],
// event window is [start, end], both inclusive.
func (c *Comparator) Compare(event *models.Event) (*ComparisonResult, error) {
	start, err := event.Start()
	if err != nil {
		return nil, fmt.Errorf("invalid event start date %q: %w", event.StartDate, err)
	}
	if _, err := event.End(); err != nil {
		return nil, fmt.Errorf("invalid event end date %q: %w", event.EndDate, err)
	}

	baseFrom := start.AddDate(0, 0, -(c.gapDays + c.beforeDays)).Format("2006-01-02")
	baseTo := start.AddDate(0, 0, -(c.gapDays + 1)).Format("2006-01-02")

	result := &ComparisonResult{
		EventID:       event.ID,
		EventName:     event.Name,
		City:          event.City,
		BaselineStart: baseFrom,
		BaselineEnd:   baseTo,
		EventStart:    event.StartDate,
		EventEnd:      event.EndDate,
		Domains:       make(map[models.MetricDomain]DomainComparison),
	}

	if err := c.compareTourism(result, baseFrom, baseTo, event); err != nil {
		return nil, err
	}
	if err := c.compareHotel(result, baseFrom, baseTo, event); err != nil {
		return nil, err
	}
	if err := c.compareEconomic(result, baseFrom, baseTo, event); err != nil {
		return nil, err
	}
	if err := c.compareMobility(result, baseFrom, baseTo, event); err != nil {
		return nil, err
	}

	return result, nil
}

// sample is one dated observation of several named metrics
type sample struct {
	date   string
	values map[string]float64
}

// windowMeans collapses duplicate dates to per-date means, then averages
// across dates. Duplicated days therefore do not outweigh single days.
func windowMeans(samples []sample) map[string]float64 {
	if len(samples) == 0 {
		return nil
	}

	perDate := make(map[string]map[string][]float64)
	for _, s := range samples {
		if perDate[s.date] == nil {
			perDate[s.date] = make(map[string][]float64)
		}
		for name, v := range s.values {
			perDate[s.date][name] = append(perDate[s.date][name], v)
		}
	}

	byMetric := make(map[string][]float64)
	for _, metrics := range perDate {
		for name, vals := range metrics {
			byMetric[name] = append(byMetric[name], stats.Mean(vals))
		}
	}

	means := make(map[string]float64, len(byMetric))
	for name, vals := range byMetric {
		means[name] = stats.Mean(vals)
	}
	return means
}

// buildDomain assembles a DomainComparison for metrics present in either
// window. pointMetrics names metrics whose change is a point difference.
func buildDomain(baseline, event map[string]float64, pointMetrics map[string]bool) DomainComparison {
	dc := make(DomainComparison)
	seen := make(map[string]bool)
	for name := range baseline {
		seen[name] = true
	}
	for name := range event {
		seen[name] = true
	}
	for name := range seen {
		b := baseline[name]
		e := event[name]
		var change float64
		if pointMetrics[name] {
			change = e - b
		} else {
			change = RelativeChange(b, e)
		}
		dc[name] = MetricComparison{Baseline: b, EventPeriod: e, ChangePct: change}
	}
	return dc
}

func (c *Comparator) compareTourism(result *ComparisonResult, baseFrom, baseTo string, event *models.Event) error {
	toSamples := func(rows []models.TourismMetric) []sample {
		out := make([]sample, 0, len(rows))
		for _, m := range rows {
			out = append(out, sample{date: m.Date, values: map[string]float64{
				"total_visitors":               float64(m.TotalVisitors),
				"domestic_visitors":            float64(m.DomesticVisitors),
				"international_visitors":       float64(m.InternationalVisitors),
				"avg_stay_duration_days":       m.AvgStayDurationDays,
				"avg_spending_per_visitor_usd": m.AvgSpendingPerVisitor,
			}})
		}
		return out
	}

	baseRows, err := c.source.TourismBetween(event.City, baseFrom, baseTo)
	if err != nil {
		return fmt.Errorf("failed to load baseline tourism metrics: %w", err)
	}
	eventRows, err := c.source.TourismBetween(event.City, event.StartDate, event.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load event tourism metrics: %w", err)
	}
	if len(baseRows) == 0 || len(eventRows) == 0 {
		return nil
	}

	result.Domains[models.DomainTourism] = buildDomain(
		windowMeans(toSamples(baseRows)), windowMeans(toSamples(eventRows)), nil)
	return nil
}

func (c *Comparator) compareHotel(result *ComparisonResult, baseFrom, baseTo string, event *models.Event) error {
	toSamples := func(rows []models.HotelMetric) []sample {
		out := make([]sample, 0, len(rows))
		for _, m := range rows {
			out = append(out, sample{date: m.Date, values: map[string]float64{
				"occupancy_rate_pct": m.OccupancyRatePct,
				"avg_price_usd":      m.AvgPriceUSD,
				"revpar_usd":         m.RevPARUSD,
			}})
		}
		return out
	}

	baseRows, err := c.source.HotelBetween(event.City, baseFrom, baseTo)
	if err != nil {
		return fmt.Errorf("failed to load baseline hotel metrics: %w", err)
	}
	eventRows, err := c.source.HotelBetween(event.City, event.StartDate, event.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load event hotel metrics: %w", err)
	}
	if len(baseRows) == 0 || len(eventRows) == 0 {
		return nil
	}

	// Occupancy is already a percentage, so its boost is a point difference
	result.Domains[models.DomainHotel] = buildDomain(
		windowMeans(toSamples(baseRows)), windowMeans(toSamples(eventRows)),
		map[string]bool{"occupancy_rate_pct": true})
	return nil
}

func (c *Comparator) compareEconomic(result *ComparisonResult, baseFrom, baseTo string, event *models.Event) error {
	toSamples := func(rows []models.EconomicMetric) []sample {
		out := make([]sample, 0, len(rows))
		for _, m := range rows {
			out = append(out, sample{date: m.Date, values: map[string]float64{
				"total_spending_usd":         m.TotalSpendingUSD,
				"accommodation_spending_usd": m.AccommodationSpendingUSD,
				"food_beverage_spending_usd": m.FoodBeverageSpendingUSD,
				"retail_spending_usd":        m.RetailSpendingUSD,
				"temporary_jobs_created":     float64(m.TemporaryJobsCreated),
				"estimated_tax_revenue_usd":  m.EstimatedTaxRevenueUSD,
			}})
		}
		return out
	}

	baseRows, err := c.source.EconomicBetween(event.City, baseFrom, baseTo)
	if err != nil {
		return fmt.Errorf("failed to load baseline economic metrics: %w", err)
	}
	eventRows, err := c.source.EconomicBetween(event.City, event.StartDate, event.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load event economic metrics: %w", err)
	}
	if len(baseRows) == 0 || len(eventRows) == 0 {
		return nil
	}

	result.Domains[models.DomainEconomic] = buildDomain(
		windowMeans(toSamples(baseRows)), windowMeans(toSamples(eventRows)), nil)
	return nil
}

func (c *Comparator) compareMobility(result *ComparisonResult, baseFrom, baseTo string, event *models.Event) error {
	toSamples := func(rows []models.MobilityMetric) []sample {
		out := make([]sample, 0, len(rows))
		for _, m := range rows {
			out = append(out, sample{date: m.Date, values: map[string]float64{
				"airport_arrivals":         float64(m.AirportArrivals),
				"international_flights":    float64(m.InternationalFlights),
				"public_transport_usage":   float64(m.PublicTransportUsage),
				"traffic_congestion_index": m.TrafficCongestionIndex,
			}})
		}
		return out
	}

	baseRows, err := c.source.MobilityBetween(event.City, baseFrom, baseTo)
	if err != nil {
		return fmt.Errorf("failed to load baseline mobility metrics: %w", err)
	}
	eventRows, err := c.source.MobilityBetween(event.City, event.StartDate, event.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load event mobility metrics: %w", err)
	}
	if len(baseRows) == 0 || len(eventRows) == 0 {
		return nil
	}

	result.Domains[models.DomainMobility] = buildDomain(
		windowMeans(toSamples(baseRows)), windowMeans(toSamples(eventRows)), nil)
	return nil
}

// Metric returns the comparison for one metric, with ok reporting presence
func (r *ComparisonResult) Metric(domain models.MetricDomain, name string) (MetricComparison, bool) {
	dc, ok := r.Domains[domain]
	if !ok {
		return MetricComparison{}, false
	}
	mc, ok := dc[name]
	return mc, ok
}
