package analysis

import (
	"math"

	"github.com/evently/evently-backend-go/internal/models"
)

// Economic multipliers for supplier-chain and re-spending effects.
// Applied to the measured direct spending delta.
const (
	indirectMultiplier = 0.4
	inducedMultiplier  = 0.3
)

// ImpactAnalyzer derives a deterministic EventImpact from a window
// comparison. It never estimates: a domain absent from the comparison
// leaves the corresponding impact fields nil.
type ImpactAnalyzer struct {
	comparator *Comparator
	beforeDays int
	afterDays  int
}

// NewImpactAnalyzer creates an analyzer around an existing comparator.
// beforeDays and afterDays are recorded on the impact for provenance.
func NewImpactAnalyzer(comparator *Comparator, beforeDays, afterDays int) *ImpactAnalyzer {
	return &ImpactAnalyzer{comparator: comparator, beforeDays: beforeDays, afterDays: afterDays}
}

// Analyze compares windows for the event and derives its measured impact
func (a *ImpactAnalyzer) Analyze(event *models.Event) (*models.EventImpact, *ComparisonResult, error) {
	comparison, err := a.comparator.Compare(event)
	if err != nil {
		return nil, nil, err
	}

	impact := a.Derive(event, comparison)
	return impact, comparison, nil
}

// Derive builds an EventImpact from an already-computed comparison
func (a *ImpactAnalyzer) Derive(event *models.Event, comparison *ComparisonResult) *models.EventImpact {
	impact := &models.EventImpact{
		EventID:            event.ID,
		EventName:          event.Name,
		DaysBeforeAnalyzed: a.beforeDays,
		DaysAfterAnalyzed:  a.afterDays,
	}

	duration := float64(event.DurationDays())

	a.deriveTourism(impact, comparison, duration)
	a.deriveHotel(impact, comparison)
	a.deriveEconomic(impact, comparison, duration)
	a.deriveROI(impact, event)
	a.deriveMobility(impact, comparison)

	return impact
}

func (a *ImpactAnalyzer) deriveTourism(impact *models.EventImpact, c *ComparisonResult, duration float64) {
	visitors, ok := c.Metric(models.DomainTourism, "total_visitors")
	if !ok {
		return
	}

	impact.BaselineDailyVisitors = models.Int64Ptr(int64(math.Round(visitors.Baseline)))
	impact.EventPeriodDailyVisitors = models.Int64Ptr(int64(math.Round(visitors.EventPeriod)))
	impact.VisitorIncreasePct = models.Float64Ptr(visitors.ChangePct)

	additional := (visitors.EventPeriod - visitors.Baseline) * duration
	impact.AdditionalVisitors = models.Int64Ptr(int64(math.Round(additional)))
}

func (a *ImpactAnalyzer) deriveHotel(impact *models.EventImpact, c *ComparisonResult) {
	occupancy, ok := c.Metric(models.DomainHotel, "occupancy_rate_pct")
	if !ok {
		return
	}

	impact.BaselineOccupancyPct = models.Float64Ptr(occupancy.Baseline)
	impact.EventOccupancyPct = models.Float64Ptr(occupancy.EventPeriod)
	impact.OccupancyIncreasePct = models.Float64Ptr(occupancy.ChangePct)

	if price, ok := c.Metric(models.DomainHotel, "avg_price_usd"); ok {
		impact.BaselineAvgPriceUSD = models.Float64Ptr(price.Baseline)
		impact.EventAvgPriceUSD = models.Float64Ptr(price.EventPeriod)
		impact.PriceIncreasePct = models.Float64Ptr(price.ChangePct)
	}
}

func (a *ImpactAnalyzer) deriveEconomic(impact *models.EventImpact, c *ComparisonResult, duration float64) {
	spending, ok := c.Metric(models.DomainEconomic, "total_spending_usd")
	if !ok {
		return
	}

	direct := (spending.EventPeriod - spending.Baseline) * duration
	if direct < 0 {
		direct = 0
	}
	indirect := direct * indirectMultiplier
	induced := direct * inducedMultiplier

	impact.DirectSpendingUSD = models.Float64Ptr(direct)
	impact.IndirectSpendingUSD = models.Float64Ptr(indirect)
	impact.InducedSpendingUSD = models.Float64Ptr(induced)
	impact.TotalEconomicImpactUSD = models.Float64Ptr(direct + indirect + induced)

	if jobs, ok := c.Metric(models.DomainEconomic, "temporary_jobs_created"); ok {
		delta := jobs.EventPeriod - jobs.Baseline
		if delta < 0 {
			delta = 0
		}
		impact.JobsCreated = models.Int64Ptr(int64(math.Round(delta)))
	}
	if tax, ok := c.Metric(models.DomainEconomic, "estimated_tax_revenue_usd"); ok {
		delta := (tax.EventPeriod - tax.Baseline) * duration
		if delta < 0 {
			delta = 0
		}
		impact.TaxRevenueUSD = models.Float64Ptr(delta)
	}
}

func (a *ImpactAnalyzer) deriveROI(impact *models.EventImpact, event *models.Event) {
	if event.EventCostUSD <= 0 || impact.TotalEconomicImpactUSD == nil {
		return
	}
	impact.EventCostUSD = models.Float64Ptr(event.EventCostUSD)
	impact.ROIRatio = models.Float64Ptr(*impact.TotalEconomicImpactUSD / event.EventCostUSD)
}

func (a *ImpactAnalyzer) deriveMobility(impact *models.EventImpact, c *ComparisonResult) {
	arrivals, ok := c.Metric(models.DomainMobility, "airport_arrivals")
	if !ok {
		return
	}

	impact.AirportArrivalsIncreasePct = models.Float64Ptr(arrivals.ChangePct)
	if transit, ok := c.Metric(models.DomainMobility, "public_transport_usage"); ok {
		impact.PublicTransportIncreasePct = models.Float64Ptr(transit.ChangePct)
	}
	if congestion, ok := c.Metric(models.DomainMobility, "traffic_congestion_index"); ok {
		impact.TrafficCongestionIncreasePct = models.Float64Ptr(congestion.ChangePct)
	}
}
