package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/models"
)

func fullSource() *fakeSource {
	return &fakeSource{
		tourism: []models.TourismMetric{
			{City: "Barcelona", Date: "2024-06-01", TotalVisitors: 1000},
			{City: "Barcelona", Date: "2024-06-10", TotalVisitors: 1500},
			{City: "Barcelona", Date: "2024-06-11", TotalVisitors: 1500},
			{City: "Barcelona", Date: "2024-06-12", TotalVisitors: 1500},
		},
		hotel: []models.HotelMetric{
			{City: "Barcelona", Date: "2024-06-01", OccupancyRatePct: 70, AvgPriceUSD: 100},
			{City: "Barcelona", Date: "2024-06-10", OccupancyRatePct: 90, AvgPriceUSD: 130},
		},
		economic: []models.EconomicMetric{
			{City: "Barcelona", Date: "2024-06-01", TotalSpendingUSD: 1_000_000, TemporaryJobsCreated: 100, EstimatedTaxRevenueUSD: 50_000},
			{City: "Barcelona", Date: "2024-06-10", TotalSpendingUSD: 1_500_000, TemporaryJobsCreated: 400, EstimatedTaxRevenueUSD: 80_000},
		},
		mobility: []models.MobilityMetric{
			{City: "Barcelona", Date: "2024-06-01", AirportArrivals: 10000, PublicTransportUsage: 200000, TrafficCongestionIndex: 40},
			{City: "Barcelona", Date: "2024-06-10", AirportArrivals: 12000, PublicTransportUsage: 260000, TrafficCongestionIndex: 50},
		},
	}
}

func TestAnalyzeFullEvent(t *testing.T) {
	comparator := NewComparator(fullSource(), 14, 0)
	analyzer := NewImpactAnalyzer(comparator, 14, 14)

	event := testEvent()
	event.EventCostUSD = 1_000_000

	impact, comparison, err := analyzer.Analyze(event)
	require.NoError(t, err)
	require.NotNil(t, comparison)

	// Tourism: 1000 -> 1500 daily over a 3-day event
	require.NotNil(t, impact.BaselineDailyVisitors)
	assert.Equal(t, int64(1000), *impact.BaselineDailyVisitors)
	assert.Equal(t, int64(1500), *impact.EventPeriodDailyVisitors)
	assert.InDelta(t, 50.0, *impact.VisitorIncreasePct, 1e-9)
	assert.Equal(t, int64(1500), *impact.AdditionalVisitors)

	// Hotel: occupancy boost is a point difference
	assert.InDelta(t, 20.0, *impact.OccupancyIncreasePct, 1e-9)
	assert.InDelta(t, 30.0, *impact.PriceIncreasePct, 1e-9)

	// Economic: direct delta 500k/day over 3 days, then 0.4/0.3 multipliers
	require.NotNil(t, impact.DirectSpendingUSD)
	assert.InDelta(t, 1_500_000, *impact.DirectSpendingUSD, 1e-6)
	assert.InDelta(t, 600_000, *impact.IndirectSpendingUSD, 1e-6)
	assert.InDelta(t, 450_000, *impact.InducedSpendingUSD, 1e-6)
	assert.InDelta(t, 2_550_000, *impact.TotalEconomicImpactUSD, 1e-6)
	assert.Equal(t, int64(300), *impact.JobsCreated)
	assert.InDelta(t, 90_000, *impact.TaxRevenueUSD, 1e-6)

	// ROI against the recorded event cost
	require.NotNil(t, impact.ROIRatio)
	assert.InDelta(t, 2.55, *impact.ROIRatio, 1e-9)

	// Mobility: relative changes
	assert.InDelta(t, 20.0, *impact.AirportArrivalsIncreasePct, 1e-9)
	assert.InDelta(t, 30.0, *impact.PublicTransportIncreasePct, 1e-9)
	assert.InDelta(t, 25.0, *impact.TrafficCongestionIncreasePct, 1e-9)

	assert.Equal(t, 14, impact.DaysBeforeAnalyzed)
	assert.Equal(t, 14, impact.DaysAfterAnalyzed)
}

func TestAnalyzeMissingDomainsLeaveNils(t *testing.T) {
	source := &fakeSource{
		tourism: []models.TourismMetric{
			{City: "Barcelona", Date: "2024-06-01", TotalVisitors: 1000},
			{City: "Barcelona", Date: "2024-06-10", TotalVisitors: 1200},
		},
	}
	comparator := NewComparator(source, 14, 0)
	analyzer := NewImpactAnalyzer(comparator, 14, 14)

	impact, _, err := analyzer.Analyze(testEvent())
	require.NoError(t, err)

	assert.NotNil(t, impact.VisitorIncreasePct)
	assert.Nil(t, impact.BaselineOccupancyPct)
	assert.Nil(t, impact.DirectSpendingUSD)
	assert.Nil(t, impact.TotalEconomicImpactUSD)
	assert.Nil(t, impact.ROIRatio)
	assert.Nil(t, impact.AirportArrivalsIncreasePct)
}

func TestAnalyzeNegativeSpendingClampsToZero(t *testing.T) {
	source := &fakeSource{
		economic: []models.EconomicMetric{
			{City: "Barcelona", Date: "2024-06-01", TotalSpendingUSD: 2_000_000},
			{City: "Barcelona", Date: "2024-06-10", TotalSpendingUSD: 1_000_000},
		},
	}
	comparator := NewComparator(source, 14, 0)
	analyzer := NewImpactAnalyzer(comparator, 14, 14)

	impact, _, err := analyzer.Analyze(testEvent())
	require.NoError(t, err)

	require.NotNil(t, impact.DirectSpendingUSD)
	assert.Equal(t, 0.0, *impact.DirectSpendingUSD)
	assert.Equal(t, 0.0, *impact.TotalEconomicImpactUSD)
}

func TestAnalyzeNoCostNoROI(t *testing.T) {
	comparator := NewComparator(fullSource(), 14, 0)
	analyzer := NewImpactAnalyzer(comparator, 14, 14)

	event := testEvent()
	event.EventCostUSD = 0

	impact, _, err := analyzer.Analyze(event)
	require.NoError(t, err)

	assert.NotNil(t, impact.TotalEconomicImpactUSD)
	assert.Nil(t, impact.ROIRatio)
	assert.Nil(t, impact.EventCostUSD)
}
