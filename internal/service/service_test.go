package service

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/database"
	"github.com/evently/evently-backend-go/internal/ml"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

type fixture struct {
	cfg        *config.Config
	cities     *repository.CityRepository
	events     *repository.EventRepository
	metrics    *repository.MetricRepository
	impacts    *repository.ImpactRepository
	catalog    *CatalogService
	analysis   *AnalysisService
	training   *TrainingService
	prediction *PredictionService
	simulation *SimulationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(database.Config{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.New()
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.ModelPath = filepath.Join(dir, "model.json")
	cfg.BaselineBeforeDays = 14

	f := &fixture{
		cfg:     cfg,
		cities:  repository.NewCityRepository(db),
		events:  repository.NewEventRepository(db),
		metrics: repository.NewMetricRepository(db),
		impacts: repository.NewImpactRepository(db),
	}

	comparator := analysis.NewComparator(f.metrics, cfg.BaselineBeforeDays, cfg.BaselineGapDays)
	analyzer := analysis.NewImpactAnalyzer(comparator, cfg.ImpactWindowBeforeDays, cfg.ImpactWindowAfterDays)

	f.catalog = NewCatalogService(f.cities, f.events, f.metrics)
	f.analysis = NewAnalysisService(f.cities, f.events, f.impacts, analyzer)
	f.training = NewTrainingService(cfg, f.events, f.cities, f.metrics, f.impacts)
	f.prediction = NewPredictionService(cfg, f.cities, f.events, f.impacts, f.training)
	f.simulation = NewSimulationService(f.analysis)
	return f
}

// seedEvent creates one event with enough surrounding metric data for
// the analyzer to measure a clean spending lift.
func (f *fixture) seedEvent(t *testing.T, name string) {
	t.Helper()

	require.NoError(t, f.cities.UpsertCity(&models.City{
		Name: "Barcelona", Country: "Spain", Continent: "Europe",
		Latitude: 41.3851, Longitude: 2.1734,
		Population: 1_600_000, AnnualTourists: 12_000_000,
		HotelRooms: 80_000, AvgHotelPriceUSD: 145,
	}))

	require.NoError(t, f.events.UpsertEvent(&models.Event{
		City: "Barcelona", Name: name, EventType: models.EventTypeFestival,
		StartDate: "2024-06-10", EndDate: "2024-06-11", Year: 2024,
		ExpectedAttendance: 90000, EventCostUSD: 1_000_000,
	}))

	// Baseline fortnight plus the two event days
	for day := 1; day <= 11; day++ {
		date := fmt.Sprintf("2024-06-%02d", day)
		visitors, spending := int64(40000), 2_000_000.0
		if day >= 10 {
			visitors, spending = 60000, 3_500_000.0
		}
		require.NoError(t, f.metrics.UpsertTourism(&models.TourismMetric{
			City: "Barcelona", Date: date, TotalVisitors: visitors,
		}))
		require.NoError(t, f.metrics.UpsertEconomic(&models.EconomicMetric{
			City: "Barcelona", Date: date, TotalSpendingUSD: spending,
		}))
	}
}

func TestAnalysisServiceComputesAndStoresImpact(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")

	impact, err := f.analysis.ComputeImpact("Summer Fest")
	require.NoError(t, err)

	require.NotNil(t, impact.VisitorIncreasePct)
	assert.InDelta(t, 50.0, *impact.VisitorIncreasePct, 1e-6)

	// Direct lift: 1.5M/day over 2 days, then 0.4 and 0.3 multipliers
	require.NotNil(t, impact.TotalEconomicImpactUSD)
	assert.InDelta(t, 5_100_000, *impact.TotalEconomicImpactUSD, 1)

	require.NotNil(t, impact.ROIRatio)
	assert.InDelta(t, 5.1, *impact.ROIRatio, 1e-6)

	// GetImpact now serves the stored row
	stored, err := f.analysis.GetImpact("Summer Fest")
	require.NoError(t, err)
	assert.InDelta(t, *impact.TotalEconomicImpactUSD, *stored.TotalEconomicImpactUSD, 1)

	_, err = f.analysis.GetImpact("No Such Event")
	assert.ErrorIs(t, err, ErrNotFound)
}

// stubArtifact fits a small linear model over rows shaped like real
// event features, so the prediction paths can run without a full
// training cycle.
func stubArtifact(t *testing.T) *ml.Artifact {
	t.Helper()

	rng := rand.New(rand.NewSource(3))
	rows := 40
	X := make([][]float64, rows)
	y := make([]float64, rows)
	for i := range X {
		attendance := 10000 + rng.Float64()*190000
		duration := float64(1 + rng.Intn(5))
		// Canonical feature order, magnitudes matching the assembler
		X[i] = []float64{
			attendance,
			float64(rng.Intn(2)),
			duration,
			attendance / duration,
			attendance / 80000,
			60000 + rng.Float64()*40000,
			2 + rng.Float64()*8,
			150 + rng.Float64()*100,
			120 + rng.Float64()*120,
			rng.Float64() * 25,
			100000 + rng.Float64()*300000,
			rng.Float64() * 80,
			100 + rng.Float64()*100,
			50000 + rng.Float64()*150000,
		}
		y[i] = math.Log1p(attendance * 150 * duration)
	}

	scaler := ml.FitScaler(X)
	model := ml.NewLinearRegression()
	require.NoError(t, model.Fit(scaler.Transform(X), y))

	return &ml.Artifact{
		BestModel:      ml.ModelLinear,
		Linear:         model,
		Scaler:         scaler,
		Encoder:        ml.NewLabelEncoder([]string{"festival", "music"}),
		FeatureColumns: ml.FeatureColumns(),
		Metrics:        map[string]ml.ModelMetrics{ml.ModelLinear: {R2: 0.9, MAPE: 20}},
	}
}

func TestPredictionRequiresTrainedModel(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")

	// Without a trained artifact both modes refuse to answer
	_, err := f.prediction.Predict(ml.PredictionRequest{
		City: "Barcelona", EventType: "festival", DurationDays: 2,
	})
	assert.ErrorIs(t, err, ml.ErrModelNotReady)

	_, err = f.prediction.PredictSimple(ml.PredictionRequest{
		City: "Barcelona", EventType: "festival", DurationDays: 2,
	})
	assert.ErrorIs(t, err, ml.ErrModelNotReady)
}

func TestPredictionRejectsUnknownEntities(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")
	f.training.artifact = stubArtifact(t)

	_, err := f.prediction.Predict(ml.PredictionRequest{
		City: "Atlantis", EventType: "festival", DurationDays: 2,
	})
	var unknown *ml.UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "city", unknown.Kind)
	assert.Contains(t, unknown.Valid, "Barcelona")

	_, err = f.prediction.Predict(ml.PredictionRequest{
		City: "Barcelona", EventType: "rodeo", DurationDays: 2,
	})
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "event type", unknown.Kind)
	assert.Contains(t, unknown.Valid, "festival")
}

func TestPredictionRunsModel(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")
	f.training.artifact = stubArtifact(t)

	result, err := f.prediction.Predict(ml.PredictionRequest{
		City: "Barcelona", EventType: "festival", Attendance: 90_000, DurationDays: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, ml.ModelLinear, result.ModelName)
	assert.Greater(t, result.PredictedImpactUSD, 0.0)

	// Configured shares drive the breakdown
	assert.InDelta(t, result.PredictedImpactUSD*f.cfg.DirectShare, result.Breakdown.DirectUSD, 1e-6)

	// The normal-week comparison uses the configured multiplier and the
	// city's daily tourist flow
	assert.InDelta(t, f.cfg.BaselineMultiplier, result.BaselineComparison.Multiplier, 1e-9)
	assert.Equal(t, int64(12_000_000/365), result.BaselineComparison.BaselineDailyVisitors)
}

func TestPredictSimpleSynthesizesFromHistory(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")
	f.training.artifact = stubArtifact(t)

	_, err := f.analysis.ComputeImpact("Summer Fest")
	require.NoError(t, err)

	result, err := f.prediction.PredictSimple(ml.PredictionRequest{
		City: "Barcelona", EventType: "festival", DurationDays: 2,
	})
	require.NoError(t, err)

	// The trained model answers, not a side formula
	assert.Equal(t, ml.ModelLinear, result.ModelName)
	assert.Greater(t, result.PredictedImpactUSD, 0.0)

	ref := result.HistoricalReference
	require.NotNil(t, ref)
	assert.Equal(t, 1, ref.SampleSize)
	assert.Contains(t, ref.ExampleEvents, "Summer Fest")
	// 90,000 attendees over the two-day catalog event
	assert.InDelta(t, 45_000, ref.AvgAttendancePerDay, 1e-6)
	// Unspecified attendance derives from the analog rate
	assert.Equal(t, int64(90_000), result.Attendance)
}

func TestSimulationScenarios(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")

	attendance, err := f.simulation.SimulateAttendanceChange("Summer Fest", 100)
	require.NoError(t, err)
	// Elasticity 0.3 damps a doubled attendance to +30% impact
	assert.InDelta(t, 30.0, attendance.ImpactChangePct, 1e-9)
	assert.InDelta(t, attendance.BaseImpactUSD*1.3, attendance.ProjectedImpactUSD, 1)

	growth, err := f.simulation.SimulateGrowth("Summer Fest", 3, 10)
	require.NoError(t, err)
	require.Len(t, growth.Years, 3)
	assert.InDelta(t, growth.BaseImpactUSD*1.331, growth.Years[2].ProjectedImpactUSD, 1)

	newEvent, err := f.simulation.SimulateNewEvent("Barcelona", "music", 50000, 2)
	require.NoError(t, err)
	assert.InDelta(t, 15_000_000, newEvent.EstimatedImpactUSD, 1e-6)
	assert.Equal(t, int64(500), newEvent.EstimatedJobs)

	_, err = f.simulation.SimulateNewEvent("Barcelona", "rodeo", 50000, 1)
	assert.Error(t, err)
}

func TestCatalogNearbyCities(t *testing.T) {
	f := newFixture(t)

	for _, c := range []models.City{
		{Name: "Barcelona", Country: "Spain", Continent: "Europe", Latitude: 41.3851, Longitude: 2.1734},
		{Name: "Madrid", Country: "Spain", Continent: "Europe", Latitude: 40.4168, Longitude: -3.7038},
		{Name: "Tokyo", Country: "Japan", Continent: "Asia", Latitude: 35.6762, Longitude: 139.6503},
	} {
		city := c
		require.NoError(t, f.cities.UpsertCity(&city))
	}

	nearby, err := f.catalog.NearbyCities("Barcelona", 2)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "Madrid", nearby[0].City.Name)
	// Barcelona to Madrid is roughly 500 km
	assert.InDelta(t, 505, nearby[0].DistanceKm, 30)
	assert.Equal(t, "Tokyo", nearby[1].City.Name)

	_, err = f.catalog.NearbyCities("Atlantis", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogCityMetricsAndCoverage(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")

	series, err := f.catalog.CityMetrics("Barcelona", "economic", "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, 5, series.Count)

	_, err = f.catalog.CityMetrics("Barcelona", "weather", "2024-06-01", "2024-06-05")
	assert.Error(t, err)

	coverage, err := f.catalog.MetricCoverage("Barcelona")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", coverage.FirstDate)
	assert.Equal(t, "2024-06-11", coverage.LastDate)
	assert.Equal(t, 11, coverage.Days)
}

func TestDashboardAggregates(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "Summer Fest")

	_, err := f.analysis.ComputeImpact("Summer Fest")
	require.NoError(t, err)

	dash, err := f.analysis.GetDashboard()
	require.NoError(t, err)

	assert.Equal(t, 1, dash.Cities)
	assert.Equal(t, 1, dash.Events)
	assert.Equal(t, 1, dash.ImpactsComputed)
	assert.InDelta(t, 5_100_000, dash.TotalEconomicImpactUSD, 1)
	assert.InDelta(t, 5.1, dash.AvgROIRatio, 1e-6)
	require.Len(t, dash.TopEvents, 1)
	assert.Equal(t, "Summer Fest", dash.TopEvents[0].EventName)
}

func TestTrainingServiceStatusLifecycle(t *testing.T) {
	f := newFixture(t)

	status := f.training.Status()
	assert.False(t, status.Ready)
	assert.Nil(t, f.training.Artifact())

	// Training with an almost-empty catalog reports insufficient data
	f.seedEvent(t, "Summer Fest")
	_, err := f.analysis.ComputeImpact("Summer Fest")
	require.NoError(t, err)

	_, _, err = f.training.Train()
	assert.ErrorIs(t, err, ml.ErrInsufficientData)
}
