package ml

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/models"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// metricSourceWith returns a source with tourism data around one event
func metricSourceWith(city string) *stubSource {
	return &stubSource{
		tourism: []models.TourismMetric{
			{City: city, Date: "2024-06-01", TotalVisitors: 1000, AvgSpendingPerVisitor: 120},
			{City: city, Date: "2024-06-10", TotalVisitors: 1400, AvgSpendingPerVisitor: 160},
		},
		hotel: []models.HotelMetric{
			{City: city, Date: "2024-06-10", OccupancyRatePct: 85, AvgPriceUSD: 140},
			{City: city, Date: "2024-06-11", OccupancyRatePct: 90, AvgPriceUSD: 180},
		},
	}
}

// stubSource mirrors the repository query surface for assembler tests
type stubSource struct {
	tourism []models.TourismMetric
	hotel   []models.HotelMetric
}

func (s *stubSource) TourismBetween(city, from, to string) ([]models.TourismMetric, error) {
	var out []models.TourismMetric
	for _, m := range s.tourism {
		if m.City == city && m.Date >= from && m.Date <= to {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubSource) HotelBetween(city, from, to string) ([]models.HotelMetric, error) {
	var out []models.HotelMetric
	for _, m := range s.hotel {
		if m.City == city && m.Date >= from && m.Date <= to {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubSource) EconomicBetween(city, from, to string) ([]models.EconomicMetric, error) {
	return nil, nil
}

func (s *stubSource) MobilityBetween(city, from, to string) ([]models.MobilityMetric, error) {
	return nil, nil
}

func newTestAssembler(source analysis.MetricSource) *Assembler {
	comparator := analysis.NewComparator(source, 14, 0)
	encoder := NewLabelEncoder(models.ValidEventTypes())
	return NewAssembler(source, comparator, encoder)
}

func TestAssembleComputesDerivedFeatures(t *testing.T) {
	source := metricSourceWith("Barcelona")
	assembler := newTestAssembler(source)

	event := &models.Event{
		ID: 1, City: "Barcelona", Name: "Summer Fest",
		EventType: models.EventTypeFestival,
		StartDate: "2024-06-10", EndDate: "2024-06-12",
		ExpectedAttendance: 90000,
	}
	city := &models.City{
		Name: "Barcelona", Continent: "Europe",
		Population: 1_600_000, AnnualTourists: 12_000_000, HotelRooms: 80_000,
	}

	r, err := assembler.Assemble(event, city)
	require.NoError(t, err)

	assert.Equal(t, 90000.0, r.Attendance)
	assert.Equal(t, 3.0, r.DurationDays)
	assert.Equal(t, 30000.0, r.AttendancePerDay)
	assert.InDelta(t, 90000.0/80000, r.VisitorsPerHotelRoom, 1e-9)
	assert.InDelta(t, 12_000_000.0/1_600_000, r.CityTourismIntensity, 1e-9)
	assert.InDelta(t, 40.0, r.VisitorIncreaseActual, 1e-9)
	assert.InDelta(t, 120.0, r.BaselineAvgSpendingPerVisitor, 1e-9)
	assert.InDelta(t, 180.0, r.EventMaxHotelPrice, 1e-9)
	assert.InDelta(t, 160.0, r.EventAvgHotelPrice, 1e-9)
	assert.Equal(t, "Europe", r.Continent)
}

func TestAssembleRejectsMissingPrerequisites(t *testing.T) {
	assembler := newTestAssembler(metricSourceWith("Barcelona"))

	base := models.Event{
		City: "Barcelona", Name: "Bad Event",
		EventType: models.EventTypeMusic,
		StartDate: "2024-06-10", EndDate: "2024-06-12",
		ExpectedAttendance: 1000,
	}

	noAttendance := base
	noAttendance.ExpectedAttendance = 0
	_, err := assembler.Assemble(&noAttendance, nil)
	assert.Error(t, err)

	badDates := base
	badDates.EndDate = "2024-06-01"
	_, err = assembler.Assemble(&badDates, nil)
	assert.Error(t, err)

	badType := base
	badType.EventType = "rodeo"
	_, err = assembler.Assemble(&badType, nil)
	assert.Error(t, err)
}

func TestBuildDatasetExcludesAndImputes(t *testing.T) {
	source := metricSourceWith("Barcelona")
	assembler := newTestAssembler(source)

	events := []models.Event{
		{ID: 1, City: "Barcelona", Name: "Good", EventType: models.EventTypeFestival,
			StartDate: "2024-06-10", EndDate: "2024-06-12", ExpectedAttendance: 90000},
		{ID: 2, City: "Barcelona", Name: "No Attendance", EventType: models.EventTypeMusic,
			StartDate: "2024-06-10", EndDate: "2024-06-12"},
		// No city row and no metrics: everything beyond the basics imputes
		{ID: 3, City: "Nowhere", Name: "Sparse", EventType: models.EventTypeSports,
			StartDate: "2024-06-10", EndDate: "2024-06-11", ExpectedAttendance: 20000},
	}
	cities := map[string]*models.City{
		"Barcelona": {Name: "Barcelona", Continent: "Europe",
			Population: 1_600_000, AnnualTourists: 12_000_000, HotelRooms: 80_000},
	}
	targets := map[int64]float64{1: 50_000_000}

	ds, report := BuildDataset(assembler, events, cities, targets)

	assert.Equal(t, 2, report.Assembled)
	require.Len(t, report.Excluded, 1)
	assert.Equal(t, "No Attendance", report.Excluded[0].EventName)

	require.Len(t, ds.Records, 2)
	assert.True(t, ds.Records[0].HasTarget)
	assert.False(t, ds.Records[1].HasTarget)

	// Change-rate columns impute to zero for the sparse event
	sparse := ds.Records[1]
	assert.Equal(t, 0.0, sparse.DailySpendingIncreasePct)
	assert.Equal(t, 0.0, sparse.VisitorIncreaseActual)

	// Level columns impute to the column median (the one observed value)
	assert.InDelta(t, 80000.0, sparse.HotelRooms, 1e-9)
	assert.InDelta(t, 120.0, sparse.BaselineAvgSpendingPerVisitor, 1e-9)

	assert.Greater(t, report.Imputed["hotel_rooms"], 0)
}

func TestFeatureMetadataPolicies(t *testing.T) {
	policies := make(map[string]ImputePolicy)
	for _, meta := range FeatureMetadata() {
		policies[meta.Name] = meta.Policy
	}

	assert.Equal(t, ImputeZero, policies["daily_spending_increase_pct"])
	assert.Equal(t, ImputeZero, policies["visitor_increase_actual"])
	assert.Equal(t, ImputeMedian, policies["hotel_rooms"])
	assert.Equal(t, ImputeMedian, policies["event_avg_hotel_price"])
}

func TestVectorMatchesColumnOrder(t *testing.T) {
	r := &FeatureRecord{}
	assert.Len(t, r.Vector(), len(FeatureColumns()))

	// setVector inverts Vector
	want := make([]float64, len(featureColumns))
	for i := range want {
		want[i] = float64(i + 1)
	}
	r.setVector(want)
	assert.Equal(t, want, r.Vector())
}
