package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/database"
	"github.com/evently/evently-backend-go/internal/models"
)

func TestCityRepositoryRoundTrip(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	cities := NewCityRepository(db)

	city := &models.City{
		Name: "Barcelona", Country: "Spain", Continent: "Europe",
		Latitude: 41.3851, Longitude: 2.1734,
		Population: 1_600_000, AnnualTourists: 12_000_000,
		HotelRooms: 80_000, AvgHotelPriceUSD: 145,
	}
	require.NoError(t, cities.UpsertCity(city))

	got, err := cities.GetCityByName("Barcelona")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Spain", got.Country)
	assert.Equal(t, int64(80_000), got.HotelRooms)

	// Upsert updates in place rather than duplicating
	city.AvgHotelPriceUSD = 160
	require.NoError(t, cities.UpsertCity(city))

	all, err := cities.GetCities(models.CityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 160.0, all[0].AvgHotelPriceUSD, 1e-9)

	missing, err := cities.GetCityByName("Atlantis")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepositoryFilters(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	events := NewEventRepository(db)

	require.NoError(t, events.UpsertEvent(&models.Event{
		City: "Barcelona", Name: "Summer Fest", EventType: models.EventTypeFestival,
		StartDate: "2024-06-10", EndDate: "2024-06-12", Year: 2024,
		ExpectedAttendance: 90000,
	}))
	require.NoError(t, events.UpsertEvent(&models.Event{
		City: "Tokyo", Name: "Tech Expo", EventType: models.EventTypeConference,
		StartDate: "2023-03-01", EndDate: "2023-03-03", Year: 2023,
		ExpectedAttendance: 40000,
	}))

	byCity, err := events.GetEvents(models.EventFilter{City: "Barcelona"})
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Summer Fest", byCity[0].Name)

	byYear, err := events.GetEvents(models.EventFilter{Year: 2023})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "Tech Expo", byYear[0].Name)

	types, err := events.GetEventTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"conference", "festival"}, types)

	missing, err := events.GetEventByName("Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMetricRepositoryWindowQueries(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	metrics := NewMetricRepository(db)

	for _, date := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		require.NoError(t, metrics.UpsertTourism(&models.TourismMetric{
			City: "Barcelona", Date: date, TotalVisitors: 1000,
		}))
	}

	rows, err := metrics.TourismBetween("Barcelona", "2024-06-01", "2024-06-02")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Upserting the same (city, date) replaces the row
	require.NoError(t, metrics.UpsertTourism(&models.TourismMetric{
		City: "Barcelona", Date: "2024-06-01", TotalVisitors: 5000,
	}))
	rows, err = metrics.TourismBetween("Barcelona", "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5000), rows[0].TotalVisitors)

	first, last, count, err := metrics.MetricDates("Barcelona")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", first)
	assert.Equal(t, "2024-06-03", last)
	assert.Equal(t, 3, count)
}

func TestImpactRepositoryUpsert(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	events := NewEventRepository(db)
	impacts := NewImpactRepository(db)

	id, err := events.CreateEvent(&models.Event{
		City: "Barcelona", Name: "Summer Fest", EventType: models.EventTypeFestival,
		StartDate: "2024-06-10", EndDate: "2024-06-12", Year: 2024,
	})
	require.NoError(t, err)

	impact := &models.EventImpact{
		EventID:                id,
		TotalEconomicImpactUSD: models.Float64Ptr(2_500_000),
		VisitorIncreasePct:     models.Float64Ptr(42.5),
		DaysBeforeAnalyzed:     14,
		DaysAfterAnalyzed:      14,
	}
	require.NoError(t, impacts.UpsertImpact(impact))

	got, err := impacts.GetImpactByEventID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 2_500_000, *got.TotalEconomicImpactUSD, 1e-9)
	assert.InDelta(t, 42.5, *got.VisitorIncreasePct, 1e-9)
	// Fields never computed stay nil
	assert.Nil(t, got.BaselineOccupancyPct)

	// Second upsert replaces, not duplicates
	impact.TotalEconomicImpactUSD = models.Float64Ptr(3_000_000)
	require.NoError(t, impacts.UpsertImpact(impact))

	all, err := impacts.GetImpacts(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 3_000_000, *all[0].TotalEconomicImpactUSD, 1e-9)

	missing, err := impacts.GetImpactByEventID(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
