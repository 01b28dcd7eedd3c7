package repository

import (
	"database/sql"
	"fmt"

	"github.com/evently/evently-backend-go/internal/models"
)

// MetricRepository handles database operations for the four daily metric tables
type MetricRepository struct {
	db *sql.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// TourismBetween returns tourism rows for a city within [from, to] inclusive
func (r *MetricRepository) TourismBetween(city, from, to string) ([]models.TourismMetric, error) {
	rows, err := r.db.Query(`
		SELECT id, city, date, domestic_visitors, international_visitors, total_visitors,
			avg_stay_duration_days, avg_spending_per_visitor_usd
		FROM tourism_metrics
		WHERE city = ? AND date >= ? AND date <= ?
		ORDER BY date`, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tourism metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.TourismMetric
	for rows.Next() {
		var m models.TourismMetric
		if err := rows.Scan(&m.ID, &m.City, &m.Date, &m.DomesticVisitors, &m.InternationalVisitors,
			&m.TotalVisitors, &m.AvgStayDurationDays, &m.AvgSpendingPerVisitor); err != nil {
			return nil, fmt.Errorf("failed to scan tourism metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// HotelBetween returns hotel rows for a city within [from, to] inclusive
func (r *MetricRepository) HotelBetween(city, from, to string) ([]models.HotelMetric, error) {
	rows, err := r.db.Query(`
		SELECT id, city, date, occupancy_rate_pct, available_rooms, occupied_rooms,
			avg_price_usd, revpar_usd
		FROM hotel_metrics
		WHERE city = ? AND date >= ? AND date <= ?
		ORDER BY date`, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotel metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.HotelMetric
	for rows.Next() {
		var m models.HotelMetric
		if err := rows.Scan(&m.ID, &m.City, &m.Date, &m.OccupancyRatePct, &m.AvailableRooms,
			&m.OccupiedRooms, &m.AvgPriceUSD, &m.RevPARUSD); err != nil {
			return nil, fmt.Errorf("failed to scan hotel metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// EconomicBetween returns economic rows for a city within [from, to] inclusive
func (r *MetricRepository) EconomicBetween(city, from, to string) ([]models.EconomicMetric, error) {
	rows, err := r.db.Query(`
		SELECT id, city, date, total_spending_usd, accommodation_spending_usd,
			food_beverage_spending_usd, retail_spending_usd, temporary_jobs_created,
			estimated_tax_revenue_usd
		FROM economic_metrics
		WHERE city = ? AND date >= ? AND date <= ?
		ORDER BY date`, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query economic metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.EconomicMetric
	for rows.Next() {
		var m models.EconomicMetric
		if err := rows.Scan(&m.ID, &m.City, &m.Date, &m.TotalSpendingUSD, &m.AccommodationSpendingUSD,
			&m.FoodBeverageSpendingUSD, &m.RetailSpendingUSD, &m.TemporaryJobsCreated,
			&m.EstimatedTaxRevenueUSD); err != nil {
			return nil, fmt.Errorf("failed to scan economic metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// MobilityBetween returns mobility rows for a city within [from, to] inclusive
func (r *MetricRepository) MobilityBetween(city, from, to string) ([]models.MobilityMetric, error) {
	rows, err := r.db.Query(`
		SELECT id, city, date, airport_arrivals, international_flights,
			public_transport_usage, traffic_congestion_index
		FROM mobility_metrics
		WHERE city = ? AND date >= ? AND date <= ?
		ORDER BY date`, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query mobility metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.MobilityMetric
	for rows.Next() {
		var m models.MobilityMetric
		if err := rows.Scan(&m.ID, &m.City, &m.Date, &m.AirportArrivals, &m.InternationalFlights,
			&m.PublicTransportUsage, &m.TrafficCongestionIndex); err != nil {
			return nil, fmt.Errorf("failed to scan mobility metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// UpsertTourism inserts or updates a tourism row keyed by (city, date)
func (r *MetricRepository) UpsertTourism(m *models.TourismMetric) error {
	_, err := r.db.Exec(`
		INSERT INTO tourism_metrics (city, date, domestic_visitors, international_visitors,
			total_visitors, avg_stay_duration_days, avg_spending_per_visitor_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, date) DO UPDATE SET
			domestic_visitors = excluded.domestic_visitors,
			international_visitors = excluded.international_visitors,
			total_visitors = excluded.total_visitors,
			avg_stay_duration_days = excluded.avg_stay_duration_days,
			avg_spending_per_visitor_usd = excluded.avg_spending_per_visitor_usd`,
		m.City, m.Date, m.DomesticVisitors, m.InternationalVisitors, m.TotalVisitors,
		m.AvgStayDurationDays, m.AvgSpendingPerVisitor,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tourism metric: %w", err)
	}
	return nil
}

// UpsertHotel inserts or updates a hotel row keyed by (city, date)
func (r *MetricRepository) UpsertHotel(m *models.HotelMetric) error {
	_, err := r.db.Exec(`
		INSERT INTO hotel_metrics (city, date, occupancy_rate_pct, available_rooms,
			occupied_rooms, avg_price_usd, revpar_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, date) DO UPDATE SET
			occupancy_rate_pct = excluded.occupancy_rate_pct,
			available_rooms = excluded.available_rooms,
			occupied_rooms = excluded.occupied_rooms,
			avg_price_usd = excluded.avg_price_usd,
			revpar_usd = excluded.revpar_usd`,
		m.City, m.Date, m.OccupancyRatePct, m.AvailableRooms, m.OccupiedRooms,
		m.AvgPriceUSD, m.RevPARUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert hotel metric: %w", err)
	}
	return nil
}

// UpsertEconomic inserts or updates an economic row keyed by (city, date)
func (r *MetricRepository) UpsertEconomic(m *models.EconomicMetric) error {
	_, err := r.db.Exec(`
		INSERT INTO economic_metrics (city, date, total_spending_usd, accommodation_spending_usd,
			food_beverage_spending_usd, retail_spending_usd, temporary_jobs_created,
			estimated_tax_revenue_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, date) DO UPDATE SET
			total_spending_usd = excluded.total_spending_usd,
			accommodation_spending_usd = excluded.accommodation_spending_usd,
			food_beverage_spending_usd = excluded.food_beverage_spending_usd,
			retail_spending_usd = excluded.retail_spending_usd,
			temporary_jobs_created = excluded.temporary_jobs_created,
			estimated_tax_revenue_usd = excluded.estimated_tax_revenue_usd`,
		m.City, m.Date, m.TotalSpendingUSD, m.AccommodationSpendingUSD,
		m.FoodBeverageSpendingUSD, m.RetailSpendingUSD, m.TemporaryJobsCreated,
		m.EstimatedTaxRevenueUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert economic metric: %w", err)
	}
	return nil
}

// UpsertMobility inserts or updates a mobility row keyed by (city, date)
func (r *MetricRepository) UpsertMobility(m *models.MobilityMetric) error {
	_, err := r.db.Exec(`
		INSERT INTO mobility_metrics (city, date, airport_arrivals, international_flights,
			public_transport_usage, traffic_congestion_index)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, date) DO UPDATE SET
			airport_arrivals = excluded.airport_arrivals,
			international_flights = excluded.international_flights,
			public_transport_usage = excluded.public_transport_usage,
			traffic_congestion_index = excluded.traffic_congestion_index`,
		m.City, m.Date, m.AirportArrivals, m.InternationalFlights,
		m.PublicTransportUsage, m.TrafficCongestionIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert mobility metric: %w", err)
	}
	return nil
}

// MetricDates returns the span of daily tourism data stored for a city.
// Backs the coverage endpoint.
func (r *MetricRepository) MetricDates(city string) (first, last string, count int, err error) {
	row := r.db.QueryRow(`
		SELECT COALESCE(MIN(date), ''), COALESCE(MAX(date), ''), COUNT(*)
		FROM tourism_metrics WHERE city = ?`, city)
	if err := row.Scan(&first, &last, &count); err != nil {
		return "", "", 0, fmt.Errorf("failed to query metric dates: %w", err)
	}
	return first, last, count, nil
}
