package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/evently/evently-backend-go/internal/models"
)

// CityRepository handles database operations for cities
type CityRepository struct {
	db *sql.DB
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{db: db}
}

const cityColumns = `id, name, country, country_code, continent, latitude, longitude, timezone,
	population, area_km2, gdp_usd, annual_tourists, hotel_rooms, avg_hotel_price_usd,
	created_at, updated_at`

func scanCity(row interface{ Scan(...interface{}) error }) (models.City, error) {
	var c models.City
	err := row.Scan(
		&c.ID, &c.Name, &c.Country, &c.CountryCode, &c.Continent, &c.Latitude, &c.Longitude,
		&c.Timezone, &c.Population, &c.AreaKm2, &c.GDPUSD, &c.AnnualTourists, &c.HotelRooms,
		&c.AvgHotelPriceUSD, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// GetCities retrieves cities with optional filtering
func (r *CityRepository) GetCities(filter models.CityFilter) ([]models.City, error) {
	query := "SELECT " + cityColumns + " FROM cities"

	var conditions []string
	var args []interface{}

	if filter.Country != "" {
		conditions = append(conditions, "country = ?")
		args = append(args, filter.Country)
	}
	if filter.Continent != "" {
		conditions = append(conditions, "continent = ?")
		args = append(args, filter.Continent)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}

	return cities, rows.Err()
}

// GetCityByName retrieves a single city by its exact name.
// Returns (nil, nil) when the city does not exist.
func (r *CityRepository) GetCityByName(name string) (*models.City, error) {
	row := r.db.QueryRow("SELECT "+cityColumns+" FROM cities WHERE name = ?", name)
	c, err := scanCity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	return &c, nil
}

// GetCityNames returns all city names, sorted
func (r *CityRepository) GetCityNames() ([]string, error) {
	rows, err := r.db.Query("SELECT name FROM cities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query city names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan city name: %w", err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}

// CreateCity inserts a new city and returns its ID
func (r *CityRepository) CreateCity(c *models.City) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO cities (name, country, country_code, continent, latitude, longitude, timezone,
			population, area_km2, gdp_usd, annual_tourists, hotel_rooms, avg_hotel_price_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Country, c.CountryCode, c.Continent, c.Latitude, c.Longitude, c.Timezone,
		c.Population, c.AreaKm2, c.GDPUSD, c.AnnualTourists, c.HotelRooms, c.AvgHotelPriceUSD,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert city: %w", err)
	}
	return res.LastInsertId()
}

// UpsertCity inserts or updates a city keyed by name
func (r *CityRepository) UpsertCity(c *models.City) error {
	_, err := r.db.Exec(`
		INSERT INTO cities (name, country, country_code, continent, latitude, longitude, timezone,
			population, area_km2, gdp_usd, annual_tourists, hotel_rooms, avg_hotel_price_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			country = excluded.country,
			country_code = excluded.country_code,
			continent = excluded.continent,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			population = excluded.population,
			area_km2 = excluded.area_km2,
			gdp_usd = excluded.gdp_usd,
			annual_tourists = excluded.annual_tourists,
			hotel_rooms = excluded.hotel_rooms,
			avg_hotel_price_usd = excluded.avg_hotel_price_usd,
			updated_at = CURRENT_TIMESTAMP`,
		c.Name, c.Country, c.CountryCode, c.Continent, c.Latitude, c.Longitude, c.Timezone,
		c.Population, c.AreaKm2, c.GDPUSD, c.AnnualTourists, c.HotelRooms, c.AvgHotelPriceUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert city: %w", err)
	}
	return nil
}
