package database

import (
	"database/sql"
	"fmt"
)

// schema holds the DDL for all tables. Statements are idempotent so a fresh
// process can always bootstrap against an existing file.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		country TEXT NOT NULL,
		country_code TEXT DEFAULT '',
		continent TEXT NOT NULL,
		latitude REAL DEFAULT 0,
		longitude REAL DEFAULT 0,
		timezone TEXT DEFAULT '',
		population INTEGER DEFAULT 0,
		area_km2 REAL DEFAULT 0,
		gdp_usd REAL DEFAULT 0,
		annual_tourists INTEGER DEFAULT 0,
		hotel_rooms INTEGER DEFAULT 0,
		avg_hotel_price_usd REAL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		description TEXT DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		year INTEGER NOT NULL,
		expected_attendance INTEGER DEFAULT 0,
		actual_attendance INTEGER DEFAULT 0,
		ticket_revenue_usd REAL DEFAULT 0,
		event_cost_usd REAL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_city ON events(city)`,
	`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type)`,
	`CREATE TABLE IF NOT EXISTS tourism_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		date TEXT NOT NULL,
		domestic_visitors INTEGER DEFAULT 0,
		international_visitors INTEGER DEFAULT 0,
		total_visitors INTEGER DEFAULT 0,
		avg_stay_duration_days REAL DEFAULT 0,
		avg_spending_per_visitor_usd REAL DEFAULT 0,
		UNIQUE(city, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tourism_city_date ON tourism_metrics(city, date)`,
	`CREATE TABLE IF NOT EXISTS hotel_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		date TEXT NOT NULL,
		occupancy_rate_pct REAL DEFAULT 0,
		available_rooms INTEGER DEFAULT 0,
		occupied_rooms INTEGER DEFAULT 0,
		avg_price_usd REAL DEFAULT 0,
		revpar_usd REAL DEFAULT 0,
		UNIQUE(city, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_hotel_city_date ON hotel_metrics(city, date)`,
	`CREATE TABLE IF NOT EXISTS economic_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		date TEXT NOT NULL,
		total_spending_usd REAL DEFAULT 0,
		accommodation_spending_usd REAL DEFAULT 0,
		food_beverage_spending_usd REAL DEFAULT 0,
		retail_spending_usd REAL DEFAULT 0,
		temporary_jobs_created INTEGER DEFAULT 0,
		estimated_tax_revenue_usd REAL DEFAULT 0,
		UNIQUE(city, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_economic_city_date ON economic_metrics(city, date)`,
	`CREATE TABLE IF NOT EXISTS mobility_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		date TEXT NOT NULL,
		airport_arrivals INTEGER DEFAULT 0,
		international_flights INTEGER DEFAULT 0,
		public_transport_usage INTEGER DEFAULT 0,
		traffic_congestion_index REAL DEFAULT 0,
		UNIQUE(city, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mobility_city_date ON mobility_metrics(city, date)`,
	`CREATE TABLE IF NOT EXISTS event_impacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL UNIQUE,
		baseline_daily_visitors INTEGER,
		event_period_daily_visitors INTEGER,
		visitor_increase_pct REAL,
		additional_visitors INTEGER,
		baseline_occupancy_pct REAL,
		event_occupancy_pct REAL,
		occupancy_increase_pct REAL,
		baseline_avg_price_usd REAL,
		event_avg_price_usd REAL,
		price_increase_pct REAL,
		total_economic_impact_usd REAL,
		direct_spending_usd REAL,
		indirect_spending_usd REAL,
		induced_spending_usd REAL,
		jobs_created INTEGER,
		tax_revenue_usd REAL,
		event_cost_usd REAL,
		roi_ratio REAL,
		airport_arrivals_increase_pct REAL,
		public_transport_increase_pct REAL,
		traffic_congestion_increase_pct REAL,
		days_before_analyzed INTEGER DEFAULT 14,
		days_after_analyzed INTEGER DEFAULT 14,
		calculated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(event_id) REFERENCES events(id) ON DELETE CASCADE
	)`,
}

// CreateSchema creates all tables and indexes if they do not exist
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
