package repository

import (
	"database/sql"
	"fmt"

	"github.com/evently/evently-backend-go/internal/models"
)

// ImpactRepository handles persistence of computed event impacts
type ImpactRepository struct {
	db *sql.DB
}

// NewImpactRepository creates a new impact repository
func NewImpactRepository(db *sql.DB) *ImpactRepository {
	return &ImpactRepository{db: db}
}

const impactColumns = `id, event_id, baseline_daily_visitors, event_period_daily_visitors,
	visitor_increase_pct, additional_visitors, baseline_occupancy_pct, event_occupancy_pct,
	occupancy_increase_pct, baseline_avg_price_usd, event_avg_price_usd, price_increase_pct,
	total_economic_impact_usd, direct_spending_usd, indirect_spending_usd, induced_spending_usd,
	jobs_created, tax_revenue_usd, event_cost_usd, roi_ratio,
	airport_arrivals_increase_pct, public_transport_increase_pct, traffic_congestion_increase_pct,
	days_before_analyzed, days_after_analyzed, calculated_at`

func scanImpact(row interface{ Scan(...interface{}) error }) (models.EventImpact, error) {
	var i models.EventImpact
	err := row.Scan(
		&i.ID, &i.EventID, &i.BaselineDailyVisitors, &i.EventPeriodDailyVisitors,
		&i.VisitorIncreasePct, &i.AdditionalVisitors, &i.BaselineOccupancyPct, &i.EventOccupancyPct,
		&i.OccupancyIncreasePct, &i.BaselineAvgPriceUSD, &i.EventAvgPriceUSD, &i.PriceIncreasePct,
		&i.TotalEconomicImpactUSD, &i.DirectSpendingUSD, &i.IndirectSpendingUSD, &i.InducedSpendingUSD,
		&i.JobsCreated, &i.TaxRevenueUSD, &i.EventCostUSD, &i.ROIRatio,
		&i.AirportArrivalsIncreasePct, &i.PublicTransportIncreasePct, &i.TrafficCongestionIncreasePct,
		&i.DaysBeforeAnalyzed, &i.DaysAfterAnalyzed, &i.CalculatedAt,
	)
	return i, err
}

// GetImpactByEventID retrieves the stored impact for an event.
// Returns (nil, nil) when no impact has been computed yet.
func (r *ImpactRepository) GetImpactByEventID(eventID int64) (*models.EventImpact, error) {
	row := r.db.QueryRow("SELECT "+impactColumns+" FROM event_impacts WHERE event_id = ?", eventID)
	i, err := scanImpact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event impact: %w", err)
	}
	return &i, nil
}

// GetImpacts retrieves all stored impacts, newest first
func (r *ImpactRepository) GetImpacts(limit int) ([]models.EventImpact, error) {
	query := "SELECT " + impactColumns + " FROM event_impacts ORDER BY calculated_at DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event impacts: %w", err)
	}
	defer rows.Close()

	var impacts []models.EventImpact
	for rows.Next() {
		i, err := scanImpact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event impact: %w", err)
		}
		impacts = append(impacts, i)
	}
	return impacts, rows.Err()
}

// UpsertImpact inserts or replaces the impact row for an event
func (r *ImpactRepository) UpsertImpact(i *models.EventImpact) error {
	_, err := r.db.Exec(`
		INSERT INTO event_impacts (event_id, baseline_daily_visitors, event_period_daily_visitors,
			visitor_increase_pct, additional_visitors, baseline_occupancy_pct, event_occupancy_pct,
			occupancy_increase_pct, baseline_avg_price_usd, event_avg_price_usd, price_increase_pct,
			total_economic_impact_usd, direct_spending_usd, indirect_spending_usd, induced_spending_usd,
			jobs_created, tax_revenue_usd, event_cost_usd, roi_ratio,
			airport_arrivals_increase_pct, public_transport_increase_pct, traffic_congestion_increase_pct,
			days_before_analyzed, days_after_analyzed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			baseline_daily_visitors = excluded.baseline_daily_visitors,
			event_period_daily_visitors = excluded.event_period_daily_visitors,
			visitor_increase_pct = excluded.visitor_increase_pct,
			additional_visitors = excluded.additional_visitors,
			baseline_occupancy_pct = excluded.baseline_occupancy_pct,
			event_occupancy_pct = excluded.event_occupancy_pct,
			occupancy_increase_pct = excluded.occupancy_increase_pct,
			baseline_avg_price_usd = excluded.baseline_avg_price_usd,
			event_avg_price_usd = excluded.event_avg_price_usd,
			price_increase_pct = excluded.price_increase_pct,
			total_economic_impact_usd = excluded.total_economic_impact_usd,
			direct_spending_usd = excluded.direct_spending_usd,
			indirect_spending_usd = excluded.indirect_spending_usd,
			induced_spending_usd = excluded.induced_spending_usd,
			jobs_created = excluded.jobs_created,
			tax_revenue_usd = excluded.tax_revenue_usd,
			event_cost_usd = excluded.event_cost_usd,
			roi_ratio = excluded.roi_ratio,
			airport_arrivals_increase_pct = excluded.airport_arrivals_increase_pct,
			public_transport_increase_pct = excluded.public_transport_increase_pct,
			traffic_congestion_increase_pct = excluded.traffic_congestion_increase_pct,
			days_before_analyzed = excluded.days_before_analyzed,
			days_after_analyzed = excluded.days_after_analyzed,
			calculated_at = CURRENT_TIMESTAMP`,
		i.EventID, i.BaselineDailyVisitors, i.EventPeriodDailyVisitors,
		i.VisitorIncreasePct, i.AdditionalVisitors, i.BaselineOccupancyPct, i.EventOccupancyPct,
		i.OccupancyIncreasePct, i.BaselineAvgPriceUSD, i.EventAvgPriceUSD, i.PriceIncreasePct,
		i.TotalEconomicImpactUSD, i.DirectSpendingUSD, i.IndirectSpendingUSD, i.InducedSpendingUSD,
		i.JobsCreated, i.TaxRevenueUSD, i.EventCostUSD, i.ROIRatio,
		i.AirportArrivalsIncreasePct, i.PublicTransportIncreasePct, i.TrafficCongestionIncreasePct,
		i.DaysBeforeAnalyzed, i.DaysAfterAnalyzed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event impact: %w", err)
	}
	return nil
}
