package models

// MetricDomain identifies one of the four daily metric families
type MetricDomain string

const (
	DomainTourism  MetricDomain = "tourism"
	DomainHotel    MetricDomain = "hotel"
	DomainEconomic MetricDomain = "economic"
	DomainMobility MetricDomain = "mobility"
)

// MetricDomains lists all daily metric domains
func MetricDomains() []MetricDomain {
	return []MetricDomain{DomainTourism, DomainHotel, DomainEconomic, DomainMobility}
}

// TourismMetric holds daily visitor statistics for one city
type TourismMetric struct {
	ID   int64  `json:"id" db:"id"`
	City string `json:"city" db:"city"`
	Date string `json:"date" db:"date"` // YYYY-MM-DD

	DomesticVisitors      int64   `json:"domestic_visitors" db:"domestic_visitors"`
	InternationalVisitors int64   `json:"international_visitors" db:"international_visitors"`
	TotalVisitors         int64   `json:"total_visitors" db:"total_visitors"`
	AvgStayDurationDays   float64 `json:"avg_stay_duration_days" db:"avg_stay_duration_days"`
	AvgSpendingPerVisitor float64 `json:"avg_spending_per_visitor_usd" db:"avg_spending_per_visitor_usd"`
}

// HotelMetric holds daily hotel occupancy and pricing for one city
type HotelMetric struct {
	ID   int64  `json:"id" db:"id"`
	City string `json:"city" db:"city"`
	Date string `json:"date" db:"date"`

	OccupancyRatePct float64 `json:"occupancy_rate_pct" db:"occupancy_rate_pct"`
	AvailableRooms   int64   `json:"available_rooms" db:"available_rooms"`
	OccupiedRooms    int64   `json:"occupied_rooms" db:"occupied_rooms"`
	AvgPriceUSD      float64 `json:"avg_price_usd" db:"avg_price_usd"`
	RevPARUSD        float64 `json:"revpar_usd" db:"revpar_usd"`
}

// EconomicMetric holds daily spending and employment figures for one city
type EconomicMetric struct {
	ID   int64  `json:"id" db:"id"`
	City string `json:"city" db:"city"`
	Date string `json:"date" db:"date"`

	TotalSpendingUSD         float64 `json:"total_spending_usd" db:"total_spending_usd"`
	AccommodationSpendingUSD float64 `json:"accommodation_spending_usd" db:"accommodation_spending_usd"`
	FoodBeverageSpendingUSD  float64 `json:"food_beverage_spending_usd" db:"food_beverage_spending_usd"`
	RetailSpendingUSD        float64 `json:"retail_spending_usd" db:"retail_spending_usd"`
	TemporaryJobsCreated     int64   `json:"temporary_jobs_created" db:"temporary_jobs_created"`
	EstimatedTaxRevenueUSD   float64 `json:"estimated_tax_revenue_usd" db:"estimated_tax_revenue_usd"`
}

// MobilityMetric holds daily transportation figures for one city
type MobilityMetric struct {
	ID   int64  `json:"id" db:"id"`
	City string `json:"city" db:"city"`
	Date string `json:"date" db:"date"`

	AirportArrivals        int64   `json:"airport_arrivals" db:"airport_arrivals"`
	InternationalFlights   int64   `json:"international_flights" db:"international_flights"`
	PublicTransportUsage   int64   `json:"public_transport_usage" db:"public_transport_usage"`
	TrafficCongestionIndex float64 `json:"traffic_congestion_index" db:"traffic_congestion_index"`
}
