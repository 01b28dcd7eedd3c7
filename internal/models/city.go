package models

// City represents an urban area hosting events.
// The name is the join key across all metric tables and must match exactly
// (no fuzzy matching anywhere in the pipeline).
type City struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Country     string `json:"country" db:"country"`
	CountryCode string `json:"country_code,omitempty" db:"country_code"`
	Continent   string `json:"continent" db:"continent"`

	// Geographic data
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Timezone  string  `json:"timezone,omitempty" db:"timezone"`

	// City characteristics
	Population int64   `json:"population" db:"population"`
	AreaKm2    float64 `json:"area_km2,omitempty" db:"area_km2"`
	GDPUSD     float64 `json:"gdp_usd,omitempty" db:"gdp_usd"`

	// Tourism baseline
	AnnualTourists   int64   `json:"annual_tourists" db:"annual_tourists"`
	HotelRooms       int64   `json:"hotel_rooms" db:"hotel_rooms"`
	AvgHotelPriceUSD float64 `json:"avg_hotel_price_usd" db:"avg_hotel_price_usd"`

	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty" db:"updated_at"`
}

// CityDistance pairs a city with its distance from a reference city
type CityDistance struct {
	City       City    `json:"city"`
	DistanceKm float64 `json:"distance_km"`
}

// CityFilter represents filter parameters for querying cities
type CityFilter struct {
	Country   string `form:"country"`
	Continent string `form:"continent"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}
