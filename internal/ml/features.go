package ml

import (
	"fmt"
	"math"
	"strings"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/stats"
)

// Canonical feature column order. Vector() and every model row follow it.
var featureColumns = []string{
	"attendance",
	"event_type_encoded",
	"duration_days",
	"attendance_per_day",
	"visitors_per_hotel_room",
	"hotel_rooms",
	"city_tourism_intensity",
	"event_max_hotel_price",
	"event_avg_hotel_price",
	"daily_spending_increase_pct",
	"event_avg_public_transport",
	"visitor_increase_actual",
	"baseline_avg_spending_per_visitor",
	"event_avg_accommodation_spending",
}

// FeatureColumns returns the canonical feature names in model order
func FeatureColumns() []string {
	out := make([]string, len(featureColumns))
	copy(out, featureColumns)
	return out
}

// ImputePolicy selects how a missing value is filled during assembly
type ImputePolicy int

const (
	// ImputeMedian fills with the column median of the observed rows
	ImputeMedian ImputePolicy = iota
	// ImputeZero fills with 0; used for rate-of-change style features where
	// "no data" most plausibly means "no measured change"
	ImputeZero
)

// FeatureMeta describes one feature column
type FeatureMeta struct {
	Name   string       `json:"name"`
	Index  int          `json:"index"`
	Policy ImputePolicy `json:"policy"`
}

// featureMeta is derived once from the column names. Change-rate columns
// (increase / boost / pct in the name) impute to zero, everything else to
// the column median.
var featureMeta = buildFeatureMeta()

func buildFeatureMeta() []FeatureMeta {
	meta := make([]FeatureMeta, len(featureColumns))
	for i, name := range featureColumns {
		policy := ImputeMedian
		if strings.Contains(name, "increase") || strings.Contains(name, "boost") ||
			strings.Contains(name, "pct") {
			policy = ImputeZero
		}
		meta[i] = FeatureMeta{Name: name, Index: i, Policy: policy}
	}
	return meta
}

// FeatureMetadata returns the per-column metadata table
func FeatureMetadata() []FeatureMeta {
	out := make([]FeatureMeta, len(featureMeta))
	copy(out, featureMeta)
	return out
}

// FeatureRecord is one event's feature vector with its provenance.
// Missing values are NaN until imputation fills them.
type FeatureRecord struct {
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
	City      string `json:"city"`
	Continent string `json:"continent"`
	EventType string `json:"event_type"`

	Attendance                    float64 `json:"attendance"`
	EventTypeEncoded              float64 `json:"event_type_encoded"`
	DurationDays                  float64 `json:"duration_days"`
	AttendancePerDay              float64 `json:"attendance_per_day"`
	VisitorsPerHotelRoom          float64 `json:"visitors_per_hotel_room"`
	HotelRooms                    float64 `json:"hotel_rooms"`
	CityTourismIntensity          float64 `json:"city_tourism_intensity"`
	EventMaxHotelPrice            float64 `json:"event_max_hotel_price"`
	EventAvgHotelPrice            float64 `json:"event_avg_hotel_price"`
	DailySpendingIncreasePct      float64 `json:"daily_spending_increase_pct"`
	EventAvgPublicTransport       float64 `json:"event_avg_public_transport"`
	VisitorIncreaseActual         float64 `json:"visitor_increase_actual"`
	BaselineAvgSpendingPerVisitor float64 `json:"baseline_avg_spending_per_visitor"`
	EventAvgAccommodationSpending float64 `json:"event_avg_accommodation_spending"`

	// Target is the measured total economic impact in USD
	Target    float64 `json:"target"`
	HasTarget bool    `json:"has_target"`
}

// Vector returns the feature values in canonical column order
func (r *FeatureRecord) Vector() []float64 {
	return []float64{
		r.Attendance,
		r.EventTypeEncoded,
		r.DurationDays,
		r.AttendancePerDay,
		r.VisitorsPerHotelRoom,
		r.HotelRooms,
		r.CityTourismIntensity,
		r.EventMaxHotelPrice,
		r.EventAvgHotelPrice,
		r.DailySpendingIncreasePct,
		r.EventAvgPublicTransport,
		r.VisitorIncreaseActual,
		r.BaselineAvgSpendingPerVisitor,
		r.EventAvgAccommodationSpending,
	}
}

// setVector writes a vector in canonical order back into the record
func (r *FeatureRecord) setVector(v []float64) {
	r.Attendance = v[0]
	r.EventTypeEncoded = v[1]
	r.DurationDays = v[2]
	r.AttendancePerDay = v[3]
	r.VisitorsPerHotelRoom = v[4]
	r.HotelRooms = v[5]
	r.CityTourismIntensity = v[6]
	r.EventMaxHotelPrice = v[7]
	r.EventAvgHotelPrice = v[8]
	r.DailySpendingIncreasePct = v[9]
	r.EventAvgPublicTransport = v[10]
	r.VisitorIncreaseActual = v[11]
	r.BaselineAvgSpendingPerVisitor = v[12]
	r.EventAvgAccommodationSpending = v[13]
}

// Assembler builds feature records from catalog rows and daily metrics
type Assembler struct {
	source     analysis.MetricSource
	comparator *analysis.Comparator
	encoder    *LabelEncoder
}

// NewAssembler creates an assembler. The encoder must already be fit on
// the event types of the training catalog.
func NewAssembler(source analysis.MetricSource, comparator *analysis.Comparator, encoder *LabelEncoder) *Assembler {
	return &Assembler{source: source, comparator: comparator, encoder: encoder}
}

// Assemble builds the feature record for one event. It returns an error
// for rows missing hard prerequisites (attendance, duration, event type);
// such rows cannot be used for training or prediction.
func (a *Assembler) Assemble(event *models.Event, city *models.City) (*FeatureRecord, error) {
	attendance := event.Attendance()
	if attendance <= 0 {
		return nil, fmt.Errorf("event %q has no attendance figure", event.Name)
	}
	duration := event.DurationDays()
	if duration <= 0 {
		return nil, fmt.Errorf("event %q has no valid duration", event.Name)
	}
	if !models.IsValidEventType(string(event.EventType)) {
		return nil, fmt.Errorf("event %q has unknown event type %q", event.Name, event.EventType)
	}

	r := &FeatureRecord{
		EventID:   event.ID,
		EventName: event.Name,
		City:      event.City,
		EventType: string(event.EventType),

		Attendance:       float64(attendance),
		EventTypeEncoded: float64(a.encoder.Encode(string(event.EventType))),
		DurationDays:     float64(duration),
		AttendancePerDay: float64(attendance) / float64(duration),
	}

	a.applyCityFeatures(r, float64(attendance), city)

	comparison, err := a.comparator.Compare(event)
	if err != nil {
		return nil, err
	}
	a.applyWindowFeatures(r, event, comparison)

	return r, nil
}

func (a *Assembler) applyCityFeatures(r *FeatureRecord, attendance float64, city *models.City) {
	r.VisitorsPerHotelRoom = math.NaN()
	r.HotelRooms = math.NaN()
	r.CityTourismIntensity = math.NaN()

	if city == nil {
		return
	}
	r.Continent = city.Continent
	if city.HotelRooms > 0 {
		r.HotelRooms = float64(city.HotelRooms)
		r.VisitorsPerHotelRoom = attendance / float64(city.HotelRooms)
	}
	if city.Population > 0 {
		r.CityTourismIntensity = float64(city.AnnualTourists) / float64(city.Population)
	}
}

func (a *Assembler) applyWindowFeatures(r *FeatureRecord, event *models.Event, c *analysis.ComparisonResult) {
	r.EventMaxHotelPrice = math.NaN()
	r.EventAvgHotelPrice = math.NaN()
	r.DailySpendingIncreasePct = math.NaN()
	r.EventAvgPublicTransport = math.NaN()
	r.VisitorIncreaseActual = math.NaN()
	r.BaselineAvgSpendingPerVisitor = math.NaN()
	r.EventAvgAccommodationSpending = math.NaN()

	if price, ok := c.Metric(models.DomainHotel, "avg_price_usd"); ok && price.EventPeriod > 0 {
		r.EventAvgHotelPrice = price.EventPeriod
	}
	if spending, ok := c.Metric(models.DomainEconomic, "total_spending_usd"); ok {
		r.DailySpendingIncreasePct = spending.ChangePct
	}
	if transit, ok := c.Metric(models.DomainMobility, "public_transport_usage"); ok && transit.EventPeriod > 0 {
		r.EventAvgPublicTransport = transit.EventPeriod
	}
	if visitors, ok := c.Metric(models.DomainTourism, "total_visitors"); ok {
		r.VisitorIncreaseActual = visitors.ChangePct
	}
	if spend, ok := c.Metric(models.DomainTourism, "avg_spending_per_visitor_usd"); ok && spend.Baseline > 0 {
		r.BaselineAvgSpendingPerVisitor = spend.Baseline
	}
	if accom, ok := c.Metric(models.DomainEconomic, "accommodation_spending_usd"); ok && accom.EventPeriod > 0 {
		r.EventAvgAccommodationSpending = accom.EventPeriod
	}

	// Peak event-window price needs the raw rows, not the window mean
	if rows, err := a.source.HotelBetween(event.City, event.StartDate, event.EndDate); err == nil && len(rows) > 0 {
		prices := make([]float64, 0, len(rows))
		for _, m := range rows {
			if m.AvgPriceUSD > 0 {
				prices = append(prices, m.AvgPriceUSD)
			}
		}
		if len(prices) > 0 {
			r.EventMaxHotelPrice = stats.Max(prices)
		}
	}
}
