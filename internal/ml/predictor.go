package ml

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/stats"
)

// ErrModelNotReady is returned when prediction is requested before a
// trained artifact is available. There is no fallback estimate: callers
// must train or load a model first.
var ErrModelNotReady = errors.New("no trained model available")

// ErrNoAnalogousEvents is returned by minimal-input prediction when the
// catalog holds no historical events to synthesize inputs from.
var ErrNoAnalogousEvents = errors.New("no analogous historical events")

// UnknownEntityError reports a request referencing a city or event type
// absent from the catalog, naming the accepted values.
type UnknownEntityError struct {
	Kind  string
	Name  string
	Valid []string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q, valid: %s", e.Kind, e.Name, strings.Join(e.Valid, ", "))
}

// Defaults substituted for missing request fields and cities with
// incomplete profiles
const (
	defaultAttendance     = 50000
	defaultDurationDays   = 1
	defaultPopulation     = 1_000_000
	defaultAnnualTourists = 5_000_000
	defaultHotelRooms     = 50000
	defaultHotelPriceUSD  = 150.0

	// Peak event pricing relative to the city's normal rate
	maxPriceFactor = 1.5

	// Heuristic ceilings for derived demand-shift features
	maxVisitorIncreasePct = 100.0
	maxPriceIncreasePct   = 150.0
	maxOccupancyBoostPct  = 25.0

	// Spending breakdown shares of the total predicted impact
	directShare   = 0.64
	indirectShare = 0.25
	inducedShare  = 0.11

	// Assumed return ratio used to back out an implied event budget
	assumedROIRatio = 4.0

	// Normal-week comparison: baseline daily visitor spend times a
	// fixed economy-wide multiplier
	baselineSpendPerVisitorUSD = 150.0
	baselineMultiplier         = 1.7

	// Uncertainty band half-width as a multiple of the model's MAPE
	bandMAPEFactor = 1.5

	// Employment intensity divisor: dollars-per-job is an annual figure
	// scaled to the event's share of a 250-working-day year
	jobsDivisor = 250.0

	// Defaults for historical averages that have no data behind them
	fallbackAttendancePerDay = 50000.0
	fallbackVisitorIncrease  = 50.0
	fallbackPriceIncrease    = 60.0
	fallbackOccupancyBoost   = 15.0
	fallbackImpactPerDayUSD  = 50_000_000.0
	fallbackBaselineSpendUSD = 150.0
)

// cityJobsRatio holds employment intensity per host city, calibrated on
// the historical catalog. Unlisted cities use defaultJobsRatio.
var cityJobsRatio = map[string]float64{
	"Paris":          47475,
	"New York":       43102,
	"Berlin":         42426,
	"London":         41727,
	"Madrid":         40383,
	"Tokyo":          40315,
	"Rio de Janeiro": 40027,
	"Barcelona":      40009,
	"Amsterdam":      40009,
	"Dubai":          40007,
	"São Paulo":      40007,
	"Sydney":         40006,
	"Singapore":      40005,
	"Miami":          40005,
	"Los Angeles":    40002,
	"Chicago":        40001,
}

// typeJobsRatio is the same intensity keyed by event type
var typeJobsRatio = map[string]float64{
	"sports":     43398,
	"music":      40243,
	"culture":    41085,
	"festival":   40966,
	"conference": 40005,
	"expo":       40007,
}

const defaultJobsRatio = 40000

// PredictionRequest describes a hypothetical event to estimate
type PredictionRequest struct {
	City         string `json:"city"`
	EventType    string `json:"event_type"`
	Attendance   int64  `json:"expected_attendance"`
	DurationDays int    `json:"duration_days"`
}

// SpendingBreakdown splits predicted impact into standard components
type SpendingBreakdown struct {
	DirectUSD   float64 `json:"direct_usd"`
	IndirectUSD float64 `json:"indirect_usd"`
	InducedUSD  float64 `json:"induced_usd"`
}

// BaselineComparison contrasts the predicted event impact with the
// city's estimated normal-tourism impact over the same duration.
type BaselineComparison struct {
	BaselinePeriodImpactUSD  float64 `json:"baseline_period_impact_usd"`
	EventImpactUSD           float64 `json:"event_impact_usd"`
	AdditionalImpactUSD      float64 `json:"additional_impact_usd"`
	ImpactMultiplier         float64 `json:"impact_multiplier"`
	BaselineDailyVisitors    int64   `json:"baseline_daily_visitors"`
	BaselineDailySpendingUSD float64 `json:"baseline_daily_spending_usd"`
	SpendPerVisitorUSD       float64 `json:"spend_per_visitor_usd"`
	Multiplier               float64 `json:"multiplier"`
}

// HistoricalReference summarizes the analogous events behind a
// minimal-input prediction.
type HistoricalReference struct {
	Scope                 string   `json:"scope"`
	SampleSize            int      `json:"sample_size"`
	AvgAttendancePerDay   float64  `json:"avg_attendance_per_day"`
	AvgImpactPerDayUSD    float64  `json:"avg_impact_per_day_usd"`
	AvgVisitorIncreasePct float64  `json:"avg_visitor_increase_pct"`
	AvgPriceIncreasePct   float64  `json:"avg_price_increase_pct"`
	AvgOccupancyBoostPct  float64  `json:"avg_occupancy_boost_pct"`
	ExampleEvents         []string `json:"example_events,omitempty"`
}

// maxExampleEvents caps the reference event names reported back
const maxExampleEvents = 5

// PredictionResult is the full prediction payload
type PredictionResult struct {
	City         string `json:"city"`
	EventType    string `json:"event_type"`
	Attendance   int64  `json:"attendance"`
	DurationDays int    `json:"duration_days"`

	PredictedImpactUSD float64 `json:"predicted_impact_usd"`
	LowerBoundUSD      float64 `json:"lower_bound_usd"`
	UpperBoundUSD      float64 `json:"upper_bound_usd"`

	ModelName       string  `json:"model_name"`
	ModelR2         float64 `json:"model_r2,omitempty"`
	MAPEPct         float64 `json:"mape_pct,omitempty"`
	ConfidenceLevel string  `json:"confidence_level"`

	Breakdown          SpendingBreakdown  `json:"breakdown"`
	JobsCreated        int64              `json:"jobs_created"`
	ImpliedEventCost   float64            `json:"implied_event_cost_usd"`
	ROIRatio           float64            `json:"roi_ratio"`
	BaselineComparison BaselineComparison `json:"baseline_comparison"`

	// Features records the assembled vector behind the estimate
	Features *FeatureRecord `json:"features,omitempty"`

	// HistoricalReference is set for minimal-input predictions
	HistoricalReference *HistoricalReference `json:"historical_reference,omitempty"`
}

// Predictor answers predictions against a trained artifact. Both entry
// modes run the same model; minimal-input mode only differs in how the
// feature vector is synthesized.
type Predictor struct {
	artifact *Artifact

	// BaselineMultiplier scales the normal-week comparison; zero means
	// the standard 1.7 multiplier.
	BaselineMultiplier float64
}

// NewPredictor wraps a loaded artifact. A nil artifact yields
// ErrModelNotReady from every prediction call.
func NewPredictor(artifact *Artifact) *Predictor {
	return &Predictor{artifact: artifact}
}

// Artifact exposes the underlying bundle for status endpoints
func (p *Predictor) Artifact() *Artifact { return p.artifact }

// cityProfile resolves city-level figures, substituting typical-host
// defaults for missing fields. city may be nil.
type cityProfile struct {
	population     float64
	annualTourists float64
	hotelRooms     float64
	hotelPrice     float64
	continent      string
}

func profileCity(city *models.City) cityProfile {
	cp := cityProfile{
		population:     defaultPopulation,
		annualTourists: defaultAnnualTourists,
		hotelRooms:     defaultHotelRooms,
		hotelPrice:     defaultHotelPriceUSD,
	}
	if city == nil {
		return cp
	}
	if city.Population > 0 {
		cp.population = float64(city.Population)
	}
	if city.AnnualTourists > 0 {
		cp.annualTourists = float64(city.AnnualTourists)
	}
	if city.HotelRooms > 0 {
		cp.hotelRooms = float64(city.HotelRooms)
	}
	if city.AvgHotelPriceUSD > 0 {
		cp.hotelPrice = city.AvgHotelPriceUSD
	}
	cp.continent = city.Continent
	return cp
}

// Predict estimates the economic impact of a hypothetical event with
// the trained model. Unspecified attendance and duration take defaults;
// city-level features come from the profile with per-field defaults.
func (p *Predictor) Predict(req PredictionRequest, city *models.City) (*PredictionResult, error) {
	if p.artifact == nil || p.artifact.Best() == nil {
		return nil, ErrModelNotReady
	}

	attendance := req.Attendance
	if attendance <= 0 {
		attendance = defaultAttendance
	}
	duration := req.DurationDays
	if duration <= 0 {
		duration = defaultDurationDays
	}

	profile := profileCity(city)
	record := p.assembleHypothetical(req, profile, attendance, duration)
	return p.predictRecord(req, record, profile, attendance, duration), nil
}

// PredictSimple produces a minimal-input prediction: it synthesizes the
// unknown event's inputs from analogous historical events, then runs
// the same trained model. Events of the requested type on the city's
// continent are preferred when at least two exist; otherwise all events
// of the type; otherwise the whole history.
func (p *Predictor) PredictSimple(req PredictionRequest, city *models.City, history []AnalogousEvent) (*PredictionResult, error) {
	if p.artifact == nil || p.artifact.Best() == nil {
		return nil, ErrModelNotReady
	}
	if len(history) == 0 {
		return nil, ErrNoAnalogousEvents
	}

	profile := profileCity(city)
	analogous, scope := selectAnalogous(history, req.EventType, profile.continent)

	duration := req.DurationDays
	if duration <= 0 {
		duration = defaultDurationDays
	}

	var attendanceRates, impactRates []float64
	var visitorIncs, priceIncs, occupancyBoosts []float64
	var examples []string
	for _, e := range analogous {
		if e.AttendancePerDay > 0 {
			attendanceRates = append(attendanceRates, e.AttendancePerDay)
		}
		if e.ImpactPerDayUSD > 0 {
			impactRates = append(impactRates, e.ImpactPerDayUSD)
		}
		if e.VisitorIncreasePct != 0 {
			visitorIncs = append(visitorIncs, e.VisitorIncreasePct)
		}
		if e.PriceIncreasePct != 0 {
			priceIncs = append(priceIncs, e.PriceIncreasePct)
		}
		if e.OccupancyBoostPct != 0 {
			occupancyBoosts = append(occupancyBoosts, e.OccupancyBoostPct)
		}
		if e.Name != "" && len(examples) < maxExampleEvents {
			examples = append(examples, e.Name)
		}
	}

	avgAttendancePerDay := sanitize(stats.Mean(attendanceRates), fallbackAttendancePerDay)
	avgVisitorInc := sanitize(stats.Mean(visitorIncs), fallbackVisitorIncrease)
	avgPriceInc := sanitize(stats.Mean(priceIncs), fallbackPriceIncrease)
	avgOccupancyBoost := sanitize(stats.Mean(occupancyBoosts), fallbackOccupancyBoost)
	avgImpactPerDay := sanitize(stats.Mean(impactRates), fallbackImpactPerDayUSD)

	attendance := req.Attendance
	if attendance <= 0 {
		attendance = int64(math.Round(avgAttendancePerDay * float64(duration)))
	}

	// Start from the standard hypothetical vector, then overwrite the
	// demand-shift features with the historical averages
	record := p.assembleHypothetical(req, profile, attendance, duration)
	record.VisitorIncreaseActual = avgVisitorInc
	record.DailySpendingIncreasePct = math.Min(maxOccupancyBoostPct, 0.3*avgVisitorInc)
	eventAvgPrice := profile.hotelPrice * (1 + avgPriceInc/100)
	record.EventAvgHotelPrice = eventAvgPrice
	record.EventAvgAccommodationSpending = eventAvgPrice * float64(attendance) / profile.hotelRooms

	result := p.predictRecord(req, record, profile, attendance, duration)
	result.HistoricalReference = &HistoricalReference{
		Scope:                 scope,
		SampleSize:            len(analogous),
		AvgAttendancePerDay:   avgAttendancePerDay,
		AvgImpactPerDayUSD:    avgImpactPerDay,
		AvgVisitorIncreasePct: avgVisitorInc,
		AvgPriceIncreasePct:   avgPriceInc,
		AvgOccupancyBoostPct:  avgOccupancyBoost,
		ExampleEvents:         examples,
	}
	return result, nil
}

// predictRecord runs the trained model on an assembled record and fills
// every derived block of the result.
func (p *Predictor) predictRecord(req PredictionRequest, record *FeatureRecord, profile cityProfile, attendance int64, duration int) *PredictionResult {
	model := p.artifact.Best()
	scaled := p.artifact.Scaler.TransformRow(record.Vector())
	predicted := math.Expm1(model.Predict(scaled))
	if predicted < 0 || math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		predicted = 0
	}

	metrics := p.artifact.BestMetrics()
	result := &PredictionResult{
		City:               req.City,
		EventType:          req.EventType,
		Attendance:         attendance,
		DurationDays:       duration,
		PredictedImpactUSD: predicted,
		ModelName:          model.Name(),
		ModelR2:            metrics.R2,
		MAPEPct:            metrics.MAPE,
		ConfidenceLevel:    confidenceFromMAPE(metrics.MAPE),
		Features:           record,
	}

	half := bandMAPEFactor * result.MAPEPct / 100
	result.LowerBoundUSD = math.Max(0, predicted*(1-half))
	result.UpperBoundUSD = predicted * (1 + half)

	p.fillDerivedEstimates(result, req.City, req.EventType, duration, profile.annualTourists/365, predicted)
	return result
}

// assembleHypothetical builds the feature vector for an event that has
// not happened, substituting demand heuristics for measured windows.
func (p *Predictor) assembleHypothetical(req PredictionRequest, profile cityProfile, attendance int64, duration int) *FeatureRecord {
	att := float64(attendance)
	dur := float64(duration)

	// Demand shift relative to the city's normal daily tourist flow
	dailyTourists := profile.annualTourists / 365
	visitorIncrease := math.Min(maxVisitorIncreasePct, att/dailyTourists*100)
	priceIncrease := math.Min(maxPriceIncreasePct, 0.8*visitorIncrease)
	spendingIncrease := math.Min(maxOccupancyBoostPct, 0.3*visitorIncrease)

	if !p.artifact.Encoder.Known(req.EventType) {
		log.Printf("[Predictor] Event type %q unseen in training, using fallback encoding", req.EventType)
	}

	eventAvgPrice := profile.hotelPrice * (1 + priceIncrease/100)
	return &FeatureRecord{
		City:      req.City,
		EventType: req.EventType,
		Continent: profile.continent,

		Attendance:                    att,
		EventTypeEncoded:              float64(p.artifact.Encoder.Encode(req.EventType)),
		DurationDays:                  dur,
		AttendancePerDay:              att / dur,
		VisitorsPerHotelRoom:          att / profile.hotelRooms,
		HotelRooms:                    profile.hotelRooms,
		CityTourismIntensity:          profile.annualTourists / profile.population,
		EventMaxHotelPrice:            profile.hotelPrice * maxPriceFactor,
		EventAvgHotelPrice:            eventAvgPrice,
		DailySpendingIncreasePct:      spendingIncrease,
		EventAvgPublicTransport:       profile.population * 0.2,
		VisitorIncreaseActual:         visitorIncrease,
		BaselineAvgSpendingPerVisitor: fallbackBaselineSpendUSD,
		EventAvgAccommodationSpending: eventAvgPrice * att / profile.hotelRooms,
	}
}

// fillDerivedEstimates populates breakdown, jobs, ROI, and the
// normal-week baseline comparison.
func (p *Predictor) fillDerivedEstimates(result *PredictionResult, city, eventType string, duration int, baselineDailyVisitors, predicted float64) {
	result.Breakdown = SpendingBreakdown{
		DirectUSD:   predicted * directShare,
		IndirectUSD: predicted * indirectShare,
		InducedUSD:  predicted * inducedShare,
	}

	ratio, ok := cityJobsRatio[city]
	if !ok {
		if ratio, ok = typeJobsRatio[eventType]; !ok {
			ratio = defaultJobsRatio
		}
	}
	// Annual dollars-per-job scaled down to the event's length
	costPerJob := ratio / jobsDivisor * float64(duration)
	result.JobsCreated = int64(math.Round(predicted / costPerJob))

	result.ROIRatio = assumedROIRatio
	result.ImpliedEventCost = predicted / assumedROIRatio

	multiplier := p.BaselineMultiplier
	if multiplier <= 0 {
		multiplier = baselineMultiplier
	}

	// Normal tourism for the same city and duration, without the event
	dailySpending := baselineDailyVisitors * baselineSpendPerVisitorUSD
	baselineImpact := dailySpending * float64(duration) * multiplier

	comparison := BaselineComparison{
		BaselinePeriodImpactUSD:  baselineImpact,
		EventImpactUSD:           predicted,
		AdditionalImpactUSD:      predicted - baselineImpact,
		BaselineDailyVisitors:    int64(baselineDailyVisitors),
		BaselineDailySpendingUSD: dailySpending,
		SpendPerVisitorUSD:       baselineSpendPerVisitorUSD,
		Multiplier:               multiplier,
	}
	if baselineImpact > 0 {
		comparison.ImpactMultiplier = predicted / baselineImpact
	}
	result.BaselineComparison = comparison
}

// AnalogousEvent is one historical event summarized for minimal-input
// prediction.
type AnalogousEvent struct {
	Name               string  `json:"name"`
	EventType          string  `json:"event_type"`
	Continent          string  `json:"continent"`
	AttendancePerDay   float64 `json:"attendance_per_day"`
	ImpactPerDayUSD    float64 `json:"impact_per_day_usd"`
	VisitorIncreasePct float64 `json:"visitor_increase_pct"`
	PriceIncreasePct   float64 `json:"price_increase_pct"`
	OccupancyBoostPct  float64 `json:"occupancy_boost_pct"`
}

// selectAnalogous narrows history by type and continent preference and
// describes the chosen scope.
func selectAnalogous(history []AnalogousEvent, eventType, continent string) ([]AnalogousEvent, string) {
	var sameType, sameTypeContinent []AnalogousEvent
	for _, e := range history {
		if e.EventType != eventType {
			continue
		}
		sameType = append(sameType, e)
		if continent != "" && e.Continent == continent {
			sameTypeContinent = append(sameTypeContinent, e)
		}
	}

	if len(sameTypeContinent) >= 2 {
		return sameTypeContinent, fmt.Sprintf("%s (%d events)", continent, len(sameTypeContinent))
	}
	if len(sameType) > 0 {
		return sameType, fmt.Sprintf("global %s events (%d)", eventType, len(sameType))
	}
	return history, fmt.Sprintf("all event types (%d)", len(history))
}

// confidenceFromMAPE buckets a held-out MAPE into a reported level
func confidenceFromMAPE(mape float64) string {
	switch {
	case mape > 0 && mape < 25:
		return "high"
	case mape < 50:
		return "medium"
	default:
		return "low"
	}
}

// sanitize replaces non-finite or non-positive values with a fallback
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}
