package service

import (
	"fmt"
	"math"

	"github.com/evently/evently-backend-go/internal/models"
)

// Scenario constants. Elasticity damps impact response to attendance
// shifts; the per-attendee figures size events with no history at all.
const (
	attendanceElasticity = 0.3

	newEventSpendPerAttendeeUSD = 300.0
	newEventOccupancyPct        = 70.0
	newEventJobsPerAttendees    = 100.0
	newEventVisitorIncreasePct  = 15.0
	newEventOccupancyBoostPct   = 20.0
)

// SimulationService runs what-if scenarios on top of stored impacts
type SimulationService struct {
	analysis *AnalysisService
}

// NewSimulationService creates a simulation service
func NewSimulationService(analysis *AnalysisService) *SimulationService {
	return &SimulationService{analysis: analysis}
}

// AttendanceScenario is the outcome of scaling an event's attendance
type AttendanceScenario struct {
	EventName           string  `json:"event_name"`
	AttendanceChangePct float64 `json:"attendance_change_pct"`
	Elasticity          float64 `json:"elasticity"`
	BaseImpactUSD       float64 `json:"base_impact_usd"`
	ImpactChangePct     float64 `json:"impact_change_pct"`
	ProjectedImpactUSD  float64 `json:"projected_impact_usd"`
}

// SimulateAttendanceChange projects the impact of an existing event if
// its attendance shifted by changePct percent. Impact responds with a
// damped elasticity rather than linearly.
func (s *SimulationService) SimulateAttendanceChange(eventName string, changePct float64) (*AttendanceScenario, error) {
	impact, err := s.analysis.GetImpact(eventName)
	if err != nil {
		return nil, err
	}
	if impact.TotalEconomicImpactUSD == nil {
		return nil, fmt.Errorf("event %q has no measured economic impact to scale", eventName)
	}

	base := *impact.TotalEconomicImpactUSD
	impactChange := attendanceElasticity * changePct

	return &AttendanceScenario{
		EventName:           eventName,
		AttendanceChangePct: changePct,
		Elasticity:          attendanceElasticity,
		BaseImpactUSD:       base,
		ImpactChangePct:     impactChange,
		ProjectedImpactUSD:  math.Max(0, base*(1+impactChange/100)),
	}, nil
}

// GrowthYear is one projected year of a recurring event
type GrowthYear struct {
	Year               int     `json:"year"`
	ProjectedImpactUSD float64 `json:"projected_impact_usd"`
}

// GrowthScenario projects a recurring event's impact over several years
type GrowthScenario struct {
	EventName       string       `json:"event_name"`
	AnnualGrowthPct float64      `json:"annual_growth_pct"`
	BaseImpactUSD   float64      `json:"base_impact_usd"`
	Years           []GrowthYear `json:"years"`
}

// SimulateGrowth compounds a recurring event's measured impact over the
// given number of future years.
func (s *SimulationService) SimulateGrowth(eventName string, years int, annualGrowthPct float64) (*GrowthScenario, error) {
	if years <= 0 || years > 20 {
		return nil, fmt.Errorf("years must be between 1 and 20, got %d", years)
	}

	impact, err := s.analysis.GetImpact(eventName)
	if err != nil {
		return nil, err
	}
	if impact.TotalEconomicImpactUSD == nil {
		return nil, fmt.Errorf("event %q has no measured economic impact to project", eventName)
	}

	base := *impact.TotalEconomicImpactUSD
	scenario := &GrowthScenario{
		EventName:       eventName,
		AnnualGrowthPct: annualGrowthPct,
		BaseImpactUSD:   base,
	}

	factor := 1 + annualGrowthPct/100
	projected := base
	for y := 1; y <= years; y++ {
		projected *= factor
		scenario.Years = append(scenario.Years, GrowthYear{Year: y, ProjectedImpactUSD: projected})
	}
	return scenario, nil
}

// NewEventScenario is a rule-of-thumb estimate for a brand-new event
type NewEventScenario struct {
	City                string  `json:"city"`
	EventType           string  `json:"event_type"`
	Attendance          int64   `json:"attendance"`
	DurationDays        int     `json:"duration_days"`
	EstimatedImpactUSD  float64 `json:"estimated_impact_usd"`
	EstimatedJobs       int64   `json:"estimated_jobs"`
	HotelOccupancyPct   float64 `json:"hotel_occupancy_pct"`
	OccupancyBoostPct   float64 `json:"occupancy_boost_pct"`
	VisitorIncreasePct  float64 `json:"visitor_increase_pct"`
	SpendPerAttendeeUSD float64 `json:"spend_per_attendee_usd"`
}

// SimulateNewEvent sizes a hypothetical event with fixed per-attendee
// rules. Unlike prediction, this needs no model and no history.
func (s *SimulationService) SimulateNewEvent(city string, eventType string, attendance int64, durationDays int) (*NewEventScenario, error) {
	if attendance <= 0 {
		return nil, fmt.Errorf("attendance must be positive, got %d", attendance)
	}
	if durationDays <= 0 {
		durationDays = 1
	}
	if !models.IsValidEventType(eventType) {
		return nil, fmt.Errorf("invalid event type %q, accepted: %v", eventType, models.ValidEventTypes())
	}

	return &NewEventScenario{
		City:                city,
		EventType:           eventType,
		Attendance:          attendance,
		DurationDays:        durationDays,
		EstimatedImpactUSD:  float64(attendance) * newEventSpendPerAttendeeUSD,
		EstimatedJobs:       int64(math.Round(float64(attendance) / newEventJobsPerAttendees)),
		HotelOccupancyPct:   newEventOccupancyPct,
		OccupancyBoostPct:   newEventOccupancyBoostPct,
		VisitorIncreasePct:  newEventVisitorIncreasePct,
		SpendPerAttendeeUSD: newEventSpendPerAttendeeUSD,
	}, nil
}
