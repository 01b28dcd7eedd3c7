package models

import "time"

// EventType enumerates supported event categories
type EventType string

const (
	EventTypeSports     EventType = "sports"
	EventTypeMusic      EventType = "music"
	EventTypeCulture    EventType = "culture"
	EventTypeBusiness   EventType = "business"
	EventTypeFair       EventType = "fair"
	EventTypeFestival   EventType = "festival"
	EventTypeConference EventType = "conference"
	EventTypeOther      EventType = "other"
)

// ValidEventTypes lists every accepted event type
func ValidEventTypes() []string {
	return []string{
		string(EventTypeSports), string(EventTypeMusic), string(EventTypeCulture),
		string(EventTypeBusiness), string(EventTypeFair), string(EventTypeFestival),
		string(EventTypeConference), string(EventTypeOther),
	}
}

// IsValidEventType reports whether t is a known event type
func IsValidEventType(t string) bool {
	for _, v := range ValidEventTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Event represents a major urban event
type Event struct {
	ID     int64  `json:"id" db:"id"`
	City   string `json:"city" db:"city"` // city name, join key into cities
	CityID int64  `json:"city_id,omitempty" db:"city_id"`

	// Basic information
	Name        string    `json:"name" db:"name"`
	EventType   EventType `json:"event_type" db:"event_type"`
	Description string    `json:"description,omitempty" db:"description"`

	// Dates (stored as ISO 8601 date strings, YYYY-MM-DD)
	StartDate string `json:"start_date" db:"start_date"`
	EndDate   string `json:"end_date" db:"end_date"`
	Year      int    `json:"year" db:"year"`

	// Event characteristics
	ExpectedAttendance int64   `json:"expected_attendance,omitempty" db:"expected_attendance"`
	ActualAttendance   int64   `json:"actual_attendance,omitempty" db:"actual_attendance"`
	TicketRevenueUSD   float64 `json:"ticket_revenue_usd,omitempty" db:"ticket_revenue_usd"`
	EventCostUSD       float64 `json:"event_cost_usd,omitempty" db:"event_cost_usd"`

	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty" db:"updated_at"`
}

// Attendance returns actual attendance when recorded, otherwise expected
func (e *Event) Attendance() int64 {
	if e.ActualAttendance > 0 {
		return e.ActualAttendance
	}
	return e.ExpectedAttendance
}

// Start parses the start date
func (e *Event) Start() (time.Time, error) {
	return time.Parse("2006-01-02", e.StartDate)
}

// End parses the end date
func (e *Event) End() (time.Time, error) {
	return time.Parse("2006-01-02", e.EndDate)
}

// DurationDays returns the inclusive event duration in days.
// Returns 0 when either date is missing or malformed.
func (e *Event) DurationDays() int {
	start, err := e.Start()
	if err != nil {
		return 0
	}
	end, err := e.End()
	if err != nil {
		return 0
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// EventFilter represents filter parameters for querying events
type EventFilter struct {
	City      string `form:"city"`
	EventType string `form:"event_type"`
	Year      int    `form:"year"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}
