package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/evently/evently-backend-go/internal/models"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, city, name, event_type, description, start_date, end_date, year,
	expected_attendance, actual_attendance, ticket_revenue_usd, event_cost_usd,
	created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.City, &e.Name, &e.EventType, &e.Description, &e.StartDate, &e.EndDate,
		&e.Year, &e.ExpectedAttendance, &e.ActualAttendance, &e.TicketRevenueUSD,
		&e.EventCostUSD, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetEvents retrieves events with optional filtering
func (r *EventRepository) GetEvents(filter models.EventFilter) ([]models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events"

	var conditions []string
	var args []interface{}

	if filter.City != "" {
		conditions = append(conditions, "city = ?")
		args = append(args, filter.City)
	}
	if filter.EventType != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, filter.EventType)
	}
	if filter.Year > 0 {
		conditions = append(conditions, "year = ?")
		args = append(args, filter.Year)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY start_date"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetEventByID retrieves a single event by ID.
// Returns (nil, nil) when the event does not exist.
func (r *EventRepository) GetEventByID(id int64) (*models.Event, error) {
	row := r.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// GetEventByName retrieves a single event by its exact name
func (r *EventRepository) GetEventByName(name string) (*models.Event, error) {
	row := r.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE name = ?", name)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// GetEventTypes returns the distinct event types present in the catalog
func (r *EventRepository) GetEventTypes() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT event_type FROM events ORDER BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to query event types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		types = append(types, t)
	}

	return types, rows.Err()
}

// CreateEvent inserts a new event and returns its ID
func (r *EventRepository) CreateEvent(e *models.Event) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO events (city, name, event_type, description, start_date, end_date, year,
			expected_attendance, actual_attendance, ticket_revenue_usd, event_cost_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.City, e.Name, e.EventType, e.Description, e.StartDate, e.EndDate, e.Year,
		e.ExpectedAttendance, e.ActualAttendance, e.TicketRevenueUSD, e.EventCostUSD,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return res.LastInsertId()
}

// UpsertEvent inserts or updates an event keyed by name
func (r *EventRepository) UpsertEvent(e *models.Event) error {
	_, err := r.db.Exec(`
		INSERT INTO events (city, name, event_type, description, start_date, end_date, year,
			expected_attendance, actual_attendance, ticket_revenue_usd, event_cost_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			city = excluded.city,
			event_type = excluded.event_type,
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			year = excluded.year,
			expected_attendance = excluded.expected_attendance,
			actual_attendance = excluded.actual_attendance,
			ticket_revenue_usd = excluded.ticket_revenue_usd,
			event_cost_usd = excluded.event_cost_usd,
			updated_at = CURRENT_TIMESTAMP`,
		e.City, e.Name, e.EventType, e.Description, e.StartDate, e.EndDate, e.Year,
		e.ExpectedAttendance, e.ActualAttendance, e.TicketRevenueUSD, e.EventCostUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}
