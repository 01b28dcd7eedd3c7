package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

// Importer loads catalog and metric CSVs into the database
type Importer struct {
	cities  *repository.CityRepository
	events  *repository.EventRepository
	metrics *repository.MetricRepository
}

// NewImporter creates an importer
func NewImporter(cities *repository.CityRepository, events *repository.EventRepository, metrics *repository.MetricRepository) *Importer {
	return &Importer{cities: cities, events: events, metrics: metrics}
}

// Expected file names within the data directory. Missing files are
// skipped silently so partial datasets import cleanly.
var importFiles = []string{
	"cities.csv",
	"events.csv",
	"tourism_metrics.csv",
	"hotel_metrics.csv",
	"economic_metrics.csv",
	"mobility_metrics.csv",
}

// ImportDirectory imports every known CSV present under dir
func (im *Importer) ImportDirectory(dir string) (*Report, error) {
	report := &Report{}
	for _, name := range importFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		result, err := im.importFile(path, name)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", name, err)
		}
		report.Files = append(report.Files, *result)
		log.Printf("[Importer] %s: %d imported, %d rejected", name, result.Imported, result.Failed)
	}
	return report, nil
}

func (im *Importer) importFile(path, name string) (*FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}

	result := &FileResult{File: name}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			// Malformed rows count as rejects, the rest of the file
			// still imports
			result.reject(line, err.Error())
			continue
		}

		row := rowReader{cols: cols, record: record}
		switch name {
		case "cities.csv":
			err = im.importCity(row)
		case "events.csv":
			err = im.importEvent(row)
		case "tourism_metrics.csv":
			err = im.importTourism(row)
		case "hotel_metrics.csv":
			err = im.importHotel(row)
		case "economic_metrics.csv":
			err = im.importEconomic(row)
		case "mobility_metrics.csv":
			err = im.importMobility(row)
		}
		if err != nil {
			result.reject(line, err.Error())
			continue
		}
		result.Imported++
	}
	return result, nil
}

// rowReader resolves values by header name with typed parsing
type rowReader struct {
	cols   map[string]int
	record []string
}

func (r rowReader) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r rowReader) float(name string) float64 {
	v, err := strconv.ParseFloat(r.str(name), 64)
	if err != nil {
		return 0
	}
	return v
}

func (r rowReader) int(name string) int64 {
	// Integer columns sometimes arrive as "12000.0"
	return int64(r.float(name))
}

func (im *Importer) importCity(row rowReader) error {
	city := &models.City{
		Name:             row.str("name"),
		Country:          row.str("country"),
		CountryCode:      row.str("country_code"),
		Continent:        row.str("continent"),
		Latitude:         row.float("latitude"),
		Longitude:        row.float("longitude"),
		Timezone:         row.str("timezone"),
		Population:       row.int("population"),
		AreaKm2:          row.float("area_km2"),
		GDPUSD:           row.float("gdp_usd"),
		AnnualTourists:   row.int("annual_tourists"),
		HotelRooms:       row.int("hotel_rooms"),
		AvgHotelPriceUSD: row.float("avg_hotel_price_usd"),
	}
	if city.Name == "" {
		return fmt.Errorf("city name is required")
	}
	if city.Country == "" || city.Continent == "" {
		return fmt.Errorf("city %q is missing country or continent", city.Name)
	}
	return im.cities.UpsertCity(city)
}

func (im *Importer) importEvent(row rowReader) error {
	event := &models.Event{
		City:               row.str("city"),
		Name:               row.str("name"),
		EventType:          models.EventType(row.str("event_type")),
		Description:        row.str("description"),
		StartDate:          row.str("start_date"),
		EndDate:            row.str("end_date"),
		Year:               int(row.int("year")),
		ExpectedAttendance: row.int("expected_attendance"),
		ActualAttendance:   row.int("actual_attendance"),
		TicketRevenueUSD:   row.float("ticket_revenue_usd"),
		EventCostUSD:       row.float("event_cost_usd"),
	}
	if event.Name == "" || event.City == "" {
		return fmt.Errorf("event name and city are required")
	}
	if !models.IsValidEventType(string(event.EventType)) {
		return fmt.Errorf("event %q has invalid type %q", event.Name, event.EventType)
	}
	start, err := event.Start()
	if err != nil {
		return fmt.Errorf("event %q has invalid start date %q", event.Name, event.StartDate)
	}
	if _, err := event.End(); err != nil {
		return fmt.Errorf("event %q has invalid end date %q", event.Name, event.EndDate)
	}
	if event.Year == 0 {
		event.Year = start.Year()
	}
	return im.events.UpsertEvent(event)
}

func requireCityDate(row rowReader) (city, date string, err error) {
	city, date = row.str("city"), row.str("date")
	if city == "" || date == "" {
		return "", "", fmt.Errorf("city and date are required")
	}
	return city, date, nil
}

func (im *Importer) importTourism(row rowReader) error {
	city, date, err := requireCityDate(row)
	if err != nil {
		return err
	}
	return im.metrics.UpsertTourism(&models.TourismMetric{
		City:                  city,
		Date:                  date,
		DomesticVisitors:      row.int("domestic_visitors"),
		InternationalVisitors: row.int("international_visitors"),
		TotalVisitors:         row.int("total_visitors"),
		AvgStayDurationDays:   row.float("avg_stay_duration_days"),
		AvgSpendingPerVisitor: row.float("avg_spending_per_visitor_usd"),
	})
}

func (im *Importer) importHotel(row rowReader) error {
	city, date, err := requireCityDate(row)
	if err != nil {
		return err
	}
	return im.metrics.UpsertHotel(&models.HotelMetric{
		City:             city,
		Date:             date,
		OccupancyRatePct: row.float("occupancy_rate_pct"),
		AvailableRooms:   row.int("available_rooms"),
		OccupiedRooms:    row.int("occupied_rooms"),
		AvgPriceUSD:      row.float("avg_price_usd"),
		RevPARUSD:        row.float("revpar_usd"),
	})
}

func (im *Importer) importEconomic(row rowReader) error {
	city, date, err := requireCityDate(row)
	if err != nil {
		return err
	}
	return im.metrics.UpsertEconomic(&models.EconomicMetric{
		City:                     city,
		Date:                     date,
		TotalSpendingUSD:         row.float("total_spending_usd"),
		AccommodationSpendingUSD: row.float("accommodation_spending_usd"),
		FoodBeverageSpendingUSD:  row.float("food_beverage_spending_usd"),
		RetailSpendingUSD:        row.float("retail_spending_usd"),
		TemporaryJobsCreated:     row.int("temporary_jobs_created"),
		EstimatedTaxRevenueUSD:   row.float("estimated_tax_revenue_usd"),
	})
}

func (im *Importer) importMobility(row rowReader) error {
	city, date, err := requireCityDate(row)
	if err != nil {
		return err
	}
	return im.metrics.UpsertMobility(&models.MobilityMetric{
		City:                   city,
		Date:                   date,
		AirportArrivals:        row.int("airport_arrivals"),
		InternationalFlights:   row.int("international_flights"),
		PublicTransportUsage:   row.int("public_transport_usage"),
		TrafficCongestionIndex: row.float("traffic_congestion_index"),
	})
}
