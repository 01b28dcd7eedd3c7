package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/database"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

func setup(t *testing.T) (*Importer, *repository.EventRepository, *repository.MetricRepository, string) {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cities := repository.NewCityRepository(db)
	events := repository.NewEventRepository(db)
	metrics := repository.NewMetricRepository(db)

	dir := t.TempDir()
	return NewImporter(cities, events, metrics), events, metrics, dir
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestImportDirectory(t *testing.T) {
	imp, events, metrics, dir := setup(t)

	write(t, dir, "cities.csv",
		"name,country,continent,population,annual_tourists,hotel_rooms,avg_hotel_price_usd\n"+
			"Barcelona,Spain,Europe,1600000,12000000,80000,145\n"+
			"Tokyo,Japan,Asia,14000000,15000000,110000,180\n")
	write(t, dir, "events.csv",
		"city,name,event_type,start_date,end_date,expected_attendance,event_cost_usd\n"+
			"Barcelona,Summer Fest,festival,2024-06-10,2024-06-12,90000,1000000\n")
	write(t, dir, "tourism_metrics.csv",
		"city,date,total_visitors,avg_spending_per_visitor_usd\n"+
			"Barcelona,2024-06-10,45000,160\n"+
			"Barcelona,2024-06-11,47000,165\n")

	report, err := imp.ImportDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalImported())
	assert.Equal(t, 0, report.TotalFailed())
	assert.Len(t, report.Files, 3)

	event, err := events.GetEventByName("Summer Fest")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.EventTypeFestival, event.EventType)
	// Year derives from the start date when the column is absent
	assert.Equal(t, 2024, event.Year)

	rows, err := metrics.TourismBetween("Barcelona", "2024-06-10", "2024-06-11")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestImportRejectsBadRowsAndContinues(t *testing.T) {
	imp, events, _, dir := setup(t)

	write(t, dir, "events.csv",
		"city,name,event_type,start_date,end_date,expected_attendance\n"+
			"Barcelona,Good Event,music,2024-05-01,2024-05-02,30000\n"+
			"Barcelona,Bad Type,rodeo,2024-05-01,2024-05-02,30000\n"+
			"Barcelona,Bad Date,music,not-a-date,2024-05-02,30000\n"+
			",Missing City,music,2024-05-01,2024-05-02,30000\n")

	report, err := imp.ImportDirectory(dir)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	result := report.Files[0]
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 3, result.Errors[0].Line)

	good, err := events.GetEventByName("Good Event")
	require.NoError(t, err)
	assert.NotNil(t, good)
}

func TestImportRejectsMalformedCSVRows(t *testing.T) {
	imp, events, _, dir := setup(t)

	// The second row has a bare quote, which is a CSV parse error.
	// It must be recorded as a reject without truncating the file.
	write(t, dir, "events.csv",
		"city,name,event_type,start_date,end_date,expected_attendance\n"+
			"Barcelona,First Event,music,2024-05-01,2024-05-02,30000\n"+
			"Barcelona,Bad\"Quote,music,2024-05-01,2024-05-02,30000\n"+
			"Barcelona,Last Event,music,2024-06-01,2024-06-02,30000\n")

	report, err := imp.ImportDirectory(dir)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	result := report.Files[0]
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Line)

	last, err := events.GetEventByName("Last Event")
	require.NoError(t, err)
	assert.NotNil(t, last)
}

func TestImportSkipsMissingFiles(t *testing.T) {
	imp, _, _, dir := setup(t)

	report, err := imp.ImportDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, report.Files)
}

func TestImportIsIdempotent(t *testing.T) {
	imp, events, _, dir := setup(t)

	write(t, dir, "events.csv",
		"city,name,event_type,start_date,end_date,expected_attendance\n"+
			"Barcelona,Summer Fest,festival,2024-06-10,2024-06-12,90000\n")

	_, err := imp.ImportDirectory(dir)
	require.NoError(t, err)
	_, err = imp.ImportDirectory(dir)
	require.NoError(t, err)

	all, err := events.GetEvents(models.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
