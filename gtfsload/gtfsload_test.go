package gtfsload

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	agencyTxt = "agency_id,agency_name,agency_url,agency_timezone\n" +
		"RAIL,Test Rail,https://example.test,UTC\n"
	routesTxt = "route_id,agency_id,route_short_name,route_type\n" +
		"R1,RAIL,Line 1,2\n"
	tripsTxt = "trip_id,route_id,service_id\n" +
		"T1,R1,weekdays\n"
	calendarTxt = "service_id,start_date,end_date,monday,tuesday,wednesday,thursday,friday,saturday,sunday\n" +
		"weekdays,20260105,20260109,1,1,1,1,1,0,0\n"
	stopsTxt = "stop_id,stop_name\n" +
		"S1,Alpha\n" +
		"S2,Beta\n"
	stopTimesTxt = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,S1,1,08:00:00,08:00:00\n" +
		"T1,S2,2,08:30:00,08:30:00\n"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"agency.txt":     agencyTxt,
		"routes.txt":     routesTxt,
		"trips.txt":      tripsTxt,
		"calendar.txt":   calendarTxt,
		"stops.txt":      stopsTxt,
		"stop_times.txt": stopTimesTxt,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
}

func TestFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	data, err := FromDirectory(dir, Options{AgencyName: "Test Rail"})
	if err != nil {
		t.Fatalf("FromDirectory: %v", err)
	}

	train, ok := data.Train("T1")
	if !ok {
		t.Fatal("trip T1 missing from catalog")
	}
	if len(train.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(train.Stops))
	}
	if train.Stops[0].ArrivalOffset != 8*time.Hour {
		t.Errorf("first stop arrival = %v, want 8h", train.Stops[0].ArrivalOffset)
	}

	// 2026-01-05 is a Monday; the weekday pattern should produce 5
	// dates (Mon-Fri) through 2026-01-09.
	if len(train.Dates) != 5 {
		t.Fatalf("expected 5 service dates, got %d: %v", len(train.Dates), train.Dates)
	}

	stationID1 := stationID("S1")
	station, ok := data.Station(stationID1)
	if !ok || station.Name != "Alpha" {
		t.Errorf("station S1 = %+v, ok=%v, want name Alpha", station, ok)
	}
}

func TestFromDirectoryFiltersOtherAgencies(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	_, err := FromDirectory(dir, Options{AgencyName: "Some Other Agency"})
	if err == nil {
		t.Fatal("expected an error for an agency absent from the feed")
	}
}

func TestFromDirectoryMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	if err := os.Remove(filepath.Join(dir, "stop_times.txt")); err != nil {
		t.Fatal(err)
	}

	_, err := FromDirectory(dir, Options{})
	if err == nil {
		t.Fatal("expected an error for a missing required file")
	}
}
