package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"harail.dev/harail/httpapi"
	"harail.dev/harail/timetable"
)

func testCatalog() *timetable.RailroadData {
	dep := 8*time.Hour + 30*time.Minute
	stops := []timetable.StopSchedule{
		timetable.NewStopSchedule(1, 8*time.Hour, nil),
		timetable.NewStopSchedule(2, dep, nil),
	}
	train, err := timetable.NewTrain("T1", stops, []time.Time{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		panic(err)
	}
	return timetable.FromStationsTrains(
		[]timetable.Station{{Id: 1, Name: "Alpha"}, {Id: 2, Name: "Beta"}},
		[]*timetable.Train{train},
	)
}

func newTestServer() *httptest.Server {
	catalog := testCatalog()
	srv := httpapi.NewServer(func() (*timetable.RailroadData, error) { return catalog, nil }, nil)
	return httptest.NewServer(srv.Router())
}

func TestHandleStations(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/harail/stations")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stations []timetable.Station
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stations))
	require.Len(t, stations, 2)
	require.Equal(t, "Alpha", stations[0].Name)
}

func TestHandleTrainStops(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/harail/trains/T1/stops/2026-01-05T00:00:00Z")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stops []timetable.Stop
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stops))
	require.Len(t, stops, 2)
}

func TestHandleTrainStopsUnknownTrain(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/harail/trains/NOPE/stops/2026-01-05T00:00:00Z")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleFindRoutesBest(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	q := url.Values{
		"search":        {"best"},
		"start_station": {"1"},
		"end_station":   {"2"},
		"start_time":    {"2026-01-05T00:00:00Z"},
		"end_time":      {"2026-01-06T00:00:00Z"},
	}
	resp, err := http.Get(ts.URL + "/harail/routes/find?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var route engineRouteJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&route))
	require.Len(t, route.Parts, 1)
	require.Equal(t, timetable.StationId(1), route.Parts[0].StartStation)
	require.Equal(t, timetable.StationId(2), route.Parts[0].EndStation)
}

func TestHandleFindRoutesUnknownStation(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	q := url.Values{
		"start_station": {"999"},
		"end_station":   {"2"},
		"start_time":    {"2026-01-05T00:00:00Z"},
		"end_time":      {"2026-01-06T00:00:00Z"},
	}
	resp, err := http.Get(ts.URL + "/harail/routes/find?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// engineRouteJSON mirrors engine.Route's MarshalJSON shape without
// importing engine into the test's JSON decoding path.
type engineRouteJSON struct {
	Parts []struct {
		Train        string              `json:"train"`
		StartTime    time.Time           `json:"start_time"`
		StartStation timetable.StationId `json:"start_station"`
		EndTime      time.Time           `json:"end_time"`
		EndStation   timetable.StationId `json:"end_station"`
	} `json:"parts"`
}
