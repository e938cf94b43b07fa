package engine

import (
	"testing"
	"time"

	"harail.dev/harail/timetable"
)

var testDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func clock(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func at(h, m, s int) time.Time {
	return testDate.Add(clock(h, m, s))
}

func onDate(date time.Time, h, m, s int) time.Time {
	return date.Add(clock(h, m, s))
}

func stopAt(station timetable.StationId, h, m, s int) timetable.StopSchedule {
	return timetable.NewStopSchedule(station, clock(h, m, s), nil)
}

func stopDwell(station timetable.StationId, arrH, arrM, arrS, depH, depM, depS int) timetable.StopSchedule {
	arr := clock(arrH, arrM, arrS)
	dep := clock(depH, depM, depS)
	return timetable.NewStopSchedule(station, arr, &dep)
}

func testStations() []timetable.Station {
	return []timetable.Station{
		{Id: 100, Name: "stat_a"},
		{Id: 200, Name: "stat_b"},
		{Id: 300, Name: "stat_c"},
		{Id: 400, Name: "stat_d"},
		{Id: 500, Name: "stat_e"},
		{Id: 600, Name: "stat_f"},
	}
}

func mustTrain(t *testing.T, id timetable.TrainId, dates []time.Time, stops ...timetable.StopSchedule) *timetable.Train {
	t.Helper()
	train, err := timetable.NewTrain(id, stops, dates)
	if err != nil {
		t.Fatalf("building train %s: %v", id, err)
	}
	return train
}

func onlyTestDate() []time.Time { return []time.Time{testDate} }

func buildRouter(data *timetable.RailroadData, windowStart, windowEnd time.Time) *Router {
	return NewRouter(Build(data, windowStart, windowEnd))
}

func wantPart(t *testing.T, p RoutePart, train timetable.TrainId, from, to timetable.StationId) {
	t.Helper()
	if p.Train.Id != train {
		t.Errorf("part train = %q, want %q", p.Train.Id, train)
	}
	if p.Start.Station.Id != from {
		t.Errorf("part start station = %d, want %d", p.Start.Station.Id, from)
	}
	if p.End.Station.Id != to {
		t.Errorf("part end station = %d, want %d", p.End.Station.Id, to)
	}
}

// TestScenario_TransferShortestPath mirrors the original project's
// "shortest_path" test: riding train 2 direct to 400 and switching to
// train 3 back to 300 beats train 1's slower direct service.
func TestScenario_TransferShortestPath(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(),
			stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0), stopAt(300, 11, 0, 0), stopAt(400, 11, 30, 0)),
		mustTrain(t, "2", onlyTestDate(),
			stopAt(100, 10, 0, 0), stopAt(400, 10, 30, 0)),
		mustTrain(t, "3", onlyTestDate(),
			stopAt(400, 10, 30, 0), stopAt(300, 10, 40, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.BestSingle(100, at(10, 0, 0), 300)
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %+v", len(route.Parts), route)
	}
	wantPart(t, route.Parts[0], "2", 100, 400)
	wantPart(t, route.Parts[1], "3", 400, 300)
}

// TestScenario_MinimizeSwitches mirrors "minimize_switches": riding
// train 1 the whole way beats switching onto the faster train 2/3
// segments, because the transfer penalty outweighs the time saved.
func TestScenario_MinimizeSwitches(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(),
			stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0), stopAt(300, 11, 0, 0),
			stopAt(400, 11, 30, 0), stopAt(500, 12, 0, 0), stopAt(600, 12, 30, 0)),
		mustTrain(t, "2", onlyTestDate(),
			stopAt(200, 10, 31, 0), stopAt(400, 10, 32, 0)),
		mustTrain(t, "3", onlyTestDate(),
			stopAt(500, 12, 1, 0), stopAt(600, 12, 30, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.BestSingle(100, at(10, 0, 0), 600)
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d: %+v", len(route.Parts), route)
	}
	wantPart(t, route.Parts[0], "1", 100, 600)
}

// TestScenario_MinimizeSwitches2 mirrors "minimize_switches2": even
// though train 2 reaches 300 faster, staying on train 1 the whole way
// avoids a transfer and arrives at 400 at the same 11:30.
func TestScenario_MinimizeSwitches2(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(),
			stopAt(100, 10, 1, 0), stopAt(200, 10, 30, 0), stopAt(300, 11, 0, 0), stopAt(400, 11, 30, 0)),
		mustTrain(t, "2", onlyTestDate(),
			stopAt(100, 10, 0, 0), stopAt(300, 10, 30, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.BestSingle(100, at(10, 0, 0), 400)
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d: %+v", len(route.Parts), route)
	}
	wantPart(t, route.Parts[0], "1", 100, 400)
}

// TestScenario_DwellOnTrain mirrors "wait_on_train": train 1 dwells
// at 200 from 10:20 to 10:30. Riding it straight through beats
// boarding the faster train 2 to 200 and transferring, because the
// transfer again costs more than it saves.
func TestScenario_DwellOnTrain(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(),
			stopAt(100, 10, 0, 0), stopDwell(200, 10, 20, 0, 10, 30, 0), stopAt(300, 11, 0, 0)),
		mustTrain(t, "2", onlyTestDate(),
			stopAt(100, 10, 10, 0), stopAt(200, 10, 20, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.BestSingle(100, at(10, 0, 0), 300)
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d: %+v", len(route.Parts), route)
	}
	wantPart(t, route.Parts[0], "1", 100, 300)
}

// TestScenario_AlternateLateRoute exercises Q2 (latest-good) on data
// shaped like the original project's unfinished "wait_on_train_alt_route"
// fixture. Three single-leg trains give three strictly later
// departures from 100, but only the first two share the earliest
// arrival at 200; the third arrives later. LatestGood must return the
// second (latest departure that still matches the earliest arrival),
// not the third (which departs even later but arrives worse).
func TestScenario_AlternateLateRoute(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "A", onlyTestDate(), stopAt(100, 10, 0, 0), stopAt(200, 11, 0, 0)),
		mustTrain(t, "B", onlyTestDate(), stopAt(100, 10, 5, 0), stopAt(200, 11, 0, 0)),
		mustTrain(t, "C", onlyTestDate(), stopAt(100, 10, 10, 0), stopAt(200, 11, 10, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.LatestGood(100, at(10, 0, 0), 200)
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d: %+v", len(route.Parts), route)
	}
	wantPart(t, route.Parts[0], "B", 100, 200)
	if !route.Arrival().Equal(at(11, 0, 0)) {
		t.Errorf("arrival = %v, want %v", route.Arrival(), at(11, 0, 0))
	}
	if !route.Departure().Equal(at(10, 5, 0)) {
		t.Errorf("departure = %v, want %v", route.Departure(), at(10, 5, 0))
	}
}

// TestScenario_MultipleRoutes exercises Q3: three single-leg trains
// with strictly increasing departure AND arrival times form a
// Pareto-useful staircase; all three must be returned, in order.
func TestScenario_MultipleRoutes(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "X", onlyTestDate(), stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0)),
		mustTrain(t, "Y", onlyTestDate(), stopAt(100, 10, 15, 0), stopAt(200, 10, 50, 0)),
		mustTrain(t, "Z", onlyTestDate(), stopAt(100, 10, 20, 0), stopAt(200, 11, 0, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	routes := router.Multiple(100, at(10, 0, 0), 200)
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d: %+v", len(routes), routes)
	}
	wantPart(t, routes[0].Parts[0], "X", 100, 200)
	wantPart(t, routes[1].Parts[0], "Y", 100, 200)
	wantPart(t, routes[2].Parts[0], "Z", 100, 200)

	for i := 1; i < len(routes); i++ {
		if !routes[i].Departure().After(routes[i-1].Departure()) {
			t.Errorf("route %d departure %v not after route %d departure %v", i, routes[i].Departure(), i-1, routes[i-1].Departure())
		}
		if routes[i].Arrival().Before(routes[i-1].Arrival()) {
			t.Errorf("route %d arrival %v before route %d arrival %v", i, routes[i].Arrival(), i-1, routes[i-1].Arrival())
		}
	}
}

// TestScenario_WindowCutoff mirrors the original project's
// "graph_time_cutoff" test: a single train running on two consecutive
// calendar dates, probed against several [start,end) windows to check
// that the 1-second boundary around its 400-arrival is exact.
func TestScenario_WindowCutoff(t *testing.T) {
	nextDate := testDate.AddDate(0, 0, 1)
	train := mustTrain(t, "1", []time.Time{testDate, nextDate},
		stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0), stopAt(300, 11, 0, 0), stopAt(400, 11, 30, 0))
	data := timetable.FromStationsTrains(testStations(), []*timetable.Train{train})

	cases := []struct {
		name           string
		start, end     time.Time
		origin, dest   timetable.StationId
		queryFrom      time.Time
		wantFound      bool
	}{
		{"same day", onDate(testDate, 10, 0, 0), onDate(testDate, 12, 0, 0), 100, 300, onDate(testDate, 10, 0, 0), true},
		{"next day", onDate(nextDate, 10, 0, 0), onDate(nextDate, 12, 0, 0), 100, 300, onDate(nextDate, 10, 0, 0), true},
		{"window spans midnight", onDate(testDate, 10, 0, 0), onDate(nextDate, 12, 0, 0), 100, 400, onDate(testDate, 10, 0, 0), true},
		{"window ends exactly at next midnight", onDate(testDate, 10, 0, 0), onDate(nextDate, 0, 0, 0), 100, 400, onDate(testDate, 10, 0, 0), true},
		{"1 second short of 400's arrival", onDate(testDate, 10, 0, 0), onDate(testDate, 11, 29, 59), 100, 400, onDate(testDate, 10, 0, 0), false},
		{"1 second short, but dest is 300", onDate(testDate, 10, 0, 0), onDate(testDate, 11, 29, 59), 100, 300, onDate(testDate, 10, 0, 0), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := buildRouter(data, c.start, c.end)
			_, ok := router.BestSingle(c.origin, c.queryFrom, c.dest)
			if ok != c.wantFound {
				t.Errorf("found = %v, want %v", ok, c.wantFound)
			}
		})
	}
}

// TestScenario_WindowCutoffDwellsAcrossStart checks the t0 boundary: a
// stop whose arrival precedes the window's Start but whose departure
// still falls inside [Start, End] must still be wired up (a train
// already dwelling at the platform when the window opens is still
// boardable there).
func TestScenario_WindowCutoffDwellsAcrossStart(t *testing.T) {
	train := mustTrain(t, "1", onlyTestDate(),
		stopAt(100, 9, 0, 0),
		stopDwell(200, 9, 59, 0, 10, 1, 0),
		stopAt(300, 10, 30, 0))
	data := timetable.FromStationsTrains(testStations(), []*timetable.Train{train})

	router := buildRouter(data, at(10, 0, 0), at(12, 0, 0))
	route, ok := router.BestSingle(200, at(10, 0, 0), 300)
	if !ok {
		t.Fatal("expected a route boarding a train already dwelling when the window opens")
	}
	wantPart(t, route.Parts[0], "1", 200, 300)
}

// TestEnsureIdempotent checks that injecting the same origin twice
// leaves the graph's answer unchanged (P-ensure-idempotent).
func TestEnsureIdempotent(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(), stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	g := Build(data, at(0, 0, 0), at(23, 59, 59))

	origin := Singularity{Station: 100, Time: at(9, 0, 0)}
	first := g.Ensure(origin)
	second := g.Ensure(origin)
	if first != second {
		t.Fatalf("Ensure not idempotent: %+v != %+v", first, second)
	}

	router := NewRouter(g)
	route, ok := router.BestSingle(100, at(9, 0, 0), 200)
	if !ok {
		t.Fatal("expected a route")
	}
	wantPart(t, route.Parts[0], "1", 100, 200)
}

// TestSameStationReturnsEmptyRoute checks the origin == destination
// shortcut: no parts, no boarding.
func TestSameStationReturnsEmptyRoute(t *testing.T) {
	trains := []*timetable.Train{
		mustTrain(t, "1", onlyTestDate(), stopAt(100, 10, 0, 0), stopAt(200, 10, 30, 0)),
	}
	data := timetable.FromStationsTrains(testStations(), trains)
	router := buildRouter(data, at(0, 0, 0), at(23, 59, 59))

	route, ok := router.BestSingle(100, at(9, 0, 0), 100)
	if !ok {
		t.Fatal("expected a (trivial) route")
	}
	if len(route.Parts) != 0 {
		t.Fatalf("expected an empty route, got %+v", route)
	}
}
