// Package timetable holds the immutable entities that describe a
// published railway schedule: stations, per-date train schedules, and
// the catalog that ties them together.
//
// Everything here is a value the routing engine borrows; nothing in
// this package builds or searches a graph.
package timetable

import (
	"fmt"
	"sort"
	"time"
)

// StationId uniquely identifies a Station within a RailroadData
// catalog.
type StationId uint64

// TrainId uniquely identifies a Train within a RailroadData catalog.
type TrainId string

// Station is a stop on the network. Equality is by Id alone; Name is
// informational.
type Station struct {
	Id   StationId
	Name string
}

func (s Station) String() string {
	return fmt.Sprintf("%d: %s", s.Id, s.Name)
}

// StopSchedule is a single entry in a Train's itinerary: the station
// it calls at, and the arrival/departure offsets from the midnight of
// whatever service date the train runs on.
//
// ArrivalOffset <= DepartureOffset always holds. Offsets can exceed 24h
// (GTFS convention for trips that run past midnight); they must never
// be normalized modulo 24h.
type StopSchedule struct {
	Station         StationId
	ArrivalOffset   time.Duration
	DepartureOffset time.Duration
}

// NewStopSchedule builds a StopSchedule. A departureOffset of nil
// means "same as arrival" (instantaneous pass-through).
func NewStopSchedule(station StationId, arrivalOffset time.Duration, departureOffset *time.Duration) StopSchedule {
	dep := arrivalOffset
	if departureOffset != nil {
		dep = *departureOffset
	}
	return StopSchedule{
		Station:         station,
		ArrivalOffset:   arrivalOffset,
		DepartureOffset: dep,
	}
}

// Train is the schedule followed by a single scheduled run: an
// ordered list of stops, and the set of calendar dates on which that
// run repeats.
//
// This models a GTFS trip pattern, not a physical vehicle: one
// physical train shuttling back and forth on a line all day is
// several Train values, one per direction/pattern.
type Train struct {
	Id    TrainId
	Stops []StopSchedule
	Dates []time.Time
}

// NewTrain validates and constructs a Train. It rejects schedules that
// violate the stop-ordering invariant (§3): for every consecutive
// pair, the earlier stop's departure must not be after the later
// stop's arrival.
func NewTrain(id TrainId, stops []StopSchedule, dates []time.Time) (*Train, error) {
	for i := 1; i < len(stops); i++ {
		if stops[i-1].DepartureOffset > stops[i].ArrivalOffset {
			return nil, fmt.Errorf("train %q: stop %d departs after stop %d arrives", id, i-1, i)
		}
	}
	for i, s := range stops {
		if s.ArrivalOffset > s.DepartureOffset {
			return nil, fmt.Errorf("train %q: stop %d arrives after it departs", id, i)
		}
	}
	return &Train{Id: id, Stops: stops, Dates: dates}, nil
}

// RailroadData is a queryable catalog of stations and trains.
type RailroadData struct {
	stations map[StationId]Station
	trains   map[TrainId]*Train
}

// New returns an empty catalog.
func New() *RailroadData {
	return &RailroadData{
		stations: map[StationId]Station{},
		trains:   map[TrainId]*Train{},
	}
}

// FromStationsTrains builds a catalog from explicit stations and
// trains. Intended for tests and in-memory synthesis; production
// catalogs come from gtfsload or timetable/snapshot.
func FromStationsTrains(stations []Station, trains []*Train) *RailroadData {
	data := New()
	for _, s := range stations {
		data.stations[s.Id] = s
	}
	for _, t := range trains {
		data.trains[t.Id] = t
	}
	return data
}

// Station looks up a station by id.
func (d *RailroadData) Station(id StationId) (Station, bool) {
	s, ok := d.stations[id]
	return s, ok
}

// Train looks up a train by id.
func (d *RailroadData) Train(id TrainId) (*Train, bool) {
	t, ok := d.trains[id]
	return t, ok
}

// AddStation inserts or replaces a station. Used by gtfsload and
// timetable/snapshot to populate a catalog.
func (d *RailroadData) AddStation(s Station) {
	d.stations[s.Id] = s
}

// AddTrain inserts or replaces a train.
func (d *RailroadData) AddTrain(t *Train) {
	d.trains[t.Id] = t
}

// Stations iterates over all stations in the catalog, in unspecified
// order.
func (d *RailroadData) Stations() []Station {
	out := make([]Station, 0, len(d.stations))
	for _, s := range d.stations {
		out = append(out, s)
	}
	return out
}

// Trains iterates over all trains in the catalog, in unspecified
// order.
func (d *RailroadData) Trains() []*Train {
	out := make([]*Train, 0, len(d.trains))
	for _, t := range d.trains {
		out = append(out, t)
	}
	return out
}

// FindStation returns the first station (in map iteration order)
// whose name matches. Names are not guaranteed unique, so this is a
// convenience for CLI/interactive use, not a stable lookup.
func (d *RailroadData) FindStation(name string) (Station, bool) {
	for _, s := range d.stations {
		if s.Name == name {
			return s, true
		}
	}
	return Station{}, false
}

// StartDate returns the earliest date on which any train runs.
// Undefined (ok=false) on an empty catalog.
func (d *RailroadData) StartDate() (time.Time, bool) {
	return d.extremalDate(func(a, b time.Time) bool { return a.Before(b) })
}

// EndDate returns the latest date on which any train runs. Undefined
// (ok=false) on an empty catalog.
func (d *RailroadData) EndDate() (time.Time, bool) {
	return d.extremalDate(func(a, b time.Time) bool { return a.After(b) })
}

func (d *RailroadData) extremalDate(better func(candidate, current time.Time) bool) (time.Time, bool) {
	var result time.Time
	found := false
	for _, t := range d.trains {
		for _, date := range t.Dates {
			if !found || better(date, result) {
				result = date
				found = true
			}
		}
	}
	return result, found
}

// Stop is a StopSchedule bound to a specific calendar date: concrete
// arrival/departure instants.
type Stop struct {
	Station   Station
	Arrival   time.Time
	Departure time.Time
}

// InflateStop binds a StopSchedule to date, turning offsets into
// absolute instants relative to date's midnight. Offsets are added
// verbatim, never normalized modulo 24h, so a 25:30 offset on
// 2000-01-01 becomes 01:30 on 2000-01-02.
func InflateStop(data *RailroadData, sched StopSchedule, date time.Time) (Stop, bool) {
	station, ok := data.Station(sched.Station)
	if !ok {
		return Stop{}, false
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Stop{
		Station:   station,
		Arrival:   midnight.Add(sched.ArrivalOffset),
		Departure: midnight.Add(sched.DepartureOffset),
	}, true
}

// DatesInRange returns the subset of dates that fall within [first,
// last] inclusive, sorted ascending. Used by the engine builder to
// pre-filter a train's service dates before inflating its stops.
func DatesInRange(dates []time.Time, first, last time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.Before(first) && !d.After(last) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
