package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"harail.dev/harail/graph"
	"harail.dev/harail/timetable"
)

// RoutePart is one leg of an itinerary: a single uninterrupted ride
// aboard one train, from boarding to alighting.
type RoutePart struct {
	Train *timetable.Train
	Start timetable.Stop
	End   timetable.Stop
}

func (p RoutePart) String() string {
	return fmt.Sprintf("%s (%s) -> %s (%s)",
		p.Start.Station.Name, p.Start.Departure.Format(time.RFC3339),
		p.End.Station.Name, p.End.Arrival.Format(time.RFC3339))
}

// Route is a full itinerary: zero or more RoutePart legs, in travel
// order. A zero-length Route means the origin already satisfies the
// destination predicate (origin and destination are the same
// station).
type Route struct {
	Parts []RoutePart
}

func (r Route) String() string {
	if len(r.Parts) == 0 {
		return "(already there)"
	}
	var b strings.Builder
	for i, p := range r.Parts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.String())
	}
	return b.String()
}

type routePartJSON struct {
	Train        string              `json:"train"`
	StartTime    time.Time           `json:"start_time"`
	StartStation timetable.StationId `json:"start_station"`
	EndTime      time.Time           `json:"end_time"`
	EndStation   timetable.StationId `json:"end_station"`
}

type routeJSON struct {
	Parts []routePartJSON `json:"parts"`
}

// MarshalJSON renders the {"parts":[{train,start_time,start_station,
// end_time,end_station}]} shape external collaborators (the CLI's
// --json flag and the HTTP surface) expect.
func (r Route) MarshalJSON() ([]byte, error) {
	out := routeJSON{Parts: make([]routePartJSON, len(r.Parts))}
	for i, p := range r.Parts {
		out.Parts[i] = routePartJSON{
			Train:        string(p.Train.Id),
			StartTime:    p.Start.Departure,
			StartStation: p.Start.Station.Id,
			EndTime:      p.End.Arrival,
			EndStation:   p.End.Station.Id,
		}
	}
	return json.Marshal(out)
}

// Arrival returns the arrival time of the route's final leg. Only
// valid on a non-empty Route.
func (r Route) Arrival() time.Time {
	return r.Parts[len(r.Parts)-1].End.Arrival
}

// Departure returns the departure time of the route's first leg.
// Only valid on a non-empty Route.
func (r Route) Departure() time.Time {
	return r.Parts[0].Start.Departure
}

// buildRoute collapses a graph.Step sequence into the RoutePart legs
// it represents: a leg starts at Board and accumulates Ride/TrainWaits
// hops aboard the same train until Unboard closes it. Wait steps
// (platform waiting) contribute nothing to the itinerary.
func buildRoute(steps []graph.Step[Singularity, Action]) Route {
	var parts []RoutePart
	var train *timetable.Train
	var start, end timetable.Stop
	haveStart := false

	for _, step := range steps {
		switch step.Edge.Kind {
		case ActionBoard:
			train = step.Edge.Train
			haveStart = false
		case ActionRide:
			if !haveStart {
				start = step.Edge.RideFrom
				haveStart = true
			}
			end = step.Edge.RideTo
		case ActionTrainWaits:
			if !haveStart {
				start = step.Edge.DwellStop
				haveStart = true
			}
			end = step.Edge.DwellStop
		case ActionUnboard:
			parts = append(parts, RoutePart{Train: train, Start: start, End: end})
			train = nil
			haveStart = false
		case ActionWait:
			// platform waiting joins two legs; nothing to record.
		}
	}

	return Route{Parts: parts}
}
