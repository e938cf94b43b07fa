package engine

import (
	"sort"
	"time"

	"harail.dev/harail/graph"
	"harail.dev/harail/timetable"
)

// Graph is a time-expanded view of a timetable.RailroadData catalog,
// restricted to stops that overlap the window [Start, End]. It
// wraps a graph.Graph of Singularity nodes and Action edges and adds
// the one operation the raw graph doesn't know how to do on its own:
// splice a fresh origin into an existing platform wait-chain.
type Graph struct {
	g     *graph.Graph[Singularity, Action]
	data  *timetable.RailroadData
	Start time.Time
	End   time.Time

	// platformTimes holds, per station, the sorted distinct instants
	// at which a platform node exists. Used both to build the
	// initial Wait chain and to splice Ensure'd origins into it.
	platformTimes map[timetable.StationId][]time.Time
}

// Build materializes the time-expanded graph for data. A stop is
// dropped when its departure is before Start or its arrival is after
// End, so a stop already dwelling when the window opens is kept; a
// kept stop whose departure is after End gets no departure node and
// no Board edge. A train's stop
// sequence contributes a Ride edge between two consecutive stops only
// when both fall inside the window; a stop that falls outside it
// breaks the chain, so the train is effectively split into however
// many in-window sub-runs survive.
func Build(data *timetable.RailroadData, start, end time.Time) *Graph {
	gr := &Graph{
		g:             graph.New[Singularity, Action](),
		data:          data,
		Start:         start,
		End:           end,
		platformTimes: map[timetable.StationId][]time.Time{},
	}

	points := map[timetable.StationId]map[time.Time]struct{}{}
	record := func(station timetable.StationId, t time.Time) {
		set, ok := points[station]
		if !ok {
			set = map[time.Time]struct{}{}
			points[station] = set
		}
		set[t] = struct{}{}
	}

	windowFloor := truncateToMidnight(start.AddDate(0, 0, -1))
	windowCeil := truncateToMidnight(end)

	for _, train := range data.Trains() {
		dates := timetable.DatesInRange(train.Dates, windowFloor, windowCeil)
		for _, date := range dates {
			gr.addTrainRun(train, date, record)
		}
	}

	for station, set := range points {
		times := make([]time.Time, 0, len(set))
		for t := range set {
			times = append(times, t)
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for i := 1; i < len(times); i++ {
			from := Singularity{Station: station, Time: times[i-1]}
			to := Singularity{Station: station, Time: times[i]}
			gr.g.Connect(from, waitAction(times[i].Sub(times[i-1])), to)
		}
		gr.platformTimes[station] = times
	}

	return gr
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// addTrainRun inflates one calendar date's worth of train's schedule
// and wires its Unboard/TrainWaits/Board/Ride edges. record is called
// for every platform instant created, so Build can wire the
// cross-train Wait chain in a single pass afterward.
func (gr *Graph) addTrainRun(train *timetable.Train, date time.Time, record func(timetable.StationId, time.Time)) {
	var prevStop timetable.Stop
	var prevIdx int
	chainOpen := false

	for i, sched := range train.Stops {
		stop, ok := timetable.InflateStop(gr.data, sched, date)
		if !ok {
			chainOpen = false
			continue
		}
		if stop.Departure.Before(gr.Start) || stop.Arrival.After(gr.End) {
			chainOpen = false
			continue
		}

		arr := Singularity{Station: stop.Station.Id, Time: stop.Arrival}
		onboardArr := Singularity{Station: stop.Station.Id, Time: stop.Arrival, Train: train}
		record(stop.Station.Id, stop.Arrival)
		gr.g.Connect(onboardArr, unboardAction(), arr)

		inWindowDeparture := !stop.Departure.After(gr.End)
		var onboardDep Singularity
		if inWindowDeparture {
			dep := Singularity{Station: stop.Station.Id, Time: stop.Departure}
			onboardDep = Singularity{Station: stop.Station.Id, Time: stop.Departure, Train: train}
			record(stop.Station.Id, stop.Departure)
			gr.g.Connect(onboardArr, trainWaitsAction(train, stop), onboardDep)
			gr.g.Connect(dep, boardAction(train), onboardDep)
		} else {
			gr.g.GetOrInsert(onboardArr)
		}

		if chainOpen && i == prevIdx+1 {
			prevOnboardDep := Singularity{Station: prevStop.Station.Id, Time: prevStop.Departure, Train: train}
			gr.g.Connect(prevOnboardDep, rideAction(train, prevStop, stop), onboardArr)
		}

		prevStop = stop
		prevIdx = i
		chainOpen = inWindowDeparture
	}
}

// Ensure inserts s into the graph if it isn't already present. A
// fresh platform singularity (Train == nil) is spliced into that
// station's Wait chain so it can reach, and be reached from, every
// other platform instant at the same station. Calling Ensure again
// with an already-present Singularity is a no-op, so repeated calls
// with the same origin never change the graph.
func (gr *Graph) Ensure(s Singularity) Singularity {
	if _, exists := gr.g.Get(s); exists {
		return s
	}
	gr.g.GetOrInsert(s)
	if s.Train == nil {
		gr.spliceIntoWaitChain(s)
	}
	return s
}

func (gr *Graph) spliceIntoWaitChain(s Singularity) {
	times := gr.platformTimes[s.Station]
	i := sort.Search(len(times), func(i int) bool { return !times[i].Before(s.Time) })

	if i > 0 {
		pred := Singularity{Station: s.Station, Time: times[i-1]}
		gr.g.Connect(pred, waitAction(s.Time.Sub(times[i-1])), s)
	}
	if i < len(times) {
		succ := Singularity{Station: s.Station, Time: times[i]}
		gr.g.Connect(s, waitAction(times[i].Sub(s.Time)), succ)
	}

	times = append(times, time.Time{})
	copy(times[i+1:], times[i:])
	times[i] = s.Time
	gr.platformTimes[s.Station] = times
}
