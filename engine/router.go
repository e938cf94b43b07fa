package engine

import (
	"time"

	"harail.dev/harail/timetable"
)

// Router answers itinerary queries against a fixed time-expanded
// Graph, re-using it across queries by injecting fresh origins with
// Graph.Ensure rather than rebuilding.
type Router struct {
	graph *Graph
}

// NewRouter wraps a built Graph for querying.
func NewRouter(g *Graph) *Router { return &Router{graph: g} }

func destPredicate(dest timetable.StationId) func(Singularity) bool {
	return func(s Singularity) bool { return s.Station == dest && s.Train == nil }
}

// BestSingle answers Q1: the earliest-arrival route from origin
// departing no earlier than startTime. ok is false when dest is not
// reachable from origin within the graph's time window.
func (r *Router) BestSingle(origin timetable.StationId, startTime time.Time, dest timetable.StationId) (Route, bool) {
	start := r.graph.Ensure(Singularity{Station: origin, Time: startTime})
	steps, found := r.graph.g.ShortestPath(start, destPredicate(dest))
	if !found {
		return Route{}, false
	}
	return buildRoute(steps), true
}

// LatestGood answers Q2: among routes arriving at dest at the
// earliest possible time A*, the one that departs origin latest.
//
// It repeatedly re-queries from an origin moved just past the
// previous candidate's departure, keeping a candidate only while its
// arrival still equals A*. The moment a re-query's arrival diverges
// from A* (or fails to find a route at all), the search stops and the
// last candidate that still arrived at A* is returned — not the
// diverging one, which would depart later but arrive worse and so
// isn't Q2's answer.
func (r *Router) LatestGood(origin timetable.StationId, startTime time.Time, dest timetable.StationId) (Route, bool) {
	best, ok := r.BestSingle(origin, startTime, dest)
	if !ok {
		return Route{}, false
	}
	if len(best.Parts) == 0 {
		return best, true
	}

	bestArrival := best.Arrival()
	good := best
	for {
		nextOrigin := r.graph.Ensure(Singularity{Station: origin, Time: good.Departure().Add(time.Second)})
		steps, found := r.graph.g.ShortestPath(nextOrigin, destPredicate(dest))
		if !found {
			break
		}
		candidate := buildRoute(steps)
		if len(candidate.Parts) == 0 || !candidate.Arrival().Equal(bestArrival) {
			break
		}
		good = candidate
	}
	return good, true
}

// Multiple answers Q3: it runs the best-route search from startTime,
// then repeatedly from just past the previous route's first
// departure, and returns every route found, in increasing departure
// order, until no route is found (or an empty route is found, when
// origin == dest). Returned routes are not filtered for dominance: a
// route may share its arrival with a later-departing one.
func (r *Router) Multiple(origin timetable.StationId, startTime time.Time, dest timetable.StationId) []Route {
	var routes []Route

	current := r.graph.Ensure(Singularity{Station: origin, Time: startTime})
	steps, found := r.graph.g.ShortestPath(current, destPredicate(dest))
	for found {
		route := buildRoute(steps)
		routes = append(routes, route)
		if len(route.Parts) == 0 {
			break
		}
		current = r.graph.Ensure(Singularity{Station: origin, Time: route.Departure().Add(time.Second)})
		steps, found = r.graph.g.ShortestPath(current, destPredicate(dest))
	}

	return routes
}
