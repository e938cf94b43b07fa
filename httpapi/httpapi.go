// Package httpapi serves a read-only HTTP surface over a
// timetable.RailroadData catalog: station listing, a train's stop
// sequence on a given date, and the three itinerary queries.
//
// Grounded on KhalidEchchahid-transit-app's chi + rs/cors stack, the
// only example repo carrying an HTTP router dependency.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"harail.dev/harail/engine"
	"harail.dev/harail/timetable"
)

// CatalogSource returns the catalog to answer a request against. It's
// a function rather than a plain field so the server always sees
// feedmgr's latest refreshed catalog without needing its own refresh
// logic.
type CatalogSource func() (*timetable.RailroadData, error)

// Server wires a CatalogSource into a chi.Router.
type Server struct {
	Catalog     CatalogSource
	CORSOrigins []string
}

// NewServer builds a Server. An empty CORSOrigins means "allow any
// origin", appropriate for a public read API.
func NewServer(catalog CatalogSource, corsOrigins []string) *Server {
	return &Server{Catalog: catalog, CORSOrigins: corsOrigins}
}

// Router builds the chi.Router serving this Server's routes.
func (s *Server) Router() http.Handler {
	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
	}).Handler)

	r.Route("/harail", func(r chi.Router) {
		r.Get("/stations", s.handleStations)
		r.Get("/trains/{id}/stops/{date}", s.handleTrainStops)
		r.Get("/routes/find", s.handleFindRoutes)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	data, err := s.Catalog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stations := data.Stations()
	sort.Slice(stations, func(i, j int) bool { return stations[i].Id < stations[j].Id })
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleTrainStops(w http.ResponseWriter, r *http.Request) {
	data, err := s.Catalog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	trainID := chi.URLParam(r, "id")
	date, err := time.Parse(time.RFC3339, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be RFC3339")
		return
	}

	train, ok := data.Train(timetable.TrainId(trainID))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown train")
		return
	}

	active := false
	for _, d := range train.Dates {
		if d.Year() == date.Year() && d.YearDay() == date.YearDay() {
			active = true
			break
		}
	}
	if !active {
		writeError(w, http.StatusNotFound, "train not active on given date")
		return
	}

	stops := make([]timetable.Stop, 0, len(train.Stops))
	for _, sched := range train.Stops {
		stop, ok := timetable.InflateStop(data, sched, date)
		if !ok {
			writeError(w, http.StatusInternalServerError, "train references unknown station")
			return
		}
		stops = append(stops, stop)
	}
	writeJSON(w, http.StatusOK, stops)
}

func (s *Server) handleFindRoutes(w http.ResponseWriter, r *http.Request) {
	data, err := s.Catalog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := r.URL.Query()
	search := q.Get("search")
	startTime, err := time.Parse(time.RFC3339, q.Get("start_time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_time must be RFC3339")
		return
	}
	endTime, err := time.Parse(time.RFC3339, q.Get("end_time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_time must be RFC3339")
		return
	}

	startID, err := strconv.ParseUint(q.Get("start_station"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_station must be a station id")
		return
	}
	endID, err := strconv.ParseUint(q.Get("end_station"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_station must be a station id")
		return
	}

	startStation, ok := data.Station(timetable.StationId(startID))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown start station")
		return
	}
	endStation, ok := data.Station(timetable.StationId(endID))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown end station")
		return
	}

	graph := engine.Build(data, startTime, endTime)
	router := engine.NewRouter(graph)

	switch search {
	case "multi":
		routes := router.Multiple(startStation.Id, startTime, endStation.Id)
		writeJSON(w, http.StatusOK, routes)
	case "latest":
		route, ok := router.LatestGood(startStation.Id, startTime, endStation.Id)
		if !ok {
			writeError(w, http.StatusNotFound, "no route found")
			return
		}
		writeJSON(w, http.StatusOK, route)
	case "best", "":
		route, ok := router.BestSingle(startStation.Id, startTime, endStation.Id)
		if !ok {
			writeError(w, http.StatusNotFound, "no route found")
			return
		}
		writeJSON(w, http.StatusOK, route)
	default:
		writeError(w, http.StatusBadRequest, "search must be one of best, latest, multi")
	}
}
