package gtfsload

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
)

type stopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

// parseGTFSTime parses a GTFS HH:MM:SS field into a time.Duration
// offset from midnight. Hours are not range-checked against 24: GTFS
// allows values past midnight for trips that run into the next
// service day, and that value must be preserved verbatim rather than
// wrapped, per timetable's no-modulo-24h rule.
func parseGTFSTime(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, herrors.GTFSErrorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, herrors.GTFSErrorf("malformed hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, herrors.GTFSErrorf("malformed minute in %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, herrors.GTFSErrorf("malformed second in %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

type stopTimeRow struct {
	sequence  int
	schedule  timetable.StopSchedule
}

// parseStopTimes builds each kept trip's ordered stop list. Rows for
// trips that were filtered out upstream (tripService doesn't carry
// them) are skipped. usedStops collects every stop_id actually
// referenced by a kept trip.
func parseStopTimes(data io.Reader, tripService map[string]string, stopNames map[string]string) (map[string][]timetable.StopSchedule, map[string]bool, error) {
	rowsByTrip := map[string][]stopTimeRow{}
	usedStops := map[string]bool{}

	i := 0
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *stopTimeCSV) error {
		i++
		if _, kept := tripService[st.TripID]; !kept {
			return nil
		}
		if st.StopID == "" {
			return fmt.Errorf("missing stop_id (row %d)", i)
		}
		if _, ok := stopNames[st.StopID]; !ok {
			return fmt.Errorf("unknown stop_id %q (row %d)", st.StopID, i)
		}

		arrival, err := parseGTFSTime(st.ArrivalTime)
		if err != nil {
			return fmt.Errorf("arrival_time (row %d): %w", i, err)
		}
		departure, err := parseGTFSTime(st.DepartureTime)
		if err != nil {
			return fmt.Errorf("departure_time (row %d): %w", i, err)
		}

		usedStops[st.StopID] = true
		rowsByTrip[st.TripID] = append(rowsByTrip[st.TripID], stopTimeRow{
			sequence: st.StopSequence,
			schedule: timetable.StopSchedule{
				Station:         stationID(st.StopID),
				ArrivalOffset:   arrival,
				DepartureOffset: departure,
			},
		})
		return nil
	})
	if err != nil {
		return nil, nil, herrors.WrapGTFS(err, "unmarshaling stop_times.txt")
	}

	tripStops := make(map[string][]timetable.StopSchedule, len(rowsByTrip))
	for tripID, rows := range rowsByTrip {
		sort.Slice(rows, func(i, j int) bool { return rows[i].sequence < rows[j].sequence })
		for i := 1; i < len(rows); i++ {
			if rows[i].sequence == rows[i-1].sequence {
				return nil, nil, herrors.GTFSErrorf("duplicate stop_sequence %d for trip %q", rows[i].sequence, tripID)
			}
		}
		for i, r := range rows {
			if r.sequence == 0 {
				return nil, nil, herrors.GTFSErrorf("stop_sequence 0 for trip %q", tripID)
			}
			if r.sequence != i+1 {
				return nil, nil, herrors.GTFSErrorf("gap in stop_sequence before %d for trip %q", r.sequence, tripID)
			}
		}
		stops := make([]timetable.StopSchedule, len(rows))
		for i, r := range rows {
			stops[i] = r.schedule
		}
		tripStops[tripID] = stops
	}

	return tripStops, usedStops, nil
}
