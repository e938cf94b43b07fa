package gtfsload

import (
	"hash/fnv"
	"io"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
)

type stopCSV struct {
	ID   string `csv:"stop_id"`
	Name string `csv:"stop_name"`
}

// parseStops returns stop_id -> stop_name for every stop in the feed.
// Stations not referenced by any kept trip's stop_times are dropped
// from the final catalog by the caller, not here.
func parseStops(data io.Reader) (map[string]string, error) {
	rows := []*stopCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, herrors.WrapGTFS(err, "unmarshaling stops.txt")
	}

	names := map[string]string{}
	for _, s := range rows {
		if s.ID == "" {
			return nil, herrors.GTFSErrorf("empty stop_id")
		}
		if _, dup := names[s.ID]; dup {
			return nil, herrors.GTFSErrorf("repeated stop_id %q", s.ID)
		}
		if s.Name == "" {
			return nil, herrors.GTFSErrorf("stop %q has no stop_name", s.ID)
		}
		names[s.ID] = s.Name
	}
	return names, nil
}

// stationID maps a GTFS stop_id string onto the uint64 space
// timetable.StationId occupies. FNV-1a is deterministic across runs,
// which matters: re-ingesting the same feed must reproduce the same
// station identifiers a previously cached snapshot used.
func stationID(stopID string) timetable.StationId {
	h := fnv.New64a()
	h.Write([]byte(stopID))
	return timetable.StationId(h.Sum64())
}
