package gtfsload

import (
	"io"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
)

type tripCSV struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

// parseTrips returns trip_id -> service_id for every trip whose
// route survived the agency filter. Trips on a dropped route are
// silently skipped rather than rejected, since the feed is expected
// to carry many agencies we don't care about.
func parseTrips(data io.Reader, allowedRoutes map[string]bool) (map[string]string, error) {
	rows := []*tripCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, herrors.WrapGTFS(err, "unmarshaling trips.txt")
	}

	seen := map[string]bool{}
	tripService := map[string]string{}
	for _, t := range rows {
		if t.ID == "" {
			return nil, herrors.GTFSErrorf("empty trip_id")
		}
		if seen[t.ID] {
			return nil, herrors.GTFSErrorf("repeated trip_id %q", t.ID)
		}
		seen[t.ID] = true

		if !allowedRoutes[t.RouteID] {
			continue
		}
		if t.ServiceID == "" {
			return nil, herrors.GTFSErrorf("trip %q has no service_id", t.ID)
		}
		tripService[t.ID] = t.ServiceID
	}
	return tripService, nil
}
