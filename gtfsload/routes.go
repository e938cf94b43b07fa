package gtfsload

import (
	"io"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
)

type routeCSV struct {
	ID       string `csv:"route_id"`
	AgencyID string `csv:"agency_id"`
}

// parseRoutes returns the set of route_ids belonging to one of
// allowedAgency. When a route omits agency_id (legal only for
// single-agency feeds), it's kept whenever that one agency is
// allowed.
func parseRoutes(data io.Reader, allowedAgency map[string]bool, agencyCount int) (map[string]bool, error) {
	rows := []*routeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, herrors.WrapGTFS(err, "unmarshaling routes.txt")
	}

	seen := map[string]bool{}
	allowed := map[string]bool{}
	for _, r := range rows {
		if r.ID == "" {
			return nil, herrors.GTFSErrorf("route has no route_id")
		}
		if seen[r.ID] {
			return nil, herrors.GTFSErrorf("repeated route_id %q", r.ID)
		}
		seen[r.ID] = true

		if r.AgencyID == "" && agencyCount > 1 {
			return nil, herrors.GTFSErrorf("route_id %q has no agency_id", r.ID)
		}

		if allowedAgency[r.AgencyID] || (r.AgencyID == "" && len(allowedAgency) > 0) {
			allowed[r.ID] = true
		}
	}
	return allowed, nil
}
