package gtfsload

import (
	"io"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
)

type agencyCSV struct {
	ID   string `csv:"agency_id"`
	Name string `csv:"agency_name"`
}

// parseAgency returns every agency_id -> agency_name pair in the
// feed. A feed with a single agency and no agency_id column yields
// one entry keyed by the empty string, matching GTFS's "agency_id is
// optional for single-agency feeds" rule.
func parseAgency(data io.Reader) (map[string]string, error) {
	rows := []*agencyCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, herrors.WrapGTFS(err, "unmarshaling agency.txt")
	}
	if len(rows) == 0 {
		return nil, herrors.GTFSErrorf("no agency record found")
	}

	agencies := map[string]string{}
	for _, a := range rows {
		if _, dup := agencies[a.ID]; dup {
			return nil, herrors.GTFSErrorf("duplicated agency_id %q", a.ID)
		}
		if a.Name == "" {
			return nil, herrors.GTFSErrorf("agency %q has no agency_name", a.ID)
		}
		agencies[a.ID] = a.Name
	}
	return agencies, nil
}
