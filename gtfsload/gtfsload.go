// Package gtfsload ingests a GTFS static feed (zip archive or an
// already-extracted directory) into a timetable.RailroadData catalog.
//
// It keeps only the agency named by Options.AgencyName, defaulting to
// DefaultAgencyName when unset: routes, trips, stops and stop_times
// belonging to any other agency are dropped during ingestion rather
// than carried into the catalog and filtered later, mirroring the
// original project's habit of scoping straight to a single national
// operator's feed.
package gtfsload

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
)

// requiredFiles are the GTFS tables a static feed must carry for this
// package to build a useful catalog. calendar.txt and
// calendar_dates.txt are handled separately since a feed only needs
// to carry one of the two.
var requiredFiles = []string{"agency.txt", "routes.txt", "stops.txt", "trips.txt", "stop_times.txt"}

// DefaultAgencyName is the agency ingestion scopes to when a caller
// doesn't request a different one: Israel Railways, the only operator
// the national GTFS feed this project targets actually carries
// passenger rail under.
const DefaultAgencyName = "רכבת ישראל"

// Options configures ingestion.
type Options struct {
	// AgencyName restricts the catalog to the named agency's routes.
	// Empty means DefaultAgencyName; callers that genuinely want
	// every agency in the feed (e.g. tests against a fixture feed
	// that isn't Israel Railways) must pass the fixture's own agency
	// name explicitly.
	AgencyName string
}

func (o Options) agencyName() string {
	if o.AgencyName == "" {
		return DefaultAgencyName
	}
	return o.AgencyName
}

// FromZip reads a GTFS static feed from a zip archive on disk.
func FromZip(path string, opts Options) (*timetable.RailroadData, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.WrapIO(err, "read %s", path)
	}
	return FromZipBytes(buf, opts)
}

// FromZipBytes reads a GTFS static feed from an in-memory zip archive,
// for callers that already have the feed body (e.g. a freshly
// downloaded HTTP response) and don't want to stage it to disk first.
func FromZipBytes(buf []byte, opts Options) (*timetable.RailroadData, error) {
	files, closeAll, err := openZip(buf)
	if err != nil {
		return nil, err
	}
	defer closeAll()
	return loadWithOptions(files, opts)
}

// FromDirectory reads a GTFS static feed already extracted to dir.
func FromDirectory(dir string, opts Options) (*timetable.RailroadData, error) {
	files := map[string]io.Reader{}
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, name := range wantedFileNames() {
		f, err := os.Open(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, herrors.WrapIO(err, "open %s", name)
		}
		closers = append(closers, f)
		files[name] = f
	}

	return loadWithOptions(files, opts)
}

func wantedFileNames() []string {
	return append(append([]string{}, requiredFiles...), "calendar.txt", "calendar_dates.txt")
}

func openZip(buf []byte) (map[string]io.Reader, func(), error) {
	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, nil, herrors.WrapGTFS(err, "open zip")
	}

	wanted := map[string]bool{}
	for _, name := range wantedFileNames() {
		wanted[name] = true
	}

	files := map[string]io.Reader{}
	var opened []io.ReadCloser
	closeAll := func() {
		for _, rc := range opened {
			rc.Close()
		}
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		if !wanted[name] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			closeAll()
			return nil, nil, herrors.WrapGTFS(err, "open %s in zip", name)
		}
		opened = append(opened, rc)
		files[name] = rc
	}

	return files, closeAll, nil
}

func gocsvReader(r io.Reader) gocsv.CSVReader {
	return gocsv.LazyCSVReader(bom.NewReader(r))
}

func loadWithOptions(files map[string]io.Reader, opts Options) (*timetable.RailroadData, error) {
	if files["calendar.txt"] == nil && files["calendar_dates.txt"] == nil {
		return nil, herrors.GTFSErrorf("missing calendar.txt and calendar_dates.txt")
	}
	for _, name := range requiredFiles {
		if files[name] == nil {
			return nil, herrors.GTFSErrorf("missing %s", name)
		}
	}

	gocsv.SetCSVReader(gocsvReader)

	agencies, err := parseAgency(files["agency.txt"])
	if err != nil {
		return nil, herrors.WrapGTFS(err, "parsing agency.txt")
	}
	agencyName := opts.agencyName()
	allowedAgency := selectAgencies(agencies, agencyName)
	if len(allowedAgency) == 0 {
		return nil, herrors.GTFSErrorf("agency %q not found in feed", agencyName)
	}

	allowedRoutes, err := parseRoutes(files["routes.txt"], allowedAgency, len(agencies))
	if err != nil {
		return nil, herrors.WrapGTFS(err, "parsing routes.txt")
	}

	serviceDates := map[string]map[time.Time]bool{}
	if files["calendar.txt"] != nil {
		serviceDates, err = parseCalendar(files["calendar.txt"])
		if err != nil {
			return nil, herrors.WrapGTFS(err, "parsing calendar.txt")
		}
	}
	if files["calendar_dates.txt"] != nil {
		if err := applyCalendarDates(files["calendar_dates.txt"], serviceDates); err != nil {
			return nil, herrors.WrapGTFS(err, "parsing calendar_dates.txt")
		}
	}

	tripService, err := parseTrips(files["trips.txt"], allowedRoutes)
	if err != nil {
		return nil, herrors.WrapGTFS(err, "parsing trips.txt")
	}

	stopNames, err := parseStops(files["stops.txt"])
	if err != nil {
		return nil, herrors.WrapGTFS(err, "parsing stops.txt")
	}

	tripStops, usedStops, err := parseStopTimes(files["stop_times.txt"], tripService, stopNames)
	if err != nil {
		return nil, herrors.WrapGTFS(err, "parsing stop_times.txt")
	}

	data := timetable.New()
	for stopID := range usedStops {
		data.AddStation(timetable.Station{Id: stationID(stopID), Name: stopNames[stopID]})
	}

	for tripID, stops := range tripStops {
		dates := datesOf(serviceDates[tripService[tripID]])
		train, err := timetable.NewTrain(timetable.TrainId(tripID), stops, dates)
		if err != nil {
			return nil, herrors.WrapGTFS(err, "trip %q", tripID)
		}
		data.AddTrain(train)
	}

	return data, nil
}

func selectAgencies(agencies map[string]string, name string) map[string]bool {
	selected := map[string]bool{}
	for id, agencyName := range agencies {
		if agencyName == name {
			selected[id] = true
		}
	}
	return selected
}
