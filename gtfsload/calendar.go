package gtfsload

import (
	"io"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
)

// datesOf converts a date set into a sorted slice. A nil set (a trip
// whose service_id matched no calendar row at all) yields an empty
// train schedule rather than an error; NewTrain accepts that.
func datesOf(set map[time.Time]bool) []time.Time {
	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

type calendarCSV struct {
	ServiceID string `csv:"service_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

func parseGTFSDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("20060102", s, time.UTC)
	if err != nil {
		return time.Time{}, herrors.WrapGTFS(err, "parsing date %q", s)
	}
	return t, nil
}

// parseCalendar expands each service_id's weekday pattern over its
// [start_date, end_date] range into an explicit set of calendar
// dates. calendar_dates.txt additions/removals are layered on top by
// applyCalendarDates.
func parseCalendar(data io.Reader) (map[string]map[time.Time]bool, error) {
	rows := []*calendarCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, herrors.WrapGTFS(err, "unmarshaling calendar.txt")
	}

	result := map[string]map[time.Time]bool{}
	seen := map[string]bool{}

	for _, c := range rows {
		if c.ServiceID == "" {
			return nil, herrors.GTFSErrorf("empty service_id")
		}
		if seen[c.ServiceID] {
			return nil, herrors.GTFSErrorf("repeated service_id %q", c.ServiceID)
		}
		seen[c.ServiceID] = true

		weekday := [7]bool{}
		weekday[time.Sunday] = c.Sunday == 1
		weekday[time.Monday] = c.Monday == 1
		weekday[time.Tuesday] = c.Tuesday == 1
		weekday[time.Wednesday] = c.Wednesday == 1
		weekday[time.Thursday] = c.Thursday == 1
		weekday[time.Friday] = c.Friday == 1
		weekday[time.Saturday] = c.Saturday == 1

		start, err := parseGTFSDate(c.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseGTFSDate(c.EndDate)
		if err != nil {
			return nil, err
		}

		dates := map[time.Time]bool{}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if weekday[d.Weekday()] {
				dates[d] = true
			}
		}
		result[c.ServiceID] = dates
	}

	return result, nil
}
