package gtfsload

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"harail.dev/harail/herrors"
)

type calendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

// applyCalendarDates layers calendar_dates.txt's per-date
// additions (exception_type 1) and removals (exception_type 2) onto
// serviceDates, mutating it in place. A service_id absent from
// calendar.txt (common for exception-only feeds) is created here as
// needed.
func applyCalendarDates(data io.Reader, serviceDates map[string]map[time.Time]bool) error {
	rows := []*calendarDateCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return herrors.WrapGTFS(err, "unmarshaling calendar_dates.txt")
	}

	seen := map[string]bool{}
	for _, cd := range rows {
		if cd.ExceptionType != 1 && cd.ExceptionType != 2 {
			return herrors.GTFSErrorf("illegal exception_type %d", cd.ExceptionType)
		}

		date, err := parseGTFSDate(cd.Date)
		if err != nil {
			return err
		}

		key := cd.Date + "/" + cd.ServiceID
		if seen[key] {
			return herrors.GTFSErrorf("duplicate service/date %q", key)
		}
		seen[key] = true

		dates, ok := serviceDates[cd.ServiceID]
		if !ok {
			dates = map[time.Time]bool{}
			serviceDates[cd.ServiceID] = dates
		}

		switch cd.ExceptionType {
		case 1:
			dates[date] = true
		case 2:
			delete(dates, date)
		}
	}

	return nil
}
