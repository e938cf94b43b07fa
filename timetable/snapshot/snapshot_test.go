package snapshot

import (
	"bytes"
	"testing"
	"time"

	"harail.dev/harail/timetable"
)

func TestRoundTrip(t *testing.T) {
	dep := 10*time.Hour + 5*time.Minute
	stations := []timetable.Station{
		{Id: 1, Name: "alpha"},
		{Id: 2, Name: "beta"},
	}
	train, err := timetable.NewTrain("T1", []timetable.StopSchedule{
		timetable.NewStopSchedule(1, 10*time.Hour, &dep),
		timetable.NewStopSchedule(2, 11*time.Hour, nil),
	}, []time.Time{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("building train: %v", err)
	}
	original := timetable.FromStationsTrains(stations, []*timetable.Train{train})

	var buf bytes.Buffer
	if err := Write(&buf, original); err != nil {
		t.Fatalf("Write: %v", err)
	}

	restored, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	for _, s := range stations {
		got, ok := restored.Station(s.Id)
		if !ok || got != s {
			t.Errorf("station %d: got %+v, ok=%v, want %+v", s.Id, got, ok, s)
		}
	}

	restoredTrain, ok := restored.Train("T1")
	if !ok {
		t.Fatal("train T1 missing after round trip")
	}
	if len(restoredTrain.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(restoredTrain.Stops))
	}
	if restoredTrain.Stops[0].DepartureOffset != dep {
		t.Errorf("departure offset = %v, want %v", restoredTrain.Stops[0].DepartureOffset, dep)
	}
	if len(restoredTrain.Dates) != 1 || !restoredTrain.Dates[0].Equal(train.Dates[0]) {
		t.Errorf("dates = %v, want %v", restoredTrain.Dates, train.Dates)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a gob stream")))
	if err == nil {
		t.Fatal("expected an error decoding garbage")
	}
}
