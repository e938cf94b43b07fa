// Package snapshot persists a timetable.RailroadData catalog to an
// opaque binary blob and restores it again. It exists so a feed
// manager can cache a parsed GTFS feed without re-running CSV
// ingestion on every process start.
//
// The format is encoding/gob: none of the example repos this project
// was grounded on pull in a third-party serialization library, and
// gob already round-trips exported structs (including time.Time and
// time.Duration) without any schema work, so there's nothing a
// dependency would buy here.
package snapshot

import (
	"encoding/gob"
	"io"

	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
)

// catalog is the only thing actually written to disk: the exported
// slices a RailroadData is built from. RailroadData itself keeps its
// lookup maps unexported, so gob can't see them directly.
type catalog struct {
	Stations []timetable.Station
	Trains   []*timetable.Train
}

// Write encodes data's catalog to w.
func Write(w io.Writer, data *timetable.RailroadData) error {
	c := catalog{Stations: data.Stations(), Trains: data.Trains()}
	if err := gob.NewEncoder(w).Encode(&c); err != nil {
		return herrors.WrapIO(err, "write snapshot")
	}
	return nil
}

// Read decodes a catalog previously written by Write.
func Read(r io.Reader) (*timetable.RailroadData, error) {
	var c catalog
	if err := gob.NewDecoder(r).Decode(&c); err != nil {
		return nil, herrors.WrapSerialization(err, "read snapshot")
	}
	return timetable.FromStationsTrains(c.Stations, c.Trains), nil
}
