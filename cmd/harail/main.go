// Command harail is the itinerary-planning CLI: parse a GTFS feed into
// a snapshot database, inspect it, and query routes against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
	"harail.dev/harail/timetable/snapshot"
)

var rootCmd = &cobra.Command{
	Use:          "harail",
	Short:        "HaRail itinerary planner",
	Long:         "Finds train routes over a time-expanded GTFS schedule.",
	SilenceUsage: true,
}

var (
	dbPath     string
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "D", "", "the harail database file to use")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "output in JSON format")
}

// loadDatabase reads and decodes the snapshot at dbPath. Every
// subcommand but parse-gtfs needs one already built.
func loadDatabase() (*timetable.RailroadData, error) {
	if dbPath == "" {
		return nil, herrors.UsageErrorf("--db is required")
	}
	f, err := os.Open(dbPath)
	if err != nil {
		return nil, herrors.WrapIO(err, "open database file")
	}
	defer f.Close()

	data, err := snapshot.Read(f)
	if err != nil {
		return nil, herrors.WrapSerialization(err, "decode database file")
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
