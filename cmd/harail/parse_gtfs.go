package main

import (
	"os"

	"github.com/spf13/cobra"

	"harail.dev/harail/gtfsload"
	"harail.dev/harail/herrors"
	"harail.dev/harail/timetable"
	"harail.dev/harail/timetable/snapshot"
)

var parseGTFSAgency string

var parseGTFSCmd = &cobra.Command{
	Use:   "parse-gtfs <GTFS_PATH>",
	Short: "Parse a GTFS database into the harail database format",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseGTFS,
}

func init() {
	parseGTFSCmd.Flags().StringVar(&parseGTFSAgency, "agency", "", "restrict ingestion to the named agency (default: "+gtfsload.DefaultAgencyName+")")
	rootCmd.AddCommand(parseGTFSCmd)
}

func runParseGTFS(cmd *cobra.Command, args []string) error {
	gtfsPath := args[0]
	if dbPath == "" {
		return herrors.UsageErrorf("--db is required")
	}

	info, err := os.Stat(gtfsPath)
	if err != nil {
		return herrors.WrapIO(err, "could not load GTFS database")
	}

	opts := gtfsload.Options{AgencyName: parseGTFSAgency}
	var data *timetable.RailroadData
	if info.IsDir() {
		data, err = gtfsload.FromDirectory(gtfsPath, opts)
	} else {
		data, err = gtfsload.FromZip(gtfsPath, opts)
	}
	if err != nil {
		return herrors.WrapGTFS(err, "could not load GTFS database")
	}

	f, err := os.Create(dbPath)
	if err != nil {
		return herrors.WrapIO(err, "could not open database file for writing")
	}
	defer f.Close()

	if err := snapshot.Write(f, data); err != nil {
		return err
	}

	return nil
}
