package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"harail.dev/harail/timetable"
)

var listStationsCmd = &cobra.Command{
	Use:   "list-stations",
	Short: "Lists all stations",
	Args:  cobra.NoArgs,
	RunE:  runListStations,
}

func init() {
	rootCmd.AddCommand(listStationsCmd)
}

func runListStations(cmd *cobra.Command, args []string) error {
	data, err := loadDatabase()
	if err != nil {
		return err
	}

	stations := data.Stations()
	sort.Slice(stations, func(i, j int) bool { return stations[i].Id < stations[j].Id })

	if jsonOutput {
		out, err := json.MarshalIndent(stations, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, s := range stations {
		fmt.Println(formatStation(s))
	}
	return nil
}

func formatStation(s timetable.Station) string {
	return s.String()
}
