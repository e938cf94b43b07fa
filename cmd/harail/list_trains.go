package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"harail.dev/harail/herrors"
)

var listTrainsCmd = &cobra.Command{
	Use:   "list-trains",
	Short: "Lists all trains",
	Args:  cobra.NoArgs,
	RunE:  runListTrains,
}

func init() {
	rootCmd.AddCommand(listTrainsCmd)
}

func runListTrains(cmd *cobra.Command, args []string) error {
	data, err := loadDatabase()
	if err != nil {
		return err
	}

	trains := data.Trains()
	sort.Slice(trains, func(i, j int) bool { return trains[i].Id < trains[j].Id })

	for _, t := range trains {
		if len(t.Stops) == 0 {
			continue
		}
		first, last := t.Stops[0], t.Stops[len(t.Stops)-1]
		firstStation, ok := data.Station(first.Station)
		if !ok {
			return herrors.GTFSErrorf("train %q references unknown station", t.Id)
		}
		lastStation, ok := data.Station(last.Station)
		if !ok {
			return herrors.GTFSErrorf("train %q references unknown station", t.Id)
		}
		fmt.Printf("%s : %s (%s) -> %s (%s)\n",
			t.Id, firstStation.Name, first.DepartureOffset, lastStation.Name, last.ArrivalOffset)
	}
	return nil
}
