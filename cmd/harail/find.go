package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"harail.dev/harail/engine"
	"harail.dev/harail/herrors"
)

var (
	findDate         string
	findTime         string
	findLengthDays   int
	findDelayedLeave bool
	findMultiple     bool
)

var findCmd = &cobra.Command{
	Use:   "find <START_STATION> <DEST_STATION>",
	Short: "Find paths between stations",
	Args:  cobra.ExactArgs(2),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().StringVarP(&findDate, "date", "d", "", "date in DD/MM/YYYY format (default: today)")
	findCmd.Flags().StringVarP(&findTime, "time", "t", "", "time in HH:MM:SS format (default: midnight)")
	findCmd.Flags().IntVarP(&findLengthDays, "length", "l", 1, "length, in days, of the time period to search in")
	// --delayed-leave selects Q2 (LatestGood): the intended behavior per
	// the original project's design, implemented under its own flag
	// name rather than the ambiguous lookup some earlier builds used.
	findCmd.Flags().BoolVar(&findDelayedLeave, "delayed-leave", false, "delay leaving time if destination time is not impacted")
	findCmd.Flags().BoolVarP(&findMultiple, "multiple", "m", false, "show multiple train options")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	data, err := loadDatabase()
	if err != nil {
		return err
	}

	startDate := time.Now().UTC()
	if findDate != "" {
		startDate, err = time.Parse("02/01/2006", findDate)
		if err != nil {
			return herrors.UsageErrorf("failed to parse date")
		}
	}
	startTimeOfDay := time.Duration(0)
	if findTime != "" {
		parsed, err := time.Parse("15:04:05", findTime)
		if err != nil {
			return herrors.UsageErrorf("failed to parse time")
		}
		startTimeOfDay = time.Duration(parsed.Hour())*time.Hour +
			time.Duration(parsed.Minute())*time.Minute +
			time.Duration(parsed.Second())*time.Second
	}
	startTime := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC).Add(startTimeOfDay)
	endTime := startTime.AddDate(0, 0, findLengthDays)

	startStation, ok := data.FindStation(args[0])
	if !ok {
		return herrors.UsageErrorf("could not find source station")
	}
	destStation, ok := data.FindStation(args[1])
	if !ok {
		return herrors.UsageErrorf("could not find dest station")
	}

	graph := engine.Build(data, startTime, endTime)
	router := engine.NewRouter(graph)

	var routes []engine.Route
	switch {
	case findMultiple:
		routes = router.Multiple(startStation.Id, startTime, destStation.Id)
	case findDelayedLeave:
		route, ok := router.LatestGood(startStation.Id, startTime, destStation.Id)
		if !ok {
			return herrors.UsageErrorf("no such route")
		}
		routes = []engine.Route{route}
	default:
		route, ok := router.BestSingle(startStation.Id, startTime, destStation.Id)
		if !ok {
			return herrors.UsageErrorf("no such route")
		}
		routes = []engine.Route{route}
	}

	if jsonOutput {
		out, err := json.MarshalIndent(routes, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, route := range routes {
		fmt.Println(route)
	}
	return nil
}
