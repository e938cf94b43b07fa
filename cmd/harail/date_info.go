package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"harail.dev/harail/herrors"
)

var dateInfoCmd = &cobra.Command{
	Use:   "date-info",
	Short: "Print information regarding the database start and expiration dates",
	Args:  cobra.NoArgs,
	RunE:  runDateInfo,
}

func init() {
	rootCmd.AddCommand(dateInfoCmd)
}

func runDateInfo(cmd *cobra.Command, args []string) error {
	data, err := loadDatabase()
	if err != nil {
		return err
	}

	start, ok := data.StartDate()
	if !ok {
		return herrors.UsageErrorf("empty database")
	}
	end, ok := data.EndDate()
	if !ok {
		return herrors.UsageErrorf("empty database")
	}

	fmt.Printf("%s - %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	return nil
}
