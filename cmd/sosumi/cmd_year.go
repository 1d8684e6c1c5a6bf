package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smith-tools/sosumi/internal/query"
	"github.com/smith-tools/sosumi/internal/render"
)

var (
	yearMode   string
	yearFormat string
	yearLimit  int
)

var yearCmd = &cobra.Command{
	Use:   "year <YEAR>",
	Short: "List every WWDC session published in a given year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return &query.ValidationError{Field: "year", Reason: "must be an integer"}
		}
		mode, err := render.ParseMode(yearMode)
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(yearFormat)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		rendered, err := app.ListYear(ctx, year, mode, format, yearLimit)
		if err != nil {
			return err
		}
		return printRendered(rendered)
	},
}

func init() {
	yearCmd.Flags().StringVar(&yearMode, "mode", "user", "user|agent")
	yearCmd.Flags().StringVar(&yearFormat, "format", "markdown", "markdown|json")
	yearCmd.Flags().IntVar(&yearLimit, "limit", 0, "maximum number of results (0 = default)")
}
